package internal

import (
	"fmt"
	"sort"
	"strings"
)

type ErrorRecord struct {
	Line    int
	Message string
}

func (record ErrorRecord) String() string {
	return fmt.Sprintf("line %d: %s", record.Line, record.Message)
}

// ErrorList collects the recoverable errors of one compilation in discovery order.
type ErrorList struct {
	records []ErrorRecord
}

func (list *ErrorList) Record(line int, msg string) {
	list.records = append(list.records, ErrorRecord{Line: line, Message: msg})
}

func (list *ErrorList) Recordf(line int, format string, args ...interface{}) {
	list.Record(line, fmt.Sprintf(format, args...))
}

func (list *ErrorList) HasErrors() bool {
	return len(list.records) > 0
}

// Drain returns all records and empties the list.
func (list *ErrorList) Drain() []ErrorRecord {
	records := list.records
	list.records = nil
	return records
}

// SyntaxError is a grammar violation. It stops the compilation.
type SyntaxError struct {
	Line int
	Near string
	EOF  bool
}

func (err *SyntaxError) Error() string {
	if err.EOF {
		return fmt.Sprintf("line %d: syntax error: unexpected end of input", err.Line)
	}
	return fmt.Sprintf("line %d: syntax error near %q", err.Line, err.Near)
}

// UndeclaredError is a reference to a variable missing from the declarations. It stops the
// compilation.
type UndeclaredError struct {
	Line int
	Name string
}

func (err *UndeclaredError) Error() string {
	return fmt.Sprintf("line %d: undeclared identifier %q", err.Line, err.Name)
}

// CompileError is returned by Compile when no code is produced. Records holds the collected
// lexical and type errors ordered by line, Fatal the error which stopped the compilation, if
// any. The whole program is scanned before it is translated, so line order stands in for the
// order a single pass would find them in: on a shared line lexical errors come first.
type CompileError struct {
	Records []ErrorRecord
	Fatal   error
}

func (err *CompileError) Error() string {
	return strings.Join(err.Diagnostics(), "\n")
}

func (err *CompileError) Unwrap() error {
	return err.Fatal
}

// Diagnostics returns one message per line, the fatal error last.
func (err *CompileError) Diagnostics() []string {
	var lines []string
	for _, record := range err.Records {
		lines = append(lines, record.String())
	}
	if err.Fatal != nil {
		lines = append(lines, err.Fatal.Error())
	}
	return lines
}

// mergeRecords merges the lexical records found while parsing with the records found while
// translating, keeping source order.
func mergeRecords(lexical, semantic []ErrorRecord) []ErrorRecord {
	records := append(append([]ErrorRecord{}, lexical...), semantic...)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Line < records[j].Line
	})
	return records
}
