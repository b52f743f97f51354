package internal

import (
	"cpq/quad"
	"cpq/util"
	"fmt"
	"strings"
)

type PrimitiveType int

const (
	UnknownType PrimitiveType = iota
	IntegerType
	RealType
)

func (tp PrimitiveType) String() string {
	switch tp {
	case IntegerType:
		return "int"
	case RealType:
		return "float"
	}
	return "unknown"
}

func (tp PrimitiveType) quadType() quad.Type {
	switch tp {
	case IntegerType:
		return quad.Int
	case RealType:
		return quad.Real
	}
	return quad.Untyped
}

// SymbolTable maps every variable of one compilation, declared or generated, to its type.
// It also mints the temporaries and labels of that compilation.
type SymbolTable struct {
	symbols            map[string]PrimitiveType
	temporaryIndicator int // used for temporary names
	labelIndicator     int // used for label names
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]PrimitiveType{}}
}

// Declare inserts or overwrites name.
func (table *SymbolTable) Declare(name string, tp PrimitiveType) {
	table.symbols[name] = tp
}

func (table *SymbolTable) TypeOf(name string) (PrimitiveType, bool) {
	tp, ok := table.symbols[name]
	return tp, ok
}

func (table *SymbolTable) Len() int {
	return len(table.symbols)
}

// FreshTemporary returns a t<n> name not yet in the table and declares it as tp.
func (table *SymbolTable) FreshTemporary(tp PrimitiveType) string {
	for {
		table.temporaryIndicator++
		name := fmt.Sprintf("t%d", table.temporaryIndicator)
		if _, exist := table.symbols[name]; exist {
			continue
		}
		table.symbols[name] = tp
		return name
	}
}

// FreshLabel returns a new L<n> label. Labels live in their own namespace and are never
// declared.
func (table *SymbolTable) FreshLabel() string {
	table.labelIndicator++
	return fmt.Sprintf("L%d", table.labelIndicator)
}

// IsNumericLiteral reports whether text matches digits '.' digits* or digits.
func IsNumericLiteral(text string) bool {
	if text == "" || !util.IsNumber(text[0]) {
		return false
	}
	dot := false
	for i := 0; i < len(text); i++ {
		switch {
		case util.IsNumber(text[i]):
		case text[i] == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}

func LiteralType(text string) PrimitiveType {
	if strings.Contains(text, ".") {
		return RealType
	}
	return IntegerType
}
