package internal

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestErrorList(t *testing.T) {
	list := &ErrorList{}
	assert.False(t, list.HasErrors())
	assert.Empty(t, list.Drain())

	list.Record(3, "first")
	list.Recordf(1, "second %s", "error")
	assert.True(t, list.HasErrors())

	records := list.Drain()
	assert.Equal(t, []ErrorRecord{{Line: 3, Message: "first"}, {Line: 1, Message: "second error"}}, records)
	assert.False(t, list.HasErrors())
	assert.Empty(t, list.Drain())
}

func TestMergeRecords(t *testing.T) {
	lexical := []ErrorRecord{{Line: 2, Message: "bad character '@'"}, {Line: 5, Message: "bad character '$'"}}
	semantic := []ErrorRecord{{Line: 1, Message: "a"}, {Line: 2, Message: "b"}, {Line: 7, Message: "c"}}
	merged := mergeRecords(lexical, semantic)
	assert.Equal(t, []ErrorRecord{
		{Line: 1, Message: "a"},
		{Line: 2, Message: "bad character '@'"},
		{Line: 2, Message: "b"},
		{Line: 5, Message: "bad character '$'"},
		{Line: 7, Message: "c"},
	}, merged)
}

func TestCompileError(t *testing.T) {
	syntaxErr := &SyntaxError{Line: 4, Near: "}"}
	err := &CompileError{
		Records: []ErrorRecord{{Line: 2, Message: "bad character '@'"}},
		Fatal:   syntaxErr,
	}
	assert.Equal(t, []string{"line 2: bad character '@'", `line 4: syntax error near "}"`}, err.Diagnostics())
	assert.Equal(t, "line 2: bad character '@'\nline 4: syntax error near \"}\"", err.Error())

	var target *SyntaxError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, 4, target.Line)

	var undeclared *UndeclaredError
	assert.False(t, errors.As(err, &undeclared))

	eof := &SyntaxError{Line: 9, EOF: true}
	assert.Equal(t, "line 9: syntax error: unexpected end of input", eof.Error())
	assert.Equal(t, `line 1: undeclared identifier "z"`, (&UndeclaredError{Line: 1, Name: "z"}).Error())
}
