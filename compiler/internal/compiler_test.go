package internal

import (
	"cpq/quad"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

var samplePrograms = []string{
	"a,b:float;{input(a);input(b);if(a<b)output(a);else output(b);}",
	`/* sum the numbers up to n */
	n, i, sum: int;
	avg: float;
	{
		input(n);
		i = 1;
		sum = 0;
		while (i <= n && !(n == 0)) {
			sum = sum + i;
			i = i + 1;
		}
		avg = static_cast<float>(sum) / n;
		output(sum);
		output(avg);
	}`,
	`x: int; y: float;
	{
		input(x);
		switch (x * 2) {
			case 2: output(1);
			case 4: output(2); break;
			default: y = x + 0.5; output(y);
		}
		while (x >= 0 || y > 3.) {
			if (x < 10) { x = x - 1; } else { break; }
			y = y / 2;
		}
	}`,
	"t1, t2: int; L1: float; { t1 = t2 * 3 + t1; L1 = t1 + L1; output(L1); }",
}

func TestCompile_Samples(t *testing.T) {
	for _, sample := range samplePrograms {
		code, err := Compile(sample)
		require.Nil(t, err, sample)
		assert.True(t, strings.HasSuffix(code, "HALT\n"), sample)
		second, err := Compile(sample)
		require.Nil(t, err)
		assert.Equal(t, code, second, "compile must not keep state between calls")
	}
}

func TestCompile_FirstSample(t *testing.T) {
	code, err := Compile(samplePrograms[0])
	require.Nil(t, err)
	assert.Equal(t, lines(
		"RINPUT a",
		"RINPUT b",
		"RLSS t1 a b",
		"JMPZ L1 t1",
		"RPRINT a",
		"JUMP L2",
		"L1:",
		"RPRINT b",
		"L2:",
		"HALT",
	), code)
}

// checkWellFormed verifies the generated code against the symbol table of its compilation.
func checkWellFormed(t *testing.T, source string) {
	program, err := newTestParser(source).ParseProgram()
	require.Nil(t, err, source)
	symbols, errs := NewSymbolTable(), &ErrorList{}
	code, err := NewTranslator(symbols, errs).TranslateProgram(program)
	require.Nil(t, err, source)
	require.False(t, errs.HasErrors(), source)

	declared := map[string]bool{}
	for _, declaration := range program.Declarations {
		for _, name := range declaration.Names {
			declared[name] = true
		}
	}
	parsed, err := quad.ParseProgram(code)
	require.Nil(t, err, code)
	require.NotEmpty(t, parsed)
	last := parsed[len(parsed)-1].Instruction
	require.NotNil(t, last)
	assert.Equal(t, quad.HaltOp, last.Op)

	operandType := func(tp quad.Type, arg string) {
		if IsNumericLiteral(arg) {
			assert.Equal(t, LiteralType(arg).quadType(), tp, "%s in %s", arg, source)
			return
		}
		symbolTP, ok := symbols.TypeOf(arg)
		require.True(t, ok, "%s is not in the symbol table", arg)
		assert.Equal(t, symbolTP.quadType(), tp, "%s in %s", arg, source)
	}
	definedLabels, jumpLabels, assigned := map[string]bool{}, map[string]bool{}, map[string]bool{}
	for _, line := range parsed {
		if line.Instruction == nil {
			assert.False(t, definedLabels[line.Label], "label %s defined twice", line.Label)
			definedLabels[line.Label] = true
			continue
		}
		inst := line.Instruction
		args := inst.Args
		switch inst.Op {
		case quad.JumpOp:
			jumpLabels[args[0]] = true
			continue
		case quad.JumpIfZeroOp:
			jumpLabels[args[0]] = true
			operandType(quad.Int, args[1])
			continue
		case quad.HaltOp:
			continue
		case quad.IntToRealOp:
			operandType(quad.Real, args[0])
			operandType(quad.Int, args[1])
		case quad.RealToIntOp:
			operandType(quad.Int, args[0])
			operandType(quad.Real, args[1])
		case quad.EqualOp, quad.NotEqualOp, quad.LessOp, quad.GreaterOp:
			operandType(quad.Int, args[0])
			operandType(inst.TP, args[1])
			operandType(inst.TP, args[2])
		default:
			for _, arg := range args {
				operandType(inst.TP, arg)
			}
		}
		if inst.Op == quad.PrintOp {
			continue
		}
		if !declared[args[0]] {
			assert.False(t, assigned[args[0]], "temporary %s assigned twice", args[0])
			assigned[args[0]] = true
		}
	}
	for label := range jumpLabels {
		assert.True(t, definedLabels[label], "label %s is never defined", label)
	}
	for name := range assigned {
		assert.False(t, declared[name], "temporary %s shadows a variable", name)
	}
}

func TestCompile_WellFormed(t *testing.T) {
	for _, sample := range samplePrograms {
		checkWellFormed(t, sample)
	}
}

func TestCompile_CollectedErrors(t *testing.T) {
	testData := []struct {
		content     string
		diagnostics []string
	}{
		{
			content:     "a: int; b: float; { input(b); a = b; output(a); }",
			diagnostics: []string{"line 1: type mismatch: cannot assign float to int variable a"},
		},
		{
			content: "a: int;\nb: float;\n{\n a = 1;\n a = b;\n b = b + a;\n a = b * 2;\n}",
			diagnostics: []string{
				"line 5: type mismatch: cannot assign float to int variable a",
				"line 7: type mismatch: cannot assign float to int variable a",
			},
		},
		{
			content:     "x:int;{x=1@;}",
			diagnostics: []string{"line 1: bad character '@'"},
		},
		{
			content: "x:int;y:float;\n{x=y;\n@ y=x;}",
			diagnostics: []string{
				"line 2: type mismatch: cannot assign float to int variable x",
				"line 3: bad character '@'",
				"line 3: type mismatch: cannot assign int to float variable y",
			},
		},
		{
			content: "x:int;y:float;{x=y; @}",
			diagnostics: []string{
				"line 1: bad character '@'",
				"line 1: type mismatch: cannot assign float to int variable x",
			},
		},
		{
			content:     "x:int;{x=1;}\n/* trailing",
			diagnostics: []string{"line 2: unterminated comment"},
		},
	}
	for _, data := range testData {
		code, err := Compile(data.content)
		assert.Empty(t, code, data.content)
		var compileErr *CompileError
		require.True(t, errors.As(err, &compileErr), data.content)
		assert.Nil(t, compileErr.Fatal, data.content)
		assert.Equal(t, data.diagnostics, compileErr.Diagnostics(), data.content)
		assert.Equal(t, strings.Join(data.diagnostics, "\n"), err.Error())
	}
}

func TestCompile_FatalErrors(t *testing.T) {
	code, err := Compile("x:int;\n{y=1;}")
	assert.Empty(t, code)
	var undeclared *UndeclaredError
	require.True(t, errors.As(err, &undeclared))
	assert.Equal(t, "y", undeclared.Name)
	assert.Equal(t, `line 2: undeclared identifier "y"`, err.Error())

	code, err = Compile("x:int;{x=1 $}")
	assert.Empty(t, code)
	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, "}", syntaxErr.Near)
	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, []string{
		"line 1: bad character '$'",
		`line 1: syntax error near "}"`,
	}, compileErr.Diagnostics())

	_, err = Compile("x:int;\n{\nx=1;")
	require.True(t, errors.As(err, &syntaxErr))
	assert.True(t, syntaxErr.EOF)
	assert.Equal(t, 3, syntaxErr.Line)

	// type errors found before the fatal one are kept.
	_, err = Compile("x:int;\n{x=1.5;\nz=2;}")
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, []string{
		"line 2: type mismatch: cannot assign float to int variable x",
		`line 3: undeclared identifier "z"`,
	}, compileErr.Diagnostics())
}

func TestCompile_IndependentRuns(t *testing.T) {
	_, err := Compile("x:int;{break;}")
	require.NotNil(t, err)
	code, err := Compile("x:int;{while(x<1){x=x+1;}}")
	require.Nil(t, err)
	assert.Equal(t, lines(
		"JUMP L2",
		"L1:",
		"IADD t2 x 1",
		"IASSIGN x t2",
		"L2:",
		"ILSS t1 x 1",
		"ISUB t3 t1 1",
		"JMPZ L1 t3",
		"HALT",
	), code)
}
