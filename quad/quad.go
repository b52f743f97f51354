package quad

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
)

// Quad is the target language of cpq. Every line of a quad program is either a label
// definition like `L3:` or a single instruction: an opcode followed by space separated
// operands. Most opcodes carry a type prefix, I for integer and R for real operands:
// * IASSIGN a b    a = b
// * IINPUT a       read a
// * IPRINT b       print b
// * IADD a b c     a = b + c, also ISUB, IMLT, IDIV
// * IEQL a b c     a = b == c ? 1 : 0, also INQL, ILSS, IGRT
// The remaining opcodes are untyped:
// * ITOR a b       a = real(b)
// * RTOI a b       a = int(b)
// * JUMP L         goto L
// * JMPZ L a       goto L if a == 0
// * HALT           stop

type Type int

const (
	Untyped Type = iota
	Int
	Real
)

func (tp Type) Prefix() string {
	switch tp {
	case Int:
		return "I"
	case Real:
		return "R"
	}
	return ""
}

type Opcode int

const (
	AssignOp Opcode = iota
	InputOp
	PrintOp
	AddOp
	SubOp
	MultiplyOp
	DivideOp
	EqualOp
	NotEqualOp
	LessOp
	GreaterOp
	// Untyped opcodes.
	IntToRealOp
	RealToIntOp
	JumpOp
	JumpIfZeroOp
	HaltOp
)

var opcodeNames = [...]string{
	AssignOp:     "ASSIGN",
	InputOp:      "INPUT",
	PrintOp:      "PRINT",
	AddOp:        "ADD",
	SubOp:        "SUB",
	MultiplyOp:   "MLT",
	DivideOp:     "DIV",
	EqualOp:      "EQL",
	NotEqualOp:   "NQL",
	LessOp:       "LSS",
	GreaterOp:    "GRT",
	IntToRealOp:  "ITOR",
	RealToIntOp:  "RTOI",
	JumpOp:       "JUMP",
	JumpIfZeroOp: "JMPZ",
	HaltOp:       "HALT",
}

var opcodeArity = [...]int{
	AssignOp:     2,
	InputOp:      1,
	PrintOp:      1,
	AddOp:        3,
	SubOp:        3,
	MultiplyOp:   3,
	DivideOp:     3,
	EqualOp:      3,
	NotEqualOp:   3,
	LessOp:       3,
	GreaterOp:    3,
	IntToRealOp:  2,
	RealToIntOp:  2,
	JumpOp:       1,
	JumpIfZeroOp: 2,
	HaltOp:       0,
}

// opcodesMap is the mapping from opcode name, without the type prefix, to Opcode.
var opcodesMap = map[string]Opcode{}

func init() {
	for op, name := range opcodeNames {
		opcodesMap[name] = Opcode(op)
	}
}

func (op Opcode) String() string {
	if op >= 0 && int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return ""
}

// Typed reports whether op must be written with an I or R prefix.
func (op Opcode) Typed() bool {
	return op < IntToRealOp
}

func (op Opcode) Arity() int {
	return opcodeArity[op]
}

type Instruction struct {
	Op   Opcode
	TP   Type
	Args []string
}

func (inst Instruction) String() string {
	var sb strings.Builder
	if inst.Op.Typed() {
		sb.WriteString(inst.TP.Prefix())
	}
	sb.WriteString(inst.Op.String())
	for _, arg := range inst.Args {
		sb.WriteByte(' ')
		sb.WriteString(arg)
	}
	return sb.String()
}

func New(op Opcode, tp Type, args ...string) Instruction {
	if !op.Typed() {
		tp = Untyped
	}
	return Instruction{Op: op, TP: tp, Args: args}
}

func Jump(label string) Instruction {
	return New(JumpOp, Untyped, label)
}

func JumpIfZero(label string, value string) Instruction {
	return New(JumpIfZeroOp, Untyped, label, value)
}

func Halt() Instruction {
	return New(HaltOp, Untyped)
}

// LabelDefinition renders the line marking label as a jump target.
func LabelDefinition(label string) string {
	return label + ":"
}

// Line is one parsed line of a quad program, Label is set for label definitions,
// Instruction otherwise.
type Line struct {
	Number      int
	Label       string
	Instruction *Instruction
}

func makeError(line int, content string, msg string) error {
	return errors.New(fmt.Sprintf("quad: error near %q at line %d, msg: %s", content, line, msg))
}

// ParseLine parses a single non empty quad line.
func ParseLine(number int, content string) (Line, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Line{}, makeError(number, content, "empty line")
	}
	fields := strings.Fields(content)
	if len(fields) == 1 && strings.HasSuffix(content, ":") {
		return Line{Number: number, Label: strings.TrimSuffix(content, ":")}, nil
	}
	inst, err := parseInstruction(fields)
	if err != nil {
		return Line{}, makeError(number, content, err.Error())
	}
	return Line{Number: number, Instruction: inst}, nil
}

func parseInstruction(fields []string) (*Instruction, error) {
	name, tp := fields[0], Untyped
	op, ok := opcodesMap[name]
	if ok && op.Typed() {
		return nil, errors.New("missing type prefix")
	}
	if !ok && len(name) > 1 {
		switch name[0] {
		case 'I':
			tp = Int
		case 'R':
			tp = Real
		}
		op, ok = opcodesMap[name[1:]]
		ok = ok && tp != Untyped && op.Typed()
	}
	if !ok {
		return nil, errors.New("unknown opcode " + name)
	}
	args := fields[1:]
	if len(args) != op.Arity() {
		return nil, errors.New(fmt.Sprintf("%s expects %d operands, got %d", name, op.Arity(), len(args)))
	}
	return &Instruction{Op: op, TP: tp, Args: args}, nil
}

// ParseProgram parses every non blank line of text.
func ParseProgram(text string) ([]Line, error) {
	var lines []Line
	scanner := bufio.NewScanner(strings.NewReader(text))
	number := 0
	for scanner.Scan() {
		number++
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		line, err := ParseLine(number, scanner.Text())
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
