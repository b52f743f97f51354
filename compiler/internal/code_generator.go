package internal

import (
	"cpq/quad"
)

type OperandKind int

const (
	LiteralOperand OperandKind = iota
	IdentifierOperand
	TemporaryOperand
)

// Operand is the value of an expression: a number literal, a declared variable or a
// temporary holding an intermediate result.
type Operand struct {
	Kind OperandKind
	TP   PrimitiveType
	Text string
}

// CodeFragment is what translating a grammar rule yields. Code holds the instructions, one
// per line, computing Value. Value is empty for statements.
type CodeFragment struct {
	Code  string
	Value Operand
}

func (fragment *CodeFragment) append(other CodeFragment) {
	fragment.Code += other.Code
}

func (fragment *CodeFragment) emit(inst quad.Instruction) {
	fragment.Code += inst.String() + "\n"
}

func (fragment *CodeFragment) emitLabel(label string) {
	fragment.Code += quad.LabelDefinition(label) + "\n"
}

// breakTarget is the exit of an enclosing while or switch. Its label is minted by the first
// break jumping to it.
type breakTarget struct {
	label string
}

// Translator turns a parsed program into quad code. It owns all the state of a single
// compilation.
type Translator struct {
	symbols      *SymbolTable
	errs         *ErrorList
	breakTargets []*breakTarget
}

func NewTranslator(symbols *SymbolTable, errs *ErrorList) *Translator {
	return &Translator{symbols: symbols, errs: errs}
}

// TranslateProgram declares every variable, then generates the statements block followed by
// HALT. Type errors are collected, the caller must check them before using the code.
func (translator *Translator) TranslateProgram(program *ProgramAst) (string, error) {
	for _, declaration := range program.Declarations {
		for _, name := range declaration.Names {
			translator.symbols.Declare(name, declaration.TP)
		}
	}
	fragment, err := translator.generateStatementCode(program.Block)
	if err != nil {
		return "", err
	}
	fragment.emit(quad.Halt())
	return fragment.Code, nil
}

func (translator *Translator) generateStatementsCode(stms []*StatementAst) (fragment CodeFragment, err error) {
	for _, stm := range stms {
		stmFragment, err := translator.generateStatementCode(stm)
		if err != nil {
			return CodeFragment{}, err
		}
		fragment.append(stmFragment)
	}
	return fragment, nil
}

func (translator *Translator) generateStatementCode(statement *StatementAst) (CodeFragment, error) {
	switch statement.StatementTP {
	case AssignmentStatementTP:
		return translator.generateAssignmentStatementCode(statement)
	case InputStatementTP:
		return translator.generateInputStatementCode(statement)
	case OutputStatementTP:
		return translator.generateOutputStatementCode(statement)
	case IfStatementTP:
		return translator.generateIfStatementCode(statement)
	case WhileStatementTP:
		return translator.generateWhileStatementCode(statement)
	case SwitchStatementTP:
		return translator.generateSwitchStatementCode(statement)
	case BreakStatementTP:
		return translator.generateBreakStatementCode(statement)
	case BlockStatementTP:
		return translator.generateStatementsCode(statement.Statement.(*BlockStatementAst).Statements)
	default:
		panic("unknown statement tp")
	}
}

// For assignment: a = expression
// generate code for expression first, then <T>ASSIGN a value.
func (translator *Translator) generateAssignmentStatementCode(statement *StatementAst) (CodeFragment, error) {
	assignment := statement.Statement.(*AssignmentStatementAst)
	target, err := translator.lookUpVariable(assignment.VarName, statement.Line)
	if err != nil {
		return CodeFragment{}, err
	}
	fragment, err := translator.generateExpressionCode(assignment.Value)
	if err != nil {
		return CodeFragment{}, err
	}
	translator.checkAssignment(statement.Line, target, fragment.Value)
	fragment.emit(quad.New(quad.AssignOp, target.TP.quadType(), target.Text, fragment.Value.Text))
	fragment.Value = Operand{}
	return fragment, nil
}

func (translator *Translator) generateInputStatementCode(statement *StatementAst) (CodeFragment, error) {
	input := statement.Statement.(*InputStatementAst)
	target, err := translator.lookUpVariable(input.VarName, statement.Line)
	if err != nil {
		return CodeFragment{}, err
	}
	var fragment CodeFragment
	fragment.emit(quad.New(quad.InputOp, target.TP.quadType(), target.Text))
	return fragment, nil
}

func (translator *Translator) generateOutputStatementCode(statement *StatementAst) (CodeFragment, error) {
	output := statement.Statement.(*OutputStatementAst)
	fragment, err := translator.generateExpressionCode(output.Value)
	if err != nil {
		return CodeFragment{}, err
	}
	fragment.emit(quad.New(quad.PrintOp, fragment.Value.TP.quadType(), fragment.Value.Text))
	fragment.Value = Operand{}
	return fragment, nil
}

// If statement quad code.
// condition code
// JMPZ else_label condition
// if statement code
// JUMP exit_label
// else_label:
// else statement code
// exit_label:
func (translator *Translator) generateIfStatementCode(statement *StatementAst) (CodeFragment, error) {
	ifStatement := statement.Statement.(*IfStatementAst)
	condition, err := translator.generateBoolExpressionCode(ifStatement.Condition)
	if err != nil {
		return CodeFragment{}, err
	}
	ifCode, err := translator.generateStatementCode(ifStatement.IfStatement)
	if err != nil {
		return CodeFragment{}, err
	}
	elseCode, err := translator.generateStatementCode(ifStatement.ElseStatement)
	if err != nil {
		return CodeFragment{}, err
	}
	elseLabel, exitLabel := translator.symbols.FreshLabel(), translator.symbols.FreshLabel()
	fragment := CodeFragment{Code: condition.Code}
	fragment.emit(quad.JumpIfZero(elseLabel, condition.Value.Text))
	fragment.append(ifCode)
	fragment.emit(quad.Jump(exitLabel))
	fragment.emitLabel(elseLabel)
	fragment.append(elseCode)
	fragment.emitLabel(exitLabel)
	return fragment, nil
}

// While statement quad code.
// JUMP check_label
// body_label:
// body code
// check_label:
// condition code
// ISUB d condition 1
// JMPZ body_label d
// break_label:            only if the body breaks
// The condition is 0 or 1, so d is zero exactly when the loop goes on.
func (translator *Translator) generateWhileStatementCode(statement *StatementAst) (CodeFragment, error) {
	whileStatement := statement.Statement.(*WhileStatementAst)
	condition, err := translator.generateBoolExpressionCode(whileStatement.Condition)
	if err != nil {
		return CodeFragment{}, err
	}
	target := translator.pushBreakTarget()
	body, err := translator.generateStatementCode(whileStatement.Body)
	translator.popBreakTarget()
	if err != nil {
		return CodeFragment{}, err
	}
	bodyLabel, checkLabel := translator.symbols.FreshLabel(), translator.symbols.FreshLabel()
	var fragment CodeFragment
	fragment.emit(quad.Jump(checkLabel))
	fragment.emitLabel(bodyLabel)
	fragment.append(body)
	fragment.emitLabel(checkLabel)
	fragment.append(condition)
	decremented := translator.symbols.FreshTemporary(IntegerType)
	fragment.emit(quad.New(quad.SubOp, quad.Int, decremented, condition.Value.Text, "1"))
	fragment.emit(quad.JumpIfZero(bodyLabel, decremented))
	if target.label != "" {
		fragment.emitLabel(target.label)
	}
	return fragment, nil
}

// Switch statement quad code.
// value code
// ISUB d value case_1        for every case
// JMPZ case_label_1 d
// JUMP default_label
// case_label_1:
// case 1 statements          falls through to the next case
// default_label:
// default statements
// break_label:               only if a case breaks
func (translator *Translator) generateSwitchStatementCode(statement *StatementAst) (CodeFragment, error) {
	switchStatement := statement.Statement.(*SwitchStatementAst)
	fragment, err := translator.generateExpressionCode(switchStatement.Value)
	if err != nil {
		return CodeFragment{}, err
	}
	value := fragment.Value
	if value.TP != IntegerType {
		translator.errs.Recordf(statement.Line, "switch expression must be int, got %s", value.TP)
	}
	target := translator.pushBreakTarget()
	caseCodes := make([]CodeFragment, 0, len(switchStatement.Cases))
	for _, caseAst := range switchStatement.Cases {
		if LiteralType(caseAst.Value) != IntegerType {
			translator.errs.Recordf(caseAst.Line, "case value %s must be int", caseAst.Value)
		}
		caseCode, err := translator.generateStatementsCode(caseAst.Statements)
		if err != nil {
			translator.popBreakTarget()
			return CodeFragment{}, err
		}
		caseCodes = append(caseCodes, caseCode)
	}
	defaultCode, err := translator.generateStatementsCode(switchStatement.Defaults)
	translator.popBreakTarget()
	if err != nil {
		return CodeFragment{}, err
	}
	caseLabels := make([]string, len(switchStatement.Cases))
	for i, caseAst := range switchStatement.Cases {
		caseLabels[i] = translator.symbols.FreshLabel()
		difference := translator.symbols.FreshTemporary(IntegerType)
		fragment.emit(quad.New(quad.SubOp, quad.Int, difference, value.Text, caseAst.Value))
		fragment.emit(quad.JumpIfZero(caseLabels[i], difference))
	}
	defaultLabel := translator.symbols.FreshLabel()
	fragment.emit(quad.Jump(defaultLabel))
	for i, caseCode := range caseCodes {
		fragment.emitLabel(caseLabels[i])
		fragment.append(caseCode)
	}
	fragment.emitLabel(defaultLabel)
	fragment.append(defaultCode)
	if target.label != "" {
		fragment.emitLabel(target.label)
	}
	fragment.Value = Operand{}
	return fragment, nil
}

func (translator *Translator) generateBreakStatementCode(statement *StatementAst) (CodeFragment, error) {
	var fragment CodeFragment
	if len(translator.breakTargets) == 0 {
		translator.errs.Record(statement.Line, "break outside of while or switch")
		return fragment, nil
	}
	target := translator.breakTargets[len(translator.breakTargets)-1]
	if target.label == "" {
		target.label = translator.symbols.FreshLabel()
	}
	fragment.emit(quad.Jump(target.label))
	return fragment, nil
}

func (translator *Translator) pushBreakTarget() *breakTarget {
	target := &breakTarget{}
	translator.breakTargets = append(translator.breakTargets, target)
	return target
}

func (translator *Translator) popBreakTarget() {
	translator.breakTargets = translator.breakTargets[:len(translator.breakTargets)-1]
}

// generateExpressionCode: for example: a + b * static_cast<float>(c)
//
//          +
//        /   \
//       a     *
//           /   \
//          b    cast
//                 |
//                 c
//
// a postOrder traversal is enough, every inner node stores its result in a new temporary.
func (translator *Translator) generateExpressionCode(expr *ExpressionAst) (CodeFragment, error) {
	switch expr.ExpressionTP {
	case NumberExpressionTP, VariableExpressionTP:
		operand, err := translator.typeOfOperand(expr.Value, expr.Line)
		if err != nil {
			return CodeFragment{}, err
		}
		return CodeFragment{Value: operand}, nil
	case CastExpressionTP:
		return translator.generateCastExpressionCode(expr)
	case BinaryExpressionTP:
		return translator.generateBinaryExpressionCode(expr)
	default:
		panic("unknown expression tp")
	}
}

// A cast always stores its operand into a new temporary of the target type, even if the
// operand has that type already.
func (translator *Translator) generateCastExpressionCode(expr *ExpressionAst) (CodeFragment, error) {
	fragment, err := translator.generateExpressionCode(expr.LeftExpr)
	if err != nil {
		return CodeFragment{}, err
	}
	op := quad.IntToRealOp
	if expr.CastTP == IntegerType {
		op = quad.RealToIntOp
	}
	result := translator.newTemporary(expr.CastTP)
	fragment.emit(quad.New(op, quad.Untyped, result.Text, fragment.Value.Text))
	fragment.Value = result
	return fragment, nil
}

var arithmeticOpcodes = map[OpCode]quad.Opcode{
	PlusOpTP:     quad.AddOp,
	MinusOpTP:    quad.SubOp,
	MultipleOpTP: quad.MultiplyOp,
	DivideOpTP:   quad.DivideOp,
}

func (translator *Translator) generateBinaryExpressionCode(expr *ExpressionAst) (CodeFragment, error) {
	fragment, err := translator.generateExpressionCode(expr.LeftExpr)
	if err != nil {
		return CodeFragment{}, err
	}
	right, err := translator.generateExpressionCode(expr.RightExpr)
	if err != nil {
		return CodeFragment{}, err
	}
	fragment.append(right)
	tp, left, rightValue, castCode := translator.reconcileForArithmetic(fragment.Value, right.Value)
	fragment.Code += castCode
	result := translator.newTemporary(tp)
	fragment.emit(quad.New(arithmeticOpcodes[expr.Op.Op], tp.quadType(), result.Text, left.Text, rightValue.Text))
	fragment.Value = result
	return fragment, nil
}

// Boolean expressions evaluate to an int temporary holding 0 or 1.
func (translator *Translator) generateBoolExpressionCode(expr *BoolExpressionAst) (CodeFragment, error) {
	switch expr.BoolExpressionTP {
	case RelationBoolExpressionTP:
		return translator.generateRelationCode(expr)
	case OrBoolExpressionTP, AndBoolExpressionTP:
		fragment, err := translator.generateBoolExpressionCode(expr.LeftBool)
		if err != nil {
			return CodeFragment{}, err
		}
		right, err := translator.generateBoolExpressionCode(expr.RightBool)
		if err != nil {
			return CodeFragment{}, err
		}
		fragment.append(right)
		if expr.BoolExpressionTP == OrBoolExpressionTP {
			translator.emitOr(&fragment, fragment.Value, right.Value)
			return fragment, nil
		}
		result := translator.newTemporary(IntegerType)
		fragment.emit(quad.New(quad.MultiplyOp, quad.Int, result.Text, fragment.Value.Text, right.Value.Text))
		fragment.Value = result
		return fragment, nil
	case NotBoolExpressionTP:
		fragment, err := translator.generateBoolExpressionCode(expr.LeftBool)
		if err != nil {
			return CodeFragment{}, err
		}
		result := translator.newTemporary(IntegerType)
		fragment.emit(quad.New(quad.SubOp, quad.Int, result.Text, "1", fragment.Value.Text))
		fragment.Value = result
		return fragment, nil
	default:
		panic("unknown bool expression tp")
	}
}

var relationOpcodes = map[OpCode]quad.Opcode{
	EqualOpTP:    quad.EqualOp,
	NotEqualOpTP: quad.NotEqualOp,
	LessOpTP:     quad.LessOp,
	GreaterOpTP:  quad.GreaterOp,
}

// Relations compare in the widened type of their operands. <= and >= are an equality and
// a strict comparison joined like or.
func (translator *Translator) generateRelationCode(expr *BoolExpressionAst) (CodeFragment, error) {
	fragment, err := translator.generateExpressionCode(expr.LeftExpr)
	if err != nil {
		return CodeFragment{}, err
	}
	right, err := translator.generateExpressionCode(expr.RightExpr)
	if err != nil {
		return CodeFragment{}, err
	}
	fragment.append(right)
	tp, left, rightValue, castCode := translator.reconcileForArithmetic(fragment.Value, right.Value)
	fragment.Code += castCode
	compare := func(op quad.Opcode) Operand {
		result := translator.newTemporary(IntegerType)
		fragment.emit(quad.New(op, tp.quadType(), result.Text, left.Text, rightValue.Text))
		return result
	}
	switch expr.Op.Op {
	case LessEqualOpTP:
		equal := compare(quad.EqualOp)
		translator.emitOr(&fragment, equal, compare(quad.LessOp))
	case GreaterEqualOpTP:
		equal := compare(quad.EqualOp)
		translator.emitOr(&fragment, equal, compare(quad.GreaterOp))
	default:
		fragment.Value = compare(relationOpcodes[expr.Op.Op])
	}
	return fragment, nil
}

// emitOr adds the two 0/1 operands and tests the sum against zero.
func (translator *Translator) emitOr(fragment *CodeFragment, left, right Operand) {
	sum := translator.newTemporary(IntegerType)
	fragment.emit(quad.New(quad.AddOp, quad.Int, sum.Text, left.Text, right.Text))
	result := translator.newTemporary(IntegerType)
	fragment.emit(quad.New(quad.GreaterOp, quad.Int, result.Text, sum.Text, "0"))
	fragment.Value = result
}

// typeOfOperand classifies a number literal by its decimal point and a variable by its
// declaration.
func (translator *Translator) typeOfOperand(text string, line int) (Operand, error) {
	if IsNumericLiteral(text) {
		return Operand{Kind: LiteralOperand, TP: LiteralType(text), Text: text}, nil
	}
	return translator.lookUpVariable(text, line)
}

func (translator *Translator) lookUpVariable(name string, line int) (Operand, error) {
	tp, ok := translator.symbols.TypeOf(name)
	if !ok {
		return Operand{}, &UndeclaredError{Line: line, Name: name}
	}
	return Operand{Kind: IdentifierOperand, TP: tp, Text: name}, nil
}

func (translator *Translator) newTemporary(tp PrimitiveType) Operand {
	return Operand{Kind: TemporaryOperand, TP: tp, Text: translator.symbols.FreshTemporary(tp)}
}

// reconcileForArithmetic widens the int operand to real when the operand types differ. It
// returns the result type, both operands as they must be used and the cast code.
func (translator *Translator) reconcileForArithmetic(left, right Operand) (PrimitiveType, Operand, Operand, string) {
	if left.TP == right.TP {
		return left.TP, left, right, ""
	}
	var castCode CodeFragment
	widen := func(operand Operand) Operand {
		if operand.TP != IntegerType {
			return operand
		}
		widened := translator.newTemporary(RealType)
		castCode.emit(quad.New(quad.IntToRealOp, quad.Untyped, widened.Text, operand.Text))
		return widened
	}
	left, right = widen(left), widen(right)
	return RealType, left, right, castCode.Code
}

// checkAssignment never casts: a type mismatch is recorded and translation goes on.
func (translator *Translator) checkAssignment(line int, target, value Operand) {
	if target.TP != value.TP {
		translator.errs.Recordf(line, "type mismatch: cannot assign %s to %s variable %s",
			value.TP, target.TP, target.Text)
	}
}
