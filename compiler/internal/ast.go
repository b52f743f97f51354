package internal

// In this file, we defined all ast of CPL according to CPL grammar. A CPL program is a list
// of declarations followed by a single statements block:
//
// program      : declarations '{' statement* '}'
// declarations : (idList ':' type ';')*
// statement    : assignment | input | output | if | while | switch | break | block
// expression   : expression ADDOP term | term
// term         : term MULOP factor | factor
// factor       : '(' expression ')' | CAST '(' expression ')' | ID | NUM
// boolExpr     : boolExpr OR boolTerm | boolTerm
// boolTerm     : boolTerm AND boolFactor | boolFactor
// boolFactor   : NOT '(' boolExpr ')' | expression RELOP expression

type ProgramAst struct {
	Declarations []*DeclarationAst
	Block        *StatementAst
}

type DeclarationAst struct {
	Names []string
	TP    PrimitiveType
	Line  int
}

type StatementAst struct {
	StatementTP StatementType
	Statement   interface{}
	Line        int
}

type StatementType int

const (
	AssignmentStatementTP StatementType = iota
	InputStatementTP
	OutputStatementTP
	IfStatementTP
	WhileStatementTP
	SwitchStatementTP
	BreakStatementTP
	BlockStatementTP
)

type AssignmentStatementAst struct {
	VarName string
	Value   *ExpressionAst
}

type InputStatementAst struct {
	VarName string
}

type OutputStatementAst struct {
	Value *ExpressionAst
}

// IfStatementAst always has an else branch.
type IfStatementAst struct {
	Condition     *BoolExpressionAst
	IfStatement   *StatementAst
	ElseStatement *StatementAst
}

type WhileStatementAst struct {
	Condition *BoolExpressionAst
	Body      *StatementAst
}

type SwitchStatementAst struct {
	Value    *ExpressionAst
	Cases    []*CaseAst
	Defaults []*StatementAst
}

type CaseAst struct {
	Value      string
	Statements []*StatementAst
	Line       int
}

type BlockStatementAst struct {
	Statements []*StatementAst
}

type ExpressionAst struct {
	ExpressionTP ExpressionType
	// For number and variable expressions, the literal or the variable name.
	Value     string
	Op        *OpAst
	LeftExpr  *ExpressionAst
	RightExpr *ExpressionAst
	// For cast expressions, the target type. The operand is LeftExpr.
	CastTP PrimitiveType
	Line   int
}

type ExpressionType int

const (
	NumberExpressionTP ExpressionType = iota
	VariableExpressionTP
	BinaryExpressionTP
	CastExpressionTP
)

type BoolExpressionAst struct {
	BoolExpressionTP BoolExpressionType
	// For relations, Op compares LeftExpr with RightExpr.
	Op        *OpAst
	LeftExpr  *ExpressionAst
	RightExpr *ExpressionAst
	// For or, and: LeftBool and RightBool. For not: LeftBool only.
	LeftBool  *BoolExpressionAst
	RightBool *BoolExpressionAst
	Line      int
}

type BoolExpressionType int

const (
	RelationBoolExpressionTP BoolExpressionType = iota
	OrBoolExpressionTP
	AndBoolExpressionTP
	NotBoolExpressionTP
)

type OpAst struct {
	Op   OpCode
	Name string
}

type OpCode int

const (
	PlusOpTP OpCode = iota
	MinusOpTP
	MultipleOpTP
	DivideOpTP
	EqualOpTP
	NotEqualOpTP
	LessOpTP
	LessEqualOpTP
	GreaterOpTP
	GreaterEqualOpTP
)

var (
	PlusOpAst         = OpAst{Op: PlusOpTP, Name: "+"}
	MinusOpAst        = OpAst{Op: MinusOpTP, Name: "-"}
	MultipleOpAst     = OpAst{Op: MultipleOpTP, Name: "*"}
	DivideOpAst       = OpAst{Op: DivideOpTP, Name: "/"}
	EqualOpAst        = OpAst{Op: EqualOpTP, Name: "=="}
	NotEqualOpAst     = OpAst{Op: NotEqualOpTP, Name: "!="}
	LessOpAst         = OpAst{Op: LessOpTP, Name: "<"}
	LessEqualOpAst    = OpAst{Op: LessEqualOpTP, Name: "<="}
	GreaterOpAst      = OpAst{Op: GreaterOpTP, Name: ">"}
	GreaterEqualOpAst = OpAst{Op: GreaterEqualOpTP, Name: ">="}
)

// opAstMap is the mapping from the content of ADDOP, MULOP and RELOP tokens to OpAst.
var opAstMap = map[string]*OpAst{
	"+":  &PlusOpAst,
	"-":  &MinusOpAst,
	"*":  &MultipleOpAst,
	"/":  &DivideOpAst,
	"==": &EqualOpAst,
	"!=": &NotEqualOpAst,
	"<":  &LessOpAst,
	"<=": &LessEqualOpAst,
	">":  &GreaterOpAst,
	">=": &GreaterEqualOpAst,
}

func (op OpAst) String() string {
	return op.Name
}
