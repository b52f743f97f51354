package internal

// Parser is a recursive descent parser for CPL. It pulls tokens from its Tokenizer one at a
// time and keeps a single token of lookahead.
type Parser struct {
	tokenizer    *Tokenizer
	currentToken *Token // nil once tokens end.
}

func NewParser(tokenizer *Tokenizer) *Parser {
	parser := &Parser{tokenizer: tokenizer}
	parser.stepForward()
	return parser
}

// declarations {
//    statements
// }
func (parser *Parser) ParseProgram() (*ProgramAst, error) {
	declarations, err := parser.parseDeclarations()
	if err != nil {
		return nil, err
	}
	block, err := parser.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	if parser.hasRemainTokens() {
		return nil, parser.makeError()
	}
	return &ProgramAst{Declarations: declarations, Block: block}, nil
}

func (parser *Parser) parseDeclarations() (declarations []*DeclarationAst, err error) {
	for {
		_, match := parser.expectToken(IdentifierTP, false)
		if !match {
			return declarations, nil
		}
		declaration, err := parser.parseDeclaration()
		if err != nil {
			return nil, err
		}
		declarations = append(declarations, declaration)
	}
}

// a, b, c : float;
func (parser *Parser) parseDeclaration() (*DeclarationAst, error) {
	declaration := &DeclarationAst{Line: parser.currentToken.line}
	for {
		nameToken, match := parser.expectToken(IdentifierTP, true)
		if !match {
			return nil, parser.makeError()
		}
		declaration.Names = append(declaration.Names, nameToken.content)
		_, match = parser.expectToken(CommaTP, true)
		if !match {
			break
		}
	}
	_, match := parser.expectToken(ColonTP, true)
	if !match {
		return nil, parser.makeError()
	}
	tp, err := parser.parseVariableType()
	if err != nil {
		return nil, err
	}
	declaration.TP = tp
	_, match = parser.expectToken(SemiColonTP, true)
	if !match {
		return nil, parser.makeError()
	}
	return declaration, nil
}

func (parser *Parser) parseVariableType() (PrimitiveType, error) {
	if !parser.hasRemainTokens() {
		return UnknownType, parser.makeError()
	}
	var tp PrimitiveType
	switch parser.currentToken.tp {
	case IntTP:
		tp = IntegerType
	case FloatTP:
		tp = RealType
	default:
		return UnknownType, parser.makeError()
	}
	parser.stepForward()
	return tp, nil
}

func (parser *Parser) parseStatement() (*StatementAst, error) {
	if !parser.hasRemainTokens() {
		return nil, parser.makeError()
	}
	switch parser.currentToken.tp {
	case IdentifierTP:
		return parser.parseAssignmentStatement()
	case InputTP:
		return parser.parseInputStatement()
	case OutputTP:
		return parser.parseOutputStatement()
	case IfTP:
		return parser.parseIfStatement()
	case WhileTP:
		return parser.parseWhileStatement()
	case SwitchTP:
		return parser.parseSwitchStatement()
	case BreakTP:
		return parser.parseBreakStatement()
	case LeftBraceTP:
		return parser.parseBlockStatement()
	}
	return nil, parser.makeError()
}

// parseStatements parses statements until one of terminators, which is not consumed.
func (parser *Parser) parseStatements(terminators ...TokenType) (stms []*StatementAst, err error) {
	for !parser.matchAny(terminators...) {
		stm, err := parser.parseStatement()
		if err != nil {
			return nil, err
		}
		stms = append(stms, stm)
	}
	return
}

// a = expression;
func (parser *Parser) parseAssignmentStatement() (*StatementAst, error) {
	nameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError()
	}
	_, match = parser.expectToken(AssignTP, true)
	if !match {
		return nil, parser.makeError()
	}
	value, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	_, match = parser.expectToken(SemiColonTP, true)
	if !match {
		return nil, parser.makeError()
	}
	return &StatementAst{
		StatementTP: AssignmentStatementTP,
		Statement:   &AssignmentStatementAst{VarName: nameToken.content, Value: value},
		Line:        nameToken.line,
	}, nil
}

// input(a);
func (parser *Parser) parseInputStatement() (*StatementAst, error) {
	line := parser.currentToken.line
	match := parser.expectTokens(InputTP, LeftParentThesesTP)
	if !match {
		return nil, parser.makeError()
	}
	nameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError()
	}
	match = parser.expectTokens(RightParentThesesTP, SemiColonTP)
	if !match {
		return nil, parser.makeError()
	}
	return &StatementAst{
		StatementTP: InputStatementTP,
		Statement:   &InputStatementAst{VarName: nameToken.content},
		Line:        line,
	}, nil
}

// output(expression);
func (parser *Parser) parseOutputStatement() (*StatementAst, error) {
	line := parser.currentToken.line
	match := parser.expectTokens(OutputTP, LeftParentThesesTP)
	if !match {
		return nil, parser.makeError()
	}
	value, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	match = parser.expectTokens(RightParentThesesTP, SemiColonTP)
	if !match {
		return nil, parser.makeError()
	}
	return &StatementAst{
		StatementTP: OutputStatementTP,
		Statement:   &OutputStatementAst{Value: value},
		Line:        line,
	}, nil
}

// if (boolExpr) statement else statement
func (parser *Parser) parseIfStatement() (*StatementAst, error) {
	line := parser.currentToken.line
	match := parser.expectTokens(IfTP, LeftParentThesesTP)
	if !match {
		return nil, parser.makeError()
	}
	condition, err := parser.parseBoolExpression()
	if err != nil {
		return nil, err
	}
	_, match = parser.expectToken(RightParentThesesTP, true)
	if !match {
		return nil, parser.makeError()
	}
	ifStatement, err := parser.parseStatement()
	if err != nil {
		return nil, err
	}
	_, match = parser.expectToken(ElseTP, true)
	if !match {
		return nil, parser.makeError()
	}
	elseStatement, err := parser.parseStatement()
	if err != nil {
		return nil, err
	}
	return &StatementAst{
		StatementTP: IfStatementTP,
		Statement: &IfStatementAst{
			Condition:     condition,
			IfStatement:   ifStatement,
			ElseStatement: elseStatement,
		},
		Line: line,
	}, nil
}

// while (boolExpr) statement
func (parser *Parser) parseWhileStatement() (*StatementAst, error) {
	line := parser.currentToken.line
	match := parser.expectTokens(WhileTP, LeftParentThesesTP)
	if !match {
		return nil, parser.makeError()
	}
	condition, err := parser.parseBoolExpression()
	if err != nil {
		return nil, err
	}
	_, match = parser.expectToken(RightParentThesesTP, true)
	if !match {
		return nil, parser.makeError()
	}
	body, err := parser.parseStatement()
	if err != nil {
		return nil, err
	}
	return &StatementAst{
		StatementTP: WhileStatementTP,
		Statement:   &WhileStatementAst{Condition: condition, Body: body},
		Line:        line,
	}, nil
}

// switch (expression) {
//    case NUM: statements
//    default: statements
// }
func (parser *Parser) parseSwitchStatement() (*StatementAst, error) {
	line := parser.currentToken.line
	match := parser.expectTokens(SwitchTP, LeftParentThesesTP)
	if !match {
		return nil, parser.makeError()
	}
	value, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	match = parser.expectTokens(RightParentThesesTP, LeftBraceTP)
	if !match {
		return nil, parser.makeError()
	}
	switchStatement := &SwitchStatementAst{Value: value}
	for {
		caseToken, match := parser.expectToken(CaseTP, true)
		if !match {
			break
		}
		valueToken, match := parser.expectToken(NumberTP, true)
		if !match {
			return nil, parser.makeError()
		}
		_, match = parser.expectToken(ColonTP, true)
		if !match {
			return nil, parser.makeError()
		}
		stms, err := parser.parseStatements(CaseTP, DefaultTP, RightBraceTP)
		if err != nil {
			return nil, err
		}
		switchStatement.Cases = append(switchStatement.Cases, &CaseAst{
			Value:      valueToken.content,
			Statements: stms,
			Line:       caseToken.line,
		})
	}
	match = parser.expectTokens(DefaultTP, ColonTP)
	if !match {
		return nil, parser.makeError()
	}
	switchStatement.Defaults, err = parser.parseStatements(RightBraceTP)
	if err != nil {
		return nil, err
	}
	parser.stepForward()
	return &StatementAst{StatementTP: SwitchStatementTP, Statement: switchStatement, Line: line}, nil
}

// break;
func (parser *Parser) parseBreakStatement() (*StatementAst, error) {
	line := parser.currentToken.line
	match := parser.expectTokens(BreakTP, SemiColonTP)
	if !match {
		return nil, parser.makeError()
	}
	return &StatementAst{StatementTP: BreakStatementTP, Line: line}, nil
}

// {
//    statements
// }
func (parser *Parser) parseBlockStatement() (*StatementAst, error) {
	leftBrace, match := parser.expectToken(LeftBraceTP, true)
	if !match {
		return nil, parser.makeError()
	}
	stms, err := parser.parseStatements(RightBraceTP)
	if err != nil {
		return nil, err
	}
	parser.stepForward()
	return &StatementAst{
		StatementTP: BlockStatementTP,
		Statement:   &BlockStatementAst{Statements: stms},
		Line:        leftBrace.line,
	}, nil
}

func (parser *Parser) stepForward() {
	parser.currentToken, _ = parser.tokenizer.Next()
}

func (parser *Parser) hasRemainTokens() bool {
	return parser.currentToken != nil
}

func (parser *Parser) matchAny(tps ...TokenType) bool {
	if !parser.hasRemainTokens() {
		return false
	}
	for _, tp := range tps {
		if parser.currentToken.tp == tp {
			return true
		}
	}
	return false
}

func (parser *Parser) expectTokens(expectedTokenTPs ...TokenType) bool {
	for _, tokenType := range expectedTokenTPs {
		_, ok := parser.expectToken(tokenType, true)
		if !ok {
			return false
		}
	}
	return true
}

func (parser *Parser) expectToken(expectedTokenTp TokenType, walk bool) (*Token, bool) {
	if !parser.hasRemainTokens() || parser.currentToken.tp != expectedTokenTp {
		return nil, false
	}
	token := parser.currentToken
	if walk {
		parser.stepForward()
	}
	return token, true
}

// makeError reports the current token as unexpected.
func (parser *Parser) makeError() error {
	if !parser.hasRemainTokens() {
		return &SyntaxError{Line: parser.tokenizer.Line(), EOF: true}
	}
	return &SyntaxError{Line: parser.currentToken.line, Near: parser.currentToken.content}
}
