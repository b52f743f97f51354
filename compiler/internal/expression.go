package internal

// expression : expression ADDOP term | term
func (parser *Parser) parseExpression() (*ExpressionAst, error) {
	left, err := parser.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		opToken, match := parser.expectToken(AddOpTP, true)
		if !match {
			return left, nil
		}
		right, err := parser.parseTerm()
		if err != nil {
			return nil, err
		}
		left = makeBinaryExpression(left, opToken, right)
	}
}

// term : term MULOP factor | factor
func (parser *Parser) parseTerm() (*ExpressionAst, error) {
	left, err := parser.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		opToken, match := parser.expectToken(MulOpTP, true)
		if !match {
			return left, nil
		}
		right, err := parser.parseFactor()
		if err != nil {
			return nil, err
		}
		left = makeBinaryExpression(left, opToken, right)
	}
}

// factor : '(' expression ')' | CAST '(' expression ')' | ID | NUM
func (parser *Parser) parseFactor() (*ExpressionAst, error) {
	if !parser.hasRemainTokens() {
		return nil, parser.makeError()
	}
	token := parser.currentToken
	switch token.tp {
	case LeftParentThesesTP:
		return parser.parseSubExpression()
	case CastTP:
		return parser.parseCastExpression()
	case IdentifierTP:
		parser.stepForward()
		return &ExpressionAst{ExpressionTP: VariableExpressionTP, Value: token.content, Line: token.line}, nil
	case NumberTP:
		parser.stepForward()
		return &ExpressionAst{ExpressionTP: NumberExpressionTP, Value: token.content, Line: token.line}, nil
	}
	return nil, parser.makeError()
}

func (parser *Parser) parseSubExpression() (*ExpressionAst, error) {
	_, match := parser.expectToken(LeftParentThesesTP, true)
	if !match {
		return nil, parser.makeError()
	}
	expr, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	_, match = parser.expectToken(RightParentThesesTP, true)
	if !match {
		return nil, parser.makeError()
	}
	return expr, nil
}

// static_cast<int>(expression)
func (parser *Parser) parseCastExpression() (*ExpressionAst, error) {
	castToken, match := parser.expectToken(CastTP, true)
	if !match {
		return nil, parser.makeError()
	}
	castTP := IntegerType
	if castToken.content == castToFloatLiteral {
		castTP = RealType
	}
	operand, err := parser.parseSubExpression()
	if err != nil {
		return nil, err
	}
	return &ExpressionAst{
		ExpressionTP: CastExpressionTP,
		LeftExpr:     operand,
		CastTP:       castTP,
		Line:         castToken.line,
	}, nil
}

func makeBinaryExpression(left *ExpressionAst, opToken *Token, right *ExpressionAst) *ExpressionAst {
	return &ExpressionAst{
		ExpressionTP: BinaryExpressionTP,
		Op:           opAstMap[opToken.content],
		LeftExpr:     left,
		RightExpr:    right,
		Line:         opToken.line,
	}
}

// boolExpr : boolExpr OR boolTerm | boolTerm
func (parser *Parser) parseBoolExpression() (*BoolExpressionAst, error) {
	left, err := parser.parseBoolTerm()
	if err != nil {
		return nil, err
	}
	for {
		opToken, match := parser.expectToken(OrTP, true)
		if !match {
			return left, nil
		}
		right, err := parser.parseBoolTerm()
		if err != nil {
			return nil, err
		}
		left = &BoolExpressionAst{
			BoolExpressionTP: OrBoolExpressionTP,
			LeftBool:         left,
			RightBool:        right,
			Line:             opToken.line,
		}
	}
}

// boolTerm : boolTerm AND boolFactor | boolFactor
func (parser *Parser) parseBoolTerm() (*BoolExpressionAst, error) {
	left, err := parser.parseBoolFactor()
	if err != nil {
		return nil, err
	}
	for {
		opToken, match := parser.expectToken(AndTP, true)
		if !match {
			return left, nil
		}
		right, err := parser.parseBoolFactor()
		if err != nil {
			return nil, err
		}
		left = &BoolExpressionAst{
			BoolExpressionTP: AndBoolExpressionTP,
			LeftBool:         left,
			RightBool:        right,
			Line:             opToken.line,
		}
	}
}

// boolFactor : NOT '(' boolExpr ')' | expression RELOP expression
func (parser *Parser) parseBoolFactor() (*BoolExpressionAst, error) {
	notToken, match := parser.expectToken(NotTP, true)
	if match {
		_, match = parser.expectToken(LeftParentThesesTP, true)
		if !match {
			return nil, parser.makeError()
		}
		operand, err := parser.parseBoolExpression()
		if err != nil {
			return nil, err
		}
		_, match = parser.expectToken(RightParentThesesTP, true)
		if !match {
			return nil, parser.makeError()
		}
		return &BoolExpressionAst{BoolExpressionTP: NotBoolExpressionTP, LeftBool: operand, Line: notToken.line}, nil
	}
	left, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	opToken, match := parser.expectToken(RelOpTP, true)
	if !match {
		return nil, parser.makeError()
	}
	right, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	return &BoolExpressionAst{
		BoolExpressionTP: RelationBoolExpressionTP,
		Op:               opAstMap[opToken.content],
		LeftExpr:         left,
		RightExpr:        right,
		Line:             opToken.line,
	}, nil
}
