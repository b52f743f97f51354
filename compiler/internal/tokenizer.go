package internal

import (
	"cpq/util"
	"fmt"
	"strings"
)

// A simple Tokenizer for CPL.

// CPL language has those elements:
// * KeyWord: break, case, default, else, float, if, input, int, output, switch, while.
// * Symbol: (, ), {, }, ,, :, ;, =.
// * Operator: == != < > <= >=, + -, * /, ||, &&, !.
// * Cast: static_cast<int>, static_cast<float>.
// * Number: 12, 12.5, 12. (no sign)
// * Identifier: a letter followed by letters and digits.
// * Comment: /* */, may span lines.

type TokenType int

const (
	BreakTP             TokenType = iota // break
	CaseTP                               // case
	DefaultTP                            // default
	ElseTP                               // else
	FloatTP                              // float
	IfTP                                 // if
	InputTP                              // input
	IntTP                                // int
	OutputTP                             // output
	SwitchTP                             // switch
	WhileTP                              // while
	LeftParentThesesTP                   // (
	RightParentThesesTP                  // )
	LeftBraceTP                          // {
	RightBraceTP                         // }
	CommaTP                              // ,
	ColonTP                              // :
	SemiColonTP                          // ;
	AssignTP                             // =
	RelOpTP                              // == != < > <= >=
	AddOpTP                              // + -
	MulOpTP                              // * /
	OrTP                                 // ||
	AndTP                                // &&
	NotTP                                // !
	CastTP                               // static_cast<int>
	NumberTP                             // 10.5
	IdentifierTP                         // varA
)

var tokenTypeNames = [...]string{
	BreakTP:             "BREAK",
	CaseTP:              "CASE",
	DefaultTP:           "DEFAULT",
	ElseTP:              "ELSE",
	FloatTP:             "FLOAT",
	IfTP:                "IF",
	InputTP:             "INPUT",
	IntTP:               "INT",
	OutputTP:            "OUTPUT",
	SwitchTP:            "SWITCH",
	WhileTP:             "WHILE",
	LeftParentThesesTP:  "LBRACE",
	RightParentThesesTP: "RBRACE",
	LeftBraceTP:         "LCBRACE",
	RightBraceTP:        "RCBRACE",
	CommaTP:             "COMMA",
	ColonTP:             "COLON",
	SemiColonTP:         "SEMICOLON",
	AssignTP:            "ASSIGN",
	RelOpTP:             "RELOP",
	AddOpTP:             "ADDOP",
	MulOpTP:             "MULOP",
	OrTP:                "OR",
	AndTP:               "AND",
	NotTP:               "NOT",
	CastTP:              "CAST",
	NumberTP:            "NUM",
	IdentifierTP:        "ID",
}

func (tp TokenType) String() string {
	if tp >= 0 && int(tp) < len(tokenTypeNames) {
		return tokenTypeNames[tp]
	}
	return "UNKNOWN"
}

// keyWordTokenTPMap is the mapping from identifier to the corresponding TokenTP.
var keyWordTokenTPMap = map[string]TokenType{
	"break":   BreakTP,
	"case":    CaseTP,
	"default": DefaultTP,
	"else":    ElseTP,
	"float":   FloatTP,
	"if":      IfTP,
	"input":   InputTP,
	"int":     IntTP,
	"output":  OutputTP,
	"switch":  SwitchTP,
	"while":   WhileTP,
}

// symbolTokens lists operators and punctuation. Two character symbols come first so the
// longest one wins.
var symbolTokens = []struct {
	symbol string
	tp     TokenType
}{
	{"==", RelOpTP},
	{"!=", RelOpTP},
	{"<=", RelOpTP},
	{">=", RelOpTP},
	{"||", OrTP},
	{"&&", AndTP},
	{"<", RelOpTP},
	{">", RelOpTP},
	{"=", AssignTP},
	{"!", NotTP},
	{"+", AddOpTP},
	{"-", AddOpTP},
	{"*", MulOpTP},
	{"/", MulOpTP},
	{"(", LeftParentThesesTP},
	{")", RightParentThesesTP},
	{"{", LeftBraceTP},
	{"}", RightBraceTP},
	{",", CommaTP},
	{":", ColonTP},
	{";", SemiColonTP},
}

const (
	castToIntLiteral   = "static_cast<int>"
	castToFloatLiteral = "static_cast<float>"
)

type Token struct {
	content  string
	line     int
	startPos int
	endPos   int
	tp       TokenType
}

func (t *Token) Type() TokenType {
	return t.tp
}

func (t *Token) Content() string {
	return t.content
}

func (t *Token) Line() int {
	return t.line
}

func (t *Token) String() string {
	return fmt.Sprintf("%d\t%s\t%s", t.line, t.tp, t.content)
}

// ErrorHandler receives lexical errors, scanning continues after it returns.
type ErrorHandler func(line int, msg string)

// Tokenizer produces tokens lazily, one per call of Next. A Tokenizer scans its source
// once, use a new one to rescan.
type Tokenizer struct {
	source      string
	currentPos  int
	currentLine int
	errh        ErrorHandler
}

func NewTokenizer(source string, errh ErrorHandler) *Tokenizer {
	return &Tokenizer{source: source, currentLine: 1, errh: errh}
}

// Next returns the next token, or false once the source is exhausted.
func (tokenizer *Tokenizer) Next() (*Token, bool) {
	for {
		tokenizer.trimSpace()
		if !tokenizer.hasRemainCharacters() {
			return nil, false
		}
		if strings.HasPrefix(tokenizer.source[tokenizer.currentPos:], "/*") {
			tokenizer.skipComment()
			continue
		}
		token := tokenizer.getNextToken()
		if token != nil {
			return token, true
		}
	}
}

// Line returns the line the tokenizer currently stands at.
func (tokenizer *Tokenizer) Line() int {
	return tokenizer.currentLine
}

// getNextToken returns the token starting at the current position, or nil if the current
// character cannot start any token.
func (tokenizer *Tokenizer) getNextToken() *Token {
	c := tokenizer.source[tokenizer.currentPos]
	switch {
	case c == 's' && tokenizer.startsWithCast():
		return tokenizer.tokenCast()
	case util.IsNumber(c):
		return tokenizer.tokenNumber()
	case util.IsLetter(c):
		return tokenizer.toKeywordOrIdentifier()
	}
	token := tokenizer.tokenSymbol()
	if token != nil {
		return token
	}
	tokenizer.reportError(fmt.Sprintf("bad character %q", c))
	tokenizer.currentPos++
	return nil
}

// trimSpace steps forward through all continuous blanks, counting newlines.
func (tokenizer *Tokenizer) trimSpace() {
	for tokenizer.hasRemainCharacters() {
		c := tokenizer.source[tokenizer.currentPos]
		if !util.IsBlank(c) {
			return
		}
		if c == '\n' {
			tokenizer.currentLine++
		}
		tokenizer.currentPos++
	}
}

func (tokenizer *Tokenizer) hasRemainCharacters() bool {
	return tokenizer.currentPos < len(tokenizer.source)
}

// skipComment skips a /* */ comment. An unterminated comment swallows the rest of source.
func (tokenizer *Tokenizer) skipComment() {
	startLine := tokenizer.currentLine
	rest := tokenizer.source[tokenizer.currentPos+2:]
	end := strings.Index(rest, "*/")
	if end < 0 {
		tokenizer.currentLine += strings.Count(rest, "\n")
		tokenizer.currentPos = len(tokenizer.source)
		tokenizer.reportErrorAt(startLine, "unterminated comment")
		return
	}
	tokenizer.currentLine += strings.Count(rest[:end], "\n")
	tokenizer.currentPos += 2 + end + 2
}

func (tokenizer *Tokenizer) startsWithCast() bool {
	rest := tokenizer.source[tokenizer.currentPos:]
	return strings.HasPrefix(rest, castToIntLiteral) || strings.HasPrefix(rest, castToFloatLiteral)
}

func (tokenizer *Tokenizer) tokenCast() *Token {
	literal := castToIntLiteral
	if strings.HasPrefix(tokenizer.source[tokenizer.currentPos:], castToFloatLiteral) {
		literal = castToFloatLiteral
	}
	return tokenizer.makeToken(CastTP, tokenizer.currentPos+len(literal))
}

// tokenNumber matches digits '.' digits* or digits.
func (tokenizer *Tokenizer) tokenNumber() *Token {
	endPos := tokenizer.skipDigits(tokenizer.currentPos)
	if endPos < len(tokenizer.source) && tokenizer.source[endPos] == '.' {
		endPos = tokenizer.skipDigits(endPos + 1)
	}
	return tokenizer.makeToken(NumberTP, endPos)
}

func (tokenizer *Tokenizer) skipDigits(pos int) int {
	for pos < len(tokenizer.source) && util.IsNumber(tokenizer.source[pos]) {
		pos++
	}
	return pos
}

// toKeywordOrIdentifier takes the whole alphanumeric run first, so keywords only match
// as whole words.
func (tokenizer *Tokenizer) toKeywordOrIdentifier() *Token {
	endPos := tokenizer.currentPos
	for endPos < len(tokenizer.source) && util.IsLetterOrNumber(tokenizer.source[endPos]) {
		endPos++
	}
	word := tokenizer.source[tokenizer.currentPos:endPos]
	keyWordTP, isKeyWord := keyWordTokenTPMap[word]
	if isKeyWord {
		return tokenizer.makeToken(keyWordTP, endPos)
	}
	return tokenizer.makeToken(IdentifierTP, endPos)
}

func (tokenizer *Tokenizer) tokenSymbol() *Token {
	rest := tokenizer.source[tokenizer.currentPos:]
	for _, symbol := range symbolTokens {
		if strings.HasPrefix(rest, symbol.symbol) {
			return tokenizer.makeToken(symbol.tp, tokenizer.currentPos+len(symbol.symbol))
		}
	}
	return nil
}

func (tokenizer *Tokenizer) makeToken(tp TokenType, endPos int) *Token {
	token := &Token{
		content:  tokenizer.source[tokenizer.currentPos:endPos],
		line:     tokenizer.currentLine,
		startPos: tokenizer.currentPos,
		endPos:   endPos,
		tp:       tp,
	}
	tokenizer.currentPos = endPos
	return token
}

func (tokenizer *Tokenizer) reportError(msg string) {
	tokenizer.reportErrorAt(tokenizer.currentLine, msg)
}

func (tokenizer *Tokenizer) reportErrorAt(line int, msg string) {
	if tokenizer.errh != nil {
		tokenizer.errh(line, msg)
	}
}

// Tokenize drains a new Tokenizer over source.
func Tokenize(source string, errh ErrorHandler) (tokens []*Token) {
	tokenizer := NewTokenizer(source, errh)
	for {
		token, ok := tokenizer.Next()
		if !ok {
			return
		}
		tokens = append(tokens, token)
	}
}
