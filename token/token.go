package token

import (
	"fmt"
	"strings"
)

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"
	EOL     = "EOL"

	// Identifiers + literals
	IDENT   = "IDENT"  // X, SUM, count, ...
	LINENUM = "####"   // 10, 15, 20, ...
	INT     = "INT"    // unsigned digit run, sign is the parser's problem
	STRING  = "STRING" // "A string literal"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"

	LT     = "<"
	GT     = ">"
	NOT_EQ = "<>"
	GTE    = ">="
	LTE    = "<="

	// Delimiters
	COMMA  = ","
	LPAREN = "("
	RPAREN = ")"

	// Keywords
	END    = "END"
	GOSUB  = "GOSUB"
	GOTO   = "GOTO"
	IF     = "IF"
	LET    = "LET"
	PRINT  = "PRINT"
	REM    = "REM"
	RETURN = "RETURN"
	THEN   = "THEN"
)

// Span is the half-open range [Start, End) of source bytes a token
// occupied. Parsed nodes carry the union of their tokens' spans.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

type Token struct {
	Type    TokenType
	Literal string
	Span    Span
}

var keywords = map[string]TokenType{
	"end":    END,
	"gosub":  GOSUB,
	"goto":   GOTO,
	"if":     IF,
	"let":    LET,
	"print":  PRINT,
	"rem":    REM,
	"return": RETURN,
	"then":   THEN,
}

// LookupIdent decides identifier versus keyword, keywords match in any
// case.
func LookupIdent(ident string) TokenType {

	if tok, ok := keywords[strings.ToLower(ident)]; ok {
		return tok
	}
	return IDENT
}
