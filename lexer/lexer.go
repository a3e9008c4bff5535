package lexer

import (
	"fmt"

	"github.com/tinybas/tinybas/token"
)

//Lexer a lexical analyzer instance
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	newLine      bool // flag that I'm at the start of a line
}

//New create a new lexer object
func New(input string) *Lexer {
	l := &Lexer{
		input:   input,
		newLine: true,
	}
	l.readChar()
	return l
}

//ScanError reports the first piece of input the scanner had no rule
//for, Pos is a byte offset into the source
type ScanError struct {
	Char byte
	Pos  int
	Msg  string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

//Scan tokenizes source in one pass, the returned sequence always ends
//with the EOF sentinel
func Scan(source string) ([]token.Token, error) {
	l := New(source)

	var toks []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			return nil, scanError(tok)
		}

		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

func scanError(tok token.Token) *ScanError {
	ch := tok.Literal[0]
	if ch == '"' {
		return &ScanError{Char: ch, Pos: tok.Span.Start, Msg: "unterminated string"}
	}
	return &ScanError{Char: ch, Pos: tok.Span.Start, Msg: fmt.Sprintf("illegal character %q", ch)}
}

//NextToken scans for the next token
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	start := l.position
	lineStart := l.newLine
	if l.ch != '\n' {
		l.newLine = false
	}

	switch l.ch {
	case '\n':
		tok = l.newToken(token.EOL, l.ch)
	case '=':
		tok = l.newToken(token.ASSIGN, l.ch)
	case '(':
		tok = l.newToken(token.LPAREN, l.ch)
	case ')':
		tok = l.newToken(token.RPAREN, l.ch)
	case ',':
		tok = l.newToken(token.COMMA, l.ch)
	case '+':
		tok = l.newToken(token.PLUS, l.ch)
	case '-':
		tok = l.newToken(token.MINUS, l.ch)
	case '/':
		tok = l.newToken(token.SLASH, l.ch)
	case '*':
		tok = l.newToken(token.ASTERISK, l.ch)
	case '<':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.LTE)
		} else if l.peekChar() == '>' {
			tok = l.twoCharToken(token.NOT_EQ)
		} else {
			tok = l.newToken(token.LT, l.ch)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.GTE)
		} else {
			tok = l.newToken(token.GT, l.ch)
		}
	case '"':
		literal, ok := l.readString()
		if !ok {
			// the string never closed, report the opening quote
			return token.Token{Type: token.ILLEGAL, Literal: `"`, Span: token.Span{Start: start, End: start + 1}}
		}
		return token.Token{Type: token.STRING, Literal: literal, Span: token.Span{Start: start, End: l.position}}
	case 0:
		tok.Literal = token.EOF
		tok.Type = token.EOF
		tok.Span = token.Span{Start: len(l.input), End: len(l.input)}
	default:
		if isLetter(l.ch) {
			lit := l.readIdentifier()
			tt := token.LookupIdent(lit)
			if tt == token.REM {
				// a comment eats the rest of its line and yields nothing
				l.skipComment()
				return l.NextToken()
			}
			return token.Token{Type: tt, Literal: lit, Span: token.Span{Start: start, End: l.position}}
		} else if isDigit(l.ch) {
			lit := l.readNumber()
			tt := token.TokenType(token.INT)
			if lineStart {
				tt = token.LINENUM
			}
			return token.Token{Type: tt, Literal: lit, Span: token.Span{Start: start, End: l.position}}
		} else {
			tok = l.newToken(token.ILLEGAL, l.ch)
		}
	}

	l.readChar()
	return tok
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// readString returns false when the line or the input ends before the
// closing quote
func (l *Lexer) readString() (string, bool) {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == '"' {
			break
		}
		if (l.ch == 0) || (l.ch == '\n') {
			return "", false
		}
	}

	lit := l.input[position:l.position]
	l.readChar()
	return lit, true
}

// reads a string of digits
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// skipComment throws away everything up to the end of the line
func (l *Lexer) skipComment() {
	for (l.ch != '\n') && (l.ch != 0) {
		l.readChar()
	}
}

//peekChar - take a look at, but don't consume the next character
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}

	return l.input[l.readPosition]
}

func (l *Lexer) newToken(tokenType token.TokenType, ch byte) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch), Span: token.Span{Start: l.position, End: l.position + 1}}
}

// twoCharToken consumes the first char of a two character operator
func (l *Lexer) twoCharToken(tokenType token.TokenType) token.Token {
	ch := l.ch
	l.readChar()
	literal := string(ch) + string(l.ch)
	return token.Token{Type: tokenType, Literal: literal, Span: token.Span{Start: l.position - 1, End: l.position + 1}}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		if l.ch == '\n' {
			l.newLine = true
			return
		}
		l.readChar()
	}
}
