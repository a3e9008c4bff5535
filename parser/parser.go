package parser

import (
	"fmt"
	"os"
	"strconv"

	"github.com/k0kubun/pp"

	"github.com/tinybas/tinybas/ast"
	"github.com/tinybas/tinybas/berrors"
	"github.com/tinybas/tinybas/token"
)

// ParseError reports the first point where the token sequence stopped
// matching the grammar.
type ParseError struct {
	Msg  string      // what the parser wanted
	Tok  token.Token // the offending token
	Line int         // BASIC line being parsed, -1 before the first line number
}

func (e *ParseError) Error() string {
	if e.Line < 0 {
		return fmt.Sprintf("%s: %s", berrors.TextForError(berrors.Syntax), e.Msg)
	}

	return fmt.Sprintf("%s in %d: %s", berrors.TextForError(berrors.Syntax), e.Line, e.Msg)
}

// Parser walks a scanned token sequence with one token of lookahead
type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	curLine int  // line number of the line being parsed
	debug   bool // dump each statement as it is built
}

// New creates a parser over a token sequence, normally the output of
// lexer.Scan
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 {
		tokens = []token.Token{{Type: token.EOF, Literal: token.EOF}}
	}

	p := &Parser{
		tokens:  tokens,
		curLine: -1,
		debug:   os.Getenv("TINYBAS_PARSE_TRACE") != "",
	}

	// prime curToken and peekToken
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken

	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances onto the wanted token or fails the parse
func (p *Parser) expectPeek(t token.TokenType) error {
	if p.peekTokenIs(t) {
		p.nextToken()
		return nil
	}

	return p.peekError(t)
}

func (p *Parser) peekError(t token.TokenType) error {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type)
	return &ParseError{Msg: msg, Tok: p.peekToken, Line: p.curLine}
}

func (p *Parser) parseError(msg string) error {
	return &ParseError{Msg: msg, Tok: p.curToken, Line: p.curLine}
}

func describeToken(tok token.Token) string {
	switch tok.Type {
	case token.EOL:
		return "end of line"
	case token.EOF:
		return "end of input"
	}

	return fmt.Sprintf("%q", tok.Literal)
}

// ParseProgram consumes the whole sequence and returns the statements
// in source order. The first grammar violation aborts the parse.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{}

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.EOL) {
			p.nextToken()
			continue
		}

		stmt, err := p.parseLine()
		if err != nil {
			return nil, err
		}

		if stmt != nil {
			program.AddStatement(stmt)

			if p.debug {
				pp.Println(stmt)
			}
		}
	}

	return program, nil
}

// parseLine handles one source line, the mandatory line number and the
// statement after it. A bare line number is a no-op and produces no
// statement.
func (p *Parser) parseLine() (ast.Statement, error) {
	if !p.curTokenIs(token.LINENUM) {
		return nil, p.parseError(fmt.Sprintf("expected line number, got %s instead", describeToken(p.curToken)))
	}

	ln, err := strconv.Atoi(p.curToken.Literal)
	if err != nil {
		return nil, p.parseError(fmt.Sprintf("could not parse %q as a line number", p.curToken.Literal))
	}
	p.curLine = ln
	lineStart := p.curToken.Span.Start
	p.nextToken()

	if p.curTokenIs(token.EOL) || p.curTokenIs(token.EOF) {
		return nil, nil
	}

	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	// one statement per line
	if !p.peekTokenIs(token.EOL) && !p.peekTokenIs(token.EOF) {
		msg := fmt.Sprintf("unexpected %s after statement", describeToken(p.peekToken))
		return nil, &ParseError{Msg: msg, Tok: p.peekToken, Line: p.curLine}
	}
	p.nextToken()

	widenStatement(stmt, token.Span{Start: lineStart, End: stmt.End()})

	return stmt, nil
}

// parseStatement dispatches on the leading keyword. On return the
// current token is the last token of the statement.
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curToken.Type {
	case token.PRINT:
		return p.parsePrintStatement()
	case token.LET:
		return p.parseLetStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.GOTO:
		return p.parseGotoStatement()
	case token.GOSUB:
		return p.parseGosubStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.END:
		return p.parseEndStatement()
	}

	return nil, p.parseError(fmt.Sprintf("unexpected %s, wanted a statement keyword", describeToken(p.curToken)))
}

func (p *Parser) parsePrintStatement() (*ast.PrintStatement, error) {
	stmt := &ast.PrintStatement{Token: p.curToken, Line: p.curLine, Span: p.curToken.Span}

	if p.peekTokenIs(token.EOL) || p.peekTokenIs(token.EOF) {
		return nil, &ParseError{Msg: "PRINT needs at least one item", Tok: p.peekToken, Line: p.curLine}
	}

	for {
		p.nextToken()

		item, err := p.parsePrintItem()
		if err != nil {
			return nil, err
		}
		stmt.Items = append(stmt.Items, item)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	stmt.Span.End = stmt.Items[len(stmt.Items)-1].End()

	return stmt, nil
}

// parsePrintItem accepts a string literal where an expression cannot go
func (p *Parser) parsePrintItem() (ast.PrintItem, error) {
	if p.curTokenIs(token.STRING) {
		return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal, Span: p.curToken.Span}, nil
	}

	return p.parseExpression()
}

func (p *Parser) parseLetStatement() (*ast.LetStatement, error) {
	stmt := &ast.LetStatement{Token: p.curToken, Line: p.curLine, Span: p.curToken.Span}

	if err := p.expectPeek(token.IDENT); err != nil {
		return nil, err
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal, Span: p.curToken.Span}

	if err := p.expectPeek(token.ASSIGN); err != nil {
		return nil, err
	}

	p.nextToken()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Value = value
	stmt.Span.End = value.End()

	return stmt, nil
}

func (p *Parser) parseIfStatement() (*ast.IfStatement, error) {
	stmt := &ast.IfStatement{Token: p.curToken, Line: p.curLine, Span: p.curToken.Span}

	p.nextToken()
	cond, err := p.parseBooleanExpression()
	if err != nil {
		return nil, err
	}
	stmt.Condition = cond

	if err := p.expectPeek(token.THEN); err != nil {
		return nil, err
	}

	p.nextToken()
	cons, err := p.parseIfOption()
	if err != nil {
		return nil, err
	}
	stmt.Consequence = cons
	stmt.Span.End = cons.End()

	return stmt, nil
}

// parseIfOption handles the THEN branch, a bare line number is
// shorthand for GOTO
func (p *Parser) parseIfOption() (ast.Statement, error) {
	if p.curTokenIs(token.INT) {
		target, err := strconv.Atoi(p.curToken.Literal)
		if err != nil {
			return nil, p.parseError(fmt.Sprintf("could not parse %q as a line number", p.curToken.Literal))
		}

		return &ast.GotoStatement{Token: p.curToken, Line: p.curLine, Target: target, Span: p.curToken.Span}, nil
	}

	return p.parseStatement()
}

// parseBooleanExpression allows exactly one comparison, there is no
// chaining and no boolean algebra
func (p *Parser) parseBooleanExpression() (*ast.BooleanExpression, error) {
	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if !isRelop(p.peekToken.Type) {
		msg := fmt.Sprintf("expected a relational operator, got %s instead", describeToken(p.peekToken))
		return nil, &ParseError{Msg: msg, Tok: p.peekToken, Line: p.curLine}
	}
	p.nextToken()

	cond := &ast.BooleanExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}

	p.nextToken()
	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	cond.Right = right
	cond.Span = token.Span{Start: left.Pos(), End: right.End()}

	if isRelop(p.peekToken.Type) {
		return nil, &ParseError{Msg: "comparisons cannot be chained", Tok: p.peekToken, Line: p.curLine}
	}

	return cond, nil
}

func isRelop(t token.TokenType) bool {
	switch t {
	case token.ASSIGN, token.NOT_EQ, token.LT, token.LTE, token.GT, token.GTE:
		return true
	}

	return false
}

// parseExpression handles the loosest binding level
// expression := term (('+' | '-') term)*
func (p *Parser) parseExpression() (ast.Expression, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.peekTokenIs(token.PLUS) || p.peekTokenIs(token.MINUS) {
		p.nextToken()
		exp := &ast.InfixExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}

		p.nextToken()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		exp.Right = right
		exp.Span = token.Span{Start: left.Pos(), End: right.End()}

		left = exp
	}

	return left, nil
}

// term := factor (('*' | '/') factor)*
func (p *Parser) parseTerm() (ast.Expression, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.peekTokenIs(token.ASTERISK) || p.peekTokenIs(token.SLASH) {
		p.nextToken()
		exp := &ast.InfixExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}

		p.nextToken()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		exp.Right = right
		exp.Span = token.Span{Start: left.Pos(), End: right.End()}

		left = exp
	}

	return left, nil
}

// factor := number | identifier | '(' expression ')' | '-' factor
func (p *Parser) parseFactor() (ast.Expression, error) {
	switch p.curToken.Type {
	case token.INT:
		return p.parseNumberLiteral()
	case token.IDENT:
		return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal, Span: p.curToken.Span}, nil
	case token.LPAREN:
		return p.parseGroupedExpression()
	case token.MINUS:
		return p.parsePrefixExpression()
	}

	return nil, p.parseError(fmt.Sprintf("unexpected %s in expression", describeToken(p.curToken)))
}

func (p *Parser) parseNumberLiteral() (ast.Expression, error) {
	value, err := strconv.Atoi(p.curToken.Literal)
	if err != nil {
		return nil, p.parseError(fmt.Sprintf("could not parse %q as integer", p.curToken.Literal))
	}

	return &ast.NumberLiteral{Token: p.curToken, Value: value, Span: p.curToken.Span}, nil
}

func (p *Parser) parsePrefixExpression() (ast.Expression, error) {
	exp := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Literal, Span: p.curToken.Span}

	p.nextToken()
	right, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	exp.Right = right
	exp.Span.End = right.End()

	return exp, nil
}

// parseGroupedExpression keeps the parentheses inside the returned
// expression's span
func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	lparen := p.curToken

	p.nextToken()
	exp, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if err := p.expectPeek(token.RPAREN); err != nil {
		return nil, err
	}

	widenExpression(exp, token.Span{Start: lparen.Span.Start, End: p.curToken.Span.End})

	return exp, nil
}

func (p *Parser) parseGotoStatement() (*ast.GotoStatement, error) {
	stmt := &ast.GotoStatement{Token: p.curToken, Line: p.curLine, Span: p.curToken.Span}

	if !p.peekTokenIs(token.INT) {
		return nil, &ParseError{Msg: "GOTO needs a target line number", Tok: p.peekToken, Line: p.curLine}
	}
	p.nextToken()

	target, err := strconv.Atoi(p.curToken.Literal)
	if err != nil {
		return nil, p.parseError(fmt.Sprintf("could not parse %q as a line number", p.curToken.Literal))
	}
	stmt.Target = target
	stmt.Span.End = p.curToken.Span.End

	return stmt, nil
}

func (p *Parser) parseGosubStatement() (*ast.GosubStatement, error) {
	stmt := &ast.GosubStatement{Token: p.curToken, Line: p.curLine, Span: p.curToken.Span}

	if !p.peekTokenIs(token.INT) {
		return nil, &ParseError{Msg: "GOSUB needs a target line number", Tok: p.peekToken, Line: p.curLine}
	}
	p.nextToken()

	target, err := strconv.Atoi(p.curToken.Literal)
	if err != nil {
		return nil, p.parseError(fmt.Sprintf("could not parse %q as a line number", p.curToken.Literal))
	}
	stmt.Target = target
	stmt.Span.End = p.curToken.Span.End

	return stmt, nil
}

func (p *Parser) parseReturnStatement() (*ast.ReturnStatement, error) {
	return &ast.ReturnStatement{Token: p.curToken, Line: p.curLine, Span: p.curToken.Span}, nil
}

func (p *Parser) parseEndStatement() (*ast.EndStatement, error) {
	return &ast.EndStatement{Token: p.curToken, Line: p.curLine, Span: p.curToken.Span}, nil
}

// widenExpression grows a node's span, used to pull enclosing
// parentheses into the node they produce
func widenExpression(exp ast.Expression, span token.Span) {
	switch exp := exp.(type) {
	case *ast.NumberLiteral:
		exp.Span = span
	case *ast.Identifier:
		exp.Span = span
	case *ast.PrefixExpression:
		exp.Span = span
	case *ast.InfixExpression:
		exp.Span = span
	}
}

// widenStatement stretches a statement's span back over its line number
func widenStatement(stmt ast.Statement, span token.Span) {
	switch stmt := stmt.(type) {
	case *ast.PrintStatement:
		stmt.Span = span
	case *ast.LetStatement:
		stmt.Span = span
	case *ast.IfStatement:
		stmt.Span = span
	case *ast.GotoStatement:
		stmt.Span = span
	case *ast.GosubStatement:
		stmt.Span = span
	case *ast.ReturnStatement:
		stmt.Span = span
	case *ast.EndStatement:
		stmt.Span = span
	}
}
