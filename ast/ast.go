package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tinybas/tinybas/token"
)

// Node defines interface for all node types
type Node interface {
	TokenLiteral() string
	String() string
	Pos() int // offset of the node's first source byte
	End() int // offset one past the node's last source byte
}

// PrintItem is anything PRINT can emit, a string literal or an
// expression
type PrintItem interface {
	Node
	printItem()
}

// Expression nodes evaluate to an integer value, every expression can
// sit in a PRINT list
type Expression interface {
	PrintItem
	expressionNode()
}

// Statement defines the interface for all statement nodes, each one
// knows the BASIC line it was declared under
type Statement interface {
	Node
	statementNode()
	LineNumber() int
}

// BooleanExpression compares two arithmetic values, it is not itself
// an Expression since the language has no boolean values
type BooleanExpression struct {
	Token    token.Token // the relational operator token
	Operator string
	Left     Expression
	Right    Expression
	Span     token.Span
}

// TokenLiteral returns my token literal
func (be *BooleanExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BooleanExpression) Pos() int             { return be.Span.Start }
func (be *BooleanExpression) End() int             { return be.Span.End }
func (be *BooleanExpression) String() string {
	var out bytes.Buffer

	out.WriteString(be.Left.String())
	out.WriteString(" " + be.Operator + " ")
	out.WriteString(be.Right.String())

	return out.String()
}

// EndStatement signals it is time to quit
type EndStatement struct {
	Token token.Token
	Line  int
	Span  token.Span
}

func (end *EndStatement) statementNode() {}

// TokenLiteral is END
func (end *EndStatement) TokenLiteral() string { return strings.ToUpper(end.Token.Literal) }
func (end *EndStatement) LineNumber() int      { return end.Line }
func (end *EndStatement) Pos() int             { return end.Span.Start }
func (end *EndStatement) End() int             { return end.Span.End }
func (end *EndStatement) String() string       { return "END" }

// GosubStatement calls a subroutine
type GosubStatement struct {
	Token  token.Token
	Line   int
	Target int // line number the subroutine starts on
	Span   token.Span
}

func (gsb *GosubStatement) statementNode() {}

// TokenLiteral should return GOSUB
func (gsb *GosubStatement) TokenLiteral() string { return strings.ToUpper(gsb.Token.Literal) }
func (gsb *GosubStatement) LineNumber() int      { return gsb.Line }
func (gsb *GosubStatement) Pos() int             { return gsb.Span.Start }
func (gsb *GosubStatement) End() int             { return gsb.Span.End }
func (gsb *GosubStatement) String() string {
	return fmt.Sprintf("GOSUB %d", gsb.Target)
}

// GotoStatement triggers a jump
type GotoStatement struct {
	Token  token.Token
	Line   int
	Target int // line number execution continues at
	Span   token.Span
}

func (gt *GotoStatement) statementNode() {}

// TokenLiteral should return GOTO
func (gt *GotoStatement) TokenLiteral() string { return strings.ToUpper(gt.Token.Literal) }
func (gt *GotoStatement) LineNumber() int      { return gt.Line }
func (gt *GotoStatement) Pos() int             { return gt.Span.Start }
func (gt *GotoStatement) End() int             { return gt.Span.End }
func (gt *GotoStatement) String() string {
	return fmt.Sprintf("GOTO %d", gt.Target)
}

// Identifier holds the name of a variable
type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
	Span  token.Span
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) printItem()      {}

// TokenLiteral returns my token literal
func (i *Identifier) TokenLiteral() string { return strings.ToUpper(i.Token.Literal) }
func (i *Identifier) Pos() int             { return i.Span.Start }
func (i *Identifier) End() int             { return i.Span.End }
func (i *Identifier) String() string       { return i.Value }

// IfStatement guards a single nested statement, there is no ELSE and
// no block form
type IfStatement struct {
	Token       token.Token // the 'IF' token
	Line        int
	Condition   *BooleanExpression
	Consequence Statement
	Span        token.Span
}

func (ifs *IfStatement) statementNode() {}

// TokenLiteral returns my token literal
func (ifs *IfStatement) TokenLiteral() string { return strings.ToUpper(ifs.Token.Literal) }
func (ifs *IfStatement) LineNumber() int      { return ifs.Line }
func (ifs *IfStatement) Pos() int             { return ifs.Span.Start }
func (ifs *IfStatement) End() int             { return ifs.Span.End }
func (ifs *IfStatement) String() string {
	var out bytes.Buffer

	out.WriteString("IF ")
	out.WriteString(ifs.Condition.String())
	out.WriteString(" THEN ")
	out.WriteString(ifs.Consequence.String())

	return out.String()
}

// InfixExpression things like 5 + 6
type InfixExpression struct {
	Token    token.Token // the operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
	Span     token.Span
}

func (ie *InfixExpression) expressionNode() {}
func (ie *InfixExpression) printItem()      {}

//TokenLiteral my token
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) Pos() int             { return ie.Span.Start }
func (ie *InfixExpression) End() int             { return ie.Span.End }

// String the readable version of me
func (ie *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString(ie.Left.String())
	out.WriteString(" " + ie.Operator + " ")
	out.WriteString(ie.Right.String())

	return out.String()
}

// LetStatement holds the assignment expression
type LetStatement struct {
	Token token.Token // the token.LET token
	Line  int
	Name  *Identifier
	Value Expression
	Span  token.Span
}

func (ls *LetStatement) statementNode() {}

// TokenLiteral returns literal value of the statement
func (ls *LetStatement) TokenLiteral() string { return strings.ToUpper(ls.Token.Literal) }
func (ls *LetStatement) LineNumber() int      { return ls.Line }
func (ls *LetStatement) Pos() int             { return ls.Span.Start }
func (ls *LetStatement) End() int             { return ls.Span.End }
func (ls *LetStatement) String() string {
	var out bytes.Buffer

	out.WriteString("LET ")
	out.WriteString(ls.Name.String())
	out.WriteString(" = ")

	if ls.Value != nil {
		out.WriteString(ls.Value.String())
	}

	return out.String()
}

// NumberLiteral holds an integer literal eg. "5"
type NumberLiteral struct {
	Token token.Token
	Value int
	Span  token.Span
}

func (nl *NumberLiteral) expressionNode() {}
func (nl *NumberLiteral) printItem()      {}

// TokenLiteral returns literal value
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) Pos() int             { return nl.Span.Start }
func (nl *NumberLiteral) End() int             { return nl.Span.End }

// String returns value as an integer
func (nl *NumberLiteral) String() string { return fmt.Sprintf("%d", nl.Value) }

//PrefixExpression the only one here is - as in -5
type PrefixExpression struct {
	Token    token.Token // the prefix token
	Operator string
	Right    Expression
	Span     token.Span
}

func (pe *PrefixExpression) expressionNode() {}
func (pe *PrefixExpression) printItem()      {}

//TokenLiteral returns read string of Token
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) Pos() int             { return pe.Span.Start }
func (pe *PrefixExpression) End() int             { return pe.Span.End }
func (pe *PrefixExpression) String() string {
	var out bytes.Buffer

	out.WriteString(pe.Operator)
	out.WriteString(pe.Right.String())

	return out.String()
}

// PrintStatement holds everything PRINT will emit
type PrintStatement struct {
	Token token.Token
	Line  int
	Items []PrintItem
	Span  token.Span
}

func (ps *PrintStatement) statementNode() {}

// TokenLiteral returns my token literal
func (ps *PrintStatement) TokenLiteral() string { return strings.ToUpper(ps.Token.Literal) }
func (ps *PrintStatement) LineNumber() int      { return ps.Line }
func (ps *PrintStatement) Pos() int             { return ps.Span.Start }
func (ps *PrintStatement) End() int             { return ps.Span.End }
func (ps *PrintStatement) String() string {
	var out bytes.Buffer

	out.WriteString("PRINT ")

	for i, item := range ps.Items {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(item.String())
	}

	return out.String()
}

// ReturnStatement hands control back to the statement after the GOSUB
type ReturnStatement struct {
	Token token.Token // the 'RETURN' token
	Line  int
	Span  token.Span
}

func (rs *ReturnStatement) statementNode() {}

// TokenLiteral returns my token literal
func (rs *ReturnStatement) TokenLiteral() string { return strings.ToUpper(rs.Token.Literal) }
func (rs *ReturnStatement) LineNumber() int      { return rs.Line }
func (rs *ReturnStatement) Pos() int             { return rs.Span.Start }
func (rs *ReturnStatement) End() int             { return rs.Span.End }
func (rs *ReturnStatement) String() string       { return "RETURN" }

// StringLiteral holds a StringLiteral eg. "Hello World", it can be
// printed but it is not an Expression
type StringLiteral struct {
	Token token.Token
	Value string
	Span  token.Span
}

func (sl *StringLiteral) printItem() {}

// TokenLiteral returns literal value
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) Pos() int             { return sl.Span.Start }
func (sl *StringLiteral) End() int             { return sl.Span.End }

// String returns literal as a string
func (sl *StringLiteral) String() string {
	var out bytes.Buffer

	out.WriteString(`"`)
	out.WriteString(sl.Value)
	out.WriteString(`"`)

	return out.String()
}
