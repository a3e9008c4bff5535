package ast

import (
	"bytes"
	"strconv"
)

//Program holds the root of the AST (Abstract Syntax Tree)
type Program struct {
	Statements []Statement // one per executable source line, in source order
}

// AddStatement adds a new statement to the AST
func (p *Program) AddStatement(stmt Statement) {
	p.Statements = append(p.Statements, stmt)
}

// TokenLiteral names the dialect
func (p *Program) TokenLiteral() string { return "TinyBas" }

// String renders the listing, one numbered line per statement
func (p *Program) String() string {
	var out bytes.Buffer

	for i, stmt := range p.Statements {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(strconv.Itoa(stmt.LineNumber()))
		out.WriteString(" ")
		out.WriteString(stmt.String())
	}

	return out.String()
}
