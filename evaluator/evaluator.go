package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tinybas/tinybas/ast"
	"github.com/tinybas/tinybas/berrors"
)

// RuntimeError carries a BASIC error code and the line number that
// tripped it.
type RuntimeError struct {
	Code int // one of the berrors codes
	Line int // BASIC line number
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s in %d", berrors.TextForError(e.Code), e.Line)
}

// Machine executes a parsed program one statement at a time
type Machine struct {
	prog *ast.Program
	env  *Environment
	term Console

	lines   map[int]int // declared line number to statement index
	pc      int
	curLine int
}

// New readies a machine for a program. It fails when two statements
// claim the same line number.
func New(prog *ast.Program, term Console) (*Machine, error) {
	lines, err := lineIndex(prog)
	if err != nil {
		return nil, err
	}

	return &Machine{
		prog:  prog,
		env:   NewEnvironment(),
		term:  term,
		lines: lines,
	}, nil
}

// Run executes a program and collects everything it prints. On error
// the lines printed before the failure come back too.
func Run(prog *ast.Program) ([]string, error) {
	capture := &Capture{}

	m, err := New(prog, capture)
	if err != nil {
		return nil, err
	}

	err = m.Run()

	return capture.Lines(), err
}

func lineIndex(prog *ast.Program) (map[int]int, error) {
	lines := make(map[int]int, len(prog.Statements))

	for i, stmt := range prog.Statements {
		ln := stmt.LineNumber()
		if _, ok := lines[ln]; ok {
			return nil, &RuntimeError{Code: berrors.DuplicateDefinition, Line: ln}
		}
		lines[ln] = i
	}

	return lines, nil
}

// Run starts at the first statement and keeps stepping until the
// program falls off the end or an END statement stops it
func (m *Machine) Run() error {
	m.pc = 0

	for m.pc < len(m.prog.Statements) {
		next, err := m.step(m.prog.Statements[m.pc])
		if err != nil {
			return err
		}
		m.pc = next
	}

	return nil
}

// step executes one statement and returns the index of the next one
func (m *Machine) step(stmt ast.Statement) (int, error) {
	m.curLine = stmt.LineNumber()

	switch stmt := stmt.(type) {
	case *ast.PrintStatement:
		return m.evalPrint(stmt)
	case *ast.LetStatement:
		return m.evalLet(stmt)
	case *ast.IfStatement:
		return m.evalIf(stmt)
	case *ast.GotoStatement:
		return m.jump(stmt.Target)
	case *ast.GosubStatement:
		m.env.Push(m.pc + 1)
		return m.jump(stmt.Target)
	case *ast.ReturnStatement:
		ret, ok := m.env.Pop()
		if !ok {
			return 0, m.runtimeError(berrors.ReturnWoGosub)
		}
		return ret, nil
	case *ast.EndStatement:
		return len(m.prog.Statements), nil
	}

	return 0, m.runtimeError(berrors.Syntax)
}

// evalPrint writes the items back to back, the commas in the source
// separate items without printing anything themselves
func (m *Machine) evalPrint(stmt *ast.PrintStatement) (int, error) {
	var out strings.Builder

	for _, item := range stmt.Items {
		switch item := item.(type) {
		case *ast.StringLiteral:
			out.WriteString(item.Value)
		case ast.Expression:
			val, err := m.evalExpression(item)
			if err != nil {
				return 0, err
			}
			out.WriteString(strconv.Itoa(val))
		}
	}

	m.term.Println(out.String())

	return m.pc + 1, nil
}

func (m *Machine) evalLet(stmt *ast.LetStatement) (int, error) {
	val, err := m.evalExpression(stmt.Value)
	if err != nil {
		return 0, err
	}
	m.env.Set(stmt.Name.Value, val)

	return m.pc + 1, nil
}

// evalIf steps into the consequence directly so a GOSUB in the branch
// still records the statement after the IF as its return point
func (m *Machine) evalIf(stmt *ast.IfStatement) (int, error) {
	cond, err := m.evalBoolean(stmt.Condition)
	if err != nil {
		return 0, err
	}

	if !cond {
		return m.pc + 1, nil
	}

	return m.step(stmt.Consequence)
}

func (m *Machine) evalBoolean(cond *ast.BooleanExpression) (bool, error) {
	left, err := m.evalExpression(cond.Left)
	if err != nil {
		return false, err
	}

	right, err := m.evalExpression(cond.Right)
	if err != nil {
		return false, err
	}

	switch cond.Operator {
	case "=":
		return left == right, nil
	case "<>":
		return left != right, nil
	case "<":
		return left < right, nil
	case "<=":
		return left <= right, nil
	case ">":
		return left > right, nil
	case ">=":
		return left >= right, nil
	}

	return false, m.runtimeError(berrors.Syntax)
}

func (m *Machine) evalExpression(exp ast.Expression) (int, error) {
	switch exp := exp.(type) {
	case *ast.NumberLiteral:
		return exp.Value, nil
	case *ast.Identifier:
		return m.env.Get(exp.Value), nil
	case *ast.PrefixExpression:
		return m.evalPrefix(exp)
	case *ast.InfixExpression:
		return m.evalInfix(exp)
	}

	return 0, m.runtimeError(berrors.Syntax)
}

func (m *Machine) evalPrefix(exp *ast.PrefixExpression) (int, error) {
	if exp.Operator != "-" {
		return 0, m.runtimeError(berrors.Syntax)
	}

	right, err := m.evalExpression(exp.Right)
	if err != nil {
		return 0, err
	}

	return -right, nil
}

// evalInfix does integer arithmetic, division truncates toward zero
func (m *Machine) evalInfix(exp *ast.InfixExpression) (int, error) {
	left, err := m.evalExpression(exp.Left)
	if err != nil {
		return 0, err
	}

	right, err := m.evalExpression(exp.Right)
	if err != nil {
		return 0, err
	}

	switch exp.Operator {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, m.runtimeError(berrors.DivByZero)
		}
		return left / right, nil
	}

	return 0, m.runtimeError(berrors.Syntax)
}

// jump resolves a declared line number to its statement index
func (m *Machine) jump(target int) (int, error) {
	idx, ok := m.lines[target]
	if !ok {
		return 0, m.runtimeError(berrors.UnDefinedLineNumber)
	}

	return idx, nil
}

func (m *Machine) runtimeError(code int) error {
	return &RuntimeError{Code: code, Line: m.curLine}
}
