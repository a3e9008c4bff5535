package evaluator

import "strings"

// Environment holds the variable bindings and the GOSUB return stack.
// Variable names are case-insensitive, X and x share one cell.
type Environment struct {
	vars  map[string]int
	stack []int
}

// NewEnvironment creates an empty environment
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]int)}
}

// Get fetches a variable, unset variables read as zero
func (e *Environment) Get(name string) int {
	return e.vars[strings.ToUpper(name)]
}

// Set binds a variable, overwriting any prior value
func (e *Environment) Set(name string, val int) {
	e.vars[strings.ToUpper(name)] = val
}

// Push records a return address for GOSUB
func (e *Environment) Push(ret int) {
	e.stack = append(e.stack, ret)
}

// Pop takes back the most recent return address, ok is false when the
// stack is empty
func (e *Environment) Pop() (int, bool) {
	if len(e.stack) == 0 {
		return 0, false
	}

	ret := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]

	return ret, true
}
