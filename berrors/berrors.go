package berrors

// the classic BASIC error numbers, trimmed to the ones this dialect
// can actually raise
const (
	Syntax              = 2
	ReturnWoGosub       = 3
	UnDefinedLineNumber = 8
	DuplicateDefinition = 10
	DivByZero           = 11
)

// TextForError returns the error text based on error number
func TextForError(err int) string {
	switch err {
	case DivByZero:
		return "Division by zero"
	case DuplicateDefinition:
		return "Duplicate Definition"
	case ReturnWoGosub:
		return "RETURN without GOSUB"
	case Syntax:
		return "Syntax error"
	case UnDefinedLineNumber:
		return "Undefined line number"
	}

	return "Unprintable error"
}
