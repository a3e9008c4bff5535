package berrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextForError(t *testing.T) {
	tests := []struct {
		inp int
		exp string
	}{
		{inp: DivByZero, exp: "Division by zero"},
		{inp: DuplicateDefinition, exp: "Duplicate Definition"},
		{inp: ReturnWoGosub, exp: "RETURN without GOSUB"},
		{inp: Syntax, exp: "Syntax error"},
		{inp: UnDefinedLineNumber, exp: "Undefined line number"},
		{inp: 100, exp: "Unprintable error"},
	}

	for _, tt := range tests {
		rc := TextForError(tt.inp)

		assert.EqualValuesf(t, tt.exp, rc, "TextForError(%d) got %s, wanted %s", tt.inp, rc, tt.exp)
	}
}
