package evaluator

import (
	"fmt"
	"os"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinybas/tinybas/ast"
	"github.com/tinybas/tinybas/berrors"
	"github.com/tinybas/tinybas/lexer"
	"github.com/tinybas/tinybas/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()

	tokens, err := lexer.Scan(src)
	require.NoErrorf(t, err, "lexer.Scan(%q)", src)

	prog, err := parser.New(tokens).ParseProgram()
	require.NoErrorf(t, err, "ParseProgram(%q)", src)

	return prog
}

func testRun(t *testing.T, src string) ([]string, error) {
	t.Helper()

	return Run(parse(t, src))
}

func TestLetAndPrint(t *testing.T) {
	got, err := testRun(t, "10 LET X = 5\n20 PRINT X")

	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, got)
}

func TestPrintConcatenation(t *testing.T) {
	got, err := testRun(t, `10 PRINT "X is ", 2 + 3, "!"`)

	require.NoError(t, err)
	assert.Equal(t, []string{"X is 5!"}, got)
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"10 / 3", "3"},
		{"-7 / 2", "-3"},
		{"10 - 4 - 3", "3"},
		{"-(2 + 3)", "-5"},
		{"2 * -3", "-6"},
		{"0 - 10 / 3", "-3"},
	}

	for i, tt := range tests {
		got, err := testRun(t, "10 PRINT "+tt.expr)

		require.NoErrorf(t, err, "tests[%d] expr %q", i, tt.expr)
		assert.Equalf(t, []string{tt.want}, got, "tests[%d] expr %q", i, tt.expr)
	}
}

func TestGotoSkips(t *testing.T) {
	src := `10 GOTO 30
20 PRINT "skipped"
30 PRINT "ok"`

	got, err := testRun(t, src)

	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, got)
}

func TestGosubReturn(t *testing.T) {
	src := `10 GOSUB 100
20 PRINT "after"
30 END
100 PRINT "in sub"
110 RETURN`

	got, err := testRun(t, src)

	require.NoError(t, err)
	assert.Equal(t, []string{"in sub", "after"}, got)
}

// without an END the program falls through into the subroutine a
// second time and the RETURN finds an empty stack
func TestGosubFallThrough(t *testing.T) {
	src := `10 GOSUB 100
20 PRINT "after"
100 PRINT "in sub"
110 RETURN`

	got, err := testRun(t, src)

	require.EqualError(t, err, "RETURN without GOSUB in 110")
	assert.Equal(t, []string{"in sub", "after", "in sub"}, got)
}

func TestGosubInsideIf(t *testing.T) {
	src := `10 LET N = 1
20 IF N = 1 THEN GOSUB 100
30 PRINT "back"
40 END
100 PRINT "sub"
110 RETURN`

	got, err := testRun(t, src)

	require.NoError(t, err)
	assert.Equal(t, []string{"sub", "back"}, got)
}

func TestIfFalseHasNoSideEffects(t *testing.T) {
	src := `10 IF 1 = 2 THEN LET X = 9
20 PRINT X`

	got, err := testRun(t, src)

	require.NoError(t, err)
	assert.Equal(t, []string{"0"}, got)
}

func TestIfConditions(t *testing.T) {
	tests := []struct {
		cond string
		take bool
	}{
		{"1 = 1", true},
		{"1 = 2", false},
		{"1 <> 2", true},
		{"2 <> 2", false},
		{"1 < 2", true},
		{"2 < 1", false},
		{"2 <= 2", true},
		{"3 <= 2", false},
		{"2 > 1", true},
		{"1 > 2", false},
		{"3 >= 3", true},
		{"2 >= 3", false},
	}

	for i, tt := range tests {
		src := fmt.Sprintf("10 IF %s THEN PRINT 1\n20 PRINT 2", tt.cond)

		got, err := testRun(t, src)
		require.NoErrorf(t, err, "tests[%d] cond %q", i, tt.cond)

		want := []string{"2"}
		if tt.take {
			want = []string{"1", "2"}
		}
		assert.Equalf(t, want, got, "tests[%d] cond %q", i, tt.cond)
	}
}

func TestIfGotoShorthandRuns(t *testing.T) {
	src := `10 IF 1 = 1 THEN 40
20 PRINT "no"
40 PRINT "yes"`

	got, err := testRun(t, src)

	require.NoError(t, err)
	assert.Equal(t, []string{"yes"}, got)
}

func TestEndStopsExecution(t *testing.T) {
	src := `10 PRINT "a"
20 END
30 PRINT "b"`

	got, err := testRun(t, src)

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
}

func TestCountdownLoop(t *testing.T) {
	src := `10 LET N = 3
20 IF N = 0 THEN 60
30 PRINT N
40 LET N = N - 1
50 GOTO 20
60 PRINT "liftoff"`

	got, err := testRun(t, src)

	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2", "1", "liftoff"}, got)
}

func TestVariablesAreCaseInsensitive(t *testing.T) {
	src := `10 LET total = 3
20 LET TOTAL = total + 1
30 PRINT Total`

	got, err := testRun(t, src)

	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, got)
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"10 PRINT 1 / 0", "Division by zero in 10"},
		{"10 LET X = 1 / 0", "Division by zero in 10"},
		{"10 IF 1 / 0 = 1 THEN PRINT 1", "Division by zero in 10"},
		{"10 GOTO 99", "Undefined line number in 10"},
		{"10 GOSUB 99", "Undefined line number in 10"},
		{"10 RETURN", "RETURN without GOSUB in 10"},
	}

	for i, tt := range tests {
		_, err := testRun(t, tt.src)

		require.Errorf(t, err, "tests[%d] - no error for %q", i, tt.src)
		assert.EqualErrorf(t, err, tt.want, "tests[%d] src %q", i, tt.src)
	}
}

func TestRuntimeErrorFields(t *testing.T) {
	_, err := testRun(t, "10 PRINT 1 / 0")

	var rerr *RuntimeError
	require.ErrorAsf(t, err, &rerr, "err is %T", err)

	assert.Equal(t, berrors.DivByZero, rerr.Code)
	assert.Equal(t, 10, rerr.Line)
}

func TestDuplicateLineNumbers(t *testing.T) {
	got, err := testRun(t, "10 PRINT 1\n10 PRINT 2")

	require.EqualError(t, err, "Duplicate Definition in 10")
	assert.Empty(t, got)
}

func TestPartialOutputOnError(t *testing.T) {
	got, err := testRun(t, "10 PRINT \"one\"\n20 GOTO 99")

	require.EqualError(t, err, "Undefined line number in 20")
	assert.Equal(t, []string{"one"}, got)
}

func TestEmptyProgram(t *testing.T) {
	got, err := Run(&ast.Program{})

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPrograms(t *testing.T) {
	data, err := os.ReadFile("testdata/programs.yaml")
	require.NoError(t, err)

	var cases []struct {
		Name   string   `yaml:"name"`
		Source string   `yaml:"source"`
		Output []string `yaml:"output"`
		Error  string   `yaml:"error"`
	}
	require.NoError(t, yaml.Unmarshal(data, &cases))

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := testRun(t, tc.Source)

			if tc.Error != "" {
				require.EqualError(t, err, tc.Error)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.Output, got)
		})
	}
}
