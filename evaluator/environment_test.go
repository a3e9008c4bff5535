package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironmentDefaults(t *testing.T) {
	env := NewEnvironment()

	assert.Zero(t, env.Get("X"))

	env.Set("X", 42)
	assert.Equal(t, 42, env.Get("X"))

	env.Set("X", -1)
	assert.Equal(t, -1, env.Get("X"))
}

func TestEnvironmentCaseFolding(t *testing.T) {
	env := NewEnvironment()

	env.Set("total", 3)

	assert.Equal(t, 3, env.Get("TOTAL"))
	assert.Equal(t, 3, env.Get("Total"))
}

func TestReturnStack(t *testing.T) {
	env := NewEnvironment()

	_, ok := env.Pop()
	assert.False(t, ok)

	env.Push(4)
	env.Push(9)

	ret, ok := env.Pop()
	assert.True(t, ok)
	assert.Equal(t, 9, ret)

	ret, ok = env.Pop()
	assert.True(t, ok)
	assert.Equal(t, 4, ret)

	_, ok = env.Pop()
	assert.False(t, ok)
}

func TestCaptureLines(t *testing.T) {
	c := &Capture{}

	c.Println("one")
	c.Print("two, ")
	c.Print("still two")

	assert.Equal(t, []string{"one", "two, still two"}, c.Lines())

	c.Println(" done")
	assert.Equal(t, []string{"one", "two, still two done"}, c.Lines())
}
