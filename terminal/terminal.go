package terminal

import (
	"fmt"
	"io"
)

// Terminal provides io abilities around a writer, usually a tty
type Terminal struct {
	out io.Writer
}

// New creates a new Terminal object around the writer
func New(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// Print sends the passed string to the writer as is
func (t *Terminal) Print(msg string) {
	fmt.Fprint(t.out, msg)
}

// Println prints the string followed by a newline
func (t *Terminal) Println(msg string) {
	fmt.Fprintln(t.out, msg)
}
