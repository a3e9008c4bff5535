package evaluator

import "strings"

// Console is where PRINT sends its output
type Console interface {
	Print(msg string)
	Println(msg string)
}

// Capture is a Console that keeps the output in memory, one entry per
// completed line
type Capture struct {
	lines []string
	cur   strings.Builder
}

func (c *Capture) Print(msg string) {
	c.cur.WriteString(msg)
}

func (c *Capture) Println(msg string) {
	c.cur.WriteString(msg)
	c.lines = append(c.lines, c.cur.String())
	c.cur.Reset()
}

// Lines returns everything printed so far, an unfinished line counts
func (c *Capture) Lines() []string {
	if c.cur.Len() == 0 {
		return c.lines
	}

	out := make([]string, len(c.lines), len(c.lines)+1)
	copy(out, c.lines)

	return append(out, c.cur.String())
}
