package workflow

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter collects the operator's decisions during interactive flows
type Prompter interface {
	// Confirm asks a yes/no question
	Confirm(prompt string) bool

	// Ask returns a free-form answer, trimmed
	Ask(prompt string) string
}

// Console prompts on out and reads answers line by line from in
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsole creates a console prompter
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Confirm accepts "yes" or "y" in any case. End of input means no.
func (c *Console) Confirm(prompt string) bool {
	switch strings.ToLower(c.Ask(prompt + " (yes/no)")) {
	case "yes", "y":
		return true
	default:
		return false
	}
}

// Ask prints prompt and reads one line. End of input yields "".
func (c *Console) Ask(prompt string) string {
	fmt.Fprintf(c.out, "%s: ", prompt)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}
