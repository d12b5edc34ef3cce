package mackup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ConsoleConfirmer asks yes/no questions on the terminal. Anything but an
// explicit yes declines, so a stray Enter never destroys data.
type ConsoleConfirmer struct {
	in  io.Reader
	out io.Writer
}

// NewConsoleConfirmer creates a confirmer on stdin/stderr. Prompts go to
// stderr so piped stdout stays machine-readable.
func NewConsoleConfirmer() *ConsoleConfirmer {
	return &ConsoleConfirmer{in: os.Stdin, out: os.Stderr}
}

// Confirm implements types.Confirmer.
func (c *ConsoleConfirmer) Confirm(question string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", question)

	reader := bufio.NewReader(c.in)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
