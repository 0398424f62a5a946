package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/tally/internal/workflow"
)

// consoleNotifier implements workflow.Notifier with styled terminal lines.
type consoleNotifier struct {
	out io.Writer
}

// NewNotifier returns a Notifier writing styled messages to out.
func NewNotifier(out io.Writer) workflow.Notifier {
	return &consoleNotifier{out: out}
}

func (n *consoleNotifier) Info(msg string) {
	fmt.Fprintln(n.out, styleGreen.Render(msg))
}

func (n *consoleNotifier) Warn(msg string) {
	fmt.Fprintln(n.out, styleYellow.Render(msg))
}

func (n *consoleNotifier) Error(msg string) {
	fmt.Fprintln(n.out, styleRed.Render(msg))
}
