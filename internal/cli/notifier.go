package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/spendcraft/internal/notify"
)

// Notifier prints budget threshold signals.
type Notifier struct {
	w io.Writer
}

// NewNotifier creates a notifier writing to w (stderr when nil).
func NewNotifier(w io.Writer) *Notifier {
	if w == nil {
		w = os.Stderr
	}
	return &Notifier{w: w}
}

// Notify prints the message for signal. SignalNone prints nothing.
func (n *Notifier) Notify(signal notify.Signal, percent int) {
	var line string
	switch signal {
	case notify.SignalApproaching:
		line = FormatWarning(signal.Message(percent))
	case notify.SignalExceeded:
		line = FormatError(signal.Message(percent))
	default:
		return
	}
	fmt.Fprintln(n.w, line)
}
