package tui

import (
	"sync"

	"github.com/Veraticus/spendcraft/internal/notify"
)

// statusKind selects the style of the status line.
type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

type status struct {
	text string
	kind statusKind
}

// Notifications collects budget signals raised by the session so the
// dashboard can show them on its status line. It satisfies
// session.Notifier.
type Notifications struct {
	pending []status
	mu      sync.Mutex
}

// Notify records signal.
func (n *Notifications) Notify(signal notify.Signal, percent int) {
	kind := statusWarning
	if signal == notify.SignalExceeded {
		kind = statusError
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, status{text: signal.Message(percent), kind: kind})
}

// drain returns and forgets the most recent signal.
func (n *Notifications) drain() (status, bool) {
	if n == nil {
		return status{}, false
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.pending) == 0 {
		return status{}, false
	}
	last := n.pending[len(n.pending)-1]
	n.pending = nil
	return last, true
}

// savedMsg reports the outcome of a background save.
type savedMsg struct {
	err error
}
