// Package notify turns budget usage into one-shot threshold signals.
package notify

import "fmt"

// Thresholds, in percent of budget.
const (
	ApproachingPercent = 90
	ExceededPercent    = 100
)

// Level is the highest threshold crossed since usage was last below 90%.
type Level int

// Levels.
const (
	Below90 Level = iota
	Warned90
	Warned100
)

func (l Level) String() string {
	switch l {
	case Warned90:
		return "warned90"
	case Warned100:
		return "warned100"
	default:
		return "below90"
	}
}

// ParseLevel is the inverse of Level.String. Unknown input is Below90.
func ParseLevel(s string) Level {
	switch s {
	case "warned90":
		return Warned90
	case "warned100":
		return Warned100
	default:
		return Below90
	}
}

// Signal is emitted when usage crosses a threshold.
type Signal int

// Signals.
const (
	SignalNone Signal = iota
	SignalApproaching
	SignalExceeded
)

func (s Signal) String() string {
	switch s {
	case SignalApproaching:
		return "approaching"
	case SignalExceeded:
		return "exceeded"
	default:
		return "none"
	}
}

// Message is the user-facing text for a signal at usage percent.
func (s Signal) Message(percent int) string {
	switch s {
	case SignalApproaching:
		return fmt.Sprintf("Approaching budget: %d%% used", percent)
	case SignalExceeded:
		return fmt.Sprintf("Budget exceeded: %d%% used", percent)
	default:
		return ""
	}
}

// Policy remembers which thresholds have already been announced.
// The zero value starts at Below90.
type Policy struct {
	level Level
}

// Observe feeds the latest usage percentage and returns the signal to emit,
// if any. A signal fires once per crossing; dropping below 90% re-arms both.
func (p *Policy) Observe(percent int) Signal {
	switch {
	case percent < ApproachingPercent:
		p.level = Below90
		return SignalNone
	case percent >= ExceededPercent:
		if p.level == Warned100 {
			return SignalNone
		}
		p.level = Warned100
		return SignalExceeded
	default:
		if p.level != Below90 {
			return SignalNone
		}
		p.level = Warned90
		return SignalApproaching
	}
}

// Level returns the current state.
func (p *Policy) Level() Level {
	return p.level
}

// Restore sets the state, e.g. from a previous run.
func (p *Policy) Restore(level Level) {
	p.level = level
}
