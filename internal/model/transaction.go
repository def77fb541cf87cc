// Package model defines the records shared by every layer of spendcraft.
package model

import (
	"math"
	"strings"
	"time"
)

// MaxDescriptionLength caps the description of a transaction, in runes.
const MaxDescriptionLength = 200

// Recurrence tags how often a transaction repeats. It is informational only.
type Recurrence string

// Recurrence values.
const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

// ParseRecurrence resolves a recurrence tag. Empty input is RecurrenceNone.
func ParseRecurrence(s string) (Recurrence, bool) {
	switch r := Recurrence(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RecurrenceNone, true
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return r, true
	default:
		return "", false
	}
}

// Transaction is a single recorded money movement.
// A positive Amount is income, a negative Amount is an expense.
type Transaction struct {
	Date        time.Time  `json:"date"`
	ID          string     `json:"id"`
	Description string     `json:"desc"`
	Category    Category   `json:"category"`
	Recurring   Recurrence `json:"recurring"`
	Note        string     `json:"note,omitempty"`
	Amount      float64    `json:"amount"`

	// DateInferred marks a record whose stored date could not be parsed and
	// was replaced with the load time.
	DateInferred bool `json:"-"`
}

// IsIncome reports whether the transaction brings money in.
func (t Transaction) IsIncome() bool {
	return t.Amount > 0
}

// IsExpense reports whether the transaction takes money out.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// Magnitude returns the absolute value of the amount.
func (t Transaction) Magnitude() float64 {
	return math.Abs(t.Amount)
}

// HasUsableDate reports whether the date can be trusted for bucketing.
func (t Transaction) HasUsableDate() bool {
	return !t.DateInferred && !t.Date.IsZero()
}

// CanonicalTime normalizes a timestamp to the stored form: UTC, millisecond
// precision.
func CanonicalTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
