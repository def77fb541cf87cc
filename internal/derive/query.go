// Package derive computes the views shown to the user from the transaction
// collection. Every function is pure: same inputs, same outputs.
package derive

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/spendcraft/internal/model"
)

// DefaultPeriodDays is the trailing window applied when none is chosen.
const DefaultPeriodDays = 15

// SortMode orders the filtered list.
type SortMode string

// Sort modes.
const (
	SortDateDesc   SortMode = "date_desc"
	SortDateAsc    SortMode = "date_asc"
	SortAmountDesc SortMode = "amount_desc"
	SortAmountAsc  SortMode = "amount_asc"
)

// SortModes lists the modes in the order the dashboard cycles through them.
func SortModes() []SortMode {
	return []SortMode{SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc}
}

// ParseSortMode resolves a sort mode name. Empty input is SortDateDesc.
func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return SortDateDesc, nil
	case SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc:
		return m, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q", s)
	}
}

// Query selects and orders the visible subset of transactions.
type Query struct {
	// Now anchors the period window.
	Now      time.Time
	Search   string
	Category model.Category
	Sort     SortMode
	// PeriodDays is the trailing window in days. Zero means all time.
	PeriodDays int
}

// DefaultQuery returns the query of a fresh dashboard.
func DefaultQuery(now time.Time) Query {
	return Query{Now: now, Sort: SortDateDesc, PeriodDays: DefaultPeriodDays}
}

// Active reports whether the query narrows the collection at all.
func (q Query) Active() bool {
	return q.PeriodDays > 0 || strings.TrimSpace(q.Search) != "" || q.Category != ""
}

// Matches reports whether tx passes the period, search and category
// predicates of q.
func (q Query) Matches(tx model.Transaction) bool {
	if q.PeriodDays > 0 && tx.Date.Before(q.cutoff()) {
		return false
	}
	if needle := strings.ToLower(strings.TrimSpace(q.Search)); needle != "" {
		haystack := strings.ToLower(tx.Description + " " + tx.Note)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	if q.Category != "" && tx.Category != q.Category {
		return false
	}
	return true
}

func (q Query) cutoff() time.Time {
	return q.Now.AddDate(0, 0, -q.PeriodDays)
}

// Filter returns the transactions matching q, sorted by q.Sort. Ties keep
// their collection order.
func Filter(txs []model.Transaction, q Query) []model.Transaction {
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if q.Matches(tx) {
			out = append(out, tx)
		}
	}
	Sort(out, q.Sort)
	return out
}

// Sort orders txs in place. Amount modes compare absolute values.
func Sort(txs []model.Transaction, mode SortMode) {
	var less func(a, b model.Transaction) bool
	switch mode {
	case SortDateAsc:
		less = func(a, b model.Transaction) bool { return a.Date.Before(b.Date) }
	case SortAmountDesc:
		less = func(a, b model.Transaction) bool { return a.Magnitude() > b.Magnitude() }
	case SortAmountAsc:
		less = func(a, b model.Transaction) bool { return a.Magnitude() < b.Magnitude() }
	default:
		less = func(a, b model.Transaction) bool { return a.Date.After(b.Date) }
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return less(txs[i], txs[j])
	})
}
