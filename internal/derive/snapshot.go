package derive

import "github.com/Veraticus/spendcraft/internal/model"

// Snapshot is everything the dashboard shows for one state and query.
// Totals, UsagePercent and Categories describe Filtered; Monthly describes
// the whole collection.
type Snapshot struct {
	Query        Query
	Filtered     []model.Transaction
	Categories   []CategoryTotal
	Monthly      []MonthlyBucket
	Totals       Totals
	Budget       float64
	UsagePercent int
	// Total is the size of the unfiltered collection.
	Total int
}

// Build derives the full snapshot. months is the monthly series window.
func Build(state model.AppState, q Query, months int) Snapshot {
	filtered := Filter(state.Transactions, q)
	totals := ComputeTotals(filtered)

	return Snapshot{
		Query:        q,
		Filtered:     filtered,
		Totals:       totals,
		Budget:       state.Budget,
		UsagePercent: BudgetUsagePercent(totals.Expense, state.Budget),
		Categories:   CategoryTotals(filtered),
		Monthly:      MonthlySeries(state.Transactions, q.Now, months),
		Total:        len(state.Transactions),
	}
}
