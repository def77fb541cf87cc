package sheets

import (
	"fmt"
	"time"

	"github.com/Veraticus/spendcraft/internal/derive"
	"github.com/shopspring/decimal"
)

// NewReport builds a report from a derived snapshot.
func NewReport(snap derive.Snapshot, generated time.Time) Report {
	r := Report{
		Generated:    generated,
		Title:        "Spendcraft Report",
		Period:       periodLabel(snap.Query.PeriodDays),
		Income:       snap.Totals.Income,
		Expense:      snap.Totals.Expense,
		Balance:      snap.Totals.Balance,
		Budget:       decimal.NewFromFloat(snap.Budget),
		UsagePercent: snap.UsagePercent,
	}

	for _, c := range snap.Categories {
		r.Categories = append(r.Categories, CategoryRow{
			Category: string(c.Category),
			Amount:   c.Amount,
			Share:    c.Share,
		})
	}
	for _, m := range snap.Monthly {
		r.Months = append(r.Months, MonthRow{Month: m.Key, Income: m.Income, Expense: m.Expense})
	}
	for _, tx := range snap.Filtered {
		r.Transactions = append(r.Transactions, TransactionRow{
			Date:        tx.Date,
			Description: tx.Description,
			Category:    string(tx.Category),
			Recurring:   string(tx.Recurring),
			Note:        tx.Note,
			Amount:      decimal.NewFromFloat(tx.Amount),
		})
	}

	return r
}

func periodLabel(days int) string {
	if days <= 0 {
		return "All time"
	}
	return fmt.Sprintf("Last %d days", days)
}

// Values lays the report out as sheet rows.
func (r Report) Values() [][]any {
	values := make([][]any, 0, 16+len(r.Categories)+len(r.Months)+len(r.Transactions))

	values = append(values,
		[]any{r.Title, r.Generated.Format("Jan 2, 2006 15:04")},
		[]any{},
		[]any{"Summary", r.Period},
		[]any{"Income", r.Income.InexactFloat64()},
		[]any{"Expense", r.Expense.InexactFloat64()},
		[]any{"Balance", r.Balance.InexactFloat64()},
		[]any{"Budget", r.Budget.InexactFloat64()},
		[]any{"Budget Used", fmt.Sprintf("%d%%", r.UsagePercent)},
		[]any{},
		[]any{"Category Breakdown"},
		[]any{"Category", "Share", "Amount"},
	)
	for _, c := range r.Categories {
		values = append(values, []any{c.Category, fmt.Sprintf("%.1f%%", c.Share*100), c.Amount.InexactFloat64()})
	}

	values = append(values,
		[]any{},
		[]any{"Monthly Trend"},
		[]any{"Month", "Income", "Expense"},
	)
	for _, m := range r.Months {
		values = append(values, []any{m.Month, m.Income.InexactFloat64(), m.Expense.InexactFloat64()})
	}

	values = append(values,
		[]any{},
		[]any{"Transactions"},
		[]any{"Date", "Description", "Amount", "Category", "Recurring", "Note"},
	)
	for _, tx := range r.Transactions {
		values = append(values, []any{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			tx.Amount.InexactFloat64(),
			tx.Category,
			tx.Recurring,
			tx.Note,
		})
	}

	return values
}
