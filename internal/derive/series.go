package derive

import (
	"time"

	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/shopspring/decimal"
)

// DefaultMonths is the monthly chart window.
const DefaultMonths = 6

// MonthlyBucket sums one calendar month.
type MonthlyBucket struct {
	Key     string
	Income  decimal.Decimal
	Expense decimal.Decimal
	Year    int
	Month   time.Month
}

// MonthKey formats the bucket key of t, YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthlySeries buckets txs into the trailing window calendar months ending
// with the month of now, oldest first. Months without activity are present
// with zero sums. Dates are read in now's location; transactions without a
// usable date are skipped.
func MonthlySeries(txs []model.Transaction, now time.Time, window int) []MonthlyBucket {
	if window <= 0 {
		window = DefaultMonths
	}

	loc := now.Location()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	buckets := make([]MonthlyBucket, window)
	index := make(map[string]int, window)
	for i := range buckets {
		start := current.AddDate(0, i-window+1, 0)
		buckets[i] = MonthlyBucket{
			Key:     MonthKey(start),
			Year:    start.Year(),
			Month:   start.Month(),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		index[buckets[i].Key] = i
	}

	for _, tx := range txs {
		if !tx.HasUsableDate() {
			continue
		}
		i, ok := index[MonthKey(tx.Date.In(loc))]
		if !ok {
			continue
		}
		amount := decimal.NewFromFloat(tx.Magnitude())
		switch {
		case tx.IsIncome():
			buckets[i].Income = buckets[i].Income.Add(amount)
		case tx.IsExpense():
			buckets[i].Expense = buckets[i].Expense.Add(amount)
		}
	}

	return buckets
}

// DailyTotal sums one day of a month.
type DailyTotal struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Day     int
	Count   int
}

// DailyTotals returns one entry per day of the given month, in loc.
func DailyTotals(txs []model.Transaction, year int, month time.Month, loc *time.Location) []DailyTotal {
	if loc == nil {
		loc = time.Local
	}
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()

	out := make([]DailyTotal, days)
	for i := range out {
		out[i] = DailyTotal{Day: i + 1, Income: decimal.Zero, Expense: decimal.Zero}
	}

	for _, tx := range txs {
		if !tx.HasUsableDate() {
			continue
		}
		d := tx.Date.In(loc)
		if d.Year() != year || d.Month() != month {
			continue
		}
		entry := &out[d.Day()-1]
		entry.Count++
		amount := decimal.NewFromFloat(tx.Magnitude())
		switch {
		case tx.IsIncome():
			entry.Income = entry.Income.Add(amount)
		case tx.IsExpense():
			entry.Expense = entry.Expense.Add(amount)
		}
	}

	return out
}
