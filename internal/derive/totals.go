package derive

import (
	"sort"

	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals sums a set of transactions. Expense is a magnitude.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
	Count   int
}

// ComputeTotals sums income and expense over txs.
func ComputeTotals(txs []model.Transaction) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		amount := decimal.NewFromFloat(tx.Amount)
		switch {
		case tx.IsIncome():
			t.Income = t.Income.Add(amount)
		case tx.IsExpense():
			t.Expense = t.Expense.Add(amount.Neg())
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	t.Count = len(txs)
	return t
}

// BudgetUsagePercent returns expense as a whole percentage of budget.
// Budgets below 1 count as 1. The result is not capped at 100.
func BudgetUsagePercent(expense decimal.Decimal, budget float64) int {
	if budget < 1 {
		budget = 1
	}
	return int(expense.Div(decimal.NewFromFloat(budget)).Mul(hundred).Round(0).IntPart())
}

// CategoryTotal is the expense spent in one category.
type CategoryTotal struct {
	Category model.Category
	Amount   decimal.Decimal
	// Share is Amount over the expense of all categories, in [0, 1].
	Share float64
}

// CategoryTotals groups expenses by category, largest first. Income is
// ignored.
func CategoryTotals(txs []model.Transaction) []CategoryTotal {
	sums := make(map[model.Category]decimal.Decimal)
	total := decimal.Zero
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		amount := decimal.NewFromFloat(tx.Magnitude())
		sums[tx.Category] = sums[tx.Category].Add(amount)
		total = total.Add(amount)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for category, amount := range sums {
		ct := CategoryTotal{Category: category, Amount: amount}
		if total.IsPositive() {
			ct.Share = amount.Div(total).InexactFloat64()
		}
		out = append(out, ct)
	}

	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].Amount.Cmp(out[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
