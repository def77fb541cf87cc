package derive

import (
	"math"
	"testing"
	"time"

	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func tx(id, desc string, amount float64, category model.Category, daysAgo int) model.Transaction {
	return model.Transaction{
		ID:          id,
		Description: desc,
		Amount:      amount,
		Category:    category,
		Date:        now.AddDate(0, 0, -daysAgo),
	}
}

func sample() []model.Transaction {
	return []model.Transaction{
		tx("1", "Salary", 1000, model.CategoryIncome, 1),
		tx("2", "Groceries run", -400, model.CategoryFood, 2),
		tx("3", "Cinema", -200, model.CategoryEntertainment, 3),
		tx("4", "Old rent", -900, model.CategoryBills, 40),
		tx("5", "Bus pass", -50, model.CategoryTransport, 5),
	}
}

func ids(txs []model.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

func TestMixedLedgerTotals(t *testing.T) {
	txs := []model.Transaction{
		{ID: "a", Amount: 1000},
		{ID: "b", Amount: -400},
		{ID: "c", Amount: -200},
	}

	totals := ComputeTotals(txs)

	assert.True(t, totals.Income.Equal(decimal.NewFromInt(1000)))
	assert.True(t, totals.Expense.Equal(decimal.NewFromInt(600)))
	assert.True(t, totals.Balance.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, 120, BudgetUsagePercent(totals.Expense, 500))
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)

	assert.True(t, totals.Income.IsZero())
	assert.True(t, totals.Expense.IsZero())
	assert.True(t, totals.Balance.IsZero())
	assert.Empty(t, Filter(nil, DefaultQuery(now)))
}

func TestBalanceIsIncomeMinusExpense(t *testing.T) {
	txs := []model.Transaction{
		{Amount: 0.1}, {Amount: 0.2}, {Amount: -0.3}, {Amount: -1e9}, {Amount: 123.456},
	}
	totals := ComputeTotals(txs)
	assert.True(t, totals.Balance.Equal(totals.Income.Sub(totals.Expense)))
	assert.True(t, totals.Income.Equal(decimal.RequireFromString("123.756")))
}

func TestBudgetUsagePercent(t *testing.T) {
	tests := []struct {
		name    string
		expense int64
		budget  float64
		want    int
	}{
		{name: "half", expense: 250, budget: 500, want: 50},
		{name: "rounds half up", expense: 1, budget: 200, want: 1},
		{name: "rounds down", expense: 1, budget: 300, want: 0},
		{name: "over budget", expense: 1500, budget: 500, want: 300},
		{name: "zero budget counts as one", expense: 3, budget: 0, want: 300},
		{name: "no expense", expense: 0, budget: 500, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BudgetUsagePercent(decimal.NewFromInt(tt.expense), tt.budget))
		})
	}
}

func TestFilterPredicates(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{
			name:  "all time",
			query: Query{Now: now, Sort: SortDateDesc},
			want:  []string{"1", "2", "3", "5", "4"},
		},
		{
			name:  "default period drops old",
			query: DefaultQuery(now),
			want:  []string{"1", "2", "3", "5"},
		},
		{
			name:  "search is case insensitive",
			query: Query{Now: now, Search: "GROCER"},
			want:  []string{"2"},
		},
		{
			name:  "category",
			query: Query{Now: now, Category: model.CategoryBills},
			want:  []string{"4"},
		},
		{
			name:  "period then category",
			query: Query{Now: now, Category: model.CategoryBills, PeriodDays: 15},
			want:  []string{},
		},
		{
			name:  "amount desc uses magnitude",
			query: Query{Now: now, Sort: SortAmountDesc},
			want:  []string{"1", "4", "2", "3", "5"},
		},
		{
			name:  "amount asc",
			query: Query{Now: now, Sort: SortAmountAsc, PeriodDays: 15},
			want:  []string{"5", "3", "2", "1"},
		},
		{
			name:  "date asc",
			query: Query{Now: now, Sort: SortDateAsc},
			want:  []string{"4", "5", "3", "2", "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sample(), tt.query)
			assert.Equal(t, tt.want, ids(got))
			assert.LessOrEqual(t, len(got), len(sample()))
			for _, g := range got {
				assert.True(t, tt.query.Matches(g))
			}
		})
	}
}

func TestSearchCoversNote(t *testing.T) {
	txs := []model.Transaction{{ID: "n", Description: "Misc", Note: "birthday gift", Date: now}}
	assert.Len(t, Filter(txs, Query{Now: now, Search: "gift"}), 1)
}

func TestSortIsStable(t *testing.T) {
	txs := []model.Transaction{
		{ID: "a", Amount: -10, Date: now},
		{ID: "b", Amount: 10, Date: now},
		{ID: "c", Amount: -10, Date: now},
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(Filter(txs, Query{Now: now, Sort: SortAmountDesc})))
	assert.Equal(t, []string{"a", "b", "c"}, ids(Filter(txs, Query{Now: now, Sort: SortDateDesc})))
}

func TestAmountDescNonIncreasing(t *testing.T) {
	got := Filter(sample(), Query{Now: now, Sort: SortAmountDesc})
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, math.Abs(got[i-1].Amount), math.Abs(got[i].Amount))
	}
}

func TestParseSortMode(t *testing.T) {
	m, err := ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortDateDesc, m)

	m, err = ParseSortMode("AMOUNT_ASC")
	require.NoError(t, err)
	assert.Equal(t, SortAmountAsc, m)

	_, err = ParseSortMode("random")
	assert.Error(t, err)
}

func TestMonthlySeries(t *testing.T) {
	txs := []model.Transaction{
		{Amount: 1000, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Amount: -300, Date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{Amount: -50, Date: time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)},
		{Amount: -999, Date: time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)},
		{Amount: -7, Date: now, DateInferred: true},
		{Amount: -8},
	}

	series := MonthlySeries(txs, now, 6)

	require.Len(t, series, 6)
	keys := make([]string, 0, 6)
	for _, b := range series {
		keys = append(keys, b.Key)
	}
	assert.Equal(t, []string{"2023-10", "2023-11", "2023-12", "2024-01", "2024-02", "2024-03"}, keys)

	assert.True(t, series[5].Income.Equal(decimal.NewFromInt(1000)))
	assert.True(t, series[5].Expense.Equal(decimal.NewFromInt(300)))
	assert.True(t, series[3].Expense.Equal(decimal.NewFromInt(50)))
	assert.True(t, series[4].Expense.IsZero())
	assert.True(t, series[0].Expense.IsZero())
}

func TestMonthlySeriesCrossesYear(t *testing.T) {
	series := MonthlySeries(nil, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 12)
	require.Len(t, series, 12)
	assert.Equal(t, "2023-02", series[0].Key)
	assert.Equal(t, "2024-01", series[11].Key)
}

func TestCategoryTotals(t *testing.T) {
	got := CategoryTotals(sample())

	require.Len(t, got, 4)
	assert.Equal(t, model.CategoryBills, got[0].Category)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, model.CategoryFood, got[1].Category)

	share := 0.0
	for _, c := range got {
		assert.NotEqual(t, model.CategoryIncome, c.Category)
		share += c.Share
	}
	assert.InDelta(t, 1.0, share, 0.0001)
}

func TestDailyTotals(t *testing.T) {
	days := DailyTotals(sample(), 2024, time.March, time.UTC)

	require.Len(t, days, 31)
	assert.Equal(t, 1, days[18].Count)
	assert.True(t, days[18].Income.Equal(decimal.NewFromInt(1000)))
	assert.True(t, days[17].Expense.Equal(decimal.NewFromInt(400)))
	assert.Zero(t, days[0].Count)

	feb := DailyTotals(nil, 2024, time.February, time.UTC)
	assert.Len(t, feb, 29)
}

func TestBuildUsesFilteredViewForTotals(t *testing.T) {
	state := model.DefaultState()
	state.Budget = 1000
	state.Transactions = sample()

	snap := Build(state, DefaultQuery(now), 6)

	assert.Len(t, snap.Filtered, 4)
	assert.Equal(t, 5, snap.Total)
	assert.True(t, snap.Totals.Expense.Equal(decimal.NewFromInt(650)))
	assert.Equal(t, 65, snap.UsagePercent)
	for _, c := range snap.Categories {
		assert.NotEqual(t, model.CategoryBills, c.Category)
	}
	// The old rent is outside the period but inside the monthly window.
	assert.True(t, snap.Monthly[4].Expense.Equal(decimal.NewFromInt(900)))
}
