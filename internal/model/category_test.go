package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Category
		wantOK bool
	}{
		{name: "exact", input: "Food", want: CategoryFood, wantOK: true},
		{name: "case insensitive", input: "bills", want: CategoryBills, wantOK: true},
		{name: "surrounding space", input: "  Income ", want: CategoryIncome, wantOK: true},
		{name: "empty defaults to other", input: "", want: CategoryOther, wantOK: true},
		{name: "unknown", input: "Groceries", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCategory(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMatchCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{input: "Fod", want: CategoryFood},
		{input: "transprt", want: CategoryTransport},
		{input: "Bils", want: CategoryBills},
		{input: "Entertainment", want: CategoryEntertainment},
		{input: "Groceries", want: CategoryOther},
		{input: "", want: CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchCategory(tt.input))
		})
	}
}

func TestParseRecurrence(t *testing.T) {
	r, ok := ParseRecurrence("Monthly")
	assert.True(t, ok)
	assert.Equal(t, RecurrenceMonthly, r)

	r, ok = ParseRecurrence("")
	assert.True(t, ok)
	assert.Equal(t, RecurrenceNone, r)

	_, ok = ParseRecurrence("fortnightly")
	assert.False(t, ok)
}

func TestTransactionDirection(t *testing.T) {
	income := Transaction{Amount: 1000}
	expense := Transaction{Amount: -400}

	assert.True(t, income.IsIncome())
	assert.False(t, income.IsExpense())
	assert.True(t, expense.IsExpense())
	assert.InDelta(t, 400, expense.Magnitude(), 0.0001)
}

func TestAppStateClone(t *testing.T) {
	state := DefaultState()
	state.Transactions = append(state.Transactions, Transaction{ID: "a", Amount: 1})

	clone := state.Clone()
	clone.Transactions[0].Amount = 99

	assert.InDelta(t, 1, state.Transactions[0].Amount, 0.0001)
	assert.Equal(t, float64(DefaultBudget), clone.Budget)
	assert.Equal(t, ThemeDark, clone.Preferences.Theme)
}
