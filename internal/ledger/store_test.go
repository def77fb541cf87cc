package ledger

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestStore(txs ...model.Transaction) *Store {
	n := 0
	return New(txs,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		fields    Fields
		wantField string
	}{
		{name: "valid expense", fields: Fields{Description: "Lunch", Amount: -10}},
		{name: "valid income", fields: Fields{Description: "Salary", Amount: 1000, Category: model.CategoryIncome}},
		{name: "empty description", fields: Fields{Description: "   ", Amount: 5}, wantField: "description"},
		{name: "long description", fields: Fields{Description: strings.Repeat("x", 201), Amount: 5}, wantField: "description"},
		{name: "max description", fields: Fields{Description: strings.Repeat("x", 200), Amount: 5}},
		{name: "zero amount", fields: Fields{Description: "x", Amount: 0}, wantField: "amount"},
		{name: "unknown category", fields: Fields{Description: "x", Amount: 1, Category: "Groceries"}, wantField: "category"},
		{name: "unknown recurrence", fields: Fields{Description: "x", Amount: 1, Recurring: "hourly"}, wantField: "recurring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.fields)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *common.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "42", want: 42},
		{input: "-400", want: -400},
		{input: "+12.50", want: 12.5},
		{input: "₹1,250.75", want: 1250.75},
		{input: "-₹50", want: -50},
		{input: "$ 1 000", want: 1000},
		{input: "(30.00)", want: -30},
		{input: "INR 99", want: 99},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
		{input: "12abc", wantErr: true},
		{input: "1.2.3", wantErr: true},
		{input: "Rs. 50", want: 50},
		{input: "Rs.1,250", want: 1250},
		{input: "-Rs. 75.25", want: -75.25},
		{input: "₹.50", want: 0.5},
		{input: "1 000 ₹", want: 1000},
		{input: "1.250,50", wantErr: true},
		{input: "--5", wantErr: true},
		{input: "-₹-5", wantErr: true},
		{input: "(-5)", wantErr: true},
		{input: "5-", wantErr: true},
		{input: "1-000", wantErr: true},
		{input: "NaN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestAddInsertsAtFront(t *testing.T) {
	s := newTestStore()

	first, err := s.Add(Fields{Description: " Coffee ", Amount: -3})
	require.NoError(t, err)
	second, err := s.Add(Fields{Description: "Salary", Amount: 1000, Category: model.CategoryIncome})
	require.NoError(t, err)

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	assert.Equal(t, "Coffee", first.Description)
	assert.Equal(t, model.CategoryOther, first.Category)
	assert.Equal(t, model.RecurrenceNone, first.Recurring)
	assert.True(t, first.Date.Equal(testNow))
}

func TestAddRejectsInvalidWithoutChange(t *testing.T) {
	s := newTestStore()

	_, err := s.Add(Fields{Description: "", Amount: 5})
	require.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestUpdate(t *testing.T) {
	s := newTestStore()
	tx, err := s.Add(Fields{
		Description: "Lunch",
		Amount:      -10,
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	updated, err := s.Update(tx.ID, Fields{Description: "Dinner", Amount: -25, Category: model.CategoryFood})
	require.NoError(t, err)

	assert.Equal(t, tx.ID, updated.ID)
	assert.Equal(t, "Dinner", updated.Description)
	assert.True(t, updated.Date.Equal(tx.Date), "date kept when absent")

	got, ok := s.Get(tx.ID)
	require.True(t, ok)
	assert.Equal(t, updated, got)
}

func TestUpdateUnknownID(t *testing.T) {
	s := newTestStore()
	_, err := s.Add(Fields{Description: "Lunch", Amount: -10})
	require.NoError(t, err)
	before := s.All()

	_, err = s.Update("missing", Fields{Description: "x", Amount: 1})

	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, before, s.All())
}

func TestRemoveRestoreRoundTrip(t *testing.T) {
	s := newTestStore()
	a, _ := s.Add(Fields{Description: "A", Amount: -1})
	b, _ := s.Add(Fields{Description: "B", Amount: -2})

	removed, ok := s.Remove(a.ID)
	require.True(t, ok)
	assert.Equal(t, a, removed)
	assert.Equal(t, 1, s.Len())

	require.True(t, s.Restore(removed))
	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, b.ID, all[1].ID)

	assert.False(t, s.Restore(removed), "duplicate id is refused")
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	s := newTestStore()
	_, _ = s.Add(Fields{Description: "A", Amount: -1})

	_, ok := s.Remove("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestPrependSkipsKnownIDs(t *testing.T) {
	s := newTestStore(model.Transaction{ID: "a"}, model.Transaction{ID: "b"})

	added := s.Prepend([]model.Transaction{{ID: "c"}, {ID: "a"}, {ID: "d"}, {ID: "c"}})

	assert.Equal(t, 2, added)
	ids := []string{}
	for _, tx := range s.All() {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []string{"c", "d", "a", "b"}, ids)
}

func TestCleanupOlderThan(t *testing.T) {
	threshold := testNow.AddDate(0, 0, -15)
	s := newTestStore(
		model.Transaction{ID: "new", Date: testNow},
		model.Transaction{ID: "edge", Date: threshold},
		model.Transaction{ID: "old", Date: threshold.Add(-time.Millisecond)},
	)

	removed := s.CleanupOlderThan(threshold)

	assert.Equal(t, 1, removed)
	_, ok := s.Get("old")
	assert.False(t, ok)
	_, ok = s.Get("edge")
	assert.True(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	s := newTestStore(model.Transaction{ID: "a", Amount: 1})

	all := s.All()
	all[0].Amount = 99

	got, _ := s.Get("a")
	assert.InDelta(t, 1, got.Amount, 0.0001)
}

func TestClearAndReplace(t *testing.T) {
	s := newTestStore(model.Transaction{ID: "a"})
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.All())

	s.Replace([]model.Transaction{{ID: "x"}, {ID: "y"}})
	assert.Equal(t, 2, s.Len())
}
