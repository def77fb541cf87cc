package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/Veraticus/spendcraft/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestAdapter(t *testing.T) (*Adapter, *storage.MemoryStorage) {
	t.Helper()
	kv := storage.NewMemoryStorage()
	n := 0
	adapter := NewAdapter(kv, Options{
		Key:       DefaultKey,
		LegacyKey: DefaultLegacyKey,
		Now:       func() time.Time { return fixedNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		},
	})
	return adapter, kv
}

func TestLoadMissingBlobYieldsDefaults(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	state := adapter.Load(context.Background())

	assert.Empty(t, state.Transactions)
	assert.InDelta(t, model.DefaultBudget, state.Budget, 0.001)
	assert.Equal(t, model.DefaultPreferences(), state.Preferences)
}

func TestLoadCorruptBlobYieldsDefaults(t *testing.T) {
	adapter, kv := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, DefaultKey, "{not json"))

	state := adapter.Load(ctx)

	assert.Empty(t, state.Transactions)
	assert.InDelta(t, model.DefaultBudget, state.Budget, 0.001)
}

func TestLoadBlobMissingMetaYieldsDefaultPreferences(t *testing.T) {
	adapter, kv := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, DefaultKey, `{"tx":[],"budget":1000}`))

	state := adapter.Load(ctx)

	assert.InDelta(t, 1000, state.Budget, 0.001)
	assert.Equal(t, model.DefaultPreferences(), state.Preferences)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	state := model.DefaultState()
	state.Budget = 1234
	state.Preferences.Theme = model.ThemeLight
	state.Transactions = []model.Transaction{
		{
			ID:          "a",
			Description: "Salary",
			Amount:      1000,
			Category:    model.CategoryIncome,
			Date:        time.Date(2024, 3, 1, 9, 30, 0, 123000000, time.UTC),
			Recurring:   model.RecurrenceMonthly,
			Note:        "march",
		},
		{
			ID:          "b",
			Description: "Lunch",
			Amount:      -12.5,
			Category:    model.CategoryFood,
			Date:        time.Date(2024, 3, 2, 13, 0, 0, 0, time.UTC),
			Recurring:   model.RecurrenceNone,
		},
	}

	require.NoError(t, adapter.Save(ctx, state))
	loaded := adapter.Load(ctx)

	require.Len(t, loaded.Transactions, 2)
	for i := range state.Transactions {
		want, got := state.Transactions[i], loaded.Transactions[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Description, got.Description)
		assert.InDelta(t, want.Amount, got.Amount, 0.0001)
		assert.Equal(t, want.Category, got.Category)
		assert.True(t, want.Date.Equal(got.Date), "date %v != %v", want.Date, got.Date)
		assert.Equal(t, want.Recurring, got.Recurring)
		assert.Equal(t, want.Note, got.Note)
		assert.False(t, got.DateInferred)
	}
	assert.InDelta(t, 1234, loaded.Budget, 0.001)
	assert.Equal(t, model.ThemeLight, loaded.Preferences.Theme)
}

func TestSaveFailureIsStorageError(t *testing.T) {
	adapter, kv := newTestAdapter(t)
	kv.FailWrites = errors.New("disk full")

	err := adapter.Save(context.Background(), model.DefaultState())

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStorage)
}

func TestLoadMigratesLegacyTransactions(t *testing.T) {
	adapter, kv := newTestAdapter(t)
	ctx := context.Background()
	legacy := `{"tx":[{"id":"old-1","desc":"Rent","amount":-500,"category":"Bills","date":"2024-02-01T00:00:00.000Z"}],"budget":999}`
	require.NoError(t, kv.Put(ctx, DefaultLegacyKey, legacy))

	state := adapter.Load(ctx)

	require.Len(t, state.Transactions, 1)
	assert.Equal(t, "old-1", state.Transactions[0].ID)
	assert.Equal(t, model.CategoryBills, state.Transactions[0].Category)
	// Only the transaction list is carried over.
	assert.InDelta(t, model.DefaultBudget, state.Budget, 0.001)
}

func TestLegacyMigrationRunsOnce(t *testing.T) {
	adapter, kv := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, DefaultLegacyKey, `{"tx":[{"id":"old-1","desc":"Rent","amount":-500}]}`))

	require.Len(t, adapter.Load(ctx).Transactions, 1)

	// The migrated list is written under the current key right away.
	raw, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Contains(t, raw, "old-1")

	// Emptying the current state must stick.
	require.NoError(t, adapter.Save(ctx, model.DefaultState()))
	assert.Empty(t, adapter.Load(ctx).Transactions)
}

func TestLegacyMigrationRetriedWhenSaveFails(t *testing.T) {
	adapter, kv := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, DefaultLegacyKey, `{"tx":[{"id":"old-1","desc":"Rent","amount":-500}]}`))

	kv.FailWrites = errors.New("disk full")
	require.Len(t, adapter.Load(ctx).Transactions, 1)

	kv.FailWrites = nil
	require.Len(t, adapter.Load(ctx).Transactions, 1)
	_, err := kv.Get(ctx, DefaultKey+migratedSuffix)
	assert.NoError(t, err)
}

func TestLoadSkipsLegacyWhenCurrentHasTransactions(t *testing.T) {
	adapter, kv := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, DefaultKey, `{"tx":[{"id":"new","desc":"Coffee","amount":-3,"date":"2024-03-01"}]}`))
	require.NoError(t, kv.Put(ctx, DefaultLegacyKey, `{"tx":[{"id":"old","desc":"Rent","amount":-500}]}`))

	state := adapter.Load(ctx)

	require.Len(t, state.Transactions, 1)
	assert.Equal(t, "new", state.Transactions[0].ID)
}

func TestUndoSlot(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	assert.Nil(t, adapter.LoadUndo(ctx))

	tx := model.Transaction{
		ID:          "x",
		Description: "Taxi",
		Amount:      -20,
		Category:    model.CategoryTransport,
		Date:        time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC),
		Recurring:   model.RecurrenceNone,
	}
	require.NoError(t, adapter.SaveUndo(ctx, &tx))

	got := adapter.LoadUndo(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "x", got.ID)
	assert.True(t, tx.Date.Equal(got.Date))

	require.NoError(t, adapter.ClearUndo(ctx))
	assert.Nil(t, adapter.LoadUndo(ctx))

	// Clearing an empty slot is not an error.
	require.NoError(t, adapter.SaveUndo(ctx, nil))
}

func TestNotificationLevelSlot(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	assert.Empty(t, adapter.LoadLevel(ctx))
	require.NoError(t, adapter.SaveLevel(ctx, "warned90"))
	assert.Equal(t, "warned90", adapter.LoadLevel(ctx))
}

func TestLoadFromSQLite(t *testing.T) {
	path := t.TempDir() + "/state.db"
	db, err := storage.NewSQLiteStorage(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx))

	adapter := NewAdapter(db, Options{})
	state := model.DefaultState()
	state.Budget = 42
	require.NoError(t, adapter.Save(ctx, state))

	assert.InDelta(t, 42, adapter.Load(ctx).Budget, 0.001)
}
