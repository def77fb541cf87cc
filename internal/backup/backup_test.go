package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/Veraticus/spendcraft/internal/persistence"
	"github.com/Veraticus/spendcraft/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSaver struct {
	err   error
	calls atomic.Int32
}

func (c *countingSaver) Save(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestSchedulerSavesUntilCancelled(t *testing.T) {
	saver := &countingSaver{err: errors.New("transient")}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- NewScheduler(saver, 5*time.Millisecond, nil, nil).Run(ctx)
	}()

	require.Eventually(t, func() bool { return saver.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestSchedulerSkipsWhenDisabled(t *testing.T) {
	saver := &countingSaver{}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewScheduler(saver, 5*time.Millisecond, func() bool { return false }, nil).Run(ctx)

	require.NoError(t, err)
	assert.Zero(t, saver.calls.Load())
}

func TestSnapshotName(t *testing.T) {
	at := time.Date(2024, 3, 20, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "spendcraft-backup-20240320-090507.json", SnapshotName(at))
}

func TestWriteFileRoundTrip(t *testing.T) {
	state := model.DefaultState()
	state.Budget = 777
	state.Transactions = []model.Transaction{{
		ID:          "a",
		Description: "Lunch",
		Amount:      -10,
		Category:    model.CategoryFood,
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Recurring:   model.RecurrenceNone,
	}}
	dir := filepath.Join(t.TempDir(), "nested", "backups")

	path, err := WriteFile(dir, state, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "spendcraft-backup-20240320-000000.json", filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	loaded, err := persistence.NewNormalizer().State(raw)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestArchiveStoreRestore(t *testing.T) {
	ctx := context.Background()
	db, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "backup.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	require.NoError(t, db.Migrate(ctx))

	state := model.DefaultState()
	state.Preferences.Theme = model.ThemeLight
	state.Transactions = []model.Transaction{{
		ID:          "x",
		Description: "Rent",
		Amount:      -500,
		Category:    model.CategoryBills,
		Date:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Recurring:   model.RecurrenceMonthly,
	}}

	id, err := Store(ctx, db, state, "before import")
	require.NoError(t, err)

	snaps, err := db.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "before import", snaps[0].Label)
	assert.Equal(t, 1, snaps[0].Transactions)

	restored, err := Restore(ctx, db, id, persistence.NewNormalizer())
	require.NoError(t, err)
	assert.Equal(t, state, restored)

	_, err = Restore(ctx, db, id+100, persistence.NewNormalizer())
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)
}
