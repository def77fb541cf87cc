package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/Veraticus/spendcraft/internal/persistence"
	"github.com/Veraticus/spendcraft/internal/storage"
)

// SnapshotName is the file name of a backup taken at t.
func SnapshotName(t time.Time) string {
	return "spendcraft-backup-" + t.Format("20060102-150405") + ".json"
}

// WriteSnapshot writes the full state blob to w.
func WriteSnapshot(w io.Writer, state model.AppState) error {
	blob, err := persistence.EncodeIndent(state)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(blob, '\n')); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// WriteFile writes a snapshot into dir and returns its path.
func WriteFile(dir string, state model.AppState, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(dir, SnapshotName(now))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}

	if err := WriteSnapshot(f, state); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close backup file: %w", err)
	}
	return path, nil
}

// Archive stores snapshots inside the database.
type Archive interface {
	SaveSnapshot(ctx context.Context, label, blob string, transactions int) (int64, error)
	ListSnapshots(ctx context.Context) ([]storage.Snapshot, error)
	GetSnapshot(ctx context.Context, id int64) (*storage.Snapshot, error)
}

var _ Archive = (*storage.SQLiteStorage)(nil)

// Store saves state into the archive under label and returns its id.
func Store(ctx context.Context, archive Archive, state model.AppState, label string) (int64, error) {
	blob, err := persistence.Encode(state)
	if err != nil {
		return 0, err
	}
	return archive.SaveSnapshot(ctx, label, string(blob), len(state.Transactions))
}

// Restore loads and normalizes the snapshot with the given id.
func Restore(ctx context.Context, archive Archive, id int64, n persistence.Normalizer) (model.AppState, error) {
	snap, err := archive.GetSnapshot(ctx, id)
	if err != nil {
		return model.AppState{}, err
	}
	return n.State([]byte(snap.Blob))
}
