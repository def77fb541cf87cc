package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Snapshot is a stored copy of the state blob.
type Snapshot struct {
	CreatedAt    time.Time
	Label        string
	Blob         string
	ID           int64
	Transactions int
}

// SaveSnapshot stores a copy of blob and returns its id.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, label, blob string, transactions int) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(blob, "blob"); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (label, blob, transactions, created_at) VALUES (?, ?, ?, ?)`,
		label, blob, transactions, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to save snapshot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot id: %w", err)
	}
	return id, nil
}

// ListSnapshots returns snapshot metadata, newest first. Blob is left empty.
func (s *SQLiteStorage) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, transactions, created_at FROM snapshots ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Label, &snap.Transactions, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// GetSnapshot loads a snapshot including its blob.
func (s *SQLiteStorage) GetSnapshot(ctx context.Context, id int64) (*Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var snap Snapshot
	err := s.db.QueryRowContext(ctx,
		`SELECT id, label, blob, transactions, created_at FROM snapshots WHERE id = ?`, id).
		Scan(&snap.ID, &snap.Label, &snap.Blob, &snap.Transactions, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %d: %w", id, err)
	}
	return &snap, nil
}

// DeleteSnapshot removes a snapshot.
func (s *SQLiteStorage) DeleteSnapshot(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrSnapshotNotFound, id)
	}
	return nil
}
