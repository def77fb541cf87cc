// Package persistence loads and saves the spendcraft state blob.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/Veraticus/spendcraft/internal/storage"
	"github.com/google/uuid"
)

// Default storage keys.
const (
	DefaultKey       = "spendcraft_v3_pro"
	DefaultLegacyKey = "spendcraft_v2"

	undoSuffix     = "_undo"
	notifySuffix   = "_notify"
	migratedSuffix = "_migrated"
)

// KV is the key-value store the adapter writes to.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Options configures an Adapter. Zero values select the defaults.
type Options struct {
	Logger    *slog.Logger
	Now       func() time.Time
	NewID     func() string
	Key       string
	LegacyKey string
}

// Adapter maps AppState to a single blob in a KV store.
type Adapter struct {
	kv         KV
	logger     *slog.Logger
	normalizer Normalizer
	key        string
	legacyKey  string
}

// NewAdapter creates an adapter over kv.
func NewAdapter(kv KV, opts Options) *Adapter {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	return &Adapter{
		kv:         kv,
		logger:     opts.Logger,
		normalizer: Normalizer{Now: opts.Now, NewID: opts.NewID},
		key:        opts.Key,
		legacyKey:  opts.LegacyKey,
	}
}

// Key returns the key the state blob is stored under.
func (a *Adapter) Key() string {
	return a.key
}

// Normalizer returns the normalizer used for loaded blobs.
func (a *Adapter) Normalizer() Normalizer {
	return a.normalizer
}

// Load returns the persisted state. A missing or corrupt blob yields the
// default state; the failure is logged, never returned. When the current
// blob holds no transactions the legacy key is consulted once.
func (a *Adapter) Load(ctx context.Context) model.AppState {
	state := model.DefaultState()

	raw, err := a.kv.Get(ctx, a.key)
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
		a.logger.Debug("no saved state", "key", a.key)
	case err != nil:
		a.logger.Warn("failed to read saved state, using defaults", "key", a.key, "error", err)
	default:
		parsed, perr := a.normalizer.State([]byte(raw))
		if perr != nil {
			a.logger.Warn("saved state is corrupt, using defaults", "key", a.key, "error", perr)
		} else {
			state = parsed
		}
	}

	if len(state.Transactions) == 0 && a.legacyKey != "" && a.legacyKey != a.key && !a.migrated(ctx) {
		if legacy := a.loadLegacy(ctx); len(legacy) > 0 {
			state.Transactions = legacy
			a.markMigrated(ctx, state)
		}
	}

	return state
}

// migrated reports whether the legacy transactions were carried over before.
func (a *Adapter) migrated(ctx context.Context) bool {
	_, err := a.kv.Get(ctx, a.key+migratedSuffix)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		a.logger.Warn("failed to read migration marker", "error", err)
	}
	return err == nil
}

// markMigrated saves the migrated state and then records the migration, so
// that a later clear is not undone by migrating again. When the save fails
// the marker is not written and the next load retries.
func (a *Adapter) markMigrated(ctx context.Context, state model.AppState) {
	if err := a.Save(ctx, state); err != nil {
		a.logger.Warn("failed to save migrated state", "error", err)
		return
	}
	if err := a.kv.Put(ctx, a.key+migratedSuffix, a.normalizer.Now().UTC().Format(time.RFC3339)); err != nil {
		a.logger.Warn("failed to record migration", "error", err)
		return
	}
	a.logger.Info("migrated legacy transactions", "key", a.legacyKey, "count", len(state.Transactions))
}

func (a *Adapter) loadLegacy(ctx context.Context) []model.Transaction {
	raw, err := a.kv.Get(ctx, a.legacyKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			a.logger.Warn("failed to read legacy state", "key", a.legacyKey, "error", err)
		}
		return nil
	}

	payload, err := a.normalizer.Decode([]byte(raw))
	if err != nil {
		a.logger.Warn("legacy state is corrupt, ignoring", "key", a.legacyKey, "error", err)
		return nil
	}
	return payload.Transactions
}

// Save writes the full state, replacing the previous blob.
func (a *Adapter) Save(ctx context.Context, state model.AppState) error {
	blob, err := Encode(state)
	if err != nil {
		return common.StorageError("encode state", err)
	}
	if err := a.kv.Put(ctx, a.key, string(blob)); err != nil {
		return common.StorageError("save state", err)
	}
	a.logger.Debug("saved state", "key", a.key, "transactions", len(state.Transactions))
	return nil
}

// SaveUndo stores the single undo slot. A nil transaction clears it.
func (a *Adapter) SaveUndo(ctx context.Context, tx *model.Transaction) error {
	if tx == nil {
		return a.ClearUndo(ctx)
	}
	blob, err := json.Marshal(tx)
	if err != nil {
		return common.StorageError("encode undo slot", err)
	}
	if err := a.kv.Put(ctx, a.key+undoSuffix, string(blob)); err != nil {
		return common.StorageError("save undo slot", err)
	}
	return nil
}

// LoadUndo returns the transaction held in the undo slot, if any.
func (a *Adapter) LoadUndo(ctx context.Context) *model.Transaction {
	raw, err := a.kv.Get(ctx, a.key+undoSuffix)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			a.logger.Warn("failed to read undo slot", "error", err)
		}
		return nil
	}

	value, err := decodeJSON([]byte(raw))
	if err != nil {
		a.logger.Warn("undo slot is corrupt, ignoring", "error", err)
		return nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	tx := a.normalizer.Transaction(obj)
	return &tx
}

// ClearUndo empties the undo slot.
func (a *Adapter) ClearUndo(ctx context.Context) error {
	if err := a.kv.Delete(ctx, a.key+undoSuffix); err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return common.StorageError("clear undo slot", err)
	}
	return nil
}

// SaveLevel records the notification level reached so far.
func (a *Adapter) SaveLevel(ctx context.Context, level string) error {
	if err := a.kv.Put(ctx, a.key+notifySuffix, level); err != nil {
		return common.StorageError("save notification level", err)
	}
	return nil
}

// LoadLevel returns the stored notification level, or "" when none is stored.
func (a *Adapter) LoadLevel(ctx context.Context) string {
	raw, err := a.kv.Get(ctx, a.key+notifySuffix)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			a.logger.Warn("failed to read notification level", "error", err)
		}
		return ""
	}
	return raw
}
