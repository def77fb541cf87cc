// Package session owns the application state and runs every mutation
// through one mutate, persist, recompute and notify cycle.
package session

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/derive"
	"github.com/Veraticus/spendcraft/internal/ledger"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/Veraticus/spendcraft/internal/notify"
	"github.com/Veraticus/spendcraft/internal/persistence"
)

// DefaultRetentionDays is the auto-cleanup window.
const DefaultRetentionDays = 15

// Notifier receives budget threshold signals.
type Notifier interface {
	Notify(signal notify.Signal, percent int)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(signal notify.Signal, percent int)

// Notify calls f.
func (f NotifierFunc) Notify(signal notify.Signal, percent int) {
	f(signal, percent)
}

// Persister is the subset of the persistence adapter the session needs.
type Persister interface {
	Load(ctx context.Context) model.AppState
	Save(ctx context.Context, state model.AppState) error
	SaveUndo(ctx context.Context, tx *model.Transaction) error
	LoadUndo(ctx context.Context) *model.Transaction
	SaveLevel(ctx context.Context, level string) error
	LoadLevel(ctx context.Context) string
}

var _ Persister = (*persistence.Adapter)(nil)

// Options configures a Session. Zero values select the defaults.
type Options struct {
	Logger   *slog.Logger
	Notifier Notifier
	Now      func() time.Time
	NewID    func() string
	Sort     derive.SortMode
	// RetentionDays is the auto-cleanup window. Negative disables cleanup.
	RetentionDays int
	// PeriodDays is the initial period filter. Zero means all time.
	PeriodDays int
	Months     int
}

// Session is the single owner of the application state.
type Session struct {
	persister   Persister
	notifier    Notifier
	logger      *slog.Logger
	now         func() time.Time
	store       *ledger.Store
	undo        *model.Transaction
	lastSaveErr error
	prefs       model.Preferences
	view        derive.Snapshot
	query       derive.Query
	policy      notify.Policy
	budget      float64
	retention   int
	months      int
	mu          sync.Mutex
}

// Open loads the persisted state, runs auto-cleanup when enabled, restores
// the undo slot and notification level, and computes the first view.
func Open(ctx context.Context, persister Persister, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RetentionDays == 0 {
		opts.RetentionDays = DefaultRetentionDays
	}
	if opts.Months <= 0 {
		opts.Months = derive.DefaultMonths
	}
	if opts.PeriodDays < 0 {
		opts.PeriodDays = 0
	}
	if opts.Sort == "" {
		opts.Sort = derive.SortDateDesc
	}

	state := persister.Load(ctx)

	storeOpts := []ledger.Option{ledger.WithClock(opts.Now)}
	if opts.NewID != nil {
		storeOpts = append(storeOpts, ledger.WithIDGenerator(opts.NewID))
	}

	s := &Session{
		persister: persister,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		now:       opts.Now,
		store:     ledger.New(state.Transactions, storeOpts...),
		prefs:     state.Preferences,
		budget:    state.Budget,
		retention: opts.RetentionDays,
		months:    opts.Months,
		query: derive.Query{
			Now:        opts.Now(),
			Sort:       opts.Sort,
			PeriodDays: opts.PeriodDays,
		},
	}

	s.undo = persister.LoadUndo(ctx)
	s.policy.Restore(notify.ParseLevel(persister.LoadLevel(ctx)))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs.AutoCleanup && s.retention > 0 {
		if removed := s.store.CleanupOlderThan(s.threshold()); removed > 0 {
			s.logger.Info("auto-cleanup removed old transactions", "count", removed, "retention_days", s.retention)
			s.commit(ctx)
			return s
		}
	}
	s.recompute(ctx)
	return s
}

func (s *Session) threshold() time.Time {
	return s.now().AddDate(0, 0, -s.retention)
}

// Add records a new transaction.
func (s *Session) Add(ctx context.Context, f ledger.Fields) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.store.Add(f)
	if err != nil {
		return model.Transaction{}, err
	}
	s.logger.Debug("added transaction", "id", tx.ID, "amount", tx.Amount)
	s.commit(ctx)
	return tx, nil
}

// Update edits the transaction with the given id. An unknown id returns
// common.ErrNotFound and leaves the state untouched.
func (s *Session) Update(ctx context.Context, id string, f ledger.Fields) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.store.Update(id, f)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Debug("update of unknown transaction ignored", "id", id)
		}
		return model.Transaction{}, err
	}
	s.commit(ctx)
	return tx, nil
}

// Delete removes the transaction with the given id and keeps it in the undo
// slot, replacing whatever was there. Unknown ids report false.
func (s *Session) Delete(ctx context.Context, id string) (model.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.store.Remove(id)
	if !ok {
		s.logger.Debug("delete of unknown transaction ignored", "id", id)
		return model.Transaction{}, false
	}

	s.undo = &tx
	if err := s.persister.SaveUndo(ctx, s.undo); err != nil {
		s.logger.Warn("failed to save undo slot", "error", err)
	}
	s.commit(ctx)
	return tx, true
}

// Undo restores the most recently deleted transaction. It reports false when
// the slot is empty or the id has been reused since.
func (s *Session) Undo(ctx context.Context) (model.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.undo == nil {
		return model.Transaction{}, false
	}
	tx := *s.undo
	s.clearUndo(ctx)

	if !s.store.Restore(tx) {
		s.logger.Debug("undo refused, id already present", "id", tx.ID)
		return model.Transaction{}, false
	}
	s.commit(ctx)
	return tx, true
}

// Pending returns the transaction Undo would restore.
func (s *Session) Pending() (model.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.undo == nil {
		return model.Transaction{}, false
	}
	return *s.undo, true
}

func (s *Session) clearUndo(ctx context.Context) {
	s.undo = nil
	if err := s.persister.SaveUndo(ctx, nil); err != nil {
		s.logger.Warn("failed to clear undo slot", "error", err)
	}
}

// Clear removes every transaction and empties the undo slot. Budget and
// preferences are kept.
func (s *Session) Clear(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.store.Len()
	s.store.Clear()
	s.clearUndo(ctx)
	s.commit(ctx)
	return n
}

// Cleanup removes transactions older than the retention window.
func (s *Session) Cleanup(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cleanupOlderThan(ctx, s.threshold())
}

// CleanupOlderThan removes transactions dated before threshold.
func (s *Session) CleanupOlderThan(ctx context.Context, threshold time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cleanupOlderThan(ctx, threshold)
}

func (s *Session) cleanupOlderThan(ctx context.Context, threshold time.Time) int {
	removed := s.store.CleanupOlderThan(threshold)
	if removed > 0 {
		s.commit(ctx)
	}
	return removed
}

// ImportTransactions prepends txs, skipping ids already present, and
// returns how many were added.
func (s *Session) ImportTransactions(ctx context.Context, txs []model.Transaction) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := s.store.Prepend(txs)
	if added > 0 {
		s.commit(ctx)
	}
	return added
}

// ReplaceState swaps in a whole state, as a full JSON import or a backup
// restore does. The undo slot is emptied since it belongs to the old data.
func (s *Session) ReplaceState(ctx context.Context, state model.AppState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Replace(state.Transactions)
	s.budget = state.Budget
	if s.budget <= 0 {
		s.budget = model.DefaultBudget
	}
	s.prefs = state.Preferences
	s.clearUndo(ctx)
	s.commit(ctx)
}

// SetBudget changes the monthly budget. It must be a positive number.
func (s *Session) SetBudget(ctx context.Context, budget float64) error {
	if math.IsNaN(budget) || math.IsInf(budget, 0) || budget <= 0 {
		return common.NewValidationError("budget", "must be a positive number")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.budget = budget
	s.commit(ctx)
	return nil
}

// SetPreferences replaces the preferences.
func (s *Session) SetPreferences(ctx context.Context, prefs model.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = prefs
	s.commit(ctx)
}

// SetQuery changes the view parameters and returns the recomputed view.
func (s *Session) SetQuery(ctx context.Context, q derive.Query) derive.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = q
	s.recompute(ctx)
	return s.view
}

// Query returns the current view parameters.
func (s *Session) Query() derive.Query {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.query
}

// View returns the most recently derived snapshot.
func (s *Session) View() derive.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view
}

// Get returns the transaction with the given id.
func (s *Session) Get(id string) (model.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Get(id)
}

// State returns a copy of the aggregate.
func (s *Session) State() model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state()
}

func (s *Session) state() model.AppState {
	return model.AppState{
		Transactions: s.store.All(),
		Budget:       s.budget,
		Preferences:  s.prefs,
	}
}

// Save persists the current state and returns any storage error.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSaveErr = s.persister.Save(ctx, s.state())
	return s.lastSaveErr
}

// LastSaveError returns the error of the most recent save, or nil.
func (s *Session) LastSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastSaveErr
}

// commit persists and recomputes. A failed save keeps the in-memory state
// authoritative; the error is logged and kept for LastSaveError.
func (s *Session) commit(ctx context.Context) {
	if err := s.persister.Save(ctx, s.state()); err != nil {
		common.LogError(s.logger, err, "failed to save state", nil)
		s.lastSaveErr = err
	} else {
		s.lastSaveErr = nil
	}
	s.recompute(ctx)
}

func (s *Session) recompute(ctx context.Context) {
	s.query.Now = s.now()
	s.view = derive.Build(s.state(), s.query, s.months)

	before := s.policy.Level()
	signal := s.policy.Observe(s.view.UsagePercent)
	if after := s.policy.Level(); after != before {
		if err := s.persister.SaveLevel(ctx, after.String()); err != nil {
			s.logger.Warn("failed to save notification level", "error", err)
		}
	}

	if signal != notify.SignalNone {
		s.logger.Info("budget threshold crossed", "signal", signal.String(), "percent", s.view.UsagePercent)
		if s.notifier != nil {
			s.notifier.Notify(signal, s.view.UsagePercent)
		}
	}
}
