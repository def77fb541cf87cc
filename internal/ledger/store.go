// Package ledger holds the ordered in-memory transaction collection.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/google/uuid"
)

// Store is the ordered collection of transactions, newest insert first.
// It is not safe for concurrent use; the session serializes access.
type Store struct {
	now   func() time.Time
	newID func() string
	txs   []model.Transaction
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to date new transactions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the function that mints transaction ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates a store holding a copy of txs.
func New(txs []model.Transaction, opts ...Option) *Store {
	s := &Store{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	s.Replace(txs)
	return s
}

// Add validates f and inserts a new transaction at the front.
func (s *Store) Add(f Fields) (model.Transaction, error) {
	if err := Validate(f); err != nil {
		return model.Transaction{}, err
	}

	tx := model.Transaction{ID: s.newID()}
	s.apply(&tx, f)
	if tx.Date.IsZero() {
		tx.Date = model.CanonicalTime(s.now())
	}

	s.txs = append([]model.Transaction{tx}, s.txs...)
	return tx, nil
}

// Update replaces the fields of the transaction with the given id. The id
// never changes and the date is kept when f carries none.
func (s *Store) Update(id string, f Fields) (model.Transaction, error) {
	if err := Validate(f); err != nil {
		return model.Transaction{}, err
	}

	i := s.index(id)
	if i < 0 {
		return model.Transaction{}, fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}

	tx := s.txs[i]
	s.apply(&tx, f)
	s.txs[i] = tx
	return tx, nil
}

func (s *Store) apply(tx *model.Transaction, f Fields) {
	tx.Description = strings.TrimSpace(f.Description)
	tx.Amount = f.Amount
	tx.Note = strings.TrimSpace(f.Note)

	tx.Category = f.Category
	if tx.Category == "" {
		tx.Category = model.CategoryOther
	}
	tx.Recurring, _ = model.ParseRecurrence(string(f.Recurring))

	if !f.Date.IsZero() {
		tx.Date = model.CanonicalTime(f.Date)
		tx.DateInferred = false
	}
}

// Remove deletes the transaction with the given id. Unknown ids are a no-op.
func (s *Store) Remove(id string) (model.Transaction, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Transaction{}, false
	}
	tx := s.txs[i]
	s.txs = append(s.txs[:i], s.txs[i+1:]...)
	return tx, true
}

// Restore reinserts a removed transaction at the front. It refuses a
// transaction whose id is already present.
func (s *Store) Restore(tx model.Transaction) bool {
	if tx.ID == "" || s.index(tx.ID) >= 0 {
		return false
	}
	s.txs = append([]model.Transaction{tx}, s.txs...)
	return true
}

// Clear removes every transaction.
func (s *Store) Clear() {
	s.txs = []model.Transaction{}
}

// Replace swaps the whole collection for a copy of txs.
func (s *Store) Replace(txs []model.Transaction) {
	s.txs = make([]model.Transaction, len(txs))
	copy(s.txs, txs)
}

// Prepend inserts txs ahead of the existing records, preserving their
// order. Records whose id is already present are skipped. It returns the
// number inserted.
func (s *Store) Prepend(txs []model.Transaction) int {
	seen := make(map[string]bool, len(s.txs)+len(txs))
	for _, tx := range s.txs {
		seen[tx.ID] = true
	}

	fresh := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.ID == "" || seen[tx.ID] {
			continue
		}
		seen[tx.ID] = true
		fresh = append(fresh, tx)
	}

	s.txs = append(fresh, s.txs...)
	return len(fresh)
}

// CleanupOlderThan removes every transaction dated strictly before
// threshold and returns how many were removed.
func (s *Store) CleanupOlderThan(threshold time.Time) int {
	kept := s.txs[:0]
	removed := 0
	for _, tx := range s.txs {
		if tx.Date.Before(threshold) {
			removed++
			continue
		}
		kept = append(kept, tx)
	}
	s.txs = kept
	return removed
}

// Get returns the transaction with the given id.
func (s *Store) Get(id string) (model.Transaction, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Transaction{}, false
	}
	return s.txs[i], true
}

// All returns a copy of the collection in store order.
func (s *Store) All() []model.Transaction {
	out := make([]model.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// Len returns the number of transactions.
func (s *Store) Len() int {
	return len(s.txs)
}

func (s *Store) index(id string) int {
	for i := range s.txs {
		if s.txs[i].ID == id {
			return i
		}
	}
	return -1
}
