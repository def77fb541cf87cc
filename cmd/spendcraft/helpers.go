package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/spendcraft/internal/cli"
	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/derive"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/Veraticus/spendcraft/internal/persistence"
	"github.com/Veraticus/spendcraft/internal/session"
	"github.com/Veraticus/spendcraft/internal/storage"
	"github.com/google/uuid"
)

// app bundles what every command needs: the open database, the persistence
// adapter over it and a session.
type app struct {
	store    *storage.SQLiteStorage
	adapter  *persistence.Adapter
	session  *session.Session
	logger   *slog.Logger
	renderer cli.Renderer
}

// openApp opens the database, runs migrations and opens a session whose
// budget signals go to notifier (stderr when nil).
func openApp(ctx context.Context, notifier session.Notifier) (*app, error) {
	logger := slog.Default()

	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, common.NewUserError("could not open the database at "+settings.DatabasePath, err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	adapter := persistence.NewAdapter(store, persistence.Options{
		Logger:    logger,
		Key:       settings.StorageKey,
		LegacyKey: settings.LegacyKey,
		NewID:     uuid.NewString,
	})

	if notifier == nil {
		notifier = cli.NewNotifier(os.Stderr)
	}
	sess := session.Open(ctx, adapter, session.Options{
		Logger:        logger,
		Notifier:      notifier,
		NewID:         uuid.NewString,
		Sort:          derive.SortMode(settings.Sort),
		RetentionDays: settings.RetentionDays,
		PeriodDays:    settings.PeriodDays,
		Months:        settings.Months,
	})

	state := sess.State()
	cli.ApplyTheme(state.Preferences.Theme)

	return &app{
		store:    store,
		adapter:  adapter,
		session:  sess,
		logger:   logger,
		renderer: cli.NewRenderer(settings.Currency),
	}, nil
}

// Close releases the database.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close database", "error", err)
	}
}

// checkSaved turns a failed save into a command error so scripts notice.
func (a *app) checkSaved() error {
	if err := a.session.LastSaveError(); err != nil {
		return common.NewUserError("the change was applied but could not be saved", err)
	}
	return nil
}

// resolveID finds the single transaction whose id starts with prefix.
func resolveID(txs []model.Transaction, prefix string) (model.Transaction, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return model.Transaction{}, common.NewValidationError("id", "must not be empty")
	}

	var matches []model.Transaction
	for _, tx := range txs {
		if tx.ID == prefix {
			return tx, nil
		}
		if strings.HasPrefix(tx.ID, prefix) {
			matches = append(matches, tx)
		}
	}

	switch len(matches) {
	case 0:
		return model.Transaction{}, fmt.Errorf("%w: no transaction with id %q", common.ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return model.Transaction{}, fmt.Errorf("id prefix %q matches %d transactions, use more characters", prefix, len(matches))
	}
}

// parseDate accepts "today", "yesterday", YYYY-MM-DD and YYYY-MM-DD HH:MM in
// loc. Date-only values get the current time of day so that same-day entries
// keep their order.
func parseDate(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	now = now.In(loc)

	switch s {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}

	if t, err := time.ParseInLocation("2006-01-02 15:04", s, loc); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, common.NewValidationError("date", fmt.Sprintf("%q is not a date (want YYYY-MM-DD)", s))
	}
	return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, loc), nil
}

// parseMonth accepts YYYY-MM; empty selects the month of now.
func parseMonth(s string, now time.Time) (int, time.Month, error) {
	if strings.TrimSpace(s) == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, common.NewValidationError("month", fmt.Sprintf("%q is not a month (want YYYY-MM)", s))
	}
	return t.Year(), t.Month(), nil
}

// parseCategory resolves a category flag strictly.
func parseCategory(s string) (model.Category, error) {
	c, ok := model.ParseCategory(s)
	if !ok {
		names := make([]string, 0, len(model.Categories()))
		for _, known := range model.Categories() {
			names = append(names, string(known))
		}
		return "", common.NewValidationError("category", fmt.Sprintf("unknown category %q (want one of %s)", s, strings.Join(names, ", ")))
	}
	return c, nil
}

// parseRecurrence resolves a recurrence flag strictly.
func parseRecurrence(s string) (model.Recurrence, error) {
	r, ok := model.ParseRecurrence(s)
	if !ok {
		return "", common.NewValidationError("recurring", fmt.Sprintf("unknown recurrence %q (want none, daily, weekly, monthly or yearly)", s))
	}
	return r, nil
}

// isNotFound reports whether err means a missing record.
func isNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}
