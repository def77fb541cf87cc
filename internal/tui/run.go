package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spendcraft/internal/backup"
	"github.com/Veraticus/spendcraft/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Run shows the dashboard until the user quits or ctx is canceled. While it
// runs, the state is saved on the backup interval whenever the auto-backup
// preference is on. The state is saved once more on exit.
func Run(ctx context.Context, sess *session.Session, notes *Notifications, logger *slog.Logger, opts ...Option) error {
	if sess == nil {
		return fmt.Errorf("session is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(newModel(ctx, sess, notes, cfg), programOpts...)

	scheduler := backup.NewScheduler(sess, cfg.BackupInterval, func() bool {
		return sess.State().Preferences.AutoBackup
	}, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	runErr := g.Wait()

	if err := sess.Save(context.WithoutCancel(ctx)); err != nil {
		logger.Error("failed to save state on exit", "error", err)
		if runErr == nil {
			runErr = fmt.Errorf("failed to save state: %w", err)
		}
	}
	return runErr
}
