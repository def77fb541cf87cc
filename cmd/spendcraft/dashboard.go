package main

import (
	"time"

	"github.com/Veraticus/spendcraft/internal/tui"
	"github.com/Veraticus/spendcraft/internal/tui/themes"
	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			notes := &tui.Notifications{}
			a, err := openApp(cmd.Context(), notes)
			if err != nil {
				return err
			}
			defer a.Close()

			return tui.Run(cmd.Context(), a.session, notes, a.logger,
				tui.WithTheme(themes.For(a.session.State().Preferences.Theme)),
				tui.WithCurrency(settings.Currency),
				tui.WithLocation(time.Local),
				tui.WithBackupInterval(settings.BackupInterval),
			)
		},
	}
}
