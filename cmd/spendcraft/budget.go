package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Veraticus/spendcraft/internal/cli"
	"github.com/Veraticus/spendcraft/internal/ledger"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/spf13/cobra"
)

func budgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget [amount]",
		Short: "Show or set the monthly budget",
		Long: `Without an argument, show the budget and how much of it the current view
has used. With an amount, set a new budget; it must be positive.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				amount, err := ledger.ParseAmount(args[0])
				if err != nil {
					return err
				}
				if err := a.session.SetBudget(cmd.Context(), amount); err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess("Budget set to "+a.renderer.Money.Format(amount)))
				if err := a.checkSaved(); err != nil {
					return err
				}
			}

			snap := a.session.View()
			fmt.Fprintln(out, a.renderer.Gauge(snap.Totals.Expense, snap.Budget, snap.UsagePercent))
			return nil
		},
	}
}

func settingsCmd() *cobra.Command {
	var (
		theme       string
		autoCleanup string
		autoBackup  string
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
		Long: `Show the stored preferences, or change them with flags.

Examples:
  spendcraft settings --theme light
  spendcraft settings --auto-cleanup=false --auto-backup=true`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			prefs := a.session.State().Preferences
			changed := false

			if cmd.Flags().Changed("theme") {
				switch t := model.Theme(theme); t {
				case model.ThemeDark, model.ThemeLight:
					prefs.Theme = t
				default:
					return fmt.Errorf("unknown theme %q (want dark or light)", theme)
				}
				changed = true
			}
			if cmd.Flags().Changed("auto-cleanup") {
				if prefs.AutoCleanup, err = strconv.ParseBool(autoCleanup); err != nil {
					return fmt.Errorf("invalid --auto-cleanup value %q: %w", autoCleanup, err)
				}
				changed = true
			}
			if cmd.Flags().Changed("auto-backup") {
				if prefs.AutoBackup, err = strconv.ParseBool(autoBackup); err != nil {
					return fmt.Errorf("invalid --auto-backup value %q: %w", autoBackup, err)
				}
				changed = true
			}

			out := cmd.OutOrStdout()
			if changed {
				a.session.SetPreferences(cmd.Context(), prefs)
				cli.ApplyTheme(prefs.Theme)
				fmt.Fprintln(out, cli.FormatSuccess("Preferences saved"))
				if err := a.checkSaved(); err != nil {
					return err
				}
			}

			state := a.session.State()
			lines := fmt.Sprintf("%-14s %s\n%-14s %t (older than %d days)\n%-14s %t (every %s)\n%-14s %s\n%-14s %s\n%-14s %s",
				"Theme", prefs.Theme,
				"Auto-cleanup", prefs.AutoCleanup, settings.RetentionDays,
				"Auto-backup", prefs.AutoBackup, settings.BackupInterval,
				"Budget", a.renderer.Money.Format(state.Budget),
				"Currency", settings.Currency,
				"Database", a.store.Path(),
			)
			fmt.Fprintln(out, cli.RenderBox("⚙️  Settings", lines))
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "dark or light")
	cmd.Flags().StringVar(&autoCleanup, "auto-cleanup", "", "remove old transactions on start (true/false)")
	cmd.Flags().StringVar(&autoBackup, "auto-backup", "", "save periodically while the dashboard runs (true/false)")
	return cmd
}

func cleanupCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove transactions older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if days <= 0 {
				days = settings.RetentionDays
			}
			removed := a.session.CleanupOlderThan(cmd.Context(), time.Now().AddDate(0, 0, -days))

			out := cmd.OutOrStdout()
			if removed == 0 {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Nothing older than %d days", days)))
				return nil
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Removed %d transactions older than %d days", removed, days)))
			return a.checkSaved()
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "retention window in days (default from cleanup.retention_days)")
	return cmd
}

func clearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction",
		Long: `Delete every transaction. The budget and preferences are kept.
This cannot be undone; take a backup first with "spendcraft backup".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			count := len(a.session.State().Transactions)
			if count == 0 {
				fmt.Fprintln(out, cli.FormatInfo("There are no transactions"))
				return nil
			}

			if !force {
				ok, err := cli.Confirm(cmd.Context(), cli.NewNonBlockingReader(os.Stdin), out,
					fmt.Sprintf("Delete all %d transactions?", count))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, cli.FormatInfo("Nothing was deleted"))
					return nil
				}
			}

			removed := a.session.Clear(cmd.Context())
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted %d transactions", removed)))
			return a.checkSaved()
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")
	return cmd
}
