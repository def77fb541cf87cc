package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/spendcraft/internal/backup"
	"github.com/Veraticus/spendcraft/internal/cli"
	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/Veraticus/spendcraft/internal/storage"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	var (
		dir   string
		store bool
		label string
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Save a snapshot of all data",
		Long: `Save a snapshot of all data. By default it is written as
spendcraft-backup-<timestamp>.json to backup.dir; with --store it is kept
inside the database instead. Restore either kind with "backup restore".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			state := a.session.State()
			out := cmd.OutOrStdout()

			if store {
				if label == "" {
					label = "manual " + time.Now().Format("2006-01-02 15:04")
				}
				id, err := backup.Store(cmd.Context(), a.store, state, label)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Stored snapshot %d (%d transactions)", id, len(state.Transactions))))
				return nil
			}

			if dir == "" {
				dir = settings.BackupDir
			}
			path, err := backup.WriteFile(dir, state, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Wrote %s (%d transactions)", path, len(state.Transactions))))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory for the backup file (default from backup.dir)")
	cmd.Flags().BoolVar(&store, "store", false, "keep the snapshot in the database instead of a file")
	cmd.Flags().StringVar(&label, "label", "", "label for a stored snapshot")

	cmd.AddCommand(backupListCmd())
	cmd.AddCommand(backupRestoreCmd())
	cmd.AddCommand(backupDeleteCmd())
	return cmd
}

func backupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots stored in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			snaps, err := a.store.ListSnapshots(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(snaps) == 0 {
				fmt.Fprintln(out, cli.FormatInfo(`No stored snapshots. Create one with "spendcraft backup --store".`))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Created"),
				cli.TableHeaderStyle.Render("Transactions"),
				cli.TableHeaderStyle.Render("Label"),
			)
			for _, s := range snaps {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", s.ID, humanize.Time(s.CreatedAt), s.Transactions, s.Label)
			}
			return w.Flush()
		},
	}
}

func backupRestoreCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <snapshot-id|file>",
		Short: "Replace all data with a snapshot",
		Long: `Replace all data with a snapshot. A number restores a snapshot stored in
the database; anything else is read as a backup file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			state, err := loadSnapshot(cmd, a, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !force {
				question := fmt.Sprintf("Replace the current %d transactions with the %d in this snapshot?",
					len(a.session.State().Transactions), len(state.Transactions))
				ok, err := cli.Confirm(cmd.Context(), cli.NewNonBlockingReader(os.Stdin), out, question)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, cli.FormatInfo("Nothing was restored"))
					return nil
				}
			}

			a.session.ReplaceState(cmd.Context(), state)
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Restored %d transactions", len(state.Transactions))))
			return a.checkSaved()
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")
	return cmd
}

func loadSnapshot(cmd *cobra.Command, a *app, ref string) (model.AppState, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		state, err := backup.Restore(cmd.Context(), a.store, id, a.adapter.Normalizer())
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			return model.AppState{}, common.NewUserError(fmt.Sprintf("there is no stored snapshot %d", id), err)
		}
		return state, err
	}

	raw, err := os.ReadFile(ref)
	if err != nil {
		return model.AppState{}, common.NewUserError("could not read "+ref, err)
	}
	return a.adapter.Normalizer().State(raw)
}

func backupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <snapshot-id>",
		Short: "Delete a snapshot stored in the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid snapshot id %q", args[0])
			}

			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.DeleteSnapshot(cmd.Context(), id); err != nil {
				if errors.Is(err, storage.ErrSnapshotNotFound) {
					return common.NewUserError(fmt.Sprintf("there is no stored snapshot %d", id), err)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted snapshot %d", id)))
			return nil
		},
	}
}
