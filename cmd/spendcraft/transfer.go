package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/spendcraft/internal/cli"
	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/exchange"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/Veraticus/spendcraft/internal/ofx"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// maxReportedRowErrors caps how many skipped rows import prints.
const maxReportedRowErrors = 10

func importCmd() *cobra.Command {
	var (
		format       string
		force        bool
		listAccounts bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import transactions from CSV, JSON or OFX/QFX",
		Long: `Import transactions from a file. The format is taken from the extension
unless --format is given.

  .csv        rows with the export header (id, desc, amount, category, date,
              recurring, note); invalid rows are skipped and reported
  .json       a list of transactions is added; a full backup replaces
              everything after confirmation
  .ofx/.qfx   bank and credit card statements; importing the same file
              again adds nothing

Transactions whose id already exists are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			kind, err := importFormat(path, format)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				return common.NewUserError("could not read "+path, err)
			}

			if listAccounts {
				if kind != exchange.FormatOFX {
					return fmt.Errorf("--list-accounts only applies to OFX/QFX files")
				}
				return printAccounts(cmd, raw)
			}

			handler := cli.NewInterruptHandler(os.Stderr)
			ctx := handler.HandleInterrupts(cmd.Context(), "Nothing was imported.")
			defer handler.Stop()

			a, err := openApp(ctx, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			switch kind {
			case exchange.FormatCSV:
				err = importCSV(ctx, a, out, path, raw)
			case exchange.FormatJSON:
				err = importJSON(ctx, a, out, raw, force)
			case exchange.FormatOFX:
				err = importOFX(ctx, a, out, raw)
			}
			if err != nil {
				return err
			}
			return a.checkSaved()
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "csv, json or ofx (default from the file extension)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace without confirmation when importing a full backup")
	cmd.Flags().BoolVar(&listAccounts, "list-accounts", false, "list the accounts in an OFX/QFX file without importing")
	return cmd
}

// importFormat resolves the --format flag, falling back to the extension.
func importFormat(path, flag string) (exchange.Format, error) {
	if flag == "" {
		return exchange.DetectFormat(path)
	}
	switch f := exchange.Format(strings.ToLower(strings.TrimSpace(flag))); f {
	case exchange.FormatCSV, exchange.FormatJSON, exchange.FormatOFX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported import format %q (want csv, json or ofx)", flag)
	}
}

func importCSV(ctx context.Context, a *app, out io.Writer, path string, raw []byte) error {
	rows := max(bytes.Count(raw, []byte("\n"))-1, 0)
	bar := cli.NewProgress(os.Stderr, rows, "Reading "+filepath.Base(path))

	res, err := exchange.ReadCSV(bytes.NewReader(raw), exchange.CSVOptions{
		Now:    time.Now,
		NewID:  uuid.NewString,
		Source: filepath.Base(path),
		OnRow: func(int) {
			_ = bar.Add(1)
		},
	})
	_ = bar.Finish()
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	reportSkipped(out, res.Errors)
	return reportImport(out, len(res.Transactions), a.session.ImportTransactions(ctx, res.Transactions), res.Skipped())
}

func importJSON(ctx context.Context, a *app, out io.Writer, raw []byte, force bool) error {
	payload, err := exchange.ReadJSON(bytes.NewReader(raw), a.adapter.Normalizer())
	if err != nil {
		return err
	}

	if !payload.IsFullState() {
		kept, rowErrs := exchange.ValidTransactions(payload.Transactions, "json")
		reportSkipped(out, rowErrs)
		return reportImport(out, len(kept), a.session.ImportTransactions(ctx, kept), len(rowErrs))
	}

	state := *payload.State
	if !force {
		question := fmt.Sprintf("Replace all %d transactions, the budget and preferences with the %d transactions in this file?",
			len(a.session.State().Transactions), len(state.Transactions))
		ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(os.Stdin), out, question)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, cli.FormatInfo("Nothing was imported"))
			return nil
		}
	}

	a.session.ReplaceState(ctx, state)
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Replaced the data with %d transactions", len(state.Transactions))))
	return nil
}

func importOFX(ctx context.Context, a *app, out io.Writer, raw []byte) error {
	txs, err := ofx.NewParser(a.logger).ParseFile(ctx, bytes.NewReader(raw))
	if err != nil {
		return common.NewUserError("could not read the OFX file", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return reportImport(out, len(txs), a.session.ImportTransactions(ctx, txs), 0)
}

func printAccounts(cmd *cobra.Command, raw []byte) error {
	accounts, err := ofx.NewParser(nil).Accounts(cmd.Context(), bytes.NewReader(raw))
	if err != nil {
		return common.NewUserError("could not read the OFX file", err)
	}
	out := cmd.OutOrStdout()
	if len(accounts) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No accounts found"))
		return nil
	}
	for _, acct := range accounts {
		fmt.Fprintln(out, acct)
	}
	return nil
}

// reportSkipped prints up to maxReportedRowErrors of the records an import
// left out.
func reportSkipped(out io.Writer, errs []error) {
	for i, rowErr := range errs {
		if i == maxReportedRowErrors {
			fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("… and %d more skipped rows", len(errs)-maxReportedRowErrors)))
			return
		}
		fmt.Fprintln(out, cli.FormatWarning(rowErr.Error()))
	}
}

func reportImport(out io.Writer, parsed, added, skipped int) error {
	msg := fmt.Sprintf("Imported %d transactions", added)
	if dup := parsed - added; dup > 0 {
		msg += fmt.Sprintf(", %d already present", dup)
	}
	if skipped > 0 {
		msg += fmt.Sprintf(", %d rows skipped", skipped)
	}
	fmt.Fprintln(out, cli.FormatSuccess(msg))
	return nil
}

func exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all transactions as CSV or JSON",
		Long: `Export all transactions. CSV holds the transactions only; JSON holds the
full data (transactions, budget and preferences) and can be imported back.

Without --output the export is written to standard output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := exportFormat(output, format)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()
			state := a.session.State()

			if output == "" {
				return writeExport(cmd.OutOrStdout(), kind, state)
			}

			f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
			if err != nil {
				return common.NewUserError("could not create "+output, err)
			}
			if err := writeExport(f, kind, state); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", output, err)
			}

			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to %s", len(state.Transactions), output)))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "csv or json (default from the output extension, else csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}

// exportFormat resolves the --format flag, falling back to the output
// extension and then to CSV.
func exportFormat(output, flag string) (exchange.Format, error) {
	if flag != "" {
		return exchange.ParseFormat(flag)
	}
	if output != "" {
		if f, err := exchange.DetectFormat(output); err == nil && f != exchange.FormatOFX {
			return f, nil
		}
	}
	return exchange.FormatCSV, nil
}

func writeExport(w io.Writer, kind exchange.Format, state model.AppState) error {
	if kind == exchange.FormatJSON {
		return exchange.WriteJSON(w, state)
	}
	return exchange.WriteCSV(w, state.Transactions)
}
