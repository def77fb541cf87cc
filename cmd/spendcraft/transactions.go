package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/spendcraft/internal/cli"
	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/ledger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// entryFlags are shared by add and edit.
type entryFlags struct {
	category  string
	date      string
	recurring string
	note      string
	expense   bool
}

func (f *entryFlags) register(flags *pflag.FlagSet) {
	flags.StringVarP(&f.category, "category", "c", "Other", "category (Food, Transport, Shopping, Entertainment, Bills, Health, Education, Income, Other)")
	flags.StringVarP(&f.date, "date", "d", "today", "date (YYYY-MM-DD, today, yesterday)")
	flags.StringVarP(&f.recurring, "recurring", "r", "none", "how often it repeats (none, daily, weekly, monthly, yearly)")
	flags.StringVarP(&f.note, "note", "n", "", "free-form note")
	flags.BoolVarP(&f.expense, "expense", "e", false, "record a positive amount as an expense")
}

// signed applies the --expense flag to amount.
func (f *entryFlags) signed(amount float64) float64 {
	if f.expense && amount > 0 {
		return -amount
	}
	return amount
}

func addCmd() *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "add <description> <amount>",
		Short: "Record a transaction",
		Long: `Record a transaction. Positive amounts are income, negative amounts are
expenses; use --expense to enter an expense without the minus sign.

Examples:
  spendcraft add "Salary" 50000 -c Income -r monthly
  spendcraft add "Groceries" -- -1250.50 -c Food
  spendcraft add "Movie night" 600 -e -c Entertainment -d yesterday`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := ledger.ParseAmount(args[1])
			if err != nil {
				return err
			}
			category, err := parseCategory(flags.category)
			if err != nil {
				return err
			}
			recurring, err := parseRecurrence(flags.recurring)
			if err != nil {
				return err
			}
			date, err := parseDate(flags.date, time.Now(), time.Local)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			tx, err := a.session.Add(cmd.Context(), ledger.Fields{
				Date:        date,
				Description: args[0],
				Category:    category,
				Recurring:   recurring,
				Note:        flags.note,
				Amount:      flags.signed(amount),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Added %s %s", tx.Description, a.renderer.Money.Signed(tx.Amount))))
			fmt.Fprintln(out, a.renderer.Transaction(tx))
			return a.checkSaved()
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func editCmd() *cobra.Command {
	var (
		flags       entryFlags
		description string
		amountText  string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a transaction",
		Long: `Change the fields of a transaction. Only the flags you pass are changed.
The id may be shortened to any unique prefix, as shown by "spendcraft list".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			existing, err := resolveID(a.session.State().Transactions, args[0])
			if err != nil {
				return err
			}
			fields := ledger.FromTransaction(existing)

			changed := cmd.Flags().Changed
			if changed("description") {
				fields.Description = description
			}
			if changed("amount") {
				amount, parseErr := ledger.ParseAmount(amountText)
				if parseErr != nil {
					return parseErr
				}
				fields.Amount = amount
			}
			if changed("expense") {
				fields.Amount = flags.signed(fields.Amount)
			}
			if changed("category") {
				if fields.Category, err = parseCategory(flags.category); err != nil {
					return err
				}
			}
			if changed("recurring") {
				if fields.Recurring, err = parseRecurrence(flags.recurring); err != nil {
					return err
				}
			}
			if changed("date") {
				if fields.Date, err = parseDate(flags.date, time.Now(), time.Local); err != nil {
					return err
				}
			}
			if changed("note") {
				fields.Note = flags.note
			}

			tx, err := a.session.Update(cmd.Context(), existing.ID, fields)
			if isNotFound(err) {
				return common.NewUserError("the transaction was removed while editing", err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess("Updated "+tx.Description))
			fmt.Fprintln(out, a.renderer.Transaction(tx))
			return a.checkSaved()
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVarP(&amountText, "amount", "a", "", "new amount")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction (undoable)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			target, err := resolveID(a.session.State().Transactions, args[0])
			if err != nil {
				return err
			}
			tx, ok := a.session.Delete(cmd.Context(), target.ID)
			if !ok {
				return fmt.Errorf("%w: transaction %s", common.ErrNotFound, target.ID)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted %s %s", tx.Description, a.renderer.Money.Signed(tx.Amount))))
			fmt.Fprintln(out, cli.FormatInfo(`Run "spendcraft undo" to restore it.`))
			return a.checkSaved()
		},
	}
}

func undoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Restore the most recently deleted transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			tx, ok := a.session.Undo(cmd.Context())
			if !ok {
				fmt.Fprintln(out, cli.FormatInfo("Nothing to undo"))
				return nil
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Restored %s %s", tx.Description, a.renderer.Money.Signed(tx.Amount))))
			return a.checkSaved()
		},
	}
}
