package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/spendcraft/internal/cli"
	"github.com/Veraticus/spendcraft/internal/derive"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// queryFlags narrow the view of list, summary and categories.
type queryFlags struct {
	search   string
	category string
	sort     string
	period   int
}

func (f *queryFlags) register(flags *pflag.FlagSet) {
	flags.StringVarP(&f.search, "search", "s", "", "only transactions whose description or note contains this text")
	flags.StringVarP(&f.category, "category", "c", "", "only this category")
	flags.StringVar(&f.sort, "sort", "", "sort order (date_desc, date_asc, amount_desc, amount_asc)")
	flags.IntVarP(&f.period, "period", "p", -1, "only the last N days, 0 for all time (default from view.period_days)")
}

// apply overlays the flags onto q.
func (f *queryFlags) apply(q derive.Query) (derive.Query, error) {
	q.Search = f.search
	if f.category != "" {
		c, err := parseCategory(f.category)
		if err != nil {
			return q, err
		}
		q.Category = c
	}
	if f.sort != "" {
		mode, err := derive.ParseSortMode(f.sort)
		if err != nil {
			return q, err
		}
		q.Sort = mode
	}
	if f.period >= 0 {
		q.PeriodDays = f.period
	}
	return q, nil
}

// openView opens the app and applies the query flags.
func openView(cmd *cobra.Command, flags *queryFlags) (*app, derive.Snapshot, error) {
	a, err := openApp(cmd.Context(), nil)
	if err != nil {
		return nil, derive.Snapshot{}, err
	}
	q, err := flags.apply(a.session.Query())
	if err != nil {
		a.Close()
		return nil, derive.Snapshot{}, err
	}
	return a, a.session.SetQuery(cmd.Context(), q), nil
}

func listCmd() *cobra.Command {
	var (
		flags queryFlags
		limit int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, snap, err := openView(cmd, &flags)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if len(snap.Filtered) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No transactions match."))
				return nil
			}

			shown := snap.Filtered
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			if err := a.renderer.Transactions(out, shown); err != nil {
				return err
			}
			if len(shown) < len(snap.Filtered) {
				fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("… %d more, use --limit 0 to show all", len(snap.Filtered)-len(shown))))
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "show at most N rows, 0 for all")
	return cmd
}

func summaryCmd() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expenses, balance and budget usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, snap, err := openView(cmd, &flags)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintln(cmd.OutOrStdout(), a.renderer.Summary(snap))
			return nil
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func categoriesCmd() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show spending per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, snap, err := openView(cmd, &flags)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle("Spending by category"))
			fmt.Fprintln(out, a.renderer.Categories(snap.Categories))
			return nil
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func trendCmd() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show income and expenses per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if months <= 0 {
				months = settings.Months
			}
			series := derive.MonthlySeries(a.session.State().Transactions, time.Now(), months)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Last %d months", months)))
			fmt.Fprintln(out, a.renderer.Trend(series))
			return nil
		},
	}

	cmd.Flags().IntVarP(&months, "months", "m", 0, "number of months (default from view.months)")
	return cmd
}

func calendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar [YYYY-MM]",
		Short: "Show the net amount of each day of a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := ""
			if len(args) == 1 {
				month = args[0]
			}
			year, mon, err := parseMonth(month, time.Now())
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			days := derive.DailyTotals(a.session.State().Transactions, year, mon, time.Local)
			fmt.Fprintln(cmd.OutOrStdout(), a.renderer.Calendar(days, year, mon))
			return nil
		},
	}
}
