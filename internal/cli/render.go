package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/spendcraft/internal/derive"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	barWidth      = 30
	dateLayout    = "2006-01-02"
	maxDescInList = 40
)

// Renderer draws derived views as terminal text.
type Renderer struct {
	Money    Money
	Location *time.Location
}

// NewRenderer creates a renderer for the given currency symbol, showing
// dates in the local zone.
func NewRenderer(symbol string) Renderer {
	return Renderer{Money: Money{Symbol: symbol}, Location: time.Local}
}

func (r Renderer) loc() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

// Summary renders the income/expense/balance box with the budget gauge.
func (r Renderer) Summary(snap derive.Snapshot) string {
	lines := []string{
		fmt.Sprintf("%-10s %s", "Income", SuccessStyle.Render(r.Money.Decimal(snap.Totals.Income))),
		fmt.Sprintf("%-10s %s", "Expenses", ErrorStyle.Render(r.Money.Decimal(snap.Totals.Expense))),
		fmt.Sprintf("%-10s %s", "Balance", r.balance(snap.Totals.Balance)),
		"",
		r.Gauge(snap.Totals.Expense, snap.Budget, snap.UsagePercent),
		"",
		SubtleStyle.Render(r.scope(snap)),
	}
	return RenderBox(ChartIcon+" Summary", strings.Join(lines, "\n"))
}

func (r Renderer) balance(d decimal.Decimal) string {
	s := r.Money.Decimal(d)
	if d.IsNegative() {
		return ErrorStyle.Render(s)
	}
	return SuccessStyle.Render(s)
}

func (r Renderer) scope(snap derive.Snapshot) string {
	if !snap.Query.Active() {
		return fmt.Sprintf("All %s transactions", humanize.Comma(int64(snap.Total)))
	}
	shown := fmt.Sprintf("%s of %s transactions", humanize.Comma(int64(snap.Totals.Count)), humanize.Comma(int64(snap.Total)))
	if snap.Query.PeriodDays > 0 {
		shown += fmt.Sprintf(", last %d days", snap.Query.PeriodDays)
	}
	if snap.Query.Category != "" {
		shown += ", " + string(snap.Query.Category)
	}
	if snap.Query.Search != "" {
		shown += fmt.Sprintf(", matching %q", snap.Query.Search)
	}
	return shown
}

// Gauge renders budget usage as a bar. The bar fills at 100% even when the
// percentage goes beyond it.
func (r Renderer) Gauge(expense decimal.Decimal, budget float64, percent int) string {
	color := ActivePalette.Income
	switch {
	case percent >= 100:
		color = ActivePalette.Expense
	case percent >= 90:
		color = ActivePalette.Warning
	}

	bar := progress.New(
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
		progress.WithSolidFill(string(color)),
	)
	fill := float64(min(percent, 100)) / 100

	label := fmt.Sprintf("%s of %s (%d%%)", r.Money.Decimal(expense), r.Money.Format(budget), percent)
	return "Budget     " + bar.ViewAs(fill) + " " + lipgloss.NewStyle().Foreground(color).Render(label)
}

// Transactions writes txs as an aligned table.
func (r Renderer) Transactions(w io.Writer, txs []model.Transaction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		TableHeaderStyle.Render("ID"),
		TableHeaderStyle.Render("Date"),
		TableHeaderStyle.Render("Description"),
		TableHeaderStyle.Render("Category"),
		TableHeaderStyle.Render("Amount"),
		TableHeaderStyle.Render("Repeats"),
	)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 8),
		strings.Repeat("-", 10),
		strings.Repeat("-", 20),
		strings.Repeat("-", 13),
		strings.Repeat("-", 10),
		strings.Repeat("-", 7),
	)

	for _, tx := range txs {
		date := tx.Date.In(r.loc()).Format(dateLayout)
		if !tx.HasUsableDate() {
			date = "?"
		}
		repeats := ""
		if tx.Recurring != model.RecurrenceNone {
			repeats = string(tx.Recurring)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\t%s\n",
			ShortID(tx.ID),
			date,
			truncate(tx.Description, maxDescInList),
			tx.Category.Icon(),
			tx.Category,
			r.Money.Signed(tx.Amount),
			repeats,
		)
	}

	return tw.Flush()
}

// Transaction renders one record in detail.
func (r Renderer) Transaction(tx model.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %s\n", "ID", tx.ID)
	fmt.Fprintf(&b, "%-12s %s (%s)\n", "Date", tx.Date.In(r.loc()).Format("2006-01-02 15:04"), humanize.Time(tx.Date))
	fmt.Fprintf(&b, "%-12s %s\n", "Description", tx.Description)
	fmt.Fprintf(&b, "%-12s %s %s\n", "Category", tx.Category.Icon(), tx.Category)
	fmt.Fprintf(&b, "%-12s %s\n", "Amount", r.Money.Signed(tx.Amount))
	fmt.Fprintf(&b, "%-12s %s\n", "Repeats", tx.Recurring)
	if tx.Note != "" {
		fmt.Fprintf(&b, "%-12s %s\n", "Note", tx.Note)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Categories renders expense per category as horizontal bars.
func (r Renderer) Categories(totals []derive.CategoryTotal) string {
	if len(totals) == 0 {
		return SubtleStyle.Render("No expenses in view.")
	}

	var b strings.Builder
	for _, ct := range totals {
		filled := int(ct.Share*barWidth + 0.5)
		bar := ErrorStyle.Render(strings.Repeat("█", filled)) + SubtleStyle.Render(strings.Repeat("░", barWidth-filled))
		fmt.Fprintf(&b, "%s %-14s %s %5.1f%%  %s\n",
			ct.Category.Icon(), ct.Category, bar, ct.Share*100, r.Money.Decimal(ct.Amount))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Trend renders the monthly series as paired income/expense bars, scaled to
// the largest month.
func (r Renderer) Trend(buckets []derive.MonthlyBucket) string {
	peak := decimal.Zero
	for _, m := range buckets {
		peak = decimal.Max(peak, m.Income, m.Expense)
	}

	scale := func(d decimal.Decimal) int {
		if !peak.IsPositive() {
			return 0
		}
		return int(d.Div(peak).InexactFloat64()*barWidth + 0.5)
	}

	var b strings.Builder
	for _, m := range buckets {
		label := fmt.Sprintf("%s %d", m.Month.String()[:3], m.Year)
		fmt.Fprintf(&b, "%-9s %s %s\n", label,
			SuccessStyle.Render(fmt.Sprintf("%-*s", barWidth, strings.Repeat("▇", scale(m.Income)))),
			SubtleStyle.Render("+"+r.Money.Compact(m.Income.InexactFloat64())))
		fmt.Fprintf(&b, "%-9s %s %s\n", "",
			ErrorStyle.Render(fmt.Sprintf("%-*s", barWidth, strings.Repeat("▇", scale(m.Expense)))),
			SubtleStyle.Render("-"+r.Money.Compact(m.Expense.InexactFloat64())))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Calendar renders a month grid with the net amount of each day, weeks
// starting on Sunday.
func (r Renderer) Calendar(days []derive.DailyTotal, year int, month time.Month) string {
	const cell = 9

	var b strings.Builder
	title := fmt.Sprintf("%s %d", month, year)
	b.WriteString(TitleStyle.UnsetMargins().Render(title) + "\n")
	for _, wd := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("%-*s", cell, wd)))
	}
	b.WriteString("\n")

	offset := int(time.Date(year, month, 1, 0, 0, 0, 0, r.loc()).Weekday())
	b.WriteString(strings.Repeat(" ", offset*cell))

	col := offset
	for _, d := range days {
		b.WriteString(r.dayCell(d, cell))
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r Renderer) dayCell(d derive.DailyTotal, width int) string {
	if d.Count == 0 {
		return SubtleStyle.Render(fmt.Sprintf("%-*d", width, d.Day))
	}
	net := d.Income.Sub(d.Expense)
	text := fmt.Sprintf("%-*s", width, fmt.Sprintf("%d %s", d.Day, compactNumber(net.Abs().InexactFloat64())))
	if net.IsNegative() {
		return ErrorStyle.Render(text)
	}
	return SuccessStyle.Render(text)
}

func compactNumber(v float64) string {
	if v < 1000 {
		return fmt.Sprintf("%.0f", v)
	}
	return strings.ReplaceAll(humanize.SIWithDigits(v, 0, ""), " ", "")
}

// ShortID returns the first eight characters of an ID.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
