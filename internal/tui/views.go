package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/spendcraft/internal/derive"
	"github.com/charmbracelet/lipgloss"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderSummary(),
		m.renderFilters(),
		m.renderBody(),
	}
	if m.searching {
		sections = append(sections, m.search.View())
	}
	sections = append(sections, m.renderStatus(), m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("💸 spendcraft")

	tabs := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		style := m.theme.Tab
		if t == m.tab {
			style = m.theme.ActiveTab
		}
		tabs = append(tabs, style.Render(t.String()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderSummary() string {
	t := m.snap.Totals
	money := m.renderer.Money

	balance := m.theme.Income.Render(money.Decimal(t.Balance))
	if t.Balance.IsNegative() {
		balance = m.theme.Expense.Render(money.Decimal(t.Balance))
	}

	line := fmt.Sprintf("Income %s   Expenses %s   Balance %s",
		m.theme.Income.Render(money.Decimal(t.Income)),
		m.theme.Expense.Render(money.Decimal(t.Expense)),
		balance,
	)
	gauge := m.renderer.Gauge(t.Expense, m.snap.Budget, m.snap.UsagePercent)

	return m.theme.RoundedBox.Width(max(m.width-2, 20)).Render(line + "\n" + gauge)
}

func (m Model) renderFilters() string {
	q := m.snap.Query

	category := "All"
	if q.Category != "" {
		category = string(q.Category)
	}
	period := "All time"
	if q.PeriodDays > 0 {
		period = fmt.Sprintf("Last %d days", q.PeriodDays)
	}

	parts := []string{
		"Sort: " + string(q.Sort),
		"Category: " + category,
		"Period: " + period,
		fmt.Sprintf("Showing %d of %d", len(m.snap.Filtered), m.snap.Total),
	}
	if q.Search != "" && !m.searching {
		parts = append(parts, fmt.Sprintf("Search: %q", q.Search))
	}
	return m.theme.Subtitle.Render(strings.Join(parts, " · "))
}

func (m Model) renderBody() string {
	switch m.tab {
	case TabCategories:
		return m.renderer.Categories(m.snap.Categories)
	case TabTrend:
		return m.renderer.Trend(m.snap.Monthly)
	case TabCalendar:
		return m.renderCalendar()
	default:
		if len(m.snap.Filtered) == 0 {
			return m.theme.Subtitle.Render(emptyMessage(m.snap))
		}
		return m.table.View()
	}
}

func (m Model) renderCalendar() string {
	now := m.snap.Query.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.In(m.renderer.Location)

	days := derive.DailyTotals(m.snap.Filtered, now.Year(), now.Month(), m.renderer.Location)
	return m.renderer.Calendar(days, now.Year(), now.Month())
}

func (m Model) renderStatus() string {
	if m.status.text == "" {
		return ""
	}
	style := m.theme.StatusInfo
	switch m.status.kind {
	case statusSuccess:
		style = m.theme.StatusSuccess
	case statusWarning:
		style = m.theme.StatusWarning
	case statusError:
		style = m.theme.StatusError
	}
	return style.Render(m.status.text)
}

func emptyMessage(snap derive.Snapshot) string {
	if snap.Total == 0 {
		return "No transactions yet. Add one with: spendcraft add"
	}
	return "No transactions match the current filters. Press r to reset."
}
