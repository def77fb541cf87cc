// Package tui implements the interactive spendcraft dashboard.
package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/spendcraft/internal/cli"
	"github.com/Veraticus/spendcraft/internal/derive"
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/Veraticus/spendcraft/internal/session"
	"github.com/Veraticus/spendcraft/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Tab is one of the dashboard views.
type Tab int

// Tabs.
const (
	TabTransactions Tab = iota
	TabCategories
	TabTrend
	TabCalendar
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabTransactions:
		return "Transactions"
	case TabCategories:
		return "Categories"
	case TabTrend:
		return "Trend"
	case TabCalendar:
		return "Calendar"
	default:
		return "?"
	}
}

// periodSteps are the windows the period key cycles through. Zero is all
// time.
var periodSteps = []int{15, 30, 90, 365, 0}

// chromeHeight is the number of lines around the table.
const chromeHeight = 12

// Model holds the dashboard state. All ledger state lives in the session;
// the model only keeps what is on screen.
type Model struct {
	ctx       context.Context
	session   *session.Session
	notes     *Notifications
	renderer  cli.Renderer
	theme     themes.Theme
	keymap    KeyMap
	help      help.Model
	search    textinput.Model
	table     table.Model
	status    status
	ids       []string
	snap      derive.Snapshot
	tab       Tab
	width     int
	height    int
	searching bool
	quitting  bool
}

// newModel creates the dashboard over sess. notes must be the notifier the
// session was opened with, or nil.
func newModel(ctx context.Context, sess *session.Session, notes *Notifications, cfg Config) Model {
	search := textinput.New()
	search.Placeholder = "description or note"
	search.Prompt = "/ "
	search.CharLimit = model.MaxDescriptionLength

	renderer := cli.NewRenderer(cfg.Currency)
	renderer.Location = cfg.Location

	m := Model{
		ctx:      ctx,
		session:  sess,
		notes:    notes,
		renderer: renderer,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		search:   search,
		table:    table.New(table.WithFocused(true)),
		width:    cfg.Width,
		height:   cfg.Height,
	}
	m.setTheme(cfg.Theme)
	m.search.SetValue(sess.Query().Search)
	m.resize()
	m.refresh(sess.View())
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = status{text: "Save failed: " + msg.err.Error(), kind: statusError}
		} else {
			m.status = status{text: "Saved", kind: statusSuccess}
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	if m.tab == TabTransactions {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	q := m.session.Query()

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit, true

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()

	case key.Matches(msg, m.keymap.Search):
		m.searching = true
		m.search.CursorEnd()
		return m, m.search.Focus(), true

	case key.Matches(msg, m.keymap.CycleSort):
		q.Sort = nextSort(q.Sort)
		m.apply(q)

	case key.Matches(msg, m.keymap.CycleCategory):
		q.Category = nextCategory(q.Category)
		m.apply(q)

	case key.Matches(msg, m.keymap.CyclePeriod):
		q.PeriodDays = nextPeriod(q.PeriodDays)
		m.apply(q)

	case key.Matches(msg, m.keymap.ResetFilters):
		q.Search, q.Category, q.PeriodDays = "", "", derive.DefaultPeriodDays
		m.search.SetValue("")
		m.apply(q)

	case key.Matches(msg, m.keymap.NextTab):
		m.tab = (m.tab + 1) % tabCount

	case key.Matches(msg, m.keymap.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount

	case key.Matches(msg, m.keymap.Delete):
		if m.tab != TabTransactions {
			return m, nil, false
		}
		m.deleteSelected()

	case key.Matches(msg, m.keymap.Undo):
		if tx, ok := m.session.Undo(m.ctx); ok {
			m.status = status{text: fmt.Sprintf("Restored %q", tx.Description), kind: statusSuccess}
			m.refresh(m.session.View())
		} else {
			m.status = status{text: "Nothing to undo", kind: statusInfo}
		}

	case key.Matches(msg, m.keymap.ToggleTheme):
		prefs := m.session.State().Preferences
		prefs.Theme = model.ThemeLight
		if m.theme.Name == model.ThemeLight {
			prefs.Theme = model.ThemeDark
		}
		m.session.SetPreferences(m.ctx, prefs)
		m.setTheme(themes.For(prefs.Theme))
		m.refresh(m.session.View())

	case key.Matches(msg, m.keymap.Save):
		return m, m.saveCmd(), true

	default:
		return m, nil, false
	}

	return m, nil, true
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Accept):
		m.searching = false
		m.search.Blur()
		return m, nil

	case key.Matches(msg, m.keymap.Cancel):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		q := m.session.Query()
		q.Search = ""
		m.apply(q)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	q := m.session.Query()
	if q.Search != m.search.Value() {
		q.Search = m.search.Value()
		m.apply(q)
	}
	return m, cmd
}

func (m *Model) deleteSelected() {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.ids) {
		return
	}
	tx, ok := m.session.Delete(m.ctx, m.ids[cursor])
	if !ok {
		return
	}
	m.status = status{text: fmt.Sprintf("Deleted %q, press u to undo", tx.Description), kind: statusInfo}
	m.refresh(m.session.View())
}

func (m Model) saveCmd() tea.Cmd {
	ctx, sess := m.ctx, m.session
	return func() tea.Msg {
		return savedMsg{err: sess.Save(ctx)}
	}
}

// apply sends q to the session and shows the result.
func (m *Model) apply(q derive.Query) {
	m.refresh(m.session.SetQuery(m.ctx, q))
}

// refresh rebuilds the table from snap and picks up any budget signal or
// save failure raised while computing it.
func (m *Model) refresh(snap derive.Snapshot) {
	m.snap = snap

	rows := make([]table.Row, 0, len(snap.Filtered))
	m.ids = make([]string, 0, len(snap.Filtered))
	for _, tx := range snap.Filtered {
		rows = append(rows, m.row(tx))
		m.ids = append(m.ids, tx.ID)
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}

	if err := m.session.LastSaveError(); err != nil {
		m.status = status{text: "Save failed, changes are kept in memory: " + err.Error(), kind: statusError}
		return
	}
	if st, ok := m.notes.drain(); ok {
		m.status = st
	}
}

func (m Model) row(tx model.Transaction) table.Row {
	date := tx.Date.In(m.renderer.Location).Format("2006-01-02")
	if !tx.HasUsableDate() {
		date = "?"
	}
	repeats := ""
	if tx.Recurring != model.RecurrenceNone {
		repeats = string(tx.Recurring)
	}
	return table.Row{
		date,
		tx.Description,
		tx.Category.Icon() + " " + string(tx.Category),
		m.renderer.Money.Signed(tx.Amount),
		repeats,
	}
}

func (m *Model) setTheme(theme themes.Theme) {
	m.theme = theme
	cli.ApplyTheme(theme.Name)

	styles := table.DefaultStyles()
	styles.Header = theme.Header
	styles.Selected = theme.Selected
	m.table.SetStyles(styles)
}

func (m *Model) resize() {
	descWidth := max(m.width-10-16-14-9-12, 16)
	m.table.SetColumns([]table.Column{
		{Title: "Date", Width: 10},
		{Title: "Description", Width: descWidth},
		{Title: "Category", Width: 16},
		{Title: "Amount", Width: 14},
		{Title: "Repeats", Width: 9},
	})
	extra := 0
	if m.help.ShowAll {
		extra = 4
	}
	m.table.SetHeight(max(m.height-chromeHeight-extra, 3))
	m.table.SetWidth(m.width)
	m.help.Width = m.width
	m.search.Width = max(m.width-4, 10)
}

func nextSort(current derive.SortMode) derive.SortMode {
	modes := derive.SortModes()
	for i, mode := range modes {
		if mode == current {
			return modes[(i+1)%len(modes)]
		}
	}
	return modes[0]
}

func nextCategory(current model.Category) model.Category {
	if current == "" {
		return model.Categories()[0]
	}
	all := model.Categories()
	for i, c := range all {
		if c == current && i+1 < len(all) {
			return all[i+1]
		}
	}
	return ""
}

func nextPeriod(current int) int {
	for i, days := range periodSteps {
		if days == current {
			return periodSteps[(i+1)%len(periodSteps)]
		}
	}
	return periodSteps[0]
}
