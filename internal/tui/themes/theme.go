// Package themes holds the dashboard color themes.
package themes

import (
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style of the dashboard.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Income        lipgloss.Style
	Expense       lipgloss.Style
	Selected      lipgloss.Style
	Header        lipgloss.Style
	RoundedBox    lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Name          model.Theme
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Success       lipgloss.Color
	Warning       lipgloss.Color
	Error         lipgloss.Color
	Info          lipgloss.Color
}

type palette struct {
	primary, muted, border, foreground lipgloss.Color
	success, warning, errorColor, info lipgloss.Color
	selectedFg                         lipgloss.Color
}

func build(name model.Theme, p palette) Theme {
	return Theme{
		Name:       name,
		Primary:    p.primary,
		Muted:      p.muted,
		Border:     p.border,
		Foreground: p.foreground,
		Success:    p.success,
		Warning:    p.warning,
		Error:      p.errorColor,
		Info:       p.info,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.muted),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Income: lipgloss.NewStyle().
			Foreground(p.success),
		Expense: lipgloss.NewStyle().
			Foreground(p.errorColor),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.selectedFg).
			Bold(true),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			BorderBottom(true),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		Tab: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			Underline(true).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.errorColor).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(p.info),
	}
}

// Dark is the default theme.
var Dark = build(model.ThemeDark, palette{
	primary:    lipgloss.Color("#7c3aed"),
	muted:      lipgloss.Color("#737373"),
	border:     lipgloss.Color("#404040"),
	foreground: lipgloss.Color("#fafafa"),
	success:    lipgloss.Color("#10b981"),
	warning:    lipgloss.Color("#f59e0b"),
	errorColor: lipgloss.Color("#ef4444"),
	info:       lipgloss.Color("#3b82f6"),
	selectedFg: lipgloss.Color("#fafafa"),
})

// Light suits terminals with a light background.
var Light = build(model.ThemeLight, palette{
	primary:    lipgloss.Color("#6d28d9"),
	muted:      lipgloss.Color("#6b7280"),
	border:     lipgloss.Color("#d4d4d4"),
	foreground: lipgloss.Color("#171717"),
	success:    lipgloss.Color("#047857"),
	warning:    lipgloss.Color("#b45309"),
	errorColor: lipgloss.Color("#b91c1c"),
	info:       lipgloss.Color("#1d4ed8"),
	selectedFg: lipgloss.Color("#ffffff"),
})

// For returns the theme matching a stored preference.
func For(name model.Theme) Theme {
	if name == model.ThemeLight {
		return Light
	}
	return Dark
}
