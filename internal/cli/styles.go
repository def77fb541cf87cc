// Package cli renders spendcraft output for the terminal using lipgloss.
package cli

import (
	"github.com/Veraticus/spendcraft/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Palette is a set of colors for one theme.
type Palette struct {
	Primary lipgloss.Color
	Income  lipgloss.Color
	Expense lipgloss.Color
	Warning lipgloss.Color
	Info    lipgloss.Color
	Subtle  lipgloss.Color
	Border  lipgloss.Color
}

// Palettes.
var (
	DarkPalette = Palette{
		Primary: lipgloss.Color("#7C5CFF"),
		Income:  lipgloss.Color("#4ECDC4"),
		Expense: lipgloss.Color("#FF6B6B"),
		Warning: lipgloss.Color("#FFE66D"),
		Info:    lipgloss.Color("#95E1D3"),
		Subtle:  lipgloss.Color("#666666"),
		Border:  lipgloss.Color("#333333"),
	}
	LightPalette = Palette{
		Primary: lipgloss.Color("#5B3CC4"),
		Income:  lipgloss.Color("#0F8B7F"),
		Expense: lipgloss.Color("#C62828"),
		Warning: lipgloss.Color("#B26A00"),
		Info:    lipgloss.Color("#1565C0"),
		Subtle:  lipgloss.Color("#8A8A8A"),
		Border:  lipgloss.Color("#CCCCCC"),
	}
)

var (
	// ActivePalette is the palette the styles were last built from.
	ActivePalette = DarkPalette

	// TitleStyle is used for section titles.
	TitleStyle lipgloss.Style
	// SubtleStyle formats less prominent text.
	SubtleStyle lipgloss.Style
	// SuccessStyle formats success messages and income.
	SuccessStyle lipgloss.Style
	// WarningStyle formats warning messages.
	WarningStyle lipgloss.Style
	// ErrorStyle formats error messages and expenses.
	ErrorStyle lipgloss.Style
	// InfoStyle formats informational messages.
	InfoStyle lipgloss.Style
	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().Bold(true)
	// BoxStyle is used for bordered content boxes.
	BoxStyle lipgloss.Style
	// TableHeaderStyle is used for table headers.
	TableHeaderStyle lipgloss.Style
)

func init() {
	UsePalette(DarkPalette)
}

// UsePalette rebuilds every style from p.
func UsePalette(p Palette) {
	ActivePalette = p
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Primary).MarginBottom(1)
	SubtleStyle = lipgloss.NewStyle().Foreground(p.Subtle)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Income)
	WarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Expense)
	InfoStyle = lipgloss.NewStyle().Foreground(p.Info)
	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(1, 2)
	TableHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)
}

// ApplyTheme selects the palette for a stored theme preference.
func ApplyTheme(theme model.Theme) {
	if theme == model.ThemeLight {
		UsePalette(LightPalette)
		return
	}
	UsePalette(DarkPalette)
}

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	WalletIcon  = "💸"
	ChartIcon   = "📊"
	FolderIcon  = "🗄️"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the wallet icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(WalletIcon + " " + title)
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}
