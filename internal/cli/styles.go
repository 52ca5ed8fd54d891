// Package cli provides the plain terminal front end: styled output with
// lipgloss and prompts with survey.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette shared with the default TUI theme.
var (
	PrimaryColor  = lipgloss.Color("#7C3AED")
	SentinelColor = lipgloss.Color("#3B82F6")
	VoyagerColor  = lipgloss.Color("#F59E0B")
	SuccessColor  = lipgloss.Color("#10B981")
	WarningColor  = lipgloss.Color("#F59E0B")
	ErrorColor    = lipgloss.Color("#EF4444")
	InfoColor     = lipgloss.Color("#06B6D4")
	SubtleColor   = lipgloss.Color("#6B7280")
	BorderColor   = lipgloss.Color("#374151")
)

var (
	// TitleStyle marks step and section titles.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).MarginBottom(1)

	// SubtitleStyle is used for the projection caption and similar secondary lines.
	SubtitleStyle = lipgloss.NewStyle().Foreground(SubtleColor)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor).Italic(true)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// BoxStyle frames a strategy or scenario. RenderBox recolors the border.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	// TableHeaderStyle underlines the journal table header.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(BorderColor)

	// TableCellStyle pads journal table cells.
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons.
const (
	SuccessIcon  = "✓"
	ErrorIcon    = "✗"
	WarningIcon  = "⚠️"
	InfoIcon     = "ℹ️"
	CompassIcon  = "🧭"
	ShieldIcon   = "🛡️"
	RocketIcon   = "🚀"
	ChartIcon    = "📊"
	QuestionIcon = "💬"
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

// FormatTitle formats a title with the compass icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(CompassIcon + " " + title)
}

// RenderBox draws content under a title inside a rounded border of the given color.
func RenderBox(title, content string, border lipgloss.TerminalColor) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(border).Render(title)
	return BoxStyle.
		BorderForeground(border).
		Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}
