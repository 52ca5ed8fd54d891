// Package themes holds the color themes of the planning interface.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Italic        lipgloss.Style
	RoundedBox    lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	FieldLabel    lipgloss.Style
	FieldError    lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
	// GlamourStyle names the glamour style used for evaluation and chat text.
	GlamourStyle string
}

// palette is the handful of colors a theme is derived from.
type palette struct {
	primary, accent       lipgloss.Color
	success, warning, bad lipgloss.Color
	info, muted, subtle   lipgloss.Color
	text, base, border    lipgloss.Color
	glamour               string
}

// labelWidth aligns form inputs and their error lines.
const labelWidth = 28

func newTheme(p palette) Theme {
	bold := lipgloss.NewStyle().Bold(true)
	return Theme{
		Primary:      p.primary,
		GlamourStyle: p.glamour,

		Title:    bold.Foreground(p.text).MarginBottom(1),
		Subtitle: lipgloss.NewStyle().Foreground(p.subtle).MarginBottom(1),
		Normal:   lipgloss.NewStyle().Foreground(p.text),
		Bold:     bold.Foreground(p.text),
		Italic:   lipgloss.NewStyle().Italic(true).Foreground(p.subtle),

		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(1, 2),
		Tab:       lipgloss.NewStyle().Foreground(p.muted).Padding(0, 2),
		ActiveTab: bold.Foreground(p.base).Background(p.primary).Padding(0, 2),

		FieldLabel: lipgloss.NewStyle().Foreground(p.accent).Width(labelWidth),
		FieldError: lipgloss.NewStyle().Foreground(p.bad).PaddingLeft(labelWidth),

		StatusSuccess: bold.Foreground(p.success),
		StatusWarning: bold.Foreground(p.warning),
		StatusError:   bold.Foreground(p.bad),
		StatusInfo:    bold.Foreground(p.info),
		StatusPending: lipgloss.NewStyle().Foreground(p.muted),
	}
}

// Default is the default theme.
var Default = newTheme(palette{
	primary: "#7c3aed",
	accent:  "#a78bfa",
	success: "#10b981",
	warning: "#f59e0b",
	bad:     "#ef4444",
	info:    "#3b82f6",
	muted:   "#737373",
	subtle:  "#a3a3a3",
	text:    "#fafafa",
	base:    "#1a1a1a",
	border:  "#404040",
	glamour: "dark",
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary: "#cba6f7",
	accent:  "#f5c2e7",
	success: "#a6e3a1",
	warning: "#f9e2af",
	bad:     "#f38ba8",
	info:    "#89dceb",
	muted:   "#6c7086",
	subtle:  "#a6adc8",
	text:    "#cdd6f4",
	base:    "#1e1e2e",
	border:  "#45475a",
	glamour: "dark",
})

// GetTheme returns a theme by name. Unknown names get the default theme.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// StatusStyle returns the style for a request status label.
func (t Theme) StatusStyle(status string) lipgloss.Style {
	switch status {
	case "success":
		return t.StatusSuccess
	case "error":
		return t.StatusError
	case "loading":
		return t.StatusInfo
	default:
		return t.StatusPending
	}
}
