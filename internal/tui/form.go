package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Veraticus/finpilot/internal/wizard"
)

func newFieldInput(f wizard.Field, value string, width int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = f.Placeholder
	ti.CharLimit = 64
	ti.Width = width
	ti.SetValue(value)
	return ti
}
