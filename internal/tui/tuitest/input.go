// Package tuitest drives Bubble Tea models in tests without a terminal.
package tuitest

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"backspace": tea.KeyBackspace,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"f1":        tea.KeyF1,
}

// Key builds the message for a key named the way key.Binding names it:
// "enter", "shift+tab", "ctrl+n", or a single printable character.
// It panics on names it does not know.
func Key(name string) tea.KeyMsg {
	if t, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: t}
	}
	if letter, ok := strings.CutPrefix(name, "ctrl+"); ok && len(letter) == 1 && letter[0] >= 'a' && letter[0] <= 'z' {
		// Control key types share their values with the ASCII control codes.
		return tea.KeyMsg{Type: tea.KeyType(letter[0] - 'a' + 1)}
	}
	if r := []rune(name); len(r) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: r}
	}
	panic(fmt.Sprintf("tuitest: unknown key %q", name))
}

// KeyPress types a single character.
func KeyPress(key string) tea.KeyMsg { return Key(key) }

// Shorthands for the keys the form and dashboard bind.
func KeyEnter() tea.KeyMsg     { return Key("enter") }
func KeyEsc() tea.KeyMsg       { return Key("esc") }
func KeyTab() tea.KeyMsg       { return Key("tab") }
func KeyShiftTab() tea.KeyMsg  { return Key("shift+tab") }
func KeyBackspace() tea.KeyMsg { return Key("backspace") }

// KeyCtrl builds a ctrl+letter press, e.g. KeyCtrl('n').
func KeyCtrl(r rune) tea.KeyMsg {
	return Key("ctrl+" + strings.ToLower(string(r)))
}

// WindowSize creates a resize message.
func WindowSize(width, height int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: width, Height: height}
}

// InputSequence is an ordered script of messages.
type InputSequence struct {
	inputs []tea.Msg
}

// NewInputSequence starts a script with inputs.
func NewInputSequence(inputs ...tea.Msg) *InputSequence {
	return &InputSequence{inputs: inputs}
}

// Add appends messages.
func (s *InputSequence) Add(inputs ...tea.Msg) *InputSequence {
	s.inputs = append(s.inputs, inputs...)
	return s
}

// Type appends one key press per character of text.
func (s *InputSequence) Type(text string) *InputSequence {
	for _, r := range text {
		s.inputs = append(s.inputs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return s
}

// Field types value into the focused form field and tabs to the next one.
func (s *InputSequence) Field(value string) *InputSequence {
	return s.Type(value).Add(KeyTab())
}

// Last types value into the final field of a step and presses enter.
func (s *InputSequence) Last(value string) *InputSequence {
	return s.Type(value).Add(KeyEnter())
}

// Apply feeds every input to model in order. Returned commands are dropped:
// they may block on timers or feeds the test does not control.
func (s *InputSequence) Apply(model tea.Model) tea.Model {
	for _, input := range s.inputs {
		model, _ = model.Update(input)
	}
	return model
}
