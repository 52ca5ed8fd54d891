package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Form navigation
	NextField key.Binding
	PrevField key.Binding
	NextStep  key.Binding
	PrevStep  key.Binding
	AddGoal   key.Binding

	// Dashboard
	NextTab  key.Binding
	PrevTab  key.Binding
	Tab1     key.Binding
	Tab2     key.Binding
	Tab3     key.Binding
	Tab4     key.Binding
	Tab5     key.Binding
	ScrollUp key.Binding
	ScrollDn key.Binding
	Simulate key.Binding
	Resubmit key.Binding
	Edit     key.Binding
	Ask      key.Binding

	// Application
	Reset      key.Binding
	ToggleHelp key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "previous field"),
		),
		NextStep: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
		PrevStep: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		AddGoal: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "add goal"),
		),

		NextTab: key.NewBinding(
			key.WithKeys("tab", "right"),
			key.WithHelp("tab/→", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left"),
			key.WithHelp("shift+tab/←", "previous tab"),
		),
		Tab1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "plans")),
		Tab2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "evaluation")),
		Tab3: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "scenarios")),
		Tab4: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "chat")),
		Tab5: key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "activity")),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "k", "pgup"),
			key.WithHelp("↑/k", "scroll up"),
		),
		ScrollDn: key.NewBinding(
			key.WithKeys("down", "j", "pgdown"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Simulate: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "simulate scenarios"),
		),
		Resubmit: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resubmit"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "esc"),
			key.WithHelp("e/esc", "edit profile"),
		),
		Ask: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ask"),
		),

		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "start over"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// wizardHelp exposes the bindings that apply while filling in the form.
type wizardHelp struct {
	keys KeyMap
}

func (h wizardHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.NextStep, h.keys.PrevStep, h.keys.NextField, h.keys.AddGoal, h.keys.ForceQuit}
}

func (h wizardHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.keys.NextField, h.keys.PrevField, h.keys.NextStep, h.keys.PrevStep},
		{h.keys.AddGoal, h.keys.Reset, h.keys.ToggleHelp, h.keys.ForceQuit},
	}
}

// dashboardHelp exposes the bindings that apply once a plan has been requested.
type dashboardHelp struct {
	keys KeyMap
	chat bool
}

func (h dashboardHelp) ShortHelp() []key.Binding {
	if h.chat {
		return []key.Binding{h.keys.Ask, h.keys.NextTab, h.keys.ForceQuit}
	}
	return []key.Binding{h.keys.NextTab, h.keys.Simulate, h.keys.Edit, h.keys.Quit}
}

func (h dashboardHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.keys.NextTab, h.keys.PrevTab, h.keys.Tab1, h.keys.Tab2, h.keys.Tab3, h.keys.Tab4, h.keys.Tab5},
		{h.keys.ScrollUp, h.keys.ScrollDn, h.keys.Simulate, h.keys.Resubmit, h.keys.Edit},
		{h.keys.Ask, h.keys.Reset, h.keys.ToggleHelp, h.keys.Quit, h.keys.ForceQuit},
	}
}
