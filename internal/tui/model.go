package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/Veraticus/finpilot/internal/common"
	"github.com/Veraticus/finpilot/internal/journal"
	"github.com/Veraticus/finpilot/internal/model"
	"github.com/Veraticus/finpilot/internal/session"
	"github.com/Veraticus/finpilot/internal/tui/themes"
	"github.com/Veraticus/finpilot/internal/wizard"
)

// screen is the top-level view.
type screen int

const (
	screenWizard screen = iota
	screenDashboard
)

// tab is a dashboard panel.
type tab int

const (
	tabPlans tab = iota
	tabEvaluation
	tabScenarios
	tabChat
	tabActivity
)

var tabNames = []string{"Plans", "Evaluation", "Scenarios", "Chat", "Activity"}

// chrome is the number of dashboard lines outside the viewport.
const chrome = 8

// Model holds the main TUI state. All session reads go through state; the
// snapshot is refreshed after every mutation and every feed wake.
type Model struct {
	ctx         context.Context
	state       *session.State
	feed        *Feed
	markdown    *glamour.TermRenderer
	rendered    map[string]string
	err         error
	theme       themes.Theme
	keymap      KeyMap
	config      Config
	help        help.Model
	spinner     spinner.Model
	viewport    viewport.Model
	chatInput   textinput.Model
	inputs      []textinput.Model
	fields      []wizard.Field
	stats       []journal.OperationStats
	fieldErrors model.FieldErrors
	snap        session.Snapshot
	notice      string
	formStep    wizard.Step
	formGoals   int
	focus       int
	width       int
	height      int
	screen      screen
	tab         tab
	quitting    bool
}

// newModel creates a model bound to state. feed may be nil in tests that
// drive the model by hand.
func newModel(ctx context.Context, state *session.State, feed *Feed, cfg Config) (Model, error) {
	style := cfg.GlamourStyle
	if style == "" {
		style = cfg.Theme.GlamourStyle
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(cfg.MarkdownWrap),
	)
	if err != nil {
		return Model{}, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = cfg.Theme.StatusInfo

	chat := textinput.New()
	chat.Prompt = "ask › "
	chat.Placeholder = "Why is the growth plan so heavy on equities?"
	chat.CharLimit = 500

	h := help.New()
	h.ShowAll = false

	m := Model{
		ctx:       ctx,
		state:     state,
		feed:      feed,
		markdown:  renderer,
		rendered:  make(map[string]string),
		theme:     cfg.Theme,
		keymap:    DefaultKeyMap(),
		config:    cfg,
		help:      h,
		spinner:   sp,
		viewport:  viewport.New(cfg.Width, max(cfg.Height-chrome, 3)),
		chatInput: chat,
		width:     cfg.Width,
		height:    cfg.Height,
	}
	m.snap = state.Snapshot()
	m.rebuildForm()
	if m.snap.Plan.Status != session.StatusIdle {
		m.screen = screenDashboard
	}
	m.refreshViewport()
	return m, nil
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.feed != nil {
		cmds = append(cmds, m.feed.wait(m.ctx))
	}
	if m.config.Journal != nil {
		cmds = append(cmds, m.loadStats(), m.scheduleRefresh())
	}
	return tea.Batch(cmds...)
}

// Err returns the error that stopped the program, if any.
func (m Model) Err() error {
	return m.err
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)
		return m, nil

	case changedMsg:
		m.sync()
		// The evaluation trigger is edge-free, so it is safe to offer on every change.
		m.state.Reconcile()
		cmds := []tea.Cmd{m.loadStats()}
		if m.feed != nil {
			cmds = append(cmds, m.feed.wait(m.ctx))
		}
		return m, tea.Batch(cmds...)

	case feedClosedMsg:
		return m, nil

	case statsMsg:
		if msg.err == nil {
			m.stats = msg.stats
			m.refreshViewport()
		}
		return m, nil

	case refreshMsg:
		return m, tea.Batch(m.loadStats(), m.scheduleRefresh())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.busy() {
			m.refreshViewport()
		}
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if key.Matches(msg, m.keymap.ToggleHelp) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if key.Matches(msg, m.keymap.Reset) {
			m.state.Reset()
			m.screen = screenWizard
			m.fieldErrors = nil
			m.notice = "Started over."
			m.chatInput.Reset()
			m.sync()
			return m, m.focusField(0)
		}
		if m.screen == screenWizard {
			return m.updateWizard(msg)
		}
		return m.updateDashboard(msg)
	}

	// Cursor blink and other input messages.
	var cmd tea.Cmd
	if m.screen == screenDashboard && m.tab == tabChat {
		m.chatInput, cmd = m.chatInput.Update(msg)
	} else if m.focus < len(m.inputs) {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func (m Model) updateWizard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.NextStep):
		err := m.state.Next(m.ctx)
		if cmd := m.handleSessionErr(err); cmd != nil {
			return m, cmd
		}
		prev := m.snap.Step
		m.sync()
		if err == nil && prev == wizard.StepReview {
			m.screen = screenDashboard
			m.tab = tabPlans
			m.refreshViewport()
			return m, m.spinner.Tick
		}
		return m, m.focusField(0)

	case key.Matches(msg, m.keymap.PrevStep):
		m.state.Previous()
		m.fieldErrors = nil
		m.notice = ""
		m.sync()
		return m, m.focusField(0)

	case key.Matches(msg, m.keymap.AddGoal) && m.snap.Step == wizard.StepGoals:
		idx := m.state.AddGoal()
		m.sync()
		return m, m.focusField(idx * wizard.FieldsPerGoal)

	case key.Matches(msg, m.keymap.NextField):
		return m, m.focusField(m.focus + 1)

	case key.Matches(msg, m.keymap.PrevField):
		return m, m.focusField(m.focus - 1)
	}

	if m.focus >= len(m.inputs) {
		return m, nil
	}
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		f := m.fields[m.focus]
		err := m.state.UpdateInput(func(in *model.Input) error {
			return f.Apply(in, after)
		})
		if err != nil {
			m.err = err
			m.quitting = true
			return m, tea.Quit
		}
		m.snap = m.state.Snapshot()
	}
	return m, cmd
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tab == tabChat {
		switch msg.Type {
		case tea.KeyTab:
			m.switchTab(m.tab + 1)
			return m, nil
		case tea.KeyShiftTab:
			m.switchTab(m.tab - 1)
			return m, nil
		case tea.KeyEsc:
			m.switchTab(tabPlans)
			return m, nil
		case tea.KeyEnter:
			err := m.state.Ask(m.ctx, m.chatInput.Value())
			if cmd := m.handleSessionErr(err); cmd != nil {
				return m, cmd
			}
			if err == nil {
				m.chatInput.Reset()
				m.notice = ""
			}
			m.sync()
			return m, nil
		}
		var cmd tea.Cmd
		m.chatInput, cmd = m.chatInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.NextTab):
		m.switchTab(m.tab + 1)
	case key.Matches(msg, m.keymap.PrevTab):
		m.switchTab(m.tab - 1)
	case key.Matches(msg, m.keymap.Tab1):
		m.switchTab(tabPlans)
	case key.Matches(msg, m.keymap.Tab2):
		m.switchTab(tabEvaluation)
	case key.Matches(msg, m.keymap.Tab3):
		m.switchTab(tabScenarios)
	case key.Matches(msg, m.keymap.Tab4):
		m.switchTab(tabChat)
		return m, m.chatInput.Focus()
	case key.Matches(msg, m.keymap.Tab5):
		m.switchTab(tabActivity)
		return m, m.loadStats()
	case key.Matches(msg, m.keymap.Simulate):
		err := m.state.Simulate(m.ctx)
		if cmd := m.handleSessionErr(err); cmd != nil {
			return m, cmd
		}
		if err == nil {
			m.notice = ""
			m.switchTab(tabScenarios)
		}
		m.sync()
	case key.Matches(msg, m.keymap.Resubmit):
		err := m.state.Submit(m.ctx)
		if cmd := m.handleSessionErr(err); cmd != nil {
			return m, cmd
		}
		if err == nil {
			m.notice = ""
			m.switchTab(tabPlans)
		}
		m.sync()
	case key.Matches(msg, m.keymap.Edit):
		m.screen = screenWizard
		m.notice = ""
		return m, m.focusField(0)
	case key.Matches(msg, m.keymap.ScrollUp), key.Matches(msg, m.keymap.ScrollDn):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleSessionErr turns a rejected session call into a notice. Programming
// errors stop the program and are returned from Run.
func (m *Model) handleSessionErr(err error) tea.Cmd {
	m.fieldErrors = nil
	if err == nil {
		return nil
	}
	var ve *wizard.ValidationError
	switch {
	case errors.As(err, &ve):
		m.fieldErrors = ve.Fields
		m.notice = fmt.Sprintf("%s needs attention: %d field(s) to fix.", ve.Step, len(ve.Fields))
	case common.IsProgramming(err):
		m.err = err
		m.quitting = true
		return tea.Quit
	case errors.Is(err, session.ErrClosed):
		m.quitting = true
		return tea.Quit
	default:
		m.notice = common.UserMessage(err)
	}
	return nil
}

// sync re-reads the session and rebuilds the form when its shape changed.
func (m *Model) sync() {
	m.snap = m.state.Snapshot()
	if m.snap.Step != m.formStep || len(m.snap.Input.Goals) != m.formGoals || m.inputs == nil {
		m.rebuildForm()
	}
	m.refreshViewport()
}

// rebuildForm recreates the inputs for the active step from the session's
// current values. Inputs are only rebuilt when the form's shape changes, so
// typing is never overwritten.
func (m *Model) rebuildForm() {
	m.formStep = m.snap.Step
	m.formGoals = len(m.snap.Input.Goals)
	m.fields = wizard.Fields(m.snap.Step, m.snap.Input)
	m.inputs = make([]textinput.Model, len(m.fields))
	for i, f := range m.fields {
		value, _ := f.Value(m.snap.Input)
		m.inputs[i] = newFieldInput(f, value, max(m.width-34, 12))
	}
	if m.focus >= len(m.inputs) {
		m.focus = 0
	}
	if len(m.inputs) > 0 {
		m.inputs[m.focus].Focus()
	}
}

// focusField moves focus to index, wrapping around the form.
func (m *Model) focusField(index int) tea.Cmd {
	if len(m.inputs) == 0 {
		m.focus = 0
		return nil
	}
	index = (index%len(m.inputs) + len(m.inputs)) % len(m.inputs)
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = index
	return m.inputs[index].Focus()
}

func (m *Model) switchTab(t tab) {
	count := tab(len(tabNames))
	if m.config.Journal == nil {
		count--
	}
	t = (t%count + count) % count
	if m.tab == tabChat && t != tabChat {
		m.chatInput.Blur()
	}
	if t == tabChat {
		m.chatInput.Focus()
	}
	m.tab = t
	m.viewport.GotoTop()
	m.refreshViewport()
}

func (m *Model) handleResize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-chrome, 3)
	m.help.Width = width
	for i := range m.inputs {
		m.inputs[i].Width = max(width-34, 12)
	}
	m.chatInput.Width = max(width-10, 12)
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderTab())
}

// busy reports whether any request is outstanding.
func (m Model) busy() bool {
	return m.snap.Plan.Status == session.StatusLoading ||
		m.snap.Evaluation.Status == session.StatusLoading ||
		m.snap.Scenarios.Status == session.StatusLoading ||
		m.snap.Chat.Status == session.StatusLoading
}

func (m Model) loadStats() tea.Cmd {
	j := m.config.Journal
	if j == nil {
		return nil
	}
	ctx, sessionID := m.ctx, m.snap.SessionID
	return func() tea.Msg {
		stats, err := j.Stats(ctx, sessionID)
		return statsMsg{stats: stats, err: err}
	}
}

func (m Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.config.RefreshInterval, func(_ time.Time) tea.Msg {
		return refreshMsg{}
	})
}

// renderMarkdown renders md with glamour, caching by source text.
func (m Model) renderMarkdown(md string) string {
	if out, ok := m.rendered[md]; ok {
		return out
	}
	out, err := m.markdown.Render(md)
	if err != nil {
		out = md
	}
	m.rendered[md] = out
	return out
}
