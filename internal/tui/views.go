package tui

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/finpilot/internal/model"
	"github.com/Veraticus/finpilot/internal/session"
	"github.com/Veraticus/finpilot/internal/wizard"
)

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.screen == screenWizard {
		return m.renderWizard()
	}
	return m.renderDashboard()
}

func (m Model) renderHeader(subtitle string) string {
	title := m.theme.Title.Render("FinPilot")
	return lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", m.theme.Subtitle.Render(subtitle))
}

func (m Model) renderWizard() string {
	step := m.snap.Step
	var b strings.Builder
	b.WriteString(m.renderHeader(fmt.Sprintf("Step %d of %d · %s", step.Number(), wizard.Count, step)))
	b.WriteString("\n")
	b.WriteString(m.renderProgress())
	b.WriteString("\n\n")

	if step == wizard.StepReview {
		b.WriteString(m.renderReview())
	} else {
		b.WriteString(m.renderForm())
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.StatusWarning.Render(m.notice))
		b.WriteString("\n")
	}
	if m.snap.Plan.Status == session.StatusLoading {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " " + m.theme.StatusInfo.Render("A plan request is in flight."))
		b.WriteString("\n")
	}
	if m.config.ShowHelp {
		b.WriteString("\n")
		b.WriteString(m.help.View(wizardHelp{keys: m.keymap}))
	}
	return b.String()
}

func (m Model) renderProgress() string {
	parts := make([]string, 0, wizard.Count)
	for i := range wizard.Count {
		s := wizard.Step(i)
		switch {
		case s == m.snap.Step:
			parts = append(parts, m.theme.ActiveTab.Render(s.String()))
		case s < m.snap.Step:
			parts = append(parts, m.theme.StatusSuccess.Render("✓ "+s.String()))
		default:
			parts = append(parts, m.theme.Tab.Render(s.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m Model) renderForm() string {
	var b strings.Builder
	for i, f := range m.fields {
		if f.Goal > 0 && f.GoalField == model.GoalFieldName {
			b.WriteString("\n")
		}
		label := m.theme.FieldLabel.Render(f.Label)
		if i == m.focus {
			label = m.theme.FieldLabel.Bold(true).Foreground(m.theme.Primary).Render(f.Label)
		}
		b.WriteString(label + m.inputs[i].View())
		b.WriteString("\n")
		if i == m.focus && f.Help != "" {
			b.WriteString(m.theme.StatusPending.PaddingLeft(28).Render(f.Help))
			b.WriteString("\n")
		}
		for _, fe := range m.fieldErrors {
			if fe.Path == f.ErrorPath() {
				b.WriteString(m.theme.FieldError.Render(fe.Message))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func (m Model) renderReview() string {
	in := m.snap.Input
	var b strings.Builder

	row := func(label, value string) {
		if value == "" {
			value = m.theme.StatusPending.Render("(blank)")
		}
		b.WriteString(m.theme.FieldLabel.Render(label) + m.theme.Normal.Render(value) + "\n")
	}
	row("Name", in.Name)
	row("Age", string(in.Age))
	row("Monthly income", string(in.MonthlyIncome))
	row("Monthly expenses", string(in.MonthlyExpenses))
	row("Cash & equivalents", string(in.Assets.CashEquivalents))
	row("Equity investments", string(in.Assets.EquityInvestments))
	row("Other investments", string(in.Assets.OtherInvestments))
	row("High-interest debt", string(in.Liabilities.HighInterestDebt))
	row("Loan EMIs (monthly)", string(in.Liabilities.LoansEMI))
	for i, g := range in.Goals {
		row(fmt.Sprintf("Goal %d", i+1), fmt.Sprintf("%s · %s in %s years", g.Name, g.TargetAmount, g.TimelineYears))
	}

	req, err := in.Validate()
	b.WriteString("\n")
	if err != nil {
		b.WriteString(m.theme.StatusWarning.Render("Fix these before submitting:"))
		b.WriteString("\n")
		var fields model.FieldErrors
		if errors.As(err, &fields) {
			for _, fe := range fields {
				b.WriteString(m.theme.StatusError.Render("  • " + fe.Error()))
				b.WriteString("\n")
			}
		}
		return b.String()
	}

	b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf("Monthly surplus %s · local projection at %.0f%% a year", formatMoney(req.MonthlySurplus()), m.config.ProjectionRate*100)))
	b.WriteString("\n")
	b.WriteString(m.renderProjections(model.ProjectGoals(req, m.config.ProjectionRate)))
	b.WriteString("\n")
	b.WriteString(m.theme.Bold.Render("Press enter to generate your plans."))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderProjections(projections []model.GoalProjection) string {
	var b strings.Builder
	for _, p := range projections {
		years := "never at this surplus"
		if !math.IsInf(p.Years, 1) {
			years = fmt.Sprintf("%.1f years", p.Years)
		}
		status := m.theme.StatusSuccess.Render("on track")
		if !p.OnTrack() {
			status = m.theme.StatusWarning.Render("behind")
		}
		fmt.Fprintf(&b, "  %s %s (target %d years) %s\n", m.theme.Bold.Render(p.Name), years, p.TimelineYears, status)
	}
	return b.String()
}

func (m Model) renderDashboard() string {
	name := m.snap.Input.Name
	if name == "" {
		name = "your plan"
	}
	var b strings.Builder
	b.WriteString(m.renderHeader("Dashboard · " + name))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.tab == tabChat {
		b.WriteString(m.chatInput.View())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar())
	if m.config.ShowHelp {
		b.WriteString("\n")
		b.WriteString(m.help.View(dashboardHelp{keys: m.keymap, chat: m.tab == tabChat}))
	}
	return b.String()
}

func (m Model) renderTabs() string {
	count := len(tabNames)
	if m.config.Journal == nil {
		count--
	}
	parts := make([]string, 0, count)
	for i := range count {
		label := fmt.Sprintf("%d %s", i+1, tabNames[i])
		if tab(i) == m.tab {
			parts = append(parts, m.theme.ActiveTab.Render(label))
		} else {
			parts = append(parts, m.theme.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m Model) renderStatusBar() string {
	badge := func(label string, s session.Status) string {
		text := label + " " + s.String()
		if s == session.StatusLoading {
			text = label + " " + m.spinner.View()
		}
		return m.theme.StatusStyle(s.String()).Render(text)
	}
	parts := []string{
		badge("plan", m.snap.Plan.Status),
		badge("evaluation", m.snap.Evaluation.Status),
		badge("scenarios", m.snap.Scenarios.Status),
		badge("chat", m.snap.Chat.Status),
	}
	bar := strings.Join(parts, m.theme.StatusPending.Render(" │ "))
	if m.notice != "" {
		bar += "  " + m.theme.StatusWarning.Render(m.notice)
	}
	return bar
}

// renderTab renders the body of the active dashboard tab.
func (m Model) renderTab() string {
	if m.screen != screenDashboard {
		return ""
	}
	switch m.tab {
	case tabPlans:
		return m.renderPlans()
	case tabEvaluation:
		return m.renderEvaluation()
	case tabScenarios:
		return m.renderScenarios()
	case tabChat:
		return m.renderChat()
	case tabActivity:
		return m.renderActivity()
	default:
		return ""
	}
}

func (m Model) renderPlans() string {
	p := m.snap.Plan
	switch p.Status {
	case session.StatusLoading:
		return m.spinner.View() + " Generating your plans..."
	case session.StatusError:
		return m.theme.StatusError.Render(p.Error) + "\n\n" +
			m.theme.StatusPending.Render("Press r to try again or e to edit your profile.")
	case session.StatusIdle:
		return m.theme.StatusPending.Render("No plan yet.")
	}
	if p.Plan == nil {
		return ""
	}

	sentinel := m.renderStrategy("Sentinel · conservative", p.Plan.Sentinel)
	voyager := m.renderStrategy("Voyager · growth", p.Plan.Voyager)
	if m.width >= 100 {
		half := (m.width - 4) / 2
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.theme.RoundedBox.Width(half).Render(sentinel),
			m.theme.RoundedBox.Width(half).Render(voyager),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.RoundedBox.Render(sentinel),
		m.theme.RoundedBox.Render(voyager),
	)
}

func (m Model) renderStrategy(title string, s model.Strategy) string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(title))
	b.WriteString("\n")
	if s.Summary != "" {
		b.WriteString(m.theme.Italic.Render(s.Summary))
		b.WriteString("\n")
	}
	if len(s.AssetAllocation) > 0 {
		b.WriteString("\n" + m.theme.Bold.Render("Allocation") + "\n")
		for _, k := range s.AllocationKeys() {
			fmt.Fprintf(&b, "  %-14s %s\n", k, s.AssetAllocation[k])
		}
	}
	if len(s.GoalTimelines) > 0 {
		b.WriteString("\n" + m.theme.Bold.Render("Goal timelines") + "\n")
		for _, k := range sortedKeys(s.GoalTimelines) {
			fmt.Fprintf(&b, "  %-14s %s years\n", k, s.GoalTimelines[k])
		}
	}
	if len(s.Recommendations) > 0 {
		b.WriteString("\n" + m.theme.Bold.Render("Recommendations") + "\n")
		for _, r := range s.Recommendations {
			b.WriteString("  • " + r + "\n")
		}
	}
	return b.String()
}

func (m Model) renderEvaluation() string {
	ev := m.snap.Evaluation
	if ev.Result == nil {
		if ev.Status == session.StatusLoading {
			return m.spinner.View() + " Reviewing your plans..."
		}
		return m.theme.StatusPending.Render("The evaluation starts once a plan is ready.")
	}
	if ev.Result.Failed() {
		return m.theme.StatusError.Render(ev.Result.Error)
	}
	out := m.renderMarkdown(ev.Result.Markdown())
	if ev.Status == session.StatusLoading {
		out = m.spinner.View() + " Re-evaluating...\n" + out
	}
	return out
}

func (m Model) renderScenarios() string {
	sc := m.snap.Scenarios
	var b strings.Builder
	switch sc.Status {
	case session.StatusIdle:
		b.WriteString(m.theme.StatusPending.Render("Press s to simulate optimistic, neutral and pessimistic outlooks."))
		b.WriteString("\n")
	case session.StatusLoading:
		b.WriteString(m.spinner.View() + " Simulating scenarios...\n")
	case session.StatusError:
		b.WriteString(m.theme.StatusError.Render(sc.Error) + "\n")
	case session.StatusSuccess:
		for _, s := range sc.Scenarios {
			b.WriteString(m.theme.Title.Render(s.Name) + "\n")
			fmt.Fprintf(&b, "  equities %.1f%% · bonds %.1f%% · inflation %.1f%%\n",
				s.Parameters.AvgEquityReturn, s.Parameters.AvgBondReturn, s.Parameters.AvgInflation)
			if s.Narrative != "" {
				b.WriteString("  " + m.theme.Italic.Render(s.Narrative) + "\n")
			}
			for _, g := range s.GoalNames() {
				fmt.Fprintf(&b, "  %-14s %s years\n", g, s.ProjectedTimelines[g])
			}
			b.WriteString("\n")
		}
	}

	if req := m.snap.Plan.Request; req != nil {
		b.WriteString("\n")
		b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf("Local projection at %.0f%% a year", m.config.ProjectionRate*100)))
		b.WriteString("\n")
		b.WriteString(m.renderProjections(model.ProjectGoals(req, m.config.ProjectionRate)))
	}
	return b.String()
}

func (m Model) renderChat() string {
	c := m.snap.Chat
	var b strings.Builder
	if len(c.History) == 0 && c.Pending == "" {
		b.WriteString(m.theme.StatusPending.Render("Ask anything about your plans."))
		b.WriteString("\n")
	}
	for _, msg := range c.History {
		if msg.Role == model.RoleUser {
			b.WriteString(m.theme.Bold.Render("You: ") + msg.Content + "\n")
			continue
		}
		b.WriteString(m.renderMarkdown(msg.Content))
	}
	if c.Pending != "" {
		b.WriteString(m.theme.Bold.Render("You: ") + c.Pending + "\n")
		b.WriteString(m.spinner.View() + " Thinking...\n")
	}
	if c.Status == session.StatusError {
		b.WriteString(m.theme.StatusError.Render(c.Error) + "\n")
	}
	return b.String()
}

func (m Model) renderActivity() string {
	if len(m.stats) == 0 {
		return m.theme.StatusPending.Render("No remote calls yet.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %6s %9s %10s\n", "operation", "calls", "failures", "avg")
	for _, s := range m.stats {
		fmt.Fprintf(&b, "%-12s %6d %9d %10s\n", s.Operation, s.Calls, s.Failures, s.AvgDuration.Round(time.Millisecond))
	}
	return b.String()
}

func formatMoney(v float64) string {
	neg := v < 0
	s := fmt.Sprintf("%.0f", math.Abs(v))
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
