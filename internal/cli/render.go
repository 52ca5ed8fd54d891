package cli

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/Veraticus/finpilot/internal/journal"
	"github.com/Veraticus/finpilot/internal/model"
)

// Renderer prints plans, evaluations and scenarios as styled text.
type Renderer struct {
	out      io.Writer
	markdown *glamour.TermRenderer
	rate     float64
}

// NewRenderer returns a renderer writing to out. style is a glamour standard
// style name such as "dark", "light" or "ascii"; rate is the annual return used
// for local goal projections.
func NewRenderer(out io.Writer, style string, rate float64) (*Renderer, error) {
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{out: out, markdown: md, rate: rate}, nil
}

func (r *Renderer) print(s string) {
	// Terminal output; a failed write has nowhere better to go.
	_, _ = io.WriteString(r.out, s)
}

func (r *Renderer) printMarkdown(md string) {
	out, err := r.markdown.Render(md)
	if err != nil {
		out = md + "\n"
	}
	r.print(out)
}

// Plan prints both strategies.
func (r *Renderer) Plan(plan *model.GeneratedPlan) {
	if plan == nil {
		return
	}
	r.print(RenderBox(ShieldIcon+" Sentinel · conservative", strategyText(plan.Sentinel), SentinelColor) + "\n")
	r.print(RenderBox(RocketIcon+" Voyager · growth", strategyText(plan.Voyager), VoyagerColor) + "\n")
}

func strategyText(s model.Strategy) string {
	var b strings.Builder
	if s.Summary != "" {
		b.WriteString(s.Summary + "\n")
	}
	if len(s.AssetAllocation) > 0 {
		b.WriteString("\n" + BoldStyle.Render("Allocation") + "\n")
		for _, k := range s.AllocationKeys() {
			fmt.Fprintf(&b, "  %-14s %s\n", k, s.AssetAllocation[k])
		}
	}
	if len(s.GoalTimelines) > 0 {
		b.WriteString("\n" + BoldStyle.Render("Goal timelines") + "\n")
		keys := make([]string, 0, len(s.GoalTimelines))
		for k := range s.GoalTimelines {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %-14s %s years\n", k, s.GoalTimelines[k])
		}
	}
	if len(s.Recommendations) > 0 {
		b.WriteString("\n" + BoldStyle.Render("Recommendations") + "\n")
		for _, rec := range s.Recommendations {
			b.WriteString("  • " + rec + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Evaluation prints an evaluation result, or its failure.
func (r *Renderer) Evaluation(ev *model.EvaluationResult) {
	if ev == nil {
		return
	}
	if ev.Failed() {
		r.print(FormatError("Evaluation failed: "+ev.Error) + "\n")
		return
	}
	r.print(FormatTitle("Evaluation") + "\n")
	r.printMarkdown(ev.Markdown())
}

// Scenarios prints simulated outlooks.
func (r *Renderer) Scenarios(scenarios []model.Scenario) {
	r.print(FormatTitle("Scenarios") + "\n")
	for _, s := range scenarios {
		var b strings.Builder
		fmt.Fprintf(&b, "equities %.1f%% · bonds %.1f%% · inflation %.1f%%\n",
			s.Parameters.AvgEquityReturn, s.Parameters.AvgBondReturn, s.Parameters.AvgInflation)
		if s.Narrative != "" {
			b.WriteString(SubtleStyle.Render(s.Narrative) + "\n")
		}
		for _, g := range s.GoalNames() {
			fmt.Fprintf(&b, "  %-14s %s years\n", g, s.ProjectedTimelines[g])
		}
		r.print(RenderBox(ChartIcon+" "+s.Name, strings.TrimRight(b.String(), "\n"), InfoColor) + "\n")
	}
}

// Projections prints the local goal estimates for req.
func (r *Renderer) Projections(req *model.PlanRequest) {
	if req == nil {
		return
	}
	r.print(SubtitleStyle.Render(fmt.Sprintf("Local projection at %.0f%% a year, monthly surplus %.0f", r.rate*100, req.MonthlySurplus())) + "\n")
	for _, p := range model.ProjectGoals(req, r.rate) {
		years := "never at this surplus"
		if !math.IsInf(p.Years, 1) {
			years = fmt.Sprintf("%.1f years", p.Years)
		}
		status := FormatSuccess("on track")
		if !p.OnTrack() {
			status = FormatWarning("behind")
		}
		r.print(fmt.Sprintf("  %s: %s (target %d years) %s\n", BoldStyle.Render(p.Name), years, p.TimelineYears, status))
	}
}

// Answer prints a chat answer.
func (r *Renderer) Answer(text string) {
	r.print(InfoStyle.Render(QuestionIcon+" FinPilot") + "\n")
	r.printMarkdown(text)
}

// FieldErrors prints validation failures.
func (r *Renderer) FieldErrors(errs model.FieldErrors) {
	for _, fe := range errs {
		r.print(FormatError(fe.Error()) + "\n")
	}
}

// Stats prints the journal summary for a session.
func (r *Renderer) Stats(stats []journal.OperationStats) {
	if len(stats) == 0 {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s %s\n",
		TableHeaderStyle.Render(fmt.Sprintf("%-10s", "operation")),
		TableHeaderStyle.Render(fmt.Sprintf("%6s", "calls")),
		TableHeaderStyle.Render(fmt.Sprintf("%9s", "failures")),
		TableHeaderStyle.Render(fmt.Sprintf("%10s", "avg")))
	for _, s := range stats {
		fmt.Fprintf(&b, "%s%s%s%s\n",
			TableCellStyle.Render(fmt.Sprintf("%-10s", s.Operation)),
			TableCellStyle.Render(fmt.Sprintf("%6d", s.Calls)),
			TableCellStyle.Render(fmt.Sprintf("%9d", s.Failures)),
			TableCellStyle.Render(fmt.Sprintf("%10s", s.AvgDuration.Round(time.Millisecond))))
	}
	r.print(b.String())
}

// Message prints a plain line.
func (r *Renderer) Message(s string) {
	r.print(s + "\n")
}
