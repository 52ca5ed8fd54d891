package planner

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/finpilot/internal/model"
)

// StubOptions configures the local stub planner.
type StubOptions struct {
	GenerateErr error
	EvaluateErr error
	SimulateErr error
	ChatErr     error
	Delay       time.Duration
}

// StubCalls counts requests received by a Stub.
type StubCalls struct {
	Generate int
	Evaluate int
	Simulate int
	Chat     int
}

// Stub is a deterministic Planner that never leaves the process. Its plans are
// derived from the profile with simple rules so demos look plausible.
type Stub struct {
	opts  StubOptions
	calls StubCalls
	mu    sync.Mutex
}

// NewStub creates a new stub planner.
func NewStub(opts StubOptions) *Stub {
	return &Stub{opts: opts}
}

// Calls returns a copy of the request counters.
func (s *Stub) Calls() StubCalls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Stub) wait(ctx context.Context) error {
	if s.opts.Delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.opts.Delay):
		return nil
	}
}

// GeneratePlan builds a conservative and a growth strategy from the profile.
func (s *Stub) GeneratePlan(ctx context.Context, req *model.PlanRequest) (*model.GeneratedPlan, error) {
	s.mu.Lock()
	s.calls.Generate++
	s.mu.Unlock()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if s.opts.GenerateErr != nil {
		return nil, s.opts.GenerateErr
	}

	equity := 100 - req.Age
	if equity < 20 {
		equity = 20
	}
	sentinelEquity := equity / 2

	return &model.GeneratedPlan{
		Sentinel: model.Strategy{
			Summary: fmt.Sprintf("A steady path for %s: clear expensive debt, hold six months of expenses in cash, then invest conservatively.", req.Name),
			AssetAllocation: map[string]string{
				"equities":    fmt.Sprintf("%d%%", sentinelEquity),
				"bonds":       fmt.Sprintf("%d%%", 100-sentinelEquity-15),
				"commodities": "5%",
				"cash":        "10%",
			},
			GoalTimelines:   s.timelines(req, 0.08),
			Recommendations: s.sentinelSteps(req),
		},
		Voyager: model.Strategy{
			Summary: fmt.Sprintf("A growth path for %s: keep a lean emergency fund and lean into diversified equities.", req.Name),
			AssetAllocation: map[string]string{
				"equities": fmt.Sprintf("%d%%", equity),
				"bonds":    fmt.Sprintf("%d%%", 100-equity-10),
				"crypto":   "5%",
				"cash":     "5%",
			},
			GoalTimelines: s.timelines(req, 0.12),
			Recommendations: []string{
				"Automate a monthly SIP into a broad index fund.",
				"Step up contributions by 10% every year.",
				"Rebalance once a year back to the target allocation.",
			},
		},
	}, nil
}

func (s *Stub) timelines(req *model.PlanRequest, rate float64) map[string]string {
	out := make(map[string]string, len(req.Goals))
	for _, p := range model.ProjectGoals(req, rate) {
		if math.IsInf(p.Years, 1) {
			out[p.Name] = "More than 100"
			continue
		}
		out[p.Name] = fmt.Sprintf("%.1f", p.Years)
	}
	return out
}

func (s *Stub) sentinelSteps(req *model.PlanRequest) []string {
	var steps []string
	if req.Liabilities.HighInterestDebt > 0 {
		steps = append(steps, fmt.Sprintf("Pay off %.0f of high-interest debt before investing.", req.Liabilities.HighInterestDebt))
	}
	if emergency := req.MonthlyExpenses * 6; req.Assets.CashEquivalents < emergency {
		steps = append(steps, fmt.Sprintf("Grow the emergency fund to %.0f.", emergency))
	}
	return append(steps, "Invest the monthly surplus in short-duration debt funds and a large-cap index fund.")
}

// EvaluatePlan scores the plan from the profile's savings rate.
func (s *Stub) EvaluatePlan(ctx context.Context, req *model.PlanRequest, plan *model.GeneratedPlan) (*model.EvaluationResult, error) {
	s.mu.Lock()
	s.calls.Evaluate++
	s.mu.Unlock()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if s.opts.EvaluateErr != nil {
		return nil, s.opts.EvaluateErr
	}
	if plan == nil {
		return nil, fmt.Errorf("no plan to evaluate")
	}

	savingsRate := 0.0
	if req.MonthlyIncome > 0 {
		savingsRate = req.MonthlySurplus() / req.MonthlyIncome
	}
	score := math.Round(math.Max(0, math.Min(10, savingsRate*20))*10) / 10

	var risks []string
	if req.Liabilities.HighInterestDebt > 0 {
		risks = append(risks, "High-interest debt outstanding")
	}
	if req.Assets.CashEquivalents < req.MonthlyExpenses*3 {
		risks = append(risks, "Emergency fund below three months of expenses")
	}

	verdict := "Needs attention"
	if score >= 6 {
		verdict = "Sound"
	}

	var analysis strings.Builder
	fmt.Fprintf(&analysis, "## Savings rate\n\nYou keep **%.0f%%** of your income after expenses and EMIs.\n\n", savingsRate*100)
	analysis.WriteString("## Plans\n\n")
	fmt.Fprintf(&analysis, "- *Sentinel*: %s\n- *Voyager*: %s\n", plan.Sentinel.Summary, plan.Voyager.Summary)

	return &model.EvaluationResult{
		Score:    score,
		HasScore: true,
		Verdict:  verdict,
		Analysis: analysis.String(),
		Risks:    risks,
	}, nil
}

// SimulateScenarios returns fixed bull, bear and neutral outlooks.
func (s *Stub) SimulateScenarios(ctx context.Context, req *model.PlanRequest) ([]model.Scenario, error) {
	s.mu.Lock()
	s.calls.Simulate++
	s.mu.Unlock()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if s.opts.SimulateErr != nil {
		return nil, s.opts.SimulateErr
	}

	outlooks := []model.Scenario{
		{Name: "The Optimistic Scenario", Narrative: "Strong earnings growth and easing rates.", Parameters: model.ScenarioParameters{AvgEquityReturn: 18, AvgBondReturn: 7.5, AvgInflation: 4.5}},
		{Name: "The Pessimistic Scenario", Narrative: "A prolonged slowdown with sticky inflation.", Parameters: model.ScenarioParameters{AvgEquityReturn: 2, AvgBondReturn: 6, AvgInflation: 8}},
		{Name: "The Neutral Scenario", Narrative: "Mixed growth roughly in line with history.", Parameters: model.ScenarioParameters{AvgEquityReturn: 9, AvgBondReturn: 6.5, AvgInflation: 6}},
	}
	for i := range outlooks {
		outlooks[i].ProjectedTimelines = make(map[string]string, len(req.Goals))
		for _, p := range model.ProjectGoals(req, outlooks[i].Parameters.AvgEquityReturn/100) {
			if math.IsInf(p.Years, 1) {
				outlooks[i].ProjectedTimelines[p.Name] = "More than 100 years"
			} else {
				outlooks[i].ProjectedTimelines[p.Name] = fmt.Sprintf("%.1f years", p.Years)
			}
		}
	}
	return outlooks, nil
}

// Chat answers with a short summary of the plan relevant to the question.
func (s *Stub) Chat(ctx context.Context, req *model.ChatRequest) (string, error) {
	s.mu.Lock()
	s.calls.Chat++
	s.mu.Unlock()

	if err := s.wait(ctx); err != nil {
		return "", err
	}
	if s.opts.ChatErr != nil {
		return "", s.opts.ChatErr
	}

	q := strings.ToLower(req.NewQuestion)
	switch {
	case strings.Contains(q, "voyager") || strings.Contains(q, "growth"):
		return req.GeneratedPlan.Voyager.Summary, nil
	case strings.Contains(q, "sentinel") || strings.Contains(q, "safe"):
		return req.GeneratedPlan.Sentinel.Summary, nil
	default:
		return fmt.Sprintf("Based on your plan, keep your monthly surplus of %.0f invested consistently.", req.UserProfile.MonthlySurplus()), nil
	}
}

// Ping always succeeds.
func (s *Stub) Ping(context.Context) (string, error) {
	return "stub planner ready", nil
}
