package session

import (
	"context"
	"sync"

	"github.com/Veraticus/finpilot/internal/journal"
	"github.com/Veraticus/finpilot/internal/model"
)

const (
	planA = `{"sentinel_plan": {"summary": "Safe A"}, "voyager_plan": {"summary": "Bold A"}}`
	planB = `{"sentinel_plan": {"summary": "Safe B"}, "voyager_plan": {"summary": "Bold B"}}`
)

// fakePlanner records requests and can hold any call open until its gate is released.
type fakePlanner struct {
	generateErr   error
	evaluateErr   error
	simulateErr   error
	chatErr       error
	plans         []string
	generateErrs  []error
	generateGates []chan struct{}
	evaluateGates []chan struct{}
	simulateGates []chan struct{}
	chatGates     []chan struct{}
	generated     []*model.PlanRequest
	evaluated     []string
	asked         []*model.ChatRequest
	simulated     int
	mu            sync.Mutex
}

func gate(ctx context.Context, gates []chan struct{}, i int) error {
	if i >= len(gates) || gates[i] == nil {
		return nil
	}
	select {
	case <-gates[i]:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakePlanner) GeneratePlan(ctx context.Context, req *model.PlanRequest) (*model.GeneratedPlan, error) {
	f.mu.Lock()
	i := len(f.generated)
	f.generated = append(f.generated, req)
	gates := f.generateGates
	failure := f.generateErr
	if i < len(f.generateErrs) && f.generateErrs[i] != nil {
		failure = f.generateErrs[i]
	}
	f.mu.Unlock()

	if err := gate(ctx, gates, i); err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}

	body := planA
	if len(f.plans) > 0 {
		body = f.plans[min(i, len(f.plans)-1)]
	}
	return model.ParsePlan([]byte(body))
}

func (f *fakePlanner) EvaluatePlan(ctx context.Context, _ *model.PlanRequest, plan *model.GeneratedPlan) (*model.EvaluationResult, error) {
	f.mu.Lock()
	i := len(f.evaluated)
	f.evaluated = append(f.evaluated, plan.Sentinel.Summary)
	gates := f.evaluateGates
	f.mu.Unlock()

	if err := gate(ctx, gates, i); err != nil {
		return nil, err
	}
	if f.evaluateErr != nil {
		return nil, f.evaluateErr
	}
	return &model.EvaluationResult{Verdict: "verdict for " + plan.Sentinel.Summary, Score: 8, HasScore: true}, nil
}

func (f *fakePlanner) SimulateScenarios(ctx context.Context, _ *model.PlanRequest) ([]model.Scenario, error) {
	f.mu.Lock()
	i := f.simulated
	f.simulated++
	gates := f.simulateGates
	f.mu.Unlock()

	if err := gate(ctx, gates, i); err != nil {
		return nil, err
	}
	if f.simulateErr != nil {
		return nil, f.simulateErr
	}
	return []model.Scenario{{Name: "Bull", ProjectedTimelines: map[string]string{"Retirement": "18 years"}}}, nil
}

func (f *fakePlanner) Chat(ctx context.Context, req *model.ChatRequest) (string, error) {
	f.mu.Lock()
	i := len(f.asked)
	f.asked = append(f.asked, req)
	gates := f.chatGates
	f.mu.Unlock()

	if err := gate(ctx, gates, i); err != nil {
		return "", err
	}
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return "answer to " + req.NewQuestion, nil
}

func (f *fakePlanner) generateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.generated)
}

func (f *fakePlanner) evaluations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.evaluated...)
}

// memoryRecorder collects journal entries.
type memoryRecorder struct {
	calls []journal.Call
	mu    sync.Mutex
}

func (m *memoryRecorder) Record(_ context.Context, call journal.Call) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	return nil
}

func (m *memoryRecorder) outcomes(op journal.Operation) []journal.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []journal.Outcome
	for _, c := range m.calls {
		if c.Operation == op {
			out = append(out, c.Outcome)
		}
	}
	return out
}
