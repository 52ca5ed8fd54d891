package session

import (
	"context"
	"time"

	"github.com/Veraticus/finpilot/internal/common"
	"github.com/Veraticus/finpilot/internal/journal"
	"github.com/Veraticus/finpilot/internal/model"
	"github.com/Veraticus/finpilot/internal/planner"
	"github.com/google/uuid"
)

// ScenarioState tracks the economic scenario simulation for the current plan.
type ScenarioState struct {
	Error     string
	Scenarios []model.Scenario
	Status    Status
}

func (sc ScenarioState) clone() ScenarioState {
	out := sc
	out.Scenarios = model.CloneScenarios(sc.Scenarios)
	return out
}

// Simulate requests bull, bear and neutral projections for the submitted profile.
// It needs a generated plan and allows one simulation in flight at a time.
func (s *State) Simulate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.plan.Request == nil {
		s.mu.Unlock()
		return common.ErrNoPlan
	}
	if s.scenarios.Status == StatusLoading {
		s.mu.Unlock()
		return common.ErrSubmitInFlight
	}

	req := s.plan.Request
	planID := s.plan.RequestID
	epoch := s.epoch
	sessionID := s.sessionID
	requestID := uuid.NewString()
	scope := s.scope
	s.scenarios = ScenarioState{Status: StatusLoading}
	s.wg.Add(1)
	s.mu.Unlock()
	s.notify()

	s.launch(ctx, scope, func(ctx context.Context) {
		start := time.Now()
		scenarios, err := s.planner.SimulateScenarios(ctx, req)

		s.mu.Lock()
		// A new submission has already cleared the scenarios of the old plan.
		current := epoch == s.epoch && planID == s.plan.RequestID
		if current {
			if err != nil {
				s.scenarios = ScenarioState{Status: StatusError, Error: planner.Describe(err)}
			} else {
				s.scenarios = ScenarioState{Status: StatusSuccess, Scenarios: scenarios}
			}
		}
		s.mu.Unlock()

		call := journal.Call{
			SessionID: sessionID,
			RequestID: requestID,
			Operation: journal.OpSimulate,
			Outcome:   outcomeOf(err, current),
			StartedAt: start,
			Duration:  time.Since(start),
		}
		if err != nil {
			call.Detail = err.Error()
			s.logger.Warn("Scenario simulation failed", "error", err)
		}
		s.record(call)

		if current {
			s.notify()
		}
	})
	return nil
}
