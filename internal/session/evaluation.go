package session

import (
	"context"
	"time"

	"github.com/Veraticus/finpilot/internal/journal"
	"github.com/Veraticus/finpilot/internal/model"
	"github.com/Veraticus/finpilot/internal/planner"
	"github.com/google/uuid"
)

// EvaluationState tracks the evaluation of the current plan. TriggerKey is the
// evaluation key of the plan and profile the result (or pending request)
// belongs to.
type EvaluationState struct {
	Result     *model.EvaluationResult
	TriggerKey string
	Status     Status
}

func (e EvaluationState) clone() EvaluationState {
	out := e
	out.Result = e.Result.Clone()
	return out
}

// Reconcile starts an evaluation when a plan and the input it came from are
// present and that pair has not been evaluated yet in this session. It is safe to
// call on every render; it reports whether a request was started.
func (s *State) Reconcile() bool {
	s.mu.Lock()
	if s.closed || s.plan.Plan == nil || s.plan.Request == nil {
		s.mu.Unlock()
		return false
	}
	key := s.plan.EvaluationKey()
	if key == "" {
		s.mu.Unlock()
		return false
	}
	if _, done := s.fired[key]; done {
		s.mu.Unlock()
		return false
	}

	s.evaluation = EvaluationState{Status: StatusLoading, TriggerKey: key}
	s.fired[key] = s.evaluation
	req := s.plan.Request
	plan := s.plan.Plan
	epoch := s.epoch
	scope := s.scope
	sessionID := s.sessionID
	requestID := uuid.NewString()
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Evaluating plan",
		"request_id", requestID,
		"evaluation_key", key[:12])
	s.notify()

	s.launch(s.ctx, scope, func(ctx context.Context) {
		start := time.Now()
		result, err := s.planner.EvaluatePlan(ctx, req, plan)
		s.resolveEvaluation(epoch, sessionID, requestID, key, start, result, err)
	})
	return true
}

// resolveEvaluation stores the outcome under its key. A result for a superseded
// plan still overwrites the displayed state: the last response to arrive wins.
func (s *State) resolveEvaluation(epoch uint64, sessionID, requestID, key string, start time.Time, result *model.EvaluationResult, err error) {
	s.mu.Lock()
	current := epoch == s.epoch
	if current {
		resolved := EvaluationState{Status: StatusSuccess, TriggerKey: key, Result: result}
		if err != nil {
			resolved = EvaluationState{
				Status:     StatusError,
				TriggerKey: key,
				Result:     model.FailedEvaluation(planner.Describe(err)),
			}
		}
		s.fired[key] = resolved
		s.evaluation = resolved
	}
	s.mu.Unlock()

	call := journal.Call{
		SessionID: sessionID,
		RequestID: requestID,
		Operation: journal.OpEvaluate,
		Outcome:   outcomeOf(err, current),
		PlanKey:   key,
		StartedAt: start,
		Duration:  time.Since(start),
	}
	if err != nil {
		call.Detail = err.Error()
	}
	s.record(call)

	if !current {
		return
	}
	if err != nil {
		s.logger.Warn("Plan evaluation failed",
			"request_id", requestID,
			"error", err)
	}
	s.notify()
}
