package session

import (
	"context"
	"errors"
	"time"

	"github.com/Veraticus/finpilot/internal/common"
	"github.com/Veraticus/finpilot/internal/journal"
	"github.com/Veraticus/finpilot/internal/model"
	"github.com/Veraticus/finpilot/internal/planner"
	"github.com/Veraticus/finpilot/internal/wizard"
	"github.com/google/uuid"
)

// PlanRequestState tracks plan generation. Plan and Error are never both set;
// both are empty while loading. Input and Request hold the submission the plan
// was generated from and are set together with Plan.
type PlanRequestState struct {
	Plan      *model.GeneratedPlan
	Input     *model.Input
	Request   *model.PlanRequest
	RequestID string
	Error     string
	Status    Status
}

// EvaluationKey identifies the evaluation this plan triggers. It is empty until
// a plan has been generated.
func (p PlanRequestState) EvaluationKey() string {
	return model.EvaluationKey(p.Request, p.Plan)
}

func (p PlanRequestState) clone() PlanRequestState {
	out := p
	out.Plan = p.Plan.Clone()
	out.Input = p.Input.Clone()
	out.Request = p.Request.Clone()
	return out
}

// Submit validates the input and sends it for plan generation. The status moves to
// loading before Submit returns; the result arrives asynchronously. A submission
// while another is loading is rejected with common.ErrSubmitInFlight, and invalid
// input is rejected with a *wizard.ValidationError. Neither rejection changes state.
func (s *State) Submit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.plan.Status == StatusLoading {
		s.mu.Unlock()
		return common.ErrSubmitInFlight
	}
	req, err := s.input.Validate()
	if err != nil {
		s.mu.Unlock()
		var fields model.FieldErrors
		if errors.As(err, &fields) {
			return &wizard.ValidationError{Step: wizard.StepReview, Fields: fields}
		}
		return err
	}

	submitted := s.input.Clone()
	requestID := uuid.NewString()
	epoch := s.epoch
	sessionID := s.sessionID
	scope := s.scope
	s.plan = PlanRequestState{Status: StatusLoading, RequestID: requestID}
	// Evaluation, scenarios and Q&A belong to the plan being replaced.
	s.evaluation = EvaluationState{}
	s.scenarios = ScenarioState{}
	s.chat = ChatState{}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Submitting plan request",
		"request_id", requestID,
		"goals", len(req.Goals))
	s.notify()

	s.launch(ctx, scope, func(ctx context.Context) {
		start := time.Now()
		plan, err := s.planner.GeneratePlan(ctx, req)
		s.resolvePlan(planResolution{
			epoch:     epoch,
			sessionID: sessionID,
			requestID: requestID,
			submitted: submitted,
			request:   req,
			plan:      plan,
			err:       err,
			start:     start,
		})
	})
	return nil
}

type planResolution struct {
	start     time.Time
	err       error
	submitted *model.Input
	request   *model.PlanRequest
	plan      *model.GeneratedPlan
	sessionID string
	requestID string
	epoch     uint64
}

func (s *State) resolvePlan(r planResolution) {
	s.mu.Lock()
	current := r.epoch == s.epoch
	if current {
		if r.err != nil {
			s.plan = PlanRequestState{
				Status:    StatusError,
				RequestID: r.requestID,
				Error:     planner.Describe(r.err),
			}
		} else {
			s.plan = PlanRequestState{
				Status:    StatusSuccess,
				RequestID: r.requestID,
				Plan:      r.plan,
				Input:     r.submitted,
				Request:   r.request,
			}
			// A plan seen before gets its own evaluation back.
			if prev, ok := s.fired[s.plan.EvaluationKey()]; ok {
				s.evaluation = prev
			}
		}
	}
	s.mu.Unlock()

	call := journal.Call{
		SessionID: r.sessionID,
		RequestID: r.requestID,
		Operation: journal.OpGenerate,
		Outcome:   outcomeOf(r.err, current),
		StartedAt: r.start,
		Duration:  time.Since(r.start),
	}
	if r.err != nil {
		call.Detail = r.err.Error()
	} else {
		call.PlanKey = model.EvaluationKey(r.request, r.plan)
	}
	s.record(call)

	if !current {
		s.logger.Debug("Dropping plan response from a previous session",
			"request_id", r.requestID)
		return
	}
	if r.err != nil {
		s.logger.Warn("Plan generation failed",
			"request_id", r.requestID,
			"error", r.err)
	} else {
		s.logger.Info("Plan generated",
			"request_id", r.requestID,
			"duration", call.Duration)
	}

	s.notify()
	s.Reconcile()
}
