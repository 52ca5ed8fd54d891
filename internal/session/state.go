// Package session owns the application state of one planning session and the
// orchestration of the remote calls made on its behalf.
//
// State is the single writer of the wizard position, the input, and every request
// state. All mutations take one lock and readers work on deep-copied snapshots, so
// a render never observes a half-applied update. Remote calls run on their own
// goroutines and report back through the same lock.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/finpilot/internal/common"
	"github.com/Veraticus/finpilot/internal/journal"
	"github.com/Veraticus/finpilot/internal/model"
	"github.com/Veraticus/finpilot/internal/planner"
	"github.com/Veraticus/finpilot/internal/wizard"
	"github.com/google/uuid"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session is closed")

// Status is the lifecycle of one remote request.
type Status int

// Request statuses.
const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Recorder receives one entry per resolved remote call.
type Recorder interface {
	Record(ctx context.Context, call journal.Call) error
}

// Snapshot is a deep copy of the whole session, safe to read without locking.
type Snapshot struct {
	Input      *model.Input
	SessionID  string
	Plan       PlanRequestState
	Evaluation EvaluationState
	Scenarios  ScenarioState
	Chat       ChatState
	Step       wizard.Step
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *State) {
		s.logger = logger
	}
}

// WithJournal records every resolved remote call.
func WithJournal(r Recorder) Option {
	return func(s *State) {
		s.journal = r
	}
}

// WithListener registers fn to receive a snapshot after every change. Calls are
// serialized and made without the state lock held, but fn must not call back into
// the State's mutators.
func WithListener(fn func(Snapshot)) Option {
	return func(s *State) {
		s.listener = fn
	}
}

// WithTimeout bounds each remote call. Zero leaves the planner's own timeout in charge.
func WithTimeout(d time.Duration) Option {
	return func(s *State) {
		s.timeout = d
	}
}

// State is the application state of one planning session.
type State struct {
	ctx      context.Context
	planner  planner.Planner
	journal  Recorder
	cancel   context.CancelFunc
	logger   *slog.Logger
	listener func(Snapshot)
	wizard   *wizard.Controller
	input    *model.Input
	fired    map[string]EvaluationState

	// scope ends when the session is reset or closed, canceling the requests
	// started under it.
	scope    context.Context
	endScope context.CancelFunc

	sessionID  string
	plan       PlanRequestState
	evaluation EvaluationState
	scenarios  ScenarioState
	chat       ChatState

	wg       sync.WaitGroup
	timeout  time.Duration
	epoch    uint64
	mu       sync.Mutex
	notifyMu sync.Mutex
	closed   bool
}

// New creates a session in its initial state: empty input, first wizard step,
// every request idle.
func New(p planner.Planner, opts ...Option) *State {
	ctx, cancel := context.WithCancel(context.Background())
	s := &State{
		ctx:     ctx,
		cancel:  cancel,
		planner: p,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = common.ComponentLogger(s.logger, "session")
	s.resetLocked()
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID:  s.sessionID,
		Step:       s.wizard.Current(),
		Input:      s.input.Clone(),
		Plan:       s.plan.clone(),
		Evaluation: s.evaluation.clone(),
		Scenarios:  s.scenarios.clone(),
		Chat:       s.chat.clone(),
	}
}

// SetField updates one input field by its dotted path.
func (s *State) SetField(path, value string) error {
	s.mu.Lock()
	err := s.input.SetField(path, value)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// AddGoal appends a blank goal and returns its index.
func (s *State) AddGoal() int {
	s.mu.Lock()
	s.input.AddGoal()
	index := len(s.input.Goals) - 1
	s.mu.Unlock()
	s.notify()
	return index
}

// SetGoalField updates one field of the goal at index.
func (s *State) SetGoalField(index int, field, value string) error {
	s.mu.Lock()
	err := s.input.SetGoalField(index, field, value)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// UpdateInput applies fn to a copy of the input and keeps the copy only if fn
// succeeds. Bulk prefills such as imported balances land atomically.
func (s *State) UpdateInput(fn func(*model.Input) error) error {
	s.mu.Lock()
	working := s.input.Clone()
	err := fn(working)
	if err == nil {
		s.input = working
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// Next advances the wizard when the active step is complete. At the review step
// it submits the plan request instead.
func (s *State) Next(ctx context.Context) error {
	s.mu.Lock()
	if s.wizard.ReadyToSubmit() {
		s.mu.Unlock()
		return s.Submit(ctx)
	}
	err := s.wizard.Next(s.input)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// Previous moves the wizard back one step.
func (s *State) Previous() {
	s.mu.Lock()
	s.wizard.Previous()
	s.mu.Unlock()
	s.notify()
}

// Reset starts a fresh session. Requests sent before the reset are canceled and
// any response that still arrives is dropped.
func (s *State) Reset() {
	s.mu.Lock()
	s.epoch++
	s.resetLocked()
	s.mu.Unlock()
	s.logger.Debug("Session reset")
	s.notify()
}

func (s *State) resetLocked() {
	if s.endScope != nil {
		s.endScope()
	}
	s.scope, s.endScope = context.WithCancel(s.ctx)
	s.sessionID = uuid.NewString()
	s.wizard = wizard.New()
	s.input = model.NewInput()
	s.plan = PlanRequestState{}
	s.evaluation = EvaluationState{}
	s.scenarios = ScenarioState{}
	s.chat = ChatState{}
	s.fired = make(map[string]EvaluationState)
}

// Wait blocks until every request started so far has resolved.
func (s *State) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight requests and waits for their goroutines to exit.
func (s *State) Close() {
	s.mu.Lock()
	s.closed = true
	s.epoch++
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}

// notify delivers a fresh snapshot to the listener. Holding notifyMu while the
// snapshot is taken keeps deliveries in state order.
func (s *State) notify() {
	if s.listener == nil {
		return
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.listener(s.Snapshot())
}

// launch runs call on a tracked goroutine with a request context that outlives
// the caller's cancellation but ends with scope, the session scope captured when
// the request was started.
func (s *State) launch(ctx, scope context.Context, call func(ctx context.Context)) {
	reqCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(scope, cancel)

	var cancelTimeout context.CancelFunc = func() {}
	if s.timeout > 0 {
		reqCtx, cancelTimeout = context.WithTimeout(reqCtx, s.timeout)
	}

	go func() {
		defer s.wg.Done()
		defer stop()
		defer cancel()
		defer cancelTimeout()
		call(reqCtx)
	}()
}

// record journals a resolved call. Journal failures are logged and otherwise ignored.
func (s *State) record(call journal.Call) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(context.Background(), call); err != nil {
		s.logger.Warn("Failed to journal call",
			"operation", call.Operation,
			"error", err)
	}
}

func outcomeOf(err error, current bool) journal.Outcome {
	switch {
	case !current:
		return journal.OutcomeDropped
	case err != nil:
		return journal.OutcomeError
	default:
		return journal.OutcomeSuccess
	}
}
