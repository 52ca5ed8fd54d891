package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Veraticus/finpilot/internal/model"
	"github.com/Veraticus/finpilot/internal/session"
	"github.com/Veraticus/finpilot/internal/wizard"
)

// Review menu choices.
const (
	reviewGenerate = iota
	reviewEditProfile
	reviewEditAssets
	reviewEditGoals
	reviewQuit
)

var reviewOptions = []string{
	"Generate my plans",
	"Edit profile",
	"Edit assets & liabilities",
	"Edit goals",
	"Quit",
}

// Follow-up menu choices.
const (
	followAsk = iota
	followSimulate
	followProjections
	followStartOver
	followQuit
)

var followUpOptions = []string{
	"Ask a question about my plans",
	"Simulate market scenarios",
	"Show local goal projections",
	"Start over",
	"Quit",
}

// Plan failure menu choices.
const (
	failureRetry = iota
	failureEdit
	failureQuit
)

var failureOptions = []string{"Try again", "Edit my answers", "Quit"}

// planOutcome is how waiting for a plan ended.
type planOutcome int

const (
	planReady planOutcome = iota
	planEdit
	planQuit
)

// Wizard walks a session through the planning form with prompts, submits it,
// and offers follow-up questions and scenarios. It is the plain terminal
// counterpart of the full-screen interface.
type Wizard struct {
	state    *session.State
	prompts  Prompter
	render   *Renderer
	progress io.Writer
}

// NewWizard creates a wizard. Spinners are written to progress; pass
// io.Discard to hide them.
func NewWizard(state *session.State, prompts Prompter, render *Renderer, progress io.Writer) *Wizard {
	return &Wizard{state: state, prompts: prompts, render: render, progress: progress}
}

// Run drives the session until the user quits. ErrAborted is returned when a
// prompt is interrupted.
func (w *Wizard) Run(ctx context.Context) error {
	for {
		restart, err := w.runOnce(ctx)
		if err != nil || !restart {
			return err
		}
		w.state.Reset()
		w.render.Message(FormatInfo("Starting over."))
	}
}

func (w *Wizard) runOnce(ctx context.Context) (bool, error) {
	var pending model.FieldErrors
	for {
		if err := w.fill(ctx, pending); err != nil {
			return false, err
		}
		pending = nil

		choice, err := w.review(ctx)
		if err != nil {
			return false, err
		}
		switch choice {
		case reviewEditProfile:
			w.rewind(wizard.StepProfile)
			continue
		case reviewEditAssets:
			w.rewind(wizard.StepAssetsLiabilities)
			continue
		case reviewEditGoals:
			w.rewind(wizard.StepGoals)
			continue
		case reviewQuit:
			return false, nil
		}

		err = w.state.Next(ctx)
		var ve *wizard.ValidationError
		if errors.As(err, &ve) {
			w.render.FieldErrors(ve.Fields)
			pending = ve.Fields
			w.rewind(wizard.StepProfile)
			continue
		}
		if err != nil {
			return false, err
		}

		outcome, err := w.awaitPlan(ctx)
		if err != nil {
			return false, err
		}
		switch outcome {
		case planEdit:
			w.rewind(wizard.StepProfile)
			continue
		case planQuit:
			return false, nil
		}
		return w.followUp(ctx)
	}
}

// fill asks for every field up to the review step. When pending is set, fields
// that validated cleanly are kept and only the failing ones are asked again;
// a step that fails its own validation re-asks just its failing fields.
func (w *Wizard) fill(ctx context.Context, pending model.FieldErrors) error {
	var retry model.FieldErrors
	for {
		snap := w.state.Snapshot()
		if snap.Step == wizard.StepReview {
			return nil
		}
		only := pending
		if retry != nil {
			only = retry
		}
		w.render.Message(FormatTitle(fmt.Sprintf("Step %d of %d · %s", snap.Step.Number(), wizard.Count, snap.Step)))

		if err := w.askFields(ctx, wizard.Fields(snap.Step, snap.Input), only); err != nil {
			return err
		}
		if snap.Step == wizard.StepGoals && only == nil {
			if err := w.askMoreGoals(ctx); err != nil {
				return err
			}
		}

		err := w.state.Next(ctx)
		var ve *wizard.ValidationError
		if errors.As(err, &ve) {
			w.render.FieldErrors(ve.Fields)
			retry = ve.Fields
			continue
		}
		if err != nil {
			return err
		}
		retry = nil
	}
}

func (w *Wizard) askFields(ctx context.Context, fields []wizard.Field, only model.FieldErrors) error {
	for _, f := range fields {
		if only != nil && !only.Has(f.ErrorPath()) {
			continue
		}
		current, err := f.Value(w.state.Snapshot().Input)
		if err != nil {
			return err
		}
		message := f.Label
		if f.Optional {
			message += " (optional)"
		}
		answer, err := w.prompts.Input(ctx, InputConfig{
			Message: message,
			Default: current,
			Help:    f.Help,
		})
		if err != nil {
			return err
		}
		if err := w.state.UpdateInput(func(in *model.Input) error {
			return f.Apply(in, answer)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (w *Wizard) askMoreGoals(ctx context.Context) error {
	for {
		more, err := w.prompts.Confirm(ctx, ConfirmConfig{Message: "Add another goal?"})
		if err != nil || !more {
			return err
		}
		index := w.state.AddGoal()
		fields := wizard.Fields(wizard.StepGoals, w.state.Snapshot().Input)
		start := index * wizard.FieldsPerGoal
		if err := w.askFields(ctx, fields[start:start+wizard.FieldsPerGoal], nil); err != nil {
			return err
		}
	}
}

func (w *Wizard) review(ctx context.Context) (int, error) {
	snap := w.state.Snapshot()
	w.render.Message(FormatTitle(fmt.Sprintf("Step %d of %d · %s", snap.Step.Number(), wizard.Count, snap.Step)))
	if req, err := snap.Input.Validate(); err == nil {
		w.render.Projections(req)
	}
	return w.prompts.Select(ctx, SelectConfig{
		Message: "Ready?",
		Options: reviewOptions,
	})
}

// rewind moves the wizard back to step.
func (w *Wizard) rewind(step wizard.Step) {
	for w.state.Snapshot().Step > step {
		w.state.Previous()
	}
}

// awaitPlan waits for the submitted plan and its evaluation, which starts on
// its own once the plan lands. After a failure the user may retry, go back to
// the form, or quit.
func (w *Wizard) awaitPlan(ctx context.Context) (planOutcome, error) {
	for {
		WaitWithProgress(w.progress, "Generating your plans...", w.state.Wait)
		snap := w.state.Snapshot()
		if snap.Plan.Status == session.StatusSuccess {
			w.render.Plan(snap.Plan.Plan)
			if w.state.Reconcile() {
				WaitWithProgress(w.progress, "Evaluating your plans...", w.state.Wait)
			}
			w.render.Evaluation(w.state.Snapshot().Evaluation.Result)
			return planReady, nil
		}

		w.render.Message(FormatError(snap.Plan.Error))
		choice, err := w.prompts.Select(ctx, SelectConfig{
			Message: "What now?",
			Options: failureOptions,
		})
		if err != nil {
			return planQuit, err
		}
		switch choice {
		case failureRetry:
			if err := w.state.Submit(ctx); err != nil {
				return planQuit, err
			}
		case failureEdit:
			return planEdit, nil
		default:
			return planQuit, nil
		}
	}
}

// followUp offers questions and scenarios about the current plan. It reports
// true when the user wants to start over.
func (w *Wizard) followUp(ctx context.Context) (bool, error) {
	for {
		choice, err := w.prompts.Select(ctx, SelectConfig{
			Message: "What next?",
			Options: followUpOptions,
		})
		if err != nil {
			return false, err
		}
		switch choice {
		case followAsk:
			if err := w.ask(ctx); err != nil {
				return false, err
			}
		case followSimulate:
			if err := w.simulate(ctx); err != nil {
				return false, err
			}
		case followProjections:
			w.render.Projections(w.state.Snapshot().Plan.Request)
		case followStartOver:
			return true, nil
		default:
			return false, nil
		}
	}
}

func (w *Wizard) ask(ctx context.Context) error {
	question, err := w.prompts.Input(ctx, InputConfig{Message: "Your question"})
	if err != nil {
		return err
	}
	err = w.state.Ask(ctx, question)
	if errors.Is(err, session.ErrEmptyQuestion) {
		w.render.Message(FormatWarning("Please type a question."))
		return nil
	}
	if err != nil {
		return err
	}

	WaitWithProgress(w.progress, "Thinking...", w.state.Wait)
	chat := w.state.Snapshot().Chat
	if chat.Status == session.StatusError {
		w.render.Message(FormatError(chat.Error))
		return nil
	}
	if n := len(chat.History); n > 0 && chat.History[n-1].Role == model.RoleAssistant {
		w.render.Answer(chat.History[n-1].Content)
	}
	return nil
}

func (w *Wizard) simulate(ctx context.Context) error {
	if err := w.state.Simulate(ctx); err != nil {
		return err
	}
	WaitWithProgress(w.progress, "Simulating scenarios...", w.state.Wait)
	sc := w.state.Snapshot().Scenarios
	if sc.Status == session.StatusError {
		w.render.Message(FormatError(sc.Error))
		return nil
	}
	w.render.Scenarios(sc.Scenarios)
	return nil
}
