package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finpilot/internal/model"
	"github.com/Veraticus/finpilot/internal/planner"
	"github.com/Veraticus/finpilot/internal/session"
)

// scriptedPrompter answers prompts from a fixed script: strings for Input,
// bools for Confirm and ints for Select. An exhausted script aborts.
type scriptedPrompter struct {
	t       *testing.T
	script  []any
	asked   []string
	options [][]string
}

func (p *scriptedPrompter) next(message string) (any, error) {
	p.asked = append(p.asked, message)
	if len(p.script) == 0 {
		return nil, ErrAborted
	}
	answer := p.script[0]
	p.script = p.script[1:]
	return answer, nil
}

func (p *scriptedPrompter) Input(_ context.Context, cfg InputConfig) (string, error) {
	answer, err := p.next(cfg.Message)
	if err != nil {
		return "", err
	}
	s, ok := answer.(string)
	require.True(p.t, ok, "prompt %q expected a string, script has %v", cfg.Message, answer)
	return s, nil
}

func (p *scriptedPrompter) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	answer, err := p.next(cfg.Message)
	if err != nil {
		return false, err
	}
	b, ok := answer.(bool)
	require.True(p.t, ok, "prompt %q expected a bool, script has %v", cfg.Message, answer)
	return b, nil
}

func (p *scriptedPrompter) Select(_ context.Context, cfg SelectConfig) (int, error) {
	answer, err := p.next(cfg.Message)
	if err != nil {
		return 0, err
	}
	p.options = append(p.options, cfg.Options)
	i, ok := answer.(int)
	require.True(p.t, ok, "prompt %q expected an int, script has %v", cfg.Message, answer)
	return i, nil
}

func profileAnswers() []any {
	return []any{
		"Asha", "30", "150000", "60000",
		"500000", "800000", "", "0", "0",
		"Retirement", "10000000", "25",
	}
}

func newTestWizard(t *testing.T, stub *planner.Stub, script []any) (*Wizard, *scriptedPrompter, *session.State, *bytes.Buffer) {
	t.Helper()
	state := session.New(stub)
	t.Cleanup(state.Close)

	out := &bytes.Buffer{}
	render, err := NewRenderer(out, "ascii", 0.12)
	require.NoError(t, err)

	prompts := &scriptedPrompter{t: t, script: script}
	return NewWizard(state, prompts, render, io.Discard), prompts, state, out
}

func TestWizard_FullSession(t *testing.T) {
	stub := planner.NewStub(planner.StubOptions{})
	script := append(profileAnswers(),
		false,          // no more goals
		reviewGenerate, // review menu
		followSimulate,
		followAsk, "Is voyager too risky?",
		followProjections,
		followQuit,
	)
	w, prompts, state, out := newTestWizard(t, stub, script)

	require.NoError(t, w.Run(context.Background()))
	assert.Empty(t, prompts.script)

	calls := stub.Calls()
	assert.Equal(t, 1, calls.Generate)
	assert.Equal(t, 1, calls.Evaluate)
	assert.Equal(t, 1, calls.Simulate)
	assert.Equal(t, 1, calls.Chat)

	text := out.String()
	for _, want := range []string{
		"Step 1 of 4",
		"Sentinel",
		"Voyager",
		"Sound",
		"The Optimistic Scenario",
		"A growth path for Asha",
		"Local projection at 12% a year",
	} {
		assert.Contains(t, text, want)
	}

	snap := state.Snapshot()
	assert.Equal(t, "Asha", snap.Input.Name)
	assert.True(t, snap.Input.Assets.OtherInvestments.IsEmpty())
	require.Len(t, snap.Chat.History, 2)
}

func TestWizard_ReasksOnlyInvalidFields(t *testing.T) {
	stub := planner.NewStub(planner.StubOptions{})
	script := []any{
		"Asha", "thirty", "150000", "60000",
		"30", // age asked again
		"500000", "800000", "", "0", "0",
		"Retirement", "10000000", "25", false,
		reviewQuit,
	}
	w, prompts, state, out := newTestWizard(t, stub, script)

	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, []string{"Name", "Age", "Monthly income", "Monthly expenses", "Age"}, prompts.asked[:5])
	assert.Contains(t, out.String(), "age")
	assert.Equal(t, model.Amount("30"), state.Snapshot().Input.Age)
	assert.Zero(t, stub.Calls().Generate)
}

func TestWizard_ExtraGoals(t *testing.T) {
	stub := planner.NewStub(planner.StubOptions{})
	script := append(profileAnswers(),
		true, "House", "3000000", "8",
		false,
		reviewQuit,
	)
	w, prompts, state, _ := newTestWizard(t, stub, script)

	require.NoError(t, w.Run(context.Background()))
	assert.Contains(t, prompts.asked, "Goal 2 name")
	goals := state.Snapshot().Input.Goals
	require.Len(t, goals, 2)
	assert.Equal(t, "House", goals[1].Name)
}

func TestWizard_EditFromReview(t *testing.T) {
	stub := planner.NewStub(planner.StubOptions{})
	script := append(profileAnswers(), false, reviewEditGoals,
		"Retirement", "20000000", "30", false,
		reviewQuit,
	)
	w, _, state, _ := newTestWizard(t, stub, script)

	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, model.Amount("20000000"), state.Snapshot().Input.Goals[0].TargetAmount)
}

func TestWizard_PlanFailure(t *testing.T) {
	stub := planner.NewStub(planner.StubOptions{GenerateErr: errors.New("planner exploded")})
	script := append(profileAnswers(), false, reviewGenerate,
		failureRetry,
		failureQuit,
	)
	w, _, state, out := newTestWizard(t, stub, script)

	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, 2, stub.Calls().Generate)
	assert.Zero(t, stub.Calls().Evaluate)
	assert.Contains(t, out.String(), "planner exploded")
	assert.Equal(t, session.StatusError, state.Snapshot().Plan.Status)
}

func TestWizard_StartOver(t *testing.T) {
	stub := planner.NewStub(planner.StubOptions{})
	script := append(profileAnswers(), false, reviewGenerate, followStartOver)
	script = append(script, profileAnswers()...)
	script = append(script, false, reviewQuit)
	w, _, state, out := newTestWizard(t, stub, script)

	require.NoError(t, w.Run(context.Background()))
	assert.Contains(t, out.String(), "Starting over.")
	snap := state.Snapshot()
	assert.Nil(t, snap.Plan.Plan)
	assert.Equal(t, "Asha", snap.Input.Name)
}

func TestWizard_AbortedPrompt(t *testing.T) {
	w, _, _, _ := newTestWizard(t, planner.NewStub(planner.StubOptions{}), []any{"Asha"})
	assert.ErrorIs(t, w.Run(context.Background()), ErrAborted)
}

func TestWizard_EmptyQuestion(t *testing.T) {
	stub := planner.NewStub(planner.StubOptions{})
	script := append(profileAnswers(), false, reviewGenerate,
		followAsk, "   ",
		followQuit,
	)
	w, _, _, out := newTestWizard(t, stub, script)

	require.NoError(t, w.Run(context.Background()))
	assert.Contains(t, out.String(), "Please type a question.")
	assert.Zero(t, stub.Calls().Chat)
}
