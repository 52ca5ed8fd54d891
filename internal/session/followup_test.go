package session

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/finpilot/internal/common"
	"github.com/Veraticus/finpilot/internal/journal"
	"github.com/Veraticus/finpilot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submittedState(t *testing.T, p *fakePlanner) *State {
	t.Helper()
	s := newTestState(t, p)
	fillAsha(t, s)
	require.NoError(t, s.Submit(context.Background()))
	s.Wait()
	require.Equal(t, StatusSuccess, s.Snapshot().Plan.Status)
	return s
}

func TestState_Simulate(t *testing.T) {
	t.Run("requires a plan", func(t *testing.T) {
		s := newTestState(t, &fakePlanner{})
		require.ErrorIs(t, s.Simulate(context.Background()), common.ErrNoPlan)
	})

	t.Run("stores scenarios", func(t *testing.T) {
		p := &fakePlanner{}
		s := submittedState(t, p)

		require.NoError(t, s.Simulate(context.Background()))
		s.Wait()

		snap := s.Snapshot()
		assert.Equal(t, StatusSuccess, snap.Scenarios.Status)
		require.Len(t, snap.Scenarios.Scenarios, 1)
		assert.Equal(t, "18 years", snap.Scenarios.Scenarios[0].ProjectedTimelines["Retirement"])
	})

	t.Run("failure leaves plan alone", func(t *testing.T) {
		p := &fakePlanner{simulateErr: errors.New("gemini timeout")}
		s := submittedState(t, p)

		require.NoError(t, s.Simulate(context.Background()))
		s.Wait()

		snap := s.Snapshot()
		assert.Equal(t, StatusError, snap.Scenarios.Status)
		assert.Equal(t, "gemini timeout", snap.Scenarios.Error)
		assert.Empty(t, snap.Scenarios.Scenarios)
		assert.Equal(t, StatusSuccess, snap.Plan.Status)
	})

	t.Run("new plan clears scenarios", func(t *testing.T) {
		p := &fakePlanner{plans: []string{planA, planB}}
		s := submittedState(t, p)
		require.NoError(t, s.Simulate(context.Background()))
		s.Wait()

		require.NoError(t, s.Submit(context.Background()))
		s.Wait()
		assert.Equal(t, StatusIdle, s.Snapshot().Scenarios.Status)
	})
}

func TestState_Ask(t *testing.T) {
	t.Run("rejects blank questions and missing plans", func(t *testing.T) {
		s := newTestState(t, &fakePlanner{})
		require.ErrorIs(t, s.Ask(context.Background(), "   "), ErrEmptyQuestion)
		require.ErrorIs(t, s.Ask(context.Background(), "why?"), common.ErrNoPlan)
	})

	t.Run("builds history", func(t *testing.T) {
		p := &fakePlanner{}
		s := submittedState(t, p)
		ctx := context.Background()

		require.NoError(t, s.Ask(ctx, "Why bonds?"))
		s.Wait()
		require.NoError(t, s.Ask(ctx, " And gold? "))
		s.Wait()

		snap := s.Snapshot()
		assert.Equal(t, StatusSuccess, snap.Chat.Status)
		assert.Empty(t, snap.Chat.Pending)
		assert.Equal(t, []model.ChatMessage{
			{Role: model.RoleUser, Content: "Why bonds?"},
			{Role: model.RoleAssistant, Content: "answer to Why bonds?"},
			{Role: model.RoleUser, Content: "And gold?"},
			{Role: model.RoleAssistant, Content: "answer to And gold?"},
		}, snap.Chat.History)

		require.Len(t, p.asked, 2)
		assert.Empty(t, p.asked[0].ChatHistory)
		assert.Len(t, p.asked[1].ChatHistory, 2)
		assert.Equal(t, "Asha", p.asked[1].UserProfile.Name)
	})

	t.Run("failure keeps history unchanged", func(t *testing.T) {
		p := &fakePlanner{chatErr: errors.New("upstream down")}
		s := submittedState(t, p)

		require.NoError(t, s.Ask(context.Background(), "Why bonds?"))
		s.Wait()

		snap := s.Snapshot()
		assert.Equal(t, StatusError, snap.Chat.Status)
		assert.Equal(t, "upstream down", snap.Chat.Error)
		assert.Empty(t, snap.Chat.History)
		assert.Empty(t, snap.Chat.Pending)
	})
}

func TestState_ResubmitClearsFollowUps(t *testing.T) {
	holdPlan := make(chan struct{})
	holdSim := make(chan struct{})
	holdChat := make(chan struct{})
	p := &fakePlanner{
		generateGates: []chan struct{}{nil, holdPlan},
		generateErrs:  []error{nil, errors.New("service unavailable")},
		simulateGates: []chan struct{}{holdSim},
		chatGates:     []chan struct{}{holdChat},
	}
	rec := &memoryRecorder{}
	s := newTestState(t, p, WithJournal(rec))
	fillAsha(t, s)
	ctx := context.Background()

	require.NoError(t, s.Submit(ctx))
	s.Wait()
	require.Equal(t, StatusSuccess, s.Snapshot().Evaluation.Status)

	require.NoError(t, s.Simulate(ctx))
	require.NoError(t, s.Ask(ctx, "Why bonds?"))
	require.NoError(t, s.Submit(ctx))

	loading := s.Snapshot()
	assert.Equal(t, StatusLoading, loading.Plan.Status)
	assert.Equal(t, StatusIdle, loading.Evaluation.Status)
	assert.Nil(t, loading.Evaluation.Result)
	assert.Equal(t, StatusIdle, loading.Scenarios.Status)
	assert.Equal(t, StatusIdle, loading.Chat.Status)
	assert.Empty(t, loading.Chat.Pending)

	close(holdSim)
	close(holdChat)
	close(holdPlan)
	s.Wait()

	snap := s.Snapshot()
	assert.Equal(t, StatusError, snap.Plan.Status)
	assert.Equal(t, "service unavailable", snap.Plan.Error)
	assert.Equal(t, StatusIdle, snap.Evaluation.Status)
	assert.Equal(t, StatusIdle, snap.Scenarios.Status)
	assert.Empty(t, snap.Scenarios.Scenarios)
	assert.Equal(t, StatusIdle, snap.Chat.Status)
	assert.Empty(t, snap.Chat.Pending)
	assert.Empty(t, snap.Chat.History)
	assert.Equal(t, []journal.Outcome{journal.OutcomeDropped}, rec.outcomes(journal.OpSimulate))
	assert.Equal(t, []journal.Outcome{journal.OutcomeDropped}, rec.outcomes(journal.OpChat))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}

func TestState_UpdateInput(t *testing.T) {
	s := newTestState(t, &fakePlanner{})

	require.NoError(t, s.UpdateInput(func(in *model.Input) error {
		in.Assets.CashEquivalents = "1200"
		return nil
	}))
	assert.Equal(t, model.Amount("1200"), s.Snapshot().Input.Assets.CashEquivalents)

	boom := errors.New("boom")
	err := s.UpdateInput(func(in *model.Input) error {
		in.Assets.CashEquivalents = "9"
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, model.Amount("1200"), s.Snapshot().Input.Assets.CashEquivalents)
}
