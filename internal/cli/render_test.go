package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finpilot/internal/journal"
	"github.com/Veraticus/finpilot/internal/model"
)

func newTestRenderer(t *testing.T) (*Renderer, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	r, err := NewRenderer(out, "ascii", 0.12)
	require.NoError(t, err)
	return r, out
}

func TestRenderer_Plan(t *testing.T) {
	r, out := newTestRenderer(t)
	r.Plan(&model.GeneratedPlan{
		Sentinel: model.Strategy{
			Summary:         "Steady.",
			AssetAllocation: map[string]string{"equities": "30%", "bonds": "60%"},
			GoalTimelines:   map[string]string{"Retirement": "27"},
		},
		Voyager: model.Strategy{Summary: "Bold.", Recommendations: []string{"Buy an index fund."}},
	})

	text := out.String()
	assert.Contains(t, text, "Sentinel")
	assert.Contains(t, text, "Steady.")
	assert.Contains(t, text, "Retirement")
	assert.Contains(t, text, "Buy an index fund.")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("bonds")), bytes.Index(out.Bytes(), []byte("equities")))
}

func TestRenderer_Evaluation(t *testing.T) {
	r, out := newTestRenderer(t)
	r.Evaluation(&model.EvaluationResult{Verdict: "Sound", Risks: []string{"Concentration"}})
	assert.Contains(t, out.String(), "Sound")
	assert.Contains(t, out.String(), "Concentration")

	out.Reset()
	r.Evaluation(model.FailedEvaluation("The planning service took too long to respond."))
	assert.Contains(t, out.String(), "Evaluation failed")

	out.Reset()
	r.Evaluation(nil)
	assert.Empty(t, out.String())
}

func TestRenderer_ProjectionsAndStats(t *testing.T) {
	r, out := newTestRenderer(t)
	r.Projections(&model.PlanRequest{
		MonthlyIncome: 100000,
		Assets:        model.AssetsPayload{EquityInvestments: 100000},
		Goals: []model.GoalPayload{
			{Name: "Car", TargetAmount: 50000, TimelineYears: 1},
			{Name: "Moon", TargetAmount: 1e15, TimelineYears: 5},
		},
	})
	text := out.String()
	assert.Contains(t, text, "Car")
	assert.Contains(t, text, "on track")
	assert.Contains(t, text, "never at this surplus")

	out.Reset()
	r.Stats([]journal.OperationStats{{Operation: journal.OpGenerate, Calls: 2, Failures: 1, AvgDuration: 1500 * time.Millisecond}})
	assert.Contains(t, out.String(), "generate")
	assert.Contains(t, out.String(), "1.5s")
}

func TestTranslateSurveyErr(t *testing.T) {
	assert.ErrorIs(t, translateSurveyErr(terminal.InterruptErr), ErrAborted)
	other := errors.New("tty gone")
	assert.Equal(t, other, translateSurveyErr(other))
	assert.Equal(t, 1, indexOf([]string{"a", "b"}, "b"))
	assert.Equal(t, -1, indexOf([]string{"a"}, "z"))
}
