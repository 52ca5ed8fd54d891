package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlan = `{
  "sentinel_plan": {
    "summary": "Steady and safe.",
    "asset_allocation": {"equities": "30%", "bonds": "50%", "cash": "20%"},
    "projected_goal_timeline_years": {"Retirement": 27},
    "recommendations": ["Build a six month emergency fund", "Clear card debt"]
  },
  "voyager_plan": {
    "summary": "Growth first.",
    "asset_allocation": {"equities": "70%", "bonds": "20%", "crypto": "5%", "cash": "5%"},
    "projected_goal_timeline_years": {"Retirement": "22"},
    "recommendations": ["Increase SIP by 10% yearly"],
    "extra": {"owned": "by the service"}
  }
}`

func TestParsePlan(t *testing.T) {
	plan, err := ParsePlan([]byte(samplePlan))
	require.NoError(t, err)

	assert.Equal(t, "Steady and safe.", plan.Sentinel.Summary)
	assert.Equal(t, []string{"bonds", "cash", "equities"}, plan.Sentinel.AllocationKeys())
	assert.Equal(t, "27", plan.Sentinel.GoalTimelines["Retirement"])
	assert.Equal(t, "22", plan.Voyager.GoalTimelines["Retirement"])
	assert.Len(t, plan.Sentinel.Recommendations, 2)

	t.Run("unknown fields survive a round trip", func(t *testing.T) {
		data, err := json.Marshal(plan)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"owned":"by the service"`)
	})

	t.Run("malformed bodies are rejected", func(t *testing.T) {
		for _, body := range []string{``, `[]`, `{"sentinel_plan": {}}`, `{"voyager_plan": {"summary": "x"}}`, `not json`} {
			_, err := ParsePlan([]byte(body))
			assert.Error(t, err, body)
		}
	})
}

func TestGeneratedPlan_Fingerprint(t *testing.T) {
	a, err := ParsePlan([]byte(samplePlan))
	require.NoError(t, err)

	compact, err := json.Marshal(json.RawMessage(samplePlan))
	require.NoError(t, err)
	b, err := ParsePlan(compact)
	require.NoError(t, err)

	assert.NotEmpty(t, a.Fingerprint())
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "whitespace must not change identity")

	other := &GeneratedPlan{
		Sentinel: Strategy{Summary: "Steady and safe."},
		Voyager:  Strategy{Summary: "Something else."},
	}
	assert.NotEqual(t, a.Fingerprint(), other.Fingerprint())
	assert.Empty(t, (*GeneratedPlan)(nil).Fingerprint())
}

func TestEvaluationKey(t *testing.T) {
	plan, err := ParsePlan([]byte(samplePlan))
	require.NoError(t, err)
	req, err := ExampleInput().Validate()
	require.NoError(t, err)

	key := EvaluationKey(req, plan)
	assert.NotEmpty(t, key)
	assert.Equal(t, key, EvaluationKey(req.Clone(), plan.Clone()))

	richer := req.Clone()
	richer.MonthlyIncome = 999999
	assert.NotEqual(t, key, EvaluationKey(richer, plan), "same plan for a different profile is a different evaluation")
	assert.NotEqual(t, req.Fingerprint(), richer.Fingerprint())

	assert.Empty(t, EvaluationKey(nil, plan))
	assert.Empty(t, EvaluationKey(req, nil))
}

func TestParseEvaluation(t *testing.T) {
	t.Run("known fields", func(t *testing.T) {
		res, err := ParseEvaluation([]byte(`{"score": 7.5, "verdict": "Sound", "analysis": "**Good** start", "risks": ["No emergency fund"]}`))
		require.NoError(t, err)
		assert.True(t, res.HasScore)
		assert.InDelta(t, 7.5, res.Score, 1e-9)
		assert.Equal(t, "Sound", res.Verdict)
		assert.Equal(t, []string{"No emergency fund"}, res.Risks)
		assert.False(t, res.Failed())
		assert.NotEmpty(t, res.Raw)
	})

	t.Run("opaque payload", func(t *testing.T) {
		res, err := ParseEvaluation([]byte(`{"something": "else"}`))
		require.NoError(t, err)
		assert.False(t, res.HasScore)
		assert.JSONEq(t, `{"something": "else"}`, string(res.Raw))
	})

	t.Run("mistyped fields", func(t *testing.T) {
		res, err := ParseEvaluation([]byte(`{"verdict": 4, "analysis": ["a"], "risks": [null, "", 3, "Thin buffer", {"x": 1}]}`))
		require.NoError(t, err)
		assert.Empty(t, res.Verdict)
		assert.Empty(t, res.Analysis)
		assert.Equal(t, []string{"Thin buffer"}, res.Risks)

		res, err = ParseEvaluation([]byte(`{"risks": "not a list"}`))
		require.NoError(t, err)
		assert.Nil(t, res.Risks)
	})

	t.Run("error payload", func(t *testing.T) {
		_, err := ParseEvaluation([]byte(`{"error": "model overloaded"}`))
		assert.ErrorContains(t, err, "model overloaded")
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := ParseEvaluation([]byte(`"fine"`))
		assert.Error(t, err)
	})

	failed := FailedEvaluation("Could not retrieve plan analysis.")
	assert.True(t, failed.Failed())
	assert.Empty(t, failed.Raw)
}

func TestParseScenariosAndChat(t *testing.T) {
	scenarios, err := ParseScenarios([]byte(`{"scenarios": [{"name": "Bull", "narrative": "Boom", "parameters": {"avg_equity_return": 18, "avg_bond_return": 7.5, "avg_inflation": 4.5}, "projected_timelines": {"Retirement": "12.4 years", "Car": "1.1 years"}}]}`))
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.InDelta(t, 18, scenarios[0].Parameters.AvgEquityReturn, 1e-9)
	assert.Equal(t, []string{"Car", "Retirement"}, scenarios[0].GoalNames())

	_, err = ParseScenarios([]byte(`{"scenarios": []}`))
	assert.Error(t, err)

	for body, want := range map[string]string{
		`"Keep investing."`:               "Keep investing.",
		`{"answer": "Yes."}`:              "Yes.",
		`{"response": "Not right now."}`:  "Not right now.",
	} {
		got, err := ParseChatAnswer([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err = ParseChatAnswer([]byte(`{}`))
	assert.Error(t, err)
}

func TestGeneratedPlan_Clone(t *testing.T) {
	plan, err := ParsePlan([]byte(samplePlan))
	require.NoError(t, err)

	clone := plan.Clone()
	clone.Sentinel.AssetAllocation["equities"] = "99%"
	clone.Voyager.Recommendations[0] = "changed"

	assert.Equal(t, "30%", plan.Sentinel.AssetAllocation["equities"])
	assert.Equal(t, "Increase SIP by 10% yearly", plan.Voyager.Recommendations[0])
	assert.Equal(t, plan.Fingerprint(), plan.Clone().Fingerprint())
	assert.Nil(t, (*GeneratedPlan)(nil).Clone())
}

func TestEvaluationResult_Markdown(t *testing.T) {
	tests := []struct {
		result *EvaluationResult
		name   string
		want   []string
	}{
		{
			name:   "known fields",
			result: &EvaluationResult{Verdict: "Sound", Score: 7.5, HasScore: true, Risks: []string{"Concentration"}},
			want:   []string{"# Sound", "**Score:** 7.5 / 10", "## Risks", "- Concentration"},
		},
		{
			name:   "opaque payload",
			result: &EvaluationResult{Raw: []byte(`{"grade":"B"}`)},
			want:   []string{"```json", `{"grade":"B"}`, "```"},
		},
		{
			name:   "failure",
			result: FailedEvaluation("The planning service took too long to respond."),
			want:   []string{"**Evaluation failed:**", "too long"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			md := tc.result.Markdown()
			for _, w := range tc.want {
				assert.Contains(t, md, w)
			}
		})
	}

	var none *EvaluationResult
	assert.Empty(t, none.Markdown())
}
