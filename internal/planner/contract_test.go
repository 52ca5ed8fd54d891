package planner

import (
	"context"
	"testing"

	"github.com/Veraticus/finpilot/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContract(t *testing.T) {
	contract, err := LoadContract(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name    string
		schema  string
		body    string
		wantErr bool
	}{
		{name: "plan", schema: SchemaGeneratedPlan, body: planBody},
		{name: "plan missing voyager", schema: SchemaGeneratedPlan, body: `{"sentinel_plan": {"summary": "x"}}`, wantErr: true},
		{name: "plan with empty strategy", schema: SchemaGeneratedPlan, body: `{"sentinel_plan": {}, "voyager_plan": {"summary": "x"}}`, wantErr: true},
		{name: "evaluation with extra fields", schema: SchemaEvaluation, body: `{"score": 8, "notes": {"any": "thing"}}`},
		{name: "evaluation score as text", schema: SchemaEvaluation, body: `{"score": "high"}`, wantErr: true},
		{name: "scenarios", schema: SchemaScenarios, body: `{"scenarios": [{"name": "Bear", "parameters": {}}]}`},
		{name: "scenarios empty", schema: SchemaScenarios, body: `{"scenarios": []}`, wantErr: true},
		{name: "not json", schema: SchemaHealth, body: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := contract.Check(tt.schema, []byte(tt.body))
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
		})
	}

	t.Run("unknown schema", func(t *testing.T) {
		err := contract.Check("Nope", []byte(`{}`))
		require.ErrorIs(t, err, common.ErrProgramming)
	})

	t.Run("profile", func(t *testing.T) {
		require.NoError(t, contract.CheckValue(SchemaUserProfile, testRequest()))

		req := testRequest()
		req.Goals[0].TargetAmount = 0
		assert.Error(t, contract.CheckValue(SchemaUserProfile, req))
	})
}
