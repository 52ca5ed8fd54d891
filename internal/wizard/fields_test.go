package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finpilot/internal/model"
)

func TestFields_CoverEveryValidatedPath(t *testing.T) {
	in := model.NewInput()
	in.AddGoal()

	_, err := in.Validate()
	var fieldErrs model.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	paths := map[string]bool{}
	for step := StepProfile; step < StepReview; step++ {
		for _, f := range Fields(step, in) {
			paths[f.ErrorPath()] = true
		}
	}
	for _, fe := range fieldErrs {
		assert.True(t, paths[fe.Path], "no field for %s", fe.Path)
	}
}

func TestFields_GoalsStep(t *testing.T) {
	in := model.NewInput()
	in.AddGoal()

	fields := Fields(StepGoals, in)
	require.Len(t, fields, 2*FieldsPerGoal)
	assert.Equal(t, "Goal 2 name", fields[FieldsPerGoal].Label)
	assert.Equal(t, "goals[1].target_amount", fields[FieldsPerGoal+1].ErrorPath())
	assert.Empty(t, Fields(StepReview, in))
}

func TestField_ApplyAndValue(t *testing.T) {
	in := model.NewInput()
	for step := StepProfile; step < StepReview; step++ {
		for _, f := range Fields(step, in) {
			require.NoError(t, f.Apply(in, "42"), f.Label)
			got, err := f.Value(in)
			require.NoError(t, err)
			assert.Equal(t, "42", got, f.Label)
		}
	}
	assert.Equal(t, model.Amount("42"), in.Liabilities.LoansEMI)
	assert.Equal(t, "42", in.Goals[0].Name)
}

func TestFields_OnlyOtherInvestmentsIsOptional(t *testing.T) {
	for _, f := range Fields(StepAssetsLiabilities, model.NewInput()) {
		assert.Equal(t, f.Path == model.FieldOtherInvestments, f.Optional, f.Label)
	}
}
