package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectGoalTimeline(t *testing.T) {
	tests := []struct {
		name                             string
		target, initial, monthly, annual float64
		want                             float64
	}{
		{name: "already funded", target: 1000, initial: 5000, monthly: 0, annual: 0.1, want: 0},
		{name: "no contributions", target: 1000, initial: 0, monthly: 0, annual: 0.1, want: math.Inf(1)},
		{name: "zero return is simple savings", target: 12000, initial: 0, monthly: 1000, annual: 0, want: 1},
		{name: "one year with growth", target: 12000, initial: 0, monthly: 1000, annual: 0.12, want: 1},
		{name: "unreachable within a century", target: 1e12, initial: 0, monthly: 1, annual: 0.01, want: math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectGoalTimeline(tt.target, tt.initial, tt.monthly, tt.annual)
			if math.IsInf(tt.want, 1) {
				assert.True(t, math.IsInf(got, 1), "got %v", got)
				return
			}
			assert.InDelta(t, tt.want, got, 0.05)
		})
	}
}

func TestProjectGoals(t *testing.T) {
	req := &PlanRequest{
		MonthlyIncome:   50000,
		MonthlyExpenses: 20000,
		Assets:          AssetsPayload{EquityInvestments: 50000},
		Liabilities:     LiabilitiesPayload{LoansEMI: 5000},
		Goals: []GoalPayload{
			{Name: "Retirement", TargetAmount: 2000000, TimelineYears: 25},
			{Name: "Moon", TargetAmount: 1e15, TimelineYears: 5},
		},
	}

	got := ProjectGoals(req, 0.12)
	assert.Len(t, got, 2)
	assert.True(t, got[0].OnTrack())
	assert.Less(t, got[0].Years, 25.0)
	assert.False(t, got[1].OnTrack())
	assert.Nil(t, ProjectGoals(nil, 0.1))
}
