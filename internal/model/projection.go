package model

import (
	"math"
)

// maxProjectionMonths caps goal projections at one hundred years.
const maxProjectionMonths = 1200

// ProjectGoalTimeline estimates the years needed to reach target from an initial
// corpus plus a fixed monthly contribution compounding at annualRate (0.12 = 12%).
// Unreachable goals return +Inf.
func ProjectGoalTimeline(target, initial, monthly, annualRate float64) float64 {
	if initial >= target {
		return 0
	}
	if monthly <= 0 {
		return math.Inf(1)
	}
	if annualRate <= 0 {
		return (target - initial) / (monthly * 12)
	}

	monthlyRate := math.Pow(1+annualRate, 1.0/12) - 1
	value := initial
	months := 0
	for value < target {
		value += value*monthlyRate + monthly
		months++
		if months > maxProjectionMonths {
			return math.Inf(1)
		}
	}
	return math.Round(float64(months)/12*10) / 10
}

// GoalProjection is a local estimate for one goal.
type GoalProjection struct {
	Name          string
	Years         float64
	TimelineYears int
}

// OnTrack reports whether the projection meets the goal's own timeline.
func (g GoalProjection) OnTrack() bool {
	return !math.IsInf(g.Years, 1) && g.Years <= float64(g.TimelineYears)
}

// ProjectGoals projects every goal in req at annualRate.
func ProjectGoals(req *PlanRequest, annualRate float64) []GoalProjection {
	if req == nil {
		return nil
	}
	out := make([]GoalProjection, 0, len(req.Goals))
	for _, g := range req.Goals {
		out = append(out, GoalProjection{
			Name:          g.Name,
			TimelineYears: g.TimelineYears,
			Years:         ProjectGoalTimeline(g.TargetAmount, req.InvestedAssets(), req.MonthlySurplus(), annualRate),
		})
	}
	return out
}
