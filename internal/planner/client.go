package planner

import (
	"context"
	"time"

	"github.com/Veraticus/finpilot/internal/model"
)

// Planner defines the operations offered by the planning service.
type Planner interface {
	GeneratePlan(ctx context.Context, req *model.PlanRequest) (*model.GeneratedPlan, error)
	EvaluatePlan(ctx context.Context, req *model.PlanRequest, plan *model.GeneratedPlan) (*model.EvaluationResult, error)
	SimulateScenarios(ctx context.Context, req *model.PlanRequest) ([]model.Scenario, error)
	Chat(ctx context.Context, req *model.ChatRequest) (string, error)
}

// Pinger is implemented by planners that can report service health.
type Pinger interface {
	Ping(ctx context.Context) (string, error)
}

// Config holds configuration for the planning service client.
type Config struct {
	Provider         string
	BaseURL          string
	APIKey           string
	Timeout          time.Duration
	RateLimit        int
	StubDelay        time.Duration
	ValidateContract bool
}
