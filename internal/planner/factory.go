package planner

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/finpilot/internal/common"
)

// NewClient creates a planner based on the provided configuration.
// The "stub" provider answers locally and is used for demos and offline runs.
func NewClient(cfg Config, logger *slog.Logger) (Planner, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "http":
		return newHTTPClient(cfg, logger)
	case "stub":
		return NewStub(StubOptions{Delay: cfg.StubDelay}), nil
	default:
		return nil, fmt.Errorf("%w: unsupported planner provider: %s", common.ErrInvalidConfig, cfg.Provider)
	}
}
