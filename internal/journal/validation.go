package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrInvalidCall = errors.New("invalid call")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func requireString(s, name string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, name)
	}
	return nil
}

// validateCall rejects entries the schema would refuse, with a readable reason.
func validateCall(call Call) error {
	var problems []error
	if err := requireString(call.SessionID, "sessionID"); err != nil {
		problems = append(problems, err)
	}
	if err := requireString(call.RequestID, "requestID"); err != nil {
		problems = append(problems, err)
	}
	if !call.Operation.valid() {
		problems = append(problems, fmt.Errorf("unknown operation %q", call.Operation))
	}
	if !call.Outcome.valid() {
		problems = append(problems, fmt.Errorf("unknown outcome %q", call.Outcome))
	}
	if call.Duration < 0 {
		problems = append(problems, errors.New("negative duration"))
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidCall, errors.Join(problems...))
}

func (o Operation) valid() bool {
	switch o {
	case OpGenerate, OpEvaluate, OpSimulate, OpChat:
		return true
	}
	return false
}

func (o Outcome) valid() bool {
	switch o {
	case OutcomeSuccess, OutcomeError, OutcomeDropped:
		return true
	}
	return false
}
