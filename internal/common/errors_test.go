package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("generate: %w", NewUserError("Could not reach the planning service.", cause))

	assert.Equal(t, "Could not reach the planning service.", UserMessage(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.Empty(t, UserMessage(nil))
}

func TestIsProgramming(t *testing.T) {
	assert.True(t, IsProgramming(fmt.Errorf("%w: unknown field", ErrProgramming)))
	assert.False(t, IsProgramming(ErrRemote))
}
