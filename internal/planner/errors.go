package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/finpilot/internal/common"
)

// RemoteError is a non-2xx answer from the planning service.
type RemoteError struct {
	Detail     string
	StatusCode int
}

func (e *RemoteError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("planning service error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("planning service error (status %d): %s", e.StatusCode, e.Detail)
}

func (e *RemoteError) Unwrap() error {
	if e.StatusCode == http.StatusTooManyRequests {
		return common.ErrRateLimit
	}
	return common.ErrRemote
}

// newRemoteError reads the FastAPI {"detail": ...} body when there is one.
func newRemoteError(status int, body []byte) *RemoteError {
	var payload struct {
		Detail any `json:"detail"`
	}
	detail := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != nil {
		switch d := payload.Detail.(type) {
		case string:
			detail = d
		default:
			if b, err := json.Marshal(d); err == nil {
				detail = string(b)
			}
		}
	}
	return &RemoteError{StatusCode: status, Detail: truncate(detail, maxDetailRunes)}
}

const maxDetailRunes = 300

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// Describe turns a planner error into a message fit for the user.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var remote *RemoteError
	var netErr net.Error
	switch {
	case errors.As(err, &remote):
		if remote.Detail != "" {
			return remote.Detail
		}
		return fmt.Sprintf("The planning service failed (HTTP %d). Please try again.", remote.StatusCode)
	case errors.Is(err, common.ErrMalformedResponse):
		return "The planning service returned a response we could not understand."
	case errors.Is(err, context.DeadlineExceeded):
		return "The planning service took too long to respond."
	case errors.Is(err, context.Canceled):
		return "The request was canceled."
	case errors.As(err, &netErr):
		return "Could not reach the planning service. Check your connection and the service URL."
	default:
		return common.UserMessage(err)
	}
}
