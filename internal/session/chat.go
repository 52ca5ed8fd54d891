package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Veraticus/finpilot/internal/common"
	"github.com/Veraticus/finpilot/internal/journal"
	"github.com/Veraticus/finpilot/internal/model"
	"github.com/Veraticus/finpilot/internal/planner"
	"github.com/google/uuid"
)

// ErrEmptyQuestion is returned by Ask for a blank question.
var ErrEmptyQuestion = errors.New("question is empty")

// ChatState is the follow-up Q&A about the current plan. Pending holds the
// question in flight; it joins History only once answered.
type ChatState struct {
	Pending string
	Error   string
	History []model.ChatMessage
	Status  Status
}

func (c ChatState) clone() ChatState {
	out := c
	out.History = append([]model.ChatMessage(nil), c.History...)
	return out
}

// Ask sends a follow-up question about the current plan. One question may be in
// flight at a time.
func (s *State) Ask(ctx context.Context, question string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrEmptyQuestion
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.plan.Plan == nil || s.plan.Request == nil {
		s.mu.Unlock()
		return common.ErrNoPlan
	}
	if s.chat.Status == StatusLoading {
		s.mu.Unlock()
		return common.ErrSubmitInFlight
	}

	req := &model.ChatRequest{
		UserProfile:   s.plan.Request,
		GeneratedPlan: s.plan.Plan,
		NewQuestion:   question,
		ChatHistory:   append([]model.ChatMessage{}, s.chat.History...),
	}
	planID := s.plan.RequestID
	epoch := s.epoch
	sessionID := s.sessionID
	requestID := uuid.NewString()
	scope := s.scope
	s.chat.Status = StatusLoading
	s.chat.Pending = question
	s.chat.Error = ""
	s.wg.Add(1)
	s.mu.Unlock()
	s.notify()

	s.launch(ctx, scope, func(ctx context.Context) {
		start := time.Now()
		answer, err := s.planner.Chat(ctx, req)

		s.mu.Lock()
		current := epoch == s.epoch && planID == s.plan.RequestID
		if current {
			s.chat.Pending = ""
			if err != nil {
				s.chat.Status = StatusError
				s.chat.Error = planner.Describe(err)
			} else {
				s.chat.Status = StatusSuccess
				s.chat.History = append(s.chat.History,
					model.ChatMessage{Role: model.RoleUser, Content: question},
					model.ChatMessage{Role: model.RoleAssistant, Content: answer})
			}
		}
		s.mu.Unlock()

		call := journal.Call{
			SessionID: sessionID,
			RequestID: requestID,
			Operation: journal.OpChat,
			Outcome:   outcomeOf(err, current),
			StartedAt: start,
			Duration:  time.Since(start),
		}
		if err != nil {
			call.Detail = err.Error()
		}
		s.record(call)

		if current {
			s.notify()
		}
	})
	return nil
}
