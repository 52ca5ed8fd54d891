package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/finpilot/internal/session"
)

// Feed wakes the program when the session changes. Signals coalesce: the
// model re-reads the session on every wake, so it never renders a stale copy
// and the session's listener never blocks on the program.
type Feed struct {
	ch     chan struct{}
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewFeed returns an idle feed.
func NewFeed() *Feed {
	return &Feed{
		ch:   make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Publish signals a change. Its signature matches session.WithListener.
func (f *Feed) Publish(session.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.ch <- struct{}{}:
	default:
	}
}

// Close stops the feed. Pending waits return feedClosedMsg.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.done)
}

// wait returns a command that blocks until the next change.
func (f *Feed) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-f.ch:
			return changedMsg{}
		case <-f.done:
			return feedClosedMsg{}
		case <-ctx.Done():
			return feedClosedMsg{}
		}
	}
}
