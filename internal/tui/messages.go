package tui

import (
	"github.com/Veraticus/finpilot/internal/journal"
)

// changedMsg is delivered when the session has changed since the last read.
type changedMsg struct{}

// feedClosedMsg is sent once the change feed stops.
type feedClosedMsg struct{}

// statsMsg carries activity statistics read from the journal.
type statsMsg struct {
	err   error
	stats []journal.OperationStats
}

// refreshMsg periodically re-reads the activity journal.
type refreshMsg struct{}
