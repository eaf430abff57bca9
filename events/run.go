package events

import (
	"time"

	"github.com/lazharichir/pokerodds/odds"
)

// RunStarted is emitted once a run passed validation and its workers start.
type RunStarted struct {
	RunID     string    `json:"runId"`
	Kind      string    `json:"kind"` // "equity" or "random"
	Players   []string  `json:"players"`
	Board     string    `json:"board,omitempty"`
	Dead      string    `json:"dead,omitempty"`
	Opponents int       `json:"opponents,omitempty"`
	StartedAt time.Time `json:"startedAt"`
}

func (e RunStarted) EventName() string { return "RUN_STARTED" }

// RunFinished carries the complete report of a run.
type RunFinished struct {
	RunID   string             `json:"runId"`
	Report  *odds.EquityReport `json:"report"`
	Cached  bool               `json:"cached"`
	Elapsed time.Duration      `json:"elapsed"`
}

func (e RunFinished) EventName() string { return "RUN_FINISHED" }

// RunCancelled carries whatever the workers completed before the run was
// cancelled. Report.Partial is always set.
type RunCancelled struct {
	RunID   string             `json:"runId"`
	Report  *odds.EquityReport `json:"report"`
	Elapsed time.Duration      `json:"elapsed"`
}

func (e RunCancelled) EventName() string { return "RUN_CANCELLED" }

// RunFailed is emitted when a run cannot produce a report.
type RunFailed struct {
	RunID string `json:"runId"`
	Error string `json:"error"`
}

func (e RunFailed) EventName() string { return "RUN_FAILED" }
