package commands

import "github.com/lazharichir/pokerodds/server/api"

type Command interface {
	Name() string
}

// StartEquity starts an equity run. RunID is optional; the server assigns
// one when it is empty and reports it in RUN_STARTED.
type StartEquity struct {
	RunID string `json:"runId,omitempty"`
	api.EquityRequest
}

func (s StartEquity) Name() string { return "START_EQUITY" }

type CancelRun struct {
	RunID string `json:"runId"`
}

func (c CancelRun) Name() string { return "CANCEL_RUN" }
