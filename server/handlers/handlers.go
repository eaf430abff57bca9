package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lazharichir/pokerodds/events"
	"github.com/lazharichir/pokerodds/server/api"
	"github.com/lazharichir/pokerodds/server/commands"
	"github.com/lazharichir/pokerodds/server/connection"
)

var (
	// ErrUnknownCommand is returned for messages naming no known command.
	ErrUnknownCommand = errors.New("unknown command type")
	// ErrUnknownClient is returned for commands from a client the
	// connection manager no longer holds.
	ErrUnknownClient = errors.New("unknown client")
	// ErrRunIDTaken is returned when starting a run under the ID of a run
	// that already has history.
	ErrRunIDTaken = errors.New("run ID already used")
)

// CommandRouter routes incoming commands to the appropriate handler
type CommandRouter struct {
	runner  *Runner
	connMgr *connection.Manager
	history events.EventStore
}

// NewCommandRouter creates a new command router. history may be nil, in
// which case finished run IDs can be reused.
func NewCommandRouter(runner *Runner, connMgr *connection.Manager, history events.EventStore) *CommandRouter {
	return &CommandRouter{
		runner:  runner,
		connMgr: connMgr,
		history: history,
	}
}

// HandleCommand processes an incoming command message
func (r *CommandRouter) HandleCommand(client *connection.Client, message []byte) error {
	if !r.connMgr.IsRegistered(client.ID) {
		return fmt.Errorf("%w: %s", ErrUnknownClient, client.ID)
	}

	// First determine command type
	var baseCmd struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(message, &baseCmd); err != nil {
		return fmt.Errorf("%w: %v", api.ErrBadRequest, err)
	}

	// Route to appropriate handler based on command type
	switch baseCmd.Name {
	case commands.StartEquity{}.Name():
		var cmd commands.StartEquity
		if err := json.Unmarshal(message, &cmd); err != nil {
			return fmt.Errorf("%w: %v", api.ErrBadRequest, err)
		}
		return r.handleStartEquity(client, cmd)

	case commands.CancelRun{}.Name():
		var cmd commands.CancelRun
		if err := json.Unmarshal(message, &cmd); err != nil {
			return fmt.Errorf("%w: %v", api.ErrBadRequest, err)
		}
		return r.handleCancelRun(client, cmd)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, baseCmd.Name)
	}
}

func (r *CommandRouter) handleStartEquity(client *connection.Client, cmd commands.StartEquity) error {
	runID := cmd.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	if r.runner.Active(runID) {
		return fmt.Errorf("%w: %s", ErrRunExists, runID)
	}
	if r.history != nil {
		past, err := r.history.LoadEvents(runID)
		if err != nil {
			return err
		}
		if len(past) > 0 {
			return fmt.Errorf("%w: %s", ErrRunIDTaken, runID)
		}
	}

	// Subscribe first so the client sees RUN_STARTED. A client that loses
	// the race for runID must not stay subscribed to the winner's run.
	watching := r.connMgr.IsClientWatchingRun(client.ID, runID)
	r.connMgr.AddRunToClient(client.ID, runID)
	if err := r.runner.Start(runID, cmd.EquityRequest); err != nil {
		if !watching {
			r.connMgr.RemoveRunFromClient(client.ID, runID)
		}
		return err
	}
	return nil
}

func (r *CommandRouter) handleCancelRun(client *connection.Client, cmd commands.CancelRun) error {
	if !r.connMgr.IsClientWatchingRun(client.ID, cmd.RunID) {
		return fmt.Errorf("%w: %s", ErrUnknownRun, cmd.RunID)
	}
	return r.runner.Cancel(cmd.RunID)
}
