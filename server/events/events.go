package events

import (
	"encoding/json"
	"log/slog"

	"github.com/lazharichir/pokerodds/events"
	"github.com/lazharichir/pokerodds/server/connection"
)

// CommandRejected is the envelope name used to report a failed command.
const CommandRejected = "COMMAND_REJECTED"

// EventEnvelope wraps an event with its name for client consumption
type EventEnvelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Envelope encodes payload under name.
func Envelope(name string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(EventEnvelope{Name: name, Payload: data})
}

// Dispatcher handles routing events to clients
type Dispatcher struct {
	connMgr *connection.Manager
	logger  *slog.Logger
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(connMgr *connection.Manager, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		connMgr: connMgr,
		logger:  logger,
	}
}

// HandleEvent sends a run event to every client watching the run
func (d *Dispatcher) HandleEvent(event events.Event) {
	envelopeData, err := Envelope(event.EventName(), event)
	if err != nil {
		d.logger.Error("failed to marshal event", "event", event.EventName(), "error", err)
		return
	}

	runID := events.GetRunID(event)
	sent := d.connMgr.SendToRun(runID, envelopeData)
	d.logger.Debug("dispatching event", "event", event.EventName(), "runId", runID, "clients", sent)

	// Route event based on type
	switch event.(type) {
	case events.RunFinished, events.RunCancelled, events.RunFailed:
		// Nothing follows a final event.
		d.connMgr.ReleaseRun(runID)
	}
}

// Reject tells a client that one of its commands failed
func (d *Dispatcher) Reject(clientID string, cause error) {
	envelopeData, err := Envelope(CommandRejected, map[string]string{"error": cause.Error()})
	if err != nil {
		d.logger.Error("failed to marshal rejection", "error", err)
		return
	}
	d.connMgr.SendToClient(clientID, envelopeData)
}
