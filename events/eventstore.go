package events

import (
	"errors"
	"sync"
)

// ErrNoRunID is returned when appending an event that names no run.
var ErrNoRunID = errors.New("event has no run ID")

// EventStore is the interface for storing and retrieving events.
type EventStore interface {
	Append(event Event) error
	LoadEvents(runID string) ([]Event, error)
}

// InMemoryEventStore is an in-memory implementation of the EventStore interface.
// It keeps at most maxRuns runs and forgets the oldest first.
type InMemoryEventStore struct {
	events  map[string][]Event
	order   []string
	maxRuns int
	mutex   sync.RWMutex
}

// NewInMemoryEventStore creates a new in-memory event store. A maxRuns of
// zero keeps every run.
func NewInMemoryEventStore(maxRuns int) *InMemoryEventStore {
	return &InMemoryEventStore{
		events:  make(map[string][]Event),
		maxRuns: maxRuns,
	}
}

// Append adds a new event to the store.
func (s *InMemoryEventStore) Append(event Event) error {
	runID := GetRunID(event)
	if runID == "" {
		return ErrNoRunID
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.events[runID]; !exists {
		s.order = append(s.order, runID)
		if s.maxRuns > 0 && len(s.order) > s.maxRuns {
			delete(s.events, s.order[0])
			s.order = s.order[1:]
		}
	}
	s.events[runID] = append(s.events[runID], event)
	return nil
}

// LoadEvents retrieves all events for the given run in append order.
func (s *InMemoryEventStore) LoadEvents(runID string) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if events, exists := s.events[runID]; exists {
		// Make a copy to avoid potential race conditions
		result := make([]Event, len(events))
		copy(result, events)
		return result, nil
	}

	// Return empty slice if no events found
	return []Event{}, nil
}

// Runs returns the IDs of the stored runs, oldest first.
func (s *InMemoryEventStore) Runs() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return append([]string(nil), s.order...)
}
