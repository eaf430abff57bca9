package connection

import (
	"slices"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents a connected websocket client
type Client struct {
	ID     string
	Conn   *websocket.Conn
	Send   chan []byte
	RunIDs []string // Runs the client is watching
}

// NewClient creates a client with a buffered send queue.
func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
}

// Manager handles all client connections
type Manager struct {
	clients map[string]*Client // Map connection IDs to clients
	mutex   sync.RWMutex
}

// NewManager creates a new connection manager
func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]*Client),
	}
}

// Register adds a client. Messages for it are queued from now on.
func (m *Manager) Register(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.clients[client.ID] = client
}

// Unregister removes a client and closes its send queue.
func (m *Manager) Unregister(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.clients[client.ID]; ok {
		delete(m.clients, client.ID)
		close(client.Send)
	}
}

// IsRegistered reports whether the manager knows the client.
func (m *Manager) IsRegistered(clientID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	_, ok := m.clients[clientID]
	return ok
}

// queue hands a message to a client without blocking; a client whose queue
// is full misses the message.
func queue(client *Client, message []byte) bool {
	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}

// SendToClient sends a message to a specific client
func (m *Manager) SendToClient(clientID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if client, ok := m.clients[clientID]; ok {
		return queue(client, message)
	}
	return false
}

// SendToRun sends a message to every client watching a run and returns how
// many received it.
func (m *Manager) SendToRun(runID string, message []byte) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	sent := 0
	for _, client := range m.clients {
		if slices.Contains(client.RunIDs, runID) && queue(client, message) {
			sent++
		}
	}
	return sent
}

// AddRunToClient subscribes a client to a run's events
func (m *Manager) AddRunToClient(clientID string, runID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if client, ok := m.clients[clientID]; ok {
		if !slices.Contains(client.RunIDs, runID) {
			client.RunIDs = append(client.RunIDs, runID)
		}
		return true
	}
	return false
}

// RemoveRunFromClient unsubscribes a client from a run
func (m *Manager) RemoveRunFromClient(clientID string, runID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if client, ok := m.clients[clientID]; ok {
		if i := slices.Index(client.RunIDs, runID); i >= 0 {
			client.RunIDs = slices.Delete(client.RunIDs, i, i+1)
			return true
		}
	}
	return false
}

// ReleaseRun unsubscribes every client from a run
func (m *Manager) ReleaseRun(runID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, client := range m.clients {
		client.RunIDs = slices.DeleteFunc(client.RunIDs, func(id string) bool { return id == runID })
	}
}

// IsClientWatchingRun checks if a client is subscribed to a run
func (m *Manager) IsClientWatchingRun(clientID string, runID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if client, ok := m.clients[clientID]; ok {
		return slices.Contains(client.RunIDs, runID)
	}
	return false
}

// ClientRuns returns a copy of the runs a client is watching.
func (m *Manager) ClientRuns(clientID string) []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if client, ok := m.clients[clientID]; ok {
		return slices.Clone(client.RunIDs)
	}
	return nil
}
