package cache

import (
	"context"
	"sync"
	"time"

	"github.com/lazharichir/pokerodds/odds"
)

type entry struct {
	report  *odds.EquityReport
	expires time.Time
}

// Memory is a process-local ResultCache with a fixed time to live.
type Memory struct {
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
	mutex   sync.RWMutex
}

// NewMemory creates an in-memory cache. A zero ttl never expires entries.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (m *Memory) Get(_ context.Context, key string) (*odds.EquityReport, bool, error) {
	m.mutex.RLock()
	e, ok := m.entries[key]
	m.mutex.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		m.mutex.Lock()
		delete(m.entries, key)
		m.mutex.Unlock()
		return nil, false, nil
	}
	return e.report, true, nil
}

func (m *Memory) Set(_ context.Context, key string, report *odds.EquityReport) error {
	e := entry{report: report}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.mutex.Lock()
	m.entries[key] = e
	m.mutex.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.entries)
}
