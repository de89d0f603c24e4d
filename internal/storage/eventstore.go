package storage

import (
	"sync"

	"github.com/example/mediride/internal/models"
)

// EventStore defines persistence for the booking audit trail.
type EventStore interface {
	SaveEvent(ev *models.BookingEvent) error
}

type MemoryStore struct {
	mu     sync.RWMutex
	events []*models.BookingEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) SaveEvent(ev *models.BookingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *MemoryStore) Events() []*models.BookingEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.BookingEvent, len(m.events))
	copy(out, m.events)
	return out
}
