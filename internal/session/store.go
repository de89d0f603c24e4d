package session

import (
	"errors"
	"sync"

	"github.com/example/mediride/internal/models"
)

// ErrNoSession is returned when no session is stored for the role.
var ErrNoSession = errors.New("no session for role")

// Store holds one cached session per role. It replaces the original
// ad hoc per-role key-value blobs with a single typed read/write/clear
// API; the backend's authentication response remains the source of truth.
type Store interface {
	Save(role models.Role, s models.Session) error
	Load(role models.Role) (models.Session, error)
	Clear(role models.Role) error
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[models.Role]models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[models.Role]models.Session)}
}

func (m *MemoryStore) Save(role models.Role, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[role] = s
	return nil
}

func (m *MemoryStore) Load(role models.Role) (models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[role]
	if !ok {
		return models.Session{}, ErrNoSession
	}
	return s, nil
}

func (m *MemoryStore) Clear(role models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, role)
	return nil
}
