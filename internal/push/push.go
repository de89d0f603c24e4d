package push

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/example/mediride/internal/bidding"
)

// Session is one connected bid-feed viewer.
type Session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *Session) Send(bids []bidding.RankedBid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(bids)
}

// Registry tracks which viewers watch which booking. When a bid is placed
// or approved through the proxy, every watcher gets the freshly ranked
// bid list. Push is advisory; views still re-fetch canonical state.
type Registry struct {
	mu       sync.RWMutex
	watchers map[string]map[*Session]struct{} // booking id -> sessions
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{watchers: make(map[string]map[*Session]struct{}), logger: logger}
}

func (r *Registry) Watch(bookingID string, conn *websocket.Conn) *Session {
	s := &Session{conn: conn}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.watchers[bookingID] == nil {
		r.watchers[bookingID] = make(map[*Session]struct{})
	}
	r.watchers[bookingID][s] = struct{}{}
	return s
}

func (r *Registry) Unwatch(bookingID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.watchers[bookingID]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(r.watchers, bookingID)
		}
	}
	_ = s.conn.Close()
}

// Broadcast sends the ranked bid set to every watcher of the booking.
// Dead connections are dropped from the registry.
func (r *Registry) Broadcast(bookingID string, bids []bidding.RankedBid) {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.watchers[bookingID]))
	for s := range r.watchers[bookingID] {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		if err := s.Send(bids); err != nil {
			if r.logger != nil {
				r.logger.Warn("bid feed send failed", "booking_id", bookingID, "error", err)
			}
			r.Unwatch(bookingID, s)
		}
	}
}

func (r *Registry) WatcherCount(bookingID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.watchers[bookingID])
}
