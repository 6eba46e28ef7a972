package session

import (
	"time"

	"chessview/internal/board"
)

// DefaultIdle is how long an unwatched session is kept.
const DefaultIdle = 24 * time.Hour

// NewHub creates a new session hub with cleanup goroutine
func NewHub() *Hub {
	h := &Hub{Sessions: make(map[string]*Session), IdleAfter: DefaultIdle}
	go func() {
		for {
			time.Sleep(5 * time.Minute)
			h.Sweep(time.Now())
		}
	}()
	return h
}

// Sweep drops sessions idle for longer than IdleAfter and without watchers.
func (h *Hub) Sweep(now time.Time) int {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	removed := 0
	for id, s := range h.Sessions {
		s.Mu.Lock()
		idle := now.Sub(s.LastSeen) > h.IdleAfter && len(s.Watchers) == 0
		s.Mu.Unlock()
		if idle {
			delete(h.Sessions, id)
			removed++
		}
	}
	return removed
}

// Get retrieves an existing session or creates a new one
func (h *Hub) Get(id string) *Session {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	if s, ok := h.Sessions[id]; ok {
		return s
	}
	s := New(id)
	h.Sessions[id] = s
	return s
}

// Lookup returns the session with id, if any.
func (h *Hub) Lookup(id string) (*Session, bool) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	s, ok := h.Sessions[id]
	return s, ok
}

// New returns an empty session with no game loaded.
func New(id string) *Session {
	return &Session{
		ID:       id,
		Board:    &board.Display{},
		Watchers: make(map[chan []byte]struct{}),
		LastSeen: time.Now(),
	}
}
