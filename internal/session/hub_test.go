package session

import (
	"testing"
	"time"
)

func TestSessionPersistenceBeforeCleanup(t *testing.T) {
	h := NewHub()
	s := h.Get("test")

	// Simulate a session that was last seen 23 hours ago.
	s.Mu.Lock()
	s.LastSeen = time.Now().Add(-23 * time.Hour)
	s.Mu.Unlock()

	if n := h.Sweep(time.Now()); n != 0 {
		t.Fatalf("session removed before 24 hours of inactivity")
	}

	// Simulate a session that was last seen 25 hours ago.
	s.Mu.Lock()
	s.LastSeen = time.Now().Add(-25 * time.Hour)
	s.Mu.Unlock()

	h.Sweep(time.Now())

	if _, exists := h.Lookup("test"); exists {
		t.Fatalf("session not removed after 24 hours of inactivity")
	}
}

func TestWatchedSessionSurvivesCleanup(t *testing.T) {
	h := NewHub()
	s := h.Get("watched")
	s.AddWatcher(make(chan []byte, 1))

	s.Mu.Lock()
	s.LastSeen = time.Now().Add(-48 * time.Hour)
	s.Mu.Unlock()

	h.Sweep(time.Now())
	if _, exists := h.Lookup("watched"); !exists {
		t.Fatalf("session with a watcher was removed")
	}
}

func TestGetReturnsSameSession(t *testing.T) {
	h := NewHub()
	a := h.Get("g1")
	b := h.Get("g1")
	if a != b {
		t.Fatalf("expected the same session for the same id")
	}
	if c := h.Get("g2"); c == a {
		t.Fatalf("expected independent sessions for different ids")
	}
	if a.Board == nil || a.Watchers == nil {
		t.Fatalf("session not initialised")
	}
}
