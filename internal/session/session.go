package session

import (
	"encoding/json"
	"fmt"
	"time"

	"chessview/internal/logging"
	"chessview/internal/replay"
	"chessview/internal/source"
)

// Touch updates the last seen timestamp for a session
func (s *Session) Touch() {
	s.Mu.Lock()
	s.LastSeen = time.Now()
	s.Mu.Unlock()
}

// Load replays rec and makes it the displayed game. On error the
// previously loaded game stays in place.
func (s *Session) Load(rec source.GameRecord) error {
	seq, err := replay.FromPGN(rec.PGN)
	if err != nil {
		return err
	}

	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.record = &rec
	s.cursor = replay.NewCursor(seq)
	logging.Debugf("session %s: loaded %s (%d plies)", s.ID, rec.Title(), seq.Plies())
	s.syncLocked()
	return nil
}

// SetGames replaces the game list shown to the user. Fetches still in
// flight are superseded and will not overwrite it.
func (s *Session) SetGames(games []source.GameRecord) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.token++
	s.setGamesLocked(games)
}

func (s *Session) setGamesLocked(games []source.GameRecord) {
	s.games = append([]source.GameRecord(nil), games...)
	s.broadcastLocked(s.StateLocked())
}

// Games returns a copy of the game list.
func (s *Session) Games() []source.GameRecord {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return append([]source.GameRecord(nil), s.games...)
}

// Select loads entry i of the game list.
func (s *Session) Select(i int) (source.GameRecord, error) {
	s.Mu.Lock()
	if i < 0 || i >= len(s.games) {
		s.Mu.Unlock()
		return source.GameRecord{}, fmt.Errorf("%w: %d", ErrNoSuchGame, i)
	}
	rec := s.games[i]
	s.Mu.Unlock()
	return rec, s.Load(rec)
}

// Navigate moves the cursor. It reports whether the position changed;
// moves outside the sequence and navigation without a game are no-ops.
func (s *Session) Navigate(op string, index int) (bool, error) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	var moved bool
	switch op {
	case OpFirst:
		moved = s.cursor.First()
	case OpPrevious:
		moved = s.cursor.Previous()
	case OpNext:
		moved = s.cursor.Next()
	case OpLast:
		moved = s.cursor.Last()
	case OpGoTo:
		moved = s.cursor.GoTo(index)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
	if moved {
		s.syncLocked()
	}
	return moved, nil
}

// Record returns the loaded game, if any.
func (s *Session) Record() (source.GameRecord, bool) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.record == nil {
		return source.GameRecord{}, false
	}
	return *s.record, true
}

// Index returns the cursor position, or -1 without a game.
func (s *Session) Index() int {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if !s.cursor.Loaded() {
		return -1
	}
	return s.cursor.Index()
}

// BeginFetch issues the token for a new fetch. Only the most recently
// issued token may later update the session.
func (s *Session) BeginFetch() uint64 {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.token++
	return s.token
}

// Latest reports whether token is the most recently issued one.
func (s *Session) Latest(token uint64) bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return token == s.token
}

// CompleteFetch stores games as the list if token is still the latest;
// results of superseded fetches are discarded.
func (s *Session) CompleteFetch(token uint64, games []source.GameRecord) bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if token != s.token {
		logging.Debugf("session %s: discarding stale fetch %d (latest %d)", s.ID, token, s.token)
		return false
	}
	s.setGamesLocked(games)
	return true
}

// syncLocked pushes the current snapshot to the board and to every
// watcher. Must be called with the lock held.
func (s *Session) syncLocked() {
	if s.cursor.Loaded() {
		s.Board.SetPosition(s.cursor.Current().FEN)
	}
	s.broadcastLocked(s.StateLocked())
}

// StateLocked returns the current session state (must be called with lock held)
func (s *Session) StateLocked() State {
	st := State{
		Kind:     "state",
		Games:    summarize(s.games),
		Entries:  []string{},
		Index:    -1,
		Current:  -1,
		FEN:      s.Board.Position(),
		LastSeen: s.LastSeen.UnixMilli(),
		Watchers: len(s.Watchers),
	}
	if s.record != nil && s.cursor.Loaded() {
		rec := *s.record
		snap := s.cursor.Current()
		st.Loaded = true
		st.Game = &rec
		st.Entries = s.cursor.Sequence().Entries()
		st.Index = s.cursor.Index()
		st.Length = s.cursor.Sequence().Len()
		st.Current = s.cursor.CurrentEntry()
		st.FEN = snap.FEN
		st.SAN = snap.SAN
	}
	return st
}

// State returns the current session state.
func (s *Session) State() State {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.StateLocked()
}

func summarize(games []source.GameRecord) []GameSummary {
	out := make([]GameSummary, 0, len(games))
	for _, g := range games {
		out = append(out, GameSummary{
			White:       g.White,
			Black:       g.Black,
			Result:      g.Result,
			Event:       g.Event,
			Date:        g.Date,
			URL:         g.URL,
			Platform:    g.Platform,
			Approximate: g.Approximate,
		})
	}
	return out
}

// Notify sends a transient message to all watchers
func (s *Session) Notify(kind, text string) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.broadcastLocked(MessagePayload{
		Kind: "message",
		Type: kind,
		Text: text,
		At:   time.Now().UnixMilli(),
	})
}

// broadcastLocked sends v to all watchers without blocking on slow ones.
func (s *Session) broadcastLocked(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Errorf("session %s: encode broadcast: %v", s.ID, err)
		return
	}
	for ch := range s.Watchers {
		select {
		case ch <- data:
		default:
		}
	}
}

// AddWatcher adds a new watcher channel
func (s *Session) AddWatcher(ch chan []byte) {
	s.Mu.Lock()
	s.Watchers[ch] = struct{}{}
	s.Mu.Unlock()
}

// RemoveWatcher removes a watcher channel
func (s *Session) RemoveWatcher(ch chan []byte) {
	s.Mu.Lock()
	delete(s.Watchers, ch)
	s.Mu.Unlock()
}
