package session

import (
	"errors"
	"sync"
	"time"

	"chessview/internal/board"
	"chessview/internal/replay"
	"chessview/internal/source"
)

var (
	// ErrNoSuchGame is returned when selecting outside the game list.
	ErrNoSuchGame = errors.New("no such game in list")
	// ErrUnknownOp is returned for navigation ops other than first, prev,
	// next, last and goto.
	ErrUnknownOp = errors.New("unknown navigation op")
)

// Hub manages all viewer sessions
type Hub struct {
	Mu        sync.Mutex
	Sessions  map[string]*Session
	IdleAfter time.Duration
}

// Session is one viewer: the loaded game, its snapshots and cursor, the
// fetched game list and the SSE watchers following it.
type Session struct {
	Mu       sync.Mutex
	ID       string
	Board    *board.Display
	Watchers map[chan []byte]struct{}
	LastSeen time.Time

	record *source.GameRecord
	cursor replay.Cursor
	games  []source.GameRecord
	token  uint64
}

// Navigation ops accepted by Session.Navigate.
const (
	OpFirst    = "first"
	OpPrevious = "prev"
	OpNext     = "next"
	OpLast     = "last"
	OpGoTo     = "goto"
)

// NavRequest is the body of a navigation request
type NavRequest struct {
	Op    string `json:"op"`
	Index int    `json:"index"`
}

// FetchRequest asks for a user's games on a platform
type FetchRequest struct {
	Username string `json:"username"`
	Platform string `json:"platform"`
}

// SelectRequest picks a game from the fetched list
type SelectRequest struct {
	Index int `json:"index"`
}

// GameSummary is a game list entry without its move text
type GameSummary struct {
	White       string `json:"white"`
	Black       string `json:"black"`
	Result      string `json:"result"`
	Event       string `json:"event"`
	Date        string `json:"date"`
	URL         string `json:"url,omitempty"`
	Platform    string `json:"platform"`
	Approximate bool   `json:"approximate,omitempty"`
}

// State is what watchers receive after every change
type State struct {
	Kind     string             `json:"kind"`
	Loaded   bool               `json:"loaded"`
	Game     *source.GameRecord `json:"game,omitempty"`
	Games    []GameSummary      `json:"games"`
	Entries  []string           `json:"entries"`
	Index    int                `json:"index"`
	Length   int                `json:"length"`
	Current  int                `json:"current"`
	FEN      string             `json:"fen"`
	SAN      string             `json:"san"`
	LastSeen int64              `json:"lastSeen"`
	Watchers int                `json:"watchers"`
}

// Message kinds
const (
	MessageSuccess = "success"
	MessageError   = "error"
	MessageLoading = "loading"
)

// MessagePayload is a transient notice for the user
type MessagePayload struct {
	Kind string `json:"kind"`
	Type string `json:"type"`
	Text string `json:"text"`
	At   int64  `json:"at"`
}
