// Package source normalizes games from PGN files, Chess.com and Lichess
// into GameRecord values.
package source

import (
	"errors"
	"strings"
	"time"

	"chessview/internal/replay"
)

// Platform names.
const (
	PlatformUpload   = "upload"
	PlatformChessCom = "chesscom"
	PlatformLichess  = "lichess"
	PlatformSample   = "sample"
)

var (
	// ErrInvalidPGN is returned for move text the rules library rejects.
	ErrInvalidPGN = replay.ErrInvalidGame
	// ErrUserNotFound is returned when a platform has no such user.
	ErrUserNotFound = errors.New("user not found")
	// ErrFetch is returned for transport or upstream failures.
	ErrFetch = errors.New("fetch failed")
	// ErrEmptyResult is returned when a lookup succeeds with zero games.
	ErrEmptyResult = errors.New("no games found")

	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrEmptyUsername   = errors.New("empty username")
)

// GameRecord is one game in a uniform shape regardless of where it came
// from.
type GameRecord struct {
	White     string `json:"white"`
	Black     string `json:"black"`
	Result    string `json:"result"`
	Event     string `json:"event"`
	Date      string `json:"date"`
	PGN       string `json:"pgn"`
	URL       string `json:"url,omitempty"`
	Platform  string `json:"platform"`
	TimeClass string `json:"timeClass,omitempty"`
	// Approximate marks a PGN assembled from partial data. It is not a
	// faithful record of the game.
	Approximate bool `json:"approximate,omitempty"`
}

// Title is the "White vs Black" heading of a record.
func (r GameRecord) Title() string {
	return r.White + " vs " + r.Black
}

// NormalizeResult maps anything other than the four PGN result tokens to "*".
func NormalizeResult(s string) string {
	switch s = strings.TrimSpace(s); s {
	case "1-0", "0-1", "1/2-1/2", "*":
		return s
	case "½-½":
		return "1/2-1/2"
	}
	return "*"
}

// pgnDate formats t as a PGN Date tag value.
func pgnDate(t time.Time) string {
	return t.UTC().Format("2006.01.02")
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "?"
	}
	return s
}

// UserMessage renders err as the short text shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyUsername):
		return "Please enter a username"
	case errors.Is(err, ErrUnsupportedFile):
		return "Please select a PGN file"
	case errors.Is(err, ErrUnknownPlatform):
		return "Unknown platform"
	case errors.Is(err, ErrUserNotFound):
		return "User not found"
	case errors.Is(err, ErrEmptyResult):
		return "No games found"
	case errors.Is(err, ErrInvalidPGN):
		return "Error loading PGN: " + err.Error()
	case errors.Is(err, ErrFetch):
		return "Could not fetch games: " + err.Error()
	}
	return err.Error()
}
