package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// FallbackMoves is the placeholder move text used when Lichess returns a
// game without moves. Records built from it are marked Approximate.
const FallbackMoves = "1. e4 e5"

type lichessUser struct {
	Name string `json:"name"`
}

type lichessPlayer struct {
	User    *lichessUser `json:"user"`
	AILevel int          `json:"aiLevel"`
}

type lichessClock struct {
	Initial   int `json:"initial"`
	Increment int `json:"increment"`
}

type lichessGame struct {
	ID        string `json:"id"`
	Speed     string `json:"speed"`
	Status    string `json:"status"`
	Winner    string `json:"winner"`
	CreatedAt int64  `json:"createdAt"`
	Moves     string `json:"moves"`
	PGN       string `json:"pgn"`
	Players   struct {
		White lichessPlayer `json:"white"`
		Black lichessPlayer `json:"black"`
	} `json:"players"`
	Clock *lichessClock `json:"clock"`
}

// Lichess fetches a user's recent games from the Lichess export API.
type Lichess struct {
	BaseURL   string
	Client    *http.Client
	UserAgent string
	Limit     int
}

// Fetch returns up to Limit games, newest first as Lichess orders them.
func (l *Lichess) Fetch(ctx context.Context, username string) ([]GameRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}
	limit := l.Limit
	if limit <= 0 {
		limit = 10
	}

	q := url.Values{}
	q.Set("max", strconv.Itoa(limit))
	q.Set("format", "json")
	u := strings.TrimRight(l.BaseURL, "/") + "/api/games/user/" + url.PathEscape(username) + "?" + q.Encode()

	body, err := get(ctx, l.Client, u, l.UserAgent, "application/x-ndjson", ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	games, err := decodeNDJSON(body, limit)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: %s has no games", ErrEmptyResult, username)
	}
	out := make([]GameRecord, 0, len(games))
	for _, g := range games {
		out = append(out, lichessRecord(g))
	}
	return out, nil
}

func decodeNDJSON(r io.Reader, limit int) ([]lichessGame, error) {
	dec := json.NewDecoder(r)
	var games []lichessGame
	for len(games) < limit {
		var g lichessGame
		err := dec.Decode(&g)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: decode game %d: %v", ErrFetch, len(games)+1, err)
		}
		games = append(games, g)
	}
	return games, nil
}

func lichessResult(winner, status string) string {
	switch winner {
	case "white":
		return "1-0"
	case "black":
		return "0-1"
	}
	switch status {
	case "draw", "stalemate":
		return "1/2-1/2"
	}
	return "*"
}

func lichessName(p lichessPlayer) string {
	switch {
	case p.User != nil && p.User.Name != "":
		return p.User.Name
	case p.AILevel > 0:
		return fmt.Sprintf("Stockfish level %d", p.AILevel)
	}
	return "Anonymous"
}

func lichessRecord(g lichessGame) GameRecord {
	rec := GameRecord{
		White:     lichessName(g.Players.White),
		Black:     lichessName(g.Players.Black),
		Result:    lichessResult(g.Winner, g.Status),
		Event:     "Lichess " + g.Speed,
		Date:      "????.??.??",
		Platform:  PlatformLichess,
		TimeClass: g.Speed,
	}
	if g.ID != "" {
		rec.URL = "https://lichess.org/" + g.ID
	}
	if g.Clock != nil {
		rec.Event += " " + clockLabel(g.Clock.Initial, g.Clock.Increment)
	}
	rec.Event = strings.TrimSpace(rec.Event)
	if g.CreatedAt > 0 {
		rec.Date = pgnDate(time.UnixMilli(g.CreatedAt))
	}

	if strings.TrimSpace(g.PGN) != "" {
		rec.PGN = strings.TrimSpace(g.PGN)
		return rec
	}
	rec.PGN = SynthesizePGN(rec, g.Moves)
	rec.Approximate = true
	return rec
}

// clockLabel renders a time control as minutes+increment the way Lichess
// shows it: half minutes as "½" and other sub-minute starts in seconds.
func clockLabel(initial, increment int) string {
	mins, secs := initial/60, initial%60
	base := strconv.Itoa(mins)
	switch {
	case secs == 30 && mins == 0:
		base = "½"
	case secs == 30:
		base += "½"
	case secs != 0 && mins == 0:
		base = strconv.Itoa(secs) + "s"
	}
	return fmt.Sprintf("%s+%d", base, increment)
}

// SynthesizePGN writes a minimal tag section for rec followed by moves,
// a space separated SAN list, numbered as PGN move text. Empty moves are
// replaced with FallbackMoves.
func SynthesizePGN(rec GameRecord, moves string) string {
	var sb strings.Builder
	writeTag := func(k, v string) {
		fmt.Fprintf(&sb, "[%s %q]\n", k, v)
	}
	writeTag("Event", rec.Event)
	site := rec.URL
	if site == "" {
		site = "?"
	}
	writeTag("Site", site)
	writeTag("Date", rec.Date)
	writeTag("White", rec.White)
	writeTag("Black", rec.Black)
	writeTag("Result", rec.Result)
	sb.WriteString("\n")

	fields := strings.Fields(moves)
	if len(fields) == 0 {
		sb.WriteString(FallbackMoves)
	} else {
		for i, mv := range fields {
			if i > 0 {
				sb.WriteByte(' ')
			}
			if i%2 == 0 {
				fmt.Fprintf(&sb, "%d. ", i/2+1)
			}
			sb.WriteString(mv)
		}
	}
	sb.WriteString(" ")
	sb.WriteString(rec.Result)
	return sb.String()
}
