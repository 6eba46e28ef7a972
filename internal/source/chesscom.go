package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chessview/internal/logging"
)

type chessComArchives struct {
	Archives []string `json:"archives"`
}

type chessComPlayer struct {
	Username string `json:"username"`
	Result   string `json:"result"`
}

type chessComGame struct {
	URL       string          `json:"url"`
	PGN       string          `json:"pgn"`
	EndTime   int64           `json:"end_time"`
	TimeClass string          `json:"time_class"`
	White     *chessComPlayer `json:"white"`
	Black     *chessComPlayer `json:"black"`
}

type chessComGames struct {
	Games []chessComGame `json:"games"`
}

// ChessCom fetches the latest games of a player from the Chess.com
// published-data API.
type ChessCom struct {
	BaseURL   string
	Client    *http.Client
	UserAgent string
	Limit     int
}

// Fetch returns up to Limit games from the player's most recent monthly
// archive, newest first.
func (c *ChessCom) Fetch(ctx context.Context, username string) ([]GameRecord, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, ErrEmptyUsername
	}

	archivesURL := strings.TrimRight(c.BaseURL, "/") + "/pub/player/" + url.PathEscape(username) + "/games/archives"
	var idx chessComArchives
	if err := c.getJSON(ctx, archivesURL, &idx, ErrUserNotFound); err != nil {
		return nil, err
	}
	if len(idx.Archives) == 0 {
		return nil, fmt.Errorf("%w: %s has no archives", ErrEmptyResult, username)
	}

	latest := idx.Archives[len(idx.Archives)-1]
	logging.Debugf("chess.com: %s latest archive %s", username, latest)
	var month chessComGames
	if err := c.getJSON(ctx, latest, &month, nil); err != nil {
		return nil, err
	}
	if len(month.Games) == 0 {
		return nil, fmt.Errorf("%w: %s archive is empty", ErrEmptyResult, username)
	}

	limit := c.Limit
	if limit <= 0 {
		limit = 10
	}
	games := month.Games
	if len(games) > limit {
		games = games[len(games)-limit:]
	}
	out := make([]GameRecord, 0, len(games))
	for i := len(games) - 1; i >= 0; i-- {
		out = append(out, chessComRecord(games[i]))
	}
	return out, nil
}

// getJSON decodes the response of u into v. Only the player lookup maps a
// 404 to a missing user; a missing archive month is a fetch failure.
func (c *ChessCom) getJSON(ctx context.Context, u string, v any, notFound error) error {
	body, err := get(ctx, c.Client, u, c.UserAgent, "application/json", notFound)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrFetch, u, err)
	}
	return nil
}

// chessComRecord prefers the tags of the embedded PGN and falls back to
// the JSON fields when a tag is missing.
func chessComRecord(g chessComGame) GameRecord {
	rec := GameRecord{
		PGN:       g.PGN,
		URL:       g.URL,
		Platform:  PlatformChessCom,
		TimeClass: g.TimeClass,
	}

	parsed, err := parseChess(g.PGN)
	if err != nil {
		logging.Debugf("chess.com: %s: %v", g.URL, err)
	}
	tag := func(k string) string {
		if parsed == nil {
			return ""
		}
		v := strings.TrimSpace(parsed.GetTagPair(k))
		if v == "?" || strings.Contains(v, "??") {
			return ""
		}
		return v
	}

	rec.White = tag("White")
	if rec.White == "" && g.White != nil {
		rec.White = g.White.Username
	}
	rec.Black = tag("Black")
	if rec.Black == "" && g.Black != nil {
		rec.Black = g.Black.Username
	}
	rec.Result = tag("Result")
	if rec.Result == "" {
		rec.Result = chessComResult(g.White, g.Black)
	}
	rec.Result = NormalizeResult(rec.Result)
	rec.Date = tag("Date")
	if rec.Date == "" && g.EndTime > 0 {
		rec.Date = pgnDate(time.Unix(g.EndTime, 0))
	}
	rec.Event = tag("Event")
	if rec.Event == "" {
		rec.Event = strings.TrimSpace("Chess.com " + g.TimeClass)
	}

	rec.White = orUnknown(rec.White)
	rec.Black = orUnknown(rec.Black)
	rec.Date = orUnknown(rec.Date)
	return rec
}

var chessComDraws = map[string]struct{}{
	"agreed": {}, "repetition": {}, "stalemate": {}, "insufficient": {},
	"50move": {}, "timevsinsufficient": {},
}

func chessComResult(white, black *chessComPlayer) string {
	if white == nil || black == nil {
		return "*"
	}
	switch {
	case white.Result == "win":
		return "1-0"
	case black.Result == "win":
		return "0-1"
	}
	if _, ok := chessComDraws[white.Result]; ok {
		return "1/2-1/2"
	}
	return "*"
}
