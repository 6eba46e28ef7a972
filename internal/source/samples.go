package source

import (
	"context"
	"fmt"
	"strings"
)

type sample struct {
	whiteIsUser bool
	opponent    string
	result      string
	date        string
	moves       string
}

var samples = []sample{
	{true, "Opponent1", "1-0", "2024.08.07", "1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 4. Ba4 Nf6 5. O-O Be7 6. Re1 b5 7. Bb3"},
	{false, "Opponent2", "0-1", "2024.08.06", "1. d4 d5 2. c4 e6 3. Nc3 Nf6 4. Bg5 Be7 5. e3 O-O 6. Nf3"},
	{true, "Opponent3", "1/2-1/2", "2024.08.05", "1. e4 c5 2. Nf3 d6 3. d4 cxd4 4. Nxd4 Nf6 5. Nc3"},
}

// Samples returns three demonstration games with username as one of the
// players and platform as the event label.
func Samples(username, platform string) []GameRecord {
	username = orUnknown(username)
	event := strings.TrimSpace(platform + " Game")
	out := make([]GameRecord, 0, len(samples))
	for _, s := range samples {
		white, black := username, s.opponent
		if !s.whiteIsUser {
			white, black = s.opponent, username
		}
		pgn := fmt.Sprintf("[Event %q]\n[White %q]\n[Black %q]\n[Result %q]\n[Date %q]\n\n%s %s",
			event, white, black, s.result, s.date, s.moves, s.result)
		out = append(out, GameRecord{
			White:    white,
			Black:    black,
			Result:   s.result,
			Event:    event,
			Date:     s.date,
			PGN:      pgn,
			Platform: PlatformSample,
		})
	}
	return out
}

// SampleFetcher serves Samples for any username.
type SampleFetcher struct {
	Label string
}

func (s SampleFetcher) Fetch(ctx context.Context, username string) ([]GameRecord, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrEmptyUsername
	}
	return Samples(strings.TrimSpace(username), s.Label), nil
}
