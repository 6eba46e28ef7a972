package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/corentings/chess/v2"

	"chessview/internal/logging"
	"chessview/internal/replay"
)

const eventMarker = "[Event"

// SplitGames cuts a multi-game PGN file into one chunk per game. A game
// starts at every line beginning with "[Event".
func SplitGames(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var (
		chunks []string
		cur    strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), eventMarker) {
			flush()
		}
		cur.WriteString(line)
	}
	flush()
	return chunks
}

// ParseBatch parses every game of a PGN file. Games that fail to parse are
// skipped; their errors are returned alongside the records.
func ParseBatch(text string) ([]GameRecord, []error) {
	var (
		recs []GameRecord
		errs []error
	)
	for i, chunk := range SplitGames(text) {
		rec, err := ParseGame(chunk, PlatformUpload)
		if err != nil {
			logging.Warnf("skipping game %d of batch: %v", i+1, err)
			errs = append(errs, fmt.Errorf("game %d: %w", i+1, err))
			continue
		}
		recs = append(recs, rec)
	}
	return recs, errs
}

// ReadFile reads an uploaded PGN file. Only names ending in .pgn are
// accepted; the check happens before anything is read.
func ReadFile(name string, r io.Reader) ([]GameRecord, error) {
	if !strings.HasSuffix(strings.ToLower(name), ".pgn") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, name)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	recs, errs := ParseBatch(string(raw))
	if len(recs) == 0 {
		if len(errs) > 0 {
			return nil, errs[0]
		}
		return nil, fmt.Errorf("%w: no games in %s", ErrInvalidPGN, name)
	}
	return recs, nil
}

// ParseGame parses a single PGN game and reads its header tags. The move
// text is replayed in full so a record is only returned for a game that
// can be stepped through.
func ParseGame(text, platform string) (GameRecord, error) {
	g, err := parseChess(text)
	if err != nil {
		return GameRecord{}, err
	}
	if _, err := replay.Extract(g); err != nil {
		return GameRecord{}, err
	}
	rec := GameRecord{
		White:    orUnknown(g.GetTagPair("White")),
		Black:    orUnknown(g.GetTagPair("Black")),
		Result:   NormalizeResult(g.GetTagPair("Result")),
		Event:    orUnknown(g.GetTagPair("Event")),
		Date:     orUnknown(g.GetTagPair("Date")),
		PGN:      strings.TrimSpace(text),
		Platform: platform,
	}
	if site := g.GetTagPair("Site"); strings.HasPrefix(site, "http://") || strings.HasPrefix(site, "https://") {
		rec.URL = site
	}
	if link := g.GetTagPair("Link"); rec.URL == "" && strings.HasPrefix(link, "https://") {
		rec.URL = link
	}
	return rec, nil
}

func parseChess(text string) (*chess.Game, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "[") {
		text = "[Event \"?\"]\n\n" + text
	}
	opt, err := chess.PGN(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPGN, err)
	}
	return chess.NewGame(opt), nil
}
