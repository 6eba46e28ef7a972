// Package replay turns a parsed game into an indexed list of board
// snapshots and provides a cursor for stepping through it.
package replay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"
)

// StartLabel is the notation recorded for snapshot 0.
const StartLabel = "Starting position"

// ErrInvalidGame is returned when move text cannot be parsed or replayed.
var ErrInvalidGame = errors.New("invalid PGN")

// Snapshot is the board after one ply.
type Snapshot struct {
	FEN string `json:"fen"`
	SAN string `json:"san"`
}

// Sequence is the ordered list of snapshots of one game. Index 0 is the
// starting position; index i is the position after the i-th ply.
type Sequence struct {
	snaps []Snapshot
}

// FromPGN parses text with the rules library and extracts its sequence.
// Bare move text is given an empty tag section first.
func FromPGN(text string) (*Sequence, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty move text", ErrInvalidGame)
	}
	if !strings.HasPrefix(text, "[") {
		text = "[Event \"?\"]\n\n" + text
	}
	opt, err := chess.PGN(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGame, err)
	}
	return Extract(chess.NewGame(opt))
}

// Extract replays the main line of g on a fresh game and records the FEN
// and SAN after every move.
func Extract(g *chess.Game) (*Sequence, error) {
	replay, err := startingGame(g)
	if err != nil {
		return nil, err
	}

	moves := g.Moves()
	snaps := make([]Snapshot, 0, len(moves)+1)
	snaps = append(snaps, Snapshot{FEN: replay.Position().String(), SAN: StartLabel})

	notation := chess.AlgebraicNotation{}
	for i, m := range moves {
		san := notation.Encode(replay.Position(), m)
		if err := replay.PushNotationMove(san, notation, nil); err != nil {
			return nil, fmt.Errorf("%w: ply %d %q: %v", ErrInvalidGame, i+1, san, err)
		}
		snaps = append(snaps, Snapshot{FEN: replay.Position().String(), SAN: san})
	}
	return &Sequence{snaps: snaps}, nil
}

// startingGame returns an empty game at g's initial position, which is
// the standard one unless the PGN carried a FEN tag.
func startingGame(g *chess.Game) (*chess.Game, error) {
	fen := strings.TrimSpace(g.GetTagPair("FEN"))
	if fen == "" {
		return chess.NewGame(), nil
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: FEN tag: %v", ErrInvalidGame, err)
	}
	return chess.NewGame(opt), nil
}

// Len returns the number of snapshots, plies + 1.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.snaps)
}

// Plies returns the number of moves in the sequence.
func (s *Sequence) Plies() int {
	if s.Len() == 0 {
		return 0
	}
	return len(s.snaps) - 1
}

// At returns the snapshot at index i. It panics when i is out of range.
func (s *Sequence) At(i int) Snapshot {
	return s.snaps[i]
}

// Snapshots returns a copy of the snapshot list.
func (s *Sequence) Snapshots() []Snapshot {
	if s == nil {
		return nil
	}
	return append([]Snapshot(nil), s.snaps...)
}

// Entries renders the move list shown next to the board. Entry k belongs
// to snapshot k+1. Numbering follows the starting position, so a game set
// up with Black to move opens with "N... move".
func (s *Sequence) Entries() []string {
	if s.Len() <= 1 {
		return []string{}
	}
	num, black := moveNumber(s.snaps[0].FEN)
	out := make([]string, 0, len(s.snaps)-1)
	for i := 1; i < len(s.snaps); i++ {
		san := s.snaps[i].SAN
		switch {
		case !black:
			out = append(out, fmt.Sprintf("%d. %s", num, san))
		case i == 1:
			out = append(out, fmt.Sprintf("%d... %s", num, san))
		default:
			out = append(out, san)
		}
		if black {
			num++
		}
		black = !black
	}
	return out
}

// moveNumber reads the fullmove number and side to move of a FEN.
func moveNumber(fen string) (int, bool) {
	fields := strings.Fields(fen)
	num, black := 1, false
	if len(fields) > 1 {
		black = fields[1] == "b"
	}
	if len(fields) > 5 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n > 0 {
			num = n
		}
	}
	return num, black
}
