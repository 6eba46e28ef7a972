package replay

import (
	"errors"
	"strings"
	"testing"

	"github.com/corentings/chess/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ruyLopez = `[Event "Casual"]
[White "A"]
[Black "B"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 4. Ba4 Nf6 5. O-O Be7 6. Re1 b5 7. Bb3 1-0`

func TestFromPGNShortGame(t *testing.T) {
	seq, err := FromPGN("1. e4 e5 2. Nf3")
	require.NoError(t, err)
	require.Equal(t, 4, seq.Len())
	assert.Equal(t, 3, seq.Plies())

	assert.Equal(t, chess.StartingPosition().String(), seq.At(0).FEN)
	assert.Equal(t, StartLabel, seq.At(0).SAN)

	assert.Equal(t, "e4", seq.At(1).SAN)
	assert.True(t, strings.HasPrefix(seq.At(1).FEN, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b"))
	assert.Equal(t, "e5", seq.At(2).SAN)
	assert.True(t, strings.HasPrefix(seq.At(2).FEN, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w"))
	assert.Equal(t, "Nf3", seq.At(3).SAN)
	assert.True(t, strings.HasPrefix(seq.At(3).FEN, "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b"))
}

func TestFromPGNLengthIsPliesPlusOne(t *testing.T) {
	seq, err := FromPGN(ruyLopez)
	require.NoError(t, err)
	assert.Equal(t, 13, seq.Plies())
	assert.Equal(t, 14, seq.Len())
	assert.Equal(t, "O-O", seq.At(9).SAN)
}

func TestFromPGNIsDeterministic(t *testing.T) {
	a, err := FromPGN(ruyLopez)
	require.NoError(t, err)
	b, err := FromPGN(ruyLopez)
	require.NoError(t, err)
	assert.Equal(t, a.Snapshots(), b.Snapshots())
}

func TestFromPGNHeadersOnly(t *testing.T) {
	seq, err := FromPGN("[Event \"Empty\"]\n[Result \"*\"]\n\n*")
	require.NoError(t, err)
	assert.Equal(t, 1, seq.Len())
	assert.Empty(t, seq.Entries())
}

func TestFromPGNRejectsIllegalMove(t *testing.T) {
	_, err := FromPGN("[Event \"Bad\"]\n\n1. e4 e5 2. Ke5 *")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidGame))
}

func TestFromPGNRejectsEmptyText(t *testing.T) {
	_, err := FromPGN("   \n")
	assert.ErrorIs(t, err, ErrInvalidGame)
}

func TestFromPGNHonoursFENTag(t *testing.T) {
	const fen = "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"
	pgn := "[Event \"Ending\"]\n[SetUp \"1\"]\n[FEN \"" + fen + "\"]\n\n1. e4 Kd7 *"
	seq, err := FromPGN(pgn)
	require.NoError(t, err)
	require.Equal(t, 3, seq.Len())
	assert.Equal(t, fen, seq.At(0).FEN)
	assert.Equal(t, "Kd7", seq.At(2).SAN)
}

func TestEntriesNumbering(t *testing.T) {
	seq, err := FromPGN("1. e4 e5 2. Nf3")
	require.NoError(t, err)
	assert.Equal(t, []string{"1. e4", "e5", "2. Nf3"}, seq.Entries())
}

func TestExtractFromGame(t *testing.T) {
	g := chess.NewGame()
	require.NoError(t, g.PushMove("d4", nil))
	require.NoError(t, g.PushMove("d5", nil))

	seq, err := Extract(g)
	require.NoError(t, err)
	require.Equal(t, 3, seq.Len())
	assert.Equal(t, g.Position().String(), seq.At(2).FEN)
}

func loadedCursor(t *testing.T, text string) Cursor {
	t.Helper()
	seq, err := FromPGN(text)
	require.NoError(t, err)
	return NewCursor(seq)
}

func TestCursorBoundariesAreIdempotent(t *testing.T) {
	c := loadedCursor(t, "1. e4 e5 2. Nf3 Nc6")
	require.Equal(t, 5, c.Sequence().Len())

	assert.False(t, c.Previous())
	assert.Equal(t, 0, c.Index())
	assert.False(t, c.First())

	assert.True(t, c.Last())
	assert.Equal(t, 4, c.Index())
	assert.False(t, c.Next())
	assert.Equal(t, 4, c.Index())
	assert.False(t, c.Last())
}

func TestCursorGoToOutOfRangeIsNoop(t *testing.T) {
	c := loadedCursor(t, "1. e4 e5 2. Nf3 Nc6")
	require.True(t, c.GoTo(2))

	assert.False(t, c.GoTo(-1))
	assert.Equal(t, 2, c.Index())
	assert.False(t, c.GoTo(5))
	assert.Equal(t, 2, c.Index())
}

func TestCursorStepping(t *testing.T) {
	c := loadedCursor(t, "1. e4 e5 2. Nf3")
	assert.Equal(t, -1, c.CurrentEntry())
	assert.Equal(t, StartLabel, c.Current().SAN)

	require.True(t, c.Next())
	assert.Equal(t, 0, c.CurrentEntry())
	assert.Equal(t, "e4", c.Current().SAN)

	require.True(t, c.Next())
	require.True(t, c.Previous())
	assert.Equal(t, 1, c.Index())

	require.True(t, c.First())
	assert.Equal(t, 0, c.Index())
}

func TestZeroCursorIsAbsent(t *testing.T) {
	var c Cursor
	assert.False(t, c.Loaded())
	assert.False(t, c.Next())
	assert.False(t, c.Last())
	assert.False(t, c.GoTo(0))
	assert.Equal(t, Snapshot{}, c.Current())
}

func TestEntriesFollowStartingSideToMove(t *testing.T) {
	seq := &Sequence{snaps: []Snapshot{
		{FEN: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", SAN: StartLabel},
		{FEN: "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2", SAN: "e5"},
		{FEN: "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2", SAN: "Nf3"},
		{FEN: "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3", SAN: "Nc6"},
	}}
	assert.Equal(t, []string{"1... e5", "2. Nf3", "Nc6"}, seq.Entries())
}

func TestEntriesUseStartingMoveNumber(t *testing.T) {
	seq := &Sequence{snaps: []Snapshot{
		{FEN: "4k3/8/8/8/8/8/4P3/4K3 w - - 0 40", SAN: StartLabel},
		{FEN: "4k3/8/8/8/4P3/8/8/4K3 b - - 0 40", SAN: "e4"},
		{FEN: "3k4/8/8/8/4P3/8/8/4K3 w - - 1 41", SAN: "Kd8"},
	}}
	assert.Equal(t, []string{"40. e4", "Kd8"}, seq.Entries())
}
