package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chessview/internal/source"
)

func TestNilStoreIsNoop(t *testing.T) {
	var s *Store
	ctx := context.Background()

	id, err := s.SaveGame(ctx, source.GameRecord{PGN: "1. e4"}, 2)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, id)

	games, err := s.RecentGames(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, games)

	_, err = s.LoadGame(ctx, uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.SaveCursor(ctx, uuid.New(), uuid.New(), 3, time.Now()))

	stats, err := s.FetchStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Games)
	assert.NotNil(t, stats.ByPlat)
	assert.Nil(t, s.DB())
	assert.Nil(t, NewStore(nil))
}

func TestDigestDependsOnPlatformAndPGN(t *testing.T) {
	a := source.GameRecord{Platform: source.PlatformUpload, PGN: "1. e4 e5", White: "x"}
	b := source.GameRecord{Platform: source.PlatformUpload, PGN: "1. e4 e5", White: "y"}
	c := source.GameRecord{Platform: source.PlatformLichess, PGN: "1. e4 e5"}

	assert.Equal(t, Digest(a), Digest(b))
	assert.NotEqual(t, Digest(a), Digest(c))
	assert.Len(t, Digest(a), 64)
}

func TestRecordRoundTrip(t *testing.T) {
	rec := source.GameRecord{
		White: "W", Black: "B", Result: "1-0", Event: "E", Date: "2024.01.02",
		PGN: "1. e4", URL: "https://lichess.org/abc", Platform: source.PlatformLichess, Approximate: true,
	}
	row := FromRecord(rec, 2)
	assert.Equal(t, 2, row.Plies)
	assert.Equal(t, rec, row.Record())
}
