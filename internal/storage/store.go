package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chessview/internal/source"
)

// Store wraps a gorm DB instance and provides helper methods for persisting games.
// A nil *Store is valid and stores nothing.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new store helper from a gorm DB.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// DB exposes the underlying gorm DB instance.
func (s *Store) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.db
}

// ErrNotFound is returned when a record is not found.
var ErrNotFound = gorm.ErrRecordNotFound

// Digest identifies a record by platform and move text.
func Digest(rec source.GameRecord) string {
	sum := sha256.Sum256([]byte(rec.Platform + "\x00" + rec.PGN))
	return hex.EncodeToString(sum[:])
}

// FromRecord converts a record into a Game row.
func FromRecord(rec source.GameRecord, plies int) Game {
	return Game{
		Digest:      Digest(rec),
		Platform:    rec.Platform,
		White:       rec.White,
		Black:       rec.Black,
		Result:      rec.Result,
		Event:       rec.Event,
		Date:        rec.Date,
		URL:         rec.URL,
		PGN:         rec.PGN,
		Plies:       plies,
		Approximate: rec.Approximate,
	}
}

// Record converts a Game row back into a record.
func (g Game) Record() source.GameRecord {
	return source.GameRecord{
		White:       g.White,
		Black:       g.Black,
		Result:      g.Result,
		Event:       g.Event,
		Date:        g.Date,
		PGN:         g.PGN,
		URL:         g.URL,
		Platform:    g.Platform,
		Approximate: g.Approximate,
	}
}

// SaveGame inserts rec unless a row with the same digest exists, and
// returns the id of the stored row.
func (s *Store) SaveGame(ctx context.Context, rec source.GameRecord, plies int) (uuid.UUID, error) {
	if s == nil {
		return uuid.Nil, nil
	}
	row := FromRecord(rec, plies)
	row.ID = uuid.New()
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "digest"}}, DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return uuid.Nil, err
	}
	var stored Game
	if err := s.db.WithContext(ctx).Select("id").First(&stored, "digest = ?", row.Digest).Error; err != nil {
		return uuid.Nil, err
	}
	return stored.ID, nil
}

// RecentGames returns the most recently imported games.
func (s *Store) RecentGames(ctx context.Context, limit int) ([]Game, error) {
	if s == nil {
		return nil, nil
	}
	var games []Game
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&games).Error
	return games, err
}

// LoadGame fetches a stored game by id.
func (s *Store) LoadGame(ctx context.Context, id uuid.UUID) (*Game, error) {
	if s == nil {
		return nil, ErrNotFound
	}
	var game Game
	if err := s.db.WithContext(ctx).First(&game, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// SaveCursor upserts the position a session is looking at.
func (s *Store) SaveCursor(ctx context.Context, sessionID, gameID uuid.UUID, index int, lastSeen time.Time) error {
	if s == nil {
		return nil
	}
	cur := ViewCursor{
		SessionID: sessionID,
		GameID:    gameID,
		Index:     index,
		LastSeen:  lastSeen,
	}
	return s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Assign(map[string]any{
			"game_id":   gameID,
			"index":     index,
			"last_seen": lastSeen,
		}).
		FirstOrCreate(&cur).Error
}

// LoadCursor returns the saved cursor of a session.
func (s *Store) LoadCursor(ctx context.Context, sessionID uuid.UUID) (*ViewCursor, error) {
	if s == nil {
		return nil, ErrNotFound
	}
	var cur ViewCursor
	if err := s.db.WithContext(ctx).Preload("Game").First(&cur, "session_id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	return &cur, nil
}

// Stats represents aggregate counts for the home page.
type Stats struct {
	Games    int64            `json:"games"`
	Sessions int64            `json:"sessions"`
	ByPlat   map[string]int64 `json:"byPlatform"`
}

// FetchStats aggregates counts for display on the home page.
func (s *Store) FetchStats(ctx context.Context) (Stats, error) {
	stats := Stats{ByPlat: map[string]int64{}}
	if s == nil {
		return stats, nil
	}
	if err := s.db.WithContext(ctx).Model(&Game{}).Count(&stats.Games).Error; err != nil {
		return stats, err
	}
	if err := s.db.WithContext(ctx).Model(&ViewCursor{}).Count(&stats.Sessions).Error; err != nil {
		return stats, err
	}
	var rows []struct {
		Platform string
		N        int64
	}
	if err := s.db.WithContext(ctx).Model(&Game{}).Select("platform, count(*) as n").Group("platform").Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, r := range rows {
		stats.ByPlat[r.Platform] = r.N
	}
	return stats, nil
}
