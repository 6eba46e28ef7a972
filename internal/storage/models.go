package storage

import (
	"time"

	"github.com/google/uuid"
)

// Game is an imported game record.
type Game struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Digest      string    `gorm:"uniqueIndex;size:64"`
	Platform    string    `gorm:"index"`
	White       string    `gorm:"index"`
	Black       string    `gorm:"index"`
	Result      string
	Event       string
	Date        string
	URL         string
	PGN         string
	Plies       int
	Approximate bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Cursors     []ViewCursor
}

// ViewCursor remembers where a viewer session stopped in a game.
type ViewCursor struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	GameID    uuid.UUID `gorm:"type:uuid;index"`
	Game      Game      `gorm:"constraint:OnDelete:CASCADE;"`
	Index     int
	LastSeen  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
