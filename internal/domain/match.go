package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MatchMode string

const (
	MatchModeSolo   MatchMode = "solo"
	MatchModeVersus MatchMode = "versus"
)

// MatchPlayer is one entry of MatchRecord.Players.
type MatchPlayer struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// MatchRecord is an append-only audit entry written once when a match
// concludes. WinnerID is nil for a draw.
type MatchRecord struct {
	MatchID         uuid.UUID      `json:"match_id" gorm:"type:uuid;primary_key"`
	RoomID          *string        `json:"room_id" gorm:"size:8;index"`
	Mode            MatchMode      `json:"mode" gorm:"not null"`
	Players         datatypes.JSON `json:"players" gorm:"not null"`
	Scores          datatypes.JSON `json:"scores" gorm:"not null"`
	WinnerID        *string        `json:"winner_id" gorm:"size:20"`
	DurationSeconds int            `json:"duration_seconds" gorm:"not null"`
	CreatedAt       time.Time      `json:"created_at" gorm:"index"`
}
