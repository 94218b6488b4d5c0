package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	UserID        string    `json:"user_id" gorm:"primaryKey;size:20"`
	Name          string    `json:"name" gorm:"not null"`
	PasswordHash  string    `json:"-" gorm:"not null"`
	TotalScore    int       `json:"total_score" gorm:"not null;default:0"`
	GamesPlayed   int       `json:"games_played" gorm:"not null;default:0"`
	Wins          int       `json:"wins" gorm:"not null;default:0"`
	Losses        int       `json:"losses" gorm:"not null;default:0"`
	SoloHighScore int       `json:"solo_high_score" gorm:"not null;default:0"`
	TokenVersion  int       `json:"-" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"-"`
}

// RecordSoloScore folds a finished solo session into the aggregate stats.
// Returns true when the score beats the stored personal best.
func (u *User) RecordSoloScore(score int) bool {
	u.GamesPlayed++
	u.TotalScore += score
	if score > u.SoloHighScore {
		u.SoloHighScore = score
		return true
	}
	return false
}

// RecordVersusResult folds a finished versus match into the aggregate stats.
// won/lost are both false for a draw.
func (u *User) RecordVersusResult(score int, won, lost bool) {
	u.GamesPlayed++
	u.TotalScore += score
	if won {
		u.Wins++
	}
	if lost {
		u.Losses++
	}
}

type UserSession struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           string    `json:"userId" gorm:"size:20;not null;index"`
	RefreshTokenHash string    `json:"-" gorm:"not null"`
	ExpiresAt        time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
}
