package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type RoomStatus string

const (
	RoomStatusWaiting  RoomStatus = "waiting"
	RoomStatusPlaying  RoomStatus = "playing"
	RoomStatusFinished RoomStatus = "finished"
)

const MaxRoomPlayers = 2

// Participant is one roster entry, stored inside Room.Participants as JSONB.
// Finished is the authoritative "terminal score submitted" signal; a score of
// zero is a legal final score, so score values never stand in for it.
type Participant struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
	Score    int       `json:"score"`
	Finished bool      `json:"finished"`
}

type Room struct {
	RoomID          string         `json:"room_id" gorm:"primaryKey;size:8"`
	HostUserID      string         `json:"host_user_id" gorm:"size:20;not null;index"`
	HostName        string         `json:"host_name" gorm:"not null"`
	Status          RoomStatus     `json:"status" gorm:"not null;default:'waiting';index"`
	Participants    datatypes.JSON `json:"participants" gorm:"not null"`
	DurationSeconds int            `json:"duration_seconds" gorm:"not null;default:60"`
	CreatedAt       time.Time      `json:"created_at"`
	GameStartTime   *time.Time     `json:"game_start_time"`
	GameEndTime     *time.Time     `json:"game_end_time"`
	UpdatedAt       time.Time      `json:"-"`
}

// Roster decodes the participant list. An empty column yields an empty slice.
func (r *Room) Roster() ([]Participant, error) {
	if len(r.Participants) == 0 {
		return []Participant{}, nil
	}
	var roster []Participant
	if err := json.Unmarshal(r.Participants, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

func (r *Room) SetRoster(roster []Participant) error {
	data, err := json.Marshal(roster)
	if err != nil {
		return err
	}
	r.Participants = datatypes.JSON(data)
	return nil
}

func (r *Room) IsHost(userID string) bool {
	return r.HostUserID == userID
}

// Active reports whether the room still counts against its host's
// one-active-room limit.
func (r *Room) Active() bool {
	return r.Status == RoomStatusWaiting || r.Status == RoomStatusPlaying
}
