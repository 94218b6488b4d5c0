package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	// Client to Server
	MessageTypeJoinChannel  MessageType = "JOIN_CHANNEL"
	MessageTypeLeaveChannel MessageType = "LEAVE_CHANNEL"

	// Server to Client
	MessageTypeConnected     MessageType = "CONNECTED"
	MessageTypePlayerJoined  MessageType = "PLAYER_JOINED"
	MessageTypeMatchStarted  MessageType = "MATCH_STARTED"
	MessageTypeScoreUpdated  MessageType = "SCORE_UPDATED"
	MessageTypePlayerLeft    MessageType = "PLAYER_LEFT"
	MessageTypeMatchEnded    MessageType = "MATCH_ENDED"
	MessageTypeError         MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type JoinChannelPayload struct {
	RoomID string `json:"room_id"`
}

type LeaveChannelPayload struct {
	RoomID string `json:"room_id"`
}

// Server to Client payloads

type ConnectedPayload struct {
	UserID string `json:"user_id"`
}

type PlayerJoinedPayload struct {
	PlayerName   string `json:"player_name"`
	PlayersCount int    `json:"players_count"`
}

type PlayerState struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

type MatchStartedPayload struct {
	Players  []PlayerState `json:"players"`
	Duration int           `json:"duration"`
}

type ScoreUpdatedPayload struct {
	Players []PlayerState `json:"players"`
}

type PlayerLeftPayload struct {
	PlayerName string `json:"player_name"`
}

type MatchEndedPayload struct {
	FinalScores map[string]int `json:"final_scores"`
	Winner      *string        `json:"winner"`
	IsDraw      bool           `json:"is_draw"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
