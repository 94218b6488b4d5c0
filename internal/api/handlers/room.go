package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jmin/block-battle/internal/api/middleware"
	"github.com/jmin/block-battle/internal/domain"
	"github.com/jmin/block-battle/internal/service"
	"github.com/go-chi/chi/v5"
)

type RoomHandler struct {
	roomService *service.RoomService
	gameService *service.GameService
	authService *service.AuthService
}

func NewRoomHandler(roomService *service.RoomService, gameService *service.GameService, authService *service.AuthService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		gameService: gameService,
		authService: authService,
	}
}

type RoomResponse struct {
	RoomID           string               `json:"room_id"`
	HostUserID       string               `json:"host_user_id"`
	HostName         string               `json:"host_name"`
	Status           string               `json:"status"`
	Participants     []domain.Participant `json:"participants"`
	ParticipantCount int                  `json:"participant_count"`
	MaxParticipants  int                  `json:"max_participants"`
	CreatedAt        int64                `json:"created_at"`
	GameStartTime    *int64               `json:"game_start_time"`
	GameEndTime      *int64               `json:"game_end_time"`
}

func roomResponse(room *domain.Room) (RoomResponse, error) {
	roster, err := room.Roster()
	if err != nil {
		return RoomResponse{}, err
	}

	resp := RoomResponse{
		RoomID:           room.RoomID,
		HostUserID:       room.HostUserID,
		HostName:         room.HostName,
		Status:           string(room.Status),
		Participants:     roster,
		ParticipantCount: len(roster),
		MaxParticipants:  domain.MaxRoomPlayers,
		CreatedAt:        room.CreatedAt.Unix(),
	}
	if room.GameStartTime != nil {
		ts := room.GameStartTime.Unix()
		resp.GameStartTime = &ts
	}
	if room.GameEndTime != nil {
		ts := room.GameEndTime.Unix()
		resp.GameEndTime = &ts
	}
	return resp, nil
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	room, err := h.roomService.CreateRoom(r.Context(), user.UserID, user.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	resp, err := roomResponse(room)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	room, err := h.roomService.GetRoom(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp, err := roomResponse(room)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *RoomHandler) ListWaiting(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rooms, err := h.roomService.ListWaiting(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		rr, err := roomResponse(room)
		if err != nil {
			respondError(w, err)
			return
		}
		resp = append(resp, rr)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rooms": resp,
		"count": len(resp),
	})
}

type JoinRoomRequest struct {
	RoomID string `json:"room_id"`
}

type JoinRoomResponse struct {
	RoomID       string   `json:"room_id"`
	Players      []string `json:"players"`
	MatchStarted bool     `json:"match_started"`
}

func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoomID == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "room_id is required"})
		return
	}

	result, err := h.gameService.JoinRoom(r.Context(), req.RoomID, userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, JoinRoomResponse{
		RoomID:       result.Room.RoomID,
		Players:      result.Players,
		MatchStarted: result.MatchStarted,
	})
}

func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	roomID := chi.URLParam(r, "roomID")
	if err := h.gameService.LeaveRoom(r.Context(), roomID, userID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	roomID := chi.URLParam(r, "roomID")
	if err := h.gameService.DeleteRoom(r.Context(), roomID, userID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
