package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jmin/block-battle/internal/api/middleware"
	"github.com/jmin/block-battle/internal/domain"
	"github.com/jmin/block-battle/internal/service"
)

type GameHandler struct {
	gameService    *service.GameService
	rankingService *service.RankingService
}

func NewGameHandler(gameService *service.GameService, rankingService *service.RankingService) *GameHandler {
	return &GameHandler{
		gameService:    gameService,
		rankingService: rankingService,
	}
}

func (h *GameHandler) SoloStart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	duration, err := h.gameService.SoloStart(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"game_time": duration})
}

type SoloEndRequest struct {
	Score *int `json:"score"`
}

type SoloEndResponse struct {
	FinalScore   int  `json:"final_score"`
	PersonalBest bool `json:"personal_best"`
	PreviousBest int  `json:"previous_best"`
}

func (h *GameHandler) SoloEnd(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req SoloEndRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Score == nil {
		respondError(w, domain.ErrInvalidScore)
		return
	}

	result, err := h.gameService.SoloEnd(r.Context(), userID, *req.Score)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SoloEndResponse{
		FinalScore:   result.FinalScore,
		PersonalBest: result.PersonalBest,
		PreviousBest: result.PreviousBest,
	})
}

type VersusEndRequest struct {
	RoomID string `json:"room_id"`
	Score  *int   `json:"score"`
}

type VersusEndResponse struct {
	YourScore   int            `json:"your_score"`
	AllFinished bool           `json:"all_finished"`
	FinalScores map[string]int `json:"final_scores,omitempty"`
	Winner      *string        `json:"winner,omitempty"`
	IsDraw      bool           `json:"is_draw"`
}

func (h *GameHandler) VersusEnd(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req VersusEndRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoomID == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "room_id and score are required"})
		return
	}
	if req.Score == nil {
		respondError(w, domain.ErrInvalidScore)
		return
	}

	result, err := h.gameService.SubmitScore(r.Context(), req.RoomID, userID, *req.Score)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := VersusEndResponse{
		YourScore:   result.YourScore,
		AllFinished: result.AllFinished,
		IsDraw:      result.IsDraw,
	}
	if result.AllFinished {
		resp.FinalScores = result.FinalScores
		if result.WinnerName != "" {
			winner := result.WinnerName
			resp.Winner = &winner
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	history, err := h.rankingService.UserHistory(r.Context(), userID, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"history": history,
		"count":   len(history),
	})
}
