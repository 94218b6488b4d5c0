package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jmin/block-battle/internal/api/middleware"
	"github.com/jmin/block-battle/internal/domain"
	"github.com/jmin/block-battle/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	UserID       string `json:"user_id"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type MeResponse struct {
	UserID        string `json:"user_id"`
	Name          string `json:"name"`
	TotalScore    int    `json:"total_score"`
	GamesPlayed   int    `json:"games_played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	SoloHighScore int    `json:"solo_high_score"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if req.Password != req.PasswordConfirm {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Passwords do not match"})
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		UserID:   req.UserID,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, AuthResponse{
		UserID:       result.User.UserID,
		Name:         result.User.Name,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if req.UserID == "" || req.Password == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "User id and password are required"})
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		UserID:   req.UserID,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		UserID:       result.User.UserID,
		Name:         result.User.Name,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if req.UserID == "" || req.RefreshToken == "" {
		respondError(w, domain.ErrInvalidCredentials)
		return
	}

	accessToken, err := h.authService.Refresh(r.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"access_token": accessToken})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
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

	respondJSON(w, http.StatusOK, MeResponse{
		UserID:        user.UserID,
		Name:          user.Name,
		TotalScore:    user.TotalScore,
		GamesPlayed:   user.GamesPlayed,
		Wins:          user.Wins,
		Losses:        user.Losses,
		SoloHighScore: user.SoloHighScore,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
