package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jmin/block-battle/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps domain errors onto the HTTP surface. Anything outside
// the taxonomy is a 500 and gets logged.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrActiveRoomExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotHost):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenRevoked):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrRoomFull),
		errors.Is(err, domain.ErrRoomNotJoinable),
		errors.Is(err, domain.ErrAlreadyInRoom),
		errors.Is(err, domain.ErrNotInRoom),
		errors.Is(err, domain.ErrMatchNotRunning),
		errors.Is(err, domain.ErrInvalidScore),
		errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidPassword):
		status = http.StatusBadRequest
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("ERROR [handlers] %v", err)
		message = "Internal server error"
	}

	respondJSON(w, status, map[string]string{"error": message})
}
