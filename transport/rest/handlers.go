package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gridrooms/tictactoe-backend/internal/apperror"
)

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *Server) handleGetGame(w http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "handleGetGame")

	code := chi.URLParam(req, "code")

	state, err := that.games.GetGameState(code)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		that.writeJSON(w, http.StatusNotFound, map[string]string{"error": apperror.ErrRoomNotFound.Error()})
		return
	}

	if err != nil {
		log.Error("failed to get game state", "code", code, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	that.writeJSON(w, http.StatusOK, map[string]any{"game": state})
}

func (that *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, map[string]int{"rooms": that.rooms.Count()})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
