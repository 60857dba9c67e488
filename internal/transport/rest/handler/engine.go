package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/5hiel/artistic-minds-sub000/internal/engine"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

// EngineHandler exposes the recommendation pipeline over HTTP.
type EngineHandler struct {
	engine *engine.Engine
}

// NewEngineHandler creates the handler.
func NewEngineHandler(eng *engine.Engine) *EngineHandler {
	return &EngineHandler{engine: eng}
}

// Recommend handles POST /v1/users/{userId}/recommendations.
func (h *EngineHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user id")
		return
	}

	rec, err := h.engine.Recommend(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// Complete handles POST /v1/users/{userId}/completions.
func (h *EngineHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var outcome model.CompletionOutcome
	if err := json.NewDecoder(r.Body).Decode(&outcome); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if outcome.RecommendationID == "" {
		writeError(w, http.StatusBadRequest, "missing recommendation id")
		return
	}

	profile, err := h.engine.Complete(r.Context(), userID, &outcome)
	if err != nil {
		if errors.Is(err, engine.ErrRecommendationNotFound) {
			writeError(w, http.StatusNotFound, "recommendation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Profile handles GET /v1/users/{userId}/profile.
func (h *EngineHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := h.engine.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// EndSession handles POST /v1/users/{userId}/session/end.
func (h *EngineHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := h.engine.EndSession(r.Context(), userID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}
