package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/5hiel/artistic-minds-sub000/internal/cache"
)

// LeaderboardHandler serves the solved-puzzles ranking.
type LeaderboardHandler struct {
	leaderboard cache.LeaderboardCache
}

// NewLeaderboardHandler creates the handler.
func NewLeaderboardHandler(leaderboard cache.LeaderboardCache) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// Top handles GET /v1/leaderboard?limit=N.
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be 1-100")
			return
		}
		limit = n
	}

	entries, err := h.leaderboard.GetTop(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// Rank handles GET /v1/leaderboard/{userId}/rank.
func (h *LeaderboardHandler) Rank(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	rank, err := h.leaderboard.GetRank(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rank < 0 {
		writeError(w, http.StatusNotFound, "user not ranked")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"userId": userID, "rank": rank})
}
