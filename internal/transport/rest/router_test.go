package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/5hiel/artistic-minds-sub000/internal/cache"
	"github.com/5hiel/artistic-minds-sub000/internal/config"
	"github.com/5hiel/artistic-minds-sub000/internal/engine"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
	"github.com/5hiel/artistic-minds-sub000/internal/puzzle"
	"github.com/5hiel/artistic-minds-sub000/internal/repository"
	"github.com/5hiel/artistic-minds-sub000/internal/transport/ws"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zap.NewNop()
	leaderboard := cache.NewMemoryLeaderboardCache()
	hub := ws.NewHub(logger)
	eng := engine.New(
		puzzle.DefaultRegistry(),
		repository.NewMemoryProfileRepo(),
		cache.NewMemoryDNACache(),
		cache.NewMemorySessionCache(),
		leaderboard,
		hub,
		config.Default(),
		logger,
	)

	srv := httptest.NewServer(NewRouter(&Container{
		Engine:      eng,
		Leaderboard: leaderboard,
		WSHub:       hub,
		Logger:      logger,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_RecommendAndComplete(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/users/u1/recommendations", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec model.PuzzleRecommendation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.NotEmpty(t, rec.ID)
	assert.NotNil(t, rec.Puzzle)

	body, _ := json.Marshal(map[string]any{
		"recommendationId": rec.ID,
		"success":          true,
		"solveMs":          7000,
		"engagement":       0.7,
	})
	resp2, err := http.Post(srv.URL+"/v1/users/u1/completions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var profile model.UserProfile
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&profile))
	assert.Equal(t, 1, profile.TotalPuzzlesSolved)
}

func TestRouter_CompleteUnknownRecommendation(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]any{"recommendationId": "nope", "success": true})
	resp, err := http.Post(srv.URL+"/v1/users/u1/completions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_CompleteRejectsMissingID(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/users/u1/completions", "application/json", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_Profile(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/users/newbie/profile")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile model.UserProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, "newbie", profile.UserID)
}

func TestRouter_Leaderboard(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/leaderboard?limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/v1/leaderboard?limit=500")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestRouter_Rank(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/users/u1/recommendations", "application/json", nil)
	require.NoError(t, err)
	var rec model.PuzzleRecommendation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	resp.Body.Close()

	body, _ := json.Marshal(map[string]any{"recommendationId": rec.ID, "success": true, "solveMs": 5000})
	resp2, err := http.Post(srv.URL+"/v1/users/u1/completions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp2.Body.Close()

	resp3, err := http.Get(srv.URL + "/v1/leaderboard/u1/rank")
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusOK, resp3.StatusCode)

	resp4, err := http.Get(srv.URL + "/v1/leaderboard/ghost/rank")
	require.NoError(t, err)
	defer resp4.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp4.StatusCode)
}

func TestRouter_ConfigRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/config")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cfg config.EngineConfig
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	require.Equal(t, 10, cfg.PoolSize)

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/v1/config",
		bytes.NewReader([]byte(`{"poolSize": 15}`)))
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var updated config.EngineConfig
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&updated))
	assert.Equal(t, 15, updated.PoolSize)
	assert.Equal(t, cfg.MinObservations, updated.MinObservations, "partial update keeps other fields")
}

func TestRouter_ConfigRejectsInvalid(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/v1/config",
		bytes.NewReader([]byte(`{"poolSize": -1}`)))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_SessionEnd(t *testing.T) {
	srv := newTestServer(t)

	// Start a session implicitly via a recommendation, then end it.
	resp, err := http.Post(srv.URL+"/v1/users/u1/recommendations", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	resp2, err := http.Post(srv.URL+"/v1/users/u1/session/end", "application/json", nil)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestRouter_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, fmt.Sprintf("%s/v1/users/u1/profile", srv.URL), nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
