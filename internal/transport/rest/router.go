package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/5hiel/artistic-minds-sub000/internal/cache"
	"github.com/5hiel/artistic-minds-sub000/internal/engine"
	"github.com/5hiel/artistic-minds-sub000/internal/transport/rest/handler"
	"github.com/5hiel/artistic-minds-sub000/internal/transport/rest/middleware"
	"github.com/5hiel/artistic-minds-sub000/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Engine      *engine.Engine
	Leaderboard cache.LeaderboardCache
	WSHub       *ws.Hub
	Logger      *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	engineHandler := handler.NewEngineHandler(c.Engine)
	leaderboardHandler := handler.NewLeaderboardHandler(c.Leaderboard)
	adminHandler := handler.NewAdminHandler(c.Engine)
	wsHandler := ws.NewHandler(c.WSHub, c.Logger)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)
	r.Use(middleware.RequestLogger(c.Logger))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/users/{userId}/recommendations", engineHandler.Recommend).Methods("POST", "OPTIONS")
	v1.HandleFunc("/users/{userId}/completions", engineHandler.Complete).Methods("POST", "OPTIONS")
	v1.HandleFunc("/users/{userId}/profile", engineHandler.Profile).Methods("GET", "OPTIONS")
	v1.HandleFunc("/users/{userId}/session/end", engineHandler.EndSession).Methods("POST", "OPTIONS")

	v1.HandleFunc("/leaderboard", leaderboardHandler.Top).Methods("GET", "OPTIONS")
	v1.HandleFunc("/leaderboard/{userId}/rank", leaderboardHandler.Rank).Methods("GET", "OPTIONS")

	v1.HandleFunc("/config", adminHandler.GetConfig).Methods("GET", "OPTIONS")
	v1.HandleFunc("/config", adminHandler.PutConfig).Methods("PUT", "OPTIONS")

	// WebSocket observer stream
	v1.HandleFunc("/ws/users/{userId}/observe", wsHandler.Observe).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
