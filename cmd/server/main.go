package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/5hiel/artistic-minds-sub000/internal/cache"
	"github.com/5hiel/artistic-minds-sub000/internal/config"
	"github.com/5hiel/artistic-minds-sub000/internal/engine"
	"github.com/5hiel/artistic-minds-sub000/internal/puzzle"
	"github.com/5hiel/artistic-minds-sub000/internal/repository"
	"github.com/5hiel/artistic-minds-sub000/internal/transport/rest"
	"github.com/5hiel/artistic-minds-sub000/internal/transport/ws"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Default()
	if path := os.Getenv("ENGINE_CONFIG_FILE"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			panic(err)
		}
		cfg = loaded
	}

	logger := newLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("starting recommendation engine",
		zap.Int("poolSize", cfg.PoolSize),
		zap.Bool("debug", cfg.Debug))

	ctx := context.Background()

	// MongoDB connection
	mongoURI := config.GetEnvOrDefault("MONGO_URI", "mongodb://localhost:27017")
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	logger.Info("connected to MongoDB")

	db := mongoClient.Database(config.GetEnvOrDefault("MONGO_DB", "minds"))

	// Redis connection
	redisAddr := strings.TrimPrefix(config.GetEnvOrDefault("REDIS_URI", "localhost:6379"), "redis://")
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Fatal("failed to ping Redis", zap.Error(err))
	}
	logger.Info("connected to Redis")

	// Wiring
	wsHub := ws.NewHub(logger)

	profileRepo := repository.NewProfileRepo(db)
	dnaCache := cache.NewDNACache(rdb)
	sessionCache := cache.NewSessionCache(rdb)
	leaderboard := cache.NewLeaderboardCache(rdb)
	registry := puzzle.DefaultRegistry()

	eng := engine.New(registry, profileRepo, dnaCache, sessionCache, leaderboard, wsHub, cfg, logger)

	router := rest.NewRouter(&rest.Container{
		Engine:      eng,
		Leaderboard: leaderboard,
		WSHub:       wsHub,
		Logger:      logger,
	})

	port := config.GetEnvOrDefault("PORT", "8080")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen and serve", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func newLogger(debug bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
