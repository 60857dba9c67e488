package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/5hiel/artistic-minds-sub000/internal/cache"
	"github.com/5hiel/artistic-minds-sub000/internal/config"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
	"github.com/5hiel/artistic-minds-sub000/internal/puzzle"
	"github.com/5hiel/artistic-minds-sub000/internal/repository"
)

// ErrRecommendationNotFound is returned by Complete when the reported
// recommendation ID has no pending entry for the user.
var ErrRecommendationNotFound = errors.New("recommendation not found")

// Event is pushed to observers over the broadcaster on every pipeline step
// worth watching.
type Event struct {
	Type    string    `json:"type"`
	UserID  string    `json:"userId"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// Broadcaster fans events out to a user's observers. The websocket hub
// implements it; a nil-safe no-op stands in when nobody listens.
type Broadcaster interface {
	BroadcastToUser(userID string, event Event)
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToUser(string, Event) {}

// Engine wires the full recommendation pipeline: classify, distribute,
// generate, characterize, predict, select on the way out; the feedback
// updater on the way back in.
type Engine struct {
	classifier  *Classifier
	distributor *Distributor
	generator   *CandidateGenerator
	analyzer    *Analyzer
	predictor   *Predictor
	selector    *Selector
	feedback    *FeedbackUpdater

	repo        repository.ProfileRepo
	sessions    cache.SessionCache
	leaderboard cache.LeaderboardCache
	broadcaster Broadcaster
	logger      *zap.Logger

	cfg atomic.Pointer[config.EngineConfig]
}

// New assembles an engine. A nil broadcaster is replaced with a no-op.
func New(registry *puzzle.Registry, repo repository.ProfileRepo, dnaCache cache.DNACache, sessions cache.SessionCache, leaderboard cache.LeaderboardCache, broadcaster Broadcaster, cfg *config.EngineConfig, logger *zap.Logger) *Engine {
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	analyzer := NewAnalyzer(registry, dnaCache, logger)
	e := &Engine{
		classifier:  NewClassifier(),
		distributor: NewDistributor(registry, logger),
		generator:   NewCandidateGenerator(registry, logger),
		analyzer:    analyzer,
		predictor:   NewPredictor(),
		selector:    NewSelector(logger),
		feedback:    NewFeedbackUpdater(repo, analyzer, leaderboard, logger),
		repo:        repo,
		sessions:    sessions,
		leaderboard: leaderboard,
		broadcaster: broadcaster,
		logger:      logger,
	}
	e.cfg.Store(cfg)
	return e
}

// Config returns the active configuration snapshot.
func (e *Engine) Config() *config.EngineConfig {
	return e.cfg.Load()
}

// Reconfigure validates and atomically swaps the configuration. In-flight
// requests finish on the snapshot they started with.
func (e *Engine) Reconfigure(cfg *config.EngineConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg.Store(cfg)
	e.logger.Info("engine reconfigured", zap.Int("poolSize", cfg.PoolSize))
	return nil
}

// Recommend runs the pipeline and returns exactly one recommendation. Store
// and cache failures degrade to defaults; this path never errors on a
// backend outage, only on context cancellation.
func (e *Engine) Recommend(ctx context.Context, userID string) (*model.PuzzleRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := e.cfg.Load()

	profile := e.loadProfile(ctx, userID)
	session := e.loadOrStartSession(ctx, userID)
	pattern := e.loadPattern(ctx, userID, cfg)

	classification := e.classifier.Classify(profile, pattern, session, cfg)
	plan := e.distributor.Distribute(classification, profile, cfg)
	candidates := e.generator.Generate(ctx, plan, profile, pattern, cfg)

	scored := make([]model.ScoredCandidate, len(candidates))
	for i, c := range candidates {
		c.DNA = e.analyzer.Analyze(ctx, c.Puzzle)
		scored[i] = model.ScoredCandidate{
			Candidate:           c,
			PredictedSuccess:    e.predictor.PredictSuccess(profile, pattern, c, cfg),
			PredictedEngagement: e.predictor.PredictEngagement(profile, pattern, c, cfg),
			StrategicValue:      e.strategicValue(c, profile, cfg),
		}
	}

	best, reason := e.selector.Select(scored, classification, plan.Strategy, pattern.RecentTypes(cfg.VarietyWindow), cfg)

	rec := &model.PuzzleRecommendation{
		ID:                  uuid.NewString(),
		UserID:              userID,
		Puzzle:              best.Puzzle,
		DNA:                 best.DNA,
		Category:            best.Category,
		PredictedSuccess:    best.PredictedSuccess,
		PredictedEngagement: best.PredictedEngagement,
		StrategicValue:      best.StrategicValue,
		SelectionReason:     reason,
		BaseState:           classification.BaseState,
		CreatedAt:           time.Now(),
	}

	if err := e.sessions.SetPending(ctx, rec); err != nil {
		e.logger.Warn("failed to store pending recommendation",
			zap.String("userId", userID), zap.String("recId", rec.ID), zap.Error(err))
	}
	session.PuzzlesServed++
	e.saveSessionState(ctx, userID, session, pattern)

	e.logger.Info("recommendation issued",
		zap.String("userId", userID),
		zap.String("recId", rec.ID),
		zap.String("baseState", string(classification.BaseState)),
		zap.Strings("reasoning", classification.Reasoning),
		zap.String("puzzleType", rec.Puzzle.Type),
		zap.Float64("difficulty", rec.DNA.DiscoveredDifficulty))

	e.broadcaster.BroadcastToUser(userID, Event{
		Type:   "recommendation_issued",
		UserID: userID,
		At:     time.Now(),
		Payload: map[string]any{
			"recommendationId": rec.ID,
			"puzzleType":       rec.Puzzle.Type,
			"category":         rec.Category,
			"baseState":        classification.BaseState,
			"difficulty":       rec.DNA.DiscoveredDifficulty,
		},
	})

	return rec, nil
}

// Complete matches an outcome to its pending recommendation and commits the
// feedback update. The updated profile comes back so callers can show
// progress immediately.
func (e *Engine) Complete(ctx context.Context, userID string, outcome *model.CompletionOutcome) (*model.UserProfile, error) {
	cfg := e.cfg.Load()

	rec, err := e.sessions.GetPending(ctx, userID, outcome.RecommendationID)
	if err != nil {
		return nil, fmt.Errorf("load pending recommendation: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: user %s, id %s", ErrRecommendationNotFound, userID, outcome.RecommendationID)
	}

	profile := e.loadProfile(ctx, userID)
	session := e.loadOrStartSession(ctx, userID)
	pattern := e.loadPattern(ctx, userID, cfg)

	e.feedback.Apply(ctx, profile, pattern, session, rec, outcome, cfg)

	e.saveSessionState(ctx, userID, session, pattern)
	if err := e.sessions.DeletePending(ctx, userID, rec.ID); err != nil {
		e.logger.Warn("failed to clear pending recommendation",
			zap.String("userId", userID), zap.String("recId", rec.ID), zap.Error(err))
	}

	e.logger.Info("completion recorded",
		zap.String("userId", userID),
		zap.String("recId", rec.ID),
		zap.Bool("success", outcome.Success),
		zap.Int64("solveMs", outcome.SolveMs),
		zap.Float64("skill", profile.CurrentSkillLevel),
		zap.Int("totalSolved", profile.TotalPuzzlesSolved))

	e.broadcaster.BroadcastToUser(userID, Event{
		Type:   "completion_recorded",
		UserID: userID,
		At:     time.Now(),
		Payload: map[string]any{
			"recommendationId": rec.ID,
			"success":          outcome.Success,
			"skillLevel":       profile.CurrentSkillLevel,
			"skillMomentum":    profile.SkillMomentum,
			"totalSolved":      profile.TotalPuzzlesSolved,
		},
	})

	return profile, nil
}

// Profile returns the stored profile, or the default when none exists yet.
func (e *Engine) Profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	profile, err := e.repo.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return model.DefaultProfile(userID), nil
	}
	return profile, nil
}

// EndSession closes the active session and bumps the session counter.
func (e *Engine) EndSession(ctx context.Context, userID string) error {
	session, err := e.sessions.GetSession(ctx, userID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil
	}
	if err := e.sessions.EndSession(ctx, userID); err != nil {
		return fmt.Errorf("end session: %w", err)
	}

	profile := e.loadProfile(ctx, userID)
	profile.TotalSessions++
	if err := e.repo.Save(ctx, profile); err != nil {
		e.logger.Warn("failed to persist session counter",
			zap.String("userId", userID), zap.Error(err))
	}

	e.broadcaster.BroadcastToUser(userID, Event{
		Type:   "session_ended",
		UserID: userID,
		At:     time.Now(),
		Payload: map[string]any{
			"sessionId":     session.SessionID,
			"puzzlesSolved": session.PuzzlesSolved,
			"accuracy":      session.CurrentAccuracy,
		},
	})
	return nil
}

// strategicValue measures how well a candidate serves its category's intent:
// mostly difficulty alignment against the category target, weighted up when
// the DNA estimate rests on real observations.
func (e *Engine) strategicValue(c model.Candidate, profile *model.UserProfile, cfg *config.EngineConfig) float64 {
	target := e.generator.targetDifficulty(c.Category, profile, cfg)
	alignment := 1 - math.Abs(c.DNA.DiscoveredDifficulty-target)
	return clamp01(0.8*alignment + 0.2*c.DNA.ObservationConfidence())
}

// loadProfile never fails: a store outage or a missing document both yield
// the default profile, so recommendations keep flowing.
func (e *Engine) loadProfile(ctx context.Context, userID string) *model.UserProfile {
	profile, err := e.repo.Load(ctx, userID)
	if err != nil {
		e.logger.Warn("profile load failed, serving default profile",
			zap.String("userId", userID), zap.Error(err))
		return model.DefaultProfile(userID)
	}
	if profile == nil {
		return model.DefaultProfile(userID)
	}
	return profile
}

func (e *Engine) loadOrStartSession(ctx context.Context, userID string) *model.SessionContext {
	session, err := e.sessions.GetSession(ctx, userID)
	if err != nil {
		e.logger.Warn("session load failed, starting fresh session",
			zap.String("userId", userID), zap.Error(err))
	}
	if session == nil {
		session = model.NewSessionContext(uuid.NewString(), userID)
	}
	return session
}

func (e *Engine) loadPattern(ctx context.Context, userID string, cfg *config.EngineConfig) *model.BehavioralPattern {
	pattern, err := e.sessions.GetPattern(ctx, userID)
	if err != nil {
		e.logger.Warn("pattern load failed, starting fresh pattern",
			zap.String("userId", userID), zap.Error(err))
	}
	if pattern == nil {
		pattern = model.NewBehavioralPattern(cfg.PatternBound)
	}
	return pattern
}

func (e *Engine) saveSessionState(ctx context.Context, userID string, session *model.SessionContext, pattern *model.BehavioralPattern) {
	if err := e.sessions.SetSession(ctx, session); err != nil {
		e.logger.Warn("session save failed", zap.String("userId", userID), zap.Error(err))
	}
	if err := e.sessions.SetPattern(ctx, userID, pattern); err != nil {
		e.logger.Warn("pattern save failed", zap.String("userId", userID), zap.Error(err))
	}
}
