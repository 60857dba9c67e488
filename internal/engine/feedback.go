package engine

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/5hiel/artistic-minds-sub000/internal/cache"
	"github.com/5hiel/artistic-minds-sub000/internal/config"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
	"github.com/5hiel/artistic-minds-sub000/internal/repository"
)

// Learning-rate constants for the profile updates. All updates are smoothed
// so a single outcome cannot whipsaw the profile.
const (
	skillLearningRate      = 0.1
	preferenceSmoothing    = 0.2
	momentumSmoothing      = 0.3
	maxDifficultyStep      = 0.05
	profileConfidenceSpan  = 20.0 // solved count at which profile confidence saturates
	momentumRecencyWindow  = 5
)

// FeedbackUpdater is the only component that mutates user profiles. It folds
// one completion outcome into the profile, the behavioral pattern, the
// session context, the puzzle DNA, and the leaderboard.
type FeedbackUpdater struct {
	repo        repository.ProfileRepo
	analyzer    *Analyzer
	leaderboard cache.LeaderboardCache
	logger      *zap.Logger
}

// NewFeedbackUpdater creates the updater.
func NewFeedbackUpdater(repo repository.ProfileRepo, analyzer *Analyzer, leaderboard cache.LeaderboardCache, logger *zap.Logger) *FeedbackUpdater {
	return &FeedbackUpdater{repo: repo, analyzer: analyzer, leaderboard: leaderboard, logger: logger}
}

// Apply commits a completion. The profile, pattern, and session are mutated
// in place; persistence failures are retried once and then logged rather
// than surfaced, so a flaky store never loses the in-memory update.
func (f *FeedbackUpdater) Apply(ctx context.Context, profile *model.UserProfile, pattern *model.BehavioralPattern, session *model.SessionContext, rec *model.PuzzleRecommendation, outcome *model.CompletionOutcome, cfg *config.EngineConfig) {
	engagement := outcome.EngagementOrDefault()

	pattern.Append(model.OutcomeSnapshot{
		PuzzleType: rec.Puzzle.Type,
		Difficulty: rec.DNA.DiscoveredDifficulty,
		Success:    outcome.Success,
		ResponseMs: outcome.SolveMs,
		Engagement: engagement,
		At:         time.Now(),
	})
	if session != nil {
		session.RecordOutcome(outcome.Success, engagement)
	}

	f.updateTypeStats(profile, rec, outcome, engagement)
	f.updateAggregates(profile, pattern, rec, outcome, engagement)
	f.updateCognitive(profile, pattern, rec, outcome)

	f.analyzer.ApplyObservation(ctx, rec.DNA, outcome.Success, outcome.SolveMs, engagement, cfg.MinObservations)

	f.persist(ctx, profile)
}

// updateTypeStats maintains the per-type history: attempts, accuracy, the
// rolling response-time average, and a preference signal driven by the
// reported engagement.
func (f *FeedbackUpdater) updateTypeStats(profile *model.UserProfile, rec *model.PuzzleRecommendation, outcome *model.CompletionOutcome, engagement float64) {
	st := profile.StatsFor(rec.Puzzle.Type)
	st.Attempts++
	if outcome.Success {
		st.Correct++
	}
	st.Accuracy = float64(st.Correct) / float64(st.Attempts)
	st.AvgResponseMs += (float64(outcome.SolveMs) - st.AvgResponseMs) / float64(st.Attempts)
	if st.Attempts == 1 {
		st.Preference = engagement
	} else {
		st.Preference += preferenceSmoothing * (engagement - st.Preference)
	}
}

// updateAggregates recomputes the profile-level learning signals.
func (f *FeedbackUpdater) updateAggregates(profile *model.UserProfile, pattern *model.BehavioralPattern, rec *model.PuzzleRecommendation, outcome *model.CompletionOutcome, engagement float64) {
	hit := 0.0
	if outcome.Success {
		hit = 1.0
	}

	// Running overall accuracy, then the solved counter. The counter only
	// ever goes up.
	total := float64(profile.TotalPuzzlesSolved)
	profile.OverallAccuracy = (profile.OverallAccuracy*total + hit) / (total + 1)
	profile.TotalPuzzlesSolved++
	profile.Level = 1 + profile.TotalPuzzlesSolved/10

	// Confidence in the profile grows with sample size; sparse profiles
	// move slowly.
	confidence := math.Min(1, float64(profile.TotalPuzzlesSolved)/profileConfidenceSpan)

	// Momentum: where the recent run sits relative to the lifetime baseline,
	// nudged by engagement.
	recent := pattern.RecentSuccessRate(momentumRecencyWindow)
	signal := (recent - profile.OverallAccuracy) + 0.2*(engagement-0.5)
	profile.SkillMomentum += momentumSmoothing * confidence * (signal - profile.SkillMomentum)
	profile.SkillMomentum = clampSigned(profile.SkillMomentum)

	// Velocity: the accuracy trend already maintained by the pattern,
	// dampened under sparse data.
	profile.LearningVelocity = pattern.AccuracyTrend * confidence

	// Skill moves toward difficulties the user proves out, away from ones
	// that beat them.
	difficulty := rec.DNA.DiscoveredDifficulty
	if outcome.Success && difficulty > profile.CurrentSkillLevel {
		profile.CurrentSkillLevel += skillLearningRate * (difficulty - profile.CurrentSkillLevel)
	}
	if !outcome.Success && difficulty < profile.CurrentSkillLevel {
		profile.CurrentSkillLevel -= skillLearningRate * (profile.CurrentSkillLevel - difficulty)
	}
	profile.CurrentSkillLevel = clamp01(profile.CurrentSkillLevel)

	// Preferred difficulty drifts toward what the user engages with.
	if engagement > 0.6 {
		profile.PreferredDifficulty += 0.1 * (difficulty - profile.PreferredDifficulty)
		profile.PreferredDifficulty = clamp01(profile.PreferredDifficulty)
	}

	// Proving out a puzzle near the current ceiling raises it a notch.
	if outcome.Success && difficulty >= profile.CurrentMaxDifficulty-maxDifficultyStep {
		profile.CurrentMaxDifficulty = clamp01(profile.CurrentMaxDifficulty + maxDifficultyStep)
	}
	if profile.CurrentMaxDifficulty < profile.CurrentSkillLevel {
		profile.CurrentMaxDifficulty = profile.CurrentSkillLevel
	}
}

// updateCognitive nudges the slow-moving cognitive estimates.
func (f *FeedbackUpdater) updateCognitive(profile *model.UserProfile, pattern *model.BehavioralPattern, rec *model.PuzzleRecommendation, outcome *model.CompletionOutcome) {
	cog := &profile.Cognitive

	// Processing speed from the solve time against the analyzer estimate.
	if est := rec.DNA.Cognitive.EstimatedSolveMs; est > 0 && outcome.SolveMs > 0 {
		ratio := float64(est) / float64(outcome.SolveMs)
		speed := clamp01(ratio / 2) // ratio 2 (twice as fast) saturates
		cog.ProcessingSpeed += 0.05 * (speed - cog.ProcessingSpeed)
	}

	// Working memory from success on memory-heavy puzzles.
	if rec.DNA.Logical.MemoryTier >= model.MemoryTierMedium {
		target := 0.0
		if outcome.Success {
			target = 1.0
		}
		cog.WorkingMemory += 0.05 * (target - cog.WorkingMemory)
		cog.WorkingMemory = clamp01(cog.WorkingMemory)
	}

	// Error recovery: succeeding right after a failure streak is the signal.
	if outcome.Success && hadFailureBefore(pattern) {
		cog.ErrorRecovery += 0.1 * (1 - cog.ErrorRecovery)
	}

	// Attention from sustained engagement.
	cog.AttentionControl += 0.05 * (pattern.EngagementLevel - cog.AttentionControl)
	cog.AttentionControl = clamp01(cog.AttentionControl)
}

// hadFailureBefore reports whether the entry preceding the latest one was a
// failure.
func hadFailureBefore(pattern *model.BehavioralPattern) bool {
	n := len(pattern.Entries)
	return n >= 2 && !pattern.Entries[n-2].Success
}

// persist saves the profile and mirrors the solved counter to the
// leaderboard. One retry on the save; after that the failure is logged and
// the update survives only in memory until the next completion.
func (f *FeedbackUpdater) persist(ctx context.Context, profile *model.UserProfile) {
	if err := f.repo.Save(ctx, profile); err != nil {
		f.logger.Warn("profile save failed, retrying once",
			zap.String("userId", profile.UserID), zap.Error(err))
		if err := f.repo.Save(ctx, profile); err != nil {
			f.logger.Error("profile save retry failed",
				zap.String("userId", profile.UserID), zap.Error(err))
		}
	}
	if err := f.leaderboard.SetSolved(ctx, profile.UserID, profile.TotalPuzzlesSolved); err != nil {
		f.logger.Warn("leaderboard update failed",
			zap.String("userId", profile.UserID), zap.Error(err))
	}
}

func clampSigned(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
