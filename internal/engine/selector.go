package engine

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/5hiel/artistic-minds-sub000/internal/config"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

// Selector scores the candidate pool and picks exactly one recommendation.
// The fallback chain guarantees it never comes back empty-handed.
type Selector struct {
	logger *zap.Logger
}

// NewSelector creates the selector.
func NewSelector(logger *zap.Logger) *Selector {
	return &Selector{logger: logger}
}

// Select filters by the active difficulty ceiling, scores the survivors,
// and returns the winner. An empty pool after filtering relaxes the ceiling
// once; if still empty, the lowest-difficulty candidate wins outright.
func (s *Selector) Select(candidates []model.ScoredCandidate, classification *model.UserStateClassification, strategy model.PoolStrategy, recentTypes []string, cfg *config.EngineConfig) (model.ScoredCandidate, string) {
	ceiling := s.difficultyCeiling(classification.BaseState, cfg)

	eligible := filterByCeiling(candidates, ceiling)
	reason := fmt.Sprintf("state %s, ceiling %.2f", classification.BaseState, ceiling)
	if len(eligible) == 0 {
		relaxed := ceiling + cfg.CeilingRelaxStep
		s.logger.Debug("all candidates above ceiling, relaxing once",
			zap.Float64("ceiling", ceiling), zap.Float64("relaxed", relaxed))
		eligible = filterByCeiling(candidates, relaxed)
		reason = fmt.Sprintf("state %s, ceiling relaxed to %.2f", classification.BaseState, relaxed)
	}
	if len(eligible) == 0 {
		easiest := lowestDifficulty(candidates)
		return easiest, fmt.Sprintf("state %s, ceiling fallback: easiest candidate", classification.BaseState)
	}

	best := s.scoreAndPick(eligible, strategy, recentTypes, cfg)
	return best, fmt.Sprintf("%s; top score %.3f from %s pool", reason, best.Score, best.Category)
}

// scoreAndPick computes the weighted score per candidate and returns the
// maximum, breaking ties toward the category with the larger pool quota.
func (s *Selector) scoreAndPick(eligible []model.ScoredCandidate, strategy model.PoolStrategy, recentTypes []string, cfg *config.EngineConfig) model.ScoredCandidate {
	for i := range eligible {
		c := &eligible[i]
		c.VarietyBonus = varietyBonus(c.Puzzle.Type, recentTypes)
		c.Score = cfg.SuccessWeight*c.PredictedSuccess +
			cfg.EngagementWeight*c.PredictedEngagement +
			cfg.StrategicWeight*c.StrategicValue +
			cfg.VarietyWeight*c.VarietyBonus
	}

	best := eligible[0]
	for _, c := range eligible[1:] {
		if c.Score > best.Score+1e-9 {
			best = c
			continue
		}
		if math.Abs(c.Score-best.Score) <= 1e-9 &&
			strategy.Count(c.Category) > strategy.Count(best.Category) {
			best = c
		}
	}
	return best
}

// difficultyCeiling returns the active safety ceiling for a base state.
func (s *Selector) difficultyCeiling(state model.BaseState, cfg *config.EngineConfig) float64 {
	switch state {
	case model.StateNewUser:
		return cfg.NewUserMaxDifficulty
	case model.StateSeverelyStruggling:
		return cfg.SevereMaxDifficulty
	case model.StateStruggling, model.StateFallingBack:
		return cfg.StrugglingMaxDifficulty
	}
	return 1.0
}

// varietyBonus penalizes types repeated in the recent selection window.
// A type absent from the window scores 1.0; one filling the whole window
// scores 0.
func varietyBonus(puzzleType string, recentTypes []string) float64 {
	if len(recentTypes) == 0 {
		return 1.0
	}
	repeats := 0
	for _, t := range recentTypes {
		if t == puzzleType {
			repeats++
		}
	}
	return 1.0 - float64(repeats)/float64(len(recentTypes))
}

func filterByCeiling(candidates []model.ScoredCandidate, ceiling float64) []model.ScoredCandidate {
	out := make([]model.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.DNA.DiscoveredDifficulty <= ceiling {
			out = append(out, c)
		}
	}
	return out
}

func lowestDifficulty(candidates []model.ScoredCandidate) model.ScoredCandidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.DNA.DiscoveredDifficulty < best.DNA.DiscoveredDifficulty {
			best = c
		}
	}
	return best
}
