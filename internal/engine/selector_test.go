package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/5hiel/artistic-minds-sub000/internal/config"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

func scoredCandidate(puzzleType string, category model.Category, difficulty, success, engagement, strategic float64) model.ScoredCandidate {
	return model.ScoredCandidate{
		Candidate: model.Candidate{
			Puzzle: &model.Puzzle{
				ID:         "p-" + puzzleType,
				Type:       puzzleType,
				Difficulty: difficulty,
			},
			Category: category,
			DNA: &model.PuzzleDNA{
				Key:                  puzzleType + ":sub:0",
				DiscoveredDifficulty: difficulty,
			},
		},
		PredictedSuccess:    success,
		PredictedEngagement: engagement,
		StrategicValue:      strategic,
	}
}

func TestSelect_CeilingFiltersNewUser(t *testing.T) {
	s := NewSelector(zap.NewNop())
	cfg := config.Default()

	candidates := []model.ScoredCandidate{
		scoredCandidate("pattern_grid", model.CategoryConfidenceBuilder, 0.3, 0.6, 0.6, 0.6),
		// Higher scores but above the 0.4 ceiling.
		scoredCandidate("figure_matrix", model.CategoryProgressiveChallenge, 0.6, 0.95, 0.95, 0.95),
	}

	best, _ := s.Select(candidates, classificationFor(model.StateNewUser), model.PoolStrategy{ConfidenceBuilders: 10}, nil, cfg)
	assert.Equal(t, "pattern_grid", best.Puzzle.Type)
}

func TestSelect_RelaxesCeilingOnce(t *testing.T) {
	s := NewSelector(zap.NewNop())
	cfg := config.Default()

	// Everything sits above 0.4 but within the relaxed 0.55.
	candidates := []model.ScoredCandidate{
		scoredCandidate("pattern_grid", model.CategoryConfidenceBuilder, 0.45, 0.6, 0.6, 0.6),
		scoredCandidate("figure_matrix", model.CategorySkillDevelopment, 0.5, 0.5, 0.5, 0.5),
	}

	best, reason := s.Select(candidates, classificationFor(model.StateNewUser), model.PoolStrategy{ConfidenceBuilders: 10}, nil, cfg)
	assert.Equal(t, "pattern_grid", best.Puzzle.Type)
	assert.True(t, strings.Contains(reason, "relaxed"), "reason should record the relaxation: %s", reason)
}

func TestSelect_FallsBackToEasiest(t *testing.T) {
	s := NewSelector(zap.NewNop())
	cfg := config.Default()

	// Nothing survives even the relaxed ceiling.
	candidates := []model.ScoredCandidate{
		scoredCandidate("figure_matrix", model.CategoryProgressiveChallenge, 0.9, 0.9, 0.9, 0.9),
		scoredCandidate("pattern_grid", model.CategoryConfidenceBuilder, 0.7, 0.4, 0.4, 0.4),
	}

	best, _ := s.Select(candidates, classificationFor(model.StateSeverelyStruggling), model.PoolStrategy{ConfidenceBuilders: 10}, nil, cfg)
	assert.Equal(t, "pattern_grid", best.Puzzle.Type, "lowest difficulty wins when the pool is exhausted")
}

func TestSelect_NoCeilingForHealthyStates(t *testing.T) {
	s := NewSelector(zap.NewNop())
	cfg := config.Default()

	candidates := []model.ScoredCandidate{
		scoredCandidate("pattern_grid", model.CategoryConfidenceBuilder, 0.3, 0.5, 0.5, 0.5),
		scoredCandidate("figure_matrix", model.CategoryProgressiveChallenge, 0.85, 0.9, 0.9, 0.9),
	}

	best, _ := s.Select(candidates, classificationFor(model.StateExcelling), model.PoolStrategy{ProgressiveChallenge: 10}, nil, cfg)
	assert.Equal(t, "figure_matrix", best.Puzzle.Type)
}

// A type saturating the recent window loses to an otherwise equal fresh type.
func TestSelect_VarietyPenalty(t *testing.T) {
	s := NewSelector(zap.NewNop())
	cfg := config.Default()

	candidates := []model.ScoredCandidate{
		scoredCandidate("pattern_grid", model.CategorySkillDevelopment, 0.5, 0.6, 0.6, 0.6),
		scoredCandidate("serial_reasoning", model.CategorySkillDevelopment, 0.5, 0.6, 0.6, 0.6),
	}
	recent := []string{"pattern_grid", "pattern_grid", "pattern_grid", "pattern_grid", "pattern_grid"}

	best, _ := s.Select(candidates, classificationFor(model.StateStable), model.PoolStrategy{SkillDevelopment: 10}, recent, cfg)
	assert.Equal(t, "serial_reasoning", best.Puzzle.Type)
}

// Exact score ties break toward the category holding more pool slots.
func TestSelect_TieBreakByQuota(t *testing.T) {
	s := NewSelector(zap.NewNop())
	cfg := config.Default()

	candidates := []model.ScoredCandidate{
		scoredCandidate("pattern_grid", model.CategoryExploratoryNew, 0.5, 0.6, 0.6, 0.6),
		scoredCandidate("figure_matrix", model.CategorySkillDevelopment, 0.5, 0.6, 0.6, 0.6),
	}
	strategy := model.PoolStrategy{SkillDevelopment: 7, ExploratoryNew: 3}

	best, _ := s.Select(candidates, classificationFor(model.StateStable), strategy, nil, cfg)
	assert.Equal(t, model.CategorySkillDevelopment, best.Category)
}

func TestSelect_ScoreUsesConfiguredWeights(t *testing.T) {
	s := NewSelector(zap.NewNop())
	cfg := config.Default()
	cfg.SuccessWeight = 1.0
	cfg.EngagementWeight = 0
	cfg.StrategicWeight = 0
	cfg.VarietyWeight = 0

	candidates := []model.ScoredCandidate{
		scoredCandidate("pattern_grid", model.CategorySkillDevelopment, 0.5, 0.9, 0.1, 0.1),
		scoredCandidate("figure_matrix", model.CategorySkillDevelopment, 0.5, 0.3, 0.9, 0.9),
	}

	best, _ := s.Select(candidates, classificationFor(model.StateStable), model.PoolStrategy{SkillDevelopment: 10}, nil, cfg)
	assert.Equal(t, "pattern_grid", best.Puzzle.Type)
}
