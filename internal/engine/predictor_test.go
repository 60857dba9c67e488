package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/5hiel/artistic-minds-sub000/internal/config"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

func predictionCandidate(puzzleType string, difficulty float64) model.Candidate {
	return model.Candidate{
		Puzzle: &model.Puzzle{Type: puzzleType, Difficulty: difficulty},
		DNA: &model.PuzzleDNA{
			DiscoveredDifficulty: difficulty,
			EngagementPotential:  0.5,
		},
	}
}

// Sparse history yields the neutral default for both models.
func TestPredict_NeutralUnderSparseData(t *testing.T) {
	p := NewPredictor()
	cfg := config.Default()

	profile := model.DefaultProfile("u1")
	profile.TotalPuzzlesSolved = cfg.MinObservations - 1
	pattern := model.NewBehavioralPattern(50)

	c := predictionCandidate("pattern_grid", 0.9)
	assert.Equal(t, 0.5, p.PredictSuccess(profile, pattern, c, cfg))
	assert.Equal(t, 0.5, p.PredictEngagement(profile, pattern, c, cfg))
}

func TestPredictSuccess_TracksSkillGap(t *testing.T) {
	p := NewPredictor()
	cfg := config.Default()
	pattern := model.NewBehavioralPattern(50)

	profile := model.DefaultProfile("u1")
	profile.TotalPuzzlesSolved = 100
	profile.CurrentSkillLevel = 0.7

	easy := p.PredictSuccess(profile, pattern, predictionCandidate("pattern_grid", 0.3), cfg)
	hard := p.PredictSuccess(profile, pattern, predictionCandidate("pattern_grid", 0.9), cfg)
	assert.Greater(t, easy, hard)
}

func TestPredictSuccess_UsesTypeHistory(t *testing.T) {
	p := NewPredictor()
	cfg := config.Default()
	pattern := model.NewBehavioralPattern(50)

	profile := model.DefaultProfile("u1")
	profile.TotalPuzzlesSolved = 100
	profile.CurrentSkillLevel = 0.5
	profile.TypeStats["pattern_grid"] = &model.TypeStats{Attempts: 20, Correct: 18, Accuracy: 0.9}
	profile.TypeStats["figure_matrix"] = &model.TypeStats{Attempts: 20, Correct: 4, Accuracy: 0.2}

	strong := p.PredictSuccess(profile, pattern, predictionCandidate("pattern_grid", 0.5), cfg)
	weak := p.PredictSuccess(profile, pattern, predictionCandidate("figure_matrix", 0.5), cfg)
	assert.Greater(t, strong, weak)
}

func TestPredictEngagement_FollowsPreference(t *testing.T) {
	p := NewPredictor()
	cfg := config.Default()
	pattern := model.NewBehavioralPattern(50)

	profile := model.DefaultProfile("u1")
	profile.TotalPuzzlesSolved = 100
	profile.TypeStats["pattern_grid"] = &model.TypeStats{Attempts: 20, Preference: 0.9}
	profile.TypeStats["figure_matrix"] = &model.TypeStats{Attempts: 20, Preference: 0.1}

	liked := p.PredictEngagement(profile, pattern, predictionCandidate("pattern_grid", 0.3), cfg)
	disliked := p.PredictEngagement(profile, pattern, predictionCandidate("figure_matrix", 0.3), cfg)
	assert.Greater(t, liked, disliked)
}

// Probabilities always land in the clamped band, even at extremes.
func TestPredict_Bounds(t *testing.T) {
	p := NewPredictor()
	cfg := config.Default()
	pattern := model.NewBehavioralPattern(50)

	profile := model.DefaultProfile("u1")
	profile.TotalPuzzlesSolved = 500
	profile.CurrentSkillLevel = 1.0
	profile.TypeStats["pattern_grid"] = &model.TypeStats{Attempts: 100, Correct: 100, Accuracy: 1.0, Preference: 1.0}

	high := p.PredictSuccess(profile, pattern, predictionCandidate("pattern_grid", 0.05), cfg)
	assert.LessOrEqual(t, high, 0.95)

	profile.CurrentSkillLevel = 0.0
	profile.TypeStats["pattern_grid"].Accuracy = 0
	profile.TypeStats["pattern_grid"].Preference = 0
	low := p.PredictSuccess(profile, pattern, predictionCandidate("pattern_grid", 0.95), cfg)
	assert.GreaterOrEqual(t, low, 0.05)
}
