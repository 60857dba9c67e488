package engine

import (
	"math"

	"github.com/5hiel/artistic-minds-sub000/internal/config"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

// neutralProbability is returned whenever there is too little data to
// estimate anything meaningful.
const neutralProbability = 0.5

// Predictor holds the success and engagement estimators. Both are pure
// functions of profile, behavioral pattern, and candidate DNA, and both
// degrade to a neutral default under sparse data.
type Predictor struct{}

// NewPredictor creates the predictor.
func NewPredictor() *Predictor {
	return &Predictor{}
}

// PredictSuccess estimates the probability the user solves the candidate.
func (p *Predictor) PredictSuccess(profile *model.UserProfile, pattern *model.BehavioralPattern, c model.Candidate, cfg *config.EngineConfig) float64 {
	if profile.TotalPuzzlesSolved < cfg.MinObservations {
		return neutralProbability
	}

	// Skill/difficulty gap dominates.
	gap := profile.CurrentSkillLevel - c.DNA.DiscoveredDifficulty
	prob := neutralProbability + gap*0.8

	// Recent trajectory.
	prob += pattern.AccuracyTrend * 0.3

	// Per-type history, when this type was attempted at all.
	if st, ok := profile.TypeStats[c.Puzzle.Type]; ok && st.Attempts > 0 {
		prob += (st.Accuracy - 0.5) * 0.25
	}

	// A declining session drags the estimate down.
	prob -= pattern.SessionPerformanceDecline * 0.2

	return clampProbability(prob)
}

// PredictEngagement estimates the probability the candidate sustains
// engagement.
func (p *Predictor) PredictEngagement(profile *model.UserProfile, pattern *model.BehavioralPattern, c model.Candidate, cfg *config.EngineConfig) float64 {
	if profile.TotalPuzzlesSolved < cfg.MinObservations {
		return neutralProbability
	}

	prob := neutralProbability

	// Type preference.
	attempts := 0
	if st, ok := profile.TypeStats[c.Puzzle.Type]; ok {
		attempts = st.Attempts
		prob += (st.Preference - 0.5) * 0.4
	}

	// Recent engagement trend.
	prob += (pattern.EngagementLevel - 0.5) * 0.3

	// Novelty: rarely seen types carry a small pull.
	if attempts < 3 {
		prob += 0.08
	}

	// What this puzzle class has historically done for engagement.
	prob += (c.DNA.EngagementPotential - 0.5) * 0.4

	// Difficulty/skill match: puzzles far from the user's level bore or
	// frustrate.
	match := 1 - math.Abs(profile.CurrentSkillLevel-c.DNA.DiscoveredDifficulty)
	prob += (match - 0.5) * 0.2

	return clampProbability(prob)
}

func clampProbability(v float64) float64 {
	if v < 0.05 {
		return 0.05
	}
	if v > 0.95 {
		return 0.95
	}
	return v
}
