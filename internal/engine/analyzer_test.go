package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/5hiel/artistic-minds-sub000/internal/cache"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
	"github.com/5hiel/artistic-minds-sub000/internal/puzzle"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(puzzle.DefaultRegistry(), cache.NewMemoryDNACache(), zap.NewNop())
}

func testPuzzle(difficulty float64) *model.Puzzle {
	return &model.Puzzle{
		ID:         "p1",
		Question:   "What comes next: 2, 4, 6, 8, ?",
		Options:    []string{"9", "10", "11", "12"},
		CorrectIdx: 1,
		Type:       puzzle.TypeArithmeticSequence,
		Subtype:    "additive",
		Difficulty: difficulty,
	}
}

func TestAnalyze_DifficultyInRange(t *testing.T) {
	a := newTestAnalyzer()
	ctx := context.Background()

	for _, d := range []float64{0.05, 0.3, 0.5, 0.7, 0.95} {
		dna := a.Analyze(ctx, testPuzzle(d))
		assert.GreaterOrEqual(t, dna.StaticDifficulty, 0.0)
		assert.LessOrEqual(t, dna.StaticDifficulty, 1.0)
		assert.Equal(t, dna.StaticDifficulty, dna.DiscoveredDifficulty, "discovered starts at static")
	}
}

func TestAnalyze_HarderPuzzlesReadHarder(t *testing.T) {
	a := newTestAnalyzer()
	ctx := context.Background()

	easy := a.Analyze(ctx, testPuzzle(0.1))
	hard := a.Analyze(ctx, testPuzzle(0.9))
	assert.Greater(t, hard.StaticDifficulty, easy.StaticDifficulty)
}

// Two puzzles sharing a semantic key share one DNA entry.
func TestAnalyze_CachesBySemanticKey(t *testing.T) {
	a := newTestAnalyzer()
	ctx := context.Background()

	p1 := testPuzzle(0.31)
	p2 := testPuzzle(0.33) // same decile bucket, different instance
	p2.ID = "p2"
	require.Equal(t, p1.SemanticKey(), p2.SemanticKey())

	first := a.Analyze(ctx, p1)
	first.Observations = 7
	require.NoError(t, a.cache.Set(ctx, first))

	second := a.Analyze(ctx, p2)
	assert.Equal(t, 7, second.Observations, "second analysis must come from cache")
}

func TestApplyObservation_BelowThresholdOnlyCounts(t *testing.T) {
	a := newTestAnalyzer()
	ctx := context.Background()

	dna := a.Analyze(ctx, testPuzzle(0.5))
	before := dna.DiscoveredDifficulty

	a.ApplyObservation(ctx, dna, false, 30000, 0.2, 5)
	assert.Equal(t, 1, dna.Observations)
	assert.Equal(t, before, dna.DiscoveredDifficulty, "estimate frozen until enough observations")
}

func TestApplyObservation_FailureRaisesDifficulty(t *testing.T) {
	a := newTestAnalyzer()
	ctx := context.Background()

	dna := a.Analyze(ctx, testPuzzle(0.5))
	dna.Observations = 10
	before := dna.DiscoveredDifficulty

	a.ApplyObservation(ctx, dna, false, 30000, 0.5, 5)
	assert.Greater(t, dna.DiscoveredDifficulty, before)
	assert.LessOrEqual(t, dna.DiscoveredDifficulty, 1.0)
}

func TestApplyObservation_FastSuccessLowersDifficulty(t *testing.T) {
	a := newTestAnalyzer()
	ctx := context.Background()

	dna := a.Analyze(ctx, testPuzzle(0.5))
	dna.Observations = 10
	before := dna.DiscoveredDifficulty

	// Solved in a fraction of the estimated time.
	a.ApplyObservation(ctx, dna, true, dna.Cognitive.EstimatedSolveMs/4, 0.7, 5)
	assert.Less(t, dna.DiscoveredDifficulty, before)
	assert.GreaterOrEqual(t, dna.DiscoveredDifficulty, 0.0)
}

func TestObservationConfidence_Saturates(t *testing.T) {
	dna := &model.PuzzleDNA{Observations: 3}
	assert.InDelta(t, 0.3, dna.ObservationConfidence(), 0.001)

	dna.Observations = 25
	assert.Equal(t, 1.0, dna.ObservationConfidence())
}
