package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/5hiel/artistic-minds-sub000/internal/cache"
	"github.com/5hiel/artistic-minds-sub000/internal/config"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
	"github.com/5hiel/artistic-minds-sub000/internal/puzzle"
	"github.com/5hiel/artistic-minds-sub000/internal/repository"
)

type feedbackFixture struct {
	updater     *FeedbackUpdater
	repo        *repository.MemoryProfileRepo
	leaderboard *cache.MemoryLeaderboardCache
	cfg         *config.EngineConfig
}

func newFeedbackFixture() *feedbackFixture {
	repo := repository.NewMemoryProfileRepo()
	leaderboard := cache.NewMemoryLeaderboardCache()
	analyzer := NewAnalyzer(puzzle.DefaultRegistry(), cache.NewMemoryDNACache(), zap.NewNop())
	return &feedbackFixture{
		updater:     NewFeedbackUpdater(repo, analyzer, leaderboard, zap.NewNop()),
		repo:        repo,
		leaderboard: leaderboard,
		cfg:         config.Default(),
	}
}

func recommendationFor(puzzleType string, difficulty float64) *model.PuzzleRecommendation {
	return &model.PuzzleRecommendation{
		ID:     "rec-1",
		UserID: "u1",
		Puzzle: &model.Puzzle{
			ID:         "p1",
			Type:       puzzleType,
			Subtype:    "additive",
			Difficulty: difficulty,
		},
		DNA: &model.PuzzleDNA{
			Key:                  puzzleType + ":additive:5",
			DiscoveredDifficulty: difficulty,
			Cognitive:            model.CognitiveLoad{EstimatedSolveMs: 10000},
			UpdatedAt:            time.Now(),
		},
		Category:  model.CategorySkillDevelopment,
		CreatedAt: time.Now(),
	}
}

func successOutcome(solveMs int64, engagement float64) *model.CompletionOutcome {
	return &model.CompletionOutcome{
		RecommendationID: "rec-1",
		Success:          true,
		SolveMs:          solveMs,
		Engagement:       &engagement,
	}
}

func TestApply_SolvedCounterMonotonic(t *testing.T) {
	f := newFeedbackFixture()
	ctx := context.Background()

	profile := model.DefaultProfile("u1")
	pattern := model.NewBehavioralPattern(50)
	session := model.NewSessionContext("s1", "u1")

	for i := 0; i < 20; i++ {
		before := profile.TotalPuzzlesSolved
		outcome := successOutcome(8000, 0.6)
		outcome.Success = i%3 != 0
		f.updater.Apply(ctx, profile, pattern, session, recommendationFor(puzzle.TypeArithmeticSequence, 0.5), outcome, f.cfg)
		assert.Equal(t, before+1, profile.TotalPuzzlesSolved)
	}
}

func TestApply_TypeStatsAndAccuracy(t *testing.T) {
	f := newFeedbackFixture()
	ctx := context.Background()

	profile := model.DefaultProfile("u1")
	pattern := model.NewBehavioralPattern(50)
	session := model.NewSessionContext("s1", "u1")

	f.updater.Apply(ctx, profile, pattern, session, recommendationFor(puzzle.TypeArithmeticSequence, 0.5), successOutcome(8000, 0.7), f.cfg)
	fail := successOutcome(12000, 0.4)
	fail.Success = false
	f.updater.Apply(ctx, profile, pattern, session, recommendationFor(puzzle.TypeArithmeticSequence, 0.5), fail, f.cfg)

	st := profile.TypeStats[puzzle.TypeArithmeticSequence]
	require.NotNil(t, st)
	assert.Equal(t, 2, st.Attempts)
	assert.Equal(t, 1, st.Correct)
	assert.InDelta(t, 0.5, st.Accuracy, 0.001)
	assert.InDelta(t, 10000, st.AvgResponseMs, 0.001)
	assert.InDelta(t, 0.5, profile.OverallAccuracy, 0.001)
}

func TestApply_SkillMovesTowardProvenDifficulty(t *testing.T) {
	f := newFeedbackFixture()
	ctx := context.Background()

	profile := model.DefaultProfile("u1")
	pattern := model.NewBehavioralPattern(50)
	before := profile.CurrentSkillLevel

	f.updater.Apply(ctx, profile, pattern, nil, recommendationFor(puzzle.TypeFigureMatrix, 0.7), successOutcome(9000, 0.7), f.cfg)
	assert.Greater(t, profile.CurrentSkillLevel, before, "success above skill raises it")

	before = profile.CurrentSkillLevel
	fail := successOutcome(20000, 0.3)
	fail.Success = false
	f.updater.Apply(ctx, profile, pattern, nil, recommendationFor(puzzle.TypeFigureMatrix, 0.1), fail, f.cfg)
	assert.Less(t, profile.CurrentSkillLevel, before, "failure below skill lowers it")
}

func TestApply_MomentumStaysBounded(t *testing.T) {
	f := newFeedbackFixture()
	ctx := context.Background()

	profile := model.DefaultProfile("u1")
	pattern := model.NewBehavioralPattern(50)

	for i := 0; i < 60; i++ {
		f.updater.Apply(ctx, profile, pattern, nil, recommendationFor(puzzle.TypePatternGrid, 0.5), successOutcome(7000, 0.9), f.cfg)
	}
	assert.LessOrEqual(t, profile.SkillMomentum, 1.0)
	assert.GreaterOrEqual(t, profile.SkillMomentum, -1.0)
	assert.Greater(t, profile.SkillMomentum, 0.0, "a long success run reads as positive momentum")
}

func TestApply_PersistsProfileAndLeaderboard(t *testing.T) {
	f := newFeedbackFixture()
	ctx := context.Background()

	profile := model.DefaultProfile("u1")
	pattern := model.NewBehavioralPattern(50)

	f.updater.Apply(ctx, profile, pattern, nil, recommendationFor(puzzle.TypePatternGrid, 0.4), successOutcome(6000, 0.7), f.cfg)

	stored, err := f.repo.Load(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.TotalPuzzlesSolved)

	top, err := f.leaderboard.GetTop(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "u1", top[0].UserID)
	assert.Equal(t, 1, top[0].Solved)
}

func TestApply_DNAObservationRecorded(t *testing.T) {
	f := newFeedbackFixture()
	ctx := context.Background()

	rec := recommendationFor(puzzle.TypePatternGrid, 0.5)
	f.updater.Apply(ctx, model.DefaultProfile("u1"), model.NewBehavioralPattern(50), nil, rec, successOutcome(8000, 0.6), f.cfg)
	assert.Equal(t, 1, rec.DNA.Observations)
}

func TestApply_LevelTracksSolvedCount(t *testing.T) {
	f := newFeedbackFixture()
	ctx := context.Background()

	profile := model.DefaultProfile("u1")
	pattern := model.NewBehavioralPattern(50)

	for i := 0; i < 25; i++ {
		f.updater.Apply(ctx, profile, pattern, nil, recommendationFor(puzzle.TypePatternGrid, 0.4), successOutcome(7000, 0.6), f.cfg)
	}
	assert.Equal(t, 3, profile.Level)
}
