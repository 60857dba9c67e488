package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"

	"go.uber.org/zap"

	"github.com/5hiel/artistic-minds-sub000/internal/cache"
	"github.com/5hiel/artistic-minds-sub000/internal/config"
	"github.com/5hiel/artistic-minds-sub000/internal/engine"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
	"github.com/5hiel/artistic-minds-sub000/internal/puzzle"
	"github.com/5hiel/artistic-minds-sub000/internal/repository"
)

// persona models a simulated player: base ability, engagement bias, and how
// sharply their success odds fall off with difficulty.
type persona struct {
	name       string
	skill      float64
	engagement float64
	falloff    float64
}

var personas = []persona{
	{name: "beginner", skill: 0.25, engagement: 0.6, falloff: 4.0},
	{name: "steady", skill: 0.5, engagement: 0.55, falloff: 3.0},
	{name: "expert", skill: 0.85, engagement: 0.45, falloff: 2.0},
	{name: "frustrated", skill: 0.35, engagement: 0.3, falloff: 5.0},
}

func main() {
	puzzles := flag.Int("puzzles", 50, "puzzles per persona")
	seed := flag.Int64("seed", 42, "rng seed")
	flag.Parse()

	logger := zap.NewNop()
	if os.Getenv("ENGINE_DEBUG") == "true" {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	}

	cfg := config.Default()
	eng := engine.New(
		puzzle.DefaultRegistry(),
		repository.NewMemoryProfileRepo(),
		cache.NewMemoryDNACache(),
		cache.NewMemorySessionCache(),
		cache.NewMemoryLeaderboardCache(),
		nil,
		cfg,
		logger,
	)

	ctx := context.Background()
	rng := rand.New(rand.NewSource(*seed))

	fmt.Printf("%-12s %8s %8s %8s %10s %10s\n",
		"persona", "solved", "correct", "skill", "momentum", "preferred")
	for _, p := range personas {
		runPersona(ctx, eng, p, *puzzles, rng)
	}
}

// runPersona plays one simulated user through the engine and prints how the
// profile tracked them.
func runPersona(ctx context.Context, eng *engine.Engine, p persona, puzzles int, rng *rand.Rand) {
	userID := "sim-" + p.name
	correct := 0
	var profile *model.UserProfile

	for i := 0; i < puzzles; i++ {
		rec, err := eng.Recommend(ctx, userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: recommend failed: %v\n", userID, err)
			return
		}

		success := rng.Float64() < successChance(p, rec.DNA.DiscoveredDifficulty)
		if success {
			correct++
		}
		engagement := clamp01(p.engagement + 0.2*(rng.Float64()-0.5))
		outcome := &model.CompletionOutcome{
			RecommendationID: rec.ID,
			Success:          success,
			SolveMs:          int64(3000 + rng.Intn(15000)),
			Engagement:       &engagement,
		}

		profile, err = eng.Complete(ctx, userID, outcome)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: complete failed: %v\n", userID, err)
			return
		}
	}

	if err := eng.EndSession(ctx, userID); err != nil {
		fmt.Fprintf(os.Stderr, "%s: end session failed: %v\n", userID, err)
	}

	fmt.Printf("%-12s %8d %8d %8.2f %10.2f %10.2f\n",
		p.name, profile.TotalPuzzlesSolved, correct,
		profile.CurrentSkillLevel, profile.SkillMomentum, profile.PreferredDifficulty)
}

// successChance is a logistic curve centered on the persona's skill.
func successChance(p persona, difficulty float64) float64 {
	gap := p.skill - difficulty
	return 1 / (1 + math.Exp(-p.falloff*gap))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
