package engine

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/5hiel/artistic-minds-sub000/internal/config"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
	"github.com/5hiel/artistic-minds-sub000/internal/puzzle"
)

// CandidateGenerator fills the candidate pool according to a PoolPlan.
// Provider failures are recovered per slot via the fallback provider; the
// pool is never aborted.
type CandidateGenerator struct {
	registry *puzzle.Registry
	logger   *zap.Logger
}

// NewCandidateGenerator creates a generator over the provider registry.
func NewCandidateGenerator(registry *puzzle.Registry, logger *zap.Logger) *CandidateGenerator {
	return &CandidateGenerator{registry: registry, logger: logger}
}

// slotRequest is one pool slot before generation.
type slotRequest struct {
	category   model.Category
	typeName   string
	difficulty float64
}

// Generate produces pool-size candidates. Slots run concurrently since they
// are independent and read-only with respect to shared state.
func (g *CandidateGenerator) Generate(ctx context.Context, plan PoolPlan, profile *model.UserProfile, pattern *model.BehavioralPattern, cfg *config.EngineConfig) []model.Candidate {
	slots := g.planSlots(plan, profile, cfg)
	recent := pattern.RecentTypes(cfg.VarietyWindow)

	candidates := make([]model.Candidate, len(slots))
	grp, gctx := errgroup.WithContext(ctx)
	for i, slot := range slots {
		i, slot := i, slot
		grp.Go(func() error {
			candidates[i] = g.generateSlot(gctx, slot, recent)
			return nil
		})
	}
	grp.Wait() // workers never return errors; failures fall back per slot

	return candidates
}

func (g *CandidateGenerator) generateSlot(ctx context.Context, slot slotRequest, recent []string) model.Candidate {
	req := puzzle.ProviderRequest{TargetDifficulty: slot.difficulty, RecentTypes: recent}

	provider := g.registry.Provider(slot.typeName)
	if provider != nil {
		p, err := provider.Generate(ctx, req)
		if err == nil {
			if verr := p.Validate(); verr == nil {
				return model.Candidate{Puzzle: p, Category: slot.category}
			} else {
				g.logger.Warn("provider returned invalid puzzle, using fallback",
					zap.String("type", slot.typeName), zap.Error(verr))
			}
		} else {
			g.logger.Warn("provider generation failed, using fallback",
				zap.String("type", slot.typeName), zap.Error(err))
		}
	}

	p, err := g.registry.Fallback().Generate(ctx, req)
	if err != nil || p.Validate() != nil {
		// The fallback provider cannot fail by construction; guard anyway.
		g.logger.Error("fallback provider failed", zap.Error(err))
		return model.Candidate{Puzzle: staticFallbackPuzzle(), Category: slot.category}
	}
	return model.Candidate{Puzzle: p, Category: slot.category}
}

// planSlots expands the strategy into concrete (category, type, difficulty)
// slots, rotating through the per-category type preference order.
func (g *CandidateGenerator) planSlots(plan PoolPlan, profile *model.UserProfile, cfg *config.EngineConfig) []slotRequest {
	slots := make([]slotRequest, 0, plan.Strategy.Total())
	for _, category := range model.Categories {
		count := plan.Strategy.Count(category)
		if count == 0 {
			continue
		}
		types := g.typesFor(category, plan, profile)
		difficulty := g.targetDifficulty(category, profile, cfg)
		for i := 0; i < count; i++ {
			slots = append(slots, slotRequest{
				category:   category,
				typeName:   types[i%len(types)],
				difficulty: difficulty,
			})
		}
	}
	return slots
}

// typesFor orders registered types by the category's learning intent.
func (g *CandidateGenerator) typesFor(category model.Category, plan PoolPlan, profile *model.UserProfile) []string {
	all := g.registry.Types()

	switch category {
	case model.CategoryConfidenceBuilder:
		// Historically strongest types first.
		return sortTypes(all, profile, func(a, b *model.TypeStats) bool {
			return accuracyOf(a) > accuracyOf(b)
		})

	case model.CategorySkillDevelopment:
		if plan.StrongFamily != "" {
			if family := g.registry.TypesByFamily(plan.StrongFamily); len(family) > 0 {
				return family
			}
		}
		// Middling accuracy means room to grow.
		return sortTypes(all, profile, func(a, b *model.TypeStats) bool {
			return math.Abs(accuracyOf(a)-0.6) < math.Abs(accuracyOf(b)-0.6)
		})

	case model.CategoryProgressiveChallenge:
		// Types the user already handles, pushed harder.
		return sortTypes(all, profile, func(a, b *model.TypeStats) bool {
			return accuracyOf(a) > accuracyOf(b)
		})

	case model.CategoryEngagementRecovery:
		// Best-liked types first.
		return sortTypes(all, profile, func(a, b *model.TypeStats) bool {
			return preferenceOf(a) > preferenceOf(b)
		})

	case model.CategoryExploratoryNew:
		// Rarely played types first.
		return sortTypes(all, profile, func(a, b *model.TypeStats) bool {
			return attemptsOf(a) < attemptsOf(b)
		})
	}
	return all
}

// targetDifficulty computes the per-category difficulty request.
func (g *CandidateGenerator) targetDifficulty(category model.Category, profile *model.UserProfile, cfg *config.EngineConfig) float64 {
	skill := profile.CurrentSkillLevel
	switch category {
	case model.CategoryConfidenceBuilder:
		return math.Max(0.1, profile.PreferredDifficulty-0.15)
	case model.CategorySkillDevelopment:
		return clamp01(skill)
	case model.CategoryProgressiveChallenge:
		stretch := skill + 0.15
		if profile.CurrentMaxDifficulty > 0 && stretch > profile.CurrentMaxDifficulty {
			stretch = profile.CurrentMaxDifficulty
		}
		return clamp01(stretch)
	case model.CategoryEngagementRecovery:
		return math.Max(0.1, profile.PreferredDifficulty-0.1)
	case model.CategoryExploratoryNew:
		return clamp01(0.3 + 0.2*skill)
	}
	return clamp01(skill)
}

// sortTypes sorts type names by a comparison over their profile stats.
// Types never attempted compare as zero-valued stats. Name order breaks
// ties for determinism.
func sortTypes(names []string, profile *model.UserProfile, less func(a, b *model.TypeStats) bool) []string {
	sorted := append([]string(nil), names...)
	var zero model.TypeStats
	statsOf := func(name string) *model.TypeStats {
		if st, ok := profile.TypeStats[name]; ok {
			return st
		}
		return &zero
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := statsOf(sorted[i]), statsOf(sorted[j])
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

func accuracyOf(st *model.TypeStats) float64 {
	if st.Attempts == 0 {
		return 0.5 // neutral prior for unattempted types
	}
	return st.Accuracy
}

func preferenceOf(st *model.TypeStats) float64 { return st.Preference }
func attemptsOf(st *model.TypeStats) int       { return st.Attempts }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// staticFallbackPuzzle is the last-resort candidate when even the fallback
// provider errors. Constant and always valid.
func staticFallbackPuzzle() *model.Puzzle {
	return &model.Puzzle{
		ID:          "fallback-static",
		Question:    "What is 2 + 2?",
		Options:     []string{"3", "4", "5", "6"},
		CorrectIdx:  1,
		Explanation: "2 + 2 = 4.",
		Type:        "basic_arithmetic",
		Subtype:     "addition",
		Difficulty:  0.1,
	}
}
