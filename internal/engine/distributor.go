package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/5hiel/artistic-minds-sub000/internal/config"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
	"github.com/5hiel/artistic-minds-sub000/internal/puzzle"
)

// baseDistributions is the fixed lookup table, keyed by base state. Each row
// sums to 10 and is scaled when the configured pool size differs.
var baseDistributions = map[model.BaseState]model.PoolStrategy{
	model.StateNewUser:            {ConfidenceBuilders: 7, SkillDevelopment: 2, ProgressiveChallenge: 1},
	model.StateSeverelyStruggling: {ConfidenceBuilders: 8, SkillDevelopment: 1, EngagementRecovery: 1},
	model.StateStruggling:         {ConfidenceBuilders: 6, SkillDevelopment: 2, ProgressiveChallenge: 1, EngagementRecovery: 1},
	model.StateFallingBack:        {ConfidenceBuilders: 5, SkillDevelopment: 3, ProgressiveChallenge: 1, EngagementRecovery: 1},
	model.StateStable:             {ConfidenceBuilders: 3, SkillDevelopment: 3, ProgressiveChallenge: 2, EngagementRecovery: 1, ExploratoryNew: 1},
	model.StateProgressing:        {ConfidenceBuilders: 2, SkillDevelopment: 4, ProgressiveChallenge: 3, ExploratoryNew: 1},
	model.StateExcelling:          {ConfidenceBuilders: 1, SkillDevelopment: 2, ProgressiveChallenge: 5, ExploratoryNew: 2},
	model.StateExpertDemanding:    {SkillDevelopment: 1, ProgressiveChallenge: 7, ExploratoryNew: 2},
}

// PoolPlan is the distributor output: the slot distribution plus the strong
// family detected by the strength heuristic, when any.
type PoolPlan struct {
	Strategy     model.PoolStrategy
	StrongFamily model.PuzzleFamily // "" when no strength bias applies
}

// Distributor turns a classification into a candidate pool plan.
type Distributor struct {
	registry *puzzle.Registry
	logger   *zap.Logger
}

// NewDistributor creates a distributor over the given provider registry.
func NewDistributor(registry *puzzle.Registry, logger *zap.Logger) *Distributor {
	return &Distributor{registry: registry, logger: logger}
}

// Distribute applies the base table, the early-progression adjustment, the
// strength-detection bias, and a disengagement shift, then renormalizes.
func (d *Distributor) Distribute(classification *model.UserStateClassification, profile *model.UserProfile, cfg *config.EngineConfig) PoolPlan {
	base, ok := baseDistributions[classification.BaseState]
	if !ok {
		base = baseDistributions[model.StateStable]
	}
	strategy := scaleStrategy(base, cfg.PoolSize)

	// Early-progression bias: before the configured level, favor confidence
	// builders over stretch content. The new-user row already encodes this
	// caution, so it is exempt.
	if classification.BaseState != model.StateNewUser && profile.Level < cfg.EarlyLevelThreshold {
		shift := min(2, strategy.ProgressiveChallenge)
		strategy.ProgressiveChallenge -= shift
		strategy.ConfidenceBuilders += shift
	}

	// Strength detection: a user strong in one family and weak in another
	// gets extra skill development drawn on the strong family's types.
	strongFamily := d.detectStrength(profile, cfg)
	if strongFamily != "" {
		shift := min(2, strategy.ConfidenceBuilders)
		strategy.ConfidenceBuilders -= shift
		strategy.SkillDevelopment += shift
	}

	// Disengaged users trade exploration for recovery content.
	if classification.HasModifier(model.ModDisengaged) {
		shift := min(1, strategy.ExploratoryNew)
		strategy.ExploratoryNew -= shift
		strategy.EngagementRecovery += shift
	}

	if err := strategy.Validate(cfg.PoolSize); err != nil {
		if cfg.Strict {
			panic(fmt.Sprintf("pool distribution invariant violated: %v", err))
		}
		d.logger.Warn("pool distribution invariant violated, auto-correcting",
			zap.Error(err),
			zap.String("baseState", string(classification.BaseState)))
		strategy.Normalize(cfg.PoolSize)
	}

	return PoolPlan{Strategy: strategy, StrongFamily: strongFamily}
}

// detectStrength implements the pattern-strong/math-weak heuristic: average
// accuracy at or above the strong threshold across one family's attempted
// types, below the weak threshold on at least the configured share of
// another family's attempted types.
func (d *Distributor) detectStrength(profile *model.UserProfile, cfg *config.EngineConfig) model.PuzzleFamily {
	families := []model.PuzzleFamily{model.FamilyPattern, model.FamilyNumeric, model.FamilyReasoning}

	type familyStats struct {
		attempted int
		weak      int
		accSum    float64
	}
	stats := make(map[model.PuzzleFamily]*familyStats)
	for _, f := range families {
		fs := &familyStats{}
		for _, typeName := range d.registry.TypesByFamily(f) {
			st, ok := profile.TypeStats[typeName]
			if !ok || st.Attempts < 3 {
				continue
			}
			fs.attempted++
			fs.accSum += st.Accuracy
			if st.Accuracy < cfg.StrengthWeakAccuracy {
				fs.weak++
			}
		}
		stats[f] = fs
	}

	for _, strong := range families {
		fs := stats[strong]
		if fs.attempted == 0 || fs.accSum/float64(fs.attempted) < cfg.StrengthStrongAccuracy {
			continue
		}
		for _, weak := range families {
			if weak == strong {
				continue
			}
			ws := stats[weak]
			if ws.attempted == 0 {
				continue
			}
			if float64(ws.weak)/float64(ws.attempted) >= cfg.StrengthWeakShare {
				return strong
			}
		}
	}
	return ""
}

// scaleStrategy proportionally rescales a 10-slot row to the configured
// pool size, then normalizes away rounding drift.
func scaleStrategy(base model.PoolStrategy, size int) model.PoolStrategy {
	if size == 10 {
		return base
	}
	scaled := model.PoolStrategy{}
	for _, c := range model.Categories {
		scaled.SetCount(c, base.Count(c)*size/10)
	}
	scaled.Normalize(size)
	return scaled
}
