package engine

import (
	"context"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/5hiel/artistic-minds-sub000/internal/cache"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
	"github.com/5hiel/artistic-minds-sub000/internal/puzzle"
)

// Difficulty formula weights. Base plus the declared generation difficulty
// plus visual, logical, and cognitive terms, with bonuses for multi-step
// reasoning and high memory demand.
const (
	difficultyBase        = 0.15
	weightDeclared        = 0.25
	weightElementCount    = 0.08
	weightColorVariety    = 0.04
	weightVisualNoise     = 0.03
	weightRuleDepth       = 0.2
	weightSophistication  = 0.1
	weightAbstraction     = 0.1
	weightSolveTime       = 0.1
	weightErrorProneness  = 0.05
	bonusMultiStep        = 0.05
	bonusHighMemory       = 0.05
	observationEMAWeight  = 0.7 // weight of the new observation vs the prior
)

// Analyzer computes PuzzleDNA descriptors. Results are cached by semantic
// key so structurally identical puzzles skip recomputation and share their
// discovered fields.
type Analyzer struct {
	registry *puzzle.Registry
	cache    cache.DNACache
	logger   *zap.Logger
}

// NewAnalyzer creates an analyzer over the given DNA cache.
func NewAnalyzer(registry *puzzle.Registry, dnaCache cache.DNACache, logger *zap.Logger) *Analyzer {
	return &Analyzer{registry: registry, cache: dnaCache, logger: logger}
}

// Analyze returns the DNA for a puzzle, from cache when available. Cache
// failures degrade to a fresh static analysis, never an error.
func (a *Analyzer) Analyze(ctx context.Context, p *model.Puzzle) *model.PuzzleDNA {
	key := p.SemanticKey()

	cached, err := a.cache.Get(ctx, key)
	if err != nil {
		a.logger.Warn("dna cache read failed, recomputing", zap.String("key", key), zap.Error(err))
	}
	if cached != nil {
		return cached
	}

	dna := a.analyzeStatic(p)
	if err := a.cache.Set(ctx, dna); err != nil {
		a.logger.Warn("dna cache write failed", zap.String("key", key), zap.Error(err))
	}
	return dna
}

// ApplyObservation folds one completion outcome into the DNA's discovered
// fields. The exponential update only engages once enough observations
// accumulated; until then the static seed stands.
func (a *Analyzer) ApplyObservation(ctx context.Context, dna *model.PuzzleDNA, success bool, solveMs int64, engagement float64, minObservations int) {
	dna.Observations++

	if dna.Observations >= minObservations {
		observed := a.observedDifficulty(dna, success, solveMs)
		dna.DiscoveredDifficulty = clamp01(observationEMAWeight*observed + (1-observationEMAWeight)*dna.DiscoveredDifficulty)
		dna.EngagementPotential = clamp01(observationEMAWeight*engagement + (1-observationEMAWeight)*dna.EngagementPotential)
	}
	dna.UpdatedAt = time.Now()

	if err := a.cache.Set(ctx, dna); err != nil {
		a.logger.Warn("dna cache write failed after observation", zap.String("key", dna.Key), zap.Error(err))
	}
}

// observedDifficulty translates an outcome into a difficulty reading. A
// failure reads harder; a faster-than-estimated success reads easier.
func (a *Analyzer) observedDifficulty(dna *model.PuzzleDNA, success bool, solveMs int64) float64 {
	if !success {
		return clamp01(dna.DiscoveredDifficulty + 0.2)
	}
	timeRatio := 1.0
	if dna.Cognitive.EstimatedSolveMs > 0 {
		timeRatio = float64(solveMs) / float64(dna.Cognitive.EstimatedSolveMs)
		if timeRatio < 0.25 {
			timeRatio = 0.25
		}
		if timeRatio > 2 {
			timeRatio = 2
		}
	}
	return clamp01(dna.DiscoveredDifficulty * (0.7 + 0.3*timeRatio) * 0.9)
}

// analyzeStatic derives the full DNA from the puzzle instance alone.
func (a *Analyzer) analyzeStatic(p *model.Puzzle) *model.PuzzleDNA {
	visual := analyzeVisual(p)
	logical := analyzeLogical(p)
	cognitive := analyzeCognitive(p, logical)

	difficulty := difficultyBase
	difficulty += p.Difficulty * weightDeclared
	difficulty += clamp01(float64(visual.ElementCount)/40) * weightElementCount
	difficulty += clamp01(float64(visual.ColorVariety)/6) * weightColorVariety
	difficulty += visual.VisualNoise * weightVisualNoise
	difficulty += float64(logical.RuleDepth) / 5 * weightRuleDepth
	difficulty += logical.PatternSophistication * weightSophistication
	difficulty += logical.AbstractionLevel * weightAbstraction
	difficulty += clamp01(float64(cognitive.EstimatedSolveMs)/30000) * weightSolveTime
	difficulty += cognitive.ErrorProneness * weightErrorProneness
	if logical.MultiStep {
		difficulty += bonusMultiStep
	}
	if logical.MemoryTier >= model.MemoryTierHigh {
		difficulty += bonusHighMemory
	}
	difficulty = clamp01(difficulty)

	skillTargets := []string{"problem_solving"}
	engagement := 0.5
	if info, ok := a.registry.Info(p.Type); ok {
		skillTargets = info.SkillTargets
		engagement = info.BaseEngagement
	}

	return &model.PuzzleDNA{
		Key:                  p.SemanticKey(),
		Visual:               visual,
		Logical:              logical,
		Cognitive:            cognitive,
		StaticDifficulty:     difficulty,
		DiscoveredDifficulty: difficulty,
		EngagementPotential:  engagement,
		SkillTargets:         skillTargets,
		UpdatedAt:            time.Now(),
	}
}

func analyzeVisual(p *model.Puzzle) model.VisualComplexity {
	elements := len(strings.Fields(p.Question))

	// Distinct non-letter glyphs approximate symbol/color variety.
	glyphs := make(map[rune]bool)
	for _, r := range p.Question {
		if r > unicode.MaxASCII && !unicode.IsLetter(r) {
			glyphs[r] = true
		}
	}

	layout := "linear"
	switch p.Type {
	case puzzle.TypeFigureMatrix:
		layout = "matrix"
	case puzzle.TypePatternGrid:
		layout = "grid"
	}

	noise := clamp01(float64(elements)/50 + float64(len(glyphs))/12)

	return model.VisualComplexity{
		ElementCount:   elements,
		ColorVariety:   len(glyphs),
		SpatialDensity: clamp01(float64(elements) / 30),
		Layout:         layout,
		Symmetric:      strings.Contains(p.Subtype, "mirror") || strings.HasPrefix(p.Subtype, "shift"),
		VisualNoise:    noise,
	}
}

func analyzeLogical(p *model.Puzzle) model.LogicalComplexity {
	multiStep := p.Subtype == "two_step" || p.Subtype == "geometric" || p.Type == puzzle.TypeFigureMatrix

	depth := 1 + int(p.Difficulty*3)
	if multiStep {
		depth++
	}
	if depth > 5 {
		depth = 5
	}

	abstraction := p.Difficulty * 0.5
	relationships := []string{"sequence"}
	switch p.Type {
	case puzzle.TypeNumberAnalogy:
		abstraction += 0.3
		relationships = []string{"analogy", "proportion"}
	case puzzle.TypeFigureMatrix:
		abstraction += 0.25
		relationships = []string{"transformation", "position"}
	case puzzle.TypeAlgebraicReasoning:
		abstraction += 0.2
		relationships = []string{"equation", "inverse"}
	case puzzle.TypePatternGrid:
		relationships = []string{"repetition", "position"}
	}

	memoryTier := model.MemoryTierLow
	if p.Type == puzzle.TypeSerialReasoning || p.Type == puzzle.TypeArithmeticSequence {
		memoryTier = model.MemoryTierMedium
	}
	if p.Type == puzzle.TypeFigureMatrix && p.Difficulty > 0.6 {
		memoryTier = model.MemoryTierHigh
	}

	return model.LogicalComplexity{
		RuleDepth:             depth,
		PatternSophistication: clamp01(p.Difficulty*0.7 + 0.1),
		AbstractionLevel:      clamp01(abstraction),
		MultiStep:             multiStep,
		MemoryTier:            memoryTier,
		RelationshipTypes:     relationships,
	}
}

func analyzeCognitive(p *model.Puzzle, logical model.LogicalComplexity) model.CognitiveLoad {
	solveMs := int64(5000 + p.Difficulty*20000)
	solveMs += int64(logical.RuleDepth-1) * 2000

	return model.CognitiveLoad{
		EstimatedSolveMs: solveMs,
		ErrorProneness:   clamp01(0.2 + 0.5*p.Difficulty),
	}
}
