package model

import "time"

// Memory requirement tiers for logical complexity.
const (
	MemoryTierLow    = 1
	MemoryTierMedium = 2
	MemoryTierHigh   = 3
)

// VisualComplexity describes what the eye has to parse.
type VisualComplexity struct {
	ElementCount   int     `json:"elementCount"`
	ColorVariety   int     `json:"colorVariety"`
	SpatialDensity float64 `json:"spatialDensity"` // 0..1
	Layout         string  `json:"layout"`         // "linear", "grid", "matrix"
	Symmetric      bool    `json:"symmetric"`
	VisualNoise    float64 `json:"visualNoise"` // 0..1
}

// LogicalComplexity describes what the mind has to do.
type LogicalComplexity struct {
	RuleDepth             int      `json:"ruleDepth"` // 1..5
	PatternSophistication float64  `json:"patternSophistication"` // 0..1
	AbstractionLevel      float64  `json:"abstractionLevel"`      // 0..1
	MultiStep             bool     `json:"multiStep"`
	MemoryTier            int      `json:"memoryTier"`
	RelationshipTypes     []string `json:"relationshipTypes"`
}

// CognitiveLoad is the analyzer's solve-effort estimate.
type CognitiveLoad struct {
	EstimatedSolveMs int64   `json:"estimatedSolveMs"`
	ErrorProneness   float64 `json:"errorProneness"` // 0..1
}

// PuzzleDNA is the derived descriptor for a class of structurally identical
// puzzles, keyed by Puzzle.SemanticKey. Static analysis seeds the discovered
// fields; observed outcomes smooth them over time.
type PuzzleDNA struct {
	Key                  string            `json:"key"`
	Visual               VisualComplexity  `json:"visual"`
	Logical              LogicalComplexity `json:"logical"`
	Cognitive            CognitiveLoad     `json:"cognitive"`
	StaticDifficulty     float64           `json:"staticDifficulty"`
	DiscoveredDifficulty float64           `json:"discoveredDifficulty"`
	EngagementPotential  float64           `json:"engagementPotential"`
	SkillTargets         []string          `json:"skillTargets"`
	Observations         int               `json:"observations"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

// ObservationConfidence grows with sample count and saturates around 10.
func (d *PuzzleDNA) ObservationConfidence() float64 {
	c := float64(d.Observations) / 10.0
	if c > 1 {
		c = 1
	}
	return c
}

// TargetsSkill reports whether the DNA lists the given skill.
func (d *PuzzleDNA) TargetsSkill(skill string) bool {
	for _, s := range d.SkillTargets {
		if s == skill {
			return true
		}
	}
	return false
}
