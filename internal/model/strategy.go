package model

import "fmt"

// Category names the five candidate-generation intents.
type Category string

const (
	CategoryConfidenceBuilder    Category = "confidence_builder"
	CategorySkillDevelopment     Category = "skill_development"
	CategoryProgressiveChallenge Category = "progressive_challenge"
	CategoryEngagementRecovery   Category = "engagement_recovery"
	CategoryExploratoryNew       Category = "exploratory_new"
)

// Categories in a stable iteration order.
var Categories = []Category{
	CategoryConfidenceBuilder,
	CategorySkillDevelopment,
	CategoryProgressiveChallenge,
	CategoryEngagementRecovery,
	CategoryExploratoryNew,
}

// PoolStrategy distributes the candidate pool across the five categories.
// Counts are non-negative and must sum to the configured pool size.
type PoolStrategy struct {
	ConfidenceBuilders   int `json:"confidenceBuilders"`
	SkillDevelopment     int `json:"skillDevelopment"`
	ProgressiveChallenge int `json:"progressiveChallenge"`
	EngagementRecovery   int `json:"engagementRecovery"`
	ExploratoryNew       int `json:"exploratoryNew"`
}

// Count returns the slot count for a category.
func (s PoolStrategy) Count(c Category) int {
	switch c {
	case CategoryConfidenceBuilder:
		return s.ConfidenceBuilders
	case CategorySkillDevelopment:
		return s.SkillDevelopment
	case CategoryProgressiveChallenge:
		return s.ProgressiveChallenge
	case CategoryEngagementRecovery:
		return s.EngagementRecovery
	case CategoryExploratoryNew:
		return s.ExploratoryNew
	}
	return 0
}

// SetCount assigns the slot count for a category.
func (s *PoolStrategy) SetCount(c Category, n int) {
	switch c {
	case CategoryConfidenceBuilder:
		s.ConfidenceBuilders = n
	case CategorySkillDevelopment:
		s.SkillDevelopment = n
	case CategoryProgressiveChallenge:
		s.ProgressiveChallenge = n
	case CategoryEngagementRecovery:
		s.EngagementRecovery = n
	case CategoryExploratoryNew:
		s.ExploratoryNew = n
	}
}

// Total sums all category counts.
func (s PoolStrategy) Total() int {
	return s.ConfidenceBuilders + s.SkillDevelopment + s.ProgressiveChallenge +
		s.EngagementRecovery + s.ExploratoryNew
}

// Validate enforces the pool invariant: non-negative counts summing to size.
func (s PoolStrategy) Validate(size int) error {
	for _, c := range Categories {
		if s.Count(c) < 0 {
			return fmt.Errorf("pool strategy: negative count for %s", c)
		}
	}
	if got := s.Total(); got != size {
		return fmt.Errorf("pool strategy: counts sum to %d, want %d", got, size)
	}
	return nil
}

// Normalize clamps negatives and pushes any remainder onto the largest
// bucket so the total equals size. Used to auto-correct after adjustments.
func (s *PoolStrategy) Normalize(size int) {
	for _, c := range Categories {
		if s.Count(c) < 0 {
			s.SetCount(c, 0)
		}
	}
	diff := size - s.Total()
	if diff == 0 {
		return
	}
	// Largest bucket absorbs the remainder (first wins ties).
	largest := Categories[0]
	for _, c := range Categories[1:] {
		if s.Count(c) > s.Count(largest) {
			largest = c
		}
	}
	n := s.Count(largest) + diff
	if n < 0 {
		n = 0
	}
	s.SetCount(largest, n)
	// A large negative diff can leave the total short; spread what remains.
	for s.Total() > size {
		for _, c := range Categories {
			if s.Total() == size {
				break
			}
			if s.Count(c) > 0 {
				s.SetCount(c, s.Count(c)-1)
			}
		}
	}
	for s.Total() < size {
		s.SetCount(largest, s.Count(largest)+1)
	}
}
