package model

// BaseState is the primary, mutually exclusive learning-trajectory state.
type BaseState string

const (
	StateNewUser            BaseState = "new_user"
	StateSeverelyStruggling BaseState = "severely_struggling"
	StateStruggling         BaseState = "struggling"
	StateFallingBack        BaseState = "falling_back"
	StateStable             BaseState = "stable"
	StateProgressing        BaseState = "progressing"
	StateExcelling          BaseState = "excelling"
	StateExpertDemanding    BaseState = "expert_demanding"
)

// Modifier is a secondary behavioral flag layered on a base state.
// Multiple modifiers may co-occur.
type Modifier string

const (
	ModConfidenceCrisis Modifier = "confidence_crisis"
	ModDisengaged       Modifier = "disengaged"
	ModPowerDependent   Modifier = "power_dependent"
	ModFatigued         Modifier = "fatigued"
	ModSessionDecline   Modifier = "session_decline"
)

// UserStateClassification is the classifier output. Recomputed fresh on
// every recommendation request, never persisted.
type UserStateClassification struct {
	BaseState  BaseState  `json:"baseState"`
	Modifiers  []Modifier `json:"modifiers"`
	Confidence float64    `json:"confidence"` // 0..1
	Reasoning  []string   `json:"reasoning"`
}

// HasModifier reports whether m is set on the classification.
func (c *UserStateClassification) HasModifier(m Modifier) bool {
	for _, mod := range c.Modifiers {
		if mod == m {
			return true
		}
	}
	return false
}
