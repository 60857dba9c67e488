package engine

import (
	"fmt"

	"github.com/5hiel/artistic-minds-sub000/internal/config"
	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

// recentWindow is how many trailing outcomes count as "recent" for state rules.
const recentWindow = 5

// classifyInput bundles the three classifier inputs plus the thresholds
// active at evaluation time.
type classifyInput struct {
	profile *model.UserProfile
	pattern *model.BehavioralPattern
	session *model.SessionContext
	cfg     *config.EngineConfig
}

// classificationRule is one entry of the ordered decision list. The first
// rule that matches wins the base state; eval returns (matched, confidence,
// reason).
type classificationRule struct {
	name  string
	state model.BaseState
	eval  func(in classifyInput) (bool, float64, string)
}

// Classifier maps profile + behavioral pattern + session context to a
// UserStateClassification. Pure: no side effects, fully fixture-testable.
type Classifier struct {
	rules []classificationRule
}

// NewClassifier builds the ordered rule table. Order is the contract:
// earlier rules shadow later ones.
func NewClassifier() *Classifier {
	return &Classifier{rules: []classificationRule{
		{
			name:  "new_user",
			state: model.StateNewUser,
			eval: func(in classifyInput) (bool, float64, string) {
				if in.profile.TotalPuzzlesSolved < in.cfg.NewUserPuzzleThreshold {
					return true, 0.95, fmt.Sprintf("only %d puzzles solved", in.profile.TotalPuzzlesSolved)
				}
				return false, 0, ""
			},
		},
		{
			name:  "severely_struggling",
			state: model.StateSeverelyStruggling,
			eval: func(in classifyInput) (bool, float64, string) {
				rate := in.pattern.RecentSuccessRate(recentWindow)
				if rate >= 0.3 {
					return false, 0, ""
				}
				conf := 0.8
				if in.pattern.ConsecutiveFailures >= 3 {
					conf = 0.9
				}
				return true, conf, fmt.Sprintf("recent success rate %.2f with %d consecutive failures", rate, in.pattern.ConsecutiveFailures)
			},
		},
		{
			name:  "struggling",
			state: model.StateStruggling,
			eval: func(in classifyInput) (bool, float64, string) {
				rate := in.pattern.RecentSuccessRate(recentWindow)
				if rate < 0.5 {
					return true, 0.8, fmt.Sprintf("recent success rate %.2f below 0.5", rate)
				}
				if in.profile.SkillMomentum < -0.2 {
					return true, 0.8, fmt.Sprintf("skill momentum %.2f below -0.2", in.profile.SkillMomentum)
				}
				return false, 0, ""
			},
		},
		{
			name:  "falling_back",
			state: model.StateFallingBack,
			eval: func(in classifyInput) (bool, float64, string) {
				if in.profile.SkillMomentum < -0.1 && in.pattern.SessionPerformanceDecline > 0.1 {
					return true, 0.85, fmt.Sprintf("momentum %.2f with session decline %.2f", in.profile.SkillMomentum, in.pattern.SessionPerformanceDecline)
				}
				return false, 0, ""
			},
		},
		{
			name:  "expert_demanding",
			state: model.StateExpertDemanding,
			eval: func(in classifyInput) (bool, float64, string) {
				rate := in.pattern.RecentSuccessRate(recentWindow)
				if rate > 0.9 && in.profile.SkillMomentum > 0.15 && in.pattern.EngagementLevel < 0.6 {
					return true, 0.95, fmt.Sprintf("success rate %.2f with momentum %.2f but engagement %.2f", rate, in.profile.SkillMomentum, in.pattern.EngagementLevel)
				}
				return false, 0, ""
			},
		},
		{
			name:  "excelling",
			state: model.StateExcelling,
			eval: func(in classifyInput) (bool, float64, string) {
				rate := in.pattern.RecentSuccessRate(recentWindow)
				if rate > 0.8 && in.profile.SkillMomentum > 0.1 {
					return true, 0.85, fmt.Sprintf("success rate %.2f with momentum %.2f", rate, in.profile.SkillMomentum)
				}
				return false, 0, ""
			},
		},
		{
			name:  "progressing",
			state: model.StateProgressing,
			eval: func(in classifyInput) (bool, float64, string) {
				rate := in.pattern.RecentSuccessRate(recentWindow)
				if rate > 0.6 {
					return true, 0.75, fmt.Sprintf("success rate %.2f above 0.6", rate)
				}
				return false, 0, ""
			},
		},
	}}
}

// Classify evaluates the ordered rule list, then layers on modifiers.
func (c *Classifier) Classify(profile *model.UserProfile, pattern *model.BehavioralPattern, session *model.SessionContext, cfg *config.EngineConfig) *model.UserStateClassification {
	in := classifyInput{profile: profile, pattern: pattern, session: session, cfg: cfg}

	result := &model.UserStateClassification{
		BaseState:  model.StateStable,
		Confidence: 0.6,
		Reasoning:  []string{"no trajectory rule matched"},
	}
	for _, rule := range c.rules {
		matched, conf, reason := rule.eval(in)
		if matched {
			result.BaseState = rule.state
			result.Confidence = conf
			result.Reasoning = []string{fmt.Sprintf("%s: %s", rule.name, reason)}
			break
		}
	}

	c.applyModifiers(in, result)
	return result
}

// applyModifiers evaluates each modifier independently; several may co-occur.
func (c *Classifier) applyModifiers(in classifyInput, out *model.UserStateClassification) {
	add := func(m model.Modifier, reason string) {
		out.Modifiers = append(out.Modifiers, m)
		out.Reasoning = append(out.Reasoning, reason)
	}

	if in.pattern.ConsecutiveFailures >= 2 && in.pattern.AccuracyTrend < -0.15 {
		add(model.ModConfidenceCrisis, fmt.Sprintf("confidence_crisis: %d failures in a row with accuracy trend %.2f", in.pattern.ConsecutiveFailures, in.pattern.AccuracyTrend))
	}
	if in.pattern.EngagementLevel < 0.5 {
		add(model.ModDisengaged, fmt.Sprintf("disengaged: engagement level %.2f", in.pattern.EngagementLevel))
	}
	if in.profile.TotalPuzzlesSolved >= in.cfg.NewUserPuzzleThreshold && in.profile.PowerUpRate() > 0.5 {
		add(model.ModPowerDependent, fmt.Sprintf("power_dependent: power-up rate %.2f", in.profile.PowerUpRate()))
	}
	if in.session != nil && (in.session.PuzzlesSolved > 20 || responseTimeRise(in.pattern) >= 0.4) {
		add(model.ModFatigued, fmt.Sprintf("fatigued: %d puzzles this session", in.session.PuzzlesSolved))
	}
	if in.pattern.SessionPerformanceDecline > 0.15 {
		add(model.ModSessionDecline, fmt.Sprintf("session_decline: performance dropped %.2f", in.pattern.SessionPerformanceDecline))
	}
}

// responseTimeRise compares the average response time of the last five
// outcomes against the first five of the window.
func responseTimeRise(pattern *model.BehavioralPattern) float64 {
	n := len(pattern.Entries)
	if n < 10 {
		return 0
	}
	avg := func(entries []model.OutcomeSnapshot) float64 {
		var sum int64
		for _, e := range entries {
			sum += e.ResponseMs
		}
		return float64(sum) / float64(len(entries))
	}
	early := avg(pattern.Entries[:5])
	late := avg(pattern.Entries[n-5:])
	if early <= 0 {
		return 0
	}
	return (late - early) / early
}
