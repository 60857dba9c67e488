package model

import "time"

// DefaultPatternBound caps the rolling behavioral buffer.
const DefaultPatternBound = 50

// OutcomeSnapshot is one completed puzzle as the tracker sees it.
type OutcomeSnapshot struct {
	PuzzleType string    `json:"puzzleType"`
	Difficulty float64   `json:"difficulty"`
	Success    bool      `json:"success"`
	ResponseMs int64     `json:"responseMs"`
	Engagement float64   `json:"engagement"` // 0..1 signal, 0.5 when absent
	At         time.Time `json:"at"`
}

// BehavioralPattern is the bounded rolling window of recent outcomes plus
// the aggregates derived from it. Aggregates are recomputed on every append.
type BehavioralPattern struct {
	Entries                   []OutcomeSnapshot `json:"entries"`
	Bound                     int               `json:"bound"`
	AccuracyTrend             float64           `json:"accuracyTrend"`  // recent minus older window accuracy
	EngagementLevel           float64           `json:"engagementLevel"` // 0..1
	ConsecutiveFailures       int               `json:"consecutiveFailures"`
	SessionPerformanceDecline float64           `json:"sessionPerformanceDecline"`
}

// NewBehavioralPattern creates an empty pattern with the given bound
// (DefaultPatternBound when bound <= 0).
func NewBehavioralPattern(bound int) *BehavioralPattern {
	if bound <= 0 {
		bound = DefaultPatternBound
	}
	return &BehavioralPattern{Bound: bound, EngagementLevel: 0.5}
}

// Append records an outcome, trims to the bound, and refreshes aggregates.
func (b *BehavioralPattern) Append(s OutcomeSnapshot) {
	if b.Bound <= 0 {
		b.Bound = DefaultPatternBound
	}
	b.Entries = append(b.Entries, s)
	if len(b.Entries) > b.Bound {
		b.Entries = b.Entries[len(b.Entries)-b.Bound:]
	}
	b.refresh()
}

// RecentSuccessRate is the success rate over the last n entries
// (0.5 neutral when empty).
func (b *BehavioralPattern) RecentSuccessRate(n int) float64 {
	if len(b.Entries) == 0 {
		return 0.5
	}
	if n > len(b.Entries) {
		n = len(b.Entries)
	}
	ok := 0
	for _, e := range b.Entries[len(b.Entries)-n:] {
		if e.Success {
			ok++
		}
	}
	return float64(ok) / float64(n)
}

// RecentTypes returns the puzzle types of the last n entries, newest first.
func (b *BehavioralPattern) RecentTypes(n int) []string {
	types := make([]string, 0, n)
	for i := len(b.Entries) - 1; i >= 0 && len(types) < n; i-- {
		types = append(types, b.Entries[i].PuzzleType)
	}
	return types
}

func (b *BehavioralPattern) refresh() {
	n := len(b.Entries)

	// Consecutive failures from the tail.
	b.ConsecutiveFailures = 0
	for i := n - 1; i >= 0; i-- {
		if b.Entries[i].Success {
			break
		}
		b.ConsecutiveFailures++
	}

	// Engagement: exponential moving average of the per-puzzle signal.
	eng := 0.5
	for _, e := range b.Entries {
		eng = 0.7*eng + 0.3*e.Engagement
	}
	b.EngagementLevel = eng

	// Accuracy trend: recent 10 vs the 10 before them.
	b.AccuracyTrend = b.windowAccuracy(n-10, n) - b.windowAccuracy(n-20, n-10)

	// Session decline: first half vs second half of the window.
	if n >= 6 {
		half := n / 2
		first := b.windowAccuracy(0, half)
		second := b.windowAccuracy(half, n)
		b.SessionPerformanceDecline = first - second
	} else {
		b.SessionPerformanceDecline = 0
	}
}

func (b *BehavioralPattern) windowAccuracy(from, to int) float64 {
	if from < 0 {
		from = 0
	}
	if to > len(b.Entries) {
		to = len(b.Entries)
	}
	if to <= from {
		return 0.5
	}
	ok := 0
	for _, e := range b.Entries[from:to] {
		if e.Success {
			ok++
		}
	}
	return float64(ok) / float64(to-from)
}

// SessionContext is ephemeral per-session state. It lives in the session
// cache and is discarded at session end.
type SessionContext struct {
	SessionID       string    `json:"sessionId"`
	UserID          string    `json:"userId"`
	PuzzlesSolved   int       `json:"puzzlesSolved"`
	PuzzlesServed   int       `json:"puzzlesServed"`
	CurrentAccuracy float64   `json:"currentAccuracy"`
	EngagementLevel float64   `json:"engagementLevel"`
	IsInFlowState   bool      `json:"isInFlowState"`
	StartedAt       time.Time `json:"startedAt"`
	LastActivityAt  time.Time `json:"lastActivityAt"`
}

// NewSessionContext starts a session for a user.
func NewSessionContext(sessionID, userID string) *SessionContext {
	now := time.Now()
	return &SessionContext{
		SessionID:       sessionID,
		UserID:          userID,
		EngagementLevel: 0.5,
		StartedAt:       now,
		LastActivityAt:  now,
	}
}

// RecordOutcome folds one completion into the session aggregates.
// Flow state: sustained accuracy in the 0.6-0.85 band with engagement above 0.6.
func (s *SessionContext) RecordOutcome(success bool, engagement float64) {
	solvedBefore := float64(s.PuzzlesSolved)
	s.PuzzlesSolved++
	hit := 0.0
	if success {
		hit = 1.0
	}
	s.CurrentAccuracy = (s.CurrentAccuracy*solvedBefore + hit) / float64(s.PuzzlesSolved)
	s.EngagementLevel = 0.7*s.EngagementLevel + 0.3*engagement
	s.IsInFlowState = s.PuzzlesSolved >= 3 &&
		s.CurrentAccuracy >= 0.6 && s.CurrentAccuracy <= 0.85 &&
		s.EngagementLevel > 0.6
	s.LastActivityAt = time.Now()
}
