package model

import "time"

// Candidate is one generated puzzle tagged with the category it was drawn for.
type Candidate struct {
	Puzzle   *Puzzle   `json:"puzzle"`
	Category Category  `json:"category"`
	DNA      *PuzzleDNA `json:"dna,omitempty"`
}

// ScoredCandidate carries the prediction and scoring results alongside.
type ScoredCandidate struct {
	Candidate
	PredictedSuccess    float64 `json:"predictedSuccess"`
	PredictedEngagement float64 `json:"predictedEngagement"`
	StrategicValue      float64 `json:"strategicValue"`
	VarietyBonus        float64 `json:"varietyBonus"`
	Score               float64 `json:"score"`
}

// PuzzleRecommendation is the selector output handed back to the caller.
// It lives in the session cache only long enough to match the completion.
type PuzzleRecommendation struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"userId"`
	Puzzle              *Puzzle    `json:"puzzle"`
	DNA                 *PuzzleDNA `json:"dna"`
	Category            Category   `json:"category"`
	PredictedSuccess    float64    `json:"predictedSuccess"`
	PredictedEngagement float64    `json:"predictedEngagement"`
	StrategicValue      float64    `json:"strategicValue"`
	SelectionReason     string     `json:"selectionReason"`
	BaseState           BaseState  `json:"baseState"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// CompletionOutcome is what the caller reports after the user finishes the
// recommended puzzle.
type CompletionOutcome struct {
	RecommendationID string   `json:"recommendationId"`
	Success          bool     `json:"success"`
	SolveMs          int64    `json:"solveMs"`
	Engagement       *float64 `json:"engagement,omitempty"` // 0..1
	Confidence       *float64 `json:"confidence,omitempty"` // 0..1
}

// EngagementOrDefault returns the reported engagement signal or 0.5.
func (o *CompletionOutcome) EngagementOrDefault() float64 {
	if o.Engagement == nil {
		return 0.5
	}
	return *o.Engagement
}
