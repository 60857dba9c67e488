package model

import "fmt"

// OptionCount is the fixed number of answer options every puzzle carries.
const OptionCount = 4

// PuzzleFamily groups puzzle types for strength detection and category routing.
type PuzzleFamily string

const (
	FamilyPattern   PuzzleFamily = "pattern"
	FamilyNumeric   PuzzleFamily = "numeric"
	FamilyReasoning PuzzleFamily = "reasoning"
)

// Puzzle is the generic contract every provider output conforms to.
// Family-specific payloads stay inside the owning provider; the engine
// only ever touches these fields.
type Puzzle struct {
	ID          string   `json:"id" bson:"id"`
	Question    string   `json:"question" bson:"question"`
	Options     []string `json:"options" bson:"options"`
	CorrectIdx  int      `json:"correctAnswerIndex" bson:"correct_answer_index"`
	Explanation string   `json:"explanation" bson:"explanation"`
	Type        string   `json:"type" bson:"type"`
	Subtype     string   `json:"subtype" bson:"subtype"`
	Difficulty  float64  `json:"difficulty" bson:"difficulty"` // 0..1
}

// Validate checks structural validity. Providers must never hand the engine
// a partially-filled puzzle.
func (p *Puzzle) Validate() error {
	if p == nil {
		return fmt.Errorf("puzzle is nil")
	}
	if p.Question == "" {
		return fmt.Errorf("puzzle %s: empty question", p.ID)
	}
	if len(p.Options) != OptionCount {
		return fmt.Errorf("puzzle %s: expected %d options, got %d", p.ID, OptionCount, len(p.Options))
	}
	if p.CorrectIdx < 0 || p.CorrectIdx >= OptionCount {
		return fmt.Errorf("puzzle %s: correct index %d out of range", p.ID, p.CorrectIdx)
	}
	if p.Options[p.CorrectIdx] == "" {
		return fmt.Errorf("puzzle %s: correct option is empty", p.ID)
	}
	if p.Type == "" {
		return fmt.Errorf("puzzle %s: missing type", p.ID)
	}
	if p.Difficulty < 0 || p.Difficulty > 1 {
		return fmt.Errorf("puzzle %s: difficulty %.2f out of range", p.ID, p.Difficulty)
	}
	return nil
}

// DifficultyBucket maps the continuous difficulty into one of ten buckets.
// Puzzles sharing (type, subtype, bucket) share a DNA cache entry.
func (p *Puzzle) DifficultyBucket() int {
	b := int(p.Difficulty * 10)
	if b > 9 {
		b = 9
	}
	if b < 0 {
		b = 0
	}
	return b
}

// SemanticKey identifies structurally equivalent puzzles for DNA caching.
func (p *Puzzle) SemanticKey() string {
	return fmt.Sprintf("%s:%s:%d", p.Type, p.Subtype, p.DifficultyBucket())
}
