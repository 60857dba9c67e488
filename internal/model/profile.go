package model

import "time"

// CognitiveProfile tracks slow-moving cognitive capability estimates, all 0..1.
type CognitiveProfile struct {
	ProcessingSpeed  float64 `json:"processingSpeed" bson:"processing_speed"`
	WorkingMemory    float64 `json:"workingMemory" bson:"working_memory"`
	AttentionControl float64 `json:"attentionControl" bson:"attention_control"`
	ErrorRecovery    float64 `json:"errorRecovery" bson:"error_recovery"`
}

// TypeStats accumulates per-puzzle-type history.
type TypeStats struct {
	Attempts      int     `json:"attempts" bson:"attempts"`
	Correct       int     `json:"correct" bson:"correct"`
	Accuracy      float64 `json:"accuracy" bson:"accuracy"`
	AvgResponseMs float64 `json:"avgResponseMs" bson:"avg_response_ms"`
	Preference    float64 `json:"preference" bson:"preference"` // 0..1
}

// Monetization counters ride along on the profile; the classifier only reads
// the power-up rate out of them.
type Monetization struct {
	PowerUpsUsed  int `json:"powerUpsUsed" bson:"power_ups_used"`
	PurchaseCount int `json:"purchaseCount" bson:"purchase_count"`
}

// UserProfile is the single persisted aggregate per user. Only the feedback
// updater mutates it; the recommend path treats it as read-only.
type UserProfile struct {
	UserID             string                `json:"userId" bson:"_id"`
	TotalSessions      int                   `json:"totalSessions" bson:"total_sessions"`
	TotalPuzzlesSolved int                   `json:"totalPuzzlesSolved" bson:"total_puzzles_solved"`
	OverallAccuracy    float64               `json:"overallAccuracy" bson:"overall_accuracy"`   // 0..1
	CurrentSkillLevel  float64               `json:"currentSkillLevel" bson:"current_skill_level"` // 0..1
	SkillMomentum      float64               `json:"skillMomentum" bson:"skill_momentum"`       // -1..1
	LearningVelocity   float64               `json:"learningVelocity" bson:"learning_velocity"`
	PreferredDifficulty float64              `json:"preferredDifficulty" bson:"preferred_difficulty"`
	CurrentMaxDifficulty float64             `json:"currentMaxDifficulty" bson:"current_max_difficulty"`
	Level              int                   `json:"level" bson:"level"` // progression level, drives early-game pool bias
	Cognitive          CognitiveProfile      `json:"cognitiveProfile" bson:"cognitive_profile"`
	TypeStats          map[string]*TypeStats `json:"typeStats" bson:"type_stats"`
	Monetization       Monetization          `json:"monetization" bson:"monetization"`
	CreatedAt          time.Time             `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time             `json:"updatedAt" bson:"updated_at"`
}

// DefaultProfile is the state of a genuinely new user, and the substitute
// whenever the profile store cannot load.
func DefaultProfile(userID string) *UserProfile {
	now := time.Now()
	return &UserProfile{
		UserID:               userID,
		CurrentSkillLevel:    0.3,
		PreferredDifficulty:  0.3,
		CurrentMaxDifficulty: 0.4,
		Level:                1,
		Cognitive: CognitiveProfile{
			ProcessingSpeed:  0.5,
			WorkingMemory:    0.5,
			AttentionControl: 0.5,
			ErrorRecovery:    0.5,
		},
		TypeStats: make(map[string]*TypeStats),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// StatsFor returns the stats entry for a type, creating it if missing.
func (p *UserProfile) StatsFor(puzzleType string) *TypeStats {
	if p.TypeStats == nil {
		p.TypeStats = make(map[string]*TypeStats)
	}
	st, ok := p.TypeStats[puzzleType]
	if !ok {
		st = &TypeStats{}
		p.TypeStats[puzzleType] = st
	}
	return st
}

// PowerUpRate is power-ups used per solved puzzle.
func (p *UserProfile) PowerUpRate() float64 {
	if p.TotalPuzzlesSolved == 0 {
		return 0
	}
	return float64(p.Monetization.PowerUpsUsed) / float64(p.TotalPuzzlesSolved)
}

// Clone deep-copies the profile so the recommend pipeline can hold a
// read-only snapshot while a completion commits elsewhere.
func (p *UserProfile) Clone() *UserProfile {
	cp := *p
	cp.TypeStats = make(map[string]*TypeStats, len(p.TypeStats))
	for k, v := range p.TypeStats {
		st := *v
		cp.TypeStats[k] = &st
	}
	return &cp
}
