package puzzle

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

// TypeSerialReasoning names the letter-series puzzle type.
const TypeSerialReasoning = "serial_reasoning"

// SerialReasoningProvider generates letter-series continuation puzzles.
type SerialReasoningProvider struct {
	rng *lockedRand
}

// NewSerialReasoningProvider creates the provider with a time-seeded RNG.
func NewSerialReasoningProvider() *SerialReasoningProvider {
	return &SerialReasoningProvider{rng: newLockedRand()}
}

func (p *SerialReasoningProvider) Type() string { return TypeSerialReasoning }

func (p *SerialReasoningProvider) Generate(ctx context.Context, req ProviderRequest) (*model.Puzzle, error) {
	d := clampDifficulty(req.TargetDifficulty)

	// Step size grows with difficulty; hard series skip 2-3 letters.
	step := 1 + int(d*2.5)
	if step > 3 {
		step = 3
	}
	// Keep the series inside A..Z.
	maxStart := 26 - step*5 - 1
	if maxStart < 1 {
		maxStart = 1
	}
	start := p.rng.Intn(maxStart)

	letters := make([]string, 4)
	for i := range letters {
		letters[i] = string(rune('A' + start + i*step))
	}
	answer := string(rune('A' + start + 4*step))

	question := fmt.Sprintf("Which letter comes next? %s, ...", strings.Join(letters, ", "))
	options, idx := assembleOptions(p.rng, answer,
		string(rune('A'+(start+4*step+1)%26)),
		string(rune('A'+(start+4*step+step)%26)),
		string(rune('A'+(start+4*step-1)%26)),
	)

	return &model.Puzzle{
		ID:          uuid.NewString(),
		Question:    question,
		Options:     options,
		CorrectIdx:  idx,
		Explanation: fmt.Sprintf("Each letter advances by %d, so %s comes next.", step, answer),
		Type:        TypeSerialReasoning,
		Subtype:     fmt.Sprintf("step_%d", step),
		Difficulty:  d,
	}, nil
}

// FallbackProvider always succeeds with a simple low-difficulty arithmetic
// puzzle. It backfills pool slots when a primary provider fails.
type FallbackProvider struct {
	rng *lockedRand
}

// NewFallbackProvider creates the fallback provider.
func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{rng: newLockedRand()}
}

func (p *FallbackProvider) Type() string { return "basic_arithmetic" }

func (p *FallbackProvider) Generate(ctx context.Context, req ProviderRequest) (*model.Puzzle, error) {
	a := 1 + p.rng.Intn(9)
	b := 1 + p.rng.Intn(9)
	sum := a + b

	correct := fmt.Sprintf("%d", sum)
	options, idx := assembleOptions(p.rng, correct,
		fmt.Sprintf("%d", sum+1),
		fmt.Sprintf("%d", sum-1),
		fmt.Sprintf("%d", sum+2),
	)

	return &model.Puzzle{
		ID:          uuid.NewString(),
		Question:    fmt.Sprintf("What is %d + %d?", a, b),
		Options:     options,
		CorrectIdx:  idx,
		Explanation: fmt.Sprintf("%d + %d = %d.", a, b, sum),
		Type:        p.Type(),
		Subtype:     "addition",
		Difficulty:  0.15,
	}, nil
}
