package puzzle

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

// Type names for the numeric family.
const (
	TypeArithmeticSequence = "arithmetic_sequence"
	TypeNumberAnalogy      = "number_analogy"
	TypeAlgebraicReasoning = "algebraic_reasoning"
)

// ArithmeticSequenceProvider generates "next number in the sequence" puzzles.
type ArithmeticSequenceProvider struct {
	rng *lockedRand
}

// NewArithmeticSequenceProvider creates the provider with a time-seeded RNG.
func NewArithmeticSequenceProvider() *ArithmeticSequenceProvider {
	return &ArithmeticSequenceProvider{rng: newLockedRand()}
}

func (p *ArithmeticSequenceProvider) Type() string { return TypeArithmeticSequence }

func (p *ArithmeticSequenceProvider) Generate(ctx context.Context, req ProviderRequest) (*model.Puzzle, error) {
	d := clampDifficulty(req.TargetDifficulty)

	start := 1 + p.rng.Intn(5+int(d*20))
	step := 1 + p.rng.Intn(2+int(d*10))
	subtype := "additive"
	terms := make([]int, 4)
	next := 0

	if d > 0.5 && p.rng.Intn(2) == 0 {
		// Geometric sequences only above mid difficulty.
		subtype = "geometric"
		ratio := 2 + p.rng.Intn(2)
		v := start
		for i := range terms {
			terms[i] = v
			v *= ratio
		}
		next = v
	} else {
		v := start
		for i := range terms {
			terms[i] = v
			v += step
		}
		next = v
	}

	question := fmt.Sprintf("What number comes next? %d, %d, %d, %d, ...",
		terms[0], terms[1], terms[2], terms[3])
	correct := fmt.Sprintf("%d", next)
	options, idx := assembleOptions(p.rng, correct,
		fmt.Sprintf("%d", next+step),
		fmt.Sprintf("%d", next-step),
		fmt.Sprintf("%d", next+1),
	)

	return &model.Puzzle{
		ID:          uuid.NewString(),
		Question:    question,
		Options:     options,
		CorrectIdx:  idx,
		Explanation: fmt.Sprintf("The sequence is %s with step pattern leading to %d.", subtype, next),
		Type:        TypeArithmeticSequence,
		Subtype:     subtype,
		Difficulty:  d,
	}, nil
}

// NumberAnalogyProvider generates "a : b :: c : ?" puzzles.
type NumberAnalogyProvider struct {
	rng *lockedRand
}

// NewNumberAnalogyProvider creates the provider with a time-seeded RNG.
func NewNumberAnalogyProvider() *NumberAnalogyProvider {
	return &NumberAnalogyProvider{rng: newLockedRand()}
}

func (p *NumberAnalogyProvider) Type() string { return TypeNumberAnalogy }

func (p *NumberAnalogyProvider) Generate(ctx context.Context, req ProviderRequest) (*model.Puzzle, error) {
	d := clampDifficulty(req.TargetDifficulty)

	a := 2 + p.rng.Intn(4+int(d*10))
	var b, c, answer int
	var subtype, relation string
	if d > 0.55 {
		subtype = "multiplicative"
		factor := 2 + p.rng.Intn(3)
		b = a * factor
		c = a + 1 + p.rng.Intn(5)
		answer = c * factor
		relation = fmt.Sprintf("multiply by %d", factor)
	} else {
		subtype = "additive"
		delta := 2 + p.rng.Intn(3+int(d*8))
		b = a + delta
		c = a + 1 + p.rng.Intn(5)
		answer = c + delta
		relation = fmt.Sprintf("add %d", delta)
	}

	question := fmt.Sprintf("%d is to %d as %d is to ?", a, b, c)
	correct := fmt.Sprintf("%d", answer)
	options, idx := assembleOptions(p.rng, correct,
		fmt.Sprintf("%d", answer+1),
		fmt.Sprintf("%d", answer-1),
		fmt.Sprintf("%d", answer+2),
	)

	return &model.Puzzle{
		ID:          uuid.NewString(),
		Question:    question,
		Options:     options,
		CorrectIdx:  idx,
		Explanation: fmt.Sprintf("The relation is: %s. So the answer is %d.", relation, answer),
		Type:        TypeNumberAnalogy,
		Subtype:     subtype,
		Difficulty:  d,
	}, nil
}

// AlgebraicReasoningProvider generates small solve-for-x puzzles.
type AlgebraicReasoningProvider struct {
	rng *lockedRand
}

// NewAlgebraicReasoningProvider creates the provider with a time-seeded RNG.
func NewAlgebraicReasoningProvider() *AlgebraicReasoningProvider {
	return &AlgebraicReasoningProvider{rng: newLockedRand()}
}

func (p *AlgebraicReasoningProvider) Type() string { return TypeAlgebraicReasoning }

func (p *AlgebraicReasoningProvider) Generate(ctx context.Context, req ProviderRequest) (*model.Puzzle, error) {
	d := clampDifficulty(req.TargetDifficulty)

	x := 1 + p.rng.Intn(3+int(d*12))
	coef := 1 + p.rng.Intn(1+int(d*4))
	add := p.rng.Intn(2 + int(d*15))
	result := coef*x + add

	var question, subtype string
	if coef == 1 {
		subtype = "one_step"
		question = fmt.Sprintf("If x + %d = %d, what is x?", add, result)
	} else {
		subtype = "two_step"
		question = fmt.Sprintf("If %dx + %d = %d, what is x?", coef, add, result)
	}

	correct := fmt.Sprintf("%d", x)
	options, idx := assembleOptions(p.rng, correct,
		fmt.Sprintf("%d", x+1),
		fmt.Sprintf("%d", x-1),
		fmt.Sprintf("%d", x+coef),
	)

	return &model.Puzzle{
		ID:          uuid.NewString(),
		Question:    question,
		Options:     options,
		CorrectIdx:  idx,
		Explanation: fmt.Sprintf("Subtract %d, then divide by %d: x = %d.", add, coef, x),
		Type:        TypeAlgebraicReasoning,
		Subtype:     subtype,
		Difficulty:  d,
	}, nil
}
