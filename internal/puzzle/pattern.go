package puzzle

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

// Type names for the pattern family.
const (
	TypePatternGrid  = "pattern_grid"
	TypeFigureMatrix = "figure_matrix"
)

var patternSymbols = []string{"▲", "●", "■", "◆", "★", "✚"}

// PatternGridProvider generates repeating symbol-row continuation puzzles.
type PatternGridProvider struct {
	rng *lockedRand
}

// NewPatternGridProvider creates the provider with a time-seeded RNG.
func NewPatternGridProvider() *PatternGridProvider {
	return &PatternGridProvider{rng: newLockedRand()}
}

func (p *PatternGridProvider) Type() string { return TypePatternGrid }

func (p *PatternGridProvider) Generate(ctx context.Context, req ProviderRequest) (*model.Puzzle, error) {
	d := clampDifficulty(req.TargetDifficulty)

	// Cycle length grows with difficulty: 2 symbols at the easy end, 4 hard.
	cycleLen := 2 + int(d*2.5)
	if cycleLen > 4 {
		cycleLen = 4
	}
	symbols := make([]string, cycleLen)
	perm := p.rng.Perm(len(patternSymbols))
	for i := 0; i < cycleLen; i++ {
		symbols[i] = patternSymbols[perm[i]]
	}

	shown := cycleLen*2 + 1
	row := make([]string, shown)
	for i := range row {
		row[i] = symbols[i%cycleLen]
	}
	answer := symbols[shown%cycleLen]

	question := fmt.Sprintf("Which symbol continues the pattern? %s ...", strings.Join(row, " "))
	distractors := make([]string, 0, 3)
	for _, s := range patternSymbols {
		if s != answer {
			distractors = append(distractors, s)
		}
	}
	p.rng.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})
	options, idx := assembleOptions(p.rng, answer, distractors...)

	return &model.Puzzle{
		ID:          uuid.NewString(),
		Question:    question,
		Options:     options,
		CorrectIdx:  idx,
		Explanation: fmt.Sprintf("The pattern repeats every %d symbols, so %s comes next.", cycleLen, answer),
		Type:        TypePatternGrid,
		Subtype:     fmt.Sprintf("cycle_%d", cycleLen),
		Difficulty:  d,
	}, nil
}

// FigureMatrixProvider generates 3x3 matrices with one missing cell. Each
// row cycles the symbol set one position; the third row determines the
// answer.
type FigureMatrixProvider struct {
	rng *lockedRand
}

// NewFigureMatrixProvider creates the provider with a time-seeded RNG.
func NewFigureMatrixProvider() *FigureMatrixProvider {
	return &FigureMatrixProvider{rng: newLockedRand()}
}

func (p *FigureMatrixProvider) Type() string { return TypeFigureMatrix }

func (p *FigureMatrixProvider) Generate(ctx context.Context, req ProviderRequest) (*model.Puzzle, error) {
	d := clampDifficulty(req.TargetDifficulty)

	perm := p.rng.Perm(len(patternSymbols))
	set := []string{patternSymbols[perm[0]], patternSymbols[perm[1]], patternSymbols[perm[2]]}

	// Shift direction flips at higher difficulty.
	shift := 1
	subtype := "shift_right"
	if d > 0.5 && p.rng.Intn(2) == 0 {
		shift = 2
		subtype = "shift_left"
	}

	var b strings.Builder
	var answer string
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			cell := set[(col+row*shift)%3]
			if row == 2 && col == 2 {
				answer = cell
				b.WriteString("?")
			} else {
				b.WriteString(cell)
			}
			if col < 2 {
				b.WriteString(" ")
			}
		}
		if row < 2 {
			b.WriteString(" | ")
		}
	}

	question := fmt.Sprintf("Which symbol completes the matrix? %s", b.String())
	distractors := make([]string, 0, 3)
	for _, s := range patternSymbols {
		if s != answer {
			distractors = append(distractors, s)
		}
	}
	p.rng.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})
	options, idx := assembleOptions(p.rng, answer, distractors...)

	return &model.Puzzle{
		ID:          uuid.NewString(),
		Question:    question,
		Options:     options,
		CorrectIdx:  idx,
		Explanation: fmt.Sprintf("Each row shifts the symbols by %d, so the missing cell is %s.", shift, answer),
		Type:        TypeFigureMatrix,
		Subtype:     subtype,
		Difficulty:  d,
	}, nil
}
