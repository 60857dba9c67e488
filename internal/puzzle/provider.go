package puzzle

import (
	"context"
	"fmt"

	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

// ProviderRequest carries what a generator needs: the difficulty the engine
// wants and the types the user saw most recently (for variety inside a type).
type ProviderRequest struct {
	TargetDifficulty float64
	RecentTypes      []string
}

// Provider is the puzzle generation contract. Implementations must return a
// structurally valid puzzle or a *GenerationError, never a partial object.
type Provider interface {
	Type() string
	Generate(ctx context.Context, req ProviderRequest) (*model.Puzzle, error)
}

// GenerationError is the typed failure a provider signals when it cannot
// produce a valid puzzle.
type GenerationError struct {
	ProviderType string
	Reason       string
	Err          error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s: %s: %v", e.ProviderType, e.Reason, e.Err)
	}
	return fmt.Sprintf("provider %s: %s", e.ProviderType, e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func clampDifficulty(d float64) float64 {
	if d < 0.05 {
		return 0.05
	}
	if d > 0.95 {
		return 0.95
	}
	return d
}
