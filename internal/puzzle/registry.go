package puzzle

import (
	"fmt"
	"sort"

	"github.com/5hiel/artistic-minds-sub000/internal/model"
)

// TypeInfo is the registry metadata the engine routes on.
type TypeInfo struct {
	Name           string
	Family         model.PuzzleFamily
	SkillTargets   []string
	BaseEngagement float64 // 0..1 prior before any observations
}

// Registry maps puzzle types to their providers and metadata.
type Registry struct {
	providers map[string]Provider
	infos     map[string]TypeInfo
	fallback  Provider
}

// NewRegistry creates an empty registry with the given fallback provider.
func NewRegistry(fallback Provider) *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		infos:     make(map[string]TypeInfo),
		fallback:  fallback,
	}
}

// Register adds a provider with its metadata. Registering the same type
// twice is a wiring bug.
func (r *Registry) Register(p Provider, info TypeInfo) error {
	name := p.Type()
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("registry: provider %q already registered", name)
	}
	info.Name = name
	r.providers[name] = p
	r.infos[name] = info
	return nil
}

// Provider returns the provider for a type, or nil.
func (r *Registry) Provider(name string) Provider {
	return r.providers[name]
}

// Fallback returns the always-valid fallback provider.
func (r *Registry) Fallback() Provider {
	return r.fallback
}

// Info returns the metadata for a type.
func (r *Registry) Info(name string) (TypeInfo, bool) {
	info, ok := r.infos[name]
	return info, ok
}

// Types returns all registered type names, sorted for determinism.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypesByFamily returns registered types of one family, sorted.
func (r *Registry) TypesByFamily(family model.PuzzleFamily) []string {
	names := make([]string, 0)
	for name, info := range r.infos {
		if info.Family == family {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry wires up the built-in generators. A Register error here
// is a wiring bug, so it panics at startup rather than being dropped.
func DefaultRegistry() *Registry {
	r := NewRegistry(NewFallbackProvider())
	mustRegister := func(p Provider, info TypeInfo) {
		if err := r.Register(p, info); err != nil {
			panic(err)
		}
	}

	mustRegister(NewPatternGridProvider(), TypeInfo{
		Family:         model.FamilyPattern,
		SkillTargets:   []string{"visual_scanning", "pattern_recognition"},
		BaseEngagement: 0.65,
	})
	mustRegister(NewFigureMatrixProvider(), TypeInfo{
		Family:         model.FamilyPattern,
		SkillTargets:   []string{"pattern_recognition", "abstraction"},
		BaseEngagement: 0.6,
	})
	mustRegister(NewArithmeticSequenceProvider(), TypeInfo{
		Family:         model.FamilyNumeric,
		SkillTargets:   []string{"arithmetic", "working_memory"},
		BaseEngagement: 0.55,
	})
	mustRegister(NewNumberAnalogyProvider(), TypeInfo{
		Family:         model.FamilyNumeric,
		SkillTargets:   []string{"arithmetic", "relational_reasoning"},
		BaseEngagement: 0.5,
	})
	mustRegister(NewAlgebraicReasoningProvider(), TypeInfo{
		Family:         model.FamilyNumeric,
		SkillTargets:   []string{"algebra", "multi_step_reasoning"},
		BaseEngagement: 0.45,
	})
	mustRegister(NewSerialReasoningProvider(), TypeInfo{
		Family:         model.FamilyReasoning,
		SkillTargets:   []string{"sequencing", "working_memory"},
		BaseEngagement: 0.55,
	})

	return r
}
