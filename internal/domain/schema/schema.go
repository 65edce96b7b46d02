// Package schema holds the declarative attribute registry: which attributes
// are scored, with which metric, and at what default weight.
package schema

import (
	"fmt"
	"math"

	"github.com/cinecase/cinecase/internal/domain"
	"github.com/cinecase/cinecase/internal/domain/attribute"
	"github.com/cinecase/cinecase/internal/domain/query"
)

// Entry pairs an attribute spec with its default weight.
type Entry struct {
	Spec   attribute.Spec
	Weight float64
}

// Schema maps attribute names to their specs and default weights.
// An attribute name not present in the schema is "not configured": the
// aggregator skips it silently rather than treating it as an error.
type Schema struct {
	names   []string // declaration order
	specs   map[string]attribute.Spec
	weights map[string]float64
}

// New validates and creates a Schema. Names must be unique; weights in [0, 1].
func New(entries []Entry) (*Schema, error) {
	s := &Schema{
		names:   make([]string, 0, len(entries)),
		specs:   make(map[string]attribute.Spec, len(entries)),
		weights: make(map[string]float64, len(entries)),
	}
	for _, e := range entries {
		name := e.Spec.Name()
		if name == "" {
			return nil, fmt.Errorf("%w: entry without a name", domain.ErrInvalidSchema)
		}
		if _, dup := s.specs[name]; dup {
			return nil, fmt.Errorf("%w: duplicate attribute %q", domain.ErrInvalidSchema, name)
		}
		if math.IsNaN(e.Weight) || e.Weight < 0 || e.Weight > 1 {
			return nil, fmt.Errorf("%w: default weight for %q must be between 0 and 1, got %v",
				domain.ErrInvalidSchema, name, e.Weight)
		}
		s.names = append(s.names, name)
		s.specs[name] = e.Spec
		s.weights[name] = e.Weight
	}
	return s, nil
}

// Spec looks up an attribute spec. ok is false for unconfigured names.
func (s *Schema) Spec(name string) (attribute.Spec, bool) {
	spec, ok := s.specs[name]
	return spec, ok
}

// Names returns the configured attribute names in declaration order.
func (s *Schema) Names() []string { return s.names }

// DefaultWeight returns the default weight of an attribute, 0 when unconfigured.
func (s *Schema) DefaultWeight(name string) float64 { return s.weights[name] }

// DefaultWeights returns the default weight vector as an immutable snapshot.
func (s *Schema) DefaultWeights() query.Weights {
	w, _ := query.NewWeights(s.weights) // validated at construction
	return w
}

// DefaultMovies builds the built-in movie schema used when the configuration
// does not declare attributes. Title is deliberately unconfigured: queries
// against it are skipped silently.
func DefaultMovies() *Schema {
	genres, _ := attribute.New("genres", attribute.SetJaccard)
	year, _ := attribute.NewNumericRange("year", 1920, 2025)
	rating, _ := attribute.NewOrdinal("rating", []string{"G", "PG", "PG-13", "R", "NC-17"}, "G")
	runtime, _ := attribute.NewNumericRange("runtime_minutes", 60, 240)
	score, _ := attribute.NewNumericRange("critic_score", 1, 10)
	sequel, _ := attribute.New("has_sequel", attribute.Categorical)

	s, err := New([]Entry{
		{Spec: genres, Weight: 0.25},
		{Spec: year, Weight: 0.15},
		{Spec: rating, Weight: 0.15},
		{Spec: runtime, Weight: 0.15},
		{Spec: score, Weight: 0.20},
		{Spec: sequel, Weight: 0.10},
	})
	if err != nil {
		panic("default movie schema: " + err.Error())
	}
	return s
}
