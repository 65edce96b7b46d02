package query

import (
	"fmt"
	"math"
	"sort"

	"github.com/cinecase/cinecase/internal/domain"
	"github.com/cinecase/cinecase/internal/domain/casebase"
)

// Query is a partial case: the attribute values the user is looking for.
// Any subset of attributes may be present.
type Query struct {
	attrs map[string]casebase.Value
}

// New creates a Query. The attrs map is copied; absent-kind values are dropped.
func New(attrs map[string]casebase.Value) Query {
	m := make(map[string]casebase.Value, len(attrs))
	for name, v := range attrs {
		if v.IsAbsent() {
			continue
		}
		m[name] = v
	}
	return Query{attrs: m}
}

// Attribute looks up a queried attribute value.
func (q Query) Attribute(name string) (casebase.Value, bool) {
	v, ok := q.attrs[name]
	return v, ok
}

// Len returns the number of queried attributes.
func (q Query) Len() int { return len(q.attrs) }

// AttributeNames returns the queried attribute names in sorted order.
func (q Query) AttributeNames() []string {
	names := make([]string, 0, len(q.attrs))
	for name := range q.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Weights is an immutable weight snapshot: attribute name -> weight in [0, 1].
// Weights need not sum to 1; aggregation renormalizes over the attributes
// actually compared. Each retrieval call uses one snapshot; the caller builds
// the next snapshot rather than mutating this one.
type Weights struct {
	names []string // sorted, for deterministic aggregation order
	w     map[string]float64
}

// NewWeights validates and creates a snapshot. Every weight must lie in [0, 1].
func NewWeights(w map[string]float64) (Weights, error) {
	m := make(map[string]float64, len(w))
	names := make([]string, 0, len(w))
	for name, weight := range w {
		if math.IsNaN(weight) || weight < 0 || weight > 1 {
			return Weights{}, fmt.Errorf("%w: weight for %q must be between 0 and 1, got %v",
				domain.ErrInvalidWeights, name, weight)
		}
		m[name] = weight
		names = append(names, name)
	}
	sort.Strings(names)
	return Weights{names: names, w: m}, nil
}

// Merge returns a new snapshot with overrides applied on top of the receiver.
func (w Weights) Merge(overrides Weights) Weights {
	merged := make(map[string]float64, len(w.w)+len(overrides.w))
	for name, weight := range w.w {
		merged[name] = weight
	}
	for name, weight := range overrides.w {
		merged[name] = weight
	}
	out, _ := NewWeights(merged) // inputs already validated
	return out
}

// Names returns the weighted attribute names in sorted order.
func (w Weights) Names() []string { return w.names }

// Of returns the weight for an attribute, 0 when absent.
func (w Weights) Of(name string) float64 { return w.w[name] }

// Len returns the number of weighted attributes.
func (w Weights) Len() int { return len(w.w) }
