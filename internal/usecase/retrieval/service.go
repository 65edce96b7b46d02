// Package retrieval implements the similarity retrieval engine: weighted
// aggregation of local metrics and the full-scan ranker.
package retrieval

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/cinecase/cinecase/internal/domain/attribute"
	"github.com/cinecase/cinecase/internal/domain/casebase"
	"github.com/cinecase/cinecase/internal/domain/query"
	"github.com/cinecase/cinecase/internal/domain/schema"
	"github.com/cinecase/cinecase/internal/domain/similarity"
)

// Service scores and ranks cases against a partial query.
type Service struct {
	schema  *schema.Schema
	workers int
}

// New creates a retrieval service over the given schema.
func New(sch *schema.Schema) *Service {
	return &Service{schema: sch, workers: runtime.GOMAXPROCS(0)}
}

// WithWorkers overrides the scan worker count (primarily for tests).
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// Schema returns the schema the service scores against.
func (s *Service) Schema() *schema.Schema { return s.schema }

// Aggregate computes the global similarity of one case against the query:
// the weighted mean of local scores, renormalized over the attributes that
// were actually comparable. Attributes absent from either side, or not in
// the schema, contribute nothing to either sum. Zero effective weight
// yields 0. Never fails.
func (s *Service) Aggregate(q query.Query, rec casebase.Record, w query.Weights) float64 {
	var weighted, applied float64

	for _, name := range w.Names() {
		weight := w.Of(name)
		if weight <= 0 {
			continue
		}
		qv, ok := q.Attribute(name)
		if !ok {
			continue
		}
		cv, ok := rec.Attribute(name)
		if !ok {
			continue
		}
		spec, ok := s.schema.Spec(name)
		if !ok {
			continue
		}

		weighted += weight * localScore(spec, qv, cv)
		applied += weight
	}

	if applied == 0 {
		return 0
	}
	return weighted / applied
}

// Retrieve scores every case in the base against the query and returns the
// full ranked sequence: descending by score, exact ties kept in base
// insertion order. Top-N truncation and zero-score filtering are caller
// policy. The scan is parallel but order-stable: each worker writes results
// by case index, so completion order never leaks into the ranking.
func (s *Service) Retrieve(
	ctx context.Context, q query.Query, base casebase.Base, w query.Weights,
) []similarity.Result {
	n := base.Len()
	results := make([]similarity.Result, n)
	if n == 0 {
		return results
	}

	workers := s.workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	g, _ := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				rec := base.At(i)
				results[i] = similarity.NewResult(rec, s.Aggregate(q, rec, w))
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail; the engine is total

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})
	return results
}

// localScore dispatches to the metric configured for the attribute.
func localScore(spec attribute.Spec, a, b casebase.Value) float64 {
	switch spec.Kind() {
	case attribute.Categorical:
		return similarity.Categorical(a, b)
	case attribute.NumericRange:
		return similarity.NumericRange(a, b, spec.Min(), spec.Max())
	case attribute.Ordinal:
		return similarity.Ordinal(a, b, spec.Ordered(), spec.FallbackUnknown())
	case attribute.SetJaccard:
		return similarity.SetJaccard(a, b)
	default:
		return 0
	}
}
