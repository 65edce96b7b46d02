package cinecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	sdk "github.com/cinecase/cinecase/pkg/sdk"
)

// Hit is a typed retrieval result.
type Hit[T any] struct {
	Item  T
	Score float64
}

// FindBuilder is a fluent builder for typed retrieval queries.
type FindBuilder[T any] struct {
	catalog *Catalog[T]

	probe    T
	weights  map[string]float64
	limit    int
	minScore float64
}

// Weight overrides the default weight of one attribute for this query.
func (b *FindBuilder[T]) Weight(attr string, w float64) *FindBuilder[T] {
	if b.weights == nil {
		b.weights = make(map[string]float64)
	}
	b.weights[attr] = w
	return b
}

// Limit caps the number of hits returned.
func (b *FindBuilder[T]) Limit(n int) *FindBuilder[T] {
	b.limit = n
	return b
}

// MinScore drops hits scoring below the threshold.
func (b *FindBuilder[T]) MinScore(s float64) *FindBuilder[T] {
	b.minScore = s
	return b
}

// Do executes the retrieval and returns typed hits, most similar first.
func (b *FindBuilder[T]) Do(ctx context.Context) ([]Hit[T], error) {
	attrs := b.catalog.meta.toAttributes(reflect.ValueOf(b.probe))
	if len(attrs) == 0 {
		return nil, errors.New("probe sets no attributes")
	}

	matches, err := b.catalog.client.Retrieve(ctx, sdk.Query{
		Attributes: attrs,
		Weights:    b.weights,
		Limit:      b.limit,
		MinScore:   b.minScore,
	})
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	hits := make([]Hit[T], 0, len(matches))
	for _, m := range matches {
		item, ok := b.catalog.meta.fromCase(sdk.Case{Title: m.Title, Attributes: m.Attributes}).(T)
		if !ok {
			continue
		}
		hits = append(hits, Hit[T]{Item: item, Score: m.Score})
	}
	return hits, nil
}
