// Package cinecase provides a typed, schema-first API for weighted
// multi-attribute similarity retrieval. Define a struct with cinecase tags,
// load it into a Catalog, and query with a partially-filled probe value:
//
//	type Movie struct {
//	    Title     string   `cinecase:"title"`
//	    Genres    []string `cinecase:"genres"`
//	    Year      int      `cinecase:"year"`
//	    Rating    string   `cinecase:"rating"`
//	    HasSequel *bool    `cinecase:"has_sequel"`
//	}
//
//	cat, _ := cinecase.NewCatalog[Movie](ctx, movies)
//	hits, _ := cat.Find(Movie{Genres: []string{"Sci-Fi"}, Year: 1999}).
//	    Limit(5).
//	    Do(ctx)
//
// Zero-valued fields in the probe are treated as absent; pointer fields make
// presence explicit (nil = absent). For untyped access use pkg/sdk directly.
package cinecase

import (
	"context"
	"fmt"

	sdk "github.com/cinecase/cinecase/pkg/sdk"
)

// Catalog is a typed case base backed by the retrieval engine.
// T's cinecase struct tags define the mapping to similarity attributes.
type Catalog[T any] struct {
	client *sdk.Client
	meta   *caseMeta
}

// NewCatalog creates a typed catalog from in-memory items. Extra SDK options
// (schema, workers, Redis snapshotting) apply as given.
func NewCatalog[T any](ctx context.Context, items []T, opts ...sdk.Option) (*Catalog[T], error) {
	meta, err := parseMeta[T]()
	if err != nil {
		return nil, err
	}

	cases := make([]sdk.Case, len(items))
	for i, item := range items {
		cases[i] = meta.toCase(item)
	}

	client, err := sdk.New(ctx, append(opts, sdk.WithCases(cases...))...)
	if err != nil {
		return nil, fmt.Errorf("new catalog: %w", err)
	}
	return &Catalog[T]{client: client, meta: meta}, nil
}

// NewCatalogCSV creates a typed catalog from a CSV case file.
func NewCatalogCSV[T any](ctx context.Context, path string, opts ...sdk.Option) (*Catalog[T], error) {
	meta, err := parseMeta[T]()
	if err != nil {
		return nil, err
	}
	client, err := sdk.New(ctx, append(opts, sdk.WithCSV(path))...)
	if err != nil {
		return nil, fmt.Errorf("new catalog: %w", err)
	}
	return &Catalog[T]{client: client, meta: meta}, nil
}

// Cases returns all loaded cases as typed items, in insertion order.
func (c *Catalog[T]) Cases() []T {
	raw := c.client.Cases()
	items := make([]T, 0, len(raw))
	for _, cs := range raw {
		item, ok := c.meta.fromCase(cs).(T)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

// Len returns the number of loaded cases.
func (c *Catalog[T]) Len() int { return len(c.client.Cases()) }

// Find returns a fluent retrieval builder for the given probe. Zero-valued
// probe fields are excluded from scoring.
func (c *Catalog[T]) Find(probe T) *FindBuilder[T] {
	return &FindBuilder[T]{catalog: c, probe: probe}
}

// Close releases the catalog's resources.
func (c *Catalog[T]) Close() { c.client.Close() }
