package cinecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cinecase/cinecase/internal/db"
	dbRedis "github.com/cinecase/cinecase/internal/db/redis"
	"github.com/cinecase/cinecase/internal/domain/attribute"
	"github.com/cinecase/cinecase/internal/domain/casebase"
	"github.com/cinecase/cinecase/internal/domain/query"
	"github.com/cinecase/cinecase/internal/domain/schema"
	"github.com/cinecase/cinecase/internal/loader"
	casebaserepo "github.com/cinecase/cinecase/internal/repository/casebase"
	retrievaluc "github.com/cinecase/cinecase/internal/usecase/retrieval"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the cinecase SDK entry point. It embeds the retrieval engine:
// the case base is loaded once at construction and scanned in-process.
type Client struct {
	store     db.Store
	retrieval *retrievaluc.Service
	base      casebase.Base
}

// New creates a Client, loads the case base, and refreshes the Redis
// snapshot when both a database and a primary source are configured.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix: "cinecase:",
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	sch := cfg.schema
	if sch == nil {
		sch = schema.DefaultMovies()
	}

	var store db.Store
	var repo *casebaserepo.Repo
	if len(cfg.redisAddrs) > 0 {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.redisAddrs,
			Password: cfg.redisPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("redis not ready: %w", err)
		}
		store = s
		repo = casebaserepo.New(s, cfg.keyPrefix)
	}

	base, err := loadBase(ctx, cfg, repo)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	// Refresh the snapshot when the base came from a primary source.
	if repo != nil && cfg.saveSnapshot && (cfg.csvPath != "" || len(cfg.cases) > 0) {
		if err := repo.Save(ctx, base); err != nil {
			cfg.logger.Warn("snapshot save failed", zap.Error(err))
		}
	}

	svc := retrievaluc.New(sch)
	if cfg.workers > 0 {
		svc = svc.WithWorkers(cfg.workers)
	}

	return &Client{store: store, retrieval: svc, base: base}, nil
}

func loadBase(ctx context.Context, cfg *clientConfig, repo *casebaserepo.Repo) (casebase.Base, error) {
	switch {
	case cfg.csvPath != "":
		base, err := loader.LoadCSV(cfg.csvPath, cfg.logger)
		if err != nil {
			return casebase.Base{}, fmt.Errorf("load csv: %w", err)
		}
		return base, nil
	case len(cfg.cases) > 0:
		records := make([]casebase.Record, len(cfg.cases))
		for i, c := range cfg.cases {
			attrs := make(map[string]casebase.Value, len(c.Attributes))
			for name, raw := range c.Attributes {
				v, err := toValue(raw)
				if err != nil {
					return casebase.Base{}, fmt.Errorf("case %q, attribute %q: %w", c.Title, name, err)
				}
				attrs[name] = v
			}
			records[i] = casebase.NewRecord(c.Title, attrs)
		}
		return casebase.NewBase(records), nil
	case repo != nil:
		base, err := repo.Load(ctx)
		if err != nil {
			return casebase.Base{}, fmt.Errorf("load snapshot: %w", err)
		}
		return base, nil
	default:
		return casebase.Base{}, errors.New("no case source: use WithCSV, WithCases, or WithRedis")
	}
}

// Retrieve ranks all cases against the query, most similar first. Ties keep
// case insertion order.
func (c *Client) Retrieve(ctx context.Context, q Query) ([]Match, error) {
	if len(q.Attributes) == 0 {
		return nil, errors.New("query must set at least one attribute")
	}

	attrs := make(map[string]casebase.Value, len(q.Attributes))
	for name, raw := range q.Attributes {
		v, err := toValue(raw)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		attrs[name] = v
	}

	weights := c.retrieval.Schema().DefaultWeights()
	if len(q.Weights) > 0 {
		overrides, err := query.NewWeights(q.Weights)
		if err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
		weights = weights.Merge(overrides)
	}

	results := c.retrieval.Retrieve(ctx, query.New(attrs), c.base, weights)

	matches := make([]Match, 0, len(results))
	for _, res := range results {
		if res.Score() < q.MinScore {
			continue
		}
		matches = append(matches, Match{
			Rank:       len(matches) + 1,
			Title:      res.Record().Title(),
			Score:      res.Score(),
			Attributes: recordAttributes(res.Record()),
		})
		if q.Limit > 0 && len(matches) == q.Limit {
			break
		}
	}
	return matches, nil
}

// Cases returns all loaded cases in insertion order.
func (c *Client) Cases() []Case {
	out := make([]Case, c.base.Len())
	for i := 0; i < c.base.Len(); i++ {
		rec := c.base.At(i)
		out[i] = Case{Title: rec.Title(), Attributes: recordAttributes(rec)}
	}
	return out
}

// Schema returns the configured attributes with their default weights.
func (c *Client) Schema() []AttributeInfo {
	sch := c.retrieval.Schema()
	names := sch.Names()
	out := make([]AttributeInfo, 0, len(names))
	for _, name := range names {
		spec, _ := sch.Spec(name)
		info := AttributeInfo{
			Name:   spec.Name(),
			Kind:   string(spec.Kind()),
			Weight: sch.DefaultWeight(name),
		}
		switch spec.Kind() {
		case attribute.NumericRange:
			info.Min, info.Max = spec.Min(), spec.Max()
		case attribute.Ordinal:
			info.Ordered = spec.Ordered()
			info.Unknown = spec.FallbackUnknown()
		}
		out = append(out, info)
	}
	return out
}

// Close releases the database connection, if any.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// toValue coerces a Go value into a typed attribute value.
func toValue(raw any) (casebase.Value, error) {
	switch v := raw.(type) {
	case float64:
		return casebase.Number(v), nil
	case int:
		return casebase.Number(float64(v)), nil
	case string:
		return casebase.Text(v), nil
	case bool:
		if v {
			return casebase.Text("yes"), nil
		}
		return casebase.Text("no"), nil
	case []string:
		return casebase.List(v...), nil
	case nil:
		return casebase.Value{}, nil
	default:
		return casebase.Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

func recordAttributes(rec casebase.Record) map[string]any {
	names := rec.AttributeNames()
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]any, len(names))
	for _, name := range names {
		v, _ := rec.Attribute(name)
		switch v.Kind() {
		case casebase.KindNumber:
			n, _ := v.Number()
			out[name] = n
		case casebase.KindList:
			out[name] = v.List()
		default:
			s, _ := v.Scalar()
			out[name] = s
		}
	}
	return out
}
