package chi

import (
	"fmt"

	"github.com/cinecase/cinecase/internal/domain"
	"github.com/cinecase/cinecase/internal/domain/attribute"
	"github.com/cinecase/cinecase/internal/domain/casebase"
	"github.com/cinecase/cinecase/internal/domain/query"
	"github.com/cinecase/cinecase/internal/domain/schema"
	"github.com/cinecase/cinecase/internal/domain/similarity"
)

// errorCode identifies an API error category in JSON responses.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeNotFound         errorCode = "not_found"
	codeInternalError    errorCode = "internal_error"
)

// errorResponse is the wire shape of every error payload.
type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// retrieveRequest is the POST /retrieve body. Attribute values accept JSON
// numbers, strings, booleans, and string arrays. Weights override the schema
// defaults per attribute.
type retrieveRequest struct {
	Query    map[string]any     `json:"query"`
	Weights  map[string]float64 `json:"weights,omitempty"`
	Limit    *int               `json:"limit,omitempty"`
	MinScore *float64           `json:"min_score,omitempty"`
	Format   string             `json:"format,omitempty"` // "json" (default) or "markdown"
}

// retrieveResponse is the POST /retrieve JSON reply.
type retrieveResponse struct {
	Items []resultItem `json:"items"`
	Total int          `json:"total"`
	Limit int          `json:"limit"`
}

type resultItem struct {
	Rank       int            `json:"rank"`
	Title      string         `json:"title"`
	Score      float64        `json:"score"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// schemaResponse is the GET /schema JSON reply.
type schemaResponse struct {
	Attributes []schemaAttribute `json:"attributes"`
}

type schemaAttribute struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Weight  float64  `json:"weight"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Ordered []string `json:"ordered,omitempty"`
	Unknown string   `json:"unknown,omitempty"`
}

// caseListResponse is the GET /cases JSON reply.
type caseListResponse struct {
	Items []caseItem `json:"items"`
	Total int        `json:"total"`
}

type caseItem struct {
	Title      string         `json:"title"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// healthResponse is the GET /health JSON reply.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// valueFromJSON coerces a decoded JSON value into a typed attribute value.
// Booleans map to the yes/no text convention used by the case loader.
func valueFromJSON(name string, raw any) (casebase.Value, error) {
	switch v := raw.(type) {
	case float64:
		return casebase.Number(v), nil
	case string:
		return casebase.Text(v), nil
	case bool:
		if v {
			return casebase.Text("yes"), nil
		}
		return casebase.Text("no"), nil
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return casebase.Value{}, fmt.Errorf("attribute %q: list items must be strings", name)
			}
			items[i] = s
		}
		return casebase.List(items...), nil
	case nil:
		return casebase.Value{}, nil
	default:
		return casebase.Value{}, fmt.Errorf("attribute %q: unsupported value type", name)
	}
}

func queryFromRequest(req retrieveRequest) (query.Query, error) {
	attrs := make(map[string]casebase.Value, len(req.Query))
	for name, raw := range req.Query {
		v, err := valueFromJSON(name, raw)
		if err != nil {
			return query.Query{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
		}
		attrs[name] = v
	}
	return query.New(attrs), nil
}

// weightsFromRequest merges request overrides over the schema defaults.
func weightsFromRequest(sch *schema.Schema, overrides map[string]float64) (query.Weights, error) {
	defaults := sch.DefaultWeights()
	if len(overrides) == 0 {
		return defaults, nil
	}
	w, err := query.NewWeights(overrides)
	if err != nil {
		return query.Weights{}, fmt.Errorf("weights: %w", err)
	}
	return defaults.Merge(w), nil
}

func valueToJSON(v casebase.Value) any {
	switch v.Kind() {
	case casebase.KindNumber:
		n, _ := v.Number()
		return n
	case casebase.KindList:
		return v.List()
	default:
		s, _ := v.Scalar()
		return s
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
		out[name] = valueToJSON(v)
	}
	return out
}

func resultsToItems(results []similarity.Result, includeAttrs bool) []resultItem {
	items := make([]resultItem, len(results))
	for i, res := range results {
		items[i] = resultItem{
			Rank:  i + 1,
			Title: res.Record().Title(),
			Score: res.Score(),
		}
		if includeAttrs {
			items[i].Attributes = recordAttributes(res.Record())
		}
	}
	return items
}

func schemaToResponse(sch *schema.Schema) schemaResponse {
	names := sch.Names()
	attrs := make([]schemaAttribute, 0, len(names))
	for _, name := range names {
		spec, _ := sch.Spec(name)
		a := schemaAttribute{
			Name:   spec.Name(),
			Kind:   string(spec.Kind()),
			Weight: sch.DefaultWeight(name),
		}
		switch spec.Kind() {
		case attribute.NumericRange:
			mn, mx := spec.Min(), spec.Max()
			a.Min, a.Max = &mn, &mx
		case attribute.Ordinal:
			a.Ordered = spec.Ordered()
			a.Unknown = spec.FallbackUnknown()
		}
		attrs = append(attrs, a)
	}
	return schemaResponse{Attributes: attrs}
}
