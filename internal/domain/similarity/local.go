// Package similarity implements the local similarity metrics: pure,
// symmetric, total functions returning a score in [0, 1]. Missing or
// mistyped input degrades to a defined boundary value, never an error.
package similarity

import (
	"math"
	"strings"

	"github.com/cinecase/cinecase/internal/domain/casebase"
)

// Categorical scores exact-match similarity: 1 for equal typed values, else 0.
func Categorical(a, b casebase.Value) float64 {
	if a.Equal(b) {
		return 1
	}
	return 0
}

// NumericRange scores distance similarity normalized over [min, max].
// A span of zero is the degenerate range: equality decides the score.
// Out-of-range inputs are floored at 0 rather than going negative.
func NumericRange(a, b casebase.Value, min, max float64) float64 {
	av, aok := a.Number()
	bv, bok := b.Number()
	if !aok || !bok {
		return 0
	}
	span := max - min
	if span == 0 {
		if av == bv {
			return 1
		}
		return 0
	}
	return math.Max(0, 1-math.Abs(av-bv)/span)
}

// Ordinal scores rank distance over a value ladder. Empty input is replaced
// by fallbackUnknown before lookup; lookup tries the raw string, then its
// normalized form (uppercase, whitespace runs collapsed to a hyphen). When
// either side stays unresolved the metric degrades to exact raw-string match.
func Ordinal(a, b casebase.Value, ordered []string, fallbackUnknown string) float64 {
	ia, rawA, okA := ordinalIndex(a, ordered, fallbackUnknown)
	ib, rawB, okB := ordinalIndex(b, ordered, fallbackUnknown)

	if !okA || !okB {
		if rawA == rawB {
			return 1
		}
		return 0
	}
	if len(ordered) == 1 {
		return 1
	}
	return 1 - math.Abs(float64(ia-ib))/float64(len(ordered)-1)
}

// SetJaccard scores intersection-over-union of two string sets. A bare scalar
// counts as a one-element set. Two empty sets agree (1); one empty set against
// a non-empty one disagrees (0).
func SetJaccard(a, b casebase.Value) float64 {
	sa := toSet(a)
	sb := toSet(b)

	if len(sa) == 0 && len(sb) == 0 {
		return 1
	}
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}

	inter := 0
	for item := range sa {
		if sb[item] {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

// ordinalIndex resolves a value to its ladder position. raw is the pre-fallback
// scalar text, used for the exact-match degradation.
func ordinalIndex(v casebase.Value, ordered []string, fallbackUnknown string) (idx int, raw string, ok bool) {
	raw, _ = v.Scalar()
	s := raw
	if s == "" {
		s = fallbackUnknown
	}
	for i, o := range ordered {
		if o == s {
			return i, raw, true
		}
	}
	n := normalizeLadderValue(s)
	for i, o := range ordered {
		if o == n {
			return i, raw, true
		}
	}
	return 0, raw, false
}

// normalizeLadderValue uppercases and collapses internal whitespace runs to a
// single hyphen, so "pg 13" resolves against "PG-13".
func normalizeLadderValue(s string) string {
	fields := strings.Fields(s)
	return strings.ToUpper(strings.Join(fields, "-"))
}

// toSet normalizes a value to a set of non-empty trimmed strings.
func toSet(v casebase.Value) map[string]bool {
	var items []string
	if list := v.List(); list != nil {
		items = list
	} else if s, ok := v.Scalar(); ok {
		items = []string{s}
	}

	set := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		set[item] = true
	}
	return set
}
