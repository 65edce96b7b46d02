package attribute

import "fmt"

// Kind selects the local similarity metric for an attribute.
type Kind string

// Metric kind constants.
const (
	// Categorical is exact-match similarity for single-valued nominal attributes.
	Categorical Kind = "categorical"
	// NumericRange is distance similarity normalized over a fixed [min, max] span.
	NumericRange Kind = "numeric_range"
	// Ordinal is rank-distance similarity over a fixed value ladder.
	Ordinal Kind = "ordinal"
	// SetJaccard is intersection-over-union similarity for string sets.
	SetJaccard Kind = "set_jaccard"
)

// IsValid checks if the kind is one of the supported metrics.
func (k Kind) IsValid() bool {
	return k == Categorical || k == NumericRange || k == Ordinal || k == SetJaccard
}

// Spec is an immutable value object describing one attribute's metric and parameters.
type Spec struct {
	name string
	kind Kind

	// NumericRange params.
	min float64
	max float64

	// Ordinal params.
	ordered         []string
	fallbackUnknown string
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("attribute name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("attribute name %q too long (max 64)", name)
	}
	return nil
}

// New validates and creates a Spec for a kind without parameters
// (Categorical or SetJaccard).
func New(name string, k Kind) (Spec, error) {
	if err := validateName(name); err != nil {
		return Spec{}, err
	}
	if k != Categorical && k != SetJaccard {
		return Spec{}, fmt.Errorf("kind %q requires parameters for %q", k, name)
	}
	return Spec{name: name, kind: k}, nil
}

// NewNumericRange validates and creates a NumericRange Spec.
// max == min is the documented degenerate range (whole base has one value);
// max < min is rejected.
func NewNumericRange(name string, min, max float64) (Spec, error) {
	if err := validateName(name); err != nil {
		return Spec{}, err
	}
	if max < min {
		return Spec{}, fmt.Errorf("attribute %q: max %v < min %v", name, max, min)
	}
	return Spec{name: name, kind: NumericRange, min: min, max: max}, nil
}

// NewOrdinal validates and creates an Ordinal Spec.
// ordered must be non-empty with no duplicate values.
func NewOrdinal(name string, ordered []string, fallbackUnknown string) (Spec, error) {
	if err := validateName(name); err != nil {
		return Spec{}, err
	}
	if len(ordered) == 0 {
		return Spec{}, fmt.Errorf("attribute %q: ordered values are required", name)
	}
	seen := make(map[string]bool, len(ordered))
	for _, v := range ordered {
		if seen[v] {
			return Spec{}, fmt.Errorf("attribute %q: duplicate ordered value %q", name, v)
		}
		seen[v] = true
	}
	vals := make([]string, len(ordered))
	copy(vals, ordered)
	return Spec{name: name, kind: Ordinal, ordered: vals, fallbackUnknown: fallbackUnknown}, nil
}

// Reconstruct creates a Spec without validation (storage hydration).
func Reconstruct(name string, k Kind, min, max float64, ordered []string, fallbackUnknown string) Spec {
	return Spec{
		name: name, kind: k,
		min: min, max: max,
		ordered: ordered, fallbackUnknown: fallbackUnknown,
	}
}

// Name returns the attribute name.
func (s Spec) Name() string { return s.name }

// Kind returns the metric kind.
func (s Spec) Kind() Kind { return s.kind }

// Min returns the lower range bound (NumericRange only).
func (s Spec) Min() float64 { return s.min }

// Max returns the upper range bound (NumericRange only).
func (s Spec) Max() float64 { return s.max }

// Ordered returns the value ladder (Ordinal only).
func (s Spec) Ordered() []string { return s.ordered }

// FallbackUnknown returns the substitute for empty ordinal input.
func (s Spec) FallbackUnknown() string { return s.fallbackUnknown }
