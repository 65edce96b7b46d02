package cinecase

// Query is a retrieval request. Attribute values accept float64, int,
// string, bool, and []string; bool maps to the yes/no text convention.
type Query struct {
	// Attributes holds the probe values keyed by attribute name.
	Attributes map[string]any
	// Weights overrides schema default weights per attribute. Unset
	// attributes keep their defaults.
	Weights map[string]float64
	// Limit caps the number of matches returned. Zero means all cases.
	Limit int
	// MinScore drops matches scoring below the threshold.
	MinScore float64
}

// Match is a single ranked retrieval hit.
type Match struct {
	Rank       int
	Title      string
	Score      float64
	Attributes map[string]any
}

// Case is one stored case with its attribute values.
type Case struct {
	Title      string
	Attributes map[string]any
}

// AttributeInfo describes one schema attribute.
type AttributeInfo struct {
	Name    string
	Kind    string
	Weight  float64
	Min     float64
	Max     float64
	Ordered []string
	Unknown string
}
