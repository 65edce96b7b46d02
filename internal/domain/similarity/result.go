package similarity

import "github.com/cinecase/cinecase/internal/domain/casebase"

// Result is one ranked retrieval hit: a case and its global similarity score.
type Result struct {
	record casebase.Record
	score  float64
}

// NewResult creates a retrieval result.
func NewResult(record casebase.Record, score float64) Result {
	return Result{record: record, score: score}
}

// Record returns the matched case.
func (r Result) Record() casebase.Record { return r.record }

// Score returns the global similarity in [0, 1].
func (r Result) Score() float64 { return r.score }
