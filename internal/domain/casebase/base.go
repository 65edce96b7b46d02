package casebase

// Base is an ordered, immutable sequence of case Records. Insertion order is
// preserved and serves as the ranking tie-break.
type Base struct {
	records []Record
}

// NewBase creates a Base. The records slice is copied.
func NewBase(records []Record) Base {
	recs := make([]Record, len(records))
	copy(recs, records)
	return Base{records: recs}
}

// Len returns the number of cases.
func (b Base) Len() int { return len(b.records) }

// At returns the record at position i.
func (b Base) At(i int) Record { return b.records[i] }

// Records returns the underlying sequence in insertion order.
// Callers must treat the slice as read-only.
func (b Base) Records() []Record { return b.records }
