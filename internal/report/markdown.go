// Package report renders ranked retrieval results for human consumption.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cinecase/cinecase/internal/domain/casebase"
	"github.com/cinecase/cinecase/internal/domain/query"
	"github.com/cinecase/cinecase/internal/domain/similarity"
)

// Markdown writes a retrieval report as a Markdown document.
type Markdown struct {
	Title string
	Now   func() time.Time // nil uses time.Now
}

// Write renders the query and ranked results to w.
func (m Markdown) Write(w io.Writer, q query.Query, weights query.Weights, results []similarity.Result) error {
	title := m.Title
	if title == "" {
		title = "Similarity Retrieval Report"
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Generated: %s\n\n", now().Format(time.RFC3339))

	b.WriteString("## Query\n\n")
	names := q.AttributeNames()
	if len(names) == 0 {
		b.WriteString("_empty query_\n")
	} else {
		b.WriteString("| Attribute | Value | Weight |\n")
		b.WriteString("|---|---|---|\n")
		for _, name := range names {
			v, _ := q.Attribute(name)
			fmt.Fprintf(&b, "| %s | %s | %.2f |\n", name, formatValue(v), weights.Of(name))
		}
	}
	b.WriteString("\n")

	b.WriteString("## Results\n\n")
	if len(results) == 0 {
		b.WriteString("_no cases matched_\n")
	} else {
		b.WriteString("| Rank | Title | Similarity |\n")
		b.WriteString("|---|---|---|\n")
		for i, res := range results {
			fmt.Fprintf(&b, "| %d | %s | %.1f%% |\n", i+1, res.Record().Title(), res.Score()*100)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Console writes a compact plain-text ranking to w, one case per line.
func Console(w io.Writer, results []similarity.Result) error {
	var b strings.Builder
	for i, res := range results {
		fmt.Fprintf(&b, "%2d. %-40s %6.1f%%\n", i+1, res.Record().Title(), res.Score()*100)
	}
	if len(results) == 0 {
		b.WriteString("no cases matched\n")
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write ranking: %w", err)
	}
	return nil
}

func formatValue(v casebase.Value) string {
	if v.Kind() == casebase.KindList {
		return strings.Join(v.List(), ", ")
	}
	s, _ := v.Scalar()
	return s
}
