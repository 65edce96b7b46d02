package report

import (
	"strings"
	"testing"
	"time"

	"github.com/cinecase/cinecase/internal/domain/casebase"
	"github.com/cinecase/cinecase/internal/domain/query"
	"github.com/cinecase/cinecase/internal/domain/similarity"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestMarkdownWrite(t *testing.T) {
	q := query.New(map[string]casebase.Value{
		"genres": casebase.List("Sci-Fi", "Action"),
		"year":   casebase.Number(1999),
	})
	weights, err := query.NewWeights(map[string]float64{"genres": 0.5, "year": 0.5})
	if err != nil {
		t.Fatalf("NewWeights() error = %v", err)
	}
	results := []similarity.Result{
		similarity.NewResult(casebase.NewRecord("The Matrix", nil), 1.0),
		similarity.NewResult(casebase.NewRecord("Blade Runner", nil), 0.733),
	}

	var sb strings.Builder
	m := Markdown{Now: fixedNow}
	if err := m.Write(&sb, q, weights, results); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"# Similarity Retrieval Report",
		"Generated: 2025-06-01T12:00:00Z",
		"| genres | Sci-Fi, Action | 0.50 |",
		"| year | 1999 | 0.50 |",
		"| 1 | The Matrix | 100.0% |",
		"| 2 | Blade Runner | 73.3% |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n---\n%s", want, out)
		}
	}
}

func TestMarkdownWrite_Empty(t *testing.T) {
	var sb strings.Builder
	m := Markdown{Title: "Nothing Found", Now: fixedNow}
	if err := m.Write(&sb, query.New(nil), query.Weights{}, nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := sb.String()

	if !strings.Contains(out, "# Nothing Found") {
		t.Errorf("report missing custom title:\n%s", out)
	}
	if !strings.Contains(out, "_empty query_") {
		t.Errorf("report missing empty-query marker:\n%s", out)
	}
	if !strings.Contains(out, "_no cases matched_") {
		t.Errorf("report missing empty-results marker:\n%s", out)
	}
}

func TestConsole(t *testing.T) {
	results := []similarity.Result{
		similarity.NewResult(casebase.NewRecord("The Matrix", nil), 0.995),
	}
	var sb strings.Builder
	if err := Console(&sb, results); err != nil {
		t.Fatalf("Console() error = %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "The Matrix") || !strings.Contains(out, "99.5%") {
		t.Errorf("unexpected console output:\n%s", out)
	}
}
