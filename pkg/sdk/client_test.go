package cinecase

import (
	"context"
	"testing"
)

func movieCases() []Case {
	return []Case{
		{Title: "The Matrix", Attributes: map[string]any{
			"genres":       []string{"Sci-Fi", "Action"},
			"year":         1999,
			"rating":       "R",
			"critic_score": 8.7,
			"has_sequel":   true,
		}},
		{Title: "The Godfather", Attributes: map[string]any{
			"genres":       []string{"Crime", "Drama"},
			"year":         1972,
			"rating":       "R",
			"critic_score": 9.2,
			"has_sequel":   true,
		}},
		{Title: "Toy Story", Attributes: map[string]any{
			"genres":       []string{"Animation", "Comedy"},
			"year":         1995,
			"rating":       "G",
			"critic_score": 8.3,
			"has_sequel":   true,
		}},
	}
}

func TestNew_NoSource(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no case source is configured")
	}
}

func TestRetrieve_IdentityTops(t *testing.T) {
	client, err := New(context.Background(), WithCases(movieCases()...), WithWorkers(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	matches, err := client.Retrieve(context.Background(), Query{
		Attributes: map[string]any{
			"genres":       []string{"Sci-Fi", "Action"},
			"year":         1999,
			"rating":       "R",
			"critic_score": 8.7,
			"has_sequel":   true,
		},
	})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("len(matches) = %d, want 3", len(matches))
	}
	if matches[0].Title != "The Matrix" {
		t.Errorf("top match = %q, want The Matrix", matches[0].Title)
	}
	if matches[0].Score != 1.0 {
		t.Errorf("top score = %v, want 1.0", matches[0].Score)
	}
	if matches[0].Rank != 1 || matches[1].Rank != 2 {
		t.Errorf("ranks = %d, %d", matches[0].Rank, matches[1].Rank)
	}
}

func TestRetrieve_LimitAndMinScore(t *testing.T) {
	client, err := New(context.Background(), WithCases(movieCases()...))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	matches, err := client.Retrieve(context.Background(), Query{
		Attributes: map[string]any{"year": 1999},
		Limit:      2,
	})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("len(matches) = %d, want 2", len(matches))
	}

	matches, err = client.Retrieve(context.Background(), Query{
		Attributes: map[string]any{"year": 1999},
		MinScore:   2, // impossible threshold
	})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("len(matches) = %d, want 0 above impossible threshold", len(matches))
	}
}

func TestRetrieve_WeightOverride(t *testing.T) {
	client, err := New(context.Background(), WithCases(movieCases()...))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	// Rating alone: Toy Story is the only G.
	matches, err := client.Retrieve(context.Background(), Query{
		Attributes: map[string]any{"rating": "G"},
		Weights: map[string]float64{
			"genres": 0, "year": 0, "rating": 1,
			"runtime_minutes": 0, "critic_score": 0, "has_sequel": 0,
		},
	})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if matches[0].Title != "Toy Story" {
		t.Errorf("top match = %q, want Toy Story", matches[0].Title)
	}
	if matches[0].Score != 1.0 {
		t.Errorf("top score = %v, want 1.0", matches[0].Score)
	}
}

func TestRetrieve_Validation(t *testing.T) {
	client, err := New(context.Background(), WithCases(movieCases()...))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	if _, err := client.Retrieve(context.Background(), Query{}); err == nil {
		t.Error("expected error for empty query")
	}

	_, err = client.Retrieve(context.Background(), Query{
		Attributes: map[string]any{"year": struct{}{}},
	})
	if err == nil {
		t.Error("expected error for unsupported value type")
	}

	_, err = client.Retrieve(context.Background(), Query{
		Attributes: map[string]any{"year": 1999},
		Weights:    map[string]float64{"year": -1},
	})
	if err == nil {
		t.Error("expected error for negative weight")
	}
}

func TestCasesAndSchema(t *testing.T) {
	client, err := New(context.Background(), WithCases(movieCases()...))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	cases := client.Cases()
	if len(cases) != 3 {
		t.Fatalf("len(Cases()) = %d, want 3", len(cases))
	}
	if cases[0].Title != "The Matrix" {
		t.Errorf("first case = %q, want insertion order preserved", cases[0].Title)
	}
	if cases[0].Attributes["year"] != float64(1999) {
		t.Errorf("year = %v, want 1999", cases[0].Attributes["year"])
	}
	// bool maps to the yes/no text convention
	if cases[0].Attributes["has_sequel"] != "yes" {
		t.Errorf("has_sequel = %v, want yes", cases[0].Attributes["has_sequel"])
	}

	attrs := client.Schema()
	if len(attrs) == 0 {
		t.Fatal("Schema() returned no attributes")
	}
	byName := make(map[string]AttributeInfo, len(attrs))
	for _, a := range attrs {
		byName[a.Name] = a
	}
	year, ok := byName["year"]
	if !ok {
		t.Fatal("schema missing year attribute")
	}
	if year.Kind != "numeric_range" || year.Min >= year.Max {
		t.Errorf("year attribute = %+v", year)
	}
	rating, ok := byName["rating"]
	if !ok {
		t.Fatal("schema missing rating attribute")
	}
	if rating.Kind != "ordinal" || len(rating.Ordered) == 0 {
		t.Errorf("rating attribute = %+v", rating)
	}
}

func TestNew_CSVSource(t *testing.T) {
	client, err := New(context.Background(), WithCSV("testdata/movies.csv"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	if len(client.Cases()) == 0 {
		t.Fatal("expected cases loaded from CSV")
	}
}
