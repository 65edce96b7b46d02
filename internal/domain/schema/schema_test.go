package schema

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cinecase/cinecase/internal/domain/attribute"
)

func mustSpec(t *testing.T, name string, k attribute.Kind) attribute.Spec {
	t.Helper()
	s, err := attribute.New(name, k)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNew(t *testing.T) {
	s, err := New([]Entry{
		{Spec: mustSpec(t, "genres", attribute.SetJaccard), Weight: 0.6},
		{Spec: mustSpec(t, "has_sequel", attribute.Categorical), Weight: 0.4},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if diff := cmp.Diff([]string{"genres", "has_sequel"}, s.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if _, ok := s.Spec("genres"); !ok {
		t.Error("Spec(genres) not found")
	}
	if _, ok := s.Spec("title"); ok {
		t.Error("unconfigured name resolved")
	}
	if s.DefaultWeight("genres") != 0.6 {
		t.Errorf("DefaultWeight(genres) = %v", s.DefaultWeight("genres"))
	}
	if s.DefaultWeight("title") != 0 {
		t.Errorf("DefaultWeight(title) = %v, want 0", s.DefaultWeight("title"))
	}
}

func TestNew_Invalid(t *testing.T) {
	t.Run("duplicate name", func(t *testing.T) {
		_, err := New([]Entry{
			{Spec: mustSpec(t, "genres", attribute.SetJaccard), Weight: 0.5},
			{Spec: mustSpec(t, "genres", attribute.Categorical), Weight: 0.5},
		})
		if err == nil {
			t.Error("duplicate name accepted")
		}
	})
	t.Run("weight out of range", func(t *testing.T) {
		for _, bad := range []float64{1.5, math.NaN()} {
			_, err := New([]Entry{
				{Spec: mustSpec(t, "genres", attribute.SetJaccard), Weight: bad},
			})
			if err == nil {
				t.Errorf("weight %v accepted", bad)
			}
		}
	})
}

func TestDefaultMovies(t *testing.T) {
	s := DefaultMovies()

	want := []string{"genres", "year", "rating", "runtime_minutes", "critic_score", "has_sequel"}
	if diff := cmp.Diff(want, s.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	year, ok := s.Spec("year")
	if !ok || year.Kind() != attribute.NumericRange {
		t.Fatalf("Spec(year) = (%v, %v)", year, ok)
	}
	if year.Min() != 1920 || year.Max() != 2025 {
		t.Errorf("year bounds = [%v, %v]", year.Min(), year.Max())
	}

	if _, ok := s.Spec("title"); ok {
		t.Error("title must not be a scored attribute")
	}

	var total float64
	for _, name := range s.Names() {
		total += s.DefaultWeight(name)
	}
	if total < 0.999 || total > 1.001 {
		t.Errorf("default weights sum = %v", total)
	}

	if s.DefaultWeights().Of("genres") != 0.25 {
		t.Errorf("DefaultWeights().Of(genres) = %v", s.DefaultWeights().Of("genres"))
	}
}
