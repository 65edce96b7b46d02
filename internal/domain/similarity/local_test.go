package similarity

import (
	"math"
	"testing"

	"github.com/cinecase/cinecase/internal/domain/casebase"
)

const tolerance = 1e-12

func approx(a, b float64) bool { return math.Abs(a-b) <= tolerance }

func TestCategorical(t *testing.T) {
	tests := []struct {
		name string
		a, b casebase.Value
		want float64
	}{
		{"equal text", casebase.Text("yes"), casebase.Text("yes"), 1},
		{"unequal text", casebase.Text("yes"), casebase.Text("no"), 0},
		{"equal numbers", casebase.Number(3), casebase.Number(3), 1},
		{"mixed kinds", casebase.Number(3), casebase.Text("3"), 0},
		{"one absent", casebase.Text("yes"), casebase.Value{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorical(tt.a, tt.b); got != tt.want {
				t.Errorf("Categorical() = %v, want %v", got, tt.want)
			}
			if Categorical(tt.a, tt.b) != Categorical(tt.b, tt.a) {
				t.Error("not symmetric")
			}
		})
	}
}

func TestNumericRange(t *testing.T) {
	tests := []struct {
		name     string
		a, b     casebase.Value
		min, max float64
		want     float64
	}{
		{"identity", casebase.Number(2000), casebase.Number(2000), 1920, 2025, 1},
		{"one year apart", casebase.Number(2000), casebase.Number(1999), 1920, 2025, 1 - 1.0/105},
		{"full span apart", casebase.Number(1920), casebase.Number(2025), 1920, 2025, 0},
		{"non-numeric side", casebase.Text("2000"), casebase.Number(1999), 1920, 2025, 0},
		{"both absent", casebase.Value{}, casebase.Value{}, 1920, 2025, 0},
		{"degenerate span equal", casebase.Number(7), casebase.Number(7), 7, 7, 1},
		{"degenerate span unequal", casebase.Number(7), casebase.Number(8), 7, 7, 0},
		{"out of range floored", casebase.Number(3000), casebase.Number(1920), 1920, 2025, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NumericRange(tt.a, tt.b, tt.min, tt.max)
			if !approx(got, tt.want) {
				t.Errorf("NumericRange() = %v, want %v", got, tt.want)
			}
			if got != NumericRange(tt.b, tt.a, tt.min, tt.max) {
				t.Error("not symmetric")
			}
		})
	}
}

func TestNumericRange_Monotonic(t *testing.T) {
	// For fixed bounds and a, increasing |a-b| never increases the score.
	a := casebase.Number(1970)
	prev := math.Inf(1)
	for d := 0.0; d <= 200; d += 5 {
		got := NumericRange(a, casebase.Number(1970+d), 1920, 2025)
		if got > prev+tolerance {
			t.Fatalf("score increased at distance %v: %v > %v", d, got, prev)
		}
		if got < 0 || got > 1 {
			t.Fatalf("score %v out of [0,1]", got)
		}
		prev = got
	}
}

func TestOrdinal(t *testing.T) {
	ladder := []string{"G", "PG", "PG-13", "R", "NC-17"}

	tests := []struct {
		name string
		a, b casebase.Value
		want float64
	}{
		{"identity", casebase.Text("PG"), casebase.Text("PG"), 1},
		{"one step", casebase.Text("PG"), casebase.Text("PG-13"), 1 - 1.0/4},
		{"full ladder", casebase.Text("G"), casebase.Text("NC-17"), 0},
		{"normalized lookup", casebase.Text("pg 13"), casebase.Text("PG-13"), 1},
		{"fallback for empty", casebase.Value{}, casebase.Text("G"), 1},
		{"both empty", casebase.Value{}, casebase.Value{}, 1},
		{"unmapped equal raw", casebase.Text("TV-MA"), casebase.Text("TV-MA"), 1},
		{"unmapped unequal raw", casebase.Text("TV-MA"), casebase.Text("PG"), 0},
		{"numeric scalar unmapped", casebase.Number(12), casebase.Text("PG"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ordinal(tt.a, tt.b, ladder, "G")
			if !approx(got, tt.want) {
				t.Errorf("Ordinal() = %v, want %v", got, tt.want)
			}
			if got != Ordinal(tt.b, tt.a, ladder, "G") {
				t.Error("not symmetric")
			}
		})
	}

	t.Run("single-rung ladder", func(t *testing.T) {
		if got := Ordinal(casebase.Text("G"), casebase.Text("G"), []string{"G"}, "G"); got != 1 {
			t.Errorf("Ordinal() = %v, want 1", got)
		}
	})
}

func TestSetJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b casebase.Value
		want float64
	}{
		{"both empty", casebase.List(), casebase.List(), 1},
		{"both absent", casebase.Value{}, casebase.Value{}, 1},
		{"one empty", casebase.List("x"), casebase.List(), 0},
		{"partial overlap", casebase.List("a", "b"), casebase.List("b", "c"), 1.0 / 3},
		{"identical sets", casebase.List("Sci-Fi"), casebase.List("Sci-Fi"), 1},
		{"disjoint", casebase.List("Drama"), casebase.List("Sci-Fi"), 0},
		{"scalar as singleton", casebase.Text("Drama"), casebase.List("Drama"), 1},
		{"duplicates collapse", casebase.List("a", "a", "b"), casebase.List("a", "b"), 1},
		{"whitespace trimmed", casebase.List(" a ", "b"), casebase.List("a", "b "), 1},
		{"empty items dropped", casebase.List("", "  "), casebase.List(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SetJaccard(tt.a, tt.b)
			if !approx(got, tt.want) {
				t.Errorf("SetJaccard() = %v, want %v", got, tt.want)
			}
			if got != SetJaccard(tt.b, tt.a) {
				t.Error("not symmetric")
			}
		})
	}
}
