// Command casefind ranks the cases in a CSV file against a query given on
// the command line and prints the ranking, optionally writing a Markdown
// report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cinecase/cinecase/internal/domain/casebase"
	"github.com/cinecase/cinecase/internal/domain/query"
	"github.com/cinecase/cinecase/internal/domain/schema"
	"github.com/cinecase/cinecase/internal/loader"
	logpkg "github.com/cinecase/cinecase/internal/logger"
	"github.com/cinecase/cinecase/internal/report"
	retrievaluc "github.com/cinecase/cinecase/internal/usecase/retrieval"
)

func main() {
	var (
		csvPath  = flag.String("csv", "data/movies.csv", "path to the case base CSV")
		genres   = flag.String("genres", "", "query genres, pipe or comma separated")
		year     = flag.Float64("year", 0, "query release year")
		rating   = flag.String("rating", "", "query age rating (G, PG, PG-13, R, NC-17)")
		runtime  = flag.String("runtime", "", "query runtime (e.g. 135, \"2h 15m\")")
		score    = flag.Float64("score", 0, "query critic score (1-10)")
		sequel   = flag.String("sequel", "", "query has_sequel (yes/no)")
		weights  = flag.String("weights", "", "weight overrides, e.g. genres=0.5,year=0.2")
		limit    = flag.Int("limit", 10, "maximum results to print")
		minScore = flag.Float64("min-score", 0, "drop results below this similarity")
		output   = flag.String("o", "", "write a Markdown report to this path")
	)
	flag.Parse()

	logger, err := logpkg.New("local", "warn")
	if err != nil {
		fatalf("create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	base, err := loader.LoadCSV(*csvPath, logger)
	if err != nil {
		fatalf("load %s: %v", *csvPath, err)
	}

	attrs := make(map[string]casebase.Value)
	if *genres != "" {
		attrs["genres"] = casebase.List(loader.SplitList(*genres)...)
	}
	if *year != 0 {
		attrs["year"] = casebase.Number(*year)
	}
	if *rating != "" {
		attrs["rating"] = casebase.Text(loader.CanonicalRating(*rating))
	}
	if *runtime != "" {
		minutes, err := loader.ParseRuntimeMinutes(*runtime)
		if err != nil {
			fatalf("parse -runtime: %v", err)
		}
		attrs["runtime_minutes"] = casebase.Number(minutes)
	}
	if *score != 0 {
		attrs["critic_score"] = casebase.Number(*score)
	}
	if *sequel != "" {
		attrs["has_sequel"] = casebase.Text(loader.CanonicalBool(*sequel))
	}
	if len(attrs) == 0 {
		fatalf("set at least one query flag (-genres, -year, -rating, -runtime, -score, -sequel)")
	}

	sch := schema.DefaultMovies()
	w := sch.DefaultWeights()
	if *weights != "" {
		overrides, err := parseWeights(*weights)
		if err != nil {
			fatalf("parse -weights: %v", err)
		}
		w = w.Merge(overrides)
	}

	q := query.New(attrs)
	results := retrievaluc.New(sch).Retrieve(context.Background(), q, base, w)

	if *minScore > 0 {
		kept := results[:0]
		for _, res := range results {
			if res.Score() >= *minScore {
				kept = append(kept, res)
			}
		}
		results = kept
	}
	if len(results) > *limit {
		results = results[:*limit]
	}

	if err := report.Console(os.Stdout, results); err != nil {
		fatalf("print ranking: %v", err)
	}

	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fatalf("create %s: %v", *output, err)
		}
		defer f.Close()
		if err := (report.Markdown{}).Write(f, q, w, results); err != nil {
			fatalf("write report: %v", err)
		}
		fmt.Fprintf(os.Stderr, "report written to %s\n", *output)
	}
}

func parseWeights(s string) (query.Weights, error) {
	m := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		name, raw, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return query.Weights{}, fmt.Errorf("expected name=value, got %q", pair)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query.Weights{}, fmt.Errorf("weight for %q: %w", name, err)
		}
		m[name] = v
	}
	return query.NewWeights(m)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "casefind: "+format+"\n", args...)
	os.Exit(1)
}
