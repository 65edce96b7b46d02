// Package loader reads movie cases from CSV and coerces raw fields into the
// typed values the retrieval core consumes. Malformed rows are skipped with a
// warning, never aborting the load.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cinecase/cinecase/internal/domain/casebase"
)

// Expected CSV columns. Only title is required; other columns are optional
// and a case simply lacks the attributes its row leaves blank.
const (
	colTitle   = "title"
	colGenres  = "genres"
	colYear    = "year"
	colRating  = "rating"
	colRuntime = "runtime_minutes"
	colScore   = "critic_score"
	colSequel  = "has_sequel"
)

// LoadCSV reads a case base from a CSV file.
func LoadCSV(path string, logger *zap.Logger) (casebase.Base, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return casebase.Base{}, fmt.Errorf("open case file: %w", err)
	}
	defer func() { _ = f.Close() }()

	base, err := ReadCSV(f, logger)
	if err != nil {
		return casebase.Base{}, fmt.Errorf("read %s: %w", path, err)
	}
	return base, nil
}

// ReadCSV reads a case base from CSV data with a header row.
func ReadCSV(r io.Reader, logger *zap.Logger) (casebase.Base, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return casebase.Base{}, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols[colTitle]; !ok {
		return casebase.Base{}, fmt.Errorf("missing required column %q", colTitle)
	}

	var records []casebase.Record
	line := 1
	for {
		line++
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("skipping malformed row", zap.Int("line", line), zap.Error(err))
			continue
		}

		rec, err := recordFromRow(cols, row)
		if err != nil {
			logger.Warn("skipping row",
				zap.Int("line", line),
				zap.String("title", cell(cols, row, colTitle)),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}

	logger.Info("case base loaded", zap.Int("cases", len(records)))
	return casebase.NewBase(records), nil
}

func recordFromRow(cols map[string]int, row []string) (casebase.Record, error) {
	title := cell(cols, row, colTitle)
	if title == "" {
		return casebase.Record{}, fmt.Errorf("empty title")
	}

	attrs := make(map[string]casebase.Value)

	if raw := cell(cols, row, colGenres); raw != "" {
		attrs[colGenres] = casebase.List(SplitList(raw)...)
	}
	if raw := cell(cols, row, colYear); raw != "" {
		year, err := ParseNumber(raw)
		if err != nil {
			return casebase.Record{}, fmt.Errorf("year: %w", err)
		}
		attrs[colYear] = casebase.Number(year)
	}
	if raw := cell(cols, row, colRating); raw != "" {
		attrs[colRating] = casebase.Text(CanonicalRating(raw))
	}
	if raw := cell(cols, row, colRuntime); raw != "" {
		minutes, err := ParseRuntimeMinutes(raw)
		if err != nil {
			return casebase.Record{}, fmt.Errorf("runtime_minutes: %w", err)
		}
		attrs[colRuntime] = casebase.Number(minutes)
	}
	if raw := cell(cols, row, colScore); raw != "" {
		score, err := ParseNumber(raw)
		if err != nil {
			return casebase.Record{}, fmt.Errorf("critic_score: %w", err)
		}
		attrs[colScore] = casebase.Number(score)
	}
	if raw := cell(cols, row, colSequel); raw != "" {
		attrs[colSequel] = casebase.Text(CanonicalBool(raw))
	}

	return casebase.NewRecord(title, attrs), nil
}

func cell(cols map[string]int, row []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
