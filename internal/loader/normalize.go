package loader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SplitList splits a comma- or pipe-separated field into trimmed, non-empty
// items. "Sci-Fi|Action" and "Sci-Fi, Action" yield the same list.
func SplitList(raw string) []string {
	sep := ","
	if strings.Contains(raw, "|") {
		sep = "|"
	}
	parts := strings.Split(raw, sep)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		items = append(items, p)
	}
	return items
}

// ParseNumber parses a float accepting a decimal comma ("8,7" -> 8.7),
// which legacy exports use.
func ParseNumber(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return v, nil
}

var (
	hoursMinutesRe = regexp.MustCompile(`(?i)^(\d+)\s*h(?:\s*(\d+)\s*m(?:in)?)?$`)
	minutesRe      = regexp.MustCompile(`(?i)^(\d+)\s*m(?:in(?:utes)?)?$`)
)

// ParseRuntimeMinutes parses a runtime as minutes. Accepts a bare number
// ("135"), a minute suffix ("135 min"), or an hour form ("2h 15m").
func ParseRuntimeMinutes(raw string) (float64, error) {
	s := strings.TrimSpace(raw)

	if m := hoursMinutesRe.FindStringSubmatch(s); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes := 0
		if m[2] != "" {
			minutes, _ = strconv.Atoi(m[2])
		}
		return float64(hours*60 + minutes), nil
	}
	if m := minutesRe.FindStringSubmatch(s); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		return float64(minutes), nil
	}
	return ParseNumber(s)
}

// CanonicalRating uppercases a rating and collapses internal whitespace to a
// hyphen: "pg 13" -> "PG-13".
func CanonicalRating(raw string) string {
	fields := strings.Fields(raw)
	return strings.ToUpper(strings.Join(fields, "-"))
}

// CanonicalBool maps yes/no spellings (including legacy Portuguese data) to
// "yes"/"no". Unrecognized input is passed through lowercased.
func CanonicalBool(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "sim", "s":
		return "yes"
	case "no", "n", "false", "não", "nao":
		return "no"
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}
