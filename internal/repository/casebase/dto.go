package casebase

import (
	"fmt"
	"strconv"
	"strings"

	domcase "github.com/cinecase/cinecase/internal/domain/casebase"
)

// Hash layout: the reserved "title" field holds the case title; every
// attribute is stored under "a:<name>" with a one-letter type prefix.
const (
	titleField = "title"
	attrPrefix = "a:"

	numberTag = "n:"
	textTag   = "t:"
	listTag   = "l:"
)

// listSep separates list items inside a hash field. Unit separator cannot
// appear in normalized genre text.
const listSep = "\x1f"

func recordToHash(rec domcase.Record) map[string]string {
	fields := map[string]string{titleField: rec.Title()}
	for _, name := range rec.AttributeNames() {
		v, _ := rec.Attribute(name)
		fields[attrPrefix+name] = encodeValue(v)
	}
	return fields
}

func recordFromHash(h map[string]string) (domcase.Record, error) {
	title, ok := h[titleField]
	if !ok {
		return domcase.Record{}, fmt.Errorf("missing title field")
	}

	attrs := make(map[string]domcase.Value, len(h)-1)
	for field, raw := range h {
		if !strings.HasPrefix(field, attrPrefix) {
			continue
		}
		name := field[len(attrPrefix):]
		v, err := decodeValue(raw)
		if err != nil {
			return domcase.Record{}, fmt.Errorf("attribute %q: %w", name, err)
		}
		attrs[name] = v
	}
	return domcase.NewRecord(title, attrs), nil
}

func encodeValue(v domcase.Value) string {
	switch v.Kind() {
	case domcase.KindNumber:
		n, _ := v.Number()
		return numberTag + strconv.FormatFloat(n, 'f', -1, 64)
	case domcase.KindList:
		return listTag + strings.Join(v.List(), listSep)
	default:
		s, _ := v.Scalar()
		return textTag + s
	}
}

func decodeValue(raw string) (domcase.Value, error) {
	switch {
	case strings.HasPrefix(raw, numberTag):
		n, err := strconv.ParseFloat(raw[len(numberTag):], 64)
		if err != nil {
			return domcase.Value{}, fmt.Errorf("bad number %q", raw)
		}
		return domcase.Number(n), nil
	case strings.HasPrefix(raw, textTag):
		return domcase.Text(raw[len(textTag):]), nil
	case strings.HasPrefix(raw, listTag):
		body := raw[len(listTag):]
		if body == "" {
			return domcase.List(), nil
		}
		return domcase.List(strings.Split(body, listSep)...), nil
	default:
		return domcase.Value{}, fmt.Errorf("unknown value encoding %q", raw)
	}
}
