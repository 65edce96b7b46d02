package casebase

import "strconv"

// ValueKind tags the representation of an attribute value.
type ValueKind string

// Value kind constants. The zero Value has kind KindAbsent.
const (
	KindAbsent ValueKind = ""
	KindNumber ValueKind = "number"
	KindText   ValueKind = "text"
	KindList   ValueKind = "list"
)

// Value is a typed attribute value: a number, a text scalar, or a string list.
// The zero Value represents an absent attribute.
type Value struct {
	kind ValueKind
	num  float64
	text string
	list []string
}

// Number creates a numeric Value.
func Number(v float64) Value { return Value{kind: KindNumber, num: v} }

// Text creates a text Value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// List creates a list Value. The items slice is copied.
func List(items ...string) Value {
	vals := make([]string, len(items))
	copy(vals, items)
	return Value{kind: KindList, list: vals}
}

// Kind returns the value's representation tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsAbsent reports whether the value represents a missing attribute.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Number returns the numeric payload; ok is false for non-numeric values.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// List returns the list payload, nil for non-list values.
func (v Value) List() []string {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Scalar returns the scalar payload as text: the text itself, or a number
// formatted without a trailing ".0". ok is false for absent and list values.
func (v Value) Scalar() (string, bool) {
	switch v.kind {
	case KindText:
		return v.text, true
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Equal reports typed equality: kinds must match and payloads must be equal
// (element-wise and in order for lists).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}
