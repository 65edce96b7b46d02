package casebase

import "sort"

// Record is one recorded case: a movie title plus typed attribute values.
// Records are immutable once constructed; an attribute may be absent.
type Record struct {
	title string
	attrs map[string]Value
}

// NewRecord creates a Record. The attrs map is copied; absent-kind values
// are dropped so presence can be read off the map alone.
func NewRecord(title string, attrs map[string]Value) Record {
	m := make(map[string]Value, len(attrs))
	for name, v := range attrs {
		if v.IsAbsent() {
			continue
		}
		m[name] = v
	}
	return Record{title: title, attrs: m}
}

// Title returns the case title. The title is identity, not a scored attribute.
func (r Record) Title() string { return r.title }

// Attribute looks up an attribute value. ok is false when the record does not
// carry the attribute.
func (r Record) Attribute(name string) (Value, bool) {
	v, ok := r.attrs[name]
	return v, ok
}

// AttributeNames returns the record's attribute names in sorted order.
func (r Record) AttributeNames() []string {
	names := make([]string, 0, len(r.attrs))
	for name := range r.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
