package cinecase

import (
	"fmt"
	"reflect"
	"strings"

	sdk "github.com/cinecase/cinecase/pkg/sdk"
)

const tagKey = "cinecase"

// caseMeta holds parsed struct tag metadata, cached per Catalog.
type caseMeta struct {
	typ      reflect.Type // struct type for reconstruction
	titleIdx int
	attrs    []attrMapping
}

type attrMapping struct {
	structIdx int
	name      string
}

// parseMeta reflects on T and extracts cinecase struct tag metadata.
// Exactly one string field must carry the "title" role; every other tagged
// field names a similarity attribute.
func parseMeta[T any]() (*caseMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cinecase: type %v is not a struct", t)
	}

	meta := &caseMeta{typ: t, titleIdx: -1}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.TrimSpace(tag)

		if name == "title" {
			if f.Type.Kind() != reflect.String {
				return nil, fmt.Errorf("cinecase: title field %s must be a string", f.Name)
			}
			if meta.titleIdx >= 0 {
				return nil, fmt.Errorf("cinecase: duplicate title field %s", f.Name)
			}
			meta.titleIdx = i
			continue
		}

		if !supportedFieldType(f.Type) {
			return nil, fmt.Errorf("cinecase: field %s has unsupported type %s", f.Name, f.Type)
		}
		meta.attrs = append(meta.attrs, attrMapping{structIdx: i, name: name})
	}

	if meta.titleIdx < 0 {
		return nil, fmt.Errorf(`cinecase: %s needs a string field tagged cinecase:"title"`, t)
	}
	return meta, nil
}

func supportedFieldType(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float64, reflect.Int, reflect.String, reflect.Bool:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.String
	default:
		return false
	}
}

// toCase converts a typed item into an SDK case. Zero-valued non-pointer
// fields and nil pointers are treated as absent.
func (m *caseMeta) toCase(item any) sdk.Case {
	v := reflect.ValueOf(item)
	c := sdk.Case{
		Title:      v.Field(m.titleIdx).String(),
		Attributes: m.toAttributes(v),
	}
	return c
}

// toAttributes extracts the probe attributes of v. Pointer fields carry an
// explicit presence bit; value fields are absent when zero.
func (m *caseMeta) toAttributes(v reflect.Value) map[string]any {
	attrs := make(map[string]any, len(m.attrs))
	for _, am := range m.attrs {
		fv := v.Field(am.structIdx)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		} else if fv.IsZero() {
			continue
		}
		attrs[am.name] = fieldValue(fv)
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func fieldValue(fv reflect.Value) any {
	switch fv.Kind() {
	case reflect.Float64:
		return fv.Float()
	case reflect.Int:
		return int(fv.Int())
	case reflect.Bool:
		return fv.Bool()
	case reflect.Slice:
		items := make([]string, fv.Len())
		for i := 0; i < fv.Len(); i++ {
			items[i] = fv.Index(i).String()
		}
		return items
	default:
		return fv.String()
	}
}

// fromCase reconstructs a typed item from an SDK case.
func (m *caseMeta) fromCase(c sdk.Case) any {
	v := reflect.New(m.typ).Elem()
	v.Field(m.titleIdx).SetString(c.Title)

	for _, am := range m.attrs {
		raw, ok := c.Attributes[am.name]
		if !ok {
			continue
		}
		fv := v.Field(am.structIdx)
		if fv.Kind() == reflect.Pointer {
			p := reflect.New(fv.Type().Elem())
			if setField(p.Elem(), raw) {
				fv.Set(p)
			}
			continue
		}
		setField(fv, raw)
	}
	return v.Interface()
}

func setField(fv reflect.Value, raw any) bool {
	switch fv.Kind() {
	case reflect.Float64:
		n, ok := raw.(float64)
		if !ok {
			return false
		}
		fv.SetFloat(n)
	case reflect.Int:
		n, ok := raw.(float64)
		if !ok {
			return false
		}
		fv.SetInt(int64(n))
	case reflect.Bool:
		s, ok := raw.(string)
		if !ok {
			return false
		}
		fv.SetBool(s == "yes")
	case reflect.Slice:
		items, ok := raw.([]string)
		if !ok {
			return false
		}
		fv.Set(reflect.ValueOf(items))
	case reflect.String:
		s, ok := raw.(string)
		if !ok {
			return false
		}
		fv.SetString(s)
	default:
		return false
	}
	return true
}
