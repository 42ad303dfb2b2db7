package dto

import (
	"fmt"
	"reflect"
)

type field struct {
	property string
	key      string
	nested   *Builder
	mapper   func(value any) any
}

// Builder is an ordered field specification.
//
// Builders are assembled with the Add* methods and then only read, so one
// builder may be shared by concurrent Build calls once assembled.
type Builder struct {
	fields []field
}

// NewBuilder returns an empty specification.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a field copied verbatim from the property of the same name.
func (b *Builder) Add(name string) *Builder {
	return b.AddAs(name, name)
}

// AddAs appends a field read from property and emitted under key.
func (b *Builder) AddAs(property, key string) *Builder {
	b.fields = append(b.fields, field{property: property, key: key})
	return b
}

// AddNested appends a field whose value is projected through nested. When
// the property holds a slice or array each element is projected. A nil
// pointer or a nil slice is stored as nil, like any other absent value.
func (b *Builder) AddNested(name string, nested *Builder) *Builder {
	if nested == nil {
		panic(fmt.Sprintf("dto: nil nested builder for %q", name))
	}
	b.fields = append(b.fields, field{property: name, key: name, nested: nested})
	return b
}

// AddFunc appends a field emitted under key whose value is fn applied to
// the property's value. fn receives nil when the property is absent.
func (b *Builder) AddFunc(property, key string, fn func(value any) any) *Builder {
	b.fields = append(b.fields, field{property: property, key: key, mapper: fn})
	return b
}

// Keys returns the output keys in declaration order.
func (b *Builder) Keys() []string {
	keys := make([]string, len(b.fields))
	for i, f := range b.fields {
		keys[i] = f.key
	}
	return keys
}

// Build projects a single source object. A nil source yields nil.
func (b *Builder) Build(source any) *Map {
	v, ok := indirect(reflect.ValueOf(source))
	if !ok {
		return nil
	}
	return b.build(v)
}

// BuildList projects every element of sources, which must be a slice or
// an array, preserving order.
func (b *Builder) BuildList(sources any) []*Map {
	v, ok := indirect(reflect.ValueOf(sources))
	if !ok {
		return []*Map{}
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		panic(fmt.Sprintf("dto: BuildList expects a slice or array, got %s", v.Type()))
	}
	return b.buildList(v)
}

func (b *Builder) build(v reflect.Value) *Map {
	out := newMap(len(b.fields))
	for _, f := range b.fields {
		raw := read(v, f.property)

		switch {
		case f.mapper != nil:
			out.set(f.key, f.mapper(scalar(raw)))
		case f.nested != nil:
			out.set(f.key, f.nested.project(raw))
		default:
			out.set(f.key, scalar(raw))
		}
	}
	return out
}

func (b *Builder) buildList(v reflect.Value) []*Map {
	out := make([]*Map, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem, ok := indirect(v.Index(i))
		if !ok {
			out = append(out, nil)
			continue
		}
		out = append(out, b.build(elem))
	}
	return out
}

// project applies b to a nested property value.
func (b *Builder) project(raw reflect.Value) any {
	v, ok := indirect(raw)
	if !ok {
		return nil
	}

	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		return b.buildList(v)
	case reflect.Array:
		return b.buildList(v)
	case reflect.Struct, reflect.Map:
		return b.build(v)
	default:
		panic(fmt.Sprintf("dto: cannot project %s through a nested builder", v.Type()))
	}
}
