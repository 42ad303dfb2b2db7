package dto

import (
	"fmt"
	"go/token"
	"reflect"
	"strings"
	"sync"
)

// accessor reads one property from a struct value.
type accessor func(v reflect.Value) reflect.Value

type accessorKey struct {
	typ  reflect.Type
	name string
}

// accessors caches resolved accessors per (struct type, property name).
var accessors sync.Map

// lookup returns the accessor for name on struct type t, panicking when the
// type has no such property.
func lookup(t reflect.Type, name string) accessor {
	key := accessorKey{typ: t, name: name}
	if a, ok := accessors.Load(key); ok {
		return a.(accessor)
	}

	a := resolve(t, name)
	if a == nil {
		panic(fmt.Sprintf("dto: %s has no property %q", t, name))
	}

	actual, _ := accessors.LoadOrStore(key, a)
	return actual.(accessor)
}

func resolve(t reflect.Type, name string) accessor {
	f, ok := t.FieldByName(name)
	if !ok || !f.IsExported() {
		// unexported names are skipped so `id` cannot shadow `ID`
		f, ok = t.FieldByNameFunc(func(n string) bool {
			return token.IsExported(n) && strings.EqualFold(n, name)
		})
	}
	if ok && f.IsExported() {
		return fieldAccessor(f.Index)
	}

	return methodAccessor(t, name)
}

func fieldAccessor(index []int) accessor {
	return func(v reflect.Value) reflect.Value {
		fv, err := v.FieldByIndexErr(index)
		if err != nil {
			// nil embedded pointer on the path
			return reflect.Value{}
		}
		return fv
	}
}

// methodAccessor matches getters declared on either T or *T.
func methodAccessor(t reflect.Type, name string) accessor {
	pt := reflect.PointerTo(t)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if !strings.EqualFold(m.Name, name) {
			continue
		}
		// receiver counts as the first input
		if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
			continue
		}

		methodName := m.Name
		return func(v reflect.Value) reflect.Value {
			if !v.CanAddr() {
				p := reflect.New(t)
				p.Elem().Set(v)
				v = p.Elem()
			}
			return v.Addr().MethodByName(methodName).Call(nil)[0]
		}
	}
	return nil
}

// read returns the named property of a struct or string-keyed map value.
// Missing map keys read as invalid (absent) values.
func read(v reflect.Value, property string) reflect.Value {
	switch v.Kind() {
	case reflect.Struct:
		return lookup(v.Type(), property)(v)
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			panic(fmt.Sprintf("dto: cannot read property %q from %s", property, v.Type()))
		}
		return v.MapIndex(reflect.ValueOf(property).Convert(v.Type().Key()))
	default:
		panic(fmt.Sprintf("dto: cannot read property %q from %s", property, v.Type()))
	}
}

// indirect follows pointers and interfaces. It reports false when the chain
// ends in nil.
func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

// scalar unwraps a raw property value into something encoding/json can
// write directly.
func scalar(v reflect.Value) any {
	rv, ok := indirect(v)
	if !ok {
		return nil
	}
	return rv.Interface()
}
