// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package member

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stacklok/toolhive-el/convert"
)

// Resolver reads properties and indexed elements from one shape of value.
type Resolver interface {
	// Property returns the named property of target. The boolean is false
	// when the property does not exist.
	Property(target reflect.Value, name string) (any, bool, error)

	// Index returns the element of target at key, or nil when absent.
	Index(target reflect.Value, key any) (any, error)
}

var (
	maps    Resolver = mapResolver{}
	slices  Resolver = sliceResolver{}
	structs Resolver = structResolver{}
	strs    Resolver = stringResolver{}
)

// resolverFor picks the resolver for the shape of v. v must be dereferenced.
func resolverFor(v reflect.Value) (Resolver, bool) {
	switch v.Kind() {
	case reflect.Map:
		return maps, true
	case reflect.Slice, reflect.Array:
		return slices, true
	case reflect.Struct:
		return structs, true
	case reflect.String:
		return strs, true
	default:
		return nil, false
	}
}

// Property returns the named property of target. A nil target yields nil.
func Property(target any, name string) (any, error) {
	if target == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(target)
	// Getter methods may be declared on the pointer receiver.
	if v, ok, err := getter(rv, name); ok || err != nil {
		return v, err
	}

	rv = indirect(rv)
	if !rv.IsValid() {
		return nil, nil
	}
	if r, ok := resolverFor(rv); ok {
		v, found, err := r.Property(rv, name)
		if err != nil || found {
			return v, err
		}
		if rv.Kind() == reflect.Map {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("%w: %q on %T", ErrNoSuchField, name, target)
}

// Index returns the element of target at key. A nil target, an out of
// range index or an absent map key yields nil.
func Index(target any, key any) (any, error) {
	if target == nil {
		return nil, nil
	}

	rv := indirect(reflect.ValueOf(target))
	if !rv.IsValid() {
		return nil, nil
	}
	r, ok := resolverFor(rv)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotIndexable, target)
	}
	return r.Index(rv, key)
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

type mapResolver struct{}

func (mapResolver) Property(target reflect.Value, name string) (any, bool, error) {
	key, err := convert.To(name, target.Type().Key())
	if err != nil || !key.Comparable() {
		return nil, false, nil
	}
	v := target.MapIndex(key)
	if !v.IsValid() {
		return nil, false, nil
	}
	return v.Interface(), true, nil
}

func (mapResolver) Index(target reflect.Value, key any) (any, error) {
	k, err := convert.To(key, target.Type().Key())
	if err != nil || !k.Comparable() {
		// A key that cannot exist in the map is simply absent.
		return nil, nil
	}
	v := target.MapIndex(k)
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}

type sliceResolver struct{}

func (sliceResolver) Property(reflect.Value, string) (any, bool, error) {
	return nil, false, nil
}

func (sliceResolver) Index(target reflect.Value, key any) (any, error) {
	i, err := convert.ToInt64(key)
	if err != nil {
		return nil, fmt.Errorf("invalid index %v: %w", key, err)
	}
	if i < 0 || i >= int64(target.Len()) {
		return nil, nil
	}
	return target.Index(int(i)).Interface(), nil
}

type stringResolver struct{}

func (stringResolver) Property(reflect.Value, string) (any, bool, error) {
	return nil, false, nil
}

func (stringResolver) Index(target reflect.Value, key any) (any, error) {
	i, err := convert.ToInt64(key)
	if err != nil {
		return nil, fmt.Errorf("invalid index %v: %w", key, err)
	}
	runes := []rune(target.String())
	if i < 0 || i >= int64(len(runes)) {
		return nil, nil
	}
	return convert.Char(runes[i]), nil
}

type structResolver struct{}

func (structResolver) Property(target reflect.Value, name string) (any, bool, error) {
	f, ok := fieldByName(target.Type(), name)
	if !ok {
		return nil, false, nil
	}
	return target.FieldByIndex(f.Index).Interface(), true, nil
}

func (r structResolver) Index(target reflect.Value, key any) (any, error) {
	name := convert.ToString(key)
	v, ok, err := r.Property(target, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrNoSuchField, name, target.Type())
	}
	return v, nil
}

func fieldByName(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tagName(f.Tag.Get("el")) == name || tagName(f.Tag.Get("json")) == name {
			return f, true
		}
	}
	f, ok := t.FieldByName(exportedName(name))
	return f, ok && f.IsExported()
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// getter calls a no-argument accessor method named after the property.
func getter(v reflect.Value, name string) (any, bool, error) {
	base := exportedName(name)
	for _, candidate := range []string{base, "Get" + base, "Is" + base} {
		m := v.MethodByName(candidate)
		if !m.IsValid() || m.Type().NumIn() != 0 || m.Type().NumOut() == 0 {
			continue
		}
		out, err := call(m, nil)
		return out, true, err
	}
	return nil, false, nil
}

// exportedName maps an expression member name to a Go identifier.
func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
