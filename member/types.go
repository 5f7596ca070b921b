// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package member

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// ErrDuplicateType is returned when a type name is registered twice.
var ErrDuplicateType = errors.New("type already registered")

// Type is a statically referenced type: the target of T(Name) in an
// expression. It holds named constants and functions.
type Type struct {
	// Name is the fully qualified name, for example "lang.Boolean".
	Name string

	// Friendly marks the type as safe for expressions when the security
	// policy only allows friendly types.
	Friendly bool

	fields  map[string]any
	methods map[string][]reflect.Value
}

// NewType creates an empty static type.
func NewType(name string) *Type {
	return &Type{
		Name:    name,
		fields:  map[string]any{},
		methods: map[string][]reflect.Value{},
	}
}

// WithField adds a constant to the type.
func (t *Type) WithField(name string, value any) *Type {
	t.fields[name] = value
	return t
}

// WithMethod adds one or more overloads of a static function to the type.
// It panics when fn is not a function, as registration happens at setup.
func (t *Type) WithMethod(name string, fns ...any) *Type {
	for _, fn := range fns {
		fv := reflect.ValueOf(fn)
		if fv.Kind() != reflect.Func {
			panic(fmt.Sprintf("member: %s.%s is not a function", t.Name, name))
		}
		t.methods[name] = append(t.methods[name], fv)
	}
	return t
}

// AsFriendly marks the type as friendly and returns it.
func (t *Type) AsFriendly() *Type {
	t.Friendly = true
	return t
}

// SimpleName returns the last segment of the qualified name.
func (t *Type) SimpleName() string {
	if i := strings.LastIndex(t.Name, "."); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// HasField reports whether the type declares the named constant.
func (t *Type) HasField(name string) bool {
	_, ok := t.fields[name]
	return ok
}

// HasMethod reports whether the type declares the named function.
func (t *Type) HasMethod(name string) bool {
	return len(t.methods[name]) > 0
}

// Field returns the value of the named constant.
func (t *Type) Field(name string) (any, error) {
	v, ok := t.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoSuchField, t.Name, name)
	}
	return v, nil
}

// Invoke calls the named function with args.
func (t *Type) Invoke(name string, args []any) (any, error) {
	candidates := t.methods[name]
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoSuchMethod, t.Name, name)
	}
	return CallBest(candidates, t.Name+"."+name, args)
}

// Registry maps qualified type names to types. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewRegistry creates a registry holding the given types.
func NewRegistry(types ...*Type) *Registry {
	r := &Registry{types: map[string]*Type{}}
	for _, t := range types {
		r.types[t.Name] = t
	}
	return r
}

// Register adds a type. Registering a second type under the same name fails.
func (r *Registry) Register(t *Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[t.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateType, t.Name)
	}
	r.types[t.Name] = t
	return nil
}

// Lookup returns the type with the qualified name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[name]
	return t, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
