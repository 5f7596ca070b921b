// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package member

import (
	"fmt"
	"reflect"

	"github.com/stacklok/toolhive-el/convert"
	"github.com/stacklok/toolhive-el/recovery"
)

// OverloadProvider is implemented by values that expose additional method
// candidates to expressions. Each entry maps an expression method name to
// bound Go functions.
type OverloadProvider interface {
	ExpressionMethods() map[string][]any
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Invoke calls the method name on target with args, choosing among the
// candidate overloads by the arguments' dynamic types.
func Invoke(target any, name string, args []any) (any, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilTarget, name)
	}

	candidates := methodCandidates(reflect.ValueOf(target), name)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s on %T", ErrNoSuchMethod, name, target)
	}
	return CallBest(candidates, name, args)
}

func methodCandidates(target reflect.Value, name string) []reflect.Value {
	var candidates []reflect.Value
	if p, ok := target.Interface().(OverloadProvider); ok {
		for _, fn := range p.ExpressionMethods()[name] {
			if fv := reflect.ValueOf(fn); fv.Kind() == reflect.Func {
				candidates = append(candidates, fv)
			}
		}
	}
	if m := target.MethodByName(exportedName(name)); m.IsValid() {
		candidates = append(candidates, m)
	}
	return candidates
}

type matchLevel int

const (
	matchExact matchLevel = iota
	matchAssignable
	matchConvertible
)

// CallBest selects the first candidate accepting args at the strictest
// possible match level and calls it. Candidates must be functions.
func CallBest(candidates []reflect.Value, name string, args []any) (any, error) {
	for _, level := range []matchLevel{matchExact, matchAssignable, matchConvertible} {
		for _, fn := range candidates {
			in, ok := bindArgs(fn.Type(), args, level)
			if ok {
				return call(fn, in)
			}
		}
	}
	return nil, fmt.Errorf("%w: no overload of %s accepts %s", ErrNoSuchMethod, name, describeArgs(args))
}

// bindArgs converts args to the parameter types of ft at the given level.
func bindArgs(ft reflect.Type, args []any, level matchLevel) ([]reflect.Value, bool) {
	n := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < n-1 {
			return nil, false
		}
	} else if len(args) != n {
		return nil, false
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if ft.IsVariadic() && i >= n-1 {
			pt = ft.In(n - 1).Elem()
		} else {
			pt = ft.In(i)
		}
		v, ok := bindArg(arg, pt, level)
		if !ok {
			return nil, false
		}
		in[i] = v
	}
	return in, true
}

func bindArg(arg any, pt reflect.Type, level matchLevel) (reflect.Value, bool) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(pt), true
		default:
			return reflect.Value{}, false
		}
	}

	at := reflect.TypeOf(arg)
	switch level {
	case matchExact:
		if at == pt {
			return reflect.ValueOf(arg), true
		}
	case matchAssignable:
		if at.AssignableTo(pt) {
			return reflect.ValueOf(arg), true
		}
	case matchConvertible:
		if v, err := convert.To(arg, pt); err == nil {
			return v, true
		}
	}
	return reflect.Value{}, false
}

// call invokes fn, recovering panics. A trailing error result is returned
// as the call's error.
func call(fn reflect.Value, in []reflect.Value) (any, error) {
	var out []reflect.Value
	err := recovery.Do(func() error {
		out = fn.Call(in)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvocation, err)
	}

	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, fmt.Errorf("%w: %w", ErrInvocation, out[n-1].Interface().(error))
		}
		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		values := make([]any, len(out))
		for i, v := range out {
			values[i] = v.Interface()
		}
		return values, nil
	}
}

func describeArgs(args []any) string {
	s := "("
	for i, a := range args {
		if i > 0 {
			s += ", "
		}
		if a == nil {
			s += "nil"
		} else {
			s += reflect.TypeOf(a).String()
		}
	}
	return s + ")"
}
