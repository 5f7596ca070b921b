// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/stacklok/toolhive-el/member"
	"github.com/stacklok/toolhive-el/recovery"
)

// ErrArity is returned when a function is called with the wrong number of arguments.
var ErrArity = errors.New("wrong number of arguments")

// Env is the view of the evaluation context given to native functions.
type Env interface {
	// Root returns the root object of the evaluation.
	Root() any
	// Variable looks up a variable through the context chain.
	Variable(name string) (any, bool)
}

// Func is the implementation of a native function.
type Func func(env Env, args []any) (any, error)

// Function describes a native function callable from expressions.
type Function struct {
	Name    string
	MinArgs int
	// MaxArgs is -1 for variadic functions.
	MaxArgs int
	Fn      Func
}

// NewFunction describes a function taking exactly arity arguments.
func NewFunction(name string, arity int, fn Func) *Function {
	return &Function{Name: name, MinArgs: arity, MaxArgs: arity, Fn: fn}
}

// NewVariadicFunction describes a function taking at least minArgs arguments.
func NewVariadicFunction(name string, minArgs int, fn Func) *Function {
	return &Function{Name: name, MinArgs: minArgs, MaxArgs: -1, Fn: fn}
}

// WrapFunc describes an ordinary Go function. Arguments are converted to
// the parameter types the same way method arguments are.
func WrapFunc(name string, fn any) (*Function, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("function %s: expected a func, got %T", name, fn)
	}

	ft := fv.Type()
	f := &Function{Name: name, MinArgs: ft.NumIn(), MaxArgs: ft.NumIn()}
	if ft.IsVariadic() {
		f.MinArgs--
		f.MaxArgs = -1
	}
	candidates := []reflect.Value{fv}
	f.Fn = func(_ Env, args []any) (any, error) {
		return member.CallBest(candidates, name, args)
	}
	return f, nil
}

// Accepts reports whether the function can be called with n arguments.
func (f *Function) Accepts(n int) bool {
	return n >= f.MinArgs && (f.MaxArgs < 0 || n <= f.MaxArgs)
}

// Call checks the argument count and invokes the function. Panics are
// returned as errors.
func (f *Function) Call(env Env, args []any) (out any, err error) {
	if !f.Accepts(len(args)) {
		return nil, fmt.Errorf("%w: %s expects %s, got %d", ErrArity, f.Name, f.arityString(), len(args))
	}
	err = recovery.Do(func() error {
		var callErr error
		out, callErr = f.Fn(env, args)
		return callErr
	})
	return out, err
}

func (f *Function) arityString() string {
	switch {
	case f.MaxArgs < 0:
		return fmt.Sprintf("at least %d", f.MinArgs)
	case f.MinArgs == f.MaxArgs:
		return fmt.Sprintf("%d", f.MinArgs)
	default:
		return fmt.Sprintf("%d to %d", f.MinArgs, f.MaxArgs)
	}
}
