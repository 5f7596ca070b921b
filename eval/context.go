// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package eval

import (
	"errors"
	"maps"
	"reflect"

	"github.com/stacklok/toolhive-el/convert"
	"github.com/stacklok/toolhive-el/member"
)

// Converter converts evaluated values to Go types.
type Converter interface {
	Convert(v any, t reflect.Type) (reflect.Value, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(v any, t reflect.Type) (reflect.Value, error)

// Convert implements Converter.
func (f ConverterFunc) Convert(v any, t reflect.Type) (reflect.Value, error) {
	return f(v, t)
}

// DefaultConverter applies the same coercions as the evaluator.
var DefaultConverter Converter = ConverterFunc(convert.To)

// Context is the environment an expression is evaluated against. It is
// not safe for concurrent use; create one per evaluation.
type Context struct {
	root      any
	vars      map[string]any
	parent    *Context
	converter Converter
	messages  Messages
	strict    bool
}

// Option configures a Context.
type Option func(*Context)

// WithStrict makes unresolved identifiers fail with ErrUndefinedVariable
// instead of evaluating to nil.
func WithStrict(strict bool) Option {
	return func(c *Context) {
		c.strict = strict
	}
}

// WithMessages sets the message provider available to functions.
func WithMessages(m Messages) Option {
	return func(c *Context) {
		c.messages = m
	}
}

// WithConverter replaces the conversion service.
func WithConverter(conv Converter) Option {
	return func(c *Context) {
		c.converter = conv
	}
}

// WithParentContext sets the context that lookups fall back to.
func WithParentContext(parent *Context) Option {
	return func(c *Context) {
		c.parent = parent
	}
}

// NewContext creates a context with a root object and variables. Either
// may be nil. The variable map is copied.
func NewContext(root any, vars map[string]any, opts ...Option) *Context {
	c := &Context{
		root: root,
		vars: maps.Clone(vars),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RootContext creates a context whose identifiers resolve against root.
func RootContext(root any, opts ...Option) *Context {
	return NewContext(root, nil, opts...)
}

// VarsContext creates a context holding only variables.
func VarsContext(vars map[string]any, opts ...Option) *Context {
	return NewContext(nil, vars, opts...)
}

// WithParent sets the parent of c and returns c.
func (c *Context) WithParent(parent *Context) *Context {
	c.parent = parent
	return c
}

// Parent returns the parent context, or nil.
func (c *Context) Parent() *Context {
	return c.parent
}

// Set defines a variable in c.
func (c *Context) Set(name string, value any) {
	if c.vars == nil {
		c.vars = map[string]any{}
	}
	c.vars[name] = value
}

// Root returns the nearest root object in the chain.
func (c *Context) Root() any {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.root != nil {
			return ctx.root
		}
	}
	return nil
}

// Variable looks name up in the variables of c and its parents.
func (c *Context) Variable(name string) (any, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if v, ok := ctx.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Strict reports whether c or any of its parents is strict.
func (c *Context) Strict() bool {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.strict {
			return true
		}
	}
	return false
}

// Convert converts v to t with the nearest converter in the chain.
func (c *Context) Convert(v any, t reflect.Type) (reflect.Value, error) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.converter != nil {
			return ctx.converter.Convert(v, t)
		}
	}
	return DefaultConverter.Convert(v, t)
}

// Message renders key through the nearest message provider that knows it.
// Unknown keys render as the key itself.
func (c *Context) Message(key string, args ...any) string {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.messages == nil {
			continue
		}
		if msg, ok := ctx.messages.Message(key, args...); ok {
			return msg
		}
	}
	return key
}

// resolve looks up an identifier: variables first, then a property of
// the root object.
func (c *Context) resolve(name string) (any, bool, error) {
	if v, ok := c.Variable(name); ok {
		return v, true, nil
	}

	root := c.Root()
	if root == nil {
		return nil, false, nil
	}
	if m, ok := root.(map[string]any); ok {
		v, found := m[name]
		return v, found, nil
	}
	v, err := member.Property(root, name)
	if errors.Is(err, member.ErrNoSuchField) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}
