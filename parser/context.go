// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"
	"slices"
	"sync"

	"github.com/stacklok/toolhive-el/ast"
	"github.com/stacklok/toolhive-el/member"
	"github.com/stacklok/toolhive-el/policy"
	"github.com/stacklok/toolhive-el/validation/name"
)

var defaultPolicy = policy.BuiltinDefaultPolicy()

// FunctionResolver resolves functions lazily when they are not registered.
type FunctionResolver func(name string) (*ast.Function, bool)

// Context supplies functions, static types, imports and the security
// policy while parsing. Lookups that miss fall back to the parent context.
// A Context is safe for concurrent use.
type Context struct {
	mu        sync.RWMutex
	parent    *Context
	functions map[string]*ast.Function
	resolver  FunctionResolver
	imports   []string
	types     *member.Registry
	variables map[string]any
	policy    *policy.Policy
}

// Option configures a Context created by NewContext.
type Option func(*Context)

// WithPolicy sets the security policy. Contexts without a policy use their
// parent's, and a root context without one uses the built-in default.
func WithPolicy(p *policy.Policy) Option {
	return func(c *Context) {
		c.policy = p
	}
}

// WithTypes sets the registry used to resolve T(Name) references.
func WithTypes(r *member.Registry) Option {
	return func(c *Context) {
		c.types = r
	}
}

// WithImports sets the namespaces searched for unqualified type names.
func WithImports(namespaces ...string) Option {
	return func(c *Context) {
		c.imports = append(c.imports, namespaces...)
	}
}

// WithFunctionResolver sets a fallback for functions that are not registered.
func WithFunctionResolver(r FunctionResolver) Option {
	return func(c *Context) {
		c.resolver = r
	}
}

// WithParentContext sets the parent context.
func WithParentContext(parent *Context) Option {
	return func(c *Context) {
		c.parent = parent
	}
}

// NewContext creates a parse context.
func NewContext(opts ...Option) *Context {
	c := &Context{
		functions: map[string]*ast.Function{},
		variables: map[string]any{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewChild creates an empty context whose lookups fall back to c.
func (c *Context) NewChild(opts ...Option) *Context {
	return NewContext(append([]Option{WithParentContext(c)}, opts...)...)
}

// WithParent sets the parent of c and returns c.
func (c *Context) WithParent(parent *Context) *Context {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.parent = parent
	return c
}

// Parent returns the parent context, or nil.
func (c *Context) Parent() *Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.parent
}

// RegisterFunction registers fn under name. Names may carry a prefix, as
// in "str:format", which expressions call as str:format(...).
func (c *Context) RegisterFunction(fnName string, fn *ast.Function) error {
	if err := name.ValidateFunction(fnName); err != nil {
		return err
	}
	if fn == nil || fn.Fn == nil {
		return fmt.Errorf("function %s has no implementation", fnName)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.functions[fnName] = fn
	return nil
}

// ImportNamespace adds a namespace searched for unqualified type names.
func (c *Context) ImportNamespace(ns string) error {
	if err := name.ValidateNamespace(ns); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.Contains(c.imports, ns) {
		c.imports = append(c.imports, ns)
	}
	return nil
}

// RegisterType registers a static type, creating the context's registry on
// first use.
func (c *Context) RegisterType(t *member.Type) error {
	if err := name.ValidateTypeName(t.Name); err != nil {
		return err
	}

	c.mu.Lock()
	if c.types == nil {
		c.types = member.NewRegistry()
	}
	types := c.types
	c.mu.Unlock()

	return types.Register(t)
}

// SetVariable defines a variable whose value is substituted into
// expressions at parse time.
func (c *Context) SetVariable(varName string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.variables[varName] = value
}

// Function returns the function registered under name in c or its parents,
// consulting function resolvers along the chain.
func (c *Context) Function(fnName string) (*ast.Function, bool) {
	for ctx := c; ctx != nil; ctx = ctx.Parent() {
		ctx.mu.RLock()
		fn, ok := ctx.functions[fnName]
		resolver := ctx.resolver
		ctx.mu.RUnlock()

		if ok {
			return fn, true
		}
		if resolver != nil {
			if fn, ok := resolver(fnName); ok {
				return fn, true
			}
		}
	}
	return nil, false
}

// Variable returns the parse-time variable name from c or its parents.
func (c *Context) Variable(varName string) (any, bool) {
	for ctx := c; ctx != nil; ctx = ctx.Parent() {
		ctx.mu.RLock()
		v, ok := ctx.variables[varName]
		ctx.mu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// Imports returns the imported namespaces of c followed by its parents'.
func (c *Context) Imports() []string {
	var imports []string
	for ctx := c; ctx != nil; ctx = ctx.Parent() {
		ctx.mu.RLock()
		for _, ns := range ctx.imports {
			if !slices.Contains(imports, ns) {
				imports = append(imports, ns)
			}
		}
		ctx.mu.RUnlock()
	}
	return imports
}

// ResolveType resolves a type name as written, then relative to each
// imported namespace.
func (c *Context) ResolveType(typeName string) (*member.Type, bool) {
	if t, ok := c.lookupType(typeName); ok {
		return t, true
	}
	for _, ns := range c.Imports() {
		if t, ok := c.lookupType(ns + "." + typeName); ok {
			return t, true
		}
	}
	return nil, false
}

func (c *Context) lookupType(qualified string) (*member.Type, bool) {
	for ctx := c; ctx != nil; ctx = ctx.Parent() {
		ctx.mu.RLock()
		types := ctx.types
		ctx.mu.RUnlock()
		if types == nil {
			continue
		}
		if t, ok := types.Lookup(qualified); ok {
			return t, true
		}
	}
	return nil, false
}

// Policy returns the nearest policy in the chain, or the built-in default.
func (c *Context) Policy() *policy.Policy {
	for ctx := c; ctx != nil; ctx = ctx.Parent() {
		ctx.mu.RLock()
		p := ctx.policy
		ctx.mu.RUnlock()
		if p != nil {
			return p
		}
	}
	return defaultPolicy
}

// SetPolicy replaces the security policy of c.
func (c *Context) SetPolicy(p *policy.Policy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy = p
}
