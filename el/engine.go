// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package el

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/stacklok/toolhive-el/env"
	"github.com/stacklok/toolhive-el/eval"
	"github.com/stacklok/toolhive-el/logging"
	"github.com/stacklok/toolhive-el/parser"
	"github.com/stacklok/toolhive-el/policy"
)

// DefaultMaxExpressionLength is the maximum allowed length for an expression
// or template.
const DefaultMaxExpressionLength = 10000

// Engine compiles expressions and templates against a parse context and
// caches the results by source. It is safe for concurrent use from
// multiple goroutines.
type Engine struct {
	ctx                 *parser.Context
	logger              *slog.Logger
	expressions         *lruCache[*CompiledExpression]
	composites          *lruCache[*CompiledComposite]
	maxExpressionLength int
	strict              bool
	messages            eval.Messages
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	parent              *parser.Context
	policy              *policy.Policy
	logger              *slog.Logger
	cacheSize           int
	maxExpressionLength int
	strict              bool
	imports             []string
	messages            eval.Messages
}

// WithLogger sets the logger used for compilation diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = l
	}
}

// WithParseContext sets the parent of the engine's parse context. The
// default parent is DefaultContext.
func WithParseContext(ctx *parser.Context) Option {
	return func(c *engineConfig) {
		c.parent = ctx
	}
}

// WithPolicy sets the security policy applied when compiling.
func WithPolicy(p *policy.Policy) Option {
	return func(c *engineConfig) {
		c.policy = p
	}
}

// WithCacheSize sets how many compiled expressions and templates are kept.
func WithCacheSize(n int) Option {
	return func(c *engineConfig) {
		c.cacheSize = n
	}
}

// WithMaxExpressionLength sets the maximum allowed length for expressions.
// Expressions exceeding this length are rejected during compilation.
func WithMaxExpressionLength(n int) Option {
	return func(c *engineConfig) {
		c.maxExpressionLength = n
	}
}

// WithStrict makes evaluation through the engine fail on unresolved
// identifiers.
func WithStrict(strict bool) Option {
	return func(c *engineConfig) {
		c.strict = strict
	}
}

// WithImports adds namespaces searched for unqualified type names.
func WithImports(namespaces ...string) Option {
	return func(c *engineConfig) {
		c.imports = append(c.imports, namespaces...)
	}
}

// WithMessages sets the message provider for contexts built by the engine.
func WithMessages(m eval.Messages) Option {
	return func(c *engineConfig) {
		c.messages = m
	}
}

// NewEngine creates an engine. Functions and types registered on
// Context() are visible to expressions compiled afterwards.
func NewEngine(opts ...Option) *Engine {
	cfg := &engineConfig{
		parent:              DefaultContext(),
		cacheSize:           DefaultCacheSize,
		maxExpressionLength: DefaultMaxExpressionLength,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.New(logging.WithEnv(&env.OSReader{}))
	}

	ctxOpts := []parser.Option{parser.WithImports(cfg.imports...)}
	if cfg.policy != nil {
		ctxOpts = append(ctxOpts, parser.WithPolicy(cfg.policy))
	}

	return &Engine{
		ctx:                 cfg.parent.NewChild(ctxOpts...),
		logger:              cfg.logger,
		expressions:         newLRUCache[*CompiledExpression](cfg.cacheSize),
		composites:          newLRUCache[*CompiledComposite](cfg.cacheSize),
		maxExpressionLength: cfg.maxExpressionLength,
		strict:              cfg.strict,
		messages:            cfg.messages,
	}
}

// Context returns the engine's parse context. Cached compilations are not
// re-checked when the context changes; use SetPolicy to swap the policy, or
// call ClearCache after changing the context directly.
func (e *Engine) Context() *parser.Context {
	return e.ctx
}

// SetPolicy replaces the security policy and drops every cached
// compilation, so expressions are checked again under p.
func (e *Engine) SetPolicy(p *policy.Policy) {
	e.ctx.SetPolicy(p)
	e.ClearCache()
	if p != nil {
		e.logger.Info("security policy changed", "policy", p.Name)
	}
}

// NewEvalContext creates an evaluation context carrying the engine's
// strict mode and message provider.
func (e *Engine) NewEvalContext(root any, vars map[string]any) *eval.Context {
	opts := []eval.Option{eval.WithStrict(e.strict)}
	if e.messages != nil {
		opts = append(opts, eval.WithMessages(e.messages))
	}
	return eval.NewContext(root, vars, opts...)
}

func (e *Engine) checkLength(source string) error {
	if len(source) > e.maxExpressionLength {
		return fmt.Errorf("%w: expression length %d exceeds maximum of %d",
			ErrExpressionTooLong, len(source), e.maxExpressionLength)
	}
	return nil
}

// Compile parses an expression, returning a cached result when the same
// source was compiled before.
//
// Returns ErrExpressionTooLong if the expression exceeds the maximum
// length, a *parser.Error for syntax errors and a *parser.SecurityError
// for calls denied by the policy.
func (e *Engine) Compile(expr string) (*CompiledExpression, error) {
	if err := e.checkLength(expr); err != nil {
		return nil, err
	}
	if ce, ok := e.expressions.Get(expr); ok {
		return ce, nil
	}

	e.logger.Debug("compiling expression", "expression", expr)
	ce, err := Parse(expr, e.ctx)
	if err != nil {
		e.logRejected(expr, err)
		return nil, err
	}
	e.expressions.Set(expr, ce)
	return ce, nil
}

// CompileComposite parses a ${...} template, returning a cached result when
// the same source was compiled before.
func (e *Engine) CompileComposite(template string) (*CompiledComposite, error) {
	if err := e.checkLength(template); err != nil {
		return nil, err
	}
	if cc, ok := e.composites.Get(template); ok {
		return cc, nil
	}

	e.logger.Debug("compiling template", "template", template)
	cc, err := ParseComposite(template, e.ctx)
	if err != nil {
		e.logRejected(template, err)
		return nil, err
	}
	e.composites.Set(template, cc)
	return cc, nil
}

// Check verifies that an expression is valid without caching it. This is
// useful for configuration validation.
func (e *Engine) Check(expr string) error {
	if err := e.checkLength(expr); err != nil {
		return err
	}
	_, err := parser.Parse(expr, e.ctx)
	if err != nil {
		e.logRejected(expr, err)
	}
	return err
}

// CheckComposite verifies that a template is valid without caching it.
func (e *Engine) CheckComposite(template string) error {
	if err := e.checkLength(template); err != nil {
		return err
	}
	_, err := parser.ParseComposite(template, e.ctx)
	if err != nil {
		e.logRejected(template, err)
	}
	return err
}

// Evaluate compiles expr and evaluates it against root and vars.
func (e *Engine) Evaluate(expr string, root any, vars map[string]any) (any, error) {
	ce, err := e.Compile(expr)
	if err != nil {
		return nil, err
	}
	return ce.Evaluate(e.NewEvalContext(root, vars))
}

// Render compiles a template and renders it as a string against root and vars.
func (e *Engine) Render(template string, root any, vars map[string]any) (string, error) {
	cc, err := e.CompileComposite(template)
	if err != nil {
		return "", err
	}
	return cc.EvaluateString(e.NewEvalContext(root, vars))
}

// ClearCache drops all cached compilations.
func (e *Engine) ClearCache() {
	e.expressions.Clear()
	e.composites.Clear()
}

func (e *Engine) logRejected(source string, err error) {
	var secErr *parser.SecurityError
	if errors.As(err, &secErr) {
		e.logger.Warn("rejected unsafe expression",
			"expression", source, "type", secErr.TypeName, "member", secErr.Member)
		return
	}
	e.logger.Debug("expression failed to compile", "expression", source, "error", err)
}
