// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/stacklok/toolhive-el/env"
)

// Environment variables read by WithEnv.
const (
	LevelEnvVar  = "TOOLHIVE_EL_LOG_LEVEL"
	FormatEnvVar = "TOOLHIVE_EL_LOG_FORMAT"
)

// Format represents the log output format.
type Format int

const (
	// FormatJSON produces JSON-formatted log output using [log/slog.JSONHandler].
	// This is the default format.
	FormatJSON Format = iota

	// FormatText produces key=value output using [log/slog.TextHandler].
	FormatText
)

// ParseFormat parses "json" or "text". The empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	default:
		return FormatJSON, fmt.Errorf("unknown log format %q", s)
	}
}

// ParseLevel parses a level name such as "debug" or "WARN".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

type config struct {
	format Format
	level  slog.Leveler
	output io.Writer
}

// Option configures the logger created by [New].
type Option func(*config)

// WithFormat sets the output format (JSON or Text).
func WithFormat(f Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithLevel sets the minimum log level. Pass a [*log/slog.LevelVar] to
// change the level at runtime.
func WithLevel(l slog.Leveler) Option {
	return func(c *config) {
		c.level = l
	}
}

// WithOutput sets the destination writer for log output.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}

// WithEnv reads the level and format from TOOLHIVE_EL_LOG_LEVEL and
// TOOLHIVE_EL_LOG_FORMAT. Unset or invalid values leave the current
// setting unchanged.
func WithEnv(r env.Reader) Option {
	return func(c *config) {
		if v := r.Getenv(LevelEnvVar); v != "" {
			if l, err := ParseLevel(v); err == nil {
				c.level = l
			}
		}
		if v := r.Getenv(FormatEnvVar); v != "" {
			if f, err := ParseFormat(v); err == nil {
				c.format = f
			}
		}
	}
}

// NewHandler creates the handler behind [New], for callers that wrap it.
//
// Defaults:
//   - Format: JSON ([FormatJSON])
//   - Level: INFO ([log/slog.LevelInfo])
//   - Output: [os.Stderr]
//   - Timestamps: [time.RFC3339]
func NewHandler(opts ...Option) slog.Handler {
	cfg := &config{
		format: FormatJSON,
		level:  slog.LevelInfo,
		output: os.Stderr,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       cfg.level,
		ReplaceAttr: replaceAttr,
	}
	if cfg.format == FormatText {
		return slog.NewTextHandler(cfg.output, handlerOpts)
	}
	return slog.NewJSONHandler(cfg.output, handlerOpts)
}

// New creates a [*log/slog.Logger] with the package defaults.
func New(opts ...Option) *slog.Logger {
	return slog.New(NewHandler(opts...))
}

// replaceAttr formats the time attribute to RFC3339.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(time.RFC3339))
		}
	}
	return a
}
