// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package el

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/toolhive-el/env"
	"github.com/stacklok/toolhive-el/eval"
	"github.com/stacklok/toolhive-el/policy"
	"github.com/stacklok/toolhive-el/validation/name"
)

const (
	// ConfigEnvVar names a configuration file that overrides the XDG search.
	ConfigEnvVar = "TOOLHIVE_EL_CONFIG"

	// StrictEnvVar overrides the strict setting of the loaded configuration.
	StrictEnvVar = "TOOLHIVE_EL_STRICT"

	// ConfigRelPath is the configuration path relative to the XDG config
	// directories.
	ConfigRelPath = "toolhive-el/config.yaml"
)

// Config is the engine configuration file.
type Config struct {
	// Imports are namespaces searched for unqualified type names, in
	// addition to the built-in lang namespace.
	Imports []string `yaml:"imports,omitempty"`

	// Strict makes unresolved identifiers an evaluation error.
	Strict bool `yaml:"strict,omitempty"`

	// CacheSize is the number of compiled expressions kept.
	CacheSize int `yaml:"cacheSize,omitempty"`

	// MaxExpressionLength bounds the length of accepted expressions.
	MaxExpressionLength int `yaml:"maxExpressionLength,omitempty"`

	// Policy selects the security policy.
	Policy PolicyConfig `yaml:"policy,omitempty"`

	// Messages are format strings rendered by the msg function.
	Messages map[string]string `yaml:"messages,omitempty"`
}

// PolicyConfig selects a built-in policy or a policy file, optionally
// adding rules.
type PolicyConfig struct {
	// Builtin names a built-in policy. Empty selects the default policy.
	Builtin      string        `yaml:"builtin,omitempty"`
	File         string        `yaml:"file,omitempty"`
	FriendlyOnly bool          `yaml:"friendly_only,omitempty"`
	Deny         []policy.Rule `yaml:"deny,omitempty"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		CacheSize:           DefaultCacheSize,
		MaxExpressionLength: DefaultMaxExpressionLength,
	}
}

// LoadConfig reads and validates a configuration file.
func LoadConfig(path string) (*Config, error) {
	// #nosec G304 - This is intentional as we're reading a user-specified config
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML configuration document. Unknown
// keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFromEnv loads the file named by TOOLHIVE_EL_CONFIG, or else the
// first toolhive-el/config.yaml in the XDG config directories, or else the
// defaults. TOOLHIVE_EL_STRICT overrides the strict setting.
func LoadConfigFromEnv(envReader env.Reader) (*Config, error) {
	path := envReader.Getenv(ConfigEnvVar)
	if path == "" {
		if found, err := xdg.SearchConfigFile(ConfigRelPath); err == nil {
			path = found
		}
	}

	cfg := DefaultConfig()
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v := envReader.Getenv(StrictEnvVar); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", StrictEnvVar, v, err)
		}
		cfg.Strict = strict
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.CacheSize < 0 {
		return fmt.Errorf("cacheSize must not be negative, got %d", c.CacheSize)
	}
	if c.MaxExpressionLength < 0 {
		return fmt.Errorf("maxExpressionLength must not be negative, got %d", c.MaxExpressionLength)
	}
	for _, ns := range c.Imports {
		if err := name.ValidateNamespace(ns); err != nil {
			return fmt.Errorf("invalid import: %w", err)
		}
	}
	if c.Policy.Builtin != "" && c.Policy.File != "" {
		return errors.New("policy.builtin and policy.file are mutually exclusive")
	}
	if _, err := c.Policy.Resolve(); err != nil {
		return err
	}
	return nil
}

// Resolve builds the configured policy.
func (pc PolicyConfig) Resolve() (*policy.Policy, error) {
	var (
		p   *policy.Policy
		err error
	)
	if pc.File != "" {
		p, err = policy.FromFile(pc.File)
	} else {
		p, err = policy.Builtin(pc.Builtin)
	}
	if err != nil {
		return nil, err
	}

	p.FriendlyOnly = p.FriendlyOnly || pc.FriendlyOnly
	p.Deny = append(p.Deny, pc.Deny...)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Options converts the configuration to engine options.
func (c *Config) Options() ([]Option, error) {
	p, err := c.Policy.Resolve()
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithPolicy(p),
		WithStrict(c.Strict),
		WithImports(c.Imports...),
	}
	if c.CacheSize > 0 {
		opts = append(opts, WithCacheSize(c.CacheSize))
	}
	if c.MaxExpressionLength > 0 {
		opts = append(opts, WithMaxExpressionLength(c.MaxExpressionLength))
	}
	if len(c.Messages) > 0 {
		opts = append(opts, WithMessages(eval.MessageMap(c.Messages)))
	}
	return opts, nil
}

// NewEngineFromConfig creates an engine from cfg. Additional options are
// applied after the configured ones.
func NewEngineFromConfig(cfg *Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfgOpts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return NewEngine(append(cfgOpts, opts...)...), nil
}
