// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/toolhive-el/member"
)

// Built-in policy names
const (
	// PolicyDefault denies the built-in unsafe members
	PolicyDefault = "default"
	// PolicyStrict denies the built-in unsafe members and non-friendly types
	PolicyStrict = "strict"
	// PolicyNone allows everything
	PolicyNone = "none"
)

// Wildcard matches any type or any method.
const Wildcard = "*"

// Rule denies calls to Method on Type.
type Rule struct {
	// Type is a qualified type name, a namespace wildcard ("lang.*") or "*"
	Type string `json:"type" yaml:"type"`

	// Method is a member name or "*"
	Method string `json:"method" yaml:"method"`
}

// Policy is a security policy for expressions
type Policy struct {
	// Name is the name of the policy
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// FriendlyOnly limits static access to types marked friendly
	FriendlyOnly bool `json:"friendly_only,omitempty" yaml:"friendly_only,omitempty"`

	// Deny is the list of denied members
	Deny []Rule `json:"deny,omitempty" yaml:"deny,omitempty"`
}

func defaultRules() []Rule {
	return []Rule{
		{Type: "lang.System", Method: "gc"},
		{Type: "lang.System", Method: "exit"},
		{Type: "lang.System", Method: "getenv"},
		{Type: "lang.System", Method: "setenv"},
		{Type: "lang.Runtime", Method: Wildcard},
		{Type: Wildcard, Method: "kill"},
		{Type: Wildcard, Method: "signal"},
	}
}

// BuiltinDefaultPolicy returns the built-in default policy
func BuiltinDefaultPolicy() *Policy {
	return &Policy{
		Name: PolicyDefault,
		Deny: defaultRules(),
	}
}

// BuiltinStrictPolicy returns the built-in strict policy
func BuiltinStrictPolicy() *Policy {
	return &Policy{
		Name:         PolicyStrict,
		FriendlyOnly: true,
		Deny:         defaultRules(),
	}
}

// BuiltinNonePolicy returns the built-in policy that allows everything
func BuiltinNonePolicy() *Policy {
	return &Policy{
		Name: PolicyNone,
		Deny: []Rule{},
	}
}

// Builtin returns the built-in policy with the given name
func Builtin(name string) (*Policy, error) {
	switch name {
	case PolicyDefault, "":
		return BuiltinDefaultPolicy(), nil
	case PolicyStrict:
		return BuiltinStrictPolicy(), nil
	case PolicyNone:
		return BuiltinNonePolicy(), nil
	default:
		return nil, fmt.Errorf("unknown built-in policy %q", name)
	}
}

// FromFile loads and validates a policy from a YAML or JSON file
func FromFile(path string) (*Policy, error) {
	// #nosec G304 - This is intentional as we're reading a user-specified policy
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy: %w", err)
	}
	return Parse(data)
}

// Parse validates a YAML or JSON policy document against the policy schema
// and decodes it
func Parse(data []byte) (*Policy, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse policy: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse policy: %w", err)
	}
	return &p, nil
}

// AllowsStatic reports whether name may be accessed on the static type t
func (p *Policy) AllowsStatic(t *member.Type, name string) bool {
	if p == nil {
		return true
	}
	if p.FriendlyOnly && !t.Friendly {
		return false
	}
	return !p.denied(t.Name, name)
}

// AllowsMethod reports whether an instance method may be called when the
// receiver type is not known until evaluation. Only rules with a "*" type
// apply.
func (p *Policy) AllowsMethod(name string) bool {
	if p == nil {
		return true
	}
	for _, r := range p.Deny {
		if r.Type == Wildcard && matchMethod(r.Method, name) {
			return false
		}
	}
	return true
}

func (p *Policy) denied(typeName, method string) bool {
	for _, r := range p.Deny {
		if matchType(r.Type, typeName) && matchMethod(r.Method, method) {
			return true
		}
	}
	return false
}

func matchType(pattern, typeName string) bool {
	if pattern == Wildcard || pattern == typeName {
		return true
	}
	if ns, ok := strings.CutSuffix(pattern, ".*"); ok {
		return strings.HasPrefix(typeName, ns+".")
	}
	return false
}

// matchMethod ignores the case of the first letter, since "kill" and "Kill"
// reach the same Go method.
func matchMethod(pattern, method string) bool {
	return pattern == Wildcard || upperFirst(pattern) == upperFirst(method)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
