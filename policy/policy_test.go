// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-el/member"
)

func TestBuiltinPolicies(t *testing.T) {
	t.Parallel()

	system := member.NewType("lang.System")
	runtime := member.NewType("lang.Runtime")
	strs := member.NewType("lang.Strings").AsFriendly()

	tests := []struct {
		name   string
		policy *Policy
		typ    *member.Type
		method string
		want   bool
	}{
		{"default denies gc", BuiltinDefaultPolicy(), system, "gc", false},
		{"default denies exit", BuiltinDefaultPolicy(), system, "exit", false},
		{"default allows currentTimeMillis", BuiltinDefaultPolicy(), system, "currentTimeMillis", true},
		{"default denies whole runtime", BuiltinDefaultPolicy(), runtime, "anything", false},
		{"default allows friendly", BuiltinDefaultPolicy(), strs, "isEmpty", true},
		{"strict denies unfriendly", BuiltinStrictPolicy(), system, "currentTimeMillis", false},
		{"strict allows friendly", BuiltinStrictPolicy(), strs, "isEmpty", true},
		{"none allows gc", BuiltinNonePolicy(), system, "gc", true},
		{"nil policy allows", nil, system, "gc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.policy.AllowsStatic(tt.typ, tt.method))
		})
	}
}

func TestAllowsMethod(t *testing.T) {
	t.Parallel()

	p := BuiltinDefaultPolicy()
	assert.False(t, p.AllowsMethod("kill"))
	assert.False(t, p.AllowsMethod("signal"))
	assert.False(t, p.AllowsMethod("Kill"), "first letter case reaches the same Go method")
	assert.True(t, p.AllowsMethod("KILL"))
	assert.True(t, p.AllowsMethod("gc"), "type-specific rules do not apply to instance calls")
	assert.True(t, p.AllowsMethod("toUpper"))

	var nilPolicy *Policy
	assert.True(t, nilPolicy.AllowsMethod("kill"))
}

func TestAllowsStatic_FirstLetterCase(t *testing.T) {
	t.Parallel()

	p := BuiltinDefaultPolicy()
	sys := member.NewType("lang.System")
	assert.False(t, p.AllowsStatic(sys, "Exit"))
	assert.False(t, p.AllowsStatic(sys, "exit"))
	assert.True(t, p.AllowsStatic(sys, "nanoTime"))
}

func TestNamespaceWildcard(t *testing.T) {
	t.Parallel()

	p := &Policy{Deny: []Rule{{Type: "os.*", Method: Wildcard}}}
	assert.False(t, p.AllowsStatic(member.NewType("os.Process"), "start"))
	assert.False(t, p.AllowsStatic(member.NewType("os.exec.Cmd"), "run"))
	assert.True(t, p.AllowsStatic(member.NewType("osx.Process"), "start"))
}

func TestBuiltin(t *testing.T) {
	t.Parallel()

	for _, name := range []string{PolicyDefault, PolicyStrict, PolicyNone} {
		p, err := Builtin(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name)
		assert.NoError(t, p.Validate())
	}

	p, err := Builtin("")
	require.NoError(t, err)
	assert.Equal(t, PolicyDefault, p.Name)

	_, err = Builtin("bogus")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr string
		check   func(t *testing.T, p *Policy)
	}{
		{
			name: "yaml",
			doc: `
name: custom
friendly_only: true
deny:
  - type: lang.System
    method: "*"
`,
			check: func(t *testing.T, p *Policy) {
				t.Helper()
				assert.Equal(t, "custom", p.Name)
				assert.True(t, p.FriendlyOnly)
				assert.Equal(t, []Rule{{Type: "lang.System", Method: "*"}}, p.Deny)
			},
		},
		{
			name: "json",
			doc:  `{"name": "j", "deny": [{"type": "*", "method": "kill"}]}`,
			check: func(t *testing.T, p *Policy) {
				t.Helper()
				assert.False(t, p.AllowsMethod("kill"))
			},
		},
		{
			name: "empty document",
			doc:  "",
			check: func(t *testing.T, p *Policy) {
				t.Helper()
				assert.Empty(t, p.Deny)
			},
		},
		{
			name:    "unknown property",
			doc:     "allow: []",
			wantErr: "policy schema validation failed",
		},
		{
			name:    "missing method",
			doc:     "deny:\n  - type: lang.System\n",
			wantErr: "method",
		},
		{
			name:    "bad method name",
			doc:     "deny:\n  - type: lang.System\n    method: 'g c'\n",
			wantErr: "policy schema validation failed",
		},
		{
			name:    "several errors",
			doc:     "name: BAD NAME\nfriendly_only: maybe\n",
			wantErr: "with 2 errors",
		},
		{
			name:    "not yaml",
			doc:     "deny: [",
			wantErr: "failed to parse policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Parse([]byte(tt.doc))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: file\ndeny:\n  - type: lang.Math\n    method: random\n"), 0o600))

	p, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file", p.Name)
	assert.False(t, p.AllowsStatic(member.NewType("lang.Math"), "random"))
	assert.True(t, p.AllowsStatic(member.NewType("lang.Math"), "max"))

	_, err = FromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
