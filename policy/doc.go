// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package policy defines the security policy consulted by the parser before it
builds a method call or static member access.

A policy is a table of denied (type, method) pairs. The type is a qualified
static type name such as "lang.System", a namespace wildcard such as
"lang.*", or "*" which also matches instance method calls whose receiver is
only known at evaluation time. The method is a member name or "*".

With friendly_only set, static access is additionally limited to types
registered as friendly.

# Built-in policies

  - default: denies process and garbage collector control on lang.System and
    everything on lang.Runtime
  - strict: the default rules plus friendly_only
  - none: allows everything

# Policy files

Policies can be loaded from YAML or JSON and are validated against an
embedded JSON schema:

	name: custom
	friendly_only: false
	deny:
	  - type: lang.System
	    method: "*"
	  - type: "*"
	    method: kill
*/
package policy
