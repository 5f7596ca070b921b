// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package member resolves property access, indexing and method calls on
dynamic values, and describes the static types that expressions reference
with T(Name).

All reflection used by the expression engine lives here. Callers use
[Property], [Index] and [Invoke] for instance access and [Type] for static
fields and functions.

# Properties

A property name resolves, in order, to a map key, an exported struct field
(matched by its capitalized name or by an `el` or `json` tag) or a getter
method (Name, GetName or IsName taking no arguments).

# Methods and overloads

Go has no method overloading. A method call on a value considers the
exported method with the capitalized name plus any candidates returned by
the value's ExpressionMethods method:

	func (g *Greeter) ExpressionMethods() map[string][]any {
		return map[string][]any{
			"greet": {g.GreetName, g.GreetNamed},
		}
	}

Candidates are tried with an exact match on the arguments' dynamic types
first, then assignability (interfaces), then value conversion.
*/
package member
