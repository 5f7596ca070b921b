// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package name provides validation functions for the names that embedders
register with the expression engine.

# Function Names

Function names are identifiers, optionally qualified with a prefix:

	if err := name.ValidateFunction("str:format"); err != nil {
		// Handle invalid function name
	}

Valid function names must:
  - Be non-empty
  - Start with a letter, '_' or '$'
  - Contain only letters, digits, '_' and '$'
  - Contain at most one ':' separating a prefix from the name

# Namespaces

Namespaces are dot separated identifiers such as "lang" or "app.util":

	if err := name.ValidateNamespace("app.util"); err != nil {
		// Handle invalid namespace
	}

# Examples

Valid names:

	"isEmpty"
	"fn:size"
	"$ctx"

Invalid names:

	""            // empty
	"9lives"      // leading digit
	"a:b:c"       // more than one prefix
	"has space"   // whitespace
*/
package name
