// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package name provides validation functions for function and namespace names.
package name

import (
	"fmt"
	"regexp"
	"strings"
)

// maxLength bounds registered names.
const maxLength = 255

var (
	identRegex     = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{N}_$]*$`)
	namespaceRegex = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{N}_$]*(\.[\p{L}_$][\p{L}\p{N}_$]*)*$`)
)

// ValidateFunction validates a function name, which is an identifier
// optionally preceded by a "prefix:" qualifier.
func ValidateFunction(name string) error {
	if err := checkCommon("function", name); err != nil {
		return err
	}

	parts := strings.Split(name, ":")
	if len(parts) > 2 {
		return fmt.Errorf("function name can contain at most one prefix separator: %q", name)
	}
	for _, part := range parts {
		if !identRegex.MatchString(part) {
			return fmt.Errorf("function name must be an identifier or prefix:identifier: %q", name)
		}
	}
	return nil
}

// ValidateNamespace validates a dot separated namespace.
func ValidateNamespace(name string) error {
	if err := checkCommon("namespace", name); err != nil {
		return err
	}
	if !namespaceRegex.MatchString(name) {
		return fmt.Errorf("namespace must be dot separated identifiers: %q", name)
	}
	return nil
}

// ValidateTypeName validates a qualified static type name.
func ValidateTypeName(name string) error {
	if err := checkCommon("type", name); err != nil {
		return err
	}
	if !namespaceRegex.MatchString(name) {
		return fmt.Errorf("type name must be dot separated identifiers: %q", name)
	}
	return nil
}

func checkCommon(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s name cannot be empty or consist only of whitespace", kind)
	}

	// Check for null bytes explicitly
	if strings.Contains(name, "\x00") {
		return fmt.Errorf("%s name cannot contain null bytes", kind)
	}

	if len(name) > maxLength {
		return fmt.Errorf("%s name exceeds maximum length of %d", kind, maxLength)
	}
	return nil
}
