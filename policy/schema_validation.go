// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed data/policy.schema.json
var embeddedSchemaFS embed.FS

const schemaFile = "data/policy.schema.json"

// Validate validates the Policy against the policy schema.
func (p *Policy) Validate() error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize policy: %w", err)
	}
	return validateAgainstSchema(data)
}

func validateDocument(doc map[string]any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize policy: %w", err)
	}
	return validateAgainstSchema(data)
}

func validateAgainstSchema(data []byte) error {
	const errPrefix = "policy schema validation failed"

	schemaData, err := embeddedSchemaFS.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("failed to read embedded schema %s: %w", schemaFile, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaData),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errPrefix, err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return formatNumberedErrors(errPrefix, msgs)
}

// formatNumberedErrors formats a list of messages as a single error with a numbered list.
func formatNumberedErrors(prefix string, msgs []string) error {
	if len(msgs) == 1 {
		return fmt.Errorf("%s: %s", prefix, msgs[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s with %d errors:\n", prefix, len(msgs))
	for i, msg := range msgs {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, msg)
	}
	return errors.New(strings.TrimSuffix(b.String(), "\n"))
}
