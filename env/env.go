// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package env

//go:generate mockgen -source=env.go -destination=mocks/mock_reader.go -package=mocks Reader

import "os"

// Reader defines an interface for environment variable access
type Reader interface {
	Getenv(key string) string
}

// OSReader implements Reader using the standard os package
type OSReader struct{}

// Getenv returns the value of the environment variable named by the key
func (*OSReader) Getenv(key string) string {
	return os.Getenv(key)
}

// MapReader is a Reader over a fixed set of values. Keys that are absent
// read as empty, like unset variables.
type MapReader map[string]string

// Getenv returns the value stored under key.
func (m MapReader) Getenv(key string) string {
	return m[key]
}

// Chain returns a Reader that consults readers in order and returns the
// first non-empty value.
func Chain(readers ...Reader) Reader {
	return chain(readers)
}

type chain []Reader

func (c chain) Getenv(key string) string {
	for _, r := range c {
		if v := r.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
