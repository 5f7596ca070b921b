// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/toolhive-el/env/mocks"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(WithOutput(&buf))

	logger.Debug("filtered")
	assert.Empty(t, buf.String())

	logger.Info("compiled", "expr", "a + b")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "compiled", entry["msg"])
	assert.Equal(t, "a + b", entry["expr"])

	ts, ok := entry["time"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []Option
		log      func(*slog.Logger)
		contains []string
		empty    bool
	}{
		{
			name:     "text format",
			opts:     []Option{WithFormat(FormatText)},
			log:      func(l *slog.Logger) { l.Info("rendered", "segments", 2) },
			contains: []string{"level=INFO", "msg=rendered", "segments=2"},
		},
		{
			name:     "debug level",
			opts:     []Option{WithLevel(slog.LevelDebug)},
			log:      func(l *slog.Logger) { l.Debug("cache miss") },
			contains: []string{`"level":"DEBUG"`, `"msg":"cache miss"`},
		},
		{
			name:  "warn level filters info",
			opts:  []Option{WithLevel(slog.LevelWarn)},
			log:   func(l *slog.Logger) { l.Info("ignored") },
			empty: true,
		},
		{
			name:     "last format wins",
			opts:     []Option{WithFormat(FormatText), WithFormat(FormatJSON)},
			log:      func(l *slog.Logger) { l.Warn("unsafe") },
			contains: []string{`"level":"WARN"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			tt.log(New(append(tt.opts, WithOutput(&buf))...))
			if tt.empty {
				assert.Empty(t, buf.String())
				return
			}
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestNew_DynamicLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := New(WithOutput(&buf), WithLevel(level))

	logger.Info("first")
	assert.Empty(t, buf.String())

	level.Set(slog.LevelInfo)
	logger.Info("second")
	assert.Contains(t, buf.String(), "second")
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	var fromNew, fromHandler bytes.Buffer
	New(WithOutput(&fromNew), WithFormat(FormatText)).Info("same")
	slog.New(NewHandler(WithOutput(&fromHandler), WithFormat(FormatText))).Info("same")

	// Timestamps may differ by a second; compare everything after them.
	trim := func(s string) string { return s[strings.Index(s, "level="):] }
	assert.Equal(t, trim(fromNew.String()), trim(fromHandler.String()))

	h := NewHandler(WithLevel(slog.LevelError))
	assert.False(t, h.Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, h.Enabled(t.Context(), slog.LevelError))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("Text")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("xml")
	assert.ErrorContains(t, err, "unknown log format")
}

func TestWithEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		level    string
		format   string
		debug    bool
		wantText bool
	}{
		{name: "unset keeps defaults"},
		{name: "debug text", level: "debug", format: "text", debug: true, wantText: true},
		{name: "invalid values ignored", level: "chatty", format: "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			reader := mocks.NewMockReader(ctrl)
			reader.EXPECT().Getenv(LevelEnvVar).Return(tt.level)
			reader.EXPECT().Getenv(FormatEnvVar).Return(tt.format)

			var buf bytes.Buffer
			logger := New(WithOutput(&buf), WithEnv(reader))
			logger.Debug("debug enabled")
			logger.Info("visible")

			out := buf.String()
			assert.Equal(t, tt.debug, strings.Contains(out, "debug enabled"))
			assert.Equal(t, tt.wantText, strings.Contains(out, "msg=visible"))
		})
	}
}

func TestReplaceAttr(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	got := replaceAttr(nil, slog.Time(slog.TimeKey, ts))
	assert.Equal(t, "2026-03-01T12:30:00Z", got.Value.String())

	other := slog.String("expr", "x")
	assert.Equal(t, other, replaceAttr(nil, other))
}
