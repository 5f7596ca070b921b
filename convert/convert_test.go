// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type celsius float64

func TestClassifiers(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNumber(1))
	assert.True(t, IsNumber(uint16(1)))
	assert.True(t, IsNumber(celsius(1)))
	assert.False(t, IsNumber("1"))
	assert.False(t, IsNumber(Char('1')))
	assert.False(t, IsNumber(nil))

	assert.True(t, IsFloat(float32(1)))
	assert.True(t, IsFloat(celsius(1)))
	assert.False(t, IsFloat(1))

	assert.True(t, IsString(Char('a')))
	assert.True(t, IsString(""))
	assert.False(t, IsString(nil))

	assert.True(t, IsBool(false))
	assert.False(t, IsBool("false"))

	assert.True(t, LooksFloat("1.5"))
	assert.True(t, LooksFloat("1e3"))
	assert.False(t, LooksFloat("15"))
}

func TestToString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{Char('c'), "c"},
		{true, "true"},
		{42, "42"},
		{int64(-7), "-7"},
		{2.5, "2.5"},
		{float32(0.1), "0.1"},
		{errors.New("boom"), "boom"},
		{[]int{1, 2}, "[1 2]"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToString(tt.in))
	}
}

func TestToNumbers(t *testing.T) {
	t.Parallel()

	n, err := ToInt64(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	n, err = ToInt64(nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = ToInt64(uint32(9))
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)

	_, err = ToInt64("1.5")
	assert.ErrorIs(t, err, ErrConversion)

	_, err = ToInt64(struct{}{})
	assert.ErrorIs(t, err, ErrConversion)

	f, err := ToFloat64("2.5f")
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	f, err = ToFloat64(Char('7'))
	require.NoError(t, err)
	assert.Equal(t, 7.0, f)

	_, err = ToFloat64("seven")
	assert.ErrorIs(t, err, ErrConversion)
}

func TestToBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      any
		want    bool
		wantErr bool
	}{
		{nil, false, false},
		{true, true, false},
		{"true", true, false},
		{"FALSE", false, false},
		{1, true, false},
		{0.0, false, false},
		{"maybe", false, true},
		{struct{}{}, false, true},
	}

	for _, tt := range tests {
		got, err := ToBool(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrConversion)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	var nilPtr *int
	tests := []struct {
		name       string
		in         any
		truthy     bool
		truthyText bool
	}{
		{"nil", nil, false, false},
		{"false", false, false, false},
		{"zero", 0, false, false},
		{"zero float", 0.0, false, false},
		{"number", 3, true, true},
		{"empty string", "", false, false},
		{"text", "no", true, false},
		{"yes", "yes", true, true},
		{"true text", "true", true, true},
		{"empty slice", []int{}, false, false},
		{"slice", []int{1}, true, true},
		{"empty map", map[string]int{}, false, false},
		{"nil pointer", nilPtr, false, false},
		{"struct", struct{}{}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.truthy, Truthy(tt.in))
			assert.Equal(t, tt.truthyText, TruthyString(tt.in))
		})
	}
}

func TestTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		to   reflect.Type
		want any
	}{
		{"assignable", "x", reflect.TypeOf(""), "x"},
		{"char to string", Char('x'), reflect.TypeOf(""), "x"},
		{"string to char", "x", reflect.TypeOf(Char(0)), Char('x')},
		{"int64 to int", int64(3), reflect.TypeOf(0), 3},
		{"string to int", "3", reflect.TypeOf(int32(0)), int32(3)},
		{"int to float", 3, reflect.TypeOf(0.0), 3.0},
		{"int to uint", 3, reflect.TypeOf(uint8(0)), uint8(3)},
		{"number to string", 2.5, reflect.TypeOf(""), "2.5"},
		{"string to bool", "true", reflect.TypeOf(false), true},
		{"named float", 1.5, reflect.TypeOf(celsius(0)), celsius(1.5)},
		{"nil to pointer", nil, reflect.TypeOf((*int)(nil)), (*int)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, err := To(tt.in, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Interface())
		})
	}
}

func TestTo_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		to   reflect.Type
	}{
		{"nil to int", nil, reflect.TypeOf(0)},
		{"float to int", 1.5, reflect.TypeOf(0)},
		{"overflow", 300, reflect.TypeOf(int8(0))},
		{"negative to uint", -1, reflect.TypeOf(uint(0))},
		{"long string to char", "ab", reflect.TypeOf(Char(0))},
		{"struct to string", struct{}{}, reflect.TypeOf("")},
		{"slice to int", []int{1}, reflect.TypeOf(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := To(tt.in, tt.to)
			assert.ErrorIs(t, err, ErrConversion)
		})
	}
}
