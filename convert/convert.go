// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrConversion is returned when a value cannot be converted to the requested type.
var ErrConversion = errors.New("conversion failed")

// Char is a single character value. It behaves like a one-character string
// in comparisons, concatenation and conversion.
type Char rune

func (c Char) String() string {
	return string(rune(c))
}

var charType = reflect.TypeOf(Char(0))

// IsNumber reports whether v is an integer or floating point value.
func IsNumber(v any) bool {
	switch v.(type) {
	case int, int64, int32, float64, float32:
		return true
	case nil, string, bool, Char:
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether v is a floating point value.
func IsFloat(v any) bool {
	switch v.(type) {
	case float64, float32:
		return true
	case nil:
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Float32 || k == reflect.Float64
}

// IsString reports whether v is a string or a Char.
func IsString(v any) bool {
	switch v.(type) {
	case string, Char:
		return true
	case nil:
		return false
	}
	return reflect.ValueOf(v).Kind() == reflect.String
}

// IsBool reports whether v is a boolean.
func IsBool(v any) bool {
	if _, ok := v.(bool); ok {
		return true
	}
	return v != nil && reflect.ValueOf(v).Kind() == reflect.Bool
}

// LooksFloat reports whether a numeric string must be parsed as floating point.
func LooksFloat(s string) bool {
	return strings.ContainsAny(s, ".eE")
}

// ToString converts v to its string form. Nil becomes the empty string.
func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case Char:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return fmt.Sprint(v)
}

// ToInt64 converts v to an int64. Nil converts to zero.
func ToInt64(v any) (int64, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(val), nil
	case int64:
		return val, nil
	case int32:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case float32:
		return int64(val), nil
	case string:
		return parseInt(val)
	case Char:
		return parseInt(val.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int64(rv.Uint()), nil //nolint:gosec // wraps like the host language would
	case reflect.Float32, reflect.Float64:
		return int64(rv.Float()), nil
	case reflect.String:
		return parseInt(rv.String())
	default:
		return 0, fmt.Errorf("%w: cannot convert %T to integer", ErrConversion, v)
	}
}

// ToFloat64 converts v to a float64. Nil converts to zero.
func ToFloat64(v any) (float64, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case string:
		return parseFloat(val)
	case Char:
		return parseFloat(val.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return parseFloat(rv.String())
	default:
		return 0, fmt.Errorf("%w: cannot convert %T to number", ErrConversion, v)
	}
}

// ToBool converts v to a boolean. Strings must spell a boolean; numbers are
// true when non-zero.
func ToBool(v any) (bool, error) {
	switch val := v.(type) {
	case nil:
		return false, nil
	case bool:
		return val, nil
	case string:
		return parseBool(val)
	case Char:
		return parseBool(val.String())
	}
	if IsBool(v) {
		return reflect.ValueOf(v).Bool(), nil
	}
	if IsNumber(v) {
		f, err := ToFloat64(v)
		return f != 0, err
	}
	if IsString(v) {
		return parseBool(reflect.ValueOf(v).String())
	}
	return false, fmt.Errorf("%w: cannot convert %T to boolean", ErrConversion, v)
}

// Truthy reports whether v counts as true in a condition: nil, false,
// numeric zero and empty strings, slices and maps are false.
func Truthy(v any) bool {
	return truthy(v, false)
}

// TruthyString is Truthy with strings interpreted as booleans ("true",
// "1", "yes" and "on" are true).
func TruthyString(v any) bool {
	return truthy(v, true)
}

func truthy(v any, stringAsBool bool) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	if IsNumber(v) {
		f, _ := ToFloat64(v)
		return f != 0
	}
	if stringAsBool && IsString(v) {
		switch strings.ToLower(strings.TrimSpace(ToString(v))) {
		case "true", "1", "yes", "y", "on":
			return true
		default:
			return false
		}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}

// To converts v to a value of type t, applying the same coercions as the
// evaluator. Nil converts to the zero value of pointer-like types only.
func To(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		default:
			return reflect.Value{}, fmt.Errorf("%w: cannot convert nil to %s", ErrConversion, t)
		}
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	if t == charType {
		s := ToString(v)
		if utf8.RuneCountInString(s) != 1 {
			return reflect.Value{}, fmt.Errorf("%w: %q is not a single character", ErrConversion, s)
		}
		r, _ := utf8.DecodeRuneInString(s)
		return reflect.ValueOf(Char(r)), nil
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		if !IsString(v) && !IsNumber(v) && !IsBool(v) {
			if _, ok := v.(fmt.Stringer); !ok {
				break
			}
		}
		out.SetString(ToString(v))
		return out, nil
	case reflect.Bool:
		b, err := ToBool(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(b)
		return out, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !IsNumber(v) && !IsString(v) {
			break
		}
		if IsFloat(v) {
			return reflect.Value{}, fmt.Errorf("%w: %v would lose precision as %s", ErrConversion, v, t)
		}
		n, err := ToInt64(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%w: %d overflows %s", ErrConversion, n, t)
		}
		out.SetInt(n)
		return out, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if !IsNumber(v) && !IsString(v) {
			break
		}
		n, err := ToInt64(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if n < 0 || out.OverflowUint(uint64(n)) {
			return reflect.Value{}, fmt.Errorf("%w: %d overflows %s", ErrConversion, n, t)
		}
		out.SetUint(uint64(n))
		return out, nil
	case reflect.Float32, reflect.Float64:
		if !IsNumber(v) && !IsString(v) {
			break
		}
		f, err := ToFloat64(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(f)
		return out, nil
	}

	if rv.Type().ConvertibleTo(t) && rv.Kind() == t.Kind() {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: cannot convert %T to %s", ErrConversion, v, t)
}

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrConversion, s)
	}
	return n, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "fFdD")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrConversion, s)
	}
	return f, nil
}

func parseBool(s string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a boolean", ErrConversion, s)
	}
	return b, nil
}
