// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package eval

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/stacklok/toolhive-el/ast"
	"github.com/stacklok/toolhive-el/convert"
)

// arithmetic applies +, -, *, / or % to already evaluated operands.
func arithmetic(op ast.Operator, l, r any) (any, error) {
	if op == ast.OpAdd && concatenates(l, r) {
		return convert.ToString(l) + convert.ToString(r), nil
	}

	if err := numericOperand(op, l); err != nil {
		return nil, err
	}
	if err := numericOperand(op, r); err != nil {
		return nil, err
	}

	if op == ast.OpDiv || isFloatOperand(l) || isFloatOperand(r) {
		return floatArithmetic(op, l, r)
	}
	return intArithmetic(op, l, r)
}

// concatenates reports whether + joins l and r as strings: a string operand
// concatenates unless the other operand is a number and the string parses
// as one.
func concatenates(l, r any) bool {
	ls, rs := convert.IsString(l), convert.IsString(r)
	switch {
	case !ls && !rs:
		return false
	case convert.IsNumber(l):
		return !isNumeric(r)
	case convert.IsNumber(r):
		return !isNumeric(l)
	default:
		return true
	}
}

func isNumeric(v any) bool {
	_, err := convert.ToFloat64(v)
	return err == nil
}

func numericOperand(op ast.Operator, v any) error {
	if v == nil || convert.IsNumber(v) || convert.IsString(v) {
		return nil
	}
	return fmt.Errorf("%w: operator %s cannot be applied to %T", ErrConversion, op, v)
}

// isFloatOperand reports whether v forces floating point arithmetic: a
// float, or a string that parses as a number but not as an integer, such as
// "1.5", "NaN" or "10f".
func isFloatOperand(v any) bool {
	if convert.IsFloat(v) {
		return true
	}
	if !convert.IsString(v) {
		return false
	}
	if _, err := convert.ToInt64(v); err == nil {
		return false
	}
	return isNumeric(v)
}

func floatArithmetic(op ast.Operator, l, r any) (any, error) {
	a, err := convert.ToFloat64(l)
	if err != nil {
		return nil, err
	}
	b, err := convert.ToFloat64(r)
	if err != nil {
		return nil, err
	}

	switch op {
	case ast.OpAdd:
		return a + b, nil
	case ast.OpSub:
		return a - b, nil
	case ast.OpMul:
		return a * b, nil
	case ast.OpDiv:
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		return a / b, nil
	case ast.OpMod:
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		return math.Mod(a, b), nil
	default:
		return nil, fmt.Errorf("unsupported arithmetic operator %s", op)
	}
}

func intArithmetic(op ast.Operator, l, r any) (any, error) {
	a, err := convert.ToInt64(l)
	if err != nil {
		return nil, err
	}
	b, err := convert.ToInt64(r)
	if err != nil {
		return nil, err
	}

	switch op {
	case ast.OpAdd:
		return a + b, nil
	case ast.OpSub:
		return a - b, nil
	case ast.OpMul:
		return a * b, nil
	case ast.OpMod:
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		return a % b, nil
	default:
		return nil, fmt.Errorf("unsupported arithmetic operator %s", op)
	}
}

// bitwise applies &, |, ^, << or >> to integer operands. Shift counts use
// their low six bits.
func bitwise(op ast.Operator, l, r any) (any, error) {
	a, err := integerOperand(op, l)
	if err != nil {
		return nil, err
	}
	b, err := integerOperand(op, r)
	if err != nil {
		return nil, err
	}

	switch op {
	case ast.OpBitAnd:
		return a & b, nil
	case ast.OpBitOr:
		return a | b, nil
	case ast.OpBitXor:
		return a ^ b, nil
	case ast.OpShl:
		return a << (b & 63), nil
	case ast.OpShr:
		return a >> (b & 63), nil
	default:
		return nil, fmt.Errorf("unsupported bitwise operator %s", op)
	}
}

func integerOperand(op ast.Operator, v any) (int64, error) {
	if err := numericOperand(op, v); err != nil {
		return 0, err
	}
	if isFloatOperand(v) {
		return 0, fmt.Errorf("%w: operator %s requires integers, got %v", ErrConversion, op, v)
	}
	return convert.ToInt64(v)
}

// negate implements unary minus. Integers stay integers.
func negate(v any) (any, error) {
	if err := numericOperand(ast.OpNeg, v); err != nil {
		return nil, err
	}
	if isFloatOperand(v) {
		f, err := convert.ToFloat64(v)
		if err != nil {
			return nil, err
		}
		return -f, nil
	}
	n, err := convert.ToInt64(v)
	if err != nil {
		return nil, err
	}
	return -n, nil
}

// plus implements unary plus: numbers are returned unchanged, strings and
// nil are coerced.
func plus(v any) (any, error) {
	if convert.IsNumber(v) {
		return v, nil
	}
	if err := numericOperand(ast.OpPlus, v); err != nil {
		return nil, err
	}
	if isFloatOperand(v) {
		return convert.ToFloat64(v)
	}
	return convert.ToInt64(v)
}

// numericPair reports whether l and r should be compared as numbers: both
// are numbers, or one is a number and the other a string.
func numericPair(l, r any) bool {
	ln, rn := convert.IsNumber(l), convert.IsNumber(r)
	return (ln && rn) || (ln && convert.IsString(r)) || (rn && convert.IsString(l))
}

// compareNumbers returns -1, 0 or 1.
func compareNumbers(l, r any) (int, error) {
	if isFloatOperand(l) || isFloatOperand(r) {
		a, err := convert.ToFloat64(l)
		if err != nil {
			return 0, err
		}
		b, err := convert.ToFloat64(r)
		if err != nil {
			return 0, err
		}
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		default:
			return 0, nil
		}
	}

	a, err := convert.ToInt64(l)
	if err != nil {
		return 0, err
	}
	b, err := convert.ToInt64(r)
	if err != nil {
		return 0, err
	}
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	default:
		return 0, nil
	}
}

// equal implements == with the language's coercions. Operands that cannot
// be coerced to a common type are unequal.
func equal(l, r any) bool {
	switch {
	case l == nil && r == nil:
		return true
	case l == nil || r == nil:
		return false
	case convert.IsBool(l) || convert.IsBool(r):
		a, errA := convert.ToBool(l)
		b, errB := convert.ToBool(r)
		return errA == nil && errB == nil && a == b
	case numericPair(l, r):
		c, err := compareNumbers(l, r)
		return err == nil && c == 0
	case convert.IsString(l) || convert.IsString(r):
		return convert.ToString(l) == convert.ToString(r)
	}

	// Struct types are comparable even when an interface field holds a slice.
	if reflect.ValueOf(l).Comparable() && reflect.ValueOf(r).Comparable() {
		return l == r
	}
	return reflect.DeepEqual(l, r)
}

// compare implements the relational operators.
func compare(op ast.Operator, l, r any) (bool, error) {
	if l == nil || r == nil {
		return l == nil && r == nil && (op == ast.OpLe || op == ast.OpGe), nil
	}

	var (
		c   int
		err error
	)
	switch {
	case numericPair(l, r):
		c, err = compareNumbers(l, r)
	case convert.IsString(l) && convert.IsString(r):
		c = strings.Compare(convert.ToString(l), convert.ToString(r))
	default:
		c, err = compareValues(l, r)
	}
	if err != nil {
		return false, err
	}

	switch op {
	case ast.OpLt:
		return c < 0, nil
	case ast.OpLe:
		return c <= 0, nil
	case ast.OpGt:
		return c > 0, nil
	case ast.OpGe:
		return c >= 0, nil
	default:
		return false, fmt.Errorf("unsupported relational operator %s", op)
	}
}

var intType = reflect.TypeOf(0)

// compareValues orders values that have a Compare(T) int method, such as
// time.Time.
func compareValues(l, r any) (int, error) {
	m := reflect.ValueOf(l).MethodByName("Compare")
	if m.IsValid() {
		mt := m.Type()
		rv := reflect.ValueOf(r)
		if mt.NumIn() == 1 && mt.NumOut() == 1 && mt.Out(0) == intType && rv.Type().AssignableTo(mt.In(0)) {
			return int(m.Call([]reflect.Value{rv})[0].Int()), nil
		}
	}
	return 0, fmt.Errorf("%w: %T and %T", ErrNotComparable, l, r)
}
