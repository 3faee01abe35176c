package synth

import (
	"reflect"

	"github.com/wippyai/sigbind/errors"
)

// Typed1 gives a one-parameter Func static types.
func Typed1[A, R any](f Func) func(A) (R, error) {
	return func(a A) (R, error) {
		out, err := f(a)
		if err != nil {
			var zero R
			return zero, err
		}
		return as[R](out)
	}
}

// Typed2 gives a two-parameter Func static types.
func Typed2[A, B, R any](f Func) func(A, B) (R, error) {
	return func(a A, b B) (R, error) {
		out, err := f(a, b)
		if err != nil {
			var zero R
			return zero, err
		}
		return as[R](out)
	}
}

// TypedBinary gives a BinaryFunc static types.
func TypedBinary[L, R, Out any](f BinaryFunc) func(L, R) (Out, error) {
	return func(l L, r R) (Out, error) {
		out, err := f(l, r)
		if err != nil {
			var zero Out
			return zero, err
		}
		return as[Out](out)
	}
}

// TypedConversion gives a Conversion static types.
func TypedConversion[In, Out any](f Conversion) func(In) (Out, error) {
	return func(in In) (Out, error) {
		out, err := f(in)
		if err != nil {
			var zero Out
			return zero, err
		}
		return as[Out](out)
	}
}

// ConversionOf returns the cached conversion from In to Out with static types.
func ConversionOf[In, Out any](c *Cache) (func(In) (Out, error), bool) {
	f, ok := c.Conversion(reflect.TypeFor[In](), reflect.TypeFor[Out]())
	if !ok {
		return nil, false
	}
	return TypedConversion[In, Out](f), true
}

func as[T any](v any) (T, error) {
	if v == nil {
		var zero T
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return t, errors.TypeMismatch(errors.PhaseInvoke, nil, reflect.TypeOf(v).String(), reflect.TypeFor[T]().String())
	}
	return t, nil
}
