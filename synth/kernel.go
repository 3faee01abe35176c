package synth

import (
	"reflect"

	"github.com/wippyai/sigbind/catalog"
	"github.com/wippyai/sigbind/errors"
)

// kernel applies a binary operator to two values of the kernel's operand type.
type kernel func(a, b any) (any, error)

type signedKernel interface {
	~int | ~int16 | ~int32 | ~int64
}

type unsignedKernel interface {
	~uint | ~uint16 | ~uint32 | ~uint64
}

type floatKernel interface {
	~float32 | ~float64
}

// lookupKernel returns the kernel for op over the predeclared type of kind k.
// The 8-bit integer kinds have no kernels; callers promote them first.
func lookupKernel(op catalog.Op, k reflect.Kind) (kernel, bool) {
	switch k {
	case reflect.Int:
		return integerOps[int](op)
	case reflect.Int16:
		return integerOps[int16](op)
	case reflect.Int32:
		return integerOps[int32](op)
	case reflect.Int64:
		return integerOps[int64](op)
	case reflect.Uint:
		return integerOps[uint](op)
	case reflect.Uint16:
		return integerOps[uint16](op)
	case reflect.Uint32:
		return integerOps[uint32](op)
	case reflect.Uint64:
		return integerOps[uint64](op)
	case reflect.Float32:
		return floatOps[float32](op)
	case reflect.Float64:
		return floatOps[float64](op)
	case reflect.String:
		return stringOps(op)
	case reflect.Bool:
		return boolOps(op)
	}
	return nil, false
}

// hasKernels reports whether kind k has native kernels.
func hasKernels(k reflect.Kind) bool {
	_, ok := lookupKernel(catalog.OpAdd, k)
	if !ok {
		_, ok = lookupKernel(catalog.OpEqual, k)
	}
	return ok
}

func integerOps[T signedKernel | unsignedKernel](op catalog.Op) (kernel, bool) {
	switch op {
	case catalog.OpDivide:
		return func(a, b any) (any, error) {
			y := b.(T)
			if y == 0 {
				return nil, errors.DivideByZero(errors.PhaseOperator, reflect.TypeFor[T]().String())
			}
			return a.(T) / y, nil
		}, true
	case catalog.OpModulo:
		return func(a, b any) (any, error) {
			y := b.(T)
			if y == 0 {
				return nil, errors.DivideByZero(errors.PhaseOperator, reflect.TypeFor[T]().String())
			}
			return a.(T) % y, nil
		}, true
	case catalog.OpAnd:
		return func(a, b any) (any, error) { return a.(T) & b.(T), nil }, true
	case catalog.OpOr:
		return func(a, b any) (any, error) { return a.(T) | b.(T), nil }, true
	case catalog.OpXor:
		return func(a, b any) (any, error) { return a.(T) ^ b.(T), nil }, true
	}
	return orderedOps[T](op)
}

func floatOps[T floatKernel](op catalog.Op) (kernel, bool) {
	if op == catalog.OpDivide {
		return func(a, b any) (any, error) { return a.(T) / b.(T), nil }, true
	}
	return orderedOps[T](op)
}

// orderedOps covers arithmetic and comparisons shared by every numeric kernel.
func orderedOps[T signedKernel | unsignedKernel | floatKernel](op catalog.Op) (kernel, bool) {
	switch op {
	case catalog.OpAdd:
		return func(a, b any) (any, error) { return a.(T) + b.(T), nil }, true
	case catalog.OpSubtract:
		return func(a, b any) (any, error) { return a.(T) - b.(T), nil }, true
	case catalog.OpMultiply:
		return func(a, b any) (any, error) { return a.(T) * b.(T), nil }, true
	}
	return compareOps[T](op)
}

func compareOps[T signedKernel | unsignedKernel | floatKernel | ~string](op catalog.Op) (kernel, bool) {
	switch op {
	case catalog.OpEqual:
		return func(a, b any) (any, error) { return a.(T) == b.(T), nil }, true
	case catalog.OpNotEqual:
		return func(a, b any) (any, error) { return a.(T) != b.(T), nil }, true
	case catalog.OpLessThan:
		return func(a, b any) (any, error) { return a.(T) < b.(T), nil }, true
	case catalog.OpLessThanOrEqual:
		return func(a, b any) (any, error) { return a.(T) <= b.(T), nil }, true
	case catalog.OpGreaterThan:
		return func(a, b any) (any, error) { return a.(T) > b.(T), nil }, true
	case catalog.OpGreaterThanOrEqual:
		return func(a, b any) (any, error) { return a.(T) >= b.(T), nil }, true
	}
	return nil, false
}

func stringOps(op catalog.Op) (kernel, bool) {
	if op == catalog.OpAdd {
		return func(a, b any) (any, error) { return a.(string) + b.(string), nil }, true
	}
	return compareOps[string](op)
}

func boolOps(op catalog.Op) (kernel, bool) {
	switch op {
	case catalog.OpAnd, catalog.OpAndAlso:
		return func(a, b any) (any, error) { return a.(bool) && b.(bool), nil }, true
	case catalog.OpOr, catalog.OpOrElse:
		return func(a, b any) (any, error) { return a.(bool) || b.(bool), nil }, true
	case catalog.OpXor, catalog.OpNotEqual:
		return func(a, b any) (any, error) { return a.(bool) != b.(bool), nil }, true
	case catalog.OpEqual:
		return func(a, b any) (any, error) { return a.(bool) == b.(bool), nil }, true
	}
	return nil, false
}
