// Package numeric classifies numeric kinds, picks operand types for binary
// operators and converts between numeric types.
package numeric

import (
	"math"
	"reflect"
	"strconv"

	"fortio.org/safecast"

	"github.com/wippyai/sigbind/errors"
)

var builtins = map[reflect.Kind]reflect.Type{
	reflect.Int:     reflect.TypeFor[int](),
	reflect.Int8:    reflect.TypeFor[int8](),
	reflect.Int16:   reflect.TypeFor[int16](),
	reflect.Int32:   reflect.TypeFor[int32](),
	reflect.Int64:   reflect.TypeFor[int64](),
	reflect.Uint:    reflect.TypeFor[uint](),
	reflect.Uint8:   reflect.TypeFor[uint8](),
	reflect.Uint16:  reflect.TypeFor[uint16](),
	reflect.Uint32:  reflect.TypeFor[uint32](),
	reflect.Uint64:  reflect.TypeFor[uint64](),
	reflect.Float32: reflect.TypeFor[float32](),
	reflect.Float64: reflect.TypeFor[float64](),
	reflect.Bool:    reflect.TypeFor[bool](),
	reflect.String:  reflect.TypeFor[string](),
}

// Builtin returns the predeclared type of kind k, or nil.
func Builtin(k reflect.Kind) reflect.Type {
	return builtins[k]
}

// IsNumeric reports whether k is an integer or float kind.
func IsNumeric(k reflect.Kind) bool {
	return IsSigned(k) || IsUnsigned(k) || IsFloat(k)
}

// IsInteger reports whether k is an integer kind, uintptr included.
func IsInteger(k reflect.Kind) bool {
	return IsSigned(k) || IsUnsigned(k) || k == reflect.Uintptr
}

func IsSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func IsUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func IsFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// Size returns the width of a numeric kind in bits.
func Size(k reflect.Kind) int {
	switch k {
	case reflect.Int8, reflect.Uint8:
		return 8
	case reflect.Int16, reflect.Uint16:
		return 16
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 32
	case reflect.Int, reflect.Uint:
		return strconv.IntSize
	case reflect.Int64, reflect.Uint64, reflect.Float64:
		return 64
	}
	return 0
}

var signedBySize = map[int]reflect.Kind{8: reflect.Int8, 16: reflect.Int16, 32: reflect.Int32, 64: reflect.Int64}

// Operand picks the kind both operands are converted to before a binary
// operation. Floats win over integers; mixed signedness widens to a signed
// kind that holds both ranges where one exists.
func Operand(a, b reflect.Kind) reflect.Kind {
	switch {
	case a == reflect.Float64 || b == reflect.Float64:
		return reflect.Float64
	case a == reflect.Float32 || b == reflect.Float32:
		return reflect.Float32
	case a == b:
		return a
	}
	sa, sb := Size(a), Size(b)
	if IsSigned(a) == IsSigned(b) {
		if sb > sa {
			return b
		}
		return a
	}
	signed, unsigned := a, b
	if IsUnsigned(a) {
		signed, unsigned = b, a
	}
	if Size(signed) > Size(unsigned) {
		return signed
	}
	size := Size(unsigned) * 2
	if size > 64 {
		size = 64
	}
	return signedBySize[size]
}

// Convert converts v to a numeric type, failing when the value does not fit.
// Float targets follow Go conversion rules except that overflow to infinity
// is rejected.
func Convert(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	if !IsNumeric(v.Kind()) || !IsNumeric(to.Kind()) {
		return reflect.Value{}, errors.TypeMismatch(errors.PhaseConvert, nil, v.Type().String(), to.String())
	}
	var out reflect.Value
	var err error
	switch to.Kind() {
	case reflect.Int:
		out, err = checked[int](v)
	case reflect.Int8:
		out, err = checked[int8](v)
	case reflect.Int16:
		out, err = checked[int16](v)
	case reflect.Int32:
		out, err = checked[int32](v)
	case reflect.Int64:
		out, err = checked[int64](v)
	case reflect.Uint:
		out, err = checked[uint](v)
	case reflect.Uint8:
		out, err = checked[uint8](v)
	case reflect.Uint16:
		out, err = checked[uint16](v)
	case reflect.Uint32:
		out, err = checked[uint32](v)
	case reflect.Uint64:
		out, err = checked[uint64](v)
	case reflect.Float32:
		out = v.Convert(Builtin(reflect.Float32))
		if f := out.Float(); math.IsInf(f, 0) && !isInf(v) {
			err = errOverflow
		}
	case reflect.Float64:
		out = v.Convert(Builtin(reflect.Float64))
	}
	if err != nil {
		return reflect.Value{}, errors.Overflow(errors.PhaseConvert, nil, v.Interface(), to.String(), err)
	}
	return out.Convert(to), nil
}

// Wrap converts v to a numeric type with Go's truncating conversion semantics.
func Wrap(v reflect.Value, to reflect.Type) reflect.Value {
	return v.Convert(to)
}

var errOverflow = errors.InvalidInput(errors.PhaseConvert, "float overflow")

func isInf(v reflect.Value) bool {
	return IsFloat(v.Kind()) && math.IsInf(v.Float(), 0)
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func checked[T integer](v reflect.Value) (reflect.Value, error) {
	var out T
	var err error
	switch {
	case IsSigned(v.Kind()):
		out, err = safecast.Conv[T](v.Int())
	case IsUnsigned(v.Kind()):
		out, err = safecast.Conv[T](v.Uint())
	default:
		f := v.Float()
		if f != math.Trunc(f) {
			return reflect.Value{}, errors.InvalidInput(errors.PhaseConvert, "fractional value "+strconv.FormatFloat(f, 'g', -1, 64))
		}
		out, err = safecast.Convert[T](f)
	}
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(out), nil
}
