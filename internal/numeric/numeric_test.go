package numeric

import (
	stderrors "errors"
	"math"
	"reflect"
	"testing"

	"github.com/wippyai/sigbind/errors"
)

func TestOperand(t *testing.T) {
	tests := []struct {
		a, b reflect.Kind
		want reflect.Kind
	}{
		{reflect.Int32, reflect.Int32, reflect.Int32},
		{reflect.Int8, reflect.Int16, reflect.Int16},
		{reflect.Uint8, reflect.Uint32, reflect.Uint32},
		{reflect.Int8, reflect.Uint8, reflect.Int16},
		{reflect.Int32, reflect.Uint16, reflect.Int32},
		{reflect.Int32, reflect.Uint32, reflect.Int64},
		{reflect.Int64, reflect.Uint64, reflect.Int64},
		{reflect.Int64, reflect.Float32, reflect.Float32},
		{reflect.Float32, reflect.Float64, reflect.Float64},
	}
	for _, tt := range tests {
		if got := Operand(tt.a, tt.b); got != tt.want {
			t.Errorf("Operand(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIsInteger(t *testing.T) {
	tests := []struct {
		k    reflect.Kind
		want bool
	}{
		{reflect.Int, true},
		{reflect.Int8, true},
		{reflect.Uint64, true},
		{reflect.Uintptr, true},
		{reflect.Float32, false},
		{reflect.String, false},
		{reflect.Bool, false},
	}
	for _, tt := range tests {
		if got := IsInteger(tt.k); got != tt.want {
			t.Errorf("IsInteger(%v) = %v, want %v", tt.k, got, tt.want)
		}
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		to      reflect.Type
		want    any
		wantErr bool
	}{
		{"widen", int8(-5), reflect.TypeFor[int64](), int64(-5), false},
		{"narrow fits", int64(127), reflect.TypeFor[int8](), int8(127), false},
		{"narrow overflow", int64(128), reflect.TypeFor[int8](), nil, true},
		{"negative to unsigned", int32(-1), reflect.TypeFor[uint32](), nil, true},
		{"unsigned to signed", uint64(math.MaxUint64), reflect.TypeFor[int64](), nil, true},
		{"whole float", 42.0, reflect.TypeFor[int](), 42, false},
		{"fractional float", 42.5, reflect.TypeFor[int](), nil, true},
		{"int to float", 7, reflect.TypeFor[float64](), 7.0, false},
		{"float32 overflow", math.MaxFloat64, reflect.TypeFor[float32](), nil, true},
		{"float to int8 overflow", 300.0, reflect.TypeFor[int8](), nil, true},
		{"named target", 3, reflect.TypeFor[celsius](), celsius(3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(reflect.ValueOf(tt.in), tt.to)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Convert(%v) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Convert(%v): %v", tt.in, err)
			}
			if got.Interface() != tt.want {
				t.Errorf("Convert(%v) = %#v, want %#v", tt.in, got.Interface(), tt.want)
			}
		})
	}
}

type celsius float64

func TestConvertOverflowKind(t *testing.T) {
	_, err := Convert(reflect.ValueOf(300), reflect.TypeFor[uint8]())
	if !stderrors.Is(err, &errors.Error{Kind: errors.KindOverflow}) {
		t.Errorf("error = %v, want overflow", err)
	}
}
