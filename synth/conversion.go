package synth

import (
	"fmt"
	"reflect"

	"github.com/wippyai/sigbind/catalog"
	"github.com/wippyai/sigbind/errors"
	"github.com/wippyai/sigbind/internal/numeric"
)

// Conversion converts a value. The input must be assignable to the
// conversion's input type; nil stands for that type's zero value.
type Conversion func(v any) (any, error)

// ConversionKey names a chained conversion:
// DeclaredIn -> RequestedIn -> RequestedOut -> DeclaredOut.
type ConversionKey struct {
	DeclaredIn   reflect.Type
	RequestedIn  reflect.Type
	RequestedOut reflect.Type
	DeclaredOut  reflect.Type
}

func (k ConversionKey) String() string {
	return fmt.Sprintf("%s -> %s -> %s -> %s",
		typeName(k.DeclaredIn), typeName(k.RequestedIn), typeName(k.RequestedOut), typeName(k.DeclaredOut))
}

// link converts a value of one exact type into another.
type link struct {
	kind catalog.ConversionKind
	from reflect.Type
	to   reflect.Type
	fn   func(reflect.Value) (reflect.Value, error)
}

// converter is a compiled chain. Identity links are dropped.
type converter struct {
	key   ConversionKey
	links []link
	fn    Conversion
}

// Conversion returns the cached conversion from in to out.
// The second result is false when no conversion exists.
func (c *Cache) Conversion(in, out reflect.Type) (Conversion, bool) {
	return c.ChainedConversion(ConversionKey{DeclaredIn: in, RequestedIn: in, RequestedOut: out, DeclaredOut: out})
}

// ChainedConversion returns the cached conversion for key. It is absent when
// any link of the chain cannot be built.
func (c *Cache) ChainedConversion(key ConversionKey) (Conversion, bool) {
	cv := c.converter(key)
	if cv == nil {
		return nil, false
	}
	return cv.fn, true
}

func (c *Cache) converter(key ConversionKey) *converter {
	cv, _ := c.conversions.get(key, func() (*converter, error) {
		cv := c.compileConverter(key)
		var err error
		if cv == nil {
			err = errors.SynthesisImpossible(errors.PhaseConvert, typeName(key.DeclaredOut), "no conversion chain")
		}
		c.compiled("conversion", key, err)
		return cv, nil
	})
	return cv
}

func (c *Cache) compileConverter(key ConversionKey) *converter {
	if key.DeclaredIn == nil || key.RequestedIn == nil || key.RequestedOut == nil || key.DeclaredOut == nil {
		return nil
	}
	cv := &converter{key: key}
	steps := [][2]reflect.Type{
		{key.DeclaredIn, key.RequestedIn},
		{key.RequestedIn, key.RequestedOut},
		{key.RequestedOut, key.DeclaredOut},
	}
	for _, s := range steps {
		l, ok := c.link(s[0], s[1])
		if !ok {
			return nil
		}
		if l.kind != catalog.ConvIdentity {
			cv.links = append(cv.links, l)
		}
	}
	cv.fn = func(v any) (any, error) {
		rv, err := cv.convert(reflect.ValueOf(v))
		if err != nil {
			return nil, err
		}
		return rv.Interface(), nil
	}
	return cv
}

// convert runs the chain on v, which is first normalized to DeclaredIn.
func (cv *converter) convert(v reflect.Value) (reflect.Value, error) {
	v, err := normalize(v, cv.key.DeclaredIn)
	if err != nil {
		return reflect.Value{}, err
	}
	for _, l := range cv.links {
		if v, err = l.fn(v); err != nil {
			return reflect.Value{}, err
		}
	}
	return v, nil
}

// normalize makes v a value of exactly type t.
func normalize(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		if !nillable(t) {
			return reflect.Value{}, errors.InvalidInput(errors.PhaseInvoke, "nil value for "+t.String())
		}
		return reflect.Zero(t), nil
	}
	if v.Type() == t {
		return v, nil
	}
	if v.Type().AssignableTo(t) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, errors.TypeMismatch(errors.PhaseInvoke, nil, v.Type().String(), t.String())
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

// link builds a single conversion step using the catalog's classification.
func (c *Cache) link(from, to reflect.Type) (link, bool) {
	kind := c.catalog.Classify(from, to)
	l := link{kind: kind, from: from, to: to}
	switch kind {
	case catalog.ConvIdentity:
		l.fn = func(v reflect.Value) (reflect.Value, error) { return v, nil }
	case catalog.ConvAssign, catalog.ConvReflect:
		l.fn = func(v reflect.Value) (reflect.Value, error) { return v.Convert(to), nil }
	case catalog.ConvNumeric:
		l.fn = func(v reflect.Value) (reflect.Value, error) { return numeric.Convert(v, to) }
	case catalog.ConvAssert:
		l.fn = func(v reflect.Value) (reflect.Value, error) { return assert(v, to) }
	case catalog.ConvRegistered:
		m, _ := c.catalog.Converter(from, to)
		l.fn = func(v reflect.Value) (reflect.Value, error) {
			out, err := invoke(m, []reflect.Value{v})
			if err != nil {
				return reflect.Value{}, err
			}
			return out, nil
		}
	default:
		return link{}, false
	}
	return l, true
}

// assert extracts the dynamic value of an interface value as type to.
func assert(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			if nillable(to) {
				return reflect.Zero(to), nil
			}
			return reflect.Value{}, errors.InvalidInput(errors.PhaseConvert, "nil interface to "+to.String())
		}
		v = v.Elem()
	}
	switch {
	case v.Type() == to:
		return v, nil
	case v.Type().AssignableTo(to):
		return v.Convert(to), nil
	}
	return reflect.Value{}, errors.TypeMismatch(errors.PhaseConvert, nil, v.Type().String(), to.String())
}
