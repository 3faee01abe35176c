package typedesc

import (
	"reflect"
	"strconv"
)

// Param identifies an unresolved generic slot.
type Param struct {
	Name     string
	Position int
	Location Location
}

// Descriptor is the structural stand-in for a type.
//
// Exactly one of Type and Param is set for a present descriptor. The zero
// Descriptor is "absent" and represents a missing return value.
type Descriptor struct {
	Type  reflect.Type
	Param *Param
	Wrap  Wrap
}

// Of returns a descriptor for a concrete type. Pointer types are kept as-is;
// use Pointer to express an explicit pointer wrap around an element type.
func Of(t reflect.Type) Descriptor {
	return Descriptor{Type: t}
}

// TypeOf returns a descriptor for T.
func TypeOf[T any]() Descriptor {
	return Descriptor{Type: reflect.TypeFor[T]()}
}

// GenericParam returns a descriptor for an unresolved generic slot.
func GenericParam(name string, position int, loc Location) Descriptor {
	return Descriptor{Param: &Param{Name: name, Position: position, Location: loc}}
}

// Ref returns d wrapped as a reference.
func (d Descriptor) Ref() Descriptor {
	d.Wrap = WrapRef
	return d
}

// Pointer returns d wrapped as a pointer.
func (d Descriptor) Pointer() Descriptor {
	d.Wrap = WrapPointer
	return d
}

// IsZero reports whether d is absent.
func (d Descriptor) IsZero() bool {
	return d.Type == nil && d.Param == nil
}

func (d Descriptor) IsByRef() bool   { return d.Wrap == WrapRef }
func (d Descriptor) IsPointer() bool { return d.Wrap == WrapPointer }
func (d Descriptor) IsWrapped() bool { return d.Wrap != WrapNone }

// IsGeneric reports whether d (ignoring wrapping) is an unresolved generic slot.
func (d Descriptor) IsGeneric() bool {
	return d.Param != nil
}

// Elem strips reference/pointer wrapping.
func (d Descriptor) Elem() Descriptor {
	d.Wrap = WrapNone
	return d
}

// WithType substitutes a concrete type for d, keeping its wrapping.
func (d Descriptor) WithType(t reflect.Type) Descriptor {
	return Descriptor{Type: t, Wrap: d.Wrap}
}

// Reflect returns the host type d denotes. Both reference and pointer
// wrapping are realized as Go pointers. Generic and absent descriptors
// have no host type and return nil.
func (d Descriptor) Reflect() reflect.Type {
	if d.Type == nil {
		return nil
	}
	if d.Wrap != WrapNone {
		return reflect.PointerTo(d.Type)
	}
	return d.Type
}

// Equal reports structural equality.
func (d Descriptor) Equal(o Descriptor) bool {
	if d.Wrap != o.Wrap || d.Type != o.Type {
		return false
	}
	if (d.Param == nil) != (o.Param == nil) {
		return false
	}
	return d.Param == nil || *d.Param == *o.Param
}

func (d Descriptor) String() string {
	var s string
	switch {
	case d.Param != nil:
		s = d.Param.Name
		if s == "" {
			s = "T"
		}
		if d.Param.Location == LocationSignature {
			s += "!!" + strconv.Itoa(d.Param.Position)
		} else {
			s += "!" + strconv.Itoa(d.Param.Position)
		}
	case d.Type != nil:
		s = d.Type.String()
	default:
		return "void"
	}
	switch d.Wrap {
	case WrapRef:
		return s + "&"
	case WrapPointer:
		return s + "*"
	}
	return s
}
