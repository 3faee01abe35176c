package typedesc

import (
	"reflect"
	"strconv"
	"strings"
)

// AnyPosition is the locator position that accepts every slot position.
const AnyPosition = -1

// Spec is a search pattern a Descriptor must satisfy.
//
// With Target set the pattern asks for that exact type or something
// convertible to it. Without Target the pattern is a generic slot locator:
// Location is required, Name and Position are optional constraints. The zero
// Spec is "absent" and only matches an absent descriptor.
type Spec struct {
	Target   reflect.Type
	Name     string
	Position int
	Location Location
	Wrap     Wrap
}

// Exact returns a spec that asks for t.
func Exact(t reflect.Type) Spec {
	return Spec{Target: t, Position: AnyPosition}
}

// For returns a spec that asks for T.
func For[T any]() Spec {
	return Exact(reflect.TypeFor[T]())
}

// Slot returns a locator spec for a generic slot declared at loc.
func Slot(loc Location) Spec {
	return Spec{Location: loc, Position: AnyPosition}
}

// Void returns the absent spec, used for callables without a return value.
func Void() Spec {
	return Spec{}
}

// Named constrains a locator to slots with the given name.
func (s Spec) Named(name string) Spec {
	s.Name = name
	return s
}

// At constrains a locator to the slot at position.
func (s Spec) At(position int) Spec {
	s.Position = position
	return s
}

// Ref requires a reference-wrapped candidate.
func (s Spec) Ref() Spec {
	s.Wrap = WrapRef
	return s
}

// Pointer requires a pointer-wrapped candidate.
func (s Spec) Pointer() Spec {
	s.Wrap = WrapPointer
	return s
}

// IsZero reports whether s is the absent spec.
func (s Spec) IsZero() bool {
	return s.Target == nil && s.Location == LocationNone
}

// IsLocator reports whether s locates a generic slot rather than a concrete type.
func (s Spec) IsLocator() bool {
	return s.Target == nil && s.Location != LocationNone
}

// Reflect returns the host type a caller supplies or receives for s.
func (s Spec) Reflect() reflect.Type {
	if s.Target == nil {
		return nil
	}
	if s.Wrap != WrapNone {
		return reflect.PointerTo(s.Target)
	}
	return s.Target
}

func (s Spec) String() string {
	var b strings.Builder
	switch {
	case s.Target != nil:
		b.WriteString(s.Target.String())
	case s.Location != LocationNone:
		b.WriteString("<")
		b.WriteString(s.Location.String())
		if s.Name != "" {
			b.WriteString(" ")
			b.WriteString(s.Name)
		}
		if s.Position != AnyPosition {
			b.WriteString(" @")
			b.WriteString(strconv.Itoa(s.Position))
		}
		b.WriteString(">")
	default:
		return "void"
	}
	switch s.Wrap {
	case WrapRef:
		b.WriteString("&")
	case WrapPointer:
		b.WriteString("*")
	}
	return b.String()
}

// SpecsOf builds the exact specs for a list of parameter types followed by a
// return type. A nil ret produces the absent return spec.
func SpecsOf(ret reflect.Type, params ...reflect.Type) []Spec {
	specs := make([]Spec, 0, len(params)+1)
	for _, p := range params {
		specs = append(specs, Exact(p))
	}
	if ret == nil {
		return append(specs, Void())
	}
	return append(specs, Exact(ret))
}
