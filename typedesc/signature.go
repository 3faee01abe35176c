package typedesc

import (
	"reflect"
	"strings"
)

// Signature is an ordered parameter list plus a return descriptor.
type Signature struct {
	Params    []Descriptor
	Return    Descriptor
	TypeArity int // type-local generic slots
	SigArity  int // signature-local generic slots
}

// SignatureOf derives a concrete signature from a Go function type.
// A trailing error result is treated as the error channel and not as the
// return value.
func SignatureOf(fn reflect.Type) Signature {
	sig := Signature{Params: make([]Descriptor, fn.NumIn())}
	for i := range sig.Params {
		sig.Params[i] = Of(fn.In(i))
	}
	outs := fn.NumOut()
	if outs > 0 && fn.Out(outs-1) == errorType {
		outs--
	}
	if outs > 0 {
		sig.Return = Of(fn.Out(0))
	}
	return sig
}

var errorType = reflect.TypeFor[error]()

// IsGeneric reports whether any parameter or the return is an unresolved slot.
func (s Signature) IsGeneric() bool {
	if s.Return.IsGeneric() {
		return true
	}
	for _, p := range s.Params {
		if p.IsGeneric() {
			return true
		}
	}
	return false
}

// Equal reports structural equality.
func (s Signature) Equal(o Signature) bool {
	if s.TypeArity != o.TypeArity || s.SigArity != o.SigArity || len(s.Params) != len(o.Params) {
		return false
	}
	if !s.Return.Equal(o.Return) {
		return false
	}
	for i := range s.Params {
		if !s.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	return true
}

// Shapes returns the host types of the parameters followed by the return
// type (nil when absent). Generic positions are nil.
func (s Signature) Shapes() []reflect.Type {
	shapes := make([]reflect.Type, 0, len(s.Params)+1)
	for _, p := range s.Params {
		shapes = append(shapes, p.Reflect())
	}
	return append(shapes, s.Return.Reflect())
}

func (s Signature) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") -> ")
	b.WriteString(s.Return.String())
	return b.String()
}

// Outcome is the result of matching one descriptor against one spec.
type Outcome struct {
	Bound    reflect.Type // closure target; nil when no closure is implied
	Location Location
	Position int
	Matched  bool
	Cast     bool
}

// HasClosure reports whether the match binds a generic slot.
func (o Outcome) HasClosure() bool {
	return o.Bound != nil
}
