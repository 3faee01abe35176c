package typedesc

import (
	"reflect"

	"github.com/wippyai/sigbind/internal/numeric"
)

// Host answers the type-system questions matching needs.
// Implementations must be safe for concurrent use.
type Host interface {
	// AssignableTo reports whether a value of from can be used as to without conversion.
	AssignableTo(from, to reflect.Type) bool
	// ConvertibleTo reports whether some conversion from from to to exists.
	ConvertibleTo(from, to reflect.Type) bool
}

// ReflectHost answers with plain Go assignability and conversion rules.
// Integer to string conversions are excluded since they produce runes,
// not decimal text.
type ReflectHost struct{}

var _ Host = ReflectHost{}

func (ReflectHost) AssignableTo(from, to reflect.Type) bool {
	return from != nil && to != nil && from.AssignableTo(to)
}

func (ReflectHost) ConvertibleTo(from, to reflect.Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from.AssignableTo(to) {
		return true
	}
	if to.Kind() == reflect.String && numeric.IsInteger(from.Kind()) {
		return false
	}
	return from.ConvertibleTo(to)
}
