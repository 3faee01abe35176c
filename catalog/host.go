package catalog

import (
	"fmt"
	"reflect"

	"github.com/wippyai/sigbind/internal/numeric"
)

// ConversionKind classifies how a value of one type becomes another.
type ConversionKind uint8

const (
	ConvNone ConversionKind = iota
	ConvIdentity
	ConvAssign     // Go assignability, including boxing into an interface
	ConvRegistered // user conversion registered in the catalog
	ConvNumeric    // range-checked numeric conversion
	ConvAssert     // type assertion out of an interface, checked at run time
	ConvReflect    // any other conversion reflect allows
)

func (k ConversionKind) String() string {
	switch k {
	case ConvNone:
		return "none"
	case ConvIdentity:
		return "identity"
	case ConvAssign:
		return "assign"
	case ConvRegistered:
		return "registered"
	case ConvNumeric:
		return "numeric"
	case ConvAssert:
		return "assert"
	case ConvReflect:
		return "reflect"
	default:
		return fmt.Sprintf("ConversionKind(%d)", k)
	}
}

// AssignableTo reports Go assignability.
func (c *Catalog) AssignableTo(from, to reflect.Type) bool {
	return from != nil && to != nil && from.AssignableTo(to)
}

// ConvertibleTo reports whether Classify finds any conversion.
func (c *Catalog) ConvertibleTo(from, to reflect.Type) bool {
	return c.Classify(from, to) != ConvNone
}

// Classify picks the conversion used to turn a from value into a to value.
// Registered conversions win over built-in numeric and reflect conversions.
func (c *Catalog) Classify(from, to reflect.Type) ConversionKind {
	switch {
	case from == nil || to == nil:
		return ConvNone
	case from == to:
		return ConvIdentity
	case from.AssignableTo(to):
		return ConvAssign
	}
	if _, ok := c.Converter(from, to); ok {
		return ConvRegistered
	}
	if numeric.IsNumeric(from.Kind()) && numeric.IsNumeric(to.Kind()) {
		return ConvNumeric
	}
	if from.Kind() == reflect.Interface && (to.Kind() == reflect.Interface || to.Implements(from)) {
		return ConvAssert
	}
	if to.Kind() == reflect.String && numeric.IsInteger(from.Kind()) {
		return ConvNone
	}
	if from.ConvertibleTo(to) {
		return ConvReflect
	}
	return ConvNone
}
