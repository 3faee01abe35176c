package typedesc

import "fmt"

// Location says which scope declares a generic slot.
type Location uint8

const (
	// LocationNone marks a descriptor that is not a generic slot.
	LocationNone Location = iota
	// LocationSignature marks a slot declared by the callable itself.
	LocationSignature
	// LocationType marks a slot declared by the enclosing type.
	LocationType
	// LocationAny is only meaningful in a Spec locator and accepts both scopes.
	LocationAny
)

func (l Location) String() string {
	switch l {
	case LocationNone:
		return "none"
	case LocationSignature:
		return "signature"
	case LocationType:
		return "type"
	case LocationAny:
		return "any"
	default:
		return fmt.Sprintf("Location(%d)", l)
	}
}

// Accepts reports whether a locator asking for l accepts a slot declared at actual.
func (l Location) Accepts(actual Location) bool {
	switch l {
	case LocationAny:
		return actual == LocationSignature || actual == LocationType
	case LocationNone:
		return false
	default:
		return l == actual
	}
}

// Wrap describes reference or pointer wrapping of a type.
type Wrap uint8

const (
	WrapNone Wrap = iota
	WrapRef
	WrapPointer
)

func (w Wrap) String() string {
	switch w {
	case WrapNone:
		return "none"
	case WrapRef:
		return "ref"
	case WrapPointer:
		return "pointer"
	default:
		return fmt.Sprintf("Wrap(%d)", w)
	}
}
