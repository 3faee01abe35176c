package match

import (
	"reflect"

	"github.com/wippyai/sigbind/typedesc"
)

// ClosureMap records the concrete bindings of generic slots found while
// matching one candidate. Nil entries are unbound.
type ClosureMap struct {
	host      typedesc.Host
	Type      []reflect.Type
	Signature []reflect.Type
}

// NewClosureMap creates an empty map for the given slot counts.
func NewClosureMap(host typedesc.Host, typeArity, sigArity int) *ClosureMap {
	return &ClosureMap{
		host:      host,
		Type:      make([]reflect.Type, typeArity),
		Signature: make([]reflect.Type, sigArity),
	}
}

// Fold merges a single match outcome into the map.
// It returns false if the outcome binds a slot inconsistently.
func (c *ClosureMap) Fold(o typedesc.Outcome) bool {
	if !o.HasClosure() {
		return true
	}
	return c.Bind(o.Location, o.Position, o.Bound)
}

// Bind binds slot pos at loc to t.
//
// An already-bound slot only accepts types related by assignability; the
// binding widens to the more general of the two and never narrows.
func (c *ClosureMap) Bind(loc typedesc.Location, pos int, t reflect.Type) bool {
	slots := c.slots(loc)
	if pos < 0 || pos >= len(slots) || t == nil {
		return false
	}
	bound := slots[pos]
	switch {
	case bound == nil:
		slots[pos] = t
	case bound == t:
	case c.host.AssignableTo(t, bound):
	case c.host.AssignableTo(bound, t):
		slots[pos] = t
	default:
		return false
	}
	return true
}

// Lookup returns the binding of a slot, or nil.
func (c *ClosureMap) Lookup(loc typedesc.Location, pos int) reflect.Type {
	slots := c.slots(loc)
	if pos < 0 || pos >= len(slots) {
		return nil
	}
	return slots[pos]
}

// Counts returns the number of bound type-local and signature-local slots.
func (c *ClosureMap) Counts() (typeCount, sigCount int) {
	return countBound(c.Type), countBound(c.Signature)
}

func (c *ClosureMap) slots(loc typedesc.Location) []reflect.Type {
	if loc == typedesc.LocationSignature {
		return c.Signature
	}
	return c.Type
}

func countBound(slots []reflect.Type) int {
	n := 0
	for _, t := range slots {
		if t != nil {
			n++
		}
	}
	return n
}
