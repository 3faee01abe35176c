package match

import (
	"reflect"

	"github.com/wippyai/sigbind/typedesc"
)

// Result is the outcome of matching a whole signature.
type Result struct {
	// Casts is indexed like the specs: parameters first, return last.
	Casts             []bool
	TypeClosures      []reflect.Type
	SignatureClosures []reflect.Type
	// Open lists the slots matched only by locator specs. They bind nothing
	// and stay generic when the signature is closed.
	Open    []Slot
	Matched bool
}

// Slot identifies a generic slot of a signature.
type Slot struct {
	Location typedesc.Location
	Position int
}

func (r Result) isOpen(loc typedesc.Location, pos int) bool {
	for _, s := range r.Open {
		if s.Location == loc && s.Position == pos {
			return true
		}
	}
	return false
}

// CastCount returns the number of positions that need a conversion.
func (r Result) CastCount() int {
	n := 0
	for _, c := range r.Casts {
		if c {
			n++
		}
	}
	return n
}

// TypeClosureCount returns the number of bound type-local slots.
func (r Result) TypeClosureCount() int { return countBound(r.TypeClosures) }

// SignatureClosureCount returns the number of bound signature-local slots.
func (r Result) SignatureClosureCount() int { return countBound(r.SignatureClosures) }

// HasClosures reports whether any slot was bound.
func (r Result) HasClosures() bool {
	return r.TypeClosureCount() > 0 || r.SignatureClosureCount() > 0
}

// MatchSignature matches sig against specs, where the last spec describes
// the return type. sigArity is the number of signature-local generic slots
// the caller expects the candidate to declare.
func (m *Matcher) MatchSignature(sig typedesc.Signature, specs []typedesc.Spec, sigArity int) Result {
	if len(specs) != len(sig.Params)+1 || sig.SigArity != sigArity {
		return Result{}
	}

	closures := NewClosureMap(m.host, sig.TypeArity, sig.SigArity)
	casts := make([]bool, len(specs))

	var open []Slot
	fold := func(d typedesc.Descriptor, o typedesc.Outcome) bool {
		if !o.Matched || !closures.Fold(o) {
			return false
		}
		if o.Bound == nil && d.IsGeneric() {
			open = append(open, Slot{Location: d.Param.Location, Position: d.Param.Position})
		}
		return true
	}

	ret := m.MatchType(sig.Return, specs[len(specs)-1], true)
	if !fold(sig.Return, ret) {
		return Result{}
	}
	casts[len(specs)-1] = ret.Cast

	for i, p := range sig.Params {
		o := m.MatchType(p, specs[i], false)
		if !fold(p, o) {
			return Result{}
		}
		casts[i] = o.Cast
	}

	return Result{
		Matched:           true,
		Casts:             casts,
		TypeClosures:      closures.Type,
		SignatureClosures: closures.Signature,
		Open:              open,
	}
}
