package match

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/sigbind/errors"
	"github.com/wippyai/sigbind/typedesc"
)

// Close substitutes bound types for every generic slot in sig.
// Reference and pointer wrapping of the original descriptor is preserved,
// and a signature without slots is returned unchanged.
//
// Close panics with an errors.KindInternal error if a slot used by sig is
// unbound. BestMatch never produces such a selection.
func Close(sig typedesc.Signature, typeClosures, sigClosures []reflect.Type) typedesc.Signature {
	return closeMatched(sig, Result{TypeClosures: typeClosures, SignatureClosures: sigClosures})
}

// closeMatched closes sig with the closures of r. Unbound slots listed in
// r.Open stay generic.
func closeMatched(sig typedesc.Signature, r Result) typedesc.Signature {
	if !sig.IsGeneric() {
		return sig
	}
	closed := typedesc.Signature{
		Params:    make([]typedesc.Descriptor, len(sig.Params)),
		Return:    closeOne(sig.Return, r, "return"),
		TypeArity: sig.TypeArity,
		SigArity:  sig.SigArity,
	}
	for i, p := range sig.Params {
		closed.Params[i] = closeOne(p, r, fmt.Sprintf("param %d", i))
	}
	return closed
}

func closeOne(d typedesc.Descriptor, r Result, where string) typedesc.Descriptor {
	if !d.IsGeneric() {
		return d
	}
	slots := r.TypeClosures
	if d.Param.Location == typedesc.LocationSignature {
		slots = r.SignatureClosures
	}
	pos := d.Param.Position
	bound := pos >= 0 && pos < len(slots) && slots[pos] != nil
	if !bound && r.isOpen(d.Param.Location, pos) {
		return d
	}
	if !bound {
		err := errors.New(errors.PhaseClose, errors.KindInternal).
			Path(where).
			Detail("generic slot %s is unbound", d).
			Build()
		Logger().Error("closure resolution failed", zap.Error(err))
		panic(err)
	}
	return d.WithType(slots[pos])
}
