package match

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/wippyai/sigbind/errors"
	"github.com/wippyai/sigbind/typedesc"
)

func TestBestMatch_PrefersConcrete(t *testing.T) {
	m := New(nil)
	candidates := []typedesc.Signature{
		{Params: []typedesc.Descriptor{typeSlot(0)}, Return: typedesc.Of(boolT), TypeArity: 1},
		{Params: []typedesc.Descriptor{typedesc.Of(int64T)}, Return: typedesc.Of(boolT)},
		{Params: []typedesc.Descriptor{typedesc.Of(intT)}, Return: typedesc.Of(boolT)},
	}
	sel, ok := m.BestMatch(candidates, typedesc.SpecsOf(boolT, intT), 0, true, true)
	if !ok {
		t.Fatal("BestMatch found nothing")
	}
	if sel.Index != 2 {
		t.Errorf("Index = %d, want 2 (exact, no closures)", sel.Index)
	}
}

func TestBestMatch_ClosurePriorityOverCasts(t *testing.T) {
	m := New(nil)
	candidates := []typedesc.Signature{
		// Needs a type closure but no cast.
		{Params: []typedesc.Descriptor{typeSlot(0)}, Return: typedesc.Of(boolT), TypeArity: 1},
		// Needs a cast but no closure.
		{Params: []typedesc.Descriptor{typedesc.Of(int64T)}, Return: typedesc.Of(boolT)},
	}
	sel, ok := m.BestMatch(candidates, typedesc.SpecsOf(boolT, intT), 0, true, true)
	if !ok || sel.Index != 1 {
		t.Fatalf("Index = %d, ok=%v, want 1", sel.Index, ok)
	}

	// A type-local closure weighs more than a signature-local one.
	candidates = []typedesc.Signature{
		{Params: []typedesc.Descriptor{typeSlot(0)}, Return: typedesc.Of(boolT), TypeArity: 1, SigArity: 1},
		{Params: []typedesc.Descriptor{sigSlot(0)}, Return: typedesc.Of(boolT), SigArity: 1},
	}
	sel, ok = m.BestMatch(candidates, typedesc.SpecsOf(boolT, intT), 1, true, true)
	if !ok || sel.Index != 1 {
		t.Fatalf("Index = %d, ok=%v, want 1", sel.Index, ok)
	}
	if sel.Signature.Params[0].Type != intT {
		t.Errorf("closed param = %v, want int", sel.Signature.Params[0])
	}
}

func TestBestMatch_Filters(t *testing.T) {
	m := New(nil)
	candidates := []typedesc.Signature{
		{Params: []typedesc.Descriptor{typeSlot(0)}, Return: typedesc.Of(boolT), TypeArity: 1},
		{Params: []typedesc.Descriptor{typedesc.Of(int64T)}, Return: typedesc.Of(boolT)},
	}
	specs := typedesc.SpecsOf(boolT, intT)

	sel, ok := m.BestMatch(candidates, specs, 0, false, true)
	if !ok || sel.Index != 1 {
		t.Errorf("allowClosure=false: Index = %d, ok=%v, want 1", sel.Index, ok)
	}
	sel, ok = m.BestMatch(candidates, specs, 0, true, false)
	if !ok || sel.Index != 0 {
		t.Errorf("allowCasts=false: Index = %d, ok=%v, want 0", sel.Index, ok)
	}
	if _, ok := m.BestMatch(candidates, specs, 0, false, false); ok {
		t.Error("no candidate survives both filters")
	}
	if _, ok := m.BestMatch(nil, specs, 0, true, true); ok {
		t.Error("empty candidate list should not match")
	}
}

func TestBestMatch_Deterministic(t *testing.T) {
	m := New(nil)
	same := typedesc.Signature{Params: []typedesc.Descriptor{typedesc.Of(int64T)}, Return: typedesc.Of(int64T)}
	candidates := []typedesc.Signature{same, same, same}
	for i := 0; i < 50; i++ {
		sel, ok := m.BestMatch(candidates, typedesc.SpecsOf(intT, intT), 0, true, true)
		if !ok || sel.Index != 0 {
			t.Fatalf("run %d: Index = %d, want 0 (first wins ties)", i, sel.Index)
		}
	}
}

func TestClose_Idempotent(t *testing.T) {
	sig := typedesc.Signature{
		Params: []typedesc.Descriptor{typedesc.Of(intT).Ref(), typedesc.Of(stringT)},
		Return: typedesc.Of(boolT),
	}
	closed := Close(sig, nil, nil)
	if !closed.Equal(sig) {
		t.Errorf("Close = %v, want %v unchanged", closed, sig)
	}
	if !Close(closed, nil, nil).Equal(sig) {
		t.Error("closing twice should still be unchanged")
	}
}

func TestClose_PreservesWrapping(t *testing.T) {
	sig := typedesc.Signature{
		Params:    []typedesc.Descriptor{typeSlot(0).Ref(), sigSlot(0).Pointer()},
		TypeArity: 1,
		SigArity:  1,
	}
	closed := Close(sig, []reflect.Type{intT}, []reflect.Type{stringT})
	if !closed.Params[0].IsByRef() || closed.Params[0].Type != intT {
		t.Errorf("param 0 = %v, want int&", closed.Params[0])
	}
	if !closed.Params[1].IsPointer() || closed.Params[1].Type != stringT {
		t.Errorf("param 1 = %v, want string*", closed.Params[1])
	}
}

func TestClose_UnboundPanics(t *testing.T) {
	sig := typedesc.Signature{
		Params:    []typedesc.Descriptor{typeSlot(0)},
		TypeArity: 1,
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Close with an unbound slot should panic")
		}
		err, ok := r.(error)
		if !ok || !stderrors.Is(err, errors.ErrInternal) {
			t.Errorf("panic value = %v, want internal error", r)
		}
	}()
	Close(sig, []reflect.Type{nil}, nil)
}

func TestBestMatch_LocatorSlotStaysOpen(t *testing.T) {
	m := New(nil)
	candidates := []typedesc.Signature{
		{Params: []typedesc.Descriptor{typeSlot(0), typeSlot(1)}, TypeArity: 2},
	}
	specs := []typedesc.Spec{
		typedesc.Exact(intT),
		typedesc.Slot(typedesc.LocationType).At(1),
		typedesc.Void(),
	}
	sel, ok := m.BestMatch(candidates, specs, 0, true, false)
	if !ok {
		t.Fatal("BestMatch found nothing")
	}
	if got := sel.Signature.Params[0]; got.IsGeneric() || got.Type != intT {
		t.Errorf("param 0 = %v, want int", got)
	}
	if got := sel.Signature.Params[1]; !got.IsGeneric() || got.Param.Position != 1 {
		t.Errorf("param 1 = %v, want the open slot T!1", got)
	}
	want := []Slot{{Location: typedesc.LocationType, Position: 1}}
	if !reflect.DeepEqual(sel.Result.Open, want) {
		t.Errorf("Open = %v, want %v", sel.Result.Open, want)
	}
}
