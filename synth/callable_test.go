package synth

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/wippyai/sigbind/catalog"
	"github.com/wippyai/sigbind/errors"
	"github.com/wippyai/sigbind/typedesc"
)

func TestFunc_Coerces(t *testing.T) {
	c := newTestCache(t)
	add := method(c, "Add")
	ptrT := reflect.PointerTo(accountT)

	f, err := c.Func(add, []reflect.Type{ptrT, intT, intT}, false)
	if err != nil {
		t.Fatalf("Func: %v", err)
	}
	acct := &account{balance: 1}
	got, err := f(acct, 4)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != 5 {
		t.Errorf("Add = %#v, want int 5", got)
	}

	typed := Typed2[*account, int, int](f)
	n, err := typed(acct, 5)
	if err != nil || n != 10 {
		t.Errorf("typed Add = %v, %v, want 10", n, err)
	}

	if _, err := f(acct); !stderrors.Is(err, &errors.Error{Kind: errors.KindArity}) {
		t.Errorf("short call err = %v, want arity", err)
	}
	if _, err := f(acct, "x"); !stderrors.Is(err, &errors.Error{Kind: errors.KindTypeMismatch}) {
		t.Errorf("bad arg err = %v, want type mismatch", err)
	}
}

func TestFunc_CheckAssignable(t *testing.T) {
	c := newTestCache(t)
	stringerT := reflect.TypeFor[fmt.Stringer]()

	// *account is not a Stringer; any is assignable from *account.
	if _, err := c.Func(method(c, "Add"), []reflect.Type{stringerT, int64T, int64T}, true); !stderrors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Stringer receiver err = %v, want invalid request", err)
	}
	f, err := c.Func(method(c, "Add"), []reflect.Type{anyT, int64T, anyT}, true)
	if err != nil {
		t.Fatalf("Func: %v", err)
	}
	got, err := f(&account{balance: 2}, int64(3))
	if err != nil || got != int64(5) {
		t.Errorf("Add = %#v, %v, want int64 5", got, err)
	}
	if _, err := f(account{}, int64(1)); !stderrors.Is(err, &errors.Error{Kind: errors.KindTypeMismatch}) {
		t.Errorf("value receiver through any err = %v, want type mismatch", err)
	}
}

func TestFunc_DeclaredShapes(t *testing.T) {
	c := newTestCache(t)
	f, err := c.Func(method(c, "Add"), []reflect.Type{nil, nil, nil}, false)
	if err != nil {
		t.Fatalf("Func: %v", err)
	}
	got, err := f(&account{}, int64(3))
	if err != nil || got != int64(3) {
		t.Errorf("Add = %#v, %v, want int64 3", got, err)
	}
}

func TestFunc_Constructor(t *testing.T) {
	c := newTestCache(t)
	ctors := c.Catalog().Constructors(accountT)
	if len(ctors) != 1 {
		t.Fatalf("constructors = %d, want 1", len(ctors))
	}
	f, err := c.Func(ctors[0], []reflect.Type{stringT, intT, anyT}, false)
	if err != nil {
		t.Fatalf("Func: %v", err)
	}
	got, err := f("ann", 9)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	acct, ok := got.(*account)
	if !ok || acct.Owner != "ann" || acct.Limit != 9 {
		t.Errorf("constructed = %#v", got)
	}
}

func TestFunc_Validation(t *testing.T) {
	c := newTestCache(t)
	if err := c.Catalog().RegisterInitializer(accountT, func() {}); err != nil {
		t.Fatalf("RegisterInitializer: %v", err)
	}
	var static *catalog.Member
	for _, m := range c.Catalog().Constructors(accountT) {
		if m.Static {
			static = m
		}
	}
	owner, _ := c.Catalog().Field(accountT, "Owner")
	ptrT := reflect.PointerTo(accountT)

	tests := []struct {
		name   string
		member *catalog.Member
		shapes []reflect.Type
		check  bool
		want   errors.Kind
	}{
		{"nil member", nil, nil, false, errors.KindInvalidInput},
		{"static constructor", static, []reflect.Type{nil}, false, errors.KindInvalidRequest},
		{"no return value", method(c, "Deposit"), []reflect.Type{ptrT, int64T, int64T}, false, errors.KindInvalidRequest},
		{"count mismatch", method(c, "Add"), []reflect.Type{ptrT, intT}, false, errors.KindInvalidRequest},
		{"not assignable", method(c, "Add"), []reflect.Type{ptrT, stringT, int64T}, true, errors.KindInvalidRequest},
		{"accessor", owner, []reflect.Type{accountT, stringT}, false, errors.KindInvalidRequest},
		{"no conversion", method(c, "Add"), []reflect.Type{ptrT, stringT, int64T}, false, errors.KindSynthesisImpossible},
		{"too many shapes", method(c, "Add"), make([]reflect.Type, 20), false, errors.KindInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Func(tt.member, tt.shapes, tt.check)
			if !stderrors.Is(err, &errors.Error{Kind: tt.want}) {
				t.Errorf("err = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestFunc_ErrorsAndPanics(t *testing.T) {
	c := newTestCache(t)
	ptrT := reflect.PointerTo(accountT)

	deposit, err := c.Action(method(c, "Deposit"), []reflect.Type{ptrT, intT}, false)
	if err != nil {
		t.Fatalf("Action: %v", err)
	}
	acct := &account{}
	if err := deposit(acct, 5); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if acct.balance != 5 {
		t.Errorf("balance = %d, want 5", acct.balance)
	}
	if err := deposit(acct, -1); err == nil || err.Error() != "negative deposit -1" {
		t.Errorf("deposit(-1) err = %v, want the method's error", err)
	}

	explode, err := c.Func(method(c, "Explode"), []reflect.Type{ptrT, int64T}, false)
	if err != nil {
		t.Fatalf("Func: %v", err)
	}
	if _, err := explode(acct); !stderrors.Is(err, &errors.Error{Kind: errors.KindPanic}) {
		t.Errorf("panic err = %v, want panic kind", err)
	}
}

func TestFunc_Cached(t *testing.T) {
	c := newTestCache(t)
	shapes := []reflect.Type{reflect.PointerTo(accountT), intT, intT}
	if _, err := c.Func(method(c, "Add"), shapes, false); err != nil {
		t.Fatalf("Func: %v", err)
	}
	before := c.Stats()
	if _, err := c.Func(method(c, "Add"), shapes, false); err != nil {
		t.Fatalf("Func: %v", err)
	}
	after := c.Stats()
	if after.Compilations != before.Compilations || after.Callables != 1 {
		t.Errorf("stats = %+v after repeat, before %+v", after, before)
	}
}

func TestInstantiate(t *testing.T) {
	c := newTestCache(t)
	tmpl := catalog.Template{
		Name: "Echo",
		Signature: typedesc.Signature{
			Params:   []typedesc.Descriptor{typedesc.GenericParam("T", 0, typedesc.LocationSignature)},
			Return:   typedesc.GenericParam("T", 0, typedesc.LocationSignature),
			SigArity: 1,
		},
		Static: true,
		Instantiate: func(_, sigArgs []reflect.Type) (any, error) {
			ft := reflect.FuncOf([]reflect.Type{sigArgs[0]}, []reflect.Type{sigArgs[0]}, false)
			return reflect.MakeFunc(ft, func(args []reflect.Value) []reflect.Value { return args }).Interface(), nil
		},
	}
	if err := c.Catalog().RegisterGeneric(accountT, tmpl); err != nil {
		t.Fatalf("RegisterGeneric: %v", err)
	}
	generic := method(c, "Echo")

	if _, err := c.Func(generic, []reflect.Type{stringT, stringT}, false); !stderrors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Func on template err = %v, want invalid request", err)
	}

	a, err := c.Instantiate(generic, nil, []reflect.Type{stringT})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	b, _ := c.Instantiate(generic, nil, []reflect.Type{stringT})
	if a != b {
		t.Error("Instantiate should return the cached member")
	}
	f, err := c.Func(a, []reflect.Type{stringT, stringT}, true)
	if err != nil {
		t.Fatalf("Func: %v", err)
	}
	got, err := Typed1[string, string](f)("hi")
	if err != nil || got != "hi" {
		t.Errorf("Echo = %v, %v", got, err)
	}
}
