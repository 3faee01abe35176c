package sigbind

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/wippyai/sigbind/catalog"
	"github.com/wippyai/sigbind/config"
	"github.com/wippyai/sigbind/errors"
	"github.com/wippyai/sigbind/synth"
	"github.com/wippyai/sigbind/typedesc"
)

type ledger struct {
	entries []int64
}

func (l *ledger) Post(amount int64) { l.entries = append(l.entries, amount) }

func (l *ledger) Total() int64 {
	var sum int64
	for _, e := range l.entries {
		sum += e
	}
	return sum
}

func newLedger(n int) *ledger { return &ledger{entries: make([]int64, 0, n)} }

var (
	ledgerT  = reflect.TypeFor[ledger]()
	ledgerP  = reflect.TypeFor[*ledger]()
	intT     = reflect.TypeFor[int]()
	int64T   = reflect.TypeFor[int64]()
	float64T = reflect.TypeFor[float64]()
	stringT  = reflect.TypeFor[string]()
	boolT    = reflect.TypeFor[bool]()
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(config.DefaultOptions())
	cat := e.Catalog()
	if err := cat.RegisterFunc(ledgerT, "Scale", func(a, b int64) int64 { return a * b }); err != nil {
		t.Fatalf("RegisterFunc: %v", err)
	}
	if err := cat.RegisterFunc(ledgerT, "Scale", func(a, b float64) float64 { return a * b }); err != nil {
		t.Fatalf("RegisterFunc: %v", err)
	}
	if err := cat.RegisterConstructor(ledgerT, newLedger); err != nil {
		t.Fatalf("RegisterConstructor: %v", err)
	}
	identity := catalog.Template{
		Name: "Identity",
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
	if err := cat.RegisterGeneric(ledgerT, identity); err != nil {
		t.Fatalf("RegisterGeneric: %v", err)
	}
	isZero := catalog.Template{
		Name: "IsZero",
		Signature: typedesc.Signature{
			Params:    []typedesc.Descriptor{typedesc.GenericParam("T", 0, typedesc.LocationType)},
			Return:    typedesc.Of(boolT),
			TypeArity: 1,
		},
		Static: true,
		Instantiate: func(typeArgs, _ []reflect.Type) (any, error) {
			ft := reflect.FuncOf([]reflect.Type{typeArgs[0]}, []reflect.Type{boolT}, false)
			return reflect.MakeFunc(ft, func(args []reflect.Value) []reflect.Value {
				return []reflect.Value{reflect.ValueOf(args[0].IsZero())}
			}).Interface(), nil
		},
	}
	if err := cat.RegisterGeneric(ledgerT, isZero); err != nil {
		t.Fatalf("RegisterGeneric: %v", err)
	}
	return e
}

func TestResolve_Overloads(t *testing.T) {
	e := newEngine(t)
	tests := []struct {
		name      string
		specs     []typedesc.Spec
		allowCast bool
		a, b      any
		want      any
	}{
		{"exact int64", typedesc.SpecsOf(int64T, int64T, int64T), false, int64(3), int64(4), int64(12)},
		{"exact float64", typedesc.SpecsOf(float64T, float64T, float64T), false, 1.5, 2.0, 3.0},
		{"casts pick fewest", typedesc.SpecsOf(int64T, intT, intT), true, 3, 5, int64(15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := e.Resolve(ledgerT, "Scale", tt.specs, 0, false, tt.allowCast)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			got, err := f(tt.a, tt.b)
			if err != nil {
				t.Fatalf("call: %v", err)
			}
			if got != tt.want {
				t.Errorf("Scale(%v, %v) = %#v, want %#v", tt.a, tt.b, got, tt.want)
			}
		})
	}

	_, err := e.Resolve(ledgerT, "Scale", typedesc.SpecsOf(int64T, intT, intT), 0, false, false)
	if !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("casts disallowed err = %v, want not found", err)
	}
}

func TestResolve_SignatureClosure(t *testing.T) {
	e := newEngine(t)
	specs := []typedesc.Spec{typedesc.Exact(stringT), typedesc.Exact(stringT)}

	f, err := e.Resolve(ledgerT, "Identity", specs, 1, true, false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	got, err := synth.Typed1[string, string](f)("echo")
	if err != nil || got != "echo" {
		t.Errorf("Identity = %v, %v, want echo", got, err)
	}

	if _, err := e.Resolve(ledgerT, "Identity", specs, 1, false, false); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("closures disallowed err = %v, want not found", err)
	}
	if _, err := e.Resolve(ledgerT, "Identity", specs, 0, true, false); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("wrong arity err = %v, want not found", err)
	}
}

func TestResolve_TypeClosure(t *testing.T) {
	e := newEngine(t)
	f, err := e.Resolve(ledgerT, "IsZero", typedesc.SpecsOf(boolT, intT), 0, true, false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	isZero := synth.Typed1[int, bool](f)
	if got, _ := isZero(0); !got {
		t.Error("IsZero(0) = false")
	}
	if got, _ := isZero(7); got {
		t.Error("IsZero(7) = true")
	}
}

func TestResolve_VoidMethod(t *testing.T) {
	e := newEngine(t)
	post, err := e.Resolve(ledgerT, "Post", typedesc.SpecsOf(nil, ledgerP, intT), 0, false, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	l := &ledger{}
	if got, err := post(l, 40); err != nil || got != nil {
		t.Fatalf("post = %v, %v", got, err)
	}
	if _, err := post(l, 2); err != nil {
		t.Fatalf("post: %v", err)
	}
	if l.Total() != 42 {
		t.Errorf("Total = %d, want 42", l.Total())
	}
}

func TestResolveConstructor(t *testing.T) {
	e := newEngine(t)
	if err := e.Catalog().RegisterInitializer(ledgerT, func() {}); err != nil {
		t.Fatalf("RegisterInitializer: %v", err)
	}
	ctor, err := e.ResolveConstructor(ledgerT, typedesc.SpecsOf(ledgerP, intT), false)
	if err != nil {
		t.Fatalf("ResolveConstructor: %v", err)
	}
	got, err := ctor(8)
	if err != nil {
		t.Fatalf("ctor: %v", err)
	}
	if l, ok := got.(*ledger); !ok || cap(l.entries) != 8 {
		t.Errorf("ctor(8) = %#v", got)
	}

	if _, err := e.ResolveConstructor(stringT, typedesc.SpecsOf(stringT), false); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("no constructors err = %v, want not found", err)
	}
}

func TestResolve_NotFound(t *testing.T) {
	e := newEngine(t)
	if _, err := e.Resolve(ledgerT, "Missing", typedesc.SpecsOf(nil), 0, true, true); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing method err = %v", err)
	}
	if _, err := e.Resolve(nil, "Post", nil, 0, true, true); !stderrors.Is(err, &errors.Error{Kind: errors.KindInvalidInput}) {
		t.Errorf("nil type err = %v", err)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigbind.toml")
	if err := os.WriteFile(path, []byte("promote_to = \"int64\"\nlog_level = \"warn\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	e, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	if got := e.Options().PromoteTo; got != "int64" {
		t.Errorf("PromoteTo = %q, want int64", got)
	}
	if got, _ := e.Cache().OperandType(reflect.TypeFor[int8](), reflect.TypeFor[int8]()); got != int64T {
		t.Errorf("OperandType = %v, want int64", got)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Open(missing) should fail")
	}
}

func TestResolve_OpenSlotRejected(t *testing.T) {
	e := newEngine(t)
	pair := catalog.Template{
		Name: "Pair",
		Signature: typedesc.Signature{
			Params: []typedesc.Descriptor{
				typedesc.GenericParam("K", 0, typedesc.LocationType),
				typedesc.GenericParam("V", 1, typedesc.LocationType),
			},
			TypeArity: 2,
		},
		Static: true,
		Instantiate: func(typeArgs, _ []reflect.Type) (any, error) {
			ft := reflect.FuncOf(typeArgs, nil, false)
			return reflect.MakeFunc(ft, func([]reflect.Value) []reflect.Value { return nil }).Interface(), nil
		},
	}
	if err := e.Catalog().RegisterGeneric(ledgerT, pair); err != nil {
		t.Fatalf("RegisterGeneric: %v", err)
	}

	open := []typedesc.Spec{typedesc.Exact(intT), typedesc.Slot(typedesc.LocationType).At(1), typedesc.Void()}
	if _, err := e.Resolve(ledgerT, "Pair", open, 0, true, false); !stderrors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("open slot err = %v, want invalid request", err)
	}

	f, err := e.Resolve(ledgerT, "Pair", typedesc.SpecsOf(nil, intT, stringT), 0, true, false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := f(1, "one"); err != nil {
		t.Errorf("Pair(1, one): %v", err)
	}
}
