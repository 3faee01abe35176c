package sigbind

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/sigbind/catalog"
	"github.com/wippyai/sigbind/config"
	"github.com/wippyai/sigbind/errors"
	"github.com/wippyai/sigbind/match"
	"github.com/wippyai/sigbind/synth"
	"github.com/wippyai/sigbind/typedesc"
)

// Engine owns a catalog and the synthesis cache compiled from it.
type Engine struct {
	catalog *catalog.Catalog
	cache   *synth.Cache
	opts    config.Options
}

func New(opts config.Options) *Engine {
	cat := catalog.New()
	cache := synth.New(cat, opts)
	return &Engine{
		catalog: cat,
		cache:   cache,
		opts:    cache.Options(),
	}
}

// Open loads options from a TOML file, installs the configured logger and
// builds an engine.
func Open(path string) (*Engine, error) {
	opts, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log, err := opts.NewLogger()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "build logger")
	}
	SetLogger(log)
	return New(opts), nil
}

// SetLogger installs l for matching and synthesis.
func SetLogger(l *zap.Logger) {
	match.SetLogger(l)
	synth.SetLogger(l)
}

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }
func (e *Engine) Matcher() *match.Matcher   { return e.cache.Matcher() }
func (e *Engine) Cache() *synth.Cache       { return e.cache }
func (e *Engine) Options() config.Options   { return e.opts }

// Resolve picks the overload of declaring's method name that best matches
// specs and returns it as a callable. Specs list the parameters, receiver
// first, then the return; locator specs take the bound type. Methods
// without a return value produce a nil result.
func (e *Engine) Resolve(declaring reflect.Type, name string, specs []typedesc.Spec, arity int, allowClosure, allowCasts bool) (synth.Func, error) {
	if declaring == nil {
		return nil, errors.InvalidInput(errors.PhaseMatch, "nil declaring type")
	}
	members := e.catalog.Methods(declaring, name)
	if len(members) == 0 {
		return nil, errors.NotFound(errors.PhaseMatch, "method", declaring.String()+"."+name)
	}
	return e.bind(members, declaring.String()+"."+name, specs, arity, allowClosure, allowCasts)
}

// ResolveConstructor picks the constructor of declaring that best matches
// specs.
func (e *Engine) ResolveConstructor(declaring reflect.Type, specs []typedesc.Spec, allowCasts bool) (synth.Func, error) {
	if declaring == nil {
		return nil, errors.InvalidInput(errors.PhaseMatch, "nil declaring type")
	}
	var members []*catalog.Member
	for _, m := range e.catalog.Constructors(declaring) {
		if !m.Static {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return nil, errors.NotFound(errors.PhaseMatch, "constructor", declaring.String())
	}
	return e.bind(members, "new "+declaring.String(), specs, 0, false, allowCasts)
}

func (e *Engine) bind(members []*catalog.Member, what string, specs []typedesc.Spec, arity int, allowClosure, allowCasts bool) (synth.Func, error) {
	sel, ok := e.Matcher().BestMatch(catalog.Signatures(members), specs, arity, allowClosure, allowCasts)
	if !ok {
		return nil, errors.New(errors.PhaseMatch, errors.KindNotFound).
			Detail("no overload of %s matches %v", what, specs).
			Build()
	}

	if sel.Signature.IsGeneric() {
		return nil, errors.New(errors.PhaseMatch, errors.KindInvalidRequest).
			Detail("%s%s leaves generic slots %v unbound; use concrete specs to instantiate it",
				what, sel.Declared, sel.Result.Open).
			Build()
	}

	m, err := e.cache.Instantiate(members[sel.Index], sel.Result.TypeClosures, sel.Result.SignatureClosures)
	if err != nil {
		return nil, err
	}

	sig := sel.Signature
	params := make([]reflect.Type, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = requested(specs[i], p)
	}
	if sig.Return.IsZero() {
		act, err := e.cache.Action(m, params, false)
		if err != nil {
			return nil, err
		}
		return func(args ...any) (any, error) { return nil, act(args...) }, nil
	}
	shapes := append(params, requested(specs[len(specs)-1], sig.Return))
	return e.cache.Func(m, shapes, false)
}

// requested is the type a caller supplies for one position: the spec's
// concrete type, or the closed declared type for locators and void specs.
func requested(s typedesc.Spec, closed typedesc.Descriptor) reflect.Type {
	if t := s.Reflect(); t != nil {
		return t
	}
	return closed.Reflect()
}
