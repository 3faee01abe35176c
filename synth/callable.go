package synth

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/sigbind/catalog"
	"github.com/wippyai/sigbind/config"
	"github.com/wippyai/sigbind/errors"
)

// Func is a synthesized value-returning call.
type Func func(args ...any) (any, error)

// Action is a synthesized call whose result, if any, is discarded.
type Action func(args ...any) error

type shapeKey [config.MaxArityLimit + 1]reflect.Type

type callKey struct {
	member *catalog.Member
	shapes shapeKey
	n      int
	check  bool
}

func (k callKey) String() string {
	parts := make([]string, k.n)
	for i := range parts {
		parts[i] = typeName(k.shapes[i])
	}
	return fmt.Sprintf("%s as %v", k.member, parts)
}

type instanceKey struct {
	member   *catalog.Member
	typeArgs shapeKey
	sigArgs  shapeKey
	nt, ns   int
}

func (k instanceKey) String() string {
	return fmt.Sprintf("%s[%d;%d]", k.member, k.nt, k.ns)
}

// Func returns a callable for m coerced to shapes: one shape per parameter
// followed by the return shape. A nil shape keeps the declared type. With
// checkAssignable every requested shape must be assignable to or from the
// declared one.
func (c *Cache) Func(m *catalog.Member, shapes []reflect.Type, checkAssignable bool) (Func, error) {
	key, err := c.callKey(m, shapes, checkAssignable)
	if err != nil {
		return nil, err
	}
	return c.funcs.get(key, func() (Func, error) {
		f, err := c.compileCall(m, shapes, true, checkAssignable)
		c.compiled("func", key, err)
		return f, err
	})
}

// Action returns a callable for m coerced to the parameter shapes. A
// member's return value is dropped.
func (c *Cache) Action(m *catalog.Member, params []reflect.Type, checkAssignable bool) (Action, error) {
	key, err := c.callKey(m, params, checkAssignable)
	if err != nil {
		return nil, err
	}
	return c.actions.get(key, func() (Action, error) {
		f, err := c.compileCall(m, params, false, checkAssignable)
		c.compiled("action", key, err)
		if err != nil {
			return nil, err
		}
		return func(args ...any) error {
			_, err := f(args...)
			return err
		}, nil
	})
}

func (c *Cache) callKey(m *catalog.Member, shapes []reflect.Type, check bool) (callKey, error) {
	if m == nil {
		return callKey{}, errors.InvalidInput(errors.PhaseSynth, "nil member")
	}
	if len(shapes) > len(shapeKey{}) || len(shapes) > c.opts.MaxArity+1 {
		return callKey{}, errors.InvalidRequest(errors.PhaseSynth,
			fmt.Sprintf("%s: %d shapes exceed the maximum arity %d", m.Name, len(shapes), c.opts.MaxArity))
	}
	key := callKey{member: m, n: len(shapes), check: check}
	copy(key.shapes[:], shapes)
	return key, nil
}

func (c *Cache) compileCall(m *catalog.Member, shapes []reflect.Type, value, check bool) (Func, error) {
	sig := m.Signature
	switch {
	case m.IsGeneric():
		return nil, errors.InvalidRequest(errors.PhaseSynth, m.Name+" is generic and must be instantiated first")
	case m.Kind == catalog.KindConstructor && m.Static:
		return nil, errors.InvalidRequest(errors.PhaseSynth, m.Name+" is a static constructor")
	case m.Kind == catalog.KindField || m.Kind == catalog.KindProperty:
		return nil, errors.InvalidRequest(errors.PhaseSynth, m.Name+" is an accessor, not a callable")
	case value && sig.Return.IsZero():
		return nil, errors.InvalidRequest(errors.PhaseSynth, m.Name+" has no return value")
	}

	params := shapes
	var ret reflect.Type
	if value {
		if len(shapes) == 0 {
			return nil, errors.InvalidRequest(errors.PhaseSynth, m.Name+": missing return shape")
		}
		params, ret = shapes[:len(shapes)-1], shapes[len(shapes)-1]
	}
	if len(params) != len(sig.Params) {
		return nil, errors.New(errors.PhaseSynth, errors.KindInvalidRequest).
			Detail("%s takes %d parameter(s), %d shape(s) requested", m.Name, len(sig.Params), len(params)).
			Build()
	}

	in := make([]*converter, len(params))
	for i, want := range params {
		declared := sig.Params[i].Reflect()
		if want == nil {
			want = declared
		}
		if check && !c.catalog.AssignableTo(want, declared) && !c.catalog.AssignableTo(declared, want) {
			return nil, errors.New(errors.PhaseSynth, errors.KindInvalidRequest).
				Path("param", fmt.Sprint(i)).
				Detail("%s is not assignable to or from %s", want, declared).
				Build()
		}
		cv := c.converter(ConversionKey{DeclaredIn: want, RequestedIn: want, RequestedOut: declared, DeclaredOut: declared})
		if cv == nil {
			return nil, errors.New(errors.PhaseSynth, errors.KindSynthesisImpossible).
				Path("param", fmt.Sprint(i)).
				GoType(declared.String()).
				Detail("no conversion from %s", want).
				Build()
		}
		in[i] = cv
	}

	var out *converter
	if value {
		declared := sig.Return.Reflect()
		if ret == nil {
			ret = declared
		}
		if check && !c.catalog.AssignableTo(ret, declared) && !c.catalog.AssignableTo(declared, ret) {
			return nil, errors.New(errors.PhaseSynth, errors.KindInvalidRequest).
				Path("return").
				Detail("%s is not assignable to or from %s", ret, declared).
				Build()
		}
		out = c.converter(ConversionKey{DeclaredIn: declared, RequestedIn: declared, RequestedOut: ret, DeclaredOut: ret})
		if out == nil {
			return nil, errors.New(errors.PhaseSynth, errors.KindSynthesisImpossible).
				Path("return").
				GoType(ret.String()).
				Detail("no conversion from %s", declared).
				Build()
		}
	}

	return func(args ...any) (any, error) {
		if len(args) != len(in) {
			return nil, errors.Arity(errors.PhaseInvoke, len(in), len(args))
		}
		vals := make([]reflect.Value, len(in))
		for i, a := range args {
			v, err := in[i].convert(reflect.ValueOf(a))
			if err != nil {
				return nil, wrapArg(err, i)
			}
			vals[i] = v
		}
		res, err := invoke(m, vals)
		if err != nil || out == nil {
			return nil, err
		}
		res, err = out.convert(res)
		if err != nil {
			return nil, err
		}
		return res.Interface(), nil
	}, nil
}

// invoke calls m with exact-typed arguments. It returns the first result,
// if any, and the trailing error result. Panics become errors.
func invoke(m *catalog.Member, args []reflect.Value) (res reflect.Value, err error) {
	fn := m.Func()
	defer func() {
		if r := recover(); r != nil {
			Logger().Warn("panic in synthesized call", zap.String("member", m.Name), zap.Any("recovered", r))
			err = errors.Panic(errors.PhaseInvoke, m.Name, r)
		}
	}()
	var out []reflect.Value
	if fn.Type().IsVariadic() {
		out = fn.CallSlice(args)
	} else {
		out = fn.Call(args)
	}
	if m.ReturnsError() {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			return reflect.Value{}, last.Interface().(error)
		}
	}
	if len(out) > 0 {
		res = out[0]
	}
	return res, nil
}

func wrapArg(err error, i int) error {
	if e, ok := err.(*errors.Error); ok && len(e.Path) == 0 {
		cp := *e
		cp.Path = []string{"arg", fmt.Sprint(i)}
		return &cp
	}
	return err
}

// Instantiate closes a generic member with concrete arguments, once per
// distinct argument list. Non-generic members are returned unchanged.
func (c *Cache) Instantiate(m *catalog.Member, typeArgs, sigArgs []reflect.Type) (*catalog.Member, error) {
	if m == nil {
		return nil, errors.InvalidInput(errors.PhaseClose, "nil member")
	}
	if !m.IsGeneric() {
		return m, nil
	}
	if len(typeArgs) > len(shapeKey{}) || len(sigArgs) > len(shapeKey{}) {
		return nil, errors.InvalidRequest(errors.PhaseClose, m.Name+": too many type arguments")
	}
	key := instanceKey{member: m, nt: len(typeArgs), ns: len(sigArgs)}
	copy(key.typeArgs[:], typeArgs)
	copy(key.sigArgs[:], sigArgs)
	return c.instances.get(key, func() (*catalog.Member, error) {
		inst, err := m.Instantiate(typeArgs, sigArgs)
		c.compiled("instance", key, err)
		return inst, err
	})
}
