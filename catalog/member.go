package catalog

import (
	"fmt"
	"reflect"

	"github.com/wippyai/sigbind/errors"
	"github.com/wippyai/sigbind/typedesc"
)

// MemberKind classifies a catalog member.
type MemberKind uint8

const (
	KindField MemberKind = iota
	KindProperty
	KindMethod
	KindConstructor
	KindOperator
	KindConversion
)

func (k MemberKind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindProperty:
		return "property"
	case KindMethod:
		return "method"
	case KindConstructor:
		return "constructor"
	case KindOperator:
		return "operator"
	case KindConversion:
		return "conversion"
	default:
		return fmt.Sprintf("MemberKind(%d)", k)
	}
}

// InstantiateFunc produces the concrete function value of a generic template
// for the given type-local and signature-local type arguments.
type InstantiateFunc func(typeArgs, sigArgs []reflect.Type) (any, error)

// Template declares a generic member. Signature uses typedesc.GenericParam
// descriptors for its slots and must declare matching arities.
type Template struct {
	Instantiate InstantiateFunc
	Name        string
	Signature   typedesc.Signature
	Static      bool
}

// Member is an immutable description of one field, property, method,
// constructor, operator or conversion.
//
// Instance members take their receiver as the first parameter, so the
// signature of a method is the signature of its method expression.
type Member struct {
	Declaring   reflect.Type
	fn          reflect.Value
	getter      reflect.Value
	setter      reflect.Value
	instantiate InstantiateFunc
	Name        string
	Signature   typedesc.Signature
	index       []int
	Kind        MemberKind
	Op          Op
	Static      bool
	returnsErr  bool
}

// Func returns the callable function value. It is invalid for fields,
// properties and uninstantiated templates.
func (m *Member) Func() reflect.Value { return m.fn }

// IsGeneric reports whether m is an uninstantiated template.
func (m *Member) IsGeneric() bool { return m.instantiate != nil }

// ReturnsError reports whether the function's last result is an error.
func (m *Member) ReturnsError() bool { return m.returnsErr }

// FieldIndex returns the reflect field index path of a field member.
func (m *Member) FieldIndex() []int { return m.index }

// Accessors returns the getter and setter method expressions of a property.
// Either may be invalid.
func (m *Member) Accessors() (get, set reflect.Value) { return m.getter, m.setter }

// ValueType returns the value type of a field or property.
func (m *Member) ValueType() reflect.Type { return m.Signature.Return.Type }

func (m *Member) String() string {
	if m.Declaring != nil {
		return fmt.Sprintf("%s %s.%s%s", m.Kind, m.Declaring, m.Name, m.Signature)
	}
	return fmt.Sprintf("%s %s%s", m.Kind, m.Name, m.Signature)
}

// Instantiate closes a template with concrete type arguments.
// A non-generic member is returned unchanged.
func (m *Member) Instantiate(typeArgs, sigArgs []reflect.Type) (*Member, error) {
	if m.instantiate == nil {
		return m, nil
	}
	if len(typeArgs) != m.Signature.TypeArity || len(sigArgs) != m.Signature.SigArity {
		return nil, errors.New(errors.PhaseClose, errors.KindArity).
			Detail("%s expects %d type and %d signature argument(s), got %d and %d",
				m.Name, m.Signature.TypeArity, m.Signature.SigArity, len(typeArgs), len(sigArgs)).
			Build()
	}
	for i, t := range typeArgs {
		if t == nil {
			return nil, errors.Internal(errors.PhaseClose, fmt.Sprintf("%s: type argument %d is unbound", m.Name, i))
		}
	}
	for i, t := range sigArgs {
		if t == nil {
			return nil, errors.Internal(errors.PhaseClose, fmt.Sprintf("%s: signature argument %d is unbound", m.Name, i))
		}
	}

	raw, err := m.instantiate(typeArgs, sigArgs)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseClose, errors.KindInvalidRequest, err, "instantiate "+m.Name)
	}
	fn := reflect.ValueOf(raw)
	if fn.Kind() != reflect.Func {
		return nil, errors.New(errors.PhaseClose, errors.KindTypeMismatch).
			GoType(fmt.Sprintf("%T", raw)).
			Detail("%s instantiation must return a function", m.Name).
			Build()
	}

	sig := typedesc.SignatureOf(fn.Type())
	if len(sig.Params) != len(m.Signature.Params) {
		return nil, errors.New(errors.PhaseClose, errors.KindArity).
			GoType(fn.Type().String()).
			Detail("%s instantiation has %d parameter(s), template declares %d", m.Name, len(sig.Params), len(m.Signature.Params)).
			Build()
	}

	return &Member{
		Declaring:  m.Declaring,
		fn:         fn,
		Name:       m.Name,
		Signature:  sig,
		Kind:       m.Kind,
		Op:         m.Op,
		Static:     m.Static,
		returnsErr: returnsError(fn.Type()),
	}, nil
}

var errorType = reflect.TypeFor[error]()

func returnsError(fn reflect.Type) bool {
	n := fn.NumOut()
	return n > 0 && fn.Out(n-1) == errorType
}

// validateFunc checks that fn is a function with at most one result besides
// a trailing error.
func validateFunc(fn any, what string) (reflect.Value, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return reflect.Value{}, errors.New(errors.PhaseRegister, errors.KindTypeMismatch).
			GoType(fmt.Sprintf("%T", fn)).
			Detail("%s must be a function", what).
			Build()
	}
	ft := rv.Type()
	outs := ft.NumOut()
	if returnsError(ft) {
		outs--
	}
	if outs > 1 {
		return reflect.Value{}, errors.New(errors.PhaseRegister, errors.KindInvalidRequest).
			GoType(ft.String()).
			Detail("%s may return at most one value besides an error", what).
			Build()
	}
	return rv, nil
}
