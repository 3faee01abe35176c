package synth

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/sigbind/catalog"
	"github.com/wippyai/sigbind/errors"
	"github.com/wippyai/sigbind/internal/numeric"
	"github.com/wippyai/sigbind/typedesc"
)

// BinaryFunc applies a binary operator.
type BinaryFunc func(a, b any) (any, error)

type binaryKey struct {
	op                  catalog.Op
	left, right, result reflect.Type
}

func (k binaryKey) String() string {
	return fmt.Sprintf("%s(%s, %s) %s", k.op, typeName(k.left), typeName(k.right), typeName(k.result))
}

var boolType = reflect.TypeFor[bool]()

// Binary returns a callable applying op to left and right operands and
// producing a result. Operators registered in the catalog for the left or
// right operand type win over the built-in ones. A missing operator is reported as an invalid request.
func (c *Cache) Binary(op catalog.Op, left, right, result reflect.Type) (BinaryFunc, error) {
	if left == nil || right == nil || result == nil {
		return nil, errors.InvalidInput(errors.PhaseOperator, "operand and result types are required")
	}
	key := binaryKey{op, left, right, result}
	return c.binaries.get(key, func() (BinaryFunc, error) {
		f, err := c.compileBinary(key)
		c.compiled("operator", key, err)
		return f, err
	})
}

func (c *Cache) AddFunc(t reflect.Type) (BinaryFunc, error)      { return c.Binary(catalog.OpAdd, t, t, t) }
func (c *Cache) SubtractFunc(t reflect.Type) (BinaryFunc, error) { return c.Binary(catalog.OpSubtract, t, t, t) }
func (c *Cache) MultiplyFunc(t reflect.Type) (BinaryFunc, error) { return c.Binary(catalog.OpMultiply, t, t, t) }
func (c *Cache) DivideFunc(t reflect.Type) (BinaryFunc, error)   { return c.Binary(catalog.OpDivide, t, t, t) }
func (c *Cache) ModuloFunc(t reflect.Type) (BinaryFunc, error)   { return c.Binary(catalog.OpModulo, t, t, t) }
func (c *Cache) AndFunc(t reflect.Type) (BinaryFunc, error)      { return c.Binary(catalog.OpAnd, t, t, t) }
func (c *Cache) OrFunc(t reflect.Type) (BinaryFunc, error)       { return c.Binary(catalog.OpOr, t, t, t) }
func (c *Cache) XorFunc(t reflect.Type) (BinaryFunc, error)      { return c.Binary(catalog.OpXor, t, t, t) }

func (c *Cache) EqualFunc(t reflect.Type) (BinaryFunc, error) {
	return c.Binary(catalog.OpEqual, t, t, boolType)
}

func (c *Cache) NotEqualFunc(t reflect.Type) (BinaryFunc, error) {
	return c.Binary(catalog.OpNotEqual, t, t, boolType)
}

func (c *Cache) LessThanFunc(t reflect.Type) (BinaryFunc, error) {
	return c.Binary(catalog.OpLessThan, t, t, boolType)
}

func (c *Cache) LessThanOrEqualFunc(t reflect.Type) (BinaryFunc, error) {
	return c.Binary(catalog.OpLessThanOrEqual, t, t, boolType)
}

func (c *Cache) GreaterThanFunc(t reflect.Type) (BinaryFunc, error) {
	return c.Binary(catalog.OpGreaterThan, t, t, boolType)
}

func (c *Cache) GreaterThanOrEqualFunc(t reflect.Type) (BinaryFunc, error) {
	return c.Binary(catalog.OpGreaterThanOrEqual, t, t, boolType)
}

func (c *Cache) AndAlsoFunc() (BinaryFunc, error) {
	return c.Binary(catalog.OpAndAlso, boolType, boolType, boolType)
}

func (c *Cache) OrElseFunc() (BinaryFunc, error) {
	return c.Binary(catalog.OpOrElse, boolType, boolType, boolType)
}

// OperandType returns the type both operands are converted to before a
// built-in numeric operator runs, after promotion of kernel-less kinds.
func (c *Cache) OperandType(left, right reflect.Type) (reflect.Type, bool) {
	if left == nil || right == nil || !numeric.IsNumeric(left.Kind()) || !numeric.IsNumeric(right.Kind()) {
		return nil, false
	}
	k := numeric.Operand(left.Kind(), right.Kind())
	if !hasKernels(k) {
		return c.promote, true
	}
	return numeric.Builtin(k), true
}

func (c *Cache) compileBinary(key binaryKey) (BinaryFunc, error) {
	if f, ok, err := c.userOperator(key); ok || err != nil {
		return f, err
	}

	op, left, right, result := key.op, key.left, key.right, key.result
	if op.IsComparison() && result.Kind() != reflect.Bool {
		return nil, c.noOperator(key, "comparison must produce a bool")
	}

	var operand reflect.Type
	switch {
	case numeric.IsNumeric(left.Kind()) && numeric.IsNumeric(right.Kind()):
		operand, _ = c.OperandType(left, right)
		if operand.Kind() != numeric.Operand(left.Kind(), right.Kind()) {
			Logger().Debug("operands promoted",
				zap.Stringer("op", op),
				zap.Stringer("left", left),
				zap.Stringer("right", right),
				zap.Stringer("operand", operand))
		}
	case left.Kind() == right.Kind() && (left.Kind() == reflect.String || left.Kind() == reflect.Bool):
		operand = numeric.Builtin(left.Kind())
	case left == right && left.Comparable() && (op == catalog.OpEqual || op == catalog.OpNotEqual):
		return equality(op, left), nil
	default:
		return nil, c.noOperator(key, "")
	}

	run, ok := lookupKernel(op, operand.Kind())
	if !ok {
		return nil, c.noOperator(key, "not defined on "+operand.String())
	}
	if !op.IsComparison() && !operand.ConvertibleTo(result) {
		return nil, c.noOperator(key, "result not convertible from "+operand.String())
	}
	if !op.IsComparison() && result.Kind() != operand.Kind() && !(numeric.IsNumeric(result.Kind()) && numeric.IsNumeric(operand.Kind())) {
		return nil, c.noOperator(key, "result kind "+result.Kind().String())
	}

	in := func(a any, t reflect.Type, side string) (any, error) {
		v := reflect.ValueOf(a)
		if !v.IsValid() {
			return nil, errors.InvalidInput(errors.PhaseOperator, side+" operand is nil")
		}
		if v.Type() != t && !v.Type().AssignableTo(t) && v.Kind() != t.Kind() {
			return nil, errors.TypeMismatch(errors.PhaseOperator, []string{side}, v.Type().String(), t.String())
		}
		return numeric.Wrap(v, operand).Interface(), nil
	}
	return func(a, b any) (any, error) {
		x, err := in(a, left, "left")
		if err != nil {
			return nil, err
		}
		y, err := in(b, right, "right")
		if err != nil {
			return nil, err
		}
		r, err := run(x, y)
		if err != nil {
			return nil, err
		}
		return numeric.Wrap(reflect.ValueOf(r), result).Interface(), nil
	}, nil
}

// userOperator looks for an operator registered in the catalog on one of
// the operand types.
func (c *Cache) userOperator(key binaryKey) (BinaryFunc, bool, error) {
	var members []*catalog.Member
	for _, m := range c.catalog.Operators(key.op) {
		if m.Declaring == key.left || m.Declaring == key.right {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return nil, false, nil
	}
	specs := typedesc.SpecsOf(key.result, key.left, key.right)
	sel, ok := c.matcher.BestMatch(catalog.Signatures(members), specs, 0, true, true)
	if !ok {
		return nil, false, nil
	}
	m := members[sel.Index]
	if m.IsGeneric() {
		inst, err := c.Instantiate(m, sel.Result.TypeClosures, sel.Result.SignatureClosures)
		if err != nil {
			return nil, false, err
		}
		m = inst
	}
	f, err := c.Func(m, []reflect.Type{key.left, key.right, key.result}, false)
	if err != nil {
		return nil, false, err
	}
	Logger().Debug("user operator selected", zap.Stringer("op", key.op), zap.Stringer("member", m))
	return func(a, b any) (any, error) { return f(a, b) }, true, nil
}

func equality(op catalog.Op, t reflect.Type) BinaryFunc {
	return func(a, b any) (res any, err error) {
		x, err := normalize(reflect.ValueOf(a), t)
		if err != nil {
			return nil, err
		}
		y, err := normalize(reflect.ValueOf(b), t)
		if err != nil {
			return nil, err
		}
		defer func() {
			if r := recover(); r != nil {
				err = errors.Panic(errors.PhaseOperator, op.String(), r)
			}
		}()
		eq := x.Equal(y)
		return eq == (op == catalog.OpEqual), nil
	}
}

func (c *Cache) noOperator(key binaryKey, why string) error {
	b := errors.New(errors.PhaseOperator, errors.KindInvalidRequest).GoType(typeName(key.result))
	if why != "" {
		return b.Detail("no %s operator for %s and %s: %s", key.op, key.left, key.right, why).Build()
	}
	return b.Detail("no %s operator for %s and %s", key.op, key.left, key.right).Build()
}
