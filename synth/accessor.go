package synth

import (
	"reflect"

	"github.com/wippyai/sigbind/errors"
)

// Getter reads a field or property from target.
type Getter func(target any) (any, error)

// Setter writes a field or property of target. Target must be a pointer.
type Setter func(target, value any) error

type accessorKey struct {
	declaring reflect.Type
	name      string
}

func (k accessorKey) String() string { return typeName(k.declaring) + "." + k.name }

// Getter returns a getter for the field or property name of declaring.
// Fields are preferred over properties.
func (c *Cache) Getter(declaring reflect.Type, name string) (Getter, bool) {
	key := accessorKey{declaring, name}
	g, _ := c.getters.get(key, func() (Getter, error) {
		g := c.compileGetter(declaring, name)
		c.compiled("getter", key, absent(g == nil, declaring, name))
		return g, nil
	})
	return g, g != nil
}

// Setter returns a setter for the field or property name of declaring.
func (c *Cache) Setter(declaring reflect.Type, name string) (Setter, bool) {
	key := accessorKey{declaring, name}
	s, _ := c.setters.get(key, func() (Setter, error) {
		s := c.compileSetter(declaring, name)
		c.compiled("setter", key, absent(s == nil, declaring, name))
		return s, nil
	})
	return s, s != nil
}

func absent(missing bool, t reflect.Type, name string) error {
	if !missing {
		return nil
	}
	return errors.NotFound(errors.PhaseSynth, "accessor", typeName(t)+"."+name)
}

func (c *Cache) compileGetter(declaring reflect.Type, name string) Getter {
	if declaring == nil {
		return nil
	}
	if f, ok := c.catalog.Field(declaring, name); ok {
		index := f.FieldIndex()
		return func(target any) (any, error) {
			v, err := structValue(target, declaring, false)
			if err != nil {
				return nil, err
			}
			fv, ferr := v.FieldByIndexErr(index)
			if ferr != nil {
				return nil, errors.Wrap(errors.PhaseInvoke, errors.KindInvalidInput, ferr, "read "+name)
			}
			return fv.Interface(), nil
		}
	}
	p, ok := c.catalog.Property(declaring, name)
	if !ok {
		return nil
	}
	get, _ := p.Accessors()
	if !get.IsValid() {
		return nil
	}
	recv := get.Type().In(0)
	return func(target any) (any, error) {
		r, err := receiver(target, recv, false)
		if err != nil {
			return nil, err
		}
		out, err := call(p.Name, get, []reflect.Value{r})
		if err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	}
}

func (c *Cache) compileSetter(declaring reflect.Type, name string) Setter {
	if declaring == nil {
		return nil
	}
	if f, ok := c.catalog.Field(declaring, name); ok {
		index := f.FieldIndex()
		set := c.valueConverter(f.ValueType())
		return func(target, value any) error {
			v, err := structValue(target, declaring, true)
			if err != nil {
				return err
			}
			fv, ferr := v.FieldByIndexErr(index)
			if ferr != nil {
				return errors.Wrap(errors.PhaseInvoke, errors.KindInvalidInput, ferr, "write "+name)
			}
			nv, err := set(value)
			if err != nil {
				return err
			}
			fv.Set(nv)
			return nil
		}
	}
	p, ok := c.catalog.Property(declaring, name)
	if !ok {
		return nil
	}
	_, setFn := p.Accessors()
	if !setFn.IsValid() {
		return nil
	}
	recv := setFn.Type().In(0)
	set := c.valueConverter(setFn.Type().In(1))
	return func(target, value any) error {
		r, err := receiver(target, recv, true)
		if err != nil {
			return err
		}
		nv, err := set(value)
		if err != nil {
			return err
		}
		_, err = call(p.Name, setFn, []reflect.Value{r, nv})
		return err
	}
}

// valueConverter converts an incoming value to t, going through the
// conversion cache when the dynamic type differs.
func (c *Cache) valueConverter(t reflect.Type) func(any) (reflect.Value, error) {
	return func(value any) (reflect.Value, error) {
		v := reflect.ValueOf(value)
		if !v.IsValid() || v.Type().AssignableTo(t) {
			return normalize(v, t)
		}
		cv := c.converter(ConversionKey{DeclaredIn: v.Type(), RequestedIn: v.Type(), RequestedOut: t, DeclaredOut: t})
		if cv == nil {
			return reflect.Value{}, errors.TypeMismatch(errors.PhaseInvoke, nil, v.Type().String(), t.String())
		}
		return cv.convert(v)
	}
}

// structValue returns the struct value behind target. A writable value
// requires a pointer target.
func structValue(target any, declaring reflect.Type, writable bool) (reflect.Value, error) {
	st := declaring
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	v := reflect.ValueOf(target)
	switch {
	case !v.IsValid():
		return reflect.Value{}, errors.InvalidInput(errors.PhaseInvoke, "nil target")
	case v.Type() == st && !writable:
		return v, nil
	case v.Type() == reflect.PointerTo(st):
		if v.IsNil() {
			return reflect.Value{}, errors.InvalidInput(errors.PhaseInvoke, "nil target")
		}
		return v.Elem(), nil
	case v.Type() == st:
		return reflect.Value{}, errors.InvalidInput(errors.PhaseInvoke, "setting "+st.String()+" needs a pointer target")
	}
	return reflect.Value{}, errors.TypeMismatch(errors.PhaseInvoke, nil, v.Type().String(), st.String())
}

// receiver adapts target to a method receiver of type recv.
func receiver(target any, recv reflect.Type, writable bool) (reflect.Value, error) {
	v := reflect.ValueOf(target)
	if !v.IsValid() {
		return reflect.Value{}, errors.InvalidInput(errors.PhaseInvoke, "nil target")
	}
	switch {
	case v.Type() == recv:
		if writable && recv.Kind() != reflect.Pointer && recv.Kind() != reflect.Interface {
			return reflect.Value{}, errors.InvalidInput(errors.PhaseInvoke, "setting "+recv.String()+" needs a pointer target")
		}
		return v, nil
	case v.Type().AssignableTo(recv):
		return v.Convert(recv), nil
	case recv.Kind() == reflect.Pointer && v.Type() == recv.Elem():
		if writable {
			return reflect.Value{}, errors.InvalidInput(errors.PhaseInvoke, "setting "+v.Type().String()+" needs a pointer target")
		}
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		return p, nil
	case v.Kind() == reflect.Pointer && v.Type().Elem() == recv:
		if v.IsNil() {
			return reflect.Value{}, errors.InvalidInput(errors.PhaseInvoke, "nil target")
		}
		return v.Elem(), nil
	}
	return reflect.Value{}, errors.TypeMismatch(errors.PhaseInvoke, nil, v.Type().String(), recv.String())
}

// call invokes fn, turning panics and a trailing error result into errors.
func call(name string, fn reflect.Value, args []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Panic(errors.PhaseInvoke, name, r)
		}
	}()
	out = fn.Call(args)
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}
	return out, nil
}

var errorType = reflect.TypeFor[error]()
