package catalog

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/wippyai/sigbind/errors"
	"github.com/wippyai/sigbind/typedesc"
)

// Catalog holds the members of known types. Thread-safe.
type Catalog struct {
	types       map[reflect.Type]*typeEntry
	operators   map[Op][]*Member
	conversions map[convKey]*Member
	mu          sync.RWMutex
}

type typeEntry struct {
	interfaces []reflect.Type
	members    []*Member
	registered []*Member
}

type convKey struct {
	from, to reflect.Type
}

var _ typedesc.Host = (*Catalog)(nil)

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		types:       make(map[reflect.Type]*typeEntry),
		operators:   make(map[Op][]*Member),
		conversions: make(map[convKey]*Member),
	}
}

// Register discovers the members of t. Calling it is optional: every
// enumeration discovers unknown types on first use. A no-argument method
// Name becomes a property only alongside SetName; GetName alone is a
// read-only property.
func (c *Catalog) Register(t reflect.Type) error {
	if t == nil {
		return errors.InvalidInput(errors.PhaseRegister, "type cannot be nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entryLocked(t)
	return nil
}

// RegisterConstructor attaches a constructor to t. fn must return t or *t,
// optionally followed by an error.
func (c *Catalog) RegisterConstructor(t reflect.Type, fn any) error {
	rv, err := validateFunc(fn, "constructor")
	if err != nil {
		return err
	}
	sig := typedesc.SignatureOf(rv.Type())
	if rt := sig.Return.Type; rt != t && rt != reflect.PointerTo(t) {
		return errors.New(errors.PhaseRegister, errors.KindTypeMismatch).
			GoType(rv.Type().String()).
			Detail("constructor of %s must return %s or *%s", t, t, t).
			Build()
	}
	c.add(t, &Member{
		Declaring:  t,
		fn:         rv,
		Name:       "New",
		Signature:  sig,
		Kind:       KindConstructor,
		returnsErr: returnsError(rv.Type()),
	})
	return nil
}

// RegisterInitializer attaches a type initializer to t. Initializers are
// enumerated as static constructors and are never synthesized into callables.
func (c *Catalog) RegisterInitializer(t reflect.Type, fn func()) error {
	if fn == nil {
		return errors.InvalidInput(errors.PhaseRegister, "initializer cannot be nil")
	}
	rv := reflect.ValueOf(fn)
	c.add(t, &Member{
		Declaring: t,
		fn:        rv,
		Name:      "init",
		Signature: typedesc.SignatureOf(rv.Type()),
		Kind:      KindConstructor,
		Static:    true,
	})
	return nil
}

// RegisterFunc attaches a static function to t under name.
func (c *Catalog) RegisterFunc(t reflect.Type, name string, fn any) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseRegister, "function name cannot be empty")
	}
	rv, err := validateFunc(fn, "function "+name)
	if err != nil {
		return err
	}
	c.add(t, &Member{
		Declaring:  t,
		fn:         rv,
		Name:       name,
		Signature:  typedesc.SignatureOf(rv.Type()),
		Kind:       KindMethod,
		Static:     true,
		returnsErr: returnsError(rv.Type()),
	})
	return nil
}

// RegisterGeneric attaches a generic member template to t.
func (c *Catalog) RegisterGeneric(t reflect.Type, tmpl Template) error {
	if tmpl.Name == "" {
		return errors.InvalidInput(errors.PhaseRegister, "template name cannot be empty")
	}
	if tmpl.Instantiate == nil {
		return errors.InvalidInput(errors.PhaseRegister, "template "+tmpl.Name+" has no instantiate function")
	}
	if err := checkSlots(tmpl.Signature); err != nil {
		return err
	}
	c.add(t, &Member{
		Declaring:   t,
		instantiate: tmpl.Instantiate,
		Name:        tmpl.Name,
		Signature:   tmpl.Signature,
		Kind:        KindMethod,
		Static:      tmpl.Static,
	})
	return nil
}

// RegisterOperator registers a user-defined binary operator. fn takes the
// two operands and returns the result, optionally followed by an error.
// The operator is declared by its left operand type.
func (c *Catalog) RegisterOperator(op Op, fn any) error {
	rv, err := validateFunc(fn, "operator "+op.String())
	if err != nil {
		return err
	}
	ft := rv.Type()
	sig := typedesc.SignatureOf(ft)
	if len(sig.Params) != 2 || sig.Return.IsZero() {
		return errors.New(errors.PhaseRegister, errors.KindArity).
			GoType(ft.String()).
			Detail("operator %s must take two operands and return a value", op).
			Build()
	}
	m := &Member{
		Declaring:  ft.In(0),
		fn:         rv,
		Name:       op.String(),
		Signature:  sig,
		Kind:       KindOperator,
		Op:         op,
		Static:     true,
		returnsErr: returnsError(ft),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.operators[op] = append(c.operators[op], m)
	e := c.entryLocked(ft.In(0))
	e.registered = append(e.registered, m)
	return nil
}

// RegisterConversion registers a user-defined conversion. fn takes one value
// and returns the converted value, optionally followed by an error.
func (c *Catalog) RegisterConversion(fn any) error {
	rv, err := validateFunc(fn, "conversion")
	if err != nil {
		return err
	}
	ft := rv.Type()
	sig := typedesc.SignatureOf(ft)
	if len(sig.Params) != 1 || sig.Return.IsZero() {
		return errors.New(errors.PhaseRegister, errors.KindArity).
			GoType(ft.String()).
			Detail("conversion must take one value and return one value").
			Build()
	}
	from, to := ft.In(0), sig.Return.Type
	m := &Member{
		Declaring:  from,
		fn:         rv,
		Name:       "convert",
		Signature:  sig,
		Kind:       KindConversion,
		Static:     true,
		returnsErr: returnsError(ft),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.conversions[convKey{from, to}]; exists {
		return errors.New(errors.PhaseRegister, errors.KindInvalidRequest).
			GoType(ft.String()).
			Detail("conversion from %s to %s already registered", from, to).
			Build()
	}
	c.conversions[convKey{from, to}] = m
	e := c.entryLocked(from)
	e.registered = append(e.registered, m)
	return nil
}

// RegisterInterface declares that t implements iface.
func (c *Catalog) RegisterInterface(t, iface reflect.Type) error {
	if t == nil || iface == nil {
		return errors.InvalidInput(errors.PhaseRegister, "type cannot be nil")
	}
	if iface.Kind() != reflect.Interface {
		return errors.New(errors.PhaseRegister, errors.KindInvalidRequest).
			GoType(iface.String()).
			Detail("not an interface type").
			Build()
	}
	if !t.Implements(iface) {
		return errors.New(errors.PhaseRegister, errors.KindTypeMismatch).
			GoType(t.String()).
			Detail("does not implement %s", iface).
			Build()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(t)
	for _, known := range e.interfaces {
		if known == iface {
			return nil
		}
	}
	e.interfaces = append(e.interfaces, iface)
	return nil
}

func (c *Catalog) add(t reflect.Type, m *Member) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(t)
	e.registered = append(e.registered, m)
}

func (c *Catalog) entryLocked(t reflect.Type) *typeEntry {
	if e, ok := c.types[t]; ok {
		return e
	}
	e := &typeEntry{members: discover(t)}
	c.types[t] = e
	return e
}

func (c *Catalog) entry(t reflect.Type) *typeEntry {
	c.mu.RLock()
	e, ok := c.types[t]
	c.mu.RUnlock()
	if ok {
		return e
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entryLocked(t)
}

// Members returns every member of t in enumeration order.
func (c *Catalog) Members(t reflect.Type) []*Member {
	if t == nil {
		return nil
	}
	e := c.entry(t)
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Member, 0, len(e.members)+len(e.registered))
	out = append(out, e.members...)
	return append(out, e.registered...)
}

// Methods returns the methods of t called name, instance and static.
func (c *Catalog) Methods(t reflect.Type, name string) []*Member {
	return c.filter(t, func(m *Member) bool {
		return m.Kind == KindMethod && m.Name == name
	})
}

// Constructors returns the constructors of t, including type initializers.
func (c *Catalog) Constructors(t reflect.Type) []*Member {
	return c.filter(t, func(m *Member) bool {
		return m.Kind == KindConstructor
	})
}

// Field returns the exported field of t called name.
func (c *Catalog) Field(t reflect.Type, name string) (*Member, bool) {
	return c.first(t, func(m *Member) bool {
		return m.Kind == KindField && m.Name == name
	})
}

// Property returns the property of t called name.
func (c *Catalog) Property(t reflect.Type, name string) (*Member, bool) {
	return c.first(t, func(m *Member) bool {
		return m.Kind == KindProperty && m.Name == name
	})
}

// Operators returns every registered implementation of op in registration order.
func (c *Catalog) Operators(op Op) []*Member {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Member(nil), c.operators[op]...)
}

// Converter returns the registered conversion from from to to.
func (c *Catalog) Converter(from, to reflect.Type) (*Member, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.conversions[convKey{from, to}]
	return m, ok
}

// Interfaces returns the interfaces t was declared to implement.
func (c *Catalog) Interfaces(t reflect.Type) []reflect.Type {
	if t == nil {
		return nil
	}
	e := c.entry(t)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]reflect.Type(nil), e.interfaces...)
}

func (c *Catalog) filter(t reflect.Type, keep func(*Member) bool) []*Member {
	var out []*Member
	for _, m := range c.Members(t) {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func (c *Catalog) first(t reflect.Type, keep func(*Member) bool) (*Member, bool) {
	for _, m := range c.Members(t) {
		if keep(m) {
			return m, true
		}
	}
	return nil, false
}

// Signatures returns the signatures of members, in order.
func Signatures(members []*Member) []typedesc.Signature {
	sigs := make([]typedesc.Signature, len(members))
	for i, m := range members {
		sigs[i] = m.Signature
	}
	return sigs
}

func checkSlots(sig typedesc.Signature) error {
	check := func(d typedesc.Descriptor, where string) error {
		if !d.IsGeneric() {
			return nil
		}
		arity := sig.TypeArity
		if d.Param.Location == typedesc.LocationSignature {
			arity = sig.SigArity
		} else if d.Param.Location != typedesc.LocationType {
			return errors.New(errors.PhaseRegister, errors.KindInvalidRequest).
				Path(where).
				Detail("generic slot %s must be declared on the type or the signature", d).
				Build()
		}
		if d.Param.Position < 0 || d.Param.Position >= arity {
			return errors.New(errors.PhaseRegister, errors.KindInvalidRequest).
				Path(where).
				Detail("generic slot %s is outside the declared arity %d", d, arity).
				Build()
		}
		return nil
	}
	for i, p := range sig.Params {
		if err := check(p, fmt.Sprintf("param %d", i)); err != nil {
			return err
		}
	}
	return check(sig.Return, "return")
}

// discover reflects over t's exported fields, methods and properties.
func discover(t reflect.Type) []*Member {
	var members []*Member

	base := t
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if base.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(base) {
			if !f.IsExported() || f.Anonymous {
				continue
			}
			members = append(members, &Member{
				Declaring: t,
				Name:      f.Name,
				Signature: typedesc.Signature{
					Params: []typedesc.Descriptor{typedesc.Of(t)},
					Return: typedesc.Of(f.Type),
				},
				index: f.Index,
				Kind:  KindField,
			})
		}
	}

	methodSet := t
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		methodSet = reflect.PointerTo(t)
	}

	byName := make(map[string]reflect.Value)
	for i := 0; i < methodSet.NumMethod(); i++ {
		method := methodSet.Method(i)
		if !method.IsExported() {
			continue
		}
		fn := method.Func
		if methodSet.Kind() == reflect.Interface {
			fn = interfaceMethod(methodSet, method)
		}
		byName[method.Name] = fn
		members = append(members, &Member{
			Declaring:  t,
			fn:         fn,
			Name:       method.Name,
			Signature:  typedesc.SignatureOf(fn.Type()),
			Kind:       KindMethod,
			returnsErr: returnsError(fn.Type()),
		})
	}

	return append(members, properties(t, byName)...)
}

// interfaceMethod builds a method expression for an interface method, whose
// reflect.Method.Func is not populated.
func interfaceMethod(iface reflect.Type, method reflect.Method) reflect.Value {
	mt := method.Type
	in := make([]reflect.Type, 0, mt.NumIn()+1)
	in = append(in, iface)
	for i := 0; i < mt.NumIn(); i++ {
		in = append(in, mt.In(i))
	}
	out := make([]reflect.Type, mt.NumOut())
	for i := range out {
		out[i] = mt.Out(i)
	}
	ft := reflect.FuncOf(in, out, mt.IsVariadic())
	name := method.Name
	return reflect.MakeFunc(ft, func(args []reflect.Value) []reflect.Value {
		bound := args[0].MethodByName(name)
		if ft.IsVariadic() {
			return bound.CallSlice(args[1:])
		}
		return bound.Call(args[1:])
	})
}

// properties pairs getters (Name or GetName, no arguments, one result) with
// setters (SetName, one argument, no result besides an optional error).
// A bare Name getter only counts when SetName exists, so methods such as
// String or Len stay plain methods; GetName alone is a read-only property.
func properties(t reflect.Type, methods map[string]reflect.Value) []*Member {
	type pair struct {
		get, set reflect.Value
		bare     bool
	}
	found := make(map[string]*pair)

	for name, fn := range methods {
		ft := fn.Type()
		switch {
		case strings.HasPrefix(name, "Set") && len(name) > 3 && ft.NumIn() == 2 && (ft.NumOut() == 0 || ft.NumOut() == 1 && returnsError(ft)):
			prop := name[3:]
			if found[prop] == nil {
				found[prop] = &pair{}
			}
			found[prop].set = fn
		case ft.NumIn() == 1 && ft.NumOut() == 1 && !returnsError(ft):
			prop := name
			if strings.HasPrefix(name, "Get") && len(name) > 3 {
				prop = name[3:]
			}
			if found[prop] == nil {
				found[prop] = &pair{}
			}
			if !found[prop].get.IsValid() || prop == name {
				found[prop].get = fn
				found[prop].bare = prop == name
			}
		}
	}

	names := make([]string, 0, len(found))
	for name, p := range found {
		if p.get.IsValid() && p.set.IsValid() && p.get.Type().Out(0) != p.set.Type().In(1) {
			// Getter and setter disagree on the value type; keep the getter only.
			p.set = reflect.Value{}
		}
		if p.bare && !p.set.IsValid() {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Member, 0, len(names))
	for _, name := range names {
		p := found[name]
		var vt reflect.Type
		if p.get.IsValid() {
			vt = p.get.Type().Out(0)
		} else {
			vt = p.set.Type().In(1)
		}
		out = append(out, &Member{
			Declaring: t,
			getter:    p.get,
			setter:    p.set,
			Name:      name,
			Signature: typedesc.Signature{
				Params: []typedesc.Descriptor{typedesc.Of(t)},
				Return: typedesc.Of(vt),
			},
			Kind: KindProperty,
		})
	}
	return out
}
