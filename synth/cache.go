package synth

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/sigbind/catalog"
	"github.com/wippyai/sigbind/config"
	"github.com/wippyai/sigbind/errors"
	"github.com/wippyai/sigbind/match"
)

// Cache compiles and memoizes callables. It is safe for concurrent use.
type Cache struct {
	catalog *catalog.Catalog
	matcher *match.Matcher
	opts    config.Options
	promote reflect.Type

	conversions onceMap[ConversionKey, *converter]
	getters     onceMap[accessorKey, Getter]
	setters     onceMap[accessorKey, Setter]
	funcs       onceMap[callKey, Func]
	actions     onceMap[callKey, Action]
	binaries    onceMap[binaryKey, BinaryFunc]
	instances   onceMap[instanceKey, *catalog.Member]

	compilations atomic.Int64
}

// Stats reports cache occupancy.
type Stats struct {
	Conversions  int
	Accessors    int
	Callables    int
	Operators    int
	Instances    int
	Compilations int64
}

// New creates a cache over cat. Invalid options are replaced by defaults.
func New(cat *catalog.Catalog, opts config.Options) *Cache {
	if cat == nil {
		cat = catalog.New()
	}
	if err := opts.Validate(); err != nil {
		Logger().Warn("invalid synth options, using defaults", zap.Error(err))
		opts = config.DefaultOptions()
	}
	return &Cache{
		catalog: cat,
		matcher: match.New(cat),
		opts:    opts,
		promote: opts.PromotionType(),
	}
}

// Catalog returns the catalog the cache compiles from.
func (c *Cache) Catalog() *catalog.Catalog { return c.catalog }

// Matcher returns the matcher used to pick user-defined operators.
func (c *Cache) Matcher() *match.Matcher { return c.matcher }

// Options returns the options the cache was built with.
func (c *Cache) Options() config.Options { return c.opts }

func (c *Cache) Stats() Stats {
	return Stats{
		Conversions:  c.conversions.len(),
		Accessors:    c.getters.len() + c.setters.len(),
		Callables:    c.funcs.len() + c.actions.len(),
		Operators:    c.binaries.len(),
		Instances:    c.instances.len(),
		Compilations: c.compilations.Load(),
	}
}

// compiled records one finished compilation.
func (c *Cache) compiled(what string, key fmt.Stringer, err error) {
	c.compilations.Add(1)
	if ce := Logger().Check(zap.DebugLevel, "compiled"); ce != nil {
		ce.Write(zap.String("kind", what), zap.Stringer("key", key), zap.Bool("ok", err == nil), zap.Error(err))
	}
}

// onceMap stores at most one value per key. Concurrent first requests for a
// key run compile once and all observe its result, errors included.
type onceMap[K comparable, V any] struct {
	m sync.Map // K -> *cell[V]
}

type cell[V any] struct {
	once sync.Once
	val  V
	err  error
}

func (o *onceMap[K, V]) get(key K, compile func() (V, error)) (V, error) {
	v, ok := o.m.Load(key)
	if !ok {
		v, _ = o.m.LoadOrStore(key, &cell[V]{})
	}
	c := v.(*cell[V])
	c.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				c.err = errors.Panic(errors.PhaseSynth, "compile", r)
			}
		}()
		c.val, c.err = compile()
	})
	return c.val, c.err
}

func (o *onceMap[K, V]) len() int {
	n := 0
	o.m.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
