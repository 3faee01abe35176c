// Package synth compiles member descriptors into invocable callables and
// caches them.
//
// A Cache turns catalog members into Go closures: field and property
// accessors, method and constructor calls coerced to requested shapes,
// chained conversions and binary operators. Every compiled value is built at
// most once per key and kept for the life of the Cache, including negative
// results.
//
// Callables take and return untyped values. The generic adapters Typed1,
// Typed2, TypedBinary and TypedConversion give them static types:
//
//	add, err := cache.AddFunc(reflect.TypeFor[int8]())
//	if err != nil {
//		return err
//	}
//	sum := synth.TypedBinary[int8, int8, int8](add)
//	v, err := sum(100, 27) // 127
//
// Operators on int8 and uint8 run on the configured promotion type and
// convert back at the boundary with Go's wrapping semantics.
package synth
