// Package typedesc defines the immutable value data shared by matching,
// ranking, closure resolution and synthesis.
//
// A Descriptor stands in for a type: a concrete reflect.Type, or an
// unresolved generic slot (Param), optionally wrapped as a reference or
// pointer. A Spec is a pattern a Descriptor must satisfy: either a
// concrete target type or a generic slot locator. A Signature is an
// ordered list of parameter descriptors plus a return descriptor, with
// declared counts of type-local and signature-local generic slots.
//
// Values in this package are freely shared and never mutated after
// construction; methods that "modify" a value return a copy.
package typedesc
