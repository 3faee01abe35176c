// Package catalog is the host type system consumed by matching and synthesis.
//
// A Catalog discovers members of Go types by reflection (exported fields,
// methods, Name/SetName property pairs and read-only GetName properties; a
// bare Name method without SetName stays a plain method) and accepts explicit registrations
// for what Go cannot express or reflection cannot see: constructors, type
// initializers, free functions attached to a type, operators, conversions,
// generic member templates and declared interface implementations.
//
// Member enumeration order is deterministic: discovered fields in declaration
// order, methods in name order, properties in name order, then registered
// members in registration order. Ranking ties are broken by this order.
//
// Catalog implements typedesc.Host, so a match.Matcher built on it sees the
// same conversions synth will later build.
package catalog
