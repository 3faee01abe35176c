// Package errors provides structured error types for the sigbind library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: parameter path, Go type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseSynth, errors.KindInvalidRequest).
//		Path("param", "1").
//		GoType("string").
//		Detail("cannot assign to int").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidRequest(errors.PhaseSynth, "static constructors cannot be invoked")
//	err := errors.Arity(errors.PhaseInvoke, 2, 3)
//
// Routine non-matches are never reported through this package: matching and
// ranking answer with booleans. Errors are reserved for invalid requests,
// impossible synthesis and internal defects.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
