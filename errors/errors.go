package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegister Phase = "register" // catalog registration
	PhaseMatch    Phase = "match"    // signature matching and ranking
	PhaseClose    Phase = "close"    // generic closure resolution
	PhaseSynth    Phase = "synth"    // callable synthesis
	PhaseConvert  Phase = "convert"  // conversion synthesis and execution
	PhaseOperator Phase = "operator" // operator synthesis and execution
	PhaseInvoke   Phase = "invoke"   // invocation of synthesized callables
	PhaseConfig   Phase = "config"   // option loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidRequest      Kind = "invalid_request"
	KindSynthesisImpossible Kind = "synthesis_impossible"
	KindInternal            Kind = "internal"
	KindNotFound            Kind = "not_found"
	KindTypeMismatch        Kind = "type_mismatch"
	KindArity               Kind = "arity"
	KindOverflow            Kind = "overflow"
	KindDivideByZero        Kind = "divide_by_zero"
	KindPanic               Kind = "panic"
	KindInvalidInput        Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target with an empty Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase == "" {
			return e.Kind == t.Kind
		}
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the parameter path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Sentinels for errors.Is checks that only care about the category.
var (
	ErrInvalidRequest      = &Error{Kind: KindInvalidRequest}
	ErrSynthesisImpossible = &Error{Kind: KindSynthesisImpossible}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrInternal            = &Error{Kind: KindInternal}
)

// Convenience constructors for common error patterns

// InvalidRequest creates an error for structurally invalid caller input
func InvalidRequest(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidRequest,
		Detail: detail,
	}
}

// SynthesisImpossible creates an error for a request no conversion or operator chain can satisfy
func SynthesisImpossible(phase Phase, goType, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindSynthesisImpossible,
		GoType: goType,
		Detail: detail,
	}
}

// Internal creates an internal consistency error. These indicate defects, not bad input.
func Internal(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInternal,
		Detail: detail,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, got, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: got,
		Detail: fmt.Sprintf("want %s", want),
	}
}

// Arity creates a parameter count mismatch error
func Arity(phase Phase, want, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindArity,
		Detail: fmt.Sprintf("expected %d argument(s), got %d", want, got),
		Value:  got,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		GoType: targetType,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
		Cause:  cause,
	}
}

// DivideByZero creates an integer division by zero error
func DivideByZero(phase Phase, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDivideByZero,
		GoType: goType,
		Detail: "integer divide by zero",
	}
}

// Panic wraps a recovered panic value
func Panic(phase Phase, what string, recovered any) *Error {
	e := &Error{
		Phase:  phase,
		Kind:   KindPanic,
		Detail: fmt.Sprintf("%s panicked: %v", what, recovered),
		Value:  recovered,
	}
	if err, ok := recovered.(error); ok {
		e.Cause = err
	}
	return e
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
