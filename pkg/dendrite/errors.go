package dendrite

import (
	"fmt"
	"reflect"
	"strings"
)

// ErrorKind represents the category of an injection failure
type ErrorKind int

const (
	// Core resolution error kinds
	UnknownErrorKind ErrorKind = iota
	NoInjectableConstructorKind
	UnresolvedDependencyKind
	ConstructionFailedKind
	PostConstructFailedKind

	// Registration error kinds
	InvalidConstructorKind
	DuplicateConstructorKind
	InvalidHookKind
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case NoInjectableConstructorKind:
		return "NoInjectableConstructor"
	case UnresolvedDependencyKind:
		return "UnresolvedDependency"
	case ConstructionFailedKind:
		return "ConstructionFailed"
	case PostConstructFailedKind:
		return "PostConstructFailed"
	case InvalidConstructorKind:
		return "InvalidConstructor"
	case DuplicateConstructorKind:
		return "DuplicateConstructor"
	case InvalidHookKind:
		return "InvalidHook"
	default:
		return "UnknownError"
	}
}

// InjectionError is the single error type surfaced by the Injector.
//
// Every failure mode carries a Kind plus whatever context applies to it:
// Target is always set, Parameter is set for unresolved dependencies, Hook
// is set for post-construct failures, and Cause wraps the underlying error
// when the failure originated inside user code.
type InjectionError struct {
	Kind      ErrorKind    // category of the failure
	Target    reflect.Type // type being constructed or registered
	Parameter reflect.Type // constructor parameter that could not be resolved
	Hook      string       // name of the post-construct hook that failed
	Message   string       // human-readable description
	Cause     error        // underlying error, if any
}

// Error implements the error interface
func (e *InjectionError) Error() string {
	var sb strings.Builder
	sb.WriteString("dendrite: ")
	sb.WriteString(e.Kind.String())
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause for error chain inspection
func (e *InjectionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *InjectionError with the same kind.
// This lets callers match on sentinel errors built with just a Kind.
func (e *InjectionError) Is(target error) bool {
	other, ok := target.(*InjectionError)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

// newNoConstructorError creates an error for a type with no registered constructor
func newNoConstructorError(target reflect.Type) *InjectionError {
	return &InjectionError{
		Kind:    NoInjectableConstructorKind,
		Target:  target,
		Message: fmt.Sprintf("no constructor registered for type %s", typeName(target)),
	}
}

// newUnresolvedDependencyError creates an error for a missing parameter binding
func newUnresolvedDependencyError(target, parameter reflect.Type) *InjectionError {
	return &InjectionError{
		Kind:      UnresolvedDependencyKind,
		Target:    target,
		Parameter: parameter,
		Message: fmt.Sprintf("missing binding for parameter %s required by %s",
			typeName(parameter), typeName(target)),
	}
}

// newConstructionFailedError creates an error for a constructor fault
func newConstructionFailedError(target reflect.Type, cause error) *InjectionError {
	return &InjectionError{
		Kind:    ConstructionFailedKind,
		Target:  target,
		Message: fmt.Sprintf("constructor for %s failed", typeName(target)),
		Cause:   cause,
	}
}

// newPostConstructFailedError creates an error for a failed init hook
func newPostConstructFailedError(target reflect.Type, hook string, cause error) *InjectionError {
	return &InjectionError{
		Kind:    PostConstructFailedKind,
		Target:  target,
		Hook:    hook,
		Message: fmt.Sprintf("post-construct hook %q on %s failed", hook, typeName(target)),
		Cause:   cause,
	}
}

// typeName formats a reflect.Type for error messages, tolerating nil
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
