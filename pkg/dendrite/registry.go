package dendrite

import "reflect"

// BindingRegistry maps a type identifier to exactly one bound instance.
//
// Lookup is by exact reflect.Type only: a binding registered under an
// interface type is retrievable only by that interface type, never by an
// implementation type, and vice versa. A later Bind for the same type
// silently replaces the earlier one.
//
// The registry does no synchronization. Concurrent Bind and Lookup calls
// must be coordinated by the embedding application.
type BindingRegistry struct {
	bindings map[reflect.Type]any
}

// NewBindingRegistry creates an empty binding registry
func NewBindingRegistry() *BindingRegistry {
	return &BindingRegistry{
		bindings: make(map[reflect.Type]any),
	}
}

// Bind stores instance under the given type identifier, overwriting any
// prior binding for that exact type. It never fails.
func (r *BindingRegistry) Bind(t reflect.Type, instance any) {
	r.bindings[t] = instance
}

// Lookup returns the instance currently bound to the given type identifier.
// The second return value reports whether a binding exists.
func (r *BindingRegistry) Lookup(t reflect.Type) (any, bool) {
	instance, ok := r.bindings[t]
	return instance, ok
}

// Len returns the number of distinct type identifiers with a binding
func (r *BindingRegistry) Len() int {
	return len(r.bindings)
}

// TypeOf returns the type identifier for T.
//
// Unlike reflect.TypeOf on a value, this works for interface types:
// TypeOf[io.Writer]() yields the io.Writer interface type itself rather
// than the dynamic type of some value.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
