// Package dendrite provides a minimal dependency-injection runtime: a
// binding registry that maps exact types to instances, and an injector that
// constructs registered types by resolving constructor parameters against
// that registry and then running post-construct hooks.
//
// Constructors are registered explicitly with Provide, usually from a
// package's autogen_bindings.go file produced by the dendrite CLI from
// //dendrite:: annotations. Registration replaces runtime marker scanning:
// the injector only ever consults its constructor table.
package dendrite

import (
	"fmt"
	"reflect"
)

// Injector constructs registered types by resolving their constructor
// parameters against a BindingRegistry.
//
// A single CreateInstance call moves through constructor lookup, parameter
// resolution, construction, and hook invocation, aborting with an
// *InjectionError at the first failure. The injector never caches
// constructed instances and never mutates its registry.
//
// Like BindingRegistry, the Injector is not synchronized. Populate it
// before handing it to concurrent callers, or guard it externally.
type Injector struct {
	registry     *BindingRegistry
	constructors map[reflect.Type]*constructable
}

// constructable is the registration-time descriptor for one target type:
// its constructor function and the ordered post-construct hooks.
type constructable struct {
	target       reflect.Type
	ctor         reflect.Value
	params       []reflect.Type
	returnsError bool
	hooks        []initHook
}

// initHook is one registered post-construct callback
type initHook struct {
	name         string
	fn           reflect.Value
	returnsError bool
}

// ProvideOption customizes a constructor registration
type ProvideOption func(*Injector, *constructable) error

// New creates an injector with an empty binding registry and an empty
// constructor table.
func New() *Injector {
	return &Injector{
		registry:     NewBindingRegistry(),
		constructors: make(map[reflect.Type]*constructable),
	}
}

// Registry returns the injector's binding registry
func (i *Injector) Registry() *BindingRegistry {
	return i.registry
}

// BindType stores instance under the given type identifier in the
// injector's registry. Later binds for the same type silently replace
// earlier ones.
func (i *Injector) BindType(t reflect.Type, instance any) {
	i.registry.Bind(t, instance)
}

// Bind stores instance under the type identifier T.
//
// The key is the static type T, so interface bindings work as expected:
//
//	dendrite.Bind[Mailer](inj, smtpMailer)
//
// registers under the Mailer interface type, retrievable only by a
// constructor parameter declared as Mailer.
func Bind[T any](i *Injector, instance T) {
	i.registry.Bind(TypeOf[T](), instance)
}

// Provide registers ctor as the constructor for the type of its first
// result. The remaining results and parameters determine the contract:
//
//   - ctor must be a function returning T or (T, error)
//   - each parameter is resolved by exact type against the registry when
//     CreateInstance is called
//
// Registering a second constructor for the same target type fails with a
// DuplicateConstructorKind error; exactly one constructor per type is
// enforced here rather than discovered at instantiation time.
func (i *Injector) Provide(ctor any, opts ...ProvideOption) error {
	if ctor == nil {
		return &InjectionError{
			Kind:    InvalidConstructorKind,
			Message: "constructor is nil",
		}
	}

	ctorValue := reflect.ValueOf(ctor)
	ctorType := ctorValue.Type()
	if ctorType.Kind() != reflect.Func {
		return &InjectionError{
			Kind:    InvalidConstructorKind,
			Message: fmt.Sprintf("constructor must be a function, got %s", ctorType.Kind()),
		}
	}
	if ctorType.IsVariadic() {
		return &InjectionError{
			Kind:    InvalidConstructorKind,
			Message: "variadic constructors are not supported",
		}
	}

	target, returnsError, err := constructorResults(ctorType)
	if err != nil {
		return err
	}

	if _, exists := i.constructors[target]; exists {
		return &InjectionError{
			Kind:    DuplicateConstructorKind,
			Target:  target,
			Message: fmt.Sprintf("a constructor for %s is already registered", typeName(target)),
		}
	}

	params := make([]reflect.Type, ctorType.NumIn())
	for n := 0; n < ctorType.NumIn(); n++ {
		params[n] = ctorType.In(n)
	}

	c := &constructable{
		target:       target,
		ctor:         ctorValue,
		params:       params,
		returnsError: returnsError,
	}

	for _, opt := range opts {
		if err := opt(i, c); err != nil {
			return err
		}
	}

	i.constructors[target] = c
	return nil
}

// WithInit registers a post-construct hook for the constructed type.
//
// fn must be func(T) or func(T) error where T is the constructor's target
// type; the generator passes method expressions like (*Service).warmup so
// that unexported methods remain reachable from their own package. Hooks
// run after a successful construction, in the order they were registered,
// and the first failing hook aborts the rest.
func WithInit(name string, fn any) ProvideOption {
	return func(_ *Injector, c *constructable) error {
		if fn == nil {
			return &InjectionError{
				Kind:    InvalidHookKind,
				Target:  c.target,
				Hook:    name,
				Message: fmt.Sprintf("hook %q is nil", name),
			}
		}

		fnValue := reflect.ValueOf(fn)
		fnType := fnValue.Type()
		if fnType.Kind() != reflect.Func {
			return &InjectionError{
				Kind:    InvalidHookKind,
				Target:  c.target,
				Hook:    name,
				Message: fmt.Sprintf("hook %q must be a function, got %s", name, fnType.Kind()),
			}
		}
		if fnType.NumIn() != 1 || fnType.In(0) != c.target {
			return &InjectionError{
				Kind:    InvalidHookKind,
				Target:  c.target,
				Hook:    name,
				Message: fmt.Sprintf("hook %q must take exactly one %s argument", name, typeName(c.target)),
			}
		}

		returnsError := false
		switch fnType.NumOut() {
		case 0:
		case 1:
			if fnType.Out(0) != errorType {
				return &InjectionError{
					Kind:    InvalidHookKind,
					Target:  c.target,
					Hook:    name,
					Message: fmt.Sprintf("hook %q may only return error, got %s", name, fnType.Out(0)),
				}
			}
			returnsError = true
		default:
			return &InjectionError{
				Kind:    InvalidHookKind,
				Target:  c.target,
				Hook:    name,
				Message: fmt.Sprintf("hook %q returns too many values", name),
			}
		}

		c.hooks = append(c.hooks, initHook{
			name:         name,
			fn:           fnValue,
			returnsError: returnsError,
		})
		return nil
	}
}

// CreateInstance constructs a new instance of the given target type.
//
// The algorithm is fixed: look up the registered constructor, resolve each
// parameter left-to-right against the registry (failing fast on the first
// unbound type), invoke the constructor, then run the post-construct hooks
// in registration order. Every call produces a fresh instance; nothing is
// memoized.
func (i *Injector) CreateInstance(target reflect.Type) (any, error) {
	c, ok := i.constructors[target]
	if !ok {
		return nil, newNoConstructorError(target)
	}

	args := make([]reflect.Value, len(c.params))
	for n, param := range c.params {
		dep, bound := i.registry.Lookup(param)
		if !bound {
			return nil, newUnresolvedDependencyError(target, param)
		}
		args[n] = toArgValue(dep, param)
	}

	instance, err := c.construct(args)
	if err != nil {
		return nil, err
	}

	for _, h := range c.hooks {
		if err := c.runHook(h, instance); err != nil {
			return nil, err
		}
	}

	return instance.Interface(), nil
}

// Create constructs a new T through the injector
func Create[T any](i *Injector) (T, error) {
	instance, err := i.CreateInstance(TypeOf[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	return instance.(T), nil
}

// MustCreate constructs a new T or panics. Intended for composition roots
// where a wiring failure is fatal anyway.
func MustCreate[T any](i *Injector) T {
	instance, err := Create[T](i)
	if err != nil {
		panic(err)
	}
	return instance
}

// construct invokes the constructor, converting panics and error results
// into ConstructionFailed errors. Reflection faults from mismatched
// bindings surface through the same recovery path.
func (c *constructable) construct(args []reflect.Value) (instance reflect.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = newConstructionFailedError(c.target, recoveredError(rec))
		}
	}()

	results := c.ctor.Call(args)
	if c.returnsError && !results[1].IsNil() {
		return reflect.Value{}, newConstructionFailedError(c.target, results[1].Interface().(error))
	}
	return results[0], nil
}

// runHook invokes a single post-construct hook on the new instance
func (c *constructable) runHook(h initHook, instance reflect.Value) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = newPostConstructFailedError(c.target, h.name, recoveredError(rec))
		}
	}()

	results := h.fn.Call([]reflect.Value{instance})
	if h.returnsError && !results[0].IsNil() {
		return newPostConstructFailedError(c.target, h.name, results[0].Interface().(error))
	}
	return nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// constructorResults validates a constructor's result list and returns the
// target type plus whether the constructor also returns an error.
func constructorResults(ctorType reflect.Type) (reflect.Type, bool, error) {
	switch ctorType.NumOut() {
	case 1:
		if ctorType.Out(0) == errorType {
			return nil, false, &InjectionError{
				Kind:    InvalidConstructorKind,
				Message: "constructor must return a constructed value, not just error",
			}
		}
		return ctorType.Out(0), false, nil
	case 2:
		if ctorType.Out(1) != errorType {
			return nil, false, &InjectionError{
				Kind:    InvalidConstructorKind,
				Message: fmt.Sprintf("constructor's second result must be error, got %s", ctorType.Out(1)),
			}
		}
		return ctorType.Out(0), true, nil
	default:
		return nil, false, &InjectionError{
			Kind:    InvalidConstructorKind,
			Message: fmt.Sprintf("constructor must return T or (T, error), got %d results", ctorType.NumOut()),
		}
	}
}

// toArgValue prepares a bound instance for use as a call argument of the
// given parameter type. Interface parameters need the zero-value wrap so a
// nil binding still produces a valid reflect.Value; anything genuinely
// incompatible is left as-is for Call to reject inside the recovery path.
func toArgValue(dep any, param reflect.Type) reflect.Value {
	v := reflect.ValueOf(dep)
	if !v.IsValid() {
		return reflect.Zero(param)
	}
	if v.Type() != param && v.Type().AssignableTo(param) {
		converted := reflect.New(param).Elem()
		converted.Set(v)
		return converted
	}
	return v
}

// recoveredError normalizes a recovered panic value into an error
func recoveredError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", rec)
}
