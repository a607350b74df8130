package dendrite

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type greeter interface {
	Greet() string
}

type englishGreeter struct{}

func (g *englishGreeter) Greet() string { return "hello" }

func TestBindingRegistry_BindAndLookup(t *testing.T) {
	registry := NewBindingRegistry()

	instance := &englishGreeter{}
	registry.Bind(reflect.TypeOf(instance), instance)

	found, ok := registry.Lookup(reflect.TypeOf(instance))
	assert.True(t, ok)
	assert.Same(t, instance, found)
}

func TestBindingRegistry_LookupAbsent(t *testing.T) {
	registry := NewBindingRegistry()

	found, ok := registry.Lookup(reflect.TypeOf(&englishGreeter{}))
	assert.False(t, ok)
	assert.Nil(t, found)
}

func TestBindingRegistry_OverwriteSemantics(t *testing.T) {
	registry := NewBindingRegistry()

	first := &englishGreeter{}
	second := &englishGreeter{}
	key := reflect.TypeOf(first)

	registry.Bind(key, first)
	registry.Bind(key, second)

	found, ok := registry.Lookup(key)
	assert.True(t, ok)
	assert.Same(t, second, found)
	assert.Equal(t, 1, registry.Len())
}

func TestBindingRegistry_ExactTypeMatchOnly(t *testing.T) {
	registry := NewBindingRegistry()

	instance := &englishGreeter{}
	registry.Bind(TypeOf[greeter](), instance)

	// Retrievable by the exact interface type it was bound under
	found, ok := registry.Lookup(TypeOf[greeter]())
	assert.True(t, ok)
	assert.Same(t, instance, found)

	// Not retrievable by the implementation type
	_, ok = registry.Lookup(reflect.TypeOf(instance))
	assert.False(t, ok)
}

func TestTypeOf_InterfaceType(t *testing.T) {
	typ := TypeOf[greeter]()
	assert.Equal(t, reflect.Interface, typ.Kind())
	assert.Equal(t, "dendrite.greeter", typ.String())
}

func TestTypeOf_PointerType(t *testing.T) {
	typ := TypeOf[*englishGreeter]()
	assert.Equal(t, reflect.Ptr, typ.Kind())
}
