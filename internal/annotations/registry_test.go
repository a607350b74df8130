package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndGetSchema(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(InjectAnnotation, InjectAnnotationSchema))
	assert.True(t, registry.IsRegistered(InjectAnnotation))
	assert.False(t, registry.IsRegistered(InitAnnotation))

	schema, err := registry.GetSchema(InjectAnnotation)
	require.NoError(t, err)
	assert.Equal(t, InjectAnnotation, schema.Type)
}

func TestRegistry_RejectsMismatchedType(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(InitAnnotation, InjectAnnotationSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestRegistry_RejectsDuplicateRegistration(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(InitAnnotation, InitAnnotationSchema))
	err := registry.Register(InitAnnotation, InitAnnotationSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_GetSchemaUnregistered(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.GetSchema(InitAnnotation)
	require.Error(t, err)
}

func TestDefaultRegistry_HasBuiltinSchemas(t *testing.T) {
	registry := DefaultRegistry()

	assert.True(t, registry.IsRegistered(InjectAnnotation))
	assert.True(t, registry.IsRegistered(InitAnnotation))
}
