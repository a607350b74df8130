package annotations

import (
	"fmt"
	"sync"
)

// AnnotationRegistry defines the interface for managing annotation schemas
type AnnotationRegistry interface {
	// Register a new annotation type with its schema
	Register(annotationType AnnotationType, schema AnnotationSchema) error

	// GetSchema retrieves the schema for an annotation type
	GetSchema(annotationType AnnotationType) (AnnotationSchema, error)

	// IsRegistered checks if an annotation type is registered
	IsRegistered(annotationType AnnotationType) bool
}

// registry is the concrete implementation of AnnotationRegistry
type registry struct {
	mu      sync.RWMutex
	schemas map[AnnotationType]AnnotationSchema
}

// NewRegistry creates a new annotation registry
func NewRegistry() AnnotationRegistry {
	return &registry{
		schemas: make(map[AnnotationType]AnnotationSchema),
	}
}

var (
	defaultRegistry     AnnotationRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the global annotation registry with the built-in
// schemas already registered.
func DefaultRegistry() AnnotationRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := RegisterBuiltinSchemas(defaultRegistry); err != nil {
			panic(err)
		}
	})
	return defaultRegistry
}

// Register adds a new annotation type with its schema to the registry
func (r *registry) Register(annotationType AnnotationType, schema AnnotationSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schema.Type != annotationType {
		return fmt.Errorf("schema type %s does not match annotation type %s",
			schema.Type.String(), annotationType.String())
	}
	if _, exists := r.schemas[annotationType]; exists {
		return fmt.Errorf("annotation type %s is already registered", annotationType.String())
	}

	r.schemas[annotationType] = schema
	return nil
}

// GetSchema retrieves the schema for an annotation type
func (r *registry) GetSchema(annotationType AnnotationType) (AnnotationSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[annotationType]
	if !exists {
		return AnnotationSchema{}, fmt.Errorf("annotation type %s is not registered", annotationType.String())
	}
	return schema, nil
}

// IsRegistered checks if an annotation type is registered
func (r *registry) IsRegistered(annotationType AnnotationType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.schemas[annotationType]
	return exists
}
