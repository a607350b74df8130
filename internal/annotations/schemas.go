package annotations

import "fmt"

// ParameterType represents the expected type of an annotation parameter
type ParameterType int

const (
	StringType ParameterType = iota
	IntType
	BoolType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case IntType:
		return "int"
	case BoolType:
		return "bool"
	default:
		return "unknown"
	}
}

// ParameterSpec describes a single annotation parameter
type ParameterSpec struct {
	Type         ParameterType
	Required     bool
	DefaultValue any
	Description  string
	Validator    func(v any) error
}

// AnnotationSchema defines the shape of one annotation type
type AnnotationSchema struct {
	Type        AnnotationType
	Description string
	Parameters  map[string]ParameterSpec
	Examples    []string
}

// Built-in annotation schemas

// InjectAnnotationSchema defines the schema for //dendrite::inject annotations
var InjectAnnotationSchema = AnnotationSchema{
	Type:        InjectAnnotation,
	Description: "Marks a constructor function whose parameters are resolved from the binding registry",
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//dendrite::inject",
	},
}

// InitAnnotationSchema defines the schema for //dendrite::init annotations
var InitAnnotationSchema = AnnotationSchema{
	Type:        InitAnnotation,
	Description: "Marks a method to run after construction of its receiver type",
	Parameters: map[string]ParameterSpec{
		"Order": {
			Type:         IntType,
			Required:     false,
			DefaultValue: 0,
			Description:  "Relative hook ordering; lower values run first, ties break on source line",
			Validator: func(v any) error {
				order := v.(int)
				if order < 0 {
					return fmt.Errorf("must not be negative, got %d", order)
				}
				return nil
			},
		},
	},
	Examples: []string{
		"//dendrite::init",
		"//dendrite::init -Order=1",
	},
}

// RegisterBuiltinSchemas registers all built-in annotation schemas with a registry
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	schemas := []AnnotationSchema{
		InjectAnnotationSchema,
		InitAnnotationSchema,
	}
	for _, schema := range schemas {
		if err := registry.Register(schema.Type, schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type.String(), err)
		}
	}
	return nil
}
