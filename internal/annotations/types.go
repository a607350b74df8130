package annotations

import "fmt"

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	// InjectAnnotation marks a constructor function for injection
	InjectAnnotation AnnotationType = iota

	// InitAnnotation marks a method as a post-construct hook
	InitAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case InjectAnnotation:
		return "inject"
	case InitAnnotation:
		return "init"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "inject":
		return InjectAnnotation, nil
	case "init":
		return InitAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File string // File path
	Line int    // Line number (1-based)
}

// String returns a formatted string representation of the location
func (s SourceLocation) String() string {
	if s.File == "" {
		return "unknown location"
	}
	if s.Line == 0 {
		return s.File
	}
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

// ParsedAnnotation represents a fully parsed annotation with type-safe parameters
type ParsedAnnotation struct {
	Type       AnnotationType // Annotation type enum
	Target     string         // Annotated function or method name, filled in by the source parser
	Parameters map[string]any // Typed parameters
	Location   SourceLocation // Source location
	Raw        string         // Original annotation text
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(paramName string, defaultValue ...string) string {
	if value, exists := p.Parameters[paramName]; exists {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetInt returns an integer parameter value with optional default
func (p *ParsedAnnotation) GetInt(paramName string, defaultValue ...int) int {
	if value, exists := p.Parameters[paramName]; exists {
		if intValue, ok := value.(int); ok {
			return intValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}

// GetBool returns a boolean parameter value with optional default
func (p *ParsedAnnotation) GetBool(paramName string, defaultValue ...bool) bool {
	if value, exists := p.Parameters[paramName]; exists {
		if boolValue, ok := value.(bool); ok {
			return boolValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return false
}
