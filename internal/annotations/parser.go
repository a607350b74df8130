package annotations

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Prefix is the comment prefix that identifies a dendrite annotation
const Prefix = "//dendrite::"

// Parser parses //dendrite:: annotation comments using a participle grammar
type Parser struct {
	parser   *participle.Parser[annotationExpr]
	registry AnnotationRegistry
}

// annotationExpr is the participle AST root for one annotation comment
type annotationExpr struct {
	Comment string    `parser:"@Comment"`
	Marker  string    `parser:"@Marker"`
	Sep     string    `parser:"@Separator"`
	Name    string    `parser:"@Ident"`
	Args    []argExpr `parser:"@@*"`
}

// argExpr is a single -Name or -Name=value argument
type argExpr struct {
	Name  string     `parser:"Dash @Ident"`
	Value *valueExpr `parser:"(Equals @@)?"`
}

// valueExpr is an argument value literal
type valueExpr struct {
	Str    *string `parser:"@String"`
	Number *int    `parser:"| @Number"`
	Ident  *string `parser:"| @Ident"`
}

// NewParser creates an annotation parser validating against the given registry
func NewParser(registry AnnotationRegistry) *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `//`},
		{Name: "Marker", Pattern: `dendrite`},
		{Name: "Separator", Pattern: `::`},
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Number", Pattern: `[0-9]+`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Equals", Pattern: `=`},
		{Name: "Dash", Pattern: `-`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	parser := participle.MustBuild[annotationExpr](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
	)

	return &Parser{
		parser:   parser,
		registry: registry,
	}
}

// NewDefaultParser creates a parser backed by the default schema registry
func NewDefaultParser() *Parser {
	return NewParser(DefaultRegistry())
}

// IsAnnotation reports whether a comment line is a dendrite annotation
func IsAnnotation(comment string) bool {
	return strings.HasPrefix(strings.TrimSpace(comment), Prefix)
}

// ParseAnnotation parses a single annotation comment and validates it
// against the registered schema for its type.
func (p *Parser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	trimmed := strings.TrimSpace(comment)
	if !strings.HasPrefix(trimmed, Prefix) {
		return nil, fmt.Errorf("not a dendrite annotation: %s", comment)
	}

	expr, err := p.parser.ParseString(location.File, trimmed)
	if err != nil {
		return nil, fmt.Errorf("malformed annotation at %s: %w", location.String(), err)
	}

	annotationType, err := ParseAnnotationType(expr.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid annotation at %s: %w", location.String(), err)
	}

	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return nil, fmt.Errorf("unregistered annotation at %s: %w", location.String(), err)
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Parameters: make(map[string]any),
		Location:   location,
		Raw:        trimmed,
	}

	for _, arg := range expr.Args {
		spec, known := schema.Parameters[arg.Name]
		if !known {
			return nil, fmt.Errorf("annotation at %s: unknown parameter -%s for //dendrite::%s",
				location.String(), arg.Name, expr.Name)
		}

		value, err := convertArgValue(arg, spec)
		if err != nil {
			return nil, fmt.Errorf("annotation at %s: parameter -%s: %w", location.String(), arg.Name, err)
		}
		if spec.Validator != nil {
			if err := spec.Validator(value); err != nil {
				return nil, fmt.Errorf("annotation at %s: parameter -%s: %w", location.String(), arg.Name, err)
			}
		}
		parsed.Parameters[arg.Name] = value
	}

	// Fill defaults and enforce required parameters
	for name, spec := range schema.Parameters {
		if _, set := parsed.Parameters[name]; set {
			continue
		}
		if spec.Required {
			return nil, fmt.Errorf("annotation at %s: missing required parameter -%s", location.String(), name)
		}
		if spec.DefaultValue != nil {
			parsed.Parameters[name] = spec.DefaultValue
		}
	}

	return parsed, nil
}

// convertArgValue coerces a parsed argument into the type its spec expects
func convertArgValue(arg argExpr, spec ParameterSpec) (any, error) {
	// A bare -Flag with no value is only meaningful for booleans
	if arg.Value == nil {
		if spec.Type == BoolType {
			return true, nil
		}
		return nil, fmt.Errorf("expected a %s value", spec.Type.String())
	}

	switch spec.Type {
	case StringType:
		if arg.Value.Str != nil {
			unquoted, err := strconv.Unquote(*arg.Value.Str)
			if err != nil {
				return nil, fmt.Errorf("invalid string literal: %w", err)
			}
			return unquoted, nil
		}
		if arg.Value.Ident != nil {
			return *arg.Value.Ident, nil
		}
		return nil, fmt.Errorf("expected a string value")
	case IntType:
		if arg.Value.Number != nil {
			return *arg.Value.Number, nil
		}
		return nil, fmt.Errorf("expected an integer value")
	case BoolType:
		if arg.Value.Ident != nil {
			switch *arg.Value.Ident {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
		return nil, fmt.Errorf("expected true or false")
	default:
		return nil, fmt.Errorf("unsupported parameter type %s", spec.Type.String())
	}
}
