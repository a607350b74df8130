package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAnnotation(t *testing.T) {
	assert.True(t, IsAnnotation("//dendrite::inject"))
	assert.True(t, IsAnnotation("  //dendrite::init -Order=1"))
	assert.False(t, IsAnnotation("// dendrite::inject"))
	assert.False(t, IsAnnotation("//axon::core"))
	assert.False(t, IsAnnotation("// regular comment"))
}

func TestParser_ParseInjectAnnotation(t *testing.T) {
	parser := NewDefaultParser()

	parsed, err := parser.ParseAnnotation("//dendrite::inject", SourceLocation{File: "service.go", Line: 10})
	require.NoError(t, err)

	assert.Equal(t, InjectAnnotation, parsed.Type)
	assert.Equal(t, "//dendrite::inject", parsed.Raw)
	assert.Equal(t, "service.go", parsed.Location.File)
	assert.Equal(t, 10, parsed.Location.Line)
	assert.Empty(t, parsed.Parameters)
}

func TestParser_ParseInitAnnotation_DefaultOrder(t *testing.T) {
	parser := NewDefaultParser()

	parsed, err := parser.ParseAnnotation("//dendrite::init", SourceLocation{File: "service.go", Line: 22})
	require.NoError(t, err)

	assert.Equal(t, InitAnnotation, parsed.Type)
	assert.Equal(t, 0, parsed.GetInt("Order"))
}

func TestParser_ParseInitAnnotation_ExplicitOrder(t *testing.T) {
	parser := NewDefaultParser()

	parsed, err := parser.ParseAnnotation("//dendrite::init -Order=3", SourceLocation{File: "service.go", Line: 30})
	require.NoError(t, err)
	assert.Equal(t, 3, parsed.GetInt("Order"))
}

func TestParser_RejectsNegativeOrder(t *testing.T) {
	// The lexer has no unary minus, so a negative order is a parse error
	parser := NewDefaultParser()

	_, err := parser.ParseAnnotation("//dendrite::init -Order=-1", SourceLocation{File: "service.go", Line: 5})
	require.Error(t, err)
}

func TestParser_UnknownAnnotationType(t *testing.T) {
	parser := NewDefaultParser()

	_, err := parser.ParseAnnotation("//dendrite::provide", SourceLocation{File: "service.go", Line: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown annotation type")
}

func TestParser_UnknownParameter(t *testing.T) {
	parser := NewDefaultParser()

	_, err := parser.ParseAnnotation("//dendrite::inject -Mode=Singleton", SourceLocation{File: "service.go", Line: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parameter -Mode")
}

func TestParser_NotAnAnnotation(t *testing.T) {
	parser := NewDefaultParser()

	_, err := parser.ParseAnnotation("// plain comment", SourceLocation{File: "service.go", Line: 1})
	require.Error(t, err)
}

func TestParser_MalformedAnnotation(t *testing.T) {
	parser := NewDefaultParser()

	_, err := parser.ParseAnnotation("//dendrite::", SourceLocation{File: "service.go", Line: 1})
	require.Error(t, err)
}

func TestParser_ErrorsCarryLocation(t *testing.T) {
	parser := NewDefaultParser()

	_, err := parser.ParseAnnotation("//dendrite::inject -Bogus", SourceLocation{File: "internal/app/svc.go", Line: 42})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal/app/svc.go:42")
}

func TestParsedAnnotation_Getters(t *testing.T) {
	parsed := &ParsedAnnotation{
		Parameters: map[string]any{
			"Name":    "warmCache",
			"Order":   2,
			"Enabled": true,
		},
	}

	assert.Equal(t, "warmCache", parsed.GetString("Name"))
	assert.Equal(t, 2, parsed.GetInt("Order"))
	assert.True(t, parsed.GetBool("Enabled"))

	// Defaults apply when the parameter is absent or mistyped
	assert.Equal(t, "fallback", parsed.GetString("Missing", "fallback"))
	assert.Equal(t, 7, parsed.GetInt("Missing", 7))
	assert.False(t, parsed.GetBool("Missing"))
	assert.Equal(t, 0, parsed.GetInt("Name"))
}

func TestSourceLocation_String(t *testing.T) {
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "svc.go", SourceLocation{File: "svc.go"}.String())
	assert.Equal(t, "svc.go:12", SourceLocation{File: "svc.go", Line: 12}.String())
}
