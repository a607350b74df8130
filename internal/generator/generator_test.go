package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/dendrite/internal/models"
)

func testMetadata() *models.PackageMetadata {
	return &models.PackageMetadata{
		PackageName: "services",
		PackagePath: "internal/services",
		Constructables: []models.ConstructableMetadata{
			{
				TypeName: "UserService",
				Constructor: models.ConstructorMetadata{
					FunctionName: "NewUserService",
					ParamTypes:   []string{"*Database"},
				},
				Hooks: []models.HookMetadata{
					{MethodName: "warmCache", Order: 0, Line: 10},
					{MethodName: "subscribe", Order: 1, Line: 14},
				},
			},
			{
				TypeName: "Database",
				Constructor: models.ConstructorMetadata{
					FunctionName: "NewDatabase",
				},
			},
		},
	}
}

func TestGenerator_GenerateModule(t *testing.T) {
	generator := NewGenerator()

	module, err := generator.GenerateModule(testMetadata())
	require.NoError(t, err)

	assert.Equal(t, "services", module.PackageName)
	assert.Equal(t, filepath.Join("internal/services", BindingsFileName), module.FilePath)

	assert.Contains(t, module.Content, "// Code generated by dendrite. DO NOT EDIT.")
	assert.Contains(t, module.Content, "package services")
	assert.Contains(t, module.Content, `"github.com/toyz/dendrite/pkg/dendrite"`)
	assert.Contains(t, module.Content, "func RegisterBindings(inj *dendrite.Injector) error")
	assert.Contains(t, module.Content, "inj.Provide(NewUserService,")
	assert.Contains(t, module.Content, `dendrite.WithInit("warmCache", (*UserService).warmCache)`)
	assert.Contains(t, module.Content, `dendrite.WithInit("subscribe", (*UserService).subscribe)`)
	assert.Contains(t, module.Content, "inj.Provide(NewDatabase)")
}

func TestGenerator_GenerateModule_HookOptionsFollowMetadataOrder(t *testing.T) {
	generator := NewGenerator()

	module, err := generator.GenerateModule(testMetadata())
	require.NoError(t, err)

	warmIdx := strings.Index(module.Content, "warmCache")
	subIdx := strings.Index(module.Content, "subscribe")
	require.GreaterOrEqual(t, warmIdx, 0)
	require.GreaterOrEqual(t, subIdx, 0)
	assert.Less(t, warmIdx, subIdx)
}

func TestGenerator_GenerateModule_NilMetadata(t *testing.T) {
	generator := NewGenerator()

	_, err := generator.GenerateModule(nil)
	require.Error(t, err)
}

func TestGenerator_GenerateModule_NoAnnotations(t *testing.T) {
	generator := NewGenerator()

	_, err := generator.GenerateModule(&models.PackageMetadata{PackageName: "empty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no annotated constructors")
}

func TestGenerator_WriteModule(t *testing.T) {
	dir := t.TempDir()
	generator := NewGenerator()

	metadata := testMetadata()
	metadata.PackagePath = dir

	module, err := generator.GenerateModule(metadata)
	require.NoError(t, err)
	require.NoError(t, generator.WriteModule(module))

	written, err := os.ReadFile(filepath.Join(dir, BindingsFileName))
	require.NoError(t, err)
	assert.Equal(t, module.Content, string(written))
}
