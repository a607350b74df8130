// Package generator turns scanned package metadata into checked-in
// registration files. Each annotated package receives an
// autogen_bindings.go exposing RegisterBindings, which wires the package's
// constructors and hooks into an injector at startup. Because the file
// lives inside the package it can reference unexported constructors and
// init methods directly.
package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"

	"github.com/toyz/dendrite/internal/models"
)

// Generator produces bindings files from package metadata
type Generator struct{}

// NewGenerator creates a new code generator
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateModule renders and formats the bindings file for one package.
// The caller decides whether and where to write it.
func (g *Generator) GenerateModule(metadata *models.PackageMetadata) (*models.GeneratedModule, error) {
	if metadata == nil {
		return nil, fmt.Errorf("metadata cannot be nil")
	}
	if !metadata.HasAnnotations() {
		return nil, fmt.Errorf("package %s has no annotated constructors", metadata.PackageName)
	}

	content, err := renderBindings(metadata)
	if err != nil {
		return nil, err
	}

	filePath := filepath.Join(metadata.PackagePath, BindingsFileName)

	// imports.Process both formats the output and prunes the runtime
	// import if a package somehow generated an empty registration body.
	formatted, err := imports.Process(filePath, []byte(content), nil)
	if err != nil {
		return nil, fmt.Errorf("generated code for package %s does not format: %w", metadata.PackageName, err)
	}

	return &models.GeneratedModule{
		PackageName: metadata.PackageName,
		FilePath:    filePath,
		Content:     string(formatted),
	}, nil
}

// WriteModule writes a generated bindings file to disk
func (g *Generator) WriteModule(module *models.GeneratedModule) error {
	if err := os.WriteFile(module.FilePath, []byte(module.Content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", module.FilePath, err)
	}
	return nil
}
