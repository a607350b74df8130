package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ModuleResolver determines the Go module a generation run is operating in
type ModuleResolver struct{}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{}
}

// ResolveModuleName returns the module path for the current working tree.
// A non-empty customModule short-circuits the go.mod lookup.
func (r *ModuleResolver) ResolveModuleName(customModule string) (string, error) {
	if customModule != "" {
		return customModule, nil
	}

	goModPath, err := r.findGoMod()
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using --module)", err)
	}
	return r.parseModuleName(goModPath)
}

// findGoMod walks up from the working directory looking for a go.mod file
func (r *ModuleResolver) findGoMod() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found")
}

// parseModuleName extracts the module path using the official modfile parser
func (r *ModuleResolver) parseModuleName(goModPath string) (string, error) {
	content, err := os.ReadFile(goModPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}

	modFile, err := modfile.Parse(goModPath, content, nil)
	if err != nil {
		return "", fmt.Errorf("failed to parse go.mod file: %w", err)
	}
	if modFile.Module == nil {
		return "", fmt.Errorf("no module declaration found in %s", goModPath)
	}

	return modFile.Module.Mod.Path, nil
}
