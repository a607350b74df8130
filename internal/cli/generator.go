// Package cli wires the dendrite toolchain together: scanning directories,
// parsing annotations, generating bindings files, and reporting progress.
package cli

import (
	"fmt"

	"github.com/toyz/dendrite/internal/generator"
	"github.com/toyz/dendrite/internal/parser"
	"github.com/toyz/dendrite/internal/utils"
)

// Summary describes what one generation run produced
type Summary struct {
	ModuleName          string
	PackagesProcessed   int
	ConstructablesFound int
	GeneratedFiles      []string
}

// Generator orchestrates a full generation run
type Generator struct {
	scanner      *DirectoryScanner
	resolver     *ModuleResolver
	parser       *parser.Parser
	codegen      *generator.Generator
	diagnostics  *utils.DiagnosticSystem
	customModule string
	summary      Summary
}

// NewGenerator creates a generation orchestrator reporting through the
// given diagnostic system.
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	return &Generator{
		scanner:     NewDirectoryScanner(),
		resolver:    NewModuleResolver(),
		parser:      parser.NewParser(),
		codegen:     generator.NewGenerator(),
		diagnostics: diagnostics,
	}
}

// SetCustomModule overrides go.mod module resolution
func (g *Generator) SetCustomModule(name string) {
	g.customModule = name
}

// Generate runs the scan → parse → generate pipeline over the given
// directory arguments.
func (g *Generator) Generate(args []string) error {
	moduleName, err := g.resolver.ResolveModuleName(g.customModule)
	if err != nil {
		return err
	}
	g.summary.ModuleName = moduleName
	g.diagnostics.Verbose("Module: %s", moduleName)

	directories, err := g.scanner.ScanDirectories(args)
	if err != nil {
		return err
	}
	if len(directories) == 0 {
		return fmt.Errorf("no Go packages found under %v", args)
	}

	for _, dir := range directories {
		if err := g.processDirectory(dir); err != nil {
			return err
		}
	}

	return nil
}

// processDirectory parses one package directory and writes its bindings
// file when it contains annotated constructors.
func (g *Generator) processDirectory(dir string) error {
	metadata, err := g.parser.ParseDirectory(dir)
	if err != nil {
		return fmt.Errorf("failed to process %s: %w", dir, err)
	}
	g.summary.PackagesProcessed++

	if !metadata.HasAnnotations() {
		g.diagnostics.Verbose("Skipping %s: no annotations", dir)
		return nil
	}

	module, err := g.codegen.GenerateModule(metadata)
	if err != nil {
		return err
	}
	if err := g.codegen.WriteModule(module); err != nil {
		return err
	}

	g.summary.ConstructablesFound += len(metadata.Constructables)
	g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, module.FilePath)
	g.diagnostics.Success("Generated %s (%d constructables)", module.FilePath, len(metadata.Constructables))
	return nil
}

// GetSummary returns the statistics of the last Generate run
func (g *Generator) GetSummary() Summary {
	return g.summary
}
