package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/toyz/dendrite/internal/cli"
	"github.com/toyz/dendrite/internal/utils"
)

func main() {
	var (
		moduleFlag  = flag.String("module", "", "Custom module name for imports (defaults to go.mod module)")
		verboseFlag = flag.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = flag.Bool("quiet", false, "Only show errors and final results")
		cleanFlag   = flag.Bool("clean", false, "Delete all autogen_bindings.go files from the specified directories")
		helpFlag    = flag.Bool("help", false, "Show help information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <directory-paths...>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Dendrite Code Generator\n")
		fmt.Fprintf(os.Stderr, "Scans directories for Go files with dendrite:: annotations and generates binding registrations.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nArguments:\n")
		fmt.Fprintf(os.Stderr, "  directory-paths    One or more directories to scan for annotated Go files\n")
		fmt.Fprintf(os.Stderr, "                     Supports Go-style patterns like './...' for recursive scanning\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s ./...                                  # Scan everything recursively\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s ./internal/services                    # Scan a specific directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --module github.com/myorg/myapp ./...  # Specify custom module name\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --clean ./...                          # Delete generated bindings files\n", os.Args[0])
	}

	flag.Parse()

	if *helpFlag {
		flag.Usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Error: At least one directory path is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case *quietFlag:
		diagnostics = utils.NewQuietDiagnostics()
	case *verboseFlag:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	diagnostics.Section("Dendrite Code Generator")

	if *cleanFlag {
		cleaner := cli.NewCleaner()
		removed, err := cleaner.CleanGeneratedFiles(args)
		if err != nil {
			diagnostics.Error("Clean operation failed: %v", err)
			os.Exit(1)
		}
		for _, path := range removed {
			diagnostics.List("%s", path)
		}
		diagnostics.Success("Removed %d generated bindings files", len(removed))
		return
	}

	if *verboseFlag {
		diagnostics.Verbose("Target directories: %s", strings.Join(args, ", "))
	}

	generator := cli.NewGenerator(diagnostics)
	if *moduleFlag != "" {
		generator.SetCustomModule(*moduleFlag)
	}

	if err := generator.Generate(args); err != nil {
		diagnostics.Error("Generation failed: %v", err)
		os.Exit(1)
	}

	summary := generator.GetSummary()
	diagnostics.Section("Generation Complete")
	diagnostics.List("Packages processed: %d", summary.PackagesProcessed)
	diagnostics.List("Constructables found: %d", summary.ConstructablesFound)
	diagnostics.List("Files generated: %d", len(summary.GeneratedFiles))

	if *verboseFlag {
		for _, file := range summary.GeneratedFiles {
			diagnostics.List("%s", file)
		}
	}
}
