// Package utils holds small shared helpers for the dendrite CLI.
package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
)

// DiagnosticSystem provides structured, user-friendly CLI output
type DiagnosticSystem struct {
	level    DiagnosticLevel
	output   io.Writer
	errorOut io.Writer

	errorColor   *color.Color
	warnColor    *color.Color
	infoColor    *color.Color
	successColor *color.Color
	verboseColor *color.Color
	sectionColor *color.Color
}

// NewDiagnosticSystem creates a new diagnostic system
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:        level,
		output:       os.Stdout,
		errorOut:     os.Stderr,
		errorColor:   color.New(color.FgRed, color.Bold),
		warnColor:    color.New(color.FgYellow),
		infoColor:    color.New(color.FgBlue),
		successColor: color.New(color.FgGreen),
		verboseColor: color.New(color.FgHiBlack),
		sectionColor: color.New(color.FgCyan, color.Bold),
	}
}

// NewQuietDiagnostics creates a diagnostic system that only shows errors
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

// NewVerboseDiagnostics creates a diagnostic system with full output
func NewVerboseDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticVerbose)
}

// SetOutput redirects both output streams. Used by tests.
func (d *DiagnosticSystem) SetOutput(w io.Writer) {
	d.output = w
	d.errorOut = w
}

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...any) {
	if d.level >= DiagnosticError {
		d.errorColor.Fprint(d.errorOut, "ERROR ")
		fmt.Fprintf(d.errorOut, format+"\n", args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...any) {
	if d.level >= DiagnosticWarn {
		d.warnColor.Fprint(d.output, "! ")
		fmt.Fprintf(d.output, format+"\n", args...)
	}
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...any) {
	if d.level >= DiagnosticInfo {
		d.infoColor.Fprint(d.output, "INFO ")
		fmt.Fprintf(d.output, format+"\n", args...)
	}
}

// Success outputs success messages with emphasis
func (d *DiagnosticSystem) Success(format string, args ...any) {
	if d.level >= DiagnosticInfo {
		d.successColor.Fprint(d.output, "✓ ")
		fmt.Fprintf(d.output, format+"\n", args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *DiagnosticSystem) Verbose(format string, args ...any) {
	if d.level >= DiagnosticVerbose {
		d.verboseColor.Fprintf(d.output, format+"\n", args...)
	}
}

// Section prints a prominent section header
func (d *DiagnosticSystem) Section(title string) {
	if d.level >= DiagnosticInfo {
		d.sectionColor.Fprintf(d.output, "== %s ==\n", title)
	}
}

// List prints an indented list entry
func (d *DiagnosticSystem) List(format string, args ...any) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "  - "+format+"\n", args...)
	}
}
