// Package parser scans Go source for //dendrite:: annotations and builds
// the package metadata the generator consumes.
package parser

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"go/types"
	"sort"

	"github.com/toyz/dendrite/internal/annotations"
	"github.com/toyz/dendrite/internal/models"
)

// Parser extracts injectable constructors and post-construct hooks from
// annotated Go source.
type Parser struct {
	fileSet     *token.FileSet
	annotations *annotations.Parser
}

// NewParser creates a new source parser
func NewParser() *Parser {
	return &Parser{
		fileSet:     token.NewFileSet(),
		annotations: annotations.NewDefaultParser(),
	}
}

// ParseSource parses source code from a string. Used by tests and by any
// caller that already has file contents in memory.
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := goparser.ParseFile(p.fileSet, filename, source, goparser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	metadata := &models.PackageMetadata{
		PackageName: file.Name.Name,
		PackagePath: "./",
	}

	found, err := p.extractAnnotated(file, filename)
	if err != nil {
		return nil, err
	}

	if err := p.buildMetadata(found, metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

// ParseDirectory scans a single directory (one package) for annotated
// constructors and methods.
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	pkgs, err := goparser.ParseDir(p.fileSet, path, nil, goparser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse directory %s: %w", path, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no Go packages found in directory %s", path)
	}

	// Ignore the external test package if one is present
	var pkg *ast.Package
	var packageName string
	for name, candidate := range pkgs {
		if pkg == nil || len(name) < len(packageName) {
			pkg = candidate
			packageName = name
		}
	}

	metadata := &models.PackageMetadata{
		PackageName: packageName,
		PackagePath: path,
	}

	var found []annotatedDecl
	fileNames := make([]string, 0, len(pkg.Files))
	for fileName := range pkg.Files {
		fileNames = append(fileNames, fileName)
	}
	sort.Strings(fileNames)

	for _, fileName := range fileNames {
		decls, err := p.extractAnnotated(pkg.Files[fileName], fileName)
		if err != nil {
			return nil, err
		}
		found = append(found, decls...)
	}

	if err := p.buildMetadata(found, metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

// annotatedDecl pairs a parsed annotation with the declaration it documents
type annotatedDecl struct {
	annotation *annotations.ParsedAnnotation
	decl       *ast.FuncDecl
	fileName   string
}

// extractAnnotated walks a file's declarations and parses any dendrite
// annotation found in their doc comments.
func (p *Parser) extractAnnotated(file *ast.File, fileName string) ([]annotatedDecl, error) {
	var found []annotatedDecl

	for _, decl := range file.Decls {
		funcDecl, ok := decl.(*ast.FuncDecl)
		if ok && funcDecl.Doc != nil {
			for _, comment := range funcDecl.Doc.List {
				if !annotations.IsAnnotation(comment.Text) {
					continue
				}

				location := annotations.SourceLocation{
					File: fileName,
					Line: p.fileSet.Position(comment.Pos()).Line,
				}
				parsed, err := p.annotations.ParseAnnotation(comment.Text, location)
				if err != nil {
					return nil, err
				}
				parsed.Target = funcDecl.Name.Name

				found = append(found, annotatedDecl{
					annotation: parsed,
					decl:       funcDecl,
					fileName:   fileName,
				})
			}
		}

		// Annotations on anything but functions and methods are mistakes
		// worth surfacing rather than silently ignoring.
		if genDecl, ok := decl.(*ast.GenDecl); ok && genDecl.Doc != nil {
			for _, comment := range genDecl.Doc.List {
				if annotations.IsAnnotation(comment.Text) {
					return nil, fmt.Errorf("%s:%d: dendrite annotations apply to functions and methods only",
						fileName, p.fileSet.Position(comment.Pos()).Line)
				}
			}
		}
	}

	return found, nil
}

// buildMetadata groups annotated declarations by target type and validates
// the package-level invariants: exactly one injectable constructor per
// type, and no orphaned init hooks.
func (p *Parser) buildMetadata(found []annotatedDecl, metadata *models.PackageMetadata) error {
	byType := make(map[string]*models.ConstructableMetadata)
	var typeOrder []string

	// Constructors first so hooks can attach to them regardless of file order
	for _, item := range found {
		if item.annotation.Type != annotations.InjectAnnotation {
			continue
		}

		ctor, typeName, err := p.constructorMetadata(item)
		if err != nil {
			return err
		}

		if existing, dup := byType[typeName]; dup {
			return fmt.Errorf("%s:%d: duplicate injectable constructor for type %s (already declared by %s)",
				item.fileName, ctor.Line, typeName, existing.Constructor.FunctionName)
		}

		byType[typeName] = &models.ConstructableMetadata{
			TypeName:    typeName,
			Constructor: ctor,
		}
		typeOrder = append(typeOrder, typeName)
	}

	for _, item := range found {
		if item.annotation.Type != annotations.InitAnnotation {
			continue
		}

		hook, typeName, err := p.hookMetadata(item)
		if err != nil {
			return err
		}

		target, ok := byType[typeName]
		if !ok {
			return fmt.Errorf("%s:%d: init hook %s on type %s which has no injectable constructor",
				item.fileName, hook.Line, hook.MethodName, typeName)
		}
		target.Hooks = append(target.Hooks, hook)
	}

	sort.Strings(typeOrder)
	for _, typeName := range typeOrder {
		constructable := byType[typeName]
		constructable.SortHooks()
		metadata.Constructables = append(metadata.Constructables, *constructable)
	}
	return nil
}

// constructorMetadata validates an inject-annotated function and extracts
// its metadata. The constructor must be a plain function in the scanned
// package returning *T or (*T, error).
func (p *Parser) constructorMetadata(item annotatedDecl) (models.ConstructorMetadata, string, error) {
	decl := item.decl
	line := item.annotation.Location.Line

	fail := func(format string, args ...any) (models.ConstructorMetadata, string, error) {
		prefix := fmt.Sprintf("%s:%d: constructor %s: ", item.fileName, line, decl.Name.Name)
		return models.ConstructorMetadata{}, "", fmt.Errorf(prefix+format, args...)
	}

	if decl.Recv != nil {
		return fail("//dendrite::inject applies to functions, not methods")
	}
	if decl.Type.Results == nil || len(decl.Type.Results.List) == 0 {
		return fail("must return the constructed type")
	}

	results := decl.Type.Results.List
	if len(results) > 2 {
		return fail("must return *T or (*T, error)")
	}

	returnsError := false
	if len(results) == 2 {
		if ident, ok := results[1].Type.(*ast.Ident); !ok || ident.Name != "error" {
			return fail("second result must be error")
		}
		returnsError = true
	}

	star, ok := results[0].Type.(*ast.StarExpr)
	if !ok {
		return fail("must return a pointer to the constructed type")
	}
	ident, ok := star.X.(*ast.Ident)
	if !ok {
		return fail("must return a type declared in the same package")
	}

	var paramTypes []string
	if decl.Type.Params != nil {
		for _, field := range decl.Type.Params.List {
			typeString := types.ExprString(field.Type)
			// A field may declare several names sharing one type
			count := len(field.Names)
			if count == 0 {
				count = 1
			}
			for n := 0; n < count; n++ {
				paramTypes = append(paramTypes, typeString)
			}
		}
	}

	return models.ConstructorMetadata{
		FunctionName: decl.Name.Name,
		ParamTypes:   paramTypes,
		ReturnsError: returnsError,
		FileName:     item.fileName,
		Line:         line,
	}, ident.Name, nil
}

// hookMetadata validates an init-annotated method and extracts its
// metadata. Hooks take no arguments and return nothing or error.
func (p *Parser) hookMetadata(item annotatedDecl) (models.HookMetadata, string, error) {
	decl := item.decl
	line := item.annotation.Location.Line

	fail := func(format string, args ...any) (models.HookMetadata, string, error) {
		prefix := fmt.Sprintf("%s:%d: init hook %s: ", item.fileName, line, decl.Name.Name)
		return models.HookMetadata{}, "", fmt.Errorf(prefix+format, args...)
	}

	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return fail("//dendrite::init applies to methods, not functions")
	}
	if decl.Type.Params != nil && len(decl.Type.Params.List) > 0 {
		return fail("must take no arguments")
	}
	if decl.Type.Results != nil && len(decl.Type.Results.List) > 0 {
		if len(decl.Type.Results.List) > 1 {
			return fail("may only return error")
		}
		if ident, ok := decl.Type.Results.List[0].Type.(*ast.Ident); !ok || ident.Name != "error" {
			return fail("may only return error")
		}
	}

	typeName, err := receiverTypeName(decl.Recv.List[0].Type)
	if err != nil {
		return fail("%v", err)
	}

	return models.HookMetadata{
		MethodName: decl.Name.Name,
		Order:      item.annotation.GetInt("Order"),
		FileName:   item.fileName,
		Line:       line,
	}, typeName, nil
}

// receiverTypeName resolves the base type name of a method receiver
func receiverTypeName(expr ast.Expr) (string, error) {
	switch t := expr.(type) {
	case *ast.StarExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return ident.Name, nil
		}
	case *ast.Ident:
		return t.Name, nil
	}
	return "", fmt.Errorf("unsupported receiver type")
}
