package models

import "sort"

// PackageMetadata holds everything the generator needs to know about one
// scanned package: which types have an injectable constructor and which
// post-construct hooks belong to each.
type PackageMetadata struct {
	PackageName    string                  // declared package name
	PackagePath    string                  // directory the package was parsed from
	Constructables []ConstructableMetadata // one entry per injectable target type
}

// ConstructableMetadata describes a single target type: its marked
// constructor plus the ordered post-construct hooks.
type ConstructableMetadata struct {
	TypeName    string         // base type name the constructor produces (without pointer)
	Constructor ConstructorMetadata
	Hooks       []HookMetadata // sorted by (Order, Line) before generation
}

// ConstructorMetadata describes the function marked with //dendrite::inject
type ConstructorMetadata struct {
	FunctionName string   // name of the constructor function
	ParamTypes   []string // declared parameter types, left to right
	ReturnsError bool     // whether the constructor returns (T, error)
	FileName     string   // file the constructor was declared in
	Line         int      // line of the annotation
}

// HookMetadata describes a method marked with //dendrite::init
type HookMetadata struct {
	MethodName string // name of the method on the target type
	Order      int    // explicit -Order value, defaults to 0
	FileName   string // file the method was declared in
	Line       int    // line of the annotation
}

// SortHooks orders hooks by explicit Order, breaking ties on source
// position so generation is deterministic.
func (c *ConstructableMetadata) SortHooks() {
	sort.SliceStable(c.Hooks, func(i, j int) bool {
		if c.Hooks[i].Order != c.Hooks[j].Order {
			return c.Hooks[i].Order < c.Hooks[j].Order
		}
		if c.Hooks[i].FileName != c.Hooks[j].FileName {
			return c.Hooks[i].FileName < c.Hooks[j].FileName
		}
		return c.Hooks[i].Line < c.Hooks[j].Line
	})
}

// HasAnnotations reports whether the package produced anything to generate
func (p *PackageMetadata) HasAnnotations() bool {
	return len(p.Constructables) > 0
}

// GeneratedModule represents one generated bindings file
type GeneratedModule struct {
	PackageName string // package the file belongs to
	FilePath    string // absolute or relative output path
	Content     string // formatted Go source
}
