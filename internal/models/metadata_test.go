package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAnnotations(t *testing.T) {
	empty := &PackageMetadata{PackageName: "services"}
	assert.False(t, empty.HasAnnotations())

	annotated := &PackageMetadata{
		PackageName: "services",
		Constructables: []ConstructableMetadata{
			{TypeName: "UserService"},
		},
	}
	assert.True(t, annotated.HasAnnotations())
}

func TestSortHooks_ByOrderThenSourcePosition(t *testing.T) {
	constructable := ConstructableMetadata{
		TypeName: "UserService",
		Hooks: []HookMetadata{
			{MethodName: "third", Order: 5, FileName: "a.go", Line: 10},
			{MethodName: "second", Order: 0, FileName: "b.go", Line: 3},
			{MethodName: "first", Order: 0, FileName: "a.go", Line: 20},
			{MethodName: "fourth", Order: 9, FileName: "a.go", Line: 1},
		},
	}

	constructable.SortHooks()

	names := make([]string, 0, len(constructable.Hooks))
	for _, hook := range constructable.Hooks {
		names = append(names, hook.MethodName)
	}
	assert.Equal(t, []string{"first", "second", "third", "fourth"}, names)
}

func TestSortHooks_StableForEqualPositions(t *testing.T) {
	constructable := ConstructableMetadata{
		Hooks: []HookMetadata{
			{MethodName: "a", Order: 1, FileName: "svc.go", Line: 4},
			{MethodName: "b", Order: 1, FileName: "svc.go", Line: 4},
		},
	}

	constructable.SortHooks()

	assert.Equal(t, "a", constructable.Hooks[0].MethodName)
	assert.Equal(t, "b", constructable.Hooks[1].MethodName)
}
