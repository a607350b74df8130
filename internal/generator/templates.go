package generator

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/toyz/dendrite/internal/models"
)

// BindingsFileName is the name of the generated file in each package
const BindingsFileName = "autogen_bindings.go"

// RuntimeImportPath is the import path of the dendrite runtime package
const RuntimeImportPath = "github.com/toyz/dendrite/pkg/dendrite"

// bindingsData is the template payload for one generated file
type bindingsData struct {
	PackageName    string
	RuntimeImport  string
	Constructables []constructableData
}

// constructableData renders one Provide call
type constructableData struct {
	TypeName        string
	ConstructorFunc string
	Hooks           []hookData
}

// hookData renders one WithInit option
type hookData struct {
	Name     string
	TypeName string
}

var bindingsTemplate = template.Must(template.New("bindings").Parse(`// Code generated by dendrite. DO NOT EDIT.

package {{.PackageName}}

import (
	"{{.RuntimeImport}}"
)

// RegisterBindings registers this package's injectable constructors and
// their post-construct hooks with the given injector.
func RegisterBindings(inj *dendrite.Injector) error {
{{- range .Constructables}}
{{- if .Hooks}}
	if err := inj.Provide({{.ConstructorFunc}},
{{- range .Hooks}}
		dendrite.WithInit("{{.Name}}", (*{{.TypeName}}).{{.Name}}),
{{- end}}
	); err != nil {
		return err
	}
{{- else}}
	if err := inj.Provide({{.ConstructorFunc}}); err != nil {
		return err
	}
{{- end}}
{{- end}}
	return nil
}
`))

// renderBindings executes the bindings template for a package
func renderBindings(metadata *models.PackageMetadata) (string, error) {
	data := bindingsData{
		PackageName:   metadata.PackageName,
		RuntimeImport: RuntimeImportPath,
	}

	for _, constructable := range metadata.Constructables {
		cd := constructableData{
			TypeName:        constructable.TypeName,
			ConstructorFunc: constructable.Constructor.FunctionName,
		}
		for _, hook := range constructable.Hooks {
			cd.Hooks = append(cd.Hooks, hookData{
				Name:     hook.MethodName,
				TypeName: constructable.TypeName,
			})
		}
		data.Constructables = append(data.Constructables, cd)
	}

	var buf bytes.Buffer
	if err := bindingsTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute bindings template: %w", err)
	}
	return buf.String(), nil
}
