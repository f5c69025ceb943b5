package codegen

import "text/template"

var funcs = template.FuncMap{"comment": comment}

var wrapperTemplate = template.Must(template.New("wrapper").Funcs(funcs).Parse(`{{.Header}}

package {{.Package}}

import (
	"github.com/roach88/sigbind/internal/algorithm"
	"github.com/roach88/sigbind/internal/registry"
{{- if .UsesValue}}
	"github.com/roach88/sigbind/internal/value"
{{- end}}
)

{{comment .TypeDoc}}
type {{.Type}} struct {
	t *algorithm.Typed
}

// New{{.Type}} creates a {{.Type}} with every parameter at its default.
func New{{.Type}}(reg *registry.Registry) (*{{.Type}}, error) {
	b, err := reg.Create({{printf "%q" .Name}})
	if err != nil {
		return nil, err
	}
	return &{{.Type}}{t: algorithm.NewTyped(b)}, nil
}
{{range .Params}}
{{comment .Doc}}
func (a *{{$.Type}}) {{.Method}}(v {{.GoType}}) *{{$.Type}} {
	a.t.SetParameter({{printf "%q" .Name}}, {{.Wrap}})
	return a
}
{{end}}
// Configure applies the parameters set since the last Configure over the
// defaults. Compute fails until Configure has succeeded once.
func (a *{{.Type}}) Configure() error {
	return a.t.Configure()
}

{{comment .ComputeDoc}}
func (a *{{.Type}}) Compute({{.Args}}) (*{{.Type}}Result, error) {
{{- range .Inputs}}
	if err := a.t.SetInput({{printf "%q" .Name}}, {{.Wrap}}); err != nil {
		return nil, err
	}
{{- end}}
	if err := a.t.Compute(); err != nil {
		return nil, err
	}
	return &{{.Type}}Result{b: a.t.Binding()}, nil
}

// Close releases the instance.
func (a *{{.Type}}) Close() error {
	return a.t.Close()
}

// {{.Type}}Result reads the outputs of the last computation. Slices, maps and
// stores it returns are views that the next Compute overwrites.
type {{.Type}}Result struct {
	b *algorithm.Binding
}
{{- range .Outputs}}

{{comment .Doc}}
func (r *{{$.Type}}Result) {{.Method}}() ({{.GoType}}, error) {
	return algorithm.Output(r.b, {{printf "%q" .Name}}, (*value.Value).{{.Accessor}})
}
{{- end}}
`))

var docTemplate = template.Must(template.New("doc").Parse(`` + Header + `

// Package {{.Package}} holds the typed bindings of the {{.Category}} algorithms.
//
// {{range $i, $t := .Types}}{{if $i}}, {{end}}{{$t}}{{end}}.
package {{.Package}}
`))
