// Package codegen renders typed Go wrappers for the algorithms a registry
// provides: one package per category, one file per algorithm, each wrapper
// with a setter per parameter, a Compute taking every input and a result type
// with a getter per output.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/roach88/sigbind/internal/algorithm"
	"github.com/roach88/sigbind/internal/registry"
)

// Header marks every generated file.
const Header = "// Code generated by sigbind-gen. DO NOT EDIT."

// File is one generated source file. Path is slash-separated and relative to
// the output root.
type File struct {
	Path   string
	Source []byte
}

// Describe collects the introspection of every algorithm reg provides, in
// name order.
func Describe(reg *registry.Registry) ([]*algorithm.Introspection, error) {
	names, err := reg.Names()
	if err != nil {
		return nil, err
	}
	out := make([]*algorithm.Introspection, 0, len(names))
	for _, name := range names {
		in, err := reg.Describe(name)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", name, err)
		}
		out = append(out, in)
	}
	return out, nil
}

// Generate renders the wrappers for ins. Files come back sorted by path.
func Generate(ins []*algorithm.Introspection) ([]File, error) {
	categories := make(map[string][]*algorithm.Introspection)
	for _, in := range ins {
		pkg := packageName(in.Category)
		categories[pkg] = append(categories[pkg], in)
	}

	var files []File
	for pkg, members := range categories {
		names := make([]string, 0, len(members))
		seen := make(map[string]string)
		for _, in := range members {
			data, err := wrapperData(pkg, in)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", in.Name, err)
			}
			file := fileName(in.Name)
			if other, dup := seen[file]; dup {
				return nil, fmt.Errorf("%s and %s both generate %s/%s", other, in.Name, pkg, file)
			}
			seen[file] = in.Name
			src, err := render(wrapperTemplate, data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", in.Name, err)
			}
			files = append(files, File{Path: path.Join(pkg, file), Source: src})
			names = append(names, data.Type)
		}
		slices.Sort(names)
		src, err := render(docTemplate, docData{Package: pkg, Category: members[0].Category, Types: names})
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", pkg, err)
		}
		files = append(files, File{Path: path.Join(pkg, "doc.go"), Source: src})
	}
	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.Path, b.Path) })
	return files, nil
}

// Write stores files under dir, creating category directories as needed.
func Write(dir string, files []File) error {
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(p, f.Source, 0644); err != nil {
			return err
		}
	}
	return nil
}

type wrapper struct {
	Header     string
	Package    string
	Name       string
	Type       string
	TypeDoc    string
	ComputeDoc string
	Args       string
	UsesValue  bool
	Params     []member
	Inputs     []member
	Outputs    []member
}

type member struct {
	Name     string
	Method   string
	Doc      string
	GoType   string
	Wrap     string
	Accessor string
}

type docData struct {
	Package  string
	Category string
	Types    []string
}

func wrapperData(pkg string, in *algorithm.Introspection) (wrapper, error) {
	w := wrapper{
		Header:  Header,
		Package: pkg,
		Name:    in.Name,
		Type:    exported(in.Name),
	}
	w.TypeDoc = fmt.Sprintf("%s is the typed binding of the %s algorithm.", w.Type, in.Name)
	if in.Description != "" {
		w.TypeDoc += "\n\n" + in.Description
	}

	methods := make(map[string]string)
	for _, p := range in.Parameters {
		g, err := typeFor(p.Type)
		if err != nil {
			return w, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		m := member{Name: p.Name, Method: "Set" + exported(p.Name), GoType: g.In, Wrap: fmt.Sprintf(g.Wrap, "v")}
		if other, dup := methods[m.Method]; dup {
			return w, fmt.Errorf("parameter %s: method %s already taken by %q", p.Name, m.Method, other)
		}
		methods[m.Method] = p.Name
		m.Doc = sentence(fmt.Sprintf("%s sets the %s parameter", m.Method, p.Name), p.Description)
		var extra []string
		if p.Default != "" {
			extra = append(extra, "Default: "+p.Default+".")
		}
		if p.Constraint != "" {
			extra = append(extra, "Range: "+p.Constraint+".")
		}
		if len(extra) > 0 {
			m.Doc += "\n" + strings.Join(extra, " ")
		}
		w.Params = append(w.Params, m)
	}

	args := make([]string, 0, len(in.Inputs))
	argNames := make(map[string]string)
	var lines []string
	for _, io := range in.Inputs {
		g, err := typeFor(io.Type)
		if err != nil {
			return w, fmt.Errorf("input %s: %w", io.Name, err)
		}
		arg := argument(io.Name)
		if other, dup := argNames[arg]; dup {
			return w, fmt.Errorf("inputs %s and %s both map to argument %s", other, io.Name, arg)
		}
		argNames[arg] = io.Name
		args = append(args, arg+" "+g.In)
		w.Inputs = append(w.Inputs, member{Name: io.Name, GoType: g.In, Wrap: fmt.Sprintf(g.Wrap, arg)})
		if io.Description != "" {
			lines = append(lines, arg+": "+io.Description)
		}
	}
	w.Args = strings.Join(args, ", ")
	if len(in.Inputs) == 0 {
		w.ComputeDoc = fmt.Sprintf("Compute runs %s.", in.Name)
	} else {
		w.ComputeDoc = fmt.Sprintf("Compute binds the inputs and runs %s.", in.Name)
	}
	if len(lines) > 0 {
		w.ComputeDoc += "\n\n" + strings.Join(lines, "\n")
	}

	getters := make(map[string]string)
	for _, io := range in.Outputs {
		g, err := typeFor(io.Type)
		if err != nil {
			return w, fmt.Errorf("output %s: %w", io.Name, err)
		}
		m := member{Name: io.Name, Method: exported(io.Name), GoType: g.Out, Accessor: g.Accessor}
		if other, dup := getters[m.Method]; dup {
			return w, fmt.Errorf("outputs %s and %s both map to method %s", other, io.Name, m.Method)
		}
		getters[m.Method] = io.Name
		m.Doc = sentence(fmt.Sprintf("%s returns the %s output", m.Method, io.Name), io.Description)
		w.Outputs = append(w.Outputs, m)
	}
	// Every setter, argument and getter goes through package value.
	w.UsesValue = len(w.Params)+len(w.Inputs)+len(w.Outputs) > 0
	return w, nil
}

// sentence joins a lead and an optional description into one sentence.
func sentence(lead, desc string) string {
	if desc == "" {
		return lead + "."
	}
	return lead + ": " + strings.TrimSuffix(desc, ".") + "."
}

// comment renders text as a // comment block.
func comment(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		l = strings.TrimRight(l, " \t")
		if l == "" {
			lines[i] = "//"
		} else {
			lines[i] = "// " + l
		}
	}
	return strings.Join(lines, "\n")
}

func render(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w\n%s", err, buf.Bytes())
	}
	return src, nil
}
