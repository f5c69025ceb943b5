package algorithm

import (
	"reflect"

	"github.com/roach88/sigbind/internal/params"
	"github.com/roach88/sigbind/internal/value"
)

// ParameterInfo describes one declared parameter.
type ParameterInfo struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Constraint  string    `json:"constraint" yaml:"constraint"`
	Type        value.Tag `json:"type" yaml:"type"`
	// Default is the rendered default value, or "" when it has no rendering.
	Default string `json:"default" yaml:"default"`
}

// IOInfo describes one declared input or output.
type IOInfo struct {
	Name        string    `json:"name" yaml:"name"`
	Type        value.Tag `json:"type" yaml:"type"`
	Description string    `json:"description" yaml:"description"`
}

// Introspection is a snapshot of an algorithm's metadata and schema.
type Introspection struct {
	Name        string          `json:"name" yaml:"name"`
	Category    string          `json:"category" yaml:"category"`
	Description string          `json:"description" yaml:"description"`
	Parameters  []ParameterInfo `json:"parameters" yaml:"parameters"`
	Inputs      []IOInfo        `json:"inputs" yaml:"inputs"`
	Outputs     []IOInfo        `json:"outputs" yaml:"outputs"`
}

// Parameter returns the named parameter's description.
func (in *Introspection) Parameter(name string) (ParameterInfo, bool) {
	for _, p := range in.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterInfo{}, false
}

// Input returns the named input's description.
func (in *Introspection) Input(name string) (IOInfo, bool) {
	return findIO(in.Inputs, name)
}

// Output returns the named output's description.
func (in *Introspection) Output(name string) (IOInfo, bool) {
	return findIO(in.Outputs, name)
}

func findIO(infos []IOInfo, name string) (IOInfo, bool) {
	for _, io := range infos {
		if io.Name == name {
			return io, true
		}
	}
	return IOInfo{}, false
}

// ParameterInfos enumerates declared parameters. A default with no textual
// rendering is reported as "". A parameter whose default kind has no tag is
// an error.
func (b *Binding) ParameterInfos() ([]ParameterInfo, error) {
	defaults := b.algo.DefaultParameters()
	descs := b.algo.ParameterDescriptions()
	infos := make([]ParameterInfo, 0, len(descs))
	for _, d := range descs {
		def, _ := defaults.Get(d.Name)
		tag, err := value.TagForParamKind(def.Kind())
		if err != nil {
			return nil, b.fail(ErrCodeUnsupportedDataType, d.Name, err, "parameter has no default type")
		}
		rendered, err := def.ToString()
		if err != nil {
			b.logger.Debug("default not renderable", "algorithm", b.Name(), "parameter", d.Name, "error", err)
			rendered = ""
		}
		infos = append(infos, ParameterInfo{
			Name:        d.Name,
			Description: d.Description,
			Constraint:  d.Range,
			Type:        tag,
			Default:     rendered,
		})
	}
	return infos, nil
}

// InputInfos enumerates declared inputs.
func (b *Binding) InputInfos() ([]IOInfo, error) {
	return b.ioInfos("input", b.algo.InputNames(), b.algo.InputTypes(), b.algo.InputDescriptions())
}

// OutputInfos enumerates declared outputs.
func (b *Binding) OutputInfos() ([]IOInfo, error) {
	return b.ioInfos("output", b.algo.OutputNames(), b.algo.OutputTypes(), b.algo.OutputDescriptions())
}

// ioInfos zips the positional name/type/description lists. Names and types
// of different lengths are truncated to the shorter list with a warning.
func (b *Binding) ioInfos(direction string, names []string, types []reflect.Type, descs []string) ([]IOInfo, error) {
	n := min(len(names), len(types))
	if len(names) != len(types) {
		b.logger.Warn("declared names and types differ in length; truncating",
			"algorithm", b.Name(),
			"direction", direction,
			"names", len(names),
			"types", len(types),
		)
	}
	infos := make([]IOInfo, 0, n)
	for i := range n {
		tag, err := value.TagForNativeType(types[i])
		if err != nil {
			return nil, b.fail(ErrCodeUnsupportedDataType, names[i], err, "%s type has no tag", direction)
		}
		info := IOInfo{Name: names[i], Type: tag}
		if i < len(descs) {
			info.Description = descs[i]
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Introspect collects every introspection call into one snapshot.
func (b *Binding) Introspect() (*Introspection, error) {
	ps, err := b.ParameterInfos()
	if err != nil {
		return nil, err
	}
	ins, err := b.InputInfos()
	if err != nil {
		return nil, err
	}
	outs, err := b.OutputInfos()
	if err != nil {
		return nil, err
	}
	return &Introspection{
		Name:        b.Name(),
		Category:    b.Category(),
		Description: b.Description(),
		Parameters:  ps,
		Inputs:      ins,
		Outputs:     outs,
	}, nil
}

// ValidateParameters checks ps against the declared parameters without
// consuming it. Unknown names fail with PARAMETER_NOT_FOUND and shapes that
// differ from the declared default's fail with TYPE_MISMATCH.
func (b *Binding) ValidateParameters(ps *params.Set) error {
	defaults := b.algo.DefaultParameters()
	for _, name := range ps.Names() {
		def, ok := defaults.Get(name)
		if !ok {
			return b.fail(ErrCodeParameterNotFound, name, nil, "no such parameter")
		}
		if !def.IsDefined() {
			continue
		}
		want, err := value.TagForParamKind(def.Kind())
		if err != nil {
			return b.fail(ErrCodeUnsupportedDataType, name, err, "parameter has no default type")
		}
		v, _ := ps.Get(name)
		if got := v.DataType(); got != want {
			return b.fail(ErrCodeTypeMismatch, name, nil, "parameter is %s, got %s", want, got)
		}
	}
	return nil
}

// SetInputChecked is SetInput with the declared input type checked first.
func (b *Binding) SetInputChecked(name string, v *value.Value) error {
	if err := b.open(); err != nil {
		return err
	}
	want, ok := b.declaredTag(b.algo.InputNames(), b.algo.InputTypes(), name)
	if !ok {
		return b.fail(ErrCodeInputNotFound, name, nil, "no such input")
	}
	if got := v.DataType(); got != want {
		return b.fail(ErrCodeTypeMismatch, name, nil, "input is %s, got %s", want, got)
	}
	return b.SetInput(name, v)
}

// SetupDeclaredOutputs sets up every declared output with its declared type.
func (b *Binding) SetupDeclaredOutputs() error {
	outs, err := b.OutputInfos()
	if err != nil {
		return err
	}
	for _, o := range outs {
		if err := b.SetupOutput(o.Name, o.Type); err != nil {
			return err
		}
	}
	return nil
}

func (b *Binding) declaredTag(names []string, types []reflect.Type, name string) (value.Tag, bool) {
	for i, n := range names {
		if n != name || i >= len(types) {
			continue
		}
		tag, err := value.TagForNativeType(types[i])
		if err != nil {
			return value.TagInvalid, false
		}
		return tag, true
	}
	return value.TagInvalid, false
}
