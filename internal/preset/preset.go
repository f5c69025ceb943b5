// Package preset compiles CUE parameter presets into parameter sets.
//
// A preset file declares named presets under the top-level preset field:
//
//	preset: quiet: {
//	    algorithm:   "Scale"
//	    description: "attenuate without clipping"
//	    parameters: {
//	        factor:   0.25
//	        clipping: false
//	    }
//	}
//
// Parameter values are plain CUE data. Their shapes are inferred, or taken
// from the algorithm's declared parameter types when hints are given to
// ParameterSet.
package preset

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/sigbind/internal/params"
	"github.com/roach88/sigbind/internal/value"
)

const schema = `
#Preset: {
	algorithm!:   string & != ""
	description?: string
	parameters?: {...}
}
preset?: [string]: #Preset
`

// Preset is a named parameter set for one algorithm.
type Preset struct {
	Name        string
	Algorithm   string
	Description string
	Params      []Param
	Pos         token.Pos
}

// Param is one parameter of a preset, as decoded from CUE.
type Param struct {
	Name string
	Raw  any
	Pos  token.Pos
}

// CompileError describes an invalid preset.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadDir loads every CUE file of the package in dir and compiles its presets.
func LoadDir(dir string) ([]Preset, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &CompileError{Field: "dir", Message: err.Error()}
	}
	if !info.IsDir() {
		return nil, &CompileError{Field: "dir", Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &CompileError{Field: "load", Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError("load", inst.Err)
	}

	ctx := cuecontext.New()
	return compile(ctx, ctx.BuildInstance(inst))
}

// CompileString compiles presets from CUE source. filename is used in
// positions.
func CompileString(src, filename string) ([]Preset, error) {
	ctx := cuecontext.New()
	return compile(ctx, ctx.CompileString(src, cue.Filename(filename)))
}

// Lookup returns the preset called name.
func Lookup(presets []Preset, name string) (Preset, bool) {
	i := slices.IndexFunc(presets, func(p Preset) bool { return p.Name == name })
	if i < 0 {
		return Preset{}, false
	}
	return presets[i], true
}

func compile(ctx *cue.Context, v cue.Value) ([]Preset, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError("cue", err)
	}
	if !v.LookupPath(cue.ParsePath("preset")).Exists() {
		return nil, &CompileError{Field: "preset", Message: "no presets defined", Pos: v.Pos()}
	}
	v = v.Unify(ctx.CompileString(schema, cue.Filename("schema.cue")))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError("preset", err)
	}

	iter, err := v.LookupPath(cue.ParsePath("preset")).Fields()
	if err != nil {
		return nil, formatCUEError("preset", err)
	}

	var presets []Preset
	for iter.Next() {
		p, err := compilePreset(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	slices.SortFunc(presets, func(a, b Preset) int { return strings.Compare(a.Name, b.Name) })
	return presets, nil
}

func compilePreset(name string, v cue.Value) (Preset, error) {
	p := Preset{Name: name, Pos: v.Pos()}

	algoVal := v.LookupPath(cue.ParsePath("algorithm"))
	if !algoVal.Exists() {
		return Preset{}, &CompileError{Field: "algorithm", Message: "algorithm is required", Pos: v.Pos()}
	}
	algo, err := algoVal.String()
	if err != nil {
		return Preset{}, formatCUEError("algorithm", err)
	}
	if algo == "" {
		return Preset{}, &CompileError{Field: "algorithm", Message: "algorithm must not be empty", Pos: algoVal.Pos()}
	}
	p.Algorithm = algo

	if d := v.LookupPath(cue.ParsePath("description")); d.Exists() {
		if p.Description, err = d.String(); err != nil {
			return Preset{}, formatCUEError("description", err)
		}
	}

	ps := v.LookupPath(cue.ParsePath("parameters"))
	if !ps.Exists() {
		return p, nil
	}
	iter, err := ps.Fields()
	if err != nil {
		return Preset{}, formatCUEError("parameters", err)
	}
	for iter.Next() {
		label := iter.Label()
		var raw any
		if err := iter.Value().Decode(&raw); err != nil {
			return Preset{}, formatCUEError("parameters."+label, err)
		}
		p.Params = append(p.Params, Param{Name: label, Raw: raw, Pos: iter.Value().Pos()})
	}
	return p, nil
}

// ParameterSet builds a fresh parameter set from the preset. When hints names
// a parameter's declared tag the raw value is decoded as that shape, so an
// integer literal for a Float parameter becomes a Float. Other parameters
// have their shape inferred.
func (p *Preset) ParameterSet(hints map[string]value.Tag) (*params.Set, error) {
	ps := params.New()
	for _, param := range p.Params {
		var (
			v   *value.Value
			err error
		)
		if tag, ok := hints[param.Name]; ok {
			v, err = value.Decode(tag, param.Raw)
		} else {
			v, err = value.Infer(param.Raw)
		}
		if err != nil {
			return nil, &CompileError{
				Field:   "preset." + p.Name + ".parameters." + param.Name,
				Message: err.Error(),
				Pos:     param.Pos,
			}
		}
		if err := ps.Add(param.Name, v); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(field string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Field: field, Message: err.Error()}
	}
	first := errs[0]
	ce := &CompileError{Field: field, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
