package codegen

import (
	"fmt"

	"github.com/roach88/sigbind/internal/value"
)

// goType is how one tag appears in generated code. In is the argument type of
// setters and Compute, Wrap turns an argument of that type into a *value.Value,
// Out and Accessor read an output back.
type goType struct {
	In       string
	Wrap     string
	Out      string
	Accessor string
}

func plain(typ, ctor, accessor string) goType {
	return goType{In: typ, Wrap: "value." + ctor + "(%s)", Out: typ, Accessor: accessor}
}

func mapping(entry, ctor, out, accessor string) goType {
	return goType{In: "[]value." + entry, Wrap: "value." + ctor + "(%s)", Out: out, Accessor: accessor}
}

var goTypes = map[value.Tag]goType{
	value.TagFloat:                    plain("float32", "NewFloat", "AsFloat"),
	value.TagString:                   plain("string", "NewString", "AsString"),
	value.TagBool:                     plain("bool", "NewBool", "AsBool"),
	value.TagInt:                      plain("int32", "NewInt", "AsInt"),
	value.TagUnsignedInt:              plain("uint32", "NewUnsignedInt", "AsUnsignedInt"),
	value.TagLong:                     plain("int64", "NewLong", "AsLong"),
	value.TagStereoSample:             plain("value.StereoSample", "NewStereoSample", "AsStereoSample"),
	value.TagComplex:                  plain("value.Complex", "NewComplex", "AsComplex"),
	value.TagVectorFloat:              plain("[]float32", "NewVectorFloat", "AsVectorFloat"),
	value.TagVectorString:             plain("[]string", "NewVectorString", "AsVectorString"),
	value.TagVectorBool:               plain("[]bool", "NewVectorBool", "AsVectorBool"),
	value.TagVectorInt:                plain("[]int32", "NewVectorInt", "AsVectorInt"),
	value.TagVectorStereoSample:       plain("[]value.StereoSample", "NewVectorStereoSample", "AsVectorStereoSample"),
	value.TagVectorComplex:            plain("[]value.Complex", "NewVectorComplex", "AsVectorComplex"),
	value.TagVectorVectorFloat:        plain("[][]float32", "NewVectorVectorFloat", "AsVectorVectorFloat"),
	value.TagVectorVectorString:       plain("[][]string", "NewVectorVectorString", "AsVectorVectorString"),
	value.TagVectorVectorStereoSample: plain("[][]value.StereoSample", "NewVectorVectorStereoSample", "AsVectorVectorStereoSample"),
	value.TagVectorVectorComplex:      plain("[][]value.Complex", "NewVectorVectorComplex", "AsVectorVectorComplex"),
	value.TagVectorMatrixFloat:        plain("[]value.MatrixFloat", "NewVectorMatrixFloat", "AsVectorMatrixFloat"),
	value.TagMatrixFloat:              plain("value.MatrixFloat", "NewMatrixFloat", "AsMatrixFloat"),
	value.TagMapVectorFloat:           mapping("MapEntryVectorFloat", "NewMapVectorFloat", "map[string][]float32", "AsMapVectorFloat"),
	value.TagMapVectorString:          mapping("MapEntryVectorString", "NewMapVectorString", "map[string][]string", "AsMapVectorString"),
	value.TagMapVectorInt:             mapping("MapEntryVectorInt", "NewMapVectorInt", "map[string][]int32", "AsMapVectorInt"),
	value.TagMapVectorComplex:         mapping("MapEntryVectorComplex", "NewMapVectorComplex", "map[string][]value.Complex", "AsMapVectorComplex"),
	value.TagMapFloat:                 mapping("MapEntryFloat", "NewMapFloat", "map[string]float32", "AsMapFloat"),

	// NewTensorFloat validates its shape and can fail, so tensors are passed
	// as ready-made values.
	value.TagTensorFloat: {In: "*value.Value", Wrap: "%s", Out: "value.TensorFloat", Accessor: "AsTensorFloat"},
	value.TagPool:        {In: "*value.Store", Wrap: "value.NewPool(%s)", Out: "*value.Store", Accessor: "AsPool"},
}

func typeFor(t value.Tag) (goType, error) {
	g, ok := goTypes[t]
	if !ok {
		return goType{}, fmt.Errorf("no Go type for %s", t)
	}
	return g, nil
}
