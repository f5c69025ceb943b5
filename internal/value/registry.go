package value

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/roach88/sigbind/internal/native"
)

// nativeTypes is the storage type of each tag. It is the single source for
// both lookup directions.
var nativeTypes = [tagCount]reflect.Type{
	TagFloat:                    reflect.TypeFor[native.Real](),
	TagString:                   reflect.TypeFor[string](),
	TagBool:                     reflect.TypeFor[bool](),
	TagInt:                      reflect.TypeFor[int32](),
	TagUnsignedInt:              reflect.TypeFor[uint32](),
	TagLong:                     reflect.TypeFor[int64](),
	TagStereoSample:             reflect.TypeFor[native.StereoSample](),
	TagComplex:                  reflect.TypeFor[complex64](),
	TagTensorFloat:              reflect.TypeFor[native.Tensor](),
	TagVectorFloat:              reflect.TypeFor[[]native.Real](),
	TagVectorString:             reflect.TypeFor[[]string](),
	TagVectorBool:               reflect.TypeFor[[]bool](),
	TagVectorInt:                reflect.TypeFor[[]int32](),
	TagVectorStereoSample:       reflect.TypeFor[[]native.StereoSample](),
	TagVectorComplex:            reflect.TypeFor[[]complex64](),
	TagVectorVectorFloat:        reflect.TypeFor[[][]native.Real](),
	TagVectorVectorString:       reflect.TypeFor[[][]string](),
	TagVectorVectorStereoSample: reflect.TypeFor[[][]native.StereoSample](),
	TagVectorVectorComplex:      reflect.TypeFor[[][]complex64](),
	TagVectorMatrixFloat:        reflect.TypeFor[[]native.Array2D](),
	TagMapVectorFloat:           reflect.TypeFor[map[string][]native.Real](),
	TagMapVectorString:          reflect.TypeFor[map[string][]string](),
	TagMapVectorInt:             reflect.TypeFor[map[string][]int32](),
	TagMapVectorComplex:         reflect.TypeFor[map[string][]complex64](),
	TagMapFloat:                 reflect.TypeFor[map[string]native.Real](),
	TagMatrixFloat:              reflect.TypeFor[native.Array2D](),
	TagPool:                     reflect.TypeFor[native.Pool](),
}

// paramKindTags maps native parameter kinds onto tags. Kinds and tags are
// different taxonomies; ParamUndefined has no tag.
var paramKindTags = map[native.ParamKind]Tag{
	native.ParamReal:                     TagFloat,
	native.ParamString:                   TagString,
	native.ParamBool:                     TagBool,
	native.ParamInt:                      TagInt,
	native.ParamStereoSample:             TagStereoSample,
	native.ParamVectorReal:               TagVectorFloat,
	native.ParamVectorString:             TagVectorString,
	native.ParamVectorBool:               TagVectorBool,
	native.ParamVectorInt:                TagVectorInt,
	native.ParamVectorStereoSample:       TagVectorStereoSample,
	native.ParamVectorVectorReal:         TagVectorVectorFloat,
	native.ParamVectorVectorString:       TagVectorVectorString,
	native.ParamVectorVectorStereoSample: TagVectorVectorStereoSample,
	native.ParamVectorMatrixReal:         TagVectorMatrixFloat,
	native.ParamMapVectorReal:            TagMapVectorFloat,
	native.ParamMapVectorString:          TagMapVectorString,
	native.ParamMapVectorInt:             TagMapVectorInt,
	native.ParamMapReal:                  TagMapFloat,
	native.ParamMatrixReal:               TagMatrixFloat,
}

var (
	typeTagsOnce sync.Once
	typeTags     map[reflect.Type]Tag
)

func typeTable() map[reflect.Type]Tag {
	typeTagsOnce.Do(func() {
		typeTags = make(map[reflect.Type]Tag, len(nativeTypes))
		for _, t := range AllTags() {
			typeTags[nativeTypes[t]] = t
		}
	})
	return typeTags
}

// TagForNativeType returns the tag whose storage type is typ.
func TagForNativeType(typ reflect.Type) (Tag, error) {
	if typ == nil {
		return TagInvalid, &Error{Code: ErrCodeUnsupportedType, Message: "no tag for native type <nil>"}
	}
	if t, ok := typeTable()[typ]; ok {
		return t, nil
	}
	return TagInvalid, &Error{Code: ErrCodeUnsupportedType, Message: fmt.Sprintf("no tag for native type %s", typ)}
}

// NativeTypeForTag returns the storage type of a tag.
func NativeTypeForTag(t Tag) (reflect.Type, error) {
	if !t.Valid() {
		return nil, &Error{Code: ErrCodeUnsupportedDataType, Message: "no native type for " + t.String(), Tag: t}
	}
	return nativeTypes[t], nil
}

// TagForParamKind returns the tag a parameter of the given kind is exposed as.
func TagForParamKind(kind native.ParamKind) (Tag, error) {
	if t, ok := paramKindTags[kind]; ok {
		return t, nil
	}
	return TagInvalid, &Error{Code: ErrCodeUnsupportedType, Message: fmt.Sprintf("no tag for parameter kind %s", kind)}
}
