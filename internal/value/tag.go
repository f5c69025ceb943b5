package value

import "fmt"

// Tag is the discriminant of a Value.
type Tag int

// The order follows the native library's data type enumeration.
const (
	TagInvalid Tag = iota
	TagFloat
	TagString
	TagBool
	TagInt
	TagUnsignedInt
	TagLong
	TagStereoSample
	TagComplex
	TagTensorFloat
	TagVectorFloat
	TagVectorString
	TagVectorBool
	TagVectorInt
	TagVectorStereoSample
	TagVectorComplex
	TagVectorVectorFloat
	TagVectorVectorString
	TagVectorVectorStereoSample
	TagVectorVectorComplex
	TagVectorMatrixFloat
	TagMapVectorFloat
	TagMapVectorString
	TagMapVectorInt
	TagMapVectorComplex
	TagMapFloat
	TagMatrixFloat
	TagPool

	tagCount
)

var tagNames = [tagCount]string{
	TagInvalid:                  "Invalid",
	TagFloat:                    "Float",
	TagString:                   "String",
	TagBool:                     "Bool",
	TagInt:                      "Int",
	TagUnsignedInt:              "UnsignedInt",
	TagLong:                     "Long",
	TagStereoSample:             "StereoSample",
	TagComplex:                  "Complex",
	TagTensorFloat:              "TensorFloat",
	TagVectorFloat:              "VectorFloat",
	TagVectorString:             "VectorString",
	TagVectorBool:               "VectorBool",
	TagVectorInt:                "VectorInt",
	TagVectorStereoSample:       "VectorStereoSample",
	TagVectorComplex:            "VectorComplex",
	TagVectorVectorFloat:        "VectorVectorFloat",
	TagVectorVectorString:       "VectorVectorString",
	TagVectorVectorStereoSample: "VectorVectorStereoSample",
	TagVectorVectorComplex:      "VectorVectorComplex",
	TagVectorMatrixFloat:        "VectorMatrixFloat",
	TagMapVectorFloat:           "MapVectorFloat",
	TagMapVectorString:          "MapVectorString",
	TagMapVectorInt:             "MapVectorInt",
	TagMapVectorComplex:         "MapVectorComplex",
	TagMapFloat:                 "MapFloat",
	TagMatrixFloat:              "MatrixFloat",
	TagPool:                     "Pool",
}

func (t Tag) String() string {
	if t.Valid() || t == TagInvalid {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// Valid reports whether t names a shape.
func (t Tag) Valid() bool {
	return t > TagInvalid && t < tagCount
}

// ParseTag returns the tag with the given name.
func ParseTag(name string) (Tag, error) {
	for _, t := range AllTags() {
		if tagNames[t] == name {
			return t, nil
		}
	}
	return TagInvalid, &Error{Code: ErrCodeUnsupportedDataType, Message: fmt.Sprintf("unknown data type %q", name)}
}

// AllTags returns every valid tag in declaration order.
func AllTags() []Tag {
	tags := make([]Tag, 0, tagCount-1)
	for t := TagFloat; t < tagCount; t++ {
		tags = append(tags, t)
	}
	return tags
}

// MarshalText encodes the tag by name.
func (t Tag) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, &Error{Code: ErrCodeUnsupportedDataType, Message: "cannot encode " + t.String(), Tag: t}
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tag name.
func (t *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
