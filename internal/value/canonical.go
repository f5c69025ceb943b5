package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sigbind/internal/native"
)

// Export returns v as a plain tree of strings, bools, integers, float32,
// []any and map[string]any. Composite records become objects, matrices and
// tensors become {shape, data} objects and a Pool becomes an ordered list of
// {key, type, value} entries. Decode inverts it.
func (v *Value) Export() (any, error) {
	return Accept[any](v, exporter{})
}

// MarshalCanonical encodes v as {"type": ..., "value": ...} with sorted
// object keys, NFC-normalized strings and shortest float32 formatting. Equal
// values always encode to identical bytes.
func MarshalCanonical(v *Value) ([]byte, error) {
	tree, err := v.Export()
	if err != nil {
		return nil, err
	}
	return marshalCanonical(map[string]any{"type": v.DataType().String(), "value": tree})
}

// UnmarshalCanonical decodes the output of MarshalCanonical.
func UnmarshalCanonical(data []byte) (*Value, error) {
	var env struct {
		Type  Tag `json:"type"`
		Value any `json:"value"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return nil, &Error{Code: ErrCodeInvalidValue, Message: err.Error()}
	}
	return Decode(env.Type, env.Value)
}

// MarshalJSON implements json.Marshaler using the canonical encoding.
func (v *Value) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := UnmarshalCanonical(data)
	if err != nil {
		return err
	}
	v.data = decoded.data
	v.store = nil
	return nil
}

func marshalCanonical(tree any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, tree any) error {
	switch x := tree.(type) {
	case string:
		return writeString(buf, x)
	case bool:
		buf.WriteString(strconv.FormatBool(x))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case uint32:
		buf.WriteString(strconv.FormatUint(uint64(x), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(x, 10))
	case int:
		buf.WriteString(strconv.Itoa(x))
	case float32:
		return writeFloat(buf, x)
	case []any:
		buf.WriteByte('[')
		for i, elem := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareUTF16)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, x[k]); err != nil {
				return fmt.Errorf("[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", tree)
	}
	return nil
}

// Non-finite floats have no JSON number form and are written as strings.
func writeFloat(buf *bytes.Buffer, f float32) error {
	switch {
	case math.IsNaN(float64(f)):
		buf.WriteString(`"NaN"`)
	case math.IsInf(float64(f), 1):
		buf.WriteString(`"Infinity"`)
	case math.IsInf(float64(f), -1):
		buf.WriteString(`"-Infinity"`)
	default:
		buf.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

// compareUTF16 orders keys by UTF-16 code units.
func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

func exportSlice[T any](x []T, f func(T) any) []any {
	out := make([]any, len(x))
	for i, e := range x {
		out[i] = f(e)
	}
	return out
}

func exportNested[T any](x [][]T, f func(T) any) []any {
	return exportSlice(x, func(row []T) any { return exportSlice(row, f) })
}

func exportMap[T any](x map[string]T, f func(T) any) map[string]any {
	out := make(map[string]any, len(x))
	for k, e := range x {
		out[k] = f(e)
	}
	return out
}

func same[T any](x T) any { return x }

func exportStereo(s native.StereoSample) any {
	return map[string]any{"left": s.Left, "right": s.Right}
}

func exportComplex(c complex64) any {
	return map[string]any{"real": real(c), "imag": imag(c)}
}

func exportMatrix(m native.Array2D) any {
	return map[string]any{
		"shape": []any{m.Rows, m.Cols},
		"data":  exportSlice(m.Data, same),
	}
}

type exporter struct{}

func (exporter) VisitFloat(x native.Real) (any, error) { return x, nil }
func (exporter) VisitString(x string) (any, error) { return x, nil }
func (exporter) VisitBool(x bool) (any, error) { return x, nil }
func (exporter) VisitInt(x int32) (any, error) { return x, nil }
func (exporter) VisitUnsignedInt(x uint32) (any, error) { return x, nil }
func (exporter) VisitLong(x int64) (any, error) { return x, nil }

func (exporter) VisitStereoSample(x native.StereoSample) (any, error) {
	return exportStereo(x), nil
}

func (exporter) VisitComplex(x complex64) (any, error) {
	return exportComplex(x), nil
}

func (exporter) VisitTensorFloat(x native.Tensor) (any, error) {
	return map[string]any{
		"shape": exportSlice(x.Shape[:], same),
		"data":  exportSlice(x.Data, same),
	}, nil
}

func (exporter) VisitVectorFloat(x []native.Real) (any, error) {
	return exportSlice(x, same), nil
}

func (exporter) VisitVectorString(x []string) (any, error) {
	return exportSlice(x, same), nil
}

func (exporter) VisitVectorBool(x []bool) (any, error) {
	return exportSlice(x, same), nil
}

func (exporter) VisitVectorInt(x []int32) (any, error) {
	return exportSlice(x, same), nil
}

func (exporter) VisitVectorStereoSample(x []native.StereoSample) (any, error) {
	return exportSlice(x, exportStereo), nil
}

func (exporter) VisitVectorComplex(x []complex64) (any, error) {
	return exportSlice(x, exportComplex), nil
}

func (exporter) VisitVectorVectorFloat(x [][]native.Real) (any, error) {
	return exportNested(x, same), nil
}

func (exporter) VisitVectorVectorString(x [][]string) (any, error) {
	return exportNested(x, same), nil
}

func (exporter) VisitVectorVectorStereoSample(x [][]native.StereoSample) (any, error) {
	return exportNested(x, exportStereo), nil
}

func (exporter) VisitVectorVectorComplex(x [][]complex64) (any, error) {
	return exportNested(x, exportComplex), nil
}

func (exporter) VisitVectorMatrixFloat(x []native.Array2D) (any, error) {
	return exportSlice(x, exportMatrix), nil
}

func (exporter) VisitMapVectorFloat(x map[string][]native.Real) (any, error) {
	return exportMap(x, func(v []native.Real) any { return exportSlice(v, same) }), nil
}

func (exporter) VisitMapVectorString(x map[string][]string) (any, error) {
	return exportMap(x, func(v []string) any { return exportSlice(v, same) }), nil
}

func (exporter) VisitMapVectorInt(x map[string][]int32) (any, error) {
	return exportMap(x, func(v []int32) any { return exportSlice(v, same) }), nil
}

func (exporter) VisitMapVectorComplex(x map[string][]complex64) (any, error) {
	return exportMap(x, func(v []complex64) any { return exportSlice(v, exportComplex) }), nil
}

func (exporter) VisitMapFloat(x map[string]native.Real) (any, error) {
	return exportMap(x, same), nil
}

func (exporter) VisitMatrixFloat(x native.Array2D) (any, error) {
	return exportMatrix(x), nil
}

func (exporter) VisitPool(x *native.Pool) (any, error) {
	s := ViewStore(x)
	entries := make([]any, 0, s.Len())
	for _, key := range s.Keys() {
		v, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		tree, err := v.Export()
		if err != nil {
			return nil, err
		}
		entries = append(entries, map[string]any{"key": key, "type": v.DataType().String(), "value": tree})
	}
	return entries, nil
}
