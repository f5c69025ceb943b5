package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

// Decode builds a Value of shape t from a generic tree as produced by
// encoding/json, yaml.v3 or Export.
func Decode(t Tag, raw any) (*Value, error) {
	v, err := decode(t, raw)
	var ve *Error
	if errors.As(err, &ve) {
		return nil, err
	}
	if err != nil {
		return nil, &Error{Code: ErrCodeInvalidValue, Message: fmt.Sprintf("decode %s: %v", t, err), Tag: t}
	}
	return v, nil
}

func decode(t Tag, raw any) (*Value, error) {
	switch t {
	case TagFloat:
		x, err := toFloat(raw)
		return wrap(NewFloat, x, err)
	case TagString:
		x, err := toString(raw)
		return wrap(NewString, x, err)
	case TagBool:
		x, err := toBool(raw)
		return wrap(NewBool, x, err)
	case TagInt:
		x, err := toIntRange(raw, math.MinInt32, math.MaxInt32)
		return wrap(NewInt, int32(x), err)
	case TagUnsignedInt:
		x, err := toIntRange(raw, 0, math.MaxUint32)
		return wrap(NewUnsignedInt, uint32(x), err)
	case TagLong:
		x, err := toInt(raw)
		return wrap(NewLong, x, err)
	case TagStereoSample:
		x, err := toStereo(raw)
		return wrap(NewStereoSample, x, err)
	case TagComplex:
		x, err := toComplex(raw)
		return wrap(NewComplex, x, err)
	case TagTensorFloat:
		shape, data, err := toShaped(raw)
		if err != nil {
			return nil, err
		}
		return NewTensorFloat(shape, data)
	case TagVectorFloat:
		x, err := toList(raw, toFloat)
		return wrap(NewVectorFloat, x, err)
	case TagVectorString:
		x, err := toList(raw, toString)
		return wrap(NewVectorString, x, err)
	case TagVectorBool:
		x, err := toList(raw, toBool)
		return wrap(NewVectorBool, x, err)
	case TagVectorInt:
		x, err := toList(raw, toInt32)
		return wrap(NewVectorInt, x, err)
	case TagVectorStereoSample:
		x, err := toList(raw, toStereo)
		return wrap(NewVectorStereoSample, x, err)
	case TagVectorComplex:
		x, err := toList(raw, toComplex)
		return wrap(NewVectorComplex, x, err)
	case TagVectorVectorFloat:
		x, err := toList(raw, listOf(toFloat))
		return wrap(NewVectorVectorFloat, x, err)
	case TagVectorVectorString:
		x, err := toList(raw, listOf(toString))
		return wrap(NewVectorVectorString, x, err)
	case TagVectorVectorStereoSample:
		x, err := toList(raw, listOf(toStereo))
		return wrap(NewVectorVectorStereoSample, x, err)
	case TagVectorVectorComplex:
		x, err := toList(raw, listOf(toComplex))
		return wrap(NewVectorVectorComplex, x, err)
	case TagVectorMatrixFloat:
		x, err := toList(raw, toMatrix)
		return wrap(NewVectorMatrixFloat, x, err)
	case TagMapVectorFloat:
		m, err := toMap(raw, listOf(toFloat))
		return wrap(NewMapVectorFloat, entries(m, func(k string, v []float32) MapEntryVectorFloat {
			return MapEntryVectorFloat{Key: k, Value: v}
		}), err)
	case TagMapVectorString:
		m, err := toMap(raw, listOf(toString))
		return wrap(NewMapVectorString, entries(m, func(k string, v []string) MapEntryVectorString {
			return MapEntryVectorString{Key: k, Value: v}
		}), err)
	case TagMapVectorInt:
		m, err := toMap(raw, listOf(toInt32))
		return wrap(NewMapVectorInt, entries(m, func(k string, v []int32) MapEntryVectorInt {
			return MapEntryVectorInt{Key: k, Value: v}
		}), err)
	case TagMapVectorComplex:
		m, err := toMap(raw, listOf(toComplex))
		return wrap(NewMapVectorComplex, entries(m, func(k string, v []Complex) MapEntryVectorComplex {
			return MapEntryVectorComplex{Key: k, Value: v}
		}), err)
	case TagMapFloat:
		m, err := toMap(raw, toFloat)
		return wrap(NewMapFloat, entries(m, func(k string, v float32) MapEntryFloat {
			return MapEntryFloat{Key: k, Value: v}
		}), err)
	case TagMatrixFloat:
		x, err := toMatrix(raw)
		return wrap(NewMatrixFloat, x, err)
	case TagPool:
		s, err := toStore(raw)
		if err != nil {
			return nil, err
		}
		return NewPool(s), nil
	default:
		return nil, &Error{Code: ErrCodeUnsupportedDataType, Message: "cannot decode " + t.String(), Tag: t}
	}
}

// Infer picks a shape for a tree without a declared tag: Go integers and
// integral json.Numbers become Int, floating-point values Float, and lists
// take the shape of their elements. A list of
// numbers containing any non-integer is a float list.
func Infer(raw any) (*Value, error) {
	t, err := inferTag(raw)
	if err != nil {
		return nil, &Error{Code: ErrCodeInvalidValue, Message: err.Error()}
	}
	return Decode(t, raw)
}

func inferTag(raw any) (Tag, error) {
	switch x := raw.(type) {
	case bool:
		return TagBool, nil
	case string:
		return TagString, nil
	case float32, float64:
		return TagFloat, nil
	case []any:
		if len(x) == 0 {
			return TagVectorFloat, nil
		}
		elem, err := inferTag(x[0])
		if err != nil {
			return TagInvalid, err
		}
		for _, e := range x[1:] {
			next, err := inferTag(e)
			if err != nil {
				return TagInvalid, err
			}
			if next == TagFloat && elem == TagInt {
				elem = TagFloat
			}
		}
		switch elem {
		case TagFloat:
			return TagVectorFloat, nil
		case TagInt:
			return TagVectorInt, nil
		case TagString:
			return TagVectorString, nil
		case TagBool:
			return TagVectorBool, nil
		case TagStereoSample:
			return TagVectorStereoSample, nil
		case TagVectorFloat, TagVectorInt:
			return TagVectorVectorFloat, nil
		case TagVectorString:
			return TagVectorVectorString, nil
		}
		return TagInvalid, fmt.Errorf("cannot infer a shape for a list of %s", elem)
	case map[string]any:
		if _, ok := x["left"]; ok && len(x) == 2 {
			if _, ok := x["right"]; ok {
				return TagStereoSample, nil
			}
		}
		for _, e := range x {
			elem, err := inferTag(e)
			if err != nil {
				return TagInvalid, err
			}
			switch elem {
			case TagFloat, TagInt:
				return TagMapFloat, nil
			case TagVectorFloat, TagVectorInt:
				return TagMapVectorFloat, nil
			case TagVectorString:
				return TagMapVectorString, nil
			}
			return TagInvalid, fmt.Errorf("cannot infer a shape for a map of %s", elem)
		}
		return TagMapFloat, nil
	default:
		if _, err := toInt(raw); err == nil {
			return TagInt, nil
		}
		if _, err := toFloat(raw); err == nil {
			return TagFloat, nil
		}
		return TagInvalid, fmt.Errorf("cannot infer a shape for %T", raw)
	}
}

func wrap[T any](ctor func(T) *Value, x T, err error) (*Value, error) {
	if err != nil {
		return nil, err
	}
	return ctor(x), nil
}

func toFloat(raw any) (float32, error) {
	switch x := raw.(type) {
	case float32:
		return x, nil
	case float64:
		return float32(x), nil
	case json.Number:
		f, err := strconv.ParseFloat(string(x), 32)
		return float32(f), err
	case string:
		switch x {
		case "NaN":
			return float32(math.NaN()), nil
		case "Infinity":
			return float32(math.Inf(1)), nil
		case "-Infinity":
			return float32(math.Inf(-1)), nil
		}
		return 0, fmt.Errorf("want a number, got string %q", x)
	}
	i, err := toInt(raw)
	if err != nil {
		return 0, fmt.Errorf("want a number, got %T", raw)
	}
	return float32(i), nil
}

func toInt(raw any) (int64, error) {
	switch x := raw.(type) {
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", x)
		}
		return int64(x), nil
	case json.Number:
		return x.Int64()
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("want an integer, got %v", x)
		}
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
		if x < math.MinInt64 || x >= math.MaxInt64 {
			return 0, fmt.Errorf("%v overflows int64", x)
		}
		return int64(x), nil
	}
	return 0, fmt.Errorf("want an integer, got %T", raw)
}

func toIntRange(raw any, lo, hi int64) (int64, error) {
	i, err := toInt(raw)
	if err != nil {
		return 0, err
	}
	if i < lo || i > hi {
		return 0, fmt.Errorf("%d out of range [%d,%d]", i, lo, hi)
	}
	return i, nil
}

func toInt32(raw any) (int32, error) {
	i, err := toIntRange(raw, math.MinInt32, math.MaxInt32)
	return int32(i), err
}

func toString(raw any) (string, error) {
	if s, ok := raw.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("want a string, got %T", raw)
}

func toBool(raw any) (bool, error) {
	if b, ok := raw.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("want a bool, got %T", raw)
}

// toPair reads {a, b} objects or two-element lists.
func toPair(raw any, a, b string) (float32, float32, error) {
	switch x := raw.(type) {
	case map[string]any:
		first, err := toFloat(x[a])
		if err != nil {
			return 0, 0, fmt.Errorf("%s: %w", a, err)
		}
		second, err := toFloat(x[b])
		if err != nil {
			return 0, 0, fmt.Errorf("%s: %w", b, err)
		}
		return first, second, nil
	case []any:
		if len(x) != 2 {
			return 0, 0, fmt.Errorf("want 2 elements, got %d", len(x))
		}
		first, err := toFloat(x[0])
		if err != nil {
			return 0, 0, err
		}
		second, err := toFloat(x[1])
		return first, second, err
	}
	return 0, 0, fmt.Errorf("want {%s, %s}, got %T", a, b, raw)
}

func toStereo(raw any) (StereoSample, error) {
	l, r, err := toPair(raw, "left", "right")
	return StereoSample{Left: l, Right: r}, err
}

func toComplex(raw any) (Complex, error) {
	re, im, err := toPair(raw, "real", "imag")
	return Complex{Real: re, Imag: im}, err
}

func toList[T any](raw any, elem func(any) (T, error)) ([]T, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("want a list, got %T", raw)
	}
	out := make([]T, len(items))
	for i, item := range items {
		v, err := elem(item)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func listOf[T any](elem func(any) (T, error)) func(any) ([]T, error) {
	return func(raw any) ([]T, error) { return toList(raw, elem) }
}

func toMap[T any](raw any, elem func(any) (T, error)) (map[string]T, error) {
	if raw == nil {
		return map[string]T{}, nil
	}
	items, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("want a map, got %T", raw)
	}
	out := make(map[string]T, len(items))
	for k, item := range items {
		v, err := elem(item)
		if err != nil {
			return nil, fmt.Errorf("[%q]: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

func entries[T, E any](m map[string]T, f func(string, T) E) []E {
	out := make([]E, 0, len(m))
	for k, v := range m {
		out = append(out, f(k, v))
	}
	return out
}

// toShaped reads {shape, data} objects.
func toShaped(raw any) ([]int, []float32, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("want {shape, data}, got %T", raw)
	}
	shape64, err := toList(obj["shape"], toInt)
	if err != nil {
		return nil, nil, fmt.Errorf("shape: %w", err)
	}
	shape := make([]int, len(shape64))
	for i, d := range shape64 {
		shape[i] = int(d)
	}
	data, err := toList(obj["data"], toFloat)
	if err != nil {
		return nil, nil, fmt.Errorf("data: %w", err)
	}
	return shape, data, nil
}

// toMatrix reads {shape: [rows, cols], data} objects or a list of equal
// length rows.
func toMatrix(raw any) (MatrixFloat, error) {
	if rows, ok := raw.([]any); ok {
		nested, err := toList(rows, listOf(toFloat))
		if err != nil {
			return MatrixFloat{}, err
		}
		m := MatrixFloat{Dim1: len(nested)}
		if len(nested) > 0 {
			m.Dim2 = len(nested[0])
		}
		m.Data = make([]float32, 0, m.Dim1*m.Dim2)
		for i, row := range nested {
			if len(row) != m.Dim2 {
				return MatrixFloat{}, fmt.Errorf("row %d has %d columns, want %d", i, len(row), m.Dim2)
			}
			m.Data = append(m.Data, row...)
		}
		return m, nil
	}
	shape, data, err := toShaped(raw)
	if err != nil {
		return MatrixFloat{}, err
	}
	if len(shape) != 2 {
		return MatrixFloat{}, fmt.Errorf("matrix shape has %d dimensions, want 2", len(shape))
	}
	if shape[0] < 0 || shape[1] < 0 || shape[0]*shape[1] != len(data) {
		return MatrixFloat{}, fmt.Errorf("matrix shape %v does not fit %d elements", shape, len(data))
	}
	return MatrixFloat{Dim1: shape[0], Dim2: shape[1], Data: data}, nil
}

// toStore reads the ordered entry list written by Export, or a plain map
// whose values are inferred.
func toStore(raw any) (*Store, error) {
	s := NewStore()
	switch x := raw.(type) {
	case nil:
		return s, nil
	case []any:
		for i, item := range x {
			entry, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("[%d]: want {key, type, value}, got %T", i, item)
			}
			key, err := toString(entry["key"])
			if err != nil {
				return nil, fmt.Errorf("[%d].key: %w", i, err)
			}
			name, err := toString(entry["type"])
			if err != nil {
				return nil, fmt.Errorf("[%d].type: %w", i, err)
			}
			t, err := ParseTag(name)
			if err != nil {
				return nil, err
			}
			v, err := Decode(t, entry["value"])
			if err != nil {
				return nil, err
			}
			if err := s.Restore(key, v); err != nil {
				return nil, err
			}
		}
		return s, nil
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(x)) {
			v, err := Infer(x[key])
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", key, err)
			}
			if err := s.Restore(key, v); err != nil {
				return nil, err
			}
		}
		return s, nil
	}
	return nil, fmt.Errorf("want a list of entries or a map, got %T", raw)
}

// Restore writes v under key so that Get reports it back. A float-sequence
// series is rebuilt entry by entry and Int shapes widen to Float.
func (s *Store) Restore(key string, v *Value) error {
	switch v.DataType() {
	case TagVectorVectorFloat:
		frames, _ := v.AsVectorVectorFloat()
		for _, f := range frames {
			if err := s.Add(key, NewVectorFloat(f)); err != nil {
				return err
			}
		}
		return nil
	case TagInt:
		i, _ := v.AsInt()
		return s.Set(key, NewFloat(float32(i)))
	case TagVectorInt:
		ints, _ := v.AsVectorInt()
		fs := make([]float32, len(ints))
		for i, x := range ints {
			fs[i] = float32(x)
		}
		return s.Set(key, NewVectorFloat(fs))
	}
	return s.Set(key, v)
}
