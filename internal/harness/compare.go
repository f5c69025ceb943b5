package harness

import (
	"fmt"
	"math"
	"reflect"

	"github.com/roach88/sigbind/internal/value"
)

// matchValue compares got against an expected raw value decoded as got's
// shape. Floats match within tol. A Pool matches when every key of the
// expected map matches.
func matchValue(got *value.Value, raw any, tol float64) error {
	if got.DataType() == value.TagPool {
		return matchPool(got, raw, tol)
	}
	want, err := value.Decode(got.DataType(), raw)
	if err != nil {
		return fmt.Errorf("expected value is not a %s: %w", got.DataType(), err)
	}
	gotTree, err := got.Export()
	if err != nil {
		return err
	}
	wantTree, err := want.Export()
	if err != nil {
		return err
	}
	return approxEqual(gotTree, wantTree, tol, "")
}

func matchPool(got *value.Value, raw any, tol float64) error {
	expected, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("expected a map of pool keys, got %T", raw)
	}
	pool, err := got.AsPool()
	if err != nil {
		return err
	}
	for _, key := range sortedKeys(expected) {
		v, err := pool.Get(key)
		if err != nil {
			return fmt.Errorf("[%s]: %w", key, err)
		}
		if err := matchValue(v, expected[key], tol); err != nil {
			return fmt.Errorf("[%s]: %w", key, err)
		}
	}
	return nil
}

// approxEqual walks two exported trees in step.
func approxEqual(got, want any, tol float64, path string) error {
	switch w := want.(type) {
	case float32:
		g, ok := got.(float32)
		if !ok {
			return fmt.Errorf("%s: got %T, want float", where(path), got)
		}
		if !floatClose(g, w, tol) {
			return fmt.Errorf("%s: got %v, want %v (tolerance %g)", where(path), g, w, tol)
		}
		return nil
	case []any:
		g, ok := got.([]any)
		if !ok {
			return fmt.Errorf("%s: got %T, want list", where(path), got)
		}
		if len(g) != len(w) {
			return fmt.Errorf("%s: got %d elements, want %d", where(path), len(g), len(w))
		}
		for i := range w {
			if err := approxEqual(g[i], w[i], tol, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		g, ok := got.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: got %T, want object", where(path), got)
		}
		if len(g) != len(w) {
			return fmt.Errorf("%s: got keys %v, want %v", where(path), sortedKeys(g), sortedKeys(w))
		}
		for _, k := range sortedKeys(w) {
			gv, ok := g[k]
			if !ok {
				return fmt.Errorf("%s: missing key %q", where(path), k)
			}
			if err := approxEqual(gv, w[k], tol, path+"."+k); err != nil {
				return err
			}
		}
		return nil
	}
	if !reflect.DeepEqual(got, want) {
		return fmt.Errorf("%s: got %v, want %v", where(path), got, want)
	}
	return nil
}

func floatClose(a, b float32, tol float64) bool {
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		return math.IsNaN(float64(a)) && math.IsNaN(float64(b))
	}
	if a == b {
		return true
	}
	return math.Abs(float64(a)-float64(b)) <= tol
}

func where(path string) string {
	if path == "" {
		return "value"
	}
	return "value" + path
}
