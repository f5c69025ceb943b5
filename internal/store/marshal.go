package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/sigbind/internal/value"
)

// Named is one name/value pair of a run, in the order it was recorded.
type Named struct {
	Name  string       `json:"name"`
	Value *value.Value `json:"value"`
}

// marshalNamed encodes pairs as a JSON list. Values use their canonical form.
func marshalNamed(pairs []Named) (string, error) {
	if len(pairs) == 0 {
		return "[]", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(pairs); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func unmarshalNamed(data string) ([]Named, error) {
	var pairs []Named
	if err := json.Unmarshal([]byte(data), &pairs); err != nil {
		return nil, err
	}
	for i, p := range pairs {
		if p.Value == nil {
			return nil, fmt.Errorf("entry %d (%s) has no value", i, p.Name)
		}
	}
	if pairs == nil {
		pairs = []Named{}
	}
	return pairs, nil
}
