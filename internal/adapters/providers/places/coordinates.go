package places

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// flexFloat decodes a coordinate sent either as a JSON number or as a numeric
// string. Anything else decodes as "absent" instead of failing the response.
type flexFloat struct {
	value float64
	valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	*f = flexFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	f.value = v
	f.valid = true
	return nil
}

// ptr returns the coordinate, or nil when it is missing or non-finite.
func (f flexFloat) ptr() *float64 {
	if !f.valid || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
		return nil
	}
	v := f.value
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
