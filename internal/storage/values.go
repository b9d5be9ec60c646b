package storage

import (
	"encoding/json"
	"math"
	"strconv"
)

// encoding/json rejects NaN and infinities, which a diverged run produces.
// They are written as the strings "NaN", "+Inf" and "-Inf" instead.

func jsonValue(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return formatFloat(v)
	}
	return v
}

func parseJSONValue(raw json.RawMessage) (float64, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(s, 64)
	}
	var v float64
	err := json.Unmarshal(raw, &v)
	return v, err
}

// Metrics maps metric names to values and survives non-finite values in JSON.
type Metrics map[string]float64

func (m Metrics) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	out := make(map[string]any, len(m))
	for name, v := range m {
		out[name] = jsonValue(v)
	}
	return json.Marshal(out)
}

func (m *Metrics) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*m = nil
		return nil
	}
	out := make(Metrics, len(raw))
	for name, r := range raw {
		v, err := parseJSONValue(r)
		if err != nil {
			return err
		}
		out[name] = v
	}
	*m = out
	return nil
}

// Series is a list of values that survives non-finite values in JSON.
type Series []float64

func (s Series) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = jsonValue(v)
	}
	return json.Marshal(out)
}

func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make(Series, len(raw))
	for i, r := range raw {
		v, err := parseJSONValue(r)
		if err != nil {
			return err
		}
		out[i] = v
	}
	*s = out
	return nil
}
