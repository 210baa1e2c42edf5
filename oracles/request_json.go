package oracles

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UnmarshalJSON accepts numbers, booleans and null wherever a string field is
// expected, rendering them the way a template literal would. Objects and
// arrays are rejected.
func (r *Request) UnmarshalJSON(data []byte) error {
	var raw struct {
		Character json.RawMessage `json:"character"`
		Timeframe json.RawMessage `json:"timeframe"`
		Energy    json.RawMessage `json:"energy"`
		Lens      json.RawMessage `json:"lens"`
		Corpse    json.RawMessage `json:"corpse"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := []struct {
		name string
		src  json.RawMessage
		dst  *string
	}{
		{"character", raw.Character, &r.Character},
		{"timeframe", raw.Timeframe, &r.Timeframe},
		{"energy", raw.Energy, &r.Energy},
		{"lens", raw.Lens, &r.Lens},
		{"corpse", raw.Corpse, &r.Corpse},
	}
	for _, f := range fields {
		text, err := scalarText(f.src)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.name, err)
		}
		*f.dst = text
	}
	return nil
}

func scalarText(src json.RawMessage) (string, error) {
	src = bytes.TrimSpace(src)
	if len(src) == 0 || bytes.Equal(src, []byte("null")) {
		return "", nil
	}

	var v any
	if err := json.Unmarshal(src, &v); err != nil {
		return "", err
	}
	switch v := v.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("want a string, got %s", src)
	}
}
