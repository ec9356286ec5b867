package sinks

import (
	"encoding/json"
)

// numericFields flattens the top-level numeric members of a payload.
func numericFields(payload any) map[string]float64 {
	if payload == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil
	}
	out := make(map[string]float64, len(decoded))
	for k, v := range decoded {
		if f, ok := v.(float64); ok {
			out[k] = f
		}
	}
	return out
}
