// Package jsonutil coerces JSON values whose type drifts from the expected
// shape, such as model-generated recommendation fields that arrive as
// numbers or booleans where strings belong.
package jsonutil

import (
	"encoding/json"
	"strconv"
)

// FlexibleStringValue renders a raw JSON value as a string. Strings decode
// as-is, numbers and booleans are formatted, and null or empty input yields
// "". Anything else falls back to the raw JSON text.
func FlexibleStringValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'g', -1, 64)
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}

	return string(raw)
}
