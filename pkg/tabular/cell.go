package tabular

import (
	"strings"

	"github.com/spf13/cast"
)

// NormalizeCell collapses backend-shaped cell values into plain scalars.
//
// Airtable wraps formula and rollup results in objects with a "value" key,
// reports error cells with a "specialValue" key, and returns lists for
// multi-select, linked-record, and attachment fields. SQL backends return
// scalars already. The rules:
//
//	scalar            -> unchanged
//	{"value": v, ...} -> NormalizeCell(v)
//	{"specialValue"}  -> nil
//	attachment list   -> filenames joined with ", "
//	other list        -> elements stringified and joined with ", "
func NormalizeCell(v any) any {
	switch cell := v.(type) {
	case map[string]any:
		if inner, ok := cell["value"]; ok {
			return NormalizeCell(inner)
		}
		if _, ok := cell["specialValue"]; ok {
			return nil
		}
		// Single attachment or linked record object
		if name, ok := cell["filename"]; ok {
			return cast.ToString(name)
		}
		if name, ok := cell["name"]; ok {
			return cast.ToString(name)
		}
		return v
	case []any:
		if len(cell) == 0 {
			return nil
		}
		parts := make([]string, 0, len(cell))
		for _, elem := range cell {
			norm := NormalizeCell(elem)
			if norm == nil {
				continue
			}
			parts = append(parts, cast.ToString(norm))
		}
		return strings.Join(parts, ", ")
	default:
		return v
	}
}

// NormalizeRow applies NormalizeCell to every value of a row, in place.
func NormalizeRow(row Row) Row {
	for k, v := range row {
		row[k] = NormalizeCell(v)
	}
	return row
}
