package discovery

import (
	"sort"
	"strings"

	"github.com/healthsignal/health-engine/pkg/tabular"
)

const maxSampleValues = 3

// InferFieldType classifies a sampled cell value. Strings are inspected for
// email and URL shapes; anything over 100 characters counts as long text.
func InferFieldType(v any) FieldType {
	switch value := v.(type) {
	case nil:
		return TypeUnknown
	case string:
		switch {
		case strings.Contains(value, "@") && strings.Contains(value, "."):
			return TypeEmail
		case strings.HasPrefix(value, "http"):
			return TypeURL
		case len(value) > 100:
			return TypeLongText
		default:
			return TypeSingleLineText
		}
	case bool:
		return TypeCheckbox
	case int, int32, int64, float32, float64:
		return TypeNumber
	case []any:
		if len(value) > 0 {
			if _, ok := value[0].(map[string]any); ok {
				return TypeLinkedRecord
			}
		}
		return TypeMultipleSelect
	case map[string]any:
		_, hasURL := value["url"]
		_, hasFilename := value["filename"]
		if hasURL && hasFilename {
			return TypeAttachment
		}
		return TypeFormula
	default:
		return TypeUnknown
	}
}

// ProfileTable builds a TableProfile from sampled rows. Field types come
// from the first non-nil value seen per column; up to three sample values
// are retained. Synthetic columns (leading underscore) are skipped.
func ProfileTable(name, id string, rows []tabular.Row) TableProfile {
	profile := TableProfile{Name: name, ID: id, RecordCount: len(rows)}

	types := map[string]FieldType{}
	samples := map[string][]any{}
	for _, row := range rows {
		for col, val := range row {
			if strings.HasPrefix(col, "_") {
				continue
			}
			if _, ok := types[col]; !ok {
				types[col] = InferFieldType(val)
			}
			if val != nil && len(samples[col]) < maxSampleValues {
				samples[col] = append(samples[col], val)
			}
		}
	}

	names := make([]string, 0, len(types))
	for col := range types {
		names = append(names, col)
	}
	sort.Strings(names)

	for _, col := range names {
		profile.Fields = append(profile.Fields, FieldProfile{
			Name:         col,
			Type:         types[col],
			SampleValues: samples[col],
		})
	}

	profile.PrimaryField = pickPrimaryField(profile.Fields)
	return profile
}

// pickPrimaryField prefers a column whose name suggests identity, falling
// back to the first column.
func pickPrimaryField(fields []FieldProfile) string {
	for _, f := range fields {
		lower := strings.ToLower(f.Name)
		if strings.Contains(lower, "name") || strings.Contains(lower, "title") || strings.Contains(lower, "primary") {
			return f.Name
		}
	}
	if len(fields) > 0 {
		return fields[0].Name
	}
	return ""
}

// FieldNames returns the column names of a profile.
func (t TableProfile) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}
