// Package discovery infers the structure of unknown tabular data: which
// tables exist, what their columns mean, and which table holds customer
// records. Nothing here assumes a fixed schema; everything is derived from
// metadata when available and from sampled rows otherwise.
package discovery

// FieldType is the inferred value class of a column, derived from sampled
// cell values rather than declared schema.
type FieldType string

const (
	TypeEmail          FieldType = "email"
	TypeURL            FieldType = "url"
	TypeLongText       FieldType = "longText"
	TypeSingleLineText FieldType = "singleLineText"
	TypeNumber         FieldType = "number"
	TypeCheckbox       FieldType = "checkbox"
	TypeLinkedRecord   FieldType = "linkedRecord"
	TypeMultipleSelect FieldType = "multipleSelect"
	TypeAttachment     FieldType = "attachment"
	TypeFormula        FieldType = "formula"
	TypeUnknown        FieldType = "unknown"
)

// FieldProfile describes one column of a profiled table.
type FieldProfile struct {
	Name         string    `json:"name"`
	Type         FieldType `json:"type"`
	SampleValues []any     `json:"sample_values,omitempty"`
}

// TableProfile describes one table after sampling.
type TableProfile struct {
	Name         string         `json:"name"`
	ID           string         `json:"id,omitempty"`
	Fields       []FieldProfile `json:"fields"`
	RecordCount  int            `json:"record_count"`
	PrimaryField string         `json:"primary_field,omitempty"`
}

// FieldMapping maps canonical keys (see CanonicalKeys) to raw column names.
// Keys with no matching column are absent.
type FieldMapping map[string]string

// ScoredTable pairs a profile with its customer-data confidence score.
type ScoredTable struct {
	Table TableProfile `json:"table"`
	Score float64      `json:"score"`
}
