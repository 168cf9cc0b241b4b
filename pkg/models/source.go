package models

// SourceType identifies one configured origin of customer records.
type SourceType string

const (
	// SourceStatic is the bundled flat-file sample dataset.
	SourceStatic SourceType = "static"
	// SourceAirtable is a schema-unknown Airtable base.
	SourceAirtable SourceType = "airtable"
	// SourcePostgres is a schema-unknown SQL database.
	SourcePostgres SourceType = "postgres"
)

// KnownSources lists every source type the orchestrator accepts, in the
// order they are reported to callers.
var KnownSources = []SourceType{SourceStatic, SourceAirtable, SourcePostgres}

// Valid reports whether s names a known source type.
func (s SourceType) Valid() bool {
	for _, k := range KnownSources {
		if s == k {
			return true
		}
	}
	return false
}
