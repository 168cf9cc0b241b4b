// Package tabular defines the store abstraction every data backend
// implements. A store hands back raw rows with whatever column names the
// underlying system uses; discovery and synthesis happen downstream.
package tabular

import "context"

// Row is one record from a store, keyed by raw column name. Cell values are
// backend-shaped until passed through NormalizeCell.
type Row map[string]any

// FieldInfo describes one column from store metadata.
type FieldInfo struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// TableInfo describes one table from store metadata.
type TableInfo struct {
	ID     string      `json:"id,omitempty"`
	Name   string      `json:"name"`
	Fields []FieldInfo `json:"fields,omitempty"`
}

// Store is the read-side contract for a tabular backend. Implementations
// must be safe for concurrent use.
type Store interface {
	// ListTables enumerates tables with their field metadata. Backends
	// without a metadata surface return apperrors.ErrUnsupported and
	// callers fall back to candidate-name probing.
	ListTables(ctx context.Context) ([]TableInfo, error)

	// ReadRows returns up to limit rows from the named table. A missing
	// table returns apperrors.ErrNotFound.
	ReadRows(ctx context.Context, table string, limit int) ([]Row, error)

	// ReadRowsMatching returns up to limit rows where the named field
	// contains value (case-insensitive substring semantics).
	ReadRowsMatching(ctx context.Context, table, field, value string, limit int) ([]Row, error)

	// Close releases backend resources.
	Close() error
}
