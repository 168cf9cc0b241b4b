package discovery

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/healthsignal/health-engine/pkg/apperrors"
	"github.com/healthsignal/health-engine/pkg/tabular"
)

// fakeStore serves canned tables. With meta unset it refuses enumeration so
// probing is exercised.
type fakeStore struct {
	tables map[string][]tabular.Row
	meta   bool
}

func (f *fakeStore) ListTables(ctx context.Context) ([]tabular.TableInfo, error) {
	if !f.meta {
		return nil, apperrors.ErrUnsupported
	}
	var out []tabular.TableInfo
	for name := range f.tables {
		out = append(out, tabular.TableInfo{Name: name})
	}
	return out, nil
}

func (f *fakeStore) ReadRows(ctx context.Context, table string, limit int) ([]tabular.Row, error) {
	rows, ok := f.tables[table]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeStore) ReadRowsMatching(ctx context.Context, table, field, value string, limit int) ([]tabular.Row, error) {
	rows, ok := f.tables[table]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	var out []tabular.Row
	for _, row := range rows {
		cell := strings.ToLower(cast.ToString(row[field]))
		if strings.Contains(cell, strings.ToLower(value)) {
			out = append(out, row)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) Close() error { return nil }

func customerRows() []tabular.Row {
	return []tabular.Row{
		{"Email Address": "jane@acme.com", "Customer Name": "Jane Smith", "Company": "Acme", "Account Value": 120000.0},
		{"Email Address": "bob@globex.com", "Customer Name": "Bob Jones", "Company": "Globex", "Account Value": 45000.0},
		{"Email Address": "eve@initech.com", "Customer Name": "Eve Davis", "Company": "Initech", "Account Value": 88000.0},
	}
}

func TestSelectBestTablePrefersCustomerData(t *testing.T) {
	store := &fakeStore{
		meta: true,
		tables: map[string][]tabular.Row{
			"Customers": customerRows(),
			"Settings":  {{"Key": "theme", "Value": "dark"}},
		},
	}
	engine := NewEngine(zap.NewNop())

	sel, err := engine.SelectBestTable(context.Background(), store, "")
	require.NoError(t, err)
	assert.Equal(t, "Customers", sel.Table.Name)
	assert.Equal(t, "Email Address", sel.Mapping[KeyEmail])
	assert.Greater(t, sel.Score, 50.0)
}

func TestSelectBestTableViaProbing(t *testing.T) {
	// Metadata disabled; only the probe candidate list can find the table.
	store := &fakeStore{
		tables: map[string][]tabular.Row{
			"Clients": customerRows(),
		},
	}
	engine := NewEngine(zap.NewNop())

	sel, err := engine.SelectBestTable(context.Background(), store, "")
	require.NoError(t, err)
	assert.Equal(t, "Clients", sel.Table.Name)
}

func TestSelectBestTableNoSuitableTable(t *testing.T) {
	store := &fakeStore{
		meta: true,
		tables: map[string][]tabular.Row{
			"Settings": {{"Key": "theme", "Value": "dark"}},
		},
	}
	engine := NewEngine(zap.NewNop())

	_, err := engine.SelectBestTable(context.Background(), store, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFindCustomerRowByEmail(t *testing.T) {
	store := &fakeStore{meta: true, tables: map[string][]tabular.Row{"Customers": customerRows()}}
	engine := NewEngine(zap.NewNop())

	sel, err := engine.SelectBestTable(context.Background(), store, "")
	require.NoError(t, err)

	row, err := engine.FindCustomerRow(context.Background(), store, sel, "bob@globex.com")
	require.NoError(t, err)
	assert.Equal(t, "Bob Jones", row["Customer Name"])
}

func TestFindCustomerRowBroadScanFallback(t *testing.T) {
	// The identifier only appears inside a free-text cell, so neither the
	// email nor the ID search can match and the broad scan must find it.
	rows := customerRows()
	rows[2]["Notes"] = "escalated by EVE-7741 last quarter"
	store := &fakeStore{meta: true, tables: map[string][]tabular.Row{"Customers": rows}}
	engine := NewEngine(zap.NewNop())

	sel, err := engine.SelectBestTable(context.Background(), store, "")
	require.NoError(t, err)

	row, err := engine.FindCustomerRow(context.Background(), store, sel, "EVE-7741")
	require.NoError(t, err)
	assert.Equal(t, "Eve Davis", row["Customer Name"])
}

func TestFindCustomerRowNotFound(t *testing.T) {
	store := &fakeStore{meta: true, tables: map[string][]tabular.Row{"Customers": customerRows()}}
	engine := NewEngine(zap.NewNop())

	sel, err := engine.SelectBestTable(context.Background(), store, "")
	require.NoError(t, err)

	_, err = engine.FindCustomerRow(context.Background(), store, sel, "nobody@nowhere.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFindCustomerTablesSorted(t *testing.T) {
	store := &fakeStore{
		meta: true,
		tables: map[string][]tabular.Row{
			"Customers": customerRows(),
			"Orders":    {{"Order ID": "1", "Amount": 10.0, "Email": "jane@acme.com"}},
		},
	}
	engine := NewEngine(zap.NewNop())

	scored, err := engine.FindCustomerTables(context.Background(), store)
	require.NoError(t, err)
	require.NotEmpty(t, scored)
	assert.Equal(t, "Customers", scored[0].Table.Name)
	for i := 1; i < len(scored); i++ {
		assert.GreaterOrEqual(t, scored[i-1].Score, scored[i].Score)
	}
}
