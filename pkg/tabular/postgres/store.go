// Package postgres implements the tabular.Store contract over a PostgreSQL
// database whose schema is not known in advance.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/healthsignal/health-engine/pkg/apperrors"
	"github.com/healthsignal/health-engine/pkg/logging"
	"github.com/healthsignal/health-engine/pkg/tabular"
)

const undefinedTableCode = "42P01"

// Store reads tables from one PostgreSQL database.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ tabular.Store = (*Store)(nil)

// New connects to the database and verifies reachability.
func New(ctx context.Context, connString string, logger *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to configure pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w: %s",
			apperrors.ErrConnectivity, logging.SanitizeError(err))
	}
	logger.Info("connected to postgres",
		zap.String("target", logging.SanitizeConnectionString(connString)))
	return &Store{pool: pool, logger: logger.Named("postgres")}, nil
}

// ListTables enumerates public tables and their columns from
// information_schema.
func (s *Store) ListTables(ctx context.Context) ([]tabular.TableInfo, error) {
	const q = `
		SELECT c.table_name, c.column_name, c.data_type
		FROM information_schema.columns c
		JOIN information_schema.tables t
		  ON t.table_schema = c.table_schema AND t.table_name = c.table_name
		WHERE c.table_schema = 'public' AND t.table_type = 'BASE TABLE'
		ORDER BY c.table_name, c.ordinal_position`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, s.wrapErr("list tables", err)
	}
	defer rows.Close()

	var tables []tabular.TableInfo
	byName := map[string]int{}
	for rows.Next() {
		var table, column, dataType string
		if err := rows.Scan(&table, &column, &dataType); err != nil {
			return nil, fmt.Errorf("failed to scan schema row: %w", err)
		}
		idx, ok := byName[table]
		if !ok {
			idx = len(tables)
			byName[table] = idx
			tables = append(tables, tabular.TableInfo{Name: table})
		}
		tables[idx].Fields = append(tables[idx].Fields, tabular.FieldInfo{Name: column, Type: dataType})
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapErr("list tables", err)
	}
	return tables, nil
}

// ReadRows returns up to limit rows of the named table. A non-positive
// limit reads the whole table.
func (s *Store) ReadRows(ctx context.Context, table string, limit int) ([]tabular.Row, error) {
	q := fmt.Sprintf("SELECT * FROM %s%s", pgx.Identifier{table}.Sanitize(), limitClause(limit))
	return s.query(ctx, q)
}

func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}

// ReadRowsMatching returns rows whose field contains value, compared as text
// case-insensitively. The value travels as a bind parameter.
func (s *Store) ReadRowsMatching(ctx context.Context, table, field, value string, limit int) ([]tabular.Row, error) {
	if err := tabular.CheckPredicateValue(value); err != nil {
		return nil, err
	}
	q := fmt.Sprintf(
		"SELECT * FROM %s WHERE %s::text ILIKE '%%' || $1 || '%%'%s",
		pgx.Identifier{table}.Sanitize(), pgx.Identifier{field}.Sanitize(), limitClause(limit),
	)
	return s.query(ctx, q, value)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]tabular.Row, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, s.wrapErr("query", err)
	}
	defer rows.Close()

	var out []tabular.Row
	fields := rows.FieldDescriptions()
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}
		row := make(tabular.Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		out = append(out, tabular.NormalizeRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapErr("query", err)
	}
	return out, nil
}

func (s *Store) wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode {
		return apperrors.ErrNotFound
	}
	s.logger.Warn("store operation failed",
		zap.String("op", op),
		zap.String("error", logging.SanitizeError(err)))
	return fmt.Errorf("%s failed: %w: %s", op, apperrors.ErrConnectivity, logging.SanitizeError(err))
}

// Close shuts the connection pool down.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
