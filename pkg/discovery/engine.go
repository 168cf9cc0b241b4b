package discovery

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/healthsignal/health-engine/pkg/apperrors"
	"github.com/healthsignal/health-engine/pkg/tabular"
)

const (
	sampleLimit      = 10
	broadSearchLimit = 100
)

// Engine runs schema discovery against any tabular store.
type Engine struct {
	logger *zap.Logger
}

// NewEngine returns a discovery engine.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger.Named("discovery")}
}

// Selection is the outcome of best-table selection: the chosen table, its
// field mapping, score, and the sampled rows that informed the choice.
type Selection struct {
	Table   TableProfile
	Mapping FieldMapping
	Score   float64
	Sample  []tabular.Row
}

// ProfileStore profiles every discoverable table by sampling rows.
func (e *Engine) ProfileStore(ctx context.Context, store tabular.Store) ([]TableProfile, error) {
	tables, err := DiscoverTables(ctx, store, e.logger)
	if err != nil {
		return nil, err
	}

	profiles := make([]TableProfile, 0, len(tables))
	for _, t := range tables {
		rows, err := store.ReadRows(ctx, t.Name, sampleLimit)
		if err != nil {
			e.logger.Warn("failed to sample table", zap.String("table", t.Name), zap.Error(err))
			continue
		}
		profiles = append(profiles, ProfileTable(t.Name, t.ID, rows))
	}
	return profiles, nil
}

// FindCustomerTables scores every table and returns those with a positive
// score, highest first.
func (e *Engine) FindCustomerTables(ctx context.Context, store tabular.Store) ([]ScoredTable, error) {
	tables, err := DiscoverTables(ctx, store, e.logger)
	if err != nil {
		return nil, err
	}

	var scored []ScoredTable
	for _, t := range tables {
		rows, err := store.ReadRows(ctx, t.Name, sampleLimit)
		if err != nil {
			continue
		}
		profile := ProfileTable(t.Name, t.ID, rows)
		score := ScoreTable(profile, MapFields(profile.FieldNames()), rows, "")
		if score > 0 {
			scored = append(scored, ScoredTable{Table: profile, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored, nil
}

// SelectBestTable samples every discoverable table and picks the one scoring
// highest for customer data. targetHint, when non-empty, biases selection
// toward the table containing that value.
func (e *Engine) SelectBestTable(ctx context.Context, store tabular.Store, targetHint string) (*Selection, error) {
	tables, err := DiscoverTables(ctx, store, e.logger)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no accessible tables: %w", apperrors.ErrNotFound)
	}

	var best *Selection
	for _, t := range tables {
		rows, err := store.ReadRows(ctx, t.Name, sampleLimit)
		if err != nil {
			e.logger.Debug("skipping unreadable table", zap.String("table", t.Name), zap.Error(err))
			continue
		}
		if len(rows) == 0 {
			continue
		}

		profile := ProfileTable(t.Name, t.ID, rows)
		mapping := MapFields(profile.FieldNames())
		score := ScoreTable(profile, mapping, rows, targetHint)
		e.logger.Debug("scored table",
			zap.String("table", t.Name),
			zap.Float64("score", score))

		// Strict comparison keeps the first-discovered table on ties.
		// Zero-score tables are never selected, so an all-zero pass
		// propagates as "no suitable table found".
		if score > 0 && (best == nil || score > best.Score) {
			best = &Selection{
				Table:   profile,
				Mapping: mapping,
				Score:   score,
				Sample:  rows,
			}
		}
	}

	if best == nil {
		return nil, fmt.Errorf("no readable table with customer data: %w", apperrors.ErrNotFound)
	}
	e.logger.Info("selected customer table",
		zap.String("table", best.Table.Name),
		zap.Float64("score", best.Score),
		zap.Int("mapped_fields", len(best.Mapping)))
	return best, nil
}

// FindCustomerRow locates one customer's row in the selected table.
// The search cascades: exact match on the mapped email field, exact match on
// the mapped ID field, then a bounded broad scan of every text cell.
func (e *Engine) FindCustomerRow(ctx context.Context, store tabular.Store, sel *Selection, identifier string) (tabular.Row, error) {
	if emailField, ok := sel.Mapping[KeyEmail]; ok {
		rows, err := store.ReadRowsMatching(ctx, sel.Table.Name, emailField, identifier, 1)
		if err == nil && len(rows) > 0 {
			return rows[0], nil
		}
		if err != nil {
			e.logger.Debug("email search failed", zap.Error(err))
		}
	}

	if idField, ok := sel.Mapping[KeyCustomerID]; ok {
		rows, err := store.ReadRowsMatching(ctx, sel.Table.Name, idField, identifier, 1)
		if err == nil && len(rows) > 0 {
			return rows[0], nil
		}
	}

	// Broad scan, bounded to avoid walking a large table
	rows, err := store.ReadRows(ctx, sel.Table.Name, broadSearchLimit)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if RowContains(row, identifier) {
			return row, nil
		}
	}

	return nil, fmt.Errorf("customer %q not found in table %q: %w",
		identifier, sel.Table.Name, apperrors.ErrNotFound)
}
