// Package services sequences discovery, synthesis, and scoring into the
// caller-facing operations of the health engine.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/healthsignal/health-engine/pkg/apperrors"
	"github.com/healthsignal/health-engine/pkg/config"
	"github.com/healthsignal/health-engine/pkg/discovery"
	"github.com/healthsignal/health-engine/pkg/llm"
	"github.com/healthsignal/health-engine/pkg/logging"
	"github.com/healthsignal/health-engine/pkg/models"
	"github.com/healthsignal/health-engine/pkg/scoring"
	"github.com/healthsignal/health-engine/pkg/tabular"
	"github.com/healthsignal/health-engine/pkg/tabular/airtable"
)

// Deps carries the orchestrator's collaborators.
type Deps struct {
	Config   *config.Config
	Registry *tabular.Registry
	Static   *StaticLoader
	Airtable *airtable.Client // nil when unconfigured
	Advisor  llm.Advisor      // nil when unconfigured
	Logger   *zap.Logger
}

// Orchestrator owns the process-wide source selection state and runs every
// caller-facing operation. Safe for concurrent use: requests commit to the
// source and base in effect when they start.
type Orchestrator struct {
	cfg      *config.Config
	registry *tabular.Registry
	static   *StaticLoader
	airtable *airtable.Client
	advisor  llm.Advisor
	engine   *discovery.Engine
	synth    *discovery.Synthesizer
	logger   *zap.Logger

	mu            sync.Mutex
	currentSource models.SourceType
	activeBaseID  string

	now func() time.Time
}

// NewOrchestrator wires an orchestrator from its dependencies.
func NewOrchestrator(deps Deps) *Orchestrator {
	return &Orchestrator{
		cfg:           deps.Config,
		registry:      deps.Registry,
		static:        deps.Static,
		airtable:      deps.Airtable,
		advisor:       deps.Advisor,
		engine:        discovery.NewEngine(deps.Logger),
		synth:         discovery.NewSynthesizer(deps.Logger),
		logger:        deps.Logger.Named("orchestrator"),
		currentSource: models.SourceType(deps.Config.DefaultSource),
		activeBaseID:  deps.Config.Airtable.BaseID,
		now:           time.Now,
	}
}

// snapshot returns the source selection in effect for a new request.
func (o *Orchestrator) snapshot() (models.SourceType, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.currentSource, o.activeBaseID
}

func (o *Orchestrator) singleTimeout() time.Duration {
	return time.Duration(o.cfg.SingleTimeoutSeconds) * time.Second
}

func (o *Orchestrator) batchTimeout() time.Duration {
	return time.Duration(o.cfg.BatchTimeoutSeconds) * time.Second
}

// wrapTimeout maps a deadline expiry to the engine's timeout error so
// callers can distinguish it from other failures.
func wrapTimeout(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", apperrors.ErrTimeout, err)
	}
	return err
}

// SourceStatus reports the current source selection and what is configured.
type SourceStatus struct {
	CurrentSource    models.SourceType   `json:"current_source"`
	ActiveBaseID     string              `json:"active_base_id,omitempty"`
	AvailableSources []models.SourceType `json:"available_sources"`
	AIEnabled        bool                `json:"ai_enabled"`
	AIModel          string              `json:"ai_model,omitempty"`
	CheckedAt        time.Time           `json:"checked_at"`
}

// Status returns the data-source status payload.
func (o *Orchestrator) Status() *SourceStatus {
	source, baseID := o.snapshot()

	available := []models.SourceType{models.SourceStatic}
	if o.cfg.Airtable.Configured() {
		available = append(available, models.SourceAirtable)
	}
	if o.cfg.Postgres.Configured() {
		available = append(available, models.SourcePostgres)
	}

	status := &SourceStatus{
		CurrentSource:    source,
		ActiveBaseID:     baseID,
		AvailableSources: available,
		AIEnabled:        o.advisor != nil,
		CheckedAt:        o.now(),
	}
	if o.advisor != nil {
		status.AIModel = o.advisor.Model()
	}
	return status
}

// SetDataSource switches the active source after validating that the target
// is configured. The selection state is only written once validation passes,
// so a failed switch leaves the previous source intact.
func (o *Orchestrator) SetDataSource(source string) (*SourceStatus, error) {
	st := models.SourceType(source)
	if !st.Valid() {
		return nil, fmt.Errorf("invalid data source %q, must be one of: static, airtable, postgres", source)
	}

	switch st {
	case models.SourceAirtable:
		if err := o.cfg.Airtable.Validate(); err != nil {
			return nil, err
		}
		if o.activeBase() == "" {
			return nil, &apperrors.ConfigError{
				Missing: "AIRTABLE_BASE_ID",
				Hint:    "set a base ID or call connect_to_base first",
			}
		}
	case models.SourcePostgres:
		if err := o.cfg.Postgres.Validate(); err != nil {
			return nil, err
		}
	}

	o.mu.Lock()
	o.currentSource = st
	o.mu.Unlock()

	o.logger.Info("data source switched", zap.String("source", source))
	return o.Status(), nil
}

func (o *Orchestrator) activeBase() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.activeBaseID
}

// ConnectToBase points the Airtable source at a different base and makes
// Airtable the current source. Requests already in flight finish against the
// base they snapshotted; new requests read the connected base.
func (o *Orchestrator) ConnectToBase(ctx context.Context, baseID string) (*SourceStatus, error) {
	if o.airtable == nil {
		return nil, &apperrors.ConfigError{
			Missing: "AIRTABLE_API_KEY",
			Hint:    "set a Personal Access Token in the environment",
		}
	}
	if baseID == "" {
		return nil, fmt.Errorf("base_id is required")
	}

	// Verify the base is reachable before committing the switch
	probe := airtable.NewStore(o.airtable, baseID)
	if _, err := probe.ListTables(ctx); err != nil && !errors.Is(err, apperrors.ErrUnsupported) {
		return nil, fmt.Errorf("cannot connect to base %s: %w", baseID, err)
	}

	o.mu.Lock()
	o.activeBaseID = baseID
	o.currentSource = models.SourceAirtable
	o.mu.Unlock()

	o.logger.Info("connected to base", zap.String("base_id", baseID))
	return o.Status(), nil
}

// DiscoverBases lists every Airtable base the configured token can reach.
func (o *Orchestrator) DiscoverBases(ctx context.Context) ([]airtable.Base, error) {
	if o.airtable == nil {
		return nil, &apperrors.ConfigError{
			Missing: "AIRTABLE_API_KEY",
			Hint:    "set a Personal Access Token in the environment",
		}
	}
	ctx, cancel := context.WithTimeout(ctx, o.singleTimeout())
	defer cancel()

	bases, err := o.airtable.Bases(ctx)
	return bases, wrapTimeout(ctx, err)
}

// discoveryStore resolves the store to run discovery against. A non-empty
// baseID targets that Airtable base without changing the current selection;
// otherwise the current source is used.
func (o *Orchestrator) discoveryStore(ctx context.Context, baseID string) (tabular.Store, error) {
	if baseID != "" {
		if o.airtable == nil {
			return nil, &apperrors.ConfigError{
				Missing: "AIRTABLE_API_KEY",
				Hint:    "set a Personal Access Token in the environment",
			}
		}
		return airtable.NewStore(o.airtable, baseID), nil
	}

	source, activeBase := o.snapshot()
	if source == models.SourceStatic {
		return nil, fmt.Errorf("schema discovery applies to schema-unknown sources, not %q", source)
	}
	return o.openStore(ctx, source, activeBase)
}

// openStore resolves the store for a request's source snapshot. Airtable
// stores are bound to the snapshot's base, so a connect_to_base switch takes
// effect on the next request; every other source comes from the registry.
func (o *Orchestrator) openStore(ctx context.Context, source models.SourceType, baseID string) (tabular.Store, error) {
	if source == models.SourceAirtable && o.airtable != nil {
		if baseID == "" {
			return nil, &apperrors.ConfigError{
				Missing: "AIRTABLE_BASE_ID",
				Hint:    "set a base ID or call connect_to_base first",
			}
		}
		return airtable.NewStore(o.airtable, baseID), nil
	}
	return o.registry.Open(ctx, source)
}

// DiscoverSchema profiles every discoverable table of the targeted base, or
// of the current source when baseID is empty. Static data has a fixed shape
// and is not profiled.
func (o *Orchestrator) DiscoverSchema(ctx context.Context, baseID string) ([]discovery.TableProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, o.batchTimeout())
	defer cancel()

	store, err := o.discoveryStore(ctx, baseID)
	if err != nil {
		return nil, wrapTimeout(ctx, err)
	}
	profiles, err := o.engine.ProfileStore(ctx, store)
	return profiles, wrapTimeout(ctx, err)
}

// FindCustomerTables scores the targeted base's tables for customer data,
// or the current source's when baseID is empty.
func (o *Orchestrator) FindCustomerTables(ctx context.Context, baseID string) ([]discovery.ScoredTable, error) {
	ctx, cancel := context.WithTimeout(ctx, o.batchTimeout())
	defer cancel()

	store, err := o.discoveryStore(ctx, baseID)
	if err != nil {
		return nil, wrapTimeout(ctx, err)
	}
	scored, err := o.engine.FindCustomerTables(ctx, store)
	return scored, wrapTimeout(ctx, err)
}

// customerRecord resolves one customer through the snapshotted source.
func (o *Orchestrator) customerRecord(ctx context.Context, source models.SourceType, baseID, identifier string) (*models.CustomerRecord, error) {
	if source == models.SourceStatic {
		return o.static.Customer(identifier)
	}

	store, err := o.openStore(ctx, source, baseID)
	if err != nil {
		return nil, err
	}
	sel, err := o.engine.SelectBestTable(ctx, store, identifier)
	if err != nil {
		return nil, err
	}
	row, err := o.engine.FindCustomerRow(ctx, store, sel, identifier)
	if err != nil {
		return nil, err
	}
	rec := o.synth.Synthesize(row, sel.Mapping, identifier)
	o.synth.EnrichFromAuxTables(ctx, store, rec)
	return rec, nil
}

// customerRecords resolves every customer visible through the snapshotted
// source.
func (o *Orchestrator) customerRecords(ctx context.Context, source models.SourceType, baseID string) ([]*models.CustomerRecord, error) {
	if source == models.SourceStatic {
		return o.static.Customers()
	}

	store, err := o.openStore(ctx, source, baseID)
	if err != nil {
		return nil, err
	}
	sel, err := o.engine.SelectBestTable(ctx, store, "")
	if err != nil {
		return nil, err
	}
	rows, err := store.ReadRows(ctx, sel.Table.Name, 100)
	if err != nil {
		return nil, err
	}

	records := make([]*models.CustomerRecord, 0, len(rows))
	for _, row := range rows {
		rec := o.synth.Synthesize(row, sel.Mapping, "")
		o.synth.EnrichFromAuxTables(ctx, store, rec)
		records = append(records, rec)
	}
	return records, nil
}

// AnalyzeCustomer scores one customer, bounded by the single-customer
// timeout.
func (o *Orchestrator) AnalyzeCustomer(ctx context.Context, identifier string) (*models.HealthScore, error) {
	requestID := uuid.NewString()
	source, baseID := o.snapshot()
	logger := o.logger.With(
		zap.String("request_id", requestID),
		zap.String("source", string(source)))
	logger.Info("analyzing customer", zap.String("customer", identifier))

	ctx, cancel := context.WithTimeout(ctx, o.singleTimeout())
	defer cancel()

	rec, err := o.customerRecord(ctx, source, baseID, identifier)
	if err != nil {
		logger.Warn("analysis failed", zap.String("error", logging.SanitizeError(err)))
		return nil, wrapTimeout(ctx, err)
	}

	score := scoring.Score(rec, o.now())
	o.applyAdvisor(ctx, rec, score, logger)

	logger.Info("analysis complete",
		zap.String("customer", rec.CustomerID),
		zap.Int("overall", score.OverallScore),
		zap.String("status", string(score.HealthStatus)))
	return score, nil
}

// applyAdvisor replaces the rule-based recommendations with model-generated
// ones when an advisor is configured and succeeds. Any failure keeps the
// rule-based list, unconditionally.
func (o *Orchestrator) applyAdvisor(ctx context.Context, rec *models.CustomerRecord, score *models.HealthScore, logger *zap.Logger) {
	if o.advisor == nil {
		return
	}
	recs, err := o.advisor.SuggestRecommendations(ctx, rec, score)
	if err != nil || len(recs) == 0 {
		logger.Debug("advisor unavailable, keeping rule-based recommendations",
			zap.Error(err))
		return
	}
	if len(recs) > scoring.MaxRecommendations {
		recs = recs[:scoring.MaxRecommendations]
	}
	score.Recommendations = recs
}

// AnalyzeAll scores every customer, bounded by the batch timeout. A failure
// on one customer skips that customer and continues; only source-level
// failures abort the batch.
func (o *Orchestrator) AnalyzeAll(ctx context.Context, detail bool) (*AnalysisReport, error) {
	requestID := uuid.NewString()
	source, baseID := o.snapshot()
	logger := o.logger.With(
		zap.String("request_id", requestID),
		zap.String("source", string(source)))
	logger.Info("analyzing all customers")

	ctx, cancel := context.WithTimeout(ctx, o.batchTimeout())
	defer cancel()

	records, err := o.customerRecords(ctx, source, baseID)
	if err != nil {
		return nil, wrapTimeout(ctx, err)
	}

	report := newReport(source, o.now())
	for _, rec := range records {
		if ctx.Err() != nil {
			return nil, wrapTimeout(ctx, ctx.Err())
		}
		score := scoring.Score(rec, o.now())
		o.applyAdvisor(ctx, rec, score, logger)
		report.add(score, detail)
	}
	report.finalize()

	logger.Info("batch analysis complete",
		zap.Int("customers", report.TotalCustomers),
		zap.Float64("average", report.AverageScore))
	return report, nil
}

// CustomerSummary is one row of the customer listing.
type CustomerSummary struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Company    string `json:"company"`
	Email      string `json:"email"`
}

// ListCustomers enumerates the customers visible through the current source.
func (o *Orchestrator) ListCustomers(ctx context.Context) ([]CustomerSummary, error) {
	source, baseID := o.snapshot()

	ctx, cancel := context.WithTimeout(ctx, o.batchTimeout())
	defer cancel()

	records, err := o.customerRecords(ctx, source, baseID)
	if err != nil {
		return nil, wrapTimeout(ctx, err)
	}

	out := make([]CustomerSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, CustomerSummary{
			CustomerID: rec.CustomerID,
			Name:       rec.Name,
			Company:    rec.Company,
			Email:      rec.Email,
		})
	}
	return out, nil
}

// CustomerDetail bundles a canonical record with its health assessment.
type CustomerDetail struct {
	Customer *models.CustomerRecord `json:"customer"`
	Health   *models.HealthScore    `json:"health"`
}

// CustomerDetails returns the canonical record and health score for one
// customer.
func (o *Orchestrator) CustomerDetails(ctx context.Context, identifier string) (*CustomerDetail, error) {
	source, baseID := o.snapshot()

	ctx, cancel := context.WithTimeout(ctx, o.singleTimeout())
	defer cancel()

	rec, err := o.customerRecord(ctx, source, baseID, identifier)
	if err != nil {
		return nil, wrapTimeout(ctx, err)
	}
	return &CustomerDetail{
		Customer: rec,
		Health:   scoring.Score(rec, o.now()),
	}, nil
}

// Recommendations returns just the recommendation list for one customer.
func (o *Orchestrator) Recommendations(ctx context.Context, identifier string) ([]models.Recommendation, error) {
	score, err := o.AnalyzeCustomer(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return score.Recommendations, nil
}

// Close releases every opened store.
func (o *Orchestrator) Close() {
	o.registry.CloseAll()
}
