package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/healthsignal/health-engine/pkg/apperrors"
	"github.com/healthsignal/health-engine/pkg/config"
	"github.com/healthsignal/health-engine/pkg/llm"
	"github.com/healthsignal/health-engine/pkg/models"
	"github.com/healthsignal/health-engine/pkg/tabular"
	"github.com/healthsignal/health-engine/pkg/tabular/airtable"
)

// memStore is an in-memory tabular.Store for orchestrator tests.
type memStore struct {
	tables map[string][]tabular.Row
}

func (m *memStore) ListTables(ctx context.Context) ([]tabular.TableInfo, error) {
	var out []tabular.TableInfo
	for name := range m.tables {
		out = append(out, tabular.TableInfo{Name: name})
	}
	return out, nil
}

func (m *memStore) ReadRows(ctx context.Context, table string, limit int) ([]tabular.Row, error) {
	rows, ok := m.tables[table]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *memStore) ReadRowsMatching(ctx context.Context, table, field, value string, limit int) ([]tabular.Row, error) {
	rows, ok := m.tables[table]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	var out []tabular.Row
	for _, row := range rows {
		if strings.Contains(strings.ToLower(cast.ToString(row[field])), strings.ToLower(value)) {
			out = append(out, row)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) Close() error { return nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:                  "test",
		DefaultSource:        "static",
		StaticDataDir:        writeTestData(t),
		SingleTimeoutSeconds: 60,
		BatchTimeoutSeconds:  120,
	}
}

func newTestOrchestrator(t *testing.T, cfg *config.Config, advisor llm.Advisor) *Orchestrator {
	t.Helper()
	return NewOrchestrator(Deps{
		Config:   cfg,
		Registry: tabular.NewRegistry(),
		Static:   NewStaticLoader(cfg.StaticDataDir, zap.NewNop()),
		Advisor:  advisor,
		Logger:   zap.NewNop(),
	})
}

func TestAnalyzeCustomerStatic(t *testing.T) {
	orch := newTestOrchestrator(t, testConfig(t), nil)

	score, err := orch.AnalyzeCustomer(context.Background(), "C1")
	require.NoError(t, err)

	assert.Equal(t, "C1", score.CustomerID)
	assert.Equal(t, "Acme Corp", score.CompanyName)
	assert.GreaterOrEqual(t, score.OverallScore, 0)
	assert.LessOrEqual(t, score.OverallScore, 100)
	assert.NotEmpty(t, score.Recommendations)
	assert.LessOrEqual(t, len(score.Recommendations), 3)
}

func TestAnalyzeCustomerNotFound(t *testing.T) {
	orch := newTestOrchestrator(t, testConfig(t), nil)

	_, err := orch.AnalyzeCustomer(context.Background(), "C999")
	assert.Error(t, err)
}

func TestAnalyzeAllSummary(t *testing.T) {
	orch := newTestOrchestrator(t, testConfig(t), nil)

	report, err := orch.AnalyzeAll(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalCustomers)
	assert.Len(t, report.Summaries, 3)
	assert.Empty(t, report.Scores)
	assert.Equal(t, report.TotalCustomers,
		report.HealthyCount+report.AtRiskCount+report.CriticalCount)
	assert.Greater(t, report.AverageScore, 0.0)

	require.NotEmpty(t, report.TopPriority)
	assert.LessOrEqual(t, len(report.TopPriority), 3)
	for i := 1; i < len(report.TopPriority); i++ {
		assert.LessOrEqual(t, report.TopPriority[i-1].OverallScore,
			report.TopPriority[i].OverallScore)
	}
	assert.NotEmpty(t, report.TopPriority[0].NextAction)
}

func TestAnalyzeAllDetail(t *testing.T) {
	orch := newTestOrchestrator(t, testConfig(t), nil)

	report, err := orch.AnalyzeAll(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, report.Scores, 3)
	assert.Empty(t, report.Summaries)
}

func TestListCustomersStatic(t *testing.T) {
	orch := newTestOrchestrator(t, testConfig(t), nil)

	customers, err := orch.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 3)
	assert.Equal(t, "C1", customers[0].CustomerID)
}

func TestSetDataSourceValidation(t *testing.T) {
	orch := newTestOrchestrator(t, testConfig(t), nil)

	_, err := orch.SetDataSource("hubspot")
	assert.Error(t, err)

	_, err = orch.SetDataSource("airtable")
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))

	_, err = orch.SetDataSource("postgres")
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))

	// Current source is unchanged after failed switches
	assert.Equal(t, models.SourceStatic, orch.Status().CurrentSource)
}

func TestSetDataSourceAirtableConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.Airtable.APIKey = "patTEST"
	cfg.Airtable.BaseID = "app123"
	orch := newTestOrchestrator(t, cfg, nil)

	status, err := orch.SetDataSource("airtable")
	require.NoError(t, err)
	assert.Equal(t, models.SourceAirtable, status.CurrentSource)
	assert.Equal(t, "app123", status.ActiveBaseID)
}

func TestAnalyzeCustomerThroughDiscovery(t *testing.T) {
	cfg := testConfig(t)
	cfg.Postgres.Host = "localhost"
	cfg.Postgres.Database = "crm"
	orch := newTestOrchestrator(t, cfg, nil)

	store := &memStore{tables: map[string][]tabular.Row{
		"customers": {
			{"email_address": "jane@acme.com", "customer_name": "Jane Smith", "company": "Acme", "account_value": 120000.0},
			{"email_address": "bob@globex.com", "customer_name": "Bob Jones", "company": "Globex", "account_value": 45000.0},
		},
	}}
	orch.registry.Register(models.SourcePostgres, func(ctx context.Context) (tabular.Store, error) {
		return store, nil
	})

	_, err := orch.SetDataSource("postgres")
	require.NoError(t, err)

	score, err := orch.AnalyzeCustomer(context.Background(), "jane@acme.com")
	require.NoError(t, err)
	assert.Equal(t, "Acme", score.CompanyName)
	// Relationship defaults apply; usage and support blocks are absent
	assert.Equal(t, 0, score.UsageScore)
	assert.Equal(t, 100, score.SupportScore)
}

// twoBaseAirtable stubs an Airtable API exposing two bases with the same
// schema but different customer data, counting reads per base.
func twoBaseAirtable(t *testing.T, reads map[string]int) *httptest.Server {
	t.Helper()

	tablesJSON := `{"tables":[{"id":"tbl1","name":"Customers","fields":[` +
		`{"id":"f1","name":"Email Address","type":"email"},` +
		`{"id":"f2","name":"Customer Name","type":"singleLineText"},` +
		`{"id":"f3","name":"Company","type":"singleLineText"}]}]}`
	recordJSON := `{"records":[{"id":"rec1","fields":{` +
		`"Email Address":"jane@acme.com","Customer Name":"Jane Smith","Company":%q}}]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, base := range []string{"appOLD", "appNEW"} {
			if strings.Contains(r.URL.Path, base) {
				reads[base]++
			}
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v0/meta/bases/appOLD/tables", "/v0/meta/bases/appNEW/tables":
			fmt.Fprint(w, tablesJSON)
		case "/v0/appOLD/Customers":
			fmt.Fprintf(w, recordJSON, "Stale Base Inc")
		case "/v0/appNEW/Customers":
			fmt.Fprintf(w, recordJSON, "Acme Corporation")
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"type":"NOT_FOUND"}}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestConnectToBaseSwitchesReads(t *testing.T) {
	reads := map[string]int{}
	srv := twoBaseAirtable(t, reads)

	cfg := testConfig(t)
	cfg.Airtable.APIKey = "patTEST"
	cfg.Airtable.BaseID = "appOLD"
	client := airtable.NewClient(srv.URL, cfg.Airtable.APIKey, zap.NewNop())

	orch := NewOrchestrator(Deps{
		Config:   cfg,
		Registry: tabular.NewRegistry(),
		Static:   NewStaticLoader(cfg.StaticDataDir, zap.NewNop()),
		Airtable: client,
		Logger:   zap.NewNop(),
	})

	_, err := orch.SetDataSource("airtable")
	require.NoError(t, err)

	score, err := orch.AnalyzeCustomer(context.Background(), "jane@acme.com")
	require.NoError(t, err)
	assert.Equal(t, "Stale Base Inc", score.CompanyName)
	assert.Positive(t, reads["appOLD"])

	status, err := orch.ConnectToBase(context.Background(), "appNEW")
	require.NoError(t, err)
	assert.Equal(t, "appNEW", status.ActiveBaseID)
	oldReads := reads["appOLD"]

	score, err = orch.AnalyzeCustomer(context.Background(), "jane@acme.com")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corporation", score.CompanyName)

	customers, err := orch.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Acme Corporation", customers[0].Company)

	assert.Equal(t, oldReads, reads["appOLD"],
		"no request after the switch may touch the previous base")
	assert.Positive(t, reads["appNEW"])
}

func TestDiscoverSchemaUsesConnectedBase(t *testing.T) {
	reads := map[string]int{}
	srv := twoBaseAirtable(t, reads)

	cfg := testConfig(t)
	cfg.Airtable.APIKey = "patTEST"
	cfg.Airtable.BaseID = "appOLD"
	client := airtable.NewClient(srv.URL, cfg.Airtable.APIKey, zap.NewNop())

	orch := NewOrchestrator(Deps{
		Config:   cfg,
		Registry: tabular.NewRegistry(),
		Static:   NewStaticLoader(cfg.StaticDataDir, zap.NewNop()),
		Airtable: client,
		Logger:   zap.NewNop(),
	})

	_, err := orch.ConnectToBase(context.Background(), "appNEW")
	require.NoError(t, err)
	oldReads := reads["appOLD"]

	profiles, err := orch.DiscoverSchema(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Customers", profiles[0].Name)
	assert.Equal(t, oldReads, reads["appOLD"])
}

func TestAdvisorOverridesRecommendations(t *testing.T) {
	advisor := &llm.MockAdvisor{
		Recommendations: []models.Recommendation{
			{Action: "Custom action", Priority: models.PriorityHigh, Timeline: "Now", Reasoning: "Model says so"},
		},
	}
	orch := newTestOrchestrator(t, testConfig(t), advisor)

	score, err := orch.AnalyzeCustomer(context.Background(), "C1")
	require.NoError(t, err)
	require.Len(t, score.Recommendations, 1)
	assert.Equal(t, "Custom action", score.Recommendations[0].Action)
	assert.Equal(t, 1, advisor.Calls)
}

func TestAdvisorFailureKeepsRuleBased(t *testing.T) {
	advisor := &llm.MockAdvisor{Err: assert.AnError}
	orch := newTestOrchestrator(t, testConfig(t), advisor)

	score, err := orch.AnalyzeCustomer(context.Background(), "C1")
	require.NoError(t, err)
	assert.NotEmpty(t, score.Recommendations)
	assert.Equal(t, 1, advisor.Calls)
}

func TestRecommendationsOperation(t *testing.T) {
	orch := newTestOrchestrator(t, testConfig(t), nil)

	recs, err := orch.Recommendations(context.Background(), "C1")
	require.NoError(t, err)
	assert.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), 3)
}

func TestCustomerDetails(t *testing.T) {
	orch := newTestOrchestrator(t, testConfig(t), nil)

	detail, err := orch.CustomerDetails(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, "C1", detail.Customer.CustomerID)
	assert.NotNil(t, detail.Health)
}

func TestDiscoverSchemaRejectsStatic(t *testing.T) {
	orch := newTestOrchestrator(t, testConfig(t), nil)

	_, err := orch.DiscoverSchema(context.Background(), "")
	assert.Error(t, err)
}

func TestDiscoverBasesUnconfigured(t *testing.T) {
	orch := newTestOrchestrator(t, testConfig(t), nil)

	_, err := orch.DiscoverBases(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))
}
