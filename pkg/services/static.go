package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/healthsignal/health-engine/pkg/discovery"
	"github.com/healthsignal/health-engine/pkg/models"
)

// File names of the bundled demo dataset.
const (
	usageFile   = "sample_usage_data.csv"
	crmFile     = "sample_crm_data.csv"
	supportFile = "sample_support_data.csv"
)

// StaticLoader aggregates the bundled CSV files into canonical customer
// records. It exists for demo and fallback operation when no live source is
// configured.
type StaticLoader struct {
	dir    string
	logger *zap.Logger
}

// NewStaticLoader points the loader at a directory holding the three CSVs.
func NewStaticLoader(dir string, logger *zap.Logger) *StaticLoader {
	return &StaticLoader{dir: dir, logger: logger.Named("static")}
}

// csvTable is a parsed CSV held as header-keyed rows.
type csvTable []map[string]string

func readCSV(path string) (csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if len(records) < 1 {
		return nil, nil
	}

	header := records[0]
	table := make(csvTable, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[strings.TrimSpace(col)] = strings.TrimSpace(rec[i])
			}
		}
		table = append(table, row)
	}
	return table, nil
}

func (l *StaticLoader) load() (usage, crm, support csvTable, err error) {
	if usage, err = readCSV(filepath.Join(l.dir, usageFile)); err != nil {
		return nil, nil, nil, err
	}
	if crm, err = readCSV(filepath.Join(l.dir, crmFile)); err != nil {
		return nil, nil, nil, err
	}
	if support, err = readCSV(filepath.Join(l.dir, supportFile)); err != nil {
		return nil, nil, nil, err
	}
	l.logger.Debug("loaded static dataset",
		zap.Int("usage_rows", len(usage)),
		zap.Int("crm_rows", len(crm)),
		zap.Int("support_rows", len(support)))
	return usage, crm, support, nil
}

// CustomerIDs returns the union of customer IDs across all three files,
// sorted for stable output.
func (l *StaticLoader) CustomerIDs() ([]string, error) {
	usage, crm, support, err := l.load()
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, table := range []csvTable{usage, crm, support} {
		for _, row := range table {
			if id := row["customer_id"]; id != "" {
				seen[id] = true
			}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Customer builds the canonical record for one customer ID. Metric blocks
// absent from the files stay nil so scoring sees "no signal".
func (l *StaticLoader) Customer(customerID string) (*models.CustomerRecord, error) {
	usage, crm, support, err := l.load()
	if err != nil {
		return nil, err
	}

	rec := &models.CustomerRecord{CustomerID: customerID}

	if u := aggregateUsage(usage, customerID); u != nil {
		rec.Usage = u
	}
	if r, info := aggregateCRM(crm, customerID); r != nil {
		rec.Relationship = r
		rec.Name = info.company
		rec.Company = info.company
		rec.AccountValue = info.accountValue
		rec.Email = syntheticEmail(customerID, info.company)
	}
	if s := aggregateSupport(support, customerID); s != nil {
		rec.Support = s
	}

	if rec.Usage == nil && rec.Relationship == nil && rec.Support == nil {
		return nil, fmt.Errorf("customer %q not present in static dataset", customerID)
	}
	return rec, nil
}

// Customers builds records for every known customer.
func (l *StaticLoader) Customers() ([]*models.CustomerRecord, error) {
	ids, err := l.CustomerIDs()
	if err != nil {
		return nil, err
	}
	out := make([]*models.CustomerRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := l.Customer(id)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// aggregateUsage rolls per-event usage rows into the usage block. Logins are
// summed from rows whose feature is "login"; session duration averages over
// every event; feature count is distinct features touched.
func aggregateUsage(table csvTable, customerID string) *models.UsageMetrics {
	var (
		totalLogins  int
		sessionSum   float64
		sessionCount int
		features     = map[string]bool{}
		found        bool
	)
	for _, row := range table {
		if row["customer_id"] != customerID {
			continue
		}
		found = true
		feature := row["feature_used"]
		if feature == "login" {
			totalLogins += cast.ToInt(row["usage_count"])
		}
		if feature != "" {
			features[feature] = true
		}
		sessionSum += cast.ToFloat64(row["session_duration_minutes"])
		sessionCount++
	}
	if !found {
		return nil
	}

	avg := 0.0
	if sessionCount > 0 {
		avg = sessionSum / float64(sessionCount)
	}
	return &models.UsageMetrics{
		TotalLogins:        totalLogins,
		AvgSessionDuration: avg,
		FeaturesUsed:       len(features),
		Trend:              models.TrendStable,
	}
}

type crmInfo struct {
	company      string
	accountValue float64
}

// aggregateCRM takes the first CRM row for the customer. Engagement,
// responsiveness, and renewal probability are fixed demo values.
func aggregateCRM(table csvTable, customerID string) (*models.RelationshipMetrics, crmInfo) {
	for _, row := range table {
		if row["customer_id"] != customerID {
			continue
		}
		info := crmInfo{
			company:      row["company_name"],
			accountValue: cast.ToFloat64(row["account_value"]),
		}
		return &models.RelationshipMetrics{
			LastContactDate:    discovery.ParseDate(row["last_contact_date"]),
			EngagementScore:    75,
			EmailsResponded:    3,
			MeetingsAttended:   1,
			ContractValue:      info.accountValue,
			RenewalProbability: 0.7,
		}, info
	}
	return nil, crmInfo{}
}

// aggregateSupport rolls ticket rows into the support block. Resolution time
// averages over closed tickets only; escalations count high-priority rows.
func aggregateSupport(table csvTable, customerID string) *models.SupportMetrics {
	var (
		openTickets   int
		resolutionSum float64
		closedCount   int
		escalations   int
		found         bool
	)
	for _, row := range table {
		if row["customer_id"] != customerID {
			continue
		}
		found = true
		switch row["status"] {
		case "open":
			openTickets++
		case "closed":
			resolutionSum += cast.ToFloat64(row["resolution_time_hours"])
			closedCount++
		}
		if row["priority"] == "high" {
			escalations++
		}
	}
	if !found {
		return nil
	}

	avgResolution := 0.0
	if closedCount > 0 {
		avgResolution = resolutionSum / float64(closedCount)
	}
	return &models.SupportMetrics{
		OpenTickets:        openTickets,
		AvgResolutionHours: avgResolution,
		SatisfactionScore:  4,
		Escalations:        escalations,
	}
}

// syntheticEmail fabricates a contact address for demo records that carry
// none of their own.
func syntheticEmail(customerID, company string) string {
	domain := strings.ReplaceAll(strings.ToLower(company), " ", "")
	if domain == "" {
		domain = "example"
	}
	return fmt.Sprintf("%s@%s.com", strings.ToLower(customerID), domain)
}
