package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/healthsignal/health-engine/pkg/models"
	"github.com/healthsignal/health-engine/pkg/tabular"
)

// dateFormats are tried in order. Input is split on "T" first so ISO
// datetimes parse through the plain date form.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006-01-02 15:04:05",
}

// ParseDate parses the loosely formatted date strings found in real bases.
// Unparseable input yields the zero time, which scoring treats as a missing
// date rather than an ancient one.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	datePart := strings.SplitN(s, "T", 2)[0]
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, datePart); err == nil {
			return t
		}
	}
	// Retry with the full string for layouts that include a time component
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Synthesizer turns a located row plus auxiliary tables into a canonical
// customer record.
type Synthesizer struct {
	logger *zap.Logger
}

// NewSynthesizer returns a synthesizer.
func NewSynthesizer(logger *zap.Logger) *Synthesizer {
	return &Synthesizer{logger: logger.Named("synthesize")}
}

// mappedString extracts the cell bound to key, coerced to a string.
func mappedString(row tabular.Row, mapping FieldMapping, key string) string {
	col, ok := mapping[key]
	if !ok {
		return ""
	}
	v, ok := row[col]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

// mappedFloat extracts the cell bound to key, coerced to a float. Strings
// with currency noise coerce to 0 rather than failing.
func mappedFloat(row tabular.Row, mapping FieldMapping, key string) float64 {
	col, ok := mapping[key]
	if !ok {
		return 0
	}
	v, ok := row[col]
	if !ok || v == nil {
		return 0
	}
	return cast.ToFloat64(v)
}

// Synthesize builds the canonical record for a row found by FindCustomerRow.
// identifier is the original lookup value, used as the email and ID of last
// resort. Unmapped relationship signals take documented defaults: engagement
// 75, renewal probability 0.8 for VIP customers and 0.6 otherwise.
func (s *Synthesizer) Synthesize(row tabular.Row, mapping FieldMapping, identifier string) *models.CustomerRecord {
	name := mappedString(row, mapping, KeyName)
	company := mappedString(row, mapping, KeyCompany)
	if name == "" {
		name = company
	}
	if name == "" {
		name = "Unknown Customer"
	}
	if company == "" {
		company = name
	}

	email := mappedString(row, mapping, KeyEmail)
	if email == "" {
		email = identifier
	}

	customerID := mappedString(row, mapping, KeyCustomerID)
	if customerID == "" {
		if recID, ok := row["_record_id"].(string); ok {
			customerID = recID
		} else {
			customerID = identifier
		}
	}

	accountValue := mappedFloat(row, mapping, KeyAccountValue)
	customerType := mappedString(row, mapping, KeyCustomerType)
	if customerType == "" {
		customerType = models.DefaultCustomerType
	}

	engagement := 75.0
	if raw := mappedString(row, mapping, KeyEngagementScore); raw != "" {
		engagement = cast.ToFloat64(raw)
	}

	renewal := 0.6
	if customerType == "VIP" {
		renewal = 0.8
	}

	lastContact := mappedString(row, mapping, KeyLastContact)
	if lastContact == "" {
		lastContact = mappedString(row, mapping, KeyLastPurchase)
	}

	rec := &models.CustomerRecord{
		CustomerID:   customerID,
		Name:         name,
		Email:        email,
		Company:      company,
		AccountValue: accountValue,
		Phone:        mappedString(row, mapping, KeyPhone),
		CustomerType: customerType,
		CreatedDate:  ParseDate(mappedString(row, mapping, KeyCreatedDate)),
		Relationship: &models.RelationshipMetrics{
			LastContactDate:    ParseDate(lastContact),
			EngagementScore:    engagement,
			EmailsResponded:    3,
			MeetingsAttended:   1,
			ContractValue:      accountValue,
			RenewalProbability: renewal,
			ContactOutcome:     outcomeFromSentiment(mappedString(row, mapping, KeySentiment)),
		},
	}
	return rec
}

// outcomeFromSentiment folds free-text sentiment into the 3-value outcome.
func outcomeFromSentiment(sentiment string) string {
	lower := strings.ToLower(sentiment)
	switch {
	case strings.Contains(lower, "positive"):
		return models.OutcomePositive
	case strings.Contains(lower, "negative"):
		return models.OutcomeNegative
	default:
		return models.OutcomeNeutral
	}
}

// AttachUsage aggregates per-event usage rows from a dedicated usage table
// into the record's usage block. Rows follow the conventional column names
// of usage exports: "Feature Used", "Usage Count", "Session Duration".
func (s *Synthesizer) AttachUsage(rec *models.CustomerRecord, rows []tabular.Row) {
	if len(rows) == 0 {
		return
	}

	var totalLogins int
	var sessionSum float64
	features := map[string]bool{}
	for _, row := range rows {
		feature := cast.ToString(row["Feature Used"])
		if feature == "login" {
			totalLogins += cast.ToInt(row["Usage Count"])
		}
		if feature != "" {
			features[feature] = true
		}
		sessionSum += cast.ToFloat64(row["Session Duration"])
	}

	rec.Usage = &models.UsageMetrics{
		TotalLogins:        totalLogins,
		AvgSessionDuration: sessionSum / float64(len(rows)),
		FeaturesUsed:       len(features),
		Trend:              models.TrendStable,
	}
}

// AttachSupport aggregates ticket rows from a dedicated support table into
// the record's support block. High and critical priorities both count as
// escalations; resolution time averages over closed tickets only.
func (s *Synthesizer) AttachSupport(rec *models.CustomerRecord, rows []tabular.Row) {
	if len(rows) == 0 {
		return
	}

	var open, escalations, closed int
	var resolutionSum float64
	for _, row := range rows {
		switch cast.ToString(row["Status"]) {
		case "open":
			open++
		case "closed":
			resolutionSum += cast.ToFloat64(row["Resolution Time Hours"])
			closed++
		}
		switch cast.ToString(row["Priority"]) {
		case "high", "critical":
			escalations++
		}
	}

	avgResolution := 0.0
	if closed > 0 {
		avgResolution = resolutionSum / float64(closed)
	}
	rec.Support = &models.SupportMetrics{
		OpenTickets:        open,
		AvgResolutionHours: avgResolution,
		SatisfactionScore:  4,
		Escalations:        escalations,
	}
}

// EnrichFromAuxTables looks for conventional "Usage" and "Support" tables
// keyed by customer email and attaches their aggregates when present.
// Missing tables are not an error; the blocks stay nil.
func (s *Synthesizer) EnrichFromAuxTables(ctx context.Context, store tabular.Store, rec *models.CustomerRecord) {
	if rec.Email == "" {
		return
	}

	if rows, err := store.ReadRowsMatching(ctx, "Usage", "Customer Email", rec.Email, 0); err == nil {
		s.AttachUsage(rec, rows)
	} else {
		s.logger.Debug("no usage table data", zap.Error(err))
	}

	if rows, err := store.ReadRowsMatching(ctx, "Support", "Customer Email", rec.Email, 0); err == nil {
		s.AttachSupport(rec, rows)
	} else {
		s.logger.Debug("no support table data", zap.Error(err))
	}
}
