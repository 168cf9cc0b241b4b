package models

import "time"

// UsageTrend values for the usage block.
const (
	TrendIncreasing = "increasing"
	TrendStable     = "stable"
	TrendDecreasing = "decreasing"
)

// Contact outcome values derived from sentiment.
const (
	OutcomePositive = "positive"
	OutcomeNeutral  = "neutral"
	OutcomeNegative = "negative"
)

// DefaultCustomerType is the sentinel for customers without a mapped type.
const DefaultCustomerType = "Regular"

// UsageMetrics is the product-usage block of a canonical record.
type UsageMetrics struct {
	TotalLogins        int     `json:"total_logins"`
	AvgSessionDuration float64 `json:"avg_session_duration"` // minutes
	FeaturesUsed       int     `json:"features_used"`
	Trend              string  `json:"trend"` // increasing, stable, decreasing
}

// RelationshipMetrics is the CRM/relationship block of a canonical record.
type RelationshipMetrics struct {
	LastContactDate    time.Time `json:"last_contact_date"`
	EngagementScore    float64   `json:"engagement_score"` // 0-100
	EmailsResponded    int       `json:"emails_responded"`
	MeetingsAttended   int       `json:"meetings_attended"`
	ContractValue      float64   `json:"contract_value"`
	RenewalProbability float64   `json:"renewal_probability"` // 0-1
	ContactOutcome     string    `json:"contact_outcome"`
}

// SupportMetrics is the support-history block of a canonical record.
type SupportMetrics struct {
	OpenTickets        int     `json:"open_tickets"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
	SatisfactionScore  float64 `json:"satisfaction_score"` // 0-5
	Escalations        int     `json:"escalations"`
}

// CustomerRecord is the canonical customer shape that every ingestion path
// normalizes toward. The three metric blocks are pointers: a nil block means
// "no signal", which downstream scoring treats differently from a present
// block whose fields are all zero.
type CustomerRecord struct {
	CustomerID   string  `json:"customer_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Company      string  `json:"company"`
	AccountValue float64 `json:"account_value"`
	Phone        string  `json:"phone,omitempty"`
	CustomerType string  `json:"customer_type,omitempty"`

	CreatedDate time.Time `json:"created_date,omitzero"`

	Usage        *UsageMetrics        `json:"usage,omitempty"`
	Relationship *RelationshipMetrics `json:"relationship,omitempty"`
	Support      *SupportMetrics      `json:"support,omitempty"`
}
