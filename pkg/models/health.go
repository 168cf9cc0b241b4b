package models

import "time"

// HealthStatus is the derived 3-tier classification of an overall score.
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"  // overall >= 80
	StatusAtRisk   HealthStatus = "at_risk"  // 60-79
	StatusCritical HealthStatus = "critical" // < 60
)

// Priority ranks a recommendation.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Recommendation is one derived action item. Recommendations only exist
// attached to their parent HealthScore.
type Recommendation struct {
	Action    string   `json:"action"`
	Priority  Priority `json:"priority"`
	Timeline  string   `json:"timeline"`
	Reasoning string   `json:"reasoning"`
}

// HealthScore is the assessment produced for one customer. Component scores
// and the overall score are integers in [0,100]; overall is the weighted
// round of the components (0.4 usage, 0.3 relationship, 0.3 support).
type HealthScore struct {
	CustomerID        string           `json:"customer_id"`
	CompanyName       string           `json:"company_name"`
	OverallScore      int              `json:"overall_score"`
	HealthStatus      HealthStatus     `json:"health_status"`
	UsageScore        int              `json:"usage_score"`
	RelationshipScore int              `json:"relationship_score"`
	SupportScore      int              `json:"support_score"`
	Recommendations   []Recommendation `json:"recommendations"`
	Reasoning         string           `json:"reasoning"`
	LastUpdated       time.Time        `json:"last_updated"`
}
