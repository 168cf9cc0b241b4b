package services

import (
	"sort"
	"time"

	"github.com/healthsignal/health-engine/pkg/models"
)

// ScoreSummary is the compact per-customer entry of a summary report.
type ScoreSummary struct {
	CustomerID   string              `json:"customer_id"`
	CompanyName  string              `json:"company_name"`
	OverallScore int                 `json:"overall_score"`
	HealthStatus models.HealthStatus `json:"health_status"`
}

// PriorityCustomer is one entry of the report's attention list: a low-scoring
// customer and the first action recommended for them.
type PriorityCustomer struct {
	CustomerID   string              `json:"customer_id"`
	CompanyName  string              `json:"company_name"`
	OverallScore int                 `json:"overall_score"`
	HealthStatus models.HealthStatus `json:"health_status"`
	NextAction   string              `json:"next_action,omitempty"`
}

const maxPriorityCustomers = 3

// AnalysisReport is the whole-dataset analysis payload. Detail reports carry
// full scores with recommendations; summary reports carry compact entries.
type AnalysisReport struct {
	GeneratedAt    time.Time             `json:"generated_at"`
	Source         models.SourceType     `json:"source"`
	TotalCustomers int                   `json:"total_customers"`
	HealthyCount   int                   `json:"healthy_count"`
	AtRiskCount    int                   `json:"at_risk_count"`
	CriticalCount  int                   `json:"critical_count"`
	AverageScore   float64               `json:"average_score"`
	TopPriority    []PriorityCustomer    `json:"top_priority,omitempty"`
	Scores         []*models.HealthScore `json:"scores,omitempty"`
	Summaries      []ScoreSummary        `json:"summaries,omitempty"`

	scoreSum int
}

func newReport(source models.SourceType, now time.Time) *AnalysisReport {
	return &AnalysisReport{GeneratedAt: now, Source: source}
}

func (r *AnalysisReport) add(score *models.HealthScore, detail bool) {
	r.TotalCustomers++
	r.scoreSum += score.OverallScore

	switch score.HealthStatus {
	case models.StatusHealthy:
		r.HealthyCount++
	case models.StatusAtRisk:
		r.AtRiskCount++
	case models.StatusCritical:
		r.CriticalCount++
	}

	if detail {
		r.Scores = append(r.Scores, score)
	} else {
		r.Summaries = append(r.Summaries, ScoreSummary{
			CustomerID:   score.CustomerID,
			CompanyName:  score.CompanyName,
			OverallScore: score.OverallScore,
			HealthStatus: score.HealthStatus,
		})
	}

	entry := PriorityCustomer{
		CustomerID:   score.CustomerID,
		CompanyName:  score.CompanyName,
		OverallScore: score.OverallScore,
		HealthStatus: score.HealthStatus,
	}
	if len(score.Recommendations) > 0 {
		entry.NextAction = score.Recommendations[0].Action
	}
	r.TopPriority = append(r.TopPriority, entry)
}

func (r *AnalysisReport) finalize() {
	if r.TotalCustomers > 0 {
		r.AverageScore = float64(r.scoreSum) / float64(r.TotalCustomers)
	}

	// Lowest scores need attention first; stable so equal scores keep
	// dataset order.
	sort.SliceStable(r.TopPriority, func(i, j int) bool {
		return r.TopPriority[i].OverallScore < r.TopPriority[j].OverallScore
	})
	if len(r.TopPriority) > maxPriorityCustomers {
		r.TopPriority = r.TopPriority[:maxPriorityCustomers]
	}
}
