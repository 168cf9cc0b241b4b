// Package scoring computes customer health scores and rule-based
// recommendations from canonical customer records. Every function here is
// pure and deterministic; the same record always yields the same score.
package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/healthsignal/health-engine/pkg/models"
)

// Component weights for the overall score.
const (
	usageWeight        = 0.4
	relationshipWeight = 0.3
	supportWeight      = 0.3
)

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// UsageScore accumulates the usage rubric. A nil block scores 0: no usage
// data means no evidence of adoption. A present block with all-zero values
// scores through the tiers instead (bottoming out at 10 from the login tier).
func UsageScore(u *models.UsageMetrics) int {
	if u == nil {
		return 0
	}

	score := 0

	// Login volume, 40 max
	switch {
	case u.TotalLogins >= 50:
		score += 40
	case u.TotalLogins >= 25:
		score += 30
	case u.TotalLogins >= 10:
		score += 20
	default:
		score += 10
	}

	// Session duration, 30 max
	switch {
	case u.AvgSessionDuration >= 45:
		score += 30
	case u.AvgSessionDuration >= 25:
		score += 20
	case u.AvgSessionDuration >= 15:
		score += 10
	}

	// Feature adoption, 20 max
	switch {
	case u.FeaturesUsed >= 5:
		score += 20
	case u.FeaturesUsed >= 3:
		score += 15
	case u.FeaturesUsed >= 2:
		score += 10
	}

	// Activity trend, 10 max
	switch u.Trend {
	case models.TrendIncreasing:
		score += 10
	case models.TrendStable:
		score += 5
	}

	return clamp(score)
}

// RelationshipScore accumulates the relationship rubric. A nil block scores
// 0. A missing or unparseable contact date takes a neutral 20 rather than
// the worst tier.
func RelationshipScore(r *models.RelationshipMetrics, now time.Time) int {
	if r == nil {
		return 0
	}

	score := 0

	// Contact recency, 40 max
	if r.LastContactDate.IsZero() {
		score += 20
	} else {
		days := int(now.Sub(r.LastContactDate).Hours() / 24)
		switch {
		case days <= 7:
			score += 40
		case days <= 14:
			score += 30
		case days <= 30:
			score += 20
		default:
			score += 10
		}
	}

	// Engagement quality, 40 max
	switch {
	case r.EngagementScore > 80 || (r.EmailsResponded > 5 && r.MeetingsAttended > 2):
		score += 40
	case r.EngagementScore > 60 || (r.EmailsResponded > 3 && r.MeetingsAttended > 1):
		score += 30
	case r.EngagementScore > 40 || r.EmailsResponded > 1:
		score += 20
	default:
		score += 10
	}

	// Contract health, 20 max
	switch {
	case r.ContractValue > 100000 && r.RenewalProbability > 0.8:
		score += 20
	case r.ContractValue > 50000 && r.RenewalProbability > 0.6:
		score += 15
	case r.RenewalProbability > 0.4:
		score += 10
	default:
		score += 5
	}

	return clamp(score)
}

// SupportScore starts at 100 and deducts for problems. A nil block keeps
// the perfect 100: no tickets implies no problems. That is deliberately
// asymmetric with the usage rule, matching long-standing scoring behavior.
func SupportScore(s *models.SupportMetrics) int {
	if s == nil {
		return 100
	}

	score := 100

	penalty := s.OpenTickets * 15
	if penalty > 50 {
		penalty = 50
	}
	score -= penalty

	switch {
	case s.AvgResolutionHours > 72:
		score -= 20
	case s.AvgResolutionHours > 48:
		score -= 10
	}

	switch {
	case s.SatisfactionScore < 3:
		score -= 30
	case s.SatisfactionScore < 4:
		score -= 15
	}

	escPenalty := s.Escalations * 10
	if escPenalty > 30 {
		escPenalty = 30
	}
	score -= escPenalty

	return clamp(score)
}

// Overall combines the component scores with fixed weights, rounding to the
// nearest integer.
func Overall(usage, relationship, support int) int {
	weighted := usageWeight*float64(usage) +
		relationshipWeight*float64(relationship) +
		supportWeight*float64(support)
	return clamp(int(math.Round(weighted)))
}

// StatusFor classifies an overall score. Band lower bounds are inclusive.
func StatusFor(overall int) models.HealthStatus {
	switch {
	case overall >= 80:
		return models.StatusHealthy
	case overall >= 60:
		return models.StatusAtRisk
	default:
		return models.StatusCritical
	}
}

// Score produces the full health assessment for one customer record.
func Score(rec *models.CustomerRecord, now time.Time) *models.HealthScore {
	usage := UsageScore(rec.Usage)
	relationship := RelationshipScore(rec.Relationship, now)
	support := SupportScore(rec.Support)
	overall := Overall(usage, relationship, support)
	status := StatusFor(overall)

	hs := &models.HealthScore{
		CustomerID:        rec.CustomerID,
		CompanyName:       rec.Company,
		OverallScore:      overall,
		HealthStatus:      status,
		UsageScore:        usage,
		RelationshipScore: relationship,
		SupportScore:      support,
		Reasoning:         reasoning(usage, relationship, support, status),
		LastUpdated:       now,
	}
	hs.Recommendations = Recommend(usage, relationship, support, status)
	return hs
}

func reasoning(usage, relationship, support int, status models.HealthStatus) string {
	return fmt.Sprintf(
		"Status %s from usage %d/100, relationship %d/100, support %d/100 (weighted 40/30/30)",
		status, usage, relationship, support,
	)
}
