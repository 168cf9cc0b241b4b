package scoring

import "github.com/healthsignal/health-engine/pkg/models"

// MaxRecommendations caps every recommendation list.
const MaxRecommendations = 3

// Component thresholds for the rule set.
const (
	severeThreshold = 40
	softThreshold   = 70
)

// Recommend derives rule-based recommendations from the component scores and
// status. Rules run in a fixed order (usage, relationship, support, then a
// status catch-all) and the list is truncated to three entries, so component
// rules always outrank the catch-all.
func Recommend(usage, relationship, support int, status models.HealthStatus) []models.Recommendation {
	var recs []models.Recommendation

	switch {
	case usage < severeThreshold:
		recs = append(recs, models.Recommendation{
			Action:    "Schedule hands-on product training and onboarding session",
			Priority:  models.PriorityHigh,
			Timeline:  "Within 1 week",
			Reasoning: "Very low usage indicates the customer has not adopted the product",
		})
	case usage < softThreshold:
		recs = append(recs, models.Recommendation{
			Action:    "Share advanced feature guides and usage best practices",
			Priority:  models.PriorityMedium,
			Timeline:  "Within 2 weeks",
			Reasoning: "Moderate usage suggests room to deepen product adoption",
		})
	}

	switch {
	case relationship < severeThreshold:
		recs = append(recs, models.Recommendation{
			Action:    "Assign CSM for immediate outreach and recovery call",
			Priority:  models.PriorityCritical,
			Timeline:  "Within 3 days",
			Reasoning: "Relationship signals point to imminent churn risk",
		})
	case relationship < softThreshold:
		recs = append(recs, models.Recommendation{
			Action:    "Schedule a quarterly business review to re-engage stakeholders",
			Priority:  models.PriorityHigh,
			Timeline:  "Within 2 weeks",
			Reasoning: "Weak engagement benefits from a structured business review",
		})
	}

	switch {
	case support < severeThreshold:
		recs = append(recs, models.Recommendation{
			Action:    "Triage and resolve open support tickets",
			Priority:  models.PriorityCritical,
			Timeline:  "Immediately",
			Reasoning: "Support backlog is severely degrading the customer experience",
		})
	case support < softThreshold:
		recs = append(recs, models.Recommendation{
			Action:    "Review recent support interactions for recurring issues",
			Priority:  models.PriorityMedium,
			Timeline:  "Within 1 week",
			Reasoning: "Support friction is accumulating and worth a closer look",
		})
	}

	switch status {
	case models.StatusCritical:
		recs = append(recs, models.Recommendation{
			Action:    "Escalate to executive sponsor for intervention",
			Priority:  models.PriorityCritical,
			Timeline:  "Within 24 hours",
			Reasoning: "Overall health is critical and needs leadership attention",
		})
	case models.StatusAtRisk:
		recs = append(recs, models.Recommendation{
			Action:    "Build a customer success action plan with clear owners",
			Priority:  models.PriorityHigh,
			Timeline:  "Within 1 week",
			Reasoning: "At-risk customers recover fastest with a concrete plan",
		})
	case models.StatusHealthy:
		recs = append(recs, models.Recommendation{
			Action:    "Explore expansion and upsell opportunities",
			Priority:  models.PriorityMedium,
			Timeline:  "Within 1 month",
			Reasoning: "Healthy customers are strong candidates for account growth",
		})
	}

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}
