package llm

import (
	"encoding/json"
	"fmt"

	"github.com/healthsignal/health-engine/pkg/models"
)

const systemMessage = "You are a customer success expert. You analyze customer health data and produce specific, actionable recommendations."

// buildPrompt renders the customer context and the strict response format.
// The pipe-delimited format is load-bearing: ParseRecommendations only
// accepts lines in this shape, and anything else triggers the rule-based
// fallback.
func buildPrompt(rec *models.CustomerRecord, score *models.HealthScore) string {
	usage, _ := json.MarshalIndent(rec.Usage, "", "  ")
	relationship, _ := json.MarshalIndent(rec.Relationship, "", "  ")
	support, _ := json.MarshalIndent(rec.Support, "", "  ")

	return fmt.Sprintf(`Analyze this customer and provide 3 specific, actionable recommendations.

CUSTOMER PROFILE:
- Overall Health Score: %d/100 (%s)
- Usage Score: %d/100
- Relationship Score: %d/100
- Support Score: %d/100

DETAILED DATA:
Usage Data: %s
Relationship Data: %s
Support Data: %s

REQUIREMENTS:
1. Provide exactly 3 recommendations
2. Each recommendation should be specific and actionable
3. Include priority level (critical/high/medium/low)
4. Include realistic timeline
5. Explain the reasoning behind each recommendation

FORMAT (use exactly this format):
1. ACTION: [specific action] | PRIORITY: [critical/high/medium/low] | TIMELINE: [timeframe] | REASONING: [why this helps]
2. ACTION: [specific action] | PRIORITY: [critical/high/medium/low] | TIMELINE: [timeframe] | REASONING: [why this helps]
3. ACTION: [specific action] | PRIORITY: [critical/high/medium/low] | TIMELINE: [timeframe] | REASONING: [why this helps]`,
		score.OverallScore, score.HealthStatus,
		score.UsageScore, score.RelationshipScore, score.SupportScore,
		usage, relationship, support)
}
