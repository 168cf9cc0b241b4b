// Package llm provides the optional language-model collaborator that turns
// a health assessment into tailored recommendations. Every caller must be
// prepared for it to fail and fall back to rule-based recommendations.
package llm

import (
	"context"

	"github.com/healthsignal/health-engine/pkg/models"
)

// Advisor generates recommendations for a scored customer.
// Use this interface for dependency injection to enable mocking in tests.
type Advisor interface {
	// SuggestRecommendations returns up to three recommendations for the
	// customer. Implementations must respect ctx cancellation.
	SuggestRecommendations(ctx context.Context, rec *models.CustomerRecord, score *models.HealthScore) ([]models.Recommendation, error)

	// Model returns the configured model name, for status reporting.
	Model() string
}

// Ensure implementations satisfy Advisor at compile time.
var (
	_ Advisor = (*OpenAIAdvisor)(nil)
	_ Advisor = (*AnthropicAdvisor)(nil)
	_ Advisor = (*MockAdvisor)(nil)
)
