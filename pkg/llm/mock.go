package llm

import (
	"context"

	"github.com/healthsignal/health-engine/pkg/models"
)

// MockAdvisor is a configurable test double for Advisor.
type MockAdvisor struct {
	Recommendations []models.Recommendation
	Err             error
	Calls           int
}

// SuggestRecommendations returns the canned recommendations or error.
func (m *MockAdvisor) SuggestRecommendations(_ context.Context, _ *models.CustomerRecord, _ *models.HealthScore) ([]models.Recommendation, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Recommendations, nil
}

// Model returns a fixed model name.
func (m *MockAdvisor) Model() string { return "mock" }
