package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/healthsignal/health-engine/pkg/models"
)

// AnthropicAdvisor generates recommendations through the Anthropic Messages
// API.
type AnthropicAdvisor struct {
	client *anthropic.Client
	model  string
	logger *zap.Logger
}

// NewAnthropicAdvisor creates an advisor. endpoint may be empty for the
// public API; model is required.
func NewAnthropicAdvisor(endpoint, model, apiKey string, logger *zap.Logger) (*AnthropicAdvisor, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	var opts []anthropic.ClientOption
	if endpoint != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimSuffix(endpoint, "/")))
	}

	return &AnthropicAdvisor{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
		logger: logger.Named("llm.anthropic"),
	}, nil
}

// Model returns the configured model name.
func (a *AnthropicAdvisor) Model() string { return a.model }

// SuggestRecommendations asks the model for recommendations and parses the
// pipe-delimited response.
func (a *AnthropicAdvisor) SuggestRecommendations(ctx context.Context, rec *models.CustomerRecord, score *models.HealthScore) ([]models.Recommendation, error) {
	start := time.Now()
	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxResponseTokens,
		System:    systemMessage,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(buildPrompt(rec, score)),
		},
	})
	if err != nil {
		a.logger.Warn("completion failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	recs := ParseRecommendations(resp.GetFirstContentText())
	if len(recs) == 0 {
		return nil, fmt.Errorf("response contained no parseable recommendations")
	}

	a.logger.Debug("recommendations generated",
		zap.Int("count", len(recs)),
		zap.Duration("elapsed", time.Since(start)))
	return recs, nil
}
