package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/healthsignal/health-engine/pkg/models"
)

const maxResponseTokens = 800

// OpenAIAdvisor generates recommendations through an OpenAI-compatible
// chat-completion endpoint.
type OpenAIAdvisor struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIAdvisor creates an advisor. endpoint may be empty for the public
// API; model is required.
func NewOpenAIAdvisor(endpoint, model, apiKey string, logger *zap.Logger) (*OpenAIAdvisor, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		clientConfig.BaseURL = strings.TrimSuffix(endpoint, "/")
	}

	return &OpenAIAdvisor{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger.Named("llm.openai"),
	}, nil
}

// Model returns the configured model name.
func (a *OpenAIAdvisor) Model() string { return a.model }

// SuggestRecommendations asks the model for recommendations and parses the
// pipe-delimited response. A response with no parseable lines is an error so
// the caller falls back to rules.
func (a *OpenAIAdvisor) SuggestRecommendations(ctx context.Context, rec *models.CustomerRecord, score *models.HealthScore) ([]models.Recommendation, error) {
	start := time.Now()
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     a.model,
		MaxTokens: maxResponseTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(rec, score)},
		},
	})
	if err != nil {
		a.logger.Warn("completion failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	recs := ParseRecommendations(resp.Choices[0].Message.Content)
	if len(recs) == 0 {
		return nil, fmt.Errorf("response contained no parseable recommendations")
	}

	a.logger.Debug("recommendations generated",
		zap.Int("count", len(recs)),
		zap.Duration("elapsed", time.Since(start)))
	return recs, nil
}
