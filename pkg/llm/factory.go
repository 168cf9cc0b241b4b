package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/healthsignal/health-engine/pkg/config"
)

// NewAdvisor builds the advisor named by the AI configuration. Returns
// (nil, nil) when no provider is configured; callers then rely on rule-based
// recommendations alone.
func NewAdvisor(cfg config.AIConfig, logger *zap.Logger) (Advisor, error) {
	if !cfg.Configured() {
		return nil, nil
	}

	switch cfg.Provider {
	case "openai":
		return NewOpenAIAdvisor(cfg.Endpoint, cfg.Model, cfg.APIKey, logger)
	case "anthropic":
		return NewAnthropicAdvisor(cfg.Endpoint, cfg.Model, cfg.APIKey, logger)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
