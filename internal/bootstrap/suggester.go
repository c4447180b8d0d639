package bootstrap

import (
	"context"
	"fmt"

	"github.com/chaincanvas/chaincanvas-backend/config"
	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/service"
	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/suggestion"
	"github.com/chaincanvas/chaincanvas-backend/internal/llm"
	"go.uber.org/zap"
)

// NewSuggester builds the suggestion backend named by cfg.Provider. The
// returned close func releases the model client and is never nil.
func NewSuggester(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger, metrics *suggestion.Metrics) (service.Suggester, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Provider {
	case config.ProviderLocal:
		return suggestion.NewLocalEstimator(), noop, nil
	case config.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, noop, fmt.Errorf("gemini client: %w", err)
		}
		return suggestion.NewEngine(client, client.Name(), cfg.Timeout, logger, metrics), client.Close, nil
	case config.ProviderOpenAI:
		client, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, nil)
		if err != nil {
			return nil, noop, fmt.Errorf("openai client: %w", err)
		}
		return suggestion.NewEngine(client, client.Name(), cfg.Timeout, logger, metrics), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
