// Package providers selects the matching service client from configuration.
package providers

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/llm/gemini"
	"jobmatch-backend/internal/llm/openai"
)

// New builds the configured client. It never fails: a missing credential or
// a provider that cannot be constructed yields a client that reports
// llm.ErrNotConfigured on every call.
func New(ctx context.Context, cfg llm.Config, logger *zap.Logger) llm.Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = "openai"
	}
	if provider == "none" {
		logger.Warn("matching service disabled", zap.String("provider", provider))
		return llm.NotConfigured("provider disabled")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		logger.Warn("matching service credential missing, recommendations will be empty", zap.String("provider", provider))
		return llm.NotConfigured("missing api key for " + provider)
	}

	var (
		client llm.Client
		err    error
	)
	switch provider {
	case "gemini":
		client, err = gemini.NewClient(ctx, cfg)
	case "openai":
		client, err = openai.NewClient(cfg)
	default:
		logger.Warn("unknown matching provider", zap.String("provider", provider))
		return llm.NotConfigured("unknown provider " + provider)
	}
	if err != nil {
		logger.Warn("matching service client unavailable", zap.String("provider", provider), zap.Error(err))
		return llm.NotConfigured(err.Error())
	}
	logger.Info("matching service configured", zap.String("provider", provider), zap.String("model", cfg.Model))
	return client
}
