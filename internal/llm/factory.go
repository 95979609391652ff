// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fynix-gaurav/seo-ai-agent/internal/logging"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// New builds the generator for one role. Backends whose credentials are
// missing are skipped so a partially configured deployment still runs; an
// error is returned only when no backend at all can be built.
func New(ctx context.Context, cfg types.LLMConfig, role types.RoleConfig, logger *logging.Logger) (Generator, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	var backends []Generator
	var skipped []string
	for _, mc := range role.Backends {
		b, err := newBackend(ctx, cfg, role, mc, client)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("%s/%s: %v", mc.Provider, mc.Model, err))
			continue
		}
		backends = append(backends, b)
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("no usable generation backend (%s)", strings.Join(skipped, "; "))
	}
	if logger != nil && len(skipped) > 0 {
		logger.Warn("skipping unconfigured backends", "skipped", skipped)
	}
	if len(backends) == 1 {
		return backends[0], nil
	}
	return &Fallback{Backends: backends, Logger: logger}, nil
}

func newBackend(ctx context.Context, cfg types.LLMConfig, role types.RoleConfig, mc types.ModelConfig, client *http.Client) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(mc.Provider)) {
	case types.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, mc.Model, role.Temperature, role.MaxTokens, client)
	case types.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic api key missing")
		}
		return &Claude{
			APIKey:      cfg.AnthropicAPIKey,
			Model:       mc.Model,
			Temperature: role.Temperature,
			MaxTokens:   role.MaxTokens,
			Client:      client,
		}, nil
	case types.ProviderGemini:
		return NewGemini(ctx, cfg.GeminiAPIKey, mc.Model, role.Temperature, role.MaxTokens)
	default:
		return nil, fmt.Errorf("unsupported provider %q", mc.Provider)
	}
}
