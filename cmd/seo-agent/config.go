// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/fynix-gaurav/seo-ai-agent/internal/secrets"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// envAliases maps config keys to the plain environment variable names
// deployments already use for credentials.
var envAliases = map[string][]string{
	"llm.openai_api_key":    {"SEO_AGENT_LLM_OPENAI_API_KEY", "OPENAI_API_KEY"},
	"llm.openai_base_url":   {"SEO_AGENT_LLM_OPENAI_BASE_URL", "OPENAI_BASE_URL"},
	"llm.anthropic_api_key": {"SEO_AGENT_LLM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
	"llm.gemini_api_key":    {"SEO_AGENT_LLM_GEMINI_API_KEY", "GEMINI_API_KEY"},
	"search.api_key":        {"SEO_AGENT_SEARCH_API_KEY", "SERPER_API_KEY"},
	"scrape.api_key":        {"SEO_AGENT_SCRAPE_API_KEY", "SCRAPINGANT_API_KEY"},
	"scrape.proxy_url":      {"SEO_AGENT_SCRAPE_PROXY_URL", "BRIGHTDATA_PROXY_URL"},
}

// setDefaults registers the scalar settings with v so that SEO_AGENT_*
// environment variables can override them without a config file.
func setDefaults(v *viper.Viper, cfg types.Config) {
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("queue.workers", cfg.Queue.Workers)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("search.max_results", cfg.Search.MaxResults)
	v.SetDefault("search.attempts", cfg.Search.Attempts)
	v.SetDefault("scrape.delay", cfg.Scrape.Delay)
	v.SetDefault("entity.enabled", cfg.Entity.Enabled)
	v.SetDefault("entity.top_n", cfg.Entity.TopN)
	v.SetDefault("llm.writer.temperature", cfg.LLM.Writer.Temperature)
}

// loadConfig overlays file, environment, and flag values from v onto the
// defaults, then fills credentials that are still empty from secrets.
func loadConfig(v *viper.Viper, secretValues map[string]string) (types.Config, error) {
	cfg := types.DefaultConfig()
	setDefaults(v, cfg)
	for key, envs := range envAliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return types.Config{}, fmt.Errorf("binding %s: %w", key, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	secrets.Apply(&cfg, secretValues)
	return cfg, nil
}
