// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/viper"

	"github.com/fynix-gaurav/seo-ai-agent/internal/entity"
	"github.com/fynix-gaurav/seo-ai-agent/internal/jobs"
	"github.com/fynix-gaurav/seo-ai-agent/internal/llm"
	"github.com/fynix-gaurav/seo-ai-agent/internal/logging"
	"github.com/fynix-gaurav/seo-ai-agent/internal/outline"
	"github.com/fynix-gaurav/seo-ai-agent/internal/scrape"
	"github.com/fynix-gaurav/seo-ai-agent/internal/search"
	"github.com/fynix-gaurav/seo-ai-agent/internal/store"
	"github.com/fynix-gaurav/seo-ai-agent/internal/writing"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// app holds the long-lived resources a command needs.
type app struct {
	cfg    types.Config
	logger *logging.Logger
	store  *store.Store
}

func openApp() (*app, error) {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, err
	}
	logger, err := logging.Open(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	s, err := store.New(cfg.Store)
	if err != nil {
		logger.Close()
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, store: s}, nil
}

func (a *app) Close() {
	a.store.Close()
	a.logger.Close()
}

// runner builds the outline and article collaborators. Generation
// backends are resolved here, so commands that only read the database
// never need API keys.
func (a *app) runner(ctx context.Context) (*jobs.Runner, error) {
	gen := func(role string, rc types.RoleConfig) (llm.Generator, error) {
		g, err := llm.New(ctx, a.cfg.LLM, rc, a.logger.WithStage(role))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", role, err)
		}
		return g, nil
	}

	var grouper, architect, fixer, refiner, writer, editor llm.Generator
	roles := []struct {
		name string
		cfg  types.RoleConfig
		dst  *llm.Generator
	}{
		{outline.StageGrouper, a.cfg.LLM.Grouper, &grouper},
		{outline.StageArchitect, a.cfg.LLM.Architect, &architect},
		{"fixer", a.cfg.LLM.Fixer, &fixer},
		{outline.StageRefiner, a.cfg.LLM.Refiner, &refiner},
		{writing.RoleWriter, a.cfg.LLM.Writer, &writer},
		{writing.RoleEditor, a.cfg.LLM.Editor, &editor},
	}
	for _, r := range roles {
		g, err := gen(r.name, r.cfg)
		if err != nil {
			return nil, err
		}
		*r.dst = g
	}

	serper := &search.Serper{
		Client:     &http.Client{Timeout: a.cfg.Search.Timeout},
		APIKey:     a.cfg.Search.APIKey,
		MaxResults: a.cfg.Search.MaxResults,
	}
	r := &jobs.Runner{
		Store: a.store,
		Search: &search.Retrying{
			Provider:   serper,
			Attempts:   a.cfg.Search.Attempts,
			MinBackoff: a.cfg.Search.MinBackoff,
			MaxBackoff: a.cfg.Search.MaxBackoff,
			Logger:     a.logger.WithStage("search"),
		},
		Scraper: scrape.New(a.cfg.Scrape, a.logger.WithStage("scrape")),
		Outliner: &outline.Pipeline{
			Grouper:   &outline.Grouper{Gen: grouper},
			Architect: &outline.Architect{Gen: architect, Fixer: fixer},
			Refiner:   &outline.Refiner{Gen: refiner},
			Logger:    a.logger,
		},
		Writer: &writing.Controller{
			Writer: &writing.Writer{Gen: writer},
			Editor: &writing.Editor{Gen: editor},
			Logger: a.logger,
		},
		MaxResults: a.cfg.Search.MaxResults,
		Logger:     a.logger,
	}
	if a.cfg.Entity.Enabled {
		r.Entities = entity.New(a.cfg.Entity.TopN, a.logger.WithStage("entity"))
	}
	return r, nil
}
