// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jobs runs the two long-lived operations of a project: building an
// outline from live search results, and writing the full article from that
// outline. Each run records its progress in the project or article status
// before returning.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fynix-gaurav/seo-ai-agent/internal/errors"
	"github.com/fynix-gaurav/seo-ai-agent/internal/logging"
	"github.com/fynix-gaurav/seo-ai-agent/internal/outline"
	"github.com/fynix-gaurav/seo-ai-agent/internal/search"
	"github.com/fynix-gaurav/seo-ai-agent/internal/writing"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// DefaultMaxResults is the number of search results scraped per run.
const DefaultMaxResults = 10

// Store is the persistence the runner needs.
type Store interface {
	CreateProject(ctx context.Context, p types.Project) (types.Project, error)
	GetProject(ctx context.Context, id int64) (types.Project, error)
	UpdateProjectStatus(ctx context.Context, id int64, status types.ProjectStatus) error
	CompleteOutline(ctx context.Context, a types.Article) (types.Article, error)
	GetArticle(ctx context.Context, id int64) (types.Article, error)
	UpdateArticle(ctx context.Context, a types.Article) error
	UpdateArticleStatus(ctx context.Context, id int64, status types.ArticleStatus) error
	ArticleForProject(ctx context.Context, projectID int64) (types.Article, error)
}

// HeadingSource collects competitor headings for a list of URLs.
type HeadingSource interface {
	HeadingsFor(ctx context.Context, urls []string) []string
}

// EntitySource extracts salient entities from a text corpus.
type EntitySource interface {
	Extract(ctx context.Context, corpus string) []string
}

// OutlineBuilder turns research input into an outline.
type OutlineBuilder interface {
	Run(ctx context.Context, in outline.Input) (types.Outline, error)
}

// DraftWriter writes every section of an outline.
type DraftWriter interface {
	Run(ctx context.Context, o types.Outline) (types.Draft, error)
}

// Runner wires the collaborators of both runs. Entities may be nil.
type Runner struct {
	Store      Store
	Search     search.Provider
	Scraper    HeadingSource
	Entities   EntitySource
	Outliner   OutlineBuilder
	Writer     DraftWriter
	MaxResults int
	Logger     *logging.Logger
}

func (r *Runner) logger() *logging.Logger {
	if r.Logger == nil {
		return logging.NopLogger()
	}
	return r.Logger
}

// RunOutlinePipeline researches keyword and stores the resulting outline as
// a DRAFT article for the project. The project moves to IN_PROGRESS first
// and ends COMPLETED or FAILED; FAILED is recorded before the error is
// returned.
func (r *Runner) RunOutlinePipeline(ctx context.Context, projectID int64, keyword, location string, manualKeywords []string) (types.Outline, error) {
	log := r.logger().With("project_id", projectID, "keyword", keyword)
	start := time.Now()

	if err := r.Store.UpdateProjectStatus(ctx, projectID, types.ProjectInProgress); err != nil {
		return types.Outline{}, errors.GenerationFailure("outline", err)
	}

	o, err := r.buildOutline(ctx, log, projectID, keyword, location, manualKeywords)
	if err != nil {
		log.Error("outline run failed", "error", err)
		// The run's own context may already be cancelled; the status must still land.
		if serr := r.Store.UpdateProjectStatus(context.WithoutCancel(ctx), projectID, types.ProjectFailed); serr != nil {
			log.Error("recording failed status", "error", serr)
		}
		return types.Outline{}, errors.GenerationFailure("outline", err)
	}

	log.Info("outline run finished", "title", o.Title, "sections", len(o.Sections), "elapsed", time.Since(start))
	return o, nil
}

func (r *Runner) buildOutline(ctx context.Context, log *logging.Logger, projectID int64, keyword, location string, manualKeywords []string) (types.Outline, error) {
	results, err := r.Search.Search(ctx, keyword, location)
	if err != nil {
		return types.Outline{}, fmt.Errorf("fetching search results: %w", err)
	}
	max := r.MaxResults
	if max <= 0 {
		max = DefaultMaxResults
	}
	urls := search.Links(results, max)

	headings := r.Scraper.HeadingsFor(ctx, urls)
	log.Info("scraped competitor headings", "urls", len(urls), "headings", len(headings))

	var entities []string
	if r.Entities != nil {
		entities = r.Entities.Extract(ctx, strings.Join(headings, "\n"))
		log.Debug("extracted entities", "count", len(entities))
	}

	o, err := r.Outliner.Run(ctx, outline.Input{
		Keyword:        keyword,
		Headings:       headings,
		ManualKeywords: manualKeywords,
		Entities:       entities,
	})
	if err != nil {
		return types.Outline{}, err
	}

	doc, err := outline.ToJSON(o)
	if err != nil {
		return types.Outline{}, err
	}
	if _, err := r.Store.CompleteOutline(ctx, types.Article{
		ProjectID: projectID,
		Title:     o.Title,
		Content:   doc,
		Outline:   doc,
	}); err != nil {
		return types.Outline{}, fmt.Errorf("saving outline: %w", err)
	}
	return o, nil
}

// RunProject runs the outline pipeline for a stored project.
func (r *Runner) RunProject(ctx context.Context, projectID int64) (types.Outline, error) {
	p, err := r.Store.GetProject(ctx, projectID)
	if err != nil {
		return types.Outline{}, errors.GenerationFailure("outline", err)
	}
	return r.RunOutlinePipeline(ctx, p.ID, p.Keyword, p.Location, p.ManualKeywords)
}

// RunArticleGeneration writes the full article for a DRAFT article. On
// success the assembled Markdown, the per-section review record, and
// DRAFT_COMPLETE are written in one update. On failure the article returns
// to DRAFT with its content untouched.
func (r *Runner) RunArticleGeneration(ctx context.Context, articleID int64) (types.Draft, error) {
	log := r.logger().With("article_id", articleID)
	start := time.Now()

	a, err := r.Store.GetArticle(ctx, articleID)
	if err != nil {
		return types.Draft{}, errors.GenerationFailure("article", err)
	}
	o, err := OutlineOf(a)
	if err != nil {
		return types.Draft{}, errors.GenerationFailure("article", err)
	}

	if err := r.Store.UpdateArticleStatus(ctx, a.ID, types.ArticleWritingInProgress); err != nil {
		return types.Draft{}, errors.GenerationFailure("article", err)
	}

	d, err := r.writeArticle(ctx, a, o)
	if err != nil {
		log.Error("article run failed", "error", err)
		if serr := r.Store.UpdateArticleStatus(context.WithoutCancel(ctx), a.ID, types.ArticleDraft); serr != nil {
			log.Error("reverting article status", "error", serr)
		}
		return types.Draft{}, errors.GenerationFailure("article", err)
	}

	forced := 0
	for _, s := range d.Sections {
		if s.Forced() {
			forced++
		}
	}
	log.Info("article run finished", "sections", len(d.Sections), "forced", forced, "elapsed", time.Since(start))
	return d, nil
}

func (r *Runner) writeArticle(ctx context.Context, a types.Article, o types.Outline) (types.Draft, error) {
	d, err := r.Writer.Run(ctx, o)
	if err != nil {
		return types.Draft{}, err
	}
	review, err := json.Marshal(d)
	if err != nil {
		return types.Draft{}, fmt.Errorf("encoding review record: %w", err)
	}
	a.Content = writing.Assemble(d)
	a.Review = string(review)
	a.Status = types.ArticleDraftComplete
	if err := r.Store.UpdateArticle(ctx, a); err != nil {
		return types.Draft{}, fmt.Errorf("saving draft: %w", err)
	}
	return d, nil
}

// OutlineOf decodes the outline an article was created from. Articles
// without an outline column fall back to Content, which holds the outline
// JSON while the article is a DRAFT.
func OutlineOf(a types.Article) (types.Outline, error) {
	doc := a.Outline
	if doc == "" {
		doc = a.Content
	}
	o, err := outline.FromJSON(doc)
	if err != nil {
		return types.Outline{}, fmt.Errorf("article %d has no usable outline: %w", a.ID, err)
	}
	return o, nil
}
