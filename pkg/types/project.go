// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ProjectStatus tracks a project's outline generation run.
type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "PENDING"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectFailed     ProjectStatus = "FAILED"
)

// ArticleStatus tracks an article through drafting. DRAFT means an outline
// exists and no full draft has been written yet.
type ArticleStatus string

const (
	ArticleDraft             ArticleStatus = "DRAFT"
	ArticleWritingInProgress ArticleStatus = "WRITING_IN_PROGRESS"
	ArticleDraftComplete     ArticleStatus = "DRAFT_COMPLETE"
	ArticlePublished         ArticleStatus = "PUBLISHED"
	ArticleArchived          ArticleStatus = "ARCHIVED"
)

// DefaultLocation is the search location used when a project does not set one.
const DefaultLocation = "India"

// Project is a content project: one primary keyword and its settings.
type Project struct {
	ID             int64         `json:"id" yaml:"id"`
	Name           string        `json:"name" yaml:"name"`
	Keyword        string        `json:"keyword" yaml:"keyword"`
	BaseURL        string        `json:"base_url" yaml:"base_url"`
	Genre          string        `json:"genre,omitempty" yaml:"genre,omitempty"`
	Location       string        `json:"location" yaml:"location"`
	ManualKeywords []string      `json:"manual_keywords,omitempty" yaml:"manual_keywords,omitempty"`
	Status         ProjectStatus `json:"status" yaml:"status"`
	CreatedAt      time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Article is the persisted article row for a project. Content holds the
// outline JSON while the status is DRAFT and the assembled Markdown document
// once it is DRAFT_COMPLETE.
type Article struct {
	ID        int64         `json:"id" yaml:"id"`
	ProjectID int64         `json:"project_id" yaml:"project_id"`
	Title     string        `json:"title" yaml:"title"`
	Content   string        `json:"content" yaml:"content"`
	Status    ArticleStatus `json:"status" yaml:"status"`

	// Outline is the outline JSON the article was created from. It survives
	// the switch of Content to Markdown so the article can be regenerated.
	Outline string `json:"outline,omitempty" yaml:"outline,omitempty"`

	// Review is the JSON-encoded Draft of the last completed run, keeping
	// each section's final editor decision and attempt count.
	Review string `json:"review,omitempty" yaml:"review,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}
