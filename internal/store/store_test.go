// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fynix-gaurav/seo-ai-agent/internal/errors"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(types.StoreConfig{Path: filepath.Join(t.TempDir(), "data", "seo.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProject() types.Project {
	return types.Project{
		Name:           "Acme CRM",
		Keyword:        "crm software",
		BaseURL:        "https://acme.example",
		ManualKeywords: []string{"crm pricing", "crm for startups"},
	}
}

func TestNewCreatesSchema(t *testing.T) {
	s := testStore(t)
	for _, table := range []string{"projects", "articles"} {
		var count int
		err := s.db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s", table)
	}
}

func TestNewCreatesDBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "seo.db")
	s, err := New(types.StoreConfig{Path: path})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestCreateProjectDefaults(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, sampleProject())
	require.NoError(t, err)

	assert.NotZero(t, p.ID)
	assert.Equal(t, types.ProjectPending, p.Status)
	assert.Equal(t, types.DefaultLocation, p.Location)
	assert.Equal(t, []string{"crm pricing", "crm for startups"}, p.ManualKeywords)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestProjectStatusTransitions(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	p, err := s.CreateProject(ctx, sampleProject())
	require.NoError(t, err)

	require.NoError(t, s.UpdateProjectStatus(ctx, p.ID, types.ProjectInProgress))
	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ProjectInProgress, got.Status)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestNotFound(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.GetProject(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetArticle(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ArticleForProject(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, errors.Is(s.UpdateProjectStatus(ctx, 42, types.ProjectFailed), ErrNotFound))
	assert.True(t, errors.Is(s.UpdateArticleStatus(ctx, 42, types.ArticleDraft), ErrNotFound))
}

func TestArticleLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	p, err := s.CreateProject(ctx, sampleProject())
	require.NoError(t, err)

	a, err := s.CreateArticle(ctx, types.Article{
		ProjectID: p.ID,
		Title:     "CRM Guide",
		Content:   `{"h1":"CRM Guide"}`,
		Outline:   `{"h1":"CRM Guide"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, types.ArticleDraft, a.Status)

	first, err := s.ArticleForProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, first.ID)

	require.NoError(t, s.UpdateArticleStatus(ctx, a.ID, types.ArticleWritingInProgress))

	a.Content = "# CRM Guide\n"
	a.Review = `{"h1":"CRM Guide","sections":[]}`
	a.Status = types.ArticleDraftComplete
	require.NoError(t, s.UpdateArticle(ctx, a))

	got, err := s.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ArticleDraftComplete, got.Status)
	assert.Equal(t, "# CRM Guide\n", got.Content)
	assert.Equal(t, `{"h1":"CRM Guide"}`, got.Outline, "outline column is never overwritten")
	assert.Equal(t, a.Review, got.Review)
}

func TestCompleteOutline(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	p, err := s.CreateProject(ctx, sampleProject())
	require.NoError(t, err)

	a, err := s.CompleteOutline(ctx, types.Article{ProjectID: p.ID, Title: "CRM Guide", Content: `{"h1":"CRM Guide"}`, Outline: `{"h1":"CRM Guide"}`})
	require.NoError(t, err)
	assert.Equal(t, types.ArticleDraft, a.Status)

	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ProjectCompleted, got.Status)
}

func TestCompleteOutlineRollsBack(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	p, err := s.CreateProject(ctx, sampleProject())
	require.NoError(t, err)
	_, err = s.db.Exec(`CREATE TRIGGER fail_completed BEFORE UPDATE OF status ON projects
		WHEN NEW.status = 'COMPLETED' BEGIN SELECT RAISE(ABORT, 'disk full'); END`)
	require.NoError(t, err)

	_, err = s.CompleteOutline(ctx, types.Article{ProjectID: p.ID, Title: "CRM Guide", Content: "{}"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	_, err = s.ArticleForProject(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound, "article insert is rolled back")
	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ProjectPending, got.Status)
}

func TestCompleteOutlineUnknownProject(t *testing.T) {
	s := testStore(t)
	_, err := s.CompleteOutline(context.Background(), types.Article{ProjectID: 42, Title: "orphan"})
	assert.Error(t, err)
}

func TestArticleRequiresProject(t *testing.T) {
	s := testStore(t)
	_, err := s.CreateArticle(context.Background(), types.Article{ProjectID: 999, Title: "orphan"})
	assert.Error(t, err)
}

func TestListProjectsNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	for _, name := range []string{"first", "second"} {
		p := sampleProject()
		p.Name = name
		_, err := s.CreateProject(ctx, p)
		require.NoError(t, err)
	}
	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "second", projects[0].Name)
}
