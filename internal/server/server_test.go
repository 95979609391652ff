// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fynix-gaurav/seo-ai-agent/internal/jobs"
	"github.com/fynix-gaurav/seo-ai-agent/internal/store"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

type fakeRuns struct {
	outlineErr error
	projects   chan int64
	articles   chan int64
}

func newFakeRuns() *fakeRuns {
	return &fakeRuns{projects: make(chan int64, 4), articles: make(chan int64, 4)}
}

func (f *fakeRuns) RunProject(_ context.Context, id int64) (types.Outline, error) {
	f.projects <- id
	if f.outlineErr != nil {
		return types.Outline{}, f.outlineErr
	}
	return types.Outline{Title: "CRM Guide"}, nil
}

func (f *fakeRuns) RunArticleGeneration(_ context.Context, id int64) (types.Draft, error) {
	f.articles <- id
	return types.Draft{Title: "CRM Guide", Sections: make([]types.ApprovedSection, 2)}, nil
}

type fixture struct {
	ts    *httptest.Server
	store *store.Store
	queue *jobs.Queue
	runs  *fakeRuns
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.New(types.StoreConfig{Path: filepath.Join(t.TempDir(), "seo.db")})
	require.NoError(t, err)
	q := jobs.NewQueue(context.Background(), 1, nil)
	runs := newFakeRuns()
	ts := httptest.NewServer(New(s, runs, q, nil).Routes())
	t.Cleanup(func() {
		ts.Close()
		q.Close()
		s.Close()
	})
	return &fixture{ts: ts, store: s, queue: q, runs: runs}
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestRoot(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.ts.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestCreateProjectStartsOutlineTask(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Post(f.ts.URL+"/projects/", "application/json", strings.NewReader(
		`{"name":"Acme","keyword":"crm software","base_url":"https://acme.example","manual_keywords":["crm pricing"]}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		ID             int64    `json:"id"`
		Keyword        string   `json:"keyword"`
		Location       string   `json:"location"`
		Status         string   `json:"status"`
		ManualKeywords []string `json:"manual_keywords"`
		TaskID         string   `json:"task_id"`
	}
	decode(t, resp, &body)
	assert.NotZero(t, body.ID)
	assert.Equal(t, "crm software", body.Keyword)
	assert.Equal(t, types.DefaultLocation, body.Location)
	assert.Equal(t, "PENDING", body.Status)
	assert.Equal(t, []string{"crm pricing"}, body.ManualKeywords)
	require.NotEmpty(t, body.TaskID)

	assert.Equal(t, body.ID, <-f.runs.projects)
	f.queue.Wait()

	resp, err = http.Get(f.ts.URL + "/tasks/" + body.TaskID)
	require.NoError(t, err)
	var task struct {
		TaskID     string            `json:"task_id"`
		TaskStatus string            `json:"task_status"`
		TaskResult map[string]string `json:"task_result"`
	}
	decode(t, resp, &task)
	assert.Equal(t, "SUCCESS", task.TaskStatus)
	assert.Equal(t, "CRM Guide", task.TaskResult["outline_h1"])
}

func TestCreateProjectValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{"bad json", `{"name":`, http.StatusBadRequest, ""},
		{"missing keyword", `{"name":"Acme","base_url":"https://acme.example"}`, http.StatusUnprocessableEntity, "keyword"},
		{"missing everything", `{}`, http.StatusUnprocessableEntity, "name, keyword, base_url"},
	}
	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(f.ts.URL+"/projects/", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			var body map[string]string
			decode(t, resp, &body)
			assert.Contains(t, body["detail"], tt.detail)
		})
	}
}

func TestTaskFailureAndUnknown(t *testing.T) {
	f := newFixture(t)
	f.runs.outlineErr = fmt.Errorf("architect: malformed model output")

	resp, err := http.Post(f.ts.URL+"/projects/", "application/json", strings.NewReader(
		`{"name":"Acme","keyword":"crm","base_url":"https://acme.example"}`))
	require.NoError(t, err)
	var created struct {
		TaskID string `json:"task_id"`
	}
	decode(t, resp, &created)
	<-f.runs.projects
	f.queue.Wait()

	resp, err = http.Get(f.ts.URL + "/tasks/" + created.TaskID)
	require.NoError(t, err)
	var task map[string]any
	decode(t, resp, &task)
	assert.Equal(t, "FAILURE", task["task_status"])
	assert.Contains(t, task["task_result"], "malformed")

	resp, err = http.Get(f.ts.URL + "/tasks/does-not-exist")
	require.NoError(t, err)
	decode(t, resp, &task)
	assert.Equal(t, "PENDING", task["task_status"])
	assert.Nil(t, task["task_result"])
}

func TestProjectArticle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.store.CreateProject(ctx, types.Project{Name: "Acme", Keyword: "crm", BaseURL: "https://acme.example"})
	require.NoError(t, err)

	resp, err := http.Get(fmt.Sprintf("%s/projects/%d/article", f.ts.URL, p.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	_, err = f.store.CreateArticle(ctx, types.Article{ProjectID: p.ID, Title: "CRM Guide", Content: `{"h1":"CRM Guide"}`})
	require.NoError(t, err)

	resp, err = http.Get(fmt.Sprintf("%s/projects/%d/article", f.ts.URL, p.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var a types.Article
	decode(t, resp, &a)
	assert.Equal(t, "CRM Guide", a.Title)
	assert.Equal(t, types.ArticleDraft, a.Status)
}

func TestGenerateArticle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.store.CreateProject(ctx, types.Project{Name: "Acme", Keyword: "crm", BaseURL: "https://acme.example"})
	require.NoError(t, err)
	a, err := f.store.CreateArticle(ctx, types.Article{ProjectID: p.ID, Title: "CRM Guide"})
	require.NoError(t, err)

	resp, err := http.Post(fmt.Sprintf("%s/articles/%d/generate", f.ts.URL, a.ID), "application/json", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.NotEmpty(t, body["task_id"])
	assert.Equal(t, "Article generation process started.", body["message"])
	assert.Equal(t, a.ID, <-f.runs.articles)
}

func TestGenerateArticleErrors(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		path   string
		status int
	}{
		{"/articles/99/generate", http.StatusNotFound},
		{"/articles/abc/generate", http.StatusBadRequest},
		{"/articles/0/generate", http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp, err := http.Post(f.ts.URL+tt.path, "application/json", nil)
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
		resp.Body.Close()
	}
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.ts.URL + "/projects/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
