// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fynix-gaurav/seo-ai-agent/internal/errors"
	"github.com/fynix-gaurav/seo-ai-agent/internal/httputil"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

func TestMain(m *testing.M) {
	httputil.RetryBaseDelay = time.Millisecond
	os.Exit(m.Run())
}

func TestClaudeGenerate(t *testing.T) {
	var got claudeRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"content":[{"type":"text","text":"hello"}]}`)
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	c := &Claude{APIKey: "test-key", Model: "claude-test", Temperature: 0.7, Client: ts.Client()}
	out, err := c.Generate(context.Background(), Request{System: "be brief", User: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "hello", out)
	assert.Equal(t, "claude-test", got.Model)
	assert.Equal(t, "be brief", got.System)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	assert.Equal(t, 4096, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hi", got.Messages[0].Content)
}

func TestClaudeGenerateErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"bad key"}`)
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	c := &Claude{APIKey: "k", Model: "m", Client: ts.Client()}
	_, err := c.Generate(context.Background(), Request{User: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestOpenAIGenerate(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":0,"model":"gpt-test",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"draft text"}}]}`)
	}))
	defer ts.Close()

	o, err := NewOpenAI("sk-test", ts.URL+"/", "gpt-test", 0.7, 256, ts.Client())
	require.NoError(t, err)

	out, err := o.Generate(context.Background(), Request{System: "sys", User: "write"})
	require.NoError(t, err)
	assert.Equal(t, "draft text", out)
	assert.Equal(t, "gpt-test", body["model"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-9)
	assert.Len(t, body["messages"], 2)
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI("", "", "gpt", 0, 0, nil)
	assert.Error(t, err)
}

func TestFallback(t *testing.T) {
	failing := &Stub{Err: fmt.Errorf("overloaded")}
	ok := &Stub{Responses: []string{"from second"}}

	f := &Fallback{Backends: []Generator{failing, ok}}
	out, err := f.Generate(context.Background(), Request{User: "x"})
	require.NoError(t, err)
	assert.Equal(t, "from second", out)
	assert.Equal(t, 1, failing.CallCount())
	assert.Equal(t, 1, ok.CallCount())
}

func TestFallbackAllFail(t *testing.T) {
	f := &Fallback{Backends: []Generator{
		&Stub{Err: fmt.Errorf("first down")},
		&Stub{Err: fmt.Errorf("second down")},
	}}
	_, err := f.Generate(context.Background(), Request{User: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first down")
	assert.Contains(t, err.Error(), "second down")
}

func TestFallbackStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	second := &Stub{Responses: []string{"unused"}}
	f := &Fallback{Backends: []Generator{&Stub{Responses: []string{"x"}}, second}}

	_, err := f.Generate(ctx, Request{User: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, second.CallCount())
}

func TestGenerateStructured(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      string
		malformed bool
	}{
		{"bare object", `{"decision":"APPROVED"}`, "APPROVED", false},
		{"fenced", "```json\n{\"decision\":\"REVISE\"}\n```", "REVISE", false},
		{"prose around", "Sure! {\"decision\":\"APPROVED\"} Hope that helps.", "APPROVED", false},
		{"no object", "I approve.", "", true},
		{"truncated", `{"decision":"APPR`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &Stub{Responses: []string{tt.raw}}
			var v struct {
				Decision string `json:"decision"`
			}
			raw, err := GenerateStructured(context.Background(), stub, "editor", Request{User: "review"}, &v)
			assert.Equal(t, tt.raw, raw)
			if tt.malformed {
				assert.ErrorIs(t, err, errors.ErrMalformedOutput)
				assert.Equal(t, "editor", errors.StageOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Decision)
			assert.Contains(t, stub.Calls()[0].User, "single JSON object")
		})
	}
}

func TestGenerateStructuredBackendError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	var v map[string]any
	_, err := GenerateStructured(context.Background(), &Stub{Err: cause}, "grouper", Request{}, &v)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, errors.ErrMalformedOutput)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"```markdown\nBody here\n```", "Body here"},
		{"```\nBody\n```", "Body"},
		{"```{\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripFences(tt.in))
	}
}

func TestStubRepeatsLast(t *testing.T) {
	s := &Stub{Responses: []string{"a", "b"}}
	ctx := context.Background()
	for _, want := range []string{"a", "b", "b"} {
		got, err := s.Generate(ctx, Request{})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNewSkipsUnconfiguredBackends(t *testing.T) {
	cfg := types.LLMConfig{AnthropicAPIKey: "ak"}
	role := types.RoleConfig{Backends: []types.ModelConfig{
		{Provider: types.ProviderOpenAI, Model: "gpt"},
		{Provider: types.ProviderAnthropic, Model: "claude"},
	}}

	gen, err := New(context.Background(), cfg, role, nil)
	require.NoError(t, err)
	c, ok := gen.(*Claude)
	require.True(t, ok, "single usable backend is returned unwrapped")
	assert.Equal(t, "claude", c.Model)
}

func TestNewBuildsFallbackChain(t *testing.T) {
	cfg := types.LLMConfig{AnthropicAPIKey: "ak", OpenAIAPIKey: "ok"}
	gen, err := New(context.Background(), cfg, types.DefaultConfig().LLM.Editor, nil)
	require.NoError(t, err)
	fb, ok := gen.(*Fallback)
	require.True(t, ok)
	assert.Len(t, fb.Backends, 2)
}

func TestNewNoUsableBackend(t *testing.T) {
	role := types.RoleConfig{Backends: []types.ModelConfig{{Provider: "cohere", Model: "x"}}}
	_, err := New(context.Background(), types.LLMConfig{}, role, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}
