// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fynix-gaurav/seo-ai-agent/internal/errors"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// serperAPIURL is the Serper search endpoint. Declared as a var so tests can
// substitute an httptest server.
var serperAPIURL = "https://google.serper.dev/search"

// ErrMissingAPIKey is returned before any request when no key is set.
var ErrMissingAPIKey = errors.New("serper api key missing")

// Serper queries the Serper.dev Google search API.
type Serper struct {
	Client     *http.Client
	APIKey     string
	MaxResults int
}

type serperRequest struct {
	Q        string `json:"q"`
	Num      int    `json:"num"`
	Location string `json:"location,omitempty"`
}

type serperResponse struct {
	Organic *[]serperOrganic `json:"organic"`
	Error   any              `json:"error"`
	Message string           `json:"message"`
}

type serperOrganic struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

// Search implements Provider. A response carrying an error payload or no
// organic section is errors.ErrUpstreamUnavailable. Each call sends one
// request; wrap the provider in Retrying for backoff.
func (s *Serper) Search(ctx context.Context, query, location string) ([]types.SearchResult, error) {
	if s.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	num := s.MaxResults
	if num <= 0 {
		num = 10
	}

	body, err := json.Marshal(serperRequest{Q: query, Num: num, Location: location})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperAPIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Upstream("search", fmt.Errorf("Serper request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Upstream("search", fmt.Errorf("Serper returned HTTP %d: %s", resp.StatusCode, msg))
	}

	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, errors.Upstream("search", fmt.Errorf("decoding Serper response: %w", err))
	}
	if sr.Error != nil {
		return nil, errors.Upstream("search", fmt.Errorf("Serper error: %v", sr.Error))
	}
	if sr.Organic == nil {
		return nil, errors.Upstream("search", fmt.Errorf("Serper response has no organic results"))
	}

	results := make([]types.SearchResult, 0, len(*sr.Organic))
	for i, o := range *sr.Organic {
		if i == num {
			break
		}
		pos := o.Position
		if pos == 0 {
			pos = i + 1
		}
		results = append(results, types.SearchResult{Link: o.Link, Title: o.Title, Snippet: o.Snippet, Position: pos})
	}
	return results, nil
}
