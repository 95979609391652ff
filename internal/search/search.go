// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search looks up the top organic search results for a keyword.
// The Serper backend talks to google.serper.dev; Retrying wraps any
// Provider with the bounded exponential backoff the outline job applies to
// search lookups.
package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fynix-gaurav/seo-ai-agent/internal/errors"
	"github.com/fynix-gaurav/seo-ai-agent/internal/httputil"
	"github.com/fynix-gaurav/seo-ai-agent/internal/logging"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// Provider returns ordered organic results for a query. location may be
// empty.
type Provider interface {
	Search(ctx context.Context, query, location string) ([]types.SearchResult, error)
}

// Retrying repeats failed lookups with exponential backoff between
// MinBackoff and MaxBackoff. After Attempts failures the last error is
// returned tagged as errors.ErrUpstreamUnavailable. ErrMissingAPIKey and
// context errors end the lookup at once.
type Retrying struct {
	Provider   Provider
	Attempts   int
	MinBackoff time.Duration
	MaxBackoff time.Duration
	Logger     *logging.Logger
}

// Search implements Provider.
func (r *Retrying) Search(ctx context.Context, query, location string) ([]types.SearchResult, error) {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			wait := httputil.Backoff(i-1, r.MinBackoff, r.MaxBackoff)
			if r.Logger != nil {
				r.Logger.Warn("search failed, retrying", "attempt", i, "wait", wait, "error", lastErr)
			}
			if err := httputil.Sleep(ctx, wait); err != nil {
				return nil, err
			}
		}
		results, err := r.Provider.Search(ctx, query, location)
		if err == nil {
			return results, nil
		}
		if errors.Is(err, ErrMissingAPIKey) {
			return nil, err
		}
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		lastErr = err
	}
	if errors.Is(lastErr, errors.ErrUpstreamUnavailable) {
		return nil, fmt.Errorf("search failed after %d attempts: %w", attempts, lastErr)
	}
	return nil, errors.Upstream("search", fmt.Errorf("after %d attempts: %w", attempts, lastErr))
}

// Links returns the de-duplicated result URLs in rank order, at most max
// (all when max <= 0).
func Links(results []types.SearchResult, max int) []string {
	seen := make(map[string]bool)
	var links []string
	for _, r := range results {
		key := normalizeLink(r.Link)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		links = append(links, r.Link)
		if max > 0 && len(links) == max {
			break
		}
	}
	return links
}

// normalizeLink lowercases the host and drops fragments and trailing
// slashes so trivially different URLs collapse.
func normalizeLink(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return ""
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}
