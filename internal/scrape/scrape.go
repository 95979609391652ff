// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape fetches competitor pages and extracts their H2 and H3
// headings. Failures never propagate: a page that cannot be fetched or
// parsed contributes no headings.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/fynix-gaurav/seo-ai-agent/internal/errors"
	"github.com/fynix-gaurav/seo-ai-agent/internal/httputil"
	"github.com/fynix-gaurav/seo-ai-agent/internal/logging"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// scrapingAntURL is the ScrapingAnt rendering endpoint. Declared as a var so
// tests can substitute an httptest server.
var scrapingAntURL = "https://api.scrapingant.com/v2/general"

// maxPageBytes caps how much of a page is read.
const maxPageBytes = 5 << 20

var skippedExtensions = []string{".pdf", ".jpg", ".png", ".zip", ".mp4"}

var skippedHosts = []string{"youtube.com", "vimeo.com"}

// statusError is an HTTP error status from a fetch. Only these escalate to
// the proxy; network errors do not.
type statusError struct {
	Code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// Scraper extracts headings from web pages. The primary fetch goes through
// the ScrapingAnt API when APIKey is set and directly otherwise. When the
// primary fetch is answered with an HTTP error status and ProxyURL is set,
// the page is fetched once more through the proxy.
type Scraper struct {
	Client    *http.Client
	APIKey    string
	ProxyURL  string
	UserAgent string
	Delay     time.Duration
	Logger    *logging.Logger
}

// New builds a Scraper from configuration.
func New(cfg types.ScrapeConfig, logger *logging.Logger) *Scraper {
	return &Scraper{
		Client:    &http.Client{Timeout: cfg.Timeout},
		APIKey:    cfg.APIKey,
		ProxyURL:  cfg.ProxyURL,
		UserAgent: cfg.UserAgent,
		Delay:     cfg.Delay,
		Logger:    logger,
	}
}

// Scrapable reports whether rawURL looks like an HTML page worth fetching.
func Scrapable(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, ext := range skippedExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	for _, h := range skippedHosts {
		if strings.Contains(lower, h) {
			return false
		}
	}
	return true
}

// Headings returns the H2/H3 texts of the page at rawURL in document order,
// or nil when the page is skipped or cannot be fetched.
func (s *Scraper) Headings(ctx context.Context, rawURL string) []string {
	log := s.logger().With("url", rawURL)
	if !Scrapable(rawURL) {
		log.Info("skipping non-html url")
		return nil
	}

	body, err := s.fetchPrimary(ctx, rawURL)
	var se *statusError
	if err != nil && errors.As(err, &se) && s.ProxyURL != "" {
		log.Info("primary fetch blocked, escalating to proxy", "status", se.Code)
		body, err = s.fetchViaProxy(ctx, rawURL)
	}
	if err != nil {
		log.Warn("scrape failed", "error", err)
		return nil
	}

	headings, err := ExtractHeadings(strings.NewReader(body))
	if err != nil {
		log.Warn("parsing page failed", "error", err)
		return nil
	}
	return headings
}

// HeadingsFor scrapes urls one after another, pausing Delay between pages,
// and returns every heading found.
func (s *Scraper) HeadingsFor(ctx context.Context, urls []string) []string {
	var all []string
	for i, u := range urls {
		if i > 0 && s.Delay > 0 {
			if err := httputil.Sleep(ctx, s.Delay); err != nil {
				break
			}
		}
		if ctx.Err() != nil {
			break
		}
		all = append(all, s.Headings(ctx, u)...)
	}
	return all
}

func (s *Scraper) fetchPrimary(ctx context.Context, rawURL string) (string, error) {
	if s.APIKey == "" {
		return s.get(ctx, s.Client, rawURL)
	}
	params := url.Values{
		"url":       {rawURL},
		"x-api-key": {s.APIKey},
		"browser":   {"true"},
	}
	return s.get(ctx, s.Client, scrapingAntURL+"?"+params.Encode())
}

func (s *Scraper) fetchViaProxy(ctx context.Context, rawURL string) (string, error) {
	proxy, err := url.Parse(s.ProxyURL)
	if err != nil {
		return "", fmt.Errorf("parsing proxy url: %w", err)
	}
	var timeout time.Duration
	if s.Client != nil {
		timeout = s.Client.Timeout
	}
	client := &http.Client{
		Timeout:   timeout,
		Transport: &http.Transport{Proxy: http.ProxyURL(proxy)},
	}
	return s.get(ctx, client, rawURL)
}

func (s *Scraper) get(ctx context.Context, client *http.Client, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := httputil.DoWithRetry(ctx, client, req, 1)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		io.Copy(io.Discard, resp.Body)
		return "", &statusError{Code: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(data), nil
}

func (s *Scraper) logger() *logging.Logger {
	if s.Logger == nil {
		return logging.NopLogger()
	}
	return s.Logger
}

// ExtractHeadings parses an HTML document and returns the whitespace-
// collapsed text of every h2 and h3 element in document order. Empty
// headings are dropped.
func ExtractHeadings(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	var headings []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.H2 || n.DataAtom == atom.H3) {
			if text := strings.Join(strings.Fields(textOf(n)), " "); text != "" {
				headings = append(headings, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return headings, nil
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
		b.WriteByte(' ')
	}
	return b.String()
}
