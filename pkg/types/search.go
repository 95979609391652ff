// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchResult is one organic result from the search-results provider.
type SearchResult struct {
	// Link is the result URL.
	Link string `json:"link" yaml:"link"`

	// Title is the result title as shown on the results page.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Snippet is the short description shown under the title.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// Position is the 1-based rank on the results page.
	Position int `json:"position,omitempty" yaml:"position,omitempty"`
}
