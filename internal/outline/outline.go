// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline turns scraped competitor headings into a structured article
// outline. Three model stages run in order: the Grouper clusters raw headings
// and keywords, the Architect arranges clusters into sections, and the
// Refiner deduplicates, rephrases, and adds one or two new sub-topics.
//
// Every outline leaving Pipeline.Run satisfies Validate: a title, at least
// one section, and a heading plus at least one sub-topic per section.
package outline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// Validate checks the shape every finished outline must have.
func Validate(o types.Outline) error {
	if strings.TrimSpace(o.Title) == "" {
		return fmt.Errorf("outline has no title")
	}
	if len(o.Sections) == 0 {
		return fmt.Errorf("outline has no sections")
	}
	for i, s := range o.Sections {
		if strings.TrimSpace(s.Heading) == "" {
			return fmt.Errorf("section %d has an empty heading", i+1)
		}
		if len(s.Subtopics) == 0 {
			return fmt.Errorf("section %d (%q) has no sub-topics", i+1, s.Heading)
		}
		for j, st := range s.Subtopics {
			if strings.TrimSpace(st) == "" {
				return fmt.Errorf("section %d (%q) sub-topic %d is empty", i+1, s.Heading, j+1)
			}
		}
	}
	return nil
}

// Normalize trims whitespace and collapses duplicate sub-topics within each
// section, keeping the first spelling. Blank sub-topics are dropped.
func Normalize(o types.Outline) types.Outline {
	out := types.Outline{Title: strings.TrimSpace(o.Title)}
	for _, s := range o.Sections {
		out.Sections = append(out.Sections, types.Section{
			Heading:   strings.TrimSpace(s.Heading),
			Subtopics: Dedupe(s.Subtopics),
		})
	}
	return out
}

// Dedupe returns items with blanks removed and case/whitespace-insensitive
// duplicates collapsed, preserving first-seen order.
func Dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		it = strings.TrimSpace(it)
		k := dedupeKey(it)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}

func dedupeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// ToJSON renders an outline in the stored wire format (h1/sections/h2/h3s),
// indented by two spaces.
func ToJSON(o types.Outline) (string, error) {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling outline: %w", err)
	}
	return string(data), nil
}

// FromJSON parses a stored outline and validates it.
func FromJSON(s string) (types.Outline, error) {
	var o types.Outline
	if err := json.Unmarshal([]byte(s), &o); err != nil {
		return types.Outline{}, fmt.Errorf("parsing outline: %w", err)
	}
	if err := Validate(o); err != nil {
		return types.Outline{}, err
	}
	return o, nil
}

// LoadYAML reads an outline from a YAML file.
func LoadYAML(path string) (types.Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Outline{}, fmt.Errorf("reading outline: %w", err)
	}
	var o types.Outline
	if err := yaml.Unmarshal(data, &o); err != nil {
		return types.Outline{}, fmt.Errorf("parsing outline: %w", err)
	}
	if err := Validate(o); err != nil {
		return types.Outline{}, err
	}
	return o, nil
}

// SaveYAML writes an outline to path, creating parent directories.
func SaveYAML(path string, o types.Outline) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshaling outline: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing outline: %w", err)
	}
	return nil
}
