// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the seo-agent pipeline:
// the content outline produced by the outline pipeline, the draft built by the
// revision controller, the editor's review decision, and the persisted project
// and article records.
//
// JSON field names follow the schema the language models are instructed to
// emit (h1, h2, h3s); YAML field names are the human-editable export format.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Outline is the structured content plan: a title and ordered sections.
// Section order is document order.
type Outline struct {
	// Title is the top-level subject (the article H1).
	Title string `json:"h1" yaml:"title"`

	// Sections lists the article's H2 sections in document order.
	Sections []Section `json:"sections" yaml:"sections"`
}

// Section is one outline entry: an H2 heading with its H3 sub-topics.
type Section struct {
	// Heading is the H2 heading text.
	Heading string `json:"h2" yaml:"heading"`

	// Subtopics lists the H3 sub-headings to be covered, in order.
	Subtopics []string `json:"h3s" yaml:"subtopics"`
}

// subheading is the wire shape of one H3 entry: {"h3": "..."}.
type subheading struct {
	H3 string `json:"h3"`
}

// sectionWire mirrors Section with H3 entries as objects.
type sectionWire struct {
	Heading   string            `json:"h2"`
	Subtopics []json.RawMessage `json:"h3s"`
}

// MarshalJSON writes sub-topics as a list of {"h3": "..."} objects.
func (s Section) MarshalJSON() ([]byte, error) {
	subs := make([]subheading, 0, len(s.Subtopics))
	for _, st := range s.Subtopics {
		subs = append(subs, subheading{H3: st})
	}
	return json.Marshal(struct {
		Heading   string       `json:"h2"`
		Subtopics []subheading `json:"h3s"`
	}{Heading: s.Heading, Subtopics: subs})
}

// UnmarshalJSON accepts sub-topics either as {"h3": "..."} objects or as
// bare strings. Empty objects decode to empty strings so validation can
// reject them instead of the decoder silently dropping them.
func (s *Section) UnmarshalJSON(data []byte) error {
	var w sectionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.Heading = w.Heading
	s.Subtopics = make([]string, 0, len(w.Subtopics))
	for i, raw := range w.Subtopics {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			s.Subtopics = append(s.Subtopics, text)
			continue
		}
		var obj subheading
		if err := json.Unmarshal(raw, &obj); err != nil {
			return fmt.Errorf("h3s[%d]: %w", i, err)
		}
		s.Subtopics = append(s.Subtopics, obj.H3)
	}
	return nil
}

// SubtopicList renders the sub-topics as a Markdown bullet list.
func (s Section) SubtopicList() string {
	lines := make([]string, 0, len(s.Subtopics))
	for _, st := range s.Subtopics {
		lines = append(lines, "- "+st)
	}
	return strings.Join(lines, "\n")
}

// TopicCluster is one group of related headings and keywords produced by the
// topic grouper.
type TopicCluster struct {
	// Name is a concise label for the cluster.
	Name string `json:"cluster_name" yaml:"cluster_name"`

	// Items is the de-duplicated list of headings and keywords in the cluster.
	Items []string `json:"headings_and_keywords" yaml:"headings_and_keywords"`
}

// TopicClusterList is the grouper's structured output.
type TopicClusterList struct {
	Clusters []TopicCluster `json:"clusters" yaml:"clusters"`
}
