// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entity pulls the most frequently mentioned named entities out of
// a scraped corpus. Results are best effort; an empty list is acceptable.
package entity

import (
	"context"
	"sort"
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/fynix-gaurav/seo-ai-agent/internal/logging"
)

// DefaultTopN is the number of entities kept when TopN is unset.
const DefaultTopN = 20

// allowedLabels are the entity types worth feeding to the topic grouper.
var allowedLabels = map[string]bool{
	"PERSON":      true,
	"ORG":         true,
	"GPE":         true,
	"PRODUCT":     true,
	"WORK_OF_ART": true,
	"EVENT":       true,
	"FAC":         true,
}

// Mention is one recognized entity occurrence.
type Mention struct {
	Text  string
	Label string
}

// Recognizer finds entity mentions in text.
type Recognizer func(text string) ([]Mention, error)

// Extractor ranks entities by frequency.
type Extractor struct {
	TopN      int
	Recognize Recognizer
	Logger    *logging.Logger
}

// New returns an Extractor backed by the prose NER model.
func New(topN int, logger *logging.Logger) *Extractor {
	return &Extractor{TopN: topN, Recognize: ProseRecognizer, Logger: logger}
}

// ProseRecognizer runs prose's named-entity recognizer over text.
func ProseRecognizer(text string) ([]Mention, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}
	ents := doc.Entities()
	out := make([]Mention, 0, len(ents))
	for _, e := range ents {
		out = append(out, Mention{Text: e.Text, Label: e.Label})
	}
	return out, nil
}

// Extract returns up to TopN entity strings from corpus, most frequent
// first; ties keep first-seen order. Only allowed labels and entities
// longer than two characters count. Errors are logged and yield nil.
func (x *Extractor) Extract(ctx context.Context, corpus string) []string {
	if strings.TrimSpace(corpus) == "" || ctx.Err() != nil {
		return nil
	}
	recognize := x.Recognize
	if recognize == nil {
		recognize = ProseRecognizer
	}
	mentions, err := recognize(corpus)
	if err != nil {
		if x.Logger != nil {
			x.Logger.Warn("entity extraction failed", "error", err)
		}
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, m := range mentions {
		text := strings.TrimSpace(m.Text)
		if !allowedLabels[m.Label] || len(text) <= 2 {
			continue
		}
		if counts[text] == 0 {
			order = append(order, text)
		}
		counts[text]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	n := x.TopN
	if n <= 0 {
		n = DefaultTopN
	}
	if len(order) > n {
		order = order[:n]
	}
	return order
}
