// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entity

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixed(mentions ...Mention) Recognizer {
	return func(string) ([]Mention, error) { return mentions, nil }
}

func TestExtractRanksByFrequency(t *testing.T) {
	x := &Extractor{TopN: 3, Recognize: fixed(
		Mention{"Salesforce", "ORG"},
		Mention{"HubSpot", "ORG"},
		Mention{"HubSpot", "ORG"},
		Mention{"2024", "DATE"},
		Mention{"UK", "GPE"},
		Mention{"Zoho", "ORG"},
		Mention{"Salesforce ", "ORG"},
		Mention{"Salesforce", "ORG"},
		Mention{"Mumbai", "GPE"},
	)}
	got := x.Extract(context.Background(), "corpus")
	assert.Equal(t, []string{"Salesforce", "HubSpot", "Zoho"}, got)
}

func TestExtractDefaultTopN(t *testing.T) {
	var mentions []Mention
	for i := 0; i < 30; i++ {
		mentions = append(mentions, Mention{fmt.Sprintf("Company %d", i), "ORG"})
	}
	x := &Extractor{Recognize: fixed(mentions...)}
	assert.Len(t, x.Extract(context.Background(), "corpus"), DefaultTopN)
}

func TestExtractEmptyCorpus(t *testing.T) {
	called := false
	x := &Extractor{Recognize: func(string) ([]Mention, error) {
		called = true
		return nil, nil
	}}
	assert.Nil(t, x.Extract(context.Background(), "   "))
	assert.False(t, called)
}

func TestExtractRecognizerError(t *testing.T) {
	x := &Extractor{Recognize: func(string) ([]Mention, error) { return nil, fmt.Errorf("model missing") }}
	assert.Nil(t, x.Extract(context.Background(), "some text"))
}

func TestProseRecognizerRuns(t *testing.T) {
	_, err := ProseRecognizer("Marc Benioff founded Salesforce in San Francisco.")
	assert.NoError(t, err)
}
