// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fynix-gaurav/seo-ai-agent/internal/errors"
	"github.com/fynix-gaurav/seo-ai-agent/internal/llm"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

const clustersJSON = `{"clusters":[{"cluster_name":"Basics","headings_and_keywords":["What is CRM","what is  crm","CRM benefits"]},{"cluster_name":"","headings_and_keywords":[]}]}`

const goodOutlineJSON = `{"h1":"CRM Guide","sections":[
	{"h2":"What Is CRM","h3s":[{"h3":"Definition"},{"h3":"History"}]},
	{"h2":"Benefits","h3s":[{"h3":"Sales"},{"h3":"Support"}]}]}`

const emptySubtopicsJSON = `{"h1":"CRM Guide","sections":[
	{"h2":"What Is CRM","h3s":[]},
	{"h2":"Benefits","h3s":[{"h3":"Sales"}]}]}`

const refinedWithDupesJSON = "```json\n" + `{"h1":"The Complete CRM Guide","sections":[
	{"h2":"Understanding CRM","h3s":[{"h3":"Definition"},{"h3":"definition "},{"h3":"History of CRM"}]},
	{"h2":"Key Benefits","h3s":[{"h3":"Sales"},{"h3":"SALES"},{"h3":"Support"},{"h3":"AI-driven forecasting"}]}]}` + "\n```"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		outline types.Outline
		wantErr string
	}{
		{"valid", types.Outline{Title: "T", Sections: []types.Section{{Heading: "H", Subtopics: []string{"a"}}}}, ""},
		{"no title", types.Outline{Sections: []types.Section{{Heading: "H", Subtopics: []string{"a"}}}}, "no title"},
		{"no sections", types.Outline{Title: "T"}, "no sections"},
		{"empty heading", types.Outline{Title: "T", Sections: []types.Section{{Heading: " ", Subtopics: []string{"a"}}}}, "empty heading"},
		{"no subtopics", types.Outline{Title: "T", Sections: []types.Section{{Heading: "H"}}}, "no sub-topics"},
		{"blank subtopic", types.Outline{Title: "T", Sections: []types.Section{{Heading: "H", Subtopics: []string{""}}}}, "is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.outline)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"Sales", " sales", "Customer  Support", "customer support", "", "Pricing"})
	assert.Equal(t, []string{"Sales", "Customer  Support", "Pricing"}, got)
}

func TestGrouperDedupesItems(t *testing.T) {
	gen := &llm.Stub{Responses: []string{clustersJSON}}
	g := &Grouper{Gen: gen}

	list, err := g.Group(context.Background(), GroupInput{
		Headings:       []string{"What is CRM", "CRM benefits"},
		ManualKeywords: []string{"crm software"},
		Entities:       []string{"Salesforce"},
	})
	require.NoError(t, err)
	require.Len(t, list.Clusters, 1)
	assert.Equal(t, []string{"What is CRM", "CRM benefits"}, list.Clusters[0].Items)

	prompt := gen.Calls()[0].User
	assert.Contains(t, prompt, "crm software")
	assert.Contains(t, prompt, "Salesforce")
	assert.Contains(t, prompt, "What is CRM\nCRM benefits")
}

func TestGrouperNoManualKeywords(t *testing.T) {
	gen := &llm.Stub{Responses: []string{clustersJSON}}
	_, err := (&Grouper{Gen: gen}).Group(context.Background(), GroupInput{})
	require.NoError(t, err)
	assert.Contains(t, gen.Calls()[0].User, "<manual_keywords>\nNone\n")
	assert.NotContains(t, gen.Calls()[0].User, "<entities>")
}

func TestGrouperMalformed(t *testing.T) {
	gen := &llm.Stub{Responses: []string{"here are your clusters: none"}}
	_, err := (&Grouper{Gen: gen}).Group(context.Background(), GroupInput{})
	assert.ErrorIs(t, err, errors.ErrMalformedOutput)
	assert.Equal(t, 1, gen.CallCount(), "no internal retry")
}

func TestArchitectValidOutput(t *testing.T) {
	fixer := &llm.Stub{Responses: []string{goodOutlineJSON}}
	a := &Architect{Gen: &llm.Stub{Responses: []string{goodOutlineJSON}}, Fixer: fixer}

	o, err := a.Build(context.Background(), "crm", types.TopicClusterList{})
	require.NoError(t, err)
	assert.Equal(t, "CRM Guide", o.Title)
	assert.Len(t, o.Sections, 2)
	assert.Equal(t, 0, fixer.CallCount())
}

func TestArchitectRepairsEmptySubtopics(t *testing.T) {
	fixer := &llm.Stub{Responses: []string{goodOutlineJSON}}
	a := &Architect{Gen: &llm.Stub{Responses: []string{emptySubtopicsJSON}}, Fixer: fixer}

	o, err := a.Build(context.Background(), "crm", types.TopicClusterList{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Definition", "History"}, o.Sections[0].Subtopics)

	require.Equal(t, 1, fixer.CallCount())
	repairPrompt := fixer.Calls()[0].User
	assert.Contains(t, repairPrompt, `"h3s":[]`)
	assert.Contains(t, repairPrompt, "no sub-topics")
}

func TestArchitectRepairFails(t *testing.T) {
	fixer := &llm.Stub{Responses: []string{emptySubtopicsJSON}}
	a := &Architect{Gen: &llm.Stub{Responses: []string{emptySubtopicsJSON}}, Fixer: fixer}

	_, err := a.Build(context.Background(), "crm", types.TopicClusterList{})
	assert.ErrorIs(t, err, errors.ErrMalformedOutput)
	assert.Equal(t, StageArchitect, errors.StageOf(err))
	assert.Equal(t, 1, fixer.CallCount(), "exactly one repair pass")
}

func TestArchitectWithoutFixer(t *testing.T) {
	a := &Architect{Gen: &llm.Stub{Responses: []string{"not json"}}}
	_, err := a.Build(context.Background(), "crm", types.TopicClusterList{})
	assert.ErrorIs(t, err, errors.ErrMalformedOutput)
}

func TestArchitectBackendErrorNotRepaired(t *testing.T) {
	fixer := &llm.Stub{Responses: []string{goodOutlineJSON}}
	a := &Architect{Gen: &llm.Stub{Err: fmt.Errorf("timeout")}, Fixer: fixer}
	_, err := a.Build(context.Background(), "crm", types.TopicClusterList{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errors.ErrMalformedOutput)
	assert.Equal(t, 0, fixer.CallCount())
}

func TestRefinerCollapsesDuplicates(t *testing.T) {
	draft, err := FromJSON(goodOutlineJSON)
	require.NoError(t, err)

	r := &Refiner{Gen: &llm.Stub{Responses: []string{refinedWithDupesJSON}}}
	o, err := r.Refine(context.Background(), "crm", draft)
	require.NoError(t, err)

	assert.Equal(t, "The Complete CRM Guide", o.Title)
	for _, s := range o.Sections {
		seen := map[string]bool{}
		for _, st := range s.Subtopics {
			k := strings.ToLower(strings.TrimSpace(st))
			assert.False(t, seen[k], "duplicate sub-topic %q in %q", st, s.Heading)
			seen[k] = true
		}
	}
	assert.Equal(t, []string{"Sales", "Support", "AI-driven forecasting"}, o.Sections[1].Subtopics)
}

func TestRefinerRejectsNewSections(t *testing.T) {
	draft := types.Outline{Title: "T", Sections: []types.Section{{Heading: "A", Subtopics: []string{"x"}}}}
	r := &Refiner{Gen: &llm.Stub{Responses: []string{goodOutlineJSON}}}
	_, err := r.Refine(context.Background(), "crm", draft)
	assert.ErrorIs(t, err, errors.ErrMalformedOutput)
}

func TestPipelineRun(t *testing.T) {
	p := &Pipeline{
		Grouper:   &Grouper{Gen: &llm.Stub{Responses: []string{clustersJSON}}},
		Architect: &Architect{Gen: &llm.Stub{Responses: []string{goodOutlineJSON}}},
		Refiner:   &Refiner{Gen: &llm.Stub{Responses: []string{refinedWithDupesJSON}}},
	}
	o, err := p.Run(context.Background(), Input{Keyword: "crm"})
	require.NoError(t, err)
	assert.NoError(t, Validate(o))
	assert.Equal(t, "The Complete CRM Guide", o.Title)
}

func TestPipelineAbortsOnArchitectFailure(t *testing.T) {
	refiner := &llm.Stub{Responses: []string{goodOutlineJSON}}
	p := &Pipeline{
		Grouper:   &Grouper{Gen: &llm.Stub{Responses: []string{clustersJSON}}},
		Architect: &Architect{Gen: &llm.Stub{Responses: []string{emptySubtopicsJSON}}, Fixer: &llm.Stub{Responses: []string{"{}"}}},
		Refiner:   &Refiner{Gen: refiner},
	}
	_, err := p.Run(context.Background(), Input{Keyword: "crm"})
	assert.ErrorIs(t, err, errors.ErrMalformedOutput)
	assert.Equal(t, 0, refiner.CallCount(), "malformed outline never reaches the refiner")
}

func TestJSONRoundTrip(t *testing.T) {
	o, err := FromJSON(goodOutlineJSON)
	require.NoError(t, err)
	s, err := ToJSON(o)
	require.NoError(t, err)
	assert.Contains(t, s, `"h3": "Definition"`)
	back, err := FromJSON(s)
	require.NoError(t, err)
	assert.Equal(t, o, back)
}

func TestYAMLSaveLoad(t *testing.T) {
	o, err := FromJSON(goodOutlineJSON)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "out", "outline.yaml")
	require.NoError(t, SaveYAML(path, o))

	back, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, o, back)
}
