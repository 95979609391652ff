// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fynix-gaurav/seo-ai-agent/internal/errors"
	"github.com/fynix-gaurav/seo-ai-agent/internal/llm"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// Stage names used in errors and logs.
const (
	StageGrouper   = "grouper"
	StageArchitect = "architect"
	StageRefiner   = "refiner"
)

// GroupInput is the raw material handed to the Grouper.
type GroupInput struct {
	Headings       []string
	ManualKeywords []string
	Entities       []string
}

// Grouper clusters scraped headings, manual keywords, and entities into
// topic clusters.
type Grouper struct {
	Gen llm.Generator
}

// Group makes one structured call. An unparseable response fails with
// errors.ErrMalformedOutput; there is no internal retry.
func (g *Grouper) Group(ctx context.Context, in GroupInput) (types.TopicClusterList, error) {
	manual := "None"
	if len(in.ManualKeywords) > 0 {
		manual = strings.Join(in.ManualKeywords, ", ")
	}
	user, err := render(grouperTmpl, struct {
		Schema, Headings, ManualKeywords, Entities string
	}{
		Schema:         clusterSchema,
		Headings:       strings.Join(in.Headings, "\n"),
		ManualKeywords: manual,
		Entities:       strings.Join(in.Entities, ", "),
	})
	if err != nil {
		return types.TopicClusterList{}, fmt.Errorf("rendering grouper prompt: %w", err)
	}

	var list types.TopicClusterList
	if _, err := llm.GenerateStructured(ctx, g.Gen, StageGrouper, llm.Request{System: grouperSystem, User: user}, &list); err != nil {
		return types.TopicClusterList{}, err
	}

	out := types.TopicClusterList{}
	for _, c := range list.Clusters {
		items := Dedupe(c.Items)
		name := strings.TrimSpace(c.Name)
		if name == "" && len(items) == 0 {
			continue
		}
		out.Clusters = append(out.Clusters, types.TopicCluster{Name: name, Items: items})
	}
	return out, nil
}

// Architect arranges topic clusters into a draft outline.
type Architect struct {
	Gen llm.Generator

	// Fixer, when set, gets exactly one chance to repair a response that
	// fails to decode or validate.
	Fixer llm.Generator
}

// Build returns a validated outline or errors.ErrMalformedOutput.
func (a *Architect) Build(ctx context.Context, keyword string, clusters types.TopicClusterList) (types.Outline, error) {
	clustersJSON, err := json.Marshal(clusters)
	if err != nil {
		return types.Outline{}, fmt.Errorf("marshaling clusters: %w", err)
	}
	user, err := render(architectTmpl, struct {
		Schema, Keyword, Clusters string
	}{outlineSchema, keyword, string(clustersJSON)})
	if err != nil {
		return types.Outline{}, fmt.Errorf("rendering architect prompt: %w", err)
	}

	var o types.Outline
	raw, err := llm.GenerateStructured(ctx, a.Gen, StageArchitect, llm.Request{System: architectSystem, User: user}, &o)
	if err == nil {
		o = Normalize(o)
		err = validated(StageArchitect, o)
	}
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, errors.ErrMalformedOutput) || a.Fixer == nil {
		return types.Outline{}, err
	}
	return a.repair(ctx, raw, err)
}

func (a *Architect) repair(ctx context.Context, completion string, cause error) (types.Outline, error) {
	user, err := render(fixerTmpl, struct {
		Schema, Completion, Error string
	}{outlineSchema, completion, cause.Error()})
	if err != nil {
		return types.Outline{}, fmt.Errorf("rendering fixer prompt: %w", err)
	}

	var o types.Outline
	if _, err := llm.GenerateStructured(ctx, a.Fixer, StageArchitect, llm.Request{System: fixerSystem, User: user}, &o); err != nil {
		return types.Outline{}, err
	}
	o = Normalize(o)
	if err := validated(StageArchitect, o); err != nil {
		return types.Outline{}, err
	}
	return o, nil
}

// Refiner polishes a draft outline: merges duplicate sub-topics, rephrases
// headings, and adds one or two new sub-topics to an existing section.
type Refiner struct {
	Gen llm.Generator
}

// Refine returns the refined outline. Exact duplicate sub-topics within a
// section are collapsed regardless of what the model returns. A response that
// adds sections or fails Validate is errors.ErrMalformedOutput.
func (r *Refiner) Refine(ctx context.Context, keyword string, draft types.Outline) (types.Outline, error) {
	draftJSON, err := json.Marshal(draft)
	if err != nil {
		return types.Outline{}, fmt.Errorf("marshaling draft outline: %w", err)
	}
	user, err := render(refinerTmpl, struct {
		Schema, Keyword, Draft string
	}{outlineSchema, keyword, string(draftJSON)})
	if err != nil {
		return types.Outline{}, fmt.Errorf("rendering refiner prompt: %w", err)
	}

	var o types.Outline
	if _, err := llm.GenerateStructured(ctx, r.Gen, StageRefiner, llm.Request{System: refinerSystem, User: user}, &o); err != nil {
		return types.Outline{}, err
	}
	o = Normalize(o)
	if len(o.Sections) > len(draft.Sections) {
		return types.Outline{}, errors.Malformed(StageRefiner,
			fmt.Errorf("refined outline has %d sections, draft had %d", len(o.Sections), len(draft.Sections)))
	}
	if err := validated(StageRefiner, o); err != nil {
		return types.Outline{}, err
	}
	return o, nil
}

func validated(stage string, o types.Outline) error {
	if err := Validate(o); err != nil {
		return errors.Malformed(stage, err)
	}
	return nil
}
