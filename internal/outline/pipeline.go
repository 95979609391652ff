// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"context"
	"fmt"
	"time"

	"github.com/fynix-gaurav/seo-ai-agent/internal/logging"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// Input is everything the pipeline needs for one outline run.
type Input struct {
	Keyword        string
	Headings       []string
	ManualKeywords []string
	Entities       []string
}

// Pipeline runs Grouper, Architect, and Refiner strictly in sequence. Any
// stage error aborts the run; nothing partial is returned.
type Pipeline struct {
	Grouper   *Grouper
	Architect *Architect
	Refiner   *Refiner
	Logger    *logging.Logger
}

// Run produces a final outline for in.Keyword.
func (p *Pipeline) Run(ctx context.Context, in Input) (types.Outline, error) {
	log := p.Logger
	if log == nil {
		log = logging.NopLogger()
	}
	log = log.With("keyword", in.Keyword)

	start := time.Now()
	clusters, err := p.Grouper.Group(ctx, GroupInput{
		Headings:       in.Headings,
		ManualKeywords: in.ManualKeywords,
		Entities:       in.Entities,
	})
	if err != nil {
		return types.Outline{}, fmt.Errorf("grouping topics: %w", err)
	}
	log.Info("stage finished", "stage", StageGrouper, "clusters", len(clusters.Clusters), "elapsed", time.Since(start))

	start = time.Now()
	draft, err := p.Architect.Build(ctx, in.Keyword, clusters)
	if err != nil {
		return types.Outline{}, fmt.Errorf("architecting outline: %w", err)
	}
	log.Info("stage finished", "stage", StageArchitect, "sections", len(draft.Sections), "elapsed", time.Since(start))

	start = time.Now()
	final, err := p.Refiner.Refine(ctx, in.Keyword, draft)
	if err != nil {
		return types.Outline{}, fmt.Errorf("refining outline: %w", err)
	}
	log.Info("stage finished", "stage", StageRefiner, "sections", len(final.Sections), "elapsed", time.Since(start))

	return final, nil
}
