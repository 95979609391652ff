// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package writing

import (
	"context"
	"fmt"

	"github.com/fynix-gaurav/seo-ai-agent/internal/errors"
	"github.com/fynix-gaurav/seo-ai-agent/internal/logging"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// SectionWriter drafts the current section of a State and returns its body.
// Implementations must increment s.Attempts once per call; the controller
// counts the call itself when they do not, so the revision cap in Next
// always holds.
type SectionWriter interface {
	Write(ctx context.Context, s *State) (string, error)
}

// SectionEditor reviews the current candidate of a State.
type SectionEditor interface {
	Review(ctx context.Context, s *State) (types.ReviewDecision, error)
}

// Transition describes one phase change. The State is a snapshot view and
// must not be retained or mutated by observers.
type Transition struct {
	From, To Phase
	State    *State
}

// Controller drives the write/review loop over every section of an outline.
type Controller struct {
	Writer SectionWriter
	Editor SectionEditor

	// Observer, when set, is called after every phase change.
	Observer func(Transition)

	Logger *logging.Logger
}

// Run writes every section of outline in order and returns the finished
// draft. A writer or editor failure ends the run with
// errors.ErrGenerationFailure and no draft.
func (c *Controller) Run(ctx context.Context, outline types.Outline) (types.Draft, error) {
	if len(outline.Sections) == 0 {
		return types.Draft{}, errors.GenerationFailure("controller", fmt.Errorf("outline has no sections"))
	}
	log := c.Logger
	if log == nil {
		log = logging.NopLogger()
	}

	s := NewState(outline)
	var step Step
	for s.Phase != PhaseDone {
		if err := ctx.Err(); err != nil {
			return types.Draft{}, errors.GenerationFailure("controller", err)
		}

		switch s.Phase {
		case PhaseWriting:
			before := s.Attempts
			content, err := c.Writer.Write(ctx, s)
			if err != nil {
				return types.Draft{}, errors.GenerationFailure(RoleWriter, err)
			}
			if s.Attempts == before {
				s.Attempts++
			}
			s.Content = content
			c.move(s, PhaseReviewing)

		case PhaseReviewing:
			d, err := c.Editor.Review(ctx, s)
			if err != nil {
				return types.Draft{}, errors.GenerationFailure(RoleEditor, err)
			}
			s.LastDecision = &d
			step = Next(s, d)
			log.Debug("section reviewed",
				"section", s.Index, "attempts", s.Attempts, "verdict", d.Verdict, "next", step.String())
			if step == StepWrite {
				c.move(s, PhaseWriting)
			} else {
				c.move(s, PhaseAdvancing)
			}

		case PhaseAdvancing:
			accepted := types.ApprovedSection{
				Heading:  s.Section().Heading,
				Content:  s.Content,
				Attempts: s.Attempts,
			}
			if s.LastDecision != nil {
				d := *s.LastDecision
				accepted.Review = &d
			}
			if accepted.Forced() {
				log.Warn("revision budget spent, accepting last candidate",
					"section", s.Index, "heading", accepted.Heading, "feedback", accepted.Review.Feedback)
			}
			s.Draft.Sections = append(s.Draft.Sections, accepted)

			if step == StepDone {
				c.move(s, PhaseDone)
				continue
			}
			s.Index++
			s.Attempts = 0
			s.LastDecision = nil
			s.Content = ""
			c.move(s, PhaseWriting)

		default:
			return types.Draft{}, errors.GenerationFailure("controller", fmt.Errorf("unknown phase %q", s.Phase))
		}
	}

	log.Info("draft complete", "title", s.Draft.Title, "sections", len(s.Draft.Sections))
	return s.Draft, nil
}

func (c *Controller) move(s *State, to Phase) {
	from := s.Phase
	s.Phase = to
	if c.Observer != nil {
		c.Observer(Transition{From: from, To: to, State: s})
	}
}
