// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package writing turns a finished outline into a draft article. A Writer
// produces the body of one section, an Editor judges it, and the Controller
// loops between the two until the section is approved or its revision budget
// is spent, then moves on to the next section.
//
// Sections are processed strictly in outline order, one model call at a
// time. The Controller owns the State for the whole run.
package writing

import (
	"fmt"
	"strings"

	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// MaxRevisions is the number of rewrites a section may receive after its
// first draft. A section therefore sees at most MaxRevisions+1 writer calls.
const MaxRevisions = 2

// firstAttemptFeedback is sent to the writer when there is no editor
// feedback for the current section.
const firstAttemptFeedback = "No feedback yet. This is the first attempt."

// Phase is the controller's position in the write/review loop.
type Phase string

const (
	PhaseWriting   Phase = "WRITING"
	PhaseReviewing Phase = "REVIEWING"
	PhaseAdvancing Phase = "ADVANCING"
	PhaseDone      Phase = "DONE"
)

// State is the working memory of one generation run.
type State struct {
	Outline types.Outline
	Draft   types.Draft

	// Index is the position of the section being written.
	Index int

	// Content is the latest candidate body for the current section.
	Content string

	// LastDecision is the most recent editor decision for the current
	// section, or nil before the first review.
	LastDecision *types.ReviewDecision

	// Attempts counts writer calls for the current section. The writer
	// increments it; advancing resets it.
	Attempts int

	Phase Phase
}

// NewState returns the initial state for outline: writing section 0 with no
// feedback.
func NewState(outline types.Outline) *State {
	return &State{
		Outline: outline,
		Draft:   types.Draft{Title: outline.Title},
		Phase:   PhaseWriting,
	}
}

// Section returns the outline section under the cursor.
func (s *State) Section() types.Section {
	return s.Outline.Sections[s.Index]
}

// Feedback returns the editor feedback the next writer call should address.
func (s *State) Feedback() string {
	if s.LastDecision == nil || strings.TrimSpace(s.LastDecision.Feedback) == "" {
		return firstAttemptFeedback
	}
	return s.LastDecision.Feedback
}

// last reports whether the cursor is on the final section.
func (s *State) last() bool {
	return s.Index >= len(s.Outline.Sections)-1
}

// Step is the outcome of a review: what the controller does next.
type Step int

const (
	// StepWrite sends the section back to the writer with the editor's feedback.
	StepWrite Step = iota + 1
	// StepAdvance accepts the section and moves to the next one.
	StepAdvance
	// StepDone accepts the final section and ends the run.
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepWrite:
		return "write"
	case StepAdvance:
		return "advance"
	case StepDone:
		return "done"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Next decides the step after the editor returns d for the current
// candidate. A REVISE verdict earns another writer call only while fewer
// than MaxRevisions rewrites have been spent on the section; otherwise the
// last candidate is accepted as is.
func Next(s *State, d types.ReviewDecision) Step {
	revisions := s.Attempts - 1
	if d.Verdict == types.VerdictRevise && revisions < MaxRevisions {
		return StepWrite
	}
	if s.last() {
		return StepDone
	}
	return StepAdvance
}
