// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Verdict is the editor's binary judgment on a candidate section body.
type Verdict string

const (
	VerdictApproved Verdict = "APPROVED"
	VerdictRevise   Verdict = "REVISE"
)

// ParseVerdict normalizes a model-supplied verdict. It reports false for
// anything other than APPROVED or REVISE.
func ParseVerdict(s string) (Verdict, bool) {
	switch Verdict(strings.ToUpper(strings.TrimSpace(s))) {
	case VerdictApproved:
		return VerdictApproved, true
	case VerdictRevise:
		return VerdictRevise, true
	default:
		return "", false
	}
}

// ReviewDecision is the editor's verdict for one candidate section body.
// Feedback is required when Verdict is REVISE and becomes the next writer
// call's input.
type ReviewDecision struct {
	Verdict  Verdict `json:"decision" yaml:"decision"`
	Feedback string  `json:"feedback" yaml:"feedback"`
}

// Approved reports whether the decision accepts the candidate.
func (d ReviewDecision) Approved() bool {
	return d.Verdict == VerdictApproved
}

// ApprovedSection is one section appended to the draft.
type ApprovedSection struct {
	// Heading is copied from the outline section.
	Heading string `json:"h2" yaml:"heading"`

	// Content is the accepted body text.
	Content string `json:"content" yaml:"content"`

	// Review is the last editor decision for this section. A REVISE verdict
	// here means the section was accepted because the revision cap ran out.
	Review *ReviewDecision `json:"review,omitempty" yaml:"review,omitempty"`

	// Attempts is the number of writer calls spent on this section.
	Attempts int `json:"attempts" yaml:"attempts"`
}

// Forced reports whether the section was accepted without editor approval.
func (s ApprovedSection) Forced() bool {
	return s.Review != nil && !s.Review.Approved()
}

// Draft is the accumulating output document. Sections are append-only.
type Draft struct {
	Title    string            `json:"h1" yaml:"title"`
	Sections []ApprovedSection `json:"sections" yaml:"sections"`
}
