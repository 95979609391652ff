// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package writing

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/fynix-gaurav/seo-ai-agent/internal/errors"
	"github.com/fynix-gaurav/seo-ai-agent/internal/llm"
	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// Roles used in errors and logs.
const (
	RoleWriter = "writer"
	RoleEditor = "editor"
)

const writerSystem = `You are an expert B2B content writer and subject matter expert. Your task is to write a comprehensive, engaging, and authoritative section for a larger article. The tone should be professional, clear, and credible, tailored for a B2B audience.`

var writerTmpl = template.Must(template.New("writer").Parse(`Please write the content for the following section of the article titled "{{.Title}}".

Section to Write:
## {{.Heading}}

Key Topics to Cover in this section (H3s):
{{.Subtopics}}

Instructions:
- Write a detailed and informative piece of content for the section.
- Ensure you cover all the key topics listed above.
- The writing must be original, engaging, and provide real value to the reader.
- Do not write an introduction or conclusion for the entire article, only focus on this specific section.
- Do not repeat the H2 or H3 titles in your writing.

Editor Feedback (for revisions):
{{.Feedback}}
`))

// Writer produces the body of one section.
type Writer struct {
	Gen llm.Generator
}

// Write drafts the current section of s. It increments s.Attempts before
// calling the model, so a failed call still counts, and stores the result
// in s.Content. Failures are returned as errors.ErrGenerationFailure.
func (w *Writer) Write(ctx context.Context, s *State) (string, error) {
	sec := s.Section()
	var buf bytes.Buffer
	err := writerTmpl.Execute(&buf, struct {
		Title, Heading, Subtopics, Feedback string
	}{s.Outline.Title, sec.Heading, sec.SubtopicList(), s.Feedback()})
	if err != nil {
		return "", errors.GenerationFailure(RoleWriter, fmt.Errorf("rendering writer prompt: %w", err))
	}

	s.Attempts++

	out, err := w.Gen.Generate(ctx, llm.Request{System: writerSystem, User: buf.String()})
	if err != nil {
		return "", errors.GenerationFailure(RoleWriter, err)
	}
	content := stripHeading(llm.StripFences(out), sec.Heading)
	s.Content = content
	return content, nil
}

// stripHeading drops a leading Markdown heading line that repeats the
// section heading.
func stripHeading(body, heading string) string {
	first, rest, _ := strings.Cut(body, "\n")
	line := strings.TrimSpace(first)
	if !strings.HasPrefix(line, "#") {
		return body
	}
	if !strings.EqualFold(strings.TrimSpace(strings.TrimLeft(line, "#")), strings.TrimSpace(heading)) {
		return body
	}
	return strings.TrimSpace(rest)
}

const editorSystem = `You are a meticulous, world-class editor and SEO strategist. Your task is to review a piece of content written by an AI writer and decide if it meets our quality standards. Your response MUST be a JSON object adhering to the provided schema. Do not include any other text or explanations.`

var editorTmpl = template.Must(template.New("editor").Parse(`Article Topic: "{{.Title}}"
Section Being Reviewed: "## {{.Heading}}"

Content to Review:
<content>
{{.Content}}
</content>

Evaluation Criteria:
1. Clarity & Readability: Is the content clear, concise, and easy for a B2B audience to understand?
2. Accuracy: Is the information factually correct and credible?
3. Completeness: Does the content adequately cover all the required sub-topics ({{.Subtopics}})?
4. Tone: Is the tone authoritative, professional, and confident?

Your Task:
Based on the criteria, make a decision.
- If the content is excellent and meets all criteria, decide "APPROVED".
- If the content has issues, decide "REVISE" and provide specific, actionable feedback for the writer to improve the content.

<output_instructions>
The output must be a JSON object of this shape:
{"decision": "APPROVED or REVISE", "feedback": "specific, actionable feedback for the writer (required when REVISE)"}
</output_instructions>
`))

// Editor reviews one candidate section body.
type Editor struct {
	Gen llm.Generator
}

// Review judges s.Content against clarity, accuracy, completeness against
// the section's sub-topics, and tone. A response that does not decode to a
// valid decision is errors.ErrMalformedOutput; it is never read as approval.
func (e *Editor) Review(ctx context.Context, s *State) (types.ReviewDecision, error) {
	sec := s.Section()
	var buf bytes.Buffer
	err := editorTmpl.Execute(&buf, struct {
		Title, Heading, Content, Subtopics string
	}{s.Outline.Title, sec.Heading, s.Content, strings.Join(sec.Subtopics, ", ")})
	if err != nil {
		return types.ReviewDecision{}, fmt.Errorf("rendering editor prompt: %w", err)
	}

	var raw struct {
		Decision string `json:"decision"`
		Feedback string `json:"feedback"`
	}
	if _, err := llm.GenerateStructured(ctx, e.Gen, RoleEditor, llm.Request{System: editorSystem, User: buf.String()}, &raw); err != nil {
		return types.ReviewDecision{}, err
	}

	verdict, ok := types.ParseVerdict(raw.Decision)
	if !ok {
		return types.ReviewDecision{}, errors.Malformed(RoleEditor, fmt.Errorf("unknown decision %q", raw.Decision))
	}
	feedback := strings.TrimSpace(raw.Feedback)
	if verdict == types.VerdictRevise && feedback == "" {
		return types.ReviewDecision{}, errors.Malformed(RoleEditor, fmt.Errorf("REVISE without feedback"))
	}
	return types.ReviewDecision{Verdict: verdict, Feedback: feedback}, nil
}
