// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package writing

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/fynix-gaurav/seo-ai-agent/pkg/types"
)

// Assemble renders a finished draft as one Markdown document: the title as an
// H1, then each section's heading as an H2 followed by its body.
func Assemble(d types.Draft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	for _, s := range d.Sections {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", s.Heading, strings.TrimSpace(s.Content))
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// RenderHTML converts an assembled Markdown document to HTML.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return buf.String(), nil
}
