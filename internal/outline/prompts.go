// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"bytes"
	"text/template"
)

const clusterSchema = `The output must be a JSON object of this shape:
{"clusters": [{"cluster_name": "short label", "headings_and_keywords": ["related heading or keyword", "..."]}]}
Each cluster_name is a concise label. headings_and_keywords lists every related heading or keyword once.`

const outlineSchema = `The output must be a JSON object of this shape:
{"h1": "article title", "sections": [{"h2": "section heading", "h3s": [{"h3": "sub-topic"}]}]}
Every section needs a non-empty "h2" and a non-empty "h3s" list. Every "h3" must be a non-empty string.`

const grouperSystem = `You are a data processing and topic modeling AI. Your task is to process raw text and keywords, and group them into clean, semantically related topic clusters. You must format your output as a JSON object that strictly adheres to the provided schema.`

var grouperTmpl = template.Must(template.New("grouper").Parse(`<output_instructions>
{{.Schema}}
</output_instructions>

<competitor_content>
{{.Headings}}
</competitor_content>

<manual_keywords>
{{.ManualKeywords}}
</manual_keywords>
{{- if .Entities}}

<entities>
{{.Entities}}
</entities>
{{- end}}
`))

const architectSystem = `Act as an expert SEO Content Strategist. Your task is to take topic clusters and architect them into a final, logical content outline for a B2B audience. Your sole output is the hierarchical structure of headings. You MUST format your output as a JSON object that strictly adheres to the provided schema.

CRITICAL RULES:
1. Your entire response must be ONLY the JSON object. Do not include any other text.
2. Every object in the "sections" list must contain both a non-empty "h2" key and a non-empty "h3s" list.
3. Every object within an "h3s" list must contain a non-empty string for the "h3" key. Do not generate empty objects like {}.`

var architectTmpl = template.Must(template.New("architect").Parse(`<output_instructions>
{{.Schema}}
</output_instructions>

Primary Keyword: "{{.Keyword}}"

<topic_clusters>
{{.Clusters}}
</topic_clusters>
`))

const fixerSystem = `You repair JSON documents that failed validation. Return only the corrected JSON object.`

var fixerTmpl = template.Must(template.New("fixer").Parse(`Instructions:
--------------
{{.Schema}}
--------------
Completion:
--------------
{{.Completion}}
--------------

Above, the Completion did not satisfy the constraints given in the Instructions.
Error:
--------------
{{.Error}}
--------------

Please try again. Please only respond with an answer that satisfies the constraints laid out in the Instructions:`))

const refinerSystem = `Act as a Senior SEO Content Strategist and Editor-in-Chief. Your task is to take a DRAFT article outline and transform it into a final, strategically superior, and non-redundant content blueprint.

CRITICAL RULES:
1. De-duplicate Ruthlessly: Review all H3s under each H2. Identify and merge any subheadings that are semantically identical or highly similar. Consolidate them into a single, well-phrased H3.
2. Consolidate and Rephrase: Rephrase the final headings to be clear, engaging, and unique. Ensure a logical flow.
3. Add a Strategic Angle: Identify one or two unique, high-value topics or angles that are missing from the draft. Add these as new H3s to the single most relevant existing section. Never create a new section for them.
4. Maintain Structure: Your final output MUST be a JSON object that strictly adheres to the provided schema. Do not add any conversational text.`

var refinerTmpl = template.Must(template.New("refiner").Parse(`<output_instructions>
{{.Schema}}
</output_instructions>

Primary Keyword: "{{.Keyword}}"

<draft_outline>
{{.Draft}}
</draft_outline>
`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
