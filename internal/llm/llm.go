// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides the text-generation backends used by the outline
// pipeline and the writer/editor loop.
//
// Every backend implements Generator. Sampling settings (temperature, token
// cap) are fixed per backend at construction from a types.RoleConfig, so the
// callers only supply prompts. Fallback chains several backends; callers
// never know which provider answered.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fynix-gaurav/seo-ai-agent/internal/errors"
	"github.com/fynix-gaurav/seo-ai-agent/internal/logging"
)

// Request is one generation call.
type Request struct {
	System string
	User   string
}

// Generator produces a completion for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Fallback tries each backend in order and returns the first successful
// completion. Context cancellation stops the chain immediately.
type Fallback struct {
	Backends []Generator
	Logger   *logging.Logger
}

// Generate implements Generator.
func (f *Fallback) Generate(ctx context.Context, req Request) (string, error) {
	if len(f.Backends) == 0 {
		return "", fmt.Errorf("no generation backends configured")
	}
	var errs []error
	for i, b := range f.Backends {
		out, err := b.Generate(ctx, req)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if f.Logger != nil {
			f.Logger.Warn("backend failed, trying next", "backend", i, "error", err)
		}
		errs = append(errs, fmt.Errorf("backend %d: %w", i, err))
	}
	return "", errors.Join(errs...)
}

const jsonInstructions = `

Respond with a single JSON object that follows the schema above. Do not wrap it in code fences and do not add any text before or after it.`

// GenerateStructured asks gen for a JSON object and decodes it into v. The
// raw completion is returned even on decode failure so callers can attempt a
// repair. Decode failures are reported as errors.ErrMalformedOutput tagged
// with stage; backend failures are returned as is.
func GenerateStructured(ctx context.Context, gen Generator, stage string, req Request, v any) (string, error) {
	req.User += jsonInstructions
	raw, err := gen.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return raw, Decode(stage, raw, v)
}

// Decode extracts the JSON object from a completion and unmarshals it into v.
func Decode(stage, raw string, v any) error {
	body := extractJSON(raw)
	if body == "" {
		return errors.Malformed(stage, fmt.Errorf("no JSON object in response"))
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return errors.Malformed(stage, err)
	}
	return nil
}

// extractJSON strips code fences and any prose around the outermost object.
func extractJSON(text string) string {
	text = StripFences(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}

// StripFences removes a surrounding Markdown code fence, with or without a
// language tag.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 && !strings.ContainsAny(text[:nl], " {") {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
