// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Gemini calls Google's Gemini API.
type Gemini struct {
	Model       string
	Temperature float64
	MaxTokens   int
	client      *genai.Client
}

// NewGemini builds a Gemini backend.
func NewGemini(ctx context.Context, apiKey, model string, temperature float64, maxTokens int) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key missing")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{Model: model, Temperature: temperature, MaxTokens: maxTokens, client: client}, nil
}

// Generate implements Generator.
func (g *Gemini) Generate(ctx context.Context, r Request) (string, error) {
	temp := float32(g.Temperature)
	cfg := &genai.GenerateContentConfig{Temperature: &temp}
	if g.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(g.MaxTokens)
	}
	if r.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(r.System, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.Model, genai.Text(r.User), cfg)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}
