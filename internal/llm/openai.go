// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI calls the chat completions endpoint through the official SDK.
type OpenAI struct {
	Model       string
	Temperature float64
	MaxTokens   int
	client      openai.Client
}

// NewOpenAI builds an OpenAI backend. baseURL may be empty; httpClient may be
// nil.
func NewOpenAI(apiKey, baseURL, model string, temperature float64, maxTokens int, httpClient *http.Client) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing")
	}
	if model == "" {
		return nil, errors.New("openai model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(2)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAI{
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		client:      openai.NewClient(opts...),
	}, nil
}

// Generate implements Generator.
func (o *OpenAI) Generate(ctx context.Context, r Request) (string, error) {
	var msgs []openai.ChatCompletionMessageParamUnion
	if r.System != "" {
		msgs = append(msgs, openai.SystemMessage(r.System))
	}
	msgs = append(msgs, openai.UserMessage(r.User))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.Model),
		Messages:    msgs,
		Temperature: openai.Float(o.Temperature),
	}
	if o.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.MaxTokens))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
