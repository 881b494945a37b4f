// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package persona generates persona profiles and personalized content cards
// by calling the OpenRouter chat-completions API in JSON mode. It shares the
// relay's upstream but uses plain request/response calls; nothing here
// streams.
package persona

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL is the OpenAI-compatible API root of OpenRouter.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModel matches the relay's default completion model.
	DefaultModel = "openai/gpt-5.1"
)

// Builder runs generation calls against a configured model.
type Builder struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// NewBuilder constructs a Builder talking to the given OpenAI-compatible
// endpoint. An empty baseURL or model falls back to the OpenRouter defaults.
func NewBuilder(apiKey, baseURL, model string) (*Builder, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = DefaultBaseURL
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return NewBuilderWithClient(openai.NewClientWithConfig(cfg), model), nil
}

// NewBuilderWithClient wraps an existing client, letting tests point the
// Builder at a fake endpoint.
func NewBuilderWithClient(client *openai.Client, model string) *Builder {
	if model == "" {
		model = DefaultModel
	}
	return &Builder{
		client: client,
		model:  model,
		logger: log.With().Str("component", "persona").Logger(),
	}
}

// complete sends the prompt as a single user message in JSON response mode
// and returns the raw content of the first choice.
func (b *Builder) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from model")
	}

	return resp.Choices[0].Message.Content, nil
}
