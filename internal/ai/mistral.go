package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Mistral talks to Mistral's OpenAI-compatible chat endpoint.
type Mistral struct {
	client *openai.Client
	model  string
}

// NewMistral returns a Mistral completer. An empty baseURL means MistralBaseURL.
func NewMistral(apiKey, model, baseURL string) *Mistral {
	if model == "" {
		model = DefaultMistralModel
	}
	if baseURL == "" {
		baseURL = MistralBaseURL
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &Mistral{client: openai.NewClientWithConfig(cfg), model: model}
}

func (m *Mistral) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("mistral completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from Mistral")
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("empty response from Mistral")
	}
	return out, nil
}
