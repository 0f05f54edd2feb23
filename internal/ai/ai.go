package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderGoogle  = "google"
	ProviderMistral = "mistral"

	DefaultGeminiModel  = "gemini-1.5-flash"
	DefaultMistralModel = "mistral-small-latest"
	MistralBaseURL      = "https://api.mistral.ai/v1"
)

// ErrNoProvider is returned when no completion provider is configured.
var ErrNoProvider = errors.New("no completion provider configured")

// Completer turns a prompt into text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Config struct {
	Provider      string
	Model         string
	GeminiAPIKey  string
	MistralAPIKey string
}

// ModelName resolves the model New would use for cfg. It is empty when no
// provider is set.
func (c Config) ModelName() string {
	switch strings.ToLower(c.Provider) {
	case ProviderGoogle:
		if c.Model != "" {
			return c.Model
		}
		return DefaultGeminiModel
	case ProviderMistral:
		if c.Model != "" {
			return c.Model
		}
		return DefaultMistralModel
	default:
		return c.Model
	}
}

// New builds the Completer named by cfg.Provider. An empty provider yields
// ErrNoProvider.
func New(ctx context.Context, cfg Config) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "":
		return nil, ErrNoProvider
	case ProviderGoogle:
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model)
	case ProviderMistral:
		return NewMistral(cfg.MistralAPIKey, cfg.Model, ""), nil
	default:
		return nil, fmt.Errorf("unsupported completion provider %q", cfg.Provider)
	}
}
