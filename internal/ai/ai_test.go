package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NoProvider(t *testing.T) {
	c, err := New(context.Background(), Config{})
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "anthropic"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoProvider)
}

func TestNew_Mistral(t *testing.T) {
	c, err := New(context.Background(), Config{Provider: "Mistral", MistralAPIKey: "k"})
	require.NoError(t, err)

	m, ok := c.(*Mistral)
	require.True(t, ok)
	assert.Equal(t, DefaultMistralModel, m.model)
}

func TestConfig_ModelName(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"none", Config{}, ""},
		{"google default", Config{Provider: "google"}, DefaultGeminiModel},
		{"mistral default", Config{Provider: "MISTRAL"}, DefaultMistralModel},
		{"explicit", Config{Provider: "mistral", Model: "mistral-large-latest"}, "mistral-large-latest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ModelName())
		})
	}
}

func TestMistral_Complete(t *testing.T) {
	var gotModel, gotAuth, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		body, _ := io.ReadAll(r.Body)
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		gotModel = req.Model
		if len(req.Messages) > 0 {
			gotPrompt = req.Messages[0].Content
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"  Hallo Welt  "},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	m := NewMistral("secret", "mistral-tiny", server.URL)
	out, err := m.Complete(context.Background(), "Sag hallo")

	require.NoError(t, err)
	assert.Equal(t, "Hallo Welt", out)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "mistral-tiny", gotModel)
	assert.Equal(t, "Sag hallo", gotPrompt)
}

func TestMistral_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	_, err := NewMistral("k", "", server.URL).Complete(context.Background(), "x")
	require.Error(t, err)
}

func TestMistral_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	_, err := NewMistral("k", "", server.URL).Complete(context.Background(), "x")
	require.Error(t, err)
}
