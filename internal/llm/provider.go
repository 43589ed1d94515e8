package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/avezina/fraudlens/internal/model"
)

// Provider generates text completions
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Name() string
}

// NewProvider creates a provider from configuration. The OpenAI client
// also serves any OpenAI-compatible endpoint (Ollama, vLLM) via base_url.
func NewProvider(cfg model.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("llm: openai provider requires an API key")
		}
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		return &openaiProvider{
			client: openai.NewClientWithConfig(clientCfg),
			model:  cfg.Model,
			name:   "openai",
		}, nil
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434/v1"
		}
		clientCfg := openai.DefaultConfig("ollama") // Ollama ignores the key
		clientCfg.BaseURL = baseURL
		return &openaiProvider{
			client: openai.NewClientWithConfig(clientCfg),
			model:  cfg.Model,
			name:   "ollama",
		}, nil
	case "":
		return nil, fmt.Errorf("llm: no provider configured")
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

type openaiProvider struct {
	client *openai.Client
	model  string
	name   string
}

func (p *openaiProvider) Name() string { return p.name }

func (p *openaiProvider) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response from %s", p.name)
	}
	return resp.Choices[0].Message.Content, nil
}
