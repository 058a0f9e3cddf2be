package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/Cayson-Choi/tarot-card-reading/internal/adapters/llm"
	"github.com/Cayson-Choi/tarot-card-reading/internal/domain"
	"github.com/Cayson-Choi/tarot-card-reading/internal/ports"
)

const (
	maxTokens   = 2500
	temperature = 0.7
)

// ChatClient is the slice of the SDK the relay needs, kept as an
// interface so tests can substitute a double.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client implements ports.Interpreter via the OpenAI API.
type Client struct {
	chat   ChatClient
	model  string
	logger *slog.Logger
}

func NewClient(apiKey, baseURL, model string, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai relay: missing API key")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		chat:   openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}, nil
}

func (c *Client) Interpret(ctx context.Context, in ports.InterpretInput) (string, error) {
	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llm.SystemPrompt(in.Lang)},
			{Role: openai.ChatMessageRoleUser, Content: llm.UserPrompt(in)},
		},
	})
	if err != nil {
		c.logger.WarnContext(ctx, "openai request failed", "model", c.model, "error", err)
		return "", classify(err)
	}

	for _, choice := range resp.Choices {
		if text := llm.StripThinking(choice.Message.Content); text != "" {
			return text, nil
		}
	}
	c.logger.WarnContext(ctx, "openai returned no usable completion", "model", c.model)
	return "", fmt.Errorf("%w: empty completion", domain.ErrRelayUpstream)
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 {
		return fmt.Errorf("%w: %v", domain.ErrRelayClient, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrRelayUpstream, err)
}
