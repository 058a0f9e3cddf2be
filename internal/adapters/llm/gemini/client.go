package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Cayson-Choi/tarot-card-reading/internal/adapters/llm"
	"github.com/Cayson-Choi/tarot-card-reading/internal/domain"
	"github.com/Cayson-Choi/tarot-card-reading/internal/ports"
)

const temperature = 0.7

// contentGenerator is the slice of the SDK the relay needs, kept as an
// interface so tests can substitute a double.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client implements ports.Interpreter via the Gemini API.
type Client struct {
	generator contentGenerator
	closeFn   func() error
	model     string
	logger    *slog.Logger
}

func NewClient(ctx context.Context, apiKey, modelName string, logger *slog.Logger, extraOpts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini relay: missing API key")
	}

	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, extraOpts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRelayUpstream, err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)

	return &Client{
		generator: model,
		closeFn:   client.Close,
		model:     modelName,
		logger:    logger,
	}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.closeFn == nil {
		return nil
	}
	return c.closeFn()
}

func (c *Client) Interpret(ctx context.Context, in ports.InterpretInput) (string, error) {
	// Gemini takes a single prompt; the system instructions lead.
	prompt := llm.SystemPrompt(in.Lang) + "\n\n" + llm.UserPrompt(in)

	resp, err := c.generator.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.WarnContext(ctx, "gemini request failed", "model", c.model, "error", err)
		return "", fmt.Errorf("%w: %v", domain.ErrRelayUpstream, err)
	}

	text, err := firstText(resp)
	if err != nil {
		c.logger.WarnContext(ctx, "gemini returned no usable completion", "model", c.model)
		return "", err
	}
	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: empty response", domain.ErrRelayUpstream)
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				if cleaned := llm.StripThinking(string(txt)); cleaned != "" {
					return cleaned, nil
				}
			}
		}
	}
	return "", fmt.Errorf("%w: empty completion", domain.ErrRelayUpstream)
}
