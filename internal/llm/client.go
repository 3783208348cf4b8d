// Package llm talks to an OpenAI-compatible chat completion service.
package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// ErrMissingAPIKey means no API key was configured for the completion service.
var ErrMissingAPIKey = errors.New("no OpenAI API key configured")

// DefaultTemperature is the sampling temperature for answers.
const DefaultTemperature = 0.2

// Config configures a Client.
type Config struct {
	APIKey      string
	BaseURL     string
	Temperature float32
}

// Client sends single-message chat completions.
type Client struct {
	client      *openai.Client
	temperature float32
}

// NewClient returns ErrMissingAPIKey when cfg.APIKey is empty.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		temperature: cfg.Temperature,
	}, nil
}

// Complete sends prompt as one user message to model and returns the text
// of the first choice.
func (c *Client) Complete(ctx context.Context, prompt, model string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model %s returned no choices", model)
	}
	return resp.Choices[0].Message.Content, nil
}
