package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/bnema/studybuddy/internal/ports"
)

const DefaultModel = goopenai.GPT4oMini

var ErrEmptyResponse = errors.New("openai response contained no text")

// Client sends each prompt as a single user message to the chat completions API.
type Client struct {
	client  *goopenai.Client
	model   string
	timeout time.Duration
}

var _ ports.ResponseGenerator = (*Client)(nil)

func NewClient(apiKey string, model string, baseURL string, timeout time.Duration) *Client {
	cfg := goopenai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		client:  goopenai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

func (c *Client) Model() string {
	return "openai:" + c.model
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("request openai completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}
