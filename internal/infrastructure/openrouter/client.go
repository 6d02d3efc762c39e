package openrouter

import (
	"context"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const defaultTemperature = 0.9

// Client asks an OpenAI-compatible API (OpenRouter by default) for chat
// completions. BaseURL is the API root; requests go to BaseURL/chat/completions.
type Client struct {
	Model       string
	Temperature float32

	api *openai.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{Model: model, Temperature: defaultTemperature, api: openai.NewClientWithConfig(cfg)}
}

// Complete sends prompt as a single user message and returns the first choice's content.
// An empty string with a nil error means the provider answered without content.
// Non-2xx answers come back as *openai.APIError or *openai.RequestError.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	res, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.Model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		Temperature: c.Temperature,
	})
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", nil
	}
	return res.Choices[0].Message.Content, nil
}
