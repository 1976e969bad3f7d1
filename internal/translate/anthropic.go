package translate

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 4096

// AnthropicCompleter sends prompts to the Anthropic Messages API.
type AnthropicCompleter struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewAnthropicCompleter(apiKey, model string, opts ...option.RequestOption) (*AnthropicCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)

	m := anthropic.Model(model)
	if model == "" {
		m = anthropic.ModelClaudeHaiku4_5
	}
	return &AnthropicCompleter{client: client, model: m}, nil
}

func (a *AnthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	message, err := a.client.Messages.New(
		ctx,
		anthropic.MessageNewParams{
			Model:     a.model,
			MaxTokens: anthropicMaxTokens,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		},
	)
	if err != nil {
		return "", err
	}
	if message == nil || len(message.Content) == 0 {
		return "", fmt.Errorf("empty response from Anthropic")
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("no text in Anthropic response")
	}
	return text, nil
}
