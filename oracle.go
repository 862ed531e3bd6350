package duoquiz

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Oracle is the external text-completion service. It takes a system and a user
// instruction and returns one blob of text with no structure guaranteed.
type Oracle interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIOracle calls an OpenAI-compatible chat completion endpoint
type OpenAIOracle struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OracleConfig configures an OpenAIOracle. BaseURL may point at any
// OpenAI-compatible server; empty means api.openai.com.
type OracleConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
}

// NewOpenAIOracle creates an oracle backed by go-openai
func NewOpenAIOracle(cfg OracleConfig) *OpenAIOracle {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIOracle{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: cfg.Temperature,
	}
}

// Complete sends one chat completion request and returns the first choice's text
func (o *OpenAIOracle) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: system,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: user,
				},
			},
			Temperature: o.temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", o.model)
	}
	return resp.Choices[0].Message.Content, nil
}
