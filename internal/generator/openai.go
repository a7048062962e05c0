package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"farmvibe/internal/classifier"
)

// ChatCompletionCreator is the slice of the OpenAI client the generator needs.
type ChatCompletionCreator interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGenerator implements Generator with the chat completions API.
type OpenAIGenerator struct {
	client ChatCompletionCreator
	opts   Options
}

func NewOpenAIGenerator(client ChatCompletionCreator, opts Options) *OpenAIGenerator {
	if opts.Model == "" {
		opts.Model = openai.GPT3Dot5Turbo
	}
	return &OpenAIGenerator{client: client, opts: opts}
}

// NewOpenAIGeneratorFromKey builds a real OpenAI client. An empty baseURL
// uses the public API endpoint.
func NewOpenAIGeneratorFromKey(apiKey, baseURL string, opts Options) *OpenAIGenerator {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return NewOpenAIGenerator(openai.NewClientWithConfig(clientConfig), opts)
}

func (g *OpenAIGenerator) Name() string { return "openai" }

func (g *OpenAIGenerator) Model() string { return g.opts.Model }

func (g *OpenAIGenerator) Close() error { return nil }

func (g *OpenAIGenerator) Generate(ctx context.Context, input string) (classifier.Descriptor, error) {
	if g.client == nil {
		return classifier.Descriptor{}, ErrCredentialMissing
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(input),
			},
		},
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	})
	if err != nil {
		return classifier.Descriptor{}, fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return classifier.Descriptor{}, fmt.Errorf("openai: %w", ErrEmptyReply)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return classifier.Descriptor{}, fmt.Errorf("openai: %w", ErrEmptyReply)
	}

	return ParseDescriptor(content)
}

var _ Generator = (*OpenAIGenerator)(nil)
