package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"farmvibe/internal/classifier"
)

// ContentGenerator is satisfied by *genai.GenerativeModel.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements Generator with the Gemini API.
type GeminiGenerator struct {
	model  ContentGenerator
	client *genai.Client
	opts   Options
}

func NewGeminiGenerator(model ContentGenerator, opts Options) *GeminiGenerator {
	return &GeminiGenerator{model: model, opts: opts}
}

// NewGeminiGeneratorFromKey creates a Gemini client configured with the
// shared system prompt, temperature and output bound.
func NewGeminiGeneratorFromKey(ctx context.Context, apiKey string, opts Options) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(SystemPrompt)}}
	model.SetTemperature(opts.Temperature)
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	model.ResponseMIMEType = "application/json"

	return &GeminiGenerator{model: model, client: client, opts: opts}, nil
}

func (g *GeminiGenerator) Name() string { return "gemini" }

func (g *GeminiGenerator) Model() string { return g.opts.Model }

func (g *GeminiGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiGenerator) Generate(ctx context.Context, input string) (classifier.Descriptor, error) {
	if g.model == nil {
		return classifier.Descriptor{}, ErrCredentialMissing
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(BuildPrompt(input)))
	if err != nil {
		return classifier.Descriptor{}, fmt.Errorf("gemini generate content failed: %w", err)
	}

	text := replyText(resp)
	if text == "" {
		return classifier.Descriptor{}, fmt.Errorf("gemini: %w", ErrEmptyReply)
	}

	return ParseDescriptor(text)
}

// replyText joins the text parts of the first candidate.
func replyText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String())
}

var _ Generator = (*GeminiGenerator)(nil)
