package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmvibe/internal/classifier"
)

type mockOpenAIClient struct {
	mockResponse openai.ChatCompletionResponse
	mockError    error

	calls   int
	lastReq openai.ChatCompletionRequest
}

func (m *mockOpenAIClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.calls++
	m.lastReq = req
	if m.mockError != nil {
		return openai.ChatCompletionResponse{}, m.mockError
	}
	return m.mockResponse, nil
}

func replyWith(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func TestOpenAIGenerator_Generate_ParsesReply(t *testing.T) {
	client := &mockOpenAIClient{mockResponse: replyWith(`{
		"outfit": "cropped white tank, nylon track pants",
		"place": "patch of grass near the architecture building",
		"items": ["iced americano in a jam jar", "field recorder"],
		"notes": "gatekeeps organic garlic"
	}`)}
	g := NewOpenAIGenerator(client, Options{Model: "gpt-test", MaxTokens: 500, Temperature: 0.7})

	got, err := g.Generate(context.Background(), "a quiet courtyard farm")

	require.NoError(t, err)
	assert.Equal(t, classifier.Descriptor{
		Outfit: "cropped white tank, nylon track pants",
		Place:  "patch of grass near the architecture building",
		Items:  []string{"iced americano in a jam jar", "field recorder"},
		Notes:  "gatekeeps organic garlic",
	}, got)
}

func TestOpenAIGenerator_Generate_SendsPromptAndSampling(t *testing.T) {
	client := &mockOpenAIClient{mockResponse: replyWith(`{"outfit":"x","place":"y","items":[],"notes":"z"}`)}
	g := NewOpenAIGenerator(client, Options{Model: "gpt-test", MaxTokens: 500, Temperature: 0.7})

	_, err := g.Generate(context.Background(), "rooftop tomatoes")
	require.NoError(t, err)

	req := client.lastReq
	assert.Equal(t, "gpt-test", req.Model)
	assert.Equal(t, 500, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-6)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Equal(t, SystemPrompt, req.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[1].Role)
	assert.Contains(t, req.Messages[1].Content, `"rooftop tomatoes"`)
}

func TestOpenAIGenerator_DefaultsModel(t *testing.T) {
	g := NewOpenAIGenerator(&mockOpenAIClient{}, Options{})

	assert.Equal(t, openai.GPT3Dot5Turbo, g.Model())
	assert.Equal(t, "openai", g.Name())
	assert.NoError(t, g.Close())
}

func TestOpenAIGenerator_Generate_WrapsClientError(t *testing.T) {
	apiErr := errors.New("429 rate limited")
	g := NewOpenAIGenerator(&mockOpenAIClient{mockError: apiErr}, Options{Model: "gpt-test"})

	_, err := g.Generate(context.Background(), "barn")

	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
	assert.Contains(t, err.Error(), "openai chat completion failed")
}

func TestOpenAIGenerator_Generate_NoChoices(t *testing.T) {
	g := NewOpenAIGenerator(&mockOpenAIClient{mockResponse: openai.ChatCompletionResponse{}}, Options{Model: "gpt-test"})

	_, err := g.Generate(context.Background(), "barn")

	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestOpenAIGenerator_Generate_InvalidJSON(t *testing.T) {
	g := NewOpenAIGenerator(&mockOpenAIClient{mockResponse: replyWith("Here is your vibe: very rustic.")}, Options{Model: "gpt-test"})

	_, err := g.Generate(context.Background(), "barn")

	assert.ErrorIs(t, err, ErrMalformedReply)
}

func TestOpenAIGenerator_Generate_NilClient(t *testing.T) {
	g := NewOpenAIGenerator(nil, Options{Model: "gpt-test"})

	_, err := g.Generate(context.Background(), "barn")

	assert.ErrorIs(t, err, ErrCredentialMissing)
}
