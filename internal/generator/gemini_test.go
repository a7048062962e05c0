package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockContentGenerator struct {
	resp  *genai.GenerateContentResponse
	err   error
	parts []genai.Part
}

func (m *mockContentGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	m.parts = parts
	return m.resp, m.err
}

func geminiReply(texts ...string) *genai.GenerateContentResponse {
	parts := make([]genai.Part, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, genai.Text(text))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestGeminiGenerator_Generate_JoinsTextParts(t *testing.T) {
	model := &mockContentGenerator{resp: geminiReply(`{"outfit":"tabis","place":"reservoir hill",`, `"items":["seed catalog"],"notes":"cried at a farmers market once"}`)}
	g := NewGeminiGenerator(model, Options{Model: "gemini-test"})

	got, err := g.Generate(context.Background(), "hill farm")

	require.NoError(t, err)
	assert.Equal(t, "tabis", got.Outfit)
	assert.Equal(t, []string{"seed catalog"}, got.Items)
	require.Len(t, model.parts, 1)
	assert.Contains(t, string(model.parts[0].(genai.Text)), `"hill farm"`)
	assert.Equal(t, "gemini", g.Name())
	assert.Equal(t, "gemini-test", g.Model())
	assert.NoError(t, g.Close())
}

func TestGeminiGenerator_Generate_WrapsError(t *testing.T) {
	apiErr := errors.New("permission denied")
	g := NewGeminiGenerator(&mockContentGenerator{err: apiErr}, Options{Model: "gemini-test"})

	_, err := g.Generate(context.Background(), "hill farm")

	assert.ErrorIs(t, err, apiErr)
}

func TestGeminiGenerator_Generate_NoCandidates(t *testing.T) {
	g := NewGeminiGenerator(&mockContentGenerator{resp: &genai.GenerateContentResponse{}}, Options{Model: "gemini-test"})

	_, err := g.Generate(context.Background(), "hill farm")

	assert.ErrorIs(t, err, ErrEmptyReply)
}
