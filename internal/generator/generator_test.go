package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmvibe/internal/config"
	"farmvibe/internal/logging"
)

func TestNewWithoutKeyReportsMissingCredential(t *testing.T) {
	cfg := &config.Config{}
	cfg.Generation.Provider = config.ProviderOpenAI

	g, err := New(context.Background(), cfg, logging.Discard())

	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrCredentialMissing)
}

func TestNewBuildsOpenAIGenerator(t *testing.T) {
	cfg := &config.Config{}
	cfg.Generation.Provider = config.ProviderOpenAI
	cfg.Generation.OpenAIAPIKey = "sk-test"
	cfg.Generation.OpenAIModel = "gpt-test"
	cfg.Generation.MaxTokens = 500

	g, err := New(context.Background(), cfg, logging.Discard())

	require.NoError(t, err)
	assert.Equal(t, "openai", g.Name())
	assert.Equal(t, "gpt-test", g.Model())
}

func TestNewRejectsUnknownProviderWithoutKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.Generation.Provider = "llama"

	g, err := New(context.Background(), cfg, logging.Discard())

	assert.Nil(t, g)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialMissing)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.Generation.Provider = "llama"
	cfg.Generation.OpenAIAPIKey = "sk-test"

	_, err := New(context.Background(), cfg, logging.Discard())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}
