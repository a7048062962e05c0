package generator

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"farmvibe/internal/classifier"
	"farmvibe/internal/config"
)

var (
	// ErrCredentialMissing is returned when the configured provider has no API key.
	ErrCredentialMissing = errors.New("generator: api credential not configured")
	// ErrMalformedReply wraps replies that do not decode into a descriptor.
	ErrMalformedReply = errors.New("generator: malformed reply")
	// ErrEmptyReply is returned when the provider answers without any content.
	ErrEmptyReply = errors.New("generator: empty reply")
)

// Generator asks an external text-generation service for a descriptor.
type Generator interface {
	Generate(ctx context.Context, input string) (classifier.Descriptor, error)
	// Name returns the provider name, e.g. "openai".
	Name() string
	// Model returns the model identifier sent with each request.
	Model() string
	Close() error
}

// Options tune a single generation request.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

func optionsFromConfig(cfg *config.Config) Options {
	return Options{
		Model:       cfg.Model(),
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
	}
}

// New builds the generator selected by cfg.Generation.Provider.
// It returns ErrCredentialMissing when the provider's key is not set.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (Generator, error) {
	switch cfg.Generation.Provider {
	case config.ProviderOpenAI, config.ProviderGemini:
	default:
		return nil, fmt.Errorf("generator: unknown provider %q", cfg.Generation.Provider)
	}
	if cfg.APIKey() == "" {
		logger.Warnf("%s API key not provided. Generative mode will fall back to keyword matching.", cfg.Generation.Provider)
		return nil, ErrCredentialMissing
	}

	switch cfg.Generation.Provider {
	case config.ProviderOpenAI:
		g := NewOpenAIGeneratorFromKey(cfg.APIKey(), cfg.Generation.OpenAIBase, optionsFromConfig(cfg))
		logger.Infof("OpenAI generator initialized with model %s", g.Model())
		return g, nil
	case config.ProviderGemini:
		g, err := NewGeminiGeneratorFromKey(ctx, cfg.APIKey(), optionsFromConfig(cfg))
		if err != nil {
			return nil, err
		}
		logger.Infof("Gemini generator initialized with model %s", g.Model())
		return g, nil
	}
	return nil, fmt.Errorf("generator: unknown provider %q", cfg.Generation.Provider)
}
