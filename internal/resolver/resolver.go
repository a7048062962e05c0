package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"farmvibe/internal/classifier"
	"farmvibe/internal/database"
	"farmvibe/internal/generator"
)

var (
	// ErrInputRequired is returned for blank input before any work happens.
	ErrInputRequired = errors.New("input is required")
	// ErrCredentialMissing is returned by strict resolvers asked for
	// generative mode without a configured generator.
	ErrCredentialMissing = errors.New("api credential not configured")
	ErrUnknownMode       = errors.New("unknown resolution mode")
)

type Mode string

const (
	ModeStatic     Mode = "static"
	ModeGenerative Mode = "generative"
)

func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeStatic:
		return ModeStatic, nil
	case ModeGenerative, "ai":
		return ModeGenerative, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, value)
	}
}

type Source string

const (
	SourceStatic     Source = "static"
	SourceGenerative Source = "generative"
)

// Result is a resolved descriptor plus how it was produced. Category is the
// keyword classification of the input even when the descriptor was generated.
type Result struct {
	Descriptor classifier.Descriptor
	Category   classifier.Category
	Source     Source
	Reason     string
	Provider   string
	Model      string
}

// Recorder receives every completed resolution.
type Recorder interface {
	Record(ctx context.Context, record *database.VibeRecord) error
}

type Options struct {
	// Generator may be nil when no credential is configured.
	Generator generator.Generator
	// Strict turns a missing generator into ErrCredentialMissing for
	// generative requests instead of a static answer.
	Strict bool
	// StaticDelay is waited before answering static requests.
	StaticDelay time.Duration
	// GenerationTimeout bounds one external call; zero means no extra bound.
	GenerationTimeout time.Duration
	Recorder          Recorder
	Logger            *log.Logger
}

// Resolver turns free text into a descriptor. It holds no mutable state and
// is safe for concurrent use.
type Resolver struct {
	generator   generator.Generator
	strict      bool
	staticDelay time.Duration
	timeout     time.Duration
	recorder    Recorder
	logger      *log.Logger
}

func New(opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Resolver{
		generator:   opts.Generator,
		strict:      opts.Strict,
		staticDelay: opts.StaticDelay,
		timeout:     opts.GenerationTimeout,
		recorder:    opts.Recorder,
		logger:      logger,
	}
}

// GenerativeAvailable reports whether a generator is configured.
func (r *Resolver) GenerativeAvailable() bool {
	return r.generator != nil
}

// Strict reports whether a missing credential is an error.
func (r *Resolver) Strict() bool {
	return r.strict
}

// GeneratorName returns the configured provider name, or "" without one.
func (r *Resolver) GeneratorName() string {
	if r.generator == nil {
		return ""
	}
	return r.generator.Name()
}

// Resolve produces a descriptor for input. In generative mode every failure
// of the external call falls back to the static table; the only errors
// returned are ErrInputRequired, ErrCredentialMissing (strict only),
// ErrUnknownMode and context cancellation during the static delay.
func (r *Resolver) Resolve(ctx context.Context, input string, mode Mode) (Result, error) {
	if strings.TrimSpace(input) == "" {
		return Result{}, ErrInputRequired
	}

	var (
		result Result
		err    error
	)
	switch mode {
	case ModeStatic:
		result, err = r.resolveStatic(ctx, input)
	case ModeGenerative:
		result, err = r.resolveGenerative(ctx, input)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if err != nil {
		return Result{}, err
	}

	r.record(ctx, input, result)
	return result, nil
}

func (r *Resolver) resolveStatic(ctx context.Context, input string) (Result, error) {
	result := staticResult(input, "")

	if r.staticDelay > 0 {
		timer := time.NewTimer(r.staticDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}

	return result, nil
}

func (r *Resolver) resolveGenerative(ctx context.Context, input string) (Result, error) {
	if r.generator == nil {
		if r.strict {
			return Result{}, ErrCredentialMissing
		}
		r.logger.WithField("reason", "credential_missing").Warn("generative mode unavailable, using keyword match")
		return staticResult(input, "fallback:credential_missing"), nil
	}

	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	descriptor, err := r.generator.Generate(callCtx, input)
	if err != nil {
		cause := fallbackCause(err)
		result := staticResult(input, "fallback:"+cause)
		r.logger.WithFields(log.Fields{
			"provider": r.generator.Name(),
			"model":    r.generator.Model(),
			"reason":   cause,
			"category": result.Category,
		}).WithError(err).Warn("generation failed, falling back to keyword match")
		return result, nil
	}

	category, _ := classifier.Classify(input)
	return Result{
		Descriptor: descriptor,
		Category:   category,
		Source:     SourceGenerative,
		Reason:     "generated:" + r.generator.Name(),
		Provider:   r.generator.Name(),
		Model:      r.generator.Model(),
	}, nil
}

func staticResult(input, reason string) Result {
	category, descriptor, classifyReason := classifier.Resolve(input)
	if reason == "" {
		reason = classifyReason
	}
	return Result{
		Descriptor: descriptor,
		Category:   category,
		Source:     SourceStatic,
		Reason:     reason,
	}
}

func fallbackCause(err error) string {
	switch {
	case errors.Is(err, generator.ErrMalformedReply):
		return "malformed_reply"
	case errors.Is(err, generator.ErrEmptyReply):
		return "empty_reply"
	case errors.Is(err, generator.ErrCredentialMissing):
		return "credential_missing"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "provider_error"
	}
}

func (r *Resolver) record(ctx context.Context, input string, result Result) {
	if r.recorder == nil {
		return
	}

	record := &database.VibeRecord{
		Input:    input,
		Category: string(result.Category),
		Source:   string(result.Source),
		Reason:   result.Reason,
		Provider: result.Provider,
		Model:    result.Model,
	}
	// a cancelled request still gets its ledger entry
	if err := r.recorder.Record(context.WithoutCancel(ctx), record); err != nil {
		r.logger.WithError(err).Error("failed to record resolution")
	}
}
