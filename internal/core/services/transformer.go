package services

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driven"
	"github.com/custodia-labs/notion-digest/internal/logger"
)

// Transformer submits composed item text to a generator.
type Transformer struct {
	gen  driven.Generator
	opts driven.GenerateOptions
	log  *zap.SugaredLogger
}

// NewTransformer creates a transformer with default generation options.
// Unset sampling parameters and a zero MaxOutputTokens fall back to the
// package defaults. An explicit zero is kept.
func NewTransformer(gen driven.Generator, opts driven.GenerateOptions, log *zap.SugaredLogger) *Transformer {
	if log == nil {
		log = logger.Named("transformer")
	}
	return &Transformer{gen: gen, opts: withGenerateDefaults(opts), log: log}
}

// Options returns the default generation options.
func (t *Transformer) Options() driven.GenerateOptions {
	return t.opts
}

// Transform generates output for text using the default instruction.
// Blank input fails with domain.ErrEmptyInput; generation errors and empty
// output fail with domain.ErrModelFailure.
func (t *Transformer) Transform(ctx context.Context, text string) (string, error) {
	return t.generate(ctx, text, t.opts)
}

// TransformWithInstruction is Transform with a one-off system instruction.
// The transformer's defaults are left untouched. A blank instruction uses
// the default.
func (t *Transformer) TransformWithInstruction(ctx context.Context, text, instruction string) (string, error) {
	opts := t.opts
	if strings.TrimSpace(instruction) != "" {
		opts.SystemInstruction = instruction
	}
	return t.generate(ctx, text, opts)
}

func (t *Transformer) generate(ctx context.Context, text string, opts driven.GenerateOptions) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.WithStack(domain.ErrEmptyInput)
	}

	log := logger.FromContext(ctx, t.log)
	log.Debugw("generating", "model", t.gen.ModelName(), "input_chars", len([]rune(text)))

	out, err := t.gen.Generate(ctx, text, opts)
	if err != nil {
		if !errors.Is(err, domain.ErrModelFailure) {
			err = errors.Mark(err, domain.ErrModelFailure)
		}
		return "", errors.Wrap(err, "generate")
	}
	if strings.TrimSpace(out) == "" {
		return "", errors.Wrap(domain.ErrModelFailure, "model returned no text")
	}

	log.Debugw("generated", "output_chars", len([]rune(out)))
	return out, nil
}

func withGenerateDefaults(opts driven.GenerateOptions) driven.GenerateOptions {
	if opts.Temperature == nil {
		opts.Temperature = driven.Float32(domain.DefaultTemperature)
	}
	if opts.TopP == nil {
		opts.TopP = driven.Float32(domain.DefaultTopP)
	}
	if opts.TopK == nil {
		opts.TopK = driven.Float32(domain.DefaultTopK)
	}
	if opts.MaxOutputTokens == 0 {
		opts.MaxOutputTokens = domain.DefaultMaxOutputTokens
	}
	return opts
}
