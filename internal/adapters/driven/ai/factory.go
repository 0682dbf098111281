// Package ai provides factory functions for creating generation adapters.
package ai

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	geminillm "github.com/custodia-labs/notion-digest/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/notion-digest/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/notion-digest/internal/core/domain"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driven"
	"github.com/custodia-labs/notion-digest/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateGenerator creates the generator for the configured provider.
func CreateGenerator(ctx context.Context, settings *domain.LLMSettings) (driven.Generator, error) {
	if settings == nil {
		return nil, errors.Mark(errors.New("llm settings are required"), domain.ErrConfiguration)
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return createGemini(ctx, settings, logger.Named("gemini"))

	case domain.AIProviderOllama:
		return createOllama(settings), nil

	default:
		return nil, errors.WithHint(
			errors.Wrapf(domain.ErrUnsupportedProvider, "llm provider %q", settings.Provider),
			"use gemini or ollama")
	}
}

// CreateAndValidateGenerator creates a generator and validates connectivity.
// Returns the generator if successful, or an error with guidance.
func CreateAndValidateGenerator(ctx context.Context, settings *domain.LLMSettings) (driven.Generator, error) {
	gen, err := CreateGenerator(ctx, settings)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := gen.Ping(pingCtx); err != nil {
		_ = gen.Close()
		return nil, errors.WithHint(
			errors.Mark(errors.Wrapf(err, "%s unreachable", settings.Provider), domain.ErrModelFailure),
			"run 'notion-digest check' to verify credentials")
	}
	return gen, nil
}

// ValidateLLMConfig creates a generator and pings it without keeping it.
func ValidateLLMConfig(ctx context.Context, settings *domain.LLMSettings) error {
	gen, err := CreateAndValidateGenerator(ctx, settings)
	if err != nil {
		return err
	}
	return gen.Close()
}

func createGemini(ctx context.Context, settings *domain.LLMSettings, log *zap.SugaredLogger) (driven.Generator, error) {
	return geminillm.NewLLMService(ctx, geminillm.LLMConfig{
		APIKey:  settings.APIKey,
		Model:   settings.Model,
		BaseURL: settings.BaseURL,
	}, log)
}

func createOllama(settings *domain.LLMSettings) driven.Generator {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
