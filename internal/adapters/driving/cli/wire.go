package cli

import (
	"context"
	"fmt"

	"github.com/custodia-labs/notion-digest/internal/adapters/driven/ai"
	"github.com/custodia-labs/notion-digest/internal/adapters/driven/notify/slack"
	"github.com/custodia-labs/notion-digest/internal/connectors/notion"
	"github.com/custodia-labs/notion-digest/internal/core/domain"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driven"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driving"
	"github.com/custodia-labs/notion-digest/internal/core/services"
	"github.com/custodia-labs/notion-digest/internal/logger"
	"github.com/custodia-labs/notion-digest/internal/postprocessors"
)

// runner is a pipeline that holds clients until Close.
type runner interface {
	driving.Pipeline
	Close() error
}

// generatorPipeline closes the generator behind the pipeline.
type generatorPipeline struct {
	*services.Pipeline
	gen driven.Generator
}

func (p *generatorPipeline) Close() error {
	return p.gen.Close()
}

// buildPipeline constructs every client once and injects them into the
// pipeline services.
func buildPipeline(ctx context.Context, settings domain.Settings) (runner, error) {
	store, err := notion.NewClient(notion.Config{
		APIKey:         settings.Notion.APIKey,
		DatabaseID:     settings.Notion.DatabaseID,
		StatusProperty: settings.Notion.StatusProperty,
	}, logger.Named("notion"))
	if err != nil {
		return nil, err
	}

	gen, err := ai.CreateGenerator(ctx, &settings.LLM)
	if err != nil {
		return nil, err
	}

	format, err := buildFormat(settings.Slack.Format)
	if err != nil {
		_ = gen.Close()
		return nil, err
	}

	notifier, err := slack.NewNotifier(slack.Config{
		WebhookURL: settings.Slack.WebhookURL,
		Channel:    settings.Slack.Channel,
		Footer:     fmt.Sprintf("🤖 _Processed automatically by %s_", gen.ModelName()),
		Format:     format,
	}, logger.Named("slack"))
	if err != nil {
		_ = gen.Close()
		return nil, err
	}

	source := services.NewItemSource(store, settings.Notion.ContentProperties, settings.Notion.BodyProperty,
		logger.Named("source"))
	transformer := services.NewTransformer(gen, generateOptions(settings.LLM), logger.Named("transformer"))

	return &generatorPipeline{
		Pipeline: services.NewPipeline(source, transformer, notifier, store, logger.Named("pipeline")),
		gen:      gen,
	}, nil
}

// buildFormat returns the result processor chain, or nil when none is named.
func buildFormat(names []string) (driven.TextProcessor, error) {
	if len(names) == 0 {
		return nil, nil
	}
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	chain, err := registry.BuildPipeline(names)
	if err != nil {
		return nil, err
	}
	return chain, nil
}

func generateOptions(llm domain.LLMSettings) driven.GenerateOptions {
	return driven.GenerateOptions{
		SystemInstruction: llm.SystemInstruction,
		Temperature:       driven.Float32(llm.Temperature),
		TopP:              driven.Float32(llm.TopP),
		TopK:              driven.Float32(llm.TopK),
		MaxOutputTokens:   llm.MaxOutputTokens,
	}
}
