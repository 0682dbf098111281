package services

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driven"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driving"
	"github.com/custodia-labs/notion-digest/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.Pipeline = (*Pipeline)(nil)

// Pipeline carries each unprocessed item through transform, notify and commit.
// Items are processed one at a time in fetch order. A failing item never
// stops the batch.
type Pipeline struct {
	source      *ItemSource
	transformer *Transformer
	notifier    driven.Notifier
	committer   driven.Committer
	log         *zap.SugaredLogger
	now         func() time.Time
}

// NewPipeline creates a pipeline from its collaborators.
func NewPipeline(
	source *ItemSource,
	transformer *Transformer,
	notifier driven.Notifier,
	committer driven.Committer,
	log *zap.SugaredLogger,
) *Pipeline {
	if log == nil {
		log = logger.Named("pipeline")
	}
	return &Pipeline{
		source:      source,
		transformer: transformer,
		notifier:    notifier,
		committer:   committer,
		log:         log,
		now:         time.Now,
	}
}

// Run executes one pass over the unprocessed records.
func (p *Pipeline) Run(ctx context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	report := &domain.RunReport{
		RunID:     uuid.NewString(),
		DryRun:    opts.DryRun,
		StartedAt: p.now(),
	}
	defer func() { report.FinishedAt = p.now() }()

	ctx = logger.WithRunID(ctx, report.RunID)
	log := logger.FromContext(ctx, p.log)
	log.Info("pipeline started")

	// 1. Fetch candidates
	items, err := p.source.FetchUnprocessed(ctx)
	if err != nil {
		log.Errorw("fetch failed", logger.FieldError, err)
		return report, err
	}
	if opts.Limit > 0 && len(items) > opts.Limit {
		log.Infow("limiting candidates", "fetched", len(items), "limit", opts.Limit)
		items = items[:opts.Limit]
	}
	report.Candidates = items

	if len(items) == 0 {
		log.Info("no unprocessed items")
		return report, nil
	}

	// 2. Dry run lists candidates only
	if opts.DryRun {
		log.Infow("dry run: items that would be processed", logger.FieldCount, len(items))
		for _, item := range items {
			log.Infow("candidate", "title", item.Title, logger.FieldItemID, item.ID)
		}
		return report, nil
	}

	// 3. Process sequentially
	report.Results = make([]domain.ProcessingResult, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			log.Warnw("run interrupted",
				"processed", len(report.Results),
				"remaining", len(items)-len(report.Results))
			return report, errors.Wrap(err, "run interrupted")
		}

		result := p.processItem(ctx, item, opts.Instruction)
		report.Results = append(report.Results, result)

		if !result.Outcome.OK() && result.Outcome.Reason() != "" {
			p.notifyFailure(ctx, item, result.Outcome.Reason())
		}
	}

	log.Infow("pipeline finished",
		"succeeded", report.Succeeded(),
		"failed", report.Failed())
	return report, nil
}

// processItem runs one item through the state machine. Panics are recovered
// and become a failure for this item only.
func (p *Pipeline) processItem(ctx context.Context, item domain.Item, instruction string) (result domain.ProcessingResult) {
	log := logger.FromContext(ctx, p.log).With(logger.FieldItemID, item.ID)
	log.Infow("processing item", "title", item.Title)

	defer func() {
		if r := recover(); r != nil {
			log.Errorw("unexpected error", "panic", r, "stack", string(debug.Stack()))
			result = domain.ProcessingResult{
				Item:    item,
				Outcome: domain.Failure(fmt.Sprintf("unexpected error: %v", r)),
			}
		}
	}()

	result = domain.ProcessingResult{Item: item}

	input := ComposeInput(item)
	if input == titleHeading(item.Title) {
		log.Warn("empty content, skipping")
		result.Outcome = domain.Failure(domain.ReasonEmptyContent)
		return result
	}

	output, err := p.transformer.TransformWithInstruction(ctx, input, instruction)
	if err != nil {
		log.Errorw("transform failed", logger.FieldError, err)
		result.Outcome = domain.Failure(err.Error())
		return result
	}
	result.Outcome = domain.Success(output)

	// From here on the outcome stays Success.
	result.Notified = p.notifySuccess(ctx, log, item, output)
	result.Committed = p.commit(ctx, log, item)

	log.Infow("item processed", "notified", result.Notified, "committed", result.Committed)
	return result
}

// notifySuccess posts the result. A panic counts as not delivered.
func (p *Pipeline) notifySuccess(ctx context.Context, log *zap.SugaredLogger, item domain.Item, output string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("success notification panicked", "panic", r)
			ok = false
		}
	}()

	d := p.notifier.NotifySuccess(ctx, driven.SuccessNotice{
		Title:    item.Title,
		Original: OriginalText(item),
		Result:   output,
		Link:     item.URL,
	})
	if !d.OK() {
		log.Warnw("success notification not delivered", "reason", d.Reason())
	}
	return d.OK()
}

// commit marks the item processed. A panic counts as not committed.
func (p *Pipeline) commit(ctx context.Context, log *zap.SugaredLogger, item domain.Item) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("commit panicked", "panic", r)
			ok = false
		}
	}()

	d := p.committer.MarkProcessed(ctx, item.ID)
	if !d.OK() {
		log.Warnw("commit failed", "reason", d.Reason())
	}
	return d.OK()
}

// notifyFailure sends the failure side channel. Its outcome is only logged.
func (p *Pipeline) notifyFailure(ctx context.Context, item domain.Item, reason string) {
	log := logger.FromContext(ctx, p.log).With(logger.FieldItemID, item.ID)
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("failure notification panicked", "panic", r)
		}
	}()

	d := p.notifier.NotifyFailure(ctx, driven.FailureNotice{
		Title:  item.Title,
		Reason: reason,
		Link:   item.URL,
	})
	if !d.OK() {
		log.Warnw("failure notification not delivered", "reason", d.Reason())
	}
}

// ComposeInput builds the generator input: a title heading followed by one
// section per non-empty content field.
func ComposeInput(item domain.Item) string {
	parts := []string{titleHeading(item.Title)}
	for _, f := range item.NonEmpty() {
		parts = append(parts, "\n## "+f.Name+"\n"+f.Value)
	}
	return strings.Join(parts, "\n")
}

// OriginalText renders the non-empty content fields as "name: value" lines.
func OriginalText(item domain.Item) string {
	fields := item.NonEmpty()
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, f.Name+": "+f.Value)
	}
	return strings.Join(lines, "\n")
}

func titleHeading(title string) string {
	return "# " + title
}
