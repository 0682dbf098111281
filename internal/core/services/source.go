package services

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driven"
	"github.com/custodia-labs/notion-digest/internal/logger"
	"github.com/custodia-labs/notion-digest/internal/normalisers/attribute"
)

// ItemSource turns unprocessed records into normalised items.
type ItemSource struct {
	store     driven.RecordStore
	extractor *attribute.Extractor
	fields    []string
	bodyField string
	log       *zap.SugaredLogger
}

// NewItemSource creates an item source reading fields from store.
// bodyField names the field that falls back to the record body when blank;
// it only takes effect when it is one of fields.
func NewItemSource(store driven.RecordStore, fields []string, bodyField string, log *zap.SugaredLogger) *ItemSource {
	if log == nil {
		log = logger.Named("source")
	}
	return &ItemSource{
		store:     store,
		extractor: attribute.NewExtractor(log.Named("attribute")),
		fields:    fields,
		bodyField: bodyField,
		log:       log,
	}
}

// FetchUnprocessed queries the store once and builds one item per record,
// in the order the store returned them.
func (s *ItemSource) FetchUnprocessed(ctx context.Context) ([]domain.Item, error) {
	log := logger.FromContext(ctx, s.log)
	log.Info("fetching unprocessed items")

	records, err := s.store.QueryUnprocessed(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSourceUnavailable) {
			err = errors.Mark(err, domain.ErrSourceUnavailable)
		}
		return nil, errors.Wrap(err, "query unprocessed records")
	}

	items := make([]domain.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, s.buildItem(ctx, rec))
	}

	log.Infow("fetched unprocessed items", logger.FieldCount, len(items))
	return items, nil
}

func (s *ItemSource) buildItem(ctx context.Context, rec domain.Record) domain.Item {
	title, _ := s.extractor.FindTitle(rec.Properties)
	if title == "" {
		title = domain.UntitledItem
	}

	content := make([]domain.Field, 0, len(s.fields))
	for _, name := range s.fields {
		var value string
		if v, ok := rec.Properties[name]; ok {
			value = s.extractor.Extract(v)
		}
		if name == s.bodyField && value == "" {
			value = s.fetchBody(ctx, rec.ID)
		}
		content = append(content, domain.Field{Name: name, Value: value})
	}

	return domain.Item{
		ID:      rec.ID,
		Title:   title,
		Content: content,
		URL:     rec.URL,
	}
}

// fetchBody concatenates the text of the record's child blocks.
// Failures are soft: the body stays empty.
func (s *ItemSource) fetchBody(ctx context.Context, recordID string) string {
	blocks, err := s.store.ListBlocks(ctx, recordID)
	if err != nil {
		logger.FromContext(ctx, s.log).Warnw("body fetch failed",
			logger.FieldItemID, recordID,
			logger.FieldError, err)
		return ""
	}

	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}
