package driven

import (
	"context"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
)

// RecordStore reads records from the remote document store.
type RecordStore interface {
	// QueryUnprocessed returns records whose status flag is false.
	// A single page is fetched; at most PageSize records are returned.
	// Transport failures are marked with domain.ErrSourceUnavailable.
	QueryUnprocessed(ctx context.Context) ([]domain.Record, error)

	// ListBlocks returns the first page of a record's child blocks, in order.
	ListBlocks(ctx context.Context, recordID string) ([]domain.Block, error)

	// Ping verifies the credentials by fetching the integration's own user.
	Ping(ctx context.Context) error
}

// Committer flags records as processed in the remote store.
type Committer interface {
	// MarkProcessed sets the record's status flag to true.
	// Failures are reported as domain.NotDelivered, never as errors.
	MarkProcessed(ctx context.Context, recordID string) domain.Delivery
}

// PageSize is the number of records or blocks requested per call.
const PageSize = 100
