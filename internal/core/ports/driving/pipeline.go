package driving

import (
	"context"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
)

// Pipeline carries unprocessed records through transform, notify and commit.
type Pipeline interface {
	// Run processes every unprocessed record once, in fetch order.
	// Per-item failures are recorded in the report, never returned.
	// An error is returned only when the source cannot be queried or ctx
	// is cancelled; the report is non-nil in both cases.
	Run(ctx context.Context, opts RunOptions) (*domain.RunReport, error)
}

// RunOptions configures a single run.
type RunOptions struct {
	// DryRun lists candidates without transforming, notifying or committing.
	DryRun bool

	// Limit caps the number of items processed. Zero means no limit.
	Limit int

	// Instruction overrides the system instruction for this run only.
	Instruction string
}
