package driven

import (
	"context"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
)

// SuccessNotice describes a successfully transformed item.
type SuccessNotice struct {
	// Title is the item title.
	Title string

	// Original is the source text shown for reference.
	Original string

	// Result is the generated text.
	Result string

	// Link points back to the record. Optional.
	Link string
}

// FailureNotice describes an item that could not be transformed.
type FailureNotice struct {
	Title  string
	Reason string
	Link   string
}

// Notifier publishes processing outcomes to a notification channel.
// Both calls are best-effort: failures come back as domain.NotDelivered.
type Notifier interface {
	NotifySuccess(ctx context.Context, notice SuccessNotice) domain.Delivery
	NotifyFailure(ctx context.Context, notice FailureNotice) domain.Delivery
}
