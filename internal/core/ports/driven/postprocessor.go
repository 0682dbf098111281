package driven

import "context"

// TextProcessor rewrites generated text before it is published.
type TextProcessor interface {
	// Name returns the processor identifier used in configuration.
	Name() string

	// Process returns the rewritten text.
	Process(ctx context.Context, text string) (string, error)
}
