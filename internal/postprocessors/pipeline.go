// Package postprocessors rewrites generated text before it is published.
package postprocessors

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/custodia-labs/notion-digest/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.TextProcessor = (*Pipeline)(nil)

// Pipeline chains multiple TextProcessors and runs them in order.
type Pipeline struct {
	processors []driven.TextProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.TextProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return "pipeline"
}

// Process runs the text through all processors in order.
// The first failing processor stops the chain.
func (p *Pipeline) Process(ctx context.Context, text string) (string, error) {
	for _, processor := range p.processors {
		var err error
		text, err = processor.Process(ctx, text)
		if err != nil {
			return "", errors.Wrapf(err, "processor %s", processor.Name())
		}
	}
	return text, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.TextProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}
