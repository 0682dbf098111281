// Package tidy normalises whitespace in generated text.
package tidy

import (
	"context"
	"strings"
)

// DefaultMaxBlankLines is the number of consecutive blank lines kept.
const DefaultMaxBlankLines = 1

// Processor trims trailing spaces and collapses runs of blank lines.
type Processor struct {
	maxBlank int
}

// Option configures the tidy processor.
type Option func(*Processor)

// WithMaxBlankLines sets how many consecutive blank lines survive.
func WithMaxBlankLines(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.maxBlank = n
		}
	}
}

// New creates a new tidy processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{maxBlank: DefaultMaxBlankLines}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "tidy"
}

// Process returns text with normalised line endings and spacing.
func (p *Processor) Process(_ context.Context, text string) (string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var b strings.Builder
	blank := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank++
			if blank > p.maxBlank {
				continue
			}
		} else {
			blank = 0
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String()), nil
}
