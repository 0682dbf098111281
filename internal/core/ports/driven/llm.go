package driven

import "context"

// Generator produces text from a prompt using a generative model.
//
// Implementations may include:
//   - Google Gemini
//   - Ollama (local models)
type Generator interface {
	// Generate produces a completion for prompt. An empty result is not an
	// error at this layer; callers decide what an empty completion means.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
// A nil sampling parameter or a zero MaxOutputTokens means "use the
// implementation's default". A non-nil zero is sent as zero.
type GenerateOptions struct {
	// SystemInstruction frames the call (persona, output format).
	SystemInstruction string

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature *float32

	// TopP is the nucleus-sampling threshold.
	TopP *float32

	// TopK limits sampling to the K most likely tokens.
	TopK *float32

	// MaxOutputTokens caps the length of the completion.
	MaxOutputTokens int32
}

// Float32 returns a pointer to v for the sampling fields of GenerateOptions.
func Float32(v float32) *float32 {
	return &v
}
