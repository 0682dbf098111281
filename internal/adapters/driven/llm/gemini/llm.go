// Package gemini provides a Generator adapter using the Google Gemini API.
package gemini

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
	"github.com/custodia-labs/notion-digest/internal/core/ports/driven"
	"github.com/custodia-labs/notion-digest/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.Generator = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultLLMModel   = "gemini-1.5-pro"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the Gemini service.
type LLMConfig struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the model to use (default: gemini-1.5-pro).
	Model string

	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// HTTPClient overrides the SDK's HTTP client.
	HTTPClient *http.Client
}

// LLMService generates text with a Gemini model.
type LLMService struct {
	client *genai.Client
	model  string
	log    *zap.SugaredLogger
}

// NewLLMService creates a Gemini service. No request is made until
// Generate or Ping is called.
func NewLLMService(ctx context.Context, cfg LLMConfig, log *zap.SugaredLogger) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.WithHint(
			errors.Mark(errors.New("gemini: API key is required"), domain.ErrConfiguration),
			"set GEMINI_API_KEY or llm.api_key in the config file")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	if log == nil {
		log = logger.Named("gemini")
	}

	timeout := cfg.Timeout
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
			Timeout: &timeout,
		},
	})
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "gemini: create client"), domain.ErrConfiguration)
	}

	return &LLMService{client: client, model: cfg.Model, log: log}, nil
}

// Generate sends prompt as a single user turn. A prompt blocked by the
// safety filters, or a candidate stopped for safety, is reported as an
// error naming the reason.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		generateConfig(opts))
	if err != nil {
		return "", errors.Mark(wrapAPIError(err), domain.ErrModelFailure)
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		reason := string(fb.BlockReason)
		if fb.BlockReasonMessage != "" {
			reason += ": " + fb.BlockReasonMessage
		}
		return "", errors.Mark(errors.Newf("gemini: prompt blocked (%s)", reason), domain.ErrModelFailure)
	}

	if len(resp.Candidates) > 0 {
		switch fr := resp.Candidates[0].FinishReason; fr {
		case genai.FinishReasonSafety, genai.FinishReasonBlocklist, genai.FinishReasonProhibitedContent:
			return "", errors.Mark(errors.Newf("gemini: response blocked (%s)", fr), domain.ErrModelFailure)
		}
	}

	text := resp.Text()
	s.log.Debugw("generated", "model", s.model, "chars", len(text))
	return text, nil
}

func generateConfig(opts driven.GenerateOptions) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if strings.TrimSpace(opts.SystemInstruction) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(opts.SystemInstruction, genai.RoleUser)
	}
	if opts.Temperature != nil {
		cfg.Temperature = genai.Ptr(*opts.Temperature)
	}
	if opts.TopP != nil {
		cfg.TopP = genai.Ptr(*opts.TopP)
	}
	if opts.TopK != nil {
		cfg.TopK = genai.Ptr(*opts.TopK)
	}
	if opts.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = opts.MaxOutputTokens
	}
	return cfg
}

// wrapAPIError keeps the status and message of an API error and drops the
// SDK's verbose details dump.
func wrapAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return errors.Newf("gemini: status %d: %s", apiErr.Code, apiErr.Message)
	}
	return errors.Wrap(err, "gemini")
}

// ModelName returns the name of the model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the key and model by fetching the model's metadata.
// This does not run inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.Models.Get(ctx, s.model, nil); err != nil {
		return errors.Wrapf(wrapAPIError(err), "ping model %s", s.model)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
