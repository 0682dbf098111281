package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// AIProvider identifies the generation service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// Generation defaults applied when the caller supplies none.
const (
	DefaultTemperature     float32 = 0.7
	DefaultTopP            float32 = 0.95
	DefaultTopK            float32 = 40
	DefaultMaxOutputTokens int32   = 8192
)

// NotionSettings configures the record store.
type NotionSettings struct {
	// APIKey is the integration token.
	APIKey string

	// DatabaseID identifies the database to read from.
	DatabaseID string

	// StatusProperty names the checkbox that marks a record as processed.
	StatusProperty string

	// ContentProperties lists the fields copied into each item, in order.
	ContentProperties []string

	// BodyProperty names the field that falls back to the page body when blank.
	BodyProperty string
}

// LLMSettings configures the generation provider.
type LLMSettings struct {
	// Provider selects the backend. Defaults to gemini.
	Provider AIProvider

	// Model is the model name.
	Model string

	// APIKey is the API key (for Gemini).
	APIKey string

	// BaseURL is the API endpoint (for Ollama, or a Gemini override).
	BaseURL string

	// SystemInstruction frames every generation call.
	SystemInstruction string

	Temperature     float32
	TopP            float32
	TopK            float32
	MaxOutputTokens int32
}

// SlackSettings configures the notification channel.
type SlackSettings struct {
	// WebhookURL is the incoming webhook destination.
	WebhookURL string

	// Channel optionally overrides the webhook's default channel.
	Channel string

	// Format names the text processors applied to each result before
	// posting, in order. Empty posts the model output as is.
	Format []string
}

// Settings holds all runtime configuration.
type Settings struct {
	Notion NotionSettings
	LLM    LLMSettings
	Slack  SlackSettings
}

// DefaultLLMModels returns default models for each provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "gemini-1.5-pro",
		AIProviderOllama: "llama3.2",
	}
}

// DefaultSettings returns settings with every optional value filled in.
// Credentials and identifiers are left empty.
func DefaultSettings() Settings {
	return Settings{
		Notion: NotionSettings{
			StatusProperty:    "処理済み",
			ContentProperties: []string{"タイトル", "本文"},
			BodyProperty:      "本文",
		},
		LLM: LLMSettings{
			Provider:        AIProviderGemini,
			Model:           DefaultLLMModels()[AIProviderGemini],
			Temperature:     DefaultTemperature,
			TopP:            DefaultTopP,
			TopK:            DefaultTopK,
			MaxOutputTokens: DefaultMaxOutputTokens,
		},
		Slack: SlackSettings{
			Format: []string{"mrkdwn", "tidy"},
		},
	}
}

// Missing returns the names of required settings that are empty.
func (s Settings) Missing() []string {
	var missing []string
	if s.Notion.APIKey == "" {
		missing = append(missing, "NOTION_API_KEY")
	}
	if s.Notion.DatabaseID == "" {
		missing = append(missing, "NOTION_DATABASE_ID")
	}
	if s.LLM.Provider.RequiresAPIKey() && s.LLM.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if s.Slack.WebhookURL == "" {
		missing = append(missing, "SLACK_WEBHOOK_URL")
	}
	return missing
}

// Validate returns ErrConfiguration when a required value is missing or
// a value is out of range.
func (s Settings) Validate() error {
	if missing := s.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfiguration, strings.Join(missing, ", "))
	}
	if !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: %w %q", ErrConfiguration, ErrUnsupportedProvider, s.LLM.Provider)
	}
	if s.Notion.StatusProperty == "" {
		return fmt.Errorf("%w: status property must not be empty", ErrConfiguration)
	}
	if len(s.Notion.ContentProperties) == 0 {
		return fmt.Errorf("%w: at least one content property is required", ErrConfiguration)
	}
	return nil
}
