package file

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
)

// fileSettings mirrors the TOML layout read by the Loader.
type fileSettings struct {
	Notion notionTable `toml:"notion"`
	LLM    llmTable    `toml:"llm"`
	Slack  slackTable  `toml:"slack"`
}

type notionTable struct {
	APIKey            string   `toml:"api_key"`
	DatabaseID        string   `toml:"database_id"`
	StatusProperty    string   `toml:"status_property"`
	ContentProperties []string `toml:"content_properties"`
	BodyProperty      string   `toml:"body_property"`
}

type llmTable struct {
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	APIKey            string  `toml:"api_key,omitempty"`
	BaseURL           string  `toml:"base_url,omitempty"`
	SystemInstruction string  `toml:"system_instruction" multiline:"true"`
	Temperature       float32 `toml:"temperature"`
	TopP              float32 `toml:"top_p"`
	TopK              float32 `toml:"top_k"`
	MaxOutputTokens   int32   `toml:"max_output_tokens"`
}

type slackTable struct {
	WebhookURL string   `toml:"webhook_url"`
	Channel    string   `toml:"channel,omitempty"`
	Format     []string `toml:"format"`
}

// Render returns the settings as TOML in the Loader's file layout.
// Secrets are masked unless reveal is set.
func Render(s domain.Settings, reveal bool) ([]byte, error) {
	secret := Mask
	if reveal {
		secret = func(v string) string { return v }
	}

	out, err := toml.Marshal(fileSettings{
		Notion: notionTable{
			APIKey:            secret(s.Notion.APIKey),
			DatabaseID:        s.Notion.DatabaseID,
			StatusProperty:    s.Notion.StatusProperty,
			ContentProperties: s.Notion.ContentProperties,
			BodyProperty:      s.Notion.BodyProperty,
		},
		LLM: llmTable{
			Provider:          string(s.LLM.Provider),
			Model:             s.LLM.Model,
			APIKey:            secret(s.LLM.APIKey),
			BaseURL:           s.LLM.BaseURL,
			SystemInstruction: s.LLM.SystemInstruction,
			Temperature:       s.LLM.Temperature,
			TopP:              s.LLM.TopP,
			TopK:              s.LLM.TopK,
			MaxOutputTokens:   s.LLM.MaxOutputTokens,
		},
		Slack: slackTable{
			WebhookURL: secret(s.Slack.WebhookURL),
			Channel:    s.Slack.Channel,
			Format:     s.Slack.Format,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "render settings")
	}
	return out, nil
}

// Mask hides all but the last four characters of a secret.
func Mask(v string) string {
	if v == "" {
		return ""
	}
	r := []rune(v)
	if len(r) <= 8 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", 8) + string(r[len(r)-4:])
}
