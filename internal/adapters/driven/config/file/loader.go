package file

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
)

// Configuration file names searched when no explicit path is given.
const (
	ProjectConfigFile = "notion-digest.toml"
	AppDirName        = "notion-digest"
	UserConfigFile    = "config.toml"
	DotEnvFile        = ".env"
)

// Settings keys, in dot notation matching the TOML tables.
const (
	keyNotionAPIKey       = "notion.api_key"
	keyNotionDatabaseID   = "notion.database_id"
	keyNotionStatus       = "notion.status_property"
	keyNotionContent      = "notion.content_properties"
	keyNotionBody         = "notion.body_property"
	keyLLMProvider        = "llm.provider"
	keyLLMModel           = "llm.model"
	keyLLMAPIKey          = "llm.api_key"
	keyLLMBaseURL         = "llm.base_url"
	keyLLMInstruction     = "llm.system_instruction"
	keyLLMTemperature     = "llm.temperature"
	keyLLMTopP            = "llm.top_p"
	keyLLMTopK            = "llm.top_k"
	keyLLMMaxOutputTokens = "llm.max_output_tokens"
	keySlackWebhookURL    = "slack.webhook_url"
	keySlackChannel       = "slack.channel"
	keySlackFormat        = "slack.format"
)

// formatNone disables result formatting.
const formatNone = "none"

// envBindings maps each key to the environment variables that set it,
// in lookup order.
var envBindings = map[string][]string{
	keyNotionAPIKey:       {"NOTION_API_KEY"},
	keyNotionDatabaseID:   {"NOTION_DATABASE_ID"},
	keyNotionStatus:       {"NOTION_STATUS_PROPERTY"},
	keyNotionContent:      {"NOTION_CONTENT_PROPERTIES"},
	keyNotionBody:         {"NOTION_BODY_PROPERTY"},
	keyLLMProvider:        {"LLM_PROVIDER"},
	keyLLMModel:           {"LLM_MODEL", "GEMINI_MODEL", "OLLAMA_MODEL"},
	keyLLMAPIKey:          {"GEMINI_API_KEY"},
	keyLLMBaseURL:         {"LLM_BASE_URL", "OLLAMA_BASE_URL"},
	keyLLMInstruction:     {"GEMINI_SYSTEM_INSTRUCTION"},
	keyLLMTemperature:     {"LLM_TEMPERATURE"},
	keyLLMTopP:            {"LLM_TOP_P"},
	keyLLMTopK:            {"LLM_TOP_K"},
	keyLLMMaxOutputTokens: {"LLM_MAX_OUTPUT_TOKENS"},
	keySlackWebhookURL:    {"SLACK_WEBHOOK_URL"},
	keySlackChannel:       {"SLACK_CHANNEL"},
	keySlackFormat:        {"SLACK_FORMAT"},
}

// LoaderOptions controls where the Loader looks for files.
type LoaderOptions struct {
	// ConfigFile is an explicit TOML file. It must exist when set.
	ConfigFile string

	// SearchPaths are tried in order when ConfigFile is empty; the first
	// existing file wins. Nil uses DefaultSearchPaths.
	SearchPaths []string

	// DotEnvFile is read when present. Empty uses ./.env.
	DotEnvFile string
}

// Loader resolves domain.Settings from layered sources. Precedence, lowest
// to highest: defaults, TOML file, .env file, environment.
type Loader struct {
	opts     LoaderOptions
	v        *viper.Viper
	usedFile string
}

// NewLoader creates a settings loader.
func NewLoader(opts LoaderOptions) *Loader {
	if opts.SearchPaths == nil {
		opts.SearchPaths = DefaultSearchPaths()
	}
	if opts.DotEnvFile == "" {
		opts.DotEnvFile = DotEnvFile
	}
	return &Loader{opts: opts}
}

// DefaultSearchPaths returns ./notion-digest.toml followed by the user
// config file.
func DefaultSearchPaths() []string {
	paths := []string{ProjectConfigFile}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, AppDirName, UserConfigFile))
	}
	return paths
}

// Load reads every layer and returns the effective settings. Settings are
// not validated here; callers decide which values they need.
func (l *Loader) Load() (domain.Settings, error) {
	v := viper.New()
	setDefaults(v)

	if err := l.mergeConfigFile(v); err != nil {
		return domain.Settings{}, err
	}
	if err := l.mergeDotEnv(v); err != nil {
		return domain.Settings{}, err
	}
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return domain.Settings{}, errors.Wrapf(err, "bind %s", key)
		}
	}

	l.v = v
	return settingsFrom(v)
}

// ConfigFile returns the TOML file the last Load read, or "" when none was found.
func (l *Loader) ConfigFile() string {
	return l.usedFile
}

func setDefaults(v *viper.Viper) {
	d := domain.DefaultSettings()
	v.SetDefault(keyNotionStatus, d.Notion.StatusProperty)
	v.SetDefault(keyNotionContent, strings.Join(d.Notion.ContentProperties, ","))
	v.SetDefault(keyNotionBody, d.Notion.BodyProperty)
	v.SetDefault(keyLLMProvider, string(d.LLM.Provider))
	v.SetDefault(keyLLMTemperature, d.LLM.Temperature)
	v.SetDefault(keyLLMTopP, d.LLM.TopP)
	v.SetDefault(keyLLMTopK, d.LLM.TopK)
	v.SetDefault(keyLLMMaxOutputTokens, d.LLM.MaxOutputTokens)
	v.SetDefault(keySlackFormat, strings.Join(d.Slack.Format, ","))
}

func (l *Loader) mergeConfigFile(v *viper.Viper) error {
	path := l.opts.ConfigFile
	if path == "" {
		for _, candidate := range l.opts.SearchPaths {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return nil
		}
	} else if _, err := os.Stat(path); err != nil {
		return errors.WithHint(
			errors.Mark(errors.Wrapf(err, "config file %s", path), domain.ErrConfiguration),
			"check the --config path")
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return errors.Mark(errors.Wrapf(err, "read config file %s", path), domain.ErrConfiguration)
	}
	l.usedFile = path
	return nil
}

// mergeDotEnv folds a .env file into the config layer, so real
// environment variables still take precedence over it.
func (l *Loader) mergeDotEnv(v *viper.Viper) error {
	if _, err := os.Stat(l.opts.DotEnvFile); err != nil {
		return nil
	}

	env := viper.New()
	env.SetConfigFile(l.opts.DotEnvFile)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return errors.Mark(errors.Wrapf(err, "read %s", l.opts.DotEnvFile), domain.ErrConfiguration)
	}

	overrides := make(map[string]any)
	for key, names := range envBindings {
		// Earlier names win, so walk them last to first.
		for i := len(names) - 1; i >= 0; i-- {
			if val := env.GetString(strings.ToLower(names[i])); val != "" {
				setNested(overrides, key, val)
			}
		}
	}
	if len(overrides) == 0 {
		return nil
	}
	return errors.Wrap(v.MergeConfigMap(overrides), "merge .env")
}

// setNested stores val under a dot-notation key, e.g. "a.b" becomes {"a": {"b": val}}.
func setNested(m map[string]any, key string, val any) {
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = val
}

func settingsFrom(v *viper.Viper) (domain.Settings, error) {
	provider := domain.AIProvider(strings.ToLower(strings.TrimSpace(v.GetString(keyLLMProvider))))
	if !provider.IsValid() {
		return domain.Settings{}, errors.WithHint(
			errors.Mark(errors.Wrapf(domain.ErrUnsupportedProvider, "llm provider %q", provider), domain.ErrConfiguration),
			"set LLM_PROVIDER to gemini or ollama")
	}

	model := v.GetString(keyLLMModel)
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	instruction := v.GetString(keyLLMInstruction)
	if instruction == "" {
		instruction = DefaultInstruction
	}

	return domain.Settings{
		Notion: domain.NotionSettings{
			APIKey:            v.GetString(keyNotionAPIKey),
			DatabaseID:        v.GetString(keyNotionDatabaseID),
			StatusProperty:    v.GetString(keyNotionStatus),
			ContentProperties: propertyList(v.Get(keyNotionContent)),
			BodyProperty:      v.GetString(keyNotionBody),
		},
		LLM: domain.LLMSettings{
			Provider:          provider,
			Model:             model,
			APIKey:            v.GetString(keyLLMAPIKey),
			BaseURL:           v.GetString(keyLLMBaseURL),
			SystemInstruction: UnescapeNewlines(instruction),
			Temperature:       float32(v.GetFloat64(keyLLMTemperature)),
			TopP:              float32(v.GetFloat64(keyLLMTopP)),
			TopK:              float32(v.GetFloat64(keyLLMTopK)),
			MaxOutputTokens:   v.GetInt32(keyLLMMaxOutputTokens),
		},
		Slack: domain.SlackSettings{
			WebhookURL: v.GetString(keySlackWebhookURL),
			Channel:    v.GetString(keySlackChannel),
			Format:     formatList(v.Get(keySlackFormat)),
		},
	}, nil
}

// propertyList accepts a comma-separated string or a TOML array and
// returns the trimmed, non-empty names in order.
func propertyList(raw any) []string {
	var items []string
	switch v := raw.(type) {
	case string:
		items = strings.Split(v, ",")
	case []string:
		items = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		if name := strings.TrimSpace(item); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// formatList reads the processor chain. A lone "none" disables formatting.
func formatList(raw any) []string {
	names := propertyList(raw)
	if len(names) == 1 && strings.EqualFold(names[0], formatNone) {
		return []string{}
	}
	return names
}

// UnescapeNewlines turns literal \n sequences into line breaks, so a
// multi-line instruction fits in a single environment variable.
func UnescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
