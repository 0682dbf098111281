package postprocessors

import (
	"github.com/custodia-labs/notion-digest/internal/core/ports/driven"
	"github.com/custodia-labs/notion-digest/internal/postprocessors/mrkdwn"
	"github.com/custodia-labs/notion-digest/internal/postprocessors/tidy"
)

// DefaultNames is the processor chain applied to generated text when the
// configuration names none.
var DefaultNames = []string{"mrkdwn", "tidy"}

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("mrkdwn", buildMrkdwn)
	r.Register("tidy", buildTidy)
}

func buildMrkdwn(map[string]any) (driven.TextProcessor, error) {
	return mrkdwn.New(), nil
}

// buildTidy creates a tidy processor from generic config.
// Supported config keys:
//   - max_blank_lines (int): blank lines kept between paragraphs (default: 1)
func buildTidy(cfg map[string]any) (driven.TextProcessor, error) {
	var opts []tidy.Option
	if cfg != nil {
		if n, ok := getIntFromConfig(cfg, "max_blank_lines"); ok {
			opts = append(opts, tidy.WithMaxBlankLines(n))
		}
	}
	return tidy.New(opts...), nil
}

// getIntFromConfig extracts an int from a generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
