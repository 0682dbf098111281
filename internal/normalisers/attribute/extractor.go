// Package attribute converts typed record properties into plain text.
package attribute

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
	"github.com/custodia-labs/notion-digest/internal/logger"
)

// ListSeparator joins multi-valued properties.
const ListSeparator = ", "

// Extractor renders AttributeValues as plain text.
// It is total over the closed kind set and never fails.
type Extractor struct {
	log *zap.SugaredLogger
}

// NewExtractor creates an extractor. A nil logger uses the package logger.
func NewExtractor(log *zap.SugaredLogger) *Extractor {
	if log == nil {
		log = logger.Named("attribute")
	}
	return &Extractor{log: log}
}

// Extract returns the plain-text form of v.
// Unsupported or nil values yield "" and are reported at warn level.
func (e *Extractor) Extract(v domain.AttributeValue) string {
	switch val := v.(type) {
	case domain.TitleValue:
		return strings.Join(val.Runs, "")
	case domain.RichTextValue:
		return strings.Join(val.Runs, "")
	case domain.NumberValue:
		if val.Value == nil {
			return ""
		}
		return strconv.FormatFloat(*val.Value, 'f', -1, 64)
	case domain.SelectValue:
		return val.Name
	case domain.MultiSelectValue:
		return strings.Join(val.Names, ListSeparator)
	case domain.DateRangeValue:
		if val.End != "" {
			return val.Start + " - " + val.End
		}
		return val.Start
	case domain.BooleanValue:
		return strconv.FormatBool(val.Value)
	case domain.URLValue:
		return val.URL
	case domain.EmailValue:
		return val.Email
	case domain.PhoneValue:
		return val.Number
	case domain.PeopleValue:
		return strings.Join(val.Names, ListSeparator)
	case domain.RelationValue:
		return strings.Join(val.IDs, ListSeparator)
	case domain.UnsupportedValue:
		e.log.Warnw("unsupported attribute kind", "type", val.Type)
		return ""
	default:
		e.log.Warnw("unknown attribute value", "value", v)
		return ""
	}
}

// FindTitle returns the text of the first title-kind property in props.
// Map order is unspecified; records carry at most one title property.
func (e *Extractor) FindTitle(props map[string]domain.AttributeValue) (string, bool) {
	for _, v := range props {
		if v != nil && v.Kind() == domain.KindTitle {
			return e.Extract(v), true
		}
	}
	return "", false
}
