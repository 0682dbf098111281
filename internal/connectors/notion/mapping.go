package notion

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/notion-digest/internal/core/domain"
)

const (
	dateOnly = "2006-01-02"

	// dateTime is the layout Notion uses for datetimes.
	dateTime = "2006-01-02T15:04:05.000Z07:00"
)

// toRecord converts a database query result into a domain record.
func toRecord(page notionapi.Page) domain.Record {
	props := make(map[string]domain.AttributeValue, len(page.Properties))
	for name, p := range page.Properties {
		props[name] = toAttribute(p)
	}
	return domain.Record{
		ID:         page.ID.String(),
		URL:        page.URL,
		Properties: props,
	}
}

// toAttribute maps a notionapi property onto the closed attribute set.
// Anything outside that set becomes UnsupportedValue.
func toAttribute(p notionapi.Property) domain.AttributeValue {
	switch v := p.(type) {
	case *notionapi.TitleProperty:
		return domain.TitleValue{Runs: plainTexts(v.Title)}
	case *notionapi.RichTextProperty:
		return domain.RichTextValue{Runs: plainTexts(v.RichText)}
	case *notionapi.NumberProperty:
		n := v.Number
		return domain.NumberValue{Value: &n}
	case *notionapi.SelectProperty:
		return domain.SelectValue{Name: v.Select.Name}
	case *notionapi.MultiSelectProperty:
		names := make([]string, 0, len(v.MultiSelect))
		for _, o := range v.MultiSelect {
			names = append(names, o.Name)
		}
		return domain.MultiSelectValue{Names: names}
	case *notionapi.DateProperty:
		if v.Date == nil {
			return domain.DateRangeValue{}
		}
		return domain.DateRangeValue{Start: formatDate(v.Date.Start), End: formatDate(v.Date.End)}
	case *notionapi.CheckboxProperty:
		return domain.BooleanValue{Value: v.Checkbox}
	case *notionapi.URLProperty:
		return domain.URLValue{URL: v.URL}
	case *notionapi.EmailProperty:
		return domain.EmailValue{Email: v.Email}
	case *notionapi.PhoneNumberProperty:
		return domain.PhoneValue{Number: v.PhoneNumber}
	case *notionapi.PeopleProperty:
		names := make([]string, 0, len(v.People))
		for _, u := range v.People {
			names = append(names, u.Name)
		}
		return domain.PeopleValue{Names: names}
	case *notionapi.RelationProperty:
		ids := make([]string, 0, len(v.Relation))
		for _, r := range v.Relation {
			ids = append(ids, r.ID.String())
		}
		return domain.RelationValue{IDs: ids}
	case nil:
		return domain.UnsupportedValue{Type: "null"}
	default:
		return domain.UnsupportedValue{Type: string(p.GetType())}
	}
}

// formatDate renders a date in the form Notion sent it. notionapi parses
// both forms into time.Time, so a datetime of exactly midnight UTC is
// indistinguishable from a date and comes out as YYYY-MM-DD.
func formatDate(d *notionapi.Date) string {
	if d == nil {
		return ""
	}
	t := time.Time(*d)
	if t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(dateOnly)
	}
	return t.Format(dateTime)
}

// toBlock extracts the plain text of text-bearing blocks.
// Other block types are returned with empty text.
func toBlock(b notionapi.Block) domain.Block {
	var runs []notionapi.RichText
	switch v := b.(type) {
	case *notionapi.ParagraphBlock:
		runs = v.Paragraph.RichText
	case *notionapi.Heading1Block:
		runs = v.Heading1.RichText
	case *notionapi.Heading2Block:
		runs = v.Heading2.RichText
	case *notionapi.Heading3Block:
		runs = v.Heading3.RichText
	case *notionapi.BulletedListItemBlock:
		runs = v.BulletedListItem.RichText
	case *notionapi.NumberedListItemBlock:
		runs = v.NumberedListItem.RichText
	case *notionapi.ToDoBlock:
		runs = v.ToDo.RichText
	case *notionapi.ToggleBlock:
		runs = v.Toggle.RichText
	case *notionapi.QuoteBlock:
		runs = v.Quote.RichText
	case *notionapi.CalloutBlock:
		runs = v.Callout.RichText
	case *notionapi.CodeBlock:
		runs = v.Code.RichText
	}

	var text string
	for _, r := range runs {
		text += r.PlainText
	}
	return domain.Block{Type: string(b.GetType()), Text: text}
}

func plainTexts(rt []notionapi.RichText) []string {
	runs := make([]string, 0, len(rt))
	for _, r := range rt {
		runs = append(runs, r.PlainText)
	}
	return runs
}
