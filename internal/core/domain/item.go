package domain

// UntitledItem is the title given to items whose title property resolves to nothing.
const UntitledItem = "(untitled)"

// Field is one named content field of an item.
type Field struct {
	Name  string
	Value string
}

// Item is a normalised unit of work built from one Record.
// Content holds exactly the configured fields, in configured order.
type Item struct {
	// ID is the store's opaque record identifier.
	ID string

	// Title is the plain text of the record's title property.
	Title string

	// Content holds the configured fields. Values may be empty.
	Content []Field

	// URL links back to the record.
	URL string
}

// NonEmpty returns the content fields with a non-empty value, in order.
func (i Item) NonEmpty() []Field {
	fields := make([]Field, 0, len(i.Content))
	for _, f := range i.Content {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
