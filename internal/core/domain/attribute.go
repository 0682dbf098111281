package domain

// AttributeKind names the closed set of property kinds a record may carry.
type AttributeKind string

// Supported attribute kinds.
const (
	KindTitle       AttributeKind = "title"
	KindRichText    AttributeKind = "rich_text"
	KindNumber      AttributeKind = "number"
	KindSelect      AttributeKind = "select"
	KindMultiSelect AttributeKind = "multi_select"
	KindDateRange   AttributeKind = "date_range"
	KindBoolean     AttributeKind = "boolean"
	KindURL         AttributeKind = "url"
	KindEmail       AttributeKind = "email"
	KindPhone       AttributeKind = "phone"
	KindPeople      AttributeKind = "people"
	KindRelation    AttributeKind = "relation"
	KindUnsupported AttributeKind = "unsupported"
)

// String returns the string representation.
func (k AttributeKind) String() string {
	return string(k)
}

// AttributeValue is one typed property value as returned by the record store.
// The set of implementations is closed to this package.
type AttributeValue interface {
	Kind() AttributeKind
	attribute()
}

// TitleValue holds the text runs of a title property.
type TitleValue struct {
	Runs []string
}

// RichTextValue holds the text runs of a rich text property.
type RichTextValue struct {
	Runs []string
}

// NumberValue holds a numeric property. Value is nil when the cell is empty.
type NumberValue struct {
	Value *float64
}

// SelectValue holds the chosen option name, empty when nothing is selected.
type SelectValue struct {
	Name string
}

// MultiSelectValue holds option names in the order the store returned them.
type MultiSelectValue struct {
	Names []string
}

// DateRangeValue holds a date or date range as the store formats it.
// End is empty for single dates.
type DateRangeValue struct {
	Start string
	End   string
}

// BooleanValue holds a checkbox property.
type BooleanValue struct {
	Value bool
}

// URLValue holds a URL property.
type URLValue struct {
	URL string
}

// EmailValue holds an email property.
type EmailValue struct {
	Email string
}

// PhoneValue holds a phone number property.
type PhoneValue struct {
	Number string
}

// PeopleValue holds display names of the referenced users.
type PeopleValue struct {
	Names []string
}

// RelationValue holds identifiers of the related records.
type RelationValue struct {
	IDs []string
}

// UnsupportedValue stands in for any kind this package does not model.
// Type carries the store's own type tag for diagnostics.
type UnsupportedValue struct {
	Type string
}

func (TitleValue) Kind() AttributeKind       { return KindTitle }
func (RichTextValue) Kind() AttributeKind    { return KindRichText }
func (NumberValue) Kind() AttributeKind      { return KindNumber }
func (SelectValue) Kind() AttributeKind      { return KindSelect }
func (MultiSelectValue) Kind() AttributeKind { return KindMultiSelect }
func (DateRangeValue) Kind() AttributeKind   { return KindDateRange }
func (BooleanValue) Kind() AttributeKind     { return KindBoolean }
func (URLValue) Kind() AttributeKind         { return KindURL }
func (EmailValue) Kind() AttributeKind       { return KindEmail }
func (PhoneValue) Kind() AttributeKind       { return KindPhone }
func (PeopleValue) Kind() AttributeKind      { return KindPeople }
func (RelationValue) Kind() AttributeKind    { return KindRelation }
func (UnsupportedValue) Kind() AttributeKind { return KindUnsupported }

func (TitleValue) attribute()       {}
func (RichTextValue) attribute()    {}
func (NumberValue) attribute()      {}
func (SelectValue) attribute()      {}
func (MultiSelectValue) attribute() {}
func (DateRangeValue) attribute()   {}
func (BooleanValue) attribute()     {}
func (URLValue) attribute()         {}
func (EmailValue) attribute()       {}
func (PhoneValue) attribute()       {}
func (PeopleValue) attribute()      {}
func (RelationValue) attribute()    {}
func (UnsupportedValue) attribute() {}

// Record is a raw database row: its identifier, canonical link and typed properties.
type Record struct {
	ID         string
	URL        string
	Properties map[string]AttributeValue
}

// Block is one child block of a record's body.
// Text is empty for blocks that carry no text.
type Block struct {
	Type string
	Text string
}
