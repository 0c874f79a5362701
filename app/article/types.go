package article

// Well-known field names populated by the parser. Comparison configurations
// may reference arbitrary additional names; those are treated as opaque keys.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldLink        = "link"
	FieldGUID        = "guid"
	FieldAuthor      = "author"
	FieldPublished   = "published"
	FieldContent     = "content"
	FieldCategories  = "categories"
)

// Article is a single normalized feed item. ID is always non-empty and stable
// across re-parses of the same raw input. Fields holds the optional named
// values; a missing key means the source item did not carry that field.
type Article struct {
	ID     string
	Fields map[string]string
}

// Field returns the named field value and whether it is present.
func (a Article) Field(name string) (string, bool) {
	if name == FieldID {
		return a.ID, true
	}
	v, ok := a.Fields[name]
	return v, ok
}

// Classification is the verdict for a single article against the stored
// fingerprints of its feed.
type Classification int

const (
	// ClassSeen means the id and all present comparison field values have
	// been observed before.
	ClassSeen Classification = iota
	// ClassNew means the article id has never been observed for the feed.
	ClassNew
	// ClassChanged means the id is known but comparison fields carry
	// unobserved values.
	ClassChanged
)

func (c Classification) String() string {
	switch c {
	case ClassNew:
		return "new"
	case ClassChanged:
		return "changed"
	default:
		return "seen"
	}
}

// MatchStrategy selects how comparison field changes roll up into a
// Changed verdict.
type MatchStrategy string

const (
	// MatchAnyChangedField reports Changed as soon as one present comparison
	// field carries an unobserved value.
	MatchAnyChangedField MatchStrategy = "any"
	// MatchAllFields reports Changed only when every comparison field present
	// on the article carries an unobserved value.
	MatchAllFields MatchStrategy = "all"
)
