package extract

import (
	"errors"
	"fmt"

	"packdex/internal/core/source"
	"packdex/internal/model"
)

// ErrUnsupportedDialect means no extractor is registered for the active
// dialect. Fatal for a build; the query path degrades to fallback search.
var ErrUnsupportedDialect = errors.New("unsupported dialect")

// Extractor turns one raw document into a normalized Profile. Extractors
// are total over well-formed and malformed input alike: missing or
// mistyped fields yield defaults, and only a genuinely unusable document
// (for example one without an id) returns an error.
type Extractor interface {
	Dialect() model.Dialect
	Extract(doc source.Document, pack source.Pack) (model.Profile, error)
}

// ForDialect selects the extractor for the deployment's active dialect.
// The set is closed: documents are never duck-typed at the call site.
func ForDialect(d model.Dialect) (Extractor, error) {
	switch d {
	case model.DialectDnd5e:
		return dnd5eExtractor{}, nil
	case model.DialectPf2e:
		return pf2eExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, d)
	}
}

// Placeholder is the default-safe profile recorded when extraction of a
// single document fails, so a completed build never omits a document.
func Placeholder(doc source.Document, pack source.Pack, ordinal int) model.Profile {
	name := doc.Name()
	if name == "" {
		name = fmt.Sprintf("Unknown (%d)", ordinal)
	}
	id := doc.ID()
	if id == "" {
		id = fmt.Sprintf("%s-unknown-%d", pack.ID, ordinal)
	}
	return model.Profile{
		ID:              id,
		Name:            name,
		PackID:          pack.ID,
		PackLabel:       pack.Label,
		HitPoints:       1,
		ArmorClass:      10,
		Size:            "medium",
		ExtractionError: true,
	}
}

func baseProfile(doc source.Document, pack source.Pack) (model.Profile, error) {
	id := doc.ID()
	if id == "" {
		return model.Profile{}, fmt.Errorf("document has no id")
	}
	name := doc.Name()
	if name == "" {
		name = "Unnamed"
	}
	return model.Profile{
		ID:        id,
		Name:      name,
		PackID:    pack.ID,
		PackLabel: pack.Label,
		ImageRef:  str(doc, "img"),
	}, nil
}
