package extract

import (
	"strings"

	"packdex/internal/core/source"
	"packdex/internal/model"
)

type dnd5eExtractor struct{}

func (dnd5eExtractor) Dialect() model.Dialect { return model.DialectDnd5e }

// Extract normalizes a dnd5e actor document. The power metric is the
// challenge rating, which appears both as a plain number and as a
// fractional string ("1/4").
func (e dnd5eExtractor) Extract(doc source.Document, pack source.Pack) (model.Profile, error) {
	p, err := baseProfile(doc, pack)
	if err != nil {
		return model.Profile{}, err
	}

	if cr, ok := num(doc,
		"system.details.cr",
		"system.details.cr.value",
		"data.details.cr",
	); ok {
		p.PowerMetric = cr
	}

	p.HitPoints = intval(doc, 1,
		"system.attributes.hp.value",
		"system.attributes.hp.max",
		"data.attributes.hp.value",
	)
	p.ArmorClass = intval(doc, 10,
		"system.attributes.ac.flat",
		"system.attributes.ac.value",
		"data.attributes.ac.value",
	)

	p.Size = normalizeSize(str(doc, "system.traits.size", "data.traits.size"))
	p.Alignment = strings.ToLower(str(doc,
		"system.details.alignment",
		"data.details.alignment",
	))
	p.CreatureType = strings.ToLower(str(doc,
		"system.details.type.value",
		"system.details.type",
		"data.details.type",
	))
	p.Description = str(doc,
		"system.details.biography.public",
		"system.details.biography.value",
		"data.details.biography.value",
	)

	p.HasSpells = str(doc, "system.attributes.spellcasting") != "" ||
		hasItemOfKind(doc, "spell")
	p.HasLegendaryActions = intval(doc, 0,
		"system.resources.legact.max",
		"data.resources.legact.max",
	) > 0

	return p, nil
}

// dnd5e stores sizes as abbreviations.
var sizeNames = map[string]string{
	"tiny": "tiny",
	"sm":   "small",
	"med":  "medium",
	"lg":   "large",
	"huge": "huge",
	"grg":  "gargantuan",
}

func normalizeSize(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "medium"
	}
	if full, ok := sizeNames[raw]; ok {
		return full
	}
	return raw
}

// hasItemOfKind scans the document's embedded items for one of the given
// kind. Items are arbitrary records; anything malformed is skipped.
func hasItemOfKind(doc source.Document, kind string) bool {
	raw, ok := doc["items"].([]any)
	if !ok {
		return false
	}
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if t, ok := m["type"].(string); ok && t == kind {
			return true
		}
	}
	return false
}
