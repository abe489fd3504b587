package extract

import (
	"strings"

	"packdex/internal/core/source"
	"packdex/internal/model"
)

type pf2eExtractor struct{}

func (pf2eExtractor) Dialect() model.Dialect { return model.DialectPf2e }

// Extract normalizes a pf2e actor document. The power metric is the
// creature level; the creature type is derived from the trait list since
// pf2e has no dedicated type field.
func (e pf2eExtractor) Extract(doc source.Document, pack source.Pack) (model.Profile, error) {
	p, err := baseProfile(doc, pack)
	if err != nil {
		return model.Profile{}, err
	}

	if lvl, ok := num(doc,
		"system.details.level.value",
		"system.details.level",
		"data.details.level.value",
	); ok {
		p.PowerMetric = lvl
	}

	p.HitPoints = intval(doc, 1,
		"system.attributes.hp.max",
		"system.attributes.hp.value",
		"data.attributes.hp.max",
	)
	p.ArmorClass = intval(doc, 10,
		"system.attributes.ac.value",
		"data.attributes.ac.value",
	)

	p.Size = str(doc, "system.traits.size.value", "data.traits.size.value")
	if p.Size == "" {
		p.Size = "medium"
	}
	p.Alignment = strings.ToLower(str(doc,
		"system.details.alignment.value",
		"data.details.alignment.value",
	))
	p.Description = str(doc,
		"system.details.publicNotes",
		"data.details.publicNotes",
	)

	p.Traits = stringSlice(doc, "system.traits.value", "data.traits.value")
	p.Rarity = strings.ToLower(str(doc,
		"system.traits.rarity",
		"system.traits.rarity.value",
		"data.traits.rarity.value",
	))
	if p.Rarity == "" {
		p.Rarity = "common"
	}
	p.CreatureType = creatureTypeFromTraits(p.Traits)

	p.HasSpells = hasItemOfKind(doc, "spellcastingEntry") || hasItemOfKind(doc, "spell")

	return p, nil
}

// pf2e creature categories, in rough priority order for documents that
// carry more than one.
var creatureTypeTraits = []string{
	"aberration", "animal", "astral", "beast", "celestial", "construct",
	"dragon", "dream", "elemental", "ethereal", "fey", "fiend", "fungus",
	"giant", "humanoid", "monitor", "ooze", "plant", "spirit", "undead",
}

func creatureTypeFromTraits(traits []string) string {
	if len(traits) == 0 {
		return ""
	}
	set := make(map[string]bool, len(traits))
	for _, t := range traits {
		set[t] = true
	}
	for _, ct := range creatureTypeTraits {
		if set[ct] {
			return ct
		}
	}
	return ""
}
