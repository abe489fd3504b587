package query

import (
	"sort"
	"strings"

	"packdex/internal/model"
)

// matches applies the criteria as a strict conjunction. Unset predicates
// always pass.
func matches(p model.Profile, c model.Criteria) bool {
	if c.PowerExact != nil && p.PowerMetric != *c.PowerExact {
		return false
	}
	if c.PowerMin != nil && p.PowerMetric < *c.PowerMin {
		return false
	}
	if c.PowerMax != nil && p.PowerMetric > *c.PowerMax {
		return false
	}

	if !equalFold(c.CreatureType, p.CreatureType) {
		return false
	}
	if !equalFold(c.Size, p.Size) {
		return false
	}
	if !equalFold(c.Rarity, p.Rarity) {
		return false
	}
	if !equalFold(c.Alignment, p.Alignment) {
		return false
	}

	if c.HasSpells != nil && p.HasSpells != *c.HasSpells {
		return false
	}
	if c.HasLegendary != nil && p.HasLegendaryActions != *c.HasLegendary {
		return false
	}

	if !containsAllTraits(p.Traits, c.Traits) {
		return false
	}
	return true
}

// equalFold is the criteria form of string equality: an empty wanted
// value passes, otherwise case-insensitive match.
func equalFold(want, got string) bool {
	if want == "" {
		return true
	}
	return strings.EqualFold(want, got)
}

// containsAllTraits is full containment: the profile must carry every
// requested trait.
func containsAllTraits(have []string, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[strings.ToLower(t)] = true
	}
	for _, t := range want {
		if !set[strings.ToLower(strings.TrimSpace(t))] {
			return false
		}
	}
	return true
}

// sortProfiles orders by (power ascending, name ascending); ties on both
// keys keep their original order.
func sortProfiles(profiles []model.Profile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].PowerMetric != profiles[j].PowerMetric {
			return profiles[i].PowerMetric < profiles[j].PowerMetric
		}
		return profiles[i].Name < profiles[j].Name
	})
}

// maxSummaryPacks caps the distinct-pack list in a query summary.
const maxSummaryPacks = 20

func summarize(profiles []model.Profile, totalMatched int, usedFallback bool) model.Summary {
	counts := map[string]*model.PackCount{}
	var order []string
	for _, p := range profiles {
		pc, ok := counts[p.PackID]
		if !ok {
			pc = &model.PackCount{PackID: p.PackID, PackLabel: p.PackLabel}
			counts[p.PackID] = pc
			order = append(order, p.PackID)
		}
		pc.Count++
	}

	s := model.Summary{
		Total:        totalMatched,
		PacksTouched: len(order),
		UsedFallback: usedFallback,
	}
	for _, id := range order {
		if len(s.Packs) >= maxSummaryPacks {
			break
		}
		s.Packs = append(s.Packs, *counts[id])
	}
	return s
}
