package search

import "packdex/internal/model"

// The fallback path only sees entry names, so criteria are approximated
// by name vocabulary. These tables are heuristics, not taxonomy.

// typeSynonyms expands a creature type into the subtype names that
// commonly appear in entry names.
var typeSynonyms = map[string][]string{
	"humanoid": {
		"guard", "bandit", "cultist", "acolyte", "soldier", "knight",
		"priest", "mage", "scout", "thug", "commoner", "warrior",
		"assassin", "archer", "noble",
	},
	"undead": {"skeleton", "zombie", "ghoul", "ghost", "wight", "vampire", "lich", "specter"},
	"fiend":  {"demon", "devil", "imp", "succubus"},
	"beast":  {"wolf", "bear", "boar", "spider", "rat", "hawk", "snake"},
	"dragon": {"dragon", "drake", "wyrm", "wyvern"},
	"giant":  {"giant", "ogre", "troll", "ettin", "cyclops"},
}

// powerBuckets map power ranges to the descriptive words creature names
// use at that tier.
var powerBuckets = []struct {
	min, max float64
	terms    []string
}{
	{0, 1, []string{"young", "lesser", "wyrmling", "swarm", "cub"}},
	{1, 5, []string{"veteran", "dire", "giant"}},
	{5, 10, []string{"elite", "greater", "chieftain", "alpha"}},
	{10, 15, []string{"adult", "dread", "lord"}},
	{15, 31, []string{"ancient", "legendary", "elder", "archmage", "king", "queen"}},
}

// expandCriteria translates the approximable subset of a criteria query
// into term groups. Each group is satisfied by any one of its terms.
func expandCriteria(crit model.Criteria) [][]string {
	var groups [][]string

	if ct := fold(crit.CreatureType); ct != "" {
		group := append([]string{ct}, typeSynonyms[ct]...)
		groups = append(groups, group)
	}

	if lo, hi, ok := powerBounds(crit); ok {
		var group []string
		for _, b := range powerBuckets {
			if b.max >= lo && b.min <= hi {
				group = append(group, b.terms...)
			}
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}

	return groups
}

// powerBounds collapses the exact/min/max power predicates to a range.
func powerBounds(crit model.Criteria) (lo, hi float64, ok bool) {
	if crit.PowerExact != nil {
		return *crit.PowerExact, *crit.PowerExact, true
	}
	if crit.PowerMin == nil && crit.PowerMax == nil {
		return 0, 0, false
	}
	lo, hi = 0, 30
	if crit.PowerMin != nil {
		lo = *crit.PowerMin
	}
	if crit.PowerMax != nil {
		hi = *crit.PowerMax
	}
	return lo, hi, true
}

// estimatePower guesses a power tier from a name's bucket words; used
// only for the rank bonus, never for filtering.
func estimatePower(name string) (float64, bool) {
	for i := len(powerBuckets) - 1; i >= 0; i-- {
		b := powerBuckets[i]
		if containsAny(name, b.terms) {
			return (b.min + b.max) / 2, true
		}
	}
	return 0, false
}

// commonNameTokens are the words that dominate bestiary entry names;
// their presence nudges a hit up the ranking.
var commonNameTokens = []string{
	"dragon", "giant", "demon", "devil", "elemental", "golem",
	"skeleton", "zombie", "wolf", "bear", "spider", "guard", "knight",
}
