package query

import (
	"fmt"
	"testing"

	"packdex/internal/model"
)

func fptr(f float64) *float64 { return &f }
func bptr(b bool) *bool       { return &b }

func TestMatchesEmptyCriteriaPassesAll(t *testing.T) {
	p := model.Profile{Name: "Anything", PowerMetric: 12, CreatureType: "dragon"}
	if !matches(p, model.Criteria{}) {
		t.Fatalf("empty criteria must match every profile")
	}
}

func TestMatchesConjunction(t *testing.T) {
	p := model.Profile{
		Name:                "Ghoul",
		PowerMetric:         1,
		CreatureType:        "undead",
		Size:                "medium",
		Rarity:              "common",
		Alignment:           "chaotic evil",
		HasSpells:           false,
		HasLegendaryActions: false,
		Traits:              []string{"undead", "ghoul"},
	}

	cases := []struct {
		name string
		crit model.Criteria
		want bool
	}{
		{"exact power", model.Criteria{PowerExact: fptr(1)}, true},
		{"exact power miss", model.Criteria{PowerExact: fptr(2)}, false},
		{"range inclusive", model.Criteria{PowerMin: fptr(1), PowerMax: fptr(1)}, true},
		{"below min", model.Criteria{PowerMin: fptr(2)}, false},
		{"above max", model.Criteria{PowerMax: fptr(0.5)}, false},
		{"type case-insensitive", model.Criteria{CreatureType: "Undead"}, true},
		{"type miss", model.Criteria{CreatureType: "fiend"}, false},
		{"all string fields", model.Criteria{Size: "MEDIUM", Rarity: "common", Alignment: "Chaotic Evil"}, true},
		{"spells mismatch", model.Criteria{HasSpells: bptr(true)}, false},
		{"legendary match", model.Criteria{HasLegendary: bptr(false)}, true},
		{"traits subset", model.Criteria{Traits: []string{"ghoul"}}, true},
		{"traits full containment", model.Criteria{Traits: []string{"Undead", "ghoul"}}, true},
		{"traits missing one", model.Criteria{Traits: []string{"undead", "fungus"}}, false},
		{"conjunction fails on one predicate", model.Criteria{CreatureType: "undead", PowerExact: fptr(9)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := matches(p, tc.crit); got != tc.want {
				t.Fatalf("matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSortProfiles(t *testing.T) {
	profiles := []model.Profile{
		{ID: "1", Name: "Bravo", PowerMetric: 5},
		{ID: "2", Name: "Alpha", PowerMetric: 2},
		{ID: "3", Name: "Charlie", PowerMetric: 2},
		{ID: "4", Name: "Alpha", PowerMetric: 2}, // name tie, keeps input order vs id 2
	}
	sortProfiles(profiles)

	wantIDs := []string{"2", "4", "3", "1"}
	for i, want := range wantIDs {
		if profiles[i].ID != want {
			t.Fatalf("order[%d] = %s, want %s (%+v)", i, profiles[i].ID, want, profiles)
		}
	}
}

func TestSummarize(t *testing.T) {
	profiles := []model.Profile{
		{ID: "1", PackID: "a", PackLabel: "A"},
		{ID: "2", PackID: "b", PackLabel: "B"},
		{ID: "3", PackID: "a", PackLabel: "A"},
	}
	s := summarize(profiles, 10, true)

	if s.Total != 10 {
		t.Fatalf("total must reflect the pre-limit count: %d", s.Total)
	}
	if s.PacksTouched != 2 || !s.UsedFallback {
		t.Fatalf("summary: %+v", s)
	}
	// First-seen pack order.
	if s.Packs[0].PackID != "a" || s.Packs[0].Count != 2 {
		t.Fatalf("pack counts: %+v", s.Packs)
	}
	if s.Packs[1].PackID != "b" || s.Packs[1].Count != 1 {
		t.Fatalf("pack counts: %+v", s.Packs)
	}
}

func TestSummarizeCapsPackList(t *testing.T) {
	var profiles []model.Profile
	for i := 0; i < maxSummaryPacks+5; i++ {
		profiles = append(profiles, model.Profile{
			ID:     fmt.Sprintf("p%d", i),
			PackID: fmt.Sprintf("pack%02d", i),
		})
	}
	s := summarize(profiles, len(profiles), false)
	if len(s.Packs) != maxSummaryPacks {
		t.Fatalf("pack list must be capped at %d, got %d", maxSummaryPacks, len(s.Packs))
	}
	if s.PacksTouched != maxSummaryPacks+5 {
		t.Fatalf("PacksTouched counts all packs: %d", s.PacksTouched)
	}
}
