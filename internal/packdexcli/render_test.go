package packdexcli

import (
	"strings"
	"testing"

	"packdex/internal/model"
)

func TestFormatPower(t *testing.T) {
	cases := map[float64]string{
		0.125: "1/8",
		0.25:  "1/4",
		0.5:   "1/2",
		0:     "0",
		3:     "3",
		21:    "21",
		2.75:  "2.75",
	}
	for in, want := range cases {
		if got := formatPower(in); got != want {
			t.Fatalf("formatPower(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderProfiles(t *testing.T) {
	out := RenderProfiles([]model.Profile{
		{Name: "Goblin", PackLabel: "Monsters", PowerMetric: 0.25},
		{Name: "Lich", PackLabel: "Monsters", PowerMetric: 21, HasSpells: true, HasLegendaryActions: true},
		{Name: "Unknown (3)", PackLabel: "Monsters", ExtractionError: true},
	})

	if !strings.Contains(out, "1/4") || !strings.Contains(out, "Goblin") {
		t.Fatalf("output: %q", out)
	}
	if !strings.Contains(out, "[spells]") || !strings.Contains(out, "[legendary]") {
		t.Fatalf("flags missing: %q", out)
	}
	if !strings.Contains(out, "[extraction-error]") {
		t.Fatalf("placeholder marker missing: %q", out)
	}
}

func TestRenderHits(t *testing.T) {
	out := RenderHits([]model.SearchHit{
		{Name: "Wolf", PackLabel: "Zoo", Score: 8, Exact: true},
		{Name: "Dire Wolf", PackLabel: "Zoo", Score: 8},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: %q", out)
	}
	if !strings.HasSuffix(lines[0], "*") {
		t.Fatalf("exact marker missing: %q", lines[0])
	}
	if strings.HasSuffix(lines[1], "*") {
		t.Fatalf("spurious exact marker: %q", lines[1])
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(model.Summary{Total: 5, PacksTouched: 2})
	if !strings.Contains(out, "5 matched") || !strings.Contains(out, "2 packs") {
		t.Fatalf("summary: %q", out)
	}
	if strings.Contains(out, "fallback") {
		t.Fatalf("unexpected fallback marker: %q", out)
	}

	out = RenderSummary(model.Summary{Total: 1, PacksTouched: 1, UsedFallback: true})
	if !strings.Contains(out, "(fallback search)") {
		t.Fatalf("fallback marker missing: %q", out)
	}
}
