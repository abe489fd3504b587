package packdexcli

import (
	"encoding/json"
	"fmt"
	"strings"

	"packdex/internal/model"
)

func RenderJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

func RenderProfiles(profiles []model.Profile) string {
	var b strings.Builder
	for _, p := range profiles {
		flags := ""
		if p.HasSpells {
			flags += " [spells]"
		}
		if p.HasLegendaryActions {
			flags += " [legendary]"
		}
		if p.ExtractionError {
			flags += " [extraction-error]"
		}
		_, _ = fmt.Fprintf(&b, "%-8s %s  (%s)%s\n",
			formatPower(p.PowerMetric), p.Name, p.PackLabel, flags)
	}
	return b.String()
}

func RenderHits(hits []model.SearchHit) string {
	var b strings.Builder
	for _, h := range hits {
		marker := ""
		if h.Exact {
			marker = " *"
		}
		_, _ = fmt.Fprintf(&b, "%6.1f  %s  (%s)%s\n", h.Score, h.Name, h.PackLabel, marker)
	}
	return b.String()
}

func RenderSummary(s model.Summary) string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "-- %d matched, %d packs", s.Total, s.PacksTouched)
	if s.UsedFallback {
		b.WriteString(" (fallback search)")
	}
	b.WriteString("\n")
	return b.String()
}

// formatPower prints fractional challenge ratings the way bestiaries
// write them.
func formatPower(p float64) string {
	switch p {
	case 0.125:
		return "1/8"
	case 0.25:
		return "1/4"
	case 0.5:
		return "1/2"
	default:
		if p == float64(int64(p)) {
			return fmt.Sprintf("%d", int64(p))
		}
		return fmt.Sprintf("%.2f", p)
	}
}
