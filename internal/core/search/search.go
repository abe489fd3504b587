package search

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"packdex/internal/core/source"
	"packdex/internal/model"
)

// Malformed-query errors, surfaced to the caller immediately.
var (
	ErrQueryTooShort = errors.New("search text too short")
	ErrNoSearchTerms = errors.New("no usable search terms")
)

const (
	perPackCap = 100
	scanCap    = 100
	resultCap  = 50
	minTextLen = 3
)

// Search is the free-text entry point, also used as the query engine's
// fallback. It scans the lightweight index entries of every pack of the
// requested collection type (default Actor; Scene packs are always
// skipped) and matches entries whose folded name contains every term.
func Search(ctx context.Context, provider source.Provider, text string, collectionType string) ([]model.SearchHit, error) {
	terms, err := Terms(text)
	if err != nil {
		return nil, err
	}
	return scan(ctx, provider, collectionType, fold(text), terms, nil, nil)
}

// Fallback approximates a structured criteria query on the search path.
// The lightweight index lacks deep fields, so a subset of the criteria
// is translated into heuristic name terms: a power range becomes
// descriptive buckets ("ancient", "legendary"), a creature type becomes
// its common subtype names. Criteria that yield no terms at all cannot
// be approximated and return ErrNoSearchTerms.
func Fallback(ctx context.Context, provider source.Provider, crit model.Criteria) ([]model.SearchHit, error) {
	groups := expandCriteria(crit)
	if len(groups) == 0 {
		return nil, ErrNoSearchTerms
	}
	return scan(ctx, provider, source.TypeActor, "", nil, groups, &crit)
}

// Terms validates and splits a free-text query: at least minTextLen
// non-whitespace characters after trimming, folded and split into
// non-empty lowercase terms. The minimum counts runes, so accented
// queries are measured like their plain-ASCII equivalents.
func Terms(text string) ([]string, error) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(strings.Join(strings.Fields(trimmed), "")) < minTextLen {
		return nil, ErrQueryTooShort
	}
	terms := strings.Fields(fold(trimmed))
	if len(terms) == 0 {
		return nil, ErrNoSearchTerms
	}
	return terms, nil
}

// scan walks pack index entries. required terms use AND semantics; each
// group (from criteria expansion) is satisfied by any one of its terms.
// Collection caps bound the scan: perPackCap entries per pack, scanCap
// entries overall, resultCap after ranking.
func scan(ctx context.Context, provider source.Provider, collectionType string, wholeText string, required []string, groups [][]string, crit *model.Criteria) ([]model.SearchHit, error) {
	if collectionType == "" {
		collectionType = source.TypeActor
	}
	if collectionType == source.TypeScene {
		return nil, errors.New("scene packs cannot be searched")
	}

	packs, err := provider.ListPacks(ctx, collectionType)
	if err != nil {
		return nil, err
	}

	var hits []model.SearchHit
	total := 0
	for _, pack := range packs {
		if pack.CollectionType == source.TypeScene {
			continue
		}
		if total >= scanCap {
			break
		}

		entries, err := provider.Entries(ctx, pack.ID)
		if err != nil {
			// One unreadable pack must not sink the whole search.
			continue
		}

		packCount := 0
		for _, entry := range entries {
			if packCount >= perPackCap || total >= scanCap {
				break
			}
			name := fold(entry.Name)
			if name == "" {
				continue
			}
			if !containsAll(name, required) {
				continue
			}
			if !matchesGroups(name, groups) {
				continue
			}
			hit := model.SearchHit{
				ID:        entry.ID,
				Name:      entry.Name,
				Kind:      entry.Kind,
				PackID:    pack.ID,
				PackLabel: pack.Label,
				ImageRef:  entry.ImageRef,
			}
			hit.Exact = wholeText != "" && name == wholeText
			hit.Score = score(name, required, groups, crit)
			hits = append(hits, hit)
			packCount++
			total++
		}
	}

	// Exact full-name matches first, then relevance, then alphabetical.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Exact != hits[j].Exact {
			return hits[i].Exact
		}
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Name < hits[j].Name
	})

	if len(hits) > resultCap {
		hits = hits[:resultCap]
	}
	return hits, nil
}

func containsAll(name string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(name, t) {
			return false
		}
	}
	return true
}

func matchesGroups(name string, groups [][]string) bool {
	for _, group := range groups {
		ok := false
		for _, t := range group {
			if strings.Contains(name, t) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func score(name string, required []string, groups [][]string, crit *model.Criteria) float64 {
	s := 0.0

	if crit != nil && crit.CreatureType != "" {
		ct := fold(crit.CreatureType)
		if strings.Contains(name, ct) || containsAny(name, typeSynonyms[ct]) {
			s += 20
		}
	}

	if crit != nil {
		if lo, hi, ok := powerBounds(*crit); ok {
			if est, hit := estimatePower(name); hit {
				s += 10
				mid := (lo + hi) / 2
				bonus := 5 / (1 + math.Abs(est-mid))
				s += math.Min(bonus, 5)
			}
		}
	}

	if containsAny(name, commonNameTokens) {
		s += 5
	}

	for _, t := range required {
		if strings.Contains(name, t) {
			s += 3
		}
	}
	for _, group := range groups {
		for _, t := range group {
			if strings.Contains(name, t) {
				s += 3
			}
		}
	}
	return s
}

func containsAny(name string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(name, t) {
			return true
		}
	}
	return false
}
