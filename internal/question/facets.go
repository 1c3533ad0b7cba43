package question

import (
	"slices"
	"sort"
	"strings"
)

// Facets are the filter values offered by the session configurator.
type Facets struct {
	Categories   []string
	Difficulties []string
}

// CollectFacets derives the distinct sorted categories and the difficulties
// present in qs. Difficulties follow DifficultyOrder; unknown values come
// last in first-seen order.
func CollectFacets(qs []Question) Facets {
	categories := make(map[string]struct{})
	seenDiff := make(map[string]struct{})
	var difficulties []string

	for _, q := range qs {
		if q.Category != "" {
			categories[q.Category] = struct{}{}
		}
		d := strings.ToLower(q.Difficulty)
		if d == "" {
			continue
		}
		if _, ok := seenDiff[d]; !ok {
			seenDiff[d] = struct{}{}
			difficulties = append(difficulties, d)
		}
	}

	cats := make([]string, 0, len(categories))
	for c := range categories {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	sort.SliceStable(difficulties, func(i, j int) bool {
		return difficultyRank(difficulties[i]) < difficultyRank(difficulties[j])
	})

	return Facets{Categories: cats, Difficulties: difficulties}
}

func difficultyRank(d string) int {
	if i := slices.Index(DifficultyOrder, d); i >= 0 {
		return i
	}
	return len(DifficultyOrder)
}
