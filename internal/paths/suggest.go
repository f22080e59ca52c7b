package paths

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxEditDistance bounds how different a name may be to still be suggested.
const maxEditDistance = 2

// Suggest returns up to limit names from candidates that look like name,
// closest first. Subsequence matches ("jqry" for "jquery") and names within
// a small edit distance ("jqeury") both qualify.
func Suggest(name string, candidates []string, limit int) []string {
	type scored struct {
		name     string
		distance int
	}

	var matches []scored
	seen := make(map[string]bool)

	for _, rank := range fuzzy.RankFindNormalizedFold(name, candidates) {
		seen[rank.Target] = true
		matches = append(matches, scored{rank.Target, rank.Distance})
	}

	for _, c := range candidates {
		if seen[c] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(name, c); d <= maxEditDistance {
			seen[c] = true
			matches = append(matches, scored{c, d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].name < matches[j].name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.name)
	}

	return out
}
