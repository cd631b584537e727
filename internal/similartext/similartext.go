// Package similartext formats catalog-resolution error suffixes such as
// ", maybe you mean foo or bar?" from a set of known names and an unresolved
// target, so unresolved-identifier errors surfaced by the catalog reader are
// actionable.
package similartext

import (
	"sort"
	"strings"
)

const maxSuggestions = 2

// Find returns a formatted suggestion suffix for target among names, or ""
// if names is empty, target is empty, or nothing is close enough.
func Find(names []string, target string) string {
	if len(names) == 0 || target == "" {
		return ""
	}

	candidates := closest(names, target)
	if len(candidates) == 0 {
		return ""
	}
	return ", maybe you mean " + strings.Join(candidates, " or ") + "?"
}

// FindFromMap is Find over the keys of names.
func FindFromMap[V any](names map[string]V, target string) string {
	if len(names) == 0 {
		return ""
	}
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	return Find(keys, target)
}

// closest returns up to maxSuggestions names within an edit-distance
// threshold proportional to target's length, sorted for deterministic output.
func closest(names []string, target string) []string {
	threshold := len(target) / 2
	if threshold < 1 {
		threshold = 1
	}

	type scored struct {
		name string
		dist int
	}
	var candidates []scored
	for _, n := range names {
		d := levenshtein(n, target)
		if d <= threshold {
			candidates = append(candidates, scored{n, d})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
