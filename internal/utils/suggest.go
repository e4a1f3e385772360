package utils

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// ClosestTitle returns the title nearest to query by edit distance.
// Returns ("", false) when nothing is close enough to be a plausible typo.
func ClosestTitle(titles []string, query string) (string, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return "", false
	}

	maxDistance := len([]rune(query)) / 3
	if maxDistance < 2 {
		maxDistance = 2
	}

	best := ""
	bestDistance := -1
	for _, title := range titles {
		candidate := strings.ToLower(strings.TrimSpace(title))
		if candidate == "" {
			continue
		}
		distance := levenshtein.ComputeDistance(query, candidate)
		// Prefix typos ("interstelar" vs "interstellar") compare against the same-length head
		if head := headRunes(candidate, len([]rune(query))); head != candidate {
			if d := levenshtein.ComputeDistance(query, head); d < distance {
				distance = d
			}
		}
		if bestDistance < 0 || distance < bestDistance {
			best = title
			bestDistance = distance
		}
	}

	if bestDistance < 0 || bestDistance > maxDistance {
		return "", false
	}
	return best, true
}

func headRunes(s string, n int) string {
	runes := []rune(s)
	if n >= len(runes) {
		return s
	}
	return string(runes[:n])
}
