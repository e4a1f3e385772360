package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/amaumene/cinemahome/internal/models"
)

// Genres returns the genre selector entries: AllGenres first, then every
// distinct non-empty genre ordered by the locale collator. Genres differing
// only by case collapse to the first spelling seen.
func Genres(summaries []models.MovieSummary, locale language.Tag) []string {
	seen := make(map[string]bool)
	genres := make([]string, 0)
	for _, summary := range summaries {
		genre := strings.TrimSpace(summary.Genre)
		if genre == "" || strings.EqualFold(genre, AllGenres) {
			continue
		}
		key := strings.ToLower(genre)
		if seen[key] {
			continue
		}
		seen[key] = true
		genres = append(genres, genre)
	}

	collator := newCollator(locale)
	sort.SliceStable(genres, func(i, j int) bool {
		return collator.CompareString(genres[i], genres[j]) < 0
	})

	return append([]string{AllGenres}, genres...)
}
