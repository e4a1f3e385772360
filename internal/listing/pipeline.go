// Package listing narrows and orders movie summaries for display.
//
// Filters and sorts are a closed set of tagged variants. A Pipeline applies
// its filters left to right, each one narrowing the previous result without
// reordering it, then runs a single sort pass.
package listing

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/amaumene/cinemahome/internal/models"
)

// AllGenres is the genre selector value that disables genre filtering
const AllGenres = "Toate"

// FilterKind identifies a filter variant
type FilterKind string

const (
	FilterSearch FilterKind = "search"
	FilterGenre  FilterKind = "genre"
)

// Filter is one step of a pipeline. Value is the search query for
// FilterSearch and the genre name for FilterGenre.
type Filter struct {
	Kind  FilterKind
	Value string
}

// Search matches titles containing query, ignoring case
func Search(query string) Filter {
	return Filter{Kind: FilterSearch, Value: query}
}

// Genre matches summaries whose genre equals genre, ignoring case
func Genre(genre string) Filter {
	return Filter{Kind: FilterGenre, Value: genre}
}

// IsNoop reports whether the filter lets every summary through
func (f Filter) IsNoop() bool {
	value := strings.TrimSpace(f.Value)
	switch f.Kind {
	case FilterSearch:
		return value == ""
	case FilterGenre:
		return value == "" || strings.EqualFold(value, AllGenres)
	default:
		return true
	}
}

func (f Filter) matches(summary models.MovieSummary) bool {
	value := strings.TrimSpace(f.Value)
	switch f.Kind {
	case FilterSearch:
		return strings.Contains(strings.ToLower(summary.Title), strings.ToLower(value))
	case FilterGenre:
		return strings.EqualFold(strings.TrimSpace(summary.Genre), value)
	default:
		return true
	}
}

// SortKind identifies a sort variant
type SortKind string

const (
	SortNone      SortKind = ""
	SortTitleAsc  SortKind = "title_asc"
	SortTitleDesc SortKind = "title_desc"
)

// ParseSort converts user input into a SortKind
func ParseSort(value string) (SortKind, error) {
	switch SortKind(strings.ToLower(strings.TrimSpace(value))) {
	case SortNone:
		return SortNone, nil
	case SortTitleAsc, "asc":
		return SortTitleAsc, nil
	case SortTitleDesc, "desc":
		return SortTitleDesc, nil
	default:
		return SortNone, fmt.Errorf("unknown sort %q", value)
	}
}

// Pipeline is an ordered list of filters followed by one sort
type Pipeline struct {
	Filters []Filter
	Sort    SortKind
	Locale  language.Tag
}

// NewPipeline builds the standard home listing pipeline: search, then genre,
// then sort.
func NewPipeline(locale language.Tag, search, genre string, sortKind SortKind) Pipeline {
	return Pipeline{
		Filters: []Filter{Search(search), Genre(genre)},
		Sort:    sortKind,
		Locale:  locale,
	}
}

// Apply filters then sorts summaries. The input is never modified; the
// result is always a new slice.
func (p Pipeline) Apply(summaries []models.MovieSummary) []models.MovieSummary {
	result := make([]models.MovieSummary, len(summaries))
	copy(result, summaries)

	for _, filter := range p.Filters {
		if filter.IsNoop() {
			continue
		}
		narrowed := make([]models.MovieSummary, 0, len(result))
		for _, summary := range result {
			if filter.matches(summary) {
				narrowed = append(narrowed, summary)
			}
		}
		result = narrowed
	}

	if p.Sort == SortNone || len(result) < 2 {
		return result
	}

	// Collators keep internal buffers, so each call gets its own
	collator := newCollator(p.Locale)
	sort.SliceStable(result, func(i, j int) bool {
		cmp := collator.CompareString(result[i].Title, result[j].Title)
		if p.Sort == SortTitleDesc {
			return cmp > 0
		}
		return cmp < 0
	})
	return result
}

func newCollator(locale language.Tag) *collate.Collator {
	return collate.New(locale, collate.Loose)
}
