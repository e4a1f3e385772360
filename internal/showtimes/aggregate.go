// Package showtimes groups raw showtime records into per-movie summaries and
// buckets them by calendar day.
package showtimes

import (
	"sort"
	"strings"
	"time"

	"github.com/amaumene/cinemahome/internal/models"
)

// Layouts accepted for start_time. The backend writes Python isoformat
// strings, usually without an offset; those are read in now's location.
var startTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseStartTime parses a start_time value. Timestamps without an offset are
// interpreted in loc. ok is false for empty or malformed values.
func ParseStartTime(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range startTimeLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, value)
		} else {
			t, err = time.ParseInLocation(layout, value, loc)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Aggregate groups records by movie in first-seen order.
//
// Each summary copies title, genre, description and location from the first
// record of its group, backfilling genre and description from the first
// record that has one. Price is the cheapest showing. Showtimes are sorted
// ascending by start time; records with a malformed start time keep their
// relative order after the parsable ones. NextShowtime is the first showtime
// at or after now, or the earliest one when every showing is in the past,
// and capacity is copied from it.
func Aggregate(records []models.ShowtimeRecord, now time.Time) []models.MovieSummary {
	order := make([]int64, 0)
	groups := make(map[int64]*models.MovieSummary)

	for _, record := range records {
		summary, ok := groups[record.MovieID]
		if !ok {
			summary = &models.MovieSummary{
				MovieID:     record.MovieID,
				Title:       record.Title,
				Genre:       record.Genre,
				Description: record.Description,
				Location:    record.Location,
				Price:       record.Price,
			}
			groups[record.MovieID] = summary
			order = append(order, record.MovieID)
		}

		summary.Showtimes = append(summary.Showtimes, record)

		if record.Price < summary.Price {
			summary.Price = record.Price
		}
		if strings.TrimSpace(summary.Genre) == "" && strings.TrimSpace(record.Genre) != "" {
			summary.Genre = record.Genre
		}
		if strings.TrimSpace(summary.Description) == "" && strings.TrimSpace(record.Description) != "" {
			summary.Description = record.Description
		}
	}

	summaries := make([]models.MovieSummary, 0, len(order))
	for _, movieID := range order {
		summary := groups[movieID]
		summary.Showtimes = sortByStartTime(summary.Showtimes, now.Location())

		if next := nextShowtime(summary.Showtimes, now); next != nil {
			summary.NextShowtime = next
			summary.TotalTickets = next.TotalTickets
			summary.AvailableTickets = next.AvailableTickets
		}

		summaries = append(summaries, *summary)
	}

	return summaries
}

// sortByStartTime returns a sorted copy; unparsable start times sort last
func sortByStartTime(showtimes []models.ShowtimeRecord, loc *time.Location) []models.ShowtimeRecord {
	type keyed struct {
		record models.ShowtimeRecord
		at     time.Time
		ok     bool
	}

	items := make([]keyed, len(showtimes))
	for i, record := range showtimes {
		at, ok := ParseStartTime(record.StartTime, loc)
		items[i] = keyed{record: record, at: at, ok: ok}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		if !items[i].ok {
			return false
		}
		return items[i].at.Before(items[j].at)
	})

	sorted := make([]models.ShowtimeRecord, len(items))
	for i, item := range items {
		sorted[i] = item.record
	}
	return sorted
}

// nextShowtime expects showtimes sorted by sortByStartTime
func nextShowtime(showtimes []models.ShowtimeRecord, now time.Time) *models.ShowtimeRecord {
	if len(showtimes) == 0 {
		return nil
	}

	for i := range showtimes {
		at, ok := ParseStartTime(showtimes[i].StartTime, now.Location())
		if ok && !at.Before(now) {
			next := showtimes[i]
			return &next
		}
	}

	first := showtimes[0]
	return &first
}
