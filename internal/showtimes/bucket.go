package showtimes

import (
	"sort"
	"strings"
	"time"

	"github.com/amaumene/cinemahome/internal/models"
)

// Day offsets used by the home listing
const (
	Today    = 0
	Tomorrow = 1
)

// BucketByDay returns the summaries with at least one showtime on the local
// calendar day now+dayOffset. Days are compared by year/month/day in now's
// location, not as a rolling 24h window. Malformed start times never match.
func BucketByDay(summaries []models.MovieSummary, now time.Time, dayOffset int) []models.MovieSummary {
	day := calendarDay(now, dayOffset)

	bucket := make([]models.MovieSummary, 0)
	for _, summary := range summaries {
		for _, showtime := range summary.Showtimes {
			if onDay(showtime, day) {
				bucket = append(bucket, summary)
				break
			}
		}
	}
	return bucket
}

// HoursOnDay returns the distinct 24h "HH:MM" start times of summary that
// fall on the calendar day now+dayOffset, in ascending order.
func HoursOnDay(summary models.MovieSummary, now time.Time, dayOffset int) []string {
	day := calendarDay(now, dayOffset)

	seen := make(map[string]bool)
	hours := make([]string, 0)
	for _, showtime := range summary.Showtimes {
		at, ok := ParseStartTime(showtime.StartTime, day.Location())
		if !ok || !sameDay(at.In(day.Location()), day) {
			continue
		}
		hour := at.In(day.Location()).Format("15:04")
		if !seen[hour] {
			seen[hour] = true
			hours = append(hours, hour)
		}
	}

	// Zero-padded, so lexical order is chronological
	sort.Strings(hours)
	return hours
}

// JoinHours formats hours for display
func JoinHours(hours []string) string {
	return strings.Join(hours, ", ")
}

func calendarDay(now time.Time, dayOffset int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+dayOffset, 0, 0, 0, 0, now.Location())
}

func onDay(showtime models.ShowtimeRecord, day time.Time) bool {
	at, ok := ParseStartTime(showtime.StartTime, day.Location())
	if !ok {
		return false
	}
	return sameDay(at.In(day.Location()), day)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
