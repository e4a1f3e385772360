package showtimes

import (
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/amaumene/cinemahome/internal/models"
)

var bucharest = time.FixedZone("EET", 3*60*60)

// 2026-10-17 12:00 local
var now = time.Date(2026, 10, 17, 12, 0, 0, 0, bucharest)

func record(id, movieID int64, start string, price float64) models.ShowtimeRecord {
	return models.ShowtimeRecord{
		ID:               id,
		MovieID:          movieID,
		Title:            "Movie",
		Location:         "Iulius Mall",
		StartTime:        start,
		Price:            price,
		TotalTickets:     100,
		AvailableTickets: 100 - int(id),
	}
}

func TestAggregateGroupsByMovieInFirstSeenOrder(t *testing.T) {
	records := []models.ShowtimeRecord{
		record(1, 7, "2026-10-17T18:00:00", 30),
		record(2, 3, "2026-10-17T19:00:00", 50),
		record(3, 7, "2026-10-18T18:00:00", 20),
		record(4, 9, "2026-10-19T18:00:00", 25),
		record(5, 3, "2026-10-16T18:00:00", 45),
	}

	summaries := Aggregate(records, now)

	var ids []int64
	for _, s := range summaries {
		ids = append(ids, s.MovieID)
	}
	if !reflect.DeepEqual(ids, []int64{7, 3, 9}) {
		t.Fatalf("expected first-seen order [7 3 9], got %v", ids)
	}

	// No record lost or duplicated
	var seen []int64
	for _, s := range summaries {
		for _, st := range s.Showtimes {
			if st.MovieID != s.MovieID {
				t.Errorf("showtime %d filed under movie %d", st.ID, s.MovieID)
			}
			seen = append(seen, st.ID)
		}
	}
	sort.Slice(seen, func(i, j int) bool { return seen[i] < seen[j] })
	if !reflect.DeepEqual(seen, []int64{1, 2, 3, 4, 5}) {
		t.Errorf("expected every record exactly once, got %v", seen)
	}
}

func TestAggregateCheapestPrice(t *testing.T) {
	records := []models.ShowtimeRecord{
		record(1, 1, "2026-10-17T18:00:00", 30),
		record(2, 1, "2026-10-17T20:00:00", 20),
		record(3, 2, "2026-10-17T18:00:00", 50),
	}

	summaries := Aggregate(records, now)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Price != 20 {
		t.Errorf("expected movie 1 price 20, got %v", summaries[0].Price)
	}
	if summaries[1].Price != 50 {
		t.Errorf("expected movie 2 price 50, got %v", summaries[1].Price)
	}
}

func TestAggregateNextShowtimeAndCapacity(t *testing.T) {
	records := []models.ShowtimeRecord{
		record(1, 1, "2026-10-18T18:00:00", 30),
		record(2, 1, "2026-10-17T10:00:00", 30), // past
		record(3, 1, "2026-10-17T15:30:00", 30),
	}

	summary := Aggregate(records, now)[0]

	var order []int64
	for _, st := range summary.Showtimes {
		order = append(order, st.ID)
	}
	if !reflect.DeepEqual(order, []int64{2, 3, 1}) {
		t.Errorf("expected showtimes sorted by start time, got %v", order)
	}
	if summary.NextShowtime == nil || summary.NextShowtime.ID != 3 {
		t.Fatalf("expected next showtime 3, got %+v", summary.NextShowtime)
	}
	if summary.AvailableTickets != 97 || summary.TotalTickets != 100 {
		t.Errorf("capacity should come from the next showtime, got %d/%d", summary.AvailableTickets, summary.TotalTickets)
	}
}

func TestAggregateAllPastFallsBackToEarliest(t *testing.T) {
	records := []models.ShowtimeRecord{
		record(1, 1, "2026-10-16T18:00:00", 30),
		record(2, 1, "2026-10-15T18:00:00", 30),
	}

	summary := Aggregate(records, now)[0]
	if summary.NextShowtime == nil || summary.NextShowtime.ID != 2 {
		t.Fatalf("expected earliest showtime as fallback, got %+v", summary.NextShowtime)
	}
	if summary.AvailableTickets != 98 {
		t.Errorf("expected capacity of the fallback showtime, got %d", summary.AvailableTickets)
	}
}

func TestAggregateBackfillsGenreAndDescription(t *testing.T) {
	first := record(1, 1, "2026-10-17T18:00:00", 30)
	first.Title = "Dune"
	second := record(2, 1, "2026-10-18T18:00:00", 30)
	second.Title = "Dune: Part Two"
	second.Genre = "SF"
	second.Description = "Sci-fi epic"

	summary := Aggregate([]models.ShowtimeRecord{first, second}, now)[0]
	if summary.Title != "Dune" {
		t.Errorf("title should come from the first record, got %q", summary.Title)
	}
	if summary.Genre != "SF" || summary.Description != "Sci-fi epic" {
		t.Errorf("expected backfilled genre/description, got %q/%q", summary.Genre, summary.Description)
	}
}

func TestAggregateKeepsMalformedStartTimes(t *testing.T) {
	records := []models.ShowtimeRecord{
		record(1, 1, "not a date", 10),
		record(2, 1, "2026-10-17T18:00:00", 30),
	}

	summary := Aggregate(records, now)[0]
	if len(summary.Showtimes) != 2 {
		t.Fatalf("malformed record must stay in its group, got %d showtimes", len(summary.Showtimes))
	}
	if summary.Showtimes[1].ID != 1 {
		t.Errorf("malformed start time should sort last, got %+v", summary.Showtimes)
	}
	if summary.Price != 10 {
		t.Errorf("malformed record still counts for price, got %v", summary.Price)
	}
	if summary.NextShowtime.ID != 2 {
		t.Errorf("expected parsable next showtime, got %d", summary.NextShowtime.ID)
	}

	if got := BucketByDay([]models.MovieSummary{summary}, now, Today); len(got) != 1 {
		t.Errorf("the parsable showtime still buckets the movie into today")
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil, now); len(got) != 0 {
		t.Errorf("expected no summaries, got %d", len(got))
	}
}

func TestBucketByDayUsesCalendarDays(t *testing.T) {
	records := []models.ShowtimeRecord{
		record(1, 1, "2026-10-17T23:30:00", 30), // today, late
		record(2, 2, "2026-10-18T00:15:00", 30), // tomorrow, < 24h away
		record(3, 3, "2026-10-17T09:00:00", 30), // today, already past
		record(4, 4, "2026-10-19T12:00:00", 30), // day after tomorrow
		record(5, 5, "garbage", 30),
	}
	summaries := Aggregate(records, now)

	ids := func(list []models.MovieSummary) []int64 {
		out := []int64{}
		for _, s := range list {
			out = append(out, s.MovieID)
		}
		return out
	}

	if got := ids(BucketByDay(summaries, now, Today)); !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Errorf("today = %v, want [1 3]", got)
	}
	if got := ids(BucketByDay(summaries, now, Tomorrow)); !reflect.DeepEqual(got, []int64{2}) {
		t.Errorf("tomorrow = %v, want [2]", got)
	}
}

func TestBucketByDayHonorsOffsets(t *testing.T) {
	records := []models.ShowtimeRecord{
		record(1, 1, "2026-10-17T10:00:00Z", 30), // 13:00 local
		record(2, 2, "2026-10-17T22:30:00Z", 30), // 01:30 local next day
	}
	summaries := Aggregate(records, now)

	today := BucketByDay(summaries, now, Today)
	if len(today) != 1 || today[0].MovieID != 1 {
		t.Errorf("expected only movie 1 today, got %+v", today)
	}
	tomorrow := BucketByDay(summaries, now, Tomorrow)
	if len(tomorrow) != 1 || tomorrow[0].MovieID != 2 {
		t.Errorf("expected only movie 2 tomorrow, got %+v", tomorrow)
	}
}

func TestBucketByDayAcrossMonthEnd(t *testing.T) {
	endOfMonth := time.Date(2026, 10, 31, 20, 0, 0, 0, bucharest)
	summaries := Aggregate([]models.ShowtimeRecord{record(1, 1, "2026-11-01T11:00:00", 30)}, endOfMonth)

	if got := BucketByDay(summaries, endOfMonth, Tomorrow); len(got) != 1 {
		t.Errorf("expected November 1st to be tomorrow on October 31st")
	}
}

func TestHoursOnDay(t *testing.T) {
	records := []models.ShowtimeRecord{
		record(1, 1, "2026-10-17T21:00:00", 30),
		record(2, 1, "2026-10-17T09:05:00", 30),
		record(3, 1, "2026-10-17T21:00:00.000000", 30), // duplicate hour
		record(4, 1, "2026-10-18T14:45:00", 30),
		record(5, 1, "bad", 30),
	}
	summary := Aggregate(records, now)[0]

	today := HoursOnDay(summary, now, Today)
	if !reflect.DeepEqual(today, []string{"09:05", "21:00"}) {
		t.Errorf("today hours = %v", today)
	}
	if JoinHours(today) != "09:05, 21:00" {
		t.Errorf("unexpected joined hours: %q", JoinHours(today))
	}

	tomorrow := HoursOnDay(summary, now, Tomorrow)
	if !reflect.DeepEqual(tomorrow, []string{"14:45"}) {
		t.Errorf("tomorrow hours = %v", tomorrow)
	}

	if got := HoursOnDay(summary, now, 5); len(got) != 0 {
		t.Errorf("expected no hours five days out, got %v", got)
	}
}

func TestParseStartTime(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
		want  time.Time
	}{
		{"2026-10-17T18:30:00", true, time.Date(2026, 10, 17, 18, 30, 0, 0, bucharest)},
		{"2026-10-17T18:30:00.123456", true, time.Date(2026, 10, 17, 18, 30, 0, 123456000, bucharest)},
		{"2026-10-17 18:30", true, time.Date(2026, 10, 17, 18, 30, 0, 0, bucharest)},
		{"2026-10-17T15:30:00Z", true, time.Date(2026, 10, 17, 18, 30, 0, 0, bucharest)},
		{"", false, time.Time{}},
		{"17/10/2026", false, time.Time{}},
	}

	for _, tt := range tests {
		got, ok := ParseStartTime(tt.value, bucharest)
		if ok != tt.ok {
			t.Errorf("ParseStartTime(%q) ok = %v, want %v", tt.value, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseStartTime(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
