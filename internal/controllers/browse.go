package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/amaumene/cinemahome/internal/config"
	"github.com/amaumene/cinemahome/internal/listing"
	"github.com/amaumene/cinemahome/internal/metrics"
	"github.com/amaumene/cinemahome/internal/models"
	"github.com/amaumene/cinemahome/internal/session"
	"github.com/amaumene/cinemahome/internal/showtimes"
	"github.com/amaumene/cinemahome/internal/utils"
)

const tracerName = "github.com/amaumene/cinemahome/internal/controllers"

// FetchFailedMessage is shown instead of the listing when showtimes cannot be loaded
const FetchFailedMessage = "Failed to load showtimes. Try again later."

// ErrDataFetch wraps every failure to obtain showtime records
var ErrDataFetch = errors.New("failed to load showtimes")

// ShowtimeSource delivers the full list of showtimes for a cinema
type ShowtimeSource interface {
	ListShowtimes(ctx context.Context, location string) ([]models.ShowtimeRecord, error)
}

// MovieView is a summary as rendered in a bucket. Hours is only set in the
// day buckets.
type MovieView struct {
	models.MovieSummary
	Hours []string `json:"hours,omitempty"`
}

// View is everything the UI renders for one session
type View struct {
	Location    string          `json:"location"`
	Filters     session.Filters `json:"filters"`
	Today       []MovieView     `json:"today"`
	Tomorrow    []MovieView     `json:"tomorrow"`
	All         []MovieView     `json:"all"`
	Genres      []string        `json:"genres"`
	Hidden      []int64         `json:"hidden"`
	CanUndo     bool            `json:"can_undo"`
	CanRedo     bool            `json:"can_redo"`
	Suggestion  string          `json:"suggestion,omitempty"`
	Error       string          `json:"error,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// IsEmpty reports a successful load in which no movie matched
func (v *View) IsEmpty() bool {
	return v.Error == "" && len(v.All) == 0
}

// BrowseController builds the home listing: fetch, aggregate, hide, filter,
// sort and bucket.
type BrowseController struct {
	source  ShowtimeSource
	records *cache.Cache // nil when caching is disabled
	locale  language.Tag
	now     func() time.Time
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  zerolog.Logger
}

// NewBrowseController creates a new browse controller
func NewBrowseController(source ShowtimeSource, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *BrowseController {
	var records *cache.Cache
	if cfg.RecordCacheTTL > 0 {
		records = cache.New(cfg.RecordCacheTTL, 2*cfg.RecordCacheTTL)
	}

	return &BrowseController{
		source:  source,
		records: records,
		locale:  cfg.Locale,
		now:     cfg.Now,
		metrics: m,
		tracer:  otel.Tracer(tracerName),
		logger:  logger.With().Str("component", "browse").Logger(),
	}
}

// Build derives the view for sess. On a fetch failure it still returns a
// view, empty apart from the ledger state and Error, together with an
// error wrapping ErrDataFetch.
func (c *BrowseController) Build(ctx context.Context, sess *session.Session) (*View, error) {
	ctx, span := c.tracer.Start(ctx, "BrowseController.Build",
		trace.WithAttributes(attribute.String("location", sess.Location)))
	defer span.End()

	now := c.now()
	view := &View{
		Location:    sess.Location,
		Filters:     sess.Filters,
		Today:       []MovieView{},
		Tomorrow:    []MovieView{},
		All:         []MovieView{},
		Genres:      []string{listing.AllGenres},
		Hidden:      sess.Ledger.Hidden(),
		CanUndo:     sess.Ledger.CanUndo(),
		CanRedo:     sess.Ledger.CanRedo(),
		GeneratedAt: now,
	}

	records, err := c.fetch(ctx, sess.Location)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		view.Error = FetchFailedMessage
		c.recordView(view)
		return view, fmt.Errorf("%w: %w", ErrDataFetch, err)
	}

	summaries := showtimes.Aggregate(records, now)

	visible := make([]models.MovieSummary, 0, len(summaries))
	for _, summary := range summaries {
		if !sess.Ledger.IsHidden(summary.MovieID) {
			visible = append(visible, summary)
		}
	}

	pipeline := listing.NewPipeline(c.locale, sess.Filters.Search, sess.Filters.Genre, sess.Filters.Sort)

	all := pipeline.Apply(visible)
	view.All = toViews(all, nil)
	view.Today = toViews(pipeline.Apply(showtimes.BucketByDay(visible, now, showtimes.Today)), func(s models.MovieSummary) []string {
		return showtimes.HoursOnDay(s, now, showtimes.Today)
	})
	view.Tomorrow = toViews(pipeline.Apply(showtimes.BucketByDay(visible, now, showtimes.Tomorrow)), func(s models.MovieSummary) []string {
		return showtimes.HoursOnDay(s, now, showtimes.Tomorrow)
	})
	view.Genres = listing.Genres(summaries, c.locale)

	if len(all) == 0 {
		view.Suggestion = c.suggest(visible, sess.Filters.Search)
	}

	span.SetAttributes(
		attribute.Int("records", len(records)),
		attribute.Int("movies", len(summaries)),
		attribute.Int("visible", len(all)),
	)
	c.recordView(view)

	c.logger.Debug().
		Str("location", sess.Location).
		Int("records", len(records)).
		Int("movies", len(summaries)).
		Int("today", len(view.Today)).
		Int("tomorrow", len(view.Tomorrow)).
		Int("all", len(view.All)).
		Msg("View built")

	return view, nil
}

// Refresh drops the cached records of location so the next Build refetches
func (c *BrowseController) Refresh(location string) {
	if c.records == nil {
		return
	}
	c.records.Delete(location)
	c.logger.Debug().Str("location", location).Msg("Showtime cache cleared")
}

// Prefetch replaces the cached records of location with a fresh copy
func (c *BrowseController) Prefetch(ctx context.Context, location string) error {
	ctx, span := c.tracer.Start(ctx, "BrowseController.Prefetch",
		trace.WithAttributes(attribute.String("location", location)))
	defer span.End()

	c.Refresh(location)
	if _, err := c.fetch(ctx, location); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return fmt.Errorf("%w: %w", ErrDataFetch, err)
	}
	return nil
}

// fetch returns the records of location, from the cache when possible.
// Failures are never retried and evict any cached copy.
func (c *BrowseController) fetch(ctx context.Context, location string) ([]models.ShowtimeRecord, error) {
	if c.records != nil {
		if cached, ok := c.records.Get(location); ok {
			c.metrics.FetchTotal.WithLabelValues("cached").Inc()
			return cached.([]models.ShowtimeRecord), nil
		}
	}

	c.logger.Info().Str("location", location).Msg("Fetching showtimes")

	start := time.Now()
	records, err := c.source.ListShowtimes(ctx, location)
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchTotal.WithLabelValues("error").Inc()
		c.Refresh(location)
		c.logger.Error().Err(err).Str("location", location).Msg("Failed to fetch showtimes")
		return nil, err
	}
	c.metrics.FetchTotal.WithLabelValues("ok").Inc()

	if c.records != nil {
		c.records.SetDefault(location, records)
	}
	return records, nil
}

// suggest returns the closest title when the search alone matches nothing.
// An empty result caused by the genre filter gets no suggestion.
func (c *BrowseController) suggest(visible []models.MovieSummary, search string) string {
	searchOnly := listing.Pipeline{Filters: []listing.Filter{listing.Search(search)}}
	if search == "" || len(searchOnly.Apply(visible)) > 0 {
		return ""
	}

	titles := make([]string, 0, len(visible))
	for _, summary := range visible {
		titles = append(titles, summary.Title)
	}
	title, _ := utils.ClosestTitle(titles, search)
	return title
}

func (c *BrowseController) recordView(view *View) {
	c.metrics.ViewMovies.WithLabelValues("today").Set(float64(len(view.Today)))
	c.metrics.ViewMovies.WithLabelValues("tomorrow").Set(float64(len(view.Tomorrow)))
	c.metrics.ViewMovies.WithLabelValues("all").Set(float64(len(view.All)))
}

func toViews(summaries []models.MovieSummary, hours func(models.MovieSummary) []string) []MovieView {
	views := make([]MovieView, 0, len(summaries))
	for _, summary := range summaries {
		view := MovieView{MovieSummary: summary}
		if hours != nil {
			view.Hours = hours(summary)
		}
		views = append(views, view)
	}
	return views
}
