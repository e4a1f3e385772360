package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/amaumene/cinemahome/internal/app"
	"github.com/amaumene/cinemahome/internal/controllers"
	"github.com/amaumene/cinemahome/internal/showtimes"
)

func newBrowseCmd() *cobra.Command {
	var search, genre, sortBy, bucket string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List the movies playing at the selected cinema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				a.Session.SetSearch(search)
				a.Session.SetGenre(genre)
				if err := a.Session.SetSort(sortBy); err != nil {
					return err
				}
				return browse(ctx, a, bucket)
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "only titles containing this text")
	cmd.Flags().StringVar(&genre, "genre", "", "only this genre")
	cmd.Flags().StringVar(&sortBy, "sort", "title_asc", "title_asc, title_desc or empty for backend order")
	cmd.Flags().StringVar(&bucket, "bucket", "all", "today, tomorrow, all or every")
	return cmd
}

func browse(ctx context.Context, a *app.App, bucket string) error {
	view, err := a.Browse.Build(ctx, a.Session)
	if err != nil && !errors.Is(err, controllers.ErrDataFetch) {
		return err
	}

	fmt.Printf("%s\n", view.Location)
	if view.Error != "" {
		fmt.Println(view.Error)
		return nil
	}
	fmt.Printf("Genres: %s\n", strings.Join(view.Genres, ", "))
	if len(view.Hidden) > 0 {
		fmt.Printf("Hidden: %d (use undo or restore to show them again)\n", len(view.Hidden))
	}

	switch bucket {
	case "today":
		renderBucket("Today", view.Today)
	case "tomorrow":
		renderBucket("Tomorrow", view.Tomorrow)
	case "all":
		renderBucket("All", view.All)
	case "every":
		renderBucket("Today", view.Today)
		renderBucket("Tomorrow", view.Tomorrow)
		renderBucket("All", view.All)
	default:
		return fmt.Errorf("unknown bucket %q", bucket)
	}

	if view.IsEmpty() {
		fmt.Println("No movies match the current filters.")
		if view.Suggestion != "" {
			fmt.Printf("Did you mean %q?\n", view.Suggestion)
		}
	}
	return nil
}

func renderBucket(title string, movies []controllers.MovieView) {
	fmt.Printf("\n%s\n", title)
	if len(movies) == 0 {
		fmt.Println("  nothing playing")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Title", "Genre", "From", "Next", "Tickets", "Hours"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 30},
		{Number: 7, WidthMax: 30},
	})
	for _, movie := range movies {
		next := ""
		if movie.NextShowtime != nil {
			next = fmt.Sprintf("#%d %s", movie.NextShowtime.ID, movie.NextShowtime.StartTime)
		}
		t.AppendRow(table.Row{
			movie.MovieID,
			movie.Title,
			movie.Genre,
			fmt.Sprintf("%.2f lei", movie.Price),
			next,
			fmt.Sprintf("%d/%d", movie.AvailableTickets, movie.TotalTickets),
			showtimes.JoinHours(movie.Hours),
		})
	}
	t.Render()
}
