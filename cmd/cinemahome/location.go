package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/amaumene/cinemahome/internal/app"
	"github.com/amaumene/cinemahome/internal/config"
)

func newLocationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "location [name]",
		Short: "Select the cinema to browse",
		Long:  `Without an argument, pick the cinema from the configured list.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				var location string
				if len(args) == 1 {
					known, ok := config.MatchLocation(a.Config.Locations, args[0])
					if !ok {
						return fmt.Errorf("unknown location %q, expected one of: %s", args[0], strings.Join(a.Config.Locations, ", "))
					}
					location = known
				} else {
					selected, err := promptLocation(a.Config.Locations, a.Session.Location)
					if err != nil {
						return err
					}
					location = selected
				}

				if err := a.Session.ChangeLocation(ctx, location); err != nil {
					return err
				}
				a.Browse.Refresh(location)
				fmt.Printf("Selected %s.\n", a.Session.Location)
				return nil
			})
		},
	}
}

func promptLocation(locations []string, current string) (string, error) {
	cursor := 0
	for i, location := range locations {
		if location == current {
			cursor = i
		}
	}

	selectLocation := promptui.Select{
		Label:     "Select cinema",
		Items:     locations,
		Size:      10,
		CursorPos: cursor,
	}
	_, location, err := selectLocation.Run()
	if err != nil {
		return "", promptError(err)
	}
	return location, nil
}
