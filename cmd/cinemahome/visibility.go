package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/amaumene/cinemahome/internal/app"
	"github.com/amaumene/cinemahome/internal/controllers"
	"github.com/amaumene/cinemahome/internal/ledger"
)

func newHideCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "hide <movie-id>",
		Short: "Hide a movie from the listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movieID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid movie id %q", args[0])
			}

			var confirmer ledger.Confirmer = promptConfirmer{}
			if yes {
				confirmer = nil
			}

			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				err := a.Visibility.Hide(ctx, a.Session, movieID, confirmer)
				if err != nil {
					return report(err)
				}
				fmt.Printf("Movie %d hidden.\n", movieID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Show the most recently hidden movie again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				movieID, err := a.Visibility.Undo(ctx, a.Session)
				if err != nil {
					return report(err)
				}
				fmt.Printf("Movie %d is visible again.\n", movieID)
				return nil
			})
		},
	}
}

// The redo history lives in memory, so redo only applies within one process
func newRedoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Hide again the movie restored by the last undo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				movieID, err := a.Visibility.Redo(ctx, a.Session)
				if err != nil {
					return report(err)
				}
				fmt.Printf("Movie %d hidden again.\n", movieID)
				return nil
			})
		},
	}
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Show every hidden movie again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				restored, err := a.Visibility.RestoreAll(ctx, a.Session)
				if err != nil {
					return report(err)
				}
				fmt.Printf("%d movies are visible again.\n", restored)
				return nil
			})
		},
	}
}

// report prints ledger no-ops as notices instead of failing the command
func report(err error) error {
	if controllers.IsLedgerNoop(err) {
		fmt.Printf("Nothing changed: %v.\n", err)
		return nil
	}
	return err
}

// promptConfirmer asks on the terminal before hiding
type promptConfirmer struct{}

func (promptConfirmer) ConfirmHide(ctx context.Context, movieID int64) (bool, error) {
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Hide movie %d", movieID),
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
