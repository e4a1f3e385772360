package main

import (
	"context"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/amaumene/cinemahome/internal/app"
)

func newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget the hidden movies and the selected cinema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				prompt := promptui.Prompt{Label: "Reset the session", IsConfirm: true}
				if _, err := prompt.Run(); err != nil {
					return promptError(err)
				}
			}

			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Store.Clear(ctx); err != nil {
					return fmt.Errorf("failed to reset session: %w", err)
				}
				a.Logger.Info().Str("session", a.Config.SessionID).Msg("Session reset")
				fmt.Printf("Session %s reset, back to %s.\n", a.Config.SessionID, a.Config.DefaultLocation)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
