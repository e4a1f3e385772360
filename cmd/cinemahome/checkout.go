package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/amaumene/cinemahome/internal/app"
	"github.com/amaumene/cinemahome/internal/checkout"
	"github.com/amaumene/cinemahome/internal/models"
)

func newQuoteCmd() *cobra.Command {
	var quantity int
	var ticketType string

	cmd := &cobra.Command{
		Use:   "quote <showtime-id>",
		Short: "Price tickets for a showtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showtimeID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				quote, err := a.Checkout.Quote(ctx, showtimeID, quantity, ticketType)
				if err != nil {
					return err
				}
				fmt.Printf("%s, %s at %s\n", quote.Showtime.Title, quote.Showtime.StartTime, quote.Showtime.Location)
				fmt.Printf("%d x %s: %.2f lei (%d tickets left)\n", quote.Quantity, quote.TicketType, quote.Total, quote.Showtime.AvailableTickets)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "n", 1, "number of tickets")
	cmd.Flags().StringVarP(&ticketType, "type", "t", string(models.TicketAdult), "adult, student or child")
	return cmd
}

func newBuyCmd() *cobra.Command {
	var form checkout.Form
	var ticketType string

	cmd := &cobra.Command{
		Use:   "buy <showtime-id>",
		Short: "Buy tickets for a showtime",
		Long:  `Missing form fields are asked for interactively. Card details are only validated, never sent.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showtimeID, err := parseID(args[0])
			if err != nil {
				return err
			}
			form.ShowtimeID = showtimeID
			form.TicketType = models.TicketType(ticketType)

			if err := completeForm(&form); err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				ticket, err := a.Checkout.Buy(ctx, form)
				var validationErr *checkout.ValidationError
				if errors.As(err, &validationErr) {
					return fmt.Errorf("invalid %s: %s", validationErr.Field, validationErr.Message)
				}
				if err != nil {
					return err
				}
				fmt.Printf("Ticket %d bought for %s. Total: %.2f lei\n", ticket.ID, ticket.CustomerName, ticket.TotalPrice)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&form.FirstName, "first-name", "", "first name")
	flags.StringVar(&form.LastName, "last-name", "", "last name")
	flags.StringVar(&form.Email, "email", "", "email")
	flags.IntVarP(&form.Quantity, "quantity", "n", 1, "number of tickets")
	flags.StringVarP(&ticketType, "type", "t", string(models.TicketAdult), "adult, student or child")
	flags.StringVar(&form.CardName, "card-name", "", "name on card")
	flags.StringVar(&form.CardNumber, "card-number", "", "16 digit card number")
	flags.StringVar(&form.Expiry, "expiry", "", "card expiry, MM/YY")
	flags.StringVar(&form.CVV, "cvv", "", "3 digit CVV")
	return cmd
}

func newCancelCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "cancel <ticket-id>",
		Short: "Cancel a purchased ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticketID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				prompt := promptui.Prompt{Label: fmt.Sprintf("Cancel ticket %d", ticketID), IsConfirm: true}
				if _, err := prompt.Run(); err != nil {
					return promptError(err)
				}
			}

			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				message, err := a.Checkout.Cancel(ctx, ticketID)
				if err != nil {
					return err
				}
				fmt.Println(message)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// completeForm prompts for every empty field
func completeForm(form *checkout.Form) error {
	fields := []struct {
		label  string
		value  *string
		mask   rune
		format func(string) string
	}{
		{"Last name", &form.LastName, 0, nil},
		{"First name", &form.FirstName, 0, nil},
		{"Email", &form.Email, 0, nil},
		{"Name on card", &form.CardName, 0, nil},
		{"Card number", &form.CardNumber, 0, checkout.FormatCardNumber},
		{"Expiry (MM/YY)", &form.Expiry, 0, checkout.FormatExpiry},
		{"CVV", &form.CVV, '*', nil},
	}

	for _, field := range fields {
		if strings.TrimSpace(*field.value) != "" {
			if field.format != nil {
				*field.value = field.format(*field.value)
			}
			continue
		}
		prompt := promptui.Prompt{Label: field.label, Mask: field.mask}
		value, err := prompt.Run()
		if err != nil {
			return promptError(err)
		}
		if field.format != nil {
			value = field.format(value)
		}
		*field.value = value
	}
	return nil
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}
