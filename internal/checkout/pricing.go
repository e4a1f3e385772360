// Package checkout prices tickets and validates the checkout form. Card
// details are only checked for shape; they are never sent anywhere.
package checkout

import (
	"fmt"
	"math"
	"strings"

	"github.com/amaumene/cinemahome/internal/models"
)

var priceFactors = map[models.TicketType]float64{
	models.TicketAdult:   1,
	models.TicketStudent: 0.8,
	models.TicketChild:   0.5,
}

// ParseTicketType accepts adult, student or child in any case. Blank means adult.
func ParseTicketType(value string) (models.TicketType, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return models.TicketAdult, nil
	}
	ticketType := models.TicketType(value)
	if _, ok := priceFactors[ticketType]; !ok {
		return "", fmt.Errorf("unknown ticket type %q", value)
	}
	return ticketType, nil
}

// Quote returns the total for quantity tickets at price, rounded to 2 decimals
func Quote(price float64, quantity int, ticketType models.TicketType) (float64, error) {
	factor, ok := priceFactors[ticketType]
	if !ok {
		return 0, fmt.Errorf("unknown ticket type %q", ticketType)
	}
	if quantity < 0 {
		return 0, fmt.Errorf("quantity must not be negative")
	}
	return math.Round(price*float64(quantity)*factor*100) / 100, nil
}
