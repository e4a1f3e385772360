package checkout

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/amaumene/cinemahome/internal/models"
)

// ValidationError names the first form field that failed validation
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Form is what the buyer fills in
type Form struct {
	ShowtimeID int64             `json:"showtime_id"`
	FirstName  string            `json:"first_name"`
	LastName   string            `json:"last_name"`
	Email      string            `json:"email"`
	Quantity   int               `json:"quantity"`
	TicketType models.TicketType `json:"ticket_type"`
	CardName   string            `json:"card_name"`
	CardNumber string            `json:"card_number"`
	Expiry     string            `json:"expiry"` // MM/YY
	CVV        string            `json:"cvv"`
}

// Validate checks the form against showtime. Checks run in a fixed order
// and the first failure is returned as a *ValidationError.
func Validate(form Form, showtime *models.ShowtimeRecord, now time.Time) error {
	if strings.TrimSpace(form.LastName) == "" {
		return invalid("last_name", "last name is required")
	}
	if strings.TrimSpace(form.FirstName) == "" {
		return invalid("first_name", "first name is required")
	}
	email := strings.TrimSpace(form.Email)
	if email == "" {
		return invalid("email", "email is required")
	}
	if !strings.Contains(email, "@") {
		return invalid("email", "email is invalid")
	}

	if showtime == nil {
		return invalid("showtime_id", "showtime was not found")
	}
	if form.Quantity < 1 {
		return invalid("quantity", "quantity must be at least 1")
	}
	if form.Quantity > showtime.AvailableTickets {
		return invalid("quantity", "not enough tickets available")
	}
	if form.TicketType != "" {
		if _, err := ParseTicketType(string(form.TicketType)); err != nil {
			return invalid("ticket_type", err.Error())
		}
	}

	if strings.TrimSpace(form.CardName) == "" {
		return invalid("card_name", "name on card is required")
	}
	if digits := strings.Join(strings.Fields(form.CardNumber), ""); len(digits) != 16 || !allDigits(digits) {
		return invalid("card_number", "card number must have exactly 16 digits")
	}

	month, year, ok := parseExpiry(form.Expiry)
	if !ok {
		return invalid("expiry", "expiry must be in MM/YY format (e.g. 07/29)")
	}
	currentYear := now.Year() % 100
	if year < currentYear || (year == currentYear && month < int(now.Month())) {
		return invalid("expiry", "card has expired")
	}

	if len(form.CVV) != 3 || !allDigits(form.CVV) {
		return invalid("cvv", "CVV must have exactly 3 digits")
	}
	return nil
}

// PurchaseRequest builds the backend payload. Card fields are left out.
func (f Form) PurchaseRequest() models.PurchaseRequest {
	ticketType := f.TicketType
	if ticketType == "" {
		ticketType = models.TicketAdult
	}
	return models.PurchaseRequest{
		ShowtimeID:    f.ShowtimeID,
		CustomerName:  strings.TrimSpace(f.FirstName) + " " + strings.TrimSpace(f.LastName),
		CustomerEmail: strings.TrimSpace(f.Email),
		Quantity:      f.Quantity,
		TicketType:    ticketType,
	}
}

// FormatCardNumber keeps the first 16 digits and groups them by 4
func FormatCardNumber(value string) string {
	digits := onlyDigits(value, 16)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry keeps the first 4 digits and inserts the slash after the month
func FormatExpiry(value string) string {
	digits := onlyDigits(value, 4)
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

func parseExpiry(value string) (month, year int, ok bool) {
	if len(value) != 5 || value[2] != '/' || !allDigits(value[:2]) || !allDigits(value[3:]) {
		return 0, 0, false
	}
	month, _ = strconv.Atoi(value[:2])
	year, _ = strconv.Atoi(value[3:])
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return month, year, true
}

func onlyDigits(value string, limit int) string {
	var b strings.Builder
	for _, r := range value {
		if b.Len() == limit {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
