package models

// ShowtimeRecord is one showing of a movie as delivered by the ticket backend.
// StartTime is kept as sent; it is parsed when summaries are derived so a
// malformed value never drops the record.
type ShowtimeRecord struct {
	ID               int64   `json:"id"`
	MovieID          int64   `json:"event_id"`
	Title            string  `json:"title"`
	Genre            string  `json:"genre,omitempty"`
	Description      string  `json:"description,omitempty"`
	Location         string  `json:"location"`
	StartTime        string  `json:"start_time"`
	Price            float64 `json:"price"`
	TotalTickets     int     `json:"total_tickets"`
	AvailableTickets int     `json:"available_tickets"`
}

// MovieSummary groups every showtime of one movie.
// It is derived on every aggregation pass and never mutated afterwards.
type MovieSummary struct {
	MovieID     int64   `json:"movie_id"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre,omitempty"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location"`
	Price       float64 `json:"price"` // Cheapest showing

	Showtimes    []ShowtimeRecord `json:"showtimes"` // Ascending by start time
	NextShowtime *ShowtimeRecord  `json:"next_showtime,omitempty"`

	// Capacity of NextShowtime only
	TotalTickets     int `json:"total_tickets"`
	AvailableTickets int `json:"available_tickets"`
}

// TicketType represents the buyer category used for pricing
type TicketType string

const (
	TicketAdult   TicketType = "adult"
	TicketStudent TicketType = "student"
	TicketChild   TicketType = "child"
)

// PurchaseRequest is the payload sent to the backend when buying tickets
type PurchaseRequest struct {
	ShowtimeID    int64      `json:"showtime_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	Quantity      int        `json:"quantity"`
	TicketType    TicketType `json:"ticket_type"`
}

// Ticket is a purchased ticket as returned by the backend
type Ticket struct {
	ID            int64      `json:"id"`
	ShowtimeID    int64      `json:"showtime_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	Quantity      int        `json:"quantity"`
	TicketType    TicketType `json:"ticket_type"`
	TotalPrice    float64    `json:"total_price"`
	IsPaid        bool       `json:"is_paid"`
}
