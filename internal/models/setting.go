package models

import "time"

// Fixed storage keys for persisted session state
const (
	SettingHiddenMovies   = "removed_movies"
	SettingSelectedCinema = "selected_cinema"
)

// Setting is one persisted key/value pair scoped to a session
type Setting struct {
	SessionID string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}
