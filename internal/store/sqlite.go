package store

import (
	"context"

	"github.com/amaumene/cinemahome/internal/models"
)

// SQLiteStore keeps session state in the local gorm database
type SQLiteStore struct {
	db        *models.Database
	sessionID string
}

// NewSQLiteStore opens the database at path
func NewSQLiteStore(path, sessionID string) (*SQLiteStore, error) {
	db, err := models.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, sessionID: sessionID}, nil
}

func (s *SQLiteStore) LoadHidden(ctx context.Context) ([]int64, error) {
	value, _, err := s.db.GetSetting(ctx, s.sessionID, models.SettingHiddenMovies)
	if err != nil {
		return nil, err
	}
	return decodeHidden(value)
}

func (s *SQLiteStore) SaveHidden(ctx context.Context, hidden []int64) error {
	value, err := encodeHidden(hidden)
	if err != nil {
		return err
	}
	return s.db.PutSetting(ctx, s.sessionID, models.SettingHiddenMovies, value)
}

func (s *SQLiteStore) LoadLocation(ctx context.Context) (string, error) {
	value, _, err := s.db.GetSetting(ctx, s.sessionID, models.SettingSelectedCinema)
	return value, err
}

func (s *SQLiteStore) SaveLocation(ctx context.Context, location string) error {
	return s.db.PutSetting(ctx, s.sessionID, models.SettingSelectedCinema, location)
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	settings, err := s.db.GetSessionSettings(ctx, s.sessionID)
	if err != nil {
		return err
	}
	for _, setting := range settings {
		if err := s.db.DeleteSetting(ctx, s.sessionID, setting.Name); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
