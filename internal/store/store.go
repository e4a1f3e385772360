// Package store persists per-session state: the hidden movie list and the
// selected cinema.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/amaumene/cinemahome/internal/config"
)

// Store is the session key/value state. Both values are scoped to the
// session the store was opened for.
type Store interface {
	LoadHidden(ctx context.Context) ([]int64, error)
	SaveHidden(ctx context.Context, hidden []int64) error
	// LoadLocation returns "" when no location was ever saved
	LoadLocation(ctx context.Context) (string, error)
	SaveLocation(ctx context.Context, location string) error
	// Clear forgets everything stored for the session
	Clear(ctx context.Context) error
	Close() error
}

// Open returns the backend selected by cfg.StoreBackend
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Store, error) {
	switch cfg.StoreBackend {
	case config.StoreSQLite:
		s, err := NewSQLiteStore(cfg.DatabaseFile, cfg.SessionID)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Str("backend", cfg.StoreBackend).
			Str("path", cfg.DatabaseFile).
			Str("session", cfg.SessionID).
			Msg("Session store opened")
		return s, nil
	case config.StoreRedis:
		s, err := NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionID)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Str("backend", cfg.StoreBackend).
			Str("addr", cfg.RedisAddr).
			Str("session", cfg.SessionID).
			Msg("Session store opened")
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// The hidden list is stored as a JSON array of movie ids
func encodeHidden(hidden []int64) (string, error) {
	if hidden == nil {
		hidden = []int64{}
	}
	data, err := json.Marshal(hidden)
	if err != nil {
		return "", fmt.Errorf("failed to encode hidden movies: %w", err)
	}
	return string(data), nil
}

func decodeHidden(value string) ([]int64, error) {
	if strings.TrimSpace(value) == "" {
		return []int64{}, nil
	}
	var hidden []int64
	if err := json.Unmarshal([]byte(value), &hidden); err != nil {
		return nil, fmt.Errorf("failed to decode hidden movies: %w", err)
	}
	if hidden == nil {
		hidden = []int64{}
	}
	return hidden, nil
}
