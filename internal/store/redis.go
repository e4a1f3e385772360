package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amaumene/cinemahome/internal/models"
)

const redisKeyPrefix = "cinemahome"

// RedisStore keeps session state in redis so several processes can share
// one session.
type RedisStore struct {
	client    *redis.Client
	sessionID string
}

// NewRedisStore connects to redis and checks the connection with a PING
func NewRedisStore(ctx context.Context, addr, password string, db int, sessionID string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return NewRedisStoreFromClient(client, sessionID), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client, sessionID string) *RedisStore {
	return &RedisStore{client: client, sessionID: sessionID}
}

func (s *RedisStore) key(name string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, s.sessionID, name)
}

func (s *RedisStore) get(ctx context.Context, name string) (string, error) {
	value, err := s.client.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return value, nil
}

func (s *RedisStore) set(ctx context.Context, name, value string) error {
	if err := s.client.Set(ctx, s.key(name), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *RedisStore) LoadHidden(ctx context.Context) ([]int64, error) {
	value, err := s.get(ctx, models.SettingHiddenMovies)
	if err != nil {
		return nil, err
	}
	return decodeHidden(value)
}

func (s *RedisStore) SaveHidden(ctx context.Context, hidden []int64) error {
	value, err := encodeHidden(hidden)
	if err != nil {
		return err
	}
	return s.set(ctx, models.SettingHiddenMovies, value)
}

func (s *RedisStore) LoadLocation(ctx context.Context) (string, error) {
	return s.get(ctx, models.SettingSelectedCinema)
}

func (s *RedisStore) SaveLocation(ctx context.Context, location string) error {
	return s.set(ctx, models.SettingSelectedCinema, location)
}

// Clear removes every key of the session
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key(models.SettingHiddenMovies), s.key(models.SettingSelectedCinema)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
