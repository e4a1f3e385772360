package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Store backends
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	// Ticket backend
	APIURL         string
	RequestTimeout time.Duration
	BackendWait    time.Duration // How long `serve` waits for the backend to answer (default: 30s)

	// Cinemas
	DefaultLocation string
	Locations       []string

	// Presentation
	LocaleName   string
	Locale       language.Tag
	TimezoneName string
	Timezone     *time.Location

	// Session state
	StoreBackend  string
	SessionID     string
	DatabaseFile  string // $CONFIG_DIR/cinemahome.db
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Record cache (0 disables)
	RecordCacheTTL time.Duration

	// Server
	ServerPort      string
	RefreshSchedule string // Cron spec for reloading the selected cinema, empty disables
	HealthSchedule  string // Cron spec for pinging the backend, empty disables

	// Logging
	LogLevel  string
	LogFormat string

	// Tracing
	TracingEnabled     bool
	TracingSampleRatio float64
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	setDefaults()

	configDir, err := resolveConfigDir(viper.GetString("CONFIG_DIR"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		APIURL:         strings.TrimRight(strings.TrimSpace(viper.GetString("CINEMA_API_URL")), "/"),
		RequestTimeout: viper.GetDuration("REQUEST_TIMEOUT"),
		BackendWait:    viper.GetDuration("BACKEND_WAIT"),

		DefaultLocation: strings.TrimSpace(viper.GetString("DEFAULT_LOCATION")),
		Locations:       splitList(viper.GetString("LOCATIONS")),

		LocaleName:   viper.GetString("LOCALE"),
		TimezoneName: viper.GetString("TIMEZONE"),

		StoreBackend:  strings.ToLower(strings.TrimSpace(viper.GetString("STORE_BACKEND"))),
		SessionID:     viper.GetString("SESSION_ID"),
		DatabaseFile:  filepath.Join(configDir, "cinemahome.db"),
		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		RedisDB:       viper.GetInt("REDIS_DB"),

		RecordCacheTTL: viper.GetDuration("RECORD_CACHE_TTL"),

		ServerPort:      viper.GetString("SERVER_PORT"),
		RefreshSchedule: strings.TrimSpace(viper.GetString("REFRESH_SCHEDULE")),
		HealthSchedule:  strings.TrimSpace(viper.GetString("HEALTH_SCHEDULE")),

		LogLevel:  viper.GetString("LOG_LEVEL"),
		LogFormat: viper.GetString("LOG_FORMAT"),

		TracingEnabled:     viper.GetBool("TRACING_ENABLED"),
		TracingSampleRatio: viper.GetFloat64("TRACING_SAMPLE_RATIO"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("CINEMA_API_URL", "http://127.0.0.1:8000")
	viper.SetDefault("REQUEST_TIMEOUT", "10s")
	viper.SetDefault("BACKEND_WAIT", "30s")
	viper.SetDefault("DEFAULT_LOCATION", "Iulius Mall")
	viper.SetDefault("LOCATIONS", "Iulius Mall,VIVO Cluj,Florin Piersic")
	viper.SetDefault("LOCALE", "ro")
	viper.SetDefault("TIMEZONE", "Local")
	viper.SetDefault("STORE_BACKEND", StoreSQLite)
	viper.SetDefault("SESSION_ID", "default")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RECORD_CACHE_TTL", "30s")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REFRESH_SCHEDULE", "*/5 * * * *")
	viper.SetDefault("HEALTH_SCHEDULE", "@every 1m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
}

// resolveConfigDir returns an absolute config directory, creating it if needed
func resolveConfigDir(configDir string) (string, error) {
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "cinemahome")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return configDir, nil
}

// Validate checks required fields and resolves the locale and timezone
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("CINEMA_API_URL is required")
	}
	if c.DefaultLocation == "" {
		return fmt.Errorf("DEFAULT_LOCATION is required")
	}
	if c.StoreBackend != StoreSQLite && c.StoreBackend != StoreRedis {
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreSQLite, StoreRedis, c.StoreBackend)
	}
	if c.SessionID == "" {
		return fmt.Errorf("SESSION_ID is required")
	}
	if c.RecordCacheTTL < 0 {
		return fmt.Errorf("RECORD_CACHE_TTL must not be negative")
	}
	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATIO must be between 0 and 1")
	}

	tag, err := language.Parse(c.LocaleName)
	if err != nil {
		return fmt.Errorf("invalid LOCALE %q: %w", c.LocaleName, err)
	}
	c.Locale = tag

	zone, err := time.LoadLocation(c.TimezoneName)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.TimezoneName, err)
	}
	c.Timezone = zone

	if !containsFold(c.Locations, c.DefaultLocation) {
		c.Locations = append([]string{c.DefaultLocation}, c.Locations...)
	}
	return nil
}

// Now returns the current time in the configured timezone
func (c *Config) Now() time.Time {
	if c.Timezone == nil {
		return time.Now()
	}
	return time.Now().In(c.Timezone)
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// MatchLocation returns the configured spelling of name, matched
// case-insensitively after trimming
func MatchLocation(locations []string, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, candidate := range locations {
		if strings.EqualFold(candidate, name) {
			return candidate, true
		}
	}
	return "", false
}

func containsFold(items []string, value string) bool {
	for _, item := range items {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
