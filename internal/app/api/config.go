package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
)

// DefaultSQLitePath is where the snapshot slot lives when no database is configured.
const DefaultSQLitePath = "data/catalog.db"

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	SQLitePath        string
	BackendBaseURL    string
	BackendTimeout    time.Duration
	NATSURL           string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	SnapshotKey       string
	WriteBehind       time.Duration
	CompatStaleAfter  time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SQLitePath:        envDefault("SQLITE_PATH", DefaultSQLitePath),
		BackendBaseURL:    strings.TrimSpace(os.Getenv("BACKEND_BASE_URL")),
		BackendTimeout:    10 * time.Second,
		NATSURL:           strings.TrimSpace(os.Getenv("NATS_URL")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SnapshotKey:       envDefault("SNAPSHOT_KEY", "pets"),
		CompatStaleAfter:  30 * time.Second,
	}
	if seconds, ok, err := positiveInt("BACKEND_TIMEOUT_SECONDS"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.BackendTimeout = time.Duration(seconds) * time.Second
	}
	if millis, ok, err := positiveInt("WRITE_BEHIND_MS"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.WriteBehind = time.Duration(millis) * time.Millisecond
	}
	if seconds, ok, err := positiveInt("COMPAT_STALE_SECONDS"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.CompatStaleAfter = time.Duration(seconds) * time.Second
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func positiveInt(key string) (int, bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, false, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, true, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
