package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port             string
	AllowedOrigins   []string
	WSReadTimeout    time.Duration
	WSWriteTimeout   time.Duration
	LogLevel         string
	PingPeriod       time.Duration
	PongWait         time.Duration
	WriteWait        time.Duration
	MaxMessageSize   int64
	FixturesDir      string
	SnapshotInterval time.Duration
	Latency          Latency
}

// Latency is the simulated delay of each entity service operation
type Latency struct {
	GetAll  time.Duration
	GetByID time.Duration
	Create  time.Duration
	Update  time.Duration
	Delete  time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FixturesDir:    os.Getenv("FIXTURES_DIR"),
	}

	var err error
	if config.WSReadTimeout, err = seconds("WS_READ_TIMEOUT", "60"); err != nil {
		return nil, err
	}
	if config.WSWriteTimeout, err = seconds("WS_WRITE_TIMEOUT", "10"); err != nil {
		return nil, err
	}
	if config.SnapshotInterval, err = seconds("SNAPSHOT_INTERVAL", "5"); err != nil {
		return nil, err
	}
	if config.SnapshotInterval <= 0 {
		return nil, fmt.Errorf("invalid SNAPSHOT_INTERVAL: must be positive")
	}

	latencies := []struct {
		key  string
		def  string
		dest *time.Duration
	}{
		{"LATENCY_GET_ALL_MS", "300", &config.Latency.GetAll},
		{"LATENCY_GET_BY_ID_MS", "200", &config.Latency.GetByID},
		{"LATENCY_CREATE_MS", "500", &config.Latency.Create},
		{"LATENCY_UPDATE_MS", "400", &config.Latency.Update},
		{"LATENCY_DELETE_MS", "300", &config.Latency.Delete},
	}
	for _, l := range latencies {
		ms, err := strconv.Atoi(getEnv(l.key, l.def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", l.key, err)
		}
		if ms < 0 {
			return nil, fmt.Errorf("invalid %s: must not be negative", l.key)
		}
		*l.dest = time.Duration(ms) * time.Millisecond
	}

	// Calculate WebSocket constants
	config.PongWait = config.WSReadTimeout
	config.PingPeriod = (config.PongWait * 9) / 10 // Must be less than pongWait
	config.WriteWait = config.WSWriteTimeout
	config.MaxMessageSize = 512

	// Trim spaces from allowed origins
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

func seconds(key, defaultValue string) (time.Duration, error) {
	n, err := strconv.Atoi(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return time.Duration(n) * time.Second, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
