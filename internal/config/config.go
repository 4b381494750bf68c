package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents runtime configuration derived from environment variables.
type Config struct {
	Server        ServerConfig
	Logging       LoggingConfig
	Store         StoreConfig
	OpenAI        OpenAIConfig
	Geo           GeoConfig
	DefaultCity   string
	AllowedOrigin string
}

// ServerConfig holds HTTP server runtime parameters.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoggingConfig represents structured logging configuration.
type LoggingConfig struct {
	Level  slog.Level
	Format string
}

// StoreConfig selects the persistent key-value backend.
type StoreConfig struct {
	Backend     string // memory | redis | postgres
	RedisAddr   string
	DatabaseURL string
}

// OpenAIConfig holds settings for the generative collaborator.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// GeoConfig holds settings for the IP geolocation provider.
type GeoConfig struct {
	Endpoint string
	Timeout  time.Duration
}

const (
	defaultPort            = "8080"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultShutdownTimeout = 5 * time.Second

	defaultLogFormat = "json"

	defaultStoreBackend = "memory"
	defaultRedisAddr    = "localhost:6379"

	defaultOpenAIModel  = "gpt-4o-mini"
	defaultTemperature  = 0.7
	defaultMaxTokens    = 4000
	defaultAITimeout    = 60 * time.Second
	defaultGeoEndpoint  = "http://ip-api.com/json"
	defaultGeoTimeout   = 5 * time.Second
	defaultFallbackCity = "New York, USA"
)

// Load reads configuration from environment variables, applying defaults when
// values are not provided or invalid. A .env file in the working directory is
// loaded first if present.
func Load() (Config, error) {
	// Missing .env is the normal case in production
	_ = godotenv.Load()

	// Cloud Run sets PORT, but allow SERVER_PORT override for local dev
	port := getEnv("PORT", "")
	if port == "" {
		port = getEnv("SERVER_PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            port,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:  slog.LevelInfo,
			Format: defaultLogFormat,
		},
		Store: StoreConfig{
			Backend:     getEnv("STORE_BACKEND", defaultStoreBackend),
			RedisAddr:   getEnv("REDIS_ADDR", defaultRedisAddr),
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Model:       getEnv("OPENAI_MODEL", defaultOpenAIModel),
			Temperature: defaultTemperature,
			MaxTokens:   defaultMaxTokens,
			Timeout:     defaultAITimeout,
		},
		Geo: GeoConfig{
			Endpoint: getEnv("GEO_ENDPOINT", defaultGeoEndpoint),
			Timeout:  defaultGeoTimeout,
		},
		DefaultCity:   getEnv("DEFAULT_CITY", defaultFallbackCity),
		AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
	}

	switch cfg.Store.Backend {
	case "memory", "redis", "postgres":
	default:
		return Config{}, fmt.Errorf("invalid STORE_BACKEND: must be one of memory, redis, postgres")
	}

	if cfg.Store.Backend == "postgres" && cfg.Store.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
	}

	if v := os.Getenv("SERVER_READ_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_READ_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.ReadTimeout = d
	}

	if v := os.Getenv("SERVER_WRITE_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.WriteTimeout = d
	}

	if v := os.Getenv("SERVER_SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Server.ShutdownTimeout = d
	}

	if v := os.Getenv("OPENAI_TEMPERATURE"); v != "" {
		temp, err := strconv.ParseFloat(v, 32)
		if err != nil || temp < 0 || temp > 2 {
			return Config{}, fmt.Errorf("invalid OPENAI_TEMPERATURE: must be a float between 0 and 2")
		}
		cfg.OpenAI.Temperature = float32(temp)
	}

	if v := os.Getenv("OPENAI_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid OPENAI_TIMEOUT_SECONDS: %w", err)
		}
		cfg.OpenAI.Timeout = d
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.Logging.Level = level
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		switch v {
		case "json", "text":
			cfg.Logging.Format = v
		default:
			return Config{}, fmt.Errorf("invalid LOG_FORMAT: must be 'json' or 'text'")
		}
	}

	return cfg, nil
}

func parseSeconds(raw string) (time.Duration, error) {
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return time.Duration(seconds) * time.Second, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("must be one of debug, info, warn, error")
	}
}
