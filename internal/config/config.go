package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ServerConfig captures all tunable parameters for the proxy process.
// Values are primarily loaded from environment variables with sane defaults
// so the binary can run locally without excessive setup.
type ServerConfig struct {
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// BackendURL is the external MEDIRIDE backend that owns all business
	// logic; this process only forwards to it.
	BackendURL     string
	BackendTimeout time.Duration

	RedisAddr         string
	RedisPassword     string
	DirectoryCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	PGDSN string

	DemoFallback bool

	LogLevel string
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPAddr:          ":8080",
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		BackendURL:        "http://localhost:8000",
		BackendTimeout:    10 * time.Second,
		DirectoryCacheTTL: 5 * time.Minute,
		KafkaTopic:        "booking-events",
		DemoFallback:      true,
		LogLevel:          "info",
	}
}

func LoadServerConfig() (ServerConfig, error) {
	cfg := defaultServerConfig()
	var errs []error

	setStringFromEnv(&cfg.HTTPAddr, "HTTP_ADDR")
	setDurationFromEnv(&cfg.ReadTimeout, "HTTP_READ_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.WriteTimeout, "HTTP_WRITE_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.IdleTimeout, "HTTP_IDLE_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.ShutdownTimeout, "HTTP_SHUTDOWN_TIMEOUT", &errs)

	setStringFromEnv(&cfg.BackendURL, "BACKEND_URL")
	setDurationFromEnv(&cfg.BackendTimeout, "BACKEND_TIMEOUT", &errs)

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	setDurationFromEnv(&cfg.DirectoryCacheTTL, "DIRECTORY_CACHE_TTL", &errs)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	setStringFromEnv(&cfg.KafkaTopic, "KAFKA_TOPIC")

	cfg.PGDSN = os.Getenv("PG_DSN")

	if v := os.Getenv("DEMO_FALLBACK"); v != "" {
		cfg.DemoFallback = strings.EqualFold(v, "true")
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if strings.TrimSpace(cfg.BackendURL) == "" {
		errs = append(errs, fmt.Errorf("BACKEND_URL must not be empty"))
	}

	return cfg, errors.Join(errs...)
}

// ClientConfig drives the terminal client. Unlike the proxy, which
// forwards each caller's own bearer token, the client keeps a real
// per-role session on disk at SessionFile.
type ClientConfig struct {
	BackendURL     string
	BackendTimeout time.Duration
	SessionFile    string
}

func LoadClientConfig() (ClientConfig, error) {
	cfg := ClientConfig{
		BackendURL:     "http://localhost:8000",
		BackendTimeout: 10 * time.Second,
		SessionFile:    defaultSessionFile(),
	}
	var errs []error

	setStringFromEnv(&cfg.BackendURL, "BACKEND_URL")
	setDurationFromEnv(&cfg.BackendTimeout, "BACKEND_TIMEOUT", &errs)
	setStringFromEnv(&cfg.SessionFile, "SESSION_FILE")

	if strings.TrimSpace(cfg.BackendURL) == "" {
		errs = append(errs, fmt.Errorf("BACKEND_URL must not be empty"))
	}

	return cfg, errors.Join(errs...)
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mediride-sessions.json"
	}
	return filepath.Join(home, ".mediride", "sessions.json")
}

func setDurationFromEnv(target *time.Duration, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = d
	}
}

func setStringFromEnv(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func splitAndTrim(v string) []string {
	raw := strings.Split(v, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
