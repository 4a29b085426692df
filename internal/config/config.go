package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SourceGenerator = "generator"
	SourceFile      = "file"
)

type Config struct {
	Server  ServerConfig
	Stock   StockConfig
	Metrics MetricsConfig
}

type ServerConfig struct {
	Port            string
	LogLevel        string
	CORSOrigins     string
	RateLimitPerMin int
	// TrustProxy takes the client address from X-Forwarded-For or X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool
}

// StockConfig selects where the record set comes from.
type StockConfig struct {
	Source string
	File   string
	Seed   int64
	Size   int
}

type MetricsConfig struct {
	Enabled bool
	Token   string
}

// Load is Read followed by Validate.
func Load(envFile string) (*Config, error) {
	cfg, err := Read(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read parses an optional env file, then the process environment, without
// validating the result so callers can apply overrides first. A missing env
// file is not an error.
func Read(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	seed, err := getenvInt64("STOCK_SEED", 0)
	if err != nil {
		return nil, err
	}
	size, err := getenvInt("STOCK_SIZE", 150)
	if err != nil {
		return nil, err
	}
	rate, err := getenvInt("RATE_LIMIT_PER_MIN", 0)
	if err != nil {
		return nil, err
	}
	metricsOn, err := getenvBool("METRICS_ENABLED", true)
	if err != nil {
		return nil, err
	}
	trustProxy, err := getenvBool("TRUST_PROXY", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getenv("PORT", "8000"),
			LogLevel:        getenv("LOG_LEVEL", "info"),
			CORSOrigins:     getenv("CORS_ORIGINS", "*"),
			RateLimitPerMin: rate,
			TrustProxy:      trustProxy,
		},
		Stock: StockConfig{
			Source: strings.ToLower(getenv("STOCK_SOURCE", SourceGenerator)),
			File:   os.Getenv("STOCK_FILE"),
			Seed:   seed,
			Size:   size,
		},
		Metrics: MetricsConfig{
			Enabled: metricsOn,
			Token:   os.Getenv("METRICS_TOKEN"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.Server.RateLimitPerMin < 0 {
		return errors.New("RATE_LIMIT_PER_MIN must be >= 0")
	}

	switch c.Stock.Source {
	case SourceGenerator:
		if c.Stock.Size <= 0 {
			return errors.New("STOCK_SIZE must be > 0")
		}
	case SourceFile:
		if c.Stock.File == "" {
			return errors.New("STOCK_FILE must be provided when STOCK_SOURCE=file")
		}
	default:
		return fmt.Errorf("STOCK_SOURCE %q is not one of %s, %s", c.Stock.Source, SourceGenerator, SourceFile)
	}

	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func getenvInt64(k string, def int64) (int64, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func getenvBool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}
