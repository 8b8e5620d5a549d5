// Package config provides application configuration loaded from environment variables.
// Use the package-level Get() function to obtain the singleton Config instance.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sub-config structs
// ──────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        // e.g. "8080"
	Env          string        // "development" | "production"
	ReadTimeout  time.Duration // default 10s
	WriteTimeout time.Duration // default 10s
}

// StoreConfig holds bet ledger persistence settings. When DSN is empty the
// server runs on the in-memory store.
type StoreConfig struct {
	DSN             string        // postgres DSN; "" = in-memory ledger
	MaxOpenConns    int           // default 25
	MaxIdleConns    int           // default 10
	ConnMaxLifetime time.Duration // default 5m
}

// GateConfig holds confirmation gate settings.
type GateConfig struct {
	ConfirmThreshold float64 // stake above this requires a verbal confirmation, default 50
	ConfidenceFloor  float64 // intents below this confidence require confirmation, default 0.5
}

// OracleConfig holds settings for the external language-model validator.
// Disabled when APIKey is empty; the deterministic parser then stands alone.
type OracleConfig struct {
	BaseURL string        // default "https://api.openai.com"
	APIKey  string        // "" = oracle disabled
	Model   string        // default "gpt-4o"
	Timeout time.Duration // default 10s
}

// ──────────────────────────────────────────────────────────────────────────────
// Top-level Config
// ──────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object for the entire application.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Gate   GateConfig
	Oracle OracleConfig
}

// IsProd returns true when running in the production environment.
func (c *Config) IsProd() bool {
	return c.Server.Env == "production"
}

// OracleEnabled reports whether the language-model validator is configured.
func (c *Config) OracleEnabled() bool {
	return c.Oracle.APIKey != ""
}

// Validate checks that all required configuration values are present and valid.
// Returns the first validation error encountered.
func (c *Config) Validate() error {
	var errs []error

	if c.Gate.ConfirmThreshold <= 0 {
		errs = append(errs, fmt.Errorf(
			"GATE_CONFIRM_THRESHOLD must be positive, got %.2f", c.Gate.ConfirmThreshold))
	}
	if c.Gate.ConfidenceFloor < 0 || c.Gate.ConfidenceFloor > 1 {
		errs = append(errs, fmt.Errorf(
			"GATE_CONFIDENCE_FLOOR must be within [0, 1], got %.2f", c.Gate.ConfidenceFloor))
	}

	// In production a durable ledger is mandatory
	if c.IsProd() && c.Store.DSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN must be set in production"))
	}

	if c.OracleEnabled() && c.Oracle.Model == "" {
		errs = append(errs, errors.New("ORACLE_MODEL must be set when ORACLE_API_KEY is present"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Singleton
// ──────────────────────────────────────────────────────────────────────────────

var (
	instance *Config
	once     sync.Once
	loadErr  error
)

// Get returns the singleton Config, loading it once from environment variables.
// Panics if loading fails — call this early in main() to catch misconfigurations
// at startup.
func Get() *Config {
	once.Do(func() {
		instance, loadErr = load()
	})
	if loadErr != nil {
		panic(fmt.Sprintf("config: failed to load: %v", loadErr))
	}
	return instance
}

// MustLoad loads and validates configuration. Intended for use in main().
// Panics on any error so misconfiguration is caught immediately at boot.
func MustLoad() *Config {
	cfg := Get()
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("config: validation failed: %v", err))
	}
	return cfg
}

// ──────────────────────────────────────────────────────────────────────────────
// Internal loader
// ──────────────────────────────────────────────────────────────────────────────

func load() (*Config, error) {
	cfg := &Config{}

	// ── Server ────────────────────────────────────────────────────────────────
	cfg.Server = ServerConfig{
		Port:         getEnv("SERVER_PORT", "8080"),
		Env:          getEnv("ENVIRONMENT", "development"),
		ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
	}

	// ── Store ─────────────────────────────────────────────────────────────────
	maxOpen, err := getInt("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS: %w", err)
	}
	maxIdle, err := getInt("DB_MAX_IDLE_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("DB_MAX_IDLE_CONNS: %w", err)
	}

	cfg.Store = StoreConfig{
		DSN:             os.Getenv("DATABASE_DSN"),
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}

	// ── Gate ──────────────────────────────────────────────────────────────────
	threshold, err := getFloat("GATE_CONFIRM_THRESHOLD", 50)
	if err != nil {
		return nil, fmt.Errorf("GATE_CONFIRM_THRESHOLD: %w", err)
	}
	floor, err := getFloat("GATE_CONFIDENCE_FLOOR", 0.5)
	if err != nil {
		return nil, fmt.Errorf("GATE_CONFIDENCE_FLOOR: %w", err)
	}

	cfg.Gate = GateConfig{
		ConfirmThreshold: threshold,
		ConfidenceFloor:  floor,
	}

	// ── Oracle ────────────────────────────────────────────────────────────────
	cfg.Oracle = OracleConfig{
		BaseURL: getEnv("ORACLE_BASE_URL", "https://api.openai.com"),
		APIKey:  getEnv("ORACLE_API_KEY", ""),
		Model:   getEnv("ORACLE_MODEL", "gpt-4o"),
		Timeout: getDuration("ORACLE_TIMEOUT", 10*time.Second),
	}

	return cfg, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helper functions
// ──────────────────────────────────────────────────────────────────────────────

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return n, nil
}

func getFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float %q", v)
	}
	return f, nil
}

// getDuration parses an env var as a Go duration string (e.g. "15m", "2s").
// Falls back to defaultVal if the variable is unset or empty.
func getDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
