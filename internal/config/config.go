// Package config provides Viper-based configuration loading for the desk server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// StorageConfig selects where desk settings persist.
type StorageConfig struct {
	// Backend is one of "memory", "sqlite", or "postgres".
	Backend string `mapstructure:"backend"`
	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path"`
}

// TelnetConfig holds Telnet acceptor settings.
type TelnetConfig struct {
	// Enabled turns the Telnet listener on.
	Enabled bool `mapstructure:"enabled"`
	// Host is the bind address for the Telnet listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the Telnet listener.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for Telnet connections.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// HTTPConfig holds JSON API listener settings.
type HTTPConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the "host:port" listen address.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Service is stamped on every entry as the "service" field.
	Service string `mapstructure:"service"`
	// Output is "stderr", "stdout" or a file path.
	Output string `mapstructure:"output"`
}

// AnimationConfig mirrors animation.Profile plus an easing name.
type AnimationConfig struct {
	MinTurns int           `mapstructure:"min_turns"`
	MaxTurns int           `mapstructure:"max_turns"`
	Base     time.Duration `mapstructure:"base"`
	PerTurn  time.Duration `mapstructure:"per_turn"`
	Jitter   time.Duration `mapstructure:"jitter"`
	Max      time.Duration `mapstructure:"max"`
	// Easing is one of "ease_out_cubic", "ease_out_quart", or "linear".
	Easing string `mapstructure:"easing"`
}

// DeskConfig holds settings shared by every desk.
type DeskConfig struct {
	// DefaultProfile names the settings profile used when a client gives none.
	DefaultProfile string `mapstructure:"default_profile"`
	// FrameInterval is the animation redraw period.
	FrameInterval time.Duration `mapstructure:"frame_interval"`
	// Source is the randomness source: "pcg" or "crypto".
	Source string `mapstructure:"source"`
	// Seed fixes the pcg source. Zero seeds from the clock.
	Seed uint64 `mapstructure:"seed"`
}

// WheelConfig holds wheel geometry and animation settings.
type WheelConfig struct {
	PointerDeg float64         `mapstructure:"pointer_deg"`
	OriginDeg  float64         `mapstructure:"origin_deg"`
	Animation  AnimationConfig `mapstructure:"animation"`
}

// CoinConfig holds coin animation settings.
type CoinConfig struct {
	Animation AnimationConfig `mapstructure:"animation"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Telnet   TelnetConfig   `mapstructure:"telnet"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Desk     DeskConfig     `mapstructure:"desk"`
	Wheel    WheelConfig    `mapstructure:"wheel"`
	Coin     CoinConfig     `mapstructure:"coin"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Backend == BackendPostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateTelnet(c.Telnet); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateHTTP(c.HTTP); err != nil {
		errs = append(errs, err.Error())
	}
	if !c.Telnet.Enabled && !c.HTTP.Enabled {
		errs = append(errs, "at least one of telnet.enabled or http.enabled must be true")
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDesk(c.Desk); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateAnimation("wheel.animation", c.Wheel.Animation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateAnimation("coin.animation", c.Coin.Animation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	switch s.Backend {
	case BackendMemory, BackendPostgres:
		return nil
	case BackendSQLite:
		if strings.TrimSpace(s.SQLitePath) == "" {
			return errors.New("storage.sqlite_path must not be empty for the sqlite backend")
		}
		return nil
	default:
		return fmt.Errorf("storage.backend must be one of [memory, sqlite, postgres], got %q", s.Backend)
	}
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTelnet(t TelnetConfig) error {
	if !t.Enabled {
		return nil
	}
	var errs []string
	if t.Port < 1 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("telnet.port must be 1-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "telnet.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateHTTP(h HTTPConfig) error {
	if !h.Enabled {
		return nil
	}
	var errs []string
	if h.Port < 1 || h.Port > 65535 {
		errs = append(errs, fmt.Sprintf("http.port must be 1-65535, got %d", h.Port))
	}
	if h.ShutdownTimeout < 0 {
		errs = append(errs, "http.shutdown_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if strings.TrimSpace(l.Service) == "" {
		return fmt.Errorf("logging.service must not be empty")
	}
	return nil
}

func validateDesk(d DeskConfig) error {
	var errs []string
	if strings.TrimSpace(d.DefaultProfile) == "" {
		errs = append(errs, "desk.default_profile must not be empty")
	}
	if d.FrameInterval <= 0 {
		errs = append(errs, fmt.Sprintf("desk.frame_interval must be positive, got %s", d.FrameInterval))
	}
	if d.Source != "pcg" && d.Source != "crypto" {
		errs = append(errs, fmt.Sprintf("desk.source must be one of [pcg, crypto], got %q", d.Source))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateAnimation(prefix string, a AnimationConfig) error {
	var errs []string
	if a.MinTurns < 0 {
		errs = append(errs, fmt.Sprintf("%s.min_turns must be >= 0, got %d", prefix, a.MinTurns))
	}
	if a.MaxTurns < a.MinTurns {
		errs = append(errs, fmt.Sprintf("%s.max_turns must be >= min_turns, got %d < %d", prefix, a.MaxTurns, a.MinTurns))
	}
	if a.Base < 0 || a.PerTurn < 0 || a.Jitter < 0 || a.Max < 0 {
		errs = append(errs, prefix+" durations must not be negative")
	}
	validEasing := map[string]bool{"": true, "ease_out_cubic": true, "ease_out_quart": true, "linear": true}
	if !validEasing[a.Easing] {
		errs = append(errs, fmt.Sprintf("%s.easing must be one of [ease_out_cubic, ease_out_quart, linear], got %q", prefix, a.Easing))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with FORTUNE_ prefix
	v.SetEnvPrefix("FORTUNE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "fortune")
	v.SetDefault("database.password", "fortune")
	v.SetDefault("database.name", "fortune")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.sqlite_path", "fortune.db")

	v.SetDefault("telnet.enabled", true)
	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.read_timeout", "5m")
	v.SetDefault("telnet.write_timeout", "30s")

	v.SetDefault("http.enabled", true)
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.shutdown_timeout", "5s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.service", "fortune-desk")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("desk.default_profile", "default")
	v.SetDefault("desk.frame_interval", "50ms")
	v.SetDefault("desk.source", "pcg")
	v.SetDefault("desk.seed", 0)

	v.SetDefault("wheel.pointer_deg", -90.0)
	v.SetDefault("wheel.origin_deg", -90.0)
	v.SetDefault("wheel.animation.min_turns", 4)
	v.SetDefault("wheel.animation.max_turns", 7)
	v.SetDefault("wheel.animation.base", "3700ms")
	v.SetDefault("wheel.animation.per_turn", "200ms")
	v.SetDefault("wheel.animation.jitter", "400ms")
	v.SetDefault("wheel.animation.max", "5300ms")
	v.SetDefault("wheel.animation.easing", "ease_out_cubic")

	v.SetDefault("coin.animation.min_turns", 6)
	v.SetDefault("coin.animation.max_turns", 10)
	v.SetDefault("coin.animation.base", "900ms")
	v.SetDefault("coin.animation.per_turn", "200ms")
	v.SetDefault("coin.animation.jitter", "600ms")
	v.SetDefault("coin.animation.max", "3600ms")
	v.SetDefault("coin.animation.easing", "ease_out_cubic")
}
