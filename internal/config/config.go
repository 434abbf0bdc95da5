package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tonhe/acifault/internal/fault"
)

// Error means the defaults file exists but cannot be used.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type Config struct {
	FabricFile      string        `toml:"fabric_file"`
	MaxAgeDays      int           `toml:"max_age_days"`
	DisplayLength   int           `toml:"display_length"`
	MaxDescLength   int           `toml:"max_desc_length"`
	Severities      []string      `toml:"severities"`
	ShowAcked       bool          `toml:"show_acked"`
	SameCredentials bool          `toml:"same_credentials"`
	VerifyTLS       bool          `toml:"verify_tls"`
	ForceHTTP       bool          `toml:"force_http"`
	Timeout         time.Duration `toml:"-"`
	TimeoutStr      string        `toml:"timeout"`
	Retries         int           `toml:"retries"`
	Parallel        int           `toml:"parallel"`
	Output          string        `toml:"output"`
	Theme           string        `toml:"theme"`
	LogLevel        string        `toml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		FabricFile:    "fabrics.json",
		MaxAgeDays:    7,
		DisplayLength: 200,
		Severities:    []string{"critical", "major", "minor", "warning", "info", "cleared"},
		VerifyTLS:     true,
		Timeout:       30 * time.Second,
		TimeoutStr:    "30s",
		Parallel:      1,
		Output:        "table",
		Theme:         "solarized-dark",
		LogLevel:      "info",
	}
}

// LoadConfig reads the defaults file at path. A missing file yields the
// defaults; anything else that goes wrong is an *Error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, &Error{Path: path, Err: err}
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	if cfg.TimeoutStr != "" {
		d, err := time.ParseDuration(cfg.TimeoutStr)
		if err != nil {
			return nil, &Error{Path: path, Err: fmt.Errorf("timeout: %w", err)}
		}
		cfg.Timeout = d
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

// Validate checks ranges that TOML decoding cannot.
func (c *Config) Validate() error {
	switch {
	case c.MaxAgeDays < 0:
		return fmt.Errorf("max_age_days must not be negative, got %d", c.MaxAgeDays)
	case c.MaxAgeDays > fault.MaxAgeDays:
		return fmt.Errorf("max_age_days must be at most %d, got %d", fault.MaxAgeDays, c.MaxAgeDays)
	case c.DisplayLength < 0:
		return fmt.Errorf("display_length must not be negative, got %d", c.DisplayLength)
	case c.MaxDescLength < 0:
		return fmt.Errorf("max_desc_length must not be negative, got %d", c.MaxDescLength)
	case c.Parallel < 0:
		return fmt.Errorf("parallel must not be negative, got %d", c.Parallel)
	case c.Retries < 0:
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	case c.Timeout < 0:
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	switch c.Output {
	case "table", "json", "csv":
	default:
		return fmt.Errorf("output must be table, json or csv, got %q", c.Output)
	}
	return nil
}

func SaveConfig(cfg *Config, path string) error {
	cfg.TimeoutStr = cfg.Timeout.String()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
