package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Theme != "solarized-dark" {
		t.Errorf("expected default theme 'solarized-dark', got %q", cfg.Theme)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Timeout)
	}
	if cfg.MaxAgeDays != 7 {
		t.Errorf("expected max age 7 days, got %d", cfg.MaxAgeDays)
	}
	if cfg.DisplayLength != 200 {
		t.Errorf("expected display length 200, got %d", cfg.DisplayLength)
	}
	if len(cfg.Severities) != 6 {
		t.Errorf("expected all six severities, got %v", cfg.Severities)
	}
	if !cfg.VerifyTLS || cfg.ForceHTTP {
		t.Error("expected verified HTTPS by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigSaveLoad(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")

	cfg := DefaultConfig()
	cfg.Theme = "dracula"
	cfg.Timeout = 45 * time.Second
	cfg.Severities = []string{"critical", "major"}
	cfg.Parallel = 4

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.Theme != "dracula" {
		t.Errorf("expected theme 'dracula', got %q", loaded.Theme)
	}
	if loaded.Timeout != 45*time.Second {
		t.Errorf("expected timeout 45s, got %v", loaded.Timeout)
	}
	if len(loaded.Severities) != 2 || loaded.Severities[1] != "major" {
		t.Errorf("unexpected severities %v", loaded.Severities)
	}
	if loaded.Parallel != 4 {
		t.Errorf("expected parallel 4, got %d", loaded.Parallel)
	}
}

func TestConfigLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("max_age_days = 3\nshow_acked = true\n"), 0644)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.MaxAgeDays != 3 || !cfg.ShowAcked {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.DisplayLength != 200 || cfg.Output != "table" {
		t.Errorf("unset keys should keep defaults: %+v", cfg)
	}
}

func TestConfigLoadMissing(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("LoadConfig() should return defaults for missing file, got error: %v", err)
	}
	if cfg.Theme != "solarized-dark" {
		t.Errorf("expected default theme, got %q", cfg.Theme)
	}
}

func TestConfigLoadMalformed(t *testing.T) {
	cases := map[string]string{
		"syntax":      "max_age_days = \n",
		"timeout":     "timeout = \"soon\"\n",
		"output":      "output = \"xml\"\n",
		"days":        "max_age_days = -1\n",
		"days range":  "max_age_days = 200000\n",
		"desc length": "max_desc_length = -5\n",
		"parallel":    "parallel = -2\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			os.WriteFile(path, []byte(content), 0644)

			_, err := LoadConfig(path)
			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if cfgErr.Path != path {
				t.Errorf("expected path %q in error, got %q", path, cfgErr.Path)
			}
		})
	}
}
