package config

import (
	"bytes"
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Carousel.Interval.Std() != 3*time.Second {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"server": {"addr": ":9000"},
		"api": {"base_url": "https://api.example.com/the-julge", "timeout": "2s"},
		"carousel": {"interval": "1500ms", "tablet_breakpoint": 1023}
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.API.BaseURL != "https://api.example.com/the-julge" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.API.Timeout.Std() != 2*time.Second || cfg.Carousel.Interval.Std() != 1500*time.Millisecond {
		t.Errorf("durations = %v, %v", cfg.API.Timeout.Std(), cfg.Carousel.Interval.Std())
	}
	if cfg.Session.Path != "shiftview.db" {
		t.Errorf("unset field lost its default: %q", cfg.Session.Path)
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"api": {"timeout": "soon"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SHIFTVIEW_API_URL":        "https://backend.test/api",
		"SHIFTVIEW_API_TIMEOUT":    "3s",
		"SHIFTVIEW_SECURE_COOKIES": "true",
		"SHIFTVIEW_LOG_LEVEL":      "debug",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := cfg.applyEnv(lookup); err != nil {
		t.Fatal(err)
	}
	if cfg.API.BaseURL != "https://backend.test/api" || cfg.API.Timeout.Std() != 3*time.Second {
		t.Errorf("api = %+v", cfg.API)
	}
	if !cfg.Security.SecureCookies || cfg.Logging.Level != "debug" {
		t.Errorf("security = %+v logging = %+v", cfg.Security, cfg.Logging)
	}

	env["SHIFTVIEW_API_TIMEOUT"] = "later"
	if err := DefaultConfig().applyEnv(lookup); err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{"no addr", func(c *Config) { c.Server.Addr = "" }, "server address"},
		{"relative api url", func(c *Config) { c.API.BaseURL = "/api" }, "base URL"},
		{"ftp api url", func(c *Config) { c.API.BaseURL = "ftp://x/api" }, "base URL"},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, "timeout"},
		{"short props key", func(c *Config) { c.Security.PropsKey = "abcd" }, "32 bytes"},
		{"non-hex csrf key", func(c *Config) { c.Security.CSRFKey = "zz" }, "hex"},
		{"no session path", func(c *Config) { c.Session.Path = "" }, "session path"},
		{"zero interval", func(c *Config) { c.Carousel.Interval = 0 }, "interval"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestKey(t *testing.T) {
	hexKey := strings.Repeat("ab", 32)
	b, err := Key(hexKey, rand.Read)
	if err != nil || len(b) != 32 || b[0] != 0xab {
		t.Errorf("Key(hex) = %x, %v", b, err)
	}

	b1, _ := Key("", rand.Read)
	b2, _ := Key("", rand.Read)
	if len(b1) != 32 || bytes.Equal(b1, b2) {
		t.Error("generated keys should be random 32-byte values")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "event", "test")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("log output = %q", out)
	}
}
