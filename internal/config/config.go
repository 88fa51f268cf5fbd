package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	API      APIConfig      `json:"api"`
	Security SecurityConfig `json:"security"`
	Session  SessionConfig  `json:"session"`
	Carousel CarouselConfig `json:"carousel"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string   `json:"addr"`
	ReadTimeout     Duration `json:"read_timeout"`
	WriteTimeout    Duration `json:"write_timeout"`
	IdleTimeout     Duration `json:"idle_timeout"`
	ShutdownTimeout Duration `json:"shutdown_timeout"`
}

// APIConfig holds the job board backend settings
type APIConfig struct {
	BaseURL string   `json:"base_url"`
	Timeout Duration `json:"timeout"`
}

// SecurityConfig holds the keys for props encoding and CSRF tokens.
// Keys are hex encoded; an empty key is generated at startup, which
// invalidates outstanding URLs and forms on restart.
type SecurityConfig struct {
	PropsKey      string `json:"props_key"`
	CSRFKey       string `json:"csrf_key"`
	SecureCookies bool   `json:"secure_cookies"`
}

// SessionConfig holds the credential store settings
type SessionConfig struct {
	Path string   `json:"path"`
	TTL  Duration `json:"ttl"`
}

// CarouselConfig holds the notice carousel settings
type CarouselConfig struct {
	Interval         Duration `json:"interval"`
	TabletBreakpoint int      `json:"tablet_breakpoint"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // "text" or "json"
}

// Duration is a time.Duration written as "3s" in JSON.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("duration must be a string like \"3s\": %s", b)
		}
		*d = Duration(n)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(15 * time.Second),
			IdleTimeout:     Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		API: APIConfig{
			BaseURL: "http://localhost:8081/api",
			Timeout: Duration(10 * time.Second),
		},
		Session: SessionConfig{
			Path: "shiftview.db",
			TTL:  Duration(24 * time.Hour),
		},
		Carousel: CarouselConfig{
			Interval:         Duration(3 * time.Second),
			TabletBreakpoint: 1199,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a JSON file and applies
// SHIFTVIEW_* environment overrides. A missing file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"SHIFTVIEW_ADDR":       &c.Server.Addr,
		"SHIFTVIEW_API_URL":    &c.API.BaseURL,
		"SHIFTVIEW_PROPS_KEY":  &c.Security.PropsKey,
		"SHIFTVIEW_CSRF_KEY":   &c.Security.CSRFKey,
		"SHIFTVIEW_SESSION_DB": &c.Session.Path,
		"SHIFTVIEW_LOG_LEVEL":  &c.Logging.Level,
		"SHIFTVIEW_LOG_FORMAT": &c.Logging.Format,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("SHIFTVIEW_API_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SHIFTVIEW_API_TIMEOUT: %w", err)
		}
		c.API.Timeout = Duration(d)
	}
	if v, ok := lookup("SHIFTVIEW_SECURE_COOKIES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SHIFTVIEW_SECURE_COOKIES: %w", err)
		}
		c.Security.SecureCookies = b
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api base URL must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive")
	}

	for name, key := range map[string]string{"props": c.Security.PropsKey, "csrf": c.Security.CSRFKey} {
		if key == "" {
			continue
		}
		b, err := hex.DecodeString(key)
		if err != nil {
			return fmt.Errorf("%s key must be hex encoded: %w", name, err)
		}
		if len(b) != 32 {
			return fmt.Errorf("%s key must be 32 bytes, got %d", name, len(b))
		}
	}

	if c.Session.Path == "" {
		return fmt.Errorf("session path is required")
	}

	if c.Carousel.Interval <= 0 {
		return fmt.Errorf("carousel interval must be positive")
	}

	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("log format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

// Key decodes a hex key from SecurityConfig. An empty key yields n
// random bytes from gen.
func Key(hexKey string, gen func([]byte) (int, error)) ([]byte, error) {
	if hexKey != "" {
		return hex.DecodeString(hexKey)
	}
	b := make([]byte, 32)
	if _, err := gen(b); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return b, nil
}

// NewLogger builds the process logger.
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return level, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
