// ABOUTME: Vitalscan configuration from a JSON file overlaid by environment variables.
// ABOUTME: Holds partner endpoints, credentials, server and logging settings.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when neither the file nor the environment sets a value.
const (
	DefaultPort           = 8080
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultPrefetchTTL    = 5 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// Config stores vitalscan configuration.
type Config struct {
	// APIURL is the measurement API host. RapidocAPIURL falls back to it.
	APIURL        string `json:"api_url,omitempty"`
	RapidocAPIURL string `json:"rpd_api_url,omitempty"`
	TemaURL       string `json:"tema_url,omitempty"`

	AdminToken string `json:"rpdadmin_token,omitempty"`
	ClientID   string `json:"rpd_client_id,omitempty"`
	StudyID    string `json:"study_id,omitempty"`

	Port      int    `json:"port,omitempty"`
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`

	// Durations use time.ParseDuration syntax, e.g. "5s".
	PrefetchTTL    string `json:"prefetch_ttl,omitempty"`
	RequestTimeout string `json:"request_timeout,omitempty"`

	// LegacyFallback classifies metrics without a band table as "good".
	LegacyFallback bool `json:"legacy_fallback,omitempty"`
}

// GetPartnerAPIURL returns the partner health API URL.
func (c *Config) GetPartnerAPIURL() string {
	if c.RapidocAPIURL != "" {
		return c.RapidocAPIURL
	}
	return c.APIURL
}

// GetPort returns the HTTP port, defaulting to 8080.
func (c *Config) GetPort() int {
	if c.Port <= 0 {
		return DefaultPort
	}
	return c.Port
}

// ListenAddr returns the host:port string for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.GetPort())
}

// GetLogLevel returns the log level, defaulting to info.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

// GetLogFormat returns "json" or "console", defaulting to json.
func (c *Config) GetLogFormat() string {
	if c.LogFormat == "" {
		return DefaultLogFormat
	}
	return c.LogFormat
}

// GetPrefetchTTL returns how long prefetched records stay cached.
func (c *Config) GetPrefetchTTL() time.Duration {
	return durationOr(c.PrefetchTTL, DefaultPrefetchTTL)
}

// GetRequestTimeout returns the per-call partner timeout.
func (c *Config) GetRequestTimeout() time.Duration {
	return durationOr(c.RequestTimeout, DefaultRequestTimeout)
}

func durationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// Validate checks the settings the HTTP server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.AdminToken == "" {
		errs = append(errs, errors.New("RPDADMIN_TOKEN is required"))
	}
	if c.ClientID == "" {
		errs = append(errs, errors.New("RPD_CLIENTID is required"))
	}
	if c.GetPartnerAPIURL() == "" {
		errs = append(errs, errors.New("RPD_API_URL or API_URL is required"))
	}
	if c.TemaURL == "" {
		errs = append(errs, errors.New("TEMA_URL is required"))
	}
	for name, v := range map[string]string{"PREFETCH_TTL": c.PrefetchTTL, "REQUEST_TIMEOUT": c.RequestTimeout} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("invalid %s: %s", name, v))
		}
	}
	return errors.Join(errs...)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "vitalscan", "config.json")
}

// Load reads the config file, loads .env if present and applies the
// environment on top.
func Load() (*Config, error) {
	cfg, err := LoadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	_ = godotenv.Load() // ignore missing file
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads config from path. A missing file yields an empty config.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnv overrides fields with any environment variables that are set.
func (c *Config) ApplyEnv() error {
	setString(&c.APIURL, "API_URL")
	setString(&c.RapidocAPIURL, "RPD_API_URL")
	setString(&c.TemaURL, "TEMA_URL")
	setString(&c.AdminToken, "RPDADMIN_TOKEN")
	setString(&c.ClientID, "RPD_CLIENTID")
	setString(&c.StudyID, "STUDY_ID")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	setString(&c.PrefetchTTL, "PREFETCH_TTL")
	setString(&c.RequestTimeout, "REQUEST_TIMEOUT")

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			return fmt.Errorf("invalid PORT: %s", portStr)
		}
		c.Port = port
	}
	if v := os.Getenv("CLASSIFY_LEGACY_FALLBACK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CLASSIFY_LEGACY_FALLBACK: %s", v)
		}
		c.LegacyFallback = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
