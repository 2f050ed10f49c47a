package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds chirp's client settings.
type Config struct {
	APIURL            string
	RequestTimeout    time.Duration
	PollInterval      time.Duration
	MaxPollFailures   int
	FeedRefresh       time.Duration
	RequestsPerSecond float64
	SessionPath       string
	Log               LogConfig
}

// LogConfig selects where and how chirp logs.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

const (
	defaultConfigPath      = "~/.config/chirp/config.toml"
	defaultAPIURL          = "http://127.0.0.1:8080/api"
	defaultRequestTimeout  = 15 * time.Second
	defaultPollInterval    = time.Second
	defaultMaxPollFailures = 5
	defaultFeedRefresh     = 30 * time.Second
	defaultSessionPath     = "~/.config/chirp/session.toml"
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
	defaultLogFile         = "~/.local/state/chirp/chirp.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:          defaultAPIURL,
		RequestTimeout:  defaultRequestTimeout,
		PollInterval:    defaultPollInterval,
		MaxPollFailures: defaultMaxPollFailures,
		FeedRefresh:     defaultFeedRefresh,
		SessionPath:     mustExpand(defaultSessionPath),
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			File:   mustExpand(defaultLogFile),
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the chirp config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL            string  `toml:"api_url"`
		RequestTimeout    string  `toml:"request_timeout"`
		PollInterval      string  `toml:"poll_interval"`
		MaxPollFailures   int     `toml:"max_poll_failures"`
		FeedRefresh       string  `toml:"feed_refresh"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
		SessionPath       string  `toml:"session_path"`
		Log               struct {
			Level  string `toml:"level"`
			Format string `toml:"format"`
			File   string `toml:"file"`
		} `toml:"log"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if cfg.RequestTimeout, err = duration("request_timeout", raw.RequestTimeout, cfg.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval, err = duration("poll_interval", raw.PollInterval, cfg.PollInterval); err != nil {
		return Config{}, err
	}
	if cfg.FeedRefresh, err = duration("feed_refresh", raw.FeedRefresh, cfg.FeedRefresh); err != nil {
		return Config{}, err
	}
	if raw.MaxPollFailures > 0 {
		cfg.MaxPollFailures = raw.MaxPollFailures
	}
	if raw.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = raw.RequestsPerSecond
	}
	if v := strings.TrimSpace(raw.SessionPath); v != "" {
		cfg.SessionPath = mustExpand(v)
	}

	if v := strings.ToLower(strings.TrimSpace(raw.Log.Level)); v != "" {
		cfg.Log.Level = v
	}
	switch v := strings.ToLower(strings.TrimSpace(raw.Log.Format)); v {
	case "":
	case "text", "json":
		cfg.Log.Format = v
	default:
		return Config{}, fmt.Errorf("parse config: log.format %q must be text or json", raw.Log.Format)
	}
	if v := strings.TrimSpace(raw.Log.File); v != "" {
		cfg.Log.File = mustExpand(v)
	}

	return cfg, nil
}

func duration(key, raw string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse config: %s must be positive", key)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath trims path, expands a leading ~ to the home directory and
// returns the absolute result.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
