package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PollInterval != time.Second {
		t.Fatalf("PollInterval = %v, want 1s", cfg.PollInterval)
	}
	if cfg.MaxPollFailures != defaultMaxPollFailures {
		t.Fatalf("MaxPollFailures = %d, want %d", cfg.MaxPollFailures, defaultMaxPollFailures)
	}
	if cfg.RequestsPerSecond != 0 {
		t.Fatalf("RequestsPerSecond = %v, want unlimited", cfg.RequestsPerSecond)
	}

	wantSession := filepath.Join(home, ".config", "chirp", "session.toml")
	if cfg.SessionPath != wantSession {
		t.Fatalf("SessionPath = %q, want %q", cfg.SessionPath, wantSession)
	}
	if !strings.HasPrefix(cfg.Log.File, home) {
		t.Fatalf("Log.File = %q, want it under HOME %q", cfg.Log.File, home)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Fatalf("Log = %#v, want info/text", cfg.Log)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  https://chirp.example/api/  "
request_timeout = "5s"
poll_interval = " 250ms "
max_poll_failures = 9
feed_refresh = "1m"
requests_per_second = 4.5
session_path = "  ~/.chirp/session.toml  "

[log]
level = " DEBUG "
format = "json"
file = "~/logs/chirp.log"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://chirp.example/api" {
		t.Fatalf("APIURL = %q, want trimmed url", cfg.APIURL)
	}
	if cfg.RequestTimeout != 5*time.Second || cfg.PollInterval != 250*time.Millisecond || cfg.FeedRefresh != time.Minute {
		t.Fatalf("durations = %v/%v/%v", cfg.RequestTimeout, cfg.PollInterval, cfg.FeedRefresh)
	}
	if cfg.MaxPollFailures != 9 || cfg.RequestsPerSecond != 4.5 {
		t.Fatalf("MaxPollFailures=%d RequestsPerSecond=%v", cfg.MaxPollFailures, cfg.RequestsPerSecond)
	}
	if cfg.SessionPath != filepath.Join(home, ".chirp", "session.toml") {
		t.Fatalf("SessionPath = %q", cfg.SessionPath)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("Log = %#v", cfg.Log)
	}
	if cfg.Log.File != filepath.Join(home, "logs", "chirp.log") {
		t.Fatalf("Log.File = %q", cfg.Log.File)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "   "
poll_interval = ""
max_poll_failures = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg.APIURL != want.APIURL || cfg.PollInterval != want.PollInterval || cfg.MaxPollFailures != want.MaxPollFailures {
		t.Fatalf("Load = %#v, want defaults %#v", cfg, want)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	tests := map[string]string{
		"toml":     `api_url = [`,
		"duration": `poll_interval = "soon"`,
		"negative": `feed_refresh = "-1s"`,
		"format":   "[log]\nformat = \"xml\"",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load returned nil error, want parse error")
			}
			if !strings.Contains(err.Error(), "parse config") {
				t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := ExpandPath("   "); err == nil {
		t.Fatalf("ExpandPath returned nil error, want error")
	}
}
