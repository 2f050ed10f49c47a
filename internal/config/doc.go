// Package config loads chirp's client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/chirp/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # Default Values
//
//   - API root: http://127.0.0.1:8080/api
//   - Request timeout: 15s
//   - Media poll interval: 1s, giving up after 5 consecutive failed checks
//   - Feed refresh (TUI): 30s
//   - Client rate limit: unlimited
//   - Session file: ~/.config/chirp/session.toml
//   - Log: info level, text format, ~/.local/state/chirp/chirp.log
//
// # TOML Format
//
//	api_url = "https://chirp.example/api"
//	request_timeout = "15s"
//	poll_interval = "1s"
//	max_poll_failures = 5
//	feed_refresh = "30s"
//	requests_per_second = 0
//	session_path = "~/.config/chirp/session.toml"
//
//	[log]
//	level = "info"
//	format = "text"
//	file = "~/.local/state/chirp/chirp.log"
//
// Durations use Go duration syntax and must be positive. Paths have a
// leading ~ expanded and are made absolute. String values are trimmed.
//
// # Error Handling
//
// A missing file is not an error. Unreadable files, invalid TOML, malformed
// durations, and unknown log formats are returned as errors prefixed with
// "open config", "read config", or "parse config".
package config
