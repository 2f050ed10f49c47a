// Package app is the composition root for chirp.
//
// # Overview
//
// Build wires configuration, logging, the session store, the API client, and
// the media coordinator into an Env shared by every CLI command. Run adds the
// background feed poller and the terminal UI on top of the same Env.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Build()    │ Wire components
//	└──────┬───────┘
//	       ├─────> config.Load()          Read ~/.config/chirp/config.toml
//	       ├─────> logger.Init()          Open the log file
//	       ├─────> session.Open()         Token and theme storage
//	       ├─────> api.NewClient()        Bearer client reading the session
//	       └─────> media.NewCoordinator() Upload and poll workflow
//
//	┌──────────────┐
//	│   Run()      │ TUI
//	└──────┬───────┘
//	       ├─────> StartPoller()          Refresh user and feed into state.Store
//	       └─────> ui.Run()               Bubble Tea program (blocks)
//
// # Polling Behavior
//
// The poller refreshes at feed_refresh (default 30s). Consecutive failures
// double the delay up to 30 seconds; one success resets it. Errors are logged
// and recorded in the store, never returned.
//
// # Overrides
//
// Options.Token swaps the on-disk session for an in-memory one holding the
// given token, which is how the --token flag avoids touching session.toml.
// Options.APIURL and Options.LogLevel override their config values.
package app
