// Package ui provides the chirp terminal interface built on Bubble Tea.
//
// # Architecture Overview
//
// Model is the root tea.Model. It owns no network state of its own: reads go
// through the page loaders in package pages, media uploads go through an
// Uploader (normally *media.Coordinator), and the background feed poller
// publishes into a state.Store that the model samples on every tick.
//
// # Package Structure
//
//   - app.go: Model, Options, key handling, and the Run entry point
//   - commands.go: tea messages and the commands that produce them
//   - render.go: view rendering for posts, profiles, uploads, login, and help
//   - theme.go: color themes and prebuilt lipgloss styles
//   - keys.go: key bindings and help text
//   - strings.go: small text formatting helpers
//
// # Views
//
//   - Home (1): the signed-in user's feed
//   - Latest (2): newest posts across all users
//   - Uploads (3): media uploads with progress and processing state
//   - Logs (4): the tail of the chirp log file
//
// Enter opens the selected post's thread and u opens its author's profile;
// esc walks back through opened screens.
//
// # Authentication
//
// Loaders report a redirect to /login through a per-command navigator. When a
// loader redirects, or the poller records an unauthorized error, the model
// switches to the login form. A successful login stores the token through
// session.Credentials and reloads the home feed.
//
// # Uploads
//
// Press a on the uploads view to attach files. The p and b keys toggle the
// profile picture and banner intents that apply to the next batch. Callbacks
// from the coordinator are written to the store so progress shows up on the
// next refresh tick.
package ui
