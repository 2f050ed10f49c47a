// Package state provides thread-safe state shared between chirp's background
// workers and the terminal UI.
//
// # Overview
//
// Two producers write to the Store: the feed poller (signed-in user and home
// feed) and the media coordinator callbacks (upload progress and asset
// transitions). The UI reads immutable snapshots on its own tick.
//
//	Producers:                      Consumer (UI):
//	┌──────────────────────┐       ┌──────────────────┐
//	│ feed poller          │       │                  │
//	│   store.Update()     │──────→│ store.Snapshot() │
//	│ media callbacks      │(mutex)│      ↓           │
//	│   store.Progress()   │       │  render views    │
//	│   store.Track()      │       │                  │
//	└──────────────────────┘       └──────────────────┘
//
// # Update Semantics
//
// Update keeps the previous user and feed when err is non-nil and counts
// consecutive failures; two or more mark the snapshot offline.
//
// Track applies media asset transitions and refuses any that would move an
// upload backward (processing after ready, anything after failed), so a late
// callback cannot undo a terminal state.
//
// # Snapshots
//
// Snapshot copies slices, the user, and the last error so the caller can hold
// it across renders without further locking.
package state
