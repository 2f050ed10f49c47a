// Package media uploads files to the chirp API and follows them through
// server-side processing.
//
// Each file is classified from its MIME type (plus the caller's Intent for
// images), posted to /media/upload, and then polled at /media/check/{id} on a
// Ticker until the server reports it is no longer processing. An asset moves
// uploading → processing → ready or failed and never backward.
//
// Callbacks observe the workflow:
//
//   - OnUploadProgress: bytes written for the current file
//   - OnUploadError: the upload request failed (no polling follows)
//   - OnProcessingStart: upload accepted, polling begins
//   - OnProcessingEnd: terminal state reached, fires exactly once per asset
//
// Files with unrecognized MIME types are never sent; callers get an error
// wrapping ErrUnsupportedMedia instead.
package media
