// Package api provides an HTTP client for the chirp social API.
//
// # Overview
//
// This package defines the API client used by every other part of chirp. It
// handles HTTP communication, bearer authentication, JSON serialization, the
// multipart media upload, and type-safe representation of users and posts.
//
// # Architecture
//
//   - client.go: Client construction, request execution, status handling
//   - errors.go: ErrUnauthorized and StatusError
//   - types.go: Data structures mirroring the API schema
//   - auth.go, users.go, posts.go, media.go: One file per endpoint group
//
// # Client Usage
//
//	client, err := api.NewClient("http://127.0.0.1:8080/api", store)
//	if err != nil {
//		return err
//	}
//
//	feed, err := client.Feed(ctx, api.Page{})
//	if api.IsUnauthorized(err) {
//		// send the user to the login screen
//	}
//
// # Authentication
//
// Authenticated requests read the bearer credential from the TokenSource on
// every call, so a token stored by a concurrent login is picked up without
// rebuilding the client. A TokenSource error, an empty token, and a 401/403
// response are all reported as errors wrapping ErrUnauthorized.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: chirp/0.1
//   - Carry a fresh X-Request-Id used in debug logs
//   - Wait on an optional client-side rate limiter
//
// # Error Handling
//
// Example error messages:
//   - "execute request: dial tcp: connection refused"
//   - "api /posts/feed returned status 500"
//   - "decode response: unexpected EOF"
//   - "unauthorized: session: no token"
//
// Non-success statuses surface as *StatusError; use StatusCode or errors.As
// to inspect them.
//
// # Design Rationale
//
// The client does no caching and no retries. Page loaders treat failures as
// absent data and the media coordinator owns its own poll policy.
package api
