package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/five82/chirp/internal/api"
	"github.com/five82/chirp/internal/media"
)

// Upload is one file's progress through the media workflow.
type Upload struct {
	media.Asset
	Sent    int64
	Total   int64
	Updated time.Time
}

// Fraction returns the upload share sent in [0,1].
func (u Upload) Fraction() float64 {
	return api.Progress{Sent: u.Sent, Total: u.Total}.Fraction()
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	User                *api.User
	Feed                []api.Post
	HasFeed             bool
	Uploads             []Upload
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
}

// IsOffline returns true when the API has been unreachable for multiple refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Pending counts uploads that have not reached a terminal state.
func (s Snapshot) Pending() int {
	n := 0
	for _, u := range s.Uploads {
		if !u.State.Terminal() {
			n++
		}
	}
	return n
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the signed-in user and feed. When err is non-nil the
// previous data is kept but the error is recorded for visibility.
func (s *Store) Update(user *api.User, feed []api.Post, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if user != nil {
		dup := *user
		s.snapshot.User = &dup
	}
	s.snapshot.Feed = clonePosts(feed)
	s.snapshot.HasFeed = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Progress records bytes sent for a file that is still uploading.
func (s *Store) Progress(p media.Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.uploading(p.File, p.Kind)
	u.Sent, u.Total = p.Sent, p.Total
	u.Updated = time.Now()
}

// UploadFailed marks the uploading entry for err's file as failed.
func (s *Store) UploadFailed(err error) {
	var upErr *media.UploadError
	if !errors.As(err, &upErr) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.uploading(upErr.File, upErr.Kind)
	u.State = media.StateFailed
	u.Error = upErr.Err.Error()
	u.Updated = time.Now()
}

// Track applies an asset transition reported by the coordinator. Backward or
// repeated transitions are refused and reported as false.
func (s *Store) Track(asset media.Asset) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.find(asset)
	if u == nil {
		s.snapshot.Uploads = append(s.snapshot.Uploads, Upload{
			Asset:   asset,
			Updated: time.Now(),
		})
		return true
	}
	if !u.State.Advances(asset.State) {
		return false
	}
	if u.State == media.StateUploading && u.Total > 0 {
		u.Sent = u.Total
	}
	u.Asset = asset
	u.Updated = time.Now()
	return true
}

// ClearFinished drops uploads in a terminal state.
func (s *Store) ClearFinished() {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.snapshot.Uploads[:0]
	for _, u := range s.snapshot.Uploads {
		if !u.State.Terminal() {
			kept = append(kept, u)
		}
	}
	s.snapshot.Uploads = kept
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Feed = clonePosts(s.snapshot.Feed)
	snap.Uploads = cloneUploads(s.snapshot.Uploads)
	if s.snapshot.User != nil {
		dup := *s.snapshot.User
		snap.User = &dup
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// find locates the entry for asset: by id once assigned, otherwise the
// still-uploading entry for the same file.
func (s *Store) find(asset media.Asset) *Upload {
	for i := range s.snapshot.Uploads {
		u := &s.snapshot.Uploads[i]
		if asset.ID != "" && u.ID == asset.ID {
			return u
		}
	}
	for i := range s.snapshot.Uploads {
		u := &s.snapshot.Uploads[i]
		if u.ID == "" && u.File == asset.File && u.State == media.StateUploading {
			return u
		}
	}
	return nil
}

// uploading returns the in-flight entry for file, creating it when absent.
func (s *Store) uploading(file string, kind media.Kind) *Upload {
	for i := range s.snapshot.Uploads {
		u := &s.snapshot.Uploads[i]
		if u.ID == "" && u.File == file && u.State == media.StateUploading {
			return u
		}
	}
	s.snapshot.Uploads = append(s.snapshot.Uploads, Upload{
		Asset: media.Asset{File: file, Kind: kind, State: media.StateUploading},
	})
	return &s.snapshot.Uploads[len(s.snapshot.Uploads)-1]
}

func clonePosts(items []api.Post) []api.Post {
	if len(items) == 0 {
		return nil
	}
	dup := make([]api.Post, len(items))
	copy(dup, items)
	return dup
}

func cloneUploads(items []Upload) []Upload {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Upload, len(items))
	copy(dup, items)
	return dup
}
