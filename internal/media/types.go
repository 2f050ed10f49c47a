package media

import (
	"fmt"
	"io"
	"os"

	"github.com/five82/chirp/internal/api"
)

// Kind is the server-side media category sent as the upload "type" field.
type Kind string

const (
	KindPhoto          Kind = "photo"
	KindProfilePicture Kind = "profile_picture"
	KindBanner         Kind = "banner"
	KindVideo          Kind = "video"
	KindAudio          Kind = "audio"
)

// State is the lifecycle position of an uploaded asset.
type State string

const (
	StateUploading  State = "uploading"
	StateProcessing State = "processing"
	StateReady      State = "ready"
	StateFailed     State = "failed"
)

func (s State) rank() int {
	switch s {
	case StateUploading:
		return 1
	case StateProcessing:
		return 2
	case StateReady, StateFailed:
		return 3
	}
	return 0
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateReady || s == StateFailed
}

// Advances reports whether moving from s to next is a forward transition.
// Terminal states never advance.
func (s State) Advances(next State) bool {
	if s.Terminal() || next.rank() == 0 {
		return false
	}
	return next.rank() > s.rank()
}

// Asset is one uploaded media item as seen by the client.
type Asset struct {
	ID    string
	File  string
	Kind  Kind
	State State
	Error string
}

// Ext returns the file extension the media endpoint serves this kind under.
func (a Asset) Ext() string {
	switch a.Kind {
	case KindVideo:
		return "mp4"
	case KindAudio:
		return "mp3"
	}
	return "jpg"
}

// File is a local file queued for upload.
type File struct {
	Name     string
	MimeType string
	Data     io.Reader
	Size     int64
}

// Close closes Data when it is closable.
func (f File) Close() error {
	if closer, ok := f.Data.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// OpenFile opens path for upload and detects its MIME type.
func OpenFile(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open media: %w", err)
	}
	info, err := fh.Stat()
	if err != nil {
		_ = fh.Close()
		return File{}, fmt.Errorf("stat media: %w", err)
	}
	mimeType, err := DetectType(path, fh)
	if err != nil {
		_ = fh.Close()
		return File{}, err
	}
	return File{Name: path, MimeType: mimeType, Data: fh, Size: info.Size()}, nil
}

// Intent disambiguates what an image upload is for.
type Intent struct {
	ProfilePicture bool
	Banner         bool
}

// Progress reports bytes sent for one file.
type Progress struct {
	File string
	Kind Kind
	api.Progress
}

// Callbacks receive workflow transitions. Nil fields are skipped. Callbacks
// may run on poll goroutines.
type Callbacks struct {
	OnProcessingStart func(Asset)
	OnProcessingEnd   func(Asset)
	OnUploadProgress  func(Progress)
	OnUploadError     func(error)
}

func (cb Callbacks) start(a Asset) {
	if cb.OnProcessingStart != nil {
		cb.OnProcessingStart(a)
	}
}

func (cb Callbacks) end(a Asset) {
	if cb.OnProcessingEnd != nil {
		cb.OnProcessingEnd(a)
	}
}

func (cb Callbacks) progress(p Progress) {
	if cb.OnUploadProgress != nil {
		cb.OnUploadProgress(p)
	}
}

func (cb Callbacks) uploadError(err error) {
	if cb.OnUploadError != nil {
		cb.OnUploadError(err)
	}
}

// UploadError is passed to OnUploadError when the upload request fails.
type UploadError struct {
	File string
	Kind Kind
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s (%s): %v", e.File, e.Kind, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
