package media

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedMedia is returned for files whose MIME type maps to no kind.
// Such files are never uploaded.
var ErrUnsupportedMedia = errors.New("unsupported media type")

var kindsByMIME = map[string]Kind{
	"image/jpeg":       KindPhoto,
	"image/png":        KindPhoto,
	"image/webp":       KindPhoto,
	"video/mp4":        KindVideo,
	"video/webm":       KindVideo,
	"video/x-matroska": KindVideo,
	"audio/mpeg":       KindAudio,
	"audio/mp4":        KindAudio,
	"audio/ogg":        KindAudio,
}

// Classify maps a MIME type and intent to a media kind. Parameters and case
// are ignored. Image intent resolves ProfilePicture before Banner.
func Classify(mimeType string, intent Intent) (Kind, error) {
	base := strings.ToLower(strings.TrimSpace(mimeType))
	if parsed, _, err := mime.ParseMediaType(base); err == nil {
		base = parsed
	}
	kind, ok := kindsByMIME[base]
	if !ok {
		if base == "" {
			base = "unknown"
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, base)
	}
	if kind == KindPhoto {
		switch {
		case intent.ProfilePicture:
			return KindProfilePicture, nil
		case intent.Banner:
			return KindBanner, nil
		}
	}
	return kind, nil
}

// DetectType guesses the MIME type of a file from its extension, falling back
// to content sniffing. r is rewound when it supports seeking.
func DetectType(name string, r io.ReadSeeker) (string, error) {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt, nil
	}
	if r == nil {
		return "", nil
	}
	detected, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("sniff media: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind media: %w", err)
	}
	return detected.String(), nil
}
