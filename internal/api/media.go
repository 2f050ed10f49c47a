package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"sync"
)

// UploadRequest describes one multipart submission to /media/upload.
type UploadRequest struct {
	Type        string // photo, profile_picture, banner, video, audio
	FileName    string
	ContentType string
	Data        io.Reader
	// Size is the file length in bytes, used as the progress total. Zero
	// means unknown.
	Size int64
	// Progress, when set, is called as the body is written to the wire.
	Progress func(Progress)
}

// UploadMedia submits a file to the media upload endpoint and returns the
// server-assigned id. Processing continues asynchronously on the server;
// use CheckMedia to follow it.
func (c *Client) UploadMedia(ctx context.Context, req UploadRequest) (UploadResponse, error) {
	if c == nil {
		return UploadResponse{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(req.Type) == "" {
		return UploadResponse{}, fmt.Errorf("media type required")
	}
	if req.Data == nil {
		return UploadResponse{}, fmt.Errorf("media data required")
	}

	var data io.Reader = req.Data
	if req.Progress != nil {
		data = &progressReader{r: req.Data, total: req.Size, report: req.Progress}
	}
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = pw.CloseWithError(writeUpload(writer, req, data))
	}()

	var payload UploadResponse
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/media/upload",
		body:        pr,
		contentType: writer.FormDataContentType(),
		streaming:   true,
		exactOK:     true,
	}, &payload)
	_ = pr.Close()
	<-done
	if err != nil {
		return UploadResponse{}, err
	}
	if strings.TrimSpace(payload.ID) == "" {
		return UploadResponse{}, fmt.Errorf("decode response: upload returned no media id")
	}
	return payload, nil
}

// CheckMedia reports whether server-side processing of a media item is still
// running.
func (c *Client) CheckMedia(ctx context.Context, id string) (MediaStatus, error) {
	if c == nil {
		return MediaStatus{}, fmt.Errorf("client is nil")
	}
	id, err := pathSegment("media id", id)
	if err != nil {
		return MediaStatus{}, err
	}
	var payload MediaStatus
	if err := c.getJSON(ctx, "/media/check/"+id, nil, &payload); err != nil {
		return MediaStatus{}, err
	}
	return payload, nil
}

// MediaURL builds the public URL of a processed media item. ext is one of
// jpg, mp4, mp3; variant optionally selects a resolution ("small", "720p",
// "320k") and may be empty for the server default.
func (c *Client) MediaURL(id, ext, variant string) string {
	name := id + "." + ext
	if variant = strings.TrimSpace(variant); variant != "" {
		name += ":" + variant
	}
	return c.resolve("/media/"+name, nil).String()
}

// writeUpload streams the multipart body. The error, if any, surfaces to
// the request through the pipe.
func writeUpload(writer *multipart.Writer, req UploadRequest, data io.Reader) error {
	if err := writer.WriteField("type", req.Type); err != nil {
		return fmt.Errorf("encode upload: %w", err)
	}

	name := filepath.Base(strings.TrimSpace(req.FileName))
	if name == "" || name == "." || name == "/" {
		name = "upload"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="data"; filename=%q`, name))
	contentType := strings.TrimSpace(req.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("encode upload: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return fmt.Errorf("read media data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("encode upload: %w", err)
	}
	return nil
}

// progressReader reports cumulative file bytes handed to the request body.
// An unknown total is settled to the sent count at EOF.
type progressReader struct {
	r      io.Reader
	total  int64
	sent   int64
	report func(Progress)
	once   sync.Once
}

func (p *progressReader) Read(b []byte) (int, error) {
	p.once.Do(func() { p.report(Progress{Sent: 0, Total: p.total}) })
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.report(Progress{Sent: p.sent, Total: p.total})
	}
	if errors.Is(err, io.EOF) && p.total <= 0 {
		p.total = p.sent
		p.report(Progress{Sent: p.sent, Total: p.total})
	}
	return n, err
}
