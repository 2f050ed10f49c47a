package media

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/five82/chirp/internal/api"
)

const (
	defaultPollInterval    = time.Second
	defaultMaxPollFailures = 5
)

// Uploader is the slice of the API client the coordinator needs.
type Uploader interface {
	UploadMedia(ctx context.Context, req api.UploadRequest) (api.UploadResponse, error)
	CheckMedia(ctx context.Context, id string) (api.MediaStatus, error)
}

// Coordinator uploads files and polls each one until server-side processing
// finishes.
type Coordinator struct {
	client          Uploader
	logger          logrus.FieldLogger
	pollInterval    time.Duration
	maxPollFailures int
	newTicker       TickerFunc
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithPollInterval sets the delay between status checks.
func WithPollInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithMaxPollFailures sets how many consecutive failed status checks end an
// asset as failed.
func WithMaxPollFailures(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxPollFailures = n
		}
	}
}

// WithLogger sets the workflow logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTicker replaces the ticker factory.
func WithTicker(fn TickerFunc) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.newTicker = fn
		}
	}
}

// NewCoordinator returns a Coordinator using client for both requests.
func NewCoordinator(client Uploader, opts ...Option) *Coordinator {
	c := &Coordinator{
		client:          client,
		logger:          logrus.StandardLogger(),
		pollInterval:    defaultPollInterval,
		maxPollFailures: defaultMaxPollFailures,
		newTicker:       NewTicker,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload sends one file and blocks until it is ready or failed. Unsupported
// files return ErrUnsupportedMedia without a request. Upload failures are
// passed to OnUploadError and returned.
func (c *Coordinator) Upload(ctx context.Context, file File, intent Intent, cb Callbacks) (Asset, error) {
	if c == nil || c.client == nil {
		return Asset{}, fmt.Errorf("coordinator is nil")
	}
	log := c.logger.WithField("upload_id", uuid.NewString())

	kind, err := c.classify(log, file, intent)
	if err != nil {
		return Asset{}, err
	}
	asset, err := c.submit(ctx, log, file, kind, cb)
	if err != nil {
		return Asset{}, err
	}
	return c.poll(ctx, log, asset, cb), nil
}

// UploadAll sends files one at a time in order. Each uploaded asset is polled
// on its own goroutine, so earlier assets keep polling while later files
// upload. It returns once every poll has ended. Skipped and failed files are
// reported in the joined error; assets holds the uploaded ones in input
// order.
func (c *Coordinator) UploadAll(ctx context.Context, files []File, intent Intent, cb Callbacks) ([]Asset, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("coordinator is nil")
	}
	log := c.logger.WithField("upload_id", uuid.NewString())

	var (
		errs    []error
		wg      sync.WaitGroup
		results = make([]*Asset, len(files))
	)
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		kind, err := c.classify(log, file, intent)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		asset, err := c.submit(ctx, log, file, kind, cb)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		wg.Add(1)
		go func(slot int, asset Asset) {
			defer wg.Done()
			final := c.poll(ctx, log, asset, cb)
			results[slot] = &final
		}(i, asset)
	}
	wg.Wait()

	assets := make([]Asset, 0, len(files))
	for _, a := range results {
		if a != nil {
			assets = append(assets, *a)
		}
	}
	return assets, errors.Join(errs...)
}

func (c *Coordinator) classify(log logrus.FieldLogger, file File, intent Intent) (Kind, error) {
	kind, err := Classify(file.MimeType, intent)
	if err != nil {
		log.WithFields(logrus.Fields{
			"file": file.Name,
			"mime": file.MimeType,
		}).Warn("skipping unsupported media")
		return "", fmt.Errorf("%s: %w", displayName(file.Name), err)
	}
	return kind, nil
}

func (c *Coordinator) submit(ctx context.Context, log logrus.FieldLogger, file File, kind Kind, cb Callbacks) (Asset, error) {
	name := displayName(file.Name)
	log = log.WithFields(logrus.Fields{"file": name, "kind": kind})
	log.Debug("uploading media")

	resp, err := c.client.UploadMedia(ctx, api.UploadRequest{
		Type:        string(kind),
		FileName:    file.Name,
		ContentType: file.MimeType,
		Data:        file.Data,
		Size:        file.Size,
		Progress: func(p api.Progress) {
			cb.progress(Progress{File: name, Kind: kind, Progress: p})
		},
	})
	if err != nil {
		uploadErr := &UploadError{File: name, Kind: kind, Err: err}
		log.WithError(err).Error("media upload failed")
		cb.uploadError(uploadErr)
		return Asset{}, uploadErr
	}

	asset := Asset{ID: resp.ID, File: name, Kind: kind, State: StateProcessing}
	log.WithField("asset_id", asset.ID).Info("media uploaded, processing")
	cb.start(asset)
	return asset, nil
}

// poll checks the asset status on every tick until it leaves processing, the
// failure budget runs out, or ctx ends. The ticker is stopped and
// OnProcessingEnd fired exactly once, on the single exit path below.
func (c *Coordinator) poll(ctx context.Context, log logrus.FieldLogger, asset Asset, cb Callbacks) Asset {
	log = log.WithFields(logrus.Fields{"asset_id": asset.ID, "kind": asset.Kind})
	ticker := c.newTicker(c.pollInterval)

	final := c.pollLoop(ctx, log, ticker, asset)

	ticker.Stop()
	if final.State == StateReady {
		log.Info("media ready")
	} else {
		log.WithField("error", final.Error).Warn("media failed")
	}
	cb.end(final)
	return final
}

func (c *Coordinator) pollLoop(ctx context.Context, log logrus.FieldLogger, ticker Ticker, asset Asset) Asset {
	failures := 0
	for {
		select {
		case <-ctx.Done():
			return finish(asset, ctx.Err().Error())
		case <-ticker.C():
		}

		status, err := c.client.CheckMedia(ctx, asset.ID)
		if err != nil {
			if ctx.Err() != nil {
				return finish(asset, ctx.Err().Error())
			}
			failures++
			log.WithError(err).WithField("failures", failures).Warn("media status check failed")
			if failures >= c.maxPollFailures {
				return finish(asset, fmt.Sprintf("status check failed %d times: %v", failures, err))
			}
			continue
		}
		failures = 0
		if status.Processing {
			continue
		}
		return finish(asset, status.ProcessingError)
	}
}

// finish moves asset to its terminal state; an empty message means ready.
func finish(asset Asset, message string) Asset {
	asset.State = StateReady
	asset.Error = message
	if message != "" {
		asset.State = StateFailed
	}
	return asset
}

func displayName(name string) string {
	if name == "" {
		return "file"
	}
	return filepath.Base(name)
}
