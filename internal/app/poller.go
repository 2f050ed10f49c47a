package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/chirp/internal/api"
	"github.com/five82/chirp/internal/state"
)

const (
	defaultRefreshInterval = 30 * time.Second
	maxBackoff             = 30 * time.Second
)

// FeedSource is what the refresh loop reads.
type FeedSource interface {
	Self(ctx context.Context) (*api.User, error)
	Feed(ctx context.Context, page api.Page) ([]api.Post, error)
}

// StartPoller launches a background goroutine that refreshes the signed-in
// user and home feed. Consecutive failures back off exponentially. It returns
// immediately.
func StartPoller(ctx context.Context, store *state.Store, source FeedSource, interval time.Duration, logger logrus.FieldLogger) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	go func() {
		failures := 0
		for {
			if refresh(ctx, store, source, logger) {
				failures = 0
			} else {
				failures++
			}
			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

func refresh(ctx context.Context, store *state.Store, source FeedSource, logger logrus.FieldLogger) bool {
	user, err := source.Self(ctx)
	if err != nil {
		store.Update(nil, nil, err)
		logger.WithError(err).Warn("user refresh failed")
		return false
	}
	feed, err := source.Feed(ctx, api.Page{})
	if err != nil {
		store.Update(nil, nil, err)
		logger.WithError(err).Warn("feed refresh failed")
		return false
	}
	store.Update(user, feed, nil)
	return true
}

// calculateBackoff doubles base per consecutive failure, capped at maxBackoff.
// A base above the cap is returned unchanged.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
