package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/five82/chirp/internal/api"
	"github.com/five82/chirp/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 64; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

func TestCalculateBackoff_SlowBaseUnchanged(t *testing.T) {
	if got := calculateBackoff(3, time.Minute); got != time.Minute {
		t.Fatalf("calculateBackoff(3, 1m) = %v, want 1m", got)
	}
}

type fakeSource struct {
	selfErr error
	feedErr error
	calls   atomic.Int32
}

func (f *fakeSource) Self(context.Context) (*api.User, error) {
	f.calls.Add(1)
	if f.selfErr != nil {
		return nil, f.selfErr
	}
	return &api.User{ID: 1, Username: "ana"}, nil
}

func (f *fakeSource) Feed(context.Context, api.Page) ([]api.Post, error) {
	if f.feedErr != nil {
		return nil, f.feedErr
	}
	return []api.Post{{ID: 7}}, nil
}

func TestRefresh_UpdatesStore(t *testing.T) {
	var store state.Store
	logger, _ := test.NewNullLogger()

	if !refresh(context.Background(), &store, &fakeSource{}, logger) {
		t.Fatalf("refresh returned false, want true")
	}
	snap := store.Snapshot()
	if snap.User == nil || snap.User.Username != "ana" || len(snap.Feed) != 1 {
		t.Fatalf("snapshot = %#v, want user ana and one post", snap)
	}
}

func TestRefresh_RecordsErrors(t *testing.T) {
	var store state.Store
	logger, hook := test.NewNullLogger()

	src := &fakeSource{feedErr: errors.New("boom")}
	if refresh(context.Background(), &store, src, logger) {
		t.Fatalf("refresh returned true, want false")
	}
	snap := store.Snapshot()
	if snap.LastError == nil || snap.ConsecutiveFailures != 1 {
		t.Fatalf("snapshot = %#v, want recorded failure", snap)
	}
	if hook.LastEntry() == nil || hook.LastEntry().Level != logrus.WarnLevel {
		t.Fatalf("expected a warning log entry")
	}
}

func TestStartPoller_StopsWithContext(t *testing.T) {
	var store state.Store
	logger, _ := test.NewNullLogger()
	src := &fakeSource{}

	ctx, cancel := context.WithCancel(context.Background())
	StartPoller(ctx, &store, src, time.Hour, logger)

	deadline := time.Now().Add(2 * time.Second)
	for src.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("poller never refreshed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if calls := src.calls.Load(); calls != 1 {
		t.Fatalf("refresh calls = %d, want 1 with an hour interval", calls)
	}
}
