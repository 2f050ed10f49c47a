package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/chirp/internal/api"
	"github.com/five82/chirp/internal/config"
	"github.com/five82/chirp/internal/logger"
	"github.com/five82/chirp/internal/media"
	"github.com/five82/chirp/internal/pages"
	"github.com/five82/chirp/internal/session"
	"github.com/five82/chirp/internal/state"
	"github.com/five82/chirp/internal/ui"
)

// Options configure the chirp application.
type Options struct {
	ConfigPath string
	Token      string // overrides the stored session token when set
	APIURL     string // overrides api_url when set
	LogLevel   string // overrides log.level when set
}

// Env holds the wired components shared by the CLI and the TUI.
type Env struct {
	Config      config.Config
	Logger      *logrus.Logger
	Session     session.KV
	Credentials *session.Credentials
	Client      *api.Client
	Coordinator *media.Coordinator

	logCloser io.Closer
}

// Build loads configuration and wires every component.
func Build(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.Log.Level = v
	}

	log, closer, err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var kv session.KV
	if token := strings.TrimSpace(opts.Token); token != "" {
		kv = session.NewMemory(map[string]string{session.KeyToken: token})
	} else {
		store, err := session.Open(cfg.SessionPath)
		if err != nil {
			_ = closer.Close()
			return nil, fmt.Errorf("open session: %w", err)
		}
		kv = store
	}
	creds := session.NewCredentials(kv)

	client, err := api.NewClient(cfg.APIURL, creds,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithRateLimit(cfg.RequestsPerSecond),
		api.WithLogger(log),
	)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	coordinator := media.NewCoordinator(client,
		media.WithPollInterval(cfg.PollInterval),
		media.WithMaxPollFailures(cfg.MaxPollFailures),
		media.WithLogger(log),
	)

	log.WithFields(logrus.Fields{
		"api_url": client.BaseURL(),
		"session": sessionLabel(kv),
	}).Debug("chirp initialized")

	return &Env{
		Config:      cfg,
		Logger:      log,
		Session:     kv,
		Credentials: creds,
		Client:      client,
		Coordinator: coordinator,
		logCloser:   closer,
	}, nil
}

// Loaders returns page loaders that redirect through nav.
func (e *Env) Loaders(nav pages.Navigator) *pages.Loaders {
	return pages.New(e.Client, nav, e.Logger)
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.logCloser == nil {
		return nil
	}
	return e.logCloser.Close()
}

// Run boots the chirp TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Build(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	store := &state.Store{}

	// Start background refresh; the first pass populates the store before the UI draws.
	StartPoller(ctx, store, env.Client, env.Config.FeedRefresh, env.Logger)

	theme, _ := env.Session.Get(session.KeyTheme)
	return ui.Run(ui.Options{
		Context:     ctx,
		Client:      env.Client,
		Uploader:    env.Coordinator,
		Session:     env.Session,
		Credentials: env.Credentials,
		Store:       store,
		Logger:      env.Logger,
		LogPath:     env.Config.Log.File,
		PollTick:    time.Second,
		ThemeName:   theme,
	})
}

func sessionLabel(kv session.KV) string {
	if s, ok := kv.(*session.Store); ok {
		return s.Path()
	}
	return "memory"
}
