package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/chirp/internal/api"
	"github.com/five82/chirp/internal/logtail"
	"github.com/five82/chirp/internal/media"
	"github.com/five82/chirp/internal/pages"
	"github.com/five82/chirp/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type layoutMsg struct {
	data     pages.LayoutData
	redirect string
}

type pageMsg struct {
	view     View
	home     pages.HomeData
	latest   pages.LatestData
	user     pages.UserData
	post     pages.PostData
	redirect string
}

type loginMsg struct {
	err error
}

type likeMsg struct {
	postID int64
	liked  bool
	err    error
}

type uploadDoneMsg struct {
	assets         []media.Asset
	profileUpdated bool
	err            error
}

type logsMsg struct {
	lines []string
	err   error
}

type logWatchMsg struct {
	changes <-chan struct{}
	err     error
}

type logChangedMsg struct{}

// redirects records the last path a loader navigated to.
type redirects struct {
	path string
}

func (r *redirects) Goto(path string) {
	r.path = path
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func (m Model) loaders(nav pages.Navigator) *pages.Loaders {
	return pages.New(m.client, nav, m.logger)
}

func (m Model) layoutCmd(path string) tea.Cmd {
	if m.client == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		nav := &redirects{}
		data := m.loaders(nav).Layout(ctx, path)
		return layoutMsg{data: data, redirect: nav.path}
	}
}

// loadCmd runs the loader behind view. username and id address the user and
// post screens.
func (m Model) loadCmd(view View, username string, id int64) tea.Cmd {
	if m.client == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		nav := &redirects{}
		l := m.loaders(nav)
		msg := pageMsg{view: view}
		switch view {
		case ViewFeed:
			msg.home = l.Home(ctx)
		case ViewLatest:
			msg.latest = l.Latest(ctx)
		case ViewUser:
			msg.user = l.UserPage(ctx, username)
		case ViewPost:
			msg.post = l.PostPage(ctx, username, id)
		}
		msg.redirect = nav.path
		return msg
	}
}

func (m Model) loginCmd(creds api.Credentials) tea.Cmd {
	ctx, client, sess := m.ctx, m.client, m.creds
	return func() tea.Msg {
		if client == nil || sess == nil {
			return loginMsg{err: errors.New("no session configured")}
		}
		token, err := client.Login(ctx, creds)
		if err != nil {
			return loginMsg{err: err}
		}
		if err := sess.Save(token); err != nil {
			return loginMsg{err: fmt.Errorf("save token: %w", err)}
		}
		return loginMsg{}
	}
}

func (m Model) likeCmd(postID int64, like bool) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		if client == nil {
			return likeMsg{postID: postID, liked: like, err: errors.New("no client")}
		}
		var err error
		if like {
			err = client.Like(ctx, postID)
		} else {
			err = client.Unlike(ctx, postID)
		}
		return likeMsg{postID: postID, liked: like, err: err}
	}
}

// uploadCmd opens each path and hands the batch to the uploader. Progress and
// state transitions are written to the store and picked up on the next tick.
// Ready profile pictures and banners are applied to the profile afterwards.
func (m Model) uploadCmd(paths []string, intent media.Intent) tea.Cmd {
	ctx, client, uploader, store, logger := m.ctx, m.client, m.uploader, m.store, m.logger
	return func() tea.Msg {
		var (
			files []media.File
			errs  []error
		)
		for _, path := range paths {
			f, err := media.OpenFile(path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			files = append(files, f)
		}
		defer func() {
			for _, f := range files {
				_ = f.Close()
			}
		}()

		cb := media.Callbacks{
			OnUploadProgress: func(p media.Progress) {
				if store != nil {
					store.Progress(p)
				}
			},
			OnUploadError: func(err error) {
				logger.WithError(err).Warn("upload failed")
				if store != nil {
					store.UploadFailed(err)
				}
			},
			OnProcessingStart: func(a media.Asset) {
				if store != nil {
					store.Track(a)
				}
			},
			OnProcessingEnd: func(a media.Asset) {
				if store != nil {
					store.Track(a)
				}
			},
		}
		assets, err := uploader.UploadAll(ctx, files, intent, cb)
		if err != nil {
			errs = append(errs, err)
		}
		done := uploadDoneMsg{assets: assets}
		if settings, ok := media.ProfileSettings(assets); ok && client != nil {
			if err := client.UpdateSettings(ctx, settings); err != nil {
				errs = append(errs, fmt.Errorf("update profile: %w", err))
			} else {
				done.profileUpdated = true
			}
		}
		done.err = errors.Join(errs...)
		return done
	}
}

func (m Model) refreshLogsCmd() tea.Cmd {
	path := m.logPath
	palette := m.theme.LogPalette()
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return logsMsg{lines: []string{"logging to file is disabled"}}
		}
		lines, err := logtail.Read(path, logTailLines)
		if err != nil {
			return logsMsg{err: err}
		}
		return logsMsg{lines: logtail.ColorizeLines(lines, palette)}
	}
}

func (m Model) watchLogsCmd() tea.Cmd {
	if strings.TrimSpace(m.logPath) == "" {
		return nil
	}
	ctx, path := m.ctx, m.logPath
	return func() tea.Msg {
		changes, err := logtail.Watch(ctx, path)
		return logWatchMsg{changes: changes, err: err}
	}
}

func waitLogChangeCmd(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return logChangedMsg{}
	}
}

func uploadSummary(assets []media.Asset, profileUpdated bool, err error) string {
	var ready, failed int
	for _, a := range assets {
		switch a.State {
		case media.StateReady:
			ready++
		case media.StateFailed:
			failed++
		}
	}
	summary := fmt.Sprintf("%d ready, %d failed", ready, failed)
	if profileUpdated {
		summary += ", profile updated"
	}
	if err != nil {
		summary += ": " + strings.ReplaceAll(err.Error(), "\n", "; ")
	}
	return summary
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
