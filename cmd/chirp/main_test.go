package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/chirp/internal/api"
	"github.com/five82/chirp/internal/app"
)

type server struct {
	*httptest.Server

	mu       sync.Mutex
	checks   int
	settings []api.SettingsRequest
	created  []api.CreatePostRequest
	likes    []string
}

func newServer(t *testing.T) *server {
	t.Helper()
	s := &server{}
	mux := http.NewServeMux()
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok-ana" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			h(w, r)
		}
	}
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds api.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Username != "ana" || creds.Password != "secret" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok-ana"}`))
	})
	mux.HandleFunc("GET /api/users", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"username":"ana","realname":"Ana","followers":3}`))
	}))
	mux.HandleFunc("GET /api/posts/feed", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":7,"message":"hi @bo","like_count":2,"user":{"id":2,"username":"bo"},"media":[{"photo":"AQEB"}]}]`))
	}))
	mux.HandleFunc("GET /api/posts/like", authed(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.likes = append(s.likes, r.URL.Query().Get("id"))
		s.mu.Unlock()
	}))
	mux.HandleFunc("POST /api/media/upload", authed(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `{"id":"M-%s","processing":true}`, r.FormValue("type"))
	}))
	mux.HandleFunc("GET /api/media/check/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.checks++
		processing := s.checks%2 == 1
		s.mu.Unlock()
		fmt.Fprintf(w, `{"id":%q,"processing":%t}`, r.PathValue("id"), processing)
	}))
	mux.HandleFunc("POST /api/users/settings", authed(func(w http.ResponseWriter, r *http.Request) {
		var req api.SettingsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.mu.Lock()
		s.settings = append(s.settings, req)
		s.mu.Unlock()
	}))
	mux.HandleFunc("POST /api/posts/create", authed(func(w http.ResponseWriter, r *http.Request) {
		var req api.CreatePostRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.mu.Lock()
		s.created = append(s.created, req)
		s.mu.Unlock()
		_, _ = w.Write([]byte(`{"id":99}`))
	}))
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

type harness struct {
	t       *testing.T
	dir     string
	config  string
	session string
}

func newHarness(t *testing.T, apiURL string) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	h := &harness{
		t:       t,
		dir:     dir,
		config:  filepath.Join(dir, "config.toml"),
		session: filepath.Join(dir, "session.toml"),
	}
	cfg := fmt.Sprintf(`api_url = %q
poll_interval = "5ms"
session_path = %q

[log]
file = %q
level = "debug"
`, apiURL, h.session, filepath.Join(dir, "chirp.log"))
	require.NoError(t, os.WriteFile(h.config, []byte(cfg), 0o644))
	return h
}

func (h *harness) run(stdin string, args ...string) (string, string, error) {
	h.t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", h.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (h *harness) writeFile(name string, data []byte) string {
	h.t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(h.t, os.WriteFile(path, data, 0o644))
	return path
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n0000")

func TestLoginWhoamiLogout(t *testing.T) {
	srv := newServer(t)
	h := newHarness(t, srv.URL+"/api")

	_, _, err := h.run("", "whoami")
	require.ErrorIs(t, err, errNotSignedIn)

	out, _, err := h.run("ana\nsecret\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "signed in as @ana")

	data, err := os.ReadFile(h.session)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tok-ana")

	out, _, err = h.run("", "--json", "whoami")
	require.NoError(t, err)
	var user api.User
	require.NoError(t, json.Unmarshal([]byte(out), &user))
	assert.Equal(t, "ana", user.Username)

	_, _, err = h.run("", "logout")
	require.NoError(t, err)
	_, _, err = h.run("", "whoami")
	assert.ErrorIs(t, err, errNotSignedIn)
}

func TestLogin_RejectsBadPassword(t *testing.T) {
	srv := newServer(t)
	h := newHarness(t, srv.URL+"/api")

	_, _, err := h.run("", "login", "--username", "ana", "--password", "nope")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	_, statErr := os.Stat(h.session)
	assert.True(t, os.IsNotExist(statErr), "session file written after failed login")
}

func TestFeed(t *testing.T) {
	srv := newServer(t)
	h := newHarness(t, srv.URL+"/api")

	out, _, err := h.run("", "--token", "tok-ana", "feed")
	require.NoError(t, err)
	assert.Contains(t, out, "#7")
	assert.Contains(t, out, "hi @bo")
	assert.Contains(t, out, srv.URL+"/api/media/AQEB.jpg")

	_, _, err = h.run("", "--token", "wrong", "feed")
	assert.ErrorIs(t, err, errNotSignedIn)
}

func TestLike(t *testing.T) {
	srv := newServer(t)
	h := newHarness(t, srv.URL+"/api")

	out, _, err := h.run("", "--token", "tok-ana", "like", "7")
	require.NoError(t, err)
	assert.Equal(t, "liked post 7\n", out)
	assert.Equal(t, []string{"7"}, srv.likes)

	_, _, err = h.run("", "--token", "tok-ana", "like", "abc")
	assert.ErrorContains(t, err, "invalid post id")
}

func TestUploadProfilePictureUpdatesSettings(t *testing.T) {
	srv := newServer(t)
	h := newHarness(t, srv.URL+"/api")
	photo := h.writeFile("me.png", pngBytes)

	out, stderr, err := h.run("", "--token", "tok-ana", "--json", "upload", "--profile-picture", photo)
	require.NoError(t, err)
	assert.Contains(t, stderr, "processing")

	var assets []assetView
	require.NoError(t, json.Unmarshal([]byte(out), &assets))
	require.Len(t, assets, 1)
	assert.Equal(t, "M-profile_picture", assets[0].ID)
	assert.Equal(t, "ready", assets[0].State)
	assert.Equal(t, srv.URL+"/api/media/M-profile_picture.jpg", assets[0].URL)

	require.Len(t, srv.settings, 1)
	require.NotNil(t, srv.settings[0].ProfilePicturePhotoID)
	assert.Equal(t, "M-profile_picture", *srv.settings[0].ProfilePicturePhotoID)
	assert.Nil(t, srv.settings[0].BannerPhotoID)
}

func TestUploadSkipsUnsupportedFiles(t *testing.T) {
	srv := newServer(t)
	h := newHarness(t, srv.URL+"/api")
	doc := h.writeFile("notes.pdf", []byte("%PDF-1.4"))

	_, _, err := h.run("", "--token", "tok-ana", "upload", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
	assert.Empty(t, srv.settings)
}

func TestPublishWithMedia(t *testing.T) {
	srv := newServer(t)
	h := newHarness(t, srv.URL+"/api")
	photo := h.writeFile("sunset.png", pngBytes)

	out, _, err := h.run("", "--token", "tok-ana", "publish", "-m", "look", photo)
	require.NoError(t, err)
	assert.Contains(t, out, "published post 99")

	require.Len(t, srv.created, 1)
	req := srv.created[0]
	require.NotNil(t, req.Message)
	assert.Equal(t, "look", *req.Message)
	assert.Equal(t, []string{"M-photo"}, req.Media)
	assert.Nil(t, req.CommentPostID)
}

func TestPublishRequiresContent(t *testing.T) {
	srv := newServer(t)
	h := newHarness(t, srv.URL+"/api")

	_, _, err := h.run("", "--token", "tok-ana", "publish")
	assert.ErrorContains(t, err, "nothing to publish")
	assert.Empty(t, srv.created)
}

func TestTUICommandSkipsEnvironment(t *testing.T) {
	var got app.Options
	c := &cli{
		build: func(app.Options) (*app.Env, error) {
			t.Fatalf("build called for tui")
			return nil, nil
		},
		tui: func(_ context.Context, opts app.Options) error {
			got = opts
			return nil
		},
	}
	root := c.command()
	root.SetArgs([]string{"--token", "abc", "tui"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "abc", got.Token)
}

func TestOutputFormats(t *testing.T) {
	srv := newServer(t)
	h := newHarness(t, srv.URL+"/api")

	out, _, err := h.run("", "--token", "tok-ana", "-o", "yaml", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "username: ana")

	_, _, err = h.run("", "--token", "tok-ana", "-o", "xml", "whoami")
	assert.ErrorContains(t, err, "unknown output format")
}
