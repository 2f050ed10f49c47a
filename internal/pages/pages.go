// Package pages loads the data behind each screen: the signed-in user, the
// home feed, the latest posts, a user's profile, and a single post thread.
//
// Loaders never retry or cache. A failed read leaves that field absent; an
// authentication failure additionally sends the user to /login once.
package pages

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/five82/chirp/internal/api"
)

// Route paths understood by the Navigator.
const (
	LoginPath    = "/login"
	RegisterPath = "/register"
)

// Reader is the read side of the API client.
type Reader interface {
	Self(ctx context.Context) (*api.User, error)
	User(ctx context.Context, slug string) (*api.User, error)
	Feed(ctx context.Context, page api.Page) ([]api.Post, error)
	FindPosts(ctx context.Context, query api.PostQuery) ([]api.Post, error)
	Comments(ctx context.Context, username string, postID int64) ([]api.Post, error)
}

// Navigator switches the visible screen.
type Navigator interface {
	Goto(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Goto implements Navigator.
func (f NavigatorFunc) Goto(path string) { f(path) }

// LayoutData is shared by every signed-in screen.
type LayoutData struct {
	User *api.User
}

// HomeData backs the home feed.
type HomeData struct {
	Feed    []api.Post
	HasFeed bool
}

// LatestData backs the latest posts screen.
type LatestData struct {
	Posts    []api.Post
	HasPosts bool
}

// UserData backs a profile screen. Each half is loaded independently.
type UserData struct {
	User     *api.User
	Posts    []api.Post
	HasPosts bool
}

// PostData backs a post thread screen.
type PostData struct {
	Posts       []api.Post
	HasPosts    bool
	Comments    []api.Post
	HasComments bool
}

// Post returns the thread's root post, or nil when it did not load.
func (d PostData) Post() *api.Post {
	if !d.HasPosts || len(d.Posts) == 0 {
		return nil
	}
	return &d.Posts[0]
}

// Loaders runs page loads against the API.
type Loaders struct {
	api    Reader
	nav    Navigator
	logger logrus.FieldLogger
}

// New returns Loaders. A nil logger uses the standard logrus logger.
func New(reader Reader, nav Navigator, logger logrus.FieldLogger) *Loaders {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &Loaders{api: reader, nav: nav, logger: logger}
}

// Layout resolves the signed-in user for any path except the login and
// register screens. Any failure redirects to login.
func (l *Loaders) Layout(ctx context.Context, path string) LayoutData {
	switch strings.TrimRight(path, "/") {
	case LoginPath, RegisterPath:
		return LayoutData{}
	}
	user, err := l.api.Self(ctx)
	if err != nil || user == nil {
		l.logFailure("layout", err)
		l.nav.Goto(LoginPath)
		return LayoutData{}
	}
	return LayoutData{User: user}
}

// Home loads the signed-in user's feed.
func (l *Loaders) Home(ctx context.Context) HomeData {
	guard := l.guard("home")
	feed, err := l.api.Feed(ctx, api.Page{})
	if guard.check(err) {
		return HomeData{Feed: feed, HasFeed: true}
	}
	return HomeData{}
}

// Latest loads the newest posts across all users.
func (l *Loaders) Latest(ctx context.Context) LatestData {
	guard := l.guard("latest")
	posts, err := l.api.FindPosts(ctx, api.PostQuery{})
	if guard.check(err) {
		return LatestData{Posts: posts, HasPosts: true}
	}
	return LatestData{}
}

// UserPage loads a profile and its posts.
func (l *Loaders) UserPage(ctx context.Context, slug string) UserData {
	guard := l.guard("user")
	var data UserData

	user, err := l.api.User(ctx, slug)
	if guard.check(err) {
		data.User = user
	}
	posts, err := l.api.FindPosts(ctx, api.PostQuery{Username: slug})
	if guard.check(err) {
		data.Posts, data.HasPosts = posts, true
	}
	if guard.redirected() {
		return UserData{}
	}
	return data
}

// PostPage loads a post by author and id along with its comments.
func (l *Loaders) PostPage(ctx context.Context, username string, id int64) PostData {
	guard := l.guard("post")
	var data PostData

	posts, err := l.api.FindPosts(ctx, api.PostQuery{Username: username, ID: id})
	if guard.check(err) {
		data.Posts, data.HasPosts = posts, true
	}
	comments, err := l.api.Comments(ctx, username, id)
	if guard.check(err) {
		data.Comments, data.HasComments = comments, true
	}
	if guard.redirected() {
		return PostData{}
	}
	return data
}

// authGuard tracks one loader call so an auth failure redirects only once.
type authGuard struct {
	l    *Loaders
	page string
	hit  bool
}

func (l *Loaders) guard(page string) *authGuard {
	return &authGuard{l: l, page: page}
}

// check reports whether err is nil. Failures are logged; auth failures also
// redirect to login on first sight.
func (g *authGuard) check(err error) bool {
	if err == nil {
		return true
	}
	g.l.logFailure(g.page, err)
	if api.IsUnauthorized(err) && !g.hit {
		g.hit = true
		g.l.nav.Goto(LoginPath)
	}
	return false
}

func (g *authGuard) redirected() bool {
	return g.hit
}

func (l *Loaders) logFailure(page string, err error) {
	entry := l.logger.WithField("page", page)
	if code := api.StatusCode(err); code != 0 {
		entry = entry.WithField("status", code)
	}
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Debug("page data unavailable")
}
