package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/chirp/internal/api"
	"github.com/five82/chirp/internal/media"
	"github.com/five82/chirp/internal/pages"
	"github.com/five82/chirp/internal/session"
	"github.com/five82/chirp/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewFeed View = iota
	ViewLatest
	ViewUser
	ViewPost
	ViewUploads
	ViewLogs
	ViewLogin
)

func (v View) String() string {
	switch v {
	case ViewFeed:
		return "Home"
	case ViewLatest:
		return "Latest"
	case ViewUser:
		return "Profile"
	case ViewPost:
		return "Post"
	case ViewUploads:
		return "Uploads"
	case ViewLogs:
		return "Logs"
	case ViewLogin:
		return "Login"
	}
	return "?"
}

// Client is the API surface the UI uses.
type Client interface {
	pages.Reader
	Login(ctx context.Context, creds api.Credentials) (string, error)
	Like(ctx context.Context, postID int64) error
	Unlike(ctx context.Context, postID int64) error
	UpdateSettings(ctx context.Context, settings api.SettingsRequest) error
	MediaURL(id, ext, variant string) string
}

// Uploader runs the media workflow for files attached in the uploads view.
type Uploader interface {
	UploadAll(ctx context.Context, files []media.File, intent media.Intent, cb media.Callbacks) ([]media.Asset, error)
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Client      Client
	Uploader    Uploader
	Session     session.KV
	Credentials *session.Credentials
	Store       *state.Store
	Logger      logrus.FieldLogger
	LogPath     string
	PollTick    time.Duration
	ThemeName   string
}

const logTailLines = 400

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx      context.Context
	client   Client
	uploader Uploader
	session  session.KV
	creds    *session.Credentials
	store    *state.Store
	logger   logrus.FieldLogger
	logPath  string
	pollTick time.Duration

	// UI state
	keys     keyMap
	help     help.Model
	theme    Theme
	view     View
	history  []View
	width    int
	height   int
	ready    bool
	showHelp bool
	flash    string
	loading  bool
	spinner  spinner.Model

	// Data state
	snapshot state.Snapshot
	me       *api.User
	home     pages.HomeData
	latest   pages.LatestData
	profile  pages.UserData
	thread   pages.PostData
	selected map[View]int

	// Uploads
	pathInput textinput.Model
	attaching bool
	intent    media.Intent
	bar       progress.Model

	// Logs
	logViewport viewport.Model
	logFollow   bool
	logChanges  <-chan struct{} // nil when the log file is not watched

	// Login
	loginInputs [2]textinput.Model
	loginFocus  int
	loginErr    string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	path := textinput.New()
	path.Placeholder = "paths to upload, space separated"
	path.CharLimit = 1024

	user := textinput.New()
	user.Placeholder = "username"
	user.Focus()
	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return Model{
		ctx:         ctx,
		client:      opts.Client,
		uploader:    opts.Uploader,
		session:     opts.Session,
		creds:       opts.Credentials,
		store:       opts.Store,
		logger:      logger,
		logPath:     opts.LogPath,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		theme:       GetTheme(opts.ThemeName),
		view:        ViewFeed,
		spinner:     sp,
		selected:    map[View]int{},
		pathInput:   path,
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(24), progress.WithoutPercentage()),
		logFollow:   true,
		loginInputs: [2]textinput.Model{user, pass},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
		m.layoutCmd("/"),
		m.watchLogsCmd(),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.logViewport = viewport.New(msg.Width, m.contentHeight())
		} else {
			m.logViewport.Width = msg.Width
			m.logViewport.Height = m.contentHeight()
		}
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		return m.handleSnapshot(state.Snapshot(msg))

	case layoutMsg:
		if msg.redirect != "" {
			return m.gotoLogin(), nil
		}
		m.me = msg.data.User
		return m, nil

	case pageMsg:
		return m.handlePage(msg)

	case loginMsg:
		if msg.err != nil {
			m.loginErr = msg.err.Error()
			return m, nil
		}
		m.loginErr = ""
		m.loginInputs[1].SetValue("")
		m.view = ViewFeed
		m.history = nil
		m.flash = "signed in"
		return m, tea.Batch(m.layoutCmd("/"), m.loadCmd(ViewFeed, "", 0))

	case likeMsg:
		if msg.err != nil {
			m.flash = "like failed: " + msg.err.Error()
			if api.IsUnauthorized(msg.err) {
				return m.gotoLogin(), nil
			}
			return m, nil
		}
		m.applyLike(msg.postID, msg.liked)
		return m, nil

	case uploadDoneMsg:
		m.flash = uploadSummary(msg.assets, msg.profileUpdated, msg.err)
		return m, fetchSnapshotCmd(m.store)

	case logsMsg:
		m.handleLogs(msg)
		return m, nil

	case logWatchMsg:
		if msg.err != nil {
			m.logger.WithError(msg.err).Debug("log watch unavailable, refreshing on tick")
			return m, nil
		}
		m.logChanges = msg.changes
		return m, waitLogChangeCmd(m.logChanges)

	case logChangedMsg:
		cmds := []tea.Cmd{waitLogChangeCmd(m.logChanges)}
		if m.view == ViewLogs && m.logFollow {
			cmds = append(cmds, m.refreshLogsCmd())
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.view == ViewLogin {
		return m.handleLoginKey(msg)
	}
	if m.attaching {
		return m.handleAttachKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.session != nil {
			if err := m.session.Set(session.KeyTheme, m.theme.Name); err != nil {
				m.logger.WithError(err).Warn("save theme failed")
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.ViewFeed):
		return m.switchView(ViewFeed), nil
	case key.Matches(msg, m.keys.ViewLatest):
		m = m.switchView(ViewLatest)
		if !m.latest.HasPosts {
			return m.startLoading(m.loadCmd(ViewLatest, "", 0))
		}
		return m, nil
	case key.Matches(msg, m.keys.ViewUploads):
		return m.switchView(ViewUploads), nil
	case key.Matches(msg, m.keys.ViewLogs):
		m = m.switchView(ViewLogs)
		return m, m.refreshLogsCmd()
	case key.Matches(msg, m.keys.Back):
		return m.back(), nil
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	}

	switch m.view {
	case ViewUploads:
		return m.handleUploadsKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handlePostsKey(msg)
	}
}

// handlePostsKey handles navigation and actions over a list of posts.
func (m Model) handlePostsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	posts := m.currentPosts()
	count := len(posts)
	sel := m.selected[m.view]

	switch {
	case key.Matches(msg, m.keys.Down):
		if sel < count-1 {
			m.selected[m.view] = sel + 1
		}
	case key.Matches(msg, m.keys.Up):
		if sel > 0 {
			m.selected[m.view] = sel - 1
		}
	case key.Matches(msg, m.keys.Top):
		m.selected[m.view] = 0
	case key.Matches(msg, m.keys.Bottom):
		if count > 0 {
			m.selected[m.view] = count - 1
		}
	case key.Matches(msg, m.keys.Open):
		if post := m.selectedPost(); post != nil {
			m = m.pushView(ViewPost)
			m.thread = pages.PostData{}
			m.selected[ViewPost] = 0
			return m.startLoading(m.loadCmd(ViewPost, post.User.Username, post.ID))
		}
	case key.Matches(msg, m.keys.OpenAuthor):
		if post := m.selectedPost(); post != nil {
			m = m.pushView(ViewUser)
			m.profile = pages.UserData{}
			m.selected[ViewUser] = 0
			return m.startLoading(m.loadCmd(ViewUser, post.User.Username, 0))
		}
	case key.Matches(msg, m.keys.Like):
		if post := m.selectedPost(); post != nil {
			return m, m.likeCmd(post.ID, !post.Liked)
		}
	}
	return m, nil
}

func (m Model) handleUploadsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Attach):
		if m.uploader == nil {
			m.flash = "uploads unavailable"
			return m, nil
		}
		m.attaching = true
		m.pathInput.SetValue("")
		cmd := m.pathInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.ProfileIntent):
		m.intent.ProfilePicture = !m.intent.ProfilePicture
	case key.Matches(msg, m.keys.BannerIntent):
		m.intent.Banner = !m.intent.Banner
	case key.Matches(msg, m.keys.ClearFinished):
		if m.store != nil {
			m.store.ClearFinished()
			return m, fetchSnapshotCmd(m.store)
		}
	}
	return m, nil
}

func (m Model) handleAttachKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CancelEditing):
		m.attaching = false
		m.pathInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.attaching = false
		m.pathInput.Blur()
		paths := splitPaths(m.pathInput.Value())
		if len(paths) == 0 {
			return m, nil
		}
		m.flash = "uploading " + plural(int64(len(paths)), "file")
		return m, m.uploadCmd(paths, m.intent)
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ToggleFollow) {
		m.logFollow = !m.logFollow
		if m.logFollow {
			m.logViewport.GotoBottom()
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Top):
		m.logFollow = false
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	if !m.logViewport.AtBottom() {
		m.logFollow = false
	}
	return m, cmd
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.loginFocus = (m.loginFocus + 1) % len(m.loginInputs)
		cmd := m.focusLogin()
		return m, cmd
	case tea.KeyEnter:
		if m.loginFocus == 0 {
			m.loginFocus = 1
			cmd := m.focusLogin()
			return m, cmd
		}
		creds := api.Credentials{
			Username: m.loginInputs[0].Value(),
			Password: m.loginInputs[1].Value(),
		}
		if creds.Username == "" || creds.Password == "" {
			m.loginErr = "username and password required"
			return m, nil
		}
		m.loginErr = ""
		return m, m.loginCmd(creds)
	}
	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m *Model) focusLogin() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.loginInputs {
		if i == m.loginFocus {
			cmd = m.loginInputs[i].Focus()
		} else {
			m.loginInputs[i].Blur()
		}
	}
	return cmd
}

// handleTick processes the refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.view == ViewLogs && m.logFollow && m.logChanges == nil {
		cmds = append(cmds, m.refreshLogsCmd())
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m Model) handleSnapshot(snap state.Snapshot) (tea.Model, tea.Cmd) {
	newer := snap.LastUpdated.After(m.snapshot.LastUpdated)
	m.snapshot = snap
	if snap.User != nil {
		m.me = snap.User
	}
	if newer && snap.HasFeed && snap.LastError == nil {
		m.home = pages.HomeData{Feed: snap.Feed, HasFeed: true}
		m.clampSelection(ViewFeed)
	}
	if api.IsUnauthorized(snap.LastError) && m.view != ViewLogin {
		return m.gotoLogin(), nil
	}
	return m, nil
}

func (m Model) handlePage(msg pageMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.redirect != "" {
		return m.gotoLogin(), nil
	}
	switch msg.view {
	case ViewFeed:
		m.home = msg.home
	case ViewLatest:
		m.latest = msg.latest
	case ViewUser:
		m.profile = msg.user
	case ViewPost:
		m.thread = msg.post
	}
	m.clampSelection(msg.view)
	return m, nil
}

func (m *Model) handleLogs(msg logsMsg) {
	if msg.err != nil {
		m.flash = "log read failed: " + msg.err.Error()
		return
	}
	m.logViewport.SetContent(joinLines(msg.lines))
	if m.logFollow {
		m.logViewport.GotoBottom()
	}
}

// reload re-runs the loader behind the current view.
func (m Model) reload() (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewFeed:
		return m.startLoading(m.loadCmd(ViewFeed, "", 0))
	case ViewLatest:
		return m.startLoading(m.loadCmd(ViewLatest, "", 0))
	case ViewUser:
		if m.profile.User != nil {
			return m.startLoading(m.loadCmd(ViewUser, m.profile.User.Username, 0))
		}
	case ViewPost:
		if post := m.thread.Post(); post != nil {
			return m.startLoading(m.loadCmd(ViewPost, post.User.Username, post.ID))
		}
	case ViewLogs:
		return m, m.refreshLogsCmd()
	}
	return m, nil
}

func (m Model) startLoading(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.loading = true
	return m, cmd
}

func (m Model) switchView(v View) Model {
	m.view = v
	m.history = nil
	m.flash = ""
	return m
}

func (m Model) pushView(v View) Model {
	m.history = append(append([]View(nil), m.history...), m.view)
	m.view = v
	m.flash = ""
	return m
}

func (m Model) back() Model {
	if n := len(m.history); n > 0 {
		m.view = m.history[n-1]
		m.history = m.history[:n-1]
		return m
	}
	m.view = ViewFeed
	return m
}

func (m Model) gotoLogin() Model {
	m.loading = false
	m.view = ViewLogin
	m.history = nil
	m.loginFocus = 0
	m.focusLogin()
	return m
}

// currentPosts returns the posts listed in the active view.
func (m Model) currentPosts() []api.Post {
	switch m.view {
	case ViewFeed:
		return m.home.Feed
	case ViewLatest:
		return m.latest.Posts
	case ViewUser:
		return m.profile.Posts
	case ViewPost:
		out := append([]api.Post(nil), m.thread.Posts...)
		return append(out, m.thread.Comments...)
	}
	return nil
}

func (m Model) selectedPost() *api.Post {
	posts := m.currentPosts()
	sel := m.selected[m.view]
	if sel < 0 || sel >= len(posts) {
		return nil
	}
	post := posts[sel]
	return &post
}

func (m *Model) clampSelection(v View) {
	saved := m.view
	m.view = v
	count := len(m.currentPosts())
	m.view = saved
	if m.selected[v] >= count {
		m.selected[v] = count - 1
	}
	if m.selected[v] < 0 {
		m.selected[v] = 0
	}
}

// applyLike updates the liked flag wherever the post is listed.
func (m *Model) applyLike(postID int64, liked bool) {
	update := func(posts []api.Post) {
		for i := range posts {
			if posts[i].ID != postID || posts[i].Liked == liked {
				continue
			}
			posts[i].Liked = liked
			if liked {
				posts[i].LikeCount++
			} else if posts[i].LikeCount > 0 {
				posts[i].LikeCount--
			}
		}
	}
	update(m.home.Feed)
	update(m.latest.Posts)
	update(m.profile.Posts)
	update(m.thread.Posts)
	update(m.thread.Comments)
}

func (m Model) contentHeight() int {
	// header + command bar + footer
	h := m.height - 3
	if h < 1 {
		return 1
	}
	return h
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
