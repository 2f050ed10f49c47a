package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/chirp/internal/api"
	"github.com/five82/chirp/internal/media"
	"github.com/five82/chirp/internal/state"
)

var mentionPattern = regexp.MustCompile(`@[A-Za-z0-9_]+`)

func (m Model) renderMain() string {
	header := m.renderHeader()
	commandBar := m.renderCommandBar()

	var body string
	switch m.view {
	case ViewFeed, ViewLatest:
		body = m.renderPosts()
	case ViewUser:
		body = m.renderProfile()
	case ViewPost:
		body = m.renderThread()
	case ViewUploads:
		body = m.renderUploads()
	case ViewLogs:
		body = m.logViewport.View()
	case ViewLogin:
		body = m.renderLogin()
	}
	body = lipgloss.NewStyle().Height(m.contentHeight()).MaxHeight(m.contentHeight()).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, commandBar, m.renderFooter())
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	left := styles.Logo.Render("chirp") + "  " + styles.MutedText.Render(m.view.String())
	if m.loading {
		left += " " + m.spinner.View()
	}

	var right string
	switch {
	case m.snapshot.IsOffline():
		right = styles.DangerText.Render("offline")
	case m.me != nil:
		right = styles.AccentText.Render("@" + m.me.Username)
	default:
		right = styles.FaintText.Render("signed out")
	}
	if pending := m.snapshot.Pending(); pending > 0 {
		right = styles.InfoText.Render(plural(int64(pending), "upload")) + "  " + right
	}
	if !m.snapshot.LastUpdated.IsZero() {
		right += styles.FaintText.Render("  " + humanizeDuration(time.Since(m.snapshot.LastUpdated)))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	if m.attaching {
		return styles.Header.Width(m.width).Render("attach: " + m.pathInput.View())
	}
	return styles.Header.Width(m.width).Render(m.help.View(m.keys))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.flash == "" {
		return ""
	}
	return styles.MutedText.Render(truncate(m.flash, m.width))
}

func (m Model) renderPosts() string {
	var posts []api.Post
	var loaded bool
	switch m.view {
	case ViewFeed:
		posts, loaded = m.home.Feed, m.home.HasFeed
	case ViewLatest:
		posts, loaded = m.latest.Posts, m.latest.HasPosts
	}
	if !loaded {
		return m.renderEmpty("Nothing loaded yet. Press r to reload.")
	}
	if len(posts) == 0 {
		return m.renderEmpty("No posts.")
	}
	return m.renderPostList(posts, 0)
}

func (m Model) renderProfile() string {
	styles := m.theme.Styles()
	var b strings.Builder

	if u := m.profile.User; u != nil {
		b.WriteString(styles.AccentText.Bold(true).Render(u.DisplayName()))
		b.WriteString(" " + styles.MutedText.Render("@"+u.Username))
		b.WriteString("  " + styles.FaintText.Render(plural(u.Followers, "follower")))
		if u.Following {
			b.WriteString("  " + styles.SuccessText.Render("following"))
		}
		b.WriteString("\n")
		if bio := u.BioText(); bio != "" {
			b.WriteString(styles.Text.Render(bio) + "\n")
		}
		if u.ProfilePicturePhotoID != nil && m.client != nil {
			b.WriteString(styles.FaintText.Render("avatar " + m.client.MediaURL(*u.ProfilePicturePhotoID, "jpg", "small")))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	} else if !m.loading {
		b.WriteString(styles.DangerText.Render("User not found") + "\n\n")
	}

	switch {
	case !m.profile.HasPosts && !m.loading:
		b.WriteString(styles.MutedText.Render("Posts unavailable"))
	case len(m.profile.Posts) == 0 && m.profile.HasPosts:
		b.WriteString(styles.MutedText.Render("No posts."))
	default:
		b.WriteString(m.renderPostList(m.profile.Posts, 0))
	}
	return b.String()
}

func (m Model) renderThread() string {
	styles := m.theme.Styles()
	if m.thread.Post() == nil {
		if m.loading {
			return ""
		}
		return m.renderEmpty("Post not found.")
	}
	var b strings.Builder
	b.WriteString(m.renderPostList(m.thread.Posts, 0))
	b.WriteString("\n")
	switch {
	case !m.thread.HasComments:
		b.WriteString(styles.MutedText.Render("Comments unavailable"))
	case len(m.thread.Comments) == 0:
		b.WriteString(styles.MutedText.Render("No comments."))
	default:
		b.WriteString(styles.MutedText.Render(plural(int64(len(m.thread.Comments)), "comment")) + "\n")
		b.WriteString(m.renderPostList(m.thread.Comments, len(m.thread.Posts)))
	}
	return b.String()
}

// renderPostList renders posts as cards. offset is the index of posts[0] in
// the view's selectable list.
func (m Model) renderPostList(posts []api.Post, offset int) string {
	sel := m.selected[m.view]
	cards := make([]string, 0, len(posts))
	for i, post := range posts {
		cards = append(cards, m.renderPost(post, offset+i == sel))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m Model) renderPost(post api.Post, selected bool) string {
	styles := m.theme.Styles()
	width := m.width - 4
	if width < 20 {
		width = 20
	}

	author := styles.AccentText.Bold(true).Render(post.User.DisplayName()) +
		" " + styles.MutedText.Render("@"+post.User.Username)
	if post.Comment {
		author += " " + styles.FaintText.Render("reply")
	}

	lines := []string{author}
	if text := post.Text(); text != "" {
		lines = append(lines, m.highlightMentions(text))
	}
	for _, item := range post.Media {
		id, kind := item.ID()
		if id == "" || m.client == nil {
			continue
		}
		lines = append(lines, styles.InfoText.Render(kind+" ")+styles.FaintText.Render(m.client.MediaURL(id, mediaExt(kind), "")))
	}

	heart := "♡"
	likeStyle := styles.MutedText
	if post.Liked {
		heart = "♥"
		likeStyle = styles.DangerText
	}
	lines = append(lines, likeStyle.Render(fmt.Sprintf("%s %d", heart, post.LikeCount))+
		"  "+styles.MutedText.Render(plural(post.CommentCount, "comment")))

	card := styles.Card
	if selected {
		card = styles.Focus
	}
	return card.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) highlightMentions(text string) string {
	styles := m.theme.Styles()
	return mentionPattern.ReplaceAllStringFunc(text, func(s string) string {
		return styles.AccentText.Render(s)
	})
}

func (m Model) renderUploads() string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.MutedText.Render("intent: "))
	b.WriteString(m.renderIntent("profile picture", m.intent.ProfilePicture))
	b.WriteString("  ")
	b.WriteString(m.renderIntent("banner", m.intent.Banner))
	b.WriteString("\n\n")

	uploads := m.snapshot.Uploads
	if len(uploads) == 0 {
		b.WriteString(styles.MutedText.Render("No uploads. Press a to attach files."))
		return b.String()
	}
	for _, u := range uploads {
		b.WriteString(m.renderUpload(u))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderIntent(label string, on bool) string {
	styles := m.theme.Styles()
	if on {
		return styles.SuccessText.Render("[x] " + label)
	}
	return styles.FaintText.Render("[ ] " + label)
}

func (m Model) renderUpload(u state.Upload) string {
	styles := m.theme.Styles()
	badge := styles.StatusStyle(string(u.State)).Render(padRight(string(u.State), 10))
	name := styles.Text.Render(padRight(truncate(u.File, 28), 28))
	kind := styles.MutedText.Render(padRight(string(u.Kind), 16))

	var detail string
	switch u.State {
	case media.StateUploading:
		detail = m.bar.ViewAs(u.Fraction())
	case media.StateFailed:
		detail = styles.DangerText.Render(truncate(u.Error, 40))
	case media.StateReady:
		if m.client != nil && u.ID != "" {
			detail = styles.FaintText.Render(m.client.MediaURL(u.ID, u.Ext(), ""))
		}
	default:
		detail = styles.FaintText.Render(u.ID)
	}
	return badge + " " + name + " " + kind + " " + detail
}

func (m Model) renderLogin() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Logo.Render("Sign in") + "\n\n")
	b.WriteString(m.loginInputs[0].View() + "\n")
	b.WriteString(m.loginInputs[1].View() + "\n\n")
	if m.loginErr != "" {
		b.WriteString(styles.DangerText.Render(m.loginErr) + "\n")
	}
	b.WriteString(styles.FaintText.Render("tab to switch fields, enter to submit, ctrl+c to quit"))
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, b.String())
}

func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	full := m.help
	full.ShowAll = true
	body := styles.Logo.Render("Keys") + "\n\n" + full.View(m.keys) + "\n\n" +
		styles.FaintText.Render("theme: "+m.theme.Name+" (press any key to close)")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) renderEmpty(text string) string {
	return m.theme.Styles().MutedText.Render(text)
}

func mediaExt(kind string) string {
	switch kind {
	case "video":
		return "mp4"
	case "audio":
		return "mp3"
	default:
		return "jpg"
	}
}
