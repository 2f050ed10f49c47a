package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/five82/chirp/internal/api"
	"github.com/five82/chirp/internal/media"
)

var styles = struct {
	ok, fail, name, muted, accent lipgloss.Style
}{
	ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("#81b29a")).Bold(true),
	fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("#c94f6d")).Bold(true),
	name:   lipgloss.NewStyle().Bold(true),
	muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#738091")),
	accent: lipgloss.NewStyle().Foreground(lipgloss.Color("#719cd6")),
}

func (c *cli) format() string {
	if c.json {
		return "json"
	}
	return strings.ToLower(strings.TrimSpace(c.output))
}

func (c *cli) checkOutput() error {
	switch c.format() {
	case "", "text", "json", "yaml":
		return nil
	}
	return fmt.Errorf("unknown output format %q: want text, json or yaml", c.output)
}

// print writes v in the selected structured format, or calls text for the
// default human output.
func (c *cli) print(cmd *cobra.Command, v any, text func(io.Writer)) error {
	w := cmd.OutOrStdout()
	switch c.format() {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
	default:
		text(w)
	}
	return nil
}

func writeUser(w io.Writer, u *api.User) {
	if u == nil {
		return
	}
	fmt.Fprintf(w, "%s %s  %s\n",
		styles.name.Render(u.DisplayName()),
		styles.muted.Render("@"+u.Username),
		styles.muted.Render(fmt.Sprintf("id %d, %d followers", u.ID, u.Followers)))
	if bio := u.BioText(); bio != "" {
		fmt.Fprintln(w, bio)
	}
}

func (c *cli) writePosts(w io.Writer, posts []api.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, styles.muted.Render("no posts"))
		return
	}
	for _, p := range posts {
		fmt.Fprintf(w, "%s %s %s\n",
			styles.muted.Render(fmt.Sprintf("#%d", p.ID)),
			styles.name.Render(p.User.DisplayName()),
			styles.muted.Render("@"+p.User.Username))
		if text := strings.TrimSpace(p.Text()); text != "" {
			fmt.Fprintf(w, "  %s\n", text)
		}
		for _, m := range p.Media {
			id, kind := m.ID()
			if id == "" {
				continue
			}
			ext := media.Asset{Kind: media.Kind(kind)}.Ext()
			fmt.Fprintf(w, "  %s %s\n", kind, styles.accent.Render(c.env.Client.MediaURL(id, ext, "")))
		}
		liked := ""
		if p.Liked {
			liked = ", liked"
		}
		fmt.Fprintf(w, "  %s\n", styles.muted.Render(fmt.Sprintf("%d likes, %d comments%s", p.LikeCount, p.CommentCount, liked)))
	}
}

func (c *cli) writeAssets(w io.Writer, assets []media.Asset) {
	for _, v := range c.assetViews(assets) {
		status := styles.ok.Render(v.State)
		detail := v.URL
		if v.State != string(media.StateReady) {
			status = styles.fail.Render(v.State)
			detail = v.Error
		}
		fmt.Fprintf(w, "%s %s %s %s\n", status, v.File, styles.muted.Render(v.Kind), detail)
	}
}
