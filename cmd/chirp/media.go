package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/five82/chirp/internal/api"
	"github.com/five82/chirp/internal/media"
)

type assetView struct {
	ID    string `json:"id" yaml:"id"`
	File  string `json:"file" yaml:"file"`
	Kind  string `json:"kind" yaml:"kind"`
	State string `json:"state" yaml:"state"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (c *cli) uploadCmd() *cobra.Command {
	var (
		intent  media.Intent
		copyURL bool
	)
	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload media and wait for processing",
		Long: `Upload photos, videos or audio and wait until the server has processed
each file. With --profile-picture or --banner a photo is uploaded in that
role and applied to your profile once ready.

Examples:
  chirp upload holiday.jpg clip.mp4
  chirp upload --profile-picture me.png
  chirp upload --copy screenshot.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assets, err := c.uploadFiles(cmd, args, intent)
			if applyErr := c.applyProfileMedia(cmd.Context(), assets); applyErr != nil {
				err = errors.Join(err, applyErr)
			}
			views := c.assetViews(assets)
			if printErr := c.print(cmd, views, func(w io.Writer) {
				c.writeAssets(w, assets)
			}); printErr != nil {
				return printErr
			}
			if copyURL {
				copyURLs(cmd.ErrOrStderr(), views)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&intent.ProfilePicture, "profile-picture", false, "upload photos as the profile picture")
	cmd.Flags().BoolVar(&intent.Banner, "banner", false, "upload photos as the profile banner")
	cmd.Flags().BoolVar(&copyURL, "copy", false, "copy the URLs of ready media to the clipboard")
	cmd.MarkFlagsMutuallyExclusive("profile-picture", "banner")
	return cmd
}

func (c *cli) publishCmd() *cobra.Command {
	var (
		message   string
		commentOn int64
	)
	cmd := &cobra.Command{
		Use:   "publish [FILE...]",
		Short: "Publish a post with optional media",
		Long: `Publish a post. Attached files are uploaded first; the post is only
created when every file finished processing.

Examples:
  chirp publish --message "hello @ana"
  chirp publish --message "look" sunset.jpg
  chirp publish --comment-on 42 --message "nice"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(message) == "" && len(args) == 0 {
				return errors.New("nothing to publish: pass --message or files")
			}
			req := api.CreatePostRequest{Media: []string{}}
			if strings.TrimSpace(message) != "" {
				req.Message = &message
			}
			if commentOn > 0 {
				req.CommentPostID = &commentOn
			}
			if len(args) > 0 {
				assets, err := c.uploadFiles(cmd, args, media.Intent{})
				if err != nil {
					return fmt.Errorf("media not ready, post not published: %w", err)
				}
				for _, a := range assets {
					if a.State != media.StateReady {
						return fmt.Errorf("media %s %s, post not published", a.File, a.State)
					}
					req.Media = append(req.Media, a.ID)
				}
			}
			id, err := c.env.Client.CreatePost(cmd.Context(), req)
			if err != nil {
				return err
			}
			return c.print(cmd, map[string]int64{"id": id}, func(w io.Writer) {
				fmt.Fprintf(w, "%s published post %d\n", styles.ok.Render("✓"), id)
			})
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "post text")
	cmd.Flags().Int64Var(&commentOn, "comment-on", 0, "publish as a comment on this post id")
	return cmd
}

// uploadFiles opens paths and runs them through the coordinator, reporting
// each transition on stderr.
func (c *cli) uploadFiles(cmd *cobra.Command, paths []string, intent media.Intent) ([]media.Asset, error) {
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

	var mu sync.Mutex
	stderr := cmd.ErrOrStderr()
	report := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(stderr, format+"\n", args...)
	}
	cb := media.Callbacks{
		OnUploadError: func(err error) {
			report("%s %v", styles.fail.Render("upload failed"), err)
		},
		OnProcessingStart: func(a media.Asset) {
			report("processing %s (%s)", a.File, a.ID)
		},
		OnProcessingEnd: func(a media.Asset) {
			if a.State == media.StateReady {
				report("%s %s", styles.ok.Render("ready"), a.File)
				return
			}
			report("%s %s: %s", styles.fail.Render("failed"), a.File, a.Error)
		},
	}

	assets, err := c.env.Coordinator.UploadAll(cmd.Context(), files, intent, cb)
	if err != nil {
		errs = append(errs, err)
	}
	return assets, errors.Join(errs...)
}

// applyProfileMedia points the profile at freshly processed profile pictures
// and banners.
func (c *cli) applyProfileMedia(ctx context.Context, assets []media.Asset) error {
	settings, ok := media.ProfileSettings(assets)
	if !ok {
		return nil
	}
	if err := c.env.Client.UpdateSettings(ctx, settings); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (c *cli) assetViews(assets []media.Asset) []assetView {
	out := make([]assetView, 0, len(assets))
	for _, a := range assets {
		v := assetView{ID: a.ID, File: a.File, Kind: string(a.Kind), State: string(a.State), Error: a.Error}
		if a.State == media.StateReady {
			v.URL = c.env.Client.MediaURL(a.ID, a.Ext(), "")
		}
		out = append(out, v)
	}
	return out
}

// copyURLs puts ready media URLs on the clipboard, one per line. Clipboard
// failures are reported but never fail the upload.
func copyURLs(stderr io.Writer, views []assetView) {
	var urls []string
	for _, v := range views {
		if v.URL != "" {
			urls = append(urls, v.URL)
		}
	}
	if len(urls) == 0 {
		return
	}
	if err := clipboard.WriteAll(strings.Join(urls, "\n")); err != nil {
		fmt.Fprintln(stderr, styles.muted.Render("(clipboard unavailable, copy the URLs above manually)"))
		return
	}
	fmt.Fprintln(stderr, styles.muted.Render("copied "+plural(len(urls), "URL")+" to the clipboard"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
