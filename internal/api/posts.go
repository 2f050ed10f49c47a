package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Feed retrieves posts from accounts the session user follows.
func (c *Client) Feed(ctx context.Context, page Page) ([]Post, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	page.encode(values)
	var payload []Post
	if err := c.getJSON(ctx, "/posts/feed", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FindPosts retrieves posts matching query. An empty query lists the latest
// posts.
func (c *Client) FindPosts(ctx context.Context, query PostQuery) ([]Post, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	query.Page.encode(values)
	if query.Feed {
		values.Set("feed", "true")
	}
	if username := strings.TrimSpace(query.Username); username != "" {
		values.Set("username", username)
	}
	if query.ID > 0 {
		values.Set("id", strconv.FormatInt(query.ID, 10))
	}
	var payload []Post
	if err := c.getJSON(ctx, "/posts/find", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Comments retrieves the replies to a post.
func (c *Client) Comments(ctx context.Context, username string, postID int64) ([]Post, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if postID <= 0 {
		return nil, fmt.Errorf("post id required")
	}
	values := url.Values{}
	values.Set("id", strconv.FormatInt(postID, 10))
	if username = strings.TrimSpace(username); username != "" {
		values.Set("username", username)
	}
	var payload []Post
	if err := c.getJSON(ctx, "/posts/comments", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreatePost publishes a post, or a comment when CommentPostID is set.
func (c *Client) CreatePost(ctx context.Context, req CreatePostRequest) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("client is nil")
	}
	if req.Message != nil && strings.TrimSpace(*req.Message) == "" {
		req.Message = nil
	}
	if req.Message == nil && len(req.Media) == 0 {
		return 0, fmt.Errorf("post needs a message or media")
	}
	if req.Media == nil {
		req.Media = []string{}
	}
	var payload CreatePostResponse
	if err := c.postJSON(ctx, "/posts/create", req, &payload, false); err != nil {
		return 0, err
	}
	return payload.ID, nil
}

// Like marks a post as liked by the session user.
func (c *Client) Like(ctx context.Context, postID int64) error {
	return c.postAction(ctx, "/posts/like", postID)
}

// Unlike removes the session user's like from a post.
func (c *Client) Unlike(ctx context.Context, postID int64) error {
	return c.postAction(ctx, "/posts/unlike", postID)
}

func (c *Client) postAction(ctx context.Context, p string, postID int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if postID <= 0 {
		return fmt.Errorf("post id required")
	}
	values := url.Values{}
	values.Set("id", strconv.FormatInt(postID, 10))
	return c.getJSON(ctx, p, values, nil)
}

func (p Page) encode(values url.Values) {
	if p.Offset > 0 {
		values.Set("offset", strconv.FormatInt(p.Offset, 10))
	}
	if p.Count > 0 {
		values.Set("count", strconv.FormatInt(p.Count, 10))
	}
}
