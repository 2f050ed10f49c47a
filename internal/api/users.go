package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Self retrieves the user owning the session token.
func (c *Client) Self(ctx context.Context) (*User, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload User
	if err := c.getJSON(ctx, "/users", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// User retrieves a user by username slug.
func (c *Client) User(ctx context.Context, slug string) (*User, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	slug, err := pathSegment("username", slug)
	if err != nil {
		return nil, err
	}
	var payload User
	if err := c.getJSON(ctx, "/users/"+slug, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Follow subscribes the session user to userID.
func (c *Client) Follow(ctx context.Context, userID int64) error {
	return c.userAction(ctx, "/users/follow", userID)
}

// Unfollow removes the session user's subscription to userID.
func (c *Client) Unfollow(ctx context.Context, userID int64) error {
	return c.userAction(ctx, "/users/unfollow", userID)
}

// UpdateSettings changes profile fields of the session user.
func (c *Client) UpdateSettings(ctx context.Context, settings SettingsRequest) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.postJSON(ctx, "/users/settings", settings, nil, false)
}

func (c *Client) userAction(ctx context.Context, p string, userID int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("user id required")
	}
	values := url.Values{}
	values.Set("id", strconv.FormatInt(userID, 10))
	return c.getJSON(ctx, p, values, nil)
}
