package api

import (
	"context"
	"fmt"
	"strings"
)

// Login exchanges credentials for a session token. The request is sent
// without a bearer credential.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return "", fmt.Errorf("username and password required")
	}
	return c.issueToken(ctx, "/auth/login", creds)
}

// Register creates an account and returns its first session token.
func (c *Client) Register(ctx context.Context, reg Registration) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(reg.Username) == "" || reg.Password == "" {
		return "", fmt.Errorf("username and password required")
	}
	return c.issueToken(ctx, "/auth/register", reg)
}

func (c *Client) issueToken(ctx context.Context, p string, body any) (string, error) {
	var payload TokenResponse
	if err := c.postJSON(ctx, p, body, &payload, true); err != nil {
		return "", err
	}
	token := strings.TrimSpace(payload.Token)
	if token == "" {
		return "", fmt.Errorf("decode response: no token issued")
	}
	return token, nil
}
