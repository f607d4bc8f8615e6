package rostercheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/internal/domain/types"
)

// Client talks to the activities API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Token returns the bearer token set by the last successful Login.
func (c *Client) Token() string { return c.token }

// SetToken overrides the bearer token sent with requests.
func (c *Client) SetToken(token string) { c.token = token }

// response is a decoded API reply.
type response struct {
	status int
	body   []byte
}

func (r response) expect(want int) error {
	if r.status == want {
		return nil
	}
	var e types.ErrorResponse
	_ = json.Unmarshal(r.body, &e)
	return fmt.Errorf("%w: got %d want %d (%s)", ErrUnexpectedStatus, r.status, want, e.Detail)
}

func (r response) decode(v any) error {
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (response, error) {
	var rdr io.Reader = http.NoBody
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return response{}, fmt.Errorf("marshal request body: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return response{}, fmt.Errorf("read response body: %w", err)
	}
	return response{status: resp.StatusCode, body: data}, nil
}

// Health calls GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	return resp.expect(http.StatusOK)
}

// Activities calls GET /activities.
func (c *Client) Activities(ctx context.Context) (model.Catalog, error) {
	resp, err := c.do(ctx, http.MethodGet, "/activities", nil)
	if err != nil {
		return nil, err
	}
	if err := resp.expect(http.StatusOK); err != nil {
		return nil, err
	}
	var out model.Catalog
	if err := resp.decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login calls POST /auth/login and keeps the returned token.
func (c *Client) Login(ctx context.Context, username, password string) error {
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", types.LoginRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	if err := resp.expect(http.StatusOK); err != nil {
		return err
	}
	var out types.LoginResponse
	if err := resp.decode(&out); err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

// Logout calls POST /auth/logout and returns the status code.
func (c *Client) Logout(ctx context.Context) (int, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/logout", nil)
	return resp.status, err
}

// Signup calls POST /activities/{name}/signup and returns the status code.
func (c *Client) Signup(ctx context.Context, activity, email string) (int, error) {
	resp, err := c.do(ctx, http.MethodPost, rosterPath(activity, "signup", email), nil)
	return resp.status, err
}

// Unregister calls DELETE /activities/{name}/unregister and returns the status code.
func (c *Client) Unregister(ctx context.Context, activity, email string) (int, error) {
	resp, err := c.do(ctx, http.MethodDelete, rosterPath(activity, "unregister", email), nil)
	return resp.status, err
}

func rosterPath(activity, action, email string) string {
	return "/activities/" + url.PathEscape(activity) + "/" + action + "?email=" + url.QueryEscape(email)
}
