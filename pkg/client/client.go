// Package client talks to the admin API of a running portfolio server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"video-portfolio/pkg/catalog"
	"video-portfolio/pkg/models"
)

// ErrSessionExpired is returned when the server rejects the stored token. The token has
// already been cleared when this is returned.
var ErrSessionExpired = errors.New("session expired, please log in again")

var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status     int
	Message    string
	Details    []string
	RetryAfter string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s", e.Status, e.Message)
	if len(e.Details) > 0 {
		msg += ": " + strings.Join(e.Details, "; ")
	}
	if e.RetryAfter != "" {
		msg += " (retry after " + e.RetryAfter + "s)"
	}
	return msg
}

type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Details []string       `json:"details"`
	Updated int            `json:"updated"`
	Token   string         `json:"token"`
	User    *models.Admin  `json:"user"`
	Users   []models.Admin `json:"users"`
	Video   *models.Video  `json:"video"`
	Videos  []models.Video `json:"videos"`
}

type Client struct {
	base   string
	http   *http.Client
	tokens TokenStore
}

func New(baseURL string, tokens TokenStore) *Client {
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: 15 * time.Second},
		tokens: tokens,
	}
}

func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, authed bool) (*envelope, error) {
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request")
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+"/api"+path, rdr)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	token := ""
	if authed {
		token, err = c.tokens.Load()
		if err != nil {
			return nil, errors.Wrap(err, "load token")
		}
		if token == "" {
			return nil, ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && resp.StatusCode < 300 {
		return nil, errors.Wrap(err, "decode response")
	}

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		if err := c.tokens.Clear(); err != nil {
			return nil, errors.Wrap(err, "clear token")
		}
		return nil, ErrSessionExpired
	}
	if resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &env, &APIError{
			Status:     resp.StatusCode,
			Message:    msg,
			Details:    env.Details,
			RetryAfter: resp.Header.Get("Retry-After"),
		}
	}
	return &env, nil
}

// Login stores the returned token for the following calls.
func (c *Client) Login(ctx context.Context, username, password string) (*models.Admin, error) {
	env, err := c.do(ctx, http.MethodPost, "/admin/login", map[string]string{"username": username, "password": password}, false)
	if err != nil {
		return nil, err
	}
	if err := c.tokens.Save(env.Token); err != nil {
		return nil, errors.Wrap(err, "save token")
	}
	return env.User, nil
}

func (c *Client) Logout() error {
	return c.tokens.Clear()
}

func (c *Client) Profile(ctx context.Context) (*models.Admin, error) {
	env, err := c.do(ctx, http.MethodGet, "/admin/profile", nil, true)
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

// PublicVideos reads the unauthenticated listing.
func (c *Client) PublicVideos(ctx context.Context) ([]models.PublicVideo, error) {
	env, err := c.do(ctx, http.MethodGet, "/videos", nil, false)
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicVideo, 0, len(env.Videos))
	for _, v := range env.Videos {
		out = append(out, v.Public())
	}
	return out, nil
}

func (c *Client) Videos(ctx context.Context) ([]models.Video, error) {
	env, err := c.do(ctx, http.MethodGet, "/admin/videos", nil, true)
	if err != nil {
		return nil, err
	}
	return env.Videos, nil
}

func (c *Client) AddVideo(ctx context.Context, in catalog.NewVideo) (*models.Video, error) {
	env, err := c.do(ctx, http.MethodPost, "/admin/videos", in, true)
	if err != nil {
		return nil, err
	}
	return env.Video, nil
}

func (c *Client) UpdateVideo(ctx context.Context, id string, patch models.VideoPatch) (*models.Video, error) {
	env, err := c.do(ctx, http.MethodPut, "/admin/videos/"+url.PathEscape(id), patch, true)
	if err != nil {
		return nil, err
	}
	return env.Video, nil
}

func (c *Client) DeleteVideo(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/admin/videos/"+url.PathEscape(id), nil, true)
	return err
}

// Reorder returns how many rows the server changed. On a partial failure the count is
// returned together with the *APIError carrying the details.
func (c *Client) Reorder(ctx context.Context, ids []string) (int, error) {
	env, err := c.do(ctx, http.MethodPut, "/admin/videos/reorder", map[string][]string{"videoIds": ids}, true)
	if env == nil {
		return 0, err
	}
	return env.Updated, err
}

func (c *Client) Users(ctx context.Context) ([]models.Admin, error) {
	env, err := c.do(ctx, http.MethodGet, "/admin/users", nil, true)
	if err != nil {
		return nil, err
	}
	return env.Users, nil
}

func (c *Client) CreateUser(ctx context.Context, username, password string) (*models.Admin, error) {
	env, err := c.do(ctx, http.MethodPost, "/admin/users", map[string]string{"username": username, "password": password}, true)
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, true)
	return err
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	_, err := c.do(ctx, http.MethodPut, "/admin/change-password", map[string]string{"currentPassword": current, "newPassword": next}, true)
	return err
}
