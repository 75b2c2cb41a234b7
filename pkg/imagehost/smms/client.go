// Package smms stores screenshots on the SM.MS image hosting service so the
// model endpoint can fetch them by URL.
package smms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/fpt/deskpilot/pkg/agent/domain"
)

const DefaultBaseURL = "https://sm.ms/api/v2/"

// ErrNotLoggedIn is returned by Upload and Delete before a token was obtained.
var ErrNotLoggedIn = errors.New("sm.ms: no API token, call Login first")

// Client implements domain.ImageHost against the SM.MS v2 API.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

var _ domain.ImageHost = (*Client)(nil)

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/") + "/"
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithToken skips Login when an API token is already known.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func NewClient(username, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the common response wrapper of every SM.MS endpoint
type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	// Images is set instead of Data when the same file was uploaded before
	Images string `json:"images"`
}

// Login exchanges username and password for an API token.
func (c *Client) Login(ctx context.Context) error {
	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"token", strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "failed to build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	env, err := c.do(req)
	if err != nil {
		return errors.Wrap(err, "sm.ms token request failed")
	}
	if !env.Success {
		return fmt.Errorf("sm.ms token request rejected: %s", env.Message)
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		return fmt.Errorf("sm.ms token response has no token")
	}

	c.mu.Lock()
	c.token = data.Token
	c.mu.Unlock()
	return nil
}

// Upload posts the screenshot as the "smfile" form field.
func (c *Client) Upload(ctx context.Context, shot domain.Screenshot) (domain.Upload, error) {
	token := c.currentToken()
	if token == "" {
		return domain.Upload{}, ErrNotLoggedIn
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("smfile", fmt.Sprintf("screenshot-%d.png", time.Now().UnixNano()))
	if err != nil {
		return domain.Upload{}, errors.Wrap(err, "failed to build upload form")
	}
	if _, err := part.Write(shot.Data); err != nil {
		return domain.Upload{}, errors.Wrap(err, "failed to build upload form")
	}
	_ = mw.WriteField("format", "json")
	if err := mw.Close(); err != nil {
		return domain.Upload{}, errors.Wrap(err, "failed to build upload form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"upload", &body)
	if err != nil {
		return domain.Upload{}, errors.Wrap(err, "failed to build upload request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", token)

	env, err := c.do(req)
	if err != nil {
		return domain.Upload{}, errors.Wrap(err, "sm.ms upload failed")
	}
	if !env.Success {
		return domain.Upload{}, fmt.Errorf("sm.ms upload rejected: %s", env.Message)
	}

	var data struct {
		URL  string `json:"url"`
		Hash string `json:"hash"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.URL == "" {
		return domain.Upload{}, fmt.Errorf("sm.ms upload response has no url")
	}
	return domain.Upload{URL: data.URL, Handle: data.Hash}, nil
}

// Delete removes an upload by its hash.
func (c *Client) Delete(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}
	token := c.currentToken()
	if token == "" {
		return ErrNotLoggedIn
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"delete/"+url.PathEscape(handle), nil)
	if err != nil {
		return errors.Wrap(err, "failed to build delete request")
	}
	req.Header.Set("Authorization", token)

	env, err := c.do(req)
	if err != nil {
		return errors.Wrapf(err, "sm.ms delete of %s failed", handle)
	}
	if !env.Success {
		return fmt.Errorf("sm.ms delete of %s rejected: %s", handle, env.Message)
	}
	return nil
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) do(req *http.Request) (envelope, error) {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return envelope{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return envelope{}, errors.Wrap(err, "failed to read response body")
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, fmt.Errorf("unexpected response (HTTP %d): %s", resp.StatusCode, truncate(string(raw), 200))
	}
	return env, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
