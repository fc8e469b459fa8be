package api

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

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"laborctl/internal/models"
	"laborctl/internal/session"
)

const loginPath = "/api/auth/admin/login"

// Client talks to the marketplace REST backend with the admin's token.
type Client struct {
	httpclient *http.Client
	base       string
	session    *session.Session
}

// New builds a client for the backend at baseURL. The session is read on
// every request, so a login performed through the same client takes effect
// immediately.
func New(baseURL string, timeout time.Duration, sess *session.Session) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", baseURL, err)
	}
	if sess == nil {
		sess, _ = session.Load("")
	}
	return &Client{
		httpclient: &http.Client{Timeout: timeout},
		base:       strings.TrimSuffix(baseURL, "/"),
		session:    sess,
	}, nil
}

// Session exposes the session the client authenticates with.
func (c *Client) Session() *session.Session { return c.session }

// build URL with path segments, escaping each one
func (c *Client) apipath(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return "/api/" + strings.Join(escaped, "/")
}

// do sends one request and decodes the response into out (which may be nil).
// Bodies wrapped as {"data": ...} are unwrapped first.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpclient.Do(req)
	if err != nil {
		log.WithFields(log.Fields{"method": method, "path": path, "request_id": reqID}).
			Debugf("request failed: %v", err)
		return &Error{Message: "Network error: could not reach the server", Err: err}
	}
	defer resp.Body.Close()

	log.WithFields(log.Fields{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"request_id": reqID,
		"elapsed":    time.Since(started).Round(time.Millisecond),
	}).Debug("api request")

	if resp.StatusCode == http.StatusUnauthorized {
		return c.unauthorized(resp, path)
	}
	return decodeResponse(resp, out)
}

// unauthorized handles a 401. Outside of login it means the token is no
// longer valid, so the session is expired and subscribers are told.
func (c *Client) unauthorized(resp *http.Response, path string) error {
	body, _ := io.ReadAll(resp.Body)
	if path == loginPath {
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    firstMessage(body, "Invalid email or password"),
			Err:        models.ErrInvalidCredentials,
		}
	}
	if err := c.session.Expire(); err != nil {
		log.Warnf("failed to clear expired session: %v", err)
	}
	return &Error{
		StatusCode: resp.StatusCode,
		Message:    "Session expired",
		Err:        models.ErrSessionExpired,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
