package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ssshpaklevka/deliv-ad/internal/session"
)

var (
	// ErrNotAuthenticated is returned when a 401 cannot be recovered because
	// the session has no refresh token.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired is returned when the refresh call itself failed and
	// the session record has been deleted.
	ErrSessionExpired = errors.New("session expired")
)

// Client is the authenticated pipeline to the delivery API. Every request
// carries the session's bearer token; a 401 triggers exactly one
// refresh-and-retry before the error is surfaced.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions session.Store
}

func NewClient(baseURL string, timeout time.Duration, sessions session.Store) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		sessions: sessions,
	}
}

// do sends one request. The retried marker is local to this call: two
// concurrent requests that both hit a 401 will both call /auth/refresh, and
// the second refresh can invalidate the token pair the first one just
// stored. That behavior is kept on purpose.
func (c *Client) do(ctx context.Context, sess *session.Record, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = data
	}

	send := func(token string) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return c.http.Do(req)
	}

	var token string
	if sess != nil {
		token = sess.AccessToken
	}

	resp, err := send(token)
	if err != nil {
		requestsTotal.WithLabelValues(method, "transport_error").Inc()
		return fmt.Errorf("upstream request: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && sess != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		newToken, err := c.refreshSession(ctx, sess)
		if err != nil {
			requestsTotal.WithLabelValues(method, strconv.Itoa(http.StatusUnauthorized)).Inc()
			return err
		}
		resp, err = send(newToken)
		if err != nil {
			requestsTotal.WithLabelValues(method, "transport_error").Inc()
			return fmt.Errorf("upstream request: %w", err)
		}
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		requestsTotal.WithLabelValues(method, "transport_error").Inc()
		return fmt.Errorf("read upstream response: %w", err)
	}
	requestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		return parseAPIError(resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode upstream response: %w", err)
		}
	}
	return nil
}

// refreshSession exchanges the refresh token for a new pair, persists it
// (one store write) and returns the new access token. Any failure deletes
// the whole session record.
func (c *Client) refreshSession(ctx context.Context, sess *session.Record) (string, error) {
	if sess.RefreshToken == "" {
		refreshTotal.WithLabelValues("missing_token").Inc()
		_ = c.sessions.Delete(ctx, sess.ID)
		return "", ErrNotAuthenticated
	}

	refreshed, err := c.Refresh(ctx, sess.RefreshToken, sess.DeviceID)
	if err != nil {
		refreshTotal.WithLabelValues("failure").Inc()
		_ = c.sessions.Delete(ctx, sess.ID)
		return "", fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	sess.AccessToken = refreshed.AccessToken
	sess.RefreshToken = refreshed.RefreshToken
	if err := c.sessions.Save(ctx, sess); err != nil {
		refreshTotal.WithLabelValues("failure").Inc()
		return "", err
	}
	refreshTotal.WithLabelValues("success").Inc()
	return refreshed.AccessToken, nil
}
