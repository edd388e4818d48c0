// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package adminclient is a Go client for the admin article API.

It implements editor.Backend, so an editor session can save through a
running server:

	client := adminclient.New("http://localhost:8080")
	token, err := client.Login(ctx, password)
	session := editor.NewSession(client, editor.StaticToken(token), editor.SessionOptions{})

Failure envelopes are decoded back into *apperr.AppError, so callers can
branch with apperr.HasCode exactly as server code does.
*/
package adminclient

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

	"github.com/jpillora/backoff"

	"github.com/taibuivan/confkb/internal/article"
	"github.com/taibuivan/confkb/internal/platform/apperr"
	"github.com/taibuivan/confkb/internal/platform/constants"
)

const (
	// DefaultTimeout bounds one HTTP exchange.
	DefaultTimeout = 15 * time.Second

	// DefaultRetries is how many times an idempotent request is retried.
	DefaultRetries = 3
)

// # Client

// Client talks to one API server.
type Client struct {
	baseURL string
	http    *http.Client
	retries int
	backoff backoff.Backoff
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

// WithRetries sets the retry budget of idempotent requests. 0 disables retries.
func WithRetries(n int, minDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.backoff = backoff.Backoff{Min: minDelay, Max: maxDelay, Factor: 2, Jitter: true}
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		retries: DefaultRetries,
		backoff: backoff.Backoff{Min: 200 * time.Millisecond, Max: 5 * time.Second, Factor: 2, Jitter: true},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// # Endpoints

// Login exchanges the admin password for a bearer token.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// ListArticles returns every article, optionally filtered by publish state.
func (c *Client) ListArticles(ctx context.Context, token string, published *bool) ([]*article.Article, error) {
	path := "/api/admin/articles"
	if published != nil {
		path += "?published=" + strconv.FormatBool(*published)
	}

	var out []*article.Article
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetArticle fetches one article by id.
func (c *Client) GetArticle(ctx context.Context, token string, id int64) (*article.Article, error) {
	var out article.Article
	if err := c.do(ctx, http.MethodGet, articlePath(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateArticle stores a new article and returns its id. Never retried.
func (c *Client) CreateArticle(ctx context.Context, token string, a *article.Article) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/articles", token, a, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// UpdateArticle applies a partial update and returns the stored article.
func (c *Client) UpdateArticle(ctx context.Context, token string, id int64, patch article.Patch) (*article.Article, error) {
	var out article.Article
	if err := c.do(ctx, http.MethodPatch, articlePath(id), token, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetPublished sets the publish flag.
func (c *Client) SetPublished(ctx context.Context, token string, id int64, published bool) (*article.Article, error) {
	var out article.Article
	body := map[string]bool{"published": published}
	if err := c.do(ctx, http.MethodPost, articlePath(id)+"/publish", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteArticle removes an article.
func (c *Client) DeleteArticle(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, articlePath(id), token, nil, nil)
}

func articlePath(id int64) string {
	return "/api/admin/articles/" + strconv.FormatInt(id, 10)
}

// # Transport

// envelope mirrors respond.Envelope on the client side.
type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details"`
}

/*
do performs one API call and decodes the data field into out.

Description: GET, PATCH and DELETE are retried with exponential backoff on
transport errors and 502/503/504. POST is sent once.
*/
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("adminclient: encode %s %s: %w", method, path, err)
		}
	}

	attempts := 1
	if method != http.MethodPost {
		attempts += c.retries
	}
	retry := c.backoff

	for attempt := 1; ; attempt++ {
		err := c.once(ctx, method, path, token, payload, out)
		if err == nil || attempt >= attempts || !retryable(err) {
			return err
		}

		timer := time.NewTimer(retry.Duration())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) once(ctx context.Context, method, path, token string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("adminclient: build %s %s: %w", method, path, err)
	}
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}

	response, err := c.http.Do(request)
	if err != nil {
		return &transportError{err: err}
	}
	defer response.Body.Close()

	var env envelope
	if err := json.NewDecoder(response.Body).Decode(&env); err != nil {
		if response.StatusCode >= 300 {
			return statusError(response.StatusCode, http.StatusText(response.StatusCode))
		}
		return fmt.Errorf("adminclient: decode %s %s: %w", method, path, err)
	}

	if response.StatusCode >= 300 || !env.Success {
		appError := statusError(response.StatusCode, env.Message)
		if env.Code != "" {
			appError.Code = env.Code
		}
		appError.Details = env.Details
		return appError
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("adminclient: decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// # Errors

type transportError struct{ err error }

func (e *transportError) Error() string { return "adminclient: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func statusError(status int, message string) *apperr.AppError {
	return &apperr.AppError{
		Code:       "HTTP_" + strconv.Itoa(status),
		Message:    message,
		HTTPStatus: status,
	}
}

func retryable(err error) bool {
	var transport *transportError
	if errors.As(err, &transport) {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if appError := apperr.As(err); appError != nil {
		switch appError.HTTPStatus {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}
