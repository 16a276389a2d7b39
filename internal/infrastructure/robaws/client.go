// Package robaws is the HTTP adapter for the Robaws CRM API.
package robaws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/integration"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/config"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultRetryDelay      = 500 * time.Millisecond
	defaultMaxResponseSize = 10 << 20
	errorSnippetSize       = 512

	offersPath   = "/api/v2/offers"
	articlesPath = "/api/v2/articles"
	clientsPath  = "/api/v2/clients"
)

// Client calls the Robaws REST API. Reads failing with 429, 5xx or a
// transport error are retried with exponential backoff. Creates are only
// retried on 429: after a 5xx or a lost connection the offer may already
// exist in Robaws.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	username   string
	password   string
	http       *http.Client
	maxRetries int
	retryDelay time.Duration
	maxBody    int64
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient builds a client from configuration. It returns
// integration.ErrRobawsNotConfigured when no base URL or credentials are set.
func NewClient(cfg config.RobawsConfig, opts ...Option) (*Client, error) {
	if !cfg.Configured() {
		return nil, integration.ErrRobawsNotConfigured
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("robaws: invalid base url %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL:  base,
		apiKey:   cfg.APIKey,
		username: cfg.Username,
		password: cfg.Password,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxRetries: max(cfg.MaxRetries, 0),
		retryDelay: cfg.RetryDelay,
		maxBody:    cfg.MaxResponseSize,
		logger:     zap.NewNop(),
	}
	if c.retryDelay <= 0 {
		c.retryDelay = defaultRetryDelay
	}
	if c.maxBody <= 0 {
		c.maxBody = defaultMaxResponseSize
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateOffer posts a new offer
func (c *Client) CreateOffer(ctx context.Context, payload integration.OfferPayload) (*integration.OfferResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("robaws: encode offer: %w", err)
	}
	var out integration.OfferResult
	if err := c.do(ctx, http.MethodPost, offersPath, nil, body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("%w: offer id missing", integration.ErrRobawsInvalidResponse)
	}
	return &out, nil
}

// ListArticles fetches one zero based page of articles
func (c *Client) ListArticles(ctx context.Context, page, size int) (*integration.ArticlePage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(max(page, 0)))
	query.Set("size", strconv.Itoa(size))
	var out integration.ArticlePage
	if err := c.do(ctx, http.MethodGet, articlesPath, query, nil, &out); err != nil {
		return nil, err
	}
	if out.Size == 0 {
		out.Size = size
	}
	out.Page = max(page, 0)
	return &out, nil
}

type clientList struct {
	Items []integration.RobawsClientRecord `json:"items"`
}

// FindClientByEmail returns the first client whose contact email matches
func (c *Client) FindClientByEmail(ctx context.Context, email string) (*integration.RobawsClientRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, integration.ErrRobawsNotFound
	}
	query := url.Values{}
	query.Set("email", email)
	query.Set("size", "1")
	var out clientList
	if err := c.do(ctx, http.MethodGet, clientsPath, query, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, integration.ErrRobawsNotFound
	}
	return &out.Items[0], nil
}

func (c *Client) newBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryDelay
	b.MaxInterval = 30 * c.retryDelay
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)
}

// do sends one logical request with retries and decodes a JSON response into out
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	target := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	attempt := 0
	op := func() error {
		attempt++
		data, err := c.send(ctx, method, target.String(), body)
		if err != nil {
			if retryable(method, err) {
				return err
			}
			return backoff.Permanent(err)
		}
		if out == nil || len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", integration.ErrRobawsInvalidResponse, err))
		}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("robaws request failed, retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(op, c.newBackoff(ctx), notify); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return fmt.Errorf("%w: %w", err, ctxErr)
		}
		return err
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, target string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrRobawsRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", integration.ErrRobawsUnavailable, err)
	}
	defer resp.Body.Close()

	// one byte over the cap tells a truncated body apart from an exact fit
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", integration.ErrRobawsUnavailable, err)
	}
	if int64(len(data)) > c.maxBody {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", integration.ErrRobawsInvalidResponse, c.maxBody)
	}

	if err := statusError(resp.StatusCode, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		return
	}
	req.SetBasicAuth(c.username, c.password)
}

// retryable reports whether a failed request may be sent again. A rejected
// rate limit was never applied; other failures only repeat idempotent methods.
func retryable(method string, err error) bool {
	if !integration.IsRetryable(err) {
		return false
	}
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return errors.Is(err, integration.ErrRobawsRateLimited)
}

func statusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > errorSnippetSize {
		snippet = snippet[:errorSnippetSize]
	}
	var kind error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = integration.ErrRobawsAuthFailed
	case status == http.StatusNotFound:
		kind = integration.ErrRobawsNotFound
	case status == http.StatusTooManyRequests:
		kind = integration.ErrRobawsRateLimited
	case status >= 500:
		kind = integration.ErrRobawsUnavailable
	default:
		kind = integration.ErrRobawsRequestFailed
	}
	if snippet == "" {
		return fmt.Errorf("%w: status %d", kind, status)
	}
	return fmt.Errorf("%w: status %d: %s", kind, status, snippet)
}

var _ integration.RobawsClient = (*Client)(nil)
