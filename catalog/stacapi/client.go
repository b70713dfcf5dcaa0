package stacapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/poiesic/stacpopulator/catalog"
	"github.com/poiesic/stacpopulator/core"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
	maxErrorBody       = 512
)

// Client implements catalog.Client for a STAC API.
type Client struct {
	baseURL     string
	http        *http.Client
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

var _ catalog.Client = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithRetry sets how often transient failures are retried.
// Default is 3 attempts starting with a 500ms delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Client) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = maxAttempts
		c.baseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// New creates a client for the STAC API at stacHost. Requests go through httpClient,
// which nil defaults to http.DefaultClient.
func New(stacHost string, httpClient *http.Client, opts ...Option) (*Client, error) {
	u, err := url.Parse(stacHost)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHost, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHost, stacHost)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &Client{
		baseURL:     strings.TrimRight(u.String(), "/"),
		http:        httpClient,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Close implements catalog.Client. The HTTP client belongs to the caller.
func (c *Client) Close() error {
	return nil
}

// Validate implements catalog.Validator.
func (c *Client) Validate(item *core.Item) error {
	return catalog.ValidateItem(item)
}

// EnsureCollection implements catalog.Client. The collection is posted; a conflict means
// it exists and, when update is set, it is replaced.
func (c *Client) EnsureCollection(ctx context.Context, collection *catalog.Collection, update bool) error {
	body, err := json.Marshal(collection)
	if err != nil {
		return &catalog.PublishError{Op: "collection", CollectionID: collection.ID, Err: err}
	}

	status, respBody, err := c.do(ctx, http.MethodPost, "/collections", body)
	if err != nil {
		return &catalog.PublishError{Op: "collection", CollectionID: collection.ID, Err: err}
	}
	switch {
	case isSuccess(status):
		c.logger.Info("collection created", "collection", collection.ID)
		return nil
	case status != http.StatusConflict:
		return statusError("collection", collection.ID, "", status, respBody)
	case !update:
		c.logger.Info("collection exists, keeping it", "collection", collection.ID)
		return nil
	}

	status, respBody, err = c.do(ctx, http.MethodPut, collectionPath(collection.ID), body)
	if err != nil {
		return &catalog.PublishError{Op: "collection", CollectionID: collection.ID, Err: err}
	}
	if !isSuccess(status) {
		return statusError("collection", collection.ID, "", status, respBody)
	}
	c.logger.Info("collection updated", "collection", collection.ID)
	return nil
}

// ItemExists implements catalog.Client.
func (c *Client) ItemExists(ctx context.Context, collectionID, itemID string) (bool, error) {
	status, respBody, err := c.do(ctx, http.MethodGet, itemPath(collectionID, itemID), nil)
	if err != nil {
		return false, &catalog.PublishError{Op: "lookup", CollectionID: collectionID, ItemID: itemID, Err: err}
	}
	switch {
	case status == http.StatusOK:
		return true, nil
	case status == http.StatusNotFound:
		return false, nil
	default:
		return false, statusError("lookup", collectionID, itemID, status, respBody)
	}
}

// CreateItem implements catalog.Client.
func (c *Client) CreateItem(ctx context.Context, collectionID string, item *core.Item) error {
	body, err := json.Marshal(item)
	if err != nil {
		return &catalog.PublishError{Op: "create", CollectionID: collectionID, ItemID: item.ID, Err: err}
	}
	status, respBody, err := c.do(ctx, http.MethodPost, collectionPath(collectionID)+"/items", body)
	if err != nil {
		return &catalog.PublishError{Op: "create", CollectionID: collectionID, ItemID: item.ID, Err: err}
	}
	if !isSuccess(status) {
		return statusError("create", collectionID, item.ID, status, respBody)
	}
	return nil
}

// ReplaceItem implements catalog.Client.
func (c *Client) ReplaceItem(ctx context.Context, collectionID, itemID string, item *core.Item) error {
	body, err := json.Marshal(item)
	if err != nil {
		return &catalog.PublishError{Op: "replace", CollectionID: collectionID, ItemID: itemID, Err: err}
	}
	status, respBody, err := c.do(ctx, http.MethodPut, itemPath(collectionID, itemID), body)
	if err != nil {
		return &catalog.PublishError{Op: "replace", CollectionID: collectionID, ItemID: itemID, Err: err}
	}
	if !isSuccess(status) {
		return statusError("replace", collectionID, itemID, status, respBody)
	}
	return nil
}

// do sends one request, retrying transient failures. A non-nil error means no usable
// response was received; any received status, including 5xx after the last attempt, is returned.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var (
		status   int
		respBody []byte
	)
	err := RetryWithBackoff(ctx, func() error {
		s, b, err := c.send(ctx, method, path, body)
		if err != nil {
			if ctx.Err() != nil {
				return Permanent(err)
			}
			return err
		}
		status, respBody = s, b
		if s >= http.StatusInternalServerError || s == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %d", errRetryableStatus, s)
		}
		return nil
	}, c.maxAttempts, c.baseDelay, c.logger)

	if errors.Is(err, errRetryableStatus) {
		err = nil
	}
	return status, respBody, err
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.logger.Debug("stac api request", "method", method, "path", path, "status", resp.StatusCode)
	return resp.StatusCode, respBody, nil
}

func collectionPath(collectionID string) string {
	return "/collections/" + url.PathEscape(collectionID)
}

func itemPath(collectionID, itemID string) string {
	return collectionPath(collectionID) + "/items/" + url.PathEscape(itemID)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func statusError(op, collectionID, itemID string, status int, body []byte) error {
	var cause error
	switch status {
	case http.StatusNotFound:
		cause = catalog.ErrNotFound
	case http.StatusConflict:
		cause = catalog.ErrAlreadyExists
	default:
		cause = ErrUnexpectedStatus
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		msg = truncate(msg, maxErrorBody)
		cause = fmt.Errorf("%w: %s", cause, msg)
	}
	return &catalog.PublishError{Op: op, CollectionID: collectionID, ItemID: itemID, StatusCode: status, Err: cause}
}
