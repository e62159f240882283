// Package client is the typed HTTP client used by client surfaces and queryctl.
//
// Reads that fail with a storage error are retried with exponential backoff.
// Writes are never retried: a write that times out or hits a storage error is
// reported as ErrOutcomeUnknown, and the caller must re-fetch before deciding
// to resubmit (resubmitting with the same request id is always safe).
package client

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
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	"querydesk.app/engine/internal/http/dto"
	"querydesk.app/engine/internal/model"
)

var ErrOutcomeUnknown = errors.New("outcome unknown: re-fetch before retrying")

// APIError is a non-2xx response decoded from the uniform error body.
type APIError struct {
	Status  int
	Code    string
	Message string
	Applied *bool
	Outcome string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("querydesk api: %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) retryable() bool {
	return e.Code == dto.CodeStorage || e.Status == http.StatusServiceUnavailable
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	maxTries   uint
	newBackOff func() backoff.BackOff
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry sets the number of attempts for reads and the backoff between them.
func WithRetry(maxTries uint, initial, maxInterval time.Duration) Option {
	return func(c *Client) {
		c.maxTries = maxTries
		c.newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxInterval = maxInterval
			return b
		}
	}
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxTries:   4,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListParams filters and pages the group list. A zero Limit takes the server
// default page size.
type ListParams struct {
	Status string
	Team   string
	AppNo  string
	Limit  int
	Offset int
}

type HistoryParams struct {
	QueryID     string
	Team        string
	AfterSeq    int64
	ActionsOnly bool
}

func (c *Client) CreateGroup(ctx context.Context, req dto.CreateQueryRequest) (dto.QueryGroupResponse, error) {
	var out dto.QueryGroupResponse
	if err := c.write(ctx, http.MethodPost, "/queries", req, &out); err != nil {
		return dto.QueryGroupResponse{}, err
	}
	return out, nil
}

// SubmitAction assigns a request id when the caller did not and returns it, so a
// resubmission after ErrOutcomeUnknown can reuse it.
func (c *Client) SubmitAction(ctx context.Context, req dto.QueryActionRequest) (dto.ActionResponse, string, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	var out dto.ActionResponse
	if err := c.write(ctx, http.MethodPost, "/query-actions", req, &out); err != nil {
		return dto.ActionResponse{}, req.RequestID, err
	}
	return out, req.RequestID, nil
}

func (c *Client) ListGroups(ctx context.Context, p ListParams) ([]dto.QueryGroupResponse, error) {
	q := url.Values{}
	setIf(q, "status", p.Status)
	setIf(q, "team", p.Team)
	setIf(q, "appNo", p.AppNo)
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}

	var out []dto.QueryGroupResponse
	err := c.read(ctx, "/queries", q, &out)
	return out, err
}

func (c *Client) Stats(ctx context.Context, team string) (model.ItemStats, error) {
	q := url.Values{"stats": {"true"}}
	setIf(q, "team", team)

	var out model.ItemStats
	err := c.read(ctx, "/queries", q, &out)
	return out, err
}

func (c *Client) GetItem(ctx context.Context, itemID, team string) (dto.QueryItemResponse, error) {
	q := url.Values{}
	setIf(q, "team", team)

	var out dto.QueryItemResponse
	err := c.read(ctx, "/query-items/"+url.PathEscape(itemID), q, &out)
	return out, err
}

func (c *Client) History(ctx context.Context, p HistoryParams) ([]dto.ThreadEntryResponse, error) {
	q := url.Values{"queryId": {p.QueryID}, "type": {"messages"}}
	if p.ActionsOnly {
		q.Set("type", "actions")
	}
	setIf(q, "team", p.Team)
	if p.AfterSeq > 0 {
		q.Set("afterSeq", strconv.FormatInt(p.AfterSeq, 10))
	}

	var out []dto.ThreadEntryResponse
	err := c.read(ctx, "/query-actions", q, &out)
	return out, err
}

func (c *Client) DailyReport(ctx context.Context, from, to, team string) ([]dto.DailyActionResponse, error) {
	q := url.Values{}
	setIf(q, "from", from)
	setIf(q, "to", to)
	setIf(q, "team", team)

	var out []dto.DailyActionResponse
	err := c.read(ctx, "/reports/daily", q, &out)
	return out, err
}

func (c *Client) SyncIntervals(ctx context.Context) (dto.SyncResponse, error) {
	var out dto.SyncResponse
	err := c.read(ctx, "/sync", nil, &out)
	return out, err
}

func (c *Client) read(ctx context.Context, path string, q url.Values, out any) error {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := c.do(ctx, http.MethodGet, target, nil, out)
		if err == nil {
			return struct{}{}, nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.retryable() {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.DebugContext(ctx, "retrying read", "path", path, "error", err, "next", next)
		}),
	)
	return err
}

func (c *Client) write(ctx context.Context, method, path string, body, out any) error {
	err := c.do(ctx, method, c.baseURL+path, body, out)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Outcome == dto.OutcomeUnknown || apiErr.retryable() {
			return fmt.Errorf("%w: %w", ErrOutcomeUnknown, err)
		}
		return err
	}
	// No response at all: the request may have reached the server.
	return fmt.Errorf("%w: %w", ErrOutcomeUnknown, err)
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var e dto.ErrorResponse
		if jsonErr := json.Unmarshal(raw, &e); jsonErr != nil || e.Code == "" {
			return &APIError{Status: resp.StatusCode, Code: dto.CodeInternal, Message: http.StatusText(resp.StatusCode)}
		}
		return &APIError{
			Status:  resp.StatusCode,
			Code:    e.Code,
			Message: e.Error,
			Applied: e.Applied,
			Outcome: e.Outcome,
		}
	}

	envelope := struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
