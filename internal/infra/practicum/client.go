// Package practicum talks to the homework status API.
package practicum

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/infra/logger"
)

// maxBodySize caps how much of an answer is read; real answers are a few kilobytes.
const maxBodySize = 1 << 20

var _ homework.StatusClient = (*Client)(nil)

// Client wraps the homework status endpoint.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient constructs a client for the given endpoint and OAuth token.
func NewClient(endpoint, token string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   strings.TrimSpace(endpoint),
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetHTTPClient sets the HTTP client for testing.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// FetchStatuses requests statuses changed since fromDate (Unix seconds).
func (c *Client) FetchStatuses(ctx context.Context, fromDate int64) (*homework.StatusResponse, error) {
	params := map[string]string{"from_date": strconv.FormatInt(fromDate, 10)}
	info := homework.RequestInfo{
		Endpoint: c.endpoint,
		Headers:  map[string]string{"Authorization": "OAuth " + logger.Redact(c.token)},
		Params:   params,
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", c.endpoint, err)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &homework.TransportError{Request: info, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &homework.TransportError{Request: info, Err: fmt.Errorf("read body: %w", err)}
	}
	result, err := decodeResponse(resp.StatusCode, body, info)
	if err != nil {
		var malformed *homework.MalformedResponseError
		var missing *homework.MissingFieldError
		if errors.As(err, &malformed) || errors.As(err, &missing) {
			return nil, fmt.Errorf("%w; %s", err, info)
		}
		return nil, err
	}
	return result, nil
}
