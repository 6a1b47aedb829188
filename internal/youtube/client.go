// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package youtube is a minimal YouTube Data API v3 client for the "most popular" chart.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	xglog "github.com/ManuGH/trendscope/internal/log"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// DefaultBaseURL is the public Data API v3 endpoint.
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"
	// MaxResultsLimit is the largest page the videos.list endpoint serves.
	MaxResultsLimit = 50

	defaultTimeout         = 30 * time.Second
	defaultDialTimeout     = 5 * time.Second
	defaultIdleConnTimeout = 30 * time.Second
	maxErrorBody           = 8 << 10
)

// DefaultParts is the fixed field set the fetcher requests.
var DefaultParts = []string{"snippet", "statistics", "contentDetails"}

// Query selects one page of the mostPopular chart.
type Query struct {
	Region     string
	MaxResults int
	Parts      []string
}

type Client struct {
	base   string
	key    string
	http   *http.Client
	logger zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the overall per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func New(base, apiKey string, opts ...Option) *Client {
	if strings.TrimSpace(base) == "" {
		base = DefaultBaseURL
	}
	c := &Client{
		base: strings.TrimRight(base, "/"),
		key:  apiKey,
		http: newHTTPClient(defaultTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = xglog.Derive(func(zc *zerolog.Context) {
		*zc = zc.Str(xglog.FieldComponent, "youtube").Str(xglog.FieldBaseURL, c.base)
	})
	return c
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          4,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultDialTimeout,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout: timeout,
		Transport: otelhttp.NewTransport(transport,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return "youtube.videos.list"
			}),
		),
	}
}

// ClampMaxResults bounds n to the range the endpoint accepts.
func ClampMaxResults(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxResultsLimit {
		return MaxResultsLimit
	}
	return n
}

// MostPopular issues a single videos.list request for the trending chart of q.Region.
// No pagination and no retry: one call, one page.
func (c *Client) MostPopular(ctx context.Context, q Query) (*VideoListResponse, error) {
	const op = "videos.list"

	parts := q.Parts
	if len(parts) == 0 {
		parts = DefaultParts
	}
	params := url.Values{}
	params.Set("part", strings.Join(parts, ","))
	params.Set("chart", "mostPopular")
	if q.Region != "" {
		params.Set("regionCode", strings.ToUpper(q.Region))
	}
	params.Set("maxResults", strconv.Itoa(ClampMaxResults(q.MaxResults)))
	if c.key != "" {
		params.Set("key", c.key)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/videos?"+params.Encode(), nil)
	if err != nil {
		return nil, &APIError{Sentinel: ErrBadRequest, Operation: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(op, err)
	}
	defer func() { _ = res.Body.Close() }()

	logger := xglog.WithContext(ctx, c.logger)
	if res.StatusCode < 200 || res.StatusCode > 299 {
		logger.Debug().Int("status", res.StatusCode).Str(xglog.FieldRegion, q.Region).Msg("videos.list rejected")
		return nil, statusError(op, res)
	}

	var out VideoListResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		if isTimeout(err) {
			return nil, &APIError{Sentinel: ErrTimeout, Operation: op, Err: err}
		}
		return nil, &APIError{Sentinel: ErrBadResponse, Operation: op, Status: res.StatusCode, Err: err}
	}
	logger.Debug().Str(xglog.FieldRegion, q.Region).Int(xglog.FieldVideos, len(out.Items)).Msg("videos.list answered")
	return &out, nil
}

func statusError(op string, res *http.Response) error {
	apiErr := &APIError{
		Sentinel:  sentinelForStatus(res.StatusCode),
		Operation: op,
		Status:    res.StatusCode,
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
		if len(envelope.Error.Errors) > 0 {
			apiErr.Reason = envelope.Error.Errors[0].Reason
		}
	} else if s := strings.TrimSpace(string(body)); s != "" {
		apiErr.Message = s
	}
	return apiErr
}

func classifyTransportError(op string, err error) error {
	if isTimeout(err) {
		return &APIError{Sentinel: ErrTimeout, Operation: op, Err: err}
	}
	return &APIError{Sentinel: ErrUnavailable, Operation: op, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
