// Package apiclient talks to the remote records API. Every call issues exactly
// one HTTP request; failures are logged and returned, never retried.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/office-admin/internal/metrics"
	"github.com/nurpe/office-admin/internal/model"
)

const maxErrorBody = 512

type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     zerolog.Logger
	metrics *metrics.Collector
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each call. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func New(baseURL string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		log:     log.With().Str("component", "apiclient").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type call struct {
	resource model.Resource
	op       model.Operation
	method   string
	id       model.ID
	body     any
	out      any
}

func (c *Client) endpoint(res model.Resource, id model.ID) string {
	u := c.baseURL + "/" + res.Name
	if id != "" {
		u += "/" + url.PathEscape(id.String())
	}
	return u
}

// do runs one request and reports whether a response body was decoded into out.
func (c *Client) do(ctx context.Context, cl call) (bool, error) {
	action := cl.op.String()
	if !cl.resource.Supports(cl.op) {
		return false, fmt.Errorf("%w: %s %s", ErrUnsupported, cl.resource.Name, action)
	}

	began := time.Now()
	decoded, status, err := c.roundTrip(ctx, cl)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		err = &NetworkError{Resource: cl.resource.Name, Action: action, StatusCode: status, Err: err}
		c.log.Error().
			Err(err).
			Str("resource", cl.resource.Name).
			Str("action", action).
			Str("id", cl.id.String()).
			Int("status", status).
			Msg("api call failed")
	}
	c.metrics.ObserveAPICall(cl.resource.Name, action, outcome, time.Since(began))
	return decoded, err
}

func (c *Client) roundTrip(ctx context.Context, cl call) (bool, int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return false, 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.endpoint(cl.resource, cl.id), body)
	if err != nil {
		return false, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(snippet))
		if msg == "" {
			msg = "network response was not ok"
		}
		return false, resp.StatusCode, errors.New(msg)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if cl.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return false, resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return false, resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return true, resp.StatusCode, nil
}
