// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/sheetwatch/sheetwatch/internal/failure"
	"github.com/sheetwatch/sheetwatch/internal/log"
	"github.com/sheetwatch/sheetwatch/internal/version"
)

const (
	// DefaultTimeout bounds the whole request including the body read.
	DefaultTimeout = 60 * time.Second
	// DefaultMaxBytes caps the accepted payload size.
	DefaultMaxBytes int64 = 128 << 20
)

// Client downloads the current report from a fixed URL.
type Client struct {
	url       string
	http      *http.Client
	timeout   time.Duration
	maxBytes  int64
	userAgent string
}

// Option customizes a Client.
type Option func(*Client)

// New returns a Client for url. Without options it uses a cleanhttp client,
// DefaultTimeout and DefaultMaxBytes.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:       url,
		timeout:   DefaultTimeout,
		maxBytes:  DefaultMaxBytes,
		userAgent: version.UserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = cleanhttp.DefaultClient()
	}
	if c.timeout > 0 {
		c.http.Timeout = c.timeout
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the request timeout. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxBytes sets the payload cap. Zero or negative keeps the default.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// URL returns the source URL.
func (c *Client) URL() string {
	return c.url
}

// Fetch performs a single GET and returns the response body. There is no
// retry; any failure is returned wrapped in failure.ErrTransport, and timeouts
// additionally wrap failure.ErrTimeout.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	if c.url == "" {
		return nil, fmt.Errorf("%w: no source URL configured", failure.ErrConfig)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid source URL %q: %w", failure.ErrConfig, c.url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	log.Debugf("fetching %s (timeout %s)", c.url, c.timeout)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classify(c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: GET %s: unexpected status %s", failure.ErrTransport, c.url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, classify(c.url, err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("%w: GET %s: body exceeds %s", failure.ErrTransport, c.url, humanize.IBytes(uint64(c.maxBytes)))
	}

	log.Infof("fetched %s from %s in %s", humanize.Bytes(uint64(len(data))), c.url, time.Since(start).Round(time.Millisecond))
	return data, nil
}

// classify wraps a request error with the transport sentinel, adding the
// timeout sentinel when the deadline was hit.
func classify(url string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w: GET %s: %w", failure.ErrTransport, failure.ErrTimeout, url, err)
	}
	return fmt.Errorf("%w: GET %s: %w", failure.ErrTransport, url, err)
}
