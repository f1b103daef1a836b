// Package webclient wraps an HTTP client with the politeness settings the
// stat sites expect: a rate limiter, a real User-Agent, and retries on
// transient failures. Both scrapers share one client so the rate limit is
// global across sources.
package webclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Options configures a Client. Zero values are not usable; callers build
// Options from the loaded config.
type Options struct {
	UserAgent string
	RPS       float64 // sustained request rate, tokens per second
	Burst     int
	Timeout   time.Duration
}

// Client is a rate-limited HTML fetcher.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	log     *logrus.Entry
}

// New builds a Client from opts.
func New(opts Options, log *logrus.Entry) *Client {
	hc := resty.New()
	hc.SetHeader("user-agent", opts.UserAgent)
	hc.SetTimeout(opts.Timeout)
	hc.SetRetryCount(2)
	hc.SetRetryWaitTime(2 * time.Second)

	return &Client{
		http:    hc,
		limiter: rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst),
		log:     log,
	}
}

// GetHTML fetches url and returns the response body. It blocks on the rate
// limiter first, so a burst of calls spreads out to the configured rate.
func (c *Client) GetHTML(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("get %s: status %d", url, resp.StatusCode())
	}

	c.log.WithFields(logrus.Fields{
		"url":      url,
		"bytes":    len(resp.Body()),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("fetched page")

	return resp.Body(), nil
}
