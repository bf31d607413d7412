// Package feed retrieves news RSS documents and parses them into candidate
// items. Retrieval uses a Colly collector with a fixed per-request timeout;
// parsing uses gofeed.
package feed

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/mmcdole/gofeed"

	"github.com/parkerlabs/radar/internal/radar"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Client implements radar.FeedSource using a Colly collector and a gofeed
// parser. Failures are returned to the caller, which logs and continues; a
// failed fetch never aborts the run.
type Client struct {
	cfg           Config
	clock         radar.Clock
	parser        *gofeed.Parser
	baseCollector *colly.Collector
}

// New builds a Client.
func New(cfg Config, clock radar.Clock) *Client {
	c := colly.NewCollector(colly.Async(false))
	c.WithTransport(newHTTPTransport())
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Client{
		cfg:           cfg,
		clock:         clock,
		parser:        gofeed.NewParser(),
		baseCollector: c,
	}
}

// FetchItems retrieves one feed URL and parses it. Items with missing or
// unparseable publish dates default to the current time.
func (c *Client) FetchItems(ctx context.Context, rawURL string) (radar.FeedResult, error) {
	body, err := c.fetch(ctx, rawURL)
	if err != nil {
		return radar.FeedResult{}, err
	}

	parsed, err := c.parser.ParseString(string(body))
	if err != nil {
		return radar.FeedResult{}, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]radar.CandidateItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		published := c.clock.Now()
		if it.PublishedParsed != nil {
			published = it.PublishedParsed.UTC()
		}
		items = append(items, radar.CandidateItem{
			Title:     it.Title,
			Link:      it.Link,
			Published: published,
		})
	}
	return radar.FeedResult{Raw: body, Items: items}, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	collector := c.baseCollector.Clone()
	if c.cfg.UserAgent != "" {
		collector.UserAgent = c.cfg.UserAgent
	}
	collector.IgnoreRobotsTxt = true
	collector.SetRequestTimeout(c.cfg.Timeout)

	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(rawURL)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("feed fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("feed visit failed: %w", err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("feed response failed: %w", fetchErr)
		}
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("feed response empty")
	}
	return body, nil
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
