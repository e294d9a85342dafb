// Package duckduckgo implements search.Client on top of the keyless
// DuckDuckGo HTML endpoint.
package duckduckgo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/kitbuilder587/topic-osint/internal/domain"
	"github.com/kitbuilder587/topic-osint/internal/metrics"
	"github.com/kitbuilder587/topic-osint/internal/politeness"
	"github.com/kitbuilder587/topic-osint/internal/search"
)

const (
	DefaultEndpoint   = "https://html.duckduckgo.com/html/"
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0 Safari/537.36"
	DefaultPageStride = 30
)

type Config struct {
	Endpoint   string
	UserAgent  string
	Timeout    time.Duration
	PageStride int
	PageDelay  time.Duration
	PageJitter time.Duration
}

type Client struct {
	cfg     Config
	client  *http.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
	sleep   func(ctx context.Context, d time.Duration) error
}

func New(cfg Config, logger *zap.Logger, m *metrics.Metrics) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.PageStride <= 0 {
		cfg.PageStride = DefaultPageStride
	}

	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
		metrics: m,
		sleep:   politeness.Sleep,
	}
}

func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, search.ErrEmptyQuery
	}
	if maxResults <= 0 {
		return []domain.SearchHit{}, nil
	}

	doc, err := c.fetchPage(ctx, query, -1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrSearchFailed, err)
	}

	h := newHarvest(maxResults)
	h.add(parseResults(doc))

	offset, ok := nextOffset(doc)
	if !ok {
		c.logger.Debug("no pagination control, single page",
			zap.Int("hits", len(h.hits)),
		)
		return h.hits, nil
	}

	for !h.full() {
		offset += c.cfg.PageStride

		delay := c.cfg.PageDelay + politeness.Jitter(c.cfg.PageJitter, nil)
		if err := c.sleep(ctx, delay); err != nil {
			c.logger.Debug("pagination cancelled", zap.Error(err))
			break
		}

		doc, err := c.fetchPage(ctx, query, offset)
		if err != nil {
			c.logger.Warn("pagination stopped",
				zap.Int("offset", offset),
				zap.Error(err),
			)
			break
		}

		if added := h.add(parseResults(doc)); added == 0 {
			c.logger.Debug("page yielded no new hits", zap.Int("offset", offset))
			break
		}
	}

	c.logger.Debug("search finished",
		zap.String("query", query),
		zap.Int("hits", len(h.hits)),
	)

	return h.hits, nil
}

// fetchPage posts the form; offset < 0 means the first page.
func (c *Client) fetchPage(ctx context.Context, query string, offset int) (*goquery.Document, error) {
	form := url.Values{"q": {query}}
	if offset >= 0 {
		form.Set("s", strconv.Itoa(offset))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.record("error", start)
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		c.record("bad_status", start)
		return nil, fmt.Errorf("%w: %d", search.ErrBadStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		c.record("error", start)
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.record("success", start)
	return doc, nil
}

func (c *Client) record(status string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordSearchRequest(status, time.Since(start))
	}
}

type harvest struct {
	max  int
	hits []domain.SearchHit
	seen map[string]bool
}

func newHarvest(max int) *harvest {
	return &harvest{
		max:  max,
		hits: make([]domain.SearchHit, 0, max),
		seen: make(map[string]bool),
	}
}

func (h *harvest) full() bool {
	return len(h.hits) >= h.max
}

// add appends hits not seen before and returns how many were new.
func (h *harvest) add(hits []domain.SearchHit) int {
	added := 0
	for _, hit := range hits {
		if h.full() {
			break
		}
		if h.seen[hit.URL] {
			continue
		}
		h.seen[hit.URL] = true
		h.hits = append(h.hits, hit)
		added++
	}
	return added
}
