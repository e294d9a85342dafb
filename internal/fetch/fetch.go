// Package fetch downloads candidate pages and keeps only HTML responses.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/topic-osint/internal/metrics"
)

const (
	DefaultMaxBodyBytes = 5 << 20
	DefaultTimeout      = 20 * time.Second
)

// исходы для метрик и логов
const (
	OutcomeOK          = "ok"
	OutcomeBadURL      = "bad_url"
	OutcomeTransport   = "transport"
	OutcomeBadStatus   = "bad_status"
	OutcomeContentType = "content_type"
	OutcomeReadBody    = "read_body"
	OutcomeRobots      = "robots"
)

var (
	ErrBadURL      = errors.New("unsupported url")
	ErrBadStatus   = errors.New("non-2xx status")
	ErrContentType = errors.New("not an html document")
	ErrDisallowed  = errors.New("disallowed by robots.txt")
)

// Client fetches a page; ok is false when the page should be treated as absent.
type Client interface {
	Fetch(ctx context.Context, rawURL string) (body string, ok bool)
}

type Config struct {
	UserAgent     string
	Timeout       time.Duration
	MaxBodyBytes  int64
	RespectRobots bool
}

type Fetcher struct {
	cfg     Config
	client  *http.Client
	robots  *RobotsGate
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New builds a Fetcher. robots may be nil; it is consulted only when
// cfg.RespectRobots is set.
func New(cfg Config, robots *RobotsGate, logger *zap.Logger, m *metrics.Metrics) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if !cfg.RespectRobots {
		robots = nil
	}

	return &Fetcher{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		robots:  robots,
		logger:  logger,
		metrics: m,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, bool) {
	start := time.Now()

	body, outcome, err := f.fetch(ctx, rawURL)
	if f.metrics != nil {
		f.metrics.RecordFetch(outcome, time.Since(start))
	}
	if err != nil {
		f.logger.Debug("page absent",
			zap.String("url", rawURL),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		return "", false
	}

	return body, true
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", OutcomeBadURL, fmt.Errorf("%w: %v", ErrBadURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", OutcomeBadURL, fmt.Errorf("%w: %q", ErrBadURL, rawURL)
	}

	if f.robots != nil && !f.robots.Allowed(ctx, u, f.cfg.UserAgent) {
		return "", OutcomeRobots, ErrDisallowed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", OutcomeBadURL, fmt.Errorf("create request: %w", err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", OutcomeTransport, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", OutcomeBadStatus, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	if !isHTML(resp.Header.Get("Content-Type")) {
		return "", OutcomeContentType, fmt.Errorf("%w: %q", ErrContentType, resp.Header.Get("Content-Type"))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes))
	if err != nil {
		return "", OutcomeReadBody, fmt.Errorf("read body: %w", err)
	}

	return string(data), OutcomeOK, nil
}

// isHTML accepts text/html and application/xhtml+xml, parameters ignored.
func isHTML(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
