package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"

	"github.com/kitbuilder587/topic-osint/internal/cache"
)

const (
	DefaultRobotsTTL     = time.Hour
	defaultRobotsTimeout = 10 * time.Second
	maxRobotsBytes       = 512 << 10
)

// RobotsGate checks robots.txt rules, fetched once per origin and kept in a TTL cache.
// An origin whose rules could not be fetched is allowed.
type RobotsGate struct {
	client *http.Client
	cache  cache.Cache[*robotstxt.RobotsData]
	ttl    time.Duration
	logger *zap.Logger
}

func NewRobotsGate(c cache.Cache[*robotstxt.RobotsData], ttl time.Duration, logger *zap.Logger) *RobotsGate {
	if ttl <= 0 {
		ttl = DefaultRobotsTTL
	}
	return &RobotsGate{
		client: &http.Client{Timeout: defaultRobotsTimeout},
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

func (g *RobotsGate) Allowed(ctx context.Context, u *url.URL, userAgent string) bool {
	origin := u.Scheme + "://" + strings.ToLower(u.Host)

	rules, ok := g.cache.Get(origin)
	if !ok {
		rules = g.load(ctx, origin, userAgent)
		g.cache.Set(origin, rules, g.ttl)
	}
	if rules == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return rules.TestAgent(path, userAgent)
}

// load returns nil when the rules are unavailable.
func (g *RobotsGate) load(ctx context.Context, origin, userAgent string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Debug("robots.txt unavailable", zap.String("origin", origin), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return nil
	}

	// 4xx -> всё разрешено, 5xx -> библиотека запрещает всё; нам нужен allow
	if resp.StatusCode >= 500 {
		return nil
	}

	rules, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		g.logger.Debug("robots.txt unparsable", zap.String("origin", origin), zap.Error(err))
		return nil
	}
	return rules
}
