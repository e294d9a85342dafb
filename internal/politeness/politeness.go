// Package politeness spaces out requests to the same origin host.
package politeness

import (
	"context"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Config struct {
	Delay  time.Duration
	Jitter time.Duration
}

// Gate - лимитер на хост: случайный джиттер, затем не чаще одного запроса за Delay.
type Gate struct {
	cfg   Config
	mu    sync.Mutex
	hosts map[string]*rate.Limiter
	sleep func(ctx context.Context, d time.Duration) error
	rand  func(n int64) int64
}

func NewGate(cfg Config) *Gate {
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}
	return &Gate{
		cfg:   cfg,
		hosts: make(map[string]*rate.Limiter),
		sleep: Sleep,
		rand:  rand.Int63n,
	}
}

// Wait blocks until a request to rawURL's host is allowed.
func (g *Gate) Wait(ctx context.Context, rawURL string) error {
	if g == nil || (g.cfg.Delay == 0 && g.cfg.Jitter == 0) {
		return ctx.Err()
	}

	// джиттер до токена: старты запросов к одному хосту не ближе Delay
	if err := g.sleep(ctx, Jitter(g.cfg.Jitter, g.rand)); err != nil {
		return err
	}
	return g.limiter(HostOf(rawURL)).Wait(ctx)
}

func (g *Gate) limiter(host string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.hosts[host]
	if !ok {
		limit := rate.Inf
		if g.cfg.Delay > 0 {
			limit = rate.Every(g.cfg.Delay)
		}
		l = rate.NewLimiter(limit, 1)
		g.hosts[host] = l
	}
	return l
}

func (g *Gate) hostCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.hosts)
}

// HostOf returns the lowercase host of rawURL, or rawURL itself if it does not parse.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return strings.ToLower(rawURL)
	}
	return strings.ToLower(u.Hostname())
}

// Jitter returns a uniform duration in [0, limit).
func Jitter(limit time.Duration, randN func(int64) int64) time.Duration {
	if limit <= 0 {
		return 0
	}
	if randN == nil {
		randN = rand.Int63n
	}
	return time.Duration(randN(int64(limit)))
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
