// Package app wires the crawl pipeline from configuration for both binaries.
package app

import (
	"context"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"

	"github.com/kitbuilder587/topic-osint/internal/cache/memory"
	"github.com/kitbuilder587/topic-osint/internal/config"
	"github.com/kitbuilder587/topic-osint/internal/extract"
	"github.com/kitbuilder587/topic-osint/internal/fetch"
	"github.com/kitbuilder587/topic-osint/internal/metrics"
	"github.com/kitbuilder587/topic-osint/internal/politeness"
	"github.com/kitbuilder587/topic-osint/internal/repository"
	"github.com/kitbuilder587/topic-osint/internal/repository/postgres"
	"github.com/kitbuilder587/topic-osint/internal/scoring"
	"github.com/kitbuilder587/topic-osint/internal/search/duckduckgo"
	"github.com/kitbuilder587/topic-osint/internal/service"
	"github.com/kitbuilder587/topic-osint/internal/signals"
)

type Crawler struct {
	Service service.CrawlService

	robots *memory.Cache[*robotstxt.RobotsData]
}

// NewCrawler builds DuckDuckGo search, fetch with an optional robots gate,
// per-host politeness and the default signal/scoring stack.
func NewCrawler(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *Crawler {
	searcher := duckduckgo.New(duckduckgo.Config{
		Endpoint:   cfg.Search.Endpoint,
		UserAgent:  cfg.Search.UserAgent,
		Timeout:    cfg.Search.Timeout,
		PageStride: cfg.Search.PageStride,
		PageDelay:  cfg.Search.PageDelay,
		PageJitter: cfg.Search.PageJitter,
	}, logger, m)

	c := &Crawler{}

	var robots *fetch.RobotsGate
	if cfg.Fetch.RespectRobots {
		c.robots = memory.New[*robotstxt.RobotsData]()
		robots = fetch.NewRobotsGate(c.robots, cfg.Fetch.RobotsTTL, logger)
	}

	fetcher := fetch.New(fetch.Config{
		UserAgent:     cfg.Search.UserAgent,
		Timeout:       cfg.Fetch.Timeout,
		MaxBodyBytes:  cfg.Fetch.MaxBodyBytes,
		RespectRobots: cfg.Fetch.RespectRobots,
	}, robots, logger, m)

	countries := signals.NewCountryMatcher(nil)

	c.Service = service.NewCrawlService(service.CrawlServiceDeps{
		Search:    searcher,
		Fetcher:   fetcher,
		Extractor: extract.New(),
		Analyzer:  signals.NewAnalyzer(signals.NewLatestDateGuesser(), countries),
		Scorer:    scoring.New(countries),
		Gate: politeness.NewGate(politeness.Config{
			Delay:  cfg.Crawl.HostDelay,
			Jitter: cfg.Crawl.HostJitter,
		}),
		Logger:  logger,
		Metrics: m,
		Config: service.CrawlConfig{
			Workers: cfg.Crawl.Workers,
			Timeout: cfg.Crawl.Timeout,
		},
	})

	return c
}

func (c *Crawler) Close() {
	if c.robots != nil {
		c.robots.Stop()
	}
}

// OpenRuns connects to Postgres and makes sure the run tables exist.
// The returned close func is never nil.
func OpenRuns(ctx context.Context, databaseURL string) (repository.RunRepository, func(), error) {
	db, err := postgres.New(ctx, databaseURL)
	if err != nil {
		return nil, func() {}, err
	}

	repo := postgres.NewRunRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, func() {}, err
	}
	return repo, db.Close, nil
}
