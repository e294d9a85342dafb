package service

import (
	"context"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/topic-osint/internal/domain"
	"github.com/kitbuilder587/topic-osint/internal/extract"
	"github.com/kitbuilder587/topic-osint/internal/fetch"
	"github.com/kitbuilder587/topic-osint/internal/metrics"
	"github.com/kitbuilder587/topic-osint/internal/politeness"
	"github.com/kitbuilder587/topic-osint/internal/scoring"
	"github.com/kitbuilder587/topic-osint/internal/search"
	"github.com/kitbuilder587/topic-osint/internal/signals"
)

// терминальные состояния кандидата
const (
	OutcomeAccepted     = "accepted"
	OutcomeFetch        = "fetch"
	OutcomeShortText    = "short_text"
	OutcomeLowScore     = "low_score"
	OutcomeDuplicateURL = "duplicate_url"
	OutcomeCancelled    = "cancelled"
)

const DefaultLeadChars = 400

type Analyzer interface {
	Analyze(text, country string) domain.PageSignals
}

type Scorer interface {
	Breakdown(text string, topicTerms []string, years domain.YearFilter, country string) scoring.Breakdown
}

// HostGate spaces out requests to one host.
type HostGate interface {
	Wait(ctx context.Context, rawURL string) error
}

type CrawlService interface {
	Crawl(ctx context.Context, q *domain.CrawlQuery) (*domain.CrawlRun, error)
	CrawlWithOptions(ctx context.Context, q *domain.CrawlQuery, opts CrawlOptions) (*domain.CrawlRun, error)
}

// CrawlOptions переопределяют CrawlConfig на один прогон; нулевые поля не трогают конфиг.
type CrawlOptions struct {
	Workers int
	Timeout time.Duration
}

// StrategyOptions maps a depth preset onto per-run options.
func StrategyOptions(s domain.Strategy) CrawlOptions {
	return CrawlOptions{Workers: s.Workers, Timeout: s.Timeout()}
}

type CrawlConfig struct {
	Workers   int
	LeadChars int
	// Timeout ограничивает весь прогон; 0 - без ограничения.
	Timeout time.Duration
}

type CrawlServiceDeps struct {
	Search    search.Client
	Fetcher   fetch.Client
	Extractor extract.Extractor
	Analyzer  Analyzer
	Scorer    Scorer
	Gate      HostGate
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Config    CrawlConfig
}

type crawlService struct {
	search    search.Client
	fetcher   fetch.Client
	extractor extract.Extractor
	analyzer  Analyzer
	scorer    Scorer
	gate      HostGate
	logger    *zap.Logger
	metrics   *metrics.Metrics
	config    CrawlConfig
	now       func() time.Time
}

func NewCrawlService(deps CrawlServiceDeps) CrawlService {
	if deps.Config.Workers <= 0 {
		deps.Config.Workers = 1
	}
	if deps.Config.LeadChars <= 0 {
		deps.Config.LeadChars = DefaultLeadChars
	}
	if deps.Extractor == nil {
		deps.Extractor = extract.New()
	}

	countries := signals.NewCountryMatcher(nil)
	if deps.Analyzer == nil {
		deps.Analyzer = signals.NewAnalyzer(nil, countries)
	}
	if deps.Scorer == nil {
		deps.Scorer = scoring.New(countries)
	}
	if deps.Gate == nil {
		deps.Gate = politeness.NewGate(politeness.Config{})
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &crawlService{
		search:    deps.Search,
		fetcher:   deps.Fetcher,
		extractor: deps.Extractor,
		analyzer:  deps.Analyzer,
		scorer:    deps.Scorer,
		gate:      deps.Gate,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		config:    deps.Config,
		now:       time.Now,
	}
}

// filters - то, что выводится из запроса один раз на прогон.
type filters struct {
	terms   []string
	years   domain.YearFilter
	country string
}

func (s *crawlService) Crawl(ctx context.Context, q *domain.CrawlQuery) (*domain.CrawlRun, error) {
	return s.CrawlWithOptions(ctx, q, CrawlOptions{})
}

func (s *crawlService) CrawlWithOptions(ctx context.Context, q *domain.CrawlQuery, opts CrawlOptions) (*domain.CrawlRun, error) {
	startTime := s.now()

	workers := s.config.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}
	timeout := s.config.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	if s.metrics != nil {
		s.metrics.IncRequestsInFlight()
		defer s.metrics.DecRequestsInFlight()
	}

	if err := q.Validate(); err != nil {
		if s.metrics != nil {
			s.metrics.RecordRequest("crawl", "validation_error")
		}
		return nil, err
	}
	q.Sanitize()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	f := filters{
		terms:   q.TopicTerms(),
		years:   q.YearFilter(),
		country: q.CountryFilter(),
	}
	searchString := q.SearchString()

	s.logger.Info("crawl started",
		zap.String("query", searchString),
		zap.String("years", f.years.String()),
		zap.String("country", q.Country),
		zap.Int("max_results", q.MaxResults),
		zap.Int("workers", workers),
	)

	hits, err := s.search.Search(ctx, searchString, q.MaxResults)
	if err != nil {
		s.logger.Error("search failed", zap.String("query", searchString), zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordRequest("crawl", "search_error")
			s.metrics.RecordCrawl("search_error", 0, time.Since(startTime))
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}

	accepted := s.process(ctx, hits, f, workers)
	records := domain.Dedup(accepted)

	run := &domain.CrawlRun{
		ID:         uuid.NewString(),
		Query:      *q,
		StartedAt:  startTime,
		FinishedAt: s.now(),
		Records:    records,
	}

	status := "ok"
	if ctx.Err() != nil {
		status = "partial"
	}
	if s.metrics != nil {
		s.metrics.RecordRequest("crawl", status)
		s.metrics.RecordCrawl(status, len(records), time.Since(startTime))
	}

	s.logger.Info("crawl finished",
		zap.String("run_id", run.ID),
		zap.String("status", status),
		zap.Int("hits", len(hits)),
		zap.Int("accepted", len(accepted)),
		zap.Int("records", len(records)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return run, nil
}

// process runs candidates through the bounded pool and returns accepted
// records in arrival order.
func (s *crawlService) process(ctx context.Context, hits []domain.SearchHit, f filters, workers int) []domain.ResultRecord {
	slots := make([]*domain.ResultRecord, len(hits))
	seen := make(map[string]bool, len(hits))

	var g errgroup.Group
	g.SetLimit(workers)

	for i, hit := range hits {
		if ctx.Err() != nil {
			s.logger.Debug("crawl cancelled, no new candidates", zap.Int("dispatched", i))
			break
		}

		key := URLKey(hit.URL)
		if seen[key] {
			s.finish(hit, OutcomeDuplicateURL, nil)
			continue
		}
		seen[key] = true

		hit, i := hit, i
		g.Go(func() error {
			rec, outcome, b := s.candidate(ctx, hit, f)
			s.finish(hit, outcome, b)
			slots[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	accepted := make([]domain.ResultRecord, 0, len(hits))
	for _, rec := range slots {
		if rec != nil {
			accepted = append(accepted, *rec)
		}
	}
	return accepted
}

func (s *crawlService) candidate(ctx context.Context, hit domain.SearchHit, f filters) (*domain.ResultRecord, string, *scoring.Breakdown) {
	if err := s.gate.Wait(ctx, hit.URL); err != nil {
		return nil, OutcomeCancelled, nil
	}

	body, ok := s.fetcher.Fetch(ctx, hit.URL)
	if !ok {
		if ctx.Err() != nil {
			return nil, OutcomeCancelled, nil
		}
		return nil, OutcomeFetch, nil
	}

	text := s.extractor.Extract(body)
	if utf8.RuneCountInString(text) < domain.MinTextLength {
		return nil, OutcomeShortText, nil
	}

	b := s.scorer.Breakdown(text, f.terms, f.years, f.country)
	score := b.Total()
	if score < domain.MinScore {
		return nil, OutcomeLowScore, &b
	}

	sig := s.analyzer.Analyze(text, f.country)

	rec := &domain.ResultRecord{
		Title:       hit.Title,
		URL:         hit.URL,
		Source:      SourceOf(hit.URL),
		Score:       round2(score),
		YearsFound:  nonNilInts(sig.YearsFound),
		CountryHits: nonNilStrings(sig.CountryHits),
		Snippet:     hit.Snippet,
	}
	if sig.PublishedDate != nil {
		rec.PubDate = sig.PublishedDate.Format(time.DateOnly)
	}
	if rec.Snippet == "" {
		rec.Snippet = extract.Lead(text, s.config.LeadChars)
	}

	return rec, OutcomeAccepted, &b
}

func (s *crawlService) finish(hit domain.SearchHit, outcome string, b *scoring.Breakdown) {
	if s.metrics != nil {
		s.metrics.RecordCandidate(outcome)
	}

	fields := []zap.Field{
		zap.String("url", hit.URL),
		zap.String("outcome", outcome),
	}
	if b != nil {
		fields = append(fields,
			zap.Float64("score", b.Total()),
			zap.Float64("terms", b.Terms),
			zap.Float64("years", b.Years),
			zap.Float64("country", b.Country),
			zap.Float64("length", b.Length),
		)
	}
	s.logger.Debug("candidate resolved", fields...)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
