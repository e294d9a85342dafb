package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsInFlight prometheus.Gauge

	SearchRequestsTotal   *prometheus.CounterVec
	SearchRequestDuration *prometheus.HistogramVec

	FetchTotal    *prometheus.CounterVec
	FetchDuration prometheus.Histogram

	CandidatesTotal *prometheus.CounterVec

	CrawlDuration *prometheus.HistogramVec
	CrawlRecords  prometheus.Histogram

	RateLimitHitsTotal *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// binaries and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	m := &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_requests_total",
				Help: "Total number of bot requests processed",
			},
			[]string{"type", "status"},
		),
		RequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "osint_requests_in_flight",
				Help: "Number of crawls currently running",
			},
		),

		SearchRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_search_requests_total",
				Help: "Total number of search engine page requests",
			},
			[]string{"status"},
		),
		SearchRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "osint_search_request_duration_seconds",
				Help:    "Search page request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{},
		),

		FetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_fetch_total",
				Help: "Page fetches by outcome",
			},
			[]string{"outcome"},
		),
		FetchDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "osint_fetch_duration_seconds",
				Help:    "Page fetch duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
			},
		),

		CandidatesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_candidates_total",
				Help: "Search hits by terminal pipeline state",
			},
			[]string{"outcome"},
		),

		CrawlDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "osint_crawl_duration_seconds",
				Help:    "Whole crawl duration in seconds",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"status"},
		),
		CrawlRecords: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "osint_crawl_records",
				Help:    "Records returned per crawl after dedup",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),

		RateLimitHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_rate_limit_hits_total",
				Help: "Total number of rate limit hits",
			},
			[]string{"user_id"},
		),
	}

	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordRequest(reqType, status string) {
	m.RequestsTotal.WithLabelValues(reqType, status).Inc()
}

func (m *Metrics) RecordSearchRequest(status string, duration time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(status).Inc()
	m.SearchRequestDuration.WithLabelValues().Observe(duration.Seconds())
}

func (m *Metrics) RecordFetch(outcome string, duration time.Duration) {
	m.FetchTotal.WithLabelValues(outcome).Inc()
	m.FetchDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordCandidate(outcome string) {
	m.CandidatesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordCrawl(status string, records int, duration time.Duration) {
	m.CrawlDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.CrawlRecords.Observe(float64(records))
}

func (m *Metrics) RecordRateLimitHit(userID string) {
	m.RateLimitHitsTotal.WithLabelValues(userID).Inc()
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
