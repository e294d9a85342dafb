package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordFetch("ok", 10*time.Millisecond)
	m.RecordFetch("ok", 20*time.Millisecond)
	m.RecordFetch("not_html", time.Millisecond)
	m.RecordCandidate("accepted")
	m.RecordSearchRequest("success", time.Second)

	if got := testutil.ToFloat64(m.FetchTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("fetch ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.FetchTotal.WithLabelValues("not_html")); got != 1 {
		t.Errorf("fetch not_html = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CandidatesTotal.WithLabelValues("accepted")); got != 1 {
		t.Errorf("candidates accepted = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SearchRequestsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("search success = %v, want 1", got)
	}
}

func TestMetrics_InFlight(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncRequestsInFlight()
	m.IncRequestsInFlight()
	m.DecRequestsInFlight()

	if got := testutil.ToFloat64(m.RequestsInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	// два экземпляра на разных реестрах не должны паниковать
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
