package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/temoto/robotstxt"
	"go.uber.org/zap"

	"github.com/kitbuilder587/topic-osint/internal/cache/memory"
	"github.com/kitbuilder587/topic-osint/internal/metrics"
)

const testPage = `<html><head><title>t</title></head><body><p>hello</p></body></html>`

func TestFetch_Gate(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		wantOK      bool
	}{
		{"html", 200, "text/html; charset=utf-8", true},
		{"xhtml", 200, "application/xhtml+xml", true},
		{"html uppercase", 200, "Text/HTML", true},
		{"pdf rejected", 200, "application/pdf", false},
		{"json rejected", 200, "application/json", false},
		{"no content type", 200, "", false},
		{"not found", 404, "text/html", false},
		{"server error", 503, "text/html", false},
		{"no content", 204, "text/html", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				} else {
					w.Header()["Content-Type"] = nil
				}
				w.WriteHeader(tt.status)
				if tt.status != http.StatusNoContent {
					fmt.Fprint(w, testPage)
				}
			}))
			defer srv.Close()

			f := New(Config{UserAgent: "ua"}, nil, zap.NewNop(), nil)
			body, ok := f.Fetch(context.Background(), srv.URL+"/page")

			if ok != tt.wantOK {
				t.Fatalf("Fetch() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok && body != "" {
				t.Errorf("absent page returned body %q", body)
			}
		})
	}
}

func TestFetch_SendsUserAgentAndFollowsRedirects(t *testing.T) {
	var ua atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.UserAgent())
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, testPage)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := New(Config{UserAgent: "osint-test/1.0"}, nil, zap.NewNop(), nil)
	body, ok := f.Fetch(context.Background(), srv.URL+"/old")
	if !ok {
		t.Fatal("Fetch() ok = false after redirect")
	}
	if !strings.Contains(body, "hello") {
		t.Errorf("body = %q", body)
	}
	if got, _ := ua.Load().(string); got != "osint-test/1.0" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestFetch_BodyCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, strings.Repeat("a", 4096))
	}))
	defer srv.Close()

	f := New(Config{MaxBodyBytes: 100}, nil, zap.NewNop(), nil)
	body, ok := f.Fetch(context.Background(), srv.URL)
	if !ok {
		t.Fatal("Fetch() ok = false")
	}
	if len(body) != 100 {
		t.Errorf("len(body) = %d, want 100", len(body))
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	f := New(Config{Timeout: 50 * time.Millisecond}, nil, zap.NewNop(), nil)
	if _, ok := f.Fetch(context.Background(), srv.URL); ok {
		t.Error("Fetch() ok = true on timeout")
	}
}

func TestFetch_BadURLs(t *testing.T) {
	f := New(Config{}, nil, zap.NewNop(), nil)

	for _, raw := range []string{"", "::not a url", "ftp://example.com/file", "mailto:a@b.c", "/relative/path"} {
		if _, ok := f.Fetch(context.Background(), raw); ok {
			t.Errorf("Fetch(%q) ok = true", raw)
		}
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, testPage)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(Config{}, nil, zap.NewNop(), nil)
	if _, ok := f.Fetch(ctx, srv.URL); ok {
		t.Error("Fetch() ok = true with cancelled context")
	}
}

func TestFetch_Metrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/doc.pdf" {
			w.Header().Set("Content-Type", "application/pdf")
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, testPage)
	}))
	defer srv.Close()

	m := metrics.New(prometheus.NewRegistry())
	f := New(Config{}, nil, zap.NewNop(), m)

	f.Fetch(context.Background(), srv.URL+"/a")
	f.Fetch(context.Background(), srv.URL+"/b")
	f.Fetch(context.Background(), srv.URL+"/doc.pdf")

	if got := testutil.ToFloat64(m.FetchTotal.WithLabelValues(OutcomeOK)); got != 2 {
		t.Errorf("ok fetches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.FetchTotal.WithLabelValues(OutcomeContentType)); got != 1 {
		t.Errorf("content_type fetches = %v, want 1", got)
	}
}

func TestFetch_Robots(t *testing.T) {
	var robotsHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		robotsHits.Add(1)
		fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, testPage)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := memory.New[*robotstxt.RobotsData]()
	defer store.Stop()
	gate := NewRobotsGate(store, time.Hour, zap.NewNop())

	f := New(Config{UserAgent: "osint", RespectRobots: true}, gate, zap.NewNop(), nil)

	if _, ok := f.Fetch(context.Background(), srv.URL+"/public/page"); !ok {
		t.Error("public page should be allowed")
	}
	if _, ok := f.Fetch(context.Background(), srv.URL+"/private/report"); ok {
		t.Error("private page should be disallowed")
	}
	if got := robotsHits.Load(); got != 1 {
		t.Errorf("robots.txt fetched %d times, want 1", got)
	}

	off := New(Config{UserAgent: "osint"}, gate, zap.NewNop(), nil)
	if _, ok := off.Fetch(context.Background(), srv.URL+"/private/report"); !ok {
		t.Error("robots gate must be ignored when RespectRobots is off")
	}
}

func TestRobotsGate_UnavailableAllows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, testPage)
	}))
	defer srv.Close()

	store := memory.New[*robotstxt.RobotsData]()
	defer store.Stop()

	f := New(Config{RespectRobots: true}, NewRobotsGate(store, 0, zap.NewNop()), zap.NewNop(), nil)
	if _, ok := f.Fetch(context.Background(), srv.URL+"/anything"); !ok {
		t.Error("failed robots.txt fetch should allow")
	}
}

func TestIsHTML(t *testing.T) {
	tests := map[string]bool{
		"text/html":                 true,
		"text/html; charset=UTF-8":  true,
		"application/xhtml+xml":     true,
		"text/plain":                false,
		"application/pdf":           false,
		"":                          false,
		"text/html;;bad=":           true,
	}
	for ct, want := range tests {
		if got := isHTML(ct); got != want {
			t.Errorf("isHTML(%q) = %v, want %v", ct, got, want)
		}
	}
}
