package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kitbuilder587/topic-osint/internal/domain"
	"github.com/kitbuilder587/topic-osint/internal/search"
)

func TestMockClient_Search(t *testing.T) {
	hits := []domain.SearchHit{
		{Title: "Test 1", URL: "https://example.com/1", Snippet: "Snippet 1"},
		{Title: "Test 2", URL: "https://example.com/2", Snippet: "Snippet 2"},
		{Title: "Test 3", URL: "https://example.com/3"},
	}

	client := New().WithHits(hits)

	got, err := client.Search(context.Background(), "test", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(got) != 2 {
		t.Errorf("Search() got %d hits, want 2", len(got))
	}
	if client.LastQuery != "test" || client.LastMax != 2 {
		t.Errorf("recorded query = %q/%d", client.LastQuery, client.LastMax)
	}
}

func TestMockClient_Error(t *testing.T) {
	client := New().WithError(search.ErrSearchFailed)

	_, err := client.Search(context.Background(), "test", 10)
	if !errors.Is(err, search.ErrSearchFailed) {
		t.Errorf("Search() error = %v, want ErrSearchFailed", err)
	}
}

func TestMockClient_ContextCancellation(t *testing.T) {
	client := New().
		WithHits([]domain.SearchHit{{Title: "Test", URL: "https://example.com"}}).
		WithDelay(1 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, "test", 10)
	if err != context.DeadlineExceeded {
		t.Errorf("Search() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestMockClient_Reset(t *testing.T) {
	client := New()
	client.Search(context.Background(), "a", 1)
	client.Search(context.Background(), "b", 1)

	if client.CallCount != 2 {
		t.Fatalf("CallCount = %d, want 2", client.CallCount)
	}

	client.Reset()
	if client.CallCount != 0 || client.AllQueries != nil {
		t.Errorf("Reset() did not clear state")
	}
}
