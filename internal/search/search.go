// Package search harvests result entries from a web search engine.
package search

import (
	"context"
	"errors"

	"github.com/kitbuilder587/topic-osint/internal/domain"
)

var (
	ErrSearchFailed = errors.New("search request failed")
	ErrBadStatus    = errors.New("unexpected search status")
	ErrEmptyQuery   = errors.New("empty search query")
)

// Client returns at most maxResults hits for query. Only a failure of the
// very first request is an error; later pages end pagination quietly.
type Client interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.SearchHit, error)
}
