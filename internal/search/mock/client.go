package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/topic-osint/internal/domain"
)

type Client struct {
	Hits  []domain.SearchHit
	Error error
	Delay time.Duration

	CallCount  int
	LastQuery  string
	LastMax    int
	AllQueries []string

	mu sync.Mutex
}

func New() *Client {
	return &Client{}
}

func (c *Client) WithHits(hits []domain.SearchHit) *Client {
	c.Hits = hits
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchHit, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastQuery = query
	c.LastMax = maxResults
	c.AllQueries = append(c.AllQueries, query)
	delay := c.Delay
	err := c.Error
	hits := c.Hits
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, err
	}

	if maxResults < len(hits) {
		hits = hits[:maxResults]
	}
	out := make([]domain.SearchHit, len(hits))
	copy(out, hits)
	return out, nil
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastQuery = ""
	c.LastMax = 0
	c.AllQueries = nil
}
