package repository

import (
	"context"
	"errors"

	"github.com/kitbuilder587/topic-osint/internal/domain"
)

var (
	ErrRunNotFound  = errors.New("crawl run not found")
	ErrDuplicateRun = errors.New("crawl run already stored")
)

// RunRepository - хранилище завершенных прогонов (экспорт, не кеш).
type RunRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveRun(ctx context.Context, run *domain.CrawlRun) error
	ListRecords(ctx context.Context, runID string) ([]domain.ResultRecord, error)
}
