package repository

import (
	"context"
	"sync"

	"github.com/kitbuilder587/topic-osint/internal/domain"
)

type MockRunRepository struct {
	mu   sync.RWMutex
	runs map[string]domain.CrawlRun

	SaveErr       error
	SchemaEnsured bool
}

func NewMockRunRepository() *MockRunRepository {
	return &MockRunRepository{
		runs: make(map[string]domain.CrawlRun),
	}
}

func (m *MockRunRepository) WithSaveError(err error) *MockRunRepository {
	m.SaveErr = err
	return m
}

func (m *MockRunRepository) EnsureSchema(ctx context.Context) error {
	m.mu.Lock()
	m.SchemaEnsured = true
	m.mu.Unlock()
	return nil
}

func (m *MockRunRepository) SaveRun(ctx context.Context, run *domain.CrawlRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	if _, exists := m.runs[run.ID]; exists {
		return ErrDuplicateRun
	}

	stored := *run
	stored.Records = append([]domain.ResultRecord(nil), run.Records...)
	m.runs[run.ID] = stored
	return nil
}

func (m *MockRunRepository) ListRecords(ctx context.Context, runID string) ([]domain.ResultRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, exists := m.runs[runID]
	if !exists {
		return nil, ErrRunNotFound
	}
	return append([]domain.ResultRecord(nil), run.Records...), nil
}

func (m *MockRunRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}
