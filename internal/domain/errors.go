package domain

import "errors"

var (
	ErrEmptyTopic        = errors.New("empty topic")
	ErrTopicTooLong      = errors.New("topic too long")
	ErrInvalidMaxResults = errors.New("max results must be positive")
	ErrSearchFailed      = errors.New("search failed")
	ErrNoRecords         = errors.New("no records found")
)

var (
	ErrInvalidStrategyType   = errors.New("invalid strategy type")
	ErrInvalidStrategyMax    = errors.New("max results must be between 1 and 100")
	ErrInvalidWorkers        = errors.New("workers must be between 1 and 16")
	ErrInvalidTimeoutSeconds = errors.New("timeout seconds must be at least 1")
)
