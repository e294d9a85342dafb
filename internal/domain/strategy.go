package domain

import "time"

type StrategyType string

const (
	StrategyQuick    StrategyType = "quick"
	StrategyStandard StrategyType = "standard"
	StrategyDeep     StrategyType = "deep"
)

func (s StrategyType) IsValid() bool {
	switch s {
	case StrategyQuick, StrategyStandard, StrategyDeep:
		return true
	}
	return false
}

func (s StrategyType) String() string { return string(s) }

// Strategy - глубина обхода: сколько хитов брать, сколько воркеров, общий дедлайн.
type Strategy struct {
	Type           StrategyType
	MaxResults     int
	Workers        int
	TimeoutSeconds int
}

// FIXME: магические числа, вынести в константы?
func (s Strategy) Validate() error {
	if !s.Type.IsValid() {
		return ErrInvalidStrategyType
	}
	if s.MaxResults < 1 || s.MaxResults > 100 {
		return ErrInvalidStrategyMax
	}
	if s.Workers < 1 || s.Workers > 16 {
		return ErrInvalidWorkers
	}
	if s.TimeoutSeconds < 1 {
		return ErrInvalidTimeoutSeconds
	}
	return nil
}

func (s Strategy) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Предустановленные стратегии

func QuickStrategy() Strategy {
	return Strategy{
		Type:           StrategyQuick,
		MaxResults:     10,
		Workers:        2,
		TimeoutSeconds: 90,
	}
}

func StandardStrategy() Strategy {
	return Strategy{
		Type:           StrategyStandard,
		MaxResults:     25,
		Workers:        4,
		TimeoutSeconds: 240,
	}
}

func DeepStrategy() Strategy {
	return Strategy{
		Type:           StrategyDeep,
		MaxResults:     50,
		Workers:        4,
		TimeoutSeconds: 480,
	}
}

func StrategyByType(t StrategyType) (Strategy, bool) {
	switch t {
	case StrategyQuick:
		return QuickStrategy(), true
	case StrategyStandard:
		return StandardStrategy(), true
	case StrategyDeep:
		return DeepStrategy(), true
	}
	return Strategy{}, false
}
