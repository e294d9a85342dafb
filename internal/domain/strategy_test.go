package domain

import (
	"testing"
	"time"
)

func TestStrategyType_IsValid(t *testing.T) {
	tests := []struct {
		name         string
		strategyType StrategyType
		want         bool
	}{
		{
			name:         "quick is valid",
			strategyType: "quick",
			want:         true,
		},
		{
			name:         "standard is valid",
			strategyType: "standard",
			want:         true,
		},
		{
			name:         "deep is valid",
			strategyType: "deep",
			want:         true,
		},
		{
			name:         "empty is invalid",
			strategyType: "",
			want:         false,
		},
		{
			name:         "ultra is invalid",
			strategyType: "ultra",
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.strategyType.IsValid(); got != tt.want {
				t.Errorf("StrategyType.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrategy_Validate(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		wantErr  error
	}{
		{"quick preset", QuickStrategy(), nil},
		{"standard preset", StandardStrategy(), nil},
		{"deep preset", DeepStrategy(), nil},
		{"bad type", Strategy{Type: "ultra", MaxResults: 5, Workers: 1, TimeoutSeconds: 10}, ErrInvalidStrategyType},
		{"zero results", Strategy{Type: StrategyQuick, MaxResults: 0, Workers: 1, TimeoutSeconds: 10}, ErrInvalidStrategyMax},
		{"too many results", Strategy{Type: StrategyQuick, MaxResults: 101, Workers: 1, TimeoutSeconds: 10}, ErrInvalidStrategyMax},
		{"zero workers", Strategy{Type: StrategyQuick, MaxResults: 5, Workers: 0, TimeoutSeconds: 10}, ErrInvalidWorkers},
		{"too many workers", Strategy{Type: StrategyQuick, MaxResults: 5, Workers: 17, TimeoutSeconds: 10}, ErrInvalidWorkers},
		{"zero timeout", Strategy{Type: StrategyQuick, MaxResults: 5, Workers: 1, TimeoutSeconds: 0}, ErrInvalidTimeoutSeconds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.strategy.Validate(); err != tt.wantErr {
				t.Errorf("Strategy.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStrategyByType(t *testing.T) {
	s, ok := StrategyByType(StrategyDeep)
	if !ok || s.MaxResults != 50 {
		t.Errorf("StrategyByType(deep) = %+v, %v", s, ok)
	}
	if s.Timeout() != 480*time.Second {
		t.Errorf("Timeout() = %v, want 8m", s.Timeout())
	}

	if _, ok := StrategyByType("nope"); ok {
		t.Error("StrategyByType(nope) should not be ok")
	}
}

func TestResultRecord_CSVRow(t *testing.T) {
	r := ResultRecord{
		Title:       "T",
		URL:         "https://x.example",
		Source:      "x.example",
		Score:       2.5,
		PubDate:     "2024-03-05",
		YearsFound:  []int{2023, 2024},
		CountryHits: []string{"britain", "uk"},
		Snippet:     "s",
	}

	row := r.CSVRow()
	if len(row) != len(CSVHeader()) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(CSVHeader()))
	}
	if row[3] != "2.50" || row[5] != "2023;2024" || row[6] != "britain;uk" {
		t.Errorf("CSVRow() = %v", row)
	}
}
