package domain

import (
	"reflect"
	"testing"
)

func TestParseYearFilter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  YearFilter
	}{
		{"any", "any", YearFilter{}},
		{"ANY", "ANY", YearFilter{}},
		{"empty", "", YearFilter{}},
		{"single", "2024", YearFilter{From: 2024, To: 2024}},
		{"range", "2022-2024", YearFilter{From: 2022, To: 2024}},
		{"reversed range", "2023-2022", YearFilter{From: 2022, To: 2023}},
		{"spaces", " 2021 - 2023 ", YearFilter{From: 2021, To: 2023}},
		{"out of century", "1999", YearFilter{}},
		{"malformed", "2024-", YearFilter{}},
		{"words", "last year", YearFilter{}},
		{"three parts", "2020-2021-2022", YearFilter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseYearFilter(tt.input); got != tt.want {
				t.Errorf("ParseYearFilter(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestYearFilter_Years(t *testing.T) {
	if got := ParseYearFilter("2023-2022").Years(); !reflect.DeepEqual(got, []int{2022, 2023}) {
		t.Errorf("Years() = %v, want [2022 2023]", got)
	}
	if got := ParseYearFilter("any").Years(); got != nil {
		t.Errorf("Years() = %v, want nil", got)
	}
}

func TestYearFilter_YearsBounds(t *testing.T) {
	got := ParseYearFilter("2021-2023").Years()
	if !reflect.DeepEqual(got, []int{2021, 2022, 2023}) {
		t.Errorf("Years() = %v, want [2021 2022 2023]", got)
	}

	if got := (YearFilter{}).Years(); len(got) != 0 {
		t.Errorf("inactive filter Years() = %v, want empty", got)
	}
}

func TestYearFilter_String(t *testing.T) {
	tests := map[string]string{
		"any":       "any",
		"2024":      "2024",
		"2024-2022": "2022-2024",
		"garbage":   "any",
	}
	for in, want := range tests {
		if got := ParseYearFilter(in).String(); got != want {
			t.Errorf("ParseYearFilter(%q).String() = %q, want %q", in, got, want)
		}
	}
}
