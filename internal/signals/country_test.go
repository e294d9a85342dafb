package signals

import (
	"reflect"
	"testing"
)

func TestCountryMatcher_Hits(t *testing.T) {
	m := NewCountryMatcher(nil)

	tests := []struct {
		name    string
		text    string
		country string
		want    []string
	}{
		{"worldwide", "Britain and the UK", "worldwide", []string{}},
		{"worldwide any case", "Britain and the UK", "Worldwide", []string{}},
		{"none", "Britain and the UK", "", []string{}},
		{"synonyms sorted", "The NHS in Britain; England and Wales, UK-wide.", "United Kingdom", []string{"britain", "england", "uk", "wales"}},
		{"country name", "Across the United Kingdom today", "united kingdom", []string{"united kingdom"}},
		{"whole word only", "Ukraine and Brittany and Scotlandyard", "United Kingdom", []string{}},
		{"punctuated token", "Made in the U.K. last year", "United Kingdom", []string{"u.k."}},
		{"multi word synonym", "Protests in Northern Ireland", "United Kingdom", []string{"northern ireland"}},
		{"unmapped country", "Sweden and Swedish ports", "Sweden", []string{"sweden"}},
		{"distinct", "india India INDIA indian", "India", []string{"india", "indian"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Hits(tt.text, tt.country)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Hits() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountryMatcher_InjectedTable(t *testing.T) {
	m := NewCountryMatcher(map[string][]string{
		"Germany": {"german", "deutschland"},
	})

	got := m.Hits("Deutschland und German industry", "germany")
	want := []string{"deutschland", "german"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Hits() = %v, want %v", got, want)
	}

	// default table is not merged in
	if got := m.Hits("Britain", "United Kingdom"); len(got) != 0 {
		t.Errorf("Hits() = %v, want empty for unmapped table", got)
	}
}

func TestCountryMatcher_WorldwideAlwaysEmpty(t *testing.T) {
	m := NewCountryMatcher(nil)
	texts := []string{"", "worldwide", "uk usa india eu dubai", "united kingdom united states"}
	for _, text := range texts {
		if got := m.Hits(text, "worldwide"); len(got) != 0 {
			t.Errorf("Hits(%q, worldwide) = %v", text, got)
		}
		if got := m.Hits(text, ""); len(got) != 0 {
			t.Errorf("Hits(%q, none) = %v", text, got)
		}
	}
}
