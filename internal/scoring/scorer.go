// Package scoring computes the additive relevance score of a page.
package scoring

import (
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/kitbuilder587/topic-osint/internal/domain"
	"github.com/kitbuilder587/topic-osint/internal/signals"
)

const (
	TermWeight      = 1.0
	YearWeight      = 0.6
	CountryWeight   = 0.8
	LengthBonus     = 0.5
	LongTextMinimum = 2000
)

// Breakdown - вклад каждого сигнала, удобно для логов и отладки.
type Breakdown struct {
	Terms   float64
	Years   float64
	Country float64
	Length  float64
}

func (b Breakdown) Total() float64 {
	return b.Terms + b.Years + b.Country + b.Length
}

type Scorer struct {
	countries *signals.CountryMatcher

	mu    sync.Mutex
	terms map[string]*regexp.Regexp
}

func New(countries *signals.CountryMatcher) *Scorer {
	if countries == nil {
		countries = signals.NewCountryMatcher(nil)
	}
	return &Scorer{
		countries: countries,
		terms:     make(map[string]*regexp.Regexp),
	}
}

// Score is never negative and has no upper bound.
func (s *Scorer) Score(text string, topicTerms []string, years domain.YearFilter, country string) float64 {
	return s.Breakdown(text, topicTerms, years, country).Total()
}

func (s *Scorer) Breakdown(text string, topicTerms []string, years domain.YearFilter, country string) Breakdown {
	var b Breakdown
	lower := strings.ToLower(text)

	seen := make(map[string]bool, len(topicTerms))
	for _, term := range topicTerms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		if s.termPattern(term).MatchString(lower) {
			b.Terms += TermWeight
		}
	}

	if years.Active() {
		overlap := 0
		pageYears := signals.ExtractYears(text)
		for _, y := range years.Years() {
			if slices.Contains(pageYears, y) {
				overlap++
			}
		}
		b.Years = YearWeight * float64(overlap)
	}

	b.Country = CountryWeight * float64(len(s.countries.Hits(text, country)))

	if utf8.RuneCountInString(text) > LongTextMinimum {
		b.Length = LengthBonus
	}

	return b
}

func (s *Scorer) termPattern(term string) *regexp.Regexp {
	s.mu.Lock()
	defer s.mu.Unlock()

	if re, ok := s.terms[term]; ok {
		return re
	}
	re := signals.WholeWord(term)
	s.terms[term] = re
	return re
}
