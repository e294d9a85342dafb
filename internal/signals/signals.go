package signals

import "github.com/kitbuilder587/topic-osint/internal/domain"

// Analyzer bundles the heuristics for one page.
type Analyzer struct {
	Dates     DateGuesser
	Countries *CountryMatcher
}

func NewAnalyzer(dates DateGuesser, countries *CountryMatcher) *Analyzer {
	if dates == nil {
		dates = NewLatestDateGuesser()
	}
	if countries == nil {
		countries = NewCountryMatcher(nil)
	}
	return &Analyzer{Dates: dates, Countries: countries}
}

func (a *Analyzer) Analyze(text, country string) domain.PageSignals {
	sig := domain.PageSignals{
		CleanedText: text,
		YearsFound:  ExtractYears(text),
		CountryHits: a.Countries.Hits(text, country),
	}
	if t, ok := a.Dates.Guess(text); ok {
		sig.PublishedDate = &t
	}
	return sig
}
