package domain

import (
	"strings"
	"unicode"
)

const MaxTopicLength = 500

const (
	AnyYear   = "any"
	Worldwide = "worldwide"
)

// CrawlQuery - запрос аналитика: тема + фильтры по году и стране.
type CrawlQuery struct {
	Topic      string
	Year       string
	Country    string
	MaxResults int
}

func (q *CrawlQuery) Validate() error {
	if strings.TrimSpace(q.Topic) == "" {
		return ErrEmptyTopic
	}

	if len(q.Topic) > MaxTopicLength {
		return ErrTopicTooLong
	}

	if q.MaxResults <= 0 {
		return ErrInvalidMaxResults
	}

	return nil
}

func (q *CrawlQuery) Sanitize() {
	q.Topic = strings.TrimSpace(q.Topic)
	q.Year = strings.TrimSpace(q.Year)
	q.Country = strings.TrimSpace(q.Country)

	if q.Year == "" {
		q.Year = AnyYear
	}
	if q.Country == "" {
		q.Country = Worldwide
	}
}

// SearchString joins topic, year and country in that order, skipping
// the "any" / "worldwide" placeholders.
func (q *CrawlQuery) SearchString() string {
	parts := []string{q.Topic}
	if q.Year != "" && !strings.EqualFold(q.Year, AnyYear) {
		parts = append(parts, q.Year)
	}
	if q.CountryFilter() != "" {
		parts = append(parts, q.Country)
	}
	return strings.Join(parts, " ")
}

func (q *CrawlQuery) YearFilter() YearFilter {
	return ParseYearFilter(q.Year)
}

// CountryFilter returns "" when no country filtering applies.
func (q *CrawlQuery) CountryFilter() string {
	if q.Country == "" || strings.EqualFold(q.Country, Worldwide) {
		return ""
	}
	return q.Country
}

// TopicTerms splits the topic on non-alphanumeric boundaries and returns
// distinct lowercase terms in order of first appearance.
func (q *CrawlQuery) TopicTerms() []string {
	fields := strings.FieldsFunc(strings.ToLower(q.Topic), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}
