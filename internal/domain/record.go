package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	// MinTextLength - страницы короче считаем заглушками.
	MinTextLength = 300
	// MinScore - хотя бы один значимый сигнал должен сработать.
	MinScore = 1.0
)

type SearchHit struct {
	Title   string
	URL     string
	Snippet string
}

type PageSignals struct {
	CleanedText   string
	YearsFound    []int
	PublishedDate *time.Time
	CountryHits   []string
}

type ResultRecord struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Source      string   `json:"source"`
	Score       float64  `json:"score"`
	PubDate     string   `json:"pub_date,omitempty"`
	YearsFound  []int    `json:"years_found"`
	CountryHits []string `json:"country_hits"`
	Snippet     string   `json:"snippet"`
}

func CSVHeader() []string {
	return []string{"title", "url", "source", "score", "pub_date", "years_found", "country_hits", "snippet"}
}

func (r ResultRecord) CSVRow() []string {
	years := make([]string, len(r.YearsFound))
	for i, y := range r.YearsFound {
		years[i] = strconv.Itoa(y)
	}

	return []string{
		r.Title,
		r.URL,
		r.Source,
		strconv.FormatFloat(r.Score, 'f', 2, 64),
		r.PubDate,
		strings.Join(years, ";"),
		strings.Join(r.CountryHits, ";"),
		r.Snippet,
	}
}

// CrawlRun - завершенный прогон, который отдается в writer'ы.
type CrawlRun struct {
	ID         string
	Query      CrawlQuery
	StartedAt  time.Time
	FinishedAt time.Time
	Records    []ResultRecord
}
