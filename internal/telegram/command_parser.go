package telegram

import (
	"strings"

	"github.com/kitbuilder587/topic-osint/internal/domain"
)

// CrawlRequest - разобранные аргументы "тема | год | страна".
type CrawlRequest struct {
	Topic   string
	Year    string
	Country string
}

// Query builds the crawl query for the given depth preset.
func (r CrawlRequest) Query(strategy domain.Strategy) *domain.CrawlQuery {
	return &domain.CrawlQuery{
		Topic:      r.Topic,
		Year:       r.Year,
		Country:    r.Country,
		MaxResults: strategy.MaxResults,
	}
}

// IsCrawlCommand reports whether the command name starts a crawl.
func IsCrawlCommand(cmd string) bool {
	switch strings.ToLower(cmd) {
	case "crawl", "quick", "deep":
		return true
	}
	return false
}

// /crawl -> standard, /quick, /deep -> свои пресеты
// обычный текст -> defaultStrategy
func ParseCrawlCommand(text string, defaultStrategy domain.Strategy) (CrawlRequest, domain.Strategy) {
	text = strings.TrimSpace(text)

	if text == "" {
		return CrawlRequest{}, defaultStrategy
	}

	if !strings.HasPrefix(text, "/") {
		return ParseArguments(text), defaultStrategy
	}

	parts := strings.SplitN(text, " ", 2)
	command := strings.ToLower(parts[0])
	// /crawl@SomeBot в групповых чатах
	if at := strings.IndexByte(command, '@'); at > 0 {
		command = command[:at]
	}

	var rest string
	if len(parts) > 1 {
		rest = parts[1]
	}

	switch command {
	case "/crawl":
		return ParseArguments(rest), domain.StandardStrategy()
	case "/quick":
		return ParseArguments(rest), domain.QuickStrategy()
	case "/deep":
		return ParseArguments(rest), domain.DeepStrategy()
	default:
		return ParseArguments(text), defaultStrategy
	}
}

// ParseArguments splits "topic | year | country"; missing parts stay empty.
func ParseArguments(s string) CrawlRequest {
	fields := strings.SplitN(s, "|", 3)
	var req CrawlRequest
	if len(fields) > 0 {
		req.Topic = normalizeSpaces(fields[0])
	}
	if len(fields) > 1 {
		req.Year = normalizeSpaces(fields[1])
	}
	if len(fields) > 2 {
		req.Country = normalizeSpaces(fields[2])
	}
	return req
}

func normalizeSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
