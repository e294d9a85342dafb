package telegram

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/kitbuilder587/topic-osint/internal/domain"
)

func FormatStarted(req CrawlRequest, strategy domain.Strategy) string {
	var sb strings.Builder
	sb.WriteString("Ищу: <b>")
	sb.WriteString(html.EscapeString(req.Topic))
	sb.WriteString("</b>")
	if req.Year != "" && !strings.EqualFold(req.Year, domain.AnyYear) {
		sb.WriteString(", год ")
		sb.WriteString(html.EscapeString(req.Year))
	}
	if req.Country != "" && !strings.EqualFold(req.Country, domain.Worldwide) {
		sb.WriteString(", страна ")
		sb.WriteString(html.EscapeString(req.Country))
	}
	sb.WriteString("\n")
	sb.WriteString(formatStrategyIndicator(strategy))
	return sb.String()
}

// FormatRun renders the top records of a run as Telegram HTML.
func FormatRun(run *domain.CrawlRun, limit int) string {
	records := run.Records
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Найдено записей: %d</b>", len(run.Records)))
	if len(records) < len(run.Records) {
		sb.WriteString(fmt.Sprintf(" (показаны первые %d)", len(records)))
	}
	sb.WriteString("\n\n")

	for i, rec := range records {
		sb.WriteString(FormatRecord(i+1, rec))
		sb.WriteString("\n")
	}

	if run.ID != "" {
		sb.WriteString(fmt.Sprintf("<i>run %s</i>", html.EscapeString(run.ID)))
	}
	return sb.String()
}

func FormatRecord(n int, rec domain.ResultRecord) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d. <a href=\"%s\">%s</a>\n",
		n,
		html.EscapeString(rec.URL),
		html.EscapeString(truncate(rec.Title, 120)),
	))

	meta := []string{html.EscapeString(rec.Source), fmt.Sprintf("score %.2f", rec.Score)}
	if rec.PubDate != "" {
		meta = append(meta, rec.PubDate)
	}
	if len(rec.CountryHits) > 0 {
		meta = append(meta, html.EscapeString(strings.Join(rec.CountryHits, ", ")))
	}
	sb.WriteString("   ")
	sb.WriteString(strings.Join(meta, " · "))
	sb.WriteString("\n")

	if rec.Snippet != "" {
		sb.WriteString("   <i>")
		sb.WriteString(html.EscapeString(truncate(rec.Snippet, 200)))
		sb.WriteString("</i>\n")
	}
	return sb.String()
}

func formatStrategyIndicator(strategy domain.Strategy) string {
	switch strategy.Type {
	case domain.StrategyQuick:
		return "<i>Быстрый обход</i>"
	case domain.StrategyDeep:
		return "<i>Глубокий обход, это займет несколько минут</i>"
	default:
		return "<i>Стандартный обход</i>"
	}
}

func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var messages []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			messages = append(messages, text)
			break
		}

		splitPoint := findSafeSplitPoint(text, maxLen)
		if splitPoint <= 0 || splitPoint > len(text) {
			splitPoint = maxLen
		}

		messages = append(messages, text[:splitPoint])
		text = text[splitPoint:]
	}

	return messages
}

// findSafeSplitPoint prefers a newline, then a space, never inside a tag.
func findSafeSplitPoint(text string, maxLen int) int {
	for i := maxLen - 1; i > maxLen/2; i-- {
		if text[i] == '\n' && !isInsideHTMLTag(text, i) {
			return i + 1
		}
	}

	for i := maxLen - 1; i > maxLen/2; i-- {
		if text[i] == ' ' && !isInsideHTMLTag(text, i) {
			return i + 1
		}
	}

	// внутри тега: режем перед ним, а если тег в начале - сразу после него
	if isInsideHTMLTag(text, maxLen) {
		if open := strings.LastIndexByte(text[:maxLen], '<'); open > 0 {
			return open
		}
		if closing := strings.IndexByte(text[maxLen:], '>'); closing >= 0 {
			return maxLen + closing + 1
		}
	}

	// не разрываем многобайтный символ
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return cut
}

func isInsideHTMLTag(text string, pos int) bool {
	if pos >= len(text) || pos < 0 {
		return false
	}
	for i := pos; i >= 0; i-- {
		if text[i] == '>' {
			return false
		}
		if text[i] == '<' {
			return true
		}
	}
	return false
}

func truncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes-1]) + "…"
}
