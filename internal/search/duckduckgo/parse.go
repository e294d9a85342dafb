package duckduckgo

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kitbuilder587/topic-osint/internal/domain"
)

// parseResults extracts entries from a results page. Entries without a
// title or a URL are dropped.
func parseResults(doc *goquery.Document) []domain.SearchHit {
	var hits []domain.SearchHit

	doc.Find("div.result__body").Each(func(_ int, box *goquery.Selection) {
		link := box.Find("a.result__a").First()
		if link.Length() == 0 {
			return
		}

		title := cleanText(link.Text())
		href, _ := link.Attr("href")
		target := realURL(strings.TrimSpace(href))
		if title == "" || target == "" {
			return
		}

		snippet := ""
		if sn := box.Find("a.result__snippet, div.result__snippet").First(); sn.Length() > 0 {
			snippet = cleanText(sn.Text())
		}

		hits = append(hits, domain.SearchHit{
			Title:   title,
			URL:     target,
			Snippet: snippet,
		})
	})

	return hits
}

// nextOffset reads the continuation offset from the "next page" form.
func nextOffset(doc *goquery.Document) (int, bool) {
	input := doc.Find(`input[name="s"]`).First()
	if input.Length() == 0 {
		return 0, false
	}
	v, ok := input.Attr("value")
	if !ok {
		return 0, false
	}
	offset, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || offset < 0 {
		return 0, false
	}
	return offset, true
}

// realURL unwraps DuckDuckGo's redirect links (//duckduckgo.com/l/?uddg=...).
func realURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	if strings.Contains(href, "uddg=") {
		if u, err := url.Parse(href); err == nil {
			if target := u.Query().Get("uddg"); target != "" {
				return target
			}
		}
	}

	return href
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
