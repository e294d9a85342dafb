// Package extract turns fetched page markup into plain text.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// noiseSelector - элементы без полезного контента.
const noiseSelector = "script, style, noscript, template, header, footer, nav, aside, form, " +
	"[aria-hidden='true'], [hidden], .sr-only, .visually-hidden"

// Extractor is the TextExtractor contract.
type Extractor interface {
	Extract(markup string) string
}

// HTMLExtractor strips structural noise and returns whitespace-normalized text.
type HTMLExtractor struct{}

func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

func (e *HTMLExtractor) Extract(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	// Remove detaches whole subtrees, so nested noise goes with its parent
	doc.Find(noiseSelector).Remove()

	var sb strings.Builder
	for _, n := range doc.Nodes {
		collectText(n, &sb)
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		return
	case html.CommentNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// Lead returns the leading sentences of text, at most maxChars runes.
func Lead(text string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}

	var out strings.Builder
	for _, s := range splitSentences(text) {
		if utf8.RuneCountInString(out.String()) >= maxChars {
			break
		}
		if out.Len() > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(s)
	}

	return strings.TrimSpace(truncateRunes(out.String(), maxChars))
}

// splitSentences splits after '.', '!' or '?' when followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes)-1; i++ {
		switch runes[i] {
		case '.', '!', '?':
		default:
			continue
		}
		if !isSpace(runes[i+1]) {
			continue
		}
		sentences = append(sentences, string(runes[start:i+1]))
		j := i + 1
		for j < len(runes) && isSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
