package signals

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/kitbuilder587/topic-osint/internal/domain"
)

// DefaultSynonyms - небольшая таблица синонимов, ключи в нижнем регистре.
func DefaultSynonyms() map[string][]string {
	return map[string][]string{
		"united kingdom": {"uk", "u.k.", "britain", "british", "england", "scotland", "wales", "northern ireland"},
		"united states":  {"usa", "u.s.", "america", "american", "us"},
		"uae":            {"united arab emirates", "emirati", "dubai", "abu dhabi"},
		"india":          {"indian", "bharat"},
		"europe":         {"eu", "european union"},
	}
}

// CountryMatcher finds whole-word mentions of a country and its synonyms.
type CountryMatcher struct {
	synonyms map[string][]string

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

func NewCountryMatcher(synonyms map[string][]string) *CountryMatcher {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	normalized := make(map[string][]string, len(synonyms))
	for k, v := range synonyms {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &CountryMatcher{
		synonyms: normalized,
		patterns: make(map[string]*regexp.Regexp),
	}
}

// Tokens returns the lowercase country name followed by its synonyms.
func (m *CountryMatcher) Tokens(country string) []string {
	c := strings.ToLower(strings.TrimSpace(country))
	if c == "" || c == domain.Worldwide {
		return nil
	}
	tokens := []string{c}
	for _, s := range m.synonyms[c] {
		tokens = append(tokens, strings.ToLower(s))
	}
	return tokens
}

// Hits returns the distinct matched tokens, sorted. Empty for worldwide.
func (m *CountryMatcher) Hits(text, country string) []string {
	tokens := m.Tokens(country)
	if len(tokens) == 0 {
		return []string{}
	}

	lower := strings.ToLower(text)
	seen := make(map[string]bool, len(tokens))
	hits := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		if m.pattern(tok).MatchString(lower) {
			seen[tok] = true
			hits = append(hits, tok)
		}
	}

	sort.Strings(hits)
	return hits
}

// pattern treats any non-alphanumeric rune as a boundary, so tokens with
// punctuation like "u.k." still match as whole words.
func (m *CountryMatcher) pattern(token string) *regexp.Regexp {
	m.mu.Lock()
	defer m.mu.Unlock()

	if re, ok := m.patterns[token]; ok {
		return re
	}
	re := WholeWord(token)
	m.patterns[token] = re
	return re
}

// WholeWord compiles a case-sensitive whole-word matcher for token.
func WholeWord(token string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(token) + `(?:$|[^\p{L}\p{N}])`)
}
