// Package signals derives cheap relevance signals from page text:
// years mentioned, a best-guess publication date and country mentions.
package signals

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ExtractYears returns distinct standalone years 2000-2099, ascending.
// A year is standalone when its neighbours are not letters or digits,
// the same boundary WholeWord uses.
func ExtractYears(text string) []int {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	seen := make(map[int]bool)
	years := []int{}
	for _, tok := range tokens {
		if !isYearToken(tok) {
			continue
		}
		y, _ := strconv.Atoi(tok)
		if seen[y] {
			continue
		}
		seen[y] = true
		years = append(years, y)
	}

	sort.Ints(years)
	return years
}

// isYearToken matches exactly 20\d{2} in ASCII digits.
func isYearToken(tok string) bool {
	if len(tok) != 4 || !strings.HasPrefix(tok, "20") {
		return false
	}
	for i := 2; i < 4; i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}
