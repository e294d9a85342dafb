package signals

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateGuesser picks a publication date out of free text.
type DateGuesser interface {
	Guess(text string) (time.Time, bool)
}

var (
	spelledDayFirstRe = regexp.MustCompile(`\b\d{1,2}\s+[A-Za-z]{3,9}\s+20\d{2}\b`)
	isoLikeRe         = regexp.MustCompile(`\b(20\d{2})-(\d{1,2})-(\d{1,2})\b`)
	slashRe           = regexp.MustCompile(`\b(20\d{2})/(\d{1,2})/(\d{1,2})\b`)
	spelledMonthRe    = regexp.MustCompile(`\b[A-Za-z]{3,9}\s+\d{1,2},\s*20\d{2}\b`)
)

var spelledLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2,2006",
	"Jan 2,2006",
}

// LatestDateGuesser returns the most recent parseable date in the text.
// Pages repeat old dates in boilerplate, so the newest one is the best
// proxy for "last updated".
type LatestDateGuesser struct {
	// DayFirst reads ambiguous numeric dates (both fields <= 12) as year-day-month.
	DayFirst bool
}

func NewLatestDateGuesser() *LatestDateGuesser {
	return &LatestDateGuesser{DayFirst: true}
}

func (g *LatestDateGuesser) Guess(text string) (time.Time, bool) {
	var latest time.Time
	found := false

	consider := func(t time.Time, ok bool) {
		if !ok {
			return
		}
		if !found || t.After(latest) {
			latest = t
			found = true
		}
	}

	for _, m := range isoLikeRe.FindAllStringSubmatch(text, -1) {
		consider(g.parseNumeric(m[1], m[2], m[3]))
	}
	for _, m := range slashRe.FindAllStringSubmatch(text, -1) {
		consider(g.parseNumeric(m[1], m[2], m[3]))
	}
	for _, c := range spelledDayFirstRe.FindAllString(text, -1) {
		consider(parseSpelled(c))
	}
	for _, c := range spelledMonthRe.FindAllString(text, -1) {
		consider(parseSpelled(c))
	}

	return latest, found
}

func (g *LatestDateGuesser) parseNumeric(year, a, b string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	first, _ := strconv.Atoi(a)
	second, _ := strconv.Atoi(b)

	month, day := first, second
	if g.DayFirst && first <= 12 && second <= 12 {
		month, day = second, first
	}

	if t, ok := civilDate(y, month, day); ok {
		return t, true
	}
	// одна из трактовок невалидна - пробуем другую
	return civilDate(y, day, month)
}

// civilDate rejects dates that time.Date would normalize (e.g. Feb 30).
func civilDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func parseSpelled(candidate string) (time.Time, bool) {
	s := strings.Join(strings.Fields(candidate), " ")
	for _, layout := range spelledLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	// "Sept 5, 2024" и прочие вольности
	return parseLoose(s)
}

func parseLoose(s string) (t time.Time, ok bool) {
	// dateparse умеет паниковать на мусоре
	defer func() {
		if r := recover(); r != nil {
			t, ok = time.Time{}, false
		}
	}()

	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), true
}
