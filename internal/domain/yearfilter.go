package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var yearFilterRe = regexp.MustCompile(`^(20\d{2})(?:\s*-\s*(20\d{2}))?$`)

// YearFilter - включительный диапазон лет. Нулевое значение = без фильтра.
type YearFilter struct {
	From int
	To   int
}

// ParseYearFilter accepts "any", "YYYY" or "YYYY-YYYY" (either order).
// Anything it cannot read falls back to no filtering.
func ParseYearFilter(s string) YearFilter {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, AnyYear) {
		return YearFilter{}
	}

	m := yearFilterRe.FindStringSubmatch(s)
	if m == nil {
		return YearFilter{}
	}

	from, _ := strconv.Atoi(m[1])
	to := from
	if m[2] != "" {
		to, _ = strconv.Atoi(m[2])
	}
	if to < from {
		from, to = to, from
	}

	return YearFilter{From: from, To: to}
}

func (f YearFilter) Active() bool {
	return f.From != 0
}

func (f YearFilter) Years() []int {
	if !f.Active() {
		return nil
	}
	years := make([]int, 0, f.To-f.From+1)
	for y := f.From; y <= f.To; y++ {
		years = append(years, y)
	}
	return years
}

func (f YearFilter) String() string {
	switch {
	case !f.Active():
		return AnyYear
	case f.From == f.To:
		return strconv.Itoa(f.From)
	default:
		return fmt.Sprintf("%d-%d", f.From, f.To)
	}
}
