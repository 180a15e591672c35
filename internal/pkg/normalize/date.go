package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-call-verify/internal/domain"
)

// Two-digit years at or below this pivot are read as 20xx, the rest as 19xx.
const twoDigitYearPivot = 29

var monthNames = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may": 5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sept": 9, "sep": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

var ordinalSuffixes = []string{"st", "nd", "rd", "th"}

type dateItem struct {
	number
	month int
}

func (n Normalizer) normalizeDate(raw string) Value {
	v := Value{Kind: domain.FieldDateOfBirth}
	items, ok := dateItems(raw)
	if ok {
		v.Dates = resolveDate(items, n.Order)
	}
	if len(v.Dates) == 0 {
		v.Unparseable = true
		return v
	}
	v.Text = v.Dates[0].String()
	return v
}

// dateItems lexes raw into month names and numbers. Words that are neither are skipped,
// so "it's the fifth of January" reads the same as "5 January".
func dateItems(raw string) ([]dateItem, bool) {
	words := strings.Fields(flatten(raw, ""))
	var items []dateItem
	for i := 0; i < len(words); {
		w := words[i]
		if m, ok := monthNames[w]; ok {
			items = append(items, dateItem{month: m})
			i++
			continue
		}
		if isNumberWord(w) {
			end := numberRunEnd(words, i)
			for _, num := range parseNumberRun(words[i:end]) {
				items = append(items, dateItem{number: num})
			}
			i = end
			continue
		}
		if num, ok := parseDigits(w); ok {
			if num.digits > 4 {
				return nil, false
			}
			items = append(items, dateItem{number: num})
		}
		i++
	}
	return joinSpokenYears(items), true
}

// parseDigits reads "1985", "05" or "22nd".
func parseDigits(w string) (number, bool) {
	ordinal := false
	for _, suf := range ordinalSuffixes {
		if len(w) > len(suf) && strings.HasSuffix(w, suf) {
			w = strings.TrimSuffix(w, suf)
			ordinal = true
			break
		}
	}
	n, err := strconv.Atoi(w)
	if err != nil || n < 0 {
		return number{}, false
	}
	return number{n: n, ordinal: ordinal, digits: len(w)}, true
}

// joinSpokenYears merges spoken century pairs such as "nineteen" "eighty five" into 1985.
// Pairs are taken right to left because the year usually closes the phrase.
func joinSpokenYears(items []dateItem) []dateItem {
	for i := len(items) - 2; i >= 0; i-- {
		a, b := items[i], items[i+1]
		if a.month != 0 || b.month != 0 || !a.spoken || !b.spoken || a.ordinal || b.ordinal {
			continue
		}
		if (a.n != 19 && a.n != 20) || b.n > 99 {
			continue
		}
		year := dateItem{number: number{n: a.n*100 + b.n, digits: 4, spoken: true}}
		items = append(items[:i], append([]dateItem{year}, items[i+2:]...)...)
		i--
	}
	return items
}

func resolveDate(items []dateItem, order DateOrder) []Date {
	var months []int
	var nums []number
	for _, it := range items {
		if it.month != 0 {
			months = append(months, it.month)
		} else {
			nums = append(nums, it.number)
		}
	}

	switch {
	case len(months) == 1 && len(nums) == 2:
		day, year := nums[0], nums[1]
		switch {
		case nums[1].ordinal && !nums[0].ordinal:
			day, year = nums[1], nums[0]
		case looksLikeYear(nums[0]) && !looksLikeYear(nums[1]):
			day, year = nums[1], nums[0]
		}
		return validDates(Date{Year: expandYear(year), Month: months[0], Day: day.n})

	case len(months) == 0 && len(nums) == 3:
		if looksLikeYear(nums[0]) {
			return validDates(Date{Year: expandYear(nums[0]), Month: nums[1].n, Day: nums[2].n})
		}
		y := expandYear(nums[2])
		dayFirst := Date{Year: y, Month: nums[1].n, Day: nums[0].n}
		monthFirst := Date{Year: y, Month: nums[0].n, Day: nums[1].n}
		if order == MonthFirst {
			return validDates(monthFirst, dayFirst)
		}
		return validDates(dayFirst, monthFirst)
	}
	return nil
}

func looksLikeYear(n number) bool {
	return n.digits >= 3 || n.n > 31
}

// expandYear applies the two-digit pivot. It returns 0 for years that cannot be a birth year.
func expandYear(n number) int {
	switch {
	case n.n >= 1000 && n.n <= 9999:
		return n.n
	case n.n < 100 && n.digits != 3:
		if n.n <= twoDigitYearPivot {
			return 2000 + n.n
		}
		return 1900 + n.n
	}
	return 0
}

// validDates keeps calendar-valid candidates in order, dropping duplicates.
func validDates(candidates ...Date) []Date {
	var out []Date
	for _, d := range candidates {
		if !isValidDate(d) {
			continue
		}
		dup := false
		for _, o := range out {
			if o == d {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, d)
		}
	}
	return out
}

func isValidDate(d Date) bool {
	if d.Year < 1000 || d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return t.Day() == d.Day && int(t.Month()) == d.Month
}
