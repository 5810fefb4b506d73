package extract

import (
	"regexp"
	"strconv"
)

const (
	daysPerWeek  = 7
	daysPerMonth = 30
)

// spelledNumbers lists the vocabulary in the order it is tried.
var spelledNumbers = []struct {
	word  string
	value int
}{
	{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4}, {"five", 5},
	{"six", 6}, {"seven", 7}, {"eight", 8}, {"nine", 9}, {"ten", 10},
	{"eleven", 11}, {"twelve", 12}, {"fifteen", 15}, {"thirty", 30},
	{"sixty", 60}, {"ninety", 90},
}

type unitPatterns struct {
	days, weeks, months *regexp.Regexp
}

var (
	spelledUnits = func() map[string]unitPatterns {
		out := make(map[string]unitPatterns, len(spelledNumbers))
		for _, n := range spelledNumbers {
			out[n.word] = unitPatterns{
				days:   regexp.MustCompile(`(?i)\b` + n.word + `\s*days?\b`),
				weeks:  regexp.MustCompile(`(?i)\b` + n.word + `\s*weeks?\b`),
				months: regexp.MustCompile(`(?i)\b` + n.word + `\s*months?\b`),
			}
		}
		return out
	}()

	numericDaysRe   = regexp.MustCompile(`(?i)(\d+)\s*days?\b`)
	numericWeeksRe  = regexp.MustCompile(`(?i)(\d+)\s*weeks?\b`)
	numericMonthsRe = regexp.MustCompile(`(?i)(\d+)\s*months?\b`)
)

// Duration extracts a notice period in days. Spelled-out numbers are checked
// before digits; weeks count as 7 days and months as 30.
func Duration(text string) (days int, ok bool) {
	for _, n := range spelledNumbers {
		p := spelledUnits[n.word]
		switch {
		case p.days.MatchString(text):
			return n.value, true
		case p.weeks.MatchString(text):
			return n.value * daysPerWeek, true
		case p.months.MatchString(text):
			return n.value * daysPerMonth, true
		}
	}

	if v, ok := firstInt(numericDaysRe, text); ok {
		return v, true
	}
	if v, ok := firstInt(numericWeeksRe, text); ok {
		return v * daysPerWeek, true
	}
	if v, ok := firstInt(numericMonthsRe, text); ok {
		return v * daysPerMonth, true
	}
	return 0, false
}

func firstInt(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}
