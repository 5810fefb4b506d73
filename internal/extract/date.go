package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?`)
	weekdayRe = regexp.MustCompile(`(?i)\b(next\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tue|wed|thu|fri|sat|sun)\b`)
	clockRe   = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?(?:\s*(a\.?m\.?|p\.?m\.?))?(?:\b|$)`)
	periodRe  = regexp.MustCompile(`(?i)\b(morning|afternoon|evening)\b`)
)

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday,
	"saturday": time.Saturday,
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

var periodHours = map[string]int{
	"morning":   9,
	"afternoon": 14,
	"evening":   18,
}

const defaultHour = 9

// Date extracts an interview date relative to now. An ISO-8601 literal is
// returned as-is; otherwise a weekday name is required and resolved to its
// next occurrence, with "next" pushing it a further week out. The time of day
// comes from an explicit clock time, a period word, or defaults to 09:00.
func Date(text string, now time.Time) (time.Time, bool) {
	if lit := isoDateRe.FindString(text); lit != "" {
		if t, ok := parseISO(lit, now.Location()); ok {
			return t, true
		}
	}

	m := weekdayRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	hasNext := strings.TrimSpace(m[1]) != ""
	target := weekdays[strings.ToLower(m[2])]

	daysToAdd := (int(target) - int(now.Weekday()) + 7) % 7
	if hasNext {
		daysToAdd += 7
	}
	if daysToAdd == 0 && !hasNext {
		daysToAdd = 7
	}

	hour, minute := defaultHour, 0
	if p := periodRe.FindStringSubmatch(text); p != nil {
		hour = periodHours[strings.ToLower(p[1])]
	}
	if h, mm, ok := clockTime(text); ok {
		hour, minute = h, mm
	}

	y, mo, d := now.Date()
	return time.Date(y, mo, d+daysToAdd, hour, minute, 0, 0, now.Location()), true
}

func parseISO(lit string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, lit); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", lit, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// clockTime finds the first clock time such as "2pm", "10:30 am" or "14:00".
func clockTime(text string) (hour, minute int, ok bool) {
	for _, m := range clockRe.FindAllStringSubmatch(text, -1) {
		h, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		mm := 0
		if m[2] != "" {
			if mm, err = strconv.Atoi(m[2]); err != nil {
				continue
			}
		}

		switch meridiem := strings.ToLower(strings.ReplaceAll(m[3], ".", "")); meridiem {
		case "pm":
			if h < 12 {
				h += 12
			}
		case "am":
			if h == 12 {
				h = 0
			}
		}

		if h > 23 || mm > 59 {
			continue
		}
		return h, mm, true
	}
	return 0, 0, false
}
