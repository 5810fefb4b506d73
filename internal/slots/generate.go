package slots

import (
	"fmt"
	"time"
)

// Window is a weekly availability window that expands into interview slots.
type Window struct {
	DayOfWeek      int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	SlotLengthMins int    `json:"slot_length_minutes" binding:"required,min=5"`
}

// Generate expands windows into slot start times between from and to in loc.
// A slot is kept only when it lies entirely inside [from, to).
func Generate(windows []Window, from, to time.Time, loc *time.Location) ([]time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("from must be before to")
	}

	type parsedWindow struct {
		Window
		start, end time.Time
	}
	parsed := make([]parsedWindow, 0, len(windows))
	for i, w := range windows {
		startTOD, err := parseHHMM(w.StartTime)
		if err != nil {
			return nil, err
		}
		endTOD, err := parseHHMM(w.EndTime)
		if err != nil {
			return nil, err
		}
		if !endTOD.After(startTOD) {
			return nil, fmt.Errorf("end_time must be after start_time for window %d", i)
		}
		if w.SlotLengthMins <= 0 {
			return nil, fmt.Errorf("slot_length_minutes must be positive for window %d", i)
		}
		parsed = append(parsed, parsedWindow{Window: w, start: startTOD, end: endTOD})
	}

	var out []time.Time
	fromLocal := from.In(loc)
	startDay := time.Date(fromLocal.Year(), fromLocal.Month(), fromLocal.Day(), 0, 0, 0, 0, loc)

	for day := startDay; day.Before(to); day = day.AddDate(0, 0, 1) {
		for _, w := range parsed {
			if int(day.Weekday()) != w.DayOfWeek {
				continue
			}
			year, month, dayNum := day.Date()
			windowStart := time.Date(year, month, dayNum, w.start.Hour(), w.start.Minute(), 0, 0, loc)
			windowEnd := time.Date(year, month, dayNum, w.end.Hour(), w.end.Minute(), 0, 0, loc)

			slotLen := time.Duration(w.SlotLengthMins) * time.Minute
			for s := windowStart; !s.Add(slotLen).After(windowEnd); s = s.Add(slotLen) {
				if s.Before(from) || s.Add(slotLen).After(to) {
					continue
				}
				out = append(out, s.UTC())
			}
		}
	}
	return out, nil
}

func parseHHMM(s string) (time.Time, error) {
	// Take first 5 chars "HH:MM"
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("invalid time string: %s", s)
	}
	s = s[:5] // "09:00:00" -> "09:00"
	return time.Parse("15:04", s)
}
