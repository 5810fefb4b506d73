package extract

import "time"

// ClosestSlot returns the slot nearest to requested. Slots on the same
// calendar day as requested (in requested's location) are preferred over any
// other day, even a numerically closer one. Ties keep the first slot seen.
func ClosestSlot(requested time.Time, slots []time.Time) (time.Time, bool) {
	if len(slots) == 0 {
		return time.Time{}, false
	}

	var sameDay []time.Time
	for _, s := range slots {
		if sameCalendarDay(s.In(requested.Location()), requested) {
			sameDay = append(sameDay, s)
		}
	}
	if len(sameDay) > 0 {
		return closestTime(requested, sameDay)
	}
	return closestTime(requested, slots)
}

func closestTime(target time.Time, slots []time.Time) (time.Time, bool) {
	var (
		best    time.Time
		minDiff time.Duration
		found   bool
	)
	for _, s := range slots {
		diff := absDuration(s.Sub(target))
		if !found || diff < minDiff {
			best, minDiff, found = s, diff, true
		}
	}
	return best, found
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
