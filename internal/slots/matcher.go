// Package slots finds, generates and prunes interview slots.
package slots

import (
	"sort"
	"time"

	"interview-scheduler/internal/extract"
)

const DefaultMaxAlternatives = 3

// Matcher picks the slot closest to a requested time.
type Matcher struct {
	// MaxAlternatives caps the slots offered when nothing matches.
	MaxAlternatives int
	// MaxDistance rejects a closest slot further than this from the request.
	// Zero accepts any slot.
	MaxDistance time.Duration
}

// Result is the outcome of a match. Alternatives is only set when Matched is nil.
type Result struct {
	Matched      *time.Time
	Alternatives []time.Time
}

func NewMatcher(maxAlternatives int, maxDistance time.Duration) Matcher {
	if maxAlternatives <= 0 {
		maxAlternatives = DefaultMaxAlternatives
	}
	return Matcher{MaxAlternatives: maxAlternatives, MaxDistance: maxDistance}
}

// Match returns the closest acceptable slot, or the first few available slots
// in list order when there is none.
func (m Matcher) Match(requested time.Time, available []time.Time) Result {
	if closest, ok := extract.ClosestSlot(requested, available); ok {
		if m.MaxDistance <= 0 || absDuration(closest.Sub(requested)) <= m.MaxDistance {
			return Result{Matched: &closest}
		}
	}
	return Result{Alternatives: m.Alternatives(available)}
}

// Alternatives returns up to MaxAlternatives slots in list order.
func (m Matcher) Alternatives(available []time.Time) []time.Time {
	n := m.MaxAlternatives
	if n <= 0 {
		n = DefaultMaxAlternatives
	}
	if len(available) < n {
		n = len(available)
	}
	out := make([]time.Time, n)
	copy(out, available[:n])
	return out
}

// Contains reports whether slot is in list, comparing instants.
func Contains(list []time.Time, slot time.Time) bool {
	return indexOf(list, slot) >= 0
}

// Remove returns list without slot and whether it was present.
func Remove(list []time.Time, slot time.Time) ([]time.Time, bool) {
	i := indexOf(list, slot)
	if i < 0 {
		return list, false
	}
	out := make([]time.Time, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), true
}

// Insert adds slot keeping the list sorted; duplicates are ignored.
func Insert(list []time.Time, slot time.Time) []time.Time {
	if Contains(list, slot) {
		return list
	}
	out := append(append([]time.Time(nil), list...), slot.UTC())
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func indexOf(list []time.Time, slot time.Time) int {
	for i, s := range list {
		if s.Equal(slot) {
			return i
		}
	}
	return -1
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
