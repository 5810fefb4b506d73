// Package dialogue defines the scripted screening conversation as a finite
// state machine.
//
// Forward path:
//
//	interest ──► notice_period ──► ctc ──► availability ──► confirm_slot ──► complete
//	                  │              │           │    ▲            │
//	                  ▼              ▼           ▼    └── deny ────┘
//	        notice_period_retry  ctc_retry  availability_retry / alternative_slots
//
// Retry states either recover into the forward path or move on. The machine
// keeps nothing between calls: each Step is computed from the state threaded
// by the caller and the entities persisted so far.
package dialogue

// State names the question currently open.
type State string

const (
	StateInterest          State = "interest"
	StateNoticePeriod      State = "notice_period"
	StateNoticePeriodRetry State = "notice_period_retry"
	StateCTC               State = "ctc"
	StateCTCRetry          State = "ctc_retry"
	StateAvailability      State = "availability"
	StateAvailabilityRetry State = "availability_retry"
	StateAlternativeSlots  State = "alternative_slots"
	StateConfirmSlot       State = "confirm_slot"
	StateComplete          State = "complete"

	// StateUnknown is any question name the machine does not recognise.
	StateUnknown State = ""
)

// InitialState is the question asked right after the greeting.
const InitialState = StateInterest

var allStates = []State{
	StateInterest, StateNoticePeriod, StateNoticePeriodRetry, StateCTC, StateCTCRetry,
	StateAvailability, StateAvailabilityRetry, StateAlternativeSlots, StateConfirmSlot,
	StateComplete,
}

// ParseState converts a raw question name to a State, or StateUnknown.
func ParseState(s string) State {
	for _, st := range allStates {
		if string(st) == s {
			return st
		}
	}
	return StateUnknown
}

// Terminal reports whether no further question follows.
func (s State) Terminal() bool { return s == StateComplete }
