package dialogue

import (
	"time"

	"interview-scheduler/internal/extract"
	"interview-scheduler/internal/models"
	"interview-scheduler/internal/slots"
)

// Input is everything a single turn needs besides the current state.
type Input struct {
	Utterance string
	// Entities are the values persisted by earlier turns.
	Entities models.Entities
	// Slots are the job's open slots, read fresh for this turn.
	Slots    []time.Time
	Now      time.Time
	Location *time.Location
	Matcher  slots.Matcher
}

// Effects are the writes a turn asks the caller to commit with it.
type Effects struct {
	Candidate models.CandidateFields
	// Book is the slot to turn into an appointment, if any.
	Book *time.Time
}

// Output is the outcome of one turn.
type Output struct {
	Next  State
	Reply string
	// Entities is the complete entity set after the turn, not a delta.
	Entities models.Entities
	Effects  Effects
}

// Complete reports whether the conversation ended with this turn.
func (o Output) Complete() bool { return o.Next.Terminal() }

// Step advances the conversation by one candidate utterance.
func Step(state State, in Input) Output {
	in = in.normalize()
	out := Output{Entities: in.Entities.Clone()}

	switch state {
	case StateInterest:
		value, ok := extract.Boolean(in.Utterance)
		interested := ok && value
		out.Entities.Interested = &interested
		if interested {
			out.Next, out.Reply = StateNoticePeriod, promptNoticePeriod
		} else {
			out.Next, out.Reply = StateComplete, closeNotInterested
		}

	case StateNoticePeriod, StateNoticePeriodRetry:
		if days, ok := extract.Duration(in.Utterance); ok {
			out.Entities.NoticePeriod = &days
			out.Effects.Candidate.NoticePeriod = &days
			out.Next, out.Reply = StateCTC, promptCTC
		} else if state == StateNoticePeriod {
			out.Next, out.Reply = StateNoticePeriodRetry, promptNoticePeriodRetry
		} else {
			out.Next, out.Reply = StateCTC, promptCTCMoveOn
		}

	case StateCTC, StateCTCRetry:
		if c := extract.CTC(in.Utterance); c.Complete() {
			out.Entities.CurrentCTC, out.Entities.ExpectedCTC = c.Current, c.Expected
			out.Effects.Candidate.CurrentCTC, out.Effects.Candidate.ExpectedCTC = c.Current, c.Expected
			out.Next, out.Reply = StateAvailability, promptAvailability
		} else if state == StateCTC {
			out.Next, out.Reply = StateCTCRetry, promptCTCRetry
		} else {
			out.Next, out.Reply = StateAvailability, promptAvailabilityMoveOn
		}

	case StateAvailability:
		if len(in.Slots) == 0 {
			out.Next, out.Reply = StateComplete, closeNoSlots
			break
		}
		requested, ok := extract.Date(in.Utterance, in.Now)
		if !ok {
			out.Next, out.Reply = StateAvailabilityRetry, promptAvailabilityRetry
			break
		}
		res := in.Matcher.Match(requested, in.Slots)
		if res.Matched != nil {
			out.hold(*res.Matched, in.Location)
			break
		}
		out.Next, out.Reply = StateAlternativeSlots, promptAlternatives(res.Alternatives, in.Location)

	case StateAvailabilityRetry, StateAlternativeSlots:
		requested, ok := extract.Date(in.Utterance, in.Now)
		if !ok {
			out.Next, out.Reply = StateComplete, closeCannotBook
			break
		}
		res := in.Matcher.Match(requested, in.Slots)
		if res.Matched == nil {
			out.Next, out.Reply = StateComplete, closeNoSuitable
			break
		}
		out.hold(*res.Matched, in.Location)

	case StateConfirmSlot:
		value, ok := extract.Boolean(in.Utterance)
		if !ok || !value {
			out.Entities.InterviewSlot = nil
			out.Next, out.Reply = StateAvailability, promptTryAgain
			break
		}
		slot := out.Entities.InterviewSlot
		if slot == nil {
			out.Next, out.Reply = StateComplete, closeBookingIssue
			break
		}
		if !slots.Contains(in.Slots, *slot) {
			return SlotTaken(in)
		}
		book := *slot
		status := models.CandidateScheduled
		out.Effects.Book = &book
		out.Effects.Candidate.Status = &status
		out.Next, out.Reply = StateComplete, closeBooked

	case StateComplete:
		out.Next, out.Reply = StateComplete, closeAlreadyComplete

	default:
		out.Next, out.Reply = StateInterest, promptInterest
	}
	return out
}

// SlotTaken is the turn that replaces a confirmation whose slot was booked by
// someone else in the meantime. in.Slots must be the job's slots re-read
// after the failed booking.
func SlotTaken(in Input) Output {
	in = in.normalize()
	out := Output{Entities: in.Entities.Clone()}
	out.Entities.InterviewSlot = nil

	if len(in.Slots) == 0 {
		out.Next, out.Reply = StateComplete, closeNoSlots
		return out
	}
	out.Next, out.Reply = StateAlternativeSlots, promptSlotTaken(in.Matcher.Alternatives(in.Slots), in.Location)
	return out
}

func (o *Output) hold(slot time.Time, loc *time.Location) {
	o.Entities.InterviewSlot = &slot
	o.Next, o.Reply = StateConfirmSlot, promptConfirmSlot(slot, loc)
}

func (in Input) normalize() Input {
	if in.Location == nil {
		in.Location = time.UTC
	}
	if in.Now.IsZero() {
		in.Now = time.Now()
	}
	in.Now = in.Now.In(in.Location)
	if in.Matcher.MaxAlternatives <= 0 {
		in.Matcher.MaxAlternatives = slots.DefaultMaxAlternatives
	}
	return in
}
