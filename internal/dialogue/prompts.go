package dialogue

import (
	"fmt"
	"strings"
	"time"
)

const (
	promptInterest           = "Are you interested in this role?"
	promptNoticePeriod       = "What is your current notice period?"
	promptNoticePeriodRetry  = "Could you please specify your notice period in days or months?"
	promptCTC                = "Can you share your current and expected CTC?"
	promptCTCMoveOn          = "Let's move on. Can you share your current and expected CTC?"
	promptCTCRetry           = "Could you please specify both your current and expected CTC?"
	promptAvailability       = "When are you available for an interview next week?"
	promptAvailabilityMoveOn = "Let's move on. When are you available for an interview next week?"
	promptAvailabilityRetry  = "Could you please provide a specific date and time?"
	promptTryAgain           = "Let's try again. When are you available for an interview next week?"

	closeNotInterested = "Thank you for your time. We'll keep your profile for future opportunities."
	closeNoSlots       = "I'm sorry, but there are no available slots at the moment. We'll contact you soon to schedule an interview."
	closeNoSuitable    = "I'm sorry, but we couldn't find a suitable slot. Our team will contact you soon to schedule an interview."
	closeCannotBook    = "I'm sorry, but we couldn't schedule an interview at this time. Our team will contact you soon."
	closeBooked        = "Great! Your interview has been scheduled. You will receive a confirmation email shortly. Thank you for your time."
	closeBookingIssue  = "I apologize, but there was an issue with scheduling. Our team will contact you to confirm the interview."

	closeAlreadyComplete = "This call is already complete. Thank you for your time."

	slotLayout = "Monday, January 2 at 3:04 PM"
)

// Greeting opens the call and asks the first question.
func Greeting(candidateName, company, jobTitle string) string {
	return fmt.Sprintf("Hello %s, this is %s regarding a %s opportunity. %s", candidateName, company, jobTitle, promptInterest)
}

// CallInitiated is the first transcript line of a conversation.
func CallInitiated(candidateName, jobTitle string) string {
	return fmt.Sprintf("Call initiated for %s regarding %s position.", candidateName, jobTitle)
}

func promptConfirmSlot(slot time.Time, loc *time.Location) string {
	return fmt.Sprintf("We've scheduled your interview on %s. Is that correct?", FormatSlot(slot, loc))
}

func promptAlternatives(alternatives []time.Time, loc *time.Location) string {
	return fmt.Sprintf("I'm sorry, that time isn't available. We have these slots: %s. Which one works for you?", formatSlots(alternatives, loc))
}

func promptSlotTaken(alternatives []time.Time, loc *time.Location) string {
	return fmt.Sprintf("I'm sorry, that slot was just booked by someone else. We have these slots: %s. Which one works for you?", formatSlots(alternatives, loc))
}

// FormatSlot renders a slot the way the agent speaks it.
func FormatSlot(slot time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return slot.In(loc).Format(slotLayout)
}

func formatSlots(list []time.Time, loc *time.Location) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = FormatSlot(s, loc)
	}
	return strings.Join(parts, ", ")
}
