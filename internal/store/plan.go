package store

import (
	"fmt"
	"time"

	"interview-scheduler/internal/models"
	"interview-scheduler/internal/slots"
)

// appointmentChange is the result of applying an AppointmentUpdate to an
// appointment and its job's open slots.
type appointmentChange struct {
	appointment models.Appointment
	available   []time.Time
	// candidateStatus is set when the appointment status changed.
	candidateStatus *models.CandidateStatus
}

// planAppointmentUpdate works out the new appointment and slot list without
// writing anything. A reschedule frees the old slot and takes the new one; a
// move out of an active status frees the slot, a move back in takes it again.
func planAppointmentUpdate(a models.Appointment, available []time.Time, u AppointmentUpdate) (appointmentChange, error) {
	next := a

	if u.DateTime != nil && !u.DateTime.Equal(a.DateTime) {
		if !a.Status.Active() {
			return appointmentChange{}, fmt.Errorf("appointment %s is %s: %w", a.ID, a.Status, ErrConflict)
		}
		rest, ok := slots.Remove(available, *u.DateTime)
		if !ok {
			return appointmentChange{}, slotUnavailable(*u.DateTime)
		}
		available = slots.Insert(rest, a.DateTime)
		next.DateTime = u.DateTime.UTC()
		next.Status = models.AppointmentRescheduled
	}

	var candidateStatus *models.CandidateStatus
	if u.Status != nil && *u.Status != a.Status {
		switch {
		case a.Status.Active() && !u.Status.Active():
			available = slots.Insert(available, next.DateTime)
		case !a.Status.Active() && u.Status.Active():
			rest, ok := slots.Remove(available, next.DateTime)
			if !ok {
				return appointmentChange{}, slotUnavailable(next.DateTime)
			}
			available = rest
		}
		next.Status = *u.Status
		status := CandidateStatusFor(next.Status)
		candidateStatus = &status
	}

	return appointmentChange{appointment: next, available: available, candidateStatus: candidateStatus}, nil
}

func slotUnavailable(slot time.Time) error {
	return fmt.Errorf("slot %s: %w", slot.UTC().Format(time.RFC3339), ErrSlotUnavailable)
}
