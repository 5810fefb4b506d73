// Package store persists jobs, candidates, conversations and appointments.
//
// Slot bookkeeping lives here: a job's open slots and its active appointments
// never share an instant, and every operation that moves a slot between the
// two commits atomically.
package store

import (
	"context"
	"errors"
	"time"

	"interview-scheduler/internal/models"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrSlotUnavailable = errors.New("slot unavailable")
	ErrConflict        = errors.New("conflict")
)

// TurnUpdate is everything one dialogue turn writes. It is applied as a unit:
// either all of it lands or none of it does.
type TurnUpdate struct {
	ConversationID string
	// Lines are appended to the transcript in order.
	Lines []string
	// Entities replaces the conversation's extracted entities.
	Entities  models.Entities
	Candidate models.CandidateFields
	// Book, when set, books the conversation's candidate into this slot of
	// the conversation's job.
	Book *time.Time
}

// AppointmentUpdate changes an appointment's time, status or both.
type AppointmentUpdate struct {
	DateTime *time.Time
	Status   *models.AppointmentStatus
}

// AppointmentFilter narrows ListAppointments. Empty fields match everything.
type AppointmentFilter struct {
	JobID       string
	CandidateID string
}

type Store interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id string) (models.Job, error)
	ListJobs(ctx context.Context) ([]models.Job, error)
	UpdateJob(ctx context.Context, id string, fields models.JobFields) (models.Job, error)
	// DeleteJob removes the job with its conversations and appointments.
	DeleteJob(ctx context.Context, id string) error
	GetAvailableSlots(ctx context.Context, jobID string) ([]time.Time, error)
	AddSlots(ctx context.Context, jobID string, slots ...time.Time) ([]time.Time, error)
	RemoveSlot(ctx context.Context, jobID string, slot time.Time) error
	PruneSlotsBefore(ctx context.Context, cutoff time.Time) (int, error)

	CreateCandidate(ctx context.Context, c *models.Candidate) error
	GetCandidate(ctx context.Context, id string) (models.Candidate, error)
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
	UpdateCandidateFields(ctx context.Context, id string, fields models.CandidateFields) error
	// DeleteCandidate removes the candidate with its conversations and
	// appointments. Slots held by active appointments reopen.
	DeleteCandidate(ctx context.Context, id string) error

	// CreateConversation opens a call. A candidate still in status new
	// becomes contacted in the same write.
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	GetConversation(ctx context.Context, id string) (models.Conversation, error)
	AppendTranscript(ctx context.Context, id string, lines ...string) error
	MergeEntities(ctx context.Context, id string, entities models.Entities) error
	ApplyTurn(ctx context.Context, u TurnUpdate) (*models.Appointment, error)

	CreateAppointment(ctx context.Context, jobID, candidateID string, slot time.Time) (models.Appointment, error)
	GetAppointment(ctx context.Context, id string) (models.Appointment, error)
	ListAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, u AppointmentUpdate) (models.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error

	Close()
}

// CandidateStatusFor maps an appointment status onto the candidate's status.
func CandidateStatusFor(s models.AppointmentStatus) models.CandidateStatus {
	switch s {
	case models.AppointmentCompleted:
		return models.CandidateInterviewed
	case models.AppointmentCancelled:
		return models.CandidateContacted
	default:
		return models.CandidateScheduled
	}
}
