package models

import (
	"strings"
	"time"
)

type CandidateStatus string

const (
	CandidateNew         CandidateStatus = "new"
	CandidateContacted   CandidateStatus = "contacted"
	CandidateScheduled   CandidateStatus = "scheduled"
	CandidateInterviewed CandidateStatus = "interviewed"
	CandidateRejected    CandidateStatus = "rejected"
	CandidateHired       CandidateStatus = "hired"
)

// ParseCandidateStatus validates a raw status string.
func ParseCandidateStatus(s string) (CandidateStatus, bool) {
	st := CandidateStatus(s)
	switch st {
	case CandidateNew, CandidateContacted, CandidateScheduled, CandidateInterviewed, CandidateRejected, CandidateHired:
		return st, true
	}
	return "", false
}

type AppointmentStatus string

const (
	AppointmentScheduled   AppointmentStatus = "scheduled"
	AppointmentCompleted   AppointmentStatus = "completed"
	AppointmentCancelled   AppointmentStatus = "cancelled"
	AppointmentRescheduled AppointmentStatus = "rescheduled"
)

// ParseAppointmentStatus validates a raw status string.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	st := AppointmentStatus(s)
	switch st {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled, AppointmentRescheduled:
		return st, true
	}
	return "", false
}

// Active reports whether the appointment still occupies its slot.
func (s AppointmentStatus) Active() bool {
	return s == AppointmentScheduled || s == AppointmentRescheduled
}

type Job struct {
	ID             string      `json:"id" yaml:"id"`
	Title          string      `json:"title" yaml:"title"`
	Description    string      `json:"description" yaml:"description"`
	Requirements   string      `json:"requirements" yaml:"requirements"`
	AvailableSlots []time.Time `json:"available_slots" yaml:"available_slots"`
	CreatedAt      time.Time   `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt      time.Time   `json:"updated_at,omitempty" yaml:"-"`
}

// JobFields is a partial job update. Slots are managed separately.
type JobFields struct {
	Title        *string
	Description  *string
	Requirements *string
}

func (f JobFields) Empty() bool {
	return f.Title == nil && f.Description == nil && f.Requirements == nil
}

func (f JobFields) Apply(j *Job) {
	if f.Title != nil {
		j.Title = *f.Title
	}
	if f.Description != nil {
		j.Description = *f.Description
	}
	if f.Requirements != nil {
		j.Requirements = *f.Requirements
	}
}

type Candidate struct {
	ID           string          `json:"id" yaml:"id"`
	Name         string          `json:"name" yaml:"name"`
	Phone        string          `json:"phone" yaml:"phone"`
	Email        string          `json:"email,omitempty" yaml:"email"`
	CurrentCTC   *float64        `json:"current_ctc,omitempty" yaml:"current_ctc"`
	ExpectedCTC  *float64        `json:"expected_ctc,omitempty" yaml:"expected_ctc"`
	NoticePeriod *int            `json:"notice_period,omitempty" yaml:"notice_period"`
	Experience   *float64        `json:"experience,omitempty" yaml:"experience"`
	Status       CandidateStatus `json:"status" yaml:"status"`
	CreatedAt    time.Time       `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt    time.Time       `json:"updated_at,omitempty" yaml:"-"`
}

// CandidateFields is a partial candidate update. Nil fields are left untouched.
type CandidateFields struct {
	Name         *string
	Phone        *string
	Email        *string
	Experience   *float64
	NoticePeriod *int
	CurrentCTC   *float64
	ExpectedCTC  *float64
	Status       *CandidateStatus
}

// Empty reports whether the update carries no field.
func (f CandidateFields) Empty() bool {
	return f.Name == nil && f.Phone == nil && f.Email == nil && f.Experience == nil &&
		f.NoticePeriod == nil && f.CurrentCTC == nil && f.ExpectedCTC == nil && f.Status == nil
}

// Apply copies the non-nil fields onto c.
func (f CandidateFields) Apply(c *Candidate) {
	if f.Name != nil {
		c.Name = *f.Name
	}
	if f.Phone != nil {
		c.Phone = *f.Phone
	}
	if f.Email != nil {
		c.Email = *f.Email
	}
	if f.Experience != nil {
		v := *f.Experience
		c.Experience = &v
	}
	if f.NoticePeriod != nil {
		v := *f.NoticePeriod
		c.NoticePeriod = &v
	}
	if f.CurrentCTC != nil {
		v := *f.CurrentCTC
		c.CurrentCTC = &v
	}
	if f.ExpectedCTC != nil {
		v := *f.ExpectedCTC
		c.ExpectedCTC = &v
	}
	if f.Status != nil {
		c.Status = *f.Status
	}
}

type Appointment struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job_id"`
	CandidateID string            `json:"candidate_id"`
	DateTime    time.Time         `json:"date_time"`
	Status      AppointmentStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at,omitempty"`
}

type Conversation struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	JobID       string    `json:"job_id"`
	Transcript  string    `json:"transcript"`
	Entities    Entities  `json:"entities_extracted"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	CandidatePrefix = "Candidate: "
	SystemPrefix    = "System: "
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// CandidateLine keeps a multi-line reply on a single transcript line.
func CandidateLine(text string) string { return CandidatePrefix + lineBreaks.Replace(text) }

func SystemLine(text string) string { return SystemPrefix + text }

// LastSystemResponse returns the text of the last transcript line with the
// system prefix stripped.
func LastSystemResponse(transcript string) string {
	lines := strings.Split(transcript, "\n")
	return strings.TrimPrefix(lines[len(lines)-1], SystemPrefix)
}

// AppendLines joins lines onto an existing transcript.
func AppendLines(transcript string, lines ...string) string {
	if len(lines) == 0 {
		return transcript
	}
	if transcript == "" {
		return strings.Join(lines, "\n")
	}
	return transcript + "\n" + strings.Join(lines, "\n")
}
