package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"interview-scheduler/internal/models"
	"interview-scheduler/internal/slots"
)

// MemoryStore keeps everything in process. All mutations run under one lock,
// which makes each operation serializable against every other.
type MemoryStore struct {
	mu            sync.Mutex
	jobs          map[string]*models.Job
	candidates    map[string]*models.Candidate
	conversations map[string]*models.Conversation
	appointments  map[string]*models.Appointment
	now           func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:          make(map[string]*models.Job),
		candidates:    make(map[string]*models.Candidate),
		conversations: make(map[string]*models.Conversation),
		appointments:  make(map[string]*models.Appointment),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) Close() {}

func (m *MemoryStore) CreateJob(_ context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if _, ok := m.jobs[job.ID]; ok {
		return fmt.Errorf("job %s: %w", job.ID, ErrConflict)
	}
	now := m.now()
	job.CreatedAt, job.UpdatedAt = now, now
	job.AvailableSlots = normalizeSlots(job.AvailableSlots)

	stored := cloneJob(*job)
	m.jobs[job.ID] = &stored
	return nil
}

func (m *MemoryStore) GetJob(_ context.Context, id string) (models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return models.Job{}, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return cloneJob(*j), nil
}

func (m *MemoryStore) ListJobs(_ context.Context) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, cloneJob(*j))
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) UpdateJob(_ context.Context, id string, fields models.JobFields) (models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return models.Job{}, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if !fields.Empty() {
		fields.Apply(j)
		j.UpdatedAt = m.now()
	}
	return cloneJob(*j), nil
}

func (m *MemoryStore) DeleteJob(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[id]; !ok {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	for cid, c := range m.conversations {
		if c.JobID == id {
			delete(m.conversations, cid)
		}
	}
	for aid, a := range m.appointments {
		if a.JobID == id {
			delete(m.appointments, aid)
		}
	}
	delete(m.jobs, id)
	return nil
}

func (m *MemoryStore) GetAvailableSlots(_ context.Context, jobID string) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", jobID, ErrNotFound)
	}
	return append([]time.Time(nil), j.AvailableSlots...), nil
}

func (m *MemoryStore) AddSlots(_ context.Context, jobID string, add ...time.Time) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", jobID, ErrNotFound)
	}
	for _, s := range add {
		if m.bookedLocked(jobID, s) {
			return nil, fmt.Errorf("slot %s: %w", s.UTC().Format(time.RFC3339), ErrConflict)
		}
	}
	for _, s := range add {
		j.AvailableSlots = slots.Insert(j.AvailableSlots, s)
	}
	j.UpdatedAt = m.now()
	return append([]time.Time(nil), j.AvailableSlots...), nil
}

func (m *MemoryStore) RemoveSlot(_ context.Context, jobID string, slot time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[jobID]
	if !ok {
		return fmt.Errorf("job %s: %w", jobID, ErrNotFound)
	}
	rest, ok := slots.Remove(j.AvailableSlots, slot)
	if !ok {
		return slotUnavailable(slot)
	}
	j.AvailableSlots = rest
	j.UpdatedAt = m.now()
	return nil
}

func (m *MemoryStore) PruneSlotsBefore(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	for _, j := range m.jobs {
		kept := j.AvailableSlots[:0:0]
		for _, s := range j.AvailableSlots {
			if s.Before(cutoff) {
				pruned++
				continue
			}
			kept = append(kept, s)
		}
		if len(kept) != len(j.AvailableSlots) {
			j.AvailableSlots = kept
			j.UpdatedAt = m.now()
		}
	}
	return pruned, nil
}

func (m *MemoryStore) CreateCandidate(_ context.Context, c *models.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, ok := m.candidates[c.ID]; ok {
		return fmt.Errorf("candidate %s: %w", c.ID, ErrConflict)
	}
	if c.Status == "" {
		c.Status = models.CandidateNew
	}
	now := m.now()
	c.CreatedAt, c.UpdatedAt = now, now

	stored := *c
	m.candidates[c.ID] = &stored
	return nil
}

func (m *MemoryStore) GetCandidate(_ context.Context, id string) (models.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.candidates[id]
	if !ok {
		return models.Candidate{}, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	return *c, nil
}

func (m *MemoryStore) ListCandidates(_ context.Context) ([]models.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Candidate, 0, len(m.candidates))
	for _, c := range m.candidates {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) UpdateCandidateFields(_ context.Context, id string, fields models.CandidateFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.updateCandidateLocked(id, fields)
}

func (m *MemoryStore) DeleteCandidate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.candidates[id]; !ok {
		return fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	now := m.now()
	for aid, a := range m.appointments {
		if a.CandidateID != id {
			continue
		}
		if j, ok := m.jobs[a.JobID]; ok && a.Status.Active() {
			j.AvailableSlots = slots.Insert(j.AvailableSlots, a.DateTime)
			j.UpdatedAt = now
		}
		delete(m.appointments, aid)
	}
	for cid, c := range m.conversations {
		if c.CandidateID == id {
			delete(m.conversations, cid)
		}
	}
	delete(m.candidates, id)
	return nil
}

func (m *MemoryStore) CreateConversation(_ context.Context, conv *models.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cand, ok := m.candidates[conv.CandidateID]
	if !ok {
		return fmt.Errorf("candidate %s: %w", conv.CandidateID, ErrNotFound)
	}
	if _, ok := m.jobs[conv.JobID]; !ok {
		return fmt.Errorf("job %s: %w", conv.JobID, ErrNotFound)
	}
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	conv.CreatedAt = m.now()
	if cand.Status == models.CandidateNew {
		cand.Status = models.CandidateContacted
		cand.UpdatedAt = conv.CreatedAt
	}

	stored := *conv
	stored.Entities = conv.Entities.Clone()
	m.conversations[conv.ID] = &stored
	return nil
}

func (m *MemoryStore) GetConversation(_ context.Context, id string) (models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conversations[id]
	if !ok {
		return models.Conversation{}, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	out := *c
	out.Entities = c.Entities.Clone()
	return out, nil
}

func (m *MemoryStore) AppendTranscript(_ context.Context, id string, lines ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conversations[id]
	if !ok {
		return fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	c.Transcript = models.AppendLines(c.Transcript, lines...)
	return nil
}

func (m *MemoryStore) MergeEntities(_ context.Context, id string, entities models.Entities) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conversations[id]
	if !ok {
		return fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	c.Entities = c.Entities.Merge(entities.Clone())
	return nil
}

func (m *MemoryStore) ApplyTurn(_ context.Context, u TurnUpdate) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv, ok := m.conversations[u.ConversationID]
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", u.ConversationID, ErrNotFound)
	}
	if _, ok := m.candidates[conv.CandidateID]; !ok {
		return nil, fmt.Errorf("candidate %s: %w", conv.CandidateID, ErrNotFound)
	}

	// Validate the booking before touching anything so a lost race applies nothing.
	var appt *models.Appointment
	if u.Book != nil {
		a, err := m.bookLocked(conv.JobID, conv.CandidateID, *u.Book)
		if err != nil {
			return nil, err
		}
		appt = &a
	}

	if err := m.updateCandidateLocked(conv.CandidateID, u.Candidate); err != nil {
		return nil, err
	}
	conv.Transcript = models.AppendLines(conv.Transcript, u.Lines...)
	conv.Entities = u.Entities.Clone()
	return appt, nil
}

func (m *MemoryStore) CreateAppointment(_ context.Context, jobID, candidateID string, slot time.Time) (models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.candidates[candidateID]; !ok {
		return models.Appointment{}, fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}
	a, err := m.bookLocked(jobID, candidateID, slot)
	if err != nil {
		return models.Appointment{}, err
	}
	status := models.CandidateScheduled
	if err := m.updateCandidateLocked(candidateID, models.CandidateFields{Status: &status}); err != nil {
		return models.Appointment{}, err
	}
	return a, nil
}

func (m *MemoryStore) GetAppointment(_ context.Context, id string) (models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appointments[id]
	if !ok {
		return models.Appointment{}, fmt.Errorf("appointment %s: %w", id, ErrNotFound)
	}
	return *a, nil
}

func (m *MemoryStore) ListAppointments(_ context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Appointment, 0, len(m.appointments))
	for _, a := range m.appointments {
		if f.JobID != "" && a.JobID != f.JobID {
			continue
		}
		if f.CandidateID != "" && a.CandidateID != f.CandidateID {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].DateTime.Before(out[k].DateTime) })
	return out, nil
}

func (m *MemoryStore) UpdateAppointment(_ context.Context, id string, u AppointmentUpdate) (models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appointments[id]
	if !ok {
		return models.Appointment{}, fmt.Errorf("appointment %s: %w", id, ErrNotFound)
	}
	j, ok := m.jobs[a.JobID]
	if !ok {
		return models.Appointment{}, fmt.Errorf("job %s: %w", a.JobID, ErrNotFound)
	}

	change, err := planAppointmentUpdate(*a, j.AvailableSlots, u)
	if err != nil {
		return models.Appointment{}, err
	}
	if change.candidateStatus != nil {
		fields := models.CandidateFields{Status: change.candidateStatus}
		if err := m.updateCandidateLocked(a.CandidateID, fields); err != nil {
			return models.Appointment{}, err
		}
	}

	now := m.now()
	j.AvailableSlots = change.available
	j.UpdatedAt = now
	change.appointment.UpdatedAt = now
	*a = change.appointment
	return *a, nil
}

func (m *MemoryStore) DeleteAppointment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appointments[id]
	if !ok {
		return fmt.Errorf("appointment %s: %w", id, ErrNotFound)
	}
	if j, ok := m.jobs[a.JobID]; ok && a.Status.Active() {
		j.AvailableSlots = slots.Insert(j.AvailableSlots, a.DateTime)
		j.UpdatedAt = m.now()
	}
	if _, ok := m.candidates[a.CandidateID]; ok {
		status := models.CandidateContacted
		if err := m.updateCandidateLocked(a.CandidateID, models.CandidateFields{Status: &status}); err != nil {
			return err
		}
	}
	delete(m.appointments, id)
	return nil
}

// bookLocked moves slot from the job's open list into a new appointment.
func (m *MemoryStore) bookLocked(jobID, candidateID string, slot time.Time) (models.Appointment, error) {
	j, ok := m.jobs[jobID]
	if !ok {
		return models.Appointment{}, fmt.Errorf("job %s: %w", jobID, ErrNotFound)
	}
	rest, ok := slots.Remove(j.AvailableSlots, slot)
	if !ok || m.bookedLocked(jobID, slot) {
		return models.Appointment{}, slotUnavailable(slot)
	}

	now := m.now()
	a := models.Appointment{
		ID:          uuid.NewString(),
		JobID:       jobID,
		CandidateID: candidateID,
		DateTime:    slot.UTC(),
		Status:      models.AppointmentScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	j.AvailableSlots = rest
	j.UpdatedAt = now
	stored := a
	m.appointments[a.ID] = &stored
	return a, nil
}

func (m *MemoryStore) bookedLocked(jobID string, slot time.Time) bool {
	for _, a := range m.appointments {
		if a.JobID == jobID && a.Status.Active() && a.DateTime.Equal(slot) {
			return true
		}
	}
	return false
}

func (m *MemoryStore) updateCandidateLocked(id string, fields models.CandidateFields) error {
	if fields.Empty() {
		return nil
	}
	c, ok := m.candidates[id]
	if !ok {
		return fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	fields.Apply(c)
	c.UpdatedAt = m.now()
	return nil
}

func cloneJob(j models.Job) models.Job {
	j.AvailableSlots = append([]time.Time(nil), j.AvailableSlots...)
	return j
}

func normalizeSlots(in []time.Time) []time.Time {
	var out []time.Time
	for _, s := range in {
		out = slots.Insert(out, s)
	}
	if out == nil {
		out = []time.Time{}
	}
	return out
}
