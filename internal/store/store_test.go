package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-scheduler/internal/models"
)

var (
	slotA = time.Date(2030, 3, 4, 10, 0, 0, 0, time.UTC)
	slotB = time.Date(2030, 3, 4, 14, 0, 0, 0, time.UTC)
	slotC = time.Date(2030, 3, 5, 9, 0, 0, 0, time.UTC)
)

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func() Store { return NewMemoryStore() })
}

// runStoreTests checks the behaviour every Store implementation shares.
func runStoreTests(t *testing.T, newStore func() Store) {
	t.Run("slots", func(t *testing.T) { testSlots(t, newStore()) })
	t.Run("not found", func(t *testing.T) { testNotFound(t, newStore()) })
	t.Run("create appointment", func(t *testing.T) { testCreateAppointment(t, newStore()) })
	t.Run("apply turn", func(t *testing.T) { testApplyTurn(t, newStore()) })
	t.Run("apply turn lost race", func(t *testing.T) { testApplyTurnLostRace(t, newStore()) })
	t.Run("booking race", func(t *testing.T) { testBookingRace(t, newStore()) })
	t.Run("update appointment", func(t *testing.T) { testUpdateAppointment(t, newStore()) })
	t.Run("delete appointment", func(t *testing.T) { testDeleteAppointment(t, newStore()) })
	t.Run("transcript and entities", func(t *testing.T) { testTranscriptAndEntities(t, newStore()) })
	t.Run("prune", func(t *testing.T) { testPrune(t, newStore()) })
	t.Run("conversation marks contacted", func(t *testing.T) { testConversationMarksContacted(t, newStore()) })
	t.Run("update job", func(t *testing.T) { testUpdateJob(t, newStore()) })
	t.Run("delete job", func(t *testing.T) { testDeleteJob(t, newStore()) })
	t.Run("update candidate", func(t *testing.T) { testUpdateCandidate(t, newStore()) })
	t.Run("delete candidate", func(t *testing.T) { testDeleteCandidate(t, newStore()) })
}

func seedJob(t *testing.T, st Store, available ...time.Time) models.Job {
	t.Helper()
	job := models.Job{Title: "Backend Engineer", AvailableSlots: available}
	require.NoError(t, st.CreateJob(context.Background(), &job))
	return job
}

func seedCandidate(t *testing.T, st Store) models.Candidate {
	t.Helper()
	c := models.Candidate{Name: "Asha", Phone: "+91 98000 00000"}
	require.NoError(t, st.CreateCandidate(context.Background(), &c))
	return c
}

func seedConversation(t *testing.T, st Store, job models.Job, c models.Candidate) models.Conversation {
	t.Helper()
	conv := models.Conversation{CandidateID: c.ID, JobID: job.ID, Transcript: "Call initiated."}
	require.NoError(t, st.CreateConversation(context.Background(), &conv))
	return conv
}

func assertSlots(t *testing.T, st Store, jobID string, want ...time.Time) {
	t.Helper()
	got, err := st.GetAvailableSlots(context.Background(), jobID)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "slot %d: want %s, got %s", i, want[i], got[i])
	}
}

func testSlots(t *testing.T, st Store) {
	ctx := context.Background()
	job := seedJob(t, st, slotC, slotA)
	assertSlots(t, st, job.ID, slotA, slotC)

	got, err := st.AddSlots(ctx, job.ID, slotB, slotA)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assertSlots(t, st, job.ID, slotA, slotB, slotC)

	require.NoError(t, st.RemoveSlot(ctx, job.ID, slotB))
	assertSlots(t, st, job.ID, slotA, slotC)

	err = st.RemoveSlot(ctx, job.ID, slotB)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func testNotFound(t *testing.T, st Store) {
	ctx := context.Background()

	_, err := st.GetJob(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.GetCandidate(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.GetConversation(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.GetAppointment(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.ApplyTurn(ctx, TurnUpdate{ConversationID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.UpdateCandidateFields(ctx, "missing", models.CandidateFields{NoticePeriod: ptr(30)}), ErrNotFound)
	assert.ErrorIs(t, st.DeleteAppointment(ctx, "missing"), ErrNotFound)
}

func testCreateAppointment(t *testing.T, st Store) {
	ctx := context.Background()
	job := seedJob(t, st, slotA, slotB)
	c := seedCandidate(t, st)

	a, err := st.CreateAppointment(ctx, job.ID, c.ID, slotA)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentScheduled, a.Status)
	assert.True(t, a.DateTime.Equal(slotA))
	assertSlots(t, st, job.ID, slotB)

	got, err := st.GetCandidate(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateScheduled, got.Status)

	_, err = st.CreateAppointment(ctx, job.ID, c.ID, slotA)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	list, err := st.ListAppointments(ctx, AppointmentFilter{JobID: job.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
}

func testApplyTurn(t *testing.T, st Store) {
	ctx := context.Background()
	job := seedJob(t, st, slotA)
	c := seedCandidate(t, st)
	conv := seedConversation(t, st, job, c)

	held := slotA
	appt, err := st.ApplyTurn(ctx, TurnUpdate{
		ConversationID: conv.ID,
		Lines:          []string{"Candidate: 30 days", "System: Can you share your current and expected CTC?"},
		Entities:       models.Entities{NoticePeriod: ptr(30), InterviewSlot: &held},
		Candidate:      models.CandidateFields{NoticePeriod: ptr(30)},
	})
	require.NoError(t, err)
	assert.Nil(t, appt)

	got, err := st.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Call initiated.\nCandidate: 30 days\nSystem: Can you share your current and expected CTC?", got.Transcript)
	require.NotNil(t, got.Entities.NoticePeriod)
	assert.Equal(t, 30, *got.Entities.NoticePeriod)
	require.NotNil(t, got.Entities.InterviewSlot)
	assert.True(t, got.Entities.InterviewSlot.Equal(slotA))

	cand, err := st.GetCandidate(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, cand.NoticePeriod)
	assert.Equal(t, 30, *cand.NoticePeriod)

	status := models.CandidateScheduled
	appt, err = st.ApplyTurn(ctx, TurnUpdate{
		ConversationID: conv.ID,
		Lines:          []string{"Candidate: yes", "System: Great!"},
		Entities:       got.Entities,
		Candidate:      models.CandidateFields{Status: &status},
		Book:           &held,
	})
	require.NoError(t, err)
	require.NotNil(t, appt)
	assert.Equal(t, c.ID, appt.CandidateID)
	assert.Equal(t, job.ID, appt.JobID)
	assertSlots(t, st, job.ID)

	cand, err = st.GetCandidate(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateScheduled, cand.Status)
}

func testApplyTurnLostRace(t *testing.T, st Store) {
	ctx := context.Background()
	job := seedJob(t, st, slotB)
	c := seedCandidate(t, st)
	conv := seedConversation(t, st, job, c)

	status := models.CandidateScheduled
	_, err := st.ApplyTurn(ctx, TurnUpdate{
		ConversationID: conv.ID,
		Lines:          []string{"Candidate: yes", "System: Great!"},
		Entities:       models.Entities{Interested: ptr(true)},
		Candidate:      models.CandidateFields{Status: &status},
		Book:           &slotA,
	})
	require.ErrorIs(t, err, ErrSlotUnavailable)

	got, err := st.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Call initiated.", got.Transcript, "nothing is applied when the booking fails")
	assert.Nil(t, got.Entities.Interested)

	cand, err := st.GetCandidate(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateContacted, cand.Status)
	assertSlots(t, st, job.ID, slotB)
}

func testBookingRace(t *testing.T, st Store) {
	ctx := context.Background()
	job := seedJob(t, st, slotA, slotB)

	const agents = 8
	convs := make([]models.Conversation, agents)
	for i := range convs {
		convs[i] = seedConversation(t, st, job, seedCandidate(t, st))
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		booked    int
		conflicts int
	)
	for _, conv := range convs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			slot := slotA
			_, err := st.ApplyTurn(ctx, TurnUpdate{ConversationID: id, Lines: []string{"Candidate: yes"}, Book: &slot})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				booked++
			case errors.Is(err, ErrSlotUnavailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(conv.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, booked)
	assert.Equal(t, agents-1, conflicts)
	assertSlots(t, st, job.ID, slotB)

	list, err := st.ListAppointments(ctx, AppointmentFilter{JobID: job.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func testUpdateAppointment(t *testing.T, st Store) {
	ctx := context.Background()
	job := seedJob(t, st, slotA, slotB, slotC)
	c := seedCandidate(t, st)

	a, err := st.CreateAppointment(ctx, job.ID, c.ID, slotA)
	require.NoError(t, err)

	moved, err := st.UpdateAppointment(ctx, a.ID, AppointmentUpdate{DateTime: &slotB})
	require.NoError(t, err)
	assert.True(t, moved.DateTime.Equal(slotB))
	assert.Equal(t, models.AppointmentRescheduled, moved.Status)
	assertSlots(t, st, job.ID, slotA, slotC)

	_, err = st.UpdateAppointment(ctx, a.ID, AppointmentUpdate{DateTime: &slotB})
	require.NoError(t, err, "moving to the current time is a no-op")

	missing := time.Date(2031, 1, 1, 9, 0, 0, 0, time.UTC)
	_, err = st.UpdateAppointment(ctx, a.ID, AppointmentUpdate{DateTime: &missing})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assertSlots(t, st, job.ID, slotA, slotC)

	completed := models.AppointmentCompleted
	done, err := st.UpdateAppointment(ctx, a.ID, AppointmentUpdate{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCompleted, done.Status)
	assertSlots(t, st, job.ID, slotA, slotB, slotC)

	cand, err := st.GetCandidate(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateInterviewed, cand.Status)

	_, err = st.UpdateAppointment(ctx, a.ID, AppointmentUpdate{DateTime: &slotC})
	assert.ErrorIs(t, err, ErrConflict, "inactive appointments cannot be moved")
}

func testDeleteAppointment(t *testing.T, st Store) {
	ctx := context.Background()
	job := seedJob(t, st, slotA)
	c := seedCandidate(t, st)

	a, err := st.CreateAppointment(ctx, job.ID, c.ID, slotA)
	require.NoError(t, err)
	assertSlots(t, st, job.ID)

	require.NoError(t, st.DeleteAppointment(ctx, a.ID))
	assertSlots(t, st, job.ID, slotA)

	cand, err := st.GetCandidate(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateContacted, cand.Status)

	_, err = st.GetAppointment(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func testTranscriptAndEntities(t *testing.T, st Store) {
	ctx := context.Background()
	job := seedJob(t, st, slotA)
	conv := seedConversation(t, st, job, seedCandidate(t, st))

	require.NoError(t, st.AppendTranscript(ctx, conv.ID, "Candidate: yes", "System: What is your current notice period?"))
	require.NoError(t, st.MergeEntities(ctx, conv.ID, models.Entities{Interested: ptr(true)}))
	require.NoError(t, st.MergeEntities(ctx, conv.ID, models.Entities{NoticePeriod: ptr(45)}))

	got, err := st.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "What is your current notice period?", models.LastSystemResponse(got.Transcript))
	require.NotNil(t, got.Entities.Interested)
	assert.True(t, *got.Entities.Interested)
	require.NotNil(t, got.Entities.NoticePeriod)
	assert.Equal(t, 45, *got.Entities.NoticePeriod)
}

func testPrune(t *testing.T, st Store) {
	ctx := context.Background()
	past := time.Date(1999, 6, 1, 9, 0, 0, 0, time.UTC)
	job := seedJob(t, st, past, past.Add(time.Hour), slotA)

	n, err := st.PruneSlotsBefore(ctx, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assertSlots(t, st, job.ID, slotA)
}

func testConversationMarksContacted(t *testing.T, st Store) {
	ctx := context.Background()
	job := seedJob(t, st, slotA)
	c := seedCandidate(t, st)
	require.Equal(t, models.CandidateNew, c.Status)

	seedConversation(t, st, job, c)
	got, err := st.GetCandidate(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateContacted, got.Status)

	hired := models.CandidateHired
	require.NoError(t, st.UpdateCandidateFields(ctx, c.ID, models.CandidateFields{Status: &hired}))
	seedConversation(t, st, job, c)
	got, err = st.GetCandidate(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateHired, got.Status, "only new candidates move to contacted")
}

func testUpdateJob(t *testing.T, st Store) {
	ctx := context.Background()
	job := seedJob(t, st, slotA)

	got, err := st.UpdateJob(ctx, job.ID, models.JobFields{Title: ptr("Staff Engineer"), Requirements: ptr("Go")})
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", got.Title)
	assert.Equal(t, "Go", got.Requirements)
	assert.Equal(t, job.Description, got.Description)
	assertSlots(t, st, job.ID, slotA)

	_, err = st.UpdateJob(ctx, "missing", models.JobFields{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func testDeleteJob(t *testing.T, st Store) {
	ctx := context.Background()
	job := seedJob(t, st, slotA, slotB)
	c := seedCandidate(t, st)
	conv := seedConversation(t, st, job, c)
	a, err := st.CreateAppointment(ctx, job.ID, c.ID, slotA)
	require.NoError(t, err)

	require.NoError(t, st.DeleteJob(ctx, job.ID))

	_, err = st.GetJob(ctx, job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.GetConversation(ctx, conv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.GetAppointment(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.GetCandidate(ctx, c.ID)
	assert.NoError(t, err, "candidates outlive their jobs")

	assert.ErrorIs(t, st.DeleteJob(ctx, job.ID), ErrNotFound)
}

func testUpdateCandidate(t *testing.T, st Store) {
	ctx := context.Background()
	c := seedCandidate(t, st)

	require.NoError(t, st.UpdateCandidateFields(ctx, c.ID, models.CandidateFields{
		Name:       ptr("Asha Rao"),
		Email:      ptr("asha@example.com"),
		Experience: ptr(6.5),
	}))
	got, err := st.GetCandidate(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", got.Name)
	assert.Equal(t, c.Phone, got.Phone)
	assert.Equal(t, "asha@example.com", got.Email)
	require.NotNil(t, got.Experience)
	assert.Equal(t, 6.5, *got.Experience)
}

func testDeleteCandidate(t *testing.T, st Store) {
	ctx := context.Background()
	job := seedJob(t, st, slotA, slotB, slotC)
	c := seedCandidate(t, st)
	other := seedCandidate(t, st)
	conv := seedConversation(t, st, job, c)

	held, err := st.CreateAppointment(ctx, job.ID, c.ID, slotA)
	require.NoError(t, err)
	done, err := st.CreateAppointment(ctx, job.ID, c.ID, slotB)
	require.NoError(t, err)
	completed := models.AppointmentCompleted
	_, err = st.UpdateAppointment(ctx, done.ID, AppointmentUpdate{Status: &completed})
	require.NoError(t, err)
	kept, err := st.CreateAppointment(ctx, job.ID, other.ID, slotC)
	require.NoError(t, err)
	assertSlots(t, st, job.ID, slotB)

	require.NoError(t, st.DeleteCandidate(ctx, c.ID))

	_, err = st.GetCandidate(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.GetConversation(ctx, conv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	for _, id := range []string{held.ID, done.ID} {
		_, err = st.GetAppointment(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	_, err = st.GetAppointment(ctx, kept.ID)
	assert.NoError(t, err)
	assertSlots(t, st, job.ID, slotA, slotB)

	assert.ErrorIs(t, st.DeleteCandidate(ctx, c.ID), ErrNotFound)
}

func TestCreateConversation_UnknownReferences(t *testing.T) {
	t.Parallel()

	st := NewMemoryStore()
	conv := models.Conversation{CandidateID: "nobody", JobID: "nothing"}
	assert.ErrorIs(t, st.CreateConversation(context.Background(), &conv), ErrNotFound)
}

func TestCandidateStatusFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.CandidateInterviewed, CandidateStatusFor(models.AppointmentCompleted))
	assert.Equal(t, models.CandidateContacted, CandidateStatusFor(models.AppointmentCancelled))
	assert.Equal(t, models.CandidateScheduled, CandidateStatusFor(models.AppointmentRescheduled))
	assert.Equal(t, models.CandidateScheduled, CandidateStatusFor(models.AppointmentScheduled))
}

func TestLoadSeed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jobs:
  - id: backend
    title: Backend Engineer
    available_slots:
      - 2030-03-04T14:00:00Z
      - 2030-03-04T10:00:00Z
candidates:
  - id: asha
    name: Asha Rao
    phone: "+91 98000 00000"
    notice_period: 30
`), 0o600))

	st := NewMemoryStore()
	n, err := LoadSeed(context.Background(), st, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assertSlots(t, st, "backend", slotA, slotB)

	c, err := st.GetCandidate(context.Background(), "asha")
	require.NoError(t, err)
	assert.Equal(t, models.CandidateNew, c.Status)
	require.NotNil(t, c.NoticePeriod)
	assert.Equal(t, 30, *c.NoticePeriod)

	n, err = LoadSeed(context.Background(), st, path)
	require.NoError(t, err)
	assert.Zero(t, n, "seeding twice creates nothing")
}

func TestLoadSeed_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadSeed(context.Background(), NewMemoryStore(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestReadSeed_Example(t *testing.T) {
	t.Parallel()

	s, err := ReadSeed(filepath.Join("..", "..", "seed.example.yaml"))
	require.NoError(t, err)
	assert.Len(t, s.Jobs, 3)
	assert.Len(t, s.Candidates, 2)
	for _, j := range s.Jobs {
		assert.NotEmpty(t, j.AvailableSlots, j.Title)
	}
}

func ptr[T any](v T) *T { return &v }
