package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"interview-scheduler/internal/calendar"
	"interview-scheduler/internal/config"
	"interview-scheduler/internal/dialogue"
	"interview-scheduler/internal/events"
	"interview-scheduler/internal/models"
	"interview-scheduler/internal/slots"
	"interview-scheduler/internal/store"
)

type CallCandidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type CallJob struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// CallStart is the opening of a new conversation.
type CallStart struct {
	ConversationID  string        `json:"conversation_id"`
	Candidate       CallCandidate `json:"candidate"`
	Job             CallJob       `json:"job"`
	InitialGreeting string        `json:"initial_greeting"`
}

// TurnRequest is one candidate utterance. CurrentQuestion is the state the
// caller received with the previous reply.
type TurnRequest struct {
	ConversationID  string `json:"conversation_id" form:"conversation_id" binding:"required"`
	UserResponse    string `json:"user_response" form:"user_response"`
	CurrentQuestion string `json:"current_question" form:"current_question"`
}

type TurnResult struct {
	ConversationID string  `json:"conversation_id"`
	NextQuestion   *string `json:"next_question"`
	SystemResponse string  `json:"system_response"`
	IsComplete     bool    `json:"is_complete"`
	// Entities is everything extracted so far, not just this turn.
	Entities    models.Entities     `json:"extracted_entities"`
	Appointment *models.Appointment `json:"appointment,omitempty"`
}

// StartCall opens a conversation between the agent and a candidate about a job.
// A candidate in status new is marked contacted.
func (a *App) StartCall(ctx context.Context, candidateID, jobID string) (CallStart, error) {
	cand, err := a.Store.GetCandidate(ctx, candidateID)
	if err != nil {
		return CallStart{}, fmt.Errorf("load candidate: %w", err)
	}
	job, err := a.Store.GetJob(ctx, jobID)
	if err != nil {
		return CallStart{}, fmt.Errorf("load job: %w", err)
	}

	conv := models.Conversation{
		CandidateID: cand.ID,
		JobID:       job.ID,
		Transcript:  dialogue.CallInitiated(cand.Name, job.Title),
	}
	if err := a.Store.CreateConversation(ctx, &conv); err != nil {
		return CallStart{}, fmt.Errorf("create conversation: %w", err)
	}

	a.log().Info("call started",
		zap.String("conversation", conv.ID),
		zap.String("candidate", cand.ID),
		zap.String("job", job.ID))
	a.publish(ctx, events.Event{
		Type:           events.CallStarted,
		ConversationID: conv.ID,
		CandidateID:    cand.ID,
		JobID:          job.ID,
	})

	return CallStart{
		ConversationID:  conv.ID,
		Candidate:       CallCandidate{ID: cand.ID, Name: cand.Name, Phone: cand.Phone},
		Job:             CallJob{ID: job.ID, Title: job.Title},
		InitialGreeting: dialogue.Greeting(cand.Name, a.company(), job.Title),
	}, nil
}

// ProcessTurn runs one candidate utterance through the dialogue and commits
// the outcome. When the slot the candidate confirmed is booked by someone
// else first, the turn is committed with fresh alternatives instead.
func (a *App) ProcessTurn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	conv, err := a.Store.GetConversation(ctx, req.ConversationID)
	if err != nil {
		return TurnResult{}, fmt.Errorf("load conversation: %w", err)
	}
	available, err := a.Store.GetAvailableSlots(ctx, conv.JobID)
	if err != nil {
		return TurnResult{}, fmt.Errorf("load slots for job %s: %w", conv.JobID, err)
	}

	state := dialogue.ParseState(req.CurrentQuestion)
	in := dialogue.Input{
		Utterance: req.UserResponse,
		Entities:  conv.Entities,
		Slots:     available,
		Now:       a.clock(),
		Location:  a.loc(),
		Matcher:   a.Matcher,
	}
	out := dialogue.Step(state, in)

	appt, err := a.Store.ApplyTurn(ctx, turnUpdate(conv.ID, req.UserResponse, out))
	if errors.Is(err, store.ErrSlotUnavailable) {
		a.log().Info("confirmed slot taken by another booking",
			zap.String("conversation", conv.ID),
			zap.Timep("slot", out.Effects.Book))
		a.publish(ctx, events.Event{
			Type:           events.BookingConflict,
			ConversationID: conv.ID,
			CandidateID:    conv.CandidateID,
			JobID:          conv.JobID,
			Slot:           out.Effects.Book,
		})

		if in.Slots, err = a.Store.GetAvailableSlots(ctx, conv.JobID); err != nil {
			return TurnResult{}, fmt.Errorf("reload slots for job %s: %w", conv.JobID, err)
		}
		in.Entities = out.Entities
		out = dialogue.SlotTaken(in)
		appt, err = a.Store.ApplyTurn(ctx, turnUpdate(conv.ID, req.UserResponse, out))
	}
	if err != nil {
		return TurnResult{}, fmt.Errorf("apply turn: %w", err)
	}

	a.log().Debug("turn processed",
		zap.String("conversation", conv.ID),
		zap.String("state", string(state)),
		zap.String("next", string(out.Next)),
		zap.String("utterance", config.Truncate(req.UserResponse, 80)))

	if appt != nil {
		a.booked(ctx, *appt, conv.ID)
	}
	if out.Complete() {
		a.publish(ctx, events.Event{
			Type:           events.ConversationCompleted,
			ConversationID: conv.ID,
			CandidateID:    conv.CandidateID,
			JobID:          conv.JobID,
		})
	}

	transcript := models.AppendLines(conv.Transcript, models.CandidateLine(req.UserResponse), models.SystemLine(out.Reply))
	res := TurnResult{
		ConversationID: conv.ID,
		SystemResponse: models.LastSystemResponse(transcript),
		IsComplete:     out.Complete(),
		Entities:       out.Entities,
		Appointment:    appt,
	}
	if !res.IsComplete {
		next := string(out.Next)
		res.NextQuestion = &next
	}
	return res, nil
}

func turnUpdate(conversationID, utterance string, out dialogue.Output) store.TurnUpdate {
	return store.TurnUpdate{
		ConversationID: conversationID,
		Lines:          []string{models.CandidateLine(utterance), models.SystemLine(out.Reply)},
		Entities:       out.Entities,
		Candidate:      out.Effects.Candidate,
		Book:           out.Effects.Book,
	}
}

// BookAppointment books a slot directly, outside any conversation.
func (a *App) BookAppointment(ctx context.Context, jobID, candidateID string, slot time.Time) (models.Appointment, error) {
	appt, err := a.Store.CreateAppointment(ctx, jobID, candidateID, slot)
	if err != nil {
		return models.Appointment{}, err
	}
	a.booked(ctx, appt, "")
	return appt, nil
}

func (a *App) UpdateAppointment(ctx context.Context, id string, u store.AppointmentUpdate) (models.Appointment, error) {
	appt, err := a.Store.UpdateAppointment(ctx, id, u)
	if err != nil {
		return models.Appointment{}, err
	}
	slot := appt.DateTime
	a.log().Info("appointment updated",
		zap.String("appointment", appt.ID),
		zap.String("status", string(appt.Status)),
		zap.Time("slot", slot))
	a.publish(ctx, events.Event{
		Type:          events.AppointmentUpdated,
		AppointmentID: appt.ID,
		CandidateID:   appt.CandidateID,
		JobID:         appt.JobID,
		Slot:          &slot,
		Status:        string(appt.Status),
	})
	return appt, nil
}

func (a *App) DeleteAppointment(ctx context.Context, id string) error {
	appt, err := a.Store.GetAppointment(ctx, id)
	if err != nil {
		return err
	}
	if err := a.Store.DeleteAppointment(ctx, id); err != nil {
		return err
	}
	a.log().Info("appointment deleted", zap.String("appointment", id))
	a.publish(ctx, events.Event{
		Type:          events.AppointmentDeleted,
		AppointmentID: id,
		CandidateID:   appt.CandidateID,
		JobID:         appt.JobID,
	})
	return nil
}

// GenerateSlots expands weekly windows into slots between from and to and
// opens them on the job. It returns the number of generated slots and the
// job's resulting slot list.
func (a *App) GenerateSlots(ctx context.Context, jobID string, windows []slots.Window, from, to time.Time) (int, []time.Time, error) {
	generated, err := slots.Generate(windows, from, to, a.loc())
	if err != nil {
		return 0, nil, err
	}
	available, err := a.Store.AddSlots(ctx, jobID, generated...)
	if err != nil {
		return 0, nil, err
	}
	return len(generated), available, nil
}

func (a *App) booked(ctx context.Context, appt models.Appointment, conversationID string) {
	slot := appt.DateTime
	a.log().Info("interview booked",
		zap.String("appointment", appt.ID),
		zap.String("candidate", appt.CandidateID),
		zap.String("job", appt.JobID),
		zap.Time("slot", slot))
	a.publish(ctx, events.Event{
		Type:           events.InterviewBooked,
		ConversationID: conversationID,
		AppointmentID:  appt.ID,
		CandidateID:    appt.CandidateID,
		JobID:          appt.JobID,
		Slot:           &slot,
	})
	a.syncCalendar(ctx, appt)
}

// syncCalendar mirrors a booking into Google Calendar. Failures are logged;
// the booking stands either way.
func (a *App) syncCalendar(ctx context.Context, appt models.Appointment) {
	if a.Calendar == nil || !a.Calendar.Authorized() {
		return
	}
	cand, err := a.Store.GetCandidate(ctx, appt.CandidateID)
	if err != nil {
		a.log().Warn("calendar sync skipped", zap.String("appointment", appt.ID), zap.Error(err))
		return
	}
	job, err := a.Store.GetJob(ctx, appt.JobID)
	if err != nil {
		a.log().Warn("calendar sync skipped", zap.String("appointment", appt.ID), zap.Error(err))
		return
	}

	eventID, err := a.Calendar.InsertInterview(ctx, calendar.Interview{
		Summary:       fmt.Sprintf("Interview: %s for %s", cand.Name, job.Title),
		Description:   fmt.Sprintf("Candidate phone: %s\nAppointment: %s", cand.Phone, appt.ID),
		Start:         appt.DateTime,
		Duration:      a.InterviewLength,
		AttendeeEmail: cand.Email,
	})
	if err != nil {
		a.log().Warn("calendar sync failed", zap.String("appointment", appt.ID), zap.Error(err))
		return
	}
	a.log().Debug("calendar event created", zap.String("appointment", appt.ID), zap.String("event", eventID))
}
