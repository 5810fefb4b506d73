// Package app wires the dialogue engine to storage, events, calendar sync and
// speech, and exposes it all over HTTP.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"interview-scheduler/internal/calendar"
	"interview-scheduler/internal/events"
	"interview-scheduler/internal/slots"
	"interview-scheduler/internal/speech"
	"interview-scheduler/internal/store"
)

// App holds the collaborators every handler needs. Store is required; the
// rest fall back to no-op or stub implementations when left nil.
type App struct {
	Store       store.Store
	Events      events.Publisher
	Calendar    *calendar.Client
	Synthesizer speech.Synthesizer
	Transcriber speech.Transcriber
	Matcher     slots.Matcher
	Location    *time.Location
	Company     string
	// InterviewLength is the length of the calendar event created per booking.
	InterviewLength time.Duration
	Logger          *zap.Logger

	now func() time.Time
}

func (a *App) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

func (a *App) log() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func (a *App) loc() *time.Location {
	if a.Location == nil {
		return time.UTC
	}
	return a.Location
}

func (a *App) company() string {
	if a.Company == "" {
		return "Company"
	}
	return a.Company
}

func (a *App) synthesizer() speech.Synthesizer {
	if a.Synthesizer == nil {
		return speech.StubSynthesizer{}
	}
	return a.Synthesizer
}

func (a *App) transcriber() speech.Transcriber {
	if a.Transcriber == nil {
		return speech.StubTranscriber{}
	}
	return a.Transcriber
}

// publish is fire-and-forget: a failed publish is logged, never returned.
func (a *App) publish(ctx context.Context, e events.Event) {
	if a.Events == nil {
		return
	}
	if err := a.Events.Publish(ctx, e); err != nil {
		a.log().Warn("publish event failed", zap.String("type", e.Type), zap.Error(err))
	}
}
