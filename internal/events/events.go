// Package events announces scheduling changes on Redis pub/sub so other
// services (dashboards, notifiers) can follow along.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event types double as Redis channel names.
const (
	CallStarted           = "EVENT_CALL_STARTED"
	ConversationCompleted = "EVENT_CONVERSATION_COMPLETED"
	InterviewBooked       = "EVENT_INTERVIEW_BOOKED"
	BookingConflict       = "EVENT_BOOKING_CONFLICT"
	AppointmentUpdated    = "EVENT_APPOINTMENT_UPDATED"
	AppointmentDeleted    = "EVENT_APPOINTMENT_DELETED"
)

type Event struct {
	Type           string     `json:"type"`
	ConversationID string     `json:"conversationId,omitempty"`
	CandidateID    string     `json:"candidateId,omitempty"`
	JobID          string     `json:"jobId,omitempty"`
	AppointmentID  string     `json:"appointmentId,omitempty"`
	Slot           *time.Time `json:"slot,omitempty"`
	Status         string     `json:"status,omitempty"`
	At             time.Time  `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event. Used when no Redis is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type RedisPublisher struct {
	rdb redisPublisher
	now func() time.Time
}

func NewRedisPublisher(rdb redisPublisher) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, now: time.Now}
}

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// Publish sends e on the channel named after its type.
func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = p.now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Type, err)
	}
	if err := p.rdb.Publish(ctx, e.Type, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}
