package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	channel string
	message []byte
	err     error
}

func (f *fakeRedis) Publish(_ context.Context, channel string, message any) *redis.IntCmd {
	f.channel = channel
	f.message, _ = message.([]byte)
	return redis.NewIntResult(1, f.err)
}

func TestRedisPublisher_Publish(t *testing.T) {
	t.Parallel()

	rdb := &fakeRedis{}
	p := NewRedisPublisher(rdb)
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return at }

	slot := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), Event{Type: InterviewBooked, CandidateID: "c1", JobID: "j1", Slot: &slot})
	require.NoError(t, err)
	assert.Equal(t, InterviewBooked, rdb.channel)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rdb.message, &got))
	assert.Equal(t, "EVENT_INTERVIEW_BOOKED", got["type"])
	assert.Equal(t, "c1", got["candidateId"])
	assert.Equal(t, "2026-10-19T10:00:00Z", got["slot"])
	assert.Equal(t, "2026-10-18T12:00:00Z", got["at"])
	assert.NotContains(t, got, "appointmentId")
}

func TestRedisPublisher_Error(t *testing.T) {
	t.Parallel()

	p := NewRedisPublisher(&fakeRedis{err: errors.New("connection refused")})
	err := p.Publish(context.Background(), Event{Type: CallStarted})
	assert.ErrorContains(t, err, "publish EVENT_CALL_STARTED")
}

func TestNopPublisher(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{Type: CallStarted}))
}

func TestNewRedisClient_BadURL(t *testing.T) {
	t.Parallel()

	_, err := NewRedisClient(context.Background(), "not a url")
	assert.ErrorContains(t, err, "redis.ParseURL")
}
