package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(Config{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/oauth2callback"})
	require.NotNil(t, c)
	c.endpoint = srv.URL + "/"
	require.NoError(t, c.SetToken(&oauth2.Token{AccessToken: "token", TokenType: "Bearer"}))
	return c
}

func TestNew_Unconfigured(t *testing.T) {
	t.Parallel()

	assert.Nil(t, New(Config{ClientID: "id"}))
}

func TestAuthURL(t *testing.T) {
	t.Parallel()

	c := New(Config{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb"})
	u, state := c.AuthURL()
	require.NotEmpty(t, state)
	assert.Contains(t, u, "state="+state)
	assert.Contains(t, u, "access_type=offline")
	assert.False(t, c.Authorized())
}

func TestExchange_State(t *testing.T) {
	t.Parallel()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"granted","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(tokenSrv.Close)

	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	c := New(Config{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb"})
	c.oauth.Endpoint = oauth2.Endpoint{TokenURL: tokenSrv.URL, AuthStyle: oauth2.AuthStyleInParams}
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := c.Exchange(ctx, "forged", "code")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.False(t, c.Authorized())

	_, state := c.AuthURL()
	tok, err := c.Exchange(ctx, state, "code")
	require.NoError(t, err)
	assert.Equal(t, "granted", tok.AccessToken)
	assert.True(t, c.Authorized())

	_, err = c.Exchange(ctx, state, "code")
	assert.ErrorIs(t, err, ErrInvalidState, "states are single use")

	_, expired := c.AuthURL()
	now = now.Add(stateTTL)
	_, err = c.Exchange(ctx, expired, "code")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestTokenFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token.json")
	cfg := Config{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb", TokenFile: path}

	c := New(cfg)
	require.NoError(t, c.SetToken(&oauth2.Token{AccessToken: "abc"}))

	reloaded := New(cfg)
	assert.True(t, reloaded.Authorized())
}

func TestListEvents(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "2026-10-19T00:00:00Z", r.URL.Query().Get("timeMin"))
		_ = json.NewEncoder(w).Encode(gcal.Events{Items: []*gcal.Event{
			{
				Id:      "e1",
				Summary: "Interview",
				Status:  "confirmed",
				Creator: &gcal.EventCreator{Email: "hr@example.com"},
				Start:   &gcal.EventDateTime{DateTime: "2026-10-19T10:00:00Z"},
				End:     &gcal.EventDateTime{DateTime: "2026-10-19T11:00:00Z"},
			},
			{Id: "e2", Start: &gcal.EventDateTime{Date: "2026-10-20"}, End: &gcal.EventDateTime{Date: "2026-10-21"}},
		}})
	})

	events, err := c.ListEvents(context.Background(), nil, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "hr@example.com", events[0].Creator)
	assert.True(t, events[0].StartTime.Equal(time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)))
	assert.True(t, events[1].StartTime.Equal(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)))
}

func TestInsertInterview(t *testing.T) {
	t.Parallel()

	var got gcal.Event
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(gcal.Event{Id: "created-1"})
	})

	id, err := c.InsertInterview(context.Background(), Interview{
		Summary:       "Interview: Asha",
		Start:         time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		AttendeeEmail: "asha@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "created-1", id)
	assert.Equal(t, "2026-10-19T11:00:00Z", got.End.DateTime, "duration defaults to an hour")
	require.Len(t, got.Attendees, 1)
	assert.Equal(t, "asha@example.com", got.Attendees[0].Email)
}

func TestInsertInterview_NotAuthorized(t *testing.T) {
	t.Parallel()

	c := New(Config{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb"})
	_, err := c.InsertInterview(context.Background(), Interview{Start: time.Now()})
	assert.ErrorIs(t, err, ErrNotAuthorized)
}
