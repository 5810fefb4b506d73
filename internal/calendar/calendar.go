// Package calendar mirrors booked interviews into Google Calendar.
package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ErrNotAuthorized means no OAuth token has been granted yet.
var ErrNotAuthorized = errors.New("google calendar not authorized")

// ErrInvalidState means the callback state was never issued, was already used,
// or has expired.
var ErrInvalidState = errors.New("unknown or expired oauth state")

const stateTTL = 10 * time.Minute

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// TokenFile persists the granted token between restarts. Empty keeps it in memory only.
	TokenFile  string
	CalendarID string
}

// Event is a calendar entry in the shape the API returns.
type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status"`
	Creator     string    `json:"creator,omitempty"`
}

// Interview describes the event created for a booked appointment.
type Interview struct {
	Summary       string
	Description   string
	Start         time.Time
	Duration      time.Duration
	AttendeeEmail string
}

type Client struct {
	oauth      *oauth2.Config
	tokenFile  string
	calendarID string
	// endpoint overrides the API base URL in tests.
	endpoint string
	now      func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
	// states maps issued OAuth states to their expiry.
	states map[string]time.Time
}

// New returns nil when the OAuth client is not configured.
func New(cfg Config) *Client {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil
	}
	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	c := &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{gcal.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
		tokenFile:  cfg.TokenFile,
		calendarID: calendarID,
		now:        time.Now,
		states:     make(map[string]time.Time),
	}
	c.token, _ = c.loadToken()
	return c
}

// AuthURL starts the consent flow under a fresh single-use state.
func (c *Client) AuthURL() (authURL, state string) {
	state = uuid.NewString()
	now := c.now()

	c.mu.Lock()
	for s, exp := range c.states {
		if !now.Before(exp) {
			delete(c.states, s)
		}
	}
	c.states[state] = now.Add(stateTTL)
	c.mu.Unlock()

	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline), state
}

func (c *Client) consumeState(state string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp, ok := c.states[state]
	delete(c.states, state)
	return ok && c.now().Before(exp)
}

// Exchange trades an authorization code for a token and keeps it. The state
// must come from AuthURL.
func (c *Client) Exchange(ctx context.Context, state, code string) (*oauth2.Token, error) {
	if !c.consumeState(state) {
		return nil, ErrInvalidState
	}
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	if err := c.SetToken(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// SetToken stores tok and persists it when a token file is configured.
func (c *Client) SetToken(tok *oauth2.Token) error {
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()

	if c.tokenFile == "" {
		return nil
	}
	b, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.tokenFile, b, 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Authorized reports whether a token is available.
func (c *Client) Authorized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != nil
}

func (c *Client) loadToken() (*oauth2.Token, error) {
	if c.tokenFile == "" {
		return nil, ErrNotAuthorized
	}
	b, err := os.ReadFile(c.tokenFile)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}
	return &tok, nil
}

// service builds a Calendar service. A nil tok uses the stored token.
func (c *Client) service(ctx context.Context, tok *oauth2.Token) (*gcal.Service, error) {
	if tok == nil {
		c.mu.Lock()
		tok = c.token
		c.mu.Unlock()
	}
	if tok == nil {
		return nil, ErrNotAuthorized
	}

	opts := []option.ClientOption{option.WithHTTPClient(c.oauth.Client(ctx, tok))}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return srv, nil
}

// ListEvents returns events in [timeMin, timeMax). Zero bounds are open.
func (c *Client) ListEvents(ctx context.Context, tok *oauth2.Token, timeMin, timeMax time.Time) ([]Event, error) {
	srv, err := c.service(ctx, tok)
	if err != nil {
		return nil, err
	}

	call := srv.Events.List(c.calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250).
		Context(ctx)
	if !timeMin.IsZero() {
		call = call.TimeMin(timeMin.Format(time.RFC3339))
	}
	if !timeMax.IsZero() {
		call = call.TimeMax(timeMax.Format(time.RFC3339))
	}

	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	out := make([]Event, 0, len(res.Items))
	for _, item := range res.Items {
		out = append(out, toEvent(item))
	}
	return out, nil
}

// InsertInterview creates the calendar event for a booked interview.
func (c *Client) InsertInterview(ctx context.Context, in Interview) (string, error) {
	srv, err := c.service(ctx, nil)
	if err != nil {
		return "", err
	}
	if in.Duration <= 0 {
		in.Duration = time.Hour
	}

	ev := &gcal.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Start:       &gcal.EventDateTime{DateTime: in.Start.UTC().Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: in.Start.Add(in.Duration).UTC().Format(time.RFC3339)},
	}
	if in.AttendeeEmail != "" {
		ev.Attendees = []*gcal.EventAttendee{{Email: in.AttendeeEmail}}
	}

	created, err := srv.Events.Insert(c.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return created.Id, nil
}

func toEvent(item *gcal.Event) Event {
	e := Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		Status:      item.Status,
	}
	if item.Creator != nil {
		e.Creator = item.Creator.Email
	}
	e.StartTime = parseEventTime(item.Start)
	e.EndTime = parseEventTime(item.End)
	return e
}

// parseEventTime handles both timed and all-day entries.
func parseEventTime(dt *gcal.EventDateTime) time.Time {
	if dt == nil {
		return time.Time{}
	}
	if dt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			return t
		}
	}
	if dt.Date != "" {
		if t, err := time.Parse("2006-01-02", dt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
