package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"interview-scheduler/internal/calendar"
)

func (a *App) calendarConfigured(c *gin.Context) bool {
	if a.Calendar == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Calendar not configured"})
		return false
	}
	return true
}

// GET /api/calendar/auth
func (a *App) GoogleAuthHandler(c *gin.Context) {
	if !a.calendarConfigured(c) {
		return
	}
	authURL, state := a.Calendar.AuthURL()
	c.JSON(http.StatusOK, gin.H{
		"auth_url": authURL,
		"state":    state,
	})
}

// GET /oauth2callback
// Only states issued by GoogleAuthHandler are accepted. The granted token is kept by the calendar client; booked interviews are
// mirrored into the calendar from then on.
func (a *App) GoogleOAuth2CallbackHandler(c *gin.Context) {
	if !a.calendarConfigured(c) {
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}
	_, err := a.Calendar.Exchange(c.Request.Context(), c.Query("state"), code)
	if errors.Is(err, calendar.ErrInvalidState) {
		a.log().Warn("oauth callback with unknown state")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		a.log().Warn("oauth exchange failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to exchange code for token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Authorization successful",
		"state":   c.Query("state"),
	})
}

// GET /api/calendar/events?time_min=ISO&time_max=ISO
// An X-Google-Token header (JSON oauth2 token) overrides the stored token.
func (a *App) GetGoogleCalendarEvents(c *gin.Context) {
	if !a.calendarConfigured(c) {
		return
	}

	var tok *oauth2.Token
	if raw := c.GetHeader("X-Google-Token"); raw != "" {
		tok = new(oauth2.Token)
		if err := json.Unmarshal([]byte(raw), tok); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token format"})
			return
		}
	}

	var timeMin, timeMax time.Time
	var err error
	if s := c.Query("time_min"); s != "" {
		if timeMin, err = time.Parse(time.RFC3339, s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time_min"})
			return
		}
	}
	if s := c.Query("time_max"); s != "" {
		if timeMax, err = time.Parse(time.RFC3339, s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time_max"})
			return
		}
	}

	events, err := a.Calendar.ListEvents(c.Request.Context(), tok, timeMin, timeMax)
	if errors.Is(err, calendar.ErrNotAuthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		a.log().Error("list calendar events", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}
