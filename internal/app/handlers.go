package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"interview-scheduler/internal/models"
	"interview-scheduler/internal/slots"
	"interview-scheduler/internal/store"
)

// fail maps store errors onto HTTP statuses.
func (a *App) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrSlotUnavailable), errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		a.log().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GET /health
func (a *App) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": a.clock().UTC()})
}

type createJobReq struct {
	Title          string      `json:"title" binding:"required"`
	Description    string      `json:"description"`
	Requirements   string      `json:"requirements"`
	AvailableSlots []time.Time `json:"available_slots"`
}

// POST /api/jobs
func (a *App) CreateJobHandler(c *gin.Context) {
	var req createJobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job := models.Job{
		Title:          req.Title,
		Description:    req.Description,
		Requirements:   req.Requirements,
		AvailableSlots: req.AvailableSlots,
	}
	if err := a.Store.CreateJob(c.Request.Context(), &job); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// GET /api/jobs
func (a *App) ListJobsHandler(c *gin.Context) {
	jobs, err := a.Store.ListJobs(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GET /api/jobs/:id
func (a *App) GetJobHandler(c *gin.Context) {
	job, err := a.Store.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

type updateJobReq struct {
	Title        *string `json:"title" binding:"omitempty,min=1"`
	Description  *string `json:"description"`
	Requirements *string `json:"requirements"`
}

// PUT /api/jobs/:id
func (a *App) UpdateJobHandler(c *gin.Context) {
	var req updateJobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := models.JobFields{Title: req.Title, Description: req.Description, Requirements: req.Requirements}
	if fields.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	job, err := a.Store.UpdateJob(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// DELETE /api/jobs/:id
func (a *App) DeleteJobHandler(c *gin.Context) {
	if err := a.Store.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		a.fail(c, err)
		return
	}
	a.log().Info("job deleted", zap.String("job", c.Param("id")))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type addSlotsReq struct {
	Slots []time.Time `json:"slots" binding:"required,min=1"`
}

// POST /api/jobs/:id/slots
func (a *App) AddSlotsHandler(c *gin.Context) {
	var req addSlotsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	available, err := a.Store.AddSlots(c.Request.Context(), c.Param("id"), req.Slots...)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available_slots": available})
}

// DELETE /api/jobs/:id/slots?slot=ISO
func (a *App) RemoveSlotHandler(c *gin.Context) {
	slot, err := time.Parse(time.RFC3339, c.Query("slot"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot required (ISO8601)"})
		return
	}
	ctx := c.Request.Context()
	if err := a.Store.RemoveSlot(ctx, c.Param("id"), slot); err != nil {
		a.fail(c, err)
		return
	}
	available, err := a.Store.GetAvailableSlots(ctx, c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available_slots": available})
}

type generateSlotsReq struct {
	Windows []slots.Window `json:"windows" binding:"required,min=1,dive"`
	From    time.Time      `json:"from" binding:"required"`
	To      time.Time      `json:"to" binding:"required"`
}

// POST /api/jobs/:id/slots/generate
func (a *App) GenerateSlotsHandler(c *gin.Context) {
	var req generateSlotsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.From.Before(req.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be before to"})
		return
	}
	added, available, err := a.GenerateSlots(c.Request.Context(), c.Param("id"), req.Windows, req.From, req.To)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "available_slots": available})
}

type createCandidateReq struct {
	Name         string   `json:"name" binding:"required"`
	Phone        string   `json:"phone" binding:"required"`
	Email        string   `json:"email" binding:"omitempty,email"`
	CurrentCTC   *float64 `json:"current_ctc"`
	ExpectedCTC  *float64 `json:"expected_ctc"`
	NoticePeriod *int     `json:"notice_period"`
	Experience   *float64 `json:"experience"`
}

// POST /api/candidates
func (a *App) CreateCandidateHandler(c *gin.Context) {
	var req createCandidateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cand := models.Candidate{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		CurrentCTC:   req.CurrentCTC,
		ExpectedCTC:  req.ExpectedCTC,
		NoticePeriod: req.NoticePeriod,
		Experience:   req.Experience,
	}
	if err := a.Store.CreateCandidate(c.Request.Context(), &cand); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cand)
}

// GET /api/candidates
func (a *App) ListCandidatesHandler(c *gin.Context) {
	cands, err := a.Store.ListCandidates(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cands)
}

// GET /api/candidates/:id
func (a *App) GetCandidateHandler(c *gin.Context) {
	cand, err := a.Store.GetCandidate(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cand)
}

type updateCandidateReq struct {
	Name         *string  `json:"name" binding:"omitempty,min=1"`
	Phone        *string  `json:"phone" binding:"omitempty,min=1"`
	Email        *string  `json:"email" binding:"omitempty,email"`
	CurrentCTC   *float64 `json:"current_ctc"`
	ExpectedCTC  *float64 `json:"expected_ctc"`
	NoticePeriod *int     `json:"notice_period"`
	Experience   *float64 `json:"experience"`
	Status       *string  `json:"status"`
}

// PUT /api/candidates/:id
func (a *App) UpdateCandidateHandler(c *gin.Context) {
	var req updateCandidateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := models.CandidateFields{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Experience:   req.Experience,
		NoticePeriod: req.NoticePeriod,
		CurrentCTC:   req.CurrentCTC,
		ExpectedCTC:  req.ExpectedCTC,
	}
	if req.Status != nil {
		st, ok := models.ParseCandidateStatus(*req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		fields.Status = &st
	}
	if fields.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	ctx := c.Request.Context()
	if err := a.Store.UpdateCandidateFields(ctx, c.Param("id"), fields); err != nil {
		a.fail(c, err)
		return
	}
	cand, err := a.Store.GetCandidate(ctx, c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cand)
}

// DELETE /api/candidates/:id
func (a *App) DeleteCandidateHandler(c *gin.Context) {
	if err := a.Store.DeleteCandidate(c.Request.Context(), c.Param("id")); err != nil {
		a.fail(c, err)
		return
	}
	a.log().Info("candidate deleted", zap.String("candidate", c.Param("id")))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type createAppointmentReq struct {
	JobID       string    `json:"job_id" binding:"required"`
	CandidateID string    `json:"candidate_id" binding:"required"`
	DateTime    time.Time `json:"date_time" binding:"required"`
}

// POST /api/appointments
func (a *App) CreateAppointmentHandler(c *gin.Context) {
	var req createAppointmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	appt, err := a.BookAppointment(c.Request.Context(), req.JobID, req.CandidateID, req.DateTime)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// GET /api/appointments?job_id=&candidate_id=
func (a *App) ListAppointmentsHandler(c *gin.Context) {
	appts, err := a.Store.ListAppointments(c.Request.Context(), store.AppointmentFilter{
		JobID:       c.Query("job_id"),
		CandidateID: c.Query("candidate_id"),
	})
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

// GET /api/appointments/:id
func (a *App) GetAppointmentHandler(c *gin.Context) {
	appt, err := a.Store.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

type updateAppointmentReq struct {
	DateTime *time.Time `json:"date_time"`
	Status   *string    `json:"status"`
}

// PUT /api/appointments/:id
// A new date_time reschedules; a status change may free or re-take the slot.
func (a *App) UpdateAppointmentHandler(c *gin.Context) {
	var req updateAppointmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DateTime == nil && req.Status == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_time or status required"})
		return
	}

	u := store.AppointmentUpdate{DateTime: req.DateTime}
	if req.Status != nil {
		st, ok := models.ParseAppointmentStatus(*req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		u.Status = &st
	}

	appt, err := a.UpdateAppointment(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// DELETE /api/appointments/:id
func (a *App) DeleteAppointmentHandler(c *gin.Context) {
	if err := a.DeleteAppointment(c.Request.Context(), c.Param("id")); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
