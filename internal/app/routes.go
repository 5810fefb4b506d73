package app

import (
	"github.com/gin-gonic/gin"
)

// Routes registers every endpoint on router. Health and the OAuth callback
// stay outside auth.
func (a *App) Routes(router *gin.Engine, auth gin.HandlerFunc) {
	router.GET("/health", a.HealthHandler)
	router.GET("/oauth2callback", a.GoogleOAuth2CallbackHandler)

	api := router.Group("/api")
	if auth != nil {
		api.Use(auth)
	}
	{
		voice := api.Group("/voice-agent")
		{
			voice.POST("/call", a.StartCallHandler)
			voice.POST("/process", a.ProcessHandler)
			voice.POST("/process-audio", a.ProcessAudioHandler)
			voice.POST("/speak", a.SpeakHandler)
			voice.GET("/conversations/:id", a.GetConversationHandler)
		}

		jobs := api.Group("/jobs")
		{
			jobs.POST("", a.CreateJobHandler)
			jobs.GET("", a.ListJobsHandler)
			jobs.GET("/:id", a.GetJobHandler)
			jobs.PUT("/:id", a.UpdateJobHandler)
			jobs.DELETE("/:id", a.DeleteJobHandler)
			jobs.POST("/:id/slots", a.AddSlotsHandler)
			jobs.DELETE("/:id/slots", a.RemoveSlotHandler)
			jobs.POST("/:id/slots/generate", a.GenerateSlotsHandler)
		}

		candidates := api.Group("/candidates")
		{
			candidates.POST("", a.CreateCandidateHandler)
			candidates.GET("", a.ListCandidatesHandler)
			candidates.GET("/:id", a.GetCandidateHandler)
			candidates.PUT("/:id", a.UpdateCandidateHandler)
			candidates.DELETE("/:id", a.DeleteCandidateHandler)
		}

		appointments := api.Group("/appointments")
		{
			appointments.POST("", a.CreateAppointmentHandler)
			appointments.GET("", a.ListAppointmentsHandler)
			appointments.GET("/:id", a.GetAppointmentHandler)
			appointments.PUT("/:id", a.UpdateAppointmentHandler)
			appointments.DELETE("/:id", a.DeleteAppointmentHandler)
		}

		calendar := api.Group("/calendar")
		{
			calendar.GET("/auth", a.GoogleAuthHandler)
			calendar.GET("/events", a.GetGoogleCalendarEvents)
		}
	}
}

// NewRouter builds the gin engine with recovery, request logging and auth.
func NewRouter(a *App, auth gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(a.Logger))
	a.Routes(router, auth)
	return router
}
