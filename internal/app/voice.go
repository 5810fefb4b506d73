package app

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxAudioBytes caps uploaded candidate audio.
const maxAudioBytes = 10 << 20

type startCallReq struct {
	CandidateID string `json:"candidate_id" binding:"required"`
	JobID       string `json:"job_id" binding:"required"`
}

// POST /api/voice-agent/call
func (a *App) StartCallHandler(c *gin.Context) {
	var req startCallReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	call, err := a.StartCall(c.Request.Context(), req.CandidateID, req.JobID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

// POST /api/voice-agent/process
func (a *App) ProcessHandler(c *gin.Context) {
	var req TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := a.ProcessTurn(c.Request.Context(), req)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/voice-agent/process-audio (multipart: audio, conversation_id, current_question)
func (a *App) ProcessAudioHandler(c *gin.Context) {
	var req TurnRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fh, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file required"})
		return
	}
	if fh.Size > maxAudioBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "audio too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	audio, err := io.ReadAll(io.LimitReader(f, maxAudioBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	text, err := a.transcriber().Transcribe(ctx, audio)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	req.UserResponse = text

	res, err := a.ProcessTurn(ctx, req)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcript": text, "result": res})
}

type speakReq struct {
	Text string `json:"text" binding:"required"`
}

// POST /api/voice-agent/speak
func (a *App) SpeakHandler(c *gin.Context) {
	var req speakReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	audio, contentType, err := a.synthesizer().Synthesize(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, contentType, audio)
}

// GET /api/voice-agent/conversations/:id
func (a *App) GetConversationHandler(c *gin.Context) {
	conv, err := a.Store.GetConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}
