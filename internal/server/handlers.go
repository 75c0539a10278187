package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spigell/hireflow/internal/events"
	"go.uber.org/zap"
)

const streamPollInterval = 500 * time.Millisecond

// startProcess accepts a multipart resume upload plus a phone number, kicks
// off the pipeline in the background and returns immediately.
func (s *Server) startProcess(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resume file is required"})
		return
	}

	phone := c.PostForm("phone")
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone field is required"})
		return
	}

	runID := s.newRunID()

	// The extractor dispatches on the extension, so keep it.
	tempPath := filepath.Join(s.tempDir, runID+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		s.logger.Error("saving uploaded resume", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store the uploaded file"})
		return
	}

	s.rememberRun(runID)

	go func() {
		defer os.Remove(tempPath)

		result := s.runner.Run(context.Background(), runID, tempPath, phone)
		s.logger.Info("pipeline run finished",
			zap.String("run_id", runID),
			zap.String("outcome", string(result.Outcome)),
			zap.String("reason", result.Reason),
		)
	}()

	c.JSON(http.StatusOK, gin.H{
		"status": "started",
		"file":   file.Filename,
		"run_id": runID,
	})
}

// streamLogs pushes the run's progress events as server-sent events. The run
// is selected with the ?run query parameter and defaults to the most recently
// started one.
func (s *Server) streamLogs(c *gin.Context) {
	runID := c.Query("run")
	if runID == "" {
		runID = s.currentRun()
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	lastIndex := 0

	for {
		trail := s.events.Snapshot(runID)
		for ; lastIndex < len(trail); lastIndex++ {
			c.SSEvent("message", trail[lastIndex])
		}
		c.Writer.Flush()

		select {
		case <-clientGone:
			return
		case <-time.After(streamPollInterval):
		}
	}
}

type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		Transcript string            `json:"transcript"`
		Metadata   map[string]string `json:"metadata"`
	} `json:"data"`
}

// vapiWebhook is the push-based alternative to the poller: the call platform
// posts a completed call and the pipeline re-enters at the evaluation stage.
func (s *Server) vapiWebhook(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "invalid payload"})
		return
	}

	if payload.Type != "call.completed" {
		c.JSON(http.StatusOK, gin.H{"status": "event ignored"})
		return
	}

	if payload.Data.Transcript == "" {
		c.JSON(http.StatusOK, gin.H{"status": "no transcript"})
		return
	}

	// The correlation ID round-trips through the call metadata when the
	// placement side supplied one.
	runID := payload.Data.Metadata["runId"]
	if runID == "" {
		runID = s.newRunID()
		s.events.Start(runID)
	}

	s.events.Append(runID, events.Event{
		Stage:   "Webhook",
		Message: "Call completed event received",
		Status:  events.StatusUpdate,
	})

	if err := s.runner.HandleTranscript(c.Request.Context(), runID, payload.Data.Transcript); err != nil {
		s.logger.Error("webhook evaluation failed", zap.String("run_id", runID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "evaluation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "evaluation completed"})
}
