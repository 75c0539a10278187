// Package server exposes the pipeline over HTTP: a multipart trigger that
// starts a run in the background, a server-sent-events stream of run
// progress, and the call-platform webhook that re-enters the evaluation
// stage when the platform pushes a completed call.
package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spigell/hireflow/internal/events"
	"github.com/spigell/hireflow/internal/pipeline"
	"go.uber.org/zap"
)

// Runner is the orchestrator surface the HTTP layer needs.
type Runner interface {
	Run(ctx context.Context, runID, resumePath, phone string) *pipeline.Result
	HandleTranscript(ctx context.Context, runID, transcript string) error
}

// Server wires the HTTP routes to a pipeline runner.
type Server struct {
	runner  Runner
	events  *events.Log
	logger  *zap.Logger
	tempDir string

	mu        sync.Mutex
	lastRunID string
}

func New(runner Runner, eventLog *events.Log, tempDir string, logger *zap.Logger) *Server {
	return &Server{
		runner:  runner,
		events:  eventLog,
		logger:  logger,
		tempDir: tempDir,
	}
}

// Engine builds the gin engine with all routes attached.
func (s *Server) Engine() *gin.Engine {
	g := gin.New()
	g.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"*"}
	g.Use(cors.New(corsCfg))

	g.POST("/start-process", s.startProcess)
	g.GET("/stream-logs", s.streamLogs)
	g.POST("/vapi-webhook", s.vapiWebhook)

	return g
}

// Serve runs the HTTP server until the context is canceled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Engine(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

func (s *Server) rememberRun(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRunID = runID
}

func (s *Server) currentRun() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunID
}

func (s *Server) newRunID() string {
	return uuid.NewString()
}
