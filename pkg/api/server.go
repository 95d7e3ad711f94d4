// Package api is the thin HTTP surface over the submission queue: submit a
// run, poll its status, and a health check. It is not a UI — front-ends
// (CLI, Gradio, whatever) are consumers of these endpoints, out of scope
// here.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/webqa-agent/webqa-engine/pkg/queue"
)

// Server wraps a gin.Engine wired to a submission Queue and Worker.
type Server struct {
	engine *gin.Engine
	queue  *queue.Queue
	worker *queue.Worker
}

// NewServer builds the API server bound to q/worker.
func NewServer(q *queue.Queue, worker *queue.Worker) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{engine: engine, queue: q, worker: worker}
	s.setupRoutes()
	return s
}

// Engine exposes the underlying gin.Engine (e.g. for http.ListenAndServe).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.POST("/api/v1/runs", s.handleSubmit)
	s.engine.GET("/api/v1/runs/:task_id", s.handleStatus)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type submitRequest struct {
	queue.Submission
	UserInfo queue.UserInfo `json:"user_info,omitempty"`
}

type submitResponse struct {
	TaskID   string `json:"task_id"`
	Position int    `json:"position"`
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TargetURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_url is required"})
		return
	}

	taskID := uuid.NewString()
	position := s.queue.AddTask(taskID, req.UserInfo)
	s.worker.SetSubmission(taskID, req.Submission)

	c.JSON(http.StatusAccepted, submitResponse{TaskID: taskID, Position: position})
}

func (s *Server) handleStatus(c *gin.Context) {
	taskID := c.Param("task_id")
	status := s.queue.GetTaskStatus(taskID)
	if status.Status == queue.StatusNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// Run starts the HTTP server and the queue-draining worker, blocking until
// ctx is cancelled.
func Run(ctx context.Context, s *Server, worker *queue.Worker, addr string) error {
	go worker.Start(ctx)

	srv := &http.Server{Addr: addr, Handler: s.Engine()}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
