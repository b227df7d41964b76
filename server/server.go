// Package server exposes the chat service over HTTP. Authentication is out
// of scope here; the caller identity arrives in the X-User-ID header, the
// way an upstream gateway would inject it after verifying credentials.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careerpilot/careerpilot/chat"
	"github.com/careerpilot/careerpilot/logging"
)

// Options configure the HTTP server.
type Options struct {
	Logger logging.Logger
}

// Server wires the chat service into a gin engine.
type Server struct {
	svc    *chat.Service
	engine *gin.Engine
	logger logging.Logger
}

// New builds the server and registers all routes.
func New(svc *chat.Service, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{svc: svc, engine: engine, logger: opts.Logger}

	engine.GET("/healthz", s.health)

	v1 := engine.Group("/api/v1")
	v1.POST("/agent-chat/init", s.initThread)
	v1.POST("/agent-chat/message", s.message)

	return s
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error { return s.engine.Run(addr) }

// Handler exposes the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type initResponse struct {
	ThreadID string `json:"thread_id"`
}

func (s *Server) initThread(c *gin.Context) {
	c.JSON(http.StatusOK, initResponse{ThreadID: uuid.NewString()})
}

type messageRequest struct {
	ThreadID    string `json:"thread_id" binding:"required"`
	UserMessage string `json:"user_message" binding:"required"`
}

type messageResponse struct {
	Response string `json:"response"`
}

func (s *Server) message(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-ID header"})
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "thread_id and user_message are required"})
		return
	}

	reply, err := s.svc.SendTurn(c.Request.Context(), req.ThreadID, userID, req.UserMessage)
	if err != nil {
		// Fatal turn errors surface as one generic failure; details stay in
		// the logs, never in the user-visible response.
		s.logger.Error("server.turn.failed", "thread_id", req.ThreadID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
		return
	}

	c.JSON(http.StatusOK, messageResponse{Response: reply})
}
