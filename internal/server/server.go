// Package server exposes the portal's REST API: auth, projects, the
// kanban board, payment reconciliation, chat and dashboard rollups.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/models"
	"agencydesk/internal/storage/sqlite"
)

// Server provides HTTP handlers for the portal backend.
type Server struct {
	engine     *gin.Engine
	store      *sqlite.Store
	logger     *slog.Logger
	staticDir  string
	sessionTTL time.Duration
}

// Options tunes the server beyond its required collaborators.
type Options struct {
	StaticDir  string
	SessionTTL time.Duration
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *sqlite.Store, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api"))

	srv := &Server{
		engine:     router,
		store:      store,
		logger:     logger,
		staticDir:  opts.StaticDir,
		sessionTTL: opts.SessionTTL,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		auth := api.Group("/auth")
		{
			auth.POST("/register", s.handleRegister)
			auth.POST("/login", s.handleLogin)
			auth.POST("/logout", s.requireUser, s.handleLogout)
			auth.GET("/me", s.requireUser, s.handleMe)
		}

		authed := api.Group("", s.requireUser)

		projects := authed.Group("/projects")
		{
			projects.GET("", s.handleListProjects)
			projects.POST("", s.requireAdmin, s.handleCreateProject)
			projects.GET(":id", s.handleGetProject)
			projects.PUT(":id", s.requireAdmin, s.handleUpdateProject)
			projects.GET(":id/summary", s.handleProjectSummary)

			projects.POST(":id/tasks", s.handleCreateTask)

			projects.GET(":id/payments", s.handleListPayments)
			projects.POST(":id/payments", s.requireAdmin, s.handleCreateQuotation)
			projects.GET(":id/payments/summary", s.handlePaymentSummary)

			projects.GET(":id/chat", s.handleListMessages)
			projects.POST(":id/chat", s.handleSendMessage)
		}

		// The board UI fetches its columns through the kanban prefix.
		authed.GET("/kanban/:id/tasks", s.handleListTasks)

		authed.PUT("/tasks/:id", s.handleMoveTask)
		authed.POST("/tasks/:id/comments", s.handleAddComment)

		authed.POST("/payments/:id/receipts", s.handleAddReceipt)

		authed.GET("/dashboard", s.handleDashboard)
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError logs the error and returns a JSON payload with a status
// derived from the error kind: validation 400, missing entity 404, bad
// credentials 401, anything else 500.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var validation *models.ValidationError
	var notFound *models.NotFoundError
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.Is(err, sqlite.ErrBadCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondStatus returns a fixed-status JSON error without error mapping.
func respondStatus(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
