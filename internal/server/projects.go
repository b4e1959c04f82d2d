package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/dashboard"
	"agencydesk/internal/models"
	"agencydesk/internal/payments"
	"agencydesk/internal/storage/sqlite"
)

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Deadline    string `json:"deadline"`
	ClientID    string `json:"clientId"`
}

type projectUpdateRequest struct {
	Status string `json:"status"`
}

// handleListProjects returns the projects visible to the caller: all of
// them for admins, only owned ones for clients.
func (s *Server) handleListProjects(c *gin.Context) {
	user := currentUser(c)

	var (
		projects []models.Project
		err      error
	)
	if user.Role == models.RoleAdmin {
		projects, err = s.store.ListProjects(c.Request.Context())
	} else {
		projects, err = s.store.ListProjectsForClient(c.Request.Context(), user.ID)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"projects": projects})
}

// handleCreateProject creates a new ongoing project for a client.
func (s *Server) handleCreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		s.respondError(c, models.Validationf("name", "must not be empty"))
		return
	}
	category := models.Category(req.Category)
	if !category.Valid() {
		s.respondError(c, models.Validationf("category", "must be web or graphic"))
		return
	}
	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil {
		s.respondError(c, models.Validationf("deadline", "must be an RFC 3339 timestamp"))
		return
	}
	if req.ClientID == "" {
		s.respondError(c, models.Validationf("clientId", "must not be empty"))
		return
	}

	project, err := s.store.CreateProject(c.Request.Context(), sqlite.ProjectDraft{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    category,
		Deadline:    deadline,
		ClientID:    req.ClientID,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"project": project})
}

// handleGetProject returns one project when the caller may see it.
func (s *Server) handleGetProject(c *gin.Context) {
	project, ok := s.visibleProject(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"project": project})
}

// handleUpdateProject marks a project finished. That is the only project
// mutation the portal supports; finished is terminal.
func (s *Server) handleUpdateProject(c *gin.Context) {
	var req projectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if models.ProjectStatus(req.Status) != models.ProjectFinished {
		s.respondError(c, models.Validationf("status", "only finished is accepted"))
		return
	}

	project, err := s.store.MarkProjectFinished(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"project": project})
}

// projectSummary is the card payload the dashboards render per project.
type projectSummary struct {
	Project       models.Project       `json:"project"`
	Stage         models.Stage         `json:"stage"`
	Current       int                  `json:"current"`
	Total         int                  `json:"total"`
	Percent       float64              `json:"percent"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	Totals        payments.Totals      `json:"totals"`
	Deadline      dashboard.Deadline   `json:"deadline"`
}

// handleProjectSummary rolls one project's tasks, payments and deadline up
// into the card payload.
func (s *Server) handleProjectSummary(c *gin.Context) {
	project, ok := s.visibleProject(c)
	if !ok {
		return
	}

	summary, err := s.summarize(c, project)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"summary": summary})
}

func (s *Server) summarize(c *gin.Context, project models.Project) (projectSummary, error) {
	ctx := c.Request.Context()
	tasks, err := s.store.FetchTasks(ctx, project.ID)
	if err != nil {
		return projectSummary{}, err
	}
	pays, err := s.store.FetchPayments(ctx, project.ID)
	if err != nil {
		return projectSummary{}, err
	}

	stage, current, total, percent := dashboard.StageProgress(tasks)
	return projectSummary{
		Project:       project,
		Stage:         stage,
		Current:       current,
		Total:         total,
		Percent:       percent,
		PaymentStatus: dashboard.ProjectPaymentStatus(pays),
		Totals:        payments.SumTotals(pays),
		Deadline:      dashboard.ClassifyDeadline(project.Deadline, time.Now()),
	}, nil
}

// visibleProject loads the :id project and enforces the caller's access.
// A client probing another client's project gets 404, not 403, so project
// ids do not leak.
func (s *Server) visibleProject(c *gin.Context) (models.Project, bool) {
	project, err := s.store.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return models.Project{}, false
	}
	if !canAccessProject(currentUser(c), project) {
		respondStatus(c, http.StatusNotFound, "project "+project.ID+" not found")
		return models.Project{}, false
	}
	return project, true
}
