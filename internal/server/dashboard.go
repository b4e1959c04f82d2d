package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/dashboard"
	"agencydesk/internal/models"
)

// handleDashboard aggregates the landing-page payload. Admins get every
// project plus the agency-wide counters; clients get their own projects
// with the same card rollups.
func (s *Server) handleDashboard(c *gin.Context) {
	user := currentUser(c)
	ctx := c.Request.Context()

	var (
		projects []models.Project
		err      error
	)
	if user.Role == models.RoleAdmin {
		projects, err = s.store.ListProjects(ctx)
	} else {
		projects, err = s.store.ListProjectsForClient(ctx, user.ID)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}

	var (
		ongoing           []projectSummary
		finishedProjects  []models.Project
		paymentsByProject = make(map[string][]models.Payment, len(projects))
	)
	for _, p := range projects {
		pays, err := s.store.FetchPayments(ctx, p.ID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		paymentsByProject[p.ID] = pays

		if p.Status == models.ProjectFinished {
			finishedProjects = append(finishedProjects, p)
			continue
		}
		summary, err := s.summarize(c, p)
		if err != nil {
			s.respondError(c, err)
			return
		}
		ongoing = append(ongoing, summary)
	}

	// Recently finished first.
	var finished []projectSummary
	for _, p := range dashboard.SortFinished(finishedProjects) {
		summary, err := s.summarize(c, p)
		if err != nil {
			s.respondError(c, err)
			return
		}
		finished = append(finished, summary)
	}

	payload := gin.H{
		"ongoing":  ongoing,
		"finished": finished,
	}

	if user.Role == models.RoleAdmin {
		clients, err := s.store.ListClients(ctx)
		if err != nil {
			s.respondError(c, err)
			return
		}
		payload["stats"] = dashboard.ComputeStats(projects, len(clients), paymentsByProject)
		payload["clients"] = clients
	}

	respondSuccess(c, http.StatusOK, payload)
}
