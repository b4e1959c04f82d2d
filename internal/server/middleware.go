package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/models"
)

const userContextKey = "agencydesk.user"

// requireUser resolves the bearer token into a user and aborts with 401
// when the token is missing, unknown or expired.
func (s *Server) requireUser(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		respondStatus(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	user, err := s.store.GetUserBySession(c.Request.Context(), token)
	if err != nil {
		respondStatus(c, http.StatusUnauthorized, "invalid or expired session")
		return
	}

	c.Set(userContextKey, user)
	c.Next()
}

// requireAdmin gates admin-only operations: project creation, marking a
// project finished and quotation upload.
func (s *Server) requireAdmin(c *gin.Context) {
	user := currentUser(c)
	if user.Role != models.RoleAdmin {
		respondStatus(c, http.StatusForbidden, "admin role required")
		return
	}
	c.Next()
}

// currentUser returns the authenticated user set by requireUser.
func currentUser(c *gin.Context) models.User {
	if v, ok := c.Get(userContextKey); ok {
		if u, ok := v.(models.User); ok {
			return u
		}
	}
	return models.User{}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// canAccessProject reports whether the user may see the project: admins
// see everything, clients only their own projects.
func canAccessProject(user models.User, project models.Project) bool {
	return user.Role == models.RoleAdmin || project.ClientID == user.ID
}
