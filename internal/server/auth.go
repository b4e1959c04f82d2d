package server

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister creates a client account. Admin accounts are provisioned
// through configuration, never via the public API.
func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		s.respondError(c, models.Validationf("name", "must not be empty"))
		return
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		s.respondError(c, models.Validationf("email", "not a valid address"))
		return
	}
	if len(req.Password) < 8 {
		s.respondError(c, models.Validationf("password", "must be at least 8 characters"))
		return
	}

	user, err := s.store.CreateUser(c.Request.Context(), req.Name, req.Email, req.Password, models.RoleClient)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"user": user})
}

// handleLogin checks credentials and issues a bearer session token.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := s.store.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	sess, err := s.store.CreateSession(c.Request.Context(), user.ID, s.sessionTTL)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"token": sess.Token, "expiresAt": sess.ExpiresAt, "user": user})
}

// handleLogout revokes the presented session token.
func (s *Server) handleLogout(c *gin.Context) {
	if err := s.store.DeleteSession(c.Request.Context(), bearerToken(c)); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "logged out"})
}

// handleMe returns the authenticated user.
func (s *Server) handleMe(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"user": currentUser(c)})
}
