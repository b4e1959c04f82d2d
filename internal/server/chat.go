package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/models"
	"agencydesk/internal/storage/sqlite"
)

type messageRequest struct {
	Content       string `json:"content"`
	Type          string `json:"type"`
	AttachmentURL string `json:"attachmentUrl"`
	ReplyTo       string `json:"replyTo"`
}

// handleListMessages returns a project's chat in send order.
func (s *Server) handleListMessages(c *gin.Context) {
	project, ok := s.visibleProject(c)
	if !ok {
		return
	}

	messages, err := s.store.ListMessages(c.Request.Context(), project.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"messages": messages})
}

// handleSendMessage appends a chat message to a project. Text messages
// need content; image and document messages need an attachment.
func (s *Server) handleSendMessage(c *gin.Context) {
	project, ok := s.visibleProject(c)
	if !ok {
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	typ := models.MessageType(req.Type)
	if typ == "" {
		typ = models.MessageText
	}
	if !typ.Valid() {
		s.respondError(c, models.Validationf("type", "unknown message type %q", req.Type))
		return
	}
	if typ == models.MessageText && strings.TrimSpace(req.Content) == "" {
		s.respondError(c, models.Validationf("content", "must not be empty"))
		return
	}
	if typ != models.MessageText && req.AttachmentURL == "" {
		s.respondError(c, models.Validationf("attachmentUrl", "required for %s messages", typ))
		return
	}

	user := currentUser(c)
	message, err := s.store.AppendMessage(c.Request.Context(), sqlite.MessageDraft{
		ProjectID:     project.ID,
		SenderID:      user.ID,
		SenderName:    user.Name,
		SenderRole:    user.Role,
		Content:       req.Content,
		Type:          typ,
		AttachmentURL: req.AttachmentURL,
		ReplyTo:       req.ReplyTo,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"message": message})
}
