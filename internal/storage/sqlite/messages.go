package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agencydesk/internal/models"
)

// MessageDraft carries the fields of a new chat message.
type MessageDraft struct {
	ProjectID     string
	SenderID      string
	SenderName    string
	SenderRole    models.Role
	Content       string
	Type          models.MessageType
	AttachmentURL string
	ReplyTo       string
}

// AppendMessage stores a chat message on a project.
func (s *Store) AppendMessage(ctx context.Context, draft MessageDraft) (models.Message, error) {
	if _, err := s.GetProject(ctx, draft.ProjectID); err != nil {
		return models.Message{}, err
	}

	typ := draft.Type
	if typ == "" {
		typ = models.MessageText
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `INSERT INTO messages(id, project_id, sender_id, sender_name, sender_role, content, type, attachment_url, reply_to, created_at)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, draft.ProjectID, draft.SenderID, draft.SenderName, string(draft.SenderRole), draft.Content, string(typ), draft.AttachmentURL, draft.ReplyTo, now)
	if err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}

	var m models.Message
	err = s.db.QueryRowContext(ctx, `SELECT id, project_id, sender_id, sender_name, sender_role, content, type, attachment_url, reply_to, created_at
        FROM messages WHERE id = ?`, id).
		Scan(&m.ID, &m.ProjectID, &m.SenderID, &m.SenderName, &m.SenderRole, &m.Content, &m.Type, &m.AttachmentURL, &m.ReplyTo, &m.CreatedAt)
	if err != nil {
		return models.Message{}, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}

// ListMessages returns a project's chat in send order.
func (s *Store) ListMessages(ctx context.Context, projectID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, project_id, sender_id, sender_name, sender_role, content, type, attachment_url, reply_to, created_at
        FROM messages WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.SenderID, &m.SenderName, &m.SenderRole, &m.Content, &m.Type, &m.AttachmentURL, &m.ReplyTo, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
