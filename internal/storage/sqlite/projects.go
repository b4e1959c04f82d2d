package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agencydesk/internal/models"
)

// ProjectDraft carries the fields an admin sets when creating a project.
type ProjectDraft struct {
	Name        string
	Description string
	Category    models.Category
	Deadline    time.Time
	ClientID    string
}

// CreateProject persists a new ongoing project for a client.
func (s *Store) CreateProject(ctx context.Context, draft ProjectDraft) (models.Project, error) {
	if _, err := s.GetUser(ctx, draft.ClientID); err != nil {
		return models.Project{}, err
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `INSERT INTO projects(id, name, description, category, deadline, status, client_id, created_at, updated_at)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, draft.Name, draft.Description, string(draft.Category), draft.Deadline, string(models.ProjectOngoing), draft.ClientID, now, now)
	if err != nil {
		return models.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return s.GetProject(ctx, id)
}

// GetProject fetches a single project by id.
func (s *Store) GetProject(ctx context.Context, id string) (models.Project, error) {
	var p models.Project
	err := s.db.QueryRowContext(ctx, `SELECT id, name, description, category, deadline, status, client_id, created_at, updated_at
        FROM projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Deadline, &p.Status, &p.ClientID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, models.NotFound("project", id)
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// ListProjects retrieves all projects ordered by creation date.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.queryProjects(ctx, `SELECT id, name, description, category, deadline, status, client_id, created_at, updated_at
        FROM projects ORDER BY created_at ASC`)
}

// ListProjectsForClient retrieves the projects owned by one client.
func (s *Store) ListProjectsForClient(ctx context.Context, clientID string) ([]models.Project, error) {
	return s.queryProjects(ctx, `SELECT id, name, description, category, deadline, status, client_id, created_at, updated_at
        FROM projects WHERE client_id = ? ORDER BY created_at ASC`, clientID)
}

// MarkProjectFinished flips a project to finished and bumps updated_at,
// which drives the "recently finished" ordering on the dashboard.
func (s *Store) MarkProjectFinished(ctx context.Context, id string) (models.Project, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE projects SET status = ?, updated_at = ? WHERE id = ?`,
		string(models.ProjectFinished), time.Now().UTC(), id)
	if err != nil {
		return models.Project{}, fmt.Errorf("finish project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Project{}, err
	}
	if affected == 0 {
		return models.Project{}, models.NotFound("project", id)
	}
	return s.GetProject(ctx, id)
}

func (s *Store) queryProjects(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Deadline, &p.Status, &p.ClientID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
