package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agencydesk/internal/board"
	"agencydesk/internal/models"
)

// FetchTasks returns a project's tasks in creation order with their
// comments attached.
func (s *Store) FetchTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, project_id, title, description, stage, created_by, resources, created_at
        FROM tasks WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachComments(ctx, projectID, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask inserts a new task for a project.
func (s *Store) CreateTask(ctx context.Context, projectID string, draft board.TaskDraft) (models.Task, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return models.Task{}, err
	}
	stage := draft.Stage
	if stage == "" {
		stage = models.StageToDo
	}
	resources, err := json.Marshal(resourcesOrEmpty(draft.Resources))
	if err != nil {
		return models.Task{}, fmt.Errorf("encode resources: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `INSERT INTO tasks(id, project_id, title, description, stage, created_by, resources, created_at)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		id, projectID, draft.Title, draft.Description, string(stage), draft.CreatedBy, string(resources), now)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(ctx, id)
}

// GetTask retrieves a task by id, comments included.
func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, project_id, title, description, stage, created_by, resources, created_at
        FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, models.NotFound("task", id)
	}
	if err != nil {
		return models.Task{}, err
	}

	comments, err := s.taskComments(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	t.Comments = comments
	return t, nil
}

// UpdateTaskStage moves a task onto another board column. Moving a task
// onto its current column succeeds without changing anything.
func (s *Store) UpdateTaskStage(ctx context.Context, taskID string, stage models.Stage) (models.Task, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET stage = ? WHERE id = ?`, string(stage), taskID)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task stage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Task{}, err
	}
	if affected == 0 {
		return models.Task{}, models.NotFound("task", taskID)
	}
	return s.GetTask(ctx, taskID)
}

// AppendComment adds a comment to a task and returns the task with the
// comment appended. Comments are never updated or removed.
func (s *Store) AppendComment(ctx context.Context, taskID string, draft board.CommentDraft) (models.Task, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return models.Task{}, err
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `INSERT INTO task_comments(id, task_id, content, author, type, created_at)
        VALUES(?, ?, ?, ?, ?, ?)`,
		id, taskID, draft.Content, draft.Author, string(draft.Type), now)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert comment: %w", err)
	}
	return s.GetTask(ctx, taskID)
}

func (s *Store) taskComments(ctx context.Context, taskID string) ([]models.TaskComment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, task_id, content, author, type, created_at
        FROM task_comments WHERE task_id = ? ORDER BY created_at, id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.TaskComment{}
	for rows.Next() {
		var c models.TaskComment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Content, &c.Author, &c.Type, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// attachComments loads every comment for a project in one query and
// distributes them over the task slice.
func (s *Store) attachComments(ctx context.Context, projectID string, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT c.id, c.task_id, c.content, c.author, c.type, c.created_at
        FROM task_comments c
        JOIN tasks t ON t.id = c.task_id
        WHERE t.project_id = ?
        ORDER BY c.created_at, c.id`, projectID)
	if err != nil {
		return fmt.Errorf("list project comments: %w", err)
	}
	defer rows.Close()

	byTask := make(map[string][]models.TaskComment)
	for rows.Next() {
		var c models.TaskComment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Content, &c.Author, &c.Type, &c.CreatedAt); err != nil {
			return fmt.Errorf("scan comment: %w", err)
		}
		byTask[c.TaskID] = append(byTask[c.TaskID], c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range tasks {
		if cs, ok := byTask[tasks[i].ID]; ok {
			tasks[i].Comments = cs
		} else {
			tasks[i].Comments = []models.TaskComment{}
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	var resources string
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Stage, &t.CreatedBy, &resources, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, err
		}
		return models.Task{}, fmt.Errorf("scan task: %w", err)
	}
	if err := json.Unmarshal([]byte(resources), &t.Resources); err != nil {
		return models.Task{}, fmt.Errorf("decode resources: %w", err)
	}
	t.Comments = []models.TaskComment{}
	return t, nil
}

func resourcesOrEmpty(r []string) []string {
	if r == nil {
		return []string{}
	}
	return r
}
