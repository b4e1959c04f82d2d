// Package board is the kanban task model for a single project. A Board
// mirrors the task list as last confirmed by the persistence collaborator:
// mutations are sent to the store first and the local snapshot is only
// updated once the store acknowledges the write, so a failed call never
// leaves a half-applied board. Two callers racing on the same task are not
// coordinated here; the last write to reach the store wins.
package board

import (
	"context"
	"fmt"
	"strings"

	"agencydesk/internal/dashboard"
	"agencydesk/internal/models"
)

// TaskStore is the persistence collaborator behind a Board.
type TaskStore interface {
	FetchTasks(ctx context.Context, projectID string) ([]models.Task, error)
	CreateTask(ctx context.Context, projectID string, draft TaskDraft) (models.Task, error)
	UpdateTaskStage(ctx context.Context, taskID string, stage models.Stage) (models.Task, error)
	AppendComment(ctx context.Context, taskID string, draft CommentDraft) (models.Task, error)
}

// TaskDraft carries the fields set when a task is created.
type TaskDraft struct {
	Title       string
	Description string
	Stage       models.Stage
	CreatedBy   string
	Resources   []string
}

// CommentDraft carries the fields of a new task comment.
type CommentDraft struct {
	Content string
	Author  string
	Type    models.CommentType
}

// Board holds one project's confirmed task snapshot.
type Board struct {
	store     TaskStore
	projectID string
	tasks     []models.Task
}

// New builds a board with an empty snapshot. Call Refresh to load.
func New(store TaskStore, projectID string) *Board {
	return &Board{store: store, projectID: projectID}
}

// ProjectID returns the project this board mirrors.
func (b *Board) ProjectID() string { return b.projectID }

// Refresh replaces the snapshot with the store's current task list.
func (b *Board) Refresh(ctx context.Context) error {
	tasks, err := b.store.FetchTasks(ctx, b.projectID)
	if err != nil {
		return fmt.Errorf("fetch tasks: %w", err)
	}
	b.tasks = tasks
	return nil
}

// Tasks returns a copy of the confirmed snapshot in insertion order.
func (b *Board) Tasks() []models.Task {
	out := make([]models.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// CreateTask adds a task to the project. A blank title is rejected before
// any I/O. An empty stage defaults to to-do.
func (b *Board) CreateTask(ctx context.Context, title, description string, stage models.Stage, createdBy string) (models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return models.Task{}, models.Validationf("title", "must not be empty")
	}
	if stage == "" {
		stage = models.StageToDo
	}
	if !stage.Valid() {
		return models.Task{}, models.Validationf("stage", "unknown stage %q", stage)
	}
	task, err := b.store.CreateTask(ctx, b.projectID, TaskDraft{
		Title:       strings.TrimSpace(title),
		Description: description,
		Stage:       stage,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	b.tasks = append(b.tasks, task)
	return task, nil
}

// MoveTask sets a task's stage. Any stage is reachable from any other and
// moving a task onto its current stage succeeds as a no-op, which makes
// drag-and-drop retries harmless.
func (b *Board) MoveTask(ctx context.Context, taskID string, target models.Stage) (models.Task, error) {
	if !target.Valid() {
		return models.Task{}, models.Validationf("stage", "unknown stage %q", target)
	}
	if b.indexOf(taskID) < 0 {
		return models.Task{}, models.NotFound("task", taskID)
	}
	task, err := b.store.UpdateTaskStage(ctx, taskID, target)
	if err != nil {
		return models.Task{}, fmt.Errorf("move task: %w", err)
	}
	if i := b.indexOf(task.ID); i >= 0 {
		b.tasks[i] = task
	}
	return task, nil
}

// AddComment appends a comment to a task. Comments are append-only: the
// store returns the task with the new comment last and existing comments
// untouched.
func (b *Board) AddComment(ctx context.Context, taskID, content, author string, typ models.CommentType) (models.Task, error) {
	if strings.TrimSpace(content) == "" {
		return models.Task{}, models.Validationf("content", "must not be empty")
	}
	if typ == "" {
		typ = models.CommentPlain
	}
	if !typ.Valid() {
		return models.Task{}, models.Validationf("type", "unknown comment type %q", typ)
	}
	if b.indexOf(taskID) < 0 {
		return models.Task{}, models.NotFound("task", taskID)
	}
	task, err := b.store.AppendComment(ctx, taskID, CommentDraft{
		Content: content,
		Author:  author,
		Type:    typ,
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("add comment: %w", err)
	}
	if i := b.indexOf(task.ID); i >= 0 {
		b.tasks[i] = task
	}
	return task, nil
}

// TasksByStage filters the snapshot to one board column, preserving
// insertion order. The view always reflects the latest confirmed mutation.
func (b *Board) TasksByStage(stage models.Stage) []models.Task {
	var out []models.Task
	for _, t := range b.tasks {
		if t.Stage == stage {
			out = append(out, t)
		}
	}
	return out
}

// Rollup is the project-level stage derived from the snapshot.
func (b *Board) Rollup() models.Stage {
	return dashboard.ProjectStage(b.tasks)
}

// Progress is the rollup stage expressed as a fraction of the pipeline.
func (b *Board) Progress() float64 {
	return dashboard.Progress(b.Rollup())
}

func (b *Board) indexOf(taskID string) int {
	for i, t := range b.tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}
